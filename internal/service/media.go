package service

import (
	"net/url"
	"path"
	"strings"

	"flymagine/internal/models"
)

// MediaResolver turns a stored media reference into a URL clients can fetch.
type MediaResolver interface {
	Resolve(ref string) (string, error)
}

// BaseURLResolver serves file names from a fixed base URL. Absolute http(s) URLs are kept.
type BaseURLResolver struct {
	BaseURL string
}

func NewBaseURLResolver(baseURL string) *BaseURLResolver {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &BaseURLResolver{BaseURL: baseURL}
}

func (r *BaseURLResolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", models.NewValidationError("image reference is required")
	}

	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "" {
			return "", models.NewValidationError("image URL must have a host")
		}
		return u.String(), nil
	}

	name := path.Base(path.Clean("/" + ref))
	if name == "/" || name == "." || strings.Contains(ref, "..") {
		return "", models.NewValidationError("invalid image reference")
	}
	return r.BaseURL + url.PathEscape(name), nil
}
