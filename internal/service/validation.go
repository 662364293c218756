package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"flymagine/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,32}$`)
	hashtagPattern  = regexp.MustCompile(`^[\p{L}\p{N}_-]{1,64}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// validateInput runs struct tag validation and reports the first failing field.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		first := vErrs[0]
		return models.NewValidationError(fmt.Sprintf("Field %s failed rule %s", first.Field(), first.Tag()))
	}
	return models.NewValidationError(err.Error())
}

// PageLimits bounds the page size accepted by listings.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPageLimits mirrors the configuration defaults.
var DefaultPageLimits = PageLimits{DefaultSize: 20, MaxSize: 100}

func (l PageLimits) check(page, pageSize int) error {
	if page < 1 {
		return models.NewValidationError("page must be a positive integer")
	}
	if pageSize < 1 {
		return models.NewValidationError("page_size must be a positive integer")
	}
	if l.MaxSize > 0 && pageSize > l.MaxSize {
		return models.NewValidationError(fmt.Sprintf("page_size must not exceed %d", l.MaxSize))
	}
	// offset must stay representable.
	if page-1 > math.MaxInt/pageSize {
		return models.NewValidationError("page is out of range")
	}
	return nil
}

func offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
