package models

// AuthorSummary is the public projection of a post author.
type AuthorSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	ProfileImage string `json:"profile_image"`
}

// Engagement is the like state of a post as seen by one viewer.
type Engagement struct {
	LikeCount int64 `json:"like_count"`
	IsLiked   bool  `json:"is_liked"`
}

// EnrichedPost is a post with its author summary and viewer-specific engagement.
type EnrichedPost struct {
	Post
	Author AuthorSummary `json:"author"`
	Engagement
}

// Page is one page of records. Items is never nil.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// PostPage is one page of enriched posts.
type PostPage = Page[EnrichedPost]

// NewPage builds a page, computing the page count from the total.
func NewPage[T any](items []T, page, pageSize int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
