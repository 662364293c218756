package models

import (
	"time"

	"gorm.io/gorm"
)

// Like represents a user's like on a post.
// Exactly one row exists per (post, user) pair; a set DeletedAt means the like was revoked.
type Like struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_like_post_user;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Active reports whether the like has not been revoked.
func (l *Like) Active() bool {
	return !l.DeletedAt.Valid
}

// Like toggle outcomes.
const (
	LikeActionLiked   = "liked"
	LikeActionUnliked = "unliked"
)

// LikeToggleResult is returned by a like toggle.
type LikeToggleResult struct {
	Action    string `json:"action"`
	PostID    uint   `json:"post_id"`
	LikeCount int64  `json:"like_count"`
	IsLiked   bool   `json:"is_liked"`
}
