package models

import "time"

// UserTag holds the full set of users tagged on a post. One row per post.
type UserTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex" json:"post_id"`
	UserIDs   []uint    `gorm:"type:text;serializer:json;not null" json:"user_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostTag holds the full set of hashtags on a post. One row per post.
type PostTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex" json:"post_id"`
	Hashtags  []string  `gorm:"type:text;serializer:json;not null" json:"hashtags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
