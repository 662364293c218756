package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a music post authored by a single user.
type Post struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Year           int            `json:"year,omitempty"`
	Genre          string         `gorm:"size:100;not null" json:"genre"`
	Image          string         `json:"image,omitempty"`
	LinkSoundcloud string         `json:"link_soundcloud,omitempty"`
	LinkYoutube    string         `json:"link_youtube,omitempty"`
	LinkSpotify    string         `json:"link_spotify,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
