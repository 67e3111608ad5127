package models

import "gorm.io/gorm"

// Attachment represents a media asset managed by the media library.
type Attachment struct {
	gorm.Model
	Title        string `gorm:"size:255"`
	MimeType     string `gorm:"size:100;not null;index"`
	URL          string `gorm:"size:1024;not null"`
	ThumbnailURL string `gorm:"size:1024"`
}
