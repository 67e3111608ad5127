package models

import "time"

// Option is a named site-wide setting holding a serialized value.
type Option struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:191;not null;uniqueIndex"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
