package models

import "time"

// TermMeta is one key/value metadata entry attached to a term.
// A term holds at most one value per key.
type TermMeta struct {
	ID        uint   `gorm:"primaryKey"`
	TermID    uint   `gorm:"not null;uniqueIndex:idx_term_meta_term_key"`
	MetaKey   string `gorm:"size:191;not null;uniqueIndex:idx_term_meta_term_key"`
	MetaValue string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TermMeta) TableName() string {
	return "term_meta"
}
