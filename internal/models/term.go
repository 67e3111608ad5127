package models

import "gorm.io/gorm"

// Term represents a taxonomy term (e.g. a category or a tag).
// The slug is unique within its taxonomy.
type Term struct {
	gorm.Model
	Name        string `gorm:"size:200;not null"`
	Slug        string `gorm:"size:200;not null;uniqueIndex:idx_terms_taxonomy_slug"`
	Taxonomy    string `gorm:"size:32;not null;index;uniqueIndex:idx_terms_taxonomy_slug"`
	Description string
	ParentID    *uint `gorm:"index"`

	// Attributes holds values attached by event handlers when the term is
	// read back. It is never persisted.
	Attributes map[string]any `gorm:"-"`
}

// SetAttribute attaches a read-time value to the term.
func (t *Term) SetAttribute(key string, value any) {
	if t.Attributes == nil {
		t.Attributes = make(map[string]any)
	}
	t.Attributes[key] = value
}
