package media

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"termimage/backend/internal/models"
)

// Library resolves media assets managed by the host.
type Library interface {
	// ThumbnailURL returns the preview URL of an image attachment, or "" when
	// the attachment does not exist.
	ThumbnailURL(ctx context.Context, id uint) (string, error)
}

// GormLibrary reads attachments from the database.
type GormLibrary struct {
	db *gorm.DB
}

func NewGormLibrary(db *gorm.DB) *GormLibrary {
	return &GormLibrary{db: db}
}

func (l *GormLibrary) ThumbnailURL(ctx context.Context, id uint) (string, error) {
	if id == 0 {
		return "", nil
	}
	var attachment models.Attachment
	err := l.db.WithContext(ctx).First(&attachment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get attachment %d: %w", id, err)
	}
	if attachment.ThumbnailURL != "" {
		return attachment.ThumbnailURL, nil
	}
	return attachment.URL, nil
}
