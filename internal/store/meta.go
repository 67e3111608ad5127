package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"termimage/backend/internal/models"
)

// MetaStore keeps one term_meta row per term under a fixed meta key.
type MetaStore struct {
	db  *gorm.DB
	key string
}

func NewMetaStore(db *gorm.DB, key string) *MetaStore {
	return &MetaStore{db: db, key: key}
}

func (s *MetaStore) Get(ctx context.Context, termID uint) (uint, bool, error) {
	var meta models.TermMeta
	err := s.db.WithContext(ctx).
		Where("term_id = ? AND meta_key = ?", termID, s.key).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get term meta: %w", err)
	}
	return parseImageID(meta.MetaValue)
}

func (s *MetaStore) GetMany(ctx context.Context, termIDs []uint) (map[uint]uint, error) {
	result := make(map[uint]uint, len(termIDs))
	if len(termIDs) == 0 {
		return result, nil
	}

	var metas []models.TermMeta
	err := s.db.WithContext(ctx).
		Where("term_id IN ? AND meta_key = ?", termIDs, s.key).
		Find(&metas).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get term meta: %w", err)
	}
	for _, meta := range metas {
		imageID, ok, err := parseImageID(meta.MetaValue)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", meta.TermID, err)
		}
		if ok {
			result[meta.TermID] = imageID
		}
	}
	return result, nil
}

func (s *MetaStore) Set(ctx context.Context, termID, imageID uint) error {
	if imageID == 0 {
		return ErrZeroImage
	}
	meta := models.TermMeta{
		TermID:    termID,
		MetaKey:   s.key,
		MetaValue: strconv.FormatUint(uint64(imageID), 10),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "term_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to set term meta: %w", err)
	}
	return nil
}

func (s *MetaStore) Remove(ctx context.Context, termID uint) error {
	err := s.db.WithContext(ctx).
		Where("term_id = ? AND meta_key = ?", termID, s.key).
		Delete(&models.TermMeta{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete term meta: %w", err)
	}
	return nil
}

// parseImageID reads a stored value. An empty or zero value counts as absent.
func parseImageID(value string) (uint, bool, error) {
	if value == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt image id %q: %w", value, err)
	}
	if id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}
