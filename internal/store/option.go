package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"termimage/backend/internal/models"
)

// OptionStore is the legacy backend: the whole mapping lives serialized in
// one options row and every write rewrites all of it. Two concurrent writers
// can lose each other's update; MetaStore does not have this problem.
type OptionStore struct {
	db   *gorm.DB
	name string
}

func NewOptionStore(db *gorm.DB, name string) *OptionStore {
	return &OptionStore{db: db, name: name}
}

func (s *OptionStore) Get(ctx context.Context, termID uint) (uint, bool, error) {
	mapping, err := s.Load(ctx)
	if err != nil {
		return 0, false, err
	}
	imageID, ok := mapping[termID]
	return imageID, ok, nil
}

func (s *OptionStore) GetMany(ctx context.Context, termIDs []uint) (map[uint]uint, error) {
	mapping, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]uint, len(termIDs))
	for _, termID := range termIDs {
		if imageID, ok := mapping[termID]; ok {
			result[termID] = imageID
		}
	}
	return result, nil
}

func (s *OptionStore) Set(ctx context.Context, termID, imageID uint) error {
	if imageID == 0 {
		return ErrZeroImage
	}
	mapping, err := s.Load(ctx)
	if err != nil {
		return err
	}
	mapping[termID] = imageID
	return s.save(ctx, mapping)
}

func (s *OptionStore) Remove(ctx context.Context, termID uint) error {
	mapping, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := mapping[termID]; !ok {
		return nil
	}
	delete(mapping, termID)
	return s.save(ctx, mapping)
}

// Load returns the complete stored mapping. A missing option is an empty mapping.
func (s *OptionStore) Load(ctx context.Context) (map[uint]uint, error) {
	var option models.Option
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&option).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[uint]uint{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load option %s: %w", s.name, err)
	}

	mapping := map[uint]uint{}
	if option.Value == "" {
		return mapping, nil
	}
	if err := json.Unmarshal([]byte(option.Value), &mapping); err != nil {
		return nil, fmt.Errorf("failed to decode option %s: %w", s.name, err)
	}
	for termID, imageID := range mapping {
		if imageID == 0 {
			delete(mapping, termID)
		}
	}
	return mapping, nil
}

// Purge deletes the option row entirely.
func (s *OptionStore) Purge(ctx context.Context) error {
	err := s.db.WithContext(ctx).Where("name = ?", s.name).Delete(&models.Option{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete option %s: %w", s.name, err)
	}
	return nil
}

func (s *OptionStore) save(ctx context.Context, mapping map[uint]uint) error {
	value, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to encode option %s: %w", s.name, err)
	}
	option := models.Option{Name: s.name, Value: string(value)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&option).Error
	if err != nil {
		return fmt.Errorf("failed to save option %s: %w", s.name, err)
	}
	return nil
}
