// Package repository holds the host's gorm-backed term persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"termimage/backend/internal/models"
)

// ErrSlugTaken is returned when another term of the taxonomy already uses the slug.
var ErrSlugTaken = errors.New("slug already exists in this taxonomy")

// TermQuery filters a term listing.
type TermQuery struct {
	Taxonomy string
	Search   string
	Include  []uint
	Page     Page
}

// TermRepository persists terms.
type TermRepository struct {
	db *gorm.DB
}

func NewTermRepository(db *gorm.DB) *TermRepository {
	return &TermRepository{db: db}
}

// Create inserts term. Its slug must be free within the taxonomy.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	if err := r.ensureSlugFree(ctx, term.Taxonomy, term.Slug, 0); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(term).Error; err != nil {
		return fmt.Errorf("failed to create term: %w", err)
	}
	return nil
}

// Update writes the editable columns of term. It returns false when the term
// does not exist.
func (r *TermRepository) Update(ctx context.Context, term *models.Term) (bool, error) {
	if err := r.ensureSlugFree(ctx, term.Taxonomy, term.Slug, term.ID); err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).
		Model(term).
		Where("taxonomy = ?", term.Taxonomy).
		Select("name", "slug", "description", "parent_id").
		Updates(term)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update term %d: %w", term.ID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the term row for good, so its slug can be taken again.
// It returns false when nothing was deleted.
func (r *TermRepository) Delete(ctx context.Context, taxonomy string, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Unscoped().Where("taxonomy = ?", taxonomy).Delete(&models.Term{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete term %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Get returns the term, or nil when it does not exist in taxonomy.
func (r *TermRepository) Get(ctx context.Context, taxonomy string, id uint) (*models.Term, error) {
	var term models.Term
	err := r.db.WithContext(ctx).Where("taxonomy = ?", taxonomy).First(&term, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term %d: %w", id, err)
	}
	return &term, nil
}

// List returns one page of the taxonomy's terms ordered by name, plus the
// total number of matching terms.
func (r *TermRepository) List(ctx context.Context, q TermQuery) ([]*models.Term, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Term{}).Where("taxonomy = ?", q.Taxonomy)
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
	}
	if len(q.Include) > 0 {
		query = query.Where("id IN ?", q.Include)
	}

	terms, total, err := Paginate[*models.Term](query.Order("name ASC").Order("id ASC"), q.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s terms: %w", q.Taxonomy, err)
	}
	return terms, total, nil
}

func (r *TermRepository) ensureSlugFree(ctx context.Context, taxonomy, slug string, exceptID uint) error {
	// Unscoped so rows soft deleted by earlier releases, which still hold the
	// unique index, count as taken.
	query := r.db.WithContext(ctx).Unscoped().Model(&models.Term{}).Where("taxonomy = ? AND slug = ?", taxonomy, slug)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}
