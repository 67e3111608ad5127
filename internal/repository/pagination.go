package repository

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects one page of a listing. Use NewPage to build one from user input.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size to a valid page.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows before the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages is the number of pages needed for total rows.
func (p Page) TotalPages(total int64) int {
	if p.Size < 1 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// Paginate counts the rows matched by query and loads the requested page in
// the order already set on it. query must have its model set.
func Paginate[T any](query *gorm.DB, page Page) ([]T, int64, error) {
	page = NewPage(page.Number, page.Size)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rows: %w", err)
	}

	var rows []T
	if err := query.Offset(page.Offset()).Limit(page.Size).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load page %d: %w", page.Number, err)
	}
	return rows, total, nil
}
