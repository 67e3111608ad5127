package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"termimage/backend/internal/models"
)

var termColumns = []string{"id", "name", "slug", "taxonomy", "description", "parent_id"}

func newMockRepository(t *testing.T) (*TermRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewTermRepository(db), mock
}

func expectSlugCount(mock sqlmock.Sqlmock, count int) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "terms" WHERE \(?taxonomy = .* AND slug = `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestTermRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)

	expectSlugCount(mock, 0)
	mock.ExpectQuery(`INSERT INTO "terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	term := &models.Term{Name: "Travel", Slug: "travel", Taxonomy: "category"}
	require.NoError(t, repo.Create(context.Background(), term))
	assert.Equal(t, uint(5), term.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_Create_SlugTaken(t *testing.T) {
	repo, mock := newMockRepository(t)

	expectSlugCount(mock, 1)

	err := repo.Create(context.Background(), &models.Term{Name: "Travel", Slug: "travel", Taxonomy: "category"})
	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_Update(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "terms" WHERE .*id <> `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "terms" SET .*"name"=.*"slug"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	term := &models.Term{Name: "Trips", Slug: "trips", Taxonomy: "category"}
	term.ID = 5
	found, err := repo.Update(context.Background(), term)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_Update_Missing(t *testing.T) {
	repo, mock := newMockRepository(t)

	expectSlugCount(mock, 0)
	mock.ExpectExec(`UPDATE "terms"`).WillReturnResult(sqlmock.NewResult(0, 0))

	term := &models.Term{Name: "Trips", Slug: "trips", Taxonomy: "category"}
	term.ID = 99
	found, err := repo.Update(context.Background(), term)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTermRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM "terms" WHERE taxonomy = .* AND "terms"."id" = `).WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "category", 5)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_Delete_Missing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM "terms"`).WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "category", 5)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTermRepository_DeleteFreesSlug(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM "terms"`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectSlugCount(mock, 0)
	mock.ExpectQuery(`INSERT INTO "terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))

	deleted, err := repo.Delete(context.Background(), "category", 5)
	require.NoError(t, err)
	require.True(t, deleted)

	term := &models.Term{Name: "Travel", Slug: "travel", Taxonomy: "category"}
	require.NoError(t, repo.Create(context.Background(), term))
	assert.Equal(t, uint(6), term.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_Create_SlugHeldByLegacySoftDelete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "terms" WHERE taxonomy = \$1 AND slug = \$2$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Create(context.Background(), &models.Term{Name: "Travel", Slug: "travel", Taxonomy: "category"})
	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_Get(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE taxonomy = .* AND "terms"."id" = `).
		WillReturnRows(sqlmock.NewRows(termColumns).AddRow(5, "Travel", "travel", "category", "", nil))

	term, err := repo.Get(context.Background(), "category", 5)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "Travel", term.Name)
	assert.Nil(t, term.ParentID)
}

func TestTermRepository_Get_Missing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "terms"`).WillReturnRows(sqlmock.NewRows(termColumns))

	term, err := repo.Get(context.Background(), "category", 5)
	require.NoError(t, err)
	assert.Nil(t, term)
}

func TestTermRepository_Get_Error(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "terms"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "category", 5)
	assert.ErrorContains(t, err, "connection reset")
}

func TestTermRepository_List(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "terms" WHERE taxonomy = .* AND \(LOWER\(name\) LIKE .* OR LOWER\(slug\) LIKE .*\) AND id IN `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE .* ORDER BY name ASC,id ASC LIMIT `).
		WillReturnRows(sqlmock.NewRows(termColumns).
			AddRow(6, "Trains", "trains", "category", "", nil).
			AddRow(5, "Travel", "travel", "category", "", nil))

	terms, total, err := repo.List(context.Background(), TermQuery{
		Taxonomy: "category",
		Search:   " TR ",
		Include:  []uint{5, 6, 7},
		Page:     NewPage(1, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, terms, 2)
	assert.Equal(t, "trains", terms[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_List_CountError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "terms"`).WillReturnError(errors.New("timeout"))

	_, _, err := repo.List(context.Background(), TermQuery{Taxonomy: "category"})
	assert.ErrorContains(t, err, "failed to list category terms: failed to count rows: timeout")
}

func TestTermRepository_List_SecondPage(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "terms" WHERE taxonomy = `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE .* ORDER BY name ASC,id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("category", 2, 2).
		WillReturnRows(sqlmock.NewRows(termColumns).AddRow(7, "Walks", "walks", "category", "", nil))

	terms, total, err := repo.List(context.Background(), TermQuery{Taxonomy: "category", Page: NewPage(2, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, terms, 1)
	assert.Equal(t, "walks", terms[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}
