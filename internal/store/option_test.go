package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var optionColumns = []string{"id", "name", "value"}

func expectOptionLoad(mock sqlmock.Sqlmock, value string) {
	rows := sqlmock.NewRows(optionColumns)
	if value != "" {
		rows.AddRow(1, DefaultOptionName, value)
	}
	mock.ExpectQuery(`SELECT \* FROM "options" WHERE name = `).WillReturnRows(rows)
}

func TestOptionStore_Get(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, `{"5":42,"7":9}`)
	imageID, ok, err := s.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), imageID)

	expectOptionLoad(mock, `{"5":42,"7":9}`)
	_, ok, err = s.Get(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionStore_MissingOptionIsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, "")
	mapping, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mapping)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionStore_CorruptOption(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, `a:1:{i:5;i:42;}`)
	_, _, err := s.Get(context.Background(), 5)
	assert.Error(t, err)
}

func TestOptionStore_SetRewritesWholeMapping(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, `{"7":9}`)
	mock.ExpectQuery(`INSERT INTO "options" .*ON CONFLICT .*DO UPDATE SET`).
		WithArgs(DefaultOptionName, `{"5":42,"7":9}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(t, s.Set(context.Background(), 5, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionStore_RemoveAbsentDoesNotWrite(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, `{"7":9}`)
	require.NoError(t, s.Remove(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionStore_Remove(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, `{"5":42,"7":9}`)
	mock.ExpectQuery(`INSERT INTO "options"`).
		WithArgs(DefaultOptionName, `{"7":9}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(t, s.Remove(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
