package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metaColumns = []string{"id", "term_id", "meta_key", "meta_value"}

func TestMetaStore_Get(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	mock.ExpectQuery(`SELECT \* FROM "term_meta" WHERE .*term_id = .*meta_key = `).
		WillReturnRows(sqlmock.NewRows(metaColumns).AddRow(1, 5, DefaultMetaKey, "42"))

	imageID, ok, err := s.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), imageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetaStore_Get_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	mock.ExpectQuery(`SELECT \* FROM "term_meta"`).
		WillReturnRows(sqlmock.NewRows(metaColumns))

	_, ok, err := s.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetaStore_Get_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	mock.ExpectQuery(`SELECT \* FROM "term_meta"`).WillReturnError(errors.New("connection reset"))

	_, _, err := s.Get(context.Background(), 5)
	assert.ErrorContains(t, err, "connection reset")
}

func TestMetaStore_GetMany(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	mock.ExpectQuery(`SELECT \* FROM "term_meta" WHERE .*term_id IN \(`).
		WillReturnRows(sqlmock.NewRows(metaColumns).
			AddRow(1, 5, DefaultMetaKey, "42").
			AddRow(2, 6, DefaultMetaKey, "0"))

	got, err := s.GetMany(context.Background(), []uint{5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, map[uint]uint{5: 42}, got, "a stored zero reads as absent")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetaStore_GetMany_NoTermsSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	got, err := s.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetaStore_Set_Upserts(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	mock.ExpectQuery(`INSERT INTO "term_meta" .*ON CONFLICT .*DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(t, s.Set(context.Background(), 5, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetaStore_Set_RejectsZero(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	assert.ErrorIs(t, s.Set(context.Background(), 5, 0), ErrZeroImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetaStore_Remove(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMetaStore(db, DefaultMetaKey)

	mock.ExpectExec(`DELETE FROM "term_meta" WHERE .*term_id = .*meta_key = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Remove(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseImageID(t *testing.T) {
	tests := []struct {
		value string
		want  uint
		ok    bool
		err   bool
	}{
		{"42", 42, true, false},
		{"", 0, false, false},
		{"0", 0, false, false},
		{"-1", 0, false, true},
		{"abc", 0, false, true},
	}
	for _, tt := range tests {
		got, ok, err := parseImageID(tt.value)
		assert.Equal(t, tt.want, got, tt.value)
		assert.Equal(t, tt.ok, ok, tt.value)
		assert.Equal(t, tt.err, err != nil, tt.value)
	}
}
