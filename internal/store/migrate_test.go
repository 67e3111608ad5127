package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateLegacy_CopiesEveryEntry(t *testing.T) {
	db, mock := newMockDB(t)
	legacy := NewOptionStore(db, DefaultOptionName)
	dst := NewMemoryStore()

	expectOptionLoad(mock, `{"3":30,"1":10,"2":20}`)

	n, err := MigrateLegacy(context.Background(), legacy, dst, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := dst.GetMany(context.Background(), []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint]uint{1: 10, 2: 20, 3: 30}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateLegacy_Purge(t *testing.T) {
	db, mock := newMockDB(t)
	legacy := NewOptionStore(db, DefaultOptionName)

	expectOptionLoad(mock, `{"1":10}`)
	mock.ExpectExec(`DELETE FROM "options" WHERE name = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := MigrateLegacy(context.Background(), legacy, NewMemoryStore(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type failingStore struct {
	*MemoryStore
	failOn uint
}

func (s *failingStore) Set(ctx context.Context, termID, imageID uint) error {
	if termID == s.failOn {
		return errors.New("write refused")
	}
	return s.MemoryStore.Set(ctx, termID, imageID)
}

func TestMigrateLegacy_StopsAtFirstFailureWithoutPurging(t *testing.T) {
	db, mock := newMockDB(t)
	legacy := NewOptionStore(db, DefaultOptionName)
	dst := &failingStore{MemoryStore: NewMemoryStore(), failOn: 2}

	expectOptionLoad(mock, `{"1":10,"2":20,"3":30}`)

	n, err := MigrateLegacy(context.Background(), legacy, dst, true)
	assert.ErrorContains(t, err, "term 2")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, dst.Len())
	assert.NoError(t, mock.ExpectationsWereMet(), "no purge after a failed copy")
}
