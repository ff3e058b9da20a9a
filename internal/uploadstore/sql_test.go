package uploadstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mockDB.ExpectationsWereMet())
		db.Close()
	})
	return NewSQLStore(db), mockDB
}

func TestSQLStore_Put(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s, mockDB := setupSQLStore(t)

		mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO uploads (document_id, local_path) VALUES ($1, $2)")).
			WithArgs("doc-1", "/tmp/a").
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, s.Put(context.Background(), "doc-1", "/tmp/a"))
	})

	t.Run("Failure", func(t *testing.T) {
		s, mockDB := setupSQLStore(t)

		mockDB.ExpectExec("INSERT INTO uploads").
			WillReturnError(errors.New("disk full"))

		err := s.Put(context.Background(), "doc-1", "/tmp/a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestSQLStore_Get(t *testing.T) {
	query := regexp.QuoteMeta("SELECT local_path FROM uploads WHERE document_id = $1")

	t.Run("Success", func(t *testing.T) {
		s, mockDB := setupSQLStore(t)

		mockDB.ExpectQuery(query).WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"local_path"}).AddRow("/tmp/a"))

		path, err := s.Get(context.Background(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/a", path)
	})

	t.Run("Not found", func(t *testing.T) {
		s, mockDB := setupSQLStore(t)

		mockDB.ExpectQuery(query).WithArgs("doc-1").WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), "doc-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Failure", func(t *testing.T) {
		s, mockDB := setupSQLStore(t)

		mockDB.ExpectQuery(query).WithArgs("doc-1").WillReturnError(sql.ErrConnDone)

		_, err := s.Get(context.Background(), "doc-1")
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLStore_Remove(t *testing.T) {
	s, mockDB := setupSQLStore(t)

	mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM uploads WHERE document_id = $1")).
		WithArgs("absent").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Remove(context.Background(), "absent"))
}
