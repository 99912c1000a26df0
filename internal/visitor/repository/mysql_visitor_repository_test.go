package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

func TestNewMySQLVisitorRepository(t *testing.T) {
	db, _ := newMockDB(t)

	repo := NewMySQLVisitorRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &MySQLVisitorRepository{}, repo)
}

func TestMySQLVisitorRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		visitor := &visitorDomain.Visitor{
			Name:             "Asha Rao",
			EncryptedPhone:   "phone-envelope",
			EncryptedPurpose: "purpose-envelope",
			Status:           visitorDomain.StatusCheckedIn,
			CreatedAt:        createdAt,
		}

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO visitors`)).
			WithArgs("Asha Rao", "phone-envelope", "purpose-envelope", "checked_in", nil, createdAt).
			WillReturnResult(sqlmock.NewResult(31, 1))

		require.NoError(t, repo.Create(ctx, visitor))
		assert.Equal(t, int64(31), visitor.ID)
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO visitors`)).
			WillReturnError(errors.New("duplicate"))

		err := repo.Create(ctx, &visitorDomain.Visitor{Status: visitorDomain.StatusCheckedIn})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create visitor")
	})
}

func TestMySQLVisitorRepository_Get(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM visitors WHERE id = ?`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(visitorRowColumns).
				AddRow(int64(3), "Asha Rao", "pe", "re", "checked_in", nil, createdAt))

		visitor, err := repo.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", visitor.Name)
		assert.Equal(t, "pe", visitor.EncryptedPhone)
		assert.Equal(t, "re", visitor.EncryptedPurpose)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM visitors WHERE id = ?`)).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, 9)
		assert.ErrorIs(t, err, visitorDomain.ErrVisitorNotFound)
	})
}

func TestMySQLVisitorRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLVisitorRepository(db)
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT ? OFFSET ?`)).
		WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows(visitorRowColumns).
			AddRow(int64(8), "H", "pe", "re", "checked_in", nil, createdAt).
			AddRow(int64(7), "G", "pe", "re", "checked_in", nil, createdAt))

	visitors, err := repo.List(context.Background(), 4, 2)
	require.NoError(t, err)
	require.Len(t, visitors, 2)
	assert.Equal(t, int64(8), visitors[0].ID)
}

func TestMySQLVisitorRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Changed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE visitors SET status = ? WHERE id = ?`)).
			WithArgs("checked_out", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 5, visitorDomain.StatusCheckedOut))
	})

	t.Run("Unchanged_RowExists", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE visitors SET status = ? WHERE id = ?`)).
			WithArgs("checked_out", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM visitors WHERE id = ?`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		assert.NoError(t, repo.UpdateStatus(ctx, 5, visitorDomain.StatusCheckedOut))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLVisitorRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE visitors SET status = ? WHERE id = ?`)).
			WithArgs("checked_out", int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM visitors WHERE id = ?`)).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		err := repo.UpdateStatus(ctx, 404, visitorDomain.StatusCheckedOut)
		assert.ErrorIs(t, err, visitorDomain.ErrVisitorNotFound)
	})
}

func TestMySQLVisitorRepository_SetVerifiedByAndEnvelopes(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewMySQLVisitorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE visitors SET verified_by = ? WHERE id = ?`)).
		WithArgs("front-desk", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE visitors SET encrypted_phone = ?, encrypted_purpose = ? WHERE id = ?`)).
		WithArgs("p2", "r2", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetVerifiedBy(ctx, 2, "front-desk"))
	require.NoError(t, repo.UpdateEnvelopes(ctx, 2, "p2", "r2"))
}
