package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenpass/lumenpass/internal/testutil"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

type visitorRepository interface {
	Create(ctx context.Context, visitor *visitorDomain.Visitor) error
	Get(ctx context.Context, id int64) (*visitorDomain.Visitor, error)
	List(ctx context.Context, offset, limit int) ([]*visitorDomain.Visitor, error)
	UpdateStatus(ctx context.Context, id int64, status visitorDomain.Status) error
	SetVerifiedBy(ctx context.Context, id int64, verifiedBy string) error
	UpdateEnvelopes(ctx context.Context, id int64, encryptedPhone, encryptedPurpose string) error
}

func TestVisitorRepository_Database(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *sql.DB
		repo  func(db *sql.DB) visitorRepository
	}{
		{
			name:  "postgresql",
			setup: testutil.SetupPostgresDB,
			repo:  func(db *sql.DB) visitorRepository { return NewPostgreSQLVisitorRepository(db) },
		},
		{
			name:  "mysql",
			setup: testutil.SetupMySQLDB,
			repo:  func(db *sql.DB) visitorRepository { return NewMySQLVisitorRepository(db) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := tt.setup(t)
			defer testutil.TeardownDB(t, db)

			repo := tt.repo(db)
			ctx := context.Background()

			first := &visitorDomain.Visitor{
				Name:             "Asha Rao",
				EncryptedPhone:   "phone-1",
				EncryptedPurpose: "purpose-1",
				Status:           visitorDomain.StatusCheckedIn,
				CreatedAt:        time.Now().UTC().Truncate(time.Second),
			}
			second := &visitorDomain.Visitor{
				Name:             "Ravi Menon",
				EncryptedPhone:   "phone-2",
				EncryptedPurpose: "purpose-2",
				Status:           visitorDomain.StatusCheckedIn,
				CreatedAt:        time.Now().UTC().Truncate(time.Second),
			}
			require.NoError(t, repo.Create(ctx, first))
			require.NoError(t, repo.Create(ctx, second))
			assert.Greater(t, second.ID, first.ID)

			got, err := repo.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "Asha Rao", got.Name)
			assert.Nil(t, got.VerifiedBy)
			assert.WithinDuration(t, first.CreatedAt, got.CreatedAt, time.Second)

			visitors, err := repo.List(ctx, 0, 10)
			require.NoError(t, err)
			require.Len(t, visitors, 2)
			assert.Equal(t, second.ID, visitors[0].ID)

			require.NoError(t, repo.UpdateStatus(ctx, first.ID, visitorDomain.StatusCheckedOut))
			require.NoError(t, repo.UpdateStatus(ctx, first.ID, visitorDomain.StatusCheckedOut))
			require.NoError(t, repo.SetVerifiedBy(ctx, first.ID, "front-desk"))
			require.NoError(t, repo.UpdateEnvelopes(ctx, first.ID, "phone-1b", "purpose-1b"))

			got, err = repo.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, visitorDomain.StatusCheckedOut, got.Status)
			require.NotNil(t, got.VerifiedBy)
			assert.Equal(t, "front-desk", *got.VerifiedBy)
			assert.Equal(t, "phone-1b", got.EncryptedPhone)

			_, err = repo.Get(ctx, 999999)
			assert.ErrorIs(t, err, visitorDomain.ErrVisitorNotFound)
			assert.ErrorIs(t, repo.UpdateStatus(ctx, 999999, visitorDomain.StatusCheckedOut), visitorDomain.ErrVisitorNotFound)
		})
	}
}
