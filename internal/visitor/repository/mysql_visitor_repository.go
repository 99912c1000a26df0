package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lumenpass/lumenpass/internal/database"
	apperrors "github.com/lumenpass/lumenpass/internal/errors"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// MySQLVisitorRepository implements Visitor persistence for MySQL databases.
type MySQLVisitorRepository struct {
	db *sql.DB
}

// Create inserts a new visitor and sets its generated ID.
func (m *MySQLVisitorRepository) Create(ctx context.Context, visitor *visitorDomain.Visitor) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO visitors (name, encrypted_phone, encrypted_purpose, status, verified_by, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		visitor.Name,
		visitor.EncryptedPhone,
		visitor.EncryptedPurpose,
		visitor.Status,
		visitor.VerifiedBy,
		visitor.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create visitor")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read visitor id")
	}
	visitor.ID = id

	return nil
}

// Get retrieves a visitor by ID.
func (m *MySQLVisitorRepository) Get(ctx context.Context, id int64) (*visitorDomain.Visitor, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE id = ?`

	visitor, err := scanVisitor(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, visitorDomain.ErrVisitorNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get visitor")
	}
	return visitor, nil
}

// List retrieves visitors newest first with pagination.
func (m *MySQLVisitorRepository) List(ctx context.Context, offset, limit int) ([]*visitorDomain.Visitor, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + visitorColumns + `
			  FROM visitors
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list visitors")
	}
	defer func() {
		_ = rows.Close()
	}()

	visitors := make([]*visitorDomain.Visitor, 0)
	for rows.Next() {
		visitor, err := scanVisitor(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan visitor")
		}
		visitors = append(visitors, visitor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate visitors")
	}

	return visitors, nil
}

// UpdateStatus sets the status of a visitor.
func (m *MySQLVisitorRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status visitorDomain.Status,
) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `UPDATE visitors SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update visitor status")
	}
	return m.expectRow(ctx, querier, result, id)
}

// SetVerifiedBy records who verified the visitor's pass.
func (m *MySQLVisitorRepository) SetVerifiedBy(ctx context.Context, id int64, verifiedBy string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `UPDATE visitors SET verified_by = ? WHERE id = ?`, verifiedBy, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set visitor verifier")
	}
	return m.expectRow(ctx, querier, result, id)
}

// UpdateEnvelopes replaces the sealed phone and purpose of a visitor.
func (m *MySQLVisitorRepository) UpdateEnvelopes(
	ctx context.Context,
	id int64,
	encryptedPhone, encryptedPurpose string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE visitors SET encrypted_phone = ?, encrypted_purpose = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, encryptedPhone, encryptedPurpose, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update visitor envelopes")
	}
	return m.expectRow(ctx, querier, result, id)
}

// expectRow reports ErrVisitorNotFound when an update touched no row. MySQL counts changed
// rows rather than matched ones, so a no-op update is told apart by an existence check.
func (m *MySQLVisitorRepository) expectRow(
	ctx context.Context,
	querier database.Querier,
	result sql.Result,
	id int64,
) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM visitors WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return visitorDomain.ErrVisitorNotFound
		}
		return apperrors.Wrap(err, "failed to check visitor")
	}
	return nil
}

// NewMySQLVisitorRepository creates a new MySQL Visitor repository instance.
func NewMySQLVisitorRepository(db *sql.DB) *MySQLVisitorRepository {
	return &MySQLVisitorRepository{db: db}
}
