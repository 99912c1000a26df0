// Package repository implements data persistence for visitor records.
// Repositories support both PostgreSQL and MySQL and honor transactions carried in the context.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lumenpass/lumenpass/internal/database"
	apperrors "github.com/lumenpass/lumenpass/internal/errors"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

const visitorColumns = `id, name, encrypted_phone, encrypted_purpose, status, verified_by, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(row rowScanner) (*visitorDomain.Visitor, error) {
	var visitor visitorDomain.Visitor
	var verifiedBy sql.NullString

	err := row.Scan(
		&visitor.ID,
		&visitor.Name,
		&visitor.EncryptedPhone,
		&visitor.EncryptedPurpose,
		&visitor.Status,
		&verifiedBy,
		&visitor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if verifiedBy.Valid {
		visitor.VerifiedBy = &verifiedBy.String
	}
	return &visitor, nil
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return visitorDomain.ErrVisitorNotFound
	}
	return nil
}

// PostgreSQLVisitorRepository implements Visitor persistence for PostgreSQL databases.
type PostgreSQLVisitorRepository struct {
	db *sql.DB
}

// Create inserts a new visitor and sets its generated ID.
func (p *PostgreSQLVisitorRepository) Create(ctx context.Context, visitor *visitorDomain.Visitor) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO visitors (name, encrypted_phone, encrypted_purpose, status, verified_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		visitor.Name,
		visitor.EncryptedPhone,
		visitor.EncryptedPurpose,
		visitor.Status,
		visitor.VerifiedBy,
		visitor.CreatedAt,
	).Scan(&visitor.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create visitor")
	}
	return nil
}

// Get retrieves a visitor by ID.
func (p *PostgreSQLVisitorRepository) Get(ctx context.Context, id int64) (*visitorDomain.Visitor, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE id = $1`

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
func (p *PostgreSQLVisitorRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*visitorDomain.Visitor, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + visitorColumns + `
			  FROM visitors
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

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
func (p *PostgreSQLVisitorRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status visitorDomain.Status,
) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE visitors SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update visitor status")
	}
	return expectAffected(result)
}

// SetVerifiedBy records who verified the visitor's pass.
func (p *PostgreSQLVisitorRepository) SetVerifiedBy(ctx context.Context, id int64, verifiedBy string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE visitors SET verified_by = $1 WHERE id = $2`, verifiedBy, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set visitor verifier")
	}
	return expectAffected(result)
}

// UpdateEnvelopes replaces the sealed phone and purpose of a visitor.
func (p *PostgreSQLVisitorRepository) UpdateEnvelopes(
	ctx context.Context,
	id int64,
	encryptedPhone, encryptedPurpose string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE visitors SET encrypted_phone = $1, encrypted_purpose = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, encryptedPhone, encryptedPurpose, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update visitor envelopes")
	}
	return expectAffected(result)
}

// NewPostgreSQLVisitorRepository creates a new PostgreSQL Visitor repository instance.
func NewPostgreSQLVisitorRepository(db *sql.DB) *PostgreSQLVisitorRepository {
	return &PostgreSQLVisitorRepository{db: db}
}
