package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
	credentialUseCase "github.com/lumenpass/lumenpass/internal/credential/usecase"
	"github.com/lumenpass/lumenpass/internal/database"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// MigrationBatchSize is the page size used when walking the visitors table.
const MigrationBatchSize = 100

type visitorUseCase struct {
	txManager   database.TxManager
	visitorRepo VisitorRepository
	credentials credentialUseCase.CredentialUseCase
	logger      *slog.Logger
}

// NewVisitorUseCase creates a visitor use case.
func NewVisitorUseCase(
	txManager database.TxManager,
	visitorRepo VisitorRepository,
	credentials credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
) VisitorUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &visitorUseCase{
		txManager:   txManager,
		visitorRepo: visitorRepo,
		credentials: credentials,
		logger:      logger,
	}
}

// Register seals phone and purpose, inserts the row and renders the pass in one
// transaction, so a pass that cannot be rendered leaves no record behind.
func (v *visitorUseCase) Register(
	ctx context.Context,
	input visitorDomain.RegisterVisitorInput,
) (*visitorDomain.RegisteredVisitor, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	phoneEnvelope, err := v.credentials.Seal(ctx, input.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to seal phone: %w", err)
	}
	purposeEnvelope, err := v.credentials.Seal(ctx, input.Purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to seal purpose: %w", err)
	}

	visitor := &visitorDomain.Visitor{
		Name:             input.Name,
		EncryptedPhone:   phoneEnvelope,
		EncryptedPurpose: purposeEnvelope,
		Status:           visitorDomain.StatusCheckedIn,
		CreatedAt:        time.Now().UTC(),
	}

	var registered *visitorDomain.RegisteredVisitor
	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := v.visitorRepo.Create(txCtx, visitor); err != nil {
			return err
		}

		token := v.tokenFor(visitor)
		png, err := v.credentials.RenderPNG(txCtx, token)
		if err != nil {
			return err
		}

		registered = &visitorDomain.RegisteredVisitor{Visitor: visitor, Token: token, PNG: png}
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info("visitor registered", slog.Int64("visitor_id", visitor.ID))
	return registered, nil
}

func (v *visitorUseCase) tokenFor(visitor *visitorDomain.Visitor) string {
	token := credentialDomain.Pack(visitor.ID, visitor.EncryptedPhone, visitor.EncryptedPurpose)
	if len(token) > credentialDomain.MaxTokenBytes {
		v.logger.Warn("credential token is unusually long",
			slog.Int64("visitor_id", visitor.ID),
			slog.Int("bytes", len(token)),
		)
	}
	return token
}

func (v *visitorUseCase) Get(ctx context.Context, id int64) (*visitorDomain.DecryptedVisitor, error) {
	visitor, err := v.visitorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.decrypt(ctx, visitor)
}

func (v *visitorUseCase) decrypt(
	ctx context.Context,
	visitor *visitorDomain.Visitor,
) (*visitorDomain.DecryptedVisitor, error) {
	phone, err := v.credentials.Open(ctx, visitor.EncryptedPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to open phone of visitor %d: %w", visitor.ID, err)
	}
	purpose, err := v.credentials.Open(ctx, visitor.EncryptedPurpose)
	if err != nil {
		return nil, fmt.Errorf("failed to open purpose of visitor %d: %w", visitor.ID, err)
	}
	return &visitorDomain.DecryptedVisitor{Visitor: *visitor, Phone: phone, Purpose: purpose}, nil
}

func (v *visitorUseCase) List(ctx context.Context, offset, limit int) ([]*visitorDomain.DecryptedVisitor, error) {
	visitors, err := v.visitorRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	decrypted := make([]*visitorDomain.DecryptedVisitor, 0, len(visitors))
	for _, visitor := range visitors {
		item, err := v.decrypt(ctx, visitor)
		if err != nil {
			v.logger.Warn("visitor envelope could not be opened",
				slog.Int64("visitor_id", visitor.ID),
				slog.Any("error", err),
			)
			item = &visitorDomain.DecryptedVisitor{Visitor: *visitor, DecryptionFailed: true}
		}
		decrypted = append(decrypted, item)
	}
	return decrypted, nil
}

func (v *visitorUseCase) CheckOut(ctx context.Context, id int64) (*visitorDomain.Visitor, error) {
	var visitor *visitorDomain.Visitor
	err := v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := v.visitorRepo.Get(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status == visitorDomain.StatusCheckedOut {
			return visitorDomain.ErrAlreadyCheckedOut
		}
		if err := v.visitorRepo.UpdateStatus(txCtx, id, visitorDomain.StatusCheckedOut); err != nil {
			return err
		}
		current.Status = visitorDomain.StatusCheckedOut
		visitor = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info("visitor checked out", slog.Int64("visitor_id", id))
	return visitor, nil
}

// VerifyToken answers with the phone and purpose carried by the pass itself, so a pass
// issued before a migration still verifies after its row was resealed.
func (v *visitorUseCase) VerifyToken(
	ctx context.Context,
	token, verifiedBy string,
) (*visitorDomain.DecryptedVisitor, error) {
	redeemed, err := v.credentials.Redeem(ctx, token)
	if err != nil {
		return nil, err
	}

	visitor, err := v.visitorRepo.Get(ctx, redeemed.ID)
	if err != nil {
		return nil, err
	}

	if verifiedBy != "" {
		if err := v.visitorRepo.SetVerifiedBy(ctx, visitor.ID, verifiedBy); err != nil {
			return nil, err
		}
		visitor.VerifiedBy = &verifiedBy
	}

	v.logger.Info("visitor pass verified",
		slog.Int64("visitor_id", visitor.ID),
		slog.String("verified_by", verifiedBy),
	)
	return &visitorDomain.DecryptedVisitor{
		Visitor: *visitor,
		Phone:   redeemed.Phone,
		Purpose: redeemed.Purpose,
	}, nil
}

func (v *visitorUseCase) ScanAndVerify(
	ctx context.Context,
	timeout time.Duration,
	verifiedBy string,
) (*visitorDomain.DecryptedVisitor, error) {
	token, found, err := v.credentials.RunScan(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, visitorDomain.ErrCredentialNotFound
	}
	return v.VerifyToken(ctx, token, verifiedBy)
}

func (v *visitorUseCase) CredentialPNG(ctx context.Context, id int64) ([]byte, error) {
	visitor, err := v.visitorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.credentials.RenderPNG(ctx, v.tokenFor(visitor))
}

// MigrateLegacyEnvelopes walks every row, resealing only the fields still in the legacy
// format. A row that fails is counted and skipped. Cancelling ctx stops the walk and
// returns the stats gathered so far together with the context error.
func (v *visitorUseCase) MigrateLegacyEnvelopes(ctx context.Context) (*visitorDomain.MigrationStats, error) {
	stats := &visitorDomain.MigrationStats{}

	for offset := 0; ; offset += MigrationBatchSize {
		visitors, err := v.visitorRepo.List(ctx, offset, MigrationBatchSize)
		if err != nil {
			return stats, err
		}

		for _, visitor := range visitors {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			stats.TotalRows++
			fields, err := v.migrateRow(ctx, visitor)
			if err != nil {
				stats.RowsFailed++
				v.logger.Warn("legacy migration failed for visitor",
					slog.Int64("visitor_id", visitor.ID),
					slog.Any("error", err),
				)
				continue
			}
			if fields > 0 {
				stats.RowsMigrated++
				stats.FieldsMigrated += fields
			}
		}

		if len(visitors) < MigrationBatchSize {
			break
		}
	}

	v.logger.Info("legacy migration finished",
		slog.Int("total_rows", stats.TotalRows),
		slog.Int("rows_migrated", stats.RowsMigrated),
		slog.Int("fields_migrated", stats.FieldsMigrated),
		slog.Int("rows_failed", stats.RowsFailed),
	)
	return stats, nil
}

func (v *visitorUseCase) migrateRow(ctx context.Context, visitor *visitorDomain.Visitor) (int, error) {
	phone, phoneMigrated, err := v.migrateField(ctx, visitor.EncryptedPhone)
	if err != nil {
		return 0, fmt.Errorf("phone: %w", err)
	}
	purpose, purposeMigrated, err := v.migrateField(ctx, visitor.EncryptedPurpose)
	if err != nil {
		return 0, fmt.Errorf("purpose: %w", err)
	}

	fields := 0
	if phoneMigrated {
		fields++
	}
	if purposeMigrated {
		fields++
	}
	if fields == 0 {
		return 0, nil
	}

	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return v.visitorRepo.UpdateEnvelopes(txCtx, visitor.ID, phone, purpose)
	})
	if err != nil {
		return 0, err
	}
	return fields, nil
}

// migrateField returns the envelope to store: the resealed one, or the original when current.
func (v *visitorUseCase) migrateField(ctx context.Context, envelope string) (string, bool, error) {
	migrated, ok, err := v.credentials.MigrateLegacy(ctx, envelope)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return envelope, false, nil
	}
	return migrated, true, nil
}
