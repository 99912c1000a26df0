package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
	visitorUseCase "github.com/lumenpass/lumenpass/internal/visitor/usecase"
)

type registerOutput struct {
	visitorOutput
	Token         string `json:"token"`
	CredentialPNG string `json:"credential_png,omitempty"`
}

// RunRegisterVisitor registers a visitor and prints the new record and its pass token.
// When pngPath is set the pass image is written there.
func RunRegisterVisitor(
	ctx context.Context,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	name, phone, purpose, pngPath, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	input := visitorDomain.RegisterVisitorInput{Name: name, Phone: phone, Purpose: purpose}
	registered, err := visitorUseCase.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to register visitor: %w", err)
	}

	if pngPath != "" {
		if err := os.WriteFile(pngPath, registered.PNG, 0o600); err != nil {
			return fmt.Errorf("failed to write credential image: %w", err)
		}
	}

	normalized := input.Normalize()
	visitor := &visitorDomain.DecryptedVisitor{
		Visitor: *registered.Visitor,
		Phone:   normalized.Phone,
		Purpose: normalized.Purpose,
	}

	if format == FormatJSON {
		return writeJSON(out, registerOutput{
			visitorOutput: newVisitorOutput(visitor),
			Token:         registered.Token,
			CredentialPNG: pngPath,
		})
	}

	if err := writeVisitor(out, visitor, format); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Token:       %s\n", registered.Token); err != nil {
		return err
	}
	if pngPath != "" {
		_, err = fmt.Fprintf(out, "Credential:  %s\n", pngPath)
	}
	return err
}

// RunCheckOut marks a visitor as checked out.
func RunCheckOut(
	ctx context.Context,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	id int64,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	visitor, err := visitorUseCase.CheckOut(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check out visitor: %w", err)
	}

	if format == FormatJSON {
		return writeJSON(out, map[string]any{"id": visitor.ID, "status": visitor.Status})
	}
	_, err = fmt.Fprintf(out, "Visitor %d checked out\n", visitor.ID)
	return err
}

// RunIssueCredential writes the pass image of a stored visitor to outputPath,
// defaulting to visitor-<id>.png in the working directory.
func RunIssueCredential(
	ctx context.Context,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	id int64,
	outputPath string,
) error {
	png, err := visitorUseCase.CredentialPNG(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to issue credential: %w", err)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("visitor-%d.png", id)
	}
	if err := os.WriteFile(outputPath, png, 0o600); err != nil {
		return fmt.Errorf("failed to write credential image: %w", err)
	}

	_, err = fmt.Fprintf(out, "Credential for visitor %d written to %s\n", id, outputPath)
	return err
}

// RunVerifyToken verifies a pass token given as text and prints its visitor.
func RunVerifyToken(
	ctx context.Context,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	token, verifiedBy, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	visitor, err := visitorUseCase.VerifyToken(ctx, token, verifiedBy)
	if err != nil {
		return fmt.Errorf("failed to verify credential: %w", err)
	}
	return writeVisitor(out, visitor, format)
}

// RunScan reads a pass from the camera, verifies it and prints its visitor.
func RunScan(
	ctx context.Context,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	timeout time.Duration,
	verifiedBy, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	visitor, err := visitorUseCase.ScanAndVerify(ctx, timeout, verifiedBy)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return writeVisitor(out, visitor, format)
}

// RunMigrateLegacy reseals every legacy envelope in the visitors table and prints
// the totals. Rows that fail are logged by the use case and counted, not fatal.
func RunMigrateLegacy(
	ctx context.Context,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	stats, err := visitorUseCase.MigrateLegacyEnvelopes(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate legacy envelopes: %w", err)
	}

	if format == FormatJSON {
		return writeJSON(out, map[string]int{
			"total_rows":      stats.TotalRows,
			"rows_migrated":   stats.RowsMigrated,
			"fields_migrated": stats.FieldsMigrated,
			"rows_failed":     stats.RowsFailed,
		})
	}

	_, err = fmt.Fprintf(out,
		"Rows scanned:    %d\nRows migrated:   %d\nFields migrated: %d\nRows failed:     %d\n",
		stats.TotalRows,
		stats.RowsMigrated,
		stats.FieldsMigrated,
		stats.RowsFailed,
	)
	return err
}
