// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/lumenpass/lumenpass/internal/app"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// Output formats accepted by the --format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// validateFormat rejects unknown --format values.
func validateFormat(format string) error {
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
	return nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(out io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(jsonBytes))
	return err
}

// visitorOutput is the JSON shape of a visitor printed by the CLI.
type visitorOutput struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone,omitempty"`
	Purpose          string    `json:"purpose,omitempty"`
	Status           string    `json:"status"`
	VerifiedBy       *string   `json:"verified_by"`
	CreatedAt        time.Time `json:"created_at"`
	DecryptionFailed bool      `json:"decryption_failed,omitempty"`
}

func newVisitorOutput(visitor *visitorDomain.DecryptedVisitor) visitorOutput {
	return visitorOutput{
		ID:               visitor.ID,
		Name:             visitor.Name,
		Phone:            visitor.Phone,
		Purpose:          visitor.Purpose,
		Status:           string(visitor.Status),
		VerifiedBy:       visitor.VerifiedBy,
		CreatedAt:        visitor.CreatedAt,
		DecryptionFailed: visitor.DecryptionFailed,
	}
}

// writeVisitor prints a decrypted visitor in the requested format.
func writeVisitor(out io.Writer, visitor *visitorDomain.DecryptedVisitor, format string) error {
	if format == FormatJSON {
		return writeJSON(out, newVisitorOutput(visitor))
	}

	verifiedBy := "-"
	if visitor.VerifiedBy != nil {
		verifiedBy = *visitor.VerifiedBy
	}

	_, err := fmt.Fprintf(out,
		"ID:          %d\nName:        %s\nPhone:       %s\nPurpose:     %s\nStatus:      %s\nVerified by: %s\nRegistered:  %s\n",
		visitor.ID,
		visitor.Name,
		visitor.Phone,
		visitor.Purpose,
		visitor.Status,
		verifiedBy,
		visitor.CreatedAt.Format(time.RFC3339),
	)
	return err
}
