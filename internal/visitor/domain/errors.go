package domain

import (
	"github.com/lumenpass/lumenpass/internal/errors"
)

// Visitor error definitions.
var (
	// ErrVisitorNotFound indicates no visitor exists with the requested id.
	ErrVisitorNotFound = errors.Wrap(errors.ErrNotFound, "visitor not found")

	// ErrAlreadyCheckedOut indicates a check-out of a visitor who has already left.
	ErrAlreadyCheckedOut = errors.Wrap(errors.ErrConflict, "visitor already checked out")

	// ErrCredentialNotFound indicates the scan ended without reading a credential.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "no credential found")
)
