package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
	visitorMocks "github.com/lumenpass/lumenpass/internal/visitor/usecase/mocks"
)

var testCreatedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestVisitor(id int64) *visitorDomain.DecryptedVisitor {
	return &visitorDomain.DecryptedVisitor{
		Visitor: visitorDomain.Visitor{
			ID:        id,
			Name:      "Asha Rao",
			Status:    visitorDomain.StatusCheckedIn,
			CreatedAt: testCreatedAt,
		},
		Phone:   "9876543210",
		Purpose: "Meeting",
	}
}

func TestRunRegisterVisitor(t *testing.T) {
	ctx := context.Background()
	input := visitorDomain.RegisterVisitorInput{Name: "Asha Rao", Phone: " 9876543210 ", Purpose: "Meeting"}
	registered := &visitorDomain.RegisteredVisitor{
		Visitor: &newTestVisitor(5).Visitor,
		Token:   `{"i":5,"p":"x","r":"y"}`,
		PNG:     []byte("\x89PNG"),
	}

	t.Run("text output with png", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("Register", ctx, input).Return(registered, nil).Once()

		pngPath := filepath.Join(t.TempDir(), "pass.png")
		var out bytes.Buffer
		err := RunRegisterVisitor(ctx, uc, &out, input.Name, input.Phone, input.Purpose, pngPath, FormatText)
		require.NoError(t, err)

		written, err := os.ReadFile(pngPath)
		require.NoError(t, err)
		assert.Equal(t, registered.PNG, written)

		assert.Contains(t, out.String(), "ID:          5")
		assert.Contains(t, out.String(), "Phone:       9876543210\n")
		assert.Contains(t, out.String(), "Token:       "+registered.Token)
		assert.Contains(t, out.String(), "Credential:  "+pngPath)
		uc.AssertExpectations(t)
	})

	t.Run("json output", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("Register", ctx, input).Return(registered, nil).Once()

		var out bytes.Buffer
		err := RunRegisterVisitor(ctx, uc, &out, input.Name, input.Phone, input.Purpose, "", FormatJSON)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, float64(5), got["id"])
		assert.Equal(t, "9876543210", got["phone"])
		assert.Equal(t, registered.Token, got["token"])
		assert.NotContains(t, got, "credential_png")
		uc.AssertExpectations(t)
	})

	t.Run("use case error", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		invalid := errors.New("phone must contain 7 to 15 digits")
		uc.On("Register", ctx, input).Return(nil, invalid).Once()

		var out bytes.Buffer
		err := RunRegisterVisitor(ctx, uc, &out, input.Name, input.Phone, input.Purpose, "", FormatText)
		assert.ErrorIs(t, err, invalid)
		assert.Empty(t, out.String())
	})

	t.Run("invalid format", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		err := RunRegisterVisitor(ctx, uc, &bytes.Buffer{}, "a", "b", "c", "", "xml")
		require.Error(t, err)
		uc.AssertNotCalled(t, "Register")
	})
}

func TestRunCheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		checkedOut := &visitorDomain.Visitor{ID: 5, Status: visitorDomain.StatusCheckedOut}
		uc.On("CheckOut", ctx, int64(5)).Return(checkedOut, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunCheckOut(ctx, uc, &out, 5, FormatText))
		assert.Equal(t, "Visitor 5 checked out\n", out.String())
	})

	t.Run("json output", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		checkedOut := &visitorDomain.Visitor{ID: 5, Status: visitorDomain.StatusCheckedOut}
		uc.On("CheckOut", ctx, int64(5)).Return(checkedOut, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunCheckOut(ctx, uc, &out, 5, FormatJSON))
		assert.JSONEq(t, `{"id":5,"status":"checked_out"}`, out.String())
	})

	t.Run("already checked out", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("CheckOut", ctx, int64(5)).Return(nil, visitorDomain.ErrAlreadyCheckedOut).Once()

		err := RunCheckOut(ctx, uc, &bytes.Buffer{}, 5, FormatText)
		assert.ErrorIs(t, err, visitorDomain.ErrAlreadyCheckedOut)
	})
}

func TestRunIssueCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit path", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("CredentialPNG", ctx, int64(9)).Return([]byte("png-bytes"), nil).Once()

		path := filepath.Join(t.TempDir(), "nine.png")
		var out bytes.Buffer
		require.NoError(t, RunIssueCredential(ctx, uc, &out, 9, path))

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), written)
		assert.Contains(t, out.String(), path)
	})

	t.Run("default path", func(t *testing.T) {
		t.Chdir(t.TempDir())

		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("CredentialPNG", ctx, int64(9)).Return([]byte("png-bytes"), nil).Once()

		require.NoError(t, RunIssueCredential(ctx, uc, &bytes.Buffer{}, 9, ""))
		assert.FileExists(t, "visitor-9.png")
	})

	t.Run("not found", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("CredentialPNG", ctx, int64(9)).Return(nil, visitorDomain.ErrVisitorNotFound).Once()

		path := filepath.Join(t.TempDir(), "nine.png")
		err := RunIssueCredential(ctx, uc, &bytes.Buffer{}, 9, path)
		assert.ErrorIs(t, err, visitorDomain.ErrVisitorNotFound)
		assert.NoFileExists(t, path)
	})
}

func TestRunVerifyToken(t *testing.T) {
	ctx := context.Background()
	verified := newTestVisitor(3)
	guard := "gate-2"
	verified.VerifiedBy = &guard

	uc := &visitorMocks.MockVisitorUseCase{}
	uc.On("VerifyToken", ctx, "token", "gate-2").Return(verified, nil).Once()

	var out bytes.Buffer
	require.NoError(t, RunVerifyToken(ctx, uc, &out, "token", "gate-2", FormatText))
	assert.Contains(t, out.String(), "Verified by: gate-2")
	assert.Contains(t, out.String(), "Registered:  2026-03-14T09:30:00Z")
	uc.AssertExpectations(t)
}

func TestRunScan(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("ScanAndVerify", ctx, 30*time.Second, "").Return(newTestVisitor(3), nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunScan(ctx, uc, &out, 30*time.Second, "", FormatJSON))

		var got visitorOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, int64(3), got.ID)
		assert.Nil(t, got.VerifiedBy)
	})

	t.Run("nothing read", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("ScanAndVerify", ctx, time.Second, "").Return(nil, visitorDomain.ErrCredentialNotFound).Once()

		err := RunScan(ctx, uc, &bytes.Buffer{}, time.Second, "", FormatText)
		assert.ErrorIs(t, err, visitorDomain.ErrCredentialNotFound)
	})
}

func TestRunMigrateLegacy(t *testing.T) {
	ctx := context.Background()
	stats := &visitorDomain.MigrationStats{TotalRows: 4, RowsMigrated: 2, FieldsMigrated: 3, RowsFailed: 1}

	t.Run("text output", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("MigrateLegacyEnvelopes", ctx).Return(stats, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunMigrateLegacy(ctx, uc, &out, FormatText))
		assert.Equal(t,
			"Rows scanned:    4\nRows migrated:   2\nFields migrated: 3\nRows failed:     1\n",
			out.String(),
		)
	})

	t.Run("json output", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		uc.On("MigrateLegacyEnvelopes", ctx).Return(stats, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunMigrateLegacy(ctx, uc, &out, FormatJSON))
		assert.JSONEq(t,
			`{"total_rows":4,"rows_migrated":2,"fields_migrated":3,"rows_failed":1}`,
			out.String(),
		)
	})

	t.Run("error", func(t *testing.T) {
		uc := &visitorMocks.MockVisitorUseCase{}
		dbErr := errors.New("connection refused")
		uc.On("MigrateLegacyEnvelopes", ctx).Return(nil, dbErr).Once()

		err := RunMigrateLegacy(ctx, uc, &bytes.Buffer{}, FormatText)
		assert.ErrorIs(t, err, dbErr)
	})
}
