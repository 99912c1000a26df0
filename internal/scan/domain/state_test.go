package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lumenpass/lumenpass/internal/errors"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{state: StateIdle, want: false},
		{state: StateCapturing, want: false},
		{state: StateFound, want: true},
		{state: StateTimedOut, want: true},
		{state: StateCancelled, want: true},
		{state: StateUnavailable, want: true},
		{state: State("bogus"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.IsTerminal())
		})
	}
}

func TestResult_Found(t *testing.T) {
	assert.True(t, Result{Outcome: StateFound, Token: "x"}.Found())
	assert.False(t, Result{Outcome: StateTimedOut}.Found())
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(ErrCameraUnavailable))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(ErrScannerBusy))
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(ErrInvalidTimeout))
	assert.Equal(t, apperrors.KindUnknown, apperrors.KindOf(ErrNoFrame))
}
