package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// DefaultDecodeEvery is how often sampled frames are passed to the decoder.
const DefaultDecodeEvery = 3

// Session owns a camera for one bounded scan.
//
// Run acquires the camera, samples frames until a code is decoded, the budget runs out,
// or ctx is cancelled, and releases the camera and preview exactly once on every exit,
// including faults and panics. A Session runs one scan at a time.
type Session struct {
	opener         CameraOpener
	decoder        FrameDecoder
	logger         *slog.Logger
	decodeEvery    int
	previewFactory PreviewFactory
	now            func() time.Time
	tokenFilter    func(string) error

	mu    sync.RWMutex
	state scanDomain.State
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDecodeEvery decodes one in every n sampled frames. Values below 1 are ignored.
func WithDecodeEvery(n int) SessionOption {
	return func(s *Session) {
		if n >= 1 {
			s.decodeEvery = n
		}
	}
}

// WithPreview shows every sampled frame on a preview created per session.
func WithPreview(factory PreviewFactory) SessionOption {
	return func(s *Session) {
		s.previewFactory = factory
	}
}

// WithClock replaces the wall clock used for the time budget.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithTokenFilter rejects decoded text that is not a credential. Rejected codes are
// ignored and scanning continues.
func WithTokenFilter(filter func(string) error) SessionOption {
	return func(s *Session) {
		s.tokenFilter = filter
	}
}

// NewSession creates a scan session.
func NewSession(opener CameraOpener, decoder FrameDecoder, logger *slog.Logger, opts ...SessionOption) *Session {
	s := &Session{
		opener:      opener,
		decoder:     decoder,
		logger:      logger,
		decodeEvery: DefaultDecodeEvery,
		now:         time.Now,
		state:       scanDomain.StateIdle,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current session state.
func (s *Session) State() scanDomain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) setState(state scanDomain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Run scans for at most timeout.
//
// It returns ErrCameraUnavailable without entering Capturing when the camera cannot be
// opened. Found, TimedOut and Cancelled are reported through Result with a nil error. A
// camera read fault is returned as an error after the camera has been released.
func (s *Session) Run(ctx context.Context, timeout time.Duration) (scanDomain.Result, error) {
	if timeout <= 0 {
		return scanDomain.Result{}, scanDomain.ErrInvalidTimeout
	}
	s.setState(scanDomain.StateIdle)

	camera, err := s.opener.Open(ctx)
	if err != nil {
		s.setState(scanDomain.StateUnavailable)
		if !errors.Is(err, scanDomain.ErrCameraUnavailable) {
			err = fmt.Errorf("%w: %v", scanDomain.ErrCameraUnavailable, err)
		}
		return scanDomain.Result{Outcome: scanDomain.StateUnavailable}, err
	}

	var preview Preview
	defer func() {
		if preview != nil {
			if err := preview.Close(); err != nil {
				s.logger.Warn("failed to close scan preview", slog.Any("error", err))
			}
		}
		if err := camera.Close(); err != nil {
			s.logger.Warn("failed to release camera", slog.Any("error", err))
		}
		if !s.State().IsTerminal() {
			s.setState(scanDomain.StateIdle)
		}
	}()

	if s.previewFactory != nil {
		preview, err = s.previewFactory()
		if err != nil {
			s.logger.Warn("scan preview unavailable", slog.Any("error", err))
			preview = nil
		}
	}

	s.setState(scanDomain.StateCapturing)
	start := s.now()

	var result scanDomain.Result
	finish := func(outcome scanDomain.State) (scanDomain.Result, error) {
		result.Outcome = outcome
		result.Elapsed = s.now().Sub(start)
		s.setState(outcome)
		return result, nil
	}

	for {
		select {
		case <-ctx.Done():
			return finish(scanDomain.StateCancelled)
		default:
		}

		if s.now().Sub(start) >= timeout {
			return finish(scanDomain.StateTimedOut)
		}

		frame, err := camera.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, scanDomain.ErrNoFrame) {
				continue
			}
			if ctx.Err() != nil {
				return finish(scanDomain.StateCancelled)
			}
			result.Elapsed = s.now().Sub(start)
			return result, fmt.Errorf("failed to read frame: %w", err)
		}
		result.Frames++

		if preview != nil && preview.Show(frame) {
			return finish(scanDomain.StateCancelled)
		}

		if result.Frames%s.decodeEvery != 0 {
			continue
		}
		result.Decoded++

		text, ok := s.decoder.LocateAndDecode(frame)
		if !ok {
			continue
		}
		if s.tokenFilter != nil {
			if err := s.tokenFilter(text); err != nil {
				s.logger.Debug("ignoring foreign code", slog.Any("error", err))
				continue
			}
		}

		result.Token = text
		return finish(scanDomain.StateFound)
	}
}
