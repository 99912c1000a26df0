package service

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// ErrCameraClosed is returned when reading from a released camera.
var ErrCameraClosed = errors.New("camera closed")

// ImageSequenceCamera replays a fixed list of frames. Once the frames run out every
// read is a miss (ErrNoFrame). It stands in for a device when scanning recorded frames.
type ImageSequenceCamera struct {
	frames   []image.Image
	interval time.Duration

	mu     sync.Mutex
	pos    int
	closes int
}

// NewImageSequenceCamera creates a camera that returns frames in order, waiting
// interval before each read.
func NewImageSequenceCamera(frames []image.Image, interval time.Duration) *ImageSequenceCamera {
	return &ImageSequenceCamera{frames: frames, interval: interval}
}

// ReadFrame returns the next frame.
func (c *ImageSequenceCamera) ReadFrame(ctx context.Context) (image.Image, error) {
	if c.interval > 0 {
		timer := time.NewTimer(c.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closes > 0 {
		return nil, ErrCameraClosed
	}
	if c.pos >= len(c.frames) {
		return nil, scanDomain.ErrNoFrame
	}
	frame := c.frames[c.pos]
	c.pos++
	return frame, nil
}

// Close marks the camera released.
func (c *ImageSequenceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// Closes returns how many times Close was called.
func (c *ImageSequenceCamera) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Open hands out the camera itself, so an ImageSequenceCamera can serve as its own opener.
func (c *ImageSequenceCamera) Open(ctx context.Context) (Camera, error) {
	return c, nil
}
