// Package capture triggers the external camera utility.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/moyoez/photobooth-go/metrics"
	"github.com/moyoez/photobooth-go/tool"
)

const (
	DefaultBinary      = "gphoto2"
	DefaultMinInterval = 1500 * time.Millisecond
	// TriggerTimeout bounds one camera invocation.
	TriggerTimeout = 30 * time.Second
)

// ErrBusy is returned when the shutter is pressed while a capture is running or too soon
// after the previous one.
var ErrBusy = errors.New("camera is busy")

// Device triggers a capture and returns the file name it writes into the image root.
type Device interface {
	Trigger(ctx context.Context) (string, error)
}

// CommandRunner runs an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// GPhoto shells out to gphoto2, writing IMG_<n>_M.jpg into the image root.
// n counts triggers for the lifetime of the process.
type GPhoto struct {
	binary    string
	imageRoot string
	limiter   *rate.Limiter
	run       CommandRunner

	mu      sync.Mutex
	counter int
}

// NewGPhoto creates a device. An empty binary means gphoto2; minInterval <= 0 uses
// DefaultMinInterval.
func NewGPhoto(binary, imageRoot string, minInterval time.Duration) *GPhoto {
	if binary == "" {
		binary = DefaultBinary
	}
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &GPhoto{
		binary:    binary,
		imageRoot: imageRoot,
		limiter:   rate.NewLimiter(rate.Every(minInterval), 1),
		run:       execRunner,
	}
}

// SetRunner replaces how the command is executed.
func (g *GPhoto) SetRunner(run CommandRunner) {
	g.run = run
}

// FileName returns the name of the n-th capture.
func FileName(n int) string {
	return fmt.Sprintf("IMG_%d_M.jpg", n)
}

// Trigger runs one capture and waits for the camera to finish.
func (g *GPhoto) Trigger(ctx context.Context) (string, error) {
	if !g.mu.TryLock() {
		metrics.RecordCapture("busy")
		return "", ErrBusy
	}
	defer g.mu.Unlock()
	if !g.limiter.Allow() {
		metrics.RecordCapture("busy")
		return "", ErrBusy
	}

	name := FileName(g.counter)
	g.counter++
	args := []string{
		"--capture-image-and-download",
		"--force-overwrite",
		"--filename", filepath.Join(g.imageRoot, name),
	}

	ctx, cancel := context.WithTimeout(ctx, TriggerTimeout)
	defer cancel()
	tool.DefaultLogger.Infof("[Capture] %s %v", g.binary, args)
	out, err := g.run(ctx, g.binary, args...)
	if err != nil {
		metrics.RecordCapture("error")
		tool.DefaultLogger.Debugf("[Capture] output: %s", out)
		return "", fmt.Errorf("%s failed: %w", g.binary, err)
	}
	metrics.RecordCapture("ok")
	return name, nil
}
