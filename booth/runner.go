package booth

import (
	"context"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// Camera triggers an external capture and returns the name of the file it will write.
type Camera interface {
	Trigger(ctx context.Context) (string, error)
}

// Runner is the concurrency-safe entry point to a Controller running on a Loop.
type Runner struct {
	ctrl   *Controller
	loop   *Loop
	camera Camera
}

// NewRunner wires ctrl to loop; camera may be nil.
func NewRunner(ctrl *Controller, loop *Loop, camera Camera) *Runner {
	loop.OnTick(ctrl.Tick)
	return &Runner{ctrl: ctrl, loop: loop, camera: camera}
}

// Advance performs the operator action. ctx bounds both the wait for the loop and a
// confirmation prompt.
func (r *Runner) Advance(ctx context.Context) (types.SessionState, error) {
	var (
		state types.SessionState
		err   error
	)
	if loopErr := r.loop.Do(ctx, func() { state, err = r.ctrl.Advance(ctx) }); loopErr != nil {
		return state, loopErr
	}
	return state, err
}

// Capture presses the shutter. The camera runs outside the loop so polling continues
// while it works; the watcher picks the file up like any other.
func (r *Runner) Capture(ctx context.Context) (string, error) {
	var err error
	if loopErr := r.loop.Do(ctx, func() { err = r.ctrl.CanCapture() }); loopErr != nil {
		return "", loopErr
	}
	if err != nil {
		return "", err
	}
	if r.camera == nil {
		return "", ErrNoCamera
	}
	name, err := r.camera.Trigger(ctx)
	if err != nil {
		tool.DefaultLogger.Warnf("[Booth] Capture failed: %v", err)
		return "", err
	}
	return name, nil
}

// SelectImage switches the display to one known image.
func (r *Runner) SelectImage(ctx context.Context, name string) error {
	var err error
	if loopErr := r.loop.Do(ctx, func() { err = r.ctrl.SelectImage(name) }); loopErr != nil {
		return loopErr
	}
	return err
}

// ShowOverview switches the display back to the grid.
func (r *Runner) ShowOverview(ctx context.Context) error {
	var err error
	if loopErr := r.loop.Do(ctx, func() { err = r.ctrl.ShowOverview() }); loopErr != nil {
		return loopErr
	}
	return err
}

// Status returns the controller status.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	var st Status
	err := r.loop.Do(ctx, func() { st = r.ctrl.Status() })
	return st, err
}
