package booth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moyoez/photobooth-go/types"
)

func TestLoopTicksOnlyWhileStarted(t *testing.T) {
	loop := NewLoop(5 * time.Millisecond)
	var ticks atomic.Int32
	loop.OnTick(func(time.Time) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != 0 {
		t.Fatal("Expected no ticks before Start")
	}

	if err := loop.Do(ctx, loop.Start); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ticks.Load() < 2 {
		t.Fatal("Expected ticks after Start")
	}

	if err := loop.Do(ctx, loop.Stop); err != nil {
		t.Fatal(err)
	}
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != stopped {
		t.Error("Expected no ticks after Stop")
	}
}

func TestLoopDoAfterStop(t *testing.T) {
	loop := NewLoop(0)
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(finished)
	}()
	cancel()
	<-finished

	if err := loop.Do(context.Background(), func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Expected ErrLoopStopped, got %v", err)
	}
}

type fakeCamera struct {
	calls atomic.Int32
}

func (f *fakeCamera) Trigger(context.Context) (string, error) {
	f.calls.Add(1)
	return "IMG_1_M.jpg", nil
}

func TestRunner(t *testing.T) {
	h := newHarness(t)
	loop := NewLoop(time.Hour)
	camera := &fakeCamera{}
	runner := NewRunner(h.ctrl, loop, camera)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	if _, err := runner.Capture(ctx); !errors.Is(err, ErrNotCapturing) {
		t.Errorf("Expected ErrNotCapturing, got %v", err)
	}
	state, err := runner.Advance(ctx)
	if err != nil || state != types.StateCapturing {
		t.Fatalf("Expected Capturing, got %s %v", state, err)
	}
	name, err := runner.Capture(ctx)
	if err != nil || name != "IMG_1_M.jpg" || camera.calls.Load() != 1 {
		t.Errorf("Unexpected capture result %q %v", name, err)
	}

	st, err := runner.Status(ctx)
	if err != nil || st.State != "capturing" || st.SessionID != "sess1" {
		t.Errorf("Unexpected status %+v %v", st, err)
	}
	if err := runner.ShowOverview(ctx); err != nil {
		t.Error(err)
	}
	if err := runner.SelectImage(ctx, "nope.jpg"); err == nil {
		t.Error("Expected error for unknown image")
	}
}

type slowArchiver struct {
	delay time.Duration
}

func (s slowArchiver) Package(_ context.Context, id string, _ []string) (string, error) {
	time.Sleep(s.delay)
	return "zips/" + id + "/Bilder.zip", nil
}

func TestRunnerAdvanceOutlivesDeadline(t *testing.T) {
	h := newHarness(t)
	h.ctrl.deps.Archiver = slowArchiver{delay: 100 * time.Millisecond}
	loop := NewLoop(time.Hour)
	runner := NewRunner(h.ctrl, loop, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	if state, err := runner.Advance(ctx); err != nil || state != types.StateCapturing {
		t.Fatalf("Expected Capturing, got %s %v", state, err)
	}
	h.lister.entries = []types.DirectoryEntry{{Name: "a.jpg", CreatedAt: at(1)}}
	if err := loop.Do(ctx, func() { h.ctrl.Tick(at(2)) }); err != nil {
		t.Fatal(err)
	}

	short, cancelShort := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancelShort()
	state, err := runner.Advance(short)
	if err != nil || state != types.StateSharing {
		t.Fatalf("Expected Sharing after the slow archive, got %s %v", state, err)
	}
	st, err := runner.Status(ctx)
	if err != nil || st.ShareLink != "http://localhost/sess1/Bilder.zip" {
		t.Errorf("Unexpected status %+v %v", st, err)
	}
}
