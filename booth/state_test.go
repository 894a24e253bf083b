package booth

import (
	"slices"
	"testing"
	"time"

	"github.com/moyoez/photobooth-go/types"
)

func idle() Snapshot {
	return Snapshot{State: types.StateIdle, Known: types.NewKnownImageSet()}
}

func TestStepCycle(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	s := idle()

	s, effects, ok := Step(s, Input{Now: t0, SessionID: "abc"})
	if !ok || s.State != types.StateCapturing {
		t.Fatalf("Expected Capturing, got %s (ok=%v)", s.State, ok)
	}
	if s.Session.ID != "abc" || !s.Session.StartTime.Equal(t0) || !s.Session.Open() {
		t.Errorf("Unexpected session %+v", s.Session)
	}
	if !slices.Equal(effects, []Effect{EffectStartPolling, EffectShowLive}) {
		t.Errorf("Unexpected effects %v", effects)
	}

	s.Known.Add("a.jpg")
	s, effects, ok = Step(s, Input{Now: t0.Add(5 * time.Second)})
	if !ok || s.State != types.StateSharing {
		t.Fatalf("Expected Sharing, got %s (ok=%v)", s.State, ok)
	}
	if !s.Session.EndTime.Equal(t0.Add(5*time.Second)) || s.Known.Len() != 1 {
		t.Errorf("Expected closed window with 1 image, got %+v", s.Session)
	}
	if !slices.Equal(effects, []Effect{EffectStopPolling, EffectLockControls, EffectPackage, EffectShowShare}) {
		t.Errorf("Unexpected effects %v", effects)
	}

	s, _, ok = Step(s, Input{Confirmed: true})
	if !ok || s.State != types.StateIdle {
		t.Fatalf("Expected Idle, got %s (ok=%v)", s.State, ok)
	}
	if s.Session.ID != "" || s.Known.Len() != 0 {
		t.Errorf("Expected session discarded, got %+v with %d images", s.Session, s.Known.Len())
	}
}

func TestStepCapturingWithoutImagesIsNoop(t *testing.T) {
	s, _, _ := Step(idle(), Input{Now: time.Now(), SessionID: "abc"})

	next, effects, ok := Step(s, Input{Now: time.Now()})
	if ok || effects != nil {
		t.Fatal("Expected advance without images to be refused")
	}
	if next.State != types.StateCapturing || next.Session != s.Session || next.Known.Len() != 0 {
		t.Errorf("Expected snapshot unchanged, got %+v", next)
	}
}

func TestStepSharingDeclined(t *testing.T) {
	known := types.NewKnownImageSet()
	known.Add("a.jpg")
	s := Snapshot{State: types.StateSharing, Session: types.Session{ID: "abc"}, Known: known}

	next, _, ok := Step(s, Input{Confirmed: false})
	if ok || next.State != types.StateSharing || next.Known.Len() != 1 {
		t.Errorf("Expected declined confirmation to keep Sharing, got %s", next.State)
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	known := types.NewKnownImageSet()
	known.Add("a.jpg")
	s := Snapshot{State: types.StateSharing, Session: types.Session{ID: "abc"}, Known: known}

	Step(s, Input{Confirmed: true})
	if s.State != types.StateSharing || s.Session.ID != "abc" || known.Len() != 1 {
		t.Error("Step must not mutate its input")
	}
}

func TestOnlyReachableSequence(t *testing.T) {
	s := idle()
	want := []types.SessionState{types.StateCapturing, types.StateSharing, types.StateIdle, types.StateCapturing, types.StateSharing, types.StateIdle}
	for i, expected := range want {
		if s.State == types.StateCapturing {
			s.Known.Add("img.jpg")
		}
		var ok bool
		s, _, ok = Step(s, Input{Now: time.Now(), SessionID: "id", Confirmed: true})
		if !ok || s.State != expected {
			t.Fatalf("Step %d: expected %s, got %s", i, expected, s.State)
		}
	}
}

func TestNeedsConfirm(t *testing.T) {
	if NeedsConfirm(types.StateIdle) || NeedsConfirm(types.StateCapturing) || !NeedsConfirm(types.StateSharing) {
		t.Error("Only leaving Sharing asks for confirmation")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61*time.Second + 900*time.Millisecond, "01:01"},
		{75 * time.Minute, "75:00"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%s) = %s, expected %s", tt.d, got, tt.want)
		}
	}
}
