// Package booth drives the session lifecycle of the photo booth.
package booth

import (
	"errors"
	"time"

	"github.com/moyoez/photobooth-go/types"
)

var (
	// ErrNotCapturing is returned for operator actions that only make sense while capturing.
	ErrNotCapturing = errors.New("no session is capturing")
	// ErrNoCamera is returned when the shutter is pressed without a capture device.
	ErrNoCamera = errors.New("no capture device configured")
)

// Effect is a side effect the controller performs after a transition, in order.
type Effect int

const (
	EffectStartPolling Effect = iota
	EffectShowLive
	EffectStopPolling
	EffectLockControls
	EffectPackage
	EffectShowShare
	EffectResetSession
	EffectShowIdle
)

func (e Effect) String() string {
	switch e {
	case EffectStartPolling:
		return "start-polling"
	case EffectShowLive:
		return "show-live"
	case EffectStopPolling:
		return "stop-polling"
	case EffectLockControls:
		return "lock-controls"
	case EffectPackage:
		return "package"
	case EffectShowShare:
		return "show-share"
	case EffectResetSession:
		return "reset-session"
	case EffectShowIdle:
		return "show-idle"
	default:
		return "unknown"
	}
}

// Snapshot is everything the state machine owns.
type Snapshot struct {
	State   types.SessionState
	Session types.Session
	Known   *types.KnownImageSet
}

// Input is one "advance" trigger. SessionID is used when a session starts, Confirmed
// when leaving Sharing.
type Input struct {
	Now       time.Time
	SessionID string
	Confirmed bool
}

type transition struct {
	next    types.SessionState
	guard   func(Snapshot) bool
	confirm bool
	apply   func(Snapshot, Input) Snapshot
	effects []Effect
}

var transitions = map[types.SessionState]transition{
	types.StateIdle: {
		next: types.StateCapturing,
		apply: func(_ Snapshot, in Input) Snapshot {
			return Snapshot{
				Session: types.Session{ID: in.SessionID, StartTime: in.Now},
				Known:   types.NewKnownImageSet(),
			}
		},
		effects: []Effect{EffectStartPolling, EffectShowLive},
	},
	types.StateCapturing: {
		next:  types.StateSharing,
		guard: func(s Snapshot) bool { return s.Known.Len() > 0 },
		apply: func(s Snapshot, in Input) Snapshot {
			s.Session.EndTime = in.Now
			return s
		},
		effects: []Effect{EffectStopPolling, EffectLockControls, EffectPackage, EffectShowShare},
	},
	types.StateSharing: {
		next:    types.StateIdle,
		confirm: true,
		apply: func(Snapshot, Input) Snapshot {
			return Snapshot{Known: types.NewKnownImageSet()}
		},
		effects: []Effect{EffectResetSession, EffectShowIdle},
	},
}

// CanAdvance reports whether the guard of the current state allows an advance.
func CanAdvance(s Snapshot) bool {
	t, ok := transitions[s.State]
	if !ok {
		return false
	}
	return t.guard == nil || t.guard(s)
}

// NeedsConfirm reports whether advancing from state asks the operator first.
func NeedsConfirm(state types.SessionState) bool {
	return transitions[state].confirm
}

// Step applies one advance to s. It returns the new snapshot and the effects to run;
// ok is false when the advance is a no-op (guard failed or confirmation declined), in
// which case s is returned unchanged. s itself is never mutated.
func Step(s Snapshot, in Input) (Snapshot, []Effect, bool) {
	t, found := transitions[s.State]
	if !found || !CanAdvance(s) {
		return s, nil, false
	}
	if t.confirm && !in.Confirmed {
		return s, nil, false
	}
	next := t.apply(s, in)
	next.State = t.next
	return next, append([]Effect(nil), t.effects...), true
}
