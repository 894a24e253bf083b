package types

import "time"

// SessionState is the booth lifecycle: Idle -> Capturing -> Sharing -> Idle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateCapturing
	StateSharing
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateSharing:
		return "sharing"
	default:
		return "unknown"
	}
}

// Session is one capture window. A zero EndTime means the window is still open.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Open reports whether the capture window has not been closed yet.
func (s Session) Open() bool {
	return s.EndTime.IsZero()
}

// Window returns the capture window, using now as the end while the session is open.
func (s Session) Window(now time.Time) (time.Time, time.Time) {
	if s.Open() {
		return s.StartTime, now
	}
	return s.StartTime, s.EndTime
}

// DirectoryEntry is a single image directory entry as seen by one poll.
type DirectoryEntry struct {
	Name      string
	CreatedAt time.Time
}

// KnownImageSet is the ordered list of images accepted into the current session.
type KnownImageSet struct {
	names []string
	index map[string]struct{}
}

// NewKnownImageSet returns an empty set.
func NewKnownImageSet() *KnownImageSet {
	return &KnownImageSet{index: make(map[string]struct{})}
}

// Contains reports whether name was already accepted.
func (k *KnownImageSet) Contains(name string) bool {
	if k == nil {
		return false
	}
	_, ok := k.index[name]
	return ok
}

// Add appends name unless it is already present and reports whether it was appended.
func (k *KnownImageSet) Add(name string) bool {
	if k.Contains(name) {
		return false
	}
	if k.index == nil {
		k.index = make(map[string]struct{})
	}
	k.index[name] = struct{}{}
	k.names = append(k.names, name)
	return true
}

// Len returns the number of accepted images.
func (k *KnownImageSet) Len() int {
	if k == nil {
		return 0
	}
	return len(k.names)
}

// Names returns a copy of the accepted names in acceptance order.
func (k *KnownImageSet) Names() []string {
	if k == nil {
		return nil
	}
	out := make([]string, len(k.names))
	copy(out, k.names)
	return out
}

// Last returns the most recently accepted name.
func (k *KnownImageSet) Last() (string, bool) {
	if k.Len() == 0 {
		return "", false
	}
	return k.names[len(k.names)-1], true
}
