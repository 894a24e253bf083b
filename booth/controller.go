package booth

import (
	"context"
	"fmt"
	"time"

	"github.com/moyoez/photobooth-go/display"
	"github.com/moyoez/photobooth-go/metrics"
	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

const confirmQuestion = "Finish this session and clear the screen?"

// Prompter asks the operator a yes/no question and blocks until answered.
type Prompter interface {
	Confirm(ctx context.Context, question string) bool
}

// Poller finds the images that appeared since the last call.
type Poller interface {
	Poll(session types.Session, known *types.KnownImageSet, now time.Time) []string
}

// Archiver writes the session archive and returns its path.
type Archiver interface {
	Package(ctx context.Context, sessionID string, names []string) (string, error)
}

// LinkRenderer builds the share link of a session and its QR code.
type LinkRenderer interface {
	Link(sessionID string) (string, error)
	PNG(link string) ([]byte, error)
}

// Ticker starts and stops the poll cadence.
type Ticker interface {
	Start()
	Stop()
}

// Deps are the collaborators of a Controller. Now and NewID default to time.Now and
// tool.GenerateSessionToken.
type Deps struct {
	Surface        display.Surface
	Prompter       Prompter
	Watcher        Poller
	Archiver       Archiver
	Links          LinkRenderer
	Ticker         Ticker
	CaptureEnabled bool
	Now            func() time.Time
	NewID          func() string
}

// Status is a read-only view of the controller for API clients.
type Status struct {
	State       string    `json:"state"`
	SessionID   string    `json:"sessionId,omitempty"`
	StartTime   time.Time `json:"startTime,omitzero"`
	EndTime     time.Time `json:"endTime,omitzero"`
	Images      []string  `json:"images"`
	CanProceed  bool      `json:"canProceed"`
	Overview    bool      `json:"overview"`
	Selected    string    `json:"selected,omitempty"`
	ArchivePath string    `json:"archivePath,omitempty"`
	ShareLink   string    `json:"shareLink,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Controller owns the session snapshot and turns transitions and ticks into display
// updates. It is not safe for concurrent use; Loop serializes every call.
type Controller struct {
	deps Deps
	snap Snapshot

	overview    bool
	selected    string
	archivePath string
	shareLink   string
	lastErr     string

	shownCount   int
	shownElapsed string
	canProceed   bool
}

// NewController creates an idle controller.
func NewController(deps Deps) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = tool.GenerateSessionToken
	}
	return &Controller{
		deps:     deps,
		snap:     Snapshot{State: types.StateIdle, Known: types.NewKnownImageSet()},
		overview: true,
	}
}

// State returns the current state.
func (c *Controller) State() types.SessionState {
	return c.snap.State
}

// Snapshot returns the session snapshot. Known is a copy.
func (c *Controller) Snapshot() Snapshot {
	s := c.snap
	known := types.NewKnownImageSet()
	for _, name := range c.snap.Known.Names() {
		known.Add(name)
	}
	s.Known = known
	return s
}

// Status returns the status shown by the API.
func (c *Controller) Status() Status {
	images := c.snap.Known.Names()
	if images == nil {
		images = []string{}
	}
	return Status{
		State:       c.snap.State.String(),
		SessionID:   c.snap.Session.ID,
		StartTime:   c.snap.Session.StartTime,
		EndTime:     c.snap.Session.EndTime,
		Images:      images,
		CanProceed:  CanAdvance(c.snap),
		Overview:    c.overview,
		Selected:    c.selected,
		ArchivePath: c.archivePath,
		ShareLink:   c.shareLink,
		Error:       c.lastErr,
	}
}

// Advance performs the single operator action. A guarded or declined advance returns
// the unchanged state and no error. A failing effect is shown on the display and
// returned; the state change that caused it is kept. ctx only bounds the
// confirmation prompt: once a transition is taken its effects run to completion.
func (c *Controller) Advance(ctx context.Context) (types.SessionState, error) {
	if !CanAdvance(c.snap) {
		tool.DefaultLogger.Debugf("[Booth] Advance ignored in %s", c.snap.State)
		return c.snap.State, nil
	}

	in := Input{Now: c.deps.Now()}
	if c.snap.State == types.StateIdle {
		in.SessionID = c.deps.NewID()
	}
	if NeedsConfirm(c.snap.State) {
		in.Confirmed = c.deps.Prompter != nil && c.deps.Prompter.Confirm(ctx, confirmQuestion)
	}

	prev := c.snap
	next, effects, ok := Step(c.snap, in)
	if !ok {
		tool.DefaultLogger.Infof("[Booth] Leaving %s was declined", c.snap.State)
		return c.snap.State, nil
	}
	c.snap = next
	tool.DefaultLogger.Infof("[Booth] %s -> %s (session %s)", prev.State, next.State, sessionLabel(prev, next))
	metrics.RecordTransition(next.State.String())
	c.deps.Surface.SetState(next.State)

	effectCtx := context.WithoutCancel(ctx)
	for _, e := range effects {
		if err := c.apply(effectCtx, e); err != nil {
			c.lastErr = err.Error()
			c.deps.Surface.ShowError(c.lastErr)
			tool.DefaultLogger.Errorf("[Booth] %s failed for session %s: %v", e, c.snap.Session.ID, err)
			return c.snap.State, fmt.Errorf("%s: %w", e, err)
		}
	}
	return c.snap.State, nil
}

func sessionLabel(prev, next Snapshot) string {
	if next.Session.ID != "" {
		return next.Session.ID
	}
	return prev.Session.ID
}

func (c *Controller) apply(ctx context.Context, e Effect) error {
	s := c.deps.Surface
	switch e {
	case EffectStartPolling:
		c.overview = true
		c.selected = ""
		c.lastErr = ""
		c.shownCount = 0
		c.shownElapsed = "00:00"
		c.canProceed = false
		metrics.ResetSessionImages()
		if c.deps.Ticker != nil {
			c.deps.Ticker.Start()
		}
	case EffectShowLive:
		s.ClearList()
		s.SetCounter(0)
		s.SetElapsed("00:00")
		s.SetActionLabel("Share")
		s.SetControl(types.ControlAction, false)
		s.SetControl(types.ControlShutter, c.deps.CaptureEnabled)
		s.SetControl(types.ControlList, true)
		s.SetControl(types.ControlOverview, false)
		s.ShowGrid(nil)
	case EffectStopPolling:
		if c.deps.Ticker != nil {
			c.deps.Ticker.Stop()
		}
	case EffectLockControls:
		s.SetControl(types.ControlShutter, false)
		s.SetControl(types.ControlList, false)
		s.SetControl(types.ControlOverview, false)
		s.SetActionLabel("Done")
		s.SetControl(types.ControlAction, true)
	case EffectPackage:
		path, err := c.deps.Archiver.Package(ctx, c.snap.Session.ID, c.snap.Known.Names())
		c.archivePath = path
		if err != nil {
			return err
		}
	case EffectShowShare:
		link, err := c.deps.Links.Link(c.snap.Session.ID)
		if err != nil {
			return err
		}
		png, err := c.deps.Links.PNG(link)
		if err != nil {
			return err
		}
		c.shareLink = link
		s.ShowQR(link, png)
		tool.DefaultLogger.Infof("[Booth] Share link: %s", link)
	case EffectResetSession:
		c.overview = true
		c.selected = ""
		c.archivePath = ""
		c.shareLink = ""
		c.lastErr = ""
		metrics.ResetSessionImages()
		s.ClearList()
		s.SetCounter(0)
		s.SetElapsed("00:00")
		s.SetControl(types.ControlShutter, false)
		s.SetControl(types.ControlList, false)
		s.SetControl(types.ControlOverview, false)
		s.SetActionLabel("Start")
		s.SetControl(types.ControlAction, true)
	case EffectShowIdle:
		s.ShowIdle()
	}
	return nil
}

// Tick runs one watcher poll. It does nothing outside Capturing.
func (c *Controller) Tick(now time.Time) {
	if c.snap.State != types.StateCapturing {
		return
	}
	start := time.Now()
	found := c.deps.Watcher.Poll(c.snap.Session, c.snap.Known, now)
	count := c.snap.Known.Len()
	metrics.RecordPoll(time.Since(start), len(found), count)

	s := c.deps.Surface
	if len(found) > 0 {
		s.AppendListItems(found)
		c.refresh()
	}
	if count != c.shownCount {
		c.shownCount = count
		s.SetCounter(count)
	}
	if canProceed := count > 0; canProceed != c.canProceed {
		c.canProceed = canProceed
		s.SetControl(types.ControlAction, canProceed)
	}
	if elapsed := FormatElapsed(now.Sub(c.snap.Session.StartTime)); elapsed != c.shownElapsed {
		c.shownElapsed = elapsed
		s.SetElapsed(elapsed)
	}
}

// refresh redraws the live view after new images arrived. Single mode follows the
// newest image.
func (c *Controller) refresh() {
	if c.overview {
		c.deps.Surface.ShowGrid(c.snap.Known.Names())
		return
	}
	if last, ok := c.snap.Known.Last(); ok {
		c.selected = last
		c.deps.Surface.ShowSingle(last)
	}
}

// SelectImage shows one known image instead of the overview.
func (c *Controller) SelectImage(name string) error {
	if c.snap.State != types.StateCapturing {
		return ErrNotCapturing
	}
	if !c.snap.Known.Contains(name) {
		return fmt.Errorf("image %q is not part of this session", name)
	}
	c.overview = false
	c.selected = name
	c.deps.Surface.ShowSingle(name)
	c.deps.Surface.SetControl(types.ControlOverview, true)
	return nil
}

// ShowOverview returns to the grid of all known images.
func (c *Controller) ShowOverview() error {
	if c.snap.State != types.StateCapturing {
		return ErrNotCapturing
	}
	c.overview = true
	c.selected = ""
	c.deps.Surface.ShowGrid(c.snap.Known.Names())
	c.deps.Surface.SetControl(types.ControlOverview, false)
	return nil
}

// CanCapture reports whether the shutter may be pressed now.
func (c *Controller) CanCapture() error {
	if !c.deps.CaptureEnabled {
		return ErrNoCamera
	}
	if c.snap.State != types.StateCapturing {
		return ErrNotCapturing
	}
	return nil
}

// FormatElapsed renders d as MM:SS; minutes keep counting past 59.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
