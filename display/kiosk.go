package display

import (
	"context"
	"errors"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

const DefaultConfirmTimeout = 30 * time.Second

// ErrNoPrompt is returned when answering a prompt that is not pending.
var ErrNoPrompt = errors.New("no pending confirmation")

// Kiosk keeps the current view model and pushes every change to its broadcasters.
// It is also the operator prompt: Confirm blocks until a frontend answers.
type Kiosk struct {
	mu             sync.RWMutex
	view           types.ViewModel
	grid           Grid
	qrPNG          []byte
	broadcasters   []Broadcaster
	pending        *ttlworker.Cache[string, chan types.ConfirmResult]
	confirmTimeout time.Duration
}

// NewKiosk creates an idle kiosk for the given viewport.
func NewKiosk(viewport types.Viewport, fullscreen bool, broadcasters ...Broadcaster) *Kiosk {
	k := &Kiosk{
		view: types.ViewModel{
			State:       types.StateIdle.String(),
			Mode:        types.DisplayIdle,
			List:        []string{},
			Controls:    map[types.Control]bool{},
			ActionLabel: "Start",
			Elapsed:     "00:00",
			Fullscreen:  fullscreen,
			Viewport:    viewport,
		},
		broadcasters:   broadcasters,
		pending:        ttlworker.NewCache[string, chan types.ConfirmResult](2 * DefaultConfirmTimeout),
		confirmTimeout: DefaultConfirmTimeout,
	}
	k.view.Controls[types.ControlAction] = true
	return k
}

// SetConfirmTimeout changes how long Confirm waits before treating the prompt as declined.
func (k *Kiosk) SetConfirmTimeout(d time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.confirmTimeout = d
}

// AddBroadcaster registers another event sink.
func (k *Kiosk) AddBroadcaster(b Broadcaster) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.broadcasters = append(k.broadcasters, b)
}

// View returns a copy of the current view model.
func (k *Kiosk) View() types.ViewModel {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v := k.view
	v.List = append([]string{}, k.view.List...)
	v.Controls = make(map[types.Control]bool, len(k.view.Controls))
	for c, on := range k.view.Controls {
		v.Controls[c] = on
	}
	if k.view.Grid != nil {
		g := *k.view.Grid
		g.Cells = append([]types.GridCell{}, k.view.Grid.Cells...)
		v.Grid = &g
	}
	return v
}

// QRCode returns the PNG of the share link currently shown, if any.
func (k *Kiosk) QRCode() ([]byte, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.view.Mode != types.DisplayQR || len(k.qrPNG) == 0 {
		return nil, false
	}
	return k.qrPNG, true
}

// update mutates the view under the lock and broadcasts n afterwards.
func (k *Kiosk) update(n *types.Notification, fn func(v *types.ViewModel)) {
	k.mu.Lock()
	fn(&k.view)
	broadcasters := append([]Broadcaster{}, k.broadcasters...)
	k.mu.Unlock()

	for _, b := range broadcasters {
		b.Broadcast(n)
	}
}

func (k *Kiosk) ShowSingle(name string) {
	k.update(&types.Notification{Type: types.NotifyTypeShowSingle, Data: map[string]any{"name": name}}, func(v *types.ViewModel) {
		v.Mode = types.DisplaySingle
		v.Single = name
		v.Grid = nil
	})
}

func (k *Kiosk) ShowGrid(names []string) {
	k.mu.Lock()
	view := k.grid.Update(names, k.view.Viewport.Width, k.view.Viewport.Height)
	k.mu.Unlock()

	k.update(&types.Notification{Type: types.NotifyTypeShowGrid, Data: map[string]any{"grid": view}}, func(v *types.ViewModel) {
		v.Mode = types.DisplayGrid
		v.Single = ""
		v.Grid = &view
	})
}

func (k *Kiosk) ShowQR(link string, png []byte) {
	k.update(&types.Notification{Type: types.NotifyTypeShowQR, Message: link, Data: map[string]any{"link": link}}, func(v *types.ViewModel) {
		v.Mode = types.DisplayQR
		v.ShareLink = link
		v.Single = ""
		v.Grid = nil
		k.qrPNG = png
	})
}

// ShowIdle shows the placeholder and drops the overview slots.
func (k *Kiosk) ShowIdle() {
	k.update(&types.Notification{Type: types.NotifyTypeShowIdle}, func(v *types.ViewModel) {
		v.Mode = types.DisplayIdle
		v.Single = ""
		v.Grid = nil
		v.ShareLink = ""
		v.Error = ""
		k.qrPNG = nil
		k.grid.Reset()
	})
}

func (k *Kiosk) AppendListItems(names []string) {
	if len(names) == 0 {
		return
	}
	items := append([]string{}, names...)
	k.update(&types.Notification{Type: types.NotifyTypeListAppend, Data: map[string]any{"items": items}}, func(v *types.ViewModel) {
		v.List = append(v.List, items...)
	})
}

func (k *Kiosk) ClearList() {
	k.update(&types.Notification{Type: types.NotifyTypeListClear}, func(v *types.ViewModel) {
		v.List = []string{}
	})
}

func (k *Kiosk) SetControl(control types.Control, enabled bool) {
	k.update(&types.Notification{Type: types.NotifyTypeControl, Data: map[string]any{"control": control, "enabled": enabled}}, func(v *types.ViewModel) {
		v.Controls[control] = enabled
	})
}

func (k *Kiosk) SetActionLabel(label string) {
	k.update(&types.Notification{Type: types.NotifyTypeActionLabel, Message: label}, func(v *types.ViewModel) {
		v.ActionLabel = label
	})
}

func (k *Kiosk) SetCounter(n int) {
	k.update(&types.Notification{Type: types.NotifyTypeCounter, Data: map[string]any{"value": n}}, func(v *types.ViewModel) {
		v.Counter = n
	})
}

func (k *Kiosk) SetElapsed(text string) {
	k.update(&types.Notification{Type: types.NotifyTypeElapsed, Message: text}, func(v *types.ViewModel) {
		v.Elapsed = text
	})
}

func (k *Kiosk) SetState(state types.SessionState) {
	k.update(&types.Notification{Type: types.NotifyTypeState, Message: state.String()}, func(v *types.ViewModel) {
		v.State = state.String()
		if state != types.StateSharing {
			v.Error = ""
		}
	})
}

func (k *Kiosk) ShowError(msg string) {
	k.update(&types.Notification{Type: types.NotifyTypeError, Title: "Error", Message: msg}, func(v *types.ViewModel) {
		v.Error = msg
	})
}

// Confirm asks every frontend the question and waits for an answer. A timeout or a
// cancelled ctx counts as "no".
func (k *Kiosk) Confirm(ctx context.Context, question string) bool {
	id := tool.GenerateRandomUUID()
	ch := make(chan types.ConfirmResult, 1)
	k.pending.Set(id, ch)
	defer k.pending.Delete(id)

	k.mu.RLock()
	timeout := k.confirmTimeout
	k.mu.RUnlock()

	k.update(&types.Notification{
		Type:    types.NotifyTypeConfirmStop,
		Title:   "Confirm",
		Message: question,
		Data:    map[string]any{"promptId": id},
	}, func(v *types.ViewModel) {
		v.Confirming = id
	})
	tool.DefaultLogger.Debugf("Accept: GET /api/self/v1/confirm-stop?promptId=%s&confirmed=true", id)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	confirmed := false
	select {
	case result := <-ch:
		confirmed = result.Confirmed
	case <-timer.C:
		tool.DefaultLogger.Infof("[Kiosk] Confirmation %s timed out", id)
	case <-ctx.Done():
	}

	k.update(&types.Notification{Type: types.NotifyTypeConfirmClosed, Data: map[string]any{"promptId": id, "confirmed": confirmed}}, func(v *types.ViewModel) {
		if v.Confirming == id {
			v.Confirming = ""
		}
	})
	return confirmed
}

// Answer resolves the pending prompt id, or the current one when id is empty.
func (k *Kiosk) Answer(id string, confirmed bool) error {
	if id == "" {
		k.mu.RLock()
		id = k.view.Confirming
		k.mu.RUnlock()
	}
	if id == "" {
		return ErrNoPrompt
	}
	ch := k.pending.Get(id)
	if ch == nil {
		return ErrNoPrompt
	}
	select {
	case ch <- types.ConfirmResult{Confirmed: confirmed}:
	default:
		// already answered
	}
	return nil
}
