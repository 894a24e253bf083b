// Package display renders booth state for the operator and the guests.
package display

import (
	"github.com/moyoez/photobooth-go/types"
)

// Surface is everything the booth asks of a display. Implementations own the rendering
// primitives; callers only name images by their file name inside the image directory.
type Surface interface {
	ShowSingle(name string)
	ShowGrid(names []string)
	ShowQR(link string, png []byte)
	ShowIdle()
	AppendListItems(names []string)
	ClearList()
	SetControl(control types.Control, enabled bool)
	SetActionLabel(label string)
	SetCounter(n int)
	SetElapsed(text string)
	SetState(state types.SessionState)
	ShowError(msg string)
}

// Broadcaster receives every display event.
type Broadcaster interface {
	Broadcast(notification *types.Notification)
}
