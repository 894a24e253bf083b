package types

// Notification represents a display event pushed to kiosk frontends
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "show_grid", "counter", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

const (
	NotifyTypeView          = "view" // full ViewModel, sent on connect
	NotifyTypeState         = "state"
	NotifyTypeShowSingle    = "show_single"
	NotifyTypeShowGrid      = "show_grid"
	NotifyTypeShowQR        = "show_qr"
	NotifyTypeShowIdle      = "show_idle"
	NotifyTypeListAppend    = "list_append"
	NotifyTypeListClear     = "list_clear"
	NotifyTypeControl       = "control"
	NotifyTypeActionLabel   = "action_label"
	NotifyTypeCounter       = "counter"
	NotifyTypeElapsed       = "elapsed"
	NotifyTypeError         = "error"
	NotifyTypeConfirmStop   = "confirm_stop"
	NotifyTypeConfirmClosed = "confirm_closed"
)

// ConfirmResult is the operator's answer to a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool `json:"confirmed"`
}
