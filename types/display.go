package types

// DisplayMode is what the kiosk main area currently shows.
type DisplayMode string

const (
	DisplayIdle   DisplayMode = "idle"
	DisplaySingle DisplayMode = "single"
	DisplayGrid   DisplayMode = "grid"
	DisplayQR     DisplayMode = "qr"
)

// Control names an operator affordance that can be enabled or disabled.
type Control string

const (
	ControlAction   Control = "action"   // start / share / done
	ControlShutter  Control = "shutter"  // trigger the camera
	ControlOverview Control = "overview" // back to the grid
	ControlList     Control = "list"     // image list selection
)

// GridCell places one image of the overview grid. Column and Row are 1-based.
type GridCell struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

// GridView is the overview grid as sent to frontends.
type GridView struct {
	Columns    int        `json:"columns"`
	Rows       int        `json:"rows"`
	CellWidth  int        `json:"cellWidth"`
	CellHeight int        `json:"cellHeight"`
	Cells      []GridCell `json:"cells"`
}

// ViewModel is the complete kiosk state; frontends render it after (re)connecting.
type ViewModel struct {
	State       string           `json:"state"`
	Mode        DisplayMode      `json:"mode"`
	Single      string           `json:"single,omitempty"`
	Grid        *GridView        `json:"grid,omitempty"`
	ShareLink   string           `json:"shareLink,omitempty"`
	List        []string         `json:"list"`
	Controls    map[Control]bool `json:"controls"`
	ActionLabel string           `json:"actionLabel"`
	Counter     int              `json:"counter"`
	Elapsed     string           `json:"elapsed"`
	Error       string           `json:"error,omitempty"`
	Fullscreen  bool             `json:"fullscreen"`
	Confirming  string           `json:"confirming,omitempty"` // pending prompt id
	Viewport    Viewport         `json:"viewport"`
}
