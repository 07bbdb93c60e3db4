package types

import "time"

// WindowPosition represents window position on screen
type WindowPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WindowSize represents window dimensions
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window represents one application's window record.
//
// Records are keyed by AppID and live for the life of the process: closing
// a window flips Open to false but keeps the record, so geometry survives
// a close/reopen cycle. Z is assigned from a strictly increasing counter
// whenever the window gains focus.
type Window struct {
	ID        string         `json:"id"`
	AppID     string         `json:"app_id"`
	Title     string         `json:"title"`
	Icon      string         `json:"icon"`
	Open      bool           `json:"open"`
	Minimized bool           `json:"minimized"`
	Z         int            `json:"z"`
	Pos       WindowPosition `json:"pos"`
	Size      WindowSize     `json:"size"`
	CreatedAt time.Time      `json:"created_at"`
}

// WindowStats contains window manager statistics
type WindowStats struct {
	TotalWindows     int     `json:"total_windows"`
	OpenWindows      int     `json:"open_windows"`
	MinimizedWindows int     `json:"minimized_windows"`
	TopAppID         *string `json:"top_app_id,omitempty"`
}
