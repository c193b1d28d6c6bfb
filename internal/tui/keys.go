package tui

// Key bindings recognized by the dashboard.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyRefresh  = "r"
	keyOne      = "1"
	keyTwo      = "2"
	keyThree    = "3"
)
