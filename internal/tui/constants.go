package tui

// Key binding constants for TUI navigation and interaction
const (
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeyCtrlC = "ctrl+c"
	KeyUp    = "up"
	KeyDown  = "down"
	KeyLeft  = "left"
	KeyRight = "right"
	KeySpace = " "
)

// UI element constants
const (
	CheckboxUnchecked = "[ ]"
	CheckboxChecked   = "[x]"
	CheckboxMapped    = "[=]"
	MarkerExpanded    = "▾"
	MarkerCollapsed   = "▸"
	MarkerLeaf        = " "
	IndentSpaces      = "  "
)

// Scrolling behavior constants
const (
	// minViewHeight is the smallest usable list viewport
	minViewHeight = 5
	// viewChrome is the number of lines used by title, status and footer
	viewChrome = 10
)
