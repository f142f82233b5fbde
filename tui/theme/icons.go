package theme

import (
	"os"

	"github.com/wardentools/core/config"
)

// Nerd Font Icons (Private Constants)
const (
	nerdIconSuccess = "󰄬" // md-check (U+F012C)
	nerdIconError   = "" // cod-error (U+EA87)
	nerdIconWarning = "" // fa-warning (U+F071)
	nerdIconInfo    = "󰋼" // md-information (U+F02FC)
	nerdIconRunning = "" // fa-refresh (U+F021)
	nerdIconPending = "󰦖" // md-progress_clock (U+F0996)
	nerdIconArrow   = "󰁔" // md-arrow_right (U+F0054)
	nerdIconBullet  = "" // oct-dot_fill (U+F444)
	nerdIconBlocked = "" // oct-blocked (U+F479)
	nerdIconAudited = "󰳈" // md-shield_check_outline (U+F0CC8)
	nerdIconFilter  = "󱣬" // md-filter_check (U+F18EC)
	nerdIconWrite   = "󰉉" // md-floppy (U+F0249)
)

// ASCII Fallback Icons (Private Constants)
const (
	asciiIconSuccess = "✓"
	asciiIconError   = "✗"
	asciiIconWarning = "⚠"
	asciiIconInfo    = "ℹ"
	asciiIconRunning = "◐"
	asciiIconPending = "…"
	asciiIconArrow   = "→"
	asciiIconBullet  = "•"
	asciiIconBlocked = "[X]"
	asciiIconAudited = "✓"
	asciiIconFilter  = "⊲"
	asciiIconWrite   = "[W]"
)

// Public Icon Variables
var (
	IconSuccess string
	IconError   string
	IconWarning string
	IconInfo    string
	IconRunning string
	IconPending string
	IconArrow   string
	IconBullet  string
	IconBlocked string
	IconAudited string
	IconFilter  string
	IconWrite   string
)

// init function determines which icon set to use
func init() {
	useASCII := false

	// 1. Check environment variable first
	if os.Getenv("WARDEN_ICONS") == "ascii" {
		useASCII = true
	} else {
		// 2. Check config file
		cfg, err := config.LoadDefault()
		if err == nil && cfg.TUI != nil && cfg.TUI.Icons == "ascii" {
			useASCII = true
		}
	}

	if useASCII {
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconRunning = asciiIconRunning
		IconPending = asciiIconPending
		IconArrow = asciiIconArrow
		IconBullet = asciiIconBullet
		IconBlocked = asciiIconBlocked
		IconAudited = asciiIconAudited
		IconFilter = asciiIconFilter
		IconWrite = asciiIconWrite
	} else {
		IconSuccess = nerdIconSuccess
		IconError = nerdIconError
		IconWarning = nerdIconWarning
		IconInfo = nerdIconInfo
		IconRunning = nerdIconRunning
		IconPending = nerdIconPending
		IconArrow = nerdIconArrow
		IconBullet = nerdIconBullet
		IconBlocked = nerdIconBlocked
		IconAudited = nerdIconAudited
		IconFilter = nerdIconFilter
		IconWrite = nerdIconWrite
	}
}
