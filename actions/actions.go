// Package actions translates action names from the web UI into OS-level
// effects (volume, brightness, media transport). The HTTP layer only talks
// to the Dispatcher; the concrete Executor is replaceable.
package actions

import (
	"context"
	"errors"
)

var ErrUnknownAction = errors.New("unknown-action")

// Status is the current output volume state of the controlled device.
type Status struct {
	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`
}

// Executor performs a single named action. Run may block for the duration
// of the underlying OS call; callers that must not block dispatch through
// the Dispatcher instead.
type Executor interface {
	Run(name string) error
	Status(ctx context.Context) (Status, error)
}

// The full action surface of the control UI. Brightness, media transport
// and keyboard backlight map to NX key events, the rest to AppleScript or
// Launch Services.
const (
	ActionVolumeUp       = "volume_up"
	ActionVolumeDown     = "volume_down"
	ActionMute           = "mute"
	ActionBrightnessUp   = "brightness_up"
	ActionBrightnessDown = "brightness_down"
	ActionPlayPause      = "play_pause"
	ActionNextTrack      = "next_track"
	ActionPrevTrack      = "prev_track"
	ActionKbdBrightUp    = "kbd_bright_up"
	ActionKbdBrightDown  = "kbd_bright_down"
	ActionMissionControl = "mission_control"
	ActionLaunchpad      = "launchpad"
)

var knownActions = map[string]struct{}{
	ActionVolumeUp:       {},
	ActionVolumeDown:     {},
	ActionMute:           {},
	ActionBrightnessUp:   {},
	ActionBrightnessDown: {},
	ActionPlayPause:      {},
	ActionNextTrack:      {},
	ActionPrevTrack:      {},
	ActionKbdBrightUp:    {},
	ActionKbdBrightDown:  {},
	ActionMissionControl: {},
	ActionLaunchpad:      {},
}

// Known reports whether name is a recognized action.
func Known(name string) bool {
	_, ok := knownActions[name]
	return ok
}
