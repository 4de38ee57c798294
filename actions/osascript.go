package actions

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// NX key type constants (IOKit/hidsystem/ev_keymap.h). These actions need an
// external helper binary because key events require Accessibility permission
// from a trusted process.
const (
	nxBrightnessUp   = 2
	nxBrightnessDown = 3
	nxPlay           = 16
	nxNext           = 17
	nxPrev           = 18
	nxKbdBrightUp    = 21
	nxKbdBrightDown  = 22
)

const statusTimeout = 2 * time.Second

type osaExecutor struct {
	// helperPath points at the binary that injects NX key events.
	helperPath string
}

// NewOsaExecutor returns an Executor backed by AppleScript (volume), the NX
// key helper at helperPath (brightness, media transport, keyboard backlight)
// and Launch Services (Mission Control, Launchpad).
func NewOsaExecutor(helperPath string) Executor {
	return &osaExecutor{
		helperPath: helperPath,
	}
}

func (e *osaExecutor) Run(name string) error {
	switch name {
	case ActionVolumeUp:
		return osascript("set volume output volume ((output volume of (get volume settings)) + 6.25)")
	case ActionVolumeDown:
		return osascript("set volume output volume ((output volume of (get volume settings)) - 6.25)")
	case ActionMute:
		return osascript("set volume output muted (not output muted of (get volume settings))")
	case ActionBrightnessUp:
		return e.nxKey(nxBrightnessUp)
	case ActionBrightnessDown:
		return e.nxKey(nxBrightnessDown)
	case ActionPlayPause:
		return e.nxKey(nxPlay)
	case ActionNextTrack:
		return e.nxKey(nxNext)
	case ActionPrevTrack:
		return e.nxKey(nxPrev)
	case ActionKbdBrightUp:
		return e.nxKey(nxKbdBrightUp)
	case ActionKbdBrightDown:
		return e.nxKey(nxKbdBrightDown)
	case ActionMissionControl:
		return openApp("Mission Control")
	case ActionLaunchpad:
		return openApp("Launchpad")
	default:
		return ErrUnknownAction
	}
}

func (e *osaExecutor) Status(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	volumeOut, err := exec.CommandContext(ctx, "osascript", "-e", "output volume of (get volume settings)").Output()
	if err != nil {
		return Status{}, fmt.Errorf("query output volume: %w", err)
	}
	mutedOut, err := exec.CommandContext(ctx, "osascript", "-e", "output muted of (get volume settings)").Output()
	if err != nil {
		return Status{}, fmt.Errorf("query output muted: %w", err)
	}
	volume, err := strconv.Atoi(strings.TrimSpace(string(volumeOut)))
	if err != nil {
		volume = -1
	}
	return Status{
		Volume: volume,
		Muted:  strings.TrimSpace(string(mutedOut)) == "true",
	}, nil
}

func osascript(script string) error {
	return exec.Command("osascript", "-e", script).Run()
}

func (e *osaExecutor) nxKey(key int) error {
	return exec.Command(e.helperPath, strconv.Itoa(key)).Run()
}

func openApp(name string) error {
	return exec.Command("open", "-a", name).Run()
}
