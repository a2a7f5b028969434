package accessibility

import (
	"runtime"

	"github.com/mj1618/device-cli/internal/window"
)

// Per-OS profiles. Container roles get extra traversal levels (one by
// default, Tuning.ContainerDepth to go deeper) because that is where
// interactive controls hide (toolbars, groups, scroll areas); everything
// deeper is cost without payoff for an agent.

var darwinProfile = profile{
	name: "darwin",
	instructions: []string{
		"Open System Settings > Privacy & Security > Accessibility",
		"Add your terminal app (e.g. Terminal.app, iTerm2, or the IDE running this command)",
		"Enable the toggle next to it",
		"Restart the terminal and run the command again",
	},
	containerRoles: map[string]bool{
		"axgroup":      true,
		"axscrollarea": true,
		"axtoolbar":    true,
		"axsplitgroup": true,
		"axtabgroup":   true,
	},
}

var windowsProfile = profile{
	name:          "windows",
	alwaysTrusted: true, // UIA needs no per-app consent
	containerRoles: map[string]bool{
		"pane":    true,
		"group":   true,
		"toolbar": true,
		"tab":     true,
	},
}

var linuxProfile = profile{
	name: "linux",
	instructions: []string{
		"Enable the AT-SPI accessibility bus for your session",
		"GNOME: gsettings set org.gnome.desktop.interface toolkit-accessibility true",
		"Other desktops: ensure at-spi2-core is installed and running",
		"Log out and back in, then run the command again",
	},
	containerRoles: map[string]bool{
		"panel":       true,
		"filler":      true,
		"scroll pane": true,
		"tool bar":    true,
	},
}

// New selects the capability variant for the current OS once at startup.
// All call sites dispatch through the Capability interface afterwards; no
// per-call OS branching.
func New(probe Introspector, windows *window.Registry, tuning Tuning) Capability {
	return newCapability(profileForOS(runtime.GOOS), probe, windows, tuning)
}

func profileForOS(goos string) profile {
	switch goos {
	case "darwin":
		return darwinProfile
	case "windows":
		return windowsProfile
	default:
		return linuxProfile
	}
}
