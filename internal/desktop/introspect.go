package desktop

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/mj1618/device-cli/internal/accessibility"
	"github.com/mj1618/device-cli/internal/model"
)

// ScriptIntrospector implements accessibility.Introspector through host
// scripting. On macOS it drives System Events, which requires the
// Accessibility permission and therefore doubles as the trust probe. On
// other hosts introspection is unavailable and the capability layer falls
// back to window-level hierarchies.
type ScriptIntrospector struct {
	goos string
}

func NewScriptIntrospector() *ScriptIntrospector {
	return &ScriptIntrospector{goos: runtime.GOOS}
}

func (s *ScriptIntrospector) Trusted(ctx context.Context) (bool, error) {
	switch s.goos {
	case "darwin":
		// Any UI query fails with an assistive-access error until the
		// host process is trusted.
		_, err := runTool(ctx, "osascript", "-e",
			`tell application "System Events" to count processes`)
		if err == nil {
			return true, nil
		}
		if strings.Contains(err.Error(), "assistive access") ||
			strings.Contains(err.Error(), "-25211") ||
			strings.Contains(err.Error(), "-1719") {
			return false, nil
		}
		return false, err
	case "linux":
		// AT-SPI reachable means assistive tech is enabled for the session.
		_, err := runTool(ctx, "busctl", "--user", "status", "org.a11y.Bus")
		return err == nil, nil
	}
	// Hosts without a gated introspection API are always trusted; the
	// TopLevel probe decides what is actually available.
	return true, nil
}

func (s *ScriptIntrospector) OpenPermissionSettings(ctx context.Context) error {
	if s.goos != "darwin" {
		return nil
	}
	_, err := runTool(ctx, "open",
		"x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility")
	return err
}

// elementScript emits one tab-separated line per direct UI element of the
// target: index, role, title, value, enabled, x, y, width, height.
const elementScriptBody = `
set out to ""
tell application "System Events"
	set els to UI elements of %s
	repeat with i from 1 to count of els
		set el to item i of els
		set r to ""
		try
			set r to role of el
		end try
		set t to ""
		try
			set t to name of el
		end try
		set v to ""
		try
			set v to (value of el) as text
		end try
		set en to "true"
		try
			if not (enabled of el) then set en to "false"
		end try
		set {ex, ey} to {0, 0}
		try
			set {ex, ey} to position of el
		end try
		set {ew, eh} to {0, 0}
		try
			set {ew, eh} to size of el
		end try
		set out to out & i & tab & r & tab & t & tab & v & tab & en & tab & ex & tab & ey & tab & ew & tab & eh & linefeed
	end repeat
end tell
return out`

func (s *ScriptIntrospector) TopLevel(ctx context.Context, windowID string) ([]accessibility.Node, error) {
	if s.goos != "darwin" {
		return nil, fmt.Errorf("ui introspection is not available on %s", s.goos)
	}

	target, base := windowTarget(windowID)
	out, err := runTool(ctx, "osascript", "-e", fmt.Sprintf(elementScriptBody, target))
	if err != nil {
		return nil, err
	}
	return parseNodes(out, base), nil
}

func (s *ScriptIntrospector) Children(ctx context.Context, ref string) ([]accessibility.Node, error) {
	if s.goos != "darwin" {
		return nil, fmt.Errorf("ui introspection is not available on %s", s.goos)
	}

	windowID, path, ok := strings.Cut(ref, "|")
	if !ok {
		return nil, fmt.Errorf("malformed element ref %q", ref)
	}
	target, _ := windowTarget(windowID)
	for _, idx := range strings.Split(path, "/") {
		target = "UI element " + idx + " of " + target
	}

	out, err := runTool(ctx, "osascript", "-e", fmt.Sprintf(elementScriptBody, target))
	if err != nil {
		return nil, err
	}
	return parseNodes(out, ref), nil
}

// windowTarget maps an enumerator window id ("proc:title", or "" for the
// front window) to a System Events object specifier, plus the ref prefix
// child nodes will carry.
func windowTarget(windowID string) (target, base string) {
	if windowID == "" {
		return "front window of (first process whose frontmost is true)", "front"
	}
	proc, win, ok := strings.Cut(windowID, ":")
	if !ok {
		return "front window of (first process whose frontmost is true)", "front"
	}
	return fmt.Sprintf("window %q of process %q", win, proc), windowID
}

// pressableRoles are AX roles whose primary action is a press.
var pressableRoles = map[string]bool{
	"AXButton":             true,
	"AXCheckBox":           true,
	"AXRadioButton":        true,
	"AXLink":               true,
	"AXMenuItem":           true,
	"AXMenuButton":         true,
	"AXPopUpButton":        true,
	"AXTextField":          true,
	"AXTextArea":           true,
	"AXComboBox":           true,
	"AXDisclosureTriangle": true,
}

func parseNodes(out, base string) []accessibility.Node {
	var nodes []accessibility.Node
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 9 {
			continue
		}
		x, _ := strconv.Atoi(fields[5])
		y, _ := strconv.Atoi(fields[6])
		w, _ := strconv.Atoi(fields[7])
		h, _ := strconv.Atoi(fields[8])
		role := fields[1]
		ref := base + "|" + fields[0]
		if strings.Contains(base, "|") {
			ref = base + "/" + fields[0]
		}
		nodes = append(nodes, accessibility.Node{
			Ref:       ref,
			Role:      role,
			Title:     fields[2],
			Value:     fields[3],
			Bounds:    model.Rect{X: x, Y: y, Width: w, Height: h},
			Clickable: pressableRoles[role],
			Enabled:   fields[4] == "true",
			Focusable: pressableRoles[role],
		})
	}
	return nodes
}
