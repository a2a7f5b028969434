package desktop

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// enumerateScript emits one line per window: the System Events fields
// separated by tabs, in enumeration order. AXMain marks the focused window
// of the frontmost process.
const enumerateScript = `
set out to ""
tell application "System Events"
	set procs to every process whose visible is true
	repeat with p in procs
		set pname to name of p
		set isFront to frontmost of p
		repeat with w in (every window of p)
			set {wx, wy} to position of w
			set {ww, wh} to size of w
			set isMain to "false"
			try
				if isFront and (value of attribute "AXMain" of w) then set isMain to "true"
			end try
			set isMin to "false"
			try
				if value of attribute "AXMinimized" of w then set isMin to "true"
			end try
			set isFull to "false"
			try
				if value of attribute "AXFullScreen" of w then set isFull to "true"
			end try
			set out to out & pname & ":" & (name of w) & tab & pname & tab & (name of w) & tab & wx & tab & wy & tab & ww & tab & wh & tab & isMain & tab & isMin & tab & isFull & linefeed
		end repeat
	end repeat
end tell
return out`

// ScriptEnumerator implements window.Enumerator through host scripting:
// osascript/System Events on macOS, xdotool on X11.
type ScriptEnumerator struct {
	input *NativeInput
	goos  string
}

func NewScriptEnumerator(input *NativeInput) *ScriptEnumerator {
	return &ScriptEnumerator{input: input, goos: runtime.GOOS}
}

func (e *ScriptEnumerator) Enumerate(ctx context.Context) ([]model.Window, error) {
	switch e.goos {
	case "darwin":
		return e.enumerateDarwin(ctx)
	case "linux":
		return e.enumerateX11(ctx)
	}
	return nil, e.unsupported()
}

func (e *ScriptEnumerator) enumerateDarwin(ctx context.Context) ([]model.Window, error) {
	out, err := runTool(ctx, "osascript", "-e", enumerateScript)
	if err != nil {
		return nil, err
	}

	var windows []model.Window
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 10 {
			continue
		}
		x, _ := strconv.Atoi(fields[3])
		y, _ := strconv.Atoi(fields[4])
		w, _ := strconv.Atoi(fields[5])
		h, _ := strconv.Atoi(fields[6])
		windows = append(windows, model.Window{
			ID:         fields[0],
			OwnerName:  fields[1],
			Title:      fields[2],
			Bounds:     model.Rect{X: x, Y: y, Width: w, Height: h},
			Focused:    fields[7] == "true",
			Minimized:  fields[8] == "true",
			Fullscreen: fields[9] == "true",
		})
	}
	return windows, nil
}

func (e *ScriptEnumerator) enumerateX11(ctx context.Context) ([]model.Window, error) {
	out, err := runTool(ctx, "xdotool", "search", "--onlyvisible", "--name", "")
	if err != nil {
		return nil, err
	}
	active, _ := runTool(ctx, "xdotool", "getactivewindow")

	var windows []model.Window
	for _, id := range strings.Fields(out) {
		geom, err := runTool(ctx, "xdotool", "getwindowgeometry", "--shell", id)
		if err != nil {
			continue
		}
		title, _ := runTool(ctx, "xdotool", "getwindowname", id)
		bounds := parseShellGeometry(geom)
		windows = append(windows, model.Window{
			ID:      id,
			Title:   title,
			Bounds:  bounds,
			Focused: id == active,
		})
	}
	return windows, nil
}

// parseShellGeometry reads xdotool's --shell form (X=..\nY=..\nWIDTH=..\nHEIGHT=..).
func parseShellGeometry(out string) model.Rect {
	var r model.Rect
	for _, line := range strings.Split(out, "\n") {
		kv := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(kv) != 2 {
			continue
		}
		v, err := strconv.Atoi(kv[1])
		if err != nil {
			continue
		}
		switch kv[0] {
		case "X":
			r.X = v
		case "Y":
			r.Y = v
		case "WIDTH":
			r.Width = v
		case "HEIGHT":
			r.Height = v
		}
	}
	return r
}

func (e *ScriptEnumerator) Raise(ctx context.Context, id string) error {
	switch e.goos {
	case "darwin":
		proc, win, ok := strings.Cut(id, ":")
		if !ok {
			return fmt.Errorf("malformed window id %q", id)
		}
		script := fmt.Sprintf(`tell application "System Events"
	set frontmost of process %q to true
	perform action "AXRaise" of window %q of process %q
end tell`, proc, win, proc)
		_, err := runTool(ctx, "osascript", "-e", script)
		return err
	case "linux":
		_, err := runTool(ctx, "xdotool", "windowactivate", id)
		return err
	}
	return e.unsupported()
}

func (e *ScriptEnumerator) SetBounds(ctx context.Context, id string, bounds model.Rect) error {
	switch e.goos {
	case "darwin":
		proc, win, ok := strings.Cut(id, ":")
		if !ok {
			return fmt.Errorf("malformed window id %q", id)
		}
		script := fmt.Sprintf(`tell application "System Events" to tell window %q of process %q
	set position to {%d, %d}
	set size to {%d, %d}
end tell`, win, proc, bounds.X, bounds.Y, bounds.Width, bounds.Height)
		_, err := runTool(ctx, "osascript", "-e", script)
		return err
	case "linux":
		if _, err := runTool(ctx, "xdotool", "windowmove", id,
			strconv.Itoa(bounds.X), strconv.Itoa(bounds.Y)); err != nil {
			return err
		}
		_, err := runTool(ctx, "xdotool", "windowsize", id,
			strconv.Itoa(bounds.Width), strconv.Itoa(bounds.Height))
		return err
	}
	return e.unsupported()
}

func (e *ScriptEnumerator) ClickAt(ctx context.Context, x, y int) error {
	return e.input.ClickAt(ctx, x, y)
}

func (e *ScriptEnumerator) unsupported() error {
	return &platform.UnavailableError{
		Platform: model.PlatformDesktop,
		Err:      fmt.Errorf("no window backend for %s", e.goos),
	}
}
