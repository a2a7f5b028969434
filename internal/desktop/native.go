package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// runTool executes a host utility and returns trimmed combined output.
// A missing binary maps to *platform.UnavailableError so callers treat the
// whole desktop target as absent rather than broken.
func runTool(ctx context.Context, bin string, args ...string) (string, error) {
	out, err := runToolRaw(ctx, bin, args...)
	return strings.TrimSpace(string(out)), err
}

func runToolRaw(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, &platform.UnavailableError{Platform: model.PlatformDesktop, Err: err}
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	described := bin + " " + strings.Join(args, " ")
	return stdout.Bytes(), &platform.CommandError{Command: described, Err: errors.New(msg)}
}

// NativeInput injects events through the host's scripting utilities:
// cliclick on macOS, xdotool on X11. Display servers without either tool
// report the desktop target unavailable.
type NativeInput struct {
	goos string
}

func NewNativeInput() *NativeInput { return &NativeInput{goos: runtime.GOOS} }

func (n *NativeInput) ClickAt(ctx context.Context, x, y int) error {
	switch n.goos {
	case "darwin":
		_, err := runTool(ctx, "cliclick", fmt.Sprintf("c:%d,%d", x, y))
		return err
	case "linux":
		_, err := runTool(ctx, "xdotool", "mousemove", itoa(x), itoa(y), "click", "1")
		return err
	}
	return n.unsupported()
}

func (n *NativeInput) PressAt(ctx context.Context, x, y, durationMs int) error {
	switch n.goos {
	case "darwin":
		_, err := runTool(ctx, "cliclick",
			fmt.Sprintf("dd:%d,%d", x, y),
			fmt.Sprintf("w:%d", durationMs),
			fmt.Sprintf("du:%d,%d", x, y))
		return err
	case "linux":
		_, err := runTool(ctx, "xdotool",
			"mousemove", itoa(x), itoa(y), "mousedown", "1",
			"sleep", fmt.Sprintf("%.3f", float64(durationMs)/1000),
			"mouseup", "1")
		return err
	}
	return n.unsupported()
}

func (n *NativeInput) Drag(ctx context.Context, x1, y1, x2, y2, durationMs int) error {
	switch n.goos {
	case "darwin":
		_, err := runTool(ctx, "cliclick",
			fmt.Sprintf("dd:%d,%d", x1, y1),
			fmt.Sprintf("w:%d", durationMs),
			fmt.Sprintf("dm:%d,%d", x2, y2),
			fmt.Sprintf("du:%d,%d", x2, y2))
		return err
	case "linux":
		_, err := runTool(ctx, "xdotool",
			"mousemove", itoa(x1), itoa(y1), "mousedown", "1",
			"mousemove_relative", "--", itoa(x2-x1), itoa(y2-y1),
			"sleep", fmt.Sprintf("%.3f", float64(durationMs)/1000),
			"mouseup", "1")
		return err
	}
	return n.unsupported()
}

func (n *NativeInput) TypeText(ctx context.Context, text string) error {
	switch n.goos {
	case "darwin":
		_, err := runTool(ctx, "cliclick", "t:"+text)
		return err
	case "linux":
		_, err := runTool(ctx, "xdotool", "type", "--", text)
		return err
	}
	return n.unsupported()
}

// macKeys maps friendly key names to cliclick kp: names.
var macKeys = map[string]string{
	"enter":     "return",
	"backspace": "delete",
	"escape":    "esc",
	"delete":    "fwd-delete",
}

func (n *NativeInput) PressKey(ctx context.Context, key string) error {
	switch n.goos {
	case "darwin":
		name := strings.ToLower(key)
		if mapped, ok := macKeys[name]; ok {
			name = mapped
		}
		_, err := runTool(ctx, "cliclick", "kp:"+name)
		return err
	case "linux":
		// xdotool takes X keysym names; the common aliases line up.
		name := key
		if strings.EqualFold(name, "enter") {
			name = "Return"
		}
		_, err := runTool(ctx, "xdotool", "key", name)
		return err
	}
	return n.unsupported()
}

func (n *NativeInput) unsupported() error {
	return &platform.UnavailableError{
		Platform: model.PlatformDesktop,
		Err:      fmt.Errorf("no input backend for %s", n.goos),
	}
}

// NativeCapturer grabs the screen via screencapture (macOS) or
// ImageMagick's import (X11).
type NativeCapturer struct {
	goos string
}

func NewNativeCapturer() *NativeCapturer { return &NativeCapturer{goos: runtime.GOOS} }

func (n *NativeCapturer) CapturePNG(ctx context.Context) ([]byte, error) {
	switch n.goos {
	case "darwin":
		// -x silences the shutter sound; stdout capture avoids a temp file.
		return runToolRaw(ctx, "screencapture", "-x", "-t", "png", "/dev/stdout")
	case "linux":
		return runToolRaw(ctx, "import", "-window", "root", "png:-")
	}
	return nil, &platform.UnavailableError{
		Platform: model.PlatformDesktop,
		Err:      fmt.Errorf("no capture backend for %s", n.goos),
	}
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
