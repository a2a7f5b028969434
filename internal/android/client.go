package android

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mj1618/device-cli/internal/logging"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// Client implements platform.Client over adb.
type Client struct {
	adb Commander

	mu     sync.Mutex
	device string
}

// NewClient builds an adb-backed client.
func NewClient(adb Commander) *Client {
	return &Client{adb: adb}
}

func (c *Client) Platform() model.Platform { return model.PlatformAndroid }

// UseDevice scopes subsequent calls to the given serial.
func (c *Client) UseDevice(id string) {
	c.mu.Lock()
	c.device = id
	c.mu.Unlock()
}

// deviceArgs prefixes adb args with the -s <serial> scope when one is set.
func (c *Client) deviceArgs(args ...string) []string {
	c.mu.Lock()
	device := c.device
	c.mu.Unlock()
	if device == "" {
		return args
	}
	return append([]string{"-s", device}, args...)
}

// Devices parses `adb devices -l`. Lines look like:
//
//	emulator-5554          device product:sdk_gphone64 model:sdk_gphone64_x86_64
//	192.168.1.20:5555      offline
func (c *Client) Devices(ctx context.Context) ([]model.Device, error) {
	out, err := c.adb.Run(ctx, "devices", "-l")
	if err != nil {
		return nil, err
	}

	var devices []model.Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices attached") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		id, state := fields[0], fields[1]

		name := id
		for _, prop := range fields[2:] {
			if kv := strings.SplitN(prop, ":", 2); len(kv) == 2 && kv[0] == "model" {
				name = kv[1]
			}
		}

		devices = append(devices, model.Device{
			ID:          id,
			Name:        name,
			Platform:    model.PlatformAndroid,
			State:       state,
			IsSimulator: strings.HasPrefix(id, "emulator-"),
		})
	}
	return devices, nil
}

func (c *Client) ScreenshotRaw(ctx context.Context) ([]byte, error) {
	return c.adb.RunRaw(ctx, c.deviceArgs("exec-out", "screencap", "-p")...)
}

func (c *Client) Tap(ctx context.Context, x, y int) error {
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "input", "tap", itoa(x), itoa(y))...)
	return err
}

// LongPress is a zero-distance swipe held for the duration, the standard
// adb idiom since `input` has no long-press verb.
func (c *Client) LongPress(ctx context.Context, x, y, durationMs int) error {
	if durationMs <= 0 {
		durationMs = 1000
	}
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "input", "swipe",
		itoa(x), itoa(y), itoa(x), itoa(y), itoa(durationMs))...)
	return err
}

func (c *Client) Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error {
	if durationMs <= 0 {
		durationMs = 300
	}
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "input", "swipe",
		itoa(x1), itoa(y1), itoa(x2), itoa(y2), itoa(durationMs))...)
	return err
}

func (c *Client) InputText(ctx context.Context, text string) error {
	// `input text` treats space as an argument separator; %s is its escape.
	escaped := strings.ReplaceAll(text, " ", "%s")
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "input", "text", escaped)...)
	return err
}

// keycodes maps friendly key names onto Android key events. Unknown names
// pass through unchanged so raw KEYCODE_* values and numbers keep working.
var keycodes = map[string]string{
	"home":        "KEYCODE_HOME",
	"back":        "KEYCODE_BACK",
	"enter":       "KEYCODE_ENTER",
	"delete":      "KEYCODE_DEL",
	"backspace":   "KEYCODE_DEL",
	"tab":         "KEYCODE_TAB",
	"menu":        "KEYCODE_MENU",
	"power":       "KEYCODE_POWER",
	"volume-up":   "KEYCODE_VOLUME_UP",
	"volume-down": "KEYCODE_VOLUME_DOWN",
	"recent-apps": "KEYCODE_APP_SWITCH",
}

func (c *Client) PressKey(ctx context.Context, key string) error {
	code, ok := keycodes[strings.ToLower(key)]
	if !ok {
		code = key
	}
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "input", "keyevent", code)...)
	return err
}

// Hierarchy dumps the UI via uiautomator. The dump is flaky under load, so
// it retries twice, killing any stuck uiautomator process between attempts.
func (c *Client) Hierarchy(ctx context.Context) (*model.UiHierarchy, error) {
	log := logging.Component("adb")
	const dumpFile = "/data/local/tmp/ui.xml"

	var out string
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			_, _ = c.adb.Run(ctx, c.deviceArgs("shell", "pkill", "uiautomator")...)
			log.Debug().Int("attempt", attempt+1).Msg("retrying ui dump")
		}
		out, err = c.adb.Run(ctx, c.deviceArgs("shell",
			fmt.Sprintf("uiautomator dump %s && cat %s", dumpFile, dumpFile))...)
		if err == nil && strings.Contains(out, "<?xml") {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	return ParseHierarchy(out, c.ScaleFactor(ctx)), nil
}

// ScaleFactor derives the logical/physical ratio from the device density
// (baseline mdpi = 160). Unknown density reports 1.
func (c *Client) ScaleFactor(ctx context.Context) float64 {
	out, err := c.adb.Run(ctx, c.deviceArgs("shell", "wm", "density")...)
	if err != nil {
		return 1
	}
	// "Physical density: 440"
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 1
	}
	density, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || density <= 0 {
		return 1
	}
	return float64(density) / 160
}

func (c *Client) LaunchApp(ctx context.Context, appID string) error {
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "monkey",
		"-p", appID, "-c", "android.intent.category.LAUNCHER", "1")...)
	return err
}

func (c *Client) StopApp(ctx context.Context, appID string) error {
	_, err := c.adb.Run(ctx, c.deviceArgs("shell", "am", "force-stop", appID)...)
	return err
}

func (c *Client) InstallApp(ctx context.Context, path string) error {
	_, err := c.adb.Run(ctx, c.deviceArgs("install", "-r", path)...)
	return err
}

func (c *Client) Shell(ctx context.Context, command string) (string, error) {
	return c.adb.Run(ctx, c.deviceArgs("shell", command)...)
}

func (c *Client) Logs(ctx context.Context, opts platform.LogOptions) (string, error) {
	lines := opts.MaxLines
	if lines <= 0 {
		lines = 500
	}
	args := c.deviceArgs("logcat", "-d", "-t", itoa(lines))
	out, err := c.adb.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	if opts.Filter == "" {
		return out, nil
	}
	var kept []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(strings.ToLower(line), strings.ToLower(opts.Filter)) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

func (c *Client) ClearLogs(ctx context.Context) error {
	_, err := c.adb.Run(ctx, c.deviceArgs("logcat", "-c")...)
	return err
}

// SystemInfo reports the device build and display properties.
func (c *Client) SystemInfo(ctx context.Context) (string, error) {
	props := []struct{ label, prop string }{
		{"model", "ro.product.model"},
		{"manufacturer", "ro.product.manufacturer"},
		{"android", "ro.build.version.release"},
		{"sdk", "ro.build.version.sdk"},
	}
	var b strings.Builder
	for _, p := range props {
		val, err := c.adb.Run(ctx, c.deviceArgs("shell", "getprop", p.prop)...)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s: %s\n", p.label, val)
	}
	if size, err := c.adb.Run(ctx, c.deviceArgs("shell", "wm", "size")...); err == nil {
		fmt.Fprintf(&b, "screen: %s\n", strings.TrimPrefix(size, "Physical size: "))
	}
	return b.String(), nil
}

func itoa(n int) string { return strconv.Itoa(n) }
