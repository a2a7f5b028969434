package ios

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// Client implements platform.Client over simctl and idb. Simctl covers the
// simulator lifecycle (list, boot state, launch, install, logs,
// screenshots); idb covers UI introspection and input, which simctl has no
// verbs for.
type Client struct {
	simctl Commander
	idb    Commander

	mu     sync.Mutex
	device string
}

func NewClient(simctl, idb Commander) *Client {
	return &Client{simctl: simctl, idb: idb}
}

func (c *Client) Platform() model.Platform { return model.PlatformIOS }

func (c *Client) UseDevice(id string) {
	c.mu.Lock()
	c.device = id
	c.mu.Unlock()
}

// udid resolves the target simulator, defaulting to simctl's "booted"
// alias when no device was selected.
func (c *Client) udid() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == "" {
		return "booted"
	}
	return c.device
}

// Devices parses `simctl list devices --json`. The document groups
// simulators by runtime:
//
//	{"devices": {"com.apple.CoreSimulator.SimRuntime.iOS-17-2": [{...}]}}
func (c *Client) Devices(ctx context.Context) ([]model.Device, error) {
	out, err := c.simctl.Run(ctx, "list", "devices", "--json")
	if err != nil {
		return nil, err
	}

	var devices []model.Device
	gjson.Get(out, "devices").ForEach(func(runtime, list gjson.Result) bool {
		list.ForEach(func(_, d gjson.Result) bool {
			if !d.Get("isAvailable").Bool() {
				return true
			}
			devices = append(devices, model.Device{
				ID:          d.Get("udid").String(),
				Name:        d.Get("name").String(),
				Platform:    model.PlatformIOS,
				State:       strings.ToLower(d.Get("state").String()),
				IsSimulator: true,
			})
			return true
		})
		return true
	})
	return devices, nil
}

func (c *Client) ScreenshotRaw(ctx context.Context) ([]byte, error) {
	// "-" streams the PNG to stdout instead of a file.
	return c.simctl.RunRaw(ctx, "io", c.udid(), "screenshot", "--type=png", "-")
}

// ScaleFactor is 1: simulator accessibility frames and idb input both work
// in points already.
func (c *Client) ScaleFactor(ctx context.Context) float64 { return 1 }

func (c *Client) Tap(ctx context.Context, x, y int) error {
	_, err := c.idb.Run(ctx, "ui", "tap", "--udid", c.udid(), itoa(x), itoa(y))
	return err
}

func (c *Client) LongPress(ctx context.Context, x, y, durationMs int) error {
	if durationMs <= 0 {
		durationMs = 1000
	}
	_, err := c.idb.Run(ctx, "ui", "tap", "--udid", c.udid(),
		"--duration", formatSeconds(durationMs), itoa(x), itoa(y))
	return err
}

func (c *Client) Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error {
	if durationMs <= 0 {
		durationMs = 300
	}
	_, err := c.idb.Run(ctx, "ui", "swipe", "--udid", c.udid(),
		"--duration", formatSeconds(durationMs),
		itoa(x1), itoa(y1), itoa(x2), itoa(y2))
	return err
}

func (c *Client) InputText(ctx context.Context, text string) error {
	_, err := c.idb.Run(ctx, "ui", "text", "--udid", c.udid(), text)
	return err
}

// idb key takes HID keycodes; the friendly names cover what an agent
// actually presses on a simulator.
var hidKeycodes = map[string]string{
	"enter":     "40",
	"return":    "40",
	"backspace": "42",
	"delete":    "42",
	"tab":       "43",
	"space":     "44",
	"escape":    "41",
}

func (c *Client) PressKey(ctx context.Context, key string) error {
	if strings.EqualFold(key, "home") {
		// No HID code for the home button; idb has a dedicated verb.
		_, err := c.idb.Run(ctx, "ui", "button", "--udid", c.udid(), "HOME")
		return err
	}
	code, ok := hidKeycodes[strings.ToLower(key)]
	if !ok {
		code = key
	}
	_, err := c.idb.Run(ctx, "ui", "key", "--udid", c.udid(), code)
	return err
}

func (c *Client) Hierarchy(ctx context.Context) (*model.UiHierarchy, error) {
	out, err := c.idb.Run(ctx, "ui", "describe-all", "--udid", c.udid(), "--json")
	if err != nil {
		return nil, err
	}
	return ParseHierarchy(out), nil
}

func (c *Client) LaunchApp(ctx context.Context, appID string) error {
	_, err := c.simctl.Run(ctx, "launch", c.udid(), appID)
	return err
}

func (c *Client) StopApp(ctx context.Context, appID string) error {
	_, err := c.simctl.Run(ctx, "terminate", c.udid(), appID)
	return err
}

func (c *Client) InstallApp(ctx context.Context, path string) error {
	_, err := c.simctl.Run(ctx, "install", c.udid(), path)
	return err
}

// Shell has no simulator equivalent; simctl spawn runs a binary inside the
// simulator's environment, which is the closest analogue.
func (c *Client) Shell(ctx context.Context, command string) (string, error) {
	return c.simctl.Run(ctx, "spawn", c.udid(), "sh", "-c", command)
}

func (c *Client) Logs(ctx context.Context, opts platform.LogOptions) (string, error) {
	args := []string{"spawn", c.udid(), "log", "show", "--style", "compact", "--last", "5m"}
	if opts.Filter != "" {
		args = append(args, "--predicate",
			fmt.Sprintf("eventMessage CONTAINS[c] %q", opts.Filter))
	}
	out, err := c.simctl.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	if opts.MaxLines > 0 {
		lines := strings.Split(out, "\n")
		if len(lines) > opts.MaxLines {
			out = strings.Join(lines[len(lines)-opts.MaxLines:], "\n")
		}
	}
	return out, nil
}

// ClearLogs is a no-op: the unified log store cannot be erased per
// simulator, and log fetches are already time-windowed.
func (c *Client) ClearLogs(ctx context.Context) error {
	return nil
}

func (c *Client) SystemInfo(ctx context.Context) (string, error) {
	out, err := c.simctl.Run(ctx, "list", "devices", "--json")
	if err != nil {
		return "", err
	}
	udid := c.udid()
	var info string
	gjson.Get(out, "devices").ForEach(func(runtime, list gjson.Result) bool {
		list.ForEach(func(_, d gjson.Result) bool {
			if d.Get("udid").String() != udid {
				return true
			}
			info = fmt.Sprintf("name: %s\nudid: %s\nstate: %s\nruntime: %s\n",
				d.Get("name").String(), udid,
				strings.ToLower(d.Get("state").String()),
				runtimeName(runtime.String()))
			return false
		})
		return info == ""
	})
	if info == "" {
		return "system info is not available for this simulator target", nil
	}
	return info, nil
}

// runtimeName shortens "com.apple.CoreSimulator.SimRuntime.iOS-17-2" to
// "iOS 17.2".
func runtimeName(id string) string {
	last := id[strings.LastIndex(id, ".")+1:]
	parts := strings.SplitN(last, "-", 2)
	if len(parts) == 2 {
		return parts[0] + " " + strings.ReplaceAll(parts[1], "-", ".")
	}
	return last
}

func formatSeconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'g', -1, 64)
}

func itoa(n int) string { return strconv.Itoa(n) }
