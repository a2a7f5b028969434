// Package desktop drives the local desktop through native accessibility,
// window management, and an input-injection collaborator. The target is
// experimental: every surface degrades rather than fails when the host
// withholds a capability.
package desktop

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/mj1618/device-cli/internal/accessibility"
	"github.com/mj1618/device-cli/internal/logging"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
	"github.com/mj1618/device-cli/internal/proc"
	"github.com/mj1618/device-cli/internal/window"
)

// DeviceID is the synthetic identifier of the single desktop target.
const DeviceID = "desktop"

// Input injects pointer and keyboard events at screen coordinates.
type Input interface {
	ClickAt(ctx context.Context, x, y int) error
	PressAt(ctx context.Context, x, y, durationMs int) error
	Drag(ctx context.Context, x1, y1, x2, y2, durationMs int) error
	TypeText(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error
}

// Capturer grabs the screen as PNG bytes.
type Capturer interface {
	CapturePNG(ctx context.Context) ([]byte, error)
}

// Launcher spawns a desktop application and hands back a supervisable
// process handle.
type Launcher interface {
	Launch(ctx context.Context, appID string) (proc.Handle, error)
}

// Client implements platform.Client for the local desktop. There is no
// remote device: enumeration reports one synthetic entry, always running,
// and UseDevice is a no-op beyond validation done by the router.
type Client struct {
	access     accessibility.Capability
	windows    *window.Registry
	input      Input
	capture    Capturer
	launcher   Launcher
	supervisor *proc.Supervisor
}

func NewClient(access accessibility.Capability, windows *window.Registry,
	input Input, capture Capturer, launcher Launcher, supervisor *proc.Supervisor) *Client {
	return &Client{
		access:     access,
		windows:    windows,
		input:      input,
		capture:    capture,
		launcher:   launcher,
		supervisor: supervisor,
	}
}

func (c *Client) Platform() model.Platform { return model.PlatformDesktop }

func (c *Client) Devices(ctx context.Context) ([]model.Device, error) {
	return []model.Device{{
		ID:       DeviceID,
		Name:     "Local desktop (" + runtime.GOOS + ")",
		Platform: model.PlatformDesktop,
		State:    "running",
	}}, nil
}

func (c *Client) UseDevice(id string) {}

func (c *Client) ScreenshotRaw(ctx context.Context) ([]byte, error) {
	return c.capture.CapturePNG(ctx)
}

// ScaleFactor is 1: the accessibility tree, window geometry, and input
// injection all use the same point coordinate space.
func (c *Client) ScaleFactor(ctx context.Context) float64 { return 1 }

func (c *Client) Tap(ctx context.Context, x, y int) error {
	return c.input.ClickAt(ctx, x, y)
}

func (c *Client) LongPress(ctx context.Context, x, y, durationMs int) error {
	if durationMs <= 0 {
		durationMs = 1000
	}
	return c.input.PressAt(ctx, x, y, durationMs)
}

func (c *Client) Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error {
	if durationMs <= 0 {
		durationMs = 300
	}
	return c.input.Drag(ctx, x1, y1, x2, y2, durationMs)
}

func (c *Client) InputText(ctx context.Context, text string) error {
	return c.input.TypeText(ctx, text)
}

func (c *Client) PressKey(ctx context.Context, key string) error {
	return c.input.PressKey(ctx, key)
}

// Hierarchy introspects the focused window. Permission denial surfaces as
// *platform.PermissionRequiredError so the command layer can print the
// remediation steps; a granted-but-empty probe still succeeds with the
// window-level fallback the capability layer provides.
func (c *Client) Hierarchy(ctx context.Context) (*model.UiHierarchy, error) {
	status, err := c.access.CheckPermissions(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Granted {
		return nil, &platform.PermissionRequiredError{Instructions: status.Instructions}
	}
	return c.access.GetHierarchy(ctx, "")
}

// LaunchApp spawns the application as a supervised companion process so a
// later StopApp (or a replacement launch) can wind it down gracefully.
func (c *Client) LaunchApp(ctx context.Context, appID string) error {
	h, err := c.launcher.Launch(ctx, appID)
	if err != nil {
		return err
	}
	c.supervisor.Attach(ctx, h)
	log := logging.Component("desktop")
	log.Info().Str("app", appID).Msg("companion launched")
	return nil
}

// StopApp terminates the supervised companion. Stopping an app that was
// not launched through this client is out of reach, so an appID mismatch
// is not detectable here; the supervisor state is authoritative.
func (c *Client) StopApp(ctx context.Context, appID string) error {
	if !c.supervisor.Running() {
		return nil
	}
	state := c.supervisor.Terminate(ctx)
	log := logging.Component("desktop")
	log.Info().
		Str("app", appID).Str("state", string(state)).Msg("companion stopped")
	return nil
}

func (c *Client) InstallApp(ctx context.Context, path string) error {
	return &platform.UnsupportedError{Feature: "install", Platform: model.PlatformDesktop}
}

// Shell has a string result channel, so the unsupported explanation travels
// as the result itself.
func (c *Client) Shell(ctx context.Context, command string) (string, error) {
	return "shell is not supported on the desktop target; run commands directly on the host", nil
}

func (c *Client) Logs(ctx context.Context, opts platform.LogOptions) (string, error) {
	return "log collection is not supported on the desktop target", nil
}

func (c *Client) ClearLogs(ctx context.Context) error { return nil }

// SystemInfo reports the host and the current window landscape.
func (c *Client) SystemInfo(ctx context.Context) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "os: %s\narch: %s\n", runtime.GOOS, runtime.GOARCH)

	windows, err := c.windows.Windows(ctx)
	if err != nil {
		return b.String(), nil
	}
	fmt.Fprintf(&b, "windows: %d\n", len(windows))
	for _, w := range windows {
		if w.Focused {
			fmt.Fprintf(&b, "focused: %s\n", w.Title)
			break
		}
	}
	return b.String(), nil
}

// Windows exposes the registry for the window-surface commands, which only
// exist on the desktop target.
func (c *Client) Windows() *window.Registry { return c.windows }

// Accessibility exposes the capability layer for the permissions command.
func (c *Client) Accessibility() accessibility.Capability { return c.access }
