// Package platform defines the unified backend client contract and the
// Router that dispatches every command to the right backend while tracking
// the active device.
package platform

import (
	"context"

	"github.com/mj1618/device-cli/internal/model"
)

// LogOptions filters a log fetch.
type LogOptions struct {
	Filter   string // substring or backend-native filter expression
	MaxLines int    // 0 = backend default
}

// Client is one platform backend. Implementations translate each unified
// command into platform-native calls (adb, simctl/idb, native desktop
// input). Clients are expected to scope device-addressed calls to the id
// most recently passed to UseDevice.
//
// Features a platform cannot support return an explanatory string result
// (where the signature allows) rather than an error, to keep the unified
// surface forgiving.
type Client interface {
	Platform() model.Platform

	// Devices enumerates the backend's devices. A missing toolchain is
	// reported as *UnavailableError so callers can treat it as an empty
	// result rather than a hard failure.
	Devices(ctx context.Context) ([]model.Device, error)
	UseDevice(id string)

	// ScreenshotRaw returns PNG-encoded pixels from the capture
	// collaborator. Physical-to-logical conversion is the backend's
	// concern; the returned bytes are what the compressor consumes.
	ScreenshotRaw(ctx context.Context) ([]byte, error)

	// ScaleFactor is the physical-to-logical pixel ratio of the active
	// device. Backends that already work in logical units report 1.
	ScaleFactor(ctx context.Context) float64

	Tap(ctx context.Context, x, y int) error
	LongPress(ctx context.Context, x, y, durationMs int) error
	Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error
	InputText(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error

	Hierarchy(ctx context.Context) (*model.UiHierarchy, error)

	LaunchApp(ctx context.Context, appID string) error
	StopApp(ctx context.Context, appID string) error
	InstallApp(ctx context.Context, path string) error

	Shell(ctx context.Context, command string) (string, error)
	Logs(ctx context.Context, opts LogOptions) (string, error)
	ClearLogs(ctx context.Context) error
	SystemInfo(ctx context.Context) (string, error)
}
