package cmd

import (
	"context"

	"github.com/mj1618/device-cli/internal/accessibility"
	"github.com/mj1618/device-cli/internal/android"
	"github.com/mj1618/device-cli/internal/config"
	"github.com/mj1618/device-cli/internal/desktop"
	"github.com/mj1618/device-cli/internal/ios"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
	"github.com/mj1618/device-cli/internal/proc"
	"github.com/mj1618/device-cli/internal/screenshot"
	"github.com/mj1618/device-cli/internal/window"
)

// app wires the backends behind the router once per process. Commands and
// MCP handlers share the same instance so the active device survives
// across MCP tool calls.
type app struct {
	cfg     config.Config
	router  *platform.Router
	session *session
	desktop *desktop.Client
}

var theApp *app

// initApp builds the full backend stack. Construction never probes the
// host; a missing adb or idb only surfaces when a command reaches for it.
func initApp(configPath string) error {
	if theApp != nil {
		return nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	androidClient := android.NewClient(&android.ExecCommander{Path: cfg.Backends.ADBPath})
	iosClient := ios.NewClient(
		ios.Simctl(cfg.Backends.XcrunPath),
		ios.IDB(cfg.Backends.IDBPath, cfg.Backends.CompanionD))

	input := desktop.NewNativeInput()
	registry := window.NewRegistry(desktop.NewScriptEnumerator(input))
	access := accessibility.New(desktop.NewScriptIntrospector(), registry, accessibility.Tuning{
		CacheTTL:       cfg.Accessibility.CacheTTL,
		ProbeTimeout:   cfg.Accessibility.ProbeTimeout,
		ContainerDepth: cfg.Accessibility.ContainerDepth,
	})
	desktopClient := desktop.NewClient(access, registry, input,
		desktop.NewNativeCapturer(), desktop.ExecLauncher{}, proc.NewSupervisor(proc.DefaultGrace))

	theApp = &app{
		cfg:     cfg,
		router:  platform.NewRouter(androidClient, iosClient, desktopClient),
		session: newSession(),
		desktop: desktopClient,
	}
	return nil
}

// resolveClient applies the per-invocation --device selection, then routes.
func (a *app) resolveClient(ctx context.Context) (platform.Client, error) {
	if id := deviceFlag(); id != "" {
		if _, err := a.router.SetDevice(ctx, id, platformHint()); err != nil {
			return nil, err
		}
	}
	return a.router.ResolveClient(ctx, platformHint())
}

// fetchHierarchy pulls a fresh hierarchy from the resolved backend and
// records it in the session so index-addressed commands can resolve
// against what the caller last saw.
func (a *app) fetchHierarchy(ctx context.Context) (*model.UiHierarchy, platform.Client, error) {
	client, err := a.resolveClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	h, err := client.Hierarchy(ctx)
	if err != nil {
		return nil, nil, err
	}
	a.session.update(h)
	return h, client, nil
}

// screenshotOptions maps the configured budget onto compressor options.
func (a *app) screenshotOptions() screenshot.Options {
	return screenshot.Options{
		MaxWidth:     a.cfg.Screenshot.MaxWidth,
		MaxHeight:    a.cfg.Screenshot.MaxHeight,
		Quality:      a.cfg.Screenshot.Quality,
		MaxSizeBytes: a.cfg.Screenshot.MaxSizeBytes,
	}
}

// activeDeviceID names the active device for output stamping, if any.
func (a *app) activeDeviceID() string {
	if d := a.router.ActiveDevice(); d != nil {
		return d.ID
	}
	return ""
}
