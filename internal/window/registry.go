// Package window abstracts OS-level window enumeration, focus, and resize
// behind one registry, keeping the OS-specific mechanism out of the core.
package window

import (
	"context"

	"github.com/mj1618/device-cli/internal/logging"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/platform"
)

// Enumerator is the OS-specific collaborator the registry drives. Raise and
// SetBounds act on a window id from a prior Enumerate; ClickAt is the
// last-ditch focus mechanism when raising fails.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]model.Window, error)
	Raise(ctx context.Context, id string) error
	SetBounds(ctx context.Context, id string, bounds model.Rect) error
	ClickAt(ctx context.Context, x, y int) error
}

// ListResult pairs an enumeration pass with the focused window's id.
type ListResult struct {
	Windows        []model.Window `yaml:"windows"                  json:"windows"`
	ActiveWindowID string         `yaml:"activeWindowId,omitempty" json:"activeWindowId,omitempty"`
}

// Registry enumerates, focuses, and resizes top-level windows. Enumeration
// is fresh on every call — windows come and go too fast for caching to be
// worth the staleness.
type Registry struct {
	enum Enumerator
}

// NewRegistry wraps the given enumerator.
func NewRegistry(enum Enumerator) *Registry {
	return &Registry{enum: enum}
}

// Windows returns one entry per visible top-level window with non-degenerate
// bounds. Ordering is whatever the enumerator produced, which is stable
// within a single call. Exactly one window is marked focused; when the OS
// exposes no focus signal, the first enumerated window gets the flag.
func (r *Registry) Windows(ctx context.Context) ([]model.Window, error) {
	windows, err := r.enum.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	return model.NormalizeFocus(windows), nil
}

// WindowListResult returns the window list along with the focused window's id.
func (r *Registry) WindowListResult(ctx context.Context) (*ListResult, error) {
	windows, err := r.Windows(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Windows: windows, ActiveWindowID: model.FocusedWindow(windows)}, nil
}

// WindowBounds returns the bounds of the identified window from a fresh
// enumeration, or WindowNotFoundError if the id is absent.
func (r *Registry) WindowBounds(ctx context.Context, id string) (model.Rect, error) {
	w, err := r.find(ctx, id)
	if err != nil {
		return model.Rect{}, err
	}
	return w.Bounds, nil
}

// Focus brings the identified window to the foreground. Focus is inherently
// racy against other foreground processes, so a failed raise is not an
// error: the registry falls back to clicking the window's center, and if
// that also fails the failure is logged and swallowed. Only an unknown id
// is reported.
func (r *Registry) Focus(ctx context.Context, id string) error {
	w, err := r.find(ctx, id)
	if err != nil {
		return err
	}

	log := logging.Component("window")
	if err := r.enum.Raise(ctx, id); err == nil {
		return nil
	} else {
		log.Debug().Str("window", id).Err(err).Msg("raise failed, falling back to coordinate click")
	}

	cx, cy := w.Bounds.Center()
	if err := r.enum.ClickAt(ctx, cx, cy); err != nil {
		log.Warn().Str("window", id).Err(err).Msg("focus fallback click failed")
	}
	return nil
}

// Resize sets the identified window's size, keeping its origin. An empty id
// targets the focused window.
func (r *Registry) Resize(ctx context.Context, id string, width, height int) error {
	if id == "" {
		windows, err := r.Windows(ctx)
		if err != nil {
			return err
		}
		id = model.FocusedWindow(windows)
		if id == "" {
			return &platform.WindowNotFoundError{ID: "(focused)"}
		}
	}
	w, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	bounds := w.Bounds
	bounds.Width = width
	bounds.Height = height
	return r.enum.SetBounds(ctx, id, bounds)
}

func (r *Registry) find(ctx context.Context, id string) (*model.Window, error) {
	windows, err := r.Windows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		if windows[i].ID == id {
			return &windows[i], nil
		}
	}
	return nil, &platform.WindowNotFoundError{ID: id}
}
