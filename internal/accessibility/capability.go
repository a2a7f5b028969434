package accessibility

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/device-cli/internal/logging"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/window"
)

// profile is the per-OS variation point: remediation steps and which roles
// count as containers worth one extra traversal level.
type profile struct {
	name           string
	instructions   []string
	containerRoles map[string]bool
	// alwaysTrusted marks hosts whose introspection API needs no consent.
	alwaysTrusted bool
}

// capability implements Capability over an Introspector and the window
// registry (the fallback source). One instance is created per process by
// the factory in factory.go.
type capability struct {
	profile profile
	probe   Introspector
	windows *window.Registry
	tuning  Tuning

	mu        sync.Mutex
	state     PermissionState
	cached    *model.UiHierarchy
	cachedID  string
	fetchedAt time.Time
}

func newCapability(p profile, probe Introspector, windows *window.Registry, tuning Tuning) *capability {
	return &capability{
		profile: p,
		probe:   probe,
		windows: windows,
		tuning:  tuning.withDefaults(),
		state:   PermissionUnknown,
	}
}

// CheckPermissions re-probes the host on every call; a prior denial is
// never sticky. On denial it performs the single proactive remediation
// action (opening the settings location) and returns ordered instructions.
func (c *capability) CheckPermissions(ctx context.Context) (*PermissionStatus, error) {
	log := logging.Component("accessibility")

	c.setState(PermissionChecking)

	if c.profile.alwaysTrusted {
		c.setState(PermissionGranted)
		return &PermissionStatus{Granted: true}, nil
	}

	trusted, err := c.probe.Trusted(ctx)
	if err != nil {
		// A failed probe is treated as denial: the operator gets the
		// same instructions either way.
		log.Warn().Err(err).Msg("permission probe failed")
		trusted = false
	}

	if trusted {
		c.setState(PermissionGranted)
		return &PermissionStatus{Granted: true}, nil
	}

	c.setState(PermissionDenied)
	if err := c.probe.OpenPermissionSettings(ctx); err != nil {
		log.Debug().Err(err).Msg("could not open permission settings")
	}
	return &PermissionStatus{Granted: false, Instructions: c.profile.instructions}, nil
}

func (c *capability) setState(s PermissionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State returns the last observed permission state.
func (c *capability) State() PermissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// GetHierarchy returns a UI snapshot for the given window (or the focused
// window when windowID is empty). Results are cached for the configured
// TTL: a UI mutation inside the window is deliberately not reflected until
// the cache expires. When introspection errors, times out, or yields zero
// elements, the caller still gets a usable hierarchy synthesized from
// window bounds.
func (c *capability) GetHierarchy(ctx context.Context, windowID string) (*model.UiHierarchy, error) {
	c.mu.Lock()
	if c.cached != nil && c.cachedID == windowID && time.Since(c.fetchedAt) < c.tuning.CacheTTL {
		h := c.cached
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	h := c.fetchHierarchy(ctx, windowID)

	c.mu.Lock()
	c.cached = h
	c.cachedID = windowID
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return h, nil
}

func (c *capability) fetchHierarchy(ctx context.Context, windowID string) *model.UiHierarchy {
	log := logging.Component("accessibility")

	windows, err := c.windows.Windows(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("window enumeration failed")
		windows = nil
	}

	roots, err := c.traverseBounded(ctx, windowID)
	if err != nil {
		log.Warn().Err(err).Str("window", windowID).Msg("introspection failed, synthesizing from window bounds")
		return fallbackHierarchy(windows)
	}

	h := model.NewHierarchy(roots, windows, 1)
	if len(h.Elements) == 0 {
		log.Debug().Str("window", windowID).Msg("introspection yielded zero elements, synthesizing from window bounds")
		return fallbackHierarchy(windows)
	}
	return h
}

// traverseBounded walks the introspection tree to a deliberately shallow
// depth: top-level nodes, their direct children, and ContainerDepth further
// levels under recognized container roles. Unbounded traversal against a live
// introspection API is slow enough to cause caller-visible timeouts, so the
// whole walk races a hard wall-clock deadline; when it fires, the in-flight
// probe is abandoned and the error propagates to the fallback path.
func (c *capability) traverseBounded(ctx context.Context, windowID string) ([]model.UiElement, error) {
	ctx, cancel := context.WithTimeout(ctx, c.tuning.ProbeTimeout)
	defer cancel()

	type result struct {
		roots []model.UiElement
		err   error
	}
	done := make(chan result, 1)

	go func() {
		tops, err := c.probe.TopLevel(ctx, windowID)
		if err != nil {
			done <- result{err: err}
			return
		}
		var roots []model.UiElement
		for _, top := range tops {
			el := elementFromNode(top)
			children, err := c.probe.Children(ctx, top.Ref)
			if err != nil {
				// Partial trees are fine; keep what we have.
				roots = append(roots, el)
				continue
			}
			for _, child := range children {
				childEl := elementFromNode(child)
				c.expandContainers(ctx, &childEl, child, c.tuning.ContainerDepth)
				el.Children = append(el.Children, childEl)
			}
			roots = append(roots, el)
		}
		done <- result{roots: roots}
	}()

	select {
	case res := <-done:
		return res.roots, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("introspection timed out after %s", c.tuning.ProbeTimeout)
	}
}

// expandContainers descends up to depth further levels under container
// roles. Probe errors leave the subtree partial rather than failing the walk.
func (c *capability) expandContainers(ctx context.Context, el *model.UiElement, n Node, depth int) {
	if depth <= 0 || !c.profile.containerRoles[strings.ToLower(n.Role)] {
		return
	}
	children, err := c.probe.Children(ctx, n.Ref)
	if err != nil {
		return
	}
	for _, child := range children {
		childEl := elementFromNode(child)
		c.expandContainers(ctx, &childEl, child, depth-1)
		el.Children = append(el.Children, childEl)
	}
}

func elementFromNode(n Node) model.UiElement {
	return model.UiElement{
		ResourceID:  n.Ident,
		Text:        n.Title,
		ContentDesc: n.Value,
		Class:       n.Role,
		Bounds:      n.Bounds,
		Clickable:   n.Clickable,
		Enabled:     n.Enabled,
		Focused:     n.Focused,
		Focusable:   n.Focusable,
	}
}

// fallbackHierarchy synthesizes one clickable "Window" element per window so
// consumers can always fall back to coordinate-based interaction.
func fallbackHierarchy(windows []model.Window) *model.UiHierarchy {
	var roots []model.UiElement
	for _, w := range windows {
		roots = append(roots, model.UiElement{
			Text:      w.Title,
			Class:     "Window",
			Bounds:    w.Bounds,
			Clickable: true,
			Enabled:   true,
			Focused:   w.Focused,
		})
	}
	return model.NewHierarchy(roots, windows, 1)
}

// FindByText searches the most recently cached element list.
func (c *capability) FindByText(query string) []model.UiElement {
	return model.FindByText(c.cachedElements(), query)
}

// FindByID searches the most recently cached element list.
func (c *capability) FindByID(query string) []model.UiElement {
	return model.FindByResourceID(c.cachedElements(), query)
}

func (c *capability) cachedElements() []model.UiElement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		return nil
	}
	return c.cached.Elements
}
