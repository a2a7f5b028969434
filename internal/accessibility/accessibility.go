// Package accessibility unifies native UI introspection behind one
// capability contract, degrading gracefully from tree inspection to window
// bounds when the host denies or lacks an introspection API.
package accessibility

import (
	"context"
	"time"

	"github.com/mj1618/device-cli/internal/model"
)

// Node is one role+geometry+text tuple from the native introspection
// provider. Ref is an opaque handle valid only for follow-up Children calls
// within the same probe.
type Node struct {
	Ref       string
	Role      string
	Title     string
	Value     string
	Ident     string
	Bounds    model.Rect
	Clickable bool
	Enabled   bool
	Focused   bool
	Focusable bool
}

// Introspector is the native accessibility collaborator. Implementations
// must honor context cancellation; the capability layer additionally races
// every call against a wall-clock deadline because live introspection APIs
// are observed to hang.
type Introspector interface {
	// Trusted probes whether the host grants introspection rights.
	Trusted(ctx context.Context) (bool, error)

	// OpenPermissionSettings performs the one proactive remediation step
	// available to the process (e.g. surfacing the system settings pane).
	OpenPermissionSettings(ctx context.Context) error

	// TopLevel returns the root elements of a window, or of the focused
	// window when windowID is empty.
	TopLevel(ctx context.Context, windowID string) ([]Node, error)

	// Children returns the direct children of a previously returned node.
	Children(ctx context.Context, ref string) ([]Node, error)
}

// PermissionState tracks the permission probe lifecycle. Denied is not
// terminal: every CheckPermissions call re-probes.
type PermissionState string

const (
	PermissionUnknown  PermissionState = "unknown"
	PermissionChecking PermissionState = "checking"
	PermissionGranted  PermissionState = "granted"
	PermissionDenied   PermissionState = "denied"
)

// PermissionStatus is the outcome of a permission probe. When not granted,
// Instructions is an ordered list of plain steps for the human operator;
// the automation loop does not retry on its own.
type PermissionStatus struct {
	Granted      bool     `yaml:"granted"                json:"granted"`
	Instructions []string `yaml:"instructions,omitempty" json:"instructions,omitempty"`
}

// Capability is the per-OS accessibility surface. Concrete variants are
// selected by host operating system at startup, never re-branched per call.
type Capability interface {
	CheckPermissions(ctx context.Context) (*PermissionStatus, error)
	GetHierarchy(ctx context.Context, windowID string) (*model.UiHierarchy, error)

	// FindByText and FindByID search the most recently fetched element
	// list for low latency; they do not probe the host. Callers that
	// suspect staleness should call GetHierarchy first.
	FindByText(query string) []model.UiElement
	FindByID(query string) []model.UiElement
}

// Tuning holds the introspection knobs. Zero values select the defaults.
// ContainerDepth is how many extra levels the traversal descends under
// recognized container roles beyond the top-level nodes and their direct
// children.
type Tuning struct {
	CacheTTL       time.Duration
	ProbeTimeout   time.Duration
	ContainerDepth int
}

func (t Tuning) withDefaults() Tuning {
	if t.CacheTTL <= 0 {
		t.CacheTTL = 3 * time.Second
	}
	if t.ProbeTimeout <= 0 {
		t.ProbeTimeout = 25 * time.Second
	}
	if t.ContainerDepth <= 0 {
		t.ContainerDepth = 1
	}
	return t
}
