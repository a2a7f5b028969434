package accessibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/window"
)

// fakeIntrospector is a scriptable introspection provider.
type fakeIntrospector struct {
	trusted       bool
	trustedErr    error
	settingsOpens int
	topLevel      []Node
	children      map[string][]Node
	topLevelErr   error
	topLevelCalls int
	hang          bool
}

func (f *fakeIntrospector) Trusted(ctx context.Context) (bool, error) {
	return f.trusted, f.trustedErr
}

func (f *fakeIntrospector) OpenPermissionSettings(ctx context.Context) error {
	f.settingsOpens++
	return nil
}

func (f *fakeIntrospector) TopLevel(ctx context.Context, windowID string) ([]Node, error) {
	f.topLevelCalls++
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.topLevel, f.topLevelErr
}

func (f *fakeIntrospector) Children(ctx context.Context, ref string) ([]Node, error) {
	nodes, ok := f.children[ref]
	if !ok {
		return nil, nil
	}
	return nodes, nil
}

type staticEnumerator struct {
	windows []model.Window
}

func (s *staticEnumerator) Enumerate(ctx context.Context) ([]model.Window, error) {
	return append([]model.Window(nil), s.windows...), nil
}
func (s *staticEnumerator) Raise(ctx context.Context, id string) error { return nil }
func (s *staticEnumerator) SetBounds(ctx context.Context, id string, b model.Rect) error {
	return nil
}
func (s *staticEnumerator) ClickAt(ctx context.Context, x, y int) error { return nil }

func testRegistry(windows ...model.Window) *window.Registry {
	return window.NewRegistry(&staticEnumerator{windows: windows})
}

func testCapability(p profile, probe Introspector, reg *window.Registry, tuning Tuning) *capability {
	return newCapability(p, probe, reg, tuning)
}

func TestCheckPermissions_DeniedCarriesInstructions(t *testing.T) {
	probe := &fakeIntrospector{trusted: false}
	c := testCapability(darwinProfile, probe, testRegistry(), Tuning{})

	status, err := c.CheckPermissions(context.Background())
	if err != nil {
		t.Fatalf("CheckPermissions: %v", err)
	}
	if status.Granted {
		t.Fatal("expected denial")
	}
	if len(status.Instructions) == 0 {
		t.Fatal("denied status must carry ordered remediation instructions")
	}
	if probe.settingsOpens != 1 {
		t.Errorf("expected exactly one proactive remediation action, got %d", probe.settingsOpens)
	}
	if c.State() != PermissionDenied {
		t.Errorf("expected denied state, got %s", c.State())
	}
}

func TestCheckPermissions_DenialIsNotSticky(t *testing.T) {
	probe := &fakeIntrospector{trusted: false}
	c := testCapability(darwinProfile, probe, testRegistry(), Tuning{})

	if status, _ := c.CheckPermissions(context.Background()); status.Granted {
		t.Fatal("expected initial denial")
	}

	// Operator grants consent between probes.
	probe.trusted = true
	status, err := c.CheckPermissions(context.Background())
	if err != nil {
		t.Fatalf("CheckPermissions after consent: %v", err)
	}
	if !status.Granted {
		t.Error("a fresh check after consent must report granted")
	}
	if c.State() != PermissionGranted {
		t.Errorf("expected granted state, got %s", c.State())
	}
}

func TestCheckPermissions_AlwaysTrustedVariant(t *testing.T) {
	probe := &fakeIntrospector{trusted: false, trustedErr: errors.New("should not be called")}
	c := testCapability(windowsProfile, probe, testRegistry(), Tuning{})

	status, err := c.CheckPermissions(context.Background())
	if err != nil || !status.Granted {
		t.Fatalf("always-trusted variant must grant: %v %+v", err, status)
	}
}

func TestGetHierarchy_BoundedTraversal(t *testing.T) {
	probe := &fakeIntrospector{
		trusted: true,
		topLevel: []Node{
			{Ref: "root", Role: "AXWindow", Title: "Editor", Bounds: model.Rect{Width: 800, Height: 600}},
		},
		children: map[string][]Node{
			"root": {
				{Ref: "grp", Role: "AXGroup", Bounds: model.Rect{X: 0, Y: 0, Width: 800, Height: 100}},
				{Ref: "btn", Role: "AXButton", Title: "Save", Clickable: true, Bounds: model.Rect{X: 10, Y: 10, Width: 80, Height: 30}},
			},
			"grp": {
				{Ref: "deep", Role: "AXButton", Title: "Nested", Clickable: true, Bounds: model.Rect{X: 20, Y: 20, Width: 60, Height: 20}},
			},
			// Below the container level: must never be fetched.
			"deep": {
				{Ref: "too-deep", Role: "AXButton", Title: "Invisible", Bounds: model.Rect{Width: 10, Height: 10}},
			},
		},
	}
	reg := testRegistry(model.Window{ID: "w1", Title: "Editor", Bounds: model.Rect{Width: 800, Height: 600}})
	c := testCapability(darwinProfile, probe, reg, Tuning{})

	h, err := c.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatalf("GetHierarchy: %v", err)
	}

	var texts []string
	for _, el := range h.Elements {
		texts = append(texts, el.Text)
	}
	want := map[string]bool{"Editor": true, "Save": true, "Nested": true}
	for _, text := range texts {
		if text == "Invisible" {
			t.Error("traversal exceeded the container bound: fetched grandchild's children")
		}
		delete(want, text)
	}
	if len(want) != 0 {
		t.Errorf("missing expected elements %v in %v", want, texts)
	}
}

func TestGetHierarchy_ContainerDepthExtendsTraversal(t *testing.T) {
	newProbe := func() *fakeIntrospector {
		return &fakeIntrospector{
			trusted: true,
			topLevel: []Node{
				{Ref: "root", Role: "AXWindow", Title: "Editor", Bounds: model.Rect{Width: 800, Height: 600}},
			},
			children: map[string][]Node{
				"root": {
					{Ref: "outer", Role: "AXGroup", Bounds: model.Rect{Width: 800, Height: 100}},
				},
				"outer": {
					{Ref: "inner", Role: "AXGroup", Bounds: model.Rect{Width: 400, Height: 100}},
				},
				"inner": {
					{Ref: "btn", Role: "AXButton", Title: "Buried", Clickable: true, Bounds: model.Rect{Width: 60, Height: 20}},
				},
			},
		}
	}
	reg := func() *window.Registry {
		return testRegistry(model.Window{ID: "w1", Title: "Editor", Bounds: model.Rect{Width: 800, Height: 600}})
	}
	contains := func(h *model.UiHierarchy, text string) bool {
		for _, el := range h.Elements {
			if el.Text == text {
				return true
			}
		}
		return false
	}

	shallow := testCapability(darwinProfile, newProbe(), reg(), Tuning{})
	h, err := shallow.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if contains(h, "Buried") {
		t.Error("default depth must not reach elements two container levels down")
	}

	deep := testCapability(darwinProfile, newProbe(), reg(), Tuning{ContainerDepth: 2})
	h, err = deep.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !contains(h, "Buried") {
		t.Error("ContainerDepth 2 should reach elements two container levels down")
	}
}

func TestGetHierarchy_TTLCacheReturnsIdenticalResult(t *testing.T) {
	probe := &fakeIntrospector{
		trusted: true,
		topLevel: []Node{
			{Ref: "root", Role: "AXWindow", Title: "Before", Bounds: model.Rect{Width: 100, Height: 100}},
		},
	}
	c := testCapability(darwinProfile, probe, testRegistry(
		model.Window{ID: "w1", Bounds: model.Rect{Width: 100, Height: 100}},
	), Tuning{CacheTTL: time.Minute})

	first, err := c.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatalf("GetHierarchy: %v", err)
	}

	// The underlying UI changes, but the TTL window has not expired.
	probe.topLevel = []Node{
		{Ref: "root", Role: "AXWindow", Title: "After", Bounds: model.Rect{Width: 100, Height: 100}},
	}

	second, err := c.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatalf("GetHierarchy: %v", err)
	}
	if first != second {
		t.Error("expected byte-identical cached hierarchy within TTL")
	}
	if probe.topLevelCalls != 1 {
		t.Errorf("expected a single introspection probe, got %d", probe.topLevelCalls)
	}
	if second.Elements[0].Text != "Before" {
		t.Errorf("intentional staleness: expected cached %q, got %q", "Before", second.Elements[0].Text)
	}
}

func TestGetHierarchy_FallbackFromIntrospectionError(t *testing.T) {
	probe := &fakeIntrospector{trusted: true, topLevelErr: errors.New("AXError -25204")}
	reg := testRegistry(
		model.Window{ID: "w1", Title: "Browser", Bounds: model.Rect{X: 0, Y: 0, Width: 1280, Height: 720}},
	)
	c := testCapability(darwinProfile, probe, reg, Tuning{})

	h, err := c.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if len(h.Elements) != 1 {
		t.Fatalf("expected one synthesized element per window, got %d", len(h.Elements))
	}
	el := h.Elements[0]
	if el.Class != "Window" || !el.Clickable || el.Text != "Browser" {
		t.Errorf("expected clickable Window element for coordinate fallback, got %+v", el)
	}
}

func TestGetHierarchy_TimeoutFallsBack(t *testing.T) {
	probe := &fakeIntrospector{trusted: true, hang: true}
	reg := testRegistry(
		model.Window{ID: "w1", Title: "Stuck", Bounds: model.Rect{Width: 640, Height: 480}},
	)
	c := testCapability(darwinProfile, probe, reg, Tuning{ProbeTimeout: 50 * time.Millisecond})

	start := time.Now()
	h, err := c.GetHierarchy(context.Background(), "")
	if err != nil {
		t.Fatalf("timeout must degrade, not error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("hung introspection was not forcibly abandoned (took %s)", elapsed)
	}
	if len(h.Elements) != 1 || h.Elements[0].Class != "Window" {
		t.Errorf("expected window-bounds fallback after timeout, got %+v", h.Elements)
	}
}

func TestFindByText_UsesCachedList(t *testing.T) {
	probe := &fakeIntrospector{
		trusted: true,
		topLevel: []Node{
			{Ref: "root", Role: "AXWindow", Title: "Submit Order", Bounds: model.Rect{Width: 100, Height: 100}},
		},
	}
	c := testCapability(darwinProfile, probe, testRegistry(
		model.Window{ID: "w1", Bounds: model.Rect{Width: 100, Height: 100}},
	), Tuning{CacheTTL: time.Minute})

	if got := c.FindByText("order"); len(got) != 0 {
		t.Fatalf("no hierarchy fetched yet, expected empty result, got %d", len(got))
	}

	if _, err := c.GetHierarchy(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if got := c.FindByText("order"); len(got) != 1 {
		t.Errorf("expected cached-list match, got %d", len(got))
	}
	if probe.topLevelCalls != 1 {
		t.Errorf("FindByText must not probe the host, got %d probes", probe.topLevelCalls)
	}
}

func TestProfileForOS(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "darwin"},
		{"windows", "windows"},
		{"linux", "linux"},
		{"freebsd", "linux"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			if got := profileForOS(tt.goos); got.name != tt.want {
				t.Errorf("profileForOS(%q).name = %q, want %q", tt.goos, got.name, tt.want)
			}
		})
	}
}
