package model

import "testing"

func sampleTree() []UiElement {
	return []UiElement{
		{
			Class:  "android.widget.FrameLayout",
			Bounds: Rect{X: 0, Y: 0, Width: 1080, Height: 1920},
			Children: []UiElement{
				{
					Class:     "android.widget.Button",
					Text:      "Submit Order",
					Bounds:    Rect{X: 100, Y: 200, Width: 200, Height: 80},
					Clickable: true,
					Enabled:   true,
				},
				{
					// Zero-area node: excluded from the indexed sequence,
					// but its child is still visited.
					Class:  "android.view.View",
					Bounds: Rect{X: 0, Y: 0, Width: 0, Height: 0},
					Children: []UiElement{
						{
							Class:  "android.widget.TextView",
							Text:   "Order placed",
							Bounds: Rect{X: 100, Y: 400, Width: 300, Height: 40},
						},
					},
				},
			},
		},
	}
}

func TestIndexElements_IndicesContiguous(t *testing.T) {
	elements := IndexElements(sampleTree())

	if len(elements) != 3 {
		t.Fatalf("expected 3 indexed elements (zero-area node dropped), got %d", len(elements))
	}
	for i, el := range elements {
		if el.Index != i {
			t.Errorf("element %d has index %d, want %d", i, el.Index, i)
		}
	}
}

func TestIndexElements_CentersAreBoundsMidpoints(t *testing.T) {
	elements := IndexElements(sampleTree())

	for _, el := range elements {
		wantX := el.Bounds.X + el.Bounds.Width/2
		wantY := el.Bounds.Y + el.Bounds.Height/2
		if el.CenterX != wantX || el.CenterY != wantY {
			t.Errorf("element %d center (%d,%d), want (%d,%d)",
				el.Index, el.CenterX, el.CenterY, wantX, wantY)
		}
	}
}

func TestIndexElements_DeterministicOrder(t *testing.T) {
	a := IndexElements(sampleTree())
	b := IndexElements(sampleTree())

	if len(a) != len(b) {
		t.Fatalf("two parses of identical input differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Text != b[i].Text || a[i].Class != b[i].Class {
			t.Errorf("element %d differs between parses: %q vs %q", i, a[i].Text, b[i].Text)
		}
	}
}

func TestIndexElements_FlatSequenceHasNoChildren(t *testing.T) {
	elements := IndexElements(sampleTree())
	for _, el := range elements {
		if el.Children != nil {
			t.Errorf("flattened element %d still carries children", el.Index)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}

	if !r.Contains(10, 20) {
		t.Error("top-left corner is inside")
	}
	if !r.Contains(39, 59) {
		t.Error("last interior pixel is inside")
	}
	if r.Contains(40, 20) || r.Contains(10, 60) {
		t.Error("right and bottom edges are exclusive")
	}
	if r.Contains(9, 20) {
		t.Error("point left of the rectangle is outside")
	}
}

func TestElementLabel(t *testing.T) {
	withText := UiElement{Text: "Submit", ContentDesc: "Submit the order"}
	if got := withText.Label(); got != "Submit" {
		t.Errorf("Label = %q, want visible text preferred", got)
	}
	descOnly := UiElement{ContentDesc: "Navigate up"}
	if got := descOnly.Label(); got != "Navigate up" {
		t.Errorf("Label = %q, want the content description fallback", got)
	}
}

func TestNewHierarchy_EmptyInput(t *testing.T) {
	h := NewHierarchy(nil, nil, 0)

	if h.Elements == nil {
		t.Error("expected non-nil empty element sequence for coordinate-only mode")
	}
	if len(h.Elements) != 0 {
		t.Errorf("expected 0 elements, got %d", len(h.Elements))
	}
	if h.ScaleFactor != 1 {
		t.Errorf("expected default scale factor 1, got %v", h.ScaleFactor)
	}
}

func TestNormalizeFocus_FirstWindowFallback(t *testing.T) {
	windows := []Window{
		{ID: "w1", Title: "One", Bounds: Rect{Width: 800, Height: 600}},
		{ID: "w2", Title: "Two", Bounds: Rect{Width: 800, Height: 600}},
	}
	result := NormalizeFocus(windows)

	if !result[0].Focused {
		t.Error("expected first enumerated window to be marked focused when backend reports none")
	}
	if result[1].Focused {
		t.Error("expected only one focused window")
	}
}

func TestNormalizeFocus_SingleFocusInvariant(t *testing.T) {
	windows := []Window{
		{ID: "w1", Bounds: Rect{Width: 10, Height: 10}, Focused: true},
		{ID: "w2", Bounds: Rect{Width: 10, Height: 10}, Focused: true},
	}
	result := NormalizeFocus(windows)

	count := 0
	for _, w := range result {
		if w.Focused {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one focused window, got %d", count)
	}
	if !result[0].Focused {
		t.Error("expected the first focused window to keep the flag")
	}
}

func TestNormalizeFocus_DropsDegenerateBounds(t *testing.T) {
	windows := []Window{
		{ID: "w1", Bounds: Rect{Width: 0, Height: 0}},
		{ID: "w2", Bounds: Rect{Width: 800, Height: 600}},
	}
	result := NormalizeFocus(windows)

	if len(result) != 1 || result[0].ID != "w2" {
		t.Errorf("expected only w2 to survive, got %+v", result)
	}
}
