package ios

import "testing"

const describeAllJSON = `[
  {
    "AXFrame": "{{0, 0}, {393, 852}}",
    "frame": {"x": 0, "y": 0, "width": 393, "height": 852},
    "AXLabel": "Settings",
    "type": "Application",
    "enabled": true
  },
  {
    "frame": {"x": 16, "y": 120, "width": 361, "height": 44},
    "AXLabel": "General",
    "AXUniqueId": "settings.general",
    "type": "Cell",
    "enabled": true
  },
  {
    "frame": {"x": 16, "y": 180, "width": 361, "height": 44},
    "AXLabel": "Aeroplane Mode",
    "AXValue": "Off",
    "type": "Switch",
    "enabled": true
  },
  {
    "frame": {"x": 0, "y": 0, "width": 0, "height": 0},
    "AXLabel": "Invisible spacer",
    "type": "Other"
  }
]`

func TestParseHierarchy(t *testing.T) {
	h := ParseHierarchy(describeAllJSON)

	if h.ScaleFactor != 1 {
		t.Errorf("scale = %v, want 1 (frames are in points)", h.ScaleFactor)
	}
	// The zero-area spacer is excluded from the index.
	if len(h.Elements) != 3 {
		t.Fatalf("got %d elements, want 3: %+v", len(h.Elements), h.Elements)
	}
	for i, el := range h.Elements {
		if el.Index != i {
			t.Errorf("element %d has index %d", i, el.Index)
		}
	}

	cell := h.Elements[1]
	if cell.ContentDesc != "General" || cell.ResourceID != "settings.general" {
		t.Errorf("unexpected cell: %+v", cell)
	}
	if !cell.Clickable {
		t.Error("Cell type should be treated as clickable")
	}
	if cell.CenterX != 196 || cell.CenterY != 142 {
		t.Errorf("cell center = (%d,%d), want (196,142)", cell.CenterX, cell.CenterY)
	}

	toggle := h.Elements[2]
	if toggle.Text != "Off" || !toggle.Clickable {
		t.Errorf("unexpected switch: %+v", toggle)
	}

	app := h.Elements[0]
	if app.Clickable {
		t.Errorf("Application type should not be clickable: %+v", app)
	}
}

func TestParseHierarchyUnrecognizable(t *testing.T) {
	for _, raw := range []string{"", "idb: connection refused", `{"not": "an array"}`} {
		h := ParseHierarchy(raw)
		if h == nil || len(h.Elements) != 0 {
			t.Errorf("ParseHierarchy(%q) = %+v, want empty hierarchy", raw, h)
		}
	}
}
