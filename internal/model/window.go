package model

// Window represents a top-level OS window.
type Window struct {
	ID         string `yaml:"id"                   json:"id"`
	Title      string `yaml:"title"                json:"title"`
	Bounds     Rect   `yaml:"bounds"               json:"bounds"`
	Focused    bool   `yaml:"focused,omitempty"    json:"focused,omitempty"`
	Minimized  bool   `yaml:"minimized,omitempty"  json:"minimized,omitempty"`
	Fullscreen bool   `yaml:"fullscreen,omitempty" json:"fullscreen,omitempty"`
	OwnerName  string `yaml:"ownerName,omitempty"  json:"ownerName,omitempty"`
}

// NormalizeFocus enforces the single-focused-window invariant over one
// enumeration pass. Windows with degenerate bounds are dropped. If the
// backend reported more than one focused window, only the first keeps the
// flag; if it reported none, the first enumerated window is marked focused
// as a deterministic fallback (a guess, not a measurement — some backends
// expose no focus signal at all).
func NormalizeFocus(windows []Window) []Window {
	result := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Bounds.Empty() {
			continue
		}
		result = append(result, w)
	}

	seen := false
	for i := range result {
		if result[i].Focused {
			if seen {
				result[i].Focused = false
			}
			seen = true
		}
	}
	if !seen && len(result) > 0 {
		result[0].Focused = true
	}
	return result
}

// FocusedWindow returns the focused window's id, or "" if the slice is empty.
func FocusedWindow(windows []Window) string {
	for _, w := range windows {
		if w.Focused {
			return w.ID
		}
	}
	return ""
}
