package model

// UiHierarchy is a snapshot of on-screen UI structure: the window list, the
// flattened index-addressable element sequence, and the display scale factor
// that maps logical coordinates to physical pixels.
type UiHierarchy struct {
	Windows     []Window    `yaml:"windows,omitempty" json:"windows,omitempty"`
	Elements    []UiElement `yaml:"elements"          json:"elements"`
	ScaleFactor float64     `yaml:"scaleFactor"       json:"scaleFactor"`
}

// IndexElements flattens a tree of elements into the index-addressable
// sequence used by locators and index-based tap commands. Traversal is
// depth-first in document order, so identical input always produces the
// identical sequence. Indices are assigned 0..N-1 with no gaps; nodes with
// nonpositive-area bounds are excluded from the sequence (their children are
// still visited). Centers are computed here so every element in the sequence
// carries a ready tap target.
func IndexElements(roots []UiElement) []UiElement {
	var flat []UiElement
	for i := range roots {
		flattenInto(&roots[i], &flat)
	}
	for i := range flat {
		flat[i].Index = i
		flat[i].CenterX, flat[i].CenterY = flat[i].Bounds.Center()
		// The flat sequence is for lookup and coordinate derivation;
		// ownership of children stays with the tree.
		flat[i].Children = nil
	}
	return flat
}

func flattenInto(el *UiElement, out *[]UiElement) {
	if !el.Bounds.Empty() {
		*out = append(*out, *el)
	}
	for i := range el.Children {
		flattenInto(&el.Children[i], out)
	}
}

// NewHierarchy indexes the given element tree and wraps it with window and
// scale information. A nil or empty tree yields an empty (but non-nil)
// element sequence so callers can still operate in coordinate-only mode.
func NewHierarchy(roots []UiElement, windows []Window, scale float64) *UiHierarchy {
	elements := IndexElements(roots)
	if elements == nil {
		elements = []UiElement{}
	}
	if scale <= 0 {
		scale = 1
	}
	return &UiHierarchy{
		Windows:     NormalizeFocus(windows),
		Elements:    elements,
		ScaleFactor: scale,
	}
}
