package model

// Rect is a rectangle in logical (DPI-independent) pixels.
type Rect struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point (x, y) lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// UiElement is a single node of a parsed UI hierarchy.
//
// Index is assigned in traversal order at parse time (0..N-1 across the
// flattened sequence) and is only stable until the next re-parse. CenterX
// and CenterY are precomputed from Bounds so tap targets never recompute
// geometry.
type UiElement struct {
	Index       int         `yaml:"index"                 json:"index"`
	ResourceID  string      `yaml:"resourceId,omitempty"  json:"resourceId,omitempty"`
	Text        string      `yaml:"text,omitempty"        json:"text,omitempty"`
	ContentDesc string      `yaml:"contentDesc,omitempty" json:"contentDesc,omitempty"`
	Class       string      `yaml:"class,omitempty"       json:"class,omitempty"`
	Bounds      Rect        `yaml:"bounds"                json:"bounds"`
	Clickable   bool        `yaml:"clickable,omitempty"   json:"clickable,omitempty"`
	Enabled     bool        `yaml:"enabled,omitempty"     json:"enabled,omitempty"`
	Focused     bool        `yaml:"focused,omitempty"     json:"focused,omitempty"`
	Focusable   bool        `yaml:"focusable,omitempty"   json:"focusable,omitempty"`
	CenterX     int         `yaml:"centerX"               json:"centerX"`
	CenterY     int         `yaml:"centerY"               json:"centerY"`
	Children    []UiElement `yaml:"children,omitempty"    json:"children,omitempty"`
}

// Label returns the most descriptive text available for the element,
// preferring visible text over the accessibility description.
func (e *UiElement) Label() string {
	if e.Text != "" {
		return e.Text
	}
	return e.ContentDesc
}
