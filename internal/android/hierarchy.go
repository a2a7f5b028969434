package android

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/mj1618/device-cli/internal/model"
)

// uiNode mirrors one <node> of a uiautomator dump. Every attribute is a
// string in the dump ("true"/"false" booleans, "[x1,y1][x2,y2]" bounds);
// missing attributes unmarshal to "" and default from there.
type uiNode struct {
	XMLName     xml.Name `xml:"node"`
	Text        string   `xml:"text,attr"`
	ResourceID  string   `xml:"resource-id,attr"`
	Class       string   `xml:"class,attr"`
	ContentDesc string   `xml:"content-desc,attr"`
	Clickable   string   `xml:"clickable,attr"`
	Enabled     string   `xml:"enabled,attr"`
	Focusable   string   `xml:"focusable,attr"`
	Focused     string   `xml:"focused,attr"`
	Bounds      string   `xml:"bounds,attr"`
	Nodes       []uiNode `xml:"node"`
}

type uiDump struct {
	XMLName xml.Name `xml:"hierarchy"`
	Nodes   []uiNode `xml:"node"`
}

var boundsPattern = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// parseBounds converts the uiautomator "[x1,y1][x2,y2]" form to a Rect.
// Malformed bounds yield the zero Rect, which the indexing step excludes.
func parseBounds(s string) model.Rect {
	m := boundsPattern.FindStringSubmatch(s)
	if len(m) != 5 {
		return model.Rect{}
	}
	x1, _ := strconv.Atoi(m[1])
	y1, _ := strconv.Atoi(m[2])
	x2, _ := strconv.Atoi(m[3])
	y2, _ := strconv.Atoi(m[4])
	return model.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// ParseHierarchy turns a uiautomator dump into an indexed hierarchy.
// Structurally unrecognizable input yields an empty element list rather
// than an error so callers can still work in coordinate-only mode;
// individual malformed attributes just default.
func ParseHierarchy(raw string, scale float64) *model.UiHierarchy {
	cleaned := extractXML(raw)
	if cleaned == "" {
		return model.NewHierarchy(nil, nil, scale)
	}

	var dump uiDump
	if err := xml.Unmarshal([]byte(cleaned), &dump); err != nil {
		return model.NewHierarchy(nil, nil, scale)
	}

	roots := make([]model.UiElement, 0, len(dump.Nodes))
	for i := range dump.Nodes {
		roots = append(roots, elementFromNode(&dump.Nodes[i]))
	}
	return model.NewHierarchy(roots, nil, scale)
}

func elementFromNode(n *uiNode) model.UiElement {
	el := model.UiElement{
		ResourceID:  n.ResourceID,
		Text:        n.Text,
		ContentDesc: n.ContentDesc,
		Class:       n.Class,
		Bounds:      parseBounds(n.Bounds),
		Clickable:   n.Clickable == "true",
		Enabled:     n.Enabled == "true",
		Focused:     n.Focused == "true",
		Focusable:   n.Focusable == "true",
	}
	for i := range n.Nodes {
		el.Children = append(el.Children, elementFromNode(&n.Nodes[i]))
	}
	return el
}

// extractXML trims the shell noise adb sometimes wraps around the dump
// ("UI hierchary dumped to: ..." footers, stray prompt text) down to the
// document itself. Returns "" when no XML document is present.
func extractXML(raw string) string {
	start := strings.Index(raw, "<?xml")
	if start == -1 {
		start = strings.Index(raw, "<hierarchy")
	}
	if start == -1 {
		return ""
	}
	raw = raw[start:]
	end := strings.LastIndex(raw, ">")
	if end == -1 {
		return ""
	}
	return raw[:end+1]
}
