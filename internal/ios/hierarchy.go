package ios

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mj1618/device-cli/internal/model"
)

// ParseHierarchy turns idb `ui describe-all` output into an indexed
// hierarchy. The output is a JSON array of accessibility elements, already
// flat; frames arrive in points (logical pixels), so no scaling applies.
// Field names vary across idb versions (AXFrame vs frame, AXLabel vs
// label), so every access is tolerant: an unrecognizable document yields
// an empty element list, never an error.
func ParseHierarchy(raw string) *model.UiHierarchy {
	doc := gjson.Parse(strings.TrimSpace(raw))
	if !doc.IsArray() {
		return model.NewHierarchy(nil, nil, 1)
	}

	var roots []model.UiElement
	doc.ForEach(func(_, item gjson.Result) bool {
		roots = append(roots, elementFromJSON(item))
		return true
	})
	return model.NewHierarchy(roots, nil, 1)
}

func elementFromJSON(item gjson.Result) model.UiElement {
	frame := item.Get("frame")
	if !frame.Exists() {
		frame = item.Get("AXFrame")
	}

	el := model.UiElement{
		ResourceID:  firstString(item, "AXUniqueId", "identifier"),
		Text:        firstString(item, "AXValue", "value"),
		ContentDesc: firstString(item, "AXLabel", "label"),
		Class:       firstString(item, "type", "role"),
		Bounds: model.Rect{
			X:      int(frame.Get("x").Float()),
			Y:      int(frame.Get("y").Float()),
			Width:  int(frame.Get("width").Float()),
			Height: int(frame.Get("height").Float()),
		},
		Enabled:   item.Get("enabled").Bool(),
		Focused:   item.Get("focused").Bool(),
		Clickable: clickableType(firstString(item, "type", "role")),
	}
	el.Focusable = el.Clickable || el.Focused
	return el
}

// clickableType approximates tappability from the element type, since idb
// exposes no explicit clickable flag.
var clickableTypes = map[string]bool{
	"Button":          true,
	"Cell":            true,
	"Link":            true,
	"Switch":          true,
	"TextField":       true,
	"SecureTextField": true,
	"SearchField":     true,
	"Slider":          true,
	"Tab":             true,
	"MenuItem":        true,
}

func clickableType(t string) bool {
	return clickableTypes[t]
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
