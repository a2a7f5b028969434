package model

import "strings"

// Locator functions are pure queries over an already-indexed element
// sequence — no I/O, no caching, no tree walking. They always operate on the
// flat sequence produced by IndexElements.

// FindByText returns every element whose text or content description
// contains query, case-insensitively.
func FindByText(elements []UiElement, query string) []UiElement {
	q := strings.ToLower(query)
	var matches []UiElement
	for _, el := range elements {
		if strings.Contains(strings.ToLower(el.Text), q) ||
			strings.Contains(strings.ToLower(el.ContentDesc), q) {
			matches = append(matches, el)
		}
	}
	return matches
}

// FindByResourceID returns every element whose resource identifier contains
// query, case-insensitively.
func FindByResourceID(elements []UiElement, query string) []UiElement {
	q := strings.ToLower(query)
	var matches []UiElement
	for _, el := range elements {
		if el.ResourceID != "" && strings.Contains(strings.ToLower(el.ResourceID), q) {
			matches = append(matches, el)
		}
	}
	return matches
}

// FindByIndex returns the element with the exact index, or nil if absent.
func FindByIndex(elements []UiElement, idx int) *UiElement {
	for i := range elements {
		if elements[i].Index == idx {
			return &elements[i]
		}
	}
	return nil
}

// Query is a conjunctive element filter: every supplied criterion must
// match; zero-valued criteria are ignored.
type Query struct {
	Text       string
	ResourceID string
	Class      string
	Clickable  *bool
}

// FindElements returns every element matching all supplied criteria of q.
// Text and ResourceID are case-insensitive substring matches (Text also
// matches the content description); Class is a case-insensitive substring
// match on the class/role name.
func FindElements(elements []UiElement, q Query) []UiElement {
	text := strings.ToLower(q.Text)
	resID := strings.ToLower(q.ResourceID)
	class := strings.ToLower(q.Class)

	var matches []UiElement
	for _, el := range elements {
		if text != "" &&
			!strings.Contains(strings.ToLower(el.Text), text) &&
			!strings.Contains(strings.ToLower(el.ContentDesc), text) {
			continue
		}
		if resID != "" && !strings.Contains(strings.ToLower(el.ResourceID), resID) {
			continue
		}
		if class != "" && !strings.Contains(strings.ToLower(el.Class), class) {
			continue
		}
		if q.Clickable != nil && el.Clickable != *q.Clickable {
			continue
		}
		matches = append(matches, el)
	}
	return matches
}

// ResolveTarget reduces a match set to the single element a tap-by-text or
// tap-by-id command should act on. The tie-break is deliberate and fixed:
// the first clickable match wins; if no match is clickable, the first match
// in traversal order wins. This rule is what makes "tap the thing that says
// Submit" deterministic when labels repeat, so it must never vary between
// backends.
func ResolveTarget(matches []UiElement) *UiElement {
	if len(matches) == 0 {
		return nil
	}
	for i := range matches {
		if matches[i].Clickable {
			return &matches[i]
		}
	}
	return &matches[0]
}
