// internal/app/system/normalize/normalize.go
//
// Package normalize centralizes canonical forms for user-entered identity
// fields so stores never have to guess how a value was folded.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims whitespace and lowercases. Empty input stays empty.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims, lowercases, and keeps only [a-z0-9_]. This is the stored
// form; UsernameCI adds diacritic folding on top for the unique index.
func Username(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UsernameCI returns the case-insensitive, diacritics-stripped index form.
func UsernameCI(s string) string {
	return text.Fold(Username(s))
}

// Tag trims and lowercases a snippet tag.
func Tag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags normalizes a tag list, dropping empties and duplicates while keeping
// first-seen order. Order is otherwise irrelevant to callers.
func Tags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = Tag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
