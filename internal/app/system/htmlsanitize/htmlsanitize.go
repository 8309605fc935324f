// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize wraps bluemonday policies for user-generated content.
// Bios and snippet descriptions accept limited formatting; everything else is
// stripped to plain text before it is stored.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe user-generated HTML (bold, links, code blocks) and
// strips scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// StripTags removes all markup, returning trimmed plain text. Used for
// fields that are rendered verbatim, like titles and tags.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strict.Sanitize(s))
}
