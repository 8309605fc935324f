// Package ai defines the snippet-assist boundary: generating descriptions,
// tag suggestions, and explanations from snippet code. Handlers depend on
// the Assistant interface; the Gemini client is the production backend.
package ai

import (
	"context"
	"errors"
	"strings"
)

// tagLimit caps how many suggested tags an assist response may carry.
const tagLimit = 8

// ErrEmptyCode is returned when an assist operation is called without code.
var ErrEmptyCode = errors.New("snippet code is required")

// errEmptyResult reports a structurally valid model response with no usable
// content.
var errEmptyResult = errors.New("model returned an empty result")

// Description is the model's take on what a snippet does, with metadata the
// snippet form can prefill.
type Description struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Language    string   `json:"language"`
}

// Explanation is a walkthrough of a snippet plus an improvement review.
type Explanation struct {
	Explanation string `json:"explanation"`
	Review      string `json:"review"`
}

// Assistant generates snippet metadata and explanations.
type Assistant interface {
	DescribeSnippet(ctx context.Context, code string) (Description, error)
	ExplainSnippet(ctx context.Context, code string) (Explanation, error)
	SuggestTags(ctx context.Context, title, code string) ([]string, error)
}

// cleanTags lowercases and trims tags, drops empties and duplicates, and
// truncates to the tag limit. Order of first appearance is preserved.
func cleanTags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == tagLimit {
			break
		}
	}
	return out
}

// checkDescription validates a decoded description result.
func checkDescription(d *Description) error {
	d.Description = strings.TrimSpace(d.Description)
	if d.Description == "" {
		return errEmptyResult
	}
	d.Tags = cleanTags(d.Tags)
	d.Language = strings.ToLower(strings.TrimSpace(d.Language))
	return nil
}

// checkExplanation validates a decoded explanation result.
func checkExplanation(e *Explanation) error {
	e.Explanation = strings.TrimSpace(e.Explanation)
	e.Review = strings.TrimSpace(e.Review)
	if e.Explanation == "" {
		return errEmptyResult
	}
	return nil
}
