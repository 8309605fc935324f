package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// Gemini is the production Assistant backed by Google's Gemini API. All
// calls use structured JSON output so responses decode directly into the
// result types without prose scraping.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini assistant. The model defaults to a fast tier
// suitable for interactive form-fill latencies.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

var descriptionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description": {Type: genai.TypeString, Description: "One or two sentences saying what the code does."},
		"tags":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"language":    {Type: genai.TypeString, Description: "The programming language of the code."},
	},
	Required: []string{"description", "tags", "language"},
}

var explanationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"explanation": {Type: genai.TypeString, Description: "A step-by-step walkthrough of the code."},
		"review":      {Type: genai.TypeString, Description: "Suggestions for improving the code."},
	},
	Required: []string{"explanation"},
}

var tagsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tags": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"tags"},
}

// DescribeSnippet asks the model for a short description, tag suggestions,
// and the detected language of the code.
func (g *Gemini) DescribeSnippet(ctx context.Context, code string) (Description, error) {
	if code == "" {
		return Description{}, ErrEmptyCode
	}

	prompt := "You help developers fill in snippet metadata for a code sharing site.\n" +
		"Describe what the following code does in one or two sentences, suggest up to " +
		"eight lowercase tags, and name its programming language.\n\nCode:\n" + code

	var out Description
	if err := g.generate(ctx, prompt, descriptionSchema, &out); err != nil {
		return Description{}, err
	}
	if err := checkDescription(&out); err != nil {
		return Description{}, err
	}
	return out, nil
}

// ExplainSnippet asks the model for a walkthrough of the code and a short
// review of how it could be improved.
func (g *Gemini) ExplainSnippet(ctx context.Context, code string) (Explanation, error) {
	if code == "" {
		return Explanation{}, ErrEmptyCode
	}

	prompt := "You help developers understand unfamiliar code on a snippet sharing site.\n" +
		"Explain step by step what the following code does, then give a short review " +
		"with concrete improvement suggestions.\n\nCode:\n" + code

	var out Explanation
	if err := g.generate(ctx, prompt, explanationSchema, &out); err != nil {
		return Explanation{}, err
	}
	if err := checkExplanation(&out); err != nil {
		return Explanation{}, err
	}
	return out, nil
}

// SuggestTags asks the model for tag suggestions given a title and code.
func (g *Gemini) SuggestTags(ctx context.Context, title, code string) ([]string, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}

	prompt := "Suggest up to eight short lowercase tags for a code snippet on a " +
		"sharing site. Favor the language, frameworks, and the task the code performs.\n\n" +
		"Title: " + title + "\n\nCode:\n" + code

	var out struct {
		Tags []string `json:"tags"`
	}
	if err := g.generate(ctx, prompt, tagsSchema, &out); err != nil {
		return nil, err
	}
	tags := cleanTags(out.Tags)
	if len(tags) == 0 {
		return nil, errEmptyResult
	}
	return tags, nil
}

// generate runs one structured-output completion and decodes the JSON reply
// into dst.
func (g *Gemini) generate(ctx context.Context, prompt string, schema *genai.Schema, dst any) error {
	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	)
	if err != nil {
		return fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return errEmptyResult
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("gemini returned malformed JSON: %w", err)
	}
	return nil
}
