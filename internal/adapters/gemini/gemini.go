// Package gemini implements translation and recognition collaborators on
// top of the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Options struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// Client wraps one genai client shared by the translator and recognizer.
type Client struct {
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, o Options) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  o.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.BaseURL}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := o.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{genai: c, model: model}, nil
}

// generateJSON sends parts with a system prompt and decodes the JSON reply
// into out.
func (c *Client) generateJSON(ctx context.Context, system string, parts []*genai.Part, out any) error {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.1),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return fmt.Errorf("generate content: empty response")
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```json"), "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
