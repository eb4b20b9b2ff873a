// Package llm runs the optional round trip with the Anthropic API: the
// status prompt goes out, a bulk-update JSON payload comes back.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client wraps the Anthropic API for update proposals.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

const proposeSystemPrompt = `You are assisting with an implementation-phase project tracker. The user sends a full project status report that ends with a JSON schema. Analyze the issue history, recurring issues, and pending code requests, then respond with concrete next actions.

Rules:
- Return ONLY a single JSON object matching the schema at the end of the report
- Use "action": "update" with an existing issue_id to transition known issues; "action": "create" for new ones
- Statuses are discovered/in_progress/resolved/recurred; impacts and severities are low/medium/high
- Only include sections you have something to say about; at least one section is required
- No markdown fencing, no explanation outside the JSON`

// ProposeUpdates sends the status prompt and returns the assistant's raw
// bulk-update JSON, ready for payload validation.
func (c *Client) ProposeUpdates(ctx context.Context, statusPrompt string) ([]byte, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: proposeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(statusPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return []byte(StripFence(text)), nil
}

// StripFence removes a surrounding markdown code fence, which models add
// despite instructions often enough to handle here.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) > 1 {
		text = lines[1]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
