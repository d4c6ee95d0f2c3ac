package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/nattawatp/imagelens/internal/domain/analysis"
	"github.com/nattawatp/imagelens/internal/infra/ai/prompt"
)

const maxTokens = 1024

const defaultModel = "gpt-4o-mini"

// Client verifies images against the OpenAI chat completions API using the
// vision message format.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, analysis.ErrNotConfigured
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.Client != nil
}

// Verify submits the image as a base64 data URL alongside the fixed
// instruction prompt and parses the reply into a RemoteVerdict.
func (c *Client) Verify(ctx context.Context, image []byte, mimeType string) (analysis.RemoteVerdict, error) {
	if !c.IsConfigured() {
		return analysis.RemoteVerdict{}, analysis.ErrNotConfigured
	}

	model := c.Model
	if model == "" {
		model = defaultModel
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.VerifyPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return analysis.RemoteVerdict{}, fmt.Errorf("remote analysis failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return analysis.RemoteVerdict{}, fmt.Errorf("%w: no completion choices", analysis.ErrMalformedResponse)
	}

	return analysis.ParseRemoteVerdict(resp.Choices[0].Message.Content)
}
