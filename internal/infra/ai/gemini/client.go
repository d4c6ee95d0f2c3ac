package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nattawatp/imagelens/internal/domain/analysis"
	"github.com/nattawatp/imagelens/internal/infra/ai/prompt"
)

const defaultModel = "gemini-1.5-flash"

// Client verifies images against the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, analysis.ErrNotConfigured
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.client != nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Verify sends the image with the fixed instruction prompt and parses the
// reply into a RemoteVerdict.
func (c *Client) Verify(ctx context.Context, image []byte, mimeType string) (analysis.RemoteVerdict, error) {
	if !c.IsConfigured() {
		return analysis.RemoteVerdict{}, analysis.ErrNotConfigured
	}

	// genai wants the bare image subtype, e.g. "jpeg", not "image/jpeg".
	format := strings.TrimPrefix(mimeType, "image/")

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, image),
		genai.Text(prompt.VerifyPrompt),
	)
	if err != nil {
		return analysis.RemoteVerdict{}, fmt.Errorf("remote analysis failed: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return analysis.RemoteVerdict{}, err
	}
	return analysis.ParseRemoteVerdict(text)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("%w: no response candidates or content", analysis.ErrMalformedResponse)
}
