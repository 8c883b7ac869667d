package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the part of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks Gemini for a JSON object that satisfies OutputSchema.
type GeminiClient struct {
	models contentGenerator
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiClient(client.Models, model), nil
}

func newGeminiClient(models contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{models: models, model: model}
}

// OutputSchema mirrors ModelOutput.
func OutputSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reply":      {Type: genai.TypeString, Description: "Text shown to the customer."},
			"action":     {Type: genai.TypeString, Enum: []string{ActionAddToCart}, Description: "Set only to add an item to the cart."},
			"item_name":  {Type: genai.TypeString, Description: "Exact menu item name for add_to_cart."},
			"store_name": {Type: genai.TypeString, Description: "Store of the item, when known."},
		},
		Required: []string{"reply"},
	}
}

func (c *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.3),
		ResponseMIMEType: "application/json",
		ResponseSchema:   OutputSchema(),
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

var _ ChatModel = (*GeminiClient)(nil)
