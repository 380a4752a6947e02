package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// contentGenerator is the part of *genai.Models the translator needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator translates with a Gemini model
type GeminiTranslator struct {
	model  string
	models contentGenerator
}

// NewGeminiTranslator creates a Gemini API client
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" || strings.HasPrefix(model, "gpt") {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{model: model, models: client.Models}, nil
}

// Translate translates text from fromLang to toLang
func (t *GeminiTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to translate")
	}
	if fromLang == toLang {
		return text, nil
	}

	resp, err := t.models.GenerateContent(ctx, t.model, genai.Text(prompt(text, fromLang, toLang)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.3)})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return translation, nil
}
