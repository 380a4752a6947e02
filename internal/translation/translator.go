package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Translator translates text from one language code to another
type Translator interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// Config selects and configures a translator
type Config struct {
	Provider  string // "openai" or "gemini"
	Model     string
	OpenAIKey string
	GeminiKey string
	Cache     bool
}

// DefaultConfig returns the default translator configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Model:    openai.GPT4oMini,
		Cache:    true,
	}
}

// New creates the translator named in config, wrapped in a cache if enabled
func New(ctx context.Context, config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		t   Translator
		err error
	)
	switch config.Provider {
	case "openai", "":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found")
		}
		t = NewOpenAITranslator(config.OpenAIKey, config.Model)
	case "gemini":
		t, err = NewGeminiTranslator(ctx, config.GeminiKey, config.Model)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	if config.Cache {
		t = NewCachedTranslator(t, NewTranslationCache())
	}
	return t, nil
}

// prompt builds the instruction shared by all providers
func prompt(text, fromLang, toLang string) string {
	return fmt.Sprintf("Translate the following text from language code '%s' to language code '%s'. "+
		"Respond with only the translation, nothing else.\n\n%s", fromLang, toLang, text)
}

// chatClient is the part of *openai.Client the translator needs
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAITranslator translates with an OpenAI chat model
type OpenAITranslator struct {
	apiKey string
	model  string
	client chatClient
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Translate translates text from fromLang to toLang
func (t *OpenAITranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to translate")
	}
	if fromLang == toLang {
		return text, nil
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(text, fromLang, toLang),
			},
		},
		MaxTokens:   400,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", fmt.Errorf("empty translation returned")
	}
	return translation, nil
}
