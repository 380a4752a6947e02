package translation

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/babelbox/internal/testutil"
)

type fakeChat struct {
	reply   string
	err     error
	request openai.ChatCompletionRequest
	calls   int
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.request = request
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.reply == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

type fakeGemini struct {
	reply string
	err   error
	model string
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.reply}}}},
		},
	}, nil
}

func TestNewOpenAITranslator(t *testing.T) {
	translator := NewOpenAITranslator("test-api-key", "")

	if translator.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", translator.apiKey)
	}
	if translator.model != openai.GPT4oMini {
		t.Errorf("Expected default model %s, got %s", openai.GPT4oMini, translator.model)
	}
	if translator.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, &Config{Provider: "openai"}); err == nil || err.Error() != "OpenAI API key not found" {
		t.Errorf("Expected missing key error, got %v", err)
	}
	if _, err := New(ctx, &Config{Provider: "gemini"}); err == nil {
		t.Error("Expected missing Gemini key error")
	}
	if _, err := New(ctx, &Config{Provider: "deepl", OpenAIKey: "k"}); err == nil {
		t.Error("Expected unknown provider error")
	}

	tr, err := New(ctx, &Config{Provider: "openai", OpenAIKey: "k", Cache: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := tr.(*CachedTranslator); !ok {
		t.Errorf("Expected *CachedTranslator, got %T", tr)
	}
}

func TestOpenAITranslate(t *testing.T) {
	tests := []struct {
		name    string
		chat    *fakeChat
		text    string
		from    string
		to      string
		want    string
		wantErr bool
		calls   int
	}{
		{"translates", &fakeChat{reply: "  Guten Morgen \n"}, "good morning", "en", "de", "Guten Morgen", false, 1},
		{"same language", &fakeChat{reply: "unused"}, "hola", "es", "es", "hola", false, 0},
		{"empty text", &fakeChat{reply: "unused"}, "  ", "en", "de", "", true, 0},
		{"api error", &fakeChat{err: errors.New("rate limited")}, "hi", "en", "fr", "", true, 1},
		{"no choices", &fakeChat{}, "hi", "en", "fr", "", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &OpenAITranslator{apiKey: "k", model: openai.GPT4oMini, client: tt.chat}
			got, err := tr.Translate(context.Background(), tt.text, tt.from, tt.to)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Translate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Translate() = %q, want %q", got, tt.want)
			}
			if tt.chat.calls != tt.calls {
				t.Errorf("API called %d times, want %d", tt.chat.calls, tt.calls)
			}
		})
	}
}

func TestOpenAITranslatePrompt(t *testing.T) {
	chat := &fakeChat{reply: "你好"}
	tr := &OpenAITranslator{apiKey: "k", model: "gpt-4o", client: chat}

	if _, err := tr.Translate(context.Background(), "hello", "en", "zh-CN"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	content := chat.request.Messages[0].Content
	for _, want := range []string{"'en'", "'zh-CN'", "hello"} {
		if !strings.Contains(content, want) {
			t.Errorf("Prompt %q does not contain %q", content, want)
		}
	}
	if chat.request.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", chat.request.Model)
	}
}

func TestTranslate_NoAPIKey(t *testing.T) {
	translator := NewOpenAITranslator("", "")

	_, err := translator.Translate(context.Background(), "hello", "en", "de")
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if err.Error() != "OpenAI API key not found" {
		t.Errorf("Expected 'OpenAI API key not found' error, got: %v", err)
	}
}

func TestGeminiTranslate(t *testing.T) {
	fake := &fakeGemini{reply: "Bonjour\n"}
	tr := &GeminiTranslator{model: DefaultGeminiModel, models: fake}

	got, err := tr.Translate(context.Background(), "hello", "en", "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("Translate() = %q, want %q", got, "Bonjour")
	}
	if fake.model != DefaultGeminiModel {
		t.Errorf("Model = %q, want %q", fake.model, DefaultGeminiModel)
	}

	tr.models = &fakeGemini{err: errors.New("quota")}
	if _, err := tr.Translate(context.Background(), "hello", "en", "fr"); err == nil {
		t.Error("Expected API error")
	}

	tr.models = &fakeGemini{reply: "  "}
	if _, err := tr.Translate(context.Background(), "hello", "en", "fr"); err == nil {
		t.Error("Expected error for an empty answer")
	}
}

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()

	if _, found := cache.Get("hello", "en", "de"); found {
		t.Error("Expected not found in empty cache")
	}

	cache.Add("hello", "en", "de", "hallo")
	cache.Add("hello", "en", "fr", "bonjour")

	if got, _ := cache.Get("hello", "en", "de"); got != "hallo" {
		t.Errorf("Expected 'hallo', got '%s'", got)
	}
	if got, _ := cache.Get("hello", "en", "fr"); got != "bonjour" {
		t.Errorf("Expected 'bonjour', got '%s'", got)
	}
	if _, found := cache.Get("hello", "de", "en"); found {
		t.Error("Reverse direction must not hit the cache")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestCachedTranslator(t *testing.T) {
	mock := &testutil.MockTranslator{Translations: map[string]string{"thank you": "धन्यवाद"}}
	tr := NewCachedTranslator(mock, NewTranslationCache())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := tr.Translate(ctx, "thank you", "en", "hi")
		if err != nil || got != "धन्यवाद" {
			t.Fatalf("Translate() = %q, %v", got, err)
		}
	}
	if mock.CallCount() != 1 {
		t.Errorf("Wrapped translator called %d times, want 1", mock.CallCount())
	}

	mock.Err = errors.New("down")
	if _, err := tr.Translate(ctx, "bye", "en", "hi"); err == nil {
		t.Error("Expected error to pass through")
	}
	mock.Err = nil
	if _, err := tr.Translate(ctx, "bye", "en", "hi"); err != nil {
		t.Errorf("Failure must not be cached, got %v", err)
	}
}

func TestTranslate_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	translator := NewOpenAITranslator(apiKey, "")
	translation, err := translator.Translate(context.Background(), "good morning", "en", "es")
	if err != nil {
		t.Errorf("Translate failed: %v", err)
	}
	if translation == "" {
		t.Error("Got empty translation")
	}
	t.Logf("Translation of 'good morning': %s", translation)
}
