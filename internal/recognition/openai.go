package recognition

import (
	"bytes"
	"context"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/babelbox/internal/speech"
)

// transcriber is the part of *openai.Client the recognizer needs
type transcriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAIRecognizer transcribes phrases with Whisper
type OpenAIRecognizer struct {
	client transcriber
	model  string
}

// NewOpenAIRecognizer creates a Whisper recognizer
func NewOpenAIRecognizer(apiKey, model string) *OpenAIRecognizer {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIRecognizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Recognize uploads the phrase as WAV and returns the transcript
func (r *OpenAIRecognizer) Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error) {
	if audio == nil || len(audio.PCM) == 0 {
		return "", speech.ErrUnintelligible
	}

	req := openai.AudioRequest{
		Model:    r.model,
		FilePath: "speech.wav",
		Reader:   bytes.NewReader(audio.WAV()),
		Language: BaseLanguage(languageCode),
		Format:   openai.AudioResponseFormatJSON,
	}

	resp, err := r.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", unavailable("whisper", err)
	}

	return transcript(resp.Text)
}
