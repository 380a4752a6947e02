package recognition

import (
	"context"
	"fmt"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"

	"codeberg.org/snonux/babelbox/internal/speech"
)

// recognizeClient is the part of *gspeech.Client the recognizer needs
type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// GoogleRecognizer transcribes phrases with Cloud Speech-to-Text.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
type GoogleRecognizer struct {
	client recognizeClient
}

// NewGoogleRecognizer connects to Cloud Speech-to-Text
func NewGoogleRecognizer(ctx context.Context) (*GoogleRecognizer, error) {
	c, err := gspeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleRecognizer{client: c}, nil
}

// Recognize sends the phrase as LINEAR16 and returns the best alternative
// of every result joined together
func (r *GoogleRecognizer) Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error) {
	if audio == nil || len(audio.PCM) == 0 {
		return "", speech.ErrUnintelligible
	}

	resp, err := r.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(audio.SampleRate),
			LanguageCode:    languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Bytes()},
		},
	})
	if err != nil {
		return "", unavailable("google speech", err)
	}

	var text string
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if text != "" {
			text += " "
		}
		text += alts[0].GetTranscript()
	}

	return transcript(text)
}

// Close releases the gRPC connection
func (r *GoogleRecognizer) Close() error {
	return r.client.Close()
}
