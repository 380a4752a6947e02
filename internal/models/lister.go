package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// modelClient is the part of *openai.Client the lister needs
type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Catalog groups model IDs by what babelbox can use them for
type Catalog struct {
	SpeechToText []string
	TextToSpeech []string
	Chat         []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client modelClient
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// Categorize sorts model IDs into the categories babelbox cares about.
// Models that fit none (embeddings, images, moderation) are left out.
func Categorize(ids []string) Catalog {
	var c Catalog

	for _, id := range ids {
		switch {
		case strings.Contains(id, "whisper") || strings.Contains(id, "transcribe"):
			c.SpeechToText = append(c.SpeechToText, id)
		case strings.Contains(id, "tts"):
			c.TextToSpeech = append(c.TextToSpeech, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime"):
			// Audio chat models need a different API
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}

	sort.Strings(c.SpeechToText)
	sort.Strings(c.TextToSpeech)
	sort.Strings(c.Chat)
	return c
}

// Fetch lists the models available to the API key
func (l *Lister) Fetch(ctx context.Context) (Catalog, error) {
	if l.apiKey == "" {
		return Catalog{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .babelbox.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	return Categorize(ids), nil
}

// ListAvailableModels prints the categorized models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	printSection(w, "Speech-to-Text (stt.model):", catalog.SpeechToText)
	printSection(w, "Text-to-Speech (tts.openai_model):", catalog.TextToSpeech)

	chat := catalog.Chat
	if len(chat) > 10 {
		// Show only the families worth translating with
		relevant := []string{}
		for _, model := range chat {
			if strings.Contains(model, "gpt-4") || strings.Contains(model, "gpt-5") {
				relevant = append(relevant, model)
			}
		}
		printSection(w, "Chat/Translation (translation.model):", relevant)
		fmt.Fprintf(w, "  ... and %d more models\n", len(chat)-len(relevant))
		return nil
	}
	printSection(w, "Chat/Translation (translation.model):", chat)
	return nil
}

func printSection(w io.Writer, title string, models []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(models) == 0 {
		fmt.Fprintln(w, "  None found")
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
