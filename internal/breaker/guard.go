package breaker

import (
	"context"

	"codeberg.org/snonux/babelbox/internal/speech"
)

// Recognizer is the speech-to-text collaborator guarded by a breaker
type Recognizer interface {
	Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error)
}

// Translator is the translation collaborator guarded by a breaker
type Translator interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// Synthesizer is the text-to-speech collaborator guarded by a breaker
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
	Format() string
}

type guardedRecognizer struct {
	b    *Breaker
	next Recognizer
}

// GuardRecognizer wraps r with b
func GuardRecognizer(b *Breaker, r Recognizer) Recognizer {
	return &guardedRecognizer{b: b, next: r}
}

func (g *guardedRecognizer) Recognize(ctx context.Context, audio *speech.Audio, languageCode string) (string, error) {
	return Call(g.b, func() (string, error) {
		return g.next.Recognize(ctx, audio, languageCode)
	})
}

type guardedTranslator struct {
	b    *Breaker
	next Translator
}

// GuardTranslator wraps t with b
func GuardTranslator(b *Breaker, t Translator) Translator {
	return &guardedTranslator{b: b, next: t}
}

func (g *guardedTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	return Call(g.b, func() (string, error) {
		return g.next.Translate(ctx, text, fromLang, toLang)
	})
}

type guardedSynthesizer struct {
	b    *Breaker
	next Synthesizer
}

// GuardSynthesizer wraps s with b
func GuardSynthesizer(b *Breaker, s Synthesizer) Synthesizer {
	return &guardedSynthesizer{b: b, next: s}
}

func (g *guardedSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	return Call(g.b, func() ([]byte, error) {
		return g.next.Synthesize(ctx, text, languageCode)
	})
}

func (g *guardedSynthesizer) Format() string {
	return g.next.Format()
}
