// Package translation translates recognized phrases between any two
// configured languages. OpenAITranslator uses a chat completion, while
// GeminiTranslator uses the Gemini API. A CachedTranslator remembers
// results per language pair so that repeated phrases skip the network.
package translation
