package translation

import (
	"context"
	"sync"
)

// TranslationCache stores translations in memory, keyed by language pair
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

func cacheKey(text, fromLang, toLang string) string {
	return fromLang + "|" + toLang + "|" + text
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(text, fromLang, toLang, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[cacheKey(text, fromLang, toLang)] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(text, fromLang, toLang string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[cacheKey(text, fromLang, toLang)]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}

// CachedTranslator answers repeated phrases from a cache
type CachedTranslator struct {
	next  Translator
	cache *TranslationCache
}

// NewCachedTranslator wraps next with cache
func NewCachedTranslator(next Translator, cache *TranslationCache) *CachedTranslator {
	return &CachedTranslator{next: next, cache: cache}
}

// Translate returns a cached translation or asks the wrapped translator.
// Failures are not cached.
func (c *CachedTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	if translation, ok := c.cache.Get(text, fromLang, toLang); ok {
		return translation, nil
	}

	translation, err := c.next.Translate(ctx, text, fromLang, toLang)
	if err != nil {
		return "", err
	}

	c.cache.Add(text, fromLang, toLang, translation)
	return translation, nil
}
