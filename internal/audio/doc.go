// Package audio renders translated text as speech and plays it back.
//
// Speech synthesis goes through a Provider: OpenAIProvider calls the OpenAI
// speech endpoint (with an optional on-disk cache), ESpeakProvider runs the
// local espeak-ng binary, and ProviderWithFallback chains the two. Player
// hands finished files to an external command line player.
package audio
