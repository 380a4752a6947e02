// Package models lists the OpenAI models available to an API key, grouped
// into speech-to-text, text-to-speech and chat models, so the operator can
// pick values for the stt, tts and translation settings.
package models
