// Package recognition turns captured phrases into text. OpenAIRecognizer
// uses the Whisper transcription endpoint, GoogleRecognizer the Cloud
// Speech-to-Text API. Both report speech.ErrUnintelligible when the service
// answered but found no words, and speech.ErrServiceUnavailable when the
// service could not be reached or refused the request.
package recognition
