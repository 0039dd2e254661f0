package speech

import (
	"context"
	"io"
)

// Transcription is the result of speech-to-text.
type Transcription struct {
	Text     string
	Language string
}

// SpeechProvider covers both directions: voice notes in, spoken
// interpretations out.
type SpeechProvider interface {
	// Transcribe converts an audio stream into text. filename hints the
	// container format (e.g. "dream.ogg").
	Transcribe(ctx context.Context, audio io.Reader, filename string, language string) (*Transcription, error)

	// Synthesize renders text to speech and returns the audio bytes (mp3).
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
