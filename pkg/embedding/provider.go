package embedding

import "context"

// Dimensions of text-embedding-ada-002 vectors.
const Dimensions = 1536

// MaxInputChars caps embedding input length; longer texts are truncated.
const MaxInputChars = 8000

// EmbeddingResponse carries a generated vector and the model that produced it.
type EmbeddingResponse struct {
	Embedding []float32
	Model     string
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) (*EmbeddingResponse, error)
}

// Truncate trims input to MaxInputChars runes.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars])
}
