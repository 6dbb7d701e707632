package embeddings

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Dimension of the dense vectors the encoder produces
const Dimension = 1536

// Generator wraps the pretrained sentence encoder behind a batched embedding
// call. One call with many texts is preferred over many single-text calls:
// the encoder has fixed per-call overhead.
type Generator struct {
	client *openai.Client
}

// NewGenerator creates an embeddings generator with the given API key
func NewGenerator(apiKey string) *Generator {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Generator{
		client: &client,
	}
}

// EmbedBatch creates one dense vector per input text in a single call.
// Empty texts yield zero vectors rather than failing the batch.
func (g *Generator) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	// The encoder rejects empty strings; remember their slots and skip them,
	// then restore zero vectors at the same positions.
	valid := make([]string, 0, len(texts))
	slots := make([]int, 0, len(texts))
	for i, text := range texts {
		if text != "" {
			valid = append(valid, text)
			slots = append(slots, i)
		}
	}

	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, Dimension)
	}
	if len(valid) == 0 {
		return out, nil
	}

	resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: valid,
		},
		Model: openai.EmbeddingModelTextEmbedding3Small,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(valid) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(resp.Data), len(valid))
	}

	for i, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		out[slots[i]] = vec
	}

	return out, nil
}

// Embed creates an embedding vector for a single text
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
