package matchinginfra

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/pkg/logx"
)

const (
	embeddingKeyPrefix = "matchengine:embedding:"
	embeddingTTL       = 24 * time.Hour
)

// CachedEmbedder caches embedding vectors in Redis keyed by a hash of the
// input text. Cache failures never fail a request: on any Redis error the
// call falls through to the wrapped encoder.
type CachedEmbedder struct {
	inner  matching.Embedder
	client *redis.Client
}

func NewCachedEmbedder(inner matching.Embedder, client *redis.Client) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, client: client}
}

func embeddingKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = embeddingKey(text)
	}

	var missing []int
	cached, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logx.Warnf("embedding cache read failed, bypassing cache: %v", err)
		for i := range texts {
			missing = append(missing, i)
		}
	} else {
		for i, value := range cached {
			raw, ok := value.(string)
			if !ok {
				missing = append(missing, i)
				continue
			}
			var vec []float32
			if err := json.Unmarshal([]byte(raw), &vec); err != nil {
				missing = append(missing, i)
				continue
			}
			vectors[i] = vec
		}
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	batch := make([]string, len(missing))
	for i, j := range missing {
		batch[i] = texts[j]
	}
	fresh, err := c.inner.EmbedBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	pipe := c.client.Pipeline()
	for i, j := range missing {
		vectors[j] = fresh[i]
		data, err := json.Marshal(fresh[i])
		if err != nil {
			continue
		}
		pipe.Set(ctx, keys[j], data, embeddingTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logx.Warnf("embedding cache write failed: %v", err)
	}
	return vectors, nil
}
