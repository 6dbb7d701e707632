package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/talentforge/matchengine/internal/ai/embeddings"
	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/matching/matchingapi"
	"github.com/talentforge/matchengine/matching/matchinginfra"
	"github.com/talentforge/matchengine/matching/matchingsrv"
	"github.com/talentforge/matchengine/pkg/logx"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	Store matching.ArtifactStore
	Redis *redis.Client // nil when no cache is configured

	// Services
	Registry *matchingsrv.Registry
	Engine   *matchingsrv.Engine

	// API Handlers
	MatchingHandlers *matchingapi.MatchingHandlers
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context) *Container {
	c := &Container{}
	c.initArtifactStore(ctx)

	embedder := c.initEmbedder()

	c.Registry = matchingsrv.NewRegistry(c.Store, embedder)
	c.Registry.Load(ctx)

	c.Engine = matchingsrv.NewEngine(c.Registry)
	c.MatchingHandlers = matchingapi.NewMatchingHandlers(c.Engine)
	return c
}

// initArtifactStore selects S3 when a bucket is configured, the local
// artifact directory otherwise.
func (c *Container) initArtifactStore(ctx context.Context) {
	bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
	if bucket == "" {
		dir := os.Getenv("ARTIFACTS_DIR")
		if dir == "" {
			dir = "./artifacts"
		}
		logx.Infof("using local artifact store at %s", dir)
		c.Store = matchinginfra.NewLocalStore(dir)
		return
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logx.Fatalf("Failed to load AWS config: %v", err)
	}
	logx.Infof("using S3 artifact store, bucket %s", bucket)
	c.Store = matchinginfra.NewS3Store(s3.NewFromConfig(cfg), bucket, os.Getenv("ARTIFACTS_S3_PREFIX"))
}

// initEmbedder wires the dense encoder when an API key is present, and wraps
// it in the Redis cache when one is configured. Returns nil when semantic
// matching should stay disabled.
func (c *Container) initEmbedder() matching.Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logx.Warn("OPENAI_API_KEY not set, semantic matching disabled")
		return nil
	}

	var embedder matching.Embedder = embeddings.NewGenerator(apiKey)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return embedder
	}
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	logx.Infof("embedding cache enabled at %s", redisAddr)
	return matchinginfra.NewCachedEmbedder(embedder, c.Redis)
}

// Close releases held connections
func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
