package matching

import "context"

// Embedder is the pretrained dense sentence encoder. Implementations must
// support batching: one call with many texts, one vector per text.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ArtifactStore persists and retrieves trained model artifacts as opaque
// blobs. Each artifact is independently loadable; a missing artifact is
// reported via IsNotExist so the registry can degrade per model.
type ArtifactStore interface {
	// Read returns the artifact blob by name
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores the artifact blob under name, replacing any previous one
	Write(ctx context.Context, name string, data []byte) error

	// IsNotExist reports whether err from Read means the artifact is absent
	IsNotExist(err error) bool
}

// DatasetRow is one raw tabular record as loaded, before normalization.
// Skills may be malformed (literal list syntax, delimited string); the
// training pipeline normalizes them uniformly.
type DatasetRow struct {
	ID              string
	ResumeText      string
	Domain          string
	Role            string
	SeniorityLevel  string
	ExperienceYears string
	EducationLevel  string
	Skills          string
}

// DatasetLoader reads the training dataset from its source (CSV file or
// database table).
type DatasetLoader interface {
	Load(ctx context.Context) ([]DatasetRow, error)
}
