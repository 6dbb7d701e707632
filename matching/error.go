package matching

import (
	"net/http"

	"github.com/talentforge/matchengine/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("MATCHING")

// Error codes - Request validation
var (
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Missing or invalid request fields")
	CodeFileRequired      = ErrRegistry.Register("FILE_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Resume file is required")
	CodeInvalidFileFormat = ErrRegistry.Register("INVALID_FILE_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Unsupported file format")
)

// Error codes - Model availability. Reported per-operation, distinct per
// model, so partial capability is visible to callers.
var (
	CodeLexicalUnavailable    = ErrRegistry.Register("LEXICAL_UNAVAILABLE", errx.TypeBusiness, http.StatusServiceUnavailable, "Lexical model not trained")
	CodeSemanticUnavailable   = ErrRegistry.Register("SEMANTIC_UNAVAILABLE", errx.TypeBusiness, http.StatusServiceUnavailable, "Semantic embedding model not available")
	CodeClassifierUnavailable = ErrRegistry.Register("CLASSIFIER_UNAVAILABLE", errx.TypeBusiness, http.StatusServiceUnavailable, "Fit classifier not trained")
	CodeClusterUnavailable    = ErrRegistry.Register("CLUSTER_UNAVAILABLE", errx.TypeBusiness, http.StatusServiceUnavailable, "Clustering model not available")
	CodePoolUnavailable       = ErrRegistry.Register("POOL_UNAVAILABLE", errx.TypeBusiness, http.StatusServiceUnavailable, "Talent pool snapshot not loaded")
)

// Error codes - Scoring and upstream failures
var (
	CodeScoringFailed   = ErrRegistry.Register("SCORING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Scoring operation failed")
	CodeEmbeddingFailed = ErrRegistry.Register("EMBEDDING_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to generate embeddings")
	CodeFileReadFailed  = ErrRegistry.Register("FILE_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read uploaded file")
)

// Error codes - Training pipeline
var (
	CodeDatasetLoadFailed = ErrRegistry.Register("DATASET_LOAD_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to load training dataset")
	CodeDatasetEmpty      = ErrRegistry.Register("DATASET_EMPTY", errx.TypeValidation, http.StatusBadRequest, "Training dataset has no usable records")
	CodePersistFailed     = ErrRegistry.Register("PERSIST_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to persist model artifact")
)

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrFileRequired() *errx.Error {
	return ErrRegistry.New(CodeFileRequired)
}

func ErrInvalidFileFormat() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileFormat)
}

// ErrModelUnavailable returns the unavailability error for the given model
func ErrModelUnavailable(kind ModelKind) *errx.Error {
	switch kind {
	case ModelLexical:
		return ErrRegistry.New(CodeLexicalUnavailable)
	case ModelSemantic:
		return ErrRegistry.New(CodeSemanticUnavailable)
	case ModelClassifier:
		return ErrRegistry.New(CodeClassifierUnavailable)
	case ModelCluster:
		return ErrRegistry.New(CodeClusterUnavailable)
	default:
		return ErrRegistry.New(CodePoolUnavailable)
	}
}

func ErrPoolUnavailable() *errx.Error {
	return ErrRegistry.New(CodePoolUnavailable)
}

func ErrScoringFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeScoringFailed, cause)
}

func ErrEmbeddingFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeEmbeddingFailed, cause)
}

func ErrFileReadFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeFileReadFailed, cause)
}

func ErrDatasetLoadFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeDatasetLoadFailed, cause)
}

func ErrDatasetEmpty() *errx.Error {
	return ErrRegistry.New(CodeDatasetEmpty)
}

func ErrPersistFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodePersistFailed, cause)
}
