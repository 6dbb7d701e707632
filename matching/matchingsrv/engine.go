package matchingsrv

import (
	"context"
	"math"
	"sort"

	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/pkg/kernel"
	"github.com/talentforge/matchengine/pkg/logx"
)

// Engine orchestrates the loaded models to rank and segment candidates. It
// holds only a read reference to the registry; all state is owned there.
type Engine struct {
	registry *Registry
}

// NewEngine creates the ranking engine over a registry
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry exposes the underlying registry for the health surface
func (e *Engine) Registry() *Registry {
	return e.registry
}

// ============================================================================
// Job vs. resumes matching
// ============================================================================

// LexicalMatch ranks candidate resumes against a job description by tf-idf
// cosine similarity. The model is fitted transiently over the joint
// [job]+resumes corpus, trading reproducibility for responsiveness; the
// response says so via its mode field.
func (e *Engine) LexicalMatch(ctx context.Context, req matching.MatchRequest) (*matching.MatchResponse, error) {
	if err := validateMatchRequest(req); err != nil {
		return nil, err
	}

	corpus := make([]string, 0, len(req.Resumes)+1)
	corpus = append(corpus, req.JobDescription)
	for _, r := range req.Resumes {
		corpus = append(corpus, r.NormalizeText())
	}

	model := lexical.Fit(corpus, lexical.DefaultOptions())
	jobVec := model.Rows[0]

	entries := make([]matching.MatchEntry, len(req.Resumes))
	for i := range req.Resumes {
		entries[i] = matching.MatchEntry{
			Index: i,
			Score: lexical.Cosine(jobVec, model.Rows[i+1]),
		}
	}
	sortByScore(entries)

	return &matching.MatchResponse{
		Matches: entries,
		Method:  "lexical",
		Mode:    matching.ModeTransient,
	}, nil
}

// SemanticMatch ranks candidate resumes by dense embedding similarity. The
// whole batch is embedded in a single encoder call.
func (e *Engine) SemanticMatch(ctx context.Context, req matching.MatchRequest) (*matching.MatchResponse, error) {
	if err := validateMatchRequest(req); err != nil {
		return nil, err
	}
	if !e.registry.Ready(matching.ModelSemantic) {
		return nil, matching.ErrModelUnavailable(matching.ModelSemantic)
	}

	texts := make([]string, 0, len(req.Resumes)+1)
	texts = append(texts, req.JobDescription)
	for _, r := range req.Resumes {
		texts = append(texts, r.NormalizeText())
	}

	vectors, err := e.registry.Embedder().EmbedBatch(ctx, texts)
	if err != nil {
		return nil, matching.ErrEmbeddingFailed(err)
	}

	jobVec := vectors[0]
	entries := make([]matching.MatchEntry, len(req.Resumes))
	for i := range req.Resumes {
		entries[i] = matching.MatchEntry{
			Index: i,
			Score: cosine32(jobVec, vectors[i+1]),
		}
	}
	sortByScore(entries)

	return &matching.MatchResponse{
		Matches: entries,
		Method:  "semantic",
		Mode:    matching.ModeTransient,
	}, nil
}

// ============================================================================
// Supervised fit prediction
// ============================================================================

// PredictFit scores engineered candidate features with the trained
// classifier. The persisted model applies its own fitted normalization, so
// inference always sees the training distribution.
func (e *Engine) PredictFit(ctx context.Context, req matching.PredictFitRequest) (*matching.PredictFitResponse, error) {
	if !e.registry.Ready(matching.ModelClassifier) {
		return nil, matching.ErrModelUnavailable(matching.ModelClassifier)
	}

	probability := e.registry.Snapshot().Classifier.PredictProba(req.Features.Vector())
	return &matching.PredictFitResponse{
		FitLikelihood:  probability,
		Recommendation: matching.RecommendationFor(probability),
	}, nil
}

// ============================================================================
// Pool segmentation
// ============================================================================

// ClusterSnapshot maps every cluster to its member candidate identifiers,
// aligned to the persisted corpus row order.
func (e *Engine) ClusterSnapshot(ctx context.Context) (*matching.ClusterResponse, error) {
	if !e.registry.Ready(matching.ModelCluster) {
		return nil, matching.ErrModelUnavailable(matching.ModelCluster)
	}

	snap := e.registry.Snapshot()
	clusters := make(map[kernel.ClusterID][]string, snap.Clusters.K)
	for row, label := range snap.Clusters.Labels {
		id := kernel.ClusterID(label)
		clusters[id] = append(clusters[id], snap.Records[row].ID.String())
	}

	return &matching.ClusterResponse{
		Clusters:      clusters,
		TotalClusters: snap.Clusters.K,
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func validateMatchRequest(req matching.MatchRequest) error {
	if req.JobDescription == "" {
		return matching.ErrInvalidRequest().WithDetail("jobDescription", "missing or empty")
	}
	if len(req.Resumes) == 0 {
		return matching.ErrInvalidRequest().WithDetail("resumes", "missing or empty")
	}
	return nil
}

// sortByScore orders entries descending by score with a stable tie-break by
// original index ascending.
func sortByScore(entries []matching.MatchEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

func cosine32(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

func warnDegraded(op string, err error) {
	logx.Warnf("%s degraded: %v", op, err)
}
