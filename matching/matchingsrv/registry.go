package matchingsrv

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/talentforge/matchengine/internal/ml/forest"
	"github.com/talentforge/matchengine/internal/ml/kmeans"
	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/pkg/kernel"
	"github.com/talentforge/matchengine/pkg/logx"

	"github.com/google/uuid"
)

// Registry exclusively owns the loaded model artifacts and candidate
// snapshot for the lifetime of the process. The serving path reads a single
// immutable snapshot value; Reload builds a complete new snapshot and swaps
// the pointer atomically, so readers never observe a partial update.
type Registry struct {
	store    matching.ArtifactStore
	embedder matching.Embedder // nil when the encoder is not configured

	snapshot atomic.Pointer[matching.Snapshot]

	mu     sync.RWMutex
	states map[matching.ModelKind]matching.ModelState
}

// NewRegistry creates a registry over an artifact store and an optional
// embedder. Call Load before serving.
func NewRegistry(store matching.ArtifactStore, embedder matching.Embedder) *Registry {
	r := &Registry{
		store:    store,
		embedder: embedder,
		states: map[matching.ModelKind]matching.ModelState{
			matching.ModelLexical:    matching.StateUninitialized,
			matching.ModelSemantic:   matching.StateUninitialized,
			matching.ModelClassifier: matching.StateUninitialized,
			matching.ModelCluster:    matching.StateUninitialized,
		},
	}
	r.snapshot.Store(&matching.Snapshot{})
	return r
}

// Load reads every artifact the store holds and swaps in the resulting
// snapshot. Each model loads independently: a missing or inconsistent
// artifact drops that model back to UNINITIALIZED and leaves the rest of the
// service up. Models report LOADING only while Load itself runs.
func (r *Registry) Load(ctx context.Context) {
	r.setState(matching.ModelLexical, matching.StateLoading)
	r.setState(matching.ModelSemantic, matching.StateLoading)
	r.setState(matching.ModelClassifier, matching.StateLoading)
	r.setState(matching.ModelCluster, matching.StateLoading)

	snap := &matching.Snapshot{Version: kernel.NewModelVersion(uuid.NewString())}
	next := map[matching.ModelKind]matching.ModelState{
		matching.ModelLexical:    matching.StateUninitialized,
		matching.ModelSemantic:   matching.StateUninitialized,
		matching.ModelClassifier: matching.StateUninitialized,
		matching.ModelCluster:    matching.StateUninitialized,
	}

	r.loadLookup(ctx, snap)
	if r.loadLexical(ctx, snap) {
		next[matching.ModelLexical] = matching.StateReady
	}
	if r.loadClassifier(ctx, snap) {
		next[matching.ModelClassifier] = matching.StateReady
	}
	if r.loadClusters(ctx, snap) {
		next[matching.ModelCluster] = matching.StateReady
	}
	r.loadMetrics(ctx, snap)

	if r.embedder != nil {
		next[matching.ModelSemantic] = matching.StateReady
	} else {
		logx.Warn("semantic encoder not configured, semantic matching disabled")
	}

	// the snapshot must be visible before any model reports READY, so a
	// reader that observes readiness always finds that model in the snapshot
	r.snapshot.Store(snap)
	r.mu.Lock()
	for kind, state := range next {
		r.states[kind] = state
	}
	r.mu.Unlock()

	logx.Infof("model registry loaded: version=%s records=%d lexical=%s classifier=%s cluster=%s",
		snap.Version, len(snap.Records),
		r.State(matching.ModelLexical), r.State(matching.ModelClassifier), r.State(matching.ModelCluster))
}

// Reload rebuilds the snapshot from the store. Used after a training run.
func (r *Registry) Reload(ctx context.Context) {
	r.Load(ctx)
}

// Snapshot returns the current immutable snapshot
func (r *Registry) Snapshot() *matching.Snapshot {
	return r.snapshot.Load()
}

// Embedder returns the configured encoder, or nil when semantic matching is
// unavailable
func (r *Registry) Embedder() matching.Embedder {
	return r.embedder
}

// State reports the readiness of one model
func (r *Registry) State(kind matching.ModelKind) matching.ModelState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[kind]
}

// Ready reports whether one model is READY
func (r *Registry) Ready(kind matching.ModelKind) bool {
	return r.State(kind) == matching.StateReady
}

// ModelsLoaded returns the per-model readiness flags for the health surface
func (r *Registry) ModelsLoaded() map[string]bool {
	return map[string]bool{
		string(matching.ModelLexical):    r.Ready(matching.ModelLexical),
		string(matching.ModelSemantic):   r.Ready(matching.ModelSemantic),
		string(matching.ModelClassifier): r.Ready(matching.ModelClassifier),
		string(matching.ModelCluster):    r.Ready(matching.ModelCluster),
	}
}

func (r *Registry) setState(kind matching.ModelKind, state matching.ModelState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[kind] = state
}

// readArtifact unmarshals one artifact into out. Absence is reported as
// (false, nil); anything else is a real failure.
func (r *Registry) readArtifact(ctx context.Context, name string, out any) (bool, error) {
	data, err := r.store.Read(ctx, name)
	if err != nil {
		if r.store.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registry) loadLookup(ctx context.Context, snap *matching.Snapshot) {
	var records []matching.CandidateRecord
	ok, err := r.readArtifact(ctx, matching.ArtifactLookup, &records)
	if err != nil {
		logx.Errorf("candidate lookup artifact unreadable: %v", err)
		return
	}
	if !ok {
		logx.Warn("candidate lookup artifact missing, pool operations disabled")
		return
	}
	snap.Records = records
	logx.Infof("loaded candidate lookup with %d records", len(records))
}

// lexicalArtifact is the persisted vectorizer without the corpus matrix;
// the matrix is its own independently loadable artifact.
type lexicalArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

func (r *Registry) loadLexical(ctx context.Context, snap *matching.Snapshot) bool {
	var vectorizer lexicalArtifact
	ok, err := r.readArtifact(ctx, matching.ArtifactLexicalModel, &vectorizer)
	if err != nil {
		logx.Errorf("lexical model artifact unreadable: %v", err)
		return false
	}
	if !ok {
		logx.Warn("lexical model artifact missing")
		return false
	}

	var rows []lexical.Vector
	ok, err = r.readArtifact(ctx, matching.ArtifactCorpusMatrix, &rows)
	if err != nil {
		logx.Errorf("corpus matrix artifact unreadable: %v", err)
		return false
	}
	if !ok {
		logx.Warn("corpus matrix artifact missing")
		return false
	}

	// the matrix must align row-for-row with the lookup snapshot
	if len(rows) != len(snap.Records) {
		logx.Errorf("corpus matrix has %d rows but lookup has %d records, rejecting lexical artifacts",
			len(rows), len(snap.Records))
		return false
	}

	snap.Lexical = &lexical.Model{
		Vocabulary: vectorizer.Vocabulary,
		IDF:        vectorizer.IDF,
		Rows:       rows,
	}
	return true
}

func (r *Registry) loadClassifier(ctx context.Context, snap *matching.Snapshot) bool {
	var model forest.Model
	ok, err := r.readArtifact(ctx, matching.ArtifactClassifier, &model)
	if err != nil {
		logx.Errorf("classifier artifact unreadable: %v", err)
		return false
	}
	if !ok {
		logx.Warn("classifier artifact missing")
		return false
	}

	// the scaler is also persisted standalone; prefer the embedded copy,
	// fall back to the separate artifact for older layouts
	if model.Scaler == nil {
		var scaler forest.Scaler
		ok, err := r.readArtifact(ctx, matching.ArtifactScaler, &scaler)
		if err != nil || !ok {
			logx.Errorf("classifier artifact has no scaler and none could be loaded separately (err=%v)", err)
			return false
		}
		model.Scaler = &scaler
	}

	snap.Classifier = &model
	return true
}

func (r *Registry) loadClusters(ctx context.Context, snap *matching.Snapshot) bool {
	var model kmeans.Model
	ok, err := r.readArtifact(ctx, matching.ArtifactClusterModel, &model)
	if err != nil {
		logx.Errorf("cluster model artifact unreadable: %v", err)
		return false
	}
	if !ok {
		logx.Warn("cluster model artifact missing")
		return false
	}
	if len(model.Labels) != len(snap.Records) {
		logx.Errorf("cluster assignments cover %d rows but lookup has %d records, rejecting cluster artifact",
			len(model.Labels), len(snap.Records))
		return false
	}
	snap.Clusters = &model
	return true
}

func (r *Registry) loadMetrics(ctx context.Context, snap *matching.Snapshot) {
	var metrics matching.TrainingMetrics
	ok, err := r.readArtifact(ctx, matching.ArtifactMetrics, &metrics)
	if err != nil {
		logx.Errorf("metrics artifact unreadable: %v", err)
		return
	}
	if !ok {
		logx.Warn("training metrics artifact missing")
		return
	}
	snap.Metrics = &metrics
}
