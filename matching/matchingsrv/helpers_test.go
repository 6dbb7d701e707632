package matchingsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentforge/matchengine/internal/ml/forest"
	"github.com/talentforge/matchengine/internal/ml/kmeans"
	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/pkg/kernel"
)

// memStore is an in-memory artifact store for tests
type memStore struct {
	artifacts map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{artifacts: make(map[string][]byte)}
}

func (s *memStore) Read(_ context.Context, name string) ([]byte, error) {
	data, ok := s.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("artifact %s: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

func (s *memStore) Write(_ context.Context, name string, data []byte) error {
	s.artifacts[name] = data
	return nil
}

func (s *memStore) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (s *memStore) put(t *testing.T, name string, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	s.artifacts[name] = data
}

// stubEmbedder returns fixed vectors keyed by input text, falling back to
// fallbackVec, or fails every call when failWith is set.
type stubEmbedder struct {
	vectors     map[string][]float32
	fallbackVec []float32
	failWith    error
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if vec, ok := s.vectors[text]; ok {
			out[i] = vec
			continue
		}
		out[i] = s.fallbackVec
	}
	return out, nil
}

func poolRecords() []matching.CandidateRecord {
	return []matching.CandidateRecord{
		{
			ID:              kernel.NewCandidateID("CAND-0001"),
			Domain:          "Backend",
			Role:            "Backend Engineer",
			SeniorityLevel:  "Senior",
			ExperienceYears: 8,
			EducationLevel:  "Master's",
			Skills:          []string{"Java", "Spring Boot", "SQL", "Docker", "Kubernetes", "AWS"},
			ResumeText:      "senior java developer spring boot microservices sql docker kubernetes",
		},
		{
			ID:              kernel.NewCandidateID("CAND-0002"),
			Domain:          "Backend",
			Role:            "Python Developer",
			SeniorityLevel:  "Mid",
			ExperienceYears: 4,
			EducationLevel:  "Bachelor's",
			Skills:          []string{"Python", "Flask", "Docker"},
			ResumeText:      "python developer flask services docker deployment postgresql",
		},
		{
			ID:              kernel.NewCandidateID("CAND-0003"),
			Domain:          "Data",
			Role:            "Data Scientist",
			SeniorityLevel:  "Senior",
			ExperienceYears: 6,
			EducationLevel:  "PhD",
			Skills:          []string{"Python", "Machine Learning", "NLP"},
			ResumeText:      "data scientist machine learning models nlp transformers python research",
		},
		{
			ID:              kernel.NewCandidateID("CAND-0004"),
			Domain:          "Frontend",
			Role:            "Frontend Developer",
			SeniorityLevel:  "Junior",
			ExperienceYears: 1,
			EducationLevel:  "High School",
			Skills:          []string{"JavaScript", "React", "CSS"},
			ResumeText:      "frontend developer javascript react css responsive interfaces",
		},
	}
}

// trainedStore builds a complete artifact set over poolRecords, fitted the
// same way the offline pipeline fits them.
func trainedStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	records := poolRecords()

	corpus := make([]string, len(records))
	for i := range records {
		corpus[i] = records[i].ResumeText
	}
	// small fixture corpus, so no document-frequency pruning
	lexModel := lexical.Fit(corpus, lexical.DefaultOptions())

	var X [][]float64
	var y []int
	for skills := 0; skills <= 10; skills += 2 {
		for experience := 0; experience <= 10; experience += 2 {
			for tier := matching.TierHighSchool; tier <= matching.TierPhD; tier++ {
				X = append(X, []float64{float64(skills), float64(experience), float64(tier)})
				y = append(y, matching.FitLabel(experience, skills, tier))
			}
		}
	}
	classifier := forest.Train(X, y, forest.DefaultOptions())

	matrix := make([]map[int]float64, len(lexModel.Rows))
	for i, row := range lexModel.Rows {
		matrix[i] = row
	}
	clusters := kmeans.Fit(matrix, len(lexModel.Vocabulary), 2, kmeans.DefaultOptions())

	store.put(t, matching.ArtifactLexicalModel, lexicalArtifact{
		Vocabulary: lexModel.Vocabulary,
		IDF:        lexModel.IDF,
	})
	store.put(t, matching.ArtifactCorpusMatrix, lexModel.Rows)
	store.put(t, matching.ArtifactClassifier, classifier)
	store.put(t, matching.ArtifactScaler, classifier.Scaler)
	store.put(t, matching.ArtifactClusterModel, clusters)
	store.put(t, matching.ArtifactLookup, records)
	store.put(t, matching.ArtifactMetrics, matching.TrainingMetrics{
		Accuracy:         0.93,
		LastTrainingDate: "2026-08-01",
		Records:          len(records),
	})
	return store
}

func loadedEngine(t *testing.T, embedder matching.Embedder) *Engine {
	t.Helper()
	registry := NewRegistry(trainedStore(t), embedder)
	registry.Load(context.Background())
	return NewEngine(registry)
}

func emptyEngine(t *testing.T, embedder matching.Embedder) *Engine {
	t.Helper()
	registry := NewRegistry(newMemStore(), embedder)
	registry.Load(context.Background())
	return NewEngine(registry)
}
