package matchingtrain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/talentforge/matchengine/internal/ml/forest"
	"github.com/talentforge/matchengine/internal/ml/kmeans"
	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/pkg/kernel"
	"github.com/talentforge/matchengine/pkg/logx"
)

const (
	// PoolClusters is the fixed number of talent-pool partitions
	PoolClusters = 6

	// testShare is the held-out fraction used for the accuracy metric
	testShare = 0.2

	splitSeed = 42
)

// Pipeline is the offline training run: it reads the raw dataset, fits the
// lexical vectorizer, the fit classifier and the pool partitioner, and
// persists every artifact the serving registry loads.
type Pipeline struct {
	loader matching.DatasetLoader
	store  matching.ArtifactStore
}

func NewPipeline(loader matching.DatasetLoader, store matching.ArtifactStore) *Pipeline {
	return &Pipeline{loader: loader, store: store}
}

// Run executes one full training run. Unlike serving, training is strict: a
// corrupt or empty dataset aborts the run rather than degrading.
func (p *Pipeline) Run(ctx context.Context) (*matching.TrainingMetrics, error) {
	rows, err := p.loader.Load(ctx)
	if err != nil {
		return nil, matching.ErrDatasetLoadFailed(err)
	}

	records := buildRecords(rows)
	if len(records) == 0 {
		return nil, matching.ErrDatasetEmpty()
	}
	logx.Infof("training on %d candidate records", len(records))

	// lexical space over the cleaned corpus
	corpus := make([]string, len(records))
	for i := range records {
		corpus[i] = records[i].ResumeText
	}
	lexModel := lexical.Fit(corpus, lexical.TrainingOptions())
	logx.Infof("fitted lexical vectorizer with %d terms", len(lexModel.Vocabulary))

	// engineered features and rule-derived labels
	X := make([][]float64, len(records))
	y := make([]int, len(records))
	for i := range records {
		X[i] = records[i].FeatureVector()
		y[i] = matching.FitLabel(records[i].ExperienceYears, len(records[i].Skills), records[i].EducationTier())
	}

	trainIdx, testIdx := split(len(records))
	Xtrain := gatherRows(X, trainIdx)
	ytrain := gatherLabels(y, trainIdx)

	classifier := forest.Train(Xtrain, ytrain, forest.DefaultOptions())
	accuracy := evaluate(classifier, X, y, testIdx)
	logx.Infof("fit classifier trained, held-out accuracy %.4f", accuracy)

	// partition the pool in the lexical space
	matrix := make([]map[int]float64, len(lexModel.Rows))
	for i, row := range lexModel.Rows {
		matrix[i] = row
	}
	clusters := kmeans.Fit(matrix, len(lexModel.Vocabulary), PoolClusters, kmeans.DefaultOptions())
	logx.Infof("pool partitioned into %d clusters, inertia %.2f", clusters.K, clusters.Inertia)

	for i := range records {
		records[i].BusinessFitScore = classifier.PredictProba(X[i])
	}

	now := time.Now().UTC()
	metrics := &matching.TrainingMetrics{
		Accuracy:         accuracy,
		LastTrainingDate: now.Format("2006-01-02"),
		Records:          len(records),
		TrainedAt:        now,
	}

	if err := p.persist(ctx, lexModel, classifier, clusters, records, metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// buildRecords normalizes raw rows into immutable pool records. Rows with no
// usable text are kept with a placeholder so row indices stay aligned with
// the source dataset.
func buildRecords(rows []matching.DatasetRow) []matching.CandidateRecord {
	records := make([]matching.CandidateRecord, 0, len(rows))
	for i, row := range rows {
		text := CleanText(row.ResumeText)
		if text == "" {
			text = "no content"
		}
		id := row.ID
		if id == "" {
			id = fmt.Sprintf("CAND-%04d", i)
		}
		records = append(records, matching.CandidateRecord{
			ID:              kernel.NewCandidateID(id),
			Domain:          row.Domain,
			Role:            row.Role,
			SeniorityLevel:  row.SeniorityLevel,
			ExperienceYears: CoerceExperience(row.ExperienceYears),
			EducationLevel:  row.EducationLevel,
			Skills:          NormalizeSkills(row.Skills),
			ResumeText:      text,
		})
	}
	return records
}

// split returns a seeded shuffled train/test index partition
func split(n int) (train, test []int) {
	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)
	cut := int(float64(n) * (1 - testShare))
	if cut < 1 {
		cut = n // too few rows to hold anything out
	}
	return perm[:cut], perm[cut:]
}

func gatherRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func gatherLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

// evaluate computes accuracy over the held-out indices, falling back to the
// full set when nothing was held out.
func evaluate(model *forest.Model, X [][]float64, y []int, testIdx []int) float64 {
	if len(testIdx) == 0 {
		testIdx = make([]int, len(y))
		for i := range testIdx {
			testIdx[i] = i
		}
	}
	correct := 0
	for _, i := range testIdx {
		predicted := 0
		if model.PredictProba(X[i]) > 0.5 {
			predicted = 1
		}
		if predicted == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(testIdx))
}

func (p *Pipeline) persist(
	ctx context.Context,
	lexModel *lexical.Model,
	classifier *forest.Model,
	clusters *kmeans.Model,
	records []matching.CandidateRecord,
	metrics *matching.TrainingMetrics,
) error {
	vectorizer := struct {
		Vocabulary map[string]int `json:"vocabulary"`
		IDF        []float64      `json:"idf"`
	}{Vocabulary: lexModel.Vocabulary, IDF: lexModel.IDF}

	artifacts := []struct {
		name  string
		value any
	}{
		{matching.ArtifactLexicalModel, vectorizer},
		{matching.ArtifactCorpusMatrix, lexModel.Rows},
		{matching.ArtifactClassifier, classifier},
		{matching.ArtifactScaler, classifier.Scaler},
		{matching.ArtifactClusterModel, clusters},
		{matching.ArtifactLookup, records},
		{matching.ArtifactMetrics, metrics},
	}
	for _, artifact := range artifacts {
		data, err := json.Marshal(artifact.value)
		if err != nil {
			return matching.ErrPersistFailed(err)
		}
		if err := p.store.Write(ctx, artifact.name, data); err != nil {
			return matching.ErrPersistFailed(err)
		}
		logx.Infof("wrote artifact %s (%d bytes)", artifact.name, len(data))
	}
	return nil
}
