package matching

import (
	"strings"
	"time"

	"github.com/talentforge/matchengine/internal/ml/forest"
	"github.com/talentforge/matchengine/internal/ml/kmeans"
	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/pkg/kernel"
)

// EducationTier is the ordered education level used as a classifier feature
type EducationTier int

const (
	TierHighSchool EducationTier = iota
	TierBachelor
	TierMaster
	TierPhD
)

// ParseEducationTier maps the free-form education strings seen in datasets
// and requests onto the ordered tiers. Unknown values default to Bachelor.
func ParseEducationTier(level string) EducationTier {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch {
	case strings.HasPrefix(normalized, "high school"):
		return TierHighSchool
	case strings.HasPrefix(normalized, "bachelor"):
		return TierBachelor
	case strings.HasPrefix(normalized, "master"):
		return TierMaster
	case strings.HasPrefix(normalized, "phd"), strings.HasPrefix(normalized, "doctor"):
		return TierPhD
	default:
		return TierBachelor
	}
}

// CandidateRecord is one talent-pool entry. Records are created by the
// training pipeline and immutable once loaded into the serving snapshot;
// a training run replaces the whole set.
type CandidateRecord struct {
	ID               kernel.CandidateID `json:"id"`
	Domain           string             `json:"domain"`
	Role             string             `json:"role"`
	SeniorityLevel   string             `json:"seniority_level"`
	ExperienceYears  int                `json:"experience_years"`
	EducationLevel   string             `json:"education_level"`
	Skills           []string           `json:"skills"`
	ResumeText       string             `json:"resume_text"`
	BusinessFitScore float64            `json:"business_fit_score"`
}

// EducationTier returns the ordered tier for the record's education level
func (r *CandidateRecord) EducationTier() EducationTier {
	return ParseEducationTier(r.EducationLevel)
}

// FeatureVector returns the engineered classifier features in training order:
// [skillCount, experienceYears, educationTierOrdinal].
func (r *CandidateRecord) FeatureVector() []float64 {
	return []float64{
		float64(len(r.Skills)),
		float64(r.ExperienceYears),
		float64(r.EducationTier()),
	}
}

// Classifier business rule and threshold
const (
	// FitExperienceFloor and FitSkillFloor gate the experience branch of the
	// labeling rule; FitEducationFloor is the alternative education branch.
	FitExperienceFloor = 3
	FitSkillFloor      = 4
	FitEducationFloor  = TierMaster

	// HighFitThreshold is a fixed business threshold, not re-derived from data
	HighFitThreshold = 0.6

	RecommendationHigh = "High"
	RecommendationLow  = "Medium/Low"
)

// FitLabel derives the training label: good fit when the candidate has both
// seasoned experience and breadth of skills, or an advanced degree.
func FitLabel(experienceYears, skillCount int, tier EducationTier) int {
	if (experienceYears >= FitExperienceFloor && skillCount >= FitSkillFloor) || tier >= FitEducationFloor {
		return 1
	}
	return 0
}

// RecommendationFor maps a fit probability to the business recommendation
func RecommendationFor(probability float64) string {
	if probability > HighFitThreshold {
		return RecommendationHigh
	}
	return RecommendationLow
}

// ExtractedProfile is the stateless result of feature extraction over one
// uploaded document. Not persisted beyond the response.
type ExtractedProfile struct {
	Name           string
	Email          string
	Phone          string
	Skills         []string
	Text           string
	RawTextPreview string
}

// TrainingMetrics is produced once per training run
type TrainingMetrics struct {
	Accuracy         float64   `json:"accuracy"`
	LastTrainingDate string    `json:"last_training_date"`
	Records          int       `json:"records"`
	TrainedAt        time.Time `json:"trained_at"`
}

// Snapshot is the immutable artifact set a training run produces and the
// registry serves from. Any pointer may be nil: each model degrades
// independently.
type Snapshot struct {
	Version    kernel.ModelVersion
	Lexical    *lexical.Model // vocabulary + idf + fitted corpus matrix
	Classifier *forest.Model  // forest + embedded scaler
	Clusters   *kmeans.Model
	Records    []CandidateRecord
	Metrics    *TrainingMetrics
}

// ModelKind identifies one independently loadable model
type ModelKind string

const (
	ModelLexical    ModelKind = "lexical"
	ModelSemantic   ModelKind = "semantic"
	ModelClassifier ModelKind = "classifier"
	ModelCluster    ModelKind = "cluster"
)

// ModelState is the per-model readiness state. There is no combined
// all-or-nothing gate: each operation checks only the models it needs.
type ModelState string

const (
	StateUninitialized ModelState = "UNINITIALIZED"
	StateLoading       ModelState = "LOADING"
	StateReady         ModelState = "READY"
)

// Scoring mode names reported to callers (transient vs pooled lexical fit)
const (
	ModeTransient = "transient"
	ModePooled    = "pooled"
)

// Artifact names in the persisted store; each is independently loadable.
const (
	ArtifactLexicalModel = "lexical_model.json"
	ArtifactCorpusMatrix = "corpus_matrix.json"
	ArtifactClassifier   = "classifier.json"
	ArtifactScaler       = "scaler.json"
	ArtifactClusterModel = "cluster_model.json"
	ArtifactLookup       = "dataset_lookup.json"
	ArtifactMetrics      = "metrics.json"
)
