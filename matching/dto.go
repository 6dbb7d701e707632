package matching

import (
	"encoding/json"
	"strings"

	"github.com/talentforge/matchengine/pkg/kernel"
)

// ============================================================================
// Request DTOs
// ============================================================================

// ResumeInput is a tagged variant: callers may send either a raw text string
// or a structured profile object. NormalizeText produces plain text for both.
type ResumeInput struct {
	Raw     string
	Profile *StructuredProfile
}

// StructuredProfile is the object form of a resume input
type StructuredProfile struct {
	Text       string   `json:"text"`
	Role       string   `json:"role,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience int      `json:"experience,omitempty"`
	Education  string   `json:"education,omitempty"`
}

// UnmarshalJSON accepts a JSON string or a profile object
func (r *ResumeInput) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		r.Raw = raw
		r.Profile = nil
		return nil
	}
	var profile StructuredProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return err
	}
	r.Raw = ""
	r.Profile = &profile
	return nil
}

// MarshalJSON emits the same shape the input carried
func (r ResumeInput) MarshalJSON() ([]byte, error) {
	if r.Profile != nil {
		return json.Marshal(r.Profile)
	}
	return json.Marshal(r.Raw)
}

// NormalizeText flattens either variant into the plain text used for scoring.
// Structured profiles without body text fall back to role + skill tags so a
// sparse profile still scores above zero.
func (r ResumeInput) NormalizeText() string {
	if r.Profile == nil {
		return r.Raw
	}
	if strings.TrimSpace(r.Profile.Text) != "" {
		return r.Profile.Text
	}
	parts := make([]string, 0, 1+len(r.Profile.Skills))
	if r.Profile.Role != "" {
		parts = append(parts, r.Profile.Role)
	}
	parts = append(parts, r.Profile.Skills...)
	return strings.Join(parts, " ")
}

// SkillTags returns the explicit skill tags of a structured profile, if any
func (r ResumeInput) SkillTags() []string {
	if r.Profile == nil {
		return nil
	}
	return r.Profile.Skills
}

// MatchRequest - lexical or semantic job-vs-resumes matching
type MatchRequest struct {
	JobDescription string        `json:"jobDescription"`
	Resumes        []ResumeInput `json:"resumes"`
}

// FitFeatures are the engineered inputs of the fit classifier
type FitFeatures struct {
	SkillsCount int    `json:"skillsCount"`
	Experience  int    `json:"experience"`
	Education   string `json:"education"`
}

// Vector returns the raw feature vector in training order
func (f FitFeatures) Vector() []float64 {
	return []float64{
		float64(f.SkillsCount),
		float64(f.Experience),
		float64(ParseEducationTier(f.Education)),
	}
}

// PredictFitRequest - supervised fit prediction
type PredictFitRequest struct {
	Features FitFeatures `json:"features"`
}

// SearchPoolRequest - top-K search over the persisted talent pool
type SearchPoolRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// ScreenRequest - per-candidate screening against job requirements
type ScreenRequest struct {
	JobRequirements string                 `json:"jobRequirements"`
	Candidates      map[string]ResumeInput `json:"candidates"`
}

// ============================================================================
// Response DTOs (wire names are a client compatibility contract)
// ============================================================================

// MatchEntry is one ranked candidate in a match response
type MatchEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// MatchResponse - ranked matches, descending by score
type MatchResponse struct {
	Matches []MatchEntry `json:"matches"`
	Method  string       `json:"method"`
	Mode    string       `json:"mode"`
}

// PredictFitResponse - fit probability and business recommendation
type PredictFitResponse struct {
	FitLikelihood  float64 `json:"fitLikelihood"`
	Recommendation string  `json:"recommendation"`
}

// ClusterResponse - talent pool segments, cluster id to member candidate ids
type ClusterResponse struct {
	Clusters      map[kernel.ClusterID][]string `json:"clusters"`
	TotalClusters int                           `json:"totalClusters"`
}

// SearchResult is one enriched talent-pool hit
type SearchResult struct {
	ID           string   `json:"id"`
	Role         string   `json:"role"`
	Domain       string   `json:"domain"`
	Experience   int      `json:"experience"`
	Education    string   `json:"education"`
	MatchScore   float64  `json:"matchScore"`
	Preview      string   `json:"preview"`
	MatchedTerms []string `json:"matchedTerms"`
	Skills       []string `json:"skills"`
}

// SearchPoolResponse - top-K pool search results
type SearchPoolResponse struct {
	Results       []SearchResult `json:"results"`
	TotalPoolSize int            `json:"totalPoolSize"`
	Mode          string         `json:"mode"`
	Status        string         `json:"status"`
}

// ScreenResult is the screening outcome for one candidate
type ScreenResult struct {
	MatchScore       float64  `json:"matchScore"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	CulturalFitScore float64  `json:"culturalFitScore"`
}

// ParseResponse - extracted profile of an uploaded resume
type ParseResponse struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Skills           []string `json:"skills"`
	Text             string   `json:"text"`
	RawTextPreview   string   `json:"rawTextPreview"`
	ParsedAt         string   `json:"parsedAt"`
	OriginalFilename string   `json:"originalFilename"`
	FileSize         int64    `json:"fileSize"`
	Status           string   `json:"status"`
}

// SkillCount is one entry of the trending-skills insight
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// InsightsResponse - aggregate reporting over the talent pool
type InsightsResponse struct {
	TalentPoolSize            int                `json:"talentPoolSize"`
	DomainDistribution        map[string]int     `json:"domainDistribution"`
	SeniorityMix              map[string]int     `json:"seniorityMix"`
	AverageExperienceByDomain map[string]float64 `json:"averageExperienceByDomain"`
	TopTrendingSkills         []SkillCount       `json:"topTrendingSkills"`
	MatchingAccuracy          float64            `json:"matchingAccuracy"`
	LastTrainingDate          string             `json:"lastTrainingDate"`
}

// HealthResponse - service and per-model readiness
type HealthResponse struct {
	Status       string          `json:"status"`
	Timestamp    string          `json:"timestamp"`
	ModelsLoaded map[string]bool `json:"modelsLoaded"`
}
