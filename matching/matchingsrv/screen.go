package matchingsrv

import (
	"context"
	"sort"
	"strings"

	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/matching"
)

const (
	maxStrengths      = 3
	weakMatchFloor    = 0.5
	weakMatchFlag     = "Low overall match with role requirements"
	culturalFitBase   = 0.4
	culturalFitWeight = 0.6
)

// Screen scores every candidate against the job requirements. Semantic
// similarity is preferred; when the encoder is absent or the batch call
// fails, scoring falls back to lexical similarity over the candidates' skill
// tags. A candidate with empty text still gets a zero-scored entry rather
// than disappearing from the result.
func (e *Engine) Screen(ctx context.Context, req matching.ScreenRequest) (map[string]matching.ScreenResult, error) {
	if strings.TrimSpace(req.JobRequirements) == "" {
		return nil, matching.ErrInvalidRequest().WithDetail("jobRequirements", "missing or empty")
	}
	if len(req.Candidates) == 0 {
		return nil, matching.ErrInvalidRequest().WithDetail("candidates", "missing or empty")
	}

	// fixed iteration order so batch positions line up with ids
	ids := make([]string, 0, len(req.Candidates))
	for id := range req.Candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	scores := e.screenScores(ctx, req, ids)

	results := make(map[string]matching.ScreenResult, len(ids))
	for i, id := range ids {
		candidate := req.Candidates[id]
		score := clamp01(scores[i])

		weaknesses := []string{}
		if score < weakMatchFloor {
			weaknesses = append(weaknesses, weakMatchFlag)
		}

		results[id] = matching.ScreenResult{
			MatchScore: round(score, 4),
			Strengths:  topStrengths(req.JobRequirements, candidate),
			Weaknesses: weaknesses,
			// designed placeholder: a deterministic transform of the match
			// score, not an independently modeled quantity
			CulturalFitScore: round(clamp01(culturalFitBase+culturalFitWeight*score), 2),
		}
	}
	return results, nil
}

// screenScores returns one score per id, semantic when possible
func (e *Engine) screenScores(ctx context.Context, req matching.ScreenRequest, ids []string) []float64 {
	if e.registry.Ready(matching.ModelSemantic) {
		texts := make([]string, 0, len(ids)+1)
		texts = append(texts, req.JobRequirements)
		for _, id := range ids {
			texts = append(texts, req.Candidates[id].NormalizeText())
		}
		vectors, err := e.registry.Embedder().EmbedBatch(ctx, texts)
		if err == nil {
			scores := make([]float64, len(ids))
			for i := range ids {
				scores[i] = cosine32(vectors[0], vectors[i+1])
			}
			return scores
		}
		warnDegraded("screen", err)
	}

	// lexical fallback over skill-tag text only
	corpus := make([]string, 0, len(ids)+1)
	corpus = append(corpus, req.JobRequirements)
	for _, id := range ids {
		corpus = append(corpus, strings.Join(candidateSkills(req.Candidates[id]), " "))
	}
	model := lexical.Fit(corpus, lexical.DefaultOptions())

	scores := make([]float64, len(ids))
	for i := range ids {
		scores[i] = lexical.Cosine(model.Rows[0], model.Rows[i+1])
	}
	return scores
}

// candidateSkills returns the candidate's explicit skill tags, or tags
// detected in its text when none were provided.
func candidateSkills(candidate matching.ResumeInput) []string {
	if tags := candidate.SkillTags(); len(tags) > 0 {
		return tags
	}
	return ExtractSkills(candidate.NormalizeText())
}

// topStrengths returns up to three of the candidate's skill tags that the
// job requirements mention.
func topStrengths(jobRequirements string, candidate matching.ResumeInput) []string {
	jobLower := strings.ToLower(jobRequirements)
	strengths := []string{}
	for _, skill := range candidateSkills(candidate) {
		if strings.Contains(jobLower, strings.ToLower(skill)) {
			strengths = append(strengths, skill)
			if len(strengths) == maxStrengths {
				break
			}
		}
	}
	return strengths
}
