package matchingsrv

import (
	"context"
	"sort"
	"strings"

	"github.com/talentforge/matchengine/internal/ml/lexical"
	"github.com/talentforge/matchengine/matching"
)

const (
	defaultTopK     = 10
	maxMatchedTerms = 5
	maxResultSkills = 5
	previewChars    = 200
)

// SearchPool ranks the persisted talent pool against a free-text query using
// the corpus-wide lexical model (pooled mode, never a transient fit), so
// scores are consistent across requests and against the whole pool.
func (e *Engine) SearchPool(ctx context.Context, req matching.SearchPoolRequest) (*matching.SearchPoolResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, matching.ErrInvalidRequest().WithDetail("query", "missing or empty")
	}
	if !e.registry.Ready(matching.ModelLexical) {
		return nil, matching.ErrModelUnavailable(matching.ModelLexical)
	}

	snap := e.registry.Snapshot()
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	// out-of-vocabulary query terms simply contribute zero weight
	queryVec := snap.Lexical.Vectorize(req.Query)

	type scored struct {
		row   int
		score float64
	}
	ranked := make([]scored, len(snap.Lexical.Rows))
	for row, vec := range snap.Lexical.Rows {
		ranked[row] = scored{row: row, score: lexical.Cosine(queryVec, vec)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	queryTokens := tokenSet(req.Query)
	results := make([]matching.SearchResult, 0, len(ranked))
	for _, hit := range ranked {
		record := snap.Records[hit.row]
		results = append(results, matching.SearchResult{
			ID:           record.ID.String(),
			Role:         record.Role,
			Domain:       record.Domain,
			Experience:   record.ExperienceYears,
			Education:    record.EducationLevel,
			MatchScore:   round(hit.score*100, 1),
			Preview:      previewText(record.ResumeText),
			MatchedTerms: matchedTerms(queryTokens, record.ResumeText),
			Skills:       headSkills(record.Skills),
		})
	}

	return &matching.SearchPoolResponse{
		Results:       results,
		TotalPoolSize: len(snap.Records),
		Mode:          matching.ModePooled,
		Status:        "success",
	}, nil
}

func tokenSet(text string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// matchedTerms is the sorted intersection of query tokens and candidate text
// tokens, capped for response size.
func matchedTerms(queryTokens map[string]struct{}, candidateText string) []string {
	matched := make([]string, 0, maxMatchedTerms)
	for token := range tokenSet(candidateText) {
		if _, ok := queryTokens[token]; ok {
			matched = append(matched, token)
		}
	}
	sort.Strings(matched)
	if len(matched) > maxMatchedTerms {
		matched = matched[:maxMatchedTerms]
	}
	return matched
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars]) + "..."
}

func headSkills(skills []string) []string {
	if len(skills) <= maxResultSkills {
		return skills
	}
	return skills[:maxResultSkills]
}
