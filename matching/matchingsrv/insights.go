package matchingsrv

import (
	"context"
	"sort"

	"github.com/talentforge/matchengine/matching"
)

const maxTrendingSkills = 10

// Insights aggregates the talent pool snapshot for the reporting surface:
// domain and seniority distributions, experience averages, trending skills
// and the latest training-run metrics.
func (e *Engine) Insights(ctx context.Context) (*matching.InsightsResponse, error) {
	snap := e.registry.Snapshot()
	if len(snap.Records) == 0 {
		return nil, matching.ErrPoolUnavailable()
	}

	domains := make(map[string]int)
	seniority := make(map[string]int)
	expSum := make(map[string]int)
	skillCounts := make(map[string]int)

	for _, record := range snap.Records {
		domains[record.Domain]++
		seniority[record.SeniorityLevel]++
		expSum[record.Domain] += record.ExperienceYears
		for _, skill := range record.Skills {
			skillCounts[skill]++
		}
	}

	avgExp := make(map[string]float64, len(domains))
	for domain, count := range domains {
		avgExp[domain] = round(float64(expSum[domain])/float64(count), 1)
	}

	trending := make([]matching.SkillCount, 0, len(skillCounts))
	for skill, count := range skillCounts {
		trending = append(trending, matching.SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].Skill < trending[j].Skill
	})
	if len(trending) > maxTrendingSkills {
		trending = trending[:maxTrendingSkills]
	}

	resp := &matching.InsightsResponse{
		TalentPoolSize:            len(snap.Records),
		DomainDistribution:        domains,
		SeniorityMix:              seniority,
		AverageExperienceByDomain: avgExp,
		TopTrendingSkills:         trending,
	}
	if snap.Metrics != nil {
		resp.MatchingAccuracy = snap.Metrics.Accuracy
		resp.LastTrainingDate = snap.Metrics.LastTrainingDate
	}
	return resp, nil
}
