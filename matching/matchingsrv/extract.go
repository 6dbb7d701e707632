package matchingsrv

import (
	"regexp"
	"sort"
	"strings"

	"github.com/talentforge/matchengine/matching"
)

const (
	contactNotFound      = "Not Found"
	unknownCandidateName = "Unknown Candidate"
	previewRunes         = 500
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[-.]?)?\(?\d{3}\)?[-.]?\d{3}[-.]?\d{4}`)
)

// skillVocabulary is the fixed, hand-maintained list of recognizable skill
// tags. Detection is case-insensitive whole-word matching, not NER.
var skillVocabulary = []string{
	"Java", "Python", "C++", "JavaScript", "React", "Angular", "Vue",
	"Spring Boot", "Node.js", "Django", "Flask", "SQL", "NoSQL",
	"MongoDB", "PostgreSQL", "AWS", "Azure", "Docker", "Kubernetes",
	"Git", "Rest API", "GraphQL", "HTML", "CSS", "TypeScript",
	"Machine Learning", "Data Science", "BERT", "Transformers", "NLP",
}

var skillPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(skillVocabulary))
	for _, skill := range skillVocabulary {
		patterns[skill] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(skill)) + `\b`)
	}
	return patterns
}()

// ExtractProfile turns raw resume text into a structured profile. It is
// deterministic and stateless: contact fields use first-match regex search
// with a "Not Found" sentinel (absence is routine, not an error), the name is
// a first-non-blank-line heuristic, and skills come from the fixed
// vocabulary.
func ExtractProfile(raw string) matching.ExtractedProfile {
	profile := matching.ExtractedProfile{
		Name:           unknownCandidateName,
		Email:          contactNotFound,
		Phone:          contactNotFound,
		Skills:         ExtractSkills(raw),
		Text:           raw,
		RawTextPreview: preview(raw),
	}

	if match := emailPattern.FindString(raw); match != "" {
		profile.Email = match
	}
	if match := phonePattern.FindString(raw); match != "" {
		profile.Phone = match
	}
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			profile.Name = trimmed
			break
		}
	}
	return profile
}

// ExtractSkills returns the deduplicated vocabulary skills found in text,
// sorted for stable output.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, 8)
	for _, skill := range skillVocabulary {
		if skillPatterns[skill].MatchString(lower) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes])
}
