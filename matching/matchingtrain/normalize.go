package matchingtrain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailLike     = regexp.MustCompile(`\S+@\S+`)
	nonLetters    = regexp.MustCompile(`[^a-zA-Z\s]`)
	multiSpace    = regexp.MustCompile(`\s+`)
	maxExperience = 50
)

// CleanText normalizes resume text for vectorization: strips email
// addresses, drops everything but letters, lowercases and collapses
// whitespace.
func CleanText(text string) string {
	text = emailLike.ReplaceAllString(text, "")
	text = nonLetters.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

// NormalizeSkills standardizes the skills column from its noisy source
// formats: JSON/literal list syntax ("['Java', 'Python']"), a delimited
// string, or a single value. The result is trimmed and deduplicated, and
// the function is idempotent over a re-joined result.
func NormalizeSkills(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var parsed []string
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return dedupeSkills(parsed)
		}
		// literal list syntax with single quotes
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
		return dedupeSkills(strings.Split(inner, ","))
	}

	for _, delimiter := range []string{",", ";", "|"} {
		if strings.Contains(trimmed, delimiter) {
			return dedupeSkills(strings.Split(trimmed, delimiter))
		}
	}
	return dedupeSkills([]string{trimmed})
}

func dedupeSkills(parts []string) []string {
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		skill := strings.Trim(strings.TrimSpace(part), `'"`)
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// CoerceExperience parses the raw years-of-experience column, defaulting
// invalid values to 0 and clamping to a realistic range.
func CoerceExperience(raw string) int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 {
		return 0
	}
	years := int(value)
	if years > maxExperience {
		return maxExperience
	}
	return years
}
