package matchingsrv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResume = `Jane Smith
Backend Engineer

Contact: jane.smith@example.com | +1-555-123-4567

Experienced in Java, Spring Boot and PostgreSQL. Deployed services
with Docker and Kubernetes on AWS.`

func TestExtractProfile(t *testing.T) {
	profile := ExtractProfile(sampleResume)

	assert.Equal(t, "Jane Smith", profile.Name)
	assert.Equal(t, "jane.smith@example.com", profile.Email)
	assert.Equal(t, "+1-555-123-4567", profile.Phone)
	assert.Equal(t, []string{"AWS", "Docker", "Java", "Kubernetes", "PostgreSQL", "Spring Boot"}, profile.Skills)
	assert.Equal(t, sampleResume, profile.Text)
}

func TestExtractProfileSentinels(t *testing.T) {
	profile := ExtractProfile("")

	assert.Equal(t, "Unknown Candidate", profile.Name)
	assert.Equal(t, "Not Found", profile.Email)
	assert.Equal(t, "Not Found", profile.Phone)
	assert.Empty(t, profile.Skills)
	assert.Empty(t, profile.RawTextPreview)
}

func TestExtractProfileNameSkipsBlankLines(t *testing.T) {
	profile := ExtractProfile("\n\n  \nJohn Doe\nDeveloper")
	assert.Equal(t, "John Doe", profile.Name)
}

func TestExtractProfilePreviewCapped(t *testing.T) {
	long := strings.Repeat("x", 1200)
	profile := ExtractProfile(long)

	assert.Len(t, []rune(profile.RawTextPreview), 500)
	assert.Equal(t, long, profile.Text)
}

func TestExtractSkillsWholeWordMatching(t *testing.T) {
	// "JavaScript" must not also count as "Java"
	skills := ExtractSkills("Senior JavaScript developer")
	assert.Equal(t, []string{"JavaScript"}, skills)

	skills = ExtractSkills("Java and javascript, plus docker")
	assert.Equal(t, []string{"Docker", "Java", "JavaScript"}, skills)
}

func TestExtractSkillsCaseInsensitive(t *testing.T) {
	skills := ExtractSkills("worked with PYTHON, machine learning and nlp")
	assert.Equal(t, []string{"Machine Learning", "NLP", "Python"}, skills)
}
