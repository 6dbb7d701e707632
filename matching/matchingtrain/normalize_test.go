package matchingtrain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	raw := "Contact John.Doe@example.com!  10+ years of C++ & Python,\n\tDocker/K8s."
	assert.Equal(t, "contact years of c python docker k s", CleanText(raw))
}

func TestCleanTextEmpty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\t  "))
	assert.Equal(t, "", CleanText("123 456"))
}

func TestNormalizeSkillsFormats(t *testing.T) {
	cases := map[string][]string{
		`["Java","Python"]`:      {"Java", "Python"},
		`['Java', 'Python']`:     {"Java", "Python"},
		"Java, Python, Docker":   {"Java", "Python", "Docker"},
		"Java; Python":           {"Java", "Python"},
		"Java|Python":            {"Java", "Python"},
		"Java":                   {"Java"},
		"":                       {},
		"   ":                    {},
		"Java, java, JAVA":       {"Java"},
		`["Go", "", "  ", "Go"]`: {"Go"},
	}
	for raw, expected := range cases {
		assert.Equal(t, expected, NormalizeSkills(raw), "input %q", raw)
	}
}

func TestNormalizeSkillsIdempotent(t *testing.T) {
	inputs := []string{
		`['Python', 'Flask', 'Docker']`,
		"Java; Spring Boot; SQL",
		"Go",
	}
	for _, raw := range inputs {
		once := NormalizeSkills(raw)
		again := NormalizeSkills(strings.Join(once, ", "))
		assert.Equal(t, once, again, "input %q", raw)
	}
}

func TestCoerceExperience(t *testing.T) {
	assert.Equal(t, 7, CoerceExperience("7"))
	assert.Equal(t, 7, CoerceExperience(" 7.5 "))
	assert.Equal(t, 0, CoerceExperience(""))
	assert.Equal(t, 0, CoerceExperience("unknown"))
	assert.Equal(t, 0, CoerceExperience("-2"))
	assert.Equal(t, 50, CoerceExperience("120"))
}
