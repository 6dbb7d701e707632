package matchinginfra

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/talentforge/matchengine/matching"
)

// CSVLoader reads the training dataset from a local CSV file. The header row
// names the columns; unknown columns are ignored and missing ones load as
// empty strings so the pipeline's normalization can default them.
type CSVLoader struct {
	path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

func (l *CSVLoader) Load(_ context.Context) ([]matching.DatasetRow, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", l.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset rows: %w", err)
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]matching.DatasetRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, matching.DatasetRow{
			ID:              field(record, "id"),
			ResumeText:      field(record, "resume_text"),
			Domain:          field(record, "domain"),
			Role:            field(record, "role"),
			SeniorityLevel:  field(record, "seniority_level"),
			ExperienceYears: field(record, "total_experience_years"),
			EducationLevel:  field(record, "education_level"),
			Skills:          field(record, "skills"),
		})
	}
	return rows, nil
}
