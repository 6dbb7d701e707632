package matchinginfra

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"github.com/talentforge/matchengine/matching"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresLoader reads the training dataset from a Postgres table with the
// same column layout as the CSV source.
type PostgresLoader struct {
	db    *sqlx.DB
	table string
}

func NewPostgresLoader(db *sqlx.DB, table string) (*PostgresLoader, error) {
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid dataset table name %q", table)
	}
	return &PostgresLoader{db: db, table: table}, nil
}

type datasetRowModel struct {
	ID              string `db:"id"`
	ResumeText      string `db:"resume_text"`
	Domain          string `db:"domain"`
	Role            string `db:"role"`
	SeniorityLevel  string `db:"seniority_level"`
	ExperienceYears string `db:"total_experience_years"`
	EducationLevel  string `db:"education_level"`
	Skills          string `db:"skills"`
}

func (l *PostgresLoader) Load(ctx context.Context) ([]matching.DatasetRow, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(id::text, '') AS id,
			COALESCE(resume_text, '') AS resume_text,
			COALESCE(domain, '') AS domain,
			COALESCE(role, '') AS role,
			COALESCE(seniority_level, '') AS seniority_level,
			COALESCE(total_experience_years::text, '') AS total_experience_years,
			COALESCE(education_level, '') AS education_level,
			COALESCE(skills, '') AS skills
		FROM %s
		ORDER BY id`, l.table)

	var models []datasetRowModel
	if err := l.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("query dataset table %s: %w", l.table, err)
	}

	rows := make([]matching.DatasetRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, matching.DatasetRow{
			ID:              m.ID,
			ResumeText:      m.ResumeText,
			Domain:          m.Domain,
			Role:            m.Role,
			SeniorityLevel:  m.SeniorityLevel,
			ExperienceYears: m.ExperienceYears,
			EducationLevel:  m.EducationLevel,
			Skills:          m.Skills,
		})
	}
	return rows, nil
}
