package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS courses (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    code VARCHAR(64),
    description TEXT,
    professor VARCHAR(255),
    semester_season VARCHAR(16),
    semester_year INTEGER,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS assignments (
    id VARCHAR(64) PRIMARY KEY,
    course_id VARCHAR(64) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    due_date TIMESTAMPTZ NOT NULL,
    submission_deadline TIMESTAMPTZ,
    status VARCHAR(32) NOT NULL DEFAULT 'NOT_STARTED',
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_semester ON courses (semester_season, semester_year)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_code ON courses (code)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_name ON courses (name)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_course ON assignments (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_due_date ON assignments (due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_status ON assignments (status)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_course_status ON assignments (course_id, status)`,
}

// EnsureSchema creates the course and assignment tables and their indexes when
// absent. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db sqlx.ExecerContext) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
