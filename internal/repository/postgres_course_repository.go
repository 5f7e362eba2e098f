package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/pkg/config"
	appErrors "github.com/noah-isme/course-scheduler/pkg/errors"
)

const uniqueViolation = "23505"

const (
	selectCoursesQuery = `SELECT id, name, code, description, professor, semester_season, semester_year
FROM courses ORDER BY semester_year DESC, semester_season`
	selectCourseByIDQuery = `SELECT id, name, code, description, professor, semester_season, semester_year
FROM courses WHERE id = $1`
	selectAssignmentsQuery = `SELECT id, course_id, title, description, due_date, submission_deadline, status, notes, created_at, updated_at
FROM assignments WHERE course_id = $1 ORDER BY due_date`
	insertCourseQuery = `INSERT INTO courses (id, name, code, description, professor, semester_season, semester_year, created_at, updated_at)
VALUES (:id, :name, :code, :description, :professor, :semester_season, :semester_year, :created_at, :updated_at)`
	updateCourseQuery = `UPDATE courses SET name = $1, code = $2, description = $3, professor = $4,
semester_season = $5, semester_year = $6, updated_at = $7 WHERE id = $8`
	deleteAssignmentsQuery = `DELETE FROM assignments WHERE course_id = $1`
	insertAssignmentQuery  = `INSERT INTO assignments (id, course_id, title, description, due_date, submission_deadline, status, notes, created_at, updated_at)
VALUES (:id, :course_id, :title, :description, :due_date, :submission_deadline, :status, :notes, :created_at, :updated_at)`
	deleteCourseQuery = `DELETE FROM courses WHERE id = $1`
)

type courseRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Code           sql.NullString `db:"code"`
	Description    sql.NullString `db:"description"`
	Professor      sql.NullString `db:"professor"`
	SemesterSeason sql.NullString `db:"semester_season"`
	SemesterYear   sql.NullInt64  `db:"semester_year"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type assignmentRow struct {
	ID                 string         `db:"id"`
	CourseID           string         `db:"course_id"`
	Title              string         `db:"title"`
	Description        sql.NullString `db:"description"`
	DueDate            time.Time      `db:"due_date"`
	SubmissionDeadline sql.NullTime   `db:"submission_deadline"`
	Status             string         `db:"status"`
	Notes              sql.NullString `db:"notes"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// PostgresCourseRepository maps course aggregates onto the courses and
// assignments tables. Every operation runs in its own transaction.
//
// Reads issue one assignment query per course (N+1), which is acceptable for a
// personal course list.
type PostgresCourseRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgresCourseRepository ensures the schema exists before returning. A
// schema failure is fatal: no repository is returned.
func NewPostgresCourseRepository(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (*PostgresCourseRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrSchema, err, "")
	}
	return &PostgresCourseRepository{db: db, logger: logger, now: func() time.Time { return models.StorageTime(time.Now()) }}, nil
}

// Backend identifies the storage kind.
func (r *PostgresCourseRepository) Backend() string {
	return config.BackendPostgres
}

// Load is a no-op; relational writes are durable per call.
func (r *PostgresCourseRepository) Load(ctx context.Context) error { return nil }

// Save is a no-op; relational writes are durable per call.
func (r *PostgresCourseRepository) Save(ctx context.Context) error { return nil }

// GetAllCourses returns every course ordered by year descending then season.
func (r *PostgresCourseRepository) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := r.withTx(ctx, "list courses", func(tx *sqlx.Tx) error {
		var rows []courseRow
		if err := tx.SelectContext(ctx, &rows, selectCoursesQuery); err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		courses = make([]models.Course, 0, len(rows))
		for _, row := range rows {
			course, err := r.hydrate(ctx, tx, row)
			if err != nil {
				return err
			}
			courses = append(courses, course)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourseByID returns nil when the id does not resolve.
func (r *PostgresCourseRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	var result *models.Course
	err := r.withTx(ctx, "get course", func(tx *sqlx.Tx) error {
		var row courseRow
		if err := tx.GetContext(ctx, &row, selectCourseByIDQuery, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("get course: %w", err)
		}
		course, err := r.hydrate(ctx, tx, row)
		if err != nil {
			return err
		}
		result = &course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddCourse inserts the course row and all of its assignments atomically.
func (r *PostgresCourseRepository) AddCourse(ctx context.Context, course models.Course) error {
	return r.withTx(ctx, "add course", func(tx *sqlx.Tx) error {
		now := r.now()
		row := toCourseRow(course)
		row.CreatedAt = now
		row.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertCourseQuery, row); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return fmt.Errorf("insert course %s: %w", course.ID, ErrDuplicateCourse)
			}
			return fmt.Errorf("insert course: %w", err)
		}
		return r.insertAssignments(ctx, tx, course.ID, course.Assignments, now)
	})
}

// UpdateCourse rewrites the course row, then deletes and reinserts its
// assignments so the stored set matches course.Assignments exactly. Assignment
// ids are preserved; only assignments without an id get a new one.
func (r *PostgresCourseRepository) UpdateCourse(ctx context.Context, course models.Course) error {
	return r.withTx(ctx, "update course", func(tx *sqlx.Tx) error {
		now := r.now()
		row := toCourseRow(course)
		result, err := tx.ExecContext(ctx, updateCourseQuery,
			row.Name, row.Code, row.Description, row.Professor, row.SemesterSeason, row.SemesterYear, now, row.ID)
		if err != nil {
			return fmt.Errorf("update course: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("course rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("update course %s: %w", course.ID, sql.ErrNoRows)
		}
		if _, err := tx.ExecContext(ctx, deleteAssignmentsQuery, course.ID); err != nil {
			return fmt.Errorf("clear course assignments: %w", err)
		}
		return r.insertAssignments(ctx, tx, course.ID, course.Assignments, now)
	})
}

// DeleteCourse removes the course; assignments go with it through the cascade.
func (r *PostgresCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	return r.withTx(ctx, "delete course", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteCourseQuery, id); err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		return nil
	})
}

// withTx runs fn in a transaction, rolling back on any failure before the
// error is returned and committing otherwise.
func (r *PostgresCourseRepository) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", op, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Error("rollback failed", zap.String("op", op), zap.Error(rbErr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", op, err)
	}
	return nil
}

func (r *PostgresCourseRepository) hydrate(ctx context.Context, tx *sqlx.Tx, row courseRow) (models.Course, error) {
	course := row.toModel()
	var rows []assignmentRow
	if err := tx.SelectContext(ctx, &rows, selectAssignmentsQuery, row.ID); err != nil {
		return models.Course{}, fmt.Errorf("list assignments for course %s: %w", row.ID, err)
	}
	course.Assignments = make([]models.Assignment, 0, len(rows))
	for _, a := range rows {
		course.Assignments = append(course.Assignments, a.toModel())
	}
	return course, nil
}

func (r *PostgresCourseRepository) insertAssignments(ctx context.Context, tx *sqlx.Tx, courseID string, assignments []models.Assignment, now time.Time) error {
	for _, assignment := range assignments {
		row := toAssignmentRow(courseID, assignment, now)
		if _, err := tx.NamedExecContext(ctx, insertAssignmentQuery, row); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return fmt.Errorf("insert assignment %s: %w", row.ID, ErrDuplicateAssignment)
			}
			return fmt.Errorf("insert assignment %s: %w", row.ID, err)
		}
	}
	return nil
}

func toCourseRow(c models.Course) courseRow {
	row := courseRow{
		ID:          c.ID,
		Name:        c.Name,
		Code:        nullString(c.Code),
		Description: nullString(c.Description),
		Professor:   nullString(c.Professor),
	}
	if !c.Semester.IsZero() {
		row.SemesterSeason = nullString(string(c.Semester.Season))
		row.SemesterYear = sql.NullInt64{Int64: int64(c.Semester.Year), Valid: true}
	}
	return row
}

func (row courseRow) toModel() models.Course {
	course := models.Course{
		ID:          row.ID,
		Name:        row.Name,
		Code:        row.Code.String,
		Description: row.Description.String,
		Professor:   row.Professor.String,
	}
	if row.SemesterSeason.Valid {
		course.Semester.Season = models.Season(row.SemesterSeason.String)
	}
	if row.SemesterYear.Valid {
		course.Semester.Year = int(row.SemesterYear.Int64)
	}
	return course
}

func toAssignmentRow(courseID string, a models.Assignment, now time.Time) assignmentRow {
	a = a.Normalized()
	now = models.StorageTime(now)
	row := assignmentRow{
		ID:          a.ID,
		CourseID:    courseID,
		Title:       a.Title,
		Description: nullString(a.Description),
		DueDate:     a.DueDate,
		Status:      string(a.Status),
		Notes:       nullString(a.Notes),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.Status == "" {
		row.Status = string(models.StatusNotStarted)
	}
	if a.SubmissionDeadline != nil {
		row.SubmissionDeadline = sql.NullTime{Time: *a.SubmissionDeadline, Valid: true}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	return row
}

func (row assignmentRow) toModel() models.Assignment {
	a := models.Assignment{
		ID:          row.ID,
		CourseID:    row.CourseID,
		Title:       row.Title,
		Description: row.Description.String,
		DueDate:     models.StorageTime(row.DueDate),
		Status:      models.AssignmentStatus(row.Status),
		Notes:       row.Notes.String,
		CreatedAt:   models.StorageTime(row.CreatedAt),
		UpdatedAt:   models.StorageTime(row.UpdatedAt),
	}
	if row.SubmissionDeadline.Valid {
		deadline := models.StorageTime(row.SubmissionDeadline.Time)
		a.SubmissionDeadline = &deadline
	}
	return a
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
