package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/pkg/config"
)

type documentStore interface {
	Read(filename string) ([]byte, error)
	Write(filename string, data []byte) error
	Path(filename string) string
}

type fileDocument struct {
	Courses []models.Course `json:"courses"`
}

// FileCourseRepository keeps the whole course graph in memory and rewrites a
// single JSON document after every mutation. Lookups never touch disk.
type FileCourseRepository struct {
	store    documentStore
	filename string
	logger   *zap.Logger

	mu      sync.RWMutex
	courses []models.Course
}

// NewFileCourseRepository constructs the repository. Call Load before use.
func NewFileCourseRepository(store documentStore, filename string, logger *zap.Logger) *FileCourseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCourseRepository{
		store:    store,
		filename: filename,
		logger:   logger,
		courses:  []models.Course{},
	}
}

// Backend identifies the storage kind.
func (r *FileCourseRepository) Backend() string {
	return config.BackendFile
}

// Load replaces the in-memory state with the document on disk. A missing,
// unreadable or corrupt document leaves the store empty and is only logged.
func (r *FileCourseRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courses = []models.Course{}
	data, err := r.store.Read(r.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Info("data file not found, starting empty", zap.String("path", r.store.Path(r.filename)))
			return nil
		}
		r.logger.Error("failed to read data file, starting empty", zap.String("path", r.store.Path(r.filename)), zap.Error(err))
		return nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		r.logger.Error("failed to decode data file, starting empty", zap.String("path", r.store.Path(r.filename)), zap.Error(err))
		return nil
	}
	for _, course := range doc.Courses {
		r.courses = append(r.courses, normalizeCourse(course))
	}
	r.logger.Info("data file loaded", zap.Int("courses", len(r.courses)))
	return nil
}

// Save flushes the current in-memory state to disk.
func (r *FileCourseRepository) Save(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.write(r.courses)
}

// GetAllCourses returns deep copies in stored order.
func (r *FileCourseRepository) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Course, len(r.courses))
	for i, course := range r.courses {
		result[i] = course.Clone()
	}
	return result, nil
}

// GetCourseByID returns a copy of the course or nil when absent.
func (r *FileCourseRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexOf(id); idx >= 0 {
		course := r.courses[idx].Clone()
		return &course, nil
	}
	return nil, nil
}

// AddCourse appends the course with its assignments.
func (r *FileCourseRepository) AddCourse(ctx context.Context, course models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(course.ID) >= 0 {
		return fmt.Errorf("add course %s: %w", course.ID, ErrDuplicateCourse)
	}
	if err := r.checkAssignmentIDs(course, -1); err != nil {
		return fmt.Errorf("add course %s: %w", course.ID, err)
	}
	next := make([]models.Course, 0, len(r.courses)+1)
	next = append(next, r.courses...)
	next = append(next, normalizeCourse(course.Clone()))
	return r.commit(next, "add course")
}

// UpdateCourse replaces the stored course in place, assignments included.
func (r *FileCourseRepository) UpdateCourse(ctx context.Context, course models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(course.ID)
	if idx < 0 {
		return fmt.Errorf("update course %s: %w", course.ID, sql.ErrNoRows)
	}
	if err := r.checkAssignmentIDs(course, idx); err != nil {
		return fmt.Errorf("update course %s: %w", course.ID, err)
	}
	next := make([]models.Course, len(r.courses))
	copy(next, r.courses)
	next[idx] = normalizeCourse(course.Clone())
	return r.commit(next, "update course")
}

// DeleteCourse removes the course and its assignments. Unknown ids are ignored.
func (r *FileCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	next := make([]models.Course, 0, len(r.courses)-1)
	next = append(next, r.courses[:idx]...)
	next = append(next, r.courses[idx+1:]...)
	return r.commit(next, "delete course")
}

// commit persists next and only then makes it the in-memory state, so a failed
// write leaves memory and disk in agreement.
func (r *FileCourseRepository) commit(next []models.Course, op string) error {
	if err := r.write(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.courses = next
	return nil
}

func (r *FileCourseRepository) write(courses []models.Course) error {
	data, err := json.MarshalIndent(fileDocument{Courses: courses}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	if err := r.store.Write(r.filename, data); err != nil {
		r.logger.Error("failed to save data file", zap.String("path", r.store.Path(r.filename)), zap.Error(err))
		return err
	}
	return nil
}

func (r *FileCourseRepository) indexOf(id string) int {
	for i := range r.courses {
		if r.courses[i].ID == id {
			return i
		}
	}
	return -1
}

// checkAssignmentIDs rejects a course whose assignment ids repeat or are owned
// by another stored course. skip is the index of the course being replaced.
func (r *FileCourseRepository) checkAssignmentIDs(course models.Course, skip int) error {
	seen := make(map[string]struct{}, len(course.Assignments))
	for _, a := range course.Assignments {
		if a.ID == "" {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("assignment %s: %w", a.ID, ErrDuplicateAssignment)
		}
		seen[a.ID] = struct{}{}
	}
	for i := range r.courses {
		if i == skip {
			continue
		}
		for _, a := range r.courses[i].Assignments {
			if _, dup := seen[a.ID]; dup {
				return fmt.Errorf("assignment %s owned by course %s: %w", a.ID, r.courses[i].ID, ErrDuplicateAssignment)
			}
		}
	}
	return nil
}

func normalizeCourse(course models.Course) models.Course {
	if course.Assignments == nil {
		course.Assignments = []models.Assignment{}
	}
	for i := range course.Assignments {
		course.Assignments[i] = course.Assignments[i].Normalized()
		course.Assignments[i].CourseID = course.ID
	}
	return course
}
