package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrCourseNotFound, "course not found: c-9")

	assert.Equal(t, "course not found: c-9", clone.Message)
	assert.Equal(t, http.StatusNotFound, clone.Status)
	assert.True(t, errors.Is(clone, ErrCourseNotFound))
	assert.False(t, errors.Is(clone, ErrAssignmentNotFound))
	assert.Equal(t, "course not found", ErrCourseNotFound.Message, "sentinel untouched")
	assert.Nil(t, Clone(nil, "x"))
}

func TestWrapAsKeepsCause(t *testing.T) {
	err := WrapAs(ErrPersistence, fmt.Errorf("update course: %w", sql.ErrConnDone), "")

	assert.Equal(t, ErrPersistence.Message, err.Message)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "persistence failure: update course")
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := Clone(ErrConflict, "course already exists")
	assert.Same(t, typed, FromError(fmt.Errorf("create: %w", typed)))

	plain := FromError(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}

func TestNilReceiver(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.Nil(t, e.Unwrap())
}
