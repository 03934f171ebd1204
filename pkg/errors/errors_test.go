package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeReactionSchema, "missing required columns")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeReactionSchema, err.Code)
	assert.Equal(t, "[RXN_001] missing required columns", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestAppError_WithDetail(t *testing.T) {
	base := New(ErrCodeValidation, "table empty")
	detailed := base.WithDetail("source=yaml")

	assert.Equal(t, "[COMMON_008] table empty: source=yaml", detailed.Error())
	// The original is not mutated.
	assert.Empty(t, base.Detail)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "no-op"))

	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeDatabaseError, "load failed")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodeReactionTableEmpty, "empty table")
	err := Wrap(inner, CodeUnknown, "while building index")
	assert.Equal(t, ErrCodeReactionTableEmpty, err.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeReactionSchema, "missing column")
	wrapped := fmt.Errorf("loader: %w", inner)

	assert.True(t, IsCode(wrapped, ErrCodeReactionSchema))
	assert.False(t, IsCode(wrapped, ErrCodeNotFound))
	assert.False(t, IsCode(nil, ErrCodeNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsNotFound(New(ErrCodeReactionNotFound, "no such reaction")))
	assert.True(t, IsNotFound(New(ErrCodeDatasetNotFound, "no such dataset")))
	assert.False(t, IsNotFound(New(ErrCodeValidation, "bad")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeCacheError, GetCode(New(ErrCodeCacheError, "miss")))
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ErrCodeReactionSchema.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrCodeReactionUnknownMethod.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, ErrCodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("NOPE").HTTPStatus())
}

func TestConvenienceFactories(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NotFound("x").Code)
	assert.Equal(t, ErrCodeBadRequest, InvalidParam("x").Code)
	assert.Equal(t, ErrCodeValidation, Validation("x").Code)
	assert.Equal(t, ErrCodeInternal, Internal("x").Code)
	assert.Equal(t, ErrCodeConflict, Conflict("x").Code)
}
