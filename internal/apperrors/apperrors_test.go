package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPError(t *testing.T) {
	status, body := ToHTTPError(NewNotFoundError("document"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"])
	assert.Equal(t, "document not found", body["message"])

	status, body = ToHTTPError(NewConflictError("station", "cannot delete station with active documents"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["error"])

	status, body = ToHTTPError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["message"])
}

func TestValidationErrorCarriesFields(t *testing.T) {
	err := NewValidationError("validation error",
		FieldError{Field: "name", Message: "failed on the 'min' rule"},
		FieldError{Field: "type", Message: "failed on the 'required' rule"},
	)

	status, body := ToHTTPError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	fields, ok := body["fields"].([]FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Field)
}

func TestInternalErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.Error())
}
