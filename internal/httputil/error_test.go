package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponses(t *testing.T) {
	testCases := []struct {
		name     string
		write    func(w http.ResponseWriter)
		status   int
		contains string
	}{
		{
			name:     "bad request shows message",
			write:    func(w http.ResponseWriter) { BadRequest(w, "at least 2 teams required", nil) },
			status:   http.StatusBadRequest,
			contains: "at least 2 teams required",
		},
		{
			name:     "not found shows message",
			write:    func(w http.ResponseWriter) { NotFound(w, "Tournament not found", errors.New("no rows")) },
			status:   http.StatusNotFound,
			contains: "Tournament not found",
		},
		{
			name:     "forbidden shows message",
			write:    func(w http.ResponseWriter) { Forbidden(w, "Not your tournament", errors.New("owner mismatch")) },
			status:   http.StatusForbidden,
			contains: "Not your tournament",
		},
		{
			name:     "internal error hides cause",
			write:    func(w http.ResponseWriter) { InternalServerError(w, "boom", errors.New("disk on fire")) },
			status:   http.StatusInternalServerError,
			contains: "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.contains)
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"points": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"points":3}`, rec.Body.String())
}
