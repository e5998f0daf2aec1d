package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmitFeedbackValidation(t *testing.T) {
	h := newVaultHandler(t)

	tests := []struct {
		name     string
		body     string
		expected int
		code     string
	}{
		{name: "missing target", body: `{"raterEmail":"tom.tenant@gmail.com"}`, expected: http.StatusBadRequest},
		{name: "not json", body: `x`, expected: http.StatusBadRequest},
		{name: "unknown rater", body: `{"raterEmail":"ghost@example.com","targetAddress":"0xabc","score":80}`, expected: http.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.SubmitFeedback(rec, httptest.NewRequest(http.MethodPost, "/reputation/feedback", strings.NewReader(tt.body)))
			assert.Equal(t, tt.expected, rec.Code)
			if tt.code != "" {
				assert.Contains(t, rec.Body.String(), tt.code)
			}
		})
	}
}

func TestHasRatedRequiresBothAddresses(t *testing.T) {
	h := newVaultHandler(t)
	rec := httptest.NewRecorder()
	h.HasRated(rec, httptest.NewRequest(http.MethodGet, "/reputation/has-rated?auditor=0xabc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
