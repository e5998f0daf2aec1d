package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferValidation(t *testing.T) {
	h := newVaultHandler(t)

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "missing fields", body: `{"to":"0xabc"}`, expected: http.StatusBadRequest},
		{name: "not json", body: `hello`, expected: http.StatusBadRequest},
		{name: "unknown sender", body: `{"fromEmail":"ghost@example.com","to":"0xabc","amount":"1"}`, expected: http.StatusNotFound},
		{name: "unknown asset", body: `{"fromEmail":"tom.tenant@gmail.com","to":"0xabc","amount":"1","asset":"doge"}`, expected: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Transfer(rec, httptest.NewRequest(http.MethodPost, "/transfers", strings.NewReader(tt.body)))
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
