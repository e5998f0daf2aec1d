package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageRejectsEmptyText(t *testing.T) {
	h := &Handler{}
	for _, body := range []string{`{}`, `{"text":"  "}`, `not json`} {
		rec := httptest.NewRecorder()
		h.SendMessage(rec, httptest.NewRequest(http.MethodPost, "/chat/messages", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestSendMessageRentalShortCircuit(t *testing.T) {
	// The rental prompt never reaches any model backend, so a handler with
	// no collaborators wired is enough.
	h := &Handler{}

	tests := []struct {
		name string
		text string
	}{
		{name: "rent keyword", text: "I want to rent a place downtown"},
		{name: "apartment keyword", text: "Looking for an APARTMENT near the Loop"},
		{name: "chinese keyword", text: "我想租房"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			body := strings.NewReader(`{"text":` + jsonQuote(tt.text) + `,"state":"WELCOME"}`)
			h.SendMessage(rec, httptest.NewRequest(http.MethodPost, "/chat/messages", body))
			require.Equal(t, http.StatusOK, rec.Code)

			out := rec.Body.String()
			assert.Contains(t, out, "CITY_CORE")
			assert.Contains(t, out, "PREFERENCES")
			assert.Contains(t, out, "Safety Sentinel")
		})
	}
}

func TestInternalThoughtStripping(t *testing.T) {
	raw := "[Tenant Concierge]: Found it.<internal_thought>\nchain of\nreasoning\n</internal_thought> Two listings match."
	assert.Equal(t, "[Tenant Concierge]: Found it. Two listings match.",
		strings.TrimSpace(internalThoughtRe.ReplaceAllString(raw, "")))
}

func TestRouterVerdictFenceStripping(t *testing.T) {
	fenced := "```json\n{\"intent\":\"Area_Search\",\"keywords\":\"Wicker Park\",\"confidence\":0.92}\n```"
	assert.Equal(t, `{"intent":"Area_Search","keywords":"Wicker Park","confidence":0.92}`,
		strings.TrimSpace(jsonFenceRe.ReplaceAllString(fenced, "")))
}

func jsonQuote(s string) string {
	out := strings.ReplaceAll(s, `"`, `\"`)
	return `"` + out + `"`
}
