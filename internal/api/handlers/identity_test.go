package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeccawang123/twincity/internal/utils"
	"github.com/rebeccawang123/twincity/internal/vault"
)

func newVaultHandler(t *testing.T) *Handler {
	t.Helper()
	v := vault.New(vault.NewMemoryStore())
	v.Initialize()
	return &Handler{Vault: v}
}

func decodePayload(t *testing.T, rec *httptest.ResponseRecorder) utils.Payload {
	t.Helper()
	var payload utils.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestListIdentitiesRedactsKeys(t *testing.T) {
	h := newVaultHandler(t)

	rec := httptest.NewRecorder()
	h.ListIdentities(rec, httptest.NewRequest(http.MethodGet, "/identities", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "privateKey")
	assert.NotContains(t, rec.Body.String(), "a01fbef45a2d33021eef99e7c0598136c18880a5")

	payload := decodePayload(t, rec)
	assert.True(t, payload.Success)
	views, ok := payload.Data.([]any)
	require.True(t, ok)
	assert.Len(t, views, 7)
}

func TestSaveIdentityGeneratesKeyWhenMissing(t *testing.T) {
	h := newVaultHandler(t)

	body := strings.NewReader(`{"email":"fresh@example.com","description":"new wallet"}`)
	rec := httptest.NewRecorder()
	h.SaveIdentity(rec, httptest.NewRequest(http.MethodPost, "/identities", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "privateKey")

	saved, err := h.Vault.FindByEmail("fresh@example.com")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, strings.HasPrefix(saved.PrivateKey, "0x"))
	assert.NotEmpty(t, saved.Address)
}

func TestSaveIdentityRejectsBadInput(t *testing.T) {
	h := newVaultHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing email", body: `{"description":"x"}`},
		{name: "unknown field", body: `{"email":"a@b.c","address":"0xabc"}`},
		{name: "not json", body: `email=a@b.c`},
		{name: "bad key", body: `{"email":"a@b.c","privateKey":"0xzz"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.SaveIdentity(rec, httptest.NewRequest(http.MethodPost, "/identities", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetIdentityNotFound(t *testing.T) {
	h := newVaultHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/identities/ghost@example.com", nil)
	req.SetPathValue("email", "ghost@example.com")
	rec := httptest.NewRecorder()
	h.GetIdentity(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchMetadataAndReset(t *testing.T) {
	h := newVaultHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/identities/tom.tenant@gmail.com/metadata",
		strings.NewReader(`{"nickname":"tommy"}`))
	req.SetPathValue("email", "tom.tenant@gmail.com")
	rec := httptest.NewRecorder()
	h.PatchIdentityMetadata(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	tom, err := h.Vault.FindByEmail("tom.tenant@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, tom)
	assert.Equal(t, "tommy", tom.Metadata["nickname"])

	rec = httptest.NewRecorder()
	h.ResetVault(rec, httptest.NewRequest(http.MethodPost, "/identities/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	tom, err = h.Vault.FindByEmail("tom.tenant@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, tom)
	assert.Nil(t, tom.Metadata["nickname"])
}

func TestDeleteIdentity(t *testing.T) {
	h := newVaultHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/identities/test@example.com", nil)
	req.SetPathValue("email", "test@example.com")
	rec := httptest.NewRecorder()
	h.DeleteIdentity(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	gone, err := h.Vault.FindByEmail("test@example.com")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
