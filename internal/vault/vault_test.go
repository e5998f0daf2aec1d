package vault

import (
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeccawang123/twincity/internal/models"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v := New(NewMemoryStore())
	v.Initialize()
	return v
}

func freshKey(t *testing.T) string {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(crypto.FromECDSA(key))
}

func TestInitializeSeedsProjectAccounts(t *testing.T) {
	v := newTestVault(t)

	identities, err := v.ListAll()
	require.NoError(t, err)
	require.Len(t, identities, len(projectAccounts))
	for _, id := range identities {
		assert.Equal(t, models.SourceProject, id.Source)
		assert.NotEmpty(t, id.Address)
		assert.NotEmpty(t, id.PrivateKey)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	v := New(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Initialize()
		}()
	}
	wg.Wait()

	identities, err := v.ListAll()
	require.NoError(t, err)
	assert.Len(t, identities, len(projectAccounts))
}

func TestInitializeKeepsSessionEntriesAndPositions(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SaveIdentity(models.Identity{
		Email:      "newcomer@example.com",
		PrivateKey: freshKey(t),
	}))

	// A second vault on the same store re-runs the merge.
	v2 := New(v.store)
	v2.Initialize()

	identities, err := v2.ListAll()
	require.NoError(t, err)
	require.Len(t, identities, len(projectAccounts)+1)

	// The session entry was saved most-recent-first and survives the merge
	// at its position.
	assert.Equal(t, "newcomer@example.com", identities[0].Email)
	assert.Equal(t, models.SourceSession, identities[0].Source)
}

func TestProjectSeedWinsOverSessionImpostor(t *testing.T) {
	v := newTestVault(t)

	// A session record claiming a seed email gets overwritten by the seed on
	// the next merge, in place.
	require.NoError(t, v.SaveIdentity(models.Identity{
		Email:      "Tom.Tenant@Gmail.com",
		PrivateKey: freshKey(t),
	}))

	v2 := New(v.store)
	v2.Initialize()

	tom, err := v2.FindByEmail("tom.tenant@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, tom)
	assert.Equal(t, models.SourceProject, tom.Source)
	assert.Equal(t, int64(2440), tom.AgentID)
	assert.Equal(t, "0x4396432B088e541FC5A3EE7A1B6FdC30507b9247", tom.Address)

	identities, err := v2.ListAll()
	require.NoError(t, err)
	assert.Len(t, identities, len(projectAccounts))
	assert.Equal(t, "tom.tenant@gmail.com", identities[0].Email)
}

func TestSaveIdentityDerivesAddress(t *testing.T) {
	v := newTestVault(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()

	require.NoError(t, v.SaveIdentity(models.Identity{
		Email:      "derive@example.com",
		PrivateKey: "0x" + hex.EncodeToString(crypto.FromECDSA(key)),
		Address:    "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef", // ignored
	}))

	saved, err := v.FindByEmail("derive@example.com")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, want, saved.Address)
	assert.Equal(t, models.SourceSession, saved.Source)
	assert.NotEmpty(t, saved.ID)
	assert.NotEmpty(t, saved.Timestamp)
}

func TestSaveIdentityRejectsBadKey(t *testing.T) {
	v := newTestVault(t)
	err := v.SaveIdentity(models.Identity{Email: "bad@example.com", PrivateKey: "0xzz"})
	require.Error(t, err)
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	v := newTestVault(t)

	found, err := v.FindByEmail("TOM.TENANT@GMAIL.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "tom.tenant@gmail.com", found.Email)

	missing, err := v.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByAddressIsCaseInsensitive(t *testing.T) {
	v := newTestVault(t)

	found, err := v.FindByAddress(strings.ToLower("0x4396432B088e541FC5A3EE7A1B6FdC30507b9247"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "tom.tenant@gmail.com", found.Email)
}

func TestUpdateMetadataShallowMergeAndAgentIDMirror(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SaveIdentity(models.Identity{
		Email:      "meta@example.com",
		PrivateKey: freshKey(t),
		Metadata:   map[string]any{"keep": "me", "replace": "old"},
	}))

	require.NoError(t, v.UpdateMetadata("meta@example.com", map[string]any{
		"replace": "new",
		"agentId": float64(9001), // as decoded from JSON
	}))

	saved, err := v.FindByEmail("meta@example.com")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "me", saved.Metadata["keep"])
	assert.Equal(t, "new", saved.Metadata["replace"])
	assert.Equal(t, int64(9001), saved.AgentID)
}

func TestUpdateMetadataMissingIdentityIsNoOp(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.UpdateMetadata("ghost@example.com", map[string]any{"a": 1}))
}

func TestDeleteIsIdempotent(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SaveIdentity(models.Identity{
		Email:      "gone@example.com",
		PrivateKey: freshKey(t),
	}))

	require.NoError(t, v.Delete("GONE@example.com"))
	require.NoError(t, v.Delete("gone@example.com"))

	missing, err := v.FindByEmail("gone@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClearNeverLeavesStoreEmpty(t *testing.T) {
	store := NewMemoryStore()
	v := New(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Initialize()
		}()
	}

	// By the time Clear returns, the reseed has happened — even with
	// initializers racing it.
	for i := 0; i < 4; i++ {
		require.NoError(t, v.Clear())
		data, err := store.Load()
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
	wg.Wait()

	identities, err := v.ListAll()
	require.NoError(t, err)
	assert.Len(t, identities, len(projectAccounts))
}

func TestClearReseeds(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SaveIdentity(models.Identity{
		Email:      "temp@example.com",
		PrivateKey: freshKey(t),
	}))

	require.NoError(t, v.Clear())

	identities, err := v.ListAll()
	require.NoError(t, err)
	assert.Len(t, identities, len(projectAccounts))
	for _, id := range identities {
		assert.Equal(t, models.SourceProject, id.Source)
	}
}
