// Package vault is the local persisted store of identities: the bundled
// project accounts merged with session accounts created at runtime. It is a
// multi-party custodial store — feedback authorization needs the rating
// target's key locally, so every participant's key lives here.
package vault

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/singleflight"

	"github.com/rebeccawang123/twincity/internal/logging"
	"github.com/rebeccawang123/twincity/internal/models"
)

// Vault owns the identity list. Construct one in the entry point and pass it
// by reference; all methods are safe for concurrent use.
type Vault struct {
	store Store

	group       singleflight.Group
	mu          sync.Mutex
	initialized bool
}

func New(store Store) *Vault {
	return &Vault{store: store}
}

// Initialize merges the project accounts into the persisted list. Idempotent:
// concurrent callers share one in-flight merge. It never fails outward —
// storage errors are absorbed so a corrupt store cannot block startup.
func (v *Vault) Initialize() {
	v.mu.Lock()
	done := v.initialized
	v.mu.Unlock()
	if done {
		return
	}

	v.group.Do("init", func() (any, error) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.initialized {
			v.reseedLocked()
		}
		return nil, nil
	})
}

// reseedLocked runs the seed merge. Callers hold v.mu.
func (v *Vault) reseedLocked() {
	existing, err := v.load()
	if err != nil {
		logging.L.Warnw("vault: init read failed, starting from seeds only", "error", err)
		existing = nil
	}

	// Session entries first, then every project entry overlays by email.
	// Project wins on conflict and keeps the session entry's position.
	merged := make([]models.Identity, 0, len(existing)+len(projectAccounts))
	index := make(map[string]int)
	for _, item := range existing {
		if item.Source != models.SourceSession {
			continue
		}
		index[normalizeEmail(item.Email)] = len(merged)
		merged = append(merged, item)
	}
	for _, seed := range projectAccounts {
		if seed.Email == "" {
			continue
		}
		seed.Source = models.SourceProject
		if i, ok := index[normalizeEmail(seed.Email)]; ok {
			merged[i] = seed
		} else {
			index[normalizeEmail(seed.Email)] = len(merged)
			merged = append(merged, seed)
		}
	}

	if err := v.save(merged); err != nil {
		logging.L.Errorw("vault: init write failed", "error", err)
	}

	v.initialized = true
}

// SaveIdentity upserts by normalized email and tags the record as a session
// identity. The address is recomputed from the private key — a caller-supplied
// address is never trusted.
func (v *Vault) SaveIdentity(identity models.Identity) error {
	v.Initialize()

	addr, err := deriveAddress(identity.PrivateKey)
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	identity.Address = addr
	identity.Source = models.SourceSession
	if identity.ID == "" {
		identity.ID = fmt.Sprintf("%s-%d", identity.Email, time.Now().UnixMilli())
	}
	if identity.Timestamp == "" {
		identity.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	identities, err := v.load()
	if err != nil {
		return err
	}
	if i := findByEmail(identities, identity.Email); i >= 0 {
		identities[i] = identity
	} else {
		// Most recent first for listing.
		identities = append([]models.Identity{identity}, identities...)
	}
	return v.save(identities)
}

// UpdateMetadata shallow-merges a patch into an identity's metadata map.
// An agentId in the patch is mirrored to the top-level field to keep the
// duplicated legacy field consistent. Missing identities are a no-op.
func (v *Vault) UpdateMetadata(email string, patch map[string]any) error {
	v.Initialize()

	v.mu.Lock()
	defer v.mu.Unlock()

	identities, err := v.load()
	if err != nil {
		return err
	}
	i := findByEmail(identities, email)
	if i < 0 {
		return nil
	}
	if identities[i].Metadata == nil {
		identities[i].Metadata = make(map[string]any)
	}
	for k, val := range patch {
		identities[i].Metadata[k] = val
	}
	if raw, ok := patch["agentId"]; ok {
		if id := toInt64(raw); id > 0 {
			identities[i].AgentID = id
		}
	}
	return v.save(identities)
}

// ListAll returns every identity, triggering lazy initialization first.
func (v *Vault) ListAll() ([]models.Identity, error) {
	v.Initialize()
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.load()
}

// FindByEmail is a case-insensitive exact match. A missing identity returns
// (nil, nil), not an error.
func (v *Vault) FindByEmail(email string) (*models.Identity, error) {
	identities, err := v.ListAll()
	if err != nil {
		return nil, err
	}
	if i := findByEmail(identities, email); i >= 0 {
		id := identities[i]
		return &id, nil
	}
	return nil, nil
}

// FindByAddress is the case-insensitive address counterpart of FindByEmail.
func (v *Vault) FindByAddress(address string) (*models.Identity, error) {
	identities, err := v.ListAll()
	if err != nil {
		return nil, err
	}
	for _, id := range identities {
		if strings.EqualFold(id.Address, address) {
			out := id
			return &out, nil
		}
	}
	return nil, nil
}

// Delete removes an identity by normalized email. Absent is a no-op.
func (v *Vault) Delete(email string) error {
	v.Initialize()
	v.mu.Lock()
	defer v.mu.Unlock()

	identities, err := v.load()
	if err != nil {
		return err
	}
	kept := identities[:0]
	for _, id := range identities {
		if !strings.EqualFold(id.Email, email) {
			kept = append(kept, id)
		}
	}
	return v.save(kept)
}

// Clear wipes persisted state and immediately reseeds, so the store is never
// left without the project identities.
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.Delete(); err != nil {
		return err
	}
	v.initialized = false
	v.reseedLocked()
	return nil
}

func (v *Vault) load() ([]models.Identity, error) {
	data, err := v.store.Load()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var identities []models.Identity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, err
	}
	return identities, nil
}

func (v *Vault) save(identities []models.Identity) error {
	if identities == nil {
		identities = []models.Identity{}
	}
	data, err := json.Marshal(identities)
	if err != nil {
		return err
	}
	return v.store.Save(data)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findByEmail(identities []models.Identity, email string) int {
	want := normalizeEmail(email)
	for i, id := range identities {
		if normalizeEmail(id.Email) == want {
			return i
		}
	}
	return -1
}

func deriveAddress(privateKey string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

func toInt64(raw any) int64 {
	switch n := raw.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		v, _ := n.Int64()
		return v
	default:
		return 0
	}
}
