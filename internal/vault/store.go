package vault

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rebeccawang123/twincity/internal/models"
)

// storageKey is the fixed key the serialized identity array lives under.
const storageKey = "base_id_vault"

// Store persists the vault's single serialized identity array. Load returns
// (nil, nil) when nothing has been stored yet.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Delete() error
}

// GormStore keeps the blob in the vault_blobs table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load() ([]byte, error) {
	var blob models.VaultBlob
	err := s.db.Where("key = ?", storageKey).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob.Data, nil
}

func (s *GormStore) Save(data []byte) error {
	blob := models.VaultBlob{Key: storageKey, Data: data}
	return s.db.Save(&blob).Error
}

func (s *GormStore) Delete() error {
	return s.db.Where("key = ?", storageKey).Delete(&models.VaultBlob{}).Error
}

// MemoryStore is an in-process Store used by tests.
type MemoryStore struct {
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]byte, error) {
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemoryStore) Save(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

func (s *MemoryStore) Delete() error {
	s.data = nil
	return nil
}
