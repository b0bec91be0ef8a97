package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trustbuild-shell/internal/core/domain"
)

// Keys for storage
const (
	profileKey  = "user_data"
	deviceIDKey = "device_id"
)

// kvEntry is a row in the general store
type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

// TableName maps kvEntry to its table
func (kvEntry) TableName() string {
	return "kv_entries"
}

// Store is the general-purpose store for non-sensitive data. The profile is
// kept as an opaque JSON blob under a fixed key; decoding is done only on
// the way out, and a blob that fails to decode is treated as not present.
type Store struct {
	db *gorm.DB
}

// New creates the profile store and migrates its table
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// SetProfile stores the user profile
func (s *Store) SetProfile(ctx context.Context, profile *domain.Profile) error {
	blob, err := json.Marshal(profile)
	if err != nil {
		log.Printf("❌ Error encoding user data: %v", err)
		return domain.ErrProfileWriteFailed
	}
	if err := s.set(ctx, profileKey, string(blob)); err != nil {
		log.Printf("❌ Error storing user data: %v", err)
		return domain.ErrProfileWriteFailed
	}
	return nil
}

// GetProfile retrieves the user profile. Absent and undecodable blobs are
// both reported as nil.
func (s *Store) GetProfile(ctx context.Context) *domain.Profile {
	blob, ok := s.get(ctx, profileKey)
	if !ok {
		return nil
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(blob), &profile); err != nil {
		log.Printf("⚠️ Error decoding user data: %v", err)
		return nil
	}
	return &profile
}

// RemoveProfile removes the user profile; failures are swallowed
func (s *Store) RemoveProfile(ctx context.Context) {
	s.delete(ctx, profileKey)
}

// DeviceID returns the persisted shell device ID, creating it on first use
func (s *Store) DeviceID(ctx context.Context, generate func() string) string {
	if id, ok := s.get(ctx, deviceIDKey); ok && id != "" {
		return id
	}

	id := generate()
	if err := s.set(ctx, deviceIDKey, id); err != nil {
		log.Printf("⚠️ Error storing device ID: %v", err)
	}
	return id
}

// set upserts a value under key
func (s *Store) set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// get reads a value under key; read failures are swallowed
func (s *Store) get(ctx context.Context, key string) (string, bool) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Error reading %s from general store: %v", key, err)
		}
		return "", false
	}
	return entry.Value, true
}

// delete removes a value under key; failures are swallowed
func (s *Store) delete(ctx context.Context, key string) {
	if err := s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error; err != nil {
		log.Printf("⚠️ Error removing %s from general store: %v", key, err)
	}
}
