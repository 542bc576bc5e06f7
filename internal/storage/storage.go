// Package storage persists save games: the quest snapshot together with the
// party state it was taken against.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/party"
	"github.com/lawnchairsociety/questlog/internal/quest"
)

// ErrSaveNotFound is returned when no save exists for an id.
var ErrSaveNotFound = errors.New("save not found")

// HealthChecker defines connection health checking
type HealthChecker interface {
	// Ping tests the backend connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close releases the backend connection
	Close() error
}

// SaveStore defines save game persistence
type SaveStore interface {
	HealthChecker
	Closer

	// SaveGame writes a save, replacing any previous save with the same id
	SaveGame(ctx context.Context, save *SaveData) error

	// LoadGame returns the save for id, or ErrSaveNotFound
	LoadGame(ctx context.Context, id uuid.UUID) (*SaveData, error)

	// DeleteGame removes a save. Deleting a missing save is not an error.
	DeleteGame(ctx context.Context, id uuid.UUID) error

	// ListSaves returns every save, newest first
	ListSaves(ctx context.Context) ([]SaveInfo, error)
}

// SaveData is one persisted game.
type SaveData struct {
	ID      uuid.UUID       `json:"id"`
	Quests  *quest.Snapshot `json:"quests"`
	Party   party.State     `json:"party"`
	SavedAt time.Time       `json:"saved_at"`
}

// SaveInfo summarizes a save for listings.
type SaveInfo struct {
	ID      uuid.UUID `json:"id"`
	SavedAt time.Time `json:"saved_at"`
}

// NewSaveData captures the registry and party as a save stamped now.
func NewSaveData(registry *quest.Registry, p *party.Party) *SaveData {
	snapshot := registry.Snapshot()
	return &SaveData{
		ID:      registry.SaveID(),
		Quests:  snapshot,
		Party:   p.Export(),
		SavedAt: snapshot.SavedAt,
	}
}

// Validate checks the fields every backend relies on.
func (s *SaveData) Validate() error {
	if s == nil {
		return errors.New("save cannot be nil")
	}
	if s.ID == uuid.Nil {
		return errors.New("save id cannot be empty")
	}
	if s.Quests == nil {
		return errors.New("save has no quest snapshot")
	}
	return nil
}

// Encode serializes the save as JSON.
func (s *SaveData) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode save %s: %w", s.ID, err)
	}
	return data, nil
}

// DecodeSave parses a save written by Encode.
func DecodeSave(data []byte) (*SaveData, error) {
	var save SaveData
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, fmt.Errorf("failed to decode save: %w", err)
	}
	if save.Quests != nil && save.Quests.Version > quest.SnapshotVersion {
		return nil, fmt.Errorf("save %s uses quest snapshot version %d, newer than supported %d",
			save.ID, save.Quests.Version, quest.SnapshotVersion)
	}
	return &save, nil
}

// Restore rebuilds the registry and party from a save.
func (s *SaveData) Restore(catalog *quest.Catalog) (*quest.Registry, *party.Party, error) {
	registry, err := quest.LoadRegistry(catalog, s.Quests)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore save %s: %w", s.ID, err)
	}
	p := party.Restore(s.Party)
	registry.SetInventory(p)
	registry.SetLocator(p)
	return registry, p, nil
}
