package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps saves in process memory. Saves are stored encoded so
// callers never share state with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	saves     map[uuid.UUID][]byte
	infos     map[uuid.UUID]SaveInfo
	pingError error
}

// Ensure MemoryStore implements SaveStore interface
var _ SaveStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		saves: make(map[uuid.UUID][]byte),
		infos: make(map[uuid.UUID]SaveInfo),
	}
}

// SetPingError configures Ping to fail with err; nil restores success.
func (m *MemoryStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) SaveGame(ctx context.Context, save *SaveData) error {
	if err := save.Validate(); err != nil {
		return err
	}
	data, err := save.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[save.ID] = data
	m.infos[save.ID] = SaveInfo{ID: save.ID, SavedAt: save.SavedAt}
	return nil
}

func (m *MemoryStore) LoadGame(ctx context.Context, id uuid.UUID) (*SaveData, error) {
	m.mu.RLock()
	data, ok := m.saves[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSaveNotFound
	}
	return DecodeSave(data)
}

func (m *MemoryStore) DeleteGame(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, id)
	delete(m.infos, id)
	return nil
}

func (m *MemoryStore) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]SaveInfo, 0, len(m.infos))
	for _, info := range m.infos {
		infos = append(infos, info)
	}
	SortNewestFirst(infos)
	return infos, nil
}

// SortNewestFirst orders saves by time, newest first, then by id.
func SortNewestFirst(infos []SaveInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].SavedAt.Equal(infos[j].SavedAt) {
			return infos[i].SavedAt.After(infos[j].SavedAt)
		}
		return infos[i].ID.String() < infos[j].ID.String()
	})
}
