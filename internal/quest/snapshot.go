package quest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

// Snapshot is the persisted form of a registry: every tracker, orphans
// included, with its objectives.
type Snapshot struct {
	Version int             `json:"version"`
	SaveID  uuid.UUID       `json:"save_id"`
	SavedAt time.Time       `json:"saved_at"`
	Quests  []*QuestTracker `json:"quests"`
}

// Snapshot captures a detached copy of the registry's trackers.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		Version: SnapshotVersion,
		SaveID:  r.saveID,
		SavedAt: time.Now().UTC(),
		Quests:  make([]*QuestTracker, 0, len(r.order)),
	}
	for _, key := range r.order {
		c := r.trackers[key].clone()
		c.registry = nil
		c.def = nil
		for _, obj := range c.Objectives {
			obj.def = nil
		}
		s.Quests = append(s.Quests, c)
	}
	return s
}

// ToJSON encodes the snapshot.
func (s *Snapshot) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// SnapshotFromJSON decodes a snapshot written by ToJSON.
func SnapshotFromJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode quest snapshot: %w", err)
	}
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("quest snapshot version %d is newer than supported version %d", s.Version, SnapshotVersion)
	}
	return &s, nil
}
