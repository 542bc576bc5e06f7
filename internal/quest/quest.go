// Package quest implements the quest journal: immutable quest definitions,
// per-save objective and quest trackers with their state machines, and the
// registry that owns the trackers and resolves quest-chain cascades.
package quest

import "strings"

// State is the lifecycle state shared by quests and objectives.
type State string

const (
	StateInactive  State = "inactive"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateMissed    State = "missed"
)

// ParseState converts a manual state value (plugin command, save data).
func ParseState(s string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case StateInactive:
		return StateInactive, nil
	case StateActive:
		return StateActive, nil
	case StateCompleted:
		return StateCompleted, nil
	case StateFailed:
		return StateFailed, nil
	case StateMissed:
		return StateMissed, nil
	}
	return "", &ContentError{Reason: "invalid state value " + `"` + s + `"`}
}

// IsFinalized reports whether no further transition may leave s.
func (s State) IsFinalized() bool {
	return s == StateCompleted || s == StateFailed || s == StateMissed
}

// ObjectiveType selects how an objective's fulfillment is detected.
type ObjectiveType string

const (
	ObjectiveIndiscriminate ObjectiveType = "indiscriminate" // finalized only by external trigger
	ObjectiveDestination    ObjectiveType = "destination"    // reach a map region
	ObjectiveFetch          ObjectiveType = "fetch"          // possess items
	ObjectiveSlay           ObjectiveType = "slay"           // defeat enemies
	ObjectiveQuestChain     ObjectiveType = "quest"          // complete other quests
)

// ItemType classifies inventory entries referenced by fetch objectives.
type ItemType string

const (
	ItemTypeItem   ItemType = "item"
	ItemTypeWeapon ItemType = "weapon"
	ItemTypeArmor  ItemType = "armor"
)

// Fulfillment is the type-specific payload of an objective. The concrete
// types below are the only implementations.
type Fulfillment interface {
	Type() ObjectiveType
	fulfillment()
}

// IndiscriminateData carries only a player-facing hint.
type IndiscriminateData struct {
	Hint string
}

// DestinationData is an inclusive rectangle on one map.
type DestinationData struct {
	MapID  int
	X1, Y1 int
	X2, Y2 int
}

// FetchData requires Amount of one inventory entry.
type FetchData struct {
	ItemType ItemType
	ItemID   int
	Amount   int
}

// SlayData requires Amount kills of one enemy.
type SlayData struct {
	EnemyID int
	Amount  int
}

// QuestChainData requires every listed quest to be completed.
type QuestChainData struct {
	QuestKeys []string
}

func (IndiscriminateData) Type() ObjectiveType { return ObjectiveIndiscriminate }
func (DestinationData) Type() ObjectiveType    { return ObjectiveDestination }
func (FetchData) Type() ObjectiveType          { return ObjectiveFetch }
func (SlayData) Type() ObjectiveType           { return ObjectiveSlay }
func (QuestChainData) Type() ObjectiveType     { return ObjectiveQuestChain }

func (IndiscriminateData) fulfillment() {}
func (DestinationData) fulfillment()    {}
func (FetchData) fulfillment()          {}
func (SlayData) fulfillment()           {}
func (QuestChainData) fulfillment()     {}

// Contains reports whether (x, y) on mapID lies inside the region.
func (d DestinationData) Contains(mapID, x, y int) bool {
	return mapID == d.MapID &&
		x >= d.X1 && x <= d.X2 &&
		y >= d.Y1 && y <= d.Y2
}

// ObjectiveLogs holds the narrative text for each lifecycle state.
type ObjectiveLogs struct {
	Inactive   string
	Discovered string
	Completed  string
	Failed     string
	Missed     string
}

// ObjectiveDefinition describes one step of a quest.
type ObjectiveDefinition struct {
	ID              int
	Description     string
	Logs            ObjectiveLogs
	Fulfillment     Fulfillment
	HiddenByDefault bool
	Optional        bool
}

// Type returns the fulfillment type of the objective.
func (o *ObjectiveDefinition) Type() ObjectiveType {
	if o.Fulfillment == nil {
		return ObjectiveIndiscriminate
	}
	return o.Fulfillment.Type()
}

// QuestDefinition is the immutable description of a quest.
type QuestDefinition struct {
	Key              string
	Name             string
	CategoryKey      string
	TagKeys          []string
	UnknownHint      string
	Overview         string
	RecommendedLevel int
	Objectives       []ObjectiveDefinition // ascending by ID
}

// Objective returns the objective definition with the given id.
func (q *QuestDefinition) Objective(id int) (*ObjectiveDefinition, bool) {
	for i := range q.Objectives {
		if q.Objectives[i].ID == id {
			return &q.Objectives[i], true
		}
	}
	return nil, false
}

// HasTag reports whether the quest carries tagKey.
func (q *QuestDefinition) HasTag(tagKey string) bool {
	for _, k := range q.TagKeys {
		if k == tagKey {
			return true
		}
	}
	return false
}

// CategoryDefinition groups quests in the journal.
type CategoryDefinition struct {
	Key         string
	Name        string
	IconIndex   int
	Description string
}

// TagDefinition is a cross-cutting label on quests.
type TagDefinition struct {
	Key         string
	Name        string
	IconIndex   int
	Description string
}
