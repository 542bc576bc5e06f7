package quest

import (
	"github.com/lawnchairsociety/questlog/internal/logger"
)

// ObjectiveTracker is the per-save progress of one objective. It is owned
// by its QuestTracker and serialized with it.
type ObjectiveTracker struct {
	QuestKey string        `json:"quest_key"`
	ID       int           `json:"id"`
	Type     ObjectiveType `json:"type"`
	Hidden   bool          `json:"hidden"`
	Optional bool          `json:"optional"`
	State    State         `json:"state"`

	// FetchCount is the last inventory quantity seen; it is re-read on
	// every fulfillment check.
	FetchCount int `json:"fetch_count,omitempty"`
	SlayCount  int `json:"slay_count,omitempty"`

	def   *ObjectiveDefinition
	quest *QuestTracker
}

// ObjectiveChange describes one objective state transition.
type ObjectiveChange struct {
	QuestKey    string
	ObjectiveID int
	From        State
	To          State
}

func newObjectiveTracker(questKey string, def *ObjectiveDefinition) *ObjectiveTracker {
	return &ObjectiveTracker{
		QuestKey: questKey,
		ID:       def.ID,
		Type:     def.Type(),
		Hidden:   def.HiddenByDefault,
		Optional: def.Optional,
		State:    StateInactive,
		def:      def,
	}
}

// Definition returns the objective's definition, or nil for an orphan whose
// definition was removed from content.
func (o *ObjectiveTracker) Definition() *ObjectiveDefinition {
	return o.def
}

func (o *ObjectiveTracker) registry() *Registry {
	if o.quest == nil {
		return nil
	}
	return o.quest.registry
}

// canTransition allows forward moves only: Inactive to anything else and
// Active to a finalized state.
func canTransition(from, to State) bool {
	if from.IsFinalized() || to == StateInactive {
		return false
	}
	if from == StateActive {
		return to.IsFinalized()
	}
	return true
}

// setState applies a transition and fires the update hook once. It reports
// whether the state changed.
func (o *ObjectiveTracker) setState(state State) bool {
	if state == o.State {
		logger.Debug("Objective already in state", "quest", o.QuestKey, "objective", o.ID, "state", state)
		return false
	}
	if !canTransition(o.State, state) {
		logger.Warning("Objective transition rejected", "quest", o.QuestKey, "objective", o.ID, "from", o.State, "to", state)
		return false
	}

	change := ObjectiveChange{QuestKey: o.QuestKey, ObjectiveID: o.ID, From: o.State, To: state}
	o.State = state
	if state == StateActive {
		o.Hidden = false
	}

	logger.Audit("Objective state changed", "quest", o.QuestKey, "objective", o.ID, "from", change.From, "to", change.To)
	if r := o.registry(); r != nil {
		r.notifyObjective(change)
	}
	return true
}

// reset forces the objective back to its initial state without hooks.
func (o *ObjectiveTracker) reset() {
	o.State = StateInactive
	o.FetchCount = 0
	o.SlayCount = 0
	if o.def != nil {
		o.Hidden = o.def.HiddenByDefault
	}
}

func (o *ObjectiveTracker) IsInactive() bool  { return o.State == StateInactive }
func (o *ObjectiveTracker) IsActive() bool    { return o.State == StateActive }
func (o *ObjectiveTracker) IsCompleted() bool { return o.State == StateCompleted }
func (o *ObjectiveTracker) IsFailed() bool    { return o.State == StateFailed }
func (o *ObjectiveTracker) IsMissed() bool    { return o.State == StateMissed }
func (o *ObjectiveTracker) IsFinalized() bool { return o.State.IsFinalized() }

// IsKnown reports whether the player can see the objective: it has started,
// or it is upcoming and not hidden.
func (o *ObjectiveTracker) IsKnown() bool {
	return !o.IsInactive() || !o.Hidden
}

// IsValid reports whether progress of targetType may be applied.
func (o *ObjectiveTracker) IsValid(targetType ObjectiveType) bool {
	if o.IsFinalized() {
		return false
	}
	if !o.IsActive() && o.Hidden {
		return false
	}
	return o.Type == targetType
}

// IsFulfilled evaluates the type's fulfillment predicate against the
// registry's host collaborators. Indiscriminate objectives are never
// fulfilled programmatically.
func (o *ObjectiveTracker) IsFulfilled() bool {
	if o.def == nil {
		return false
	}
	r := o.registry()

	switch data := o.def.Fulfillment.(type) {
	case IndiscriminateData:
		return false
	case DestinationData:
		if r == nil || r.locator == nil {
			return false
		}
		x, y := r.locator.PlayerPosition()
		return data.Contains(r.locator.CurrentMapID(), x, y)
	case FetchData:
		o.syncFetchCount()
		return o.FetchCount >= data.Amount
	case SlayData:
		return o.SlayCount >= data.Amount
	case QuestChainData:
		for _, key := range data.QuestKeys {
			if r == nil {
				return false
			}
			tracker, ok := r.trackers[key]
			if !ok {
				logger.Error("Quest chain references unknown quest", "quest", o.QuestKey, "objective", o.ID, "required", key)
				return false
			}
			if !tracker.IsCompleted() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// syncFetchCount re-reads the held quantity from the inventory.
func (o *ObjectiveTracker) syncFetchCount() {
	data, ok := o.def.Fulfillment.(FetchData)
	if !ok {
		return
	}
	r := o.registry()
	if r == nil || r.inventory == nil {
		o.FetchCount = 0
		return
	}
	o.FetchCount = r.inventory.QuantityOf(data.ItemType, data.ItemID)
}

// recordKill counts one kill of enemyID. It reports whether the counter moved.
func (o *ObjectiveTracker) recordKill(enemyID int) bool {
	if !o.IsValid(ObjectiveSlay) || o.def == nil {
		return false
	}
	data, ok := o.def.Fulfillment.(SlayData)
	if !ok || data.EnemyID != enemyID {
		return false
	}
	if o.SlayCount >= data.Amount {
		return false
	}
	o.SlayCount++
	logger.Debug("Slay objective progressed", "quest", o.QuestKey, "objective", o.ID, "count", o.SlayCount, "amount", data.Amount)
	return true
}

// Description returns the objective's summary line.
func (o *ObjectiveTracker) Description() string {
	if o.def == nil {
		return ""
	}
	return o.def.Description
}

// Log returns the narrative text for the current state. Active objectives
// use the discovered log.
func (o *ObjectiveTracker) Log() string {
	if o.def == nil {
		return ""
	}
	switch o.State {
	case StateActive:
		return o.def.Logs.Discovered
	case StateCompleted:
		return o.def.Logs.Completed
	case StateFailed:
		return o.def.Logs.Failed
	case StateMissed:
		return o.def.Logs.Missed
	default:
		return o.def.Logs.Inactive
	}
}

// IconIndexByState returns the presentation icon for the current state.
func (o *ObjectiveTracker) IconIndexByState() int {
	return o.registry().textOrDefault().IconIndex(string(o.State))
}
