package quest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/logger"
	"github.com/lawnchairsociety/questlog/internal/text"
)

// Registry owns the live quest trackers of one save and is the entry point
// for host code. It is not safe for concurrent use; callers serialize
// access the way a single game loop does.
type Registry struct {
	catalog *Catalog
	saveID  uuid.UUID

	trackers map[string]*QuestTracker
	order    []string

	inventory Inventory
	locator   Locator
	names     Names
	text      *text.Text

	objectiveHooks []func(ObjectiveChange)
	questHooks     []func(QuestChange)
}

// NewRegistry starts a new game: one Inactive tracker per quest definition.
func NewRegistry(catalog *Catalog) *Registry {
	r := &Registry{
		catalog:  catalog,
		saveID:   uuid.New(),
		trackers: make(map[string]*QuestTracker),
	}
	r.UpdateTrackedQuestsFromDefinitions()
	return r
}

// LoadRegistry restores trackers from a snapshot and reconciles them
// against the current definitions.
func LoadRegistry(catalog *Catalog, snapshot *Snapshot) (*Registry, error) {
	if snapshot == nil {
		return NewRegistry(catalog), nil
	}
	r := &Registry{
		catalog:  catalog,
		saveID:   snapshot.SaveID,
		trackers: make(map[string]*QuestTracker),
	}
	if r.saveID == uuid.Nil {
		r.saveID = uuid.New()
	}

	for _, saved := range snapshot.Quests {
		if saved == nil || saved.Key == "" {
			continue
		}
		tracker := saved.clone()
		if err := normalizeSavedStates(tracker); err != nil {
			return nil, err
		}
		if _, dup := r.trackers[saved.Key]; dup {
			logger.Warning("Duplicate quest in save, last entry wins", "quest", saved.Key)
		} else {
			r.order = append(r.order, saved.Key)
		}
		def, err := catalog.Quest(saved.Key)
		if err != nil {
			def = nil
			logger.Info("Saved quest has no definition, kept as orphan", "quest", saved.Key)
		}
		if added := tracker.attach(r, def); added > 0 {
			logger.Info("Synthesized trackers for new objectives", "quest", saved.Key, "count", added)
		}
		r.trackers[saved.Key] = tracker
	}

	if added := r.UpdateTrackedQuestsFromDefinitions(); added > 0 {
		logger.Info("Synthesized trackers for new quests", "count", added)
	}
	return r, nil
}

func normalizeSavedStates(q *QuestTracker) error {
	state, err := ParseState(string(q.State))
	if err != nil {
		return questContentError(q.Key, "saved state %q is invalid", q.State)
	}
	q.State = state
	for _, obj := range q.Objectives {
		state, err := ParseState(string(obj.State))
		if err != nil {
			return objectiveContentError(q.Key, obj.ID, "saved state %q is invalid", obj.State)
		}
		obj.State = state
	}
	return nil
}

// UpdateTrackedQuestsFromDefinitions synthesizes an Inactive tracker for
// every definition that has none. Trackers without a definition are kept.
// It returns the number of trackers added.
func (r *Registry) UpdateTrackedQuestsFromDefinitions() int {
	if r.catalog == nil {
		return 0
	}
	added := 0
	for _, def := range r.catalog.Quests() {
		if _, ok := r.trackers[def.Key]; ok {
			continue
		}
		tracker := newQuestTracker(def)
		tracker.registry = r
		r.trackers[def.Key] = tracker
		r.order = append(r.order, def.Key)
		added++
	}
	return added
}

// SaveID identifies the save this registry belongs to.
func (r *Registry) SaveID() uuid.UUID {
	return r.saveID
}

// Catalog returns the definitions the registry was built from.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// SetInventory sets the inventory used by Fetch objectives.
func (r *Registry) SetInventory(inventory Inventory) {
	r.inventory = inventory
}

// SetLocator sets the position source used by Destination objectives.
func (r *Registry) SetLocator(locator Locator) {
	r.locator = locator
}

// SetNames sets the lookup used to name items, enemies and maps.
func (r *Registry) SetNames(names Names) {
	r.names = names
}

// SetText sets the presentation text.
func (r *Registry) SetText(t *text.Text) {
	r.text = t
}

func (r *Registry) textOrDefault() *text.Text {
	if r == nil || r.text == nil {
		return text.Default()
	}
	return r.text
}

// OnObjectiveStateChange registers a hook called once per objective
// transition.
func (r *Registry) OnObjectiveStateChange(hook func(ObjectiveChange)) {
	r.objectiveHooks = append(r.objectiveHooks, hook)
}

// OnQuestStateChange registers a hook called once per quest transition.
func (r *Registry) OnQuestStateChange(hook func(QuestChange)) {
	r.questHooks = append(r.questHooks, hook)
}

func (r *Registry) notifyObjective(change ObjectiveChange) {
	for _, hook := range r.objectiveHooks {
		hook(change)
	}
}

func (r *Registry) notifyQuest(change QuestChange) {
	for _, hook := range r.questHooks {
		hook(change)
	}
}

// Quest returns the tracker for key, including orphans kept from a save.
func (r *Registry) Quest(key string) (*QuestTracker, error) {
	tracker, ok := r.trackers[key]
	if !ok {
		return nil, &NotFoundError{Kind: "quest", Key: key}
	}
	return tracker, nil
}

// Definition returns the quest definition for key.
func (r *Registry) Definition(key string) (*QuestDefinition, error) {
	return r.catalog.Quest(key)
}

// Category returns the category definition for key.
func (r *Registry) Category(key string) (*CategoryDefinition, error) {
	return r.catalog.Category(key)
}

// Tag returns the tag definition for key.
func (r *Registry) Tag(key string) (*TagDefinition, error) {
	return r.catalog.Tag(key)
}

// UnlockQuestByKey unlocks the quest at its first objective.
func (r *Registry) UnlockQuestByKey(key string) (bool, error) {
	tracker, err := r.Quest(key)
	if err != nil {
		return false, err
	}
	return tracker.Unlock(), nil
}

// SetObjectiveState changes one objective of a quest. Same-state and
// backward moves report false without error.
func (r *Registry) SetObjectiveState(questKey string, id int, state State) (bool, error) {
	tracker, err := r.Quest(questKey)
	if err != nil {
		return false, err
	}
	if _, err := ParseState(string(state)); err != nil {
		return false, err
	}
	return tracker.SetObjectiveState(id, state)
}

// ReportKill counts one kill of enemyID against every valid Slay objective
// that targets it. It returns the number of objectives that moved.
func (r *Registry) ReportKill(enemyID int) int {
	counted := 0
	for _, key := range r.order {
		for _, obj := range r.trackers[key].Objectives {
			if obj.recordKill(enemyID) {
				counted++
			}
		}
	}
	if counted > 0 {
		logger.Debug("Kill reported", "enemy", enemyID, "objectives", counted)
	}
	return counted
}

// CheckFulfillment progresses every Active quest whose single Active
// objective is of type t and fulfilled. It returns the keys of the quests
// that progressed, in registry order.
func (r *Registry) CheckFulfillment(t ObjectiveType) []string {
	var progressed []string
	for _, key := range r.order {
		tracker := r.trackers[key]
		if !tracker.IsActive() {
			continue
		}
		active := tracker.ActiveObjectives()
		if len(active) != 1 {
			continue
		}
		obj := active[0]
		if !obj.IsValid(t) || !obj.IsFulfilled() {
			continue
		}
		if tracker.ProgressObjectives() {
			progressed = append(progressed, key)
		}
	}
	return progressed
}

// resolveChains completes every Active QuestChain objective that became
// fulfilled when key completed and advances their quests once nothing else
// is Active. Quests completed this way
// are resolved in turn, depth first, before it returns.
func (r *Registry) resolveChains(key string) {
	visited := map[string]bool{key: true}
	stack := []string{key}

	for len(stack) > 0 {
		completed := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, dependentKey := range r.order {
			dependent := r.trackers[dependentKey]
			if dependent.IsFinalized() {
				continue
			}
			satisfied := 0
			for _, obj := range dependent.ActiveObjectives() {
				if !waitsOn(obj, completed) || !obj.IsFulfilled() {
					continue
				}
				logger.Debug("Quest chain satisfied", "quest", dependentKey, "objective", obj.ID, "by", completed)
				obj.setState(StateCompleted)
				satisfied++
			}
			if satisfied > 0 {
				// Other Active objectives are left for the host to progress.
				if len(dependent.ActiveObjectives()) == 0 {
					dependent.advance()
				} else {
					dependent.refreshState()
				}
			}
			if dependent.IsCompleted() && !visited[dependentKey] {
				visited[dependentKey] = true
				stack = append(stack, dependentKey)
			}
		}
	}
}

func waitsOn(obj *ObjectiveTracker, key string) bool {
	if obj.def == nil {
		return false
	}
	data, ok := obj.def.Fulfillment.(QuestChainData)
	if !ok {
		return false
	}
	for _, k := range data.QuestKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Quests returns the trackers that have a definition, in registry order.
func (r *Registry) Quests() []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def != nil })
}

// Orphans returns trackers restored from a save whose definition is gone.
func (r *Registry) Orphans() []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def == nil })
}

// QuestsInCategory returns the quests filed under categoryKey.
func (r *Registry) QuestsInCategory(categoryKey string) []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def != nil && q.CategoryKey == categoryKey })
}

// QuestsInState returns the quests currently in state.
func (r *Registry) QuestsInState(state State) []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def != nil && q.State == state })
}

// QuestsWithTag returns the quests carrying tagKey.
func (r *Registry) QuestsWithTag(tagKey string) []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def != nil && q.def.HasTag(tagKey) })
}

// TrackedQuests returns the quests pinned by the player.
func (r *Registry) TrackedQuests() []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def != nil && q.Tracked })
}

// KnownQuests returns the quests the player has discovered.
func (r *Registry) KnownQuests() []*QuestTracker {
	return r.filter(func(q *QuestTracker) bool { return q.def != nil && q.IsKnown() })
}

func (r *Registry) filter(keep func(*QuestTracker) bool) []*QuestTracker {
	var result []*QuestTracker
	for _, key := range r.order {
		if tracker := r.trackers[key]; keep(tracker) {
			result = append(result, tracker)
		}
	}
	return result
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(save %s, %d quests)", r.saveID, len(r.trackers))
}
