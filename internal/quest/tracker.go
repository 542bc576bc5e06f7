package quest

import (
	"sort"

	"github.com/lawnchairsociety/questlog/internal/logger"
)

// CurrentObjectiveID selects the quest's current objective in the
// objective-id arguments of QuestTracker queries.
const CurrentObjectiveID = -1

// QuestTracker is the per-save progress of one quest. Its State is derived
// from its objectives and only changes through the mutators below.
type QuestTracker struct {
	Key         string              `json:"key"`
	CategoryKey string              `json:"category_key"`
	Objectives  []*ObjectiveTracker `json:"objectives"`
	State       State               `json:"state"`
	Tracked     bool                `json:"tracked"`

	def      *QuestDefinition
	registry *Registry
}

// QuestChange describes one quest state transition.
type QuestChange struct {
	QuestKey string
	From     State
	To       State
}

func newQuestTracker(def *QuestDefinition) *QuestTracker {
	q := &QuestTracker{
		Key:         def.Key,
		CategoryKey: def.CategoryKey,
		Objectives:  make([]*ObjectiveTracker, 0, len(def.Objectives)),
		State:       StateInactive,
		def:         def,
	}
	for i := range def.Objectives {
		obj := newObjectiveTracker(def.Key, &def.Objectives[i])
		obj.quest = q
		q.Objectives = append(q.Objectives, obj)
	}
	return q
}

// Definition returns the quest definition, or nil for an orphaned tracker.
func (q *QuestTracker) Definition() *QuestDefinition {
	return q.def
}

// Name returns the quest's name, or its key for an orphan.
func (q *QuestTracker) Name() string {
	if q.def == nil || q.def.Name == "" {
		return q.Key
	}
	return q.def.Name
}

// DisplayName returns the name once the quest is known and the unknown
// hint before that.
func (q *QuestTracker) DisplayName() string {
	if q.IsKnown() {
		return q.Name()
	}
	if q.def != nil && q.def.UnknownHint != "" {
		return q.def.UnknownHint
	}
	return q.registry.textOrDefault().UnknownQuest()
}

// Overview returns the quest's overview text.
func (q *QuestTracker) Overview() string {
	if q.def == nil {
		return ""
	}
	return q.def.Overview
}

func (q *QuestTracker) IsInactive() bool  { return q.State == StateInactive }
func (q *QuestTracker) IsActive() bool    { return q.State == StateActive }
func (q *QuestTracker) IsCompleted() bool { return q.State == StateCompleted }
func (q *QuestTracker) IsFailed() bool    { return q.State == StateFailed }
func (q *QuestTracker) IsMissed() bool    { return q.State == StateMissed }
func (q *QuestTracker) IsFinalized() bool { return q.State.IsFinalized() }

// IsKnown reports whether the player has discovered the quest.
func (q *QuestTracker) IsKnown() bool { return !q.IsInactive() }

// CanBeUnlocked reports whether Unlock would take effect.
func (q *QuestTracker) CanBeUnlocked() bool { return q.IsInactive() }

// live returns the objectives that take part in progression. Objectives
// removed from content since the save was written stay in Objectives for
// the save history but are skipped here.
func (q *QuestTracker) live() []*ObjectiveTracker {
	if q.def == nil {
		return q.Objectives
	}
	objectives := make([]*ObjectiveTracker, 0, len(q.Objectives))
	for _, obj := range q.Objectives {
		if obj.def != nil {
			objectives = append(objectives, obj)
		}
	}
	return objectives
}

// liveObjective is Objective restricted to objectives still in content.
func (q *QuestTracker) liveObjective(id int) (*ObjectiveTracker, error) {
	obj, err := q.Objective(id)
	if err != nil {
		return nil, err
	}
	if q.def != nil && obj.def == nil {
		return nil, &NotFoundError{Kind: "objective", Key: objectiveKey(q.Key, id)}
	}
	return obj, nil
}

// Objective returns the objective tracker with the given id, including
// orphans kept from an older save.
func (q *QuestTracker) Objective(id int) (*ObjectiveTracker, error) {
	for _, obj := range q.Objectives {
		if obj.ID == id {
			return obj, nil
		}
	}
	return nil, &NotFoundError{Kind: "objective", Key: objectiveKey(q.Key, id)}
}

// CurrentObjective returns the first Active objective, else the first
// unfinished one, else the last objective. It is nil for an empty quest.
func (q *QuestTracker) CurrentObjective() *ObjectiveTracker {
	objectives := q.live()
	if len(objectives) == 0 {
		return nil
	}
	for _, obj := range objectives {
		if obj.IsActive() {
			return obj
		}
	}
	for _, obj := range objectives {
		if !obj.IsFinalized() {
			return obj
		}
	}
	return objectives[len(objectives)-1]
}

func (q *QuestTracker) resolveObjective(id int) (*ObjectiveTracker, error) {
	if id == CurrentObjectiveID {
		if obj := q.CurrentObjective(); obj != nil {
			return obj, nil
		}
	}
	return q.liveObjective(id)
}

// ActiveObjectives returns the objectives currently Active, in id order.
func (q *QuestTracker) ActiveObjectives() []*ObjectiveTracker {
	var active []*ObjectiveTracker
	for _, obj := range q.live() {
		if obj.IsActive() {
			active = append(active, obj)
		}
	}
	return active
}

// KnownObjectives returns the objectives visible to the player.
func (q *QuestTracker) KnownObjectives() []*ObjectiveTracker {
	var known []*ObjectiveTracker
	for _, obj := range q.live() {
		if obj.IsKnown() {
			known = append(known, obj)
		}
	}
	return known
}

// IsObjectiveCompleted reports whether the objective (or the current one
// for CurrentObjectiveID) is Completed.
func (q *QuestTracker) IsObjectiveCompleted(id int) bool {
	return q.IsObjectiveInState(StateCompleted, id)
}

// IsObjectiveInState reports whether the objective is in state. Unknown
// ids report false.
func (q *QuestTracker) IsObjectiveInState(state State, id int) bool {
	obj, err := q.resolveObjective(id)
	if err != nil {
		return false
	}
	return obj.State == state
}

// CanExecuteObjectiveByID reports whether events tied to the objective may
// run: the quest is in progress and the objective is Active.
func (q *QuestTracker) CanExecuteObjectiveByID(id int) bool {
	obj, err := q.resolveObjective(id)
	if err != nil {
		return false
	}
	return q.IsActive() && obj.IsActive()
}

// ToggleTracked flips the pinned flag and returns the new value.
func (q *QuestTracker) ToggleTracked() bool {
	q.Tracked = !q.Tracked
	return q.Tracked
}

// SetTracked forces the pinned flag.
func (q *QuestTracker) SetTracked(tracked bool) {
	q.Tracked = tracked
}

// Unlock starts the quest at its first objective. It returns false with a
// warning when the quest is already known.
func (q *QuestTracker) Unlock() bool {
	objectives := q.live()
	if len(objectives) == 0 {
		return q.unlockEmpty()
	}
	changed, _ := q.UnlockObjective(objectives[0].ID)
	return changed
}

// UnlockObjective starts the quest at the given objective, or at the first
// one for CurrentObjectiveID.
func (q *QuestTracker) UnlockObjective(id int) (bool, error) {
	if !q.CanBeUnlocked() {
		logger.Warning("Quest already known, unlock ignored", "quest", q.Key, "state", q.State)
		return false, nil
	}
	objectives := q.live()
	if len(objectives) == 0 {
		return q.unlockEmpty(), nil
	}
	if id == CurrentObjectiveID {
		id = objectives[0].ID
	}
	obj, err := q.liveObjective(id)
	if err != nil {
		return false, err
	}
	obj.setState(StateActive)
	q.refreshState()
	return true, nil
}

func (q *QuestTracker) unlockEmpty() bool {
	if !q.CanBeUnlocked() {
		logger.Warning("Quest already known, unlock ignored", "quest", q.Key, "state", q.State)
		return false
	}
	return q.setState(StateActive)
}

// ProgressObjectives completes the single Active objective and moves the
// quest to its next step, fast-forwarding through steps that are already
// fulfilled. It completes the quest when no step remains and then resolves
// quest chains waiting on it before returning. With more than one Active
// objective it does nothing and returns false.
func (q *QuestTracker) ProgressObjectives() bool {
	before := q.State
	ok := q.progress()
	q.settle(before)
	return ok
}

func (q *QuestTracker) progress() bool {
	if q.IsFinalized() {
		logger.Debug("Quest already finalized, progress ignored", "quest", q.Key, "state", q.State)
		return false
	}

	active := q.ActiveObjectives()
	if len(active) > 1 {
		logger.Warning("Cannot progress quest with several active objectives", "quest", q.Key, "active", len(active))
		return false
	}
	if len(active) == 1 {
		active[0].setState(StateCompleted)
	}

	q.advance()
	return true
}

// advance fast-forwards from the next Inactive objective and completes the
// quest when nothing is left Active.
func (q *QuestTracker) advance() {
	for {
		next := q.nextInactive()
		if next == nil {
			break
		}
		if next.IsFulfilled() {
			next.setState(StateCompleted)
			continue
		}
		next.setState(StateActive)
		break
	}

	if len(q.ActiveObjectives()) == 0 {
		q.flagAsCompleted()
		return
	}
	q.refreshState()
}

func (q *QuestTracker) nextInactive() *ObjectiveTracker {
	for _, obj := range q.live() {
		if obj.IsInactive() {
			return obj
		}
	}
	return nil
}

// FlagAsCompleted completes every Active objective, marks every Inactive one
// Missed and resolves quest chains waiting on this quest.
func (q *QuestTracker) FlagAsCompleted() {
	before := q.State
	q.flagAsCompleted()
	q.settle(before)
}

func (q *QuestTracker) flagAsCompleted() {
	objectives := q.live()
	if len(objectives) == 0 {
		q.setState(StateCompleted)
		return
	}
	for _, obj := range objectives {
		switch obj.State {
		case StateActive:
			obj.setState(StateCompleted)
		case StateInactive:
			obj.setState(StateMissed)
		}
	}
	q.refreshState()
}

// FlagAsMissed marks every unfinished objective Missed.
func (q *QuestTracker) FlagAsMissed() {
	q.finalizeRemaining(StateMissed)
}

// FlagAsFailed marks every unfinished objective Failed.
func (q *QuestTracker) FlagAsFailed() {
	q.finalizeRemaining(StateFailed)
}

func (q *QuestTracker) finalizeRemaining(state State) {
	before := q.State
	objectives := q.live()
	if len(objectives) == 0 {
		q.setState(state)
		q.settle(before)
		return
	}
	for _, obj := range objectives {
		if !obj.IsFinalized() {
			obj.setState(state)
		}
	}
	q.refreshState()
	q.settle(before)
}

// SetObjectiveState moves one objective (or the current one) to state.
// Repeating the current state is a no-op and backward moves are rejected;
// both report false.
func (q *QuestTracker) SetObjectiveState(id int, state State) (bool, error) {
	obj, err := q.resolveObjective(id)
	if err != nil {
		return false, err
	}
	before := q.State
	changed := obj.setState(state)
	if changed {
		q.refreshState()
		q.settle(before)
	}
	return changed, nil
}

// Reset forces the quest and all objectives back to Inactive. It is an
// unconditional override and fires no hooks.
func (q *QuestTracker) Reset() {
	for _, obj := range q.Objectives {
		obj.reset()
	}
	q.State = StateInactive
	q.Tracked = false
	logger.Audit("Quest reset", "quest", q.Key)
}

// refreshState re-derives the quest state from its objectives.
func (q *QuestTracker) refreshState() bool {
	objectives := q.live()
	state, ok := deriveState(objectives)
	if !ok {
		if len(objectives) > 0 {
			logger.Warning("Quest objectives match no quest state, state left unchanged",
				"quest", q.Key, "state", q.State, "objectives", summarizeStates(objectives))
		}
		return false
	}
	return q.setState(state)
}

// deriveState maps objective states to a quest state. It reports false for
// an empty list and for Inactive objectives mixed with finalized ones while
// none is Active or Failed. Objectives that are all Missed give Missed
// rather than Completed.
func deriveState(objectives []*ObjectiveTracker) (State, bool) {
	if len(objectives) == 0 {
		return "", false
	}

	allInactive, allDone, allMissed := true, true, true
	anyFailed, anyActive := false, false
	for _, obj := range objectives {
		switch obj.State {
		case StateFailed:
			anyFailed = true
		case StateActive:
			anyActive = true
		}
		if obj.State != StateInactive {
			allInactive = false
		}
		if obj.State != StateCompleted && obj.State != StateMissed {
			allDone = false
		}
		if obj.State != StateMissed {
			allMissed = false
		}
	}

	switch {
	case anyFailed:
		return StateFailed, true
	case allInactive:
		return StateInactive, true
	case anyActive:
		return StateActive, true
	case allMissed:
		return StateMissed, true
	case allDone:
		return StateCompleted, true
	default:
		return "", false
	}
}

func summarizeStates(objectives []*ObjectiveTracker) map[State]int {
	counts := make(map[State]int)
	for _, obj := range objectives {
		counts[obj.State]++
	}
	return counts
}

func (q *QuestTracker) setState(state State) bool {
	if state == q.State {
		return false
	}
	change := QuestChange{QuestKey: q.Key, From: q.State, To: state}
	q.State = state
	logger.Audit("Quest state changed", "quest", q.Key, "from", change.From, "to", change.To)
	if q.registry != nil {
		q.registry.notifyQuest(change)
	}
	return true
}

// settle runs the quest-chain cascade when this call completed the quest.
func (q *QuestTracker) settle(before State) {
	if before != StateCompleted && q.IsCompleted() && q.registry != nil {
		q.registry.resolveChains(q.Key)
	}
}

// attach binds the tracker to its registry and definitions after
// construction or restore, and synthesizes trackers for objectives added
// to the definition since the save was written.
func (q *QuestTracker) attach(r *Registry, def *QuestDefinition) int {
	q.registry = r
	q.def = def
	for _, obj := range q.Objectives {
		obj.quest = q
		obj.QuestKey = q.Key
		obj.def = nil
	}
	if def == nil {
		return 0
	}
	q.CategoryKey = def.CategoryKey

	added := 0
	for i := range def.Objectives {
		objDef := &def.Objectives[i]
		obj, err := q.Objective(objDef.ID)
		if err != nil {
			obj = newObjectiveTracker(q.Key, objDef)
			obj.quest = q
			q.Objectives = append(q.Objectives, obj)
			added++
			continue
		}
		obj.def = objDef
		obj.Optional = objDef.Optional
		if obj.Type != objDef.Type() {
			logger.Warning("Objective type changed since save, counters cleared",
				"quest", q.Key, "objective", obj.ID, "saved", obj.Type, "current", objDef.Type())
			obj.Type = objDef.Type()
			obj.FetchCount = 0
			obj.SlayCount = 0
		}
	}
	sort.SliceStable(q.Objectives, func(i, j int) bool { return q.Objectives[i].ID < q.Objectives[j].ID })
	return added
}

func (q *QuestTracker) clone() *QuestTracker {
	c := *q
	c.Objectives = make([]*ObjectiveTracker, 0, len(q.Objectives))
	for _, obj := range q.Objectives {
		if obj == nil {
			continue
		}
		o := *obj
		o.quest = &c
		c.Objectives = append(c.Objectives, &o)
	}
	return &c
}
