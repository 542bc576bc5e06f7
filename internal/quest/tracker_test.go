package quest

import (
	"errors"
	"testing"
)

func TestDeriveState(t *testing.T) {
	tests := []struct {
		name   string
		states []State
		want   State
		ok     bool
	}{
		{"any failed dominates", []State{StateActive, StateFailed, StateCompleted}, StateFailed, true},
		{"all inactive", []State{StateInactive, StateInactive}, StateInactive, true},
		{"any active", []State{StateCompleted, StateActive, StateInactive}, StateActive, true},
		{"completed and missed", []State{StateCompleted, StateMissed}, StateCompleted, true},
		{"all completed", []State{StateCompleted, StateCompleted}, StateCompleted, true},
		{"all missed", []State{StateMissed, StateMissed}, StateMissed, true},
		{"inactive with missed", []State{StateInactive, StateMissed}, "", false},
		{"inactive with completed", []State{StateCompleted, StateInactive}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := deriveState(standalone(tt.states...).Objectives)
			if got != tt.want || ok != tt.ok {
				t.Errorf("deriveState = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRefreshState_UnresolvedLeavesStateUnchanged(t *testing.T) {
	q := standalone(StateInactive, StateMissed)
	q.State = StateActive

	if q.refreshState() {
		t.Error("Unresolved mixture should not change state")
	}
	if q.State != StateActive {
		t.Errorf("State = %s, want active", q.State)
	}
}

func TestUnlock(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "find_cat")

	if !q.CanBeUnlocked() {
		t.Fatal("Fresh quest should be unlockable")
	}
	if !q.Unlock() {
		t.Fatal("First unlock should succeed")
	}
	assertStates(t, q, StateActive, StateInactive)
	if !q.IsActive() {
		t.Errorf("Quest state = %s, want active", q.State)
	}

	if q.Unlock() {
		t.Error("Second unlock should be ignored")
	}
	assertStates(t, q, StateActive, StateInactive)
}

func TestUnlockObjective(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "find_cat")

	if _, err := q.UnlockObjective(9); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unknown objective should return ErrNotFound, got %v", err)
	}
	ok, err := q.UnlockObjective(1)
	if err != nil || !ok {
		t.Fatalf("UnlockObjective(1) = (%v, %v)", ok, err)
	}
	assertStates(t, q, StateInactive, StateActive)
	if q.Objectives[1].Hidden {
		t.Error("Unlocked objective should be revealed")
	}
}

func TestProgressObjectives_ZeroObjectives(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "empty")

	if !q.ProgressObjectives() {
		t.Fatal("Progress on an empty quest should succeed")
	}
	if !q.IsCompleted() {
		t.Errorf("Empty quest should complete immediately, got %s", q.State)
	}
}

func TestProgressObjectives_FindCatScenario(t *testing.T) {
	r, inv, _ := testRegistry(t)
	q := mustQuest(t, r, "find_cat")

	q.Unlock()
	assertStates(t, q, StateActive, StateInactive)

	inv.set(ItemTypeItem, 7, 1)
	if !q.ProgressObjectives() {
		t.Fatal("ProgressObjectives should succeed")
	}
	assertStates(t, q, StateCompleted, StateActive)
	if !q.IsActive() {
		t.Errorf("Quest should remain active, got %s", q.State)
	}

	q.ProgressObjectives()
	assertStates(t, q, StateCompleted, StateCompleted)
	if !q.IsCompleted() {
		t.Errorf("Quest should be completed, got %s", q.State)
	}
	if q.ProgressObjectives() {
		t.Error("Progress on a finalized quest should be ignored")
	}
}

func TestProgressObjectives_FastForward(t *testing.T) {
	def := &QuestDefinition{Key: "errands", Objectives: []ObjectiveDefinition{
		{ID: 0, Fulfillment: IndiscriminateData{}},
		{ID: 1, Fulfillment: FetchData{ItemType: ItemTypeItem, ItemID: 1, Amount: 1}},
		{ID: 2, Fulfillment: FetchData{ItemType: ItemTypeArmor, ItemID: 2, Amount: 2}},
		{ID: 3, Fulfillment: IndiscriminateData{}},
	}}
	catalog := &Catalog{
		quests:        []*QuestDefinition{def},
		questIndex:    map[string]*QuestDefinition{def.Key: def},
		categoryIndex: map[string]*CategoryDefinition{},
		tagIndex:      map[string]*TagDefinition{},
	}
	r := NewRegistry(catalog)
	inv := fakeInventory{}
	inv.set(ItemTypeItem, 1, 1)
	inv.set(ItemTypeArmor, 2, 2)
	r.SetInventory(inv)

	q := mustQuest(t, r, "errands")
	q.Unlock()
	q.ProgressObjectives()
	assertStates(t, q, StateCompleted, StateCompleted, StateCompleted, StateActive)

	q.ProgressObjectives()
	if !q.IsCompleted() {
		t.Errorf("Quest should complete after the last step, got %s", q.State)
	}
}

func TestProgressObjectives_SeveralActiveAborts(t *testing.T) {
	q := standalone(StateActive, StateActive, StateInactive)
	q.State = StateActive

	if q.ProgressObjectives() {
		t.Error("Progress with two active objectives should abort")
	}
	assertStates(t, q, StateActive, StateActive, StateInactive)
}

func TestProgressObjectives_LastStepCompletes(t *testing.T) {
	q := standalone(StateCompleted, StateActive)
	q.State = StateActive

	q.ProgressObjectives()
	assertStates(t, q, StateCompleted, StateCompleted)
	if !q.IsCompleted() {
		t.Errorf("Quest state = %s, want completed", q.State)
	}
}

func TestFlagAsFailed(t *testing.T) {
	q := standalone(StateActive, StateInactive, StateCompleted)
	q.State = StateActive

	q.FlagAsFailed()
	assertStates(t, q, StateFailed, StateFailed, StateCompleted)
	if !q.IsFailed() {
		t.Errorf("Quest state = %s, want failed", q.State)
	}
}

func TestFlagAsMissed(t *testing.T) {
	q := standalone(StateActive, StateInactive)
	q.State = StateActive

	q.FlagAsMissed()
	assertStates(t, q, StateMissed, StateMissed)
	if !q.IsMissed() {
		t.Errorf("Quest state = %s, want missed", q.State)
	}

	partial := standalone(StateCompleted, StateActive)
	partial.State = StateActive
	partial.FlagAsMissed()
	if !partial.IsCompleted() {
		t.Errorf("Completed and missed objectives aggregate to completed, got %s", partial.State)
	}
}

func TestFlagAsCompleted(t *testing.T) {
	q := standalone(StateCompleted, StateActive, StateInactive)
	q.State = StateActive

	q.FlagAsCompleted()
	assertStates(t, q, StateCompleted, StateCompleted, StateMissed)
	if !q.IsCompleted() {
		t.Errorf("Quest state = %s, want completed", q.State)
	}
}

func TestFlagOnEmptyQuest(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "empty")
	q.FlagAsFailed()
	if !q.IsFailed() {
		t.Errorf("Empty quest should fail directly, got %s", q.State)
	}
}

func TestSetObjectiveState(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "find_cat")
	q.Unlock()

	changed, err := q.SetObjectiveState(0, StateCompleted)
	if err != nil || !changed {
		t.Fatalf("SetObjectiveState = (%v, %v)", changed, err)
	}
	if q.State != StateActive {
		t.Errorf("Completed plus inactive leaves the quest as it was, got %s", q.State)
	}

	changed, err = q.SetObjectiveState(0, StateCompleted)
	if err != nil || changed {
		t.Errorf("Repeated state should be a no-op, got (%v, %v)", changed, err)
	}

	changed, _ = q.SetObjectiveState(1, StateFailed)
	if !changed || !q.IsFailed() {
		t.Errorf("Failing an objective should fail the quest, got %s", q.State)
	}

	if _, err := q.SetObjectiveState(42, StateActive); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unknown objective should return ErrNotFound, got %v", err)
	}
}

func TestReset(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "find_cat")
	var fired int
	r.OnQuestStateChange(func(QuestChange) { fired++ })

	q.Unlock()
	q.SetTracked(true)
	q.FlagAsFailed()
	fired = 0

	q.Reset()
	assertStates(t, q, StateInactive, StateInactive)
	if !q.IsInactive() || q.Tracked {
		t.Errorf("Reset should clear state and tracking, got %s tracked=%v", q.State, q.Tracked)
	}
	if !q.Objectives[1].Hidden {
		t.Error("Reset should restore hidden objectives")
	}
	if fired != 0 {
		t.Errorf("Reset should fire no hooks, fired %d", fired)
	}
	if !q.Unlock() {
		t.Error("Quest should be unlockable after reset")
	}
}

func TestCurrentObjectiveQueries(t *testing.T) {
	r, _, _ := testRegistry(t)
	q := mustQuest(t, r, "find_cat")

	if q.CurrentObjective().ID != 0 {
		t.Errorf("Current objective of a fresh quest should be 0, got %d", q.CurrentObjective().ID)
	}
	if q.CanExecuteObjectiveByID(CurrentObjectiveID) {
		t.Error("Inactive quest should not execute objectives")
	}

	q.UnlockObjective(1)
	if q.CurrentObjective().ID != 1 {
		t.Errorf("Current objective should be the active one, got %d", q.CurrentObjective().ID)
	}
	if !q.CanExecuteObjectiveByID(1) || q.CanExecuteObjectiveByID(0) {
		t.Error("Only the active objective should execute")
	}
	if !q.IsObjectiveInState(StateActive, CurrentObjectiveID) {
		t.Error("Current objective should be active")
	}
	if q.IsObjectiveCompleted(1) {
		t.Error("Objective 1 should not be completed yet")
	}
	if q.IsObjectiveInState(StateActive, 99) {
		t.Error("Unknown objective should report false")
	}

	q.SetObjectiveState(1, StateCompleted)
	if !q.IsObjectiveCompleted(1) {
		t.Error("Objective 1 should be completed")
	}
	if len(q.ActiveObjectives()) != 0 {
		t.Errorf("No objective should be active, got %d", len(q.ActiveObjectives()))
	}
}

func TestDisplayName(t *testing.T) {
	r, _, _ := testRegistry(t)

	findCat := mustQuest(t, r, "find_cat")
	if findCat.DisplayName() != "A distant meowing" {
		t.Errorf("Unknown quest should show its hint, got %q", findCat.DisplayName())
	}
	if mustQuest(t, r, "walk").DisplayName() != "???" {
		t.Errorf("Unknown quest without hint should use the placeholder, got %q", mustQuest(t, r, "walk").DisplayName())
	}
	findCat.Unlock()
	if findCat.DisplayName() != "Find the Cat" {
		t.Errorf("Known quest should show its name, got %q", findCat.DisplayName())
	}
}

func TestToggleTracked(t *testing.T) {
	q := standalone(StateInactive)
	if !q.ToggleTracked() || !q.Tracked {
		t.Error("First toggle should pin the quest")
	}
	if q.ToggleTracked() {
		t.Error("Second toggle should unpin the quest")
	}
	q.SetTracked(true)
	if !q.Tracked {
		t.Error("SetTracked(true) should pin the quest")
	}
	if q.State != StateInactive {
		t.Error("Tracking should not affect state")
	}
}

func TestQuestHooksFireOncePerTransition(t *testing.T) {
	r, inv, _ := testRegistry(t)
	var changes []QuestChange
	r.OnQuestStateChange(func(c QuestChange) { changes = append(changes, c) })

	q := mustQuest(t, r, "find_cat")
	q.Unlock()
	q.Unlock()
	inv.set(ItemTypeItem, 7, 1)
	q.ProgressObjectives()
	q.ProgressObjectives()

	want := []QuestChange{
		{QuestKey: "find_cat", From: StateInactive, To: StateActive},
		{QuestKey: "find_cat", From: StateActive, To: StateCompleted},
	}
	if len(changes) != len(want) {
		t.Fatalf("Hook fired %d times, want %d: %+v", len(changes), len(want), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Change %d = %+v, want %+v", i, changes[i], want[i])
		}
	}
}
