package quest

import "testing"

type fakeInventory map[ItemType]map[int]int

func (f fakeInventory) QuantityOf(itemType ItemType, itemID int) int {
	return f[itemType][itemID]
}

func (f fakeInventory) set(itemType ItemType, itemID, amount int) {
	if f[itemType] == nil {
		f[itemType] = make(map[int]int)
	}
	f[itemType][itemID] = amount
}

type fakeLocator struct {
	mapID int
	x, y  int
}

func (f *fakeLocator) CurrentMapID() int          { return f.mapID }
func (f *fakeLocator) PlayerPosition() (int, int) { return f.x, f.y }

type fakeNames struct{}

func (fakeNames) ItemName(itemType ItemType, itemID int) string {
	if itemType == ItemTypeItem && itemID == 7 {
		return "Catnip"
	}
	return ""
}

func (fakeNames) EnemyName(enemyID int) string {
	if enemyID == 4 {
		return "Slime"
	}
	return ""
}

func (fakeNames) MapName(mapID int) string {
	if mapID == 3 {
		return "Old Town"
	}
	return ""
}

const testContent = `
categories:
  - key: main
    name: Main Story
    icon_index: 1
  - key: side
    name: Side Quests
  - key: divider
    name: "== Hidden Divider =="
tags:
  - key: cats
    name: Cats
quests:
  - key: find_cat
    name: Find the Cat
    category: side
    tags: [cats]
    unknown_hint: A distant meowing
    objectives:
      - id: 0
        type: fetch
        description: Buy catnip
        fetch: {item_type: item, item_id: 7, amount: 1}
      - id: 1
        type: indiscriminate
        description: Find the cat
        hidden: true
        logs:
          discovered: The cat is somewhere in town.
          completed: You found the cat.
        indiscriminate: {hint: Listen for meowing}
  - key: walk
    name: Go for a Walk
    category: side
    objectives:
      - id: 0
        type: destination
        description: Reach the square
        destination: {map_id: 3, x1: 10, y1: 10, x2: 5, y2: 5}
  - key: slimes
    name: Slime Trouble
    category: main
    objectives:
      - id: 0
        type: slay
        description: Defeat slimes
        slay: {enemy_id: 4, amount: 2}
  - key: chain
    name: The Long Road
    category: main
    objectives:
      - id: 0
        type: quest
        description: Help the town
        quest: {keys: [find_cat, walk]}
      - id: 1
        type: indiscriminate
        description: Report back
  - key: empty
    name: Nothing To Do
  - key: divider_quest
    name: "__ Act Two __"
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	config, err := ParseQuestsYAML([]byte(testContent))
	if err != nil {
		t.Fatalf("ParseQuestsYAML returned error: %v", err)
	}
	catalog, err := NewCatalog(config)
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	return catalog
}

func testRegistry(t *testing.T) (*Registry, fakeInventory, *fakeLocator) {
	t.Helper()
	r := NewRegistry(testCatalog(t))
	inv := fakeInventory{}
	loc := &fakeLocator{}
	r.SetInventory(inv)
	r.SetLocator(loc)
	r.SetNames(fakeNames{})
	return r, inv, loc
}

func mustQuest(t *testing.T, r *Registry, key string) *QuestTracker {
	t.Helper()
	q, err := r.Quest(key)
	if err != nil {
		t.Fatalf("Quest(%q) returned error: %v", key, err)
	}
	return q
}

func objectiveStates(q *QuestTracker) []State {
	states := make([]State, len(q.Objectives))
	for i, obj := range q.Objectives {
		states[i] = obj.State
	}
	return states
}

func assertStates(t *testing.T, q *QuestTracker, want ...State) {
	t.Helper()
	got := objectiveStates(q)
	if len(got) != len(want) {
		t.Fatalf("quest %s has %d objectives, want %d", q.Key, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("quest %s objective %d state = %s, want %s", q.Key, i, got[i], want[i])
		}
	}
}

// standalone builds a tracker outside any registry with the given
// objective states.
func standalone(states ...State) *QuestTracker {
	def := &QuestDefinition{Key: "solo", Name: "Solo"}
	for i := range states {
		def.Objectives = append(def.Objectives, ObjectiveDefinition{ID: i, Fulfillment: IndiscriminateData{}})
	}
	q := newQuestTracker(def)
	for i, s := range states {
		q.Objectives[i].State = s
	}
	return q
}
