package command

import (
	"context"
	"strings"
	"testing"

	"github.com/lawnchairsociety/questlog/internal/party"
	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/storage"
)

const testQuests = `
categories:
  - key: main
    name: Main Story
  - key: side
    name: Side Quests
tags:
  - key: cats
    name: Cats
quests:
  - key: find_cat
    name: Find the Cat
    category: side
    tags: [cats]
    unknown_hint: A distant meowing
    overview: The innkeeper's cat has gone missing.
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
        indiscriminate: {hint: Listen for meowing}
  - key: walk
    name: Go for a Walk
    category: side
    objectives:
      - id: 0
        type: destination
        description: Reach the square
        destination: {map_id: 3, x1: 5, y1: 5, x2: 10, y2: 10}
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
`

const testNames = `
items:
  7: Catnip
enemies:
  4: Slime
maps:
  3: Old Town
`

func testCatalog(t *testing.T) *quest.Catalog {
	t.Helper()
	config, err := quest.ParseQuestsYAML([]byte(testQuests))
	if err != nil {
		t.Fatalf("ParseQuestsYAML returned error: %v", err)
	}
	catalog, err := quest.NewCatalog(config)
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	return catalog
}

func testHandler(t *testing.T) (*Handler, *storage.MemoryStore) {
	t.Helper()
	names, err := party.ParseNames([]byte(testNames))
	if err != nil {
		t.Fatalf("ParseNames returned error: %v", err)
	}
	store := storage.NewMemoryStore()
	return NewHandler(testCatalog(t), Options{Names: names, Store: store}), store
}

// run executes each line and returns the output of the last one.
func run(t *testing.T, h *Handler, lines ...string) string {
	t.Helper()
	var out string
	for _, line := range lines {
		out = h.Run(context.Background(), line)
	}
	return out
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, output)
		}
	}
}

func questState(t *testing.T, h *Handler, key string) quest.State {
	t.Helper()
	q, err := h.Registry().Quest(key)
	if err != nil {
		t.Fatalf("Quest(%q) returned error: %v", key, err)
	}
	return q.State
}
