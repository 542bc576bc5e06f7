package command

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/storage"
)

func TestSaveAndLoadGame(t *testing.T) {
	h, store := testHandler(t)
	ctx := context.Background()

	run(t, h, "quest unlock find_cat", "gain item 7", "move 3 2 2", "quest track find_cat")
	id, err := h.SaveGame(ctx)
	if err != nil {
		t.Fatalf("SaveGame returned error: %v", err)
	}
	if id != h.Registry().SaveID() {
		t.Errorf("expected save id %s, got %s", h.Registry().SaveID(), id)
	}

	saves, err := store.ListSaves(ctx)
	if err != nil || len(saves) != 1 {
		t.Fatalf("expected one save, got %v (err %v)", saves, err)
	}

	h.NewGame()
	if state := questState(t, h, "find_cat"); state != quest.StateInactive {
		t.Fatalf("expected new game to start inactive, got %s", state)
	}
	if h.Registry().SaveID() == id {
		t.Error("expected a new save id for a new game")
	}

	if err := h.LoadGame(ctx, id); err != nil {
		t.Fatalf("LoadGame returned error: %v", err)
	}

	q, _ := h.Registry().Quest("find_cat")
	if !q.IsActive() || !q.Tracked {
		t.Errorf("expected restored tracked active quest, got state=%s tracked=%v", q.State, q.Tracked)
	}
	if !q.IsObjectiveInState(quest.StateActive, 1) {
		t.Error("expected objective 1 active after restore")
	}
	if h.Party().QuantityOf(quest.ItemTypeItem, 7) != 1 {
		t.Error("expected catnip restored to the party")
	}
	if h.Party().CurrentMapID() != 3 {
		t.Errorf("expected map 3, got %d", h.Party().CurrentMapID())
	}

	// Hooks are bound to the restored registry
	assertContains(t, run(t, h, "quest progress find_cat"), "[Quest] Find the Cat: Completed")
}

func TestLoadGame_NotFound(t *testing.T) {
	h, _ := testHandler(t)

	err := h.LoadGame(context.Background(), uuid.New())
	if !errors.Is(err, storage.ErrSaveNotFound) {
		t.Errorf("expected ErrSaveNotFound, got %v", err)
	}
}

func TestSaveCommands(t *testing.T) {
	h, _ := testHandler(t)

	assertContains(t, run(t, h, "saves"), "No saved games.")

	out := run(t, h, "save")
	assertContains(t, out, "Game saved as "+h.Registry().SaveID().String())

	id := h.Registry().SaveID().String()
	assertContains(t, run(t, h, "saves"), "=== Saved Games ===", "* "+id)

	out = run(t, h, "new")
	assertContains(t, out, "Started a new game")

	assertContains(t, run(t, h, "load "+id), "Loaded game "+id)
	assertContains(t, run(t, h, "load "+uuid.New().String()), "No saved game")
	assertContains(t, run(t, h, "load nonsense"), "'nonsense' is not a save id.")
	assertContains(t, run(t, h, "load"), "Usage: load <saveId>")

	assertContains(t, run(t, h, "delete "+id), "Deleted game "+id)
	assertContains(t, run(t, h, "saves"), "No saved games.")
}

func TestSaveCommands_NoStore(t *testing.T) {
	h := NewHandler(testCatalog(t), Options{})

	for _, input := range []string{"save", "saves", "delete " + uuid.New().String(), "load " + uuid.New().String()} {
		assertContains(t, run(t, h, input), "no save store configured")
	}

	if _, err := h.SaveGame(context.Background()); !errors.Is(err, errNoStore) {
		t.Errorf("expected errNoStore, got %v", err)
	}
}
