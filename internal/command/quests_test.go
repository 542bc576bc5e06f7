package command

import (
	"strings"
	"testing"

	"github.com/lawnchairsociety/questlog/internal/quest"
)

func TestQuestSummary(t *testing.T) {
	h, _ := testHandler(t)

	if out := run(t, h, "quest"); out != "Your quest journal is empty." {
		t.Errorf("unexpected empty journal output: %q", out)
	}

	out := run(t, h, "quest unlock find_cat", "quest track find_cat", "quest")
	assertContains(t, out, "=== Quest Journal ===", "In Progress: 1", "Tracked: 1")
}

func TestQuestUnlock(t *testing.T) {
	h, _ := testHandler(t)

	out := run(t, h, "quest unlock find_cat")
	assertContains(t, out,
		"Find the Cat added to your journal.",
		"[Objective] New: Buy catnip",
		"[Quest] Find the Cat: In Progress",
	)

	out = run(t, h, "quest unlock find_cat")
	assertContains(t, out, "already in your journal")
	if strings.Contains(out, "[Quest]") {
		t.Errorf("repeated unlock should not report a change, got:\n%s", out)
	}
}

func TestQuestUnlock_AtObjective(t *testing.T) {
	h, _ := testHandler(t)

	run(t, h, "quest unlock find_cat 1")

	q, _ := h.Registry().Quest("find_cat")
	if !q.IsObjectiveInState(quest.StateActive, 1) {
		t.Error("expected objective 1 to be active")
	}
	if !q.IsObjectiveInState(quest.StateInactive, 0) {
		t.Error("expected objective 0 to stay inactive")
	}
}

func TestQuestUnlock_Errors(t *testing.T) {
	h, _ := testHandler(t)

	tests := []struct {
		input string
		want  string
	}{
		{"quest unlock", "Usage: quest unlock"},
		{"quest unlock dragon", "No quest named 'dragon'."},
		{"quest unlock find_cat 9", "No objective named 'find_cat#9'."},
		{"quest unlock find_cat x", "objective id must be a number"},
		{"quest dance", "Unknown quest subcommand"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertContains(t, run(t, h, tt.input), tt.want)
		})
	}

	if state := questState(t, h, "find_cat"); state != quest.StateInactive {
		t.Errorf("expected find_cat to stay inactive, got %s", state)
	}
}

func TestQuestProgress(t *testing.T) {
	h, _ := testHandler(t)

	out := run(t, h, "quest unlock find_cat", "quest progress find_cat")
	assertContains(t, out, "Find the Cat progressed.", "[Objective] Done: Buy catnip", "[Objective] New: Find the cat")

	out = run(t, h, "quest progress find_cat")
	assertContains(t, out, "[Quest] Find the Cat: Completed")

	out = run(t, h, "quest progress find_cat")
	assertContains(t, out, "cannot progress right now")
}

func TestQuestFinalizers(t *testing.T) {
	tests := []struct {
		sub  string
		want quest.State
	}{
		{"complete", quest.StateCompleted},
		{"fail", quest.StateFailed},
		{"miss", quest.StateMissed},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			h, _ := testHandler(t)
			run(t, h, "quest unlock slimes")
			out := run(t, h, "quest "+tt.sub+" slimes")

			if state := questState(t, h, "slimes"); state != tt.want {
				t.Errorf("expected %s, got %s", tt.want, state)
			}
			assertContains(t, out, "Slime Trouble is now")
		})
	}
}

func TestQuestReset(t *testing.T) {
	h, _ := testHandler(t)

	out := run(t, h, "quest unlock slimes", "quest track slimes", "quest reset slimes")
	assertContains(t, out, "Slime Trouble has been reset.")
	if strings.Contains(out, "[Quest]") {
		t.Errorf("reset should not fire quest notices, got:\n%s", out)
	}

	q, _ := h.Registry().Quest("slimes")
	if !q.IsInactive() || q.Tracked {
		t.Errorf("expected inactive untracked quest, got state=%s tracked=%v", q.State, q.Tracked)
	}
}

func TestQuestTrack(t *testing.T) {
	h, _ := testHandler(t)

	assertContains(t, run(t, h, "quest track walk"), "Now tracking")
	assertContains(t, run(t, h, "quest track walk"), "No longer tracking")
	assertContains(t, run(t, h, "quest track walk on"), "Now tracking")
	assertContains(t, run(t, h, "quest track walk off"), "No longer tracking")
	assertContains(t, run(t, h, "quest track walk maybe"), "Usage: quest track")
}

func TestQuestTracked(t *testing.T) {
	h, _ := testHandler(t)

	assertContains(t, run(t, h, "quest tracked"), "not tracking any quests")

	out := run(t, h, "quest unlock walk", "quest track walk", "quest tracked")
	assertContains(t, out, "=== Tracked Quests ===", "* [In Progress] Go for a Walk (walk)", "Reach the square")
}

func TestQuestList(t *testing.T) {
	h, _ := testHandler(t)

	assertContains(t, run(t, h, "quest list"), "not discovered any quests")

	out := run(t, h, "quest unlock find_cat", "quest unlock slimes", "quest list")
	assertContains(t, out,
		"=== Main Story ===",
		"[In Progress] Slime Trouble (slimes)",
		"=== Side Quests ===",
		"[In Progress] Find the Cat (find_cat)",
	)
	if strings.Index(out, "Main Story") > strings.Index(out, "Side Quests") {
		t.Errorf("expected categories in catalog order, got:\n%s", out)
	}
	if strings.Contains(out, "walk") {
		t.Errorf("undiscovered quests should not be listed, got:\n%s", out)
	}

	out = run(t, h, "quest list side")
	assertContains(t, out, "Find the Cat")
	if strings.Contains(out, "Slime Trouble") {
		t.Errorf("expected only side quests, got:\n%s", out)
	}

	assertContains(t, run(t, h, "quest list nowhere"), "No category named 'nowhere'.")
}

func TestQuestShow(t *testing.T) {
	h, _ := testHandler(t)

	out := run(t, h, "quest show find_cat")
	assertContains(t, out, "=== [Unknown] A distant meowing ===", "not discovered this quest yet")

	out = run(t, h, "quest unlock find_cat", "quest show find_cat")
	assertContains(t, out,
		"=== [In Progress] Find the Cat ===",
		"Category: Side Quests",
		"Tags: Cats",
		"The innkeeper's cat has gone missing.",
		"[>] Buy catnip",
		"Acquire Catnip: 0/1",
	)
	if strings.Contains(out, "Find the cat") {
		t.Errorf("hidden objective should not be shown, got:\n%s", out)
	}

	out = run(t, h, "gain item 7", "quest show find_cat")
	assertContains(t, out,
		"[x] Buy catnip",
		"[>] Find the cat",
		"Listen for meowing",
		"The cat is somewhere in town.",
	)

	assertContains(t, run(t, h, "quest show"), "Usage: quest show <key>")
}
