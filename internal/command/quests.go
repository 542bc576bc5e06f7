package command

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/text"
)

// executeQuest handles the quest/quests/journal command
func (h *Handler) executeQuest(c *Command) string {
	// If no args, show quest log summary
	if len(c.Args) == 0 {
		return h.showQuestSummary()
	}

	subcommand := strings.ToLower(c.Args[0])
	args := c.Args[1:]

	switch subcommand {
	case "list":
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		return h.showQuestList(category)
	case "tracked":
		return h.showTrackedQuests()
	case "show":
		if len(args) == 0 {
			return "Usage: quest show <key>"
		}
		return h.showQuestDetails(args[0])
	case "unlock":
		return h.unlockQuest(args)
	case "progress":
		return h.withQuest(args, "quest progress <key>", func(q *quest.QuestTracker) string {
			if !q.ProgressObjectives() {
				return fmt.Sprintf("%s cannot progress right now.", q.DisplayName())
			}
			return fmt.Sprintf("%s progressed.", q.Name())
		})
	case "complete":
		return h.withQuest(args, "quest complete <key>", func(q *quest.QuestTracker) string {
			q.FlagAsCompleted()
			return fmt.Sprintf("%s is now %s.", q.Name(), q.StateLabel())
		})
	case "fail":
		return h.withQuest(args, "quest fail <key>", func(q *quest.QuestTracker) string {
			q.FlagAsFailed()
			return fmt.Sprintf("%s is now %s.", q.Name(), q.StateLabel())
		})
	case "miss":
		return h.withQuest(args, "quest miss <key>", func(q *quest.QuestTracker) string {
			q.FlagAsMissed()
			return fmt.Sprintf("%s is now %s.", q.Name(), q.StateLabel())
		})
	case "reset":
		return h.withQuest(args, "quest reset <key>", func(q *quest.QuestTracker) string {
			q.Reset()
			return fmt.Sprintf("%s has been reset.", q.Name())
		})
	case "track":
		return h.trackQuest(args)
	default:
		return fmt.Sprintf("Unknown quest subcommand '%s'. Type 'help quest' for usage.", subcommand)
	}
}

// withQuest looks up the quest named by args[0] and runs fn on it.
func (h *Handler) withQuest(args []string, usage string, fn func(*quest.QuestTracker) string) string {
	if len(args) == 0 {
		return "Usage: " + usage
	}
	tracker, err := h.registry.Quest(args[0])
	if err != nil {
		return describeError(err)
	}
	return fn(tracker)
}

func (h *Handler) unlockQuest(args []string) string {
	return h.withQuest(args, "quest unlock <key> [objectiveId]", func(q *quest.QuestTracker) string {
		id := quest.CurrentObjectiveID
		if len(args) > 1 {
			parsed, err := parseObjectiveID(args[1])
			if err != nil {
				return err.Error()
			}
			id = parsed
		}

		changed, err := q.UnlockObjective(id)
		if err != nil {
			return describeError(err)
		}
		if !changed {
			return fmt.Sprintf("%s is already in your journal.", q.Name())
		}
		return fmt.Sprintf("%s added to your journal.", q.Name())
	})
}

func (h *Handler) trackQuest(args []string) string {
	return h.withQuest(args, "quest track <key> [on|off]", func(q *quest.QuestTracker) string {
		if len(args) > 1 {
			switch strings.ToLower(args[1]) {
			case "on", "yes", "true":
				q.SetTracked(true)
			case "off", "no", "false":
				q.SetTracked(false)
			default:
				return "Usage: quest track <key> [on|off]"
			}
		} else {
			q.ToggleTracked()
		}

		if q.Tracked {
			return fmt.Sprintf("Now tracking %s.", q.DisplayName())
		}
		return fmt.Sprintf("No longer tracking %s.", q.DisplayName())
	})
}

// showQuestSummary shows a brief summary of quest status
func (h *Handler) showQuestSummary() string {
	known := h.registry.KnownQuests()
	if len(known) == 0 {
		return "Your quest journal is empty."
	}

	var sb strings.Builder
	sb.WriteString("=== Quest Journal ===\n")
	for _, state := range []quest.State{quest.StateActive, quest.StateCompleted, quest.StateFailed, quest.StateMissed} {
		count := len(h.registry.QuestsInState(state))
		if count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d\n", h.stateLabel(state), count))
	}
	if tracked := len(h.registry.TrackedQuests()); tracked > 0 {
		sb.WriteString(fmt.Sprintf("Tracked: %d\n", tracked))
	}
	sb.WriteString("\nUse 'quest list' to see your quests.")

	return sb.String()
}

// showQuestList lists discovered quests grouped by category, in catalog order.
func (h *Handler) showQuestList(categoryKey string) string {
	var categories []*quest.CategoryDefinition
	if categoryKey != "" {
		category, err := h.registry.Category(categoryKey)
		if err != nil {
			return describeError(err)
		}
		categories = append(categories, category)
	} else {
		categories = h.catalog.Categories()
	}

	var sb strings.Builder
	listed := 0
	for _, category := range categories {
		quests := knownOnly(h.registry.QuestsInCategory(category.Key))
		if len(quests) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("=== %s ===\n", category.Name))
		for _, q := range quests {
			sb.WriteString(formatQuestLine(q))
		}
		sb.WriteString("\n")
		listed += len(quests)
	}

	// Quests filed under no category
	if categoryKey == "" {
		var uncategorized []*quest.QuestTracker
		for _, q := range h.registry.KnownQuests() {
			if q.CategoryKey == "" {
				uncategorized = append(uncategorized, q)
			}
		}
		if len(uncategorized) > 0 {
			sb.WriteString("=== Other ===\n")
			for _, q := range uncategorized {
				sb.WriteString(formatQuestLine(q))
			}
			sb.WriteString("\n")
			listed += len(uncategorized)
		}
	}

	if listed == 0 {
		return "You have not discovered any quests yet."
	}
	return strings.TrimSuffix(sb.String(), "\n\n")
}

func (h *Handler) showTrackedQuests() string {
	tracked := h.registry.TrackedQuests()
	if len(tracked) == 0 {
		return "You are not tracking any quests."
	}

	var sb strings.Builder
	sb.WriteString("=== Tracked Quests ===\n")
	for _, q := range tracked {
		sb.WriteString(formatQuestLine(q))
		if obj := q.CurrentObjective(); obj != nil && obj.IsKnown() {
			sb.WriteString(fmt.Sprintf("      %s\n", objectiveLabel(obj)))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// showQuestDetails shows details for a specific quest
func (h *Handler) showQuestDetails(key string) string {
	q, err := h.registry.Quest(key)
	if err != nil {
		return describeError(err)
	}
	return formatQuestDetails(h.registry, q)
}

func knownOnly(quests []*quest.QuestTracker) []*quest.QuestTracker {
	var known []*quest.QuestTracker
	for _, q := range quests {
		if q.IsKnown() {
			known = append(known, q)
		}
	}
	return known
}

func formatQuestLine(q *quest.QuestTracker) string {
	pin := " "
	if q.Tracked {
		pin = "*"
	}
	return fmt.Sprintf("%s [%s] %s (%s)\n", pin, q.StateLabel(), q.DisplayName(), q.Key)
}

// formatQuestDetails formats detailed quest information
func formatQuestDetails(r *quest.Registry, q *quest.QuestTracker) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("=== [%s] %s ===\n", q.StateLabel(), q.DisplayName()))
	if !q.IsKnown() {
		sb.WriteString("You have not discovered this quest yet.")
		return sb.String()
	}

	if category, err := r.Category(q.CategoryKey); err == nil {
		sb.WriteString(fmt.Sprintf("Category: %s\n", category.Name))
	}
	if def := q.Definition(); def != nil && len(def.TagKeys) > 0 {
		tags := make([]string, 0, len(def.TagKeys))
		for _, key := range def.TagKeys {
			if tag, err := r.Tag(key); err == nil {
				tags = append(tags, tag.Name)
			}
		}
		sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(tags, ", ")))
	}
	if def := q.Definition(); def != nil && def.RecommendedLevel > 0 {
		sb.WriteString(fmt.Sprintf("Recommended level: %d\n", def.RecommendedLevel))
	}
	if overview := q.Overview(); overview != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", overview))
	}

	objectives := q.KnownObjectives()
	if len(objectives) > 0 {
		sb.WriteString("\nObjectives:\n")
	}
	for _, obj := range objectives {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", objectiveMark(obj.State), objectiveLabel(obj)))
		if progress := obj.FulfillmentText(); progress != "" && !obj.IsFinalized() {
			sb.WriteString(fmt.Sprintf("      %s\n", progress))
		}
		if log := obj.Log(); log != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", log))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func objectiveLabel(obj *quest.ObjectiveTracker) string {
	label := obj.Description()
	if label == "" {
		label = fmt.Sprintf("Objective %d", obj.ID)
	}
	if obj.Optional {
		label += " (optional)"
	}
	return label
}

// objectiveMark returns the checkbox glyph for an objective state.
func objectiveMark(state quest.State) string {
	switch state {
	case quest.StateActive:
		return ">"
	case quest.StateCompleted:
		return "x"
	case quest.StateFailed:
		return "!"
	case quest.StateMissed:
		return "-"
	default:
		return " "
	}
}

// stateLabel returns the configured label for a state without a tracker.
func (h *Handler) stateLabel(state quest.State) string {
	t := h.text
	if t == nil {
		t = text.Default()
	}
	return t.StateLabel(string(state))
}
