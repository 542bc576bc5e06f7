package command

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/questlog/internal/quest"
)

// executeObjective forces one objective into a state.
func (h *Handler) executeObjective(c *Command) string {
	if err := c.RequireArgs(3, "Usage: objective <key> <id|current> <state>"); err != nil {
		return err.Error()
	}

	id, err := parseObjectiveID(c.Args[1])
	if err != nil {
		return err.Error()
	}
	state, err := quest.ParseState(c.Args[2])
	if err != nil {
		return fmt.Sprintf("Unknown state '%s'. Use inactive, active, completed, failed or missed.", c.Args[2])
	}

	changed, err := h.registry.SetObjectiveState(c.Args[0], id, state)
	if err != nil {
		return describeError(err)
	}
	if !changed {
		return "Nothing changed. Objectives only move forward."
	}
	return fmt.Sprintf("Objective set to %s.", state)
}

// executeKill reports a defeated enemy and progresses finished slay objectives.
func (h *Handler) executeKill(c *Command) string {
	if err := c.RequireArgs(1, "Usage: kill <enemyId>"); err != nil {
		return err.Error()
	}
	enemyID, err := parseInt(c.Args[0], "enemy id")
	if err != nil {
		return err.Error()
	}

	counted := h.registry.ReportKill(enemyID)
	progressed := h.registry.CheckFulfillment(quest.ObjectiveSlay)

	if counted == 0 {
		return "No objective needed that kill."
	}
	return fmt.Sprintf("Kill counted for %d objective(s).%s", counted, h.progressedSuffix(progressed))
}

// executeMove places the player and progresses reached destinations.
func (h *Handler) executeMove(c *Command) string {
	if err := c.RequireArgs(3, "Usage: move <mapId> <x> <y>"); err != nil {
		return err.Error()
	}
	var coords [3]int
	for i, name := range []string{"map id", "x", "y"} {
		n, err := parseInt(c.Args[i], name)
		if err != nil {
			return err.Error()
		}
		coords[i] = n
	}

	h.party.MoveTo(coords[0], coords[1], coords[2])
	progressed := h.registry.CheckFulfillment(quest.ObjectiveDestination)

	return fmt.Sprintf("Moved to map %d (%d, %d).%s", coords[0], coords[1], coords[2], h.progressedSuffix(progressed))
}

// parseHolding reads "<item|weapon|armor> <id> [amount]".
func parseHolding(c *Command, usage string) (quest.ItemType, int, int, error) {
	if err := c.RequireArgs(2, usage); err != nil {
		return "", 0, 0, err
	}

	var itemType quest.ItemType
	switch strings.ToLower(c.Args[0]) {
	case "item", "items":
		itemType = quest.ItemTypeItem
	case "weapon", "weapons":
		itemType = quest.ItemTypeWeapon
	case "armor", "armors", "armour":
		itemType = quest.ItemTypeArmor
	default:
		return "", 0, 0, fmt.Errorf("unknown item type '%s' (use item, weapon or armor)", c.Args[0])
	}

	id, err := parseInt(c.Args[1], "id")
	if err != nil {
		return "", 0, 0, err
	}
	amount := 1
	if len(c.Args) > 2 {
		if amount, err = parseInt(c.Args[2], "amount"); err != nil {
			return "", 0, 0, err
		}
	}
	return itemType, id, amount, nil
}

// executeGain adds to the inventory and progresses satisfied fetch objectives.
func (h *Handler) executeGain(c *Command) string {
	itemType, id, amount, err := parseHolding(c, "Usage: gain <item|weapon|armor> <id> [amount]")
	if err != nil {
		return err.Error()
	}
	total, err := h.party.Gain(itemType, id, amount)
	if err != nil {
		return err.Error()
	}
	progressed := h.registry.CheckFulfillment(quest.ObjectiveFetch)

	return fmt.Sprintf("You now have %d x %s.%s", total, h.itemName(itemType, id), h.progressedSuffix(progressed))
}

func (h *Handler) executeLose(c *Command) string {
	itemType, id, amount, err := parseHolding(c, "Usage: lose <item|weapon|armor> <id> [amount]")
	if err != nil {
		return err.Error()
	}
	total, err := h.party.Lose(itemType, id, amount)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("You now have %d x %s.", total, h.itemName(itemType, id))
}

// executeCheck re-evaluates every fulfillment type the host can satisfy.
func (h *Handler) executeCheck() string {
	var progressed []string
	for _, t := range []quest.ObjectiveType{quest.ObjectiveDestination, quest.ObjectiveFetch, quest.ObjectiveSlay} {
		progressed = append(progressed, h.registry.CheckFulfillment(t)...)
	}
	if len(progressed) == 0 {
		return "Nothing new to report."
	}
	return strings.TrimSpace(h.progressedSuffix(progressed))
}

func (h *Handler) executeParty() string {
	state := h.party.Export()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Position: %s (%d, %d)\n", h.mapName(state.Position.MapID), state.Position.X, state.Position.Y))
	if len(state.Holdings) == 0 {
		sb.WriteString("Inventory: empty")
		return sb.String()
	}
	sb.WriteString("Inventory:\n")
	for _, holding := range state.Holdings {
		sb.WriteString(fmt.Sprintf("  %d x %s\n", holding.Amount, h.itemName(holding.ItemType, holding.ItemID)))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (h *Handler) progressedSuffix(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if q, err := h.registry.Quest(key); err == nil {
			names = append(names, q.Name())
		}
	}
	return " Progressed: " + strings.Join(names, ", ") + "."
}

func (h *Handler) itemName(itemType quest.ItemType, id int) string {
	if h.names != nil {
		if name := h.names.ItemName(itemType, id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%s #%d", itemType, id)
}

func (h *Handler) mapName(id int) string {
	if h.names != nil {
		if name := h.names.MapName(id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Map #%d", id)
}
