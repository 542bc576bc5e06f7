package quest

import (
	"strconv"
	"strings"

	"github.com/lawnchairsociety/questlog/internal/text"
)

// FulfillmentText renders the objective's progress line from the text
// templates and the host's names.
func (o *ObjectiveTracker) FulfillmentText() string {
	if o.def == nil {
		return ""
	}
	r := o.registry()
	template := r.textOrDefault().FulfillmentTemplate(string(o.Type))

	switch data := o.def.Fulfillment.(type) {
	case IndiscriminateData:
		return text.Expand(template, map[string]string{"hint": data.Hint})
	case DestinationData:
		return text.Expand(template, map[string]string{
			"map": r.mapName(data.MapID),
			"x1":  strconv.Itoa(data.X1),
			"y1":  strconv.Itoa(data.Y1),
			"x2":  strconv.Itoa(data.X2),
			"y2":  strconv.Itoa(data.Y2),
		})
	case FetchData:
		o.syncFetchCount()
		return text.Expand(template, map[string]string{
			"item":    r.itemName(data.ItemType, data.ItemID),
			"current": strconv.Itoa(min(o.FetchCount, data.Amount)),
			"amount":  strconv.Itoa(data.Amount),
		})
	case SlayData:
		return text.Expand(template, map[string]string{
			"enemy":   r.enemyName(data.EnemyID),
			"current": strconv.Itoa(o.SlayCount),
			"amount":  strconv.Itoa(data.Amount),
		})
	case QuestChainData:
		names := make([]string, 0, len(data.QuestKeys))
		for _, key := range data.QuestKeys {
			names = append(names, r.questDisplayName(key))
		}
		return text.Expand(template, map[string]string{"quests": strings.Join(names, ", ")})
	default:
		return ""
	}
}

// StateLabel returns the display label of the quest's state.
func (q *QuestTracker) StateLabel() string {
	return q.registry.textOrDefault().StateLabel(string(q.State))
}

// IconIndexByState returns the presentation icon for the quest's state.
func (q *QuestTracker) IconIndexByState() int {
	return q.registry.textOrDefault().IconIndex(string(q.State))
}

func (r *Registry) itemName(itemType ItemType, id int) string {
	if r != nil && r.names != nil {
		if name := r.names.ItemName(itemType, id); name != "" {
			return name
		}
	}
	label := "Item"
	switch itemType {
	case ItemTypeWeapon:
		label = "Weapon"
	case ItemTypeArmor:
		label = "Armor"
	}
	return label + " #" + strconv.Itoa(id)
}

func (r *Registry) enemyName(id int) string {
	if r != nil && r.names != nil {
		if name := r.names.EnemyName(id); name != "" {
			return name
		}
	}
	return "Enemy #" + strconv.Itoa(id)
}

func (r *Registry) mapName(id int) string {
	if r != nil && r.names != nil {
		if name := r.names.MapName(id); name != "" {
			return name
		}
	}
	return "Map #" + strconv.Itoa(id)
}

func (r *Registry) questDisplayName(key string) string {
	if r == nil {
		return key
	}
	if tracker, ok := r.trackers[key]; ok {
		return tracker.DisplayName()
	}
	return key
}
