package quest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawnchairsociety/questlog/internal/logger"
	"gopkg.in/yaml.v3"
)

// dividerPrefixes mark entries content authors use as list separators.
var dividerPrefixes = []string{"__", "=="}

// isDivider reports whether an entry name is an organizational divider.
func isDivider(name string) bool {
	for _, prefix := range dividerPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ObjectiveLogsYAML for YAML parsing
type ObjectiveLogsYAML struct {
	Inactive   string `yaml:"inactive"`
	Discovered string `yaml:"discovered"`
	Completed  string `yaml:"completed"`
	Failed     string `yaml:"failed"`
	Missed     string `yaml:"missed"`
}

// DestinationYAML for YAML parsing
type DestinationYAML struct {
	MapID int `yaml:"map_id"`
	X1    int `yaml:"x1"`
	Y1    int `yaml:"y1"`
	X2    int `yaml:"x2"`
	Y2    int `yaml:"y2"`
}

// FetchYAML for YAML parsing
type FetchYAML struct {
	ItemType string `yaml:"item_type"` // item, weapon, armor
	ItemID   int    `yaml:"item_id"`
	Amount   int    `yaml:"amount"`
}

// SlayYAML for YAML parsing
type SlayYAML struct {
	EnemyID int `yaml:"enemy_id"`
	Amount  int `yaml:"amount"`
}

// QuestChainYAML for YAML parsing
type QuestChainYAML struct {
	Keys []string `yaml:"keys"`
}

// IndiscriminateYAML for YAML parsing
type IndiscriminateYAML struct {
	Hint string `yaml:"hint"`
}

// ObjectiveYAML for YAML parsing. Exactly the block matching Type may be set.
type ObjectiveYAML struct {
	ID             int                 `yaml:"id"`
	Type           string              `yaml:"type"`
	Description    string              `yaml:"description"`
	Logs           ObjectiveLogsYAML   `yaml:"logs"`
	Hidden         bool                `yaml:"hidden"`
	Optional       bool                `yaml:"optional"`
	Indiscriminate *IndiscriminateYAML `yaml:"indiscriminate"`
	Destination    *DestinationYAML    `yaml:"destination"`
	Fetch          *FetchYAML          `yaml:"fetch"`
	Slay           *SlayYAML           `yaml:"slay"`
	Quest          *QuestChainYAML     `yaml:"quest"`
}

// QuestYAML for YAML parsing
type QuestYAML struct {
	Key              string          `yaml:"key"`
	Name             string          `yaml:"name"`
	Category         string          `yaml:"category"`
	Tags             []string        `yaml:"tags"`
	UnknownHint      string          `yaml:"unknown_hint"`
	Overview         string          `yaml:"overview"`
	RecommendedLevel int             `yaml:"recommended_level"`
	Objectives       []ObjectiveYAML `yaml:"objectives"`
}

// LabelYAML for YAML parsing of categories and tags
type LabelYAML struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	IconIndex   int    `yaml:"icon_index"`
	Description string `yaml:"description"`
}

// QuestsConfig represents the quests.yaml structure
type QuestsConfig struct {
	Categories []LabelYAML `yaml:"categories"`
	Tags       []LabelYAML `yaml:"tags"`
	Quests     []QuestYAML `yaml:"quests"`
}

// LoadQuestsFromYAML loads quest definitions from a YAML file
func LoadQuestsFromYAML(filename string) (*QuestsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read quests file: %w", err)
	}
	return ParseQuestsYAML(data)
}

// ParseQuestsYAML parses a quests document.
func ParseQuestsYAML(data []byte) (*QuestsConfig, error) {
	var config QuestsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse quests YAML: %w", err)
	}
	return &config, nil
}

// Merge appends another QuestsConfig. Later entries win on duplicate keys
// when the catalog is built.
func (config *QuestsConfig) Merge(other *QuestsConfig) {
	if other == nil {
		return
	}
	config.Categories = append(config.Categories, other.Categories...)
	config.Tags = append(config.Tags, other.Tags...)
	config.Quests = append(config.Quests, other.Quests...)
}

// LoadQuestsFromDirectory loads and merges all YAML files from a directory
// in file name order.
func LoadQuestsFromDirectory(dir string) (*QuestsConfig, error) {
	merged := &QuestsConfig{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	fileCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		filePath := filepath.Join(dir, name)
		config, err := LoadQuestsFromYAML(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		merged.Merge(config)
		fileCount++
		logger.Debug("Loaded quest file", "path", filePath, "quests", len(config.Quests))
	}

	logger.Info("Loaded quests from directory", "dir", dir, "files", fileCount, "total_quests", len(merged.Quests))
	return merged, nil
}

// LoadQuests loads a single file or a directory of files.
func LoadQuests(path string) (*QuestsConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat quests path: %w", err)
	}
	if info.IsDir() {
		return LoadQuestsFromDirectory(path)
	}
	return LoadQuestsFromYAML(path)
}

// createQuestFromYAML converts a YAML definition to a QuestDefinition
func createQuestFromYAML(def *QuestYAML) (*QuestDefinition, error) {
	if strings.TrimSpace(def.Key) == "" {
		return nil, questContentError(def.Name, "quest key is empty")
	}

	objectives := make([]ObjectiveDefinition, 0, len(def.Objectives))
	seen := make(map[int]bool, len(def.Objectives))
	for i := range def.Objectives {
		objDef := &def.Objectives[i]
		if seen[objDef.ID] {
			return nil, objectiveContentError(def.Key, objDef.ID, "duplicate objective id")
		}
		seen[objDef.ID] = true

		fulfillment, err := parseFulfillment(def.Key, objDef)
		if err != nil {
			return nil, err
		}

		objectives = append(objectives, ObjectiveDefinition{
			ID:          objDef.ID,
			Description: objDef.Description,
			Logs: ObjectiveLogs{
				Inactive:   objDef.Logs.Inactive,
				Discovered: objDef.Logs.Discovered,
				Completed:  objDef.Logs.Completed,
				Failed:     objDef.Logs.Failed,
				Missed:     objDef.Logs.Missed,
			},
			Fulfillment:     fulfillment,
			HiddenByDefault: objDef.Hidden,
			Optional:        objDef.Optional,
		})
	}
	sort.SliceStable(objectives, func(i, j int) bool { return objectives[i].ID < objectives[j].ID })

	tags := def.Tags
	if tags == nil {
		tags = []string{}
	}
	if def.RecommendedLevel < 0 {
		return nil, questContentError(def.Key, "recommended level %d is negative", def.RecommendedLevel)
	}

	return &QuestDefinition{
		Key:              def.Key,
		Name:             def.Name,
		CategoryKey:      def.Category,
		TagKeys:          tags,
		UnknownHint:      def.UnknownHint,
		Overview:         def.Overview,
		RecommendedLevel: def.RecommendedLevel,
		Objectives:       objectives,
	}, nil
}

// parseFulfillment builds the payload for the declared type and rejects
// blocks that belong to another type.
func parseFulfillment(questKey string, def *ObjectiveYAML) (Fulfillment, error) {
	objType := ObjectiveType(strings.ToLower(strings.TrimSpace(def.Type)))

	blocks := map[ObjectiveType]bool{
		ObjectiveIndiscriminate: def.Indiscriminate != nil,
		ObjectiveDestination:    def.Destination != nil,
		ObjectiveFetch:          def.Fetch != nil,
		ObjectiveSlay:           def.Slay != nil,
		ObjectiveQuestChain:     def.Quest != nil,
	}
	for blockType, present := range blocks {
		if present && blockType != objType {
			return nil, objectiveContentError(questKey, def.ID, "%s data given for %q objective", blockType, def.Type)
		}
	}

	switch objType {
	case ObjectiveIndiscriminate:
		data := IndiscriminateData{}
		if def.Indiscriminate != nil {
			data.Hint = def.Indiscriminate.Hint
		}
		return data, nil
	case ObjectiveDestination:
		if def.Destination == nil {
			return nil, objectiveContentError(questKey, def.ID, "destination objective without destination data")
		}
		d := def.Destination
		return DestinationData{
			MapID: d.MapID,
			X1:    min(d.X1, d.X2),
			Y1:    min(d.Y1, d.Y2),
			X2:    max(d.X1, d.X2),
			Y2:    max(d.Y1, d.Y2),
		}, nil
	case ObjectiveFetch:
		if def.Fetch == nil {
			return nil, objectiveContentError(questKey, def.ID, "fetch objective without fetch data")
		}
		itemType, err := parseItemType(def.Fetch.ItemType)
		if err != nil {
			return nil, objectiveContentError(questKey, def.ID, "%v", err)
		}
		if def.Fetch.Amount < 1 {
			return nil, objectiveContentError(questKey, def.ID, "fetch amount must be at least 1, got %d", def.Fetch.Amount)
		}
		return FetchData{ItemType: itemType, ItemID: def.Fetch.ItemID, Amount: def.Fetch.Amount}, nil
	case ObjectiveSlay:
		if def.Slay == nil {
			return nil, objectiveContentError(questKey, def.ID, "slay objective without slay data")
		}
		if def.Slay.Amount < 1 {
			return nil, objectiveContentError(questKey, def.ID, "slay amount must be at least 1, got %d", def.Slay.Amount)
		}
		return SlayData{EnemyID: def.Slay.EnemyID, Amount: def.Slay.Amount}, nil
	case ObjectiveQuestChain:
		keys := []string{}
		if def.Quest != nil {
			keys = append(keys, def.Quest.Keys...)
		}
		return QuestChainData{QuestKeys: keys}, nil
	default:
		return nil, objectiveContentError(questKey, def.ID, "unknown objective type %q", def.Type)
	}
}

// parseItemType converts string to ItemType
func parseItemType(s string) (ItemType, error) {
	switch strings.ToLower(s) {
	case "", "item":
		return ItemTypeItem, nil
	case "weapon":
		return ItemTypeWeapon, nil
	case "armor":
		return ItemTypeArmor, nil
	default:
		return "", fmt.Errorf("unknown item type %q", s)
	}
}
