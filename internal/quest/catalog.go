package quest

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/questlog/internal/logger"
)

// Catalog holds the immutable quest, category and tag definitions loaded
// from content. It is safe to share between registries.
type Catalog struct {
	quests     []*QuestDefinition
	questIndex map[string]*QuestDefinition

	categories    []*CategoryDefinition
	categoryIndex map[string]*CategoryDefinition

	tags     []*TagDefinition
	tagIndex map[string]*TagDefinition
}

// NewCatalog builds and validates a catalog from parsed content.
func NewCatalog(config *QuestsConfig) (*Catalog, error) {
	c := &Catalog{
		questIndex:    make(map[string]*QuestDefinition),
		categoryIndex: make(map[string]*CategoryDefinition),
		tagIndex:      make(map[string]*TagDefinition),
	}
	if config == nil {
		return c, nil
	}

	for _, def := range config.Categories {
		if isDivider(def.Name) {
			continue
		}
		category := &CategoryDefinition{Key: def.Key, Name: def.Name, IconIndex: def.IconIndex, Description: def.Description}
		if existing, ok := c.categoryIndex[def.Key]; ok {
			logger.Warning("Duplicate category key, last definition wins", "category", def.Key)
			*existing = *category
			continue
		}
		c.categories = append(c.categories, category)
		c.categoryIndex[def.Key] = category
	}

	for _, def := range config.Tags {
		if isDivider(def.Name) {
			continue
		}
		tag := &TagDefinition{Key: def.Key, Name: def.Name, IconIndex: def.IconIndex, Description: def.Description}
		if existing, ok := c.tagIndex[def.Key]; ok {
			logger.Warning("Duplicate tag key, last definition wins", "tag", def.Key)
			*existing = *tag
			continue
		}
		c.tags = append(c.tags, tag)
		c.tagIndex[def.Key] = tag
	}

	for i := range config.Quests {
		if isDivider(config.Quests[i].Name) {
			continue
		}
		def, err := createQuestFromYAML(&config.Quests[i])
		if err != nil {
			return nil, err
		}
		if existing, ok := c.questIndex[def.Key]; ok {
			logger.Warning("Duplicate quest key, last definition wins", "quest", def.Key)
			*existing = *def
			continue
		}
		c.quests = append(c.quests, def)
		c.questIndex[def.Key] = def
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog loads content from a file or directory and builds the catalog.
func LoadCatalog(path string) (*Catalog, error) {
	config, err := LoadQuests(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(config)
}

// validate checks cross references between definitions.
func (c *Catalog) validate() error {
	for _, q := range c.quests {
		if q.CategoryKey != "" {
			if _, ok := c.categoryIndex[q.CategoryKey]; !ok {
				return questContentError(q.Key, "unknown category %q", q.CategoryKey)
			}
		}
		for _, tagKey := range q.TagKeys {
			if _, ok := c.tagIndex[tagKey]; !ok {
				return questContentError(q.Key, "unknown tag %q", tagKey)
			}
		}
		for _, obj := range q.Objectives {
			chain, ok := obj.Fulfillment.(QuestChainData)
			if !ok {
				continue
			}
			for _, key := range chain.QuestKeys {
				if _, ok := c.questIndex[key]; !ok {
					return objectiveContentError(q.Key, obj.ID, "quest chain references unknown quest %q", key)
				}
			}
		}
	}
	return c.checkChainCycles()
}

// checkChainCycles rejects quest chains that reference themselves directly
// or through other quests.
func (c *Catalog) checkChainCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(c.quests))

	var visit func(key string, path []string) error
	visit = func(key string, path []string) error {
		switch marks[key] {
		case visiting:
			return questContentError(key, "cyclic quest chain: %s", strings.Join(append(path, key), " -> "))
		case done:
			return nil
		}
		marks[key] = visiting
		for _, next := range c.chainDependencies(key) {
			if err := visit(next, append(path, key)); err != nil {
				return err
			}
		}
		marks[key] = done
		return nil
	}

	for _, q := range c.quests {
		if err := visit(q.Key, nil); err != nil {
			return err
		}
	}
	return nil
}

// chainDependencies lists every quest key a quest's chain objectives require.
func (c *Catalog) chainDependencies(key string) []string {
	def, ok := c.questIndex[key]
	if !ok {
		return nil
	}
	var keys []string
	for _, obj := range def.Objectives {
		if chain, ok := obj.Fulfillment.(QuestChainData); ok {
			keys = append(keys, chain.QuestKeys...)
		}
	}
	return keys
}

// Quest returns a quest definition by key
func (c *Catalog) Quest(key string) (*QuestDefinition, error) {
	def, ok := c.questIndex[key]
	if !ok {
		return nil, &NotFoundError{Kind: "quest", Key: key}
	}
	return def, nil
}

// Category returns a category definition by key
func (c *Catalog) Category(key string) (*CategoryDefinition, error) {
	def, ok := c.categoryIndex[key]
	if !ok {
		return nil, &NotFoundError{Kind: "category", Key: key}
	}
	return def, nil
}

// Tag returns a tag definition by key
func (c *Catalog) Tag(key string) (*TagDefinition, error) {
	def, ok := c.tagIndex[key]
	if !ok {
		return nil, &NotFoundError{Kind: "tag", Key: key}
	}
	return def, nil
}

// Quests returns all quest definitions in authoring order
func (c *Catalog) Quests() []*QuestDefinition {
	result := make([]*QuestDefinition, len(c.quests))
	copy(result, c.quests)
	return result
}

// Categories returns all categories in authoring order
func (c *Catalog) Categories() []*CategoryDefinition {
	result := make([]*CategoryDefinition, len(c.categories))
	copy(result, c.categories)
	return result
}

// Tags returns all tags in authoring order
func (c *Catalog) Tags() []*TagDefinition {
	result := make([]*TagDefinition, len(c.tags))
	copy(result, c.tags)
	return result
}

// Count returns the number of quest definitions
func (c *Catalog) Count() int {
	return len(c.quests)
}

func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(%d quests, %d categories, %d tags)", len(c.quests), len(c.categories), len(c.tags))
}
