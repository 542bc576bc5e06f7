package party

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/questlog/internal/quest"
)

// NamesConfig represents the structure of the names.yaml file
type NamesConfig struct {
	Items   map[int]string `yaml:"items"`
	Weapons map[int]string `yaml:"weapons"`
	Armors  map[int]string `yaml:"armors"`
	Enemies map[int]string `yaml:"enemies"`
	Maps    map[int]string `yaml:"maps"`
}

// Names resolves database ids to display names. It implements quest.Names.
type Names struct {
	config NamesConfig
}

var _ quest.Names = (*Names)(nil)

// LoadNames loads a names table from a YAML file.
func LoadNames(filename string) (*Names, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}
	return ParseNames(data)
}

// ParseNames parses a names document.
func ParseNames(data []byte) (*Names, error) {
	var config NamesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse names YAML: %w", err)
	}
	return &Names{config: config}, nil
}

func (n *Names) ItemName(itemType quest.ItemType, itemID int) string {
	switch itemType {
	case quest.ItemTypeWeapon:
		return n.config.Weapons[itemID]
	case quest.ItemTypeArmor:
		return n.config.Armors[itemID]
	default:
		return n.config.Items[itemID]
	}
}

func (n *Names) EnemyName(enemyID int) string {
	return n.config.Enemies[enemyID]
}

func (n *Names) MapName(mapID int) string {
	return n.config.Maps[mapID]
}
