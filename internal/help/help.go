// Package help provides command help text loading and lookup from YAML files.
package help

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic represents a single help topic with aliases and text.
type Topic struct {
	Aliases []string `yaml:"aliases"`
	Text    string   `yaml:"text"`
}

// HelpData represents the structure of the help.yaml file.
type HelpData struct {
	Topics      map[string]Topic `yaml:"topics"`
	GeneralHelp string           `yaml:"general_help"`
}

// Help provides help text lookup.
type Help struct {
	data        HelpData
	aliasLookup map[string]string // maps alias -> topic name
}

// Default returns the built-in command help.
func Default() *Help {
	h, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("built-in help is invalid: %v", err))
	}
	return h
}

// Load loads help data from a YAML file over the built-in help.
func Load(path string) (*Help, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read help file: %w", err)
	}
	return Parse(data)
}

// Parse reads a help document. Topics it defines replace built-in topics of
// the same name; everything else keeps the built-in text.
func Parse(data []byte) (*Help, error) {
	var parsed HelpData
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse help file: %w", err)
	}

	var merged HelpData
	if err := yaml.Unmarshal([]byte(defaultHelp), &merged); err != nil {
		return nil, fmt.Errorf("failed to parse built-in help: %w", err)
	}
	if merged.Topics == nil {
		merged.Topics = make(map[string]Topic)
	}
	for name, topic := range parsed.Topics {
		merged.Topics[name] = topic
	}
	if strings.TrimSpace(parsed.GeneralHelp) != "" {
		merged.GeneralHelp = parsed.GeneralHelp
	}

	h := &Help{
		data:        merged,
		aliasLookup: make(map[string]string),
	}

	// Build alias lookup map; a topic is always reachable by its own name
	for topicName, topic := range merged.Topics {
		h.aliasLookup[strings.ToLower(topicName)] = topicName
		for _, alias := range topic.Aliases {
			h.aliasLookup[strings.ToLower(alias)] = topicName
		}
	}

	return h, nil
}

// GetTopic returns help text for a given topic/alias.
// Returns empty string if topic not found.
func (h *Help) GetTopic(topic string) string {
	topicName, ok := h.aliasLookup[strings.ToLower(topic)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(h.data.Topics[topicName].Text)
}

// GetGeneralHelp returns the general help text.
func (h *Help) GetGeneralHelp() string {
	return strings.TrimSpace(h.data.GeneralHelp)
}

// GetHelpText returns help for a topic, or general help if topic is empty.
func (h *Help) GetHelpText(topic string) string {
	if topic == "" {
		return h.GetGeneralHelp()
	}

	text := h.GetTopic(topic)
	if text == "" {
		return fmt.Sprintf("No help available for '%s'.\nType 'help' for a list of commands.", topic)
	}
	return text
}

const defaultHelp = `
general_help: |
  Available commands:
    quest      - Quest journal (help quest)
    objective  - Set an objective's state (help objective)
    kill, move, gain, lose, check, party - Host events (help events)
    save, saves, load, delete, new       - Saved games (help saves)
    help [topic]

topics:
  quest:
    aliases: [quests, journal, q]
    text: |
      QUEST <subcommand>
      Manage the quest journal.

      Usage:
        quest                         - Journal summary
        quest list [category]         - List discovered quests
        quest tracked                 - List pinned quests
        quest show <key>              - Quest details and objectives
        quest unlock <key> [id]       - Start a quest (at objective id)
        quest progress <key>          - Complete the current step
        quest complete <key>          - Complete the quest
        quest fail <key>              - Fail the quest
        quest miss <key>              - Mark the quest missed
        quest reset <key>             - Forget all progress
        quest track <key> [on|off]    - Pin or unpin the quest

  objective:
    aliases: [obj]
    text: |
      OBJECTIVE <key> <id|current> <state>
      Force one objective into a state.

      States: inactive, active, completed, failed, missed
      Objectives only move forward; repeating a state does nothing.

  events:
    aliases: [kill, move, goto, gain, lose, check, party]
    text: |
      HOST EVENTS
      Report what happened in the game so objectives can progress.

      Usage:
        kill <enemyId>                         - Count a defeated enemy
        move <mapId> <x> <y>                   - Move the player
        gain <item|weapon|armor> <id> [amount] - Add to the party inventory
        lose <item|weapon|armor> <id> [amount] - Remove from the party inventory
        check                                  - Re-check every objective
        party                                  - Show position and inventory

  saves:
    aliases: [save, load, delete, new]
    text: |
      SAVES
      Usage:
        save          - Save the current game
        saves         - List saved games
        load <id>     - Load a saved game
        delete <id>   - Delete a saved game
        new           - Start a new game
`
