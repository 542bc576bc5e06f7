// Package text provides the externalized presentation text of the quest
// journal: fulfillment templates, state labels and per-state icons.
package text

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TextData represents the structure of the text.yaml file.
type TextData struct {
	Fulfillment  FulfillmentText   `yaml:"fulfillment"`
	States       map[string]string `yaml:"states"`
	Icons        map[string]int    `yaml:"icons"`
	UnknownQuest string            `yaml:"unknown_quest"`
}

// FulfillmentText holds one template per objective type. Templates use
// {name} placeholders.
type FulfillmentText struct {
	Indiscriminate string `yaml:"indiscriminate"` // {hint}
	Destination    string `yaml:"destination"`    // {map} {x1} {y1} {x2} {y2}
	Fetch          string `yaml:"fetch"`          // {item} {current} {amount}
	Slay           string `yaml:"slay"`           // {enemy} {current} {amount}
	QuestChain     string `yaml:"quest"`          // {quests}
}

// Text provides text lookup functionality.
type Text struct {
	data TextData
}

// Default returns the built-in English text.
func Default() *Text {
	return &Text{data: defaultData()}
}

func defaultData() TextData {
	return TextData{
		Fulfillment: FulfillmentText{
			Indiscriminate: "{hint}",
			Destination:    "Reach {map} ({x1}, {y1}) - ({x2}, {y2}).",
			Fetch:          "Acquire {item}: {current}/{amount}",
			Slay:           "Defeat {enemy}: {current}/{amount}",
			QuestChain:     "Complete: {quests}",
		},
		States: map[string]string{
			"inactive":  "Unknown",
			"active":    "In Progress",
			"completed": "Completed",
			"failed":    "Failed",
			"missed":    "Missed",
		},
		Icons: map[string]int{
			"inactive":  93,
			"active":    92,
			"completed": 90,
			"failed":    91,
			"missed":    95,
		},
		UnknownQuest: "???",
	}
}

// Load loads text data from a YAML file over the defaults.
func Load(path string) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	return Parse(data)
}

// Parse reads a text document over the defaults. Missing entries keep
// their default value.
func Parse(data []byte) (*Text, error) {
	var parsed TextData
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse text file: %w", err)
	}

	merged := defaultData()
	f := parsed.Fulfillment
	setIfPresent(&merged.Fulfillment.Indiscriminate, f.Indiscriminate)
	setIfPresent(&merged.Fulfillment.Destination, f.Destination)
	setIfPresent(&merged.Fulfillment.Fetch, f.Fetch)
	setIfPresent(&merged.Fulfillment.Slay, f.Slay)
	setIfPresent(&merged.Fulfillment.QuestChain, f.QuestChain)
	setIfPresent(&merged.UnknownQuest, parsed.UnknownQuest)
	for state, label := range parsed.States {
		merged.States[strings.ToLower(state)] = label
	}
	for state, icon := range parsed.Icons {
		merged.Icons[strings.ToLower(state)] = icon
	}

	return &Text{data: merged}, nil
}

func setIfPresent(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

// FulfillmentTemplate returns the template for an objective type.
func (t *Text) FulfillmentTemplate(objectiveType string) string {
	switch strings.ToLower(objectiveType) {
	case "indiscriminate":
		return t.data.Fulfillment.Indiscriminate
	case "destination":
		return t.data.Fulfillment.Destination
	case "fetch":
		return t.data.Fulfillment.Fetch
	case "slay":
		return t.data.Fulfillment.Slay
	case "quest":
		return t.data.Fulfillment.QuestChain
	default:
		return ""
	}
}

// StateLabel returns the display label for a state.
func (t *Text) StateLabel(state string) string {
	if label, ok := t.data.States[strings.ToLower(state)]; ok {
		return label
	}
	return state
}

// IconIndex returns the icon for a state, or 0 when none is configured.
func (t *Text) IconIndex(state string) int {
	return t.data.Icons[strings.ToLower(state)]
}

// UnknownQuest is shown in place of names the player has not discovered.
func (t *Text) UnknownQuest() string {
	return t.data.UnknownQuest
}

// Expand replaces {name} placeholders with vars. Unknown placeholders are
// left as written.
func Expand(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(vars)*2)
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
