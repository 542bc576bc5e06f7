// Package command implements the text commands a host uses to drive the
// quest journal: quest and objective state changes, the host events that
// feed fulfillment checks, and save slots.
package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/questlog/internal/help"
	"github.com/lawnchairsociety/questlog/internal/logger"
	"github.com/lawnchairsociety/questlog/internal/party"
	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/storage"
	"github.com/lawnchairsociety/questlog/internal/text"
)

type Command struct {
	Name string
	Args []string
}

// RequireArgs checks if the command has at least the minimum number of arguments
// Returns an error with the usage message if not enough arguments are provided
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}}
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// Options configures a Handler. Every field is optional.
type Options struct {
	Names quest.Names
	Text  *text.Text
	Help  *help.Help
	Store storage.SaveStore
}

// Handler owns the current game (registry and party) and executes commands
// against it. It is not safe for concurrent use.
type Handler struct {
	catalog *quest.Catalog
	names   quest.Names
	text    *text.Text
	help    *help.Help
	store   storage.SaveStore

	registry *quest.Registry
	party    *party.Party

	// notices collects hook output while a command runs
	notices []string
}

// NewHandler starts a new game over catalog.
func NewHandler(catalog *quest.Catalog, opts Options) *Handler {
	h := &Handler{
		catalog: catalog,
		names:   opts.Names,
		text:    opts.Text,
		help:    opts.Help,
		store:   opts.Store,
	}
	if h.help == nil {
		h.help = help.Default()
	}
	h.bind(quest.NewRegistry(catalog), party.New())
	return h
}

// Registry returns the current game's registry.
func (h *Handler) Registry() *quest.Registry {
	return h.registry
}

// Party returns the current game's party.
func (h *Handler) Party() *party.Party {
	return h.party
}

// bind makes registry and p the current game and wires the host
// collaborators and notice hooks into the registry.
func (h *Handler) bind(registry *quest.Registry, p *party.Party) {
	registry.SetInventory(p)
	registry.SetLocator(p)
	if h.names != nil {
		registry.SetNames(h.names)
	}
	if h.text != nil {
		registry.SetText(h.text)
	}
	registry.OnQuestStateChange(h.questChanged)
	registry.OnObjectiveStateChange(h.objectiveChanged)

	h.registry = registry
	h.party = p
	h.notices = nil
}

func (h *Handler) questChanged(change quest.QuestChange) {
	tracker, err := h.registry.Quest(change.QuestKey)
	if err != nil {
		return
	}
	h.notices = append(h.notices, fmt.Sprintf("[Quest] %s: %s", tracker.Name(), tracker.StateLabel()))
}

func (h *Handler) objectiveChanged(change quest.ObjectiveChange) {
	tracker, err := h.registry.Quest(change.QuestKey)
	if err != nil {
		return
	}
	obj, err := tracker.Objective(change.ObjectiveID)
	if err != nil || obj.Hidden {
		return
	}
	switch change.To {
	case quest.StateActive:
		h.notices = append(h.notices, fmt.Sprintf("[Objective] New: %s", objectiveLabel(obj)))
	case quest.StateCompleted:
		h.notices = append(h.notices, fmt.Sprintf("[Objective] Done: %s", objectiveLabel(obj)))
	case quest.StateFailed:
		h.notices = append(h.notices, fmt.Sprintf("[Objective] Failed: %s", objectiveLabel(obj)))
	}
}

// Run parses and executes one input line.
func (h *Handler) Run(ctx context.Context, input string) string {
	return h.Execute(ctx, ParseCommand(input))
}

// Execute runs c and returns its output followed by any journal notices the
// command produced.
func (h *Handler) Execute(ctx context.Context, c *Command) string {
	h.notices = nil

	var output string
	switch c.Name {
	case "":
		return ""
	case "help", "?":
		output = h.executeHelp(c)
	case "quest", "quests", "journal", "q":
		output = h.executeQuest(c)
	case "objective", "obj":
		output = h.executeObjective(c)
	case "kill":
		output = h.executeKill(c)
	case "move", "goto":
		output = h.executeMove(c)
	case "gain":
		output = h.executeGain(c)
	case "lose":
		output = h.executeLose(c)
	case "check":
		output = h.executeCheck()
	case "party", "inventory", "inv":
		output = h.executeParty()
	case "save":
		output = h.executeSave(ctx)
	case "saves":
		output = h.executeSaves(ctx)
	case "load":
		output = h.executeLoad(ctx, c)
	case "delete":
		output = h.executeDelete(ctx, c)
	case "new":
		output = h.executeNew()
	default:
		return fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", c.Name)
	}

	if len(h.notices) == 0 {
		return output
	}
	logger.Debug("Command produced journal notices", "command", c.Name, "notices", len(h.notices))
	return output + "\n" + strings.Join(h.notices, "\n")
}

// parseInt parses a numeric argument, naming it in the error.
func parseInt(arg, name string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, arg)
	}
	return n, nil
}

// parseObjectiveID accepts a number or "current".
func parseObjectiveID(arg string) (int, error) {
	if strings.EqualFold(arg, "current") {
		return quest.CurrentObjectiveID, nil
	}
	return parseInt(arg, "objective id")
}

// describeError turns lookup and content errors into player-facing text.
func describeError(err error) string {
	var notFound *quest.NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("No %s named '%s'.", notFound.Kind, notFound.Key)
	}
	return err.Error()
}

func (h *Handler) executeHelp(c *Command) string {
	topic := ""
	if len(c.Args) > 0 {
		topic = strings.ToLower(strings.Join(c.Args, " "))
	}
	return h.help.GetHelpText(topic)
}
