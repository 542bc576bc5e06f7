package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/logger"
	"github.com/lawnchairsociety/questlog/internal/party"
	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/storage"
)

var errNoStore = errors.New("saving is not available: no save store configured")

// SaveGame writes the current game to the store and returns its id.
func (h *Handler) SaveGame(ctx context.Context) (uuid.UUID, error) {
	if h.store == nil {
		return uuid.Nil, errNoStore
	}
	save := storage.NewSaveData(h.registry, h.party)
	if err := h.store.SaveGame(ctx, save); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save game: %w", err)
	}
	logger.Info("Game saved", "save_id", save.ID)
	return save.ID, nil
}

// LoadGame replaces the current game with the save for id.
func (h *Handler) LoadGame(ctx context.Context, id uuid.UUID) error {
	if h.store == nil {
		return errNoStore
	}
	save, err := h.store.LoadGame(ctx, id)
	if err != nil {
		return err
	}
	registry, p, err := save.Restore(h.catalog)
	if err != nil {
		return err
	}
	h.bind(registry, p)
	logger.Info("Game loaded", "save_id", id, "quests", len(registry.Quests()), "orphans", len(registry.Orphans()))
	return nil
}

// NewGame discards the current game and starts over.
func (h *Handler) NewGame() {
	h.bind(quest.NewRegistry(h.catalog), party.New())
	logger.Info("New game started", "save_id", h.registry.SaveID())
}

func (h *Handler) executeSave(ctx context.Context) string {
	id, err := h.SaveGame(ctx)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Game saved as %s.", id)
}

func (h *Handler) executeSaves(ctx context.Context) string {
	if h.store == nil {
		return errNoStore.Error()
	}
	saves, err := h.store.ListSaves(ctx)
	if err != nil {
		return fmt.Sprintf("Failed to list saves: %v", err)
	}
	if len(saves) == 0 {
		return "No saved games."
	}

	var sb strings.Builder
	sb.WriteString("=== Saved Games ===\n")
	for _, info := range saves {
		current := " "
		if info.ID == h.registry.SaveID() {
			current = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", current, info.ID, info.SavedAt.Local().Format("2006-01-02 15:04:05")))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (h *Handler) executeLoad(ctx context.Context, c *Command) string {
	if err := c.RequireArgs(1, "Usage: load <saveId>"); err != nil {
		return err.Error()
	}
	id, err := uuid.Parse(c.Args[0])
	if err != nil {
		return fmt.Sprintf("'%s' is not a save id.", c.Args[0])
	}

	if err := h.LoadGame(ctx, id); err != nil {
		if errors.Is(err, storage.ErrSaveNotFound) {
			return fmt.Sprintf("No saved game %s.", id)
		}
		return fmt.Sprintf("Failed to load game: %v", err)
	}
	return fmt.Sprintf("Loaded game %s.", id)
}

func (h *Handler) executeDelete(ctx context.Context, c *Command) string {
	if h.store == nil {
		return errNoStore.Error()
	}
	if err := c.RequireArgs(1, "Usage: delete <saveId>"); err != nil {
		return err.Error()
	}
	id, err := uuid.Parse(c.Args[0])
	if err != nil {
		return fmt.Sprintf("'%s' is not a save id.", c.Args[0])
	}
	if err := h.store.DeleteGame(ctx, id); err != nil {
		return fmt.Sprintf("Failed to delete game: %v", err)
	}
	return fmt.Sprintf("Deleted game %s.", id)
}

func (h *Handler) executeNew() string {
	h.NewGame()
	return fmt.Sprintf("Started a new game (%s).", h.registry.SaveID())
}
