package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/command"
	"github.com/lawnchairsociety/questlog/internal/config"
	"github.com/lawnchairsociety/questlog/internal/database"
	"github.com/lawnchairsociety/questlog/internal/party"
	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/storage"
	"github.com/lawnchairsociety/questlog/internal/text"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	applyFlags(cfg, "q.yaml", "", "t.yaml", "", "memory")

	if cfg.Content.Quests != "q.yaml" || cfg.Content.Text != "t.yaml" {
		t.Errorf("expected flag paths to override, got %+v", cfg.Content)
	}
	if cfg.Content.Names != "data/names.yaml" {
		t.Errorf("expected empty flag to keep config value, got %q", cfg.Content.Names)
	}
	if cfg.Storage.Driver != config.DriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.Storage.Driver)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		modify func(*config.AppConfig)
		check  func(t *testing.T, store storage.SaveStore)
	}{
		{
			name:   "memory",
			modify: func(c *config.AppConfig) { c.Storage.Driver = config.DriverMemory },
			check: func(t *testing.T, store storage.SaveStore) {
				if _, ok := store.(*storage.MemoryStore); !ok {
					t.Errorf("expected *storage.MemoryStore, got %T", store)
				}
			},
		},
		{
			name: "sqlite",
			modify: func(c *config.AppConfig) {
				c.Storage.SQLitePath = filepath.Join(t.TempDir(), "saves.db")
			},
			check: func(t *testing.T, store storage.SaveStore) {
				if _, ok := store.(*database.Database); !ok {
					t.Errorf("expected *database.Database, got %T", store)
				}
			},
		},
		{
			name: "redis",
			modify: func(c *config.AppConfig) {
				c.Storage.Driver = config.DriverRedis
				c.Storage.Redis.URL = "redis://" + mr.Addr()
			},
			check: func(t *testing.T, store storage.SaveStore) {
				if _, ok := store.(*storage.RedisStore); !ok {
					t.Errorf("expected *storage.RedisStore, got %T", store)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				t.Fatalf("openStore returned error: %v", err)
			}
			defer store.Close()

			tt.check(t, store)
			if err := store.Ping(ctx); err != nil {
				t.Errorf("Ping returned error: %v", err)
			}
		})
	}
}

func TestShippedContent(t *testing.T) {
	cfg, err := config.LoadConfig("../../data/questlog.yaml")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("shipped config is invalid: %v", err)
	}

	catalog, err := quest.LoadCatalog("../../data/quests")
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if _, err := catalog.Quest("divider_side"); err == nil {
		t.Error("expected divider quest to be dropped")
	}

	names, err := party.LoadNames("../../data/names.yaml")
	if err != nil {
		t.Fatalf("LoadNames returned error: %v", err)
	}
	txt, err := text.Load("../../data/text.yaml")
	if err != nil {
		t.Fatalf("text.Load returned error: %v", err)
	}

	h := command.NewHandler(catalog, command.Options{Names: names, Text: txt, Store: storage.NewMemoryStore()})
	ctx := context.Background()
	for _, line := range []string{
		"quest unlock harbor_master",
		"quest unlock sewer_trouble",
		"quest unlock find_cat",
		"gain item 7",
		"quest progress find_cat",
		"move 6 2 2",
		"kill 9", "kill 9", "kill 9", "kill 9", "kill 9",
		"quest progress sewer_trouble",
	} {
		h.Run(ctx, line)
	}

	harbor, err := h.Registry().Quest("harbor_master")
	if err != nil {
		t.Fatalf("Quest returned error: %v", err)
	}
	if !harbor.IsObjectiveCompleted(0) {
		t.Error("expected the harbor master chain objective to complete")
	}
	if !harbor.IsObjectiveInState(quest.StateActive, 1) {
		t.Errorf("expected the letter objective to be active, got %s", harbor.Objectives[1].State)
	}
}

func TestSession(t *testing.T) {
	catalog, err := quest.LoadCatalog("../../data/quests")
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	store := storage.NewMemoryStore()
	ctx := context.Background()

	h := command.NewHandler(catalog, command.Options{Store: store})
	if err := session(ctx, h, "", "quest unlock find_cat", true); err != nil {
		t.Fatalf("session returned error: %v", err)
	}
	saves, err := store.ListSaves(ctx)
	if err != nil || len(saves) != 1 {
		t.Fatalf("expected one autosave, got %v, %v", saves, err)
	}

	h = command.NewHandler(catalog, command.Options{Store: store})
	if err := session(ctx, h, saves[0].ID.String(), "check", false); err != nil {
		t.Fatalf("session should load the autosave, got %v", err)
	}
	if q, err := h.Registry().Quest("find_cat"); err != nil || !q.IsKnown() {
		t.Errorf("expected the loaded game to know find_cat, got %v", err)
	}

	err = session(ctx, h, "not-a-uuid", "check", false)
	if err == nil || !strings.Contains(err.Error(), "invalid save id") {
		t.Errorf("expected invalid save id error, got %v", err)
	}

	err = session(ctx, h, uuid.New().String(), "check", false)
	if !errors.Is(err, storage.ErrSaveNotFound) {
		t.Errorf("expected ErrSaveNotFound, got %v", err)
	}
}
