package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/command"
	"github.com/lawnchairsociety/questlog/internal/config"
	"github.com/lawnchairsociety/questlog/internal/database"
	"github.com/lawnchairsociety/questlog/internal/help"
	"github.com/lawnchairsociety/questlog/internal/logger"
	"github.com/lawnchairsociety/questlog/internal/party"
	"github.com/lawnchairsociety/questlog/internal/quest"
	"github.com/lawnchairsociety/questlog/internal/storage"
	"github.com/lawnchairsociety/questlog/internal/text"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/questlog.yaml", "Path to questlog config YAML file")
	questsPath := flag.String("quests", "", "Path to a quests YAML file or directory (overrides config)")
	namesFile := flag.String("names", "", "Path to names YAML file (overrides config)")
	textFile := flag.String("text", "", "Path to text YAML file (overrides config)")
	loggingConfig := flag.String("logging", "", "Path to logging config YAML file (overrides config)")
	driver := flag.String("driver", "", "Storage driver: sqlite, postgres, redis or memory (overrides config)")
	saveID := flag.String("save", "", "Load this save id instead of starting a new game")
	script := flag.String("run", "", "Run ';'-separated commands and exit instead of reading stdin")
	autosave := flag.Bool("autosave", false, "Save the game on exit")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configFile)
	applyFlags(cfg, *questsPath, *namesFile, *textFile, *loggingConfig, *driver)

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(cfg.LoggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfgErr != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", cfgErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := quest.LoadCatalog(cfg.Content.Quests)
	if err != nil {
		log.Fatalf("Failed to load quests: %v", err)
	}
	logger.Info("Quests loaded", "path", cfg.Content.Quests, "count", catalog.Count())

	opts := command.Options{}

	if names, err := party.LoadNames(cfg.Content.Names); err != nil {
		logger.Warning("Failed to load names, using fallback names", "path", cfg.Content.Names, "error", err)
	} else {
		opts.Names = names
		logger.Info("Names loaded", "path", cfg.Content.Names)
	}

	if t, err := text.Load(cfg.Content.Text); err != nil {
		logger.Warning("Failed to load text config, using fallback text", "path", cfg.Content.Text, "error", err)
	} else {
		opts.Text = t
		logger.Info("Text system loaded", "path", cfg.Content.Text)
	}

	if cfg.Content.Help != "" {
		if h, err := help.Load(cfg.Content.Help); err != nil {
			logger.Warning("Failed to load help config, using built-in help", "path", cfg.Content.Help, "error", err)
		} else {
			opts.Help = h
			logger.Info("Help system loaded", "path", cfg.Content.Help)
		}
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open save store: %v", err)
	}
	opts.Store = store

	err = session(ctx, command.NewHandler(catalog, opts), *saveID, *script, *autosave)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warning("Failed to close save store", "error", closeErr)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// session loads or starts a game, runs the scripted or interactive
// commands and autosaves when asked.
func session(ctx context.Context, handler *command.Handler, saveID, script string, autosave bool) error {
	if saveID != "" {
		id, err := uuid.Parse(saveID)
		if err != nil {
			return fmt.Errorf("invalid save id %q: %w", saveID, err)
		}
		if err := handler.LoadGame(ctx, id); err != nil {
			return fmt.Errorf("failed to load save %s: %w", id, err)
		}
	} else {
		logger.Info("New game started", "save_id", handler.Registry().SaveID())
	}

	if script != "" {
		for _, line := range strings.Split(script, ";") {
			if out := handler.Run(ctx, line); out != "" {
				fmt.Println(out)
			}
		}
	} else {
		runInteractive(ctx, handler)
	}

	if autosave {
		id, err := handler.SaveGame(context.WithoutCancel(ctx))
		if err != nil {
			logger.Error("Autosave failed", "error", err)
			return fmt.Errorf("autosave failed: %w", err)
		}
		fmt.Printf("Game saved as %s.\n", id)
	}
	return nil
}

// applyFlags lets non-empty command-line values override the config file.
func applyFlags(cfg *config.AppConfig, quests, names, textPath, logging, driver string) {
	if quests != "" {
		cfg.Content.Quests = quests
	}
	if names != "" {
		cfg.Content.Names = names
	}
	if textPath != "" {
		cfg.Content.Text = textPath
	}
	if logging != "" {
		cfg.LoggingConfig = logging
	}
	if driver != "" {
		cfg.Storage.Driver = driver
	}
}

// openStore opens the save store selected by the storage driver.
func openStore(ctx context.Context, cfg *config.AppConfig) (storage.SaveStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warning("Using in-memory save store, saves are lost on exit")
		return storage.NewMemoryStore(), nil
	case config.DriverRedis:
		store, err := storage.NewRedisStore(ctx, cfg.RedisOptions())
		if err != nil {
			return nil, err
		}
		logger.Info("Save store initialized", "driver", "redis")
		return store, nil
	default:
		dbCfg := cfg.DatabaseConfig()
		db, err := database.OpenWithConfig(dbCfg)
		if err != nil {
			return nil, err
		}
		if dbCfg.Driver == config.DriverPostgres {
			logger.Info("Save store initialized", "driver", "postgres", "database", dbCfg.Postgres.String())
		} else {
			logger.Info("Save store initialized", "driver", "sqlite", "path", dbCfg.SQLitePath)
		}
		return db, nil
	}
}

// runInteractive reads commands from stdin until EOF, quit or a signal.
func runInteractive(ctx context.Context, handler *command.Handler) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Println("Quest journal ready. Type 'help' for commands, 'quit' to leave.")
	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			logger.Info("Interrupted, shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "quit", "exit":
				return
			}
			if out := handler.Run(ctx, line); out != "" {
				fmt.Println(out)
			}
		}
	}
}
