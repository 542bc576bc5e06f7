// migrate-saves copies every save game from a SQLite save store to
// PostgreSQL or Redis. Saves already present in the target are skipped.
//
// Usage:
//
//	go run ./cmd/migrate-saves \
//	    -sqlite data/saves.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user questlog \
//	    -pg-password questlog \
//	    -pg-database questlog
//
//	go run ./cmd/migrate-saves -sqlite data/saves.db -target redis -redis-url redis://localhost:6379/0
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/questlog/internal/database"
	"github.com/lawnchairsociety/questlog/internal/storage"
)

// saveTarget is implemented by the stores saves can be copied into.
type saveTarget interface {
	storage.Closer
	// insert writes save unless one with the same id exists and reports
	// whether it was written.
	insert(ctx context.Context, save *storage.SaveData) (bool, error)
}

type postgresTarget struct {
	db *database.Database
}

func (t postgresTarget) insert(ctx context.Context, save *storage.SaveData) (bool, error) {
	err := t.db.InsertGame(ctx, save)
	if errors.Is(err, database.ErrSaveExists) {
		return false, nil
	}
	return err == nil, err
}

func (t postgresTarget) Close() error { return t.db.Close() }

type redisTarget struct {
	store *storage.RedisStore
}

func (t redisTarget) insert(ctx context.Context, save *storage.SaveData) (bool, error) {
	_, err := t.store.LoadGame(ctx, save.ID)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, storage.ErrSaveNotFound):
		return false, err
	}
	return true, t.store.SaveGame(ctx, save)
}

func (t redisTarget) Close() error { return t.store.Close() }

func main() {
	// Parse command-line flags
	sqlitePath := flag.String("sqlite", "data/saves.db", "Path to SQLite save database")
	target := flag.String("target", "postgres", "Target store: postgres or redis")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "questlog", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "questlog", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "questlog", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	redisURL := flag.String("redis-url", "redis://localhost:6379/0", "Redis URL")
	redisPrefix := flag.String("redis-prefix", "questlog", "Redis key prefix")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Save Game Migration Tool")
	log.Println("========================")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite database not found: %v", err)
	}

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	source, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer source.Close()

	var dest saveTarget
	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	} else {
		switch *target {
		case "postgres":
			pg := database.DefaultPostgresConfig()
			pg.Host = *pgHost
			pg.Port = *pgPort
			pg.User = *pgUser
			pg.Password = *pgPassword
			pg.Database = *pgDatabase
			pg.SSLMode = *pgSSLMode

			log.Printf("Opening PostgreSQL database: %s", pg.String())
			db, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
			if err != nil {
				log.Fatalf("Failed to open PostgreSQL database: %v", err)
			}
			dest = postgresTarget{db: db}
		case "redis":
			log.Printf("Opening Redis: %s (prefix %s)", *redisURL, *redisPrefix)
			store, err := storage.NewRedisStore(ctx, storage.RedisOptions{URL: *redisURL, KeyPrefix: *redisPrefix})
			if err != nil {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
			dest = redisTarget{store: store}
		default:
			log.Fatalf("Unknown target %q (want postgres or redis)", *target)
		}
		defer dest.Close()
	}

	var migrated, skipped int
	start := time.Now()
	err = source.EachSave(ctx, func(save *storage.SaveData) error {
		if dest == nil {
			log.Printf("  Would migrate save %s (saved %s)", save.ID, save.SavedAt.Format(time.RFC3339))
			migrated++
			return nil
		}
		written, err := dest.insert(ctx, save)
		if err != nil {
			return err
		}
		if written {
			migrated++
		} else {
			log.Printf("  Skipping save %s: already present in target", save.ID)
			skipped++
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Migration failed after %d saves: %v", migrated, err)
	}

	log.Println("========================")
	log.Printf("Migration complete in %s! Saves migrated: %d, skipped: %d", time.Since(start).Round(time.Millisecond), migrated, skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
