package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questlog/internal/logger"
	"github.com/lawnchairsociety/questlog/internal/storage"
)

// ErrSaveExists is returned by InsertGame when the id is already stored.
var ErrSaveExists = errors.New("save already exists")

// Ensure Database implements SaveStore interface
var _ storage.SaveStore = (*Database)(nil)

// Ping verifies the connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// SaveGame writes a save, replacing any previous save with the same id.
func (d *Database) SaveGame(ctx context.Context, save *storage.SaveData) error {
	if err := save.Validate(); err != nil {
		return err
	}
	payload, err := save.Encode()
	if err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx, d.qb.Build(`
		INSERT INTO save_games (id, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`),
		save.ID.String(), string(payload), save.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", save.ID, err)
	}

	logger.Debug("Saved game", "save", save.ID, "bytes", len(payload))
	return nil
}

// InsertGame writes a save only if its id is not stored yet.
func (d *Database) InsertGame(ctx context.Context, save *storage.SaveData) error {
	if err := save.Validate(); err != nil {
		return err
	}
	payload, err := save.Encode()
	if err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx, d.qb.Build(`INSERT INTO save_games (id, payload, saved_at) VALUES (?, ?, ?)`),
		save.ID.String(), string(payload), save.SavedAt.UTC())
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return ErrSaveExists
		}
		return fmt.Errorf("failed to insert game %s: %w", save.ID, err)
	}
	return nil
}

// LoadGame returns the save for id, or storage.ErrSaveNotFound.
func (d *Database) LoadGame(ctx context.Context, id uuid.UUID) (*storage.SaveData, error) {
	var payload string
	err := d.db.QueryRowContext(ctx, d.qb.Build(`SELECT payload FROM save_games WHERE id = ?`), id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return storage.DecodeSave([]byte(payload))
}

// DeleteGame removes a save. Deleting a missing save is not an error.
func (d *Database) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if _, err := d.db.ExecContext(ctx, d.qb.Build(`DELETE FROM save_games WHERE id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}

// ListSaves returns every save, newest first.
func (d *Database) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, saved_at FROM save_games ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saves: %w", err)
	}
	defer rows.Close()

	var infos []storage.SaveInfo
	for rows.Next() {
		var (
			rawID string
			info  storage.SaveInfo
		)
		if err := rows.Scan(&rawID, &info.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			logger.Warning("Skipping save with invalid id", "id", rawID)
			continue
		}
		info.ID = id
		info.SavedAt = info.SavedAt.UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saves: %w", err)
	}
	storage.SortNewestFirst(infos)
	return infos, nil
}

// EachSave calls fn with every stored save in id order. It stops at the
// first error fn returns.
func (d *Database) EachSave(ctx context.Context, fn func(*storage.SaveData) error) error {
	rows, err := d.db.QueryContext(ctx, `SELECT id, payload FROM save_games ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query saves: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return fmt.Errorf("failed to scan save: %w", err)
		}
		save, err := storage.DecodeSave([]byte(payload))
		if err != nil {
			return fmt.Errorf("save %s: %w", id, err)
		}
		if err := fn(save); err != nil {
			return err
		}
	}
	return rows.Err()
}
