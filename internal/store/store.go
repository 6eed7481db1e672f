// Package store persists game snapshots by game id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/config"
	"github.com/lox/monopolyforbots/internal/game"
)

var (
	// ErrNotFound is returned by Load and Delete for unknown ids.
	ErrNotFound = errors.New("game not found")

	// ErrInvalidID is returned for ids that are empty, too long or contain
	// separators.
	ErrInvalidID = errors.New("invalid game id")
)

// Store saves and loads snapshots. Implementations are safe for concurrent
// use.
type Store interface {
	Load(ctx context.Context, id string) (*game.Snapshot, error)
	Save(ctx context.Context, id string, snap *game.Snapshot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Open builds the store selected by the persistence settings.
func Open(cfg *config.PersistenceSettings, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "store").Str("driver", cfg.Driver).Logger()

	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Path, logger)
	case "redis":
		idle, err := time.ParseDuration(cfg.IdleTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid idle timeout: %w", err)
		}
		return NewRedis(RedisOptions{
			URL:         cfg.RedisURL,
			Prefix:      cfg.KeyPrefix,
			MaxIdle:     cfg.MaxIdle,
			IdleTimeout: idle,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", cfg.Driver)
	}
}

func encode(snap *game.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*game.Snapshot, error) {
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// validID rejects ids that could escape a directory or a key namespace.
func validID(id string) error {
	if id == "" || len(id) > 128 || strings.ContainsAny(id, "/\\: \t\n") || id == "." || id == ".." {
		return fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return nil
}
