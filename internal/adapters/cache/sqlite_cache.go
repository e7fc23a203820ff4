package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
)

// SqliteCache is a SQLite-backed implementation of the CacheRepository interface
type SqliteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewSqliteCache creates a new SQLite cache at the given path
func NewSqliteCache(path string, logger *zap.Logger, cleanupFreq time.Duration) (*SqliteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	cache := &SqliteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	go cache.startCleanupTask()

	return cache, nil
}

func (c *SqliteCache) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS narrative_cache (
			key TEXT PRIMARY KEY,
			output TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// Get retrieves a cached entry by key
func (c *SqliteCache) Get(ctx context.Context, key string) (*core.NarrativeCacheEntry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT key, output, created_at, expires_at
		FROM narrative_cache
		WHERE key = ? AND expires_at > ?
	`, key, time.Now())

	entry := &core.NarrativeCacheEntry{}
	err := row.Scan(&entry.Key, &entry.Output, &entry.CreatedAt, &entry.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entry: %w", err)
	}
	return entry, nil
}

// Set stores a cache entry
func (c *SqliteCache) Set(ctx context.Context, entry *core.NarrativeCacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO narrative_cache (key, output, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			output = excluded.output,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, entry.Key, entry.Output, entry.CreatedAt, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SqliteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM narrative_cache WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SqliteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM narrative_cache WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return fmt.Errorf("failed to clean up cache entries: %w", err)
	}
	if removed, err := result.RowsAffected(); err == nil && removed > 0 {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("removed", removed))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database
func (c *SqliteCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.db.Close()
	})
}

func (c *SqliteCache) startCleanupTask() {
	if c.cleanupFreq <= 0 {
		return
	}
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Cache cleanup failed", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

var _ core.CacheRepository = (*SqliteCache)(nil)
