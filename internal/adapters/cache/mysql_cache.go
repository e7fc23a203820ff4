package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
)

// MysqlCache is a MySQL-backed implementation of the CacheRepository interface
type MysqlCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMysqlCache creates a new MySQL cache using the given DSN
func NewMysqlCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MysqlCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql database: %w", err)
	}

	cache := &MysqlCache{
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

func (c *MysqlCache) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS narrative_cache (
			cache_key VARCHAR(255) PRIMARY KEY,
			output MEDIUMTEXT NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			INDEX idx_expires_at (expires_at)
		)
	`)
	return err
}

// Get retrieves a cached entry by key
func (c *MysqlCache) Get(ctx context.Context, key string) (*core.NarrativeCacheEntry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT cache_key, output, created_at, expires_at
		FROM narrative_cache
		WHERE cache_key = ? AND expires_at > ?
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
func (c *MysqlCache) Set(ctx context.Context, entry *core.NarrativeCacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO narrative_cache (cache_key, output, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			output = VALUES(output),
			created_at = VALUES(created_at),
			expires_at = VALUES(expires_at)
	`, entry.Key, entry.Output, entry.CreatedAt, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *MysqlCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM narrative_cache WHERE cache_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *MysqlCache) Cleanup(ctx context.Context) error {
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
func (c *MysqlCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.db.Close()
	})
}

func (c *MysqlCache) startCleanupTask() {
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

var _ core.CacheRepository = (*MysqlCache)(nil)
