package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/infrastructure/observability"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const settingsKeyPrefix = "lottosettle:settings:"

// SettingsCache implements SettingsProvider with a Redis read-through cache in front of
// the settings repository. Redis failures fall back to the database.
type SettingsCache struct {
	client  *redis.Client // nil disables caching
	repo    interfaces.SettingsRepository
	ttl     time.Duration
	metrics *observability.MetricsProvider
}

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewSettingsCache creates a settings provider. A nil client reads the repository on every call.
func NewSettingsCache(client *redis.Client, repo interfaces.SettingsRepository, ttl time.Duration, metrics *observability.MetricsProvider) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SettingsCache{
		client:  client,
		repo:    repo,
		ttl:     ttl,
		metrics: metrics,
	}
}

func settingsKey(gameType string) string {
	return settingsKeyPrefix + gameType
}

// Snapshot returns the settings for a game type
func (c *SettingsCache) Snapshot(ctx context.Context, gameType string) (*entities.GameSettings, error) {
	if gameType == "" {
		return nil, entities.NewInvalidInput("game_type", "game type is required")
	}

	if cached, ok := c.lookup(ctx, gameType); ok {
		c.metrics.RecordSettingsCacheLookup(observability.CacheHit)
		return cached, nil
	}
	c.metrics.RecordSettingsCacheLookup(observability.CacheMiss)

	settings, err := c.repo.LoadSnapshot(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings snapshot: %w", err)
	}
	if settings == nil {
		return nil, entities.NewInvalidInput("game_type", "no settings configured for game type %q", gameType)
	}

	c.store(ctx, settings)
	return settings, nil
}

// Invalidate drops any cached snapshot for a game type
func (c *SettingsCache) Invalidate(ctx context.Context, gameType string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, settingsKey(gameType)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	log.WithField("gameType", gameType).Debug("Settings cache invalidated")
	return nil
}

func (c *SettingsCache) lookup(ctx context.Context, gameType string) (*entities.GameSettings, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, settingsKey(gameType)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.WithError(err).WithField("gameType", gameType).Warn("Settings cache read failed, using database")
		return nil, false
	}

	var settings entities.GameSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.WithError(err).WithField("gameType", gameType).Warn("Discarding unreadable settings cache entry")
		return nil, false
	}
	return &settings, true
}

func (c *SettingsCache) store(ctx context.Context, settings *entities.GameSettings) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(settings)
	if err != nil {
		log.WithError(err).Warn("Failed to encode settings snapshot for cache")
		return
	}
	if err := c.client.Set(ctx, settingsKey(settings.GameType), data, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("gameType", settings.GameType).Warn("Settings cache write failed")
	}
}
