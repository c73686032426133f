package repositories

import (
	"context"

	"meetlive/internal/core/ports"
	"meetlive/internal/infrastructure/repositories/memory"
	redisrepo "meetlive/internal/infrastructure/repositories/redis"
	"meetlive/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	cfg         *config.Config
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		cfg:      cfg,
		logger:   logger,
	}

	// Try to connect to Redis if enabled
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	return factory, nil
}

// CreateMeetingRepository creates a meeting repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateMeetingRepository() ports.MeetingRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewMeetingRepository(f.redisClient, f.cfg.Redis.TTL, f.logger)
	}
	return memory.NewMeetingRepository()
}

// CreateSessionRegistry creates the session registry. Live session state holds
// open connections, so it is always process-local memory.
func (f *RepositoryFactory) CreateSessionRegistry() ports.SessionRegistry {
	return memory.NewSessionRegistry()
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck checks Redis connection health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
