package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sofaspartan/sofaspartan-backend/config"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// ErrNotInitialized is returned when Init never ran or failed; callers
// treat revocation as unavailable rather than crashing.
var ErrNotInitialized = errors.New("redis client not initialized")

var client *redis.Client

// Init initializes the Redis connection used for token revocation.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// RevokeToken blacklists a token for the remainder of its lifetime.
// Used on sign-out and account deletion so the JWT stops working
// before it expires.
func RevokeToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to revoke token", err, nil)
		return err
	}

	logger.Debug("Token revoked", map[string]interface{}{
		"expiry": expiry.String(),
	})
	return nil
}

// IsTokenRevoked checks whether a token has been blacklisted.
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, ErrNotInitialized
	}

	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err, nil)
		return false, err
	}

	return val == "revoked", nil
}
