// db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

// CacheDevice stores a directory entry. Directory data is configuration,
// not access state: access grants themselves are never cached anywhere.
func CacheDevice(ctx context.Context, device *model.Device) error {
	deviceJSON, err := json.Marshal(device)
	if err != nil {
		return fmt.Errorf("failed to marshal device: %w", err)
	}

	key := fmt.Sprintf("device:%d", device.ID)
	ttl := viper.GetDuration("redis.directoryCacheTTL")
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if err := RedisClient.Set(ctx, key, deviceJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache device: %w", err)
	}

	logger.Debug("Device cached successfully", zap.Int64("deviceID", device.ID))
	return nil
}

func GetCachedDevice(ctx context.Context, deviceID int64) (*model.Device, error) {
	key := fmt.Sprintf("device:%d", deviceID)
	deviceJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Device not found in cache", zap.Int64("deviceID", deviceID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get device from cache: %w", err)
	}

	var device model.Device
	if err := json.Unmarshal([]byte(deviceJSON), &device); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device: %w", err)
	}

	logger.Debug("Device retrieved from cache", zap.Int64("deviceID", deviceID))
	return &device, nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

// AcquireSubjectLease takes the per-subject operation lease. Concurrent
// operations against the same subject are serialized through this lease;
// the external system offers no cross-path consistency of its own.
func AcquireSubjectLease(ctx context.Context, subjectID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lease:subject:%s", subjectID)
	locked, err := RedisClient.SetNX(ctx, key, "held", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire subject lease: %w", err)
	}
	return locked, nil
}

// ReleaseSubjectLease releases the per-subject operation lease.
func ReleaseSubjectLease(ctx context.Context, subjectID string) error {
	key := fmt.Sprintf("lease:subject:%s", subjectID)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release subject lease: %w", err)
	}
	return nil
}
