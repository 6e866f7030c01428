package services

import (
	goctx "context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisService backs short-lived state, primarily single-use sign-in
// nonces. Nonces must survive process restarts within their TTL and be
// consumable exactly once, which GETDEL gives us for free.
type RedisService struct {
	context.DefaultService

	client *redis.Client
}

const REDIS_SVC = "redis_svc"

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Start() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	svc.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()

	if err := svc.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}

	log.WithField("addr", svc.client.Options().Addr).Info("Redis connected")
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.client != nil {
		_ = svc.client.Close()
	}
}

func (svc *RedisService) Set(ctx goctx.Context, key, value string, ttl time.Duration) error {
	return svc.client.Set(ctx, key, value, ttl).Err()
}

func (svc *RedisService) Get(ctx goctx.Context, key string) (string, error) {
	v, err := svc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

// GetDel reads and deletes atomically. Returns "" when the key does
// not exist.
func (svc *RedisService) GetDel(ctx goctx.Context, key string) (string, error) {
	v, err := svc.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (svc *RedisService) Delete(ctx goctx.Context, key string) error {
	return svc.client.Del(ctx, key).Err()
}

func (svc *RedisService) Exists(ctx goctx.Context, key string) (bool, error) {
	n, err := svc.client.Exists(ctx, key).Result()
	return n > 0, err
}
