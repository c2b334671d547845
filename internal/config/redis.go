package config

import (
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisMu     sync.Mutex
)

// ConnectRedis initializes the shared redis client (idempotent). A nil return
// means redis is unavailable; callers fall through to the upstream API.
func ConnectRedis(url string) *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient != nil {
		return redisClient
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[redis] invalid connection string: %v", err)
		return nil
	}
	redisClient = redis.NewClient(opt)
	return redisClient
}

func CloseRedis() {
	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}
