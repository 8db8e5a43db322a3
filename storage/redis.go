package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// Redis backs the refresh-token allowlist (utils.CreateTokenPair) and the chat
// relay's ephemeral typing-presence keys. Nothing in it is durable; a flush
// only logs users out and drops in-flight typing indicators.
var Redis *redis.Client

func InitializeRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("⚠️  REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	log.Println("🔧 Redis initialized with address:", redisURL)
}
