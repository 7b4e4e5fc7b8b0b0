package database

import (
	"context"
	"log"

	"cracker/config"

	"github.com/redis/go-redis/v9"
)

// RDB caches the ranking projection. It may be nil (redis unreachable or not
// configured); every caller treats that as a cache miss and falls back to SQL.
var RDB *redis.Client

// InitRedis connects the ranking cache. Redis being down is not fatal: the
// rankings are always recomputable from the users table.
func InitRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable at %s, ranking cache disabled: %v", config.RedisAddr, err)
		return
	}
	RDB = client
}
