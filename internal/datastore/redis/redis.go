package redisClient

import "github.com/go-redis/redis"

// InitializeRedis opens the Redis connection backing the exclusion-set
// and like-counter caches.
func InitializeRedis(host, port string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port,
	})

	if err := client.Ping().Err(); err != nil {
		return nil, err
	}

	return client, nil
}
