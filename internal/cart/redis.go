package cart

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "prompt_cart"

// RedisStore keeps one hash per owner: promptId -> addedAt (RFC3339Nano).
// Every add refreshes the key's TTL so idle carts expire.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// NewRedisClient opens and pings a client with the pool settings used for cart traffic.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Printf("[cart] redis connected addr=%s db=%d", cfg.Addr, cfg.DB)
	return client, nil
}

func NewRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, ttl: cfg.TTL, keyPrefix: prefix}
}

func (s *RedisStore) key(owner string) string {
	return s.keyPrefix + ":" + owner
}

func (s *RedisStore) Add(ctx context.Context, owner string, it Item) (bool, error) {
	key := s.key(owner)
	at := it.AddedAt
	if at.IsZero() {
		at = time.Now()
	}
	var added *redis.BoolCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.HSetNX(ctx, key, it.PromptID, at.UTC().Format(time.RFC3339Nano))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return added.Val(), nil
}

func (s *RedisStore) Remove(ctx context.Context, owner, promptID string) error {
	return s.client.HDel(ctx, s.key(owner), promptID).Err()
}

func (s *RedisStore) List(ctx context.Context, owner string) ([]Item, error) {
	fields, err := s.client.HGetAll(ctx, s.key(owner)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(fields))
	for id, raw := range fields {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Printf("[cart] owner=%s prompt=%s bad addedAt %q: %v", owner, id, raw, err)
		}
		items = append(items, Item{PromptID: id, AddedAt: at})
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	return s.client.Del(ctx, s.key(owner)).Err()
}

var _ Store = (*RedisStore)(nil)
