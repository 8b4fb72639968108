package services

import (
	"context"
	"strconv"
	"sync"

	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

const (
	locationIDKey     = "macarabia:sync:location_id"
	publicationIDsKey = "macarabia:sync:publication_ids"
)

// CacheService holds the two pieces of secondary-store state that rarely
// change: the location id and the sales-channel publication ids. In-process
// memoization is the source of truth for a running process; Redis sits behind
// it so restarts don't re-resolve. Redis failures degrade to in-process only.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client

	mu             sync.Mutex
	locationID     int64
	publicationIDs []string
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(cfg),
	}
}

func getRedisClient(cfg *structs.Config) *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	if cs.client != nil {
		return cs.client.Close()
	}
	return nil
}

// GetLocationID returns the cached location id, false on a full miss.
func (cs *CacheService) GetLocationID(ctx context.Context) (int64, bool) {
	cs.mu.Lock()
	if cs.locationID != 0 {
		id := cs.locationID
		cs.mu.Unlock()
		return id, true
	}
	cs.mu.Unlock()

	if cs.client == nil {
		return 0, false
	}

	val, err := cs.client.Get(ctx, locationIDKey).Result()
	if err != nil {
		if err != redis.Nil {
			cs.logger.Warn("Failed to read location id from redis", gecho.Field("error", err))
		}
		return 0, false
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	cs.mu.Lock()
	cs.locationID = id
	cs.mu.Unlock()
	return id, true
}

func (cs *CacheService) SetLocationID(ctx context.Context, id int64) {
	cs.mu.Lock()
	cs.locationID = id
	cs.mu.Unlock()

	if cs.client == nil {
		return
	}

	if err := cs.client.Set(ctx, locationIDKey, strconv.FormatInt(id, 10), cs.config.Cache.TTL).Err(); err != nil {
		cs.logger.Warn("Failed to cache location id in redis", gecho.Field("error", err))
	}
}

// GetPublicationIDs returns the cached sales-channel publication ids.
func (cs *CacheService) GetPublicationIDs(ctx context.Context) ([]string, bool) {
	cs.mu.Lock()
	if len(cs.publicationIDs) > 0 {
		ids := append([]string(nil), cs.publicationIDs...)
		cs.mu.Unlock()
		return ids, true
	}
	cs.mu.Unlock()

	if cs.client == nil {
		return nil, false
	}

	vals, err := cs.client.LRange(ctx, publicationIDsKey, 0, -1).Result()
	if err != nil {
		if err != redis.Nil {
			cs.logger.Warn("Failed to read publication ids from redis", gecho.Field("error", err))
		}
		return nil, false
	}
	if len(vals) == 0 {
		return nil, false
	}

	cs.mu.Lock()
	cs.publicationIDs = append([]string(nil), vals...)
	cs.mu.Unlock()
	return vals, true
}

func (cs *CacheService) SetPublicationIDs(ctx context.Context, ids []string) {
	cs.mu.Lock()
	cs.publicationIDs = append([]string(nil), ids...)
	cs.mu.Unlock()

	if cs.client == nil || len(ids) == 0 {
		return
	}

	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	pipe := cs.client.TxPipeline()
	pipe.Del(ctx, publicationIDsKey)
	pipe.RPush(ctx, publicationIDsKey, members...)
	pipe.Expire(ctx, publicationIDsKey, cs.config.Cache.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		cs.logger.Warn("Failed to cache publication ids in redis", gecho.Field("error", err))
	}
}

// Reset drops the in-process memoization. Used by tests.
func (cs *CacheService) Reset() {
	cs.mu.Lock()
	cs.locationID = 0
	cs.publicationIDs = nil
	cs.mu.Unlock()
}
