package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/logger"
)

// RedisStore 把草稿序列化为 JSON 存入 Redis，并用一个集合维护草稿 ID 索引。
// 配置了 TTL 时每次写入都会刷新过期时间，过期的草稿在 List 时从索引中清除。
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	nowFn  func() time.Time
}

// NewRedisStore 连接 Redis 并在 5 秒内完成一次 Ping。
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	opt := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("连接 Redis 失败 (%s): %w", cfg.Address, err)
	}
	logger.Info().Str("address", cfg.Address).Int("db", cfg.DB).Msg("草稿存储已连接 Redis")
	return NewRedisStoreWithClient(client, cfg.KeyPrefix, config.GetDuration(cfg.DraftTTL, 0)), nil
}

// NewRedisStoreWithClient 使用已有的客户端创建存储。
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "cvpress:draft:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, nowFn: time.Now}
}

// Close 关闭底层连接。
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) key(id string) string { return s.prefix + id }
func (s *RedisStore) indexKey() string     { return s.prefix + "index" }

func (s *RedisStore) Create(ctx context.Context, d Draft) (Draft, error) {
	d, err := prepare(d, s.nowFn())
	if err != nil {
		return Draft{}, err
	}
	if err := s.save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *RedisStore) save(ctx context.Context, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("序列化草稿失败: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(d.ID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), d.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存草稿 %s 失败: %w", d.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Draft, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("读取草稿 %s 失败: %w", id, err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("解析草稿 %s 失败: %w", id, err)
	}
	return d, nil
}

// List 按更新时间倒序返回全部草稿。
func (s *RedisStore) List(ctx context.Context) ([]Draft, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("读取草稿索引失败: %w", err)
	}
	out := make([]Draft, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("批量读取草稿失败: %w", err)
	}
	var stale []any
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var d Draft
		if err := json.Unmarshal([]byte(str), &d); err != nil {
			logger.Warn().Err(err).Str("draft_id", ids[i]).Msg("跳过无法解析的草稿")
			continue
		}
		out = append(out, d)
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			logger.Warn().Err(err).Int("count", len(stale)).Msg("清理过期草稿索引失败")
		}
	}
	sortDrafts(out)
	return out, nil
}

// Update 读取、合并后整体写回；并发更新同一草稿时后写者生效。
func (s *RedisStore) Update(ctx context.Context, id string, p Patch) (Draft, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	d, err = apply(d, p, s.nowFn())
	if err != nil {
		return Draft{}, err
	}
	if err := s.save(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("删除草稿 %s 失败: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}
