package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"office-navigator/logger"
	"office-navigator/model"
)

// DraftKey 后台草稿在 Redis 中的键
const DraftKey = "navigation_offices_data"

// DraftStore 后台编辑中尚未发布的目录
type DraftStore interface {
	// Get 没有草稿时返回 ErrNotFound
	Get(ctx context.Context) (model.Directory, error)
	Put(ctx context.Context, dir model.Directory) error
	Delete(ctx context.Context) error
}

// OpenRedis 打开 Redis 客户端, 未配置地址时返回 nil
func OpenRedis(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	logger.L().Debug("redis_open", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// RedisDraftStore 草稿以 JSON 字符串存放在单个键中
type RedisDraftStore struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration // 0 表示不过期
}

func NewRedisDraftStore(rc *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{Client: rc, Key: DraftKey, TTL: ttl}
}

func (s *RedisDraftStore) Get(ctx context.Context) (model.Directory, error) {
	var dir model.Directory
	v, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return dir, ErrNotFound
	}
	if err != nil {
		return dir, fmt.Errorf("redis get %s: %w", s.Key, err)
	}
	if err := json.Unmarshal(v, &dir); err != nil {
		return dir, fmt.Errorf("decode draft: %w", err)
	}
	return dir, nil
}

func (s *RedisDraftStore) Put(ctx context.Context, dir model.Directory) error {
	b, err := json.Marshal(dir)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.Client.Set(ctx, s.Key, b, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.Key, err)
	}
	logger.L().Debug("draft_saved", "key", s.Key, "offices", len(dir.Offices))
	return nil
}

func (s *RedisDraftStore) Delete(ctx context.Context) error {
	if err := s.Client.Del(ctx, s.Key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.Key, err)
	}
	return nil
}

// MemoryDraftStore 没有配置 Redis 时使用, 重启后草稿丢失
type MemoryDraftStore struct {
	mu    sync.Mutex
	draft []byte
}

func NewMemoryDraftStore() *MemoryDraftStore { return &MemoryDraftStore{} }

func (s *MemoryDraftStore) Get(ctx context.Context) (model.Directory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dir model.Directory
	if s.draft == nil {
		return dir, ErrNotFound
	}
	err := json.Unmarshal(s.draft, &dir)
	return dir, err
}

func (s *MemoryDraftStore) Put(ctx context.Context, dir model.Directory) error {
	b, err := json.Marshal(dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.draft = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
	return nil
}
