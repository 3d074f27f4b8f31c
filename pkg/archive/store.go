package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store はスナップショットの永続化先です。追記専用なのだ。
type Store interface {
	Append(ctx context.Context, s Snapshot) error
	List(ctx context.Context) ([]Snapshot, error)
}

// MemoryStore はプロセス内にスナップショットを保持する Store です。
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []Snapshot
}

// NewMemoryStore は空の MemoryStore を作ります。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(ctx context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s.Clone())
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Snapshot, len(m.snapshots))
	for i, s := range m.snapshots {
		out[i] = s.Clone()
	}
	return out, nil
}

// DefaultRedisKey はスナップショットを積む Redis リストのキーです。
const DefaultRedisKey = "design_kit:projects"

// RedisStore は Redis のリストに JSON でスナップショットを積む Store です。
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore は依存関係を注入して RedisStore を初期化します。
func NewRedisStore(client redis.Cmdable, key string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("client (redis.Cmdable) is required")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

// NewRedisClient はアドレスから Redis クライアントを作り、疎通を確認します。
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed (%s): %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisStore) Append(ctx context.Context, s Snapshot) error {
	payload, err := encodeSnapshot(s)
	if err != nil {
		return err
	}
	if err := r.client.RPush(ctx, r.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to append snapshot %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]Snapshot, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	out := make([]Snapshot, 0, len(raw))
	for _, item := range raw {
		s, err := decodeSnapshot([]byte(item))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func encodeSnapshot(s Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot %s: %w", s.ID, err)
	}
	return b, nil
}

func decodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
