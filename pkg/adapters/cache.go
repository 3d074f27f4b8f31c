package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shouni/gemini-design-kit/pkg/domain"
)

const cacheKeyReference = "design_kit:reference:"

// ImageCache は読み込み済みの参照画像を URI ごとに保持します。
type ImageCache interface {
	Get(ctx context.Context, key string) (domain.ImageRef, bool)
	Set(ctx context.Context, key string, img domain.ImageRef, ttl time.Duration)
}

// RedisImageCache は Redis に JSON で参照画像を保存する ImageCache です。
type RedisImageCache struct {
	client redis.Cmdable
}

// NewRedisImageCache は依存関係を注入して RedisImageCache を初期化します。
func NewRedisImageCache(client redis.Cmdable) (*RedisImageCache, error) {
	if client == nil {
		return nil, fmt.Errorf("client (redis.Cmdable) is required")
	}
	return &RedisImageCache{client: client}, nil
}

func (c *RedisImageCache) Get(ctx context.Context, key string) (domain.ImageRef, bool) {
	b, err := c.client.Get(ctx, cacheKeyReference+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "参照画像キャッシュの取得に失敗しました", "key", key, "error", err)
		}
		return domain.ImageRef{}, false
	}
	var img domain.ImageRef
	if err := json.Unmarshal(b, &img); err != nil {
		slog.WarnContext(ctx, "参照画像キャッシュが壊れています", "key", key, "error", err)
		return domain.ImageRef{}, false
	}
	return img, true
}

// Set は失敗してもエラーを返しません。キャッシュが無くても読み込みは続けられるのだ。
func (c *RedisImageCache) Set(ctx context.Context, key string, img domain.ImageRef, ttl time.Duration) {
	b, err := json.Marshal(img)
	if err != nil {
		slog.WarnContext(ctx, "参照画像のエンコードに失敗しました", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKeyReference+key, b, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "参照画像キャッシュの保存に失敗しました", "key", key, "error", err)
	}
}

// cacheable はキャッシュしてよい URI かを返します。ローカルファイルは書き換わりうるので対象外なのだ。
func cacheable(uri string) bool {
	return strings.Contains(uri, "://") && !strings.HasPrefix(uri, "file://")
}
