package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/shouni/gemini-design-kit/internal/config"
	"github.com/shouni/gemini-design-kit/pkg/adapters"
	"github.com/shouni/gemini-design-kit/pkg/archive"
	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/generator"
	"github.com/shouni/gemini-design-kit/pkg/session"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// app はコマンド1回分の依存関係をまとめたものです。
type app struct {
	cfg    *config.Config
	studio *session.Studio
	loader *adapters.ReferenceLoader
	close  func()
}

func setupLogger(cfg *config.Config) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := setupLogger(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	svc, err := adapters.NewGenAIServiceFromClient(client, cfg.Gemini.ImageModel, cfg.Gemini.TextModel)
	if err != nil {
		return nil, err
	}
	orch, err := generator.NewOrchestrator(svc, svc)
	if err != nil {
		return nil, err
	}

	store, rdb, closeStore, err := newStore(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	studio, err := session.NewStudio(orch,
		session.WithEnhancer(svc),
		session.WithArchive(archive.New(store)),
	)
	if err != nil {
		closeStore()
		return nil, err
	}

	// CLI ではローカルファイルと file:// だけを読む
	loader, err := adapters.NewReferenceLoader(adapters.LocalReader{}, nil)
	if err != nil {
		closeStore()
		return nil, err
	}
	if rdb != nil {
		cache, err := adapters.NewRedisImageCache(rdb)
		if err != nil {
			closeStore()
			return nil, err
		}
		loader.SetCache(cache, cfg.Redis.CacheTTL)
	}

	return &app{cfg: cfg, studio: studio, loader: loader, close: closeStore}, nil
}

// newStore は Redis のアドレスがあれば RedisStore を、なければ MemoryStore を返します。
// Redis を使う場合はクライアントも返すのだ。
func newStore(ctx context.Context, rc config.RedisConfig) (archive.Store, *redis.Client, func(), error) {
	if rc.Addr == "" {
		return archive.NewMemoryStore(), nil, func() {}, nil
	}
	rdb, err := archive.NewRedisClient(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := archive.NewRedisStore(rdb, rc.Key)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, nil, err
	}
	slog.InfoContext(ctx, "Redis にプロジェクトを保存します", "addr", rc.Addr, "key", rc.Key)
	return store, rdb, func() { _ = rdb.Close() }, nil
}

// withTimeout は外部呼び出し1回分のタイムアウト付きコンテキストを返します。
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Gemini.RequestTimeout)
}

// attachReferences は主被写体とスタイル参照を並列に読み込んで設定します。空の URI は無視するのだ。
func (a *app) attachReferences(ctx context.Context, subjectURI, styleURI string) error {
	refs := []struct {
		slot domain.ImageSlot
		uri  string
		img  domain.ImageRef
	}{
		{slot: domain.SlotSubject, uri: subjectURI},
		{slot: domain.SlotSecondary, uri: styleURI},
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range refs {
		if refs[i].uri == "" {
			continue
		}
		g.Go(func() error {
			img, err := a.loader.Load(gctx, refs[i].uri)
			if err != nil {
				return err
			}
			refs[i].img = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range refs {
		if r.uri == "" {
			continue
		}
		a.studio.AttachImage(r.slot, &r.img)
	}
	return nil
}
