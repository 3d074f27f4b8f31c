package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/prompt"
	"golang.org/x/sync/errgroup"
)

// Orchestrator は指示文をコンパイルし、1〜複数回の生成呼び出しを並列に実行して結果をまとめます。
type Orchestrator struct {
	service  ImageService
	upscaler Upscaler
}

// NewOrchestrator は依存関係を注入して Orchestrator を初期化します。
// upscaler は nil を許容し、その場合 Upscale は失敗を返すのだ。
func NewOrchestrator(service ImageService, upscaler Upscaler) (*Orchestrator, error) {
	if service == nil {
		return nil, fmt.Errorf("service (ImageService) is required")
	}
	return &Orchestrator{
		service:  service,
		upscaler: upscaler,
	}, nil
}

// BuildRequest は設定と直前画像から、送信するリクエストを組み立てます。
// 副作用はなく、設定はこの時点の値がそのまま取り込まれます。
func BuildRequest(cfg domain.Config, prior *domain.ImageRef, isVariation, isReformat bool) (domain.GenerationRequest, error) {
	mode, err := prompt.ResolveMode(prior != nil, isVariation, isReformat)
	if err != nil {
		return domain.GenerationRequest{}, err
	}

	req := domain.GenerationRequest{
		Mode:           mode,
		Instruction:    prompt.Compile(cfg, mode),
		AspectRatio:    cfg.AspectRatio,
		CandidateCount: 1,
	}
	if !mode.SingleCandidate() {
		req.CandidateCount = domain.ClampImageCount(cfg.ImageCount)
	}

	if mode.RequiresSource() {
		req.ReferenceImages = []domain.ReferenceImage{{Role: domain.RoleSource, Image: prior.Clone()}}
		return req, nil
	}

	// Create では主被写体 → スタイル参照の順に添付する。指示文のタグ番号もこの順なのだ。
	if cfg.SubjectImage != nil {
		req.ReferenceImages = append(req.ReferenceImages, domain.ReferenceImage{Role: domain.RoleSubject, Image: cfg.SubjectImage.Clone()})
	}
	if cfg.SecondaryImage != nil {
		req.ReferenceImages = append(req.ReferenceImages, domain.ReferenceImage{Role: domain.RoleStyle, Image: cfg.SecondaryImage.Clone()})
	}
	return req, nil
}

// Generate はリクエストを組み立てて実行します。
func (o *Orchestrator) Generate(ctx context.Context, cfg domain.Config, prior *domain.ImageRef, isVariation, isReformat bool) ([]domain.ImageRef, error) {
	req, err := BuildRequest(cfg, prior, isVariation, isReformat)
	if err != nil {
		return nil, err
	}
	return o.Execute(ctx, req)
}

// Execute は CandidateCount 個の同一リクエストを並列に発行し、すべての完了を待ちます。
// 1つでも失敗したらバッチ全体を失敗とし、部分的な結果は返しません。
// 戻り値の順序は発行順で、品質の順位を意味しないのだ。
func (o *Orchestrator) Execute(ctx context.Context, req domain.GenerationRequest) ([]domain.ImageRef, error) {
	n := max(1, req.CandidateCount)
	slog.InfoContext(ctx, "生成バッチを開始します",
		"mode", req.Mode.String(), "candidates", n, "references", len(req.ReferenceImages), "aspect_ratio", string(req.AspectRatio))

	start := time.Now()
	results := make([]domain.ImageRef, n)
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(domain.MaxImageCount)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			img, err := o.service.GenerateImage(ctx, req)
			if err == nil && len(img.Data) == 0 {
				err = domain.ErrNoImageData
			}
			candidatesTotal.WithLabelValues(statusLabel(err)).Inc()
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = img
			return nil
		})
	}
	waitErr := g.Wait()

	batchDuration.WithLabelValues(req.Mode.String()).Observe(time.Since(start).Seconds())
	batchesTotal.WithLabelValues(req.Mode.String(), statusLabel(waitErr)).Inc()

	if waitErr != nil {
		for i, err := range errs {
			if err == nil {
				continue
			}
			slog.WarnContext(ctx, "生成バッチが失敗しました", "mode", req.Mode.String(), "index", i, "error", err)
			kind := domain.BatchFailure
			if n == 1 {
				kind = domain.GenerationFailure
			}
			return nil, &domain.GenerationError{Kind: kind, Mode: req.Mode, Index: i, Err: err}
		}
	}

	slog.InfoContext(ctx, "生成バッチが完了しました", "mode", req.Mode.String(), "images", len(results), "elapsed", time.Since(start))
	return results, nil
}

// Upscale は1枚の画像を高解像度化します。失敗は UpscaleFailure として返すのだ。
func (o *Orchestrator) Upscale(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error) {
	if o.upscaler == nil {
		err := &domain.GenerationError{Kind: domain.UpscaleFailure, Index: -1, Err: fmt.Errorf("upscaler is not configured")}
		upscalesTotal.WithLabelValues(statusLabel(err)).Inc()
		return domain.ImageRef{}, err
	}

	out, err := o.upscaler.UpscaleImage(ctx, img)
	if err == nil && len(out.Data) == 0 {
		err = domain.ErrNoImageData
	}
	upscalesTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		slog.WarnContext(ctx, "アップスケールに失敗しました", "error", err)
		return domain.ImageRef{}, &domain.GenerationError{Kind: domain.UpscaleFailure, Index: -1, Err: err}
	}
	return out, nil
}
