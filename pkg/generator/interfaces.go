package generator

import (
	"context"

	"github.com/shouni/gemini-design-kit/pkg/domain"
)

// ImageService は候補1枚ぶんの生成を行う外部サービスです。
// 成功時はちょうど1枚の画像を返し、失敗時はエラーを返します。
type ImageService interface {
	GenerateImage(ctx context.Context, req domain.GenerationRequest) (domain.ImageRef, error)
}

// Upscaler は1枚の画像を高解像度化する外部サービスです。
type Upscaler interface {
	UpscaleImage(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error)
}

// PromptEnhancer は自由記述の文章を詳しい生成プロンプトに書き直します。
// 失敗した場合は元の文章をそのまま返す（フェイルオープン）のだ。
type PromptEnhancer interface {
	EnhancePrompt(ctx context.Context, text string) string
}
