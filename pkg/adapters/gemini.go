package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/prompt"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// GeminiClientService は go-gemini-client の GenerativeModel を使う生成サービスです。
// GenAIService と同じ契約を、既存の Gemini クライアントの上で提供するのだ。
type GeminiClientService struct {
	aiClient   gemini.GenerativeModel
	imageModel string
	textModel  string
}

// NewGeminiClientService は依存関係を注入して初期化します。
func NewGeminiClientService(aiClient gemini.GenerativeModel, imageModel, textModel string) (*GeminiClientService, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (gemini.GenerativeModel) is required")
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	return &GeminiClientService{
		aiClient:   aiClient,
		imageModel: imageModel,
		textModel:  textModel,
	}, nil
}

// GenerateImage は候補1枚ぶんの生成を行います。
func (s *GeminiClientService) GenerateImage(ctx context.Context, req domain.GenerationRequest) (domain.ImageRef, error) {
	opts := gemini.GenerateOptions{
		AspectRatio: string(req.AspectRatio),
	}

	resp, err := s.aiClient.GenerateWithParts(ctx, s.imageModel, requestParts(req), opts)
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}
	if resp == nil {
		return domain.ImageRef{}, domain.ErrNoImageData
	}
	return parseImage(resp.RawResponse)
}

// UpscaleImage は固定の指示文で画像を高解像度化します。
func (s *GeminiClientService) UpscaleImage(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error) {
	resp, err := s.aiClient.GenerateWithParts(ctx, s.imageModel, upscaleParts(prompt.UpscaleInstruction, img), gemini.GenerateOptions{})
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("Geminiアップスケールエラー: %w", err)
	}
	if resp == nil {
		return domain.ImageRef{}, domain.ErrNoImageData
	}
	return parseImage(resp.RawResponse)
}

// EnhancePrompt は自由記述を詳しいプロンプトに書き直します。失敗時は元の文章を返すのだ。
func (s *GeminiClientService) EnhancePrompt(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	resp, err := s.aiClient.GenerateContent(ctx, s.textModel, fmt.Sprintf(enhanceInstruction, text))
	if err != nil {
		return enhanceFallback(ctx, text, "", err)
	}
	if resp == nil || resp.RawResponse == nil {
		return text
	}
	return enhanceFallback(ctx, text, strings.TrimSpace(resp.RawResponse.Text()), nil)
}
