package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/prompt"
	"google.golang.org/genai"
)

// ContentGenerator は genai の Models が満たす生成 API です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIService は google.golang.org/genai を直接使う生成サービスです。
// ImageService、Upscaler、PromptEnhancer を兼ねます。
type GenAIService struct {
	models     ContentGenerator
	imageModel string
	textModel  string
}

// NewGenAIService は依存関係を注入して GenAIService を初期化します。
// モデル名が空ならデフォルトを使うのだ。
func NewGenAIService(models ContentGenerator, imageModel, textModel string) (*GenAIService, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	return &GenAIService{
		models:     models,
		imageModel: imageModel,
		textModel:  textModel,
	}, nil
}

// NewGenAIServiceFromClient は genai.Client から GenAIService を作ります。
func NewGenAIServiceFromClient(client *genai.Client, imageModel, textModel string) (*GenAIService, error) {
	if client == nil {
		return nil, fmt.Errorf("client (*genai.Client) is required")
	}
	return NewGenAIService(client.Models, imageModel, textModel)
}

// GenerateImage は候補1枚ぶんの生成を行います。
func (s *GenAIService) GenerateImage(ctx context.Context, req domain.GenerationRequest) (domain.ImageRef, error) {
	contents := []*genai.Content{genai.NewContentFromParts(requestParts(req), genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: string(req.AspectRatio)}
	}

	resp, err := s.models.GenerateContent(ctx, s.imageModel, contents, cfg)
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}
	return parseImage(resp)
}

// UpscaleImage は固定の指示文で画像を高解像度化します。
func (s *GenAIService) UpscaleImage(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error) {
	contents := []*genai.Content{genai.NewContentFromParts(upscaleParts(prompt.UpscaleInstruction, img), genai.RoleUser)}
	resp, err := s.models.GenerateContent(ctx, s.imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("Geminiアップスケールエラー: %w", err)
	}
	return parseImage(resp)
}

// EnhancePrompt は自由記述を詳しいプロンプトに書き直します。失敗時は元の文章を返すのだ。
func (s *GenAIService) EnhancePrompt(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	resp, err := s.models.GenerateContent(ctx, s.textModel, genai.Text(fmt.Sprintf(enhanceInstruction, text)), nil)
	if err != nil {
		return enhanceFallback(ctx, text, "", err)
	}
	return enhanceFallback(ctx, text, strings.TrimSpace(resp.Text()), nil)
}
