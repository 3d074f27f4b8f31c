package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewGeminiClientService(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewGeminiClientService(nil, "", "")
		assert.Error(t, err)
	})
}

func TestGeminiClientService_GenerateImage(t *testing.T) {
	ctx := context.Background()
	subj := domain.NewImageRef("image/png", []byte("subject"))
	sec := domain.NewImageRef("image/png", []byte("style"))
	req := domain.GenerationRequest{
		Mode:        domain.ModeCreate,
		Instruction: "studio portrait",
		ReferenceImages: []domain.ReferenceImage{
			{Role: domain.RoleSubject, Image: subj},
			{Role: domain.RoleStyle, Image: sec},
		},
		AspectRatio: domain.AspectPortrait,
	}

	t.Run("成功: 参照画像がすべてパーツに追加されるのだ", func(t *testing.T) {
		ai := &mockAIClient{}
		svc, _ := NewGeminiClientService(ai, "imagen", "")

		img, err := svc.GenerateImage(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "fake", string(img.Data))
		assert.Equal(t, "imagen", ai.lastModel)
		assert.Len(t, ai.lastParts, 3)
		assert.Equal(t, "3:4", ai.lastOpts.AspectRatio)
	})

	t.Run("失敗: AIクライアントのエラーが適切にラップされて返るのだ", func(t *testing.T) {
		expectedErr := errors.New("ai error")
		ai := &mockAIClient{
			generateFunc: func(model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, expectedErr
			},
		}
		svc, _ := NewGeminiClientService(ai, "", "")

		_, err := svc.GenerateImage(ctx, req)

		assert.ErrorIs(t, err, expectedErr)
		assert.True(t, strings.Contains(err.Error(), "Gemini画像生成エラー"))
	})

	t.Run("失敗: 安全フィルターでブロックされた場合", func(t *testing.T) {
		ai := &mockAIClient{
			generateFunc: func(model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: &genai.GenerateContentResponse{
					Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
				}}, nil
			},
		}
		svc, _ := NewGeminiClientService(ai, "", "")

		_, err := svc.GenerateImage(ctx, req)
		assert.Error(t, err)
	})
}

func TestGeminiClientService_EnhancePrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("成功", func(t *testing.T) {
		ai := &mockAIClient{
			contentFunc: func(model string, prompt string) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: textResponse("detailed brief")}, nil
			},
		}
		svc, _ := NewGeminiClientService(ai, "", "")
		assert.Equal(t, "detailed brief", svc.EnhancePrompt(ctx, "brief"))
	})

	t.Run("失敗時は元の文章なのだ", func(t *testing.T) {
		ai := &mockAIClient{
			contentFunc: func(model string, prompt string) (*gemini.Response, error) {
				return nil, errors.New("boom")
			},
		}
		svc, _ := NewGeminiClientService(ai, "", "")
		assert.Equal(t, "brief", svc.EnhancePrompt(ctx, "brief"))
	})
}
