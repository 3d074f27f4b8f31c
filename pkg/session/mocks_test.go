package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/generator"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

// mockImageService は ImageService のテスト用モックなのだ。
type mockImageService struct {
	mu       sync.Mutex
	requests []domain.GenerationRequest
	calls    atomic.Int32
	// generateFunc は呼び出し番号（0始まり）を受け取るのだ
	generateFunc func(ctx context.Context, call int, req domain.GenerationRequest) (domain.ImageRef, error)
}

func (m *mockImageService) GenerateImage(ctx context.Context, req domain.GenerationRequest) (domain.ImageRef, error) {
	call := int(m.calls.Add(1)) - 1
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, call, req)
	}
	return domain.NewImageRef("image/png", []byte(fmt.Sprintf("image-%d", call))), nil
}

func (m *mockImageService) lastRequest() domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

type mockUpscaler struct {
	upscaleFunc func(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error)
}

func (m *mockUpscaler) UpscaleImage(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error) {
	if m.upscaleFunc != nil {
		return m.upscaleFunc(ctx, img)
	}
	return domain.NewImageRef(img.MimeType, append([]byte("4k-"), img.Data...)), nil
}

type mockEnhancer struct {
	enhanceFunc func(ctx context.Context, text string) string
}

func (m *mockEnhancer) EnhancePrompt(ctx context.Context, text string) string {
	if m.enhanceFunc != nil {
		return m.enhanceFunc(ctx, text)
	}
	return "enhanced: " + text
}

// fixedClock は呼ばれるたびに1秒進む時計なのだ。
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStudio(t *testing.T, svc *mockImageService, up *mockUpscaler, opts ...Option) *Studio {
	t.Helper()
	var upscaler generator.Upscaler
	if up != nil {
		upscaler = up
	}
	orch, err := generator.NewOrchestrator(svc, upscaler)
	require.NoError(t, err)
	s, err := NewStudio(orch, append([]Option{WithClock(fixedClock())}, opts...)...)
	require.NoError(t, err)
	return s
}
