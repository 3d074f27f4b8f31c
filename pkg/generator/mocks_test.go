package generator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shouni/gemini-design-kit/pkg/domain"
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

type mockUpscaler struct {
	upscaleFunc func(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error)
}

func (m *mockUpscaler) UpscaleImage(ctx context.Context, img domain.ImageRef) (domain.ImageRef, error) {
	if m.upscaleFunc != nil {
		return m.upscaleFunc(ctx, img)
	}
	return domain.NewImageRef(img.MimeType, append([]byte("4k-"), img.Data...)), nil
}
