package adapters

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

// validPng は PNGの最小構成バイナリ（シグネチャ含む）なのだ。
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

// imageResponse は画像1枚を含む genai のレスポンスを作るのだ。
func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

// textResponse はテキストだけのレスポンスを作るのだ。
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

// mockContentGenerator は ContentGenerator のテスト用モックなのだ。
type mockContentGenerator struct {
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
	generateFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, config)
	}
	return imageResponse([]byte("fake")), nil
}

// mockAIClient は gemini.GenerativeModel のテスト用モックなのだ。
// 使わないメソッドは埋め込みで解決するのだ。
type mockAIClient struct {
	gemini.GenerativeModel
	lastModel    string
	lastParts    []*genai.Part
	lastOpts     gemini.GenerateOptions
	generateFunc func(model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
	contentFunc  func(model string, prompt string) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.lastModel = model
	m.lastParts = parts
	m.lastOpts = opts
	if m.generateFunc != nil {
		return m.generateFunc(model, parts, opts)
	}
	return &gemini.Response{RawResponse: imageResponse([]byte("fake"))}, nil
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	if m.contentFunc != nil {
		return m.contentFunc(model, prompt)
	}
	return nil, nil
}

// mockHTTPClient は httpkit.ClientInterface のうち FetchBytes だけを実装するのだ。
type mockHTTPClient struct {
	httpkit.ClientInterface
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return m.fetchFunc(ctx, url)
}

// mockReader は remoteio.InputReader のテスト用モックなのだ。
type mockReader struct {
	remoteio.InputReader
	openFunc func(ctx context.Context, uri string) (io.ReadCloser, error)
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return m.openFunc(ctx, uri)
}

// mockImageCache は ImageCache のテスト用のメモリ実装なのだ。
type mockImageCache struct {
	mu    sync.Mutex
	items map[string]domain.ImageRef
	ttls  map[string]time.Duration
	gets  int
}

func newMockImageCache() *mockImageCache {
	return &mockImageCache{items: map[string]domain.ImageRef{}, ttls: map[string]time.Duration{}}
}

func (m *mockImageCache) Get(ctx context.Context, key string) (domain.ImageRef, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	img, ok := m.items[key]
	return img, ok
}

func (m *mockImageCache) Set(ctx context.Context, key string, img domain.ImageRef, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = img
	m.ttls[key] = ttl
}
