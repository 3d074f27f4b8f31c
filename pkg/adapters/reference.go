package adapters

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// ReferenceLoader はユーザーが指定した参照画像を読み込み、ImageRef に変換します。
// http(s) は SSRF チェックのうえ httpClient で、それ以外（gs:// やローカルパス）は reader で読むのだ。
type ReferenceLoader struct {
	reader     remoteio.InputReader
	httpClient httpkit.ClientInterface
	cache      ImageCache
	cacheTTL   time.Duration
}

// NewReferenceLoader は依存関係を注入して ReferenceLoader を初期化します。
// どちらか片方は nil を許容し、その経路の URI は読み込みエラーになります。
func NewReferenceLoader(reader remoteio.InputReader, httpClient httpkit.ClientInterface) (*ReferenceLoader, error) {
	if reader == nil && httpClient == nil {
		return nil, fmt.Errorf("reader or httpClient is required")
	}
	return &ReferenceLoader{
		reader:     reader,
		httpClient: httpClient,
	}, nil
}

// SetCache はリモートの参照画像をキャッシュする ImageCache を設定します。
func (l *ReferenceLoader) SetCache(cache ImageCache, ttl time.Duration) {
	l.cache = cache
	l.cacheTTL = ttl
}

// Load は URI から画像を読み込みます。画像でないデータはエラーなのだ。
func (l *ReferenceLoader) Load(ctx context.Context, uri string) (domain.ImageRef, error) {
	useCache := l.cache != nil && cacheable(uri)
	if useCache {
		if img, ok := l.cache.Get(ctx, uri); ok {
			slog.DebugContext(ctx, "参照画像をキャッシュから読み込みました", "uri", uri)
			return img, nil
		}
	}

	img, err := l.load(ctx, uri)
	if err != nil {
		return domain.ImageRef{}, err
	}
	if useCache {
		l.cache.Set(ctx, uri, img, l.cacheTTL)
	}
	return img, nil
}

func (l *ReferenceLoader) load(ctx context.Context, uri string) (domain.ImageRef, error) {
	data, err := l.fetch(ctx, uri)
	if err != nil {
		return domain.ImageRef{}, fmt.Errorf("参照画像の読み込みに失敗しました (%s): %w", uri, err)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.WarnContext(ctx, "MIMEタイプが画像ではないため読み込めませんでした", "uri", uri, "detected_mime_type", mimeType)
		return domain.ImageRef{}, fmt.Errorf("not an image (%s): %s", mimeType, uri)
	}

	slog.InfoContext(ctx, "参照画像を読み込みました", "uri", uri, "mime_type", mimeType, "bytes", len(data))
	return domain.NewImageRef(mimeType, data), nil
}

func (l *ReferenceLoader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		if l.httpClient == nil {
			return nil, fmt.Errorf("http client is not configured")
		}
		if safe, err := isSafeURL(uri); err != nil || !safe {
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
		}
		return l.httpClient.FetchBytes(ctx, uri)
	}

	if l.reader == nil {
		return nil, fmt.Errorf("reader is not configured")
	}
	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// LocalReader はローカルファイルシステムを読む remoteio.InputReader です。
// CLI でクラウドの認証なしに参照画像を読むために使うのだ。
type LocalReader struct{}

// Open はファイルを開きます。
func (LocalReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return os.Open(strings.TrimPrefix(uri, "file://"))
}

// List はディレクトリ配下のファイルパスを順に fn へ渡します。
func (LocalReader) List(ctx context.Context, uri string, fn func(string) error) error {
	root := strings.TrimPrefix(uri, "file://")
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path)
	})
}

var _ remoteio.InputReader = LocalReader{}
