package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"google.golang.org/genai"
)

const (
	// DefaultImageModel は画像生成・アップスケールに使うモデルです。
	DefaultImageModel = "gemini-2.5-flash-image"
	// DefaultTextModel はプロンプト改善に使うモデルです。
	DefaultTextModel = "gemini-2.5-flash"

	enhanceInstruction = "You are a professional art director. Rewrite this user brief into a detailed image generation prompt focusing on lighting and composition: %q"
)

// toPart は ImageRef を genai.Part (InlineData) に変換します。
func toPart(img domain.ImageRef) *genai.Part {
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     img.Data,
		},
	}
}

// requestParts は指示文テキストを先頭に、参照画像を添付順に並べたパーツを作ります。
func requestParts(req domain.GenerationRequest) []*genai.Part {
	parts := []*genai.Part{{Text: req.Instruction}}
	for _, ref := range req.ReferenceImages {
		if len(ref.Image.Data) == 0 {
			continue
		}
		parts = append(parts, toPart(ref.Image))
	}
	return parts
}

// upscaleParts はアップスケール用の固定指示文と元画像のパーツを作ります。
func upscaleParts(instruction string, img domain.ImageRef) []*genai.Part {
	return []*genai.Part{{Text: instruction}, toPart(img)}
}

// parseImage は Gemini のレスポンスから最初の画像を取り出します。
func parseImage(resp *genai.GenerateContentResponse) (domain.ImageRef, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return domain.ImageRef{}, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	// 最初の候補 (Candidate) のみを利用する。候補数はファンアウトで制御するのだ。
	candidate := resp.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return domain.NewImageRef(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return domain.ImageRef{}, fmt.Errorf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}

	return domain.ImageRef{}, domain.ErrNoImageData
}

// enhanceFallback はプロンプト改善の結果を検証し、使えなければ元の文章を返します。
func enhanceFallback(ctx context.Context, original, rewritten string, err error) string {
	if err != nil {
		slog.WarnContext(ctx, "プロンプトの改善に失敗しました。元の文章を使います", "error", err)
		return original
	}
	if rewritten == "" {
		return original
	}
	return rewritten
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
