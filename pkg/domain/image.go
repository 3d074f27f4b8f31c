package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// imageNamespace は画像IDを内容から導出するための UUID 名前空間です。
var imageNamespace = uuid.MustParse("6f1d3c1e-5d0a-4b7e-9a55-0c2b7d4e8a91")

// ImageRef は生成サービスとやり取りする不透明な画像ハンドルです。
// Data は作成後に書き換えない前提で扱います。
type ImageRef struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// NewImageRef はバイナリから ImageRef を作成します。
// ID は内容から決まるので、同じ画像なら同じ ID になるのだ。
func NewImageRef(mimeType string, data []byte) ImageRef {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return ImageRef{
		ID:       uuid.NewSHA1(imageNamespace, data).String(),
		MimeType: mimeType,
		Data:     data,
	}
}

// IsZero は空のハンドルかどうかを返します。
func (r ImageRef) IsZero() bool {
	return r.ID == "" && len(r.Data) == 0
}

// Clone はバイナリを含めて複製します。
func (r ImageRef) Clone() ImageRef {
	out := r
	if r.Data != nil {
		out.Data = bytes.Clone(r.Data)
	}
	return out
}

// Equal は ID とバイナリが一致するかを返します。
func (r ImageRef) Equal(o ImageRef) bool {
	return r.ID == o.ID && r.MimeType == o.MimeType && bytes.Equal(r.Data, o.Data)
}

// DataURL は表示層向けの data URL を返します。
func (r ImageRef) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", r.MimeType, base64.StdEncoding.EncodeToString(r.Data))
}

// ReferenceRole は参照画像がリクエスト内で果たす役割です。
type ReferenceRole string

const (
	// RoleSource は編集・変形の元になる直前の生成結果です。
	RoleSource ReferenceRole = "source"
	// RoleSubject は主被写体（アイデンティティ）の参照です。
	RoleSubject ReferenceRole = "subject"
	// RoleStyle はスタイル・要素の参照です。
	RoleStyle ReferenceRole = "style"
)

// ReferenceImage はリクエストに添付する参照画像です。
type ReferenceImage struct {
	Role  ReferenceRole
	Image ImageRef
}

// GenerationRequest は外部サービスへ送る、副作用のない生成単位です。
// CandidateCount 個の同一リクエストがファンアウトされます。
type GenerationRequest struct {
	Mode            Mode
	Instruction     string
	ReferenceImages []ReferenceImage
	AspectRatio     AspectRatio
	CandidateCount  int
}

// CloneImages は ImageRef スライスを深いコピーで複製します。nil は nil のまま返すのだ。
func CloneImages(in []ImageRef) []ImageRef {
	if in == nil {
		return nil
	}
	out := make([]ImageRef, len(in))
	for i, img := range in {
		out[i] = img.Clone()
	}
	return out
}

// CloneImagePtr はポインタ先の画像を複製します。
func CloneImagePtr(in *ImageRef) *ImageRef {
	if in == nil {
		return nil
	}
	c := in.Clone()
	return &c
}
