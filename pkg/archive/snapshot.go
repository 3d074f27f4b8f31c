// Package archive はセッションのスナップショット（プロジェクト）を保存・復元します。
// 保存されたスナップショットは不変で、取り出すときは常に深いコピーを返すのだ。
package archive

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/utils"
)

const (
	// MaxNameLength はプロジェクト名の最大文字数です。
	MaxNameLength = 30
	// UntitledName は被写体の説明が無いときのプロジェクト名です。
	UntitledName = "Untitled project"
)

// Snapshot はアーカイブされたプロジェクトです。
type Snapshot struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Config    domain.Config     `json:"config"`
	History   []domain.ImageRef `json:"history"`
	LastImage *domain.ImageRef  `json:"last_image,omitempty"`
	Messages  []domain.Message  `json:"messages"`
}

// NewSnapshot はセッションの各値を深いコピーしてスナップショットを作ります。
func NewSnapshot(cfg domain.Config, history []domain.ImageRef, lastImage *domain.ImageRef, messages []domain.Message, now time.Time) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Name:      ProjectName(cfg.SubjectDescription),
		Timestamp: now,
		Config:    cfg.Clone(),
		History:   domain.CloneImages(history),
		LastImage: domain.CloneImagePtr(lastImage),
		Messages:  domain.CloneMessages(messages),
	}
}

// ProjectName は被写体の説明を切り詰めてプロジェクト名にします。
func ProjectName(description string) string {
	name := strings.TrimSpace(description)
	if name == "" {
		return UntitledName
	}
	return utils.TruncateRunes(name, MaxNameLength)
}

// Clone はスナップショット全体を深いコピーで複製します。
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Config = s.Config.Clone()
	out.History = domain.CloneImages(s.History)
	out.LastImage = domain.CloneImagePtr(s.LastImage)
	out.Messages = domain.CloneMessages(s.Messages)
	return out
}
