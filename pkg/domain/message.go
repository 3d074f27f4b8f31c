package domain

import "time"

// Role は会話ログの発言者です。
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message は追記専用の会話ログのエントリです。作成後に書き換えてはいけません。
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Text       string     `json:"text,omitempty"`
	Image      *ImageRef  `json:"image,omitempty"`
	Candidates []ImageRef `json:"candidates,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Clone は画像を含めて複製します。
func (m Message) Clone() Message {
	out := m
	out.Image = CloneImagePtr(m.Image)
	out.Candidates = CloneImages(m.Candidates)
	return out
}

// CloneMessages はログ全体を深いコピーで複製します。
func CloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
