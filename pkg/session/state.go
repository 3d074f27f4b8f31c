// Package session はデザインセッションの状態機械です。
// State は値として扱い、遷移はすべて新しい State を返す関数で表します。
package session

import (
	"fmt"

	"github.com/shouni/gemini-design-kit/pkg/archive"
	"github.com/shouni/gemini-design-kit/pkg/domain"
)

// Phase はセッションの状態です。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseProcessing
	PhaseCandidateSelection
	PhaseComparing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProcessing:
		return "processing"
	case PhaseCandidateSelection:
		return "candidate_selection"
	case PhaseComparing:
		return "comparing"
	default:
		return "unknown"
	}
}

// Comparison はアップスケール前後の比較ペアです。
type Comparison struct {
	Before domain.ImageRef
	After  domain.ImageRef
}

// State はセッションの全状態です。History は新しいものが先頭の LIFO なのだ。
type State struct {
	Config      domain.Config
	Phase       Phase
	IsTyping    bool
	ActiveImage *domain.ImageRef
	Candidates  []domain.ImageRef
	History     []domain.ImageRef
	Messages    []domain.Message
	Comparison  *Comparison

	// settled は Processing / Comparing から戻る先の状態なのだ。
	settled Phase
}

// NewState はデフォルト設定と挨拶メッセージから始まる State を作ります。
func NewState(cfg domain.Config, greeting domain.Message) State {
	return State{
		Config:   cfg,
		Phase:    PhaseIdle,
		Messages: []domain.Message{greeting},
	}
}

// Clone は State を深いコピーで複製します。
func (s State) Clone() State {
	out := s
	out.Config = s.Config.Clone()
	out.ActiveImage = domain.CloneImagePtr(s.ActiveImage)
	out.Candidates = domain.CloneImages(s.Candidates)
	out.History = domain.CloneImages(s.History)
	out.Messages = domain.CloneMessages(s.Messages)
	if s.Comparison != nil {
		out.Comparison = &Comparison{Before: s.Comparison.Before.Clone(), After: s.Comparison.After.Clone()}
	}
	return out
}

// Busy は生成中かどうかを返します。
func (s State) Busy() bool {
	return s.Phase == PhaseProcessing
}

// HasMeaningfulContent はアーカイブする価値のある内容があるかを返します。
func (s State) HasMeaningfulContent() bool {
	return s.ActiveImage != nil ||
		len([]rune(s.Config.SubjectDescription)) > trivialDescriptionLength ||
		len(s.Messages) > seedMessageCount
}

const (
	trivialDescriptionLength = 3
	seedMessageCount         = 1
)

// appendMessage は追記専用ログにメッセージを足します。既存の配列は共有しないのだ。
func (s State) appendMessage(m domain.Message) State {
	msgs := make([]domain.Message, len(s.Messages), len(s.Messages)+1)
	copy(msgs, s.Messages)
	s.Messages = append(msgs, m)
	return s
}

// pushHistory は履歴の先頭に画像を積みます。
func (s State) pushHistory(img domain.ImageRef) State {
	h := make([]domain.ImageRef, 0, len(s.History)+1)
	h = append(h, img)
	s.History = append(h, s.History...)
	return s
}

func (s State) restingPhase() Phase {
	if s.Phase == PhaseProcessing || s.Phase == PhaseComparing {
		return s.settled
	}
	return s.Phase
}

// WithConfig は設定を差し替えます。
func (s State) WithConfig(cfg domain.Config) State {
	s.Config = cfg
	return s
}

// Log はユーザー操作の記録だけをログに足します。
func (s State) Log(m domain.Message) State {
	return s.appendMessage(m)
}

func (s State) begin(summary domain.Message) State {
	s.settled = s.restingPhase()
	s.Phase = PhaseProcessing
	s.IsTyping = true
	return s.appendMessage(summary)
}

// Begin は生成トリガーで Processing に入り、操作の要約メッセージを足します。
// 比較中だった場合は比較を閉じるのだ。
func (s State) Begin(summary domain.Message) State {
	s = s.begin(summary)
	s.Comparison = nil
	return s
}

// BeginUpscale はアップスケールで Processing に入ります。比較状態はそのまま残すのだ。
func (s State) BeginUpscale(summary domain.Message) State {
	return s.begin(summary)
}

// Resolve は生成結果を反映します。
// 1枚なら即座にアクティブにして履歴へ積み、複数なら候補選択に入るのだ。
func (s State) Resolve(images []domain.ImageRef, reply domain.Message) State {
	s.IsTyping = false
	switch {
	case len(images) == 1:
		img := images[0]
		s.ActiveImage = &img
		s = s.pushHistory(img)
		s.Candidates = nil
		s.Phase = PhaseIdle
	case len(images) > 1:
		s.Candidates = images
		s.ActiveImage = nil
		s.Phase = PhaseCandidateSelection
	default:
		s.Phase = s.settled
	}
	s.settled = s.Phase
	return s.appendMessage(reply)
}

// Fail は失敗を謝罪メッセージに変えて Idle に戻します。画像・履歴・候補は変えないのだ。
func (s State) Fail(apology domain.Message) State {
	s.IsTyping = false
	s.Phase = PhaseIdle
	if len(s.Candidates) > 0 {
		s.Phase = PhaseCandidateSelection
	}
	s.settled = s.Phase
	return s.appendMessage(apology)
}

// SelectCandidate は候補の1枚を選んでアクティブにします。
func (s State) SelectCandidate(id string, confirm domain.Message) (State, error) {
	if s.Phase != PhaseCandidateSelection {
		return s, fmt.Errorf("%w: not selecting candidates (phase=%s)", domain.ErrCandidateNotFound, s.Phase)
	}
	for _, c := range s.Candidates {
		if c.ID != id {
			continue
		}
		img := c
		s.ActiveImage = &img
		s = s.pushHistory(img)
		s.Candidates = nil
		s.Phase = PhaseIdle
		s.settled = PhaseIdle
		return s.appendMessage(confirm), nil
	}
	return s, fmt.Errorf("%w: %s", domain.ErrCandidateNotFound, id)
}

// SelectHistory は履歴の画像をアクティブに戻します。履歴には積まないのだ。
func (s State) SelectHistory(id string) (State, error) {
	for _, h := range s.History {
		if h.ID != id {
			continue
		}
		img := h
		s.ActiveImage = &img
		return s, nil
	}
	return s, fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
}

// CompleteUpscale はアップスケールの結果で比較状態に入ります。
// 高解像度の画像をアクティブにして履歴へ積むのだ。
func (s State) CompleteUpscale(before, after domain.ImageRef, reply domain.Message) State {
	s.IsTyping = false
	s.Comparison = &Comparison{Before: before, After: after}
	s.ActiveImage = &after
	s = s.pushHistory(after)
	s.Phase = PhaseComparing
	return s.appendMessage(reply)
}

// FailUpscale はアップスケールの失敗を記録します。比較状態は変えないのだ。
func (s State) FailUpscale(apology domain.Message) State {
	s.IsTyping = false
	s.Phase = s.settled
	if s.Comparison != nil {
		s.Phase = PhaseComparing
	}
	return s.appendMessage(apology)
}

// CloseComparison は比較を閉じて、比較前の状態に戻ります。
func (s State) CloseComparison() State {
	if s.Phase != PhaseComparing {
		s.Comparison = nil
		return s
	}
	s.Comparison = nil
	s.Phase = s.settled
	return s
}

// Reset はアーカイブ後の初期化です。設定をデフォルトに戻し、挨拶だけのログにします。
func (s State) Reset(cfg domain.Config, greeting domain.Message) State {
	return NewState(cfg, greeting)
}

// Restore はスナップショットの内容でセッション全体を置き換えます。
// 比較状態からは必ず抜け、候補は空にするのだ。
func (s State) Restore(snap archive.Snapshot) State {
	snap = snap.Clone()
	return State{
		Config:      snap.Config,
		Phase:       PhaseIdle,
		ActiveImage: snap.LastImage,
		History:     snap.History,
		Messages:    snap.Messages,
	}
}
