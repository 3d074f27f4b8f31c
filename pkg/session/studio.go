package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/gemini-design-kit/pkg/archive"
	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/generator"
)

// Studio は State を保持し、ユーザー操作を生成・アップスケール・アーカイブに結び付けます。
// 生成の失敗はすべてここで謝罪メッセージに変わり、呼び出し側には返しません。
// 呼び出し側に返るのは ErrBusy や ValidationGapError などの事前条件エラーだけなのだ。
type Studio struct {
	mu    sync.Mutex
	state State

	generator *generator.Orchestrator
	enhancer  generator.PromptEnhancer
	archive   *archive.Archive
	now       func() time.Time
}

// Option は Studio の任意設定です。
type Option func(*Studio)

// WithEnhancer は被写体説明の書き直しに使う PromptEnhancer を設定します。
func WithEnhancer(e generator.PromptEnhancer) Option {
	return func(s *Studio) { s.enhancer = e }
}

// WithArchive はプロジェクトの保存先を設定します。未指定ならメモリ上のアーカイブなのだ。
func WithArchive(a *archive.Archive) Option {
	return func(s *Studio) { s.archive = a }
}

// WithClock はメッセージとスナップショットの時刻に使う関数を設定します。
func WithClock(now func() time.Time) Option {
	return func(s *Studio) { s.now = now }
}

// NewStudio は依存関係を注入して Studio を初期化します。
func NewStudio(gen *generator.Orchestrator, opts ...Option) (*Studio, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator (Orchestrator) is required")
	}
	s := &Studio{
		generator: gen,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.archive == nil {
		s.archive = archive.New(nil)
	}
	s.state = NewState(domain.DefaultConfig(), s.message(domain.RoleModel, GreetingText))
	return s, nil
}

func (s *Studio) message(role domain.Role, text string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: s.now(),
	}
}

// Snapshot は現在の State の深いコピーを返します。
func (s *Studio) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Generate は現在の設定から新しい画像を作ります。アクティブな画像があっても常に Create なのだ。
func (s *Studio) Generate(ctx context.Context) error {
	return s.run(ctx, func(st State) (State, domain.Config, *domain.ImageRef, bool, bool) {
		return st, st.Config, nil, false, false
	})
}

// Chat は入力文を被写体の説明に設定し、アクティブな画像があれば Refine、なければ Create を実行します。
func (s *Studio) Chat(ctx context.Context, text string) error {
	return s.run(ctx, func(st State) (State, domain.Config, *domain.ImageRef, bool, bool) {
		st = st.WithConfig(st.Config.WithSubjectDescription(text))
		return st, st.Config, st.ActiveImage, false, false
	})
}

// Vary はアクティブな画像のバリエーションを作ります。
func (s *Studio) Vary(ctx context.Context) error {
	return s.run(ctx, func(st State) (State, domain.Config, *domain.ImageRef, bool, bool) {
		return st, st.Config, st.ActiveImage, true, false
	})
}

// ChangeAspectRatio はアスペクト比を変更します。
// アクティブな画像があれば Reformat を実行し、なければ変更をログに残すだけなのだ。
func (s *Studio) ChangeAspectRatio(ctx context.Context, ratio domain.AspectRatio) error {
	if _, err := domain.ParseAspectRatio(string(ratio)); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state.Config.AspectRatio == ratio {
		s.mu.Unlock()
		return nil
	}
	if s.state.ActiveImage == nil {
		s.state = s.state.WithConfig(s.state.Config.WithAspectRatio(ratio)).
			Log(s.message(domain.RoleUser, formatSetText(ratio)))
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.run(ctx, func(st State) (State, domain.Config, *domain.ImageRef, bool, bool) {
		st = st.WithConfig(st.Config.WithAspectRatio(ratio))
		return st, st.Config, st.ActiveImage, false, true
	})
}

// prepareFunc はロック中に State を更新し、生成に使う設定と直前画像を決めます。
type prepareFunc func(State) (next State, cfg domain.Config, prior *domain.ImageRef, isVariation, isReformat bool)

// run は生成サイクル1回分です。
// 設定はトリガー時点の値で固定され、生成中の編集はこのリクエストに影響しないのだ。
func (s *Studio) run(ctx context.Context, prepare prepareFunc) error {
	s.mu.Lock()
	if s.state.Busy() {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	next, cfg, prior, isVariation, isReformat := prepare(s.state)
	req, err := generator.BuildRequest(cfg.Clone(), domain.CloneImagePtr(prior), isVariation, isReformat)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next.Begin(s.message(domain.RoleUser, summaryText(req.Mode, cfg)))
	s.mu.Unlock()

	images, err := s.generator.Execute(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		slog.WarnContext(ctx, "生成に失敗したため謝罪メッセージを返します", "mode", req.Mode.String(), "error", err)
		s.state = s.state.Fail(s.message(domain.RoleModel, GenerationApologyText))
		return nil
	}

	reply := s.message(domain.RoleModel, replyText(req.Mode, len(images)))
	if len(images) == 1 {
		img := images[0].Clone()
		reply.Image = &img
	} else {
		reply.Candidates = domain.CloneImages(images)
	}
	s.state = s.state.Resolve(images, reply)
	return nil
}

// SelectCandidate は候補の1枚を選びます。
func (s *Studio) SelectCandidate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.SelectCandidate(id, s.message(domain.RoleModel, CandidateConfirmText))
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// SelectHistory は履歴の画像をアクティブにします。
func (s *Studio) SelectHistory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.SelectHistory(id)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Upscale はアクティブな画像を高解像度化し、成功すれば比較状態に入ります。
func (s *Studio) Upscale(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Busy() {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	if s.state.ActiveImage == nil {
		s.mu.Unlock()
		return domain.ErrNoActiveImage
	}
	before := s.state.ActiveImage.Clone()
	s.state = s.state.BeginUpscale(s.message(domain.RoleUser, UpscaleSummaryText))
	s.mu.Unlock()

	after, err := s.generator.Upscale(ctx, before)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = s.state.FailUpscale(s.message(domain.RoleModel, UpscaleApologyText))
		return nil
	}
	reply := s.message(domain.RoleModel, UpscaleReplyText)
	img := after.Clone()
	reply.Image = &img
	s.state = s.state.CompleteUpscale(before, after, reply)
	return nil
}

// CloseComparison は比較を閉じます。
func (s *Studio) CloseComparison() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.CloseComparison()
}

// UpdateConfig は設定を関数で更新します。生成中でも更新でき、実行中のリクエストには影響しないのだ。
func (s *Studio) UpdateConfig(update func(domain.Config) domain.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithConfig(update(s.state.Config.Clone()))
}

// AttachImage は参照画像をスロットに設定します。nil で解除なのだ。
func (s *Studio) AttachImage(slot domain.ImageSlot, img *domain.ImageRef) {
	s.UpdateConfig(func(c domain.Config) domain.Config {
		return c.WithImage(slot, domain.CloneImagePtr(img))
	})
}

// EnhanceDescription は被写体の説明を PromptEnhancer で書き直します。
// 書き直しに失敗した場合は元の文章のままなのだ。
func (s *Studio) EnhanceDescription(ctx context.Context) (string, error) {
	s.mu.Lock()
	original := s.state.Config.SubjectDescription
	s.mu.Unlock()

	if s.enhancer == nil || original == "" {
		return original, nil
	}
	enhanced := s.enhancer.EnhancePrompt(ctx, original)
	if enhanced == "" {
		enhanced = original
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 書き直しの間にユーザーが説明を編集していたら、そちらを優先する。
	if s.state.Config.SubjectDescription != original {
		return s.state.Config.SubjectDescription, nil
	}
	s.state = s.state.WithConfig(s.state.Config.WithSubjectDescription(enhanced))
	return enhanced, nil
}

// Archive は内容があればセッションをプロジェクトとして保存し、セッションを初期化します。
// 保存したかどうかと、保存したスナップショットを返すのだ。
func (s *Studio) Archive(ctx context.Context) (archive.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy() {
		return archive.Snapshot{}, false, domain.ErrBusy
	}

	var (
		snap  archive.Snapshot
		saved bool
	)
	if s.state.HasMeaningfulContent() {
		snap = archive.NewSnapshot(s.state.Config, s.state.History, s.state.ActiveImage, s.state.Messages, s.now())
		if err := s.archive.Add(ctx, snap); err != nil {
			return archive.Snapshot{}, false, err
		}
		saved = true
	}
	s.state = s.state.Reset(domain.DefaultConfig(), s.message(domain.RoleModel, ResetText))
	return snap, saved, nil
}

// Restore はアーカイブのプロジェクトでセッション全体を置き換えます。
func (s *Studio) Restore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy() {
		return domain.ErrBusy
	}
	snap, err := s.archive.Get(ctx, id)
	if err != nil {
		return err
	}
	s.state = s.state.Restore(snap)
	slog.InfoContext(ctx, "プロジェクトを復元しました", "id", snap.ID, "name", snap.Name)
	return nil
}

// Projects はアーカイブ済みのプロジェクト一覧を返します。
func (s *Studio) Projects(ctx context.Context) ([]archive.Snapshot, error) {
	return s.archive.List(ctx)
}

// IsPreconditionError は Studio が状態を変えずに拒否した操作のエラーかを返します。
func IsPreconditionError(err error) bool {
	return errors.Is(err, domain.ErrBusy) ||
		errors.Is(err, domain.ErrNoActiveImage) ||
		domain.IsValidationGap(err)
}
