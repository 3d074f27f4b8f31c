package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-design-kit/pkg/domain"
)

// Archive はプロジェクトの一覧を管理します。スナップショットの所有者はこの Archive だけなのだ。
type Archive struct {
	store Store
}

// New は Store を使う Archive を作ります。store が nil ならメモリに保持します。
func New(store Store) *Archive {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Archive{store: store}
}

// Add はスナップショットを追加します。
func (a *Archive) Add(ctx context.Context, s Snapshot) error {
	if err := a.store.Append(ctx, s.Clone()); err != nil {
		return fmt.Errorf("プロジェクトの保存に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "プロジェクトを保存しました", "id", s.ID, "name", s.Name, "history", len(s.History))
	return nil
}

// List はアーカイブ順にスナップショットのコピーを返します。
func (a *Archive) List(ctx context.Context) ([]Snapshot, error) {
	return a.store.List(ctx)
}

// Get は ID でスナップショットのコピーを探します。
func (a *Archive) Get(ctx context.Context, id string) (Snapshot, error) {
	all, err := a.store.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
}
