package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/session"
)

// printer は会話ログの新しい分だけを表示し、添付画像をファイルに書き出します。
type printer struct {
	out  io.Writer
	dir  string
	seen int
}

func newPrinter(out io.Writer, dir string) *printer {
	return &printer{out: out, dir: dir}
}

// flush は前回表示した以降のメッセージを表示します。
// ログがリセットされて短くなっていたら先頭から表示し直すのだ。
func (p *printer) flush(st session.State) error {
	if p.seen > len(st.Messages) {
		p.seen = 0
	}
	for _, m := range st.Messages[p.seen:] {
		if m.Text != "" {
			fmt.Fprintf(p.out, "[%s] %s\n", m.Role, m.Text)
		}
		if m.Image != nil {
			path, err := saveImage(p.dir, *m.Image)
			if err != nil {
				return err
			}
			fmt.Fprintf(p.out, "  image: %s\n", path)
		}
		for i, c := range m.Candidates {
			path, err := saveImage(p.dir, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(p.out, "  candidate %d: %s (%s)\n", i+1, path, c.ID)
		}
	}
	p.seen = len(st.Messages)
	return nil
}

// saveImage は画像を ID 由来のファイル名で保存します。同じ画像は同じパスになるのだ。
func saveImage(dir string, img domain.ImageRef) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, img.ID+extension(img.MimeType))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return path, nil
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
