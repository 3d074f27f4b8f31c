package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/shouni/gemini-design-kit/pkg/session"
	"github.com/spf13/cobra"
)

const chatHelp = `commands:
  <text>                    refine the active image (or create one) from text
  /generate                 create a new image from the current parameters
  /vary                     creative variation of the active image
  /aspect <ratio>           change aspect ratio (reformats the active image)
  /upscale                  upscale the active image and compare
  /close                    close the comparison
  /pick <n>                 choose candidate n
  /history <n>              make history entry n active
  /set <key> <value>        change a parameter
  /attach subject|style <path>, /detach subject|style
  /enhance                  rewrite the subject description
  /state                    show the current parameters
  /archive, /projects, /restore <n>
  /quit`

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive design session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r := &repl{
				studio:  a.studio,
				load:    a.loader.Load,
				printer: newPrinter(cmd.OutOrStdout(), a.cfg.Output.Dir),
				out:     cmd.OutOrStdout(),
				timeout: a.cfg.Gemini.RequestTimeout,
			}
			return r.run(ctx, cmd.InOrStdin())
		},
	}
}

// repl は1行ずつ Studio の操作に変換する対話ループです。
type repl struct {
	studio  *session.Studio
	load    func(ctx context.Context, uri string) (domain.ImageRef, error)
	printer *printer
	out     io.Writer
	timeout time.Duration
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	if err := r.printer.flush(r.studio.Snapshot()); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		quit, err := r.handle(ctx, strings.TrimSpace(sc.Text()))
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		if ferr := r.printer.flush(r.studio.Snapshot()); ferr != nil {
			return ferr
		}
		if quit {
			return nil
		}
	}
}

// handle は1行を実行します。操作の拒否はエラーとして返し、ループは続けるのだ。
func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, r.call(ctx, func(ctx context.Context) error { return r.studio.Chat(ctx, line) })
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
	case "/generate":
		return false, r.call(ctx, r.studio.Generate)
	case "/vary":
		return false, r.call(ctx, r.studio.Vary)
	case "/upscale":
		return false, r.call(ctx, r.studio.Upscale)
	case "/aspect":
		ratio, err := domain.ParseAspectRatio(arg)
		if err != nil {
			return false, err
		}
		return false, r.call(ctx, func(ctx context.Context) error { return r.studio.ChangeAspectRatio(ctx, ratio) })
	case "/close":
		r.studio.CloseComparison()
	case "/pick":
		st := r.studio.Snapshot()
		i, err := index(arg, len(st.Candidates))
		if err != nil {
			return false, err
		}
		return false, r.studio.SelectCandidate(st.Candidates[i].ID)
	case "/history":
		st := r.studio.Snapshot()
		i, err := index(arg, len(st.History))
		if err != nil {
			return false, err
		}
		if err := r.studio.SelectHistory(st.History[i].ID); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "active: %s\n", st.History[i].ID)
	case "/set":
		key, value, _ := strings.Cut(arg, " ")
		var applyErr error
		r.studio.UpdateConfig(func(c domain.Config) domain.Config {
			next, err := applySetting(c, key, value)
			applyErr = err
			return next
		})
		return false, applyErr
	case "/attach", "/detach":
		return false, r.attach(ctx, cmd == "/attach", arg)
	case "/enhance":
		tctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		desc, err := r.studio.EnhanceDescription(tctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "subject: %s\n", desc)
	case "/state":
		r.printState(r.studio.Snapshot())
	case "/archive":
		snap, saved, err := r.studio.Archive(ctx)
		if err != nil {
			return false, err
		}
		r.printer.seen = 0
		if saved {
			fmt.Fprintf(r.out, "archived: %s (%s)\n", snap.Name, snap.ID)
		}
	case "/projects":
		projects, err := r.studio.Projects(ctx)
		if err != nil {
			return false, err
		}
		for i, p := range projects {
			fmt.Fprintf(r.out, "%d. %s  %s  (%d images)\n", i+1, p.Name, p.Timestamp.Format(time.DateTime), len(p.History))
		}
	case "/restore":
		projects, err := r.studio.Projects(ctx)
		if err != nil {
			return false, err
		}
		i, err := index(arg, len(projects))
		if err != nil {
			return false, err
		}
		if err := r.studio.Restore(ctx, projects[i].ID); err != nil {
			return false, err
		}
		r.printer.seen = len(r.studio.Snapshot().Messages)
		fmt.Fprintf(r.out, "restored: %s\n", projects[i].Name)
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

// call は外部呼び出しを伴う操作をタイムアウト付きで実行します。
func (r *repl) call(ctx context.Context, op func(context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return op(tctx)
}

func (r *repl) attach(ctx context.Context, attach bool, arg string) error {
	target, uri, _ := strings.Cut(arg, " ")
	var slot domain.ImageSlot
	switch target {
	case "subject":
		slot = domain.SlotSubject
	case "style":
		slot = domain.SlotSecondary
	default:
		return fmt.Errorf("expected subject or style: %q", target)
	}
	if !attach {
		r.studio.AttachImage(slot, nil)
		return nil
	}
	img, err := r.load(ctx, strings.TrimSpace(uri))
	if err != nil {
		return err
	}
	r.studio.AttachImage(slot, &img)
	fmt.Fprintf(r.out, "attached %s: %s\n", target, img.ID)
	return nil
}

func (r *repl) printState(st session.State) {
	c := st.Config
	fmt.Fprintf(r.out, "phase: %s  history: %d  candidates: %d\n", st.Phase, len(st.History), len(st.Candidates))
	fmt.Fprintf(r.out, "subject: %q  position: %s  niche: %s  count: %d  aspect: %s\n",
		c.SubjectDescription, c.SubjectPosition, c.Niche, c.ImageCount, c.AspectRatio)
	fmt.Fprintf(r.out, "camera: angle=%g vertical=%g zoom=%g\n", c.CameraAngle, c.CameraVertical, c.CameraZoom)
	fmt.Fprintf(r.out, "light: studio=%t rim=%t fill=%t direction=%s color=%s background=%s\n",
		c.StudioLightActive, c.RimLight, c.FillLight, c.LightingDirection, c.LightingColor, c.BackgroundColor)
	fmt.Fprintf(r.out, "references: subject=%t style=%t\n", c.SubjectImage != nil, c.SecondaryImage != nil)
}

// index は1始まりの番号を検証して0始まりに変換します。
func index(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("expected a number between 1 and %d: %q", n, arg)
	}
	return i - 1, nil
}
