package cli

import (
	"fmt"

	"github.com/shouni/gemini-design-kit/pkg/domain"
	"github.com/spf13/cobra"
)

type createOptions struct {
	subject      string
	subjectImage string
	styleImage   string
	aspect       string
	settings     []string
	enhance      bool
	upscale      bool
}

func newCreateCmd() *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a design from the given parameters",
		Example: `design-studio create -s "ceramic mug on a wooden desk" --subject-image mug.png \
  --set zoom=2 --set rim=on --set direction=center --set count=3 --aspect 16:9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.subject, "subject", "s", "", "subject description")
	cmd.Flags().StringVar(&opts.subjectImage, "subject-image", "", "main subject / identity reference image")
	cmd.Flags().StringVar(&opts.styleImage, "style-image", "", "style / pose / clothing reference image")
	cmd.Flags().StringVar(&opts.aspect, "aspect", string(domain.AspectSquare), "aspect ratio (1:1, 3:4, 4:3, 9:16, 16:9)")
	cmd.Flags().StringArrayVar(&opts.settings, "set", nil, "parameter as key=value (repeatable; keys: "+joinKeys()+")")
	cmd.Flags().BoolVar(&opts.enhance, "enhance", false, "rewrite the subject description with the text model first")
	cmd.Flags().BoolVar(&opts.upscale, "upscale", false, "upscale the result when a single image is produced")
	return cmd
}

func runCreate(cmd *cobra.Command, opts createOptions) error {
	ctx := cmd.Context()
	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ratio, err := domain.ParseAspectRatio(opts.aspect)
	if err != nil {
		return err
	}
	cfg := a.studio.Snapshot().Config.WithSubjectDescription(opts.subject).WithAspectRatio(ratio)
	for _, kv := range opts.settings {
		key, value, ok := cutSetting(kv)
		if !ok {
			return fmt.Errorf("--set expects key=value: %q", kv)
		}
		if cfg, err = applySetting(cfg, key, value); err != nil {
			return err
		}
	}
	a.studio.UpdateConfig(func(domain.Config) domain.Config { return cfg })

	if err := a.attachReferences(ctx, opts.subjectImage, opts.styleImage); err != nil {
		return err
	}

	if opts.enhance {
		tctx, cancel := a.withTimeout(ctx)
		desc, err := a.studio.EnhanceDescription(tctx)
		cancel()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "subject: %s\n", desc)
	}

	p := newPrinter(cmd.OutOrStdout(), a.cfg.Output.Dir)
	tctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.studio.Generate(tctx); err != nil {
		return err
	}
	if opts.upscale && a.studio.Snapshot().ActiveImage != nil {
		uctx, ucancel := a.withTimeout(ctx)
		defer ucancel()
		if err := a.studio.Upscale(uctx); err != nil {
			return err
		}
	}
	return p.flush(a.studio.Snapshot())
}
