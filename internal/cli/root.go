// Package cli は design-studio コマンドの実装です。
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shouni/gemini-design-kit/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	metricsAddr string
)

// NewRootCmd はサブコマンドを登録したルートコマンドを作ります。
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "design-studio",
		Short: "Art-direction studio for Gemini image generation",
		Long: "design-studio composes art-direction parameters (camera, lighting, style, aspect ratio) into " +
			"generation instructions and runs create / refine / variation / reformat cycles against Gemini.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")

	root.AddCommand(newCreateCmd(), newChatCmd())
	return root
}

// Execute はルートコマンドを実行します。
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap は設定を読み込み、app を組み立てます。戻り値の関数で後片付けするのだ。
func bootstrap(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	stopMetrics := serveMetrics(metricsAddr)
	return a, func() {
		stopMetrics()
		a.close()
	}, nil
}

func serveMetrics(addr string) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("メトリクスサーバーが停止しました", "addr", addr, "error", err)
		}
	}()
	slog.Info("メトリクスを公開します", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
