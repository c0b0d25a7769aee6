package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tokenscope/internal/insight"
	"github.com/KaramelBytes/tokenscope/internal/server"
)

var (
	srvHost       string
	srvPort       int
	srvProvider   string
	srvModel      string
	srvOllamaHost string
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the token analysis HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			c.ServerHost = srvHost
		}
		if cmd.Flags().Changed("port") {
			c.ServerPort = srvPort
		}

		logger, err := newLogger(c)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		labeler, provider, err := buildLabeler(c, labelerOptions{
			ProviderFlag: srvProvider,
			ModelFlag:    srvModel,
			OllamaHost:   srvOllamaHost,
		})
		if err != nil {
			return err
		}
		logger.Info("labeler configured", zap.String("provider", provider))

		opts := []insight.Option{
			insight.WithLogger(logger),
			insight.WithLabelTimeout(c.LabelTimeout()),
			insight.WithSource("api"),
		}
		if labeler != nil {
			opts = append(opts, insight.WithLabeler(labeler))
		}

		srv, err := server.NewServer(insight.NewAnalyzer(opts...), logger, &server.Config{
			Host:           c.ServerHost,
			Port:           c.ServerPort,
			BodyLimit:      c.BodyLimit,
			RequestTimeout: c.RequestTimeout(),
			RateLimitRPS:   c.RateLimitRPS,
			RateLimitBurst: c.RateLimitBurst,
			Limits:         inputLimits(c),
			Identity: server.Identity{
				UserID:     c.UserID,
				Email:      c.Email,
				RollNumber: c.RollNumber,
			},
			Version: Version,
		})
		if err != nil {
			return fmt.Errorf("create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
			logger.Info("received shutdown signal")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		fmt.Fprintln(os.Stderr, "✓ Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvHost, "host", "", "listen host (overrides server_host)")
	serveCmd.Flags().IntVar(&srvPort, "port", 0, "listen port (overrides server_port)")
	serveCmd.Flags().StringVar(&srvProvider, "provider", "", "labeler provider: none|openrouter|ollama (overrides ai_provider)")
	serveCmd.Flags().StringVar(&srvModel, "model", "", "labeler model (overrides ai_model)")
	serveCmd.Flags().StringVar(&srvOllamaHost, "ollama-host", "", "Ollama host URL (overrides ollama_host)")
}
