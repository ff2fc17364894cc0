package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/career-diagnosis/internal/diagnosis"
	"github.com/jonathan/career-diagnosis/internal/questions"
	"github.com/jonathan/career-diagnosis/internal/server"
	"github.com/jonathan/career-diagnosis/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr       string
	serveCORSOrigin string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the questionnaire, diagnosis submission, history and profile endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&serveCORSOrigin, "cors-origin", "", "Allowed CORS origin (default *)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	jwtCfg, err := cfg.JWT()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	rlCfg, err := ratelimit.FromEnv(os.Getenv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	svc := diagnosis.NewService(questions.Default(), client, st.diagnoses,
		diagnosis.WithProfiles(st.profiles),
		diagnosis.WithLogger(logger),
	)
	srv := server.New(server.Config{
		Addr:           cfg.ListenAddr,
		RequestTimeout: cfg.RequestTimeout(),
		RateLimit:      rlCfg,
		AllowedOrigin:  serveCORSOrigin,
	}, svc, server.NewJWTService(jwtCfg).AsTokenValidator(), logger)

	logger.Info("configured",
		"provider", cfg.Provider,
		"model", client.Model(),
		"store", cfg.Store,
		"request_timeout", cfg.RequestTimeout().String(),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
