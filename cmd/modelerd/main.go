package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/modelerd/internal/api"
	"github.com/edvin/modelerd/internal/config"
	"github.com/edvin/modelerd/internal/deploy"
	"github.com/edvin/modelerd/internal/engine"
	"github.com/edvin/modelerd/internal/events"
	"github.com/edvin/modelerd/internal/formsession"
	"github.com/edvin/modelerd/internal/logging"
	"github.com/edvin/modelerd/internal/metrics"
	"github.com/edvin/modelerd/internal/negotiate"
	"github.com/edvin/modelerd/internal/notify"
	"github.com/edvin/modelerd/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	fileStore := store.NewFileStore(cfg.StoreFile)

	bus := events.NewBus(logger)
	notifier := notify.NewBusNotifier(bus, logger)

	presenter := negotiate.NewPromptPresenter(api.PromptEvents{Bus: bus})
	checker := engineChecker(logger, cfg)
	negotiator := negotiate.NewNegotiator(fileStore, checker, presenter, logger)

	client := engineClient(logger, cfg)
	orchestrator := deploy.NewOrchestrator(deploy.FileSaver{}, negotiator, client, bus, notifier, logger)

	linter := loadLinter(logger, cfg)
	sessions := formsession.NewManager(linter, bus, logger, cfg.LintQuiescence)
	defer sessions.CloseAll()

	srv := api.NewServer(logger, api.Deps{
		Orchestrator: orchestrator,
		Presenter:    presenter,
		Store:        fileStore,
		Sessions:     sessions,
		Bus:          bus,
	})

	// No WriteTimeout: the event stream connection stays open.
	httpServer := &http.Server{
		Addr:        cfg.HTTPListenAddr,
		Handler:     srv,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	metricsServer := metrics.NewServer(cfg.MetricsListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		metricsServer.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func engineClient(logger zerolog.Logger, cfg *config.Config) engine.Client {
	return engine.NewRESTClient(logger, cfg.EngineRequestTimeout)
}

func engineChecker(logger zerolog.Logger, cfg *config.Config) engine.ConnectionChecker {
	return engine.NewGRPCChecker(logger, cfg.ProbeTimeout)
}

func loadLinter(logger zerolog.Logger, cfg *config.Config) formsession.Linter {
	if cfg.LintRulesFile == "" {
		return formsession.NewRuleLinter(formsession.RuleSet{})
	}
	rules, err := formsession.LoadRuleSet(cfg.LintRulesFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.LintRulesFile).Msg("failed to load lint rules")
	}
	return formsession.NewRuleLinter(rules)
}
