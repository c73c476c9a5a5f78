package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sjsage522/productscraper/config"
	"sjsage522/productscraper/internal"
	"sjsage522/productscraper/internal/api"
	"sjsage522/productscraper/internal/crawler"
	"sjsage522/productscraper/logger"
	"sjsage522/productscraper/services/worker"
)

// shutdownTimeout bounds how long in-flight requests may take after a signal
const shutdownTimeout = 15 * time.Second

var totalPages int

func main() {
	rootCmd := &cobra.Command{
		Use:           "productscraper",
		Short:         "Scrape a product catalog into a JSON snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.LogError("main", err, "Command failed")
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the authenticated scrape API",
		RunE:  runServe,
	}
}

// scrapeCmd creates the "scrape" subcommand
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape and exit",
		RunE:  runScrape,
	}
	cmd.Flags().IntVarP(&totalPages, "pages", "p", 1, "number of catalog pages to scrape")
	return cmd
}

// setup loads the configuration, starts logging and connects services
func setup(ctx context.Context) (*config.Config, *internal.Dependencies, *worker.Worker, error) {
	config.LoadEnvFiles()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		AppName: cfg.AppName,
	})

	logger.Default.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.BaseURL).
		Int("max_page_limit", cfg.MaxPageLimit).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Starting application")

	deps, err := internal.InitializeServices(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	c := crawler.CreateCrawler(cfg, deps.HTTPClient, deps.ProductCache)
	w := worker.NewWorker(c, deps.ProductCache, deps.Storage, deps.Notifier)

	return cfg, deps, w, nil
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, deps, w, err := setup(ctx)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	result, err := w.Run(ctx, totalPages)
	if err != nil {
		return err
	}

	logger.Default.Info().
		Int("new", result.New).
		Int("updated", result.Updated).
		Msg("Scrape finished")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, deps, w, err := setup(ctx)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(api.NewHandler(w, cfg.AppName), cfg.StaticToken),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown: %v", err)
	}

	logger.Info("Shutting down gracefully...")
	return nil
}
