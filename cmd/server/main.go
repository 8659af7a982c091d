package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caltrack/backend/config"
	httpDelivery "github.com/caltrack/backend/internal/delivery/http"
	"github.com/caltrack/backend/internal/domain"
	"github.com/caltrack/backend/internal/infrastructure/cache"
	"github.com/caltrack/backend/internal/infrastructure/edamam"
	"github.com/caltrack/backend/internal/infrastructure/storage"
	"github.com/caltrack/backend/internal/logger"
	"github.com/caltrack/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once config is loaded
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "caltrack",
		Short: "Calorie tracking backend",
		Long: `caltrack serves the calorie tracking API: daily food entries, reports,
and calorie estimates from the Edamam recipe API with a local fallback table.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log, err := logger.New(cfg.Log.Level, cfg.Server.Environment)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	var amount string
	lookupCmd := &cobra.Command{
		Use:   "lookup [food]",
		Short: "Print nutrition candidates for a food",
		Example: `  caltrack lookup banana --amount 150g
  caltrack lookup "greek yogurt"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.lookup(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), amount)
		},
	}
	lookupCmd.Flags().StringVarP(&amount, "amount", "a", "", "amount such as 150g or \"2 cups\"")

	root.AddCommand(serveCmd, lookupCmd)
	return root
}

// newNutritionService wires the Edamam client and result cache. The returned
// cache must be closed by the caller.
func (a *app) newNutritionService() (*usecase.NutritionService, *cache.MemoryCache) {
	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)

	client := edamam.NewClient(edamam.ClientConfig{
		AppID:             a.cfg.Edamam.AppID,
		AppKey:            a.cfg.Edamam.AppKey,
		BaseURL:           a.cfg.Edamam.BaseURL,
		Timeout:           a.cfg.Edamam.Timeout,
		RequestsPerMinute: a.cfg.RateLimit.Edamam,
	}, a.logger)

	development := a.cfg.Server.Environment == "development"
	if development {
		client.SetDebug(true)
	}

	if a.cfg.Edamam.Configured() {
		a.logger.Info("edamam API configured",
			zap.String("base_url", a.cfg.Edamam.BaseURL),
			zap.Int("requests_per_minute", a.cfg.RateLimit.Edamam))
	} else {
		a.logger.Warn("edamam credentials not set, searches use the local food table only")
	}

	svc := usecase.NewNutritionService(memoryCache, client, a.logger, usecase.NutritionServiceConfig{
		CacheTTL:           a.cfg.Cache.TTL,
		EnableDebugLogging: development,
	})
	return svc, memoryCache
}

// openStore returns the configured entry repository and its closer
func (a *app) openStore() (domain.EntryRepository, func() error, error) {
	switch a.cfg.Storage.Type {
	case "sqlite":
		store, err := storage.NewSQLiteStore(a.cfg.Storage.DSN, a.cfg.Tracker.DefaultTarget)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "memory", "":
		return storage.NewMemoryStore(a.cfg.Tracker.DefaultTarget), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", a.cfg.Storage.Type)
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a.logger.Info("starting caltrack backend",
		zap.String("environment", a.cfg.Server.Environment),
		zap.String("port", a.cfg.Server.Port),
		zap.String("storage", a.cfg.Storage.Type),
		zap.Duration("cache_ttl", a.cfg.Cache.TTL))

	nutritionService, memoryCache := a.newNutritionService()
	defer memoryCache.Close()

	store, closeStore, err := a.openStore()
	if err != nil {
		return fmt.Errorf("failed to open entry store: %w", err)
	}
	defer closeStore()

	handler := httpDelivery.NewHandler(
		nutritionService,
		usecase.NewEntryService(store, a.logger),
		usecase.NewReportService(store),
		a.logger,
	)
	router := httpDelivery.SetupRouter(a.cfg, handler, a.logger)

	server := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func (a *app) lookup(ctx context.Context, out io.Writer, food, amount string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	nutritionService, memoryCache := a.newNutritionService()
	defer memoryCache.Close()

	result, err := nutritionService.Search(ctx, food, amount)
	if err != nil {
		return err
	}
	if result.Status == domain.StatusUnavailable {
		a.logger.Warn("served from local food table", zap.String("reason", result.Reason))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Candidates)
}
