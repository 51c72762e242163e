package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stylesphere/backend/config"
	httpDelivery "github.com/stylesphere/backend/internal/delivery/http"
	"github.com/stylesphere/backend/internal/infrastructure/cache"
	"github.com/stylesphere/backend/internal/infrastructure/catalog"
	"github.com/stylesphere/backend/internal/infrastructure/gemini"
	"github.com/stylesphere/backend/internal/infrastructure/storage"
	"github.com/stylesphere/backend/internal/logging"
	"github.com/stylesphere/backend/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.RequireGemini(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.LogFormat()})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("Starting StyleSphere backend")

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	profileCache := cache.NewMemoryCacheWithSweep(cfg.Cache.TTL)
	defer profileCache.Close()

	model := gemini.NewBreakerModel(gemini.NewClient(gemini.Options{
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.BaseURL,
		Model:             cfg.Gemini.Model,
		Timeout:           cfg.Gemini.Timeout,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		MaxRetries:        cfg.Gemini.MaxRetries,
	}), time.Minute)
	logging.Info().Str("model", cfg.Gemini.Model).Int("rpm", cfg.Gemini.RequestsPerMinute).Msg("Vision model configured")

	analysis := usecase.NewAnalysisService(model, store, profileCache, usecase.AnalysisServiceConfig{
		ProfileCacheTTL: cfg.Cache.TTL,
	})
	products := catalog.NewMockCatalog(cfg.Recommendation.MaxResultsPerStore)
	logging.Info().Strs("stores", products.Stores()).Msg("Catalog configured")

	recommendations := usecase.NewRecommendationService(
		analysis,
		products,
		usecase.NewRanker(usecase.NewScorer(), usecase.RankerConfig{
			TopN:    cfg.Recommendation.TopN,
			Workers: cfg.Recommendation.Workers,
		}),
	)

	handler := httpDelivery.NewHandler(analysis, recommendations, cfg.Server.MaxUploadBytes)
	handler.SetHealthProbe(store.Ping)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
