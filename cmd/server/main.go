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
	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/adapters/httpapi"
	"github.com/mkaydev/huddle/internal/adapters/ws"
	"github.com/mkaydev/huddle/internal/ai"
	"github.com/mkaydev/huddle/internal/app"
	"github.com/mkaydev/huddle/internal/auth"
	"github.com/mkaydev/huddle/internal/config"
	"github.com/mkaydev/huddle/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := storage.Open(cfg.DataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer db.Close()

	// Presence core: the registry owns membership, everything else goes
	// through it.
	registry := app.NewRegistry()
	broadcaster := app.NewBroadcaster(registry)
	coordinator := app.NewCoordinator(registry, broadcaster)
	typing := app.NewTypingRelay(broadcaster)

	deps := httpapi.Deps{
		Auth:       auth.NewManager(cfg.Secret, cfg.TokenTTL),
		Users:      storage.NewUserRepository(db),
		Groups:     storage.NewGroupRepository(db),
		Messages:   storage.NewMessageRepository(db),
		Summarizer: ai.NewSummarizer(cfg.AIEndpoint, cfg.AIModel, cfg.AIKey),
		WS:         ws.NewController(coordinator, typing, broadcaster, cfg.ReadLimit, cfg.SendBuffer),
	}

	r := httpapi.SetupRouter(ctx, cfg, deps)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("huddle server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
