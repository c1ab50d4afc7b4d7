package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/backend"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/chat"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/config"
	httpapi "github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/handlers"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "support-front").Logger()

	secret := cfg.SessionSecret
	if secret == "" {
		// Sessions will not survive a restart without a configured secret.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate session secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("SESSION_SECRET not set, using a random one")
	}

	client := backend.New(cfg.BackendURL, cfg.RequestTimeout)
	chats := chat.NewRegistry()

	deps := httpapi.Deps{
		Auth:      &backend.AuthService{Client: client},
		Tickets:   &backend.TicketService{Client: client},
		Analytics: &backend.AnalyticsService{Client: client},
		Sessions:  session.NewManager(secret, cfg.SessionTTL),
		Chats:     chats,
		Agents:    handlers.NewAgentDirectory(),
	}

	router := httpapi.Router(cfg, deps, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("backend", cfg.BackendURL).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	chats.CloseAll()
	logger.Info().Msg("server stopped")
}
