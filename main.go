package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tvaino/lintubot/config"
	"github.com/tvaino/lintubot/internal/notify"
	"github.com/tvaino/lintubot/internal/server"
	"github.com/tvaino/lintubot/internal/upload"
	"github.com/tvaino/lintubot/internal/vision"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Try to load existing config.env file
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	tg.Debug = false
	log.Info().Str("username", tg.Self.UserName).Msg("authorized on account")

	store, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload store")
	}
	log.Info().Str("dir", store.Dir()).Msg("upload store initialized")

	analyzer := vision.NewGroqAnalyzer(cfg.GroqAPIURL, cfg.GroqAPIKey)
	notifier := notify.NewTelegramNotifier(tg, cfg.TelegramChatID)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(cfg, store, analyzer, notifier),
	}

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Str("rootPath", cfg.RootPath).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}
