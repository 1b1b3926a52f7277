package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cardgate/internal/api"
	"cardgate/internal/config"
	"cardgate/internal/discord"
	"cardgate/internal/logging"
	"cardgate/internal/rolecheck"
)

func main() {
	lg := logging.New("gateway")
	cfg, err := config.Parse()
	if err != nil {
		lg.Error("config", slog.String("error", err.Error()))
		os.Exit(2)
	}

	oauth := discord.New(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
	roles := rolecheck.New(cfg.BotURL, cfg.BotSecret)
	s := api.New(lg, cfg, oauth, roles)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("listening", slog.String("addr", cfg.HTTPAddr))
	if err := s.Start(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error("http", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
