package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/config"
	"github.com/robalobadob/minesweeper/internal/db"
	"github.com/robalobadob/minesweeper/internal/httpserver"
	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := i18n.Init(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load language catalog")
	}

	conn, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer conn.Close()

	mem := store.NewMemoryStore()
	go store.Janitor(ctx, mem, cfg.SessionTTL, cfg.JanitorInterval, func(n int) {
		log.Info().Int("pruned", n).Int("live", mem.Len()).Msg("idle games pruned")
	})

	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Store:   mem,
		DB:      conn,
		Catalog: cat,
	})
	log.Info().Str("addr", cfg.Addr()).Int("languages", len(cat.Languages())).Msg("starting minesweeper server")
	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
