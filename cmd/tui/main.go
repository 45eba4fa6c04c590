// cmd/tui/main.go
//
// Terminal Minesweeper. Plays locally against the same engine, catalog and
// stage machine as the server; nothing is persisted.
//
// Flags:
//   -seed N  fixed board seed, for reproducible games
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/config"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/stage"
	"github.com/robalobadob/minesweeper/internal/tui"
)

func main() {
	seed := flag.Uint64("seed", 0, "fixed board seed (0 = random)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := i18n.Init(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}

	var opts []stage.Option
	if *seed != 0 {
		opts = append(opts, stage.WithBoardOptions(game.WithSeed(*seed)))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("open terminal")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("init terminal")
	}
	screen.EnableMouse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := tui.New(screen, stage.New(cat, opts...)).Run(ctx)
	screen.Fini()
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("terminal client exited")
	}
}
