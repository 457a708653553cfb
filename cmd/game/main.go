package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Soccer-Sense/internal/config"
	"github.com/Garsondee/Soccer-Sense/internal/logging"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
	"github.com/Garsondee/Soccer-Sense/internal/viewer"
)

func main() {
	var (
		configPath string
		seed       int64
		logLevel   string
		logFormat  string
		eventLimit int
	)
	flag.StringVar(&configPath, "config", "", "YAML parameter file (defaults when empty)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.StringVar(&logFormat, "log-format", "console", "console or json")
	flag.IntVar(&eventLimit, "event-limit", 20000, "match log entries kept in memory (0 keeps all)")
	flag.Parse()

	logger, err := logging.New(logLevel, logFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	params := config.Default()
	if configPath != "" {
		if params, err = config.Load(configPath); err != nil {
			logger.Fatal("load params", zap.Error(err))
		}
	}

	opts := []soccer.MatchOption{
		soccer.WithParams(params),
		soccer.WithLogger(logger),
		soccer.WithEventLimit(eventLimit),
	}
	if seed != 0 {
		opts = append(opts, soccer.WithSeed(seed))
	}
	m, err := soccer.NewMatch(opts...)
	if err != nil {
		logger.Fatal("create match", zap.Error(err))
	}

	r := soccer.NewRunner(m)
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.Run(ctx) })

	v := viewer.New(r, params.Display, logger)
	ebiten.SetWindowTitle("Soccer Sense")
	ebiten.SetWindowSize(v.WindowSize())
	runErr := ebiten.RunGame(v)

	cancel()
	if err := g.Wait(); err != nil {
		logger.Error("runner", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("viewer", zap.Error(runErr))
	}
}
