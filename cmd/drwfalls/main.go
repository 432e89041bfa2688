package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/drwfalls/config"
	"github.com/lixenwraith/drwfalls/console"
	"github.com/lixenwraith/drwfalls/core"
	"github.com/lixenwraith/drwfalls/game"
	"github.com/lixenwraith/drwfalls/logging"
	"github.com/lixenwraith/drwfalls/network"
	"github.com/lixenwraith/drwfalls/player"
	"github.com/lixenwraith/drwfalls/service"
	"github.com/lixenwraith/drwfalls/status"
	"github.com/lixenwraith/drwfalls/store"
	"github.com/lixenwraith/drwfalls/telemetry"
)

// lingerAfterEnd lets final scoreboards drain before connections close
const lingerAfterEnd = 2 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "drwfalls: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("drwfalls", flag.ContinueOnError)
	cfg, err := config.LoadServer(fs, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()
	core.SetCrashLogger(logger)

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Name, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	reg := status.NewRegistry()
	roster := player.NewRoster(cfg.MaxPlayers)

	netCfg := network.DefaultConfig()
	netCfg.Address = cfg.Listen
	netCfg.MaxPeers = cfg.MaxPlayers
	transport := network.NewService(netCfg, logger)

	scores := store.NewService(cfg.ScoresDB, logger)

	g, err := game.New(game.Options{
		Settings: game.Settings{
			Viruses:   cfg.Viruses,
			Tick:      cfg.Tick,
			Countdown: cfg.Countdown,
			Seed:      cfg.Seed,
		},
		InputRate:  rate.Limit(cfg.InputRate),
		InputBurst: cfg.InputBurst,
	}, roster, transport, scores, telemetry.Tracer(), logger, reg)
	if err != nil {
		return err
	}
	transport.SetHandler(g)

	hub := service.NewHub()
	for _, svc := range []service.Service{
		scores,
		g,
		transport,
		console.NewService(cfg.ConsoleSocket, g, reg, logger),
	} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	logger.Info("server started",
		zap.String("listen", cfg.Listen),
		zap.Int("viruses", cfg.Viruses),
		zap.Duration("tick", cfg.Tick))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, unix.SIGINT, unix.SIGTERM, unix.SIGUSR1)
	defer signal.Stop(signals)

loop:
	for {
		select {
		case <-g.Done():
			logger.Info("game over")
			time.Sleep(lingerAfterEnd)
			break loop
		case sig := <-signals:
			if sig == unix.SIGUSR1 {
				if err := g.RequestStart(); err != nil {
					logger.Warn("start signal ignored", zap.Error(err))
				}
				continue
			}
			logger.Info("shutting down", zap.Stringer("signal", sig))
			break loop
		}
	}

	return hub.StopAll()
}
