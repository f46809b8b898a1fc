package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/agentctl/internal/actions"
	"codeberg.org/mutker/agentctl/internal/agent"
	"codeberg.org/mutker/agentctl/internal/config"
	"codeberg.org/mutker/agentctl/internal/history"
	"codeberg.org/mutker/agentctl/internal/logger"
	"codeberg.org/mutker/agentctl/internal/ollama"
	"codeberg.org/mutker/agentctl/internal/pid"
	"codeberg.org/mutker/agentctl/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.Background && logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("agentctl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	collector, err := telemetry.NewCollector(telemetry.Config{
		CacheWindow:  cfg.CacheWindow,
		ProcessLimit: telemetry.DefaultConfig().ProcessLimit,
		LogLimit:     telemetry.DefaultConfig().LogLimit,
	})
	if err != nil {
		return err
	}

	model, err := ollama.NewClient(ollama.Config{
		Model:   cfg.LLMModel,
		APIBase: cfg.APIBase,
	})
	if err != nil {
		return err
	}

	if err := model.Verify(ctx); err != nil {
		logger.Error().Err(err).Msg("Cannot reach Ollama; make sure it is running at the configured API base")
	}

	recorder, err := history.NewService(history.Config{
		Enabled: cfg.HistoryEnabled,
		DBPath:  cfg.HistoryDB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close history store")
		}
	}()

	agentCfg := agent.DefaultConfig()
	agentCfg.Interval = time.Duration(cfg.SystemCheckInterval) * time.Second

	a, err := agent.New(agentCfg, collector, model, actions.NewDispatcher(), recorder)
	if err != nil {
		return err
	}

	if cfg.Background {
		if err := pid.Write(); err != nil {
			return err
		}
		defer func() {
			if err := pid.Remove(); err != nil {
				logger.Error().Err(err).Msg("failed to remove pid file")
			}
		}()

		return a.RunBackground(ctx)
	}

	return a.RunInteractive(ctx)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	// Restore default handling so a second interrupt kills the process
	// instead of being swallowed while shutdown is in flight
	signal.Stop(sigs)
	cancel()
}
