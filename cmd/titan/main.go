package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/config"
	"github.com/lixenwraith/titan/core"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/engine"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/game"
	"github.com/lixenwraith/titan/highscore"
	"github.com/lixenwraith/titan/level"
	"github.com/lixenwraith/titan/status"
)

// options holds the command line flags
type options struct {
	configPath string
	fps        int
	mute       bool
	logFile    string
	logLevel   string
	scores     string
	player     string
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newRootCommand(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "titan",
		Short:        "Mission to Titan - terminal space shooter",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "titan.toml", "configuration file (TOML), missing file uses defaults")
	f.IntVar(&opts.fps, "fps", 0, "frames per second")
	f.BoolVar(&opts.mute, "mute", false, "disable audio")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to file")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	f.StringVar(&opts.scores, "scores", "", "sqlite score database path")
	f.StringVar(&opts.player, "player", "", "player name recorded with scores")
	return cmd
}

// loadConfig reads the config file and applies explicitly set flags over it
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("fps") {
		cfg.Engine.FPS = opts.fps
	}
	if f.Changed("mute") {
		cfg.Audio.Enabled = !opts.mute
	}
	if f.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if f.Changed("scores") {
		cfg.Scores.Path = opts.scores
	}
	if f.Changed("player") {
		cfg.Scores.Player = opts.player
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	log, closer, err := core.NewLogger(cfg.LogSettings())
	if err != nil {
		return err
	}
	defer closer.Close()

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	}))
	if err != nil {
		log.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}
	defer undo()

	levels, err := level.Builtin()
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}

	reg := status.NewRegistry()

	sound := audio.NewSoundManager(log)
	if err := sound.Init(cfg.Audio.Enabled); err != nil && !errors.Is(err, audio.ErrAudioDisabled) {
		log.Warn().Err(err).Msg("continuing without audio")
	}

	gameOpts := []game.Option{game.WithAudio(sound), game.WithLogger(log), game.WithStatus(reg)}
	if cfg.Scores.Path != "" {
		store, err := highscore.Open(cfg.Scores.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Scores.Path).Msg("score table unavailable")
		} else {
			defer store.Close()
			gameOpts = append(gameOpts, game.WithScores(store))
		}
	}

	disp, err := display.NewTerminal(log)
	if err != nil {
		return err
	}
	if err := disp.Init(); err != nil {
		return err
	}
	core.SetCrashTerminal(disp)
	defer disp.Fini()

	d := event.NewDispatcher()
	schedCfg := cfg.Engine.Scheduler()
	sched := engine.NewScheduler(d,
		engine.WithConfig(schedCfg),
		engine.WithLogger(log),
		engine.WithStatus(reg),
	)

	gameOpts = append(gameOpts, game.WithStopper(sched))
	g := game.New(disp, d, levels, game.Config{
		Player:          cfg.Scores.Player,
		FramePeriod:     schedCfg.FramePeriod,
		MissileCapacity: cfg.Pools.Missile.Capacity,
		MissileBlocking: cfg.Pools.Missile.Blocking,
		Bindings:        cfg.Bindings(),
	}, gameOpts...)

	// SIGINT/SIGTERM quit like the keyboard does
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	stopped := make(chan struct{})
	core.Go(func() {
		select {
		case sig := <-sigCh:
			log.Info().Stringer("signal", sig).Msg("signal received")
			d.Emit(nil, event.KindQuit, nil)
		case <-stopped:
		}
	})

	// Input runs until the screen is finalized
	var eg errgroup.Group
	eg.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				core.HandleCrash(r)
			}
		}()
		disp.Poll(g.HandleKey)
		return nil
	})

	runErr := sched.Start(g)
	close(stopped)
	disp.Fini()
	core.SetCrashTerminal(nil)
	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("input loop failed")
	}

	if runErr != nil {
		return fmt.Errorf("game stopped: %w", runErr)
	}
	log.Info().Msg("shutdown complete")
	return nil
}
