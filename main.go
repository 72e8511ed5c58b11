package main

import (
	"context"
	"os"
	"os/signal"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickysemenza/gola"
	"github.com/robmorgan/lumen/config"
	"github.com/robmorgan/lumen/console"
	"github.com/robmorgan/lumen/engine"
	"github.com/robmorgan/lumen/fixture"
	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/store"
	"github.com/robmorgan/lumen/surface"
	"github.com/robmorgan/lumen/surface/midiin"
	"github.com/robmorgan/lumen/surface/oscin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

const logFile = "lumen.log"

type options struct {
	configPath   string
	storeBackend string
	storePath    string
	logLevel     string
	tui          bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "lumen",
		Short:        "Record, play back and compose light tracks",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if opts.storeBackend != "" {
				cfg.Storage.Backend = opts.storeBackend
			}
			if opts.storePath != "" {
				cfg.Storage.Path = opts.storePath
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return Run(cmd.Context(), cfg, opts.tui)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "lumen.yaml", "path to the config file")
	flags.StringVar(&opts.storeBackend, "store", "", "storage backend: file, sqlite or memory")
	flags.StringVar(&opts.storePath, "store-path", "", "track directory or database file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level")
	flags.BoolVar(&opts.tui, "tui", false, "run the terminal console")
	return cmd
}

// Run starts the engine and its adapters and blocks until interrupted.
func Run(ctx context.Context, cfg config.Config, tui bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// initialize the logger
	log := logger.GetProjectLogger()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	wg := sync.WaitGroup{}

	// initialize the fixtures
	log.Info("Initializing fixture manager...")
	fm, err := fixture.NewManager(cfg)
	if err != nil {
		log.Errorf("error initializing fixture manager. err='%v'", err)
		return err
	}

	log.WithFields(logrus.Fields{"backend": cfg.Storage.Backend, "path": cfg.Storage.Path}).Info("Opening track store...")
	st, closeStore, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path, clock.RealClock{})
	if err != nil {
		return err
	}
	defer closeStore()

	e := engine.New(fm, st, clock.RealClock{}, engine.WithEchoTolerance(cfg.Recorder.EchoTolerance))

	// stored tracks load in the background, commands work on what is there
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.Load(ctx)
	}()

	wg.Add(1)
	go engine.NewLoop(e, clock.RealClock{}, cfg.FrameInterval()).Run(ctx, &wg)

	// configure OLA for DMX output
	if cfg.OLA.Enabled {
		log.Info("Connecting to OLA...")
		client, err := gola.New(cfg.OLA.Address)
		if err != nil {
			log.Errorf("could not connect to OLA: %v", err)
		} else {
			wg.Add(1)
			go fixture.SendDMXWorker(ctx, client, cfg.OLA.Tick, fm, &wg)
		}
	}

	mapper, err := surface.NewMapper(e, fm, cfg.Surface)
	if err != nil {
		return err
	}

	if cfg.Surface.MIDI {
		stop, err := midiin.Open(cfg.Surface.MIDIPort, mapper.Handle)
		if err != nil {
			log.Warnf("MIDI input unavailable: %v", err)
		} else {
			defer stop()
		}
	}

	if cfg.Surface.OSCAddress != "" {
		wg.Add(1)
		go func() {
			if err := oscin.Serve(ctx, cfg.Surface.OSCAddress, mapper.Handle, &wg); err != nil && ctx.Err() == nil {
				log.Warnf("OSC input unavailable: %v", err)
			}
		}()
	}

	if tui {
		err = runConsole(ctx, e, mapper)
	} else {
		e.SetObserver(func(s engine.Status) {
			log.WithFields(logrus.Fields{
				"recording": s.Recording,
				"playing":   s.Playing,
				"looping":   s.Looping,
				"track":     s.SelectedTrack,
				"tracks":    s.TrackCount,
			}).Info("Status")
		})

		// handle CTRL+C interrupt
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		select {
		case <-quit:
		case <-ctx.Done():
		}
	}

	log.Println("shutting down lumen")
	cancel()
	wg.Wait()
	e.Wait()
	return err
}

// runConsole hands the terminal to the console. Logs go to a file while it runs.
func runConsole(ctx context.Context, e *engine.Engine, mapper *surface.Mapper) error {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	logger.SetOutput(f)
	defer logger.SetOutput(os.Stderr)

	p := console.NewProgram(e, tea.WithAltScreen())
	e.SetObserver(console.StatusObserver(p))
	mapper.OnUpdate(console.SurfaceObserver(p))
	defer e.SetObserver(nil)
	defer mapper.OnUpdate(nil)

	return console.Run(ctx, p)
}
