package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"obs-logger/controller"
	"obs-logger/services/bluetooth"
	"obs-logger/services/ingest"
	"obs-logger/services/storage"
	"obs-logger/utils"
)

func main() {
	// ── CLI flags ────────────────────────────────────────────────────
	configPath := flag.String("config", "config/obs.yaml", "path to obs.yaml")
	logFile := flag.String("log", "", "optional log file path (stdout is always included)")
	dryRun := flag.Bool("dry-run", false, "keep track files in memory instead of writing to base_dir")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// ── Logger ───────────────────────────────────────────────────────
	level, err := utils.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging.level: %v\n", err)
		os.Exit(1)
	}
	if *logFile == "" {
		*logFile = cfg.Logging.File
	}
	logger := utils.InitLogger(level, *logFile)
	defer logger.Close()

	id, err := utils.ResolveDeviceID(cfg.Device.ID)
	if err != nil {
		utils.L().Fatal("device id: %v", err)
	}
	cfg.Device.ID = id

	if *printConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			utils.L().Fatal("marshal config: %v", err)
		}
		fmt.Print(string(out))
		return
	}

	utils.L().Info("═══════════════════════════════════════════════════")
	utils.L().Info("  OBS-Logger  ·  device %s  ·  firmware %s", cfg.Device.ID, cfg.Device.FirmwareVersion)
	utils.L().Info("  GOMAXPROCS=%d  ·  PID=%d", runtime.GOMAXPROCS(0), os.Getpid())
	utils.L().Info("═══════════════════════════════════════════════════")

	if err := run(cfg, *dryRun); err != nil {
		utils.L().Error("%v", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg *utils.Config, dryRun bool) error {
	store, err := openStorage(cfg, dryRun)
	if err != nil {
		return err
	}
	listTrackDir(store, cfg.Storage)

	// ── Context with OS signal cancellation ──────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if d := cfg.Simulation.DurationSeconds; cfg.Simulation.Enabled && d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(d)*time.Second)
		defer cancel()
		utils.L().Info("recording will auto-stop after %ds", d)
	}

	clock := utils.SystemClock()

	// ── Pipeline assembly ────────────────────────────────────────────
	//
	//  GPS / distance / button readers ──► SamplingController ──► RecordingController ──► track file
	//                 │                            │
	//                 └──────── Bluetooth services ◄┘

	sensorCtrl := controller.NewSensorsController(cfg, clock)
	if cfg.Bluetooth.Enabled {
		sensorCtrl.AttachBluetooth(bluetooth.NewLogServer(),
			bluetooth.NewDistanceService(clock),
			bluetooth.NewButtonService(clock),
			bluetooth.NewDeviceInfoService(cfg.Device),
		)
	}

	samplingOpts := controller.SamplingOptions{
		Clock:   clock,
		Presses: sensorCtrl.Button.Presses,
	}
	if cfg.Simulation.Enabled {
		samplingOpts.Battery = ingest.NewSimulatedBattery(clock, 0).Volts
	}
	samplingCtrl := controller.NewSamplingController(cfg, samplingOpts)
	samplingCtrl.OnInterval = sensorCtrl.PublishSensorValues

	recordCtrl, err := controller.NewRecordingController(cfg, store, clock, sensorCtrl.Button.AllowFlush)
	if err != nil {
		return fmt.Errorf("init recording controller: %w", err)
	}

	sensorCtrl.Start(ctx)
	samplingCtrl.Start(ctx, sensorCtrl)
	recordCtrl.Start(samplingCtrl.Out)

	utils.L().Info("pipeline running, press Ctrl+C to stop")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		statsTicker := time.NewTicker(30 * time.Second)
		defer statsTicker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-statsTicker.C:
				utils.L().Info("── stats ─────────────────────────")
				sensorCtrl.LogStats()
				p, d := samplingCtrl.Stats()
				utils.L().Info("  samples   produced=%d  dropped=%d", p, d)
				recordCtrl.LogStats()
				utils.L().Info("──────────────────────────────────")
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.L().Info("shutting down, draining pipeline")
		if err := recordCtrl.Stop(); err != nil {
			utils.L().Warn("last batch lost: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	utils.L().Info("track saved as %s (%d samples)", recordCtrl.Filename(), recordCtrl.RowsAccepted())
	return nil
}

func openStorage(cfg *utils.Config, dryRun bool) (storage.Storage, error) {
	if dryRun {
		utils.L().Info("dry run: track files are kept in memory")
		return storage.NewMemory(), nil
	}
	fs, err := storage.NewFS(cfg.Storage.BaseDir)
	if err != nil {
		return nil, err
	}
	utils.L().Info("storage root %s", fs.Root())
	return fs, nil
}

// listTrackDir logs the medium's content and removes zero-length track
// files, which are left behind when a run could not even write its header.
func listTrackDir(store storage.Storage, cfg utils.StorageConfig) {
	files, err := store.List(".")
	if err != nil {
		utils.L().Warn("list storage root: %v", err)
		return
	}
	log := utils.L().Named("storage")
	for _, f := range files {
		if f.IsDir {
			log.Info("  %s/", f.Name)
			continue
		}
		log.Info("  %-40s %8d", f.Name, f.Size)
		if f.Size == 0 && strings.HasPrefix(f.Name, cfg.BaseName) && strings.HasSuffix(f.Name, cfg.Extension()) {
			if err := store.Remove(f.Name); err != nil {
				log.Warn("remove empty track %s: %v", f.Name, err)
			} else {
				log.Info("removed empty track %s", f.Name)
			}
		}
	}
}
