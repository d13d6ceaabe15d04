// partseed generates initial-condition files for Lagrangian particle
// tracking: it reads a source configuration, materializes the particle set,
// and hands it to the configured output encoder.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/partseed/partseed/internal/config"
	"github.com/partseed/partseed/internal/encode"
	"github.com/partseed/partseed/internal/engine"
	"github.com/partseed/partseed/internal/influx"
	"github.com/partseed/partseed/internal/logging"
	"github.com/partseed/partseed/pkg/core"
)

// AppName and Version identify the binary in logs. Version can be set at
// build time via ldflags.
var (
	AppName = "partseed"
	Version = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run() error {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	log, logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	log.Info().Str("version", Version).Str("configDir", configDir).Msg("Starting up")

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	particles, summary, err := eng.Generate()
	if err != nil {
		return err
	}

	enc, err := encode.New(cfg, log)
	if err != nil {
		return err
	}
	if c, ok := enc.(io.Closer); ok {
		defer c.Close()
	}
	if err := enc.Encode(particles, summary); err != nil {
		return err
	}
	log.Info().
		Str("output", cfg.Output.Path).
		Str("type", cfg.Output.Type).
		Int("particles", summary.Particles).
		Msg("Particle data written")

	reportRun(log, summary)
	return nil
}

func setupLogging(cfg *config.Config) (zerolog.Logger, *os.File, error) {
	var logFile *os.File
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("failed to create logs dir: %w", err)
		}
		path := logging.LogFilePath(cfg.LogsDir, AppName, time.Now().UTC())
		f, err := os.Create(filepath.Clean(path))
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("failed to create log file: %w", err)
		}
		logFile = f
	}

	gelfAddr := ""
	if config.GetBool("graylog.enabled") {
		gelfAddr = config.GetString("graylog.address")
	}

	log, err := logging.Setup(cfg.LogLevel, logFile, gelfAddr)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	return log, logFile, nil
}

// reportRun pushes the run summary to InfluxDB when enabled. Metrics are
// best-effort; failures are logged and otherwise ignored.
func reportRun(log zerolog.Logger, summary *core.RunSummary) {
	if !config.GetBool("influx.enabled") {
		return
	}

	mgr := influx.NewManager(log)
	defer mgr.Close()
	if err := mgr.Connect(); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mgr.WriteRunSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("Failed to write run summary")
	}
}
