// Command stormwatch runs the event-triggered video recorder: a capture
// worker watches a camera for brightness-edge events and saves clips to
// disk, fronted by a small HTTP dashboard and settings API.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Outurnate/stormwatch/camera"
	"github.com/Outurnate/stormwatch/config"
	"github.com/Outurnate/stormwatch/library"
	"github.com/Outurnate/stormwatch/paths"
	"github.com/Outurnate/stormwatch/web"
)

const (
	appName          = "stormwatch"
	defaultConfigPath = "config.toml"
)

func main() {
	var (
		configPath = flag.String("config", defaultConfigPath, "path to configuration file")
		address    = flag.String("address", "", "listen address (overrides config file; default localhost)")
		port       = flag.Int("port", 0, "listen port (overrides config file; default 8080)")
		logLevel   = flag.String("log-level", "", "log level: debug, info, warn, error (overrides config file)")
		help       = flag.Bool("help", false, "show help information")
	)
	flag.Parse()

	if *help {
		fmt.Printf("%s — event-triggered video recorder\n\n", appName)
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting stormwatch",
		zap.String("address", cfg.Server.Address),
		zap.Int("port", cfg.Server.Port),
		zap.Int("device_index", cfg.Capture.DeviceIndex))

	dataRoot := cfg.Library.DataRootOverride
	if dataRoot == "" {
		dataRoot = paths.DataRoot()
	}
	libraryDir := filepath.Join(dataRoot, "videolib")

	lib, err := library.New(libraryDir, cfg.Library.EncoderPoolSize, logger.Named("library"))
	if err != nil {
		logger.Fatal("failed to open clip library", zap.Error(err))
	}

	settings := camera.NewSettings()
	cam := camera.New(cfg.Capture.DeviceIndex, settings, lib.SaveClipDiscardingID, logger.Named("camera"))
	cam.Start()

	server := web.NewServer(cfg.Server.Address, cfg.Server.Port, cam, lib, logger.Named("web"))
	if err := server.Start(); err != nil {
		logger.Fatal("failed to start web server", zap.Error(err))
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	sig := <-signalCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	if err := server.Stop(); err != nil {
		logger.Error("error stopping web server", zap.Error(err))
	}
	cam.Stop()

	logger.Info("shutdown complete")
}

// createLogger builds a zap logger with console encoding to stdout plus a
// rotated log file.
func createLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	const logDir = "logs"
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	ts := time.Now().Format("20060102-150405")
	logFile := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", appName, ts))

	files, _ := filepath.Glob(filepath.Join(logDir, appName+"-*.log"))
	if len(files) > 20 {
		sort.Strings(files)
		for _, f := range files[:len(files)-20] {
			_ = os.Remove(f)
		}
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout", logFile},
		ErrorOutputPaths: []string{"stderr", logFile},
	}

	return cfg.Build()
}
