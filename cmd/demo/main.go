package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"runtime"

	"quadbatch/internal/logger"
	"quadbatch/pkg/config"
	"quadbatch/pkg/engine"
)

func init() {
	// GLFW and the GL context must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	sceneName := flag.String("scene", "", "Override scene.name (grid, stress)")
	sprites := flag.Int("sprites", 0, "Override scene.sprites for the stress scene")
	logLevel := flag.String("log", "", "Override log.level (debug, info, warn, error)")
	writeConfig := flag.Bool("write-config", false, "Write the effective configuration to -config and exit")
	flag.Parse()

	cfg, loadErr := config.LoadConfig(*configPath)
	if loadErr != nil && !errors.Is(loadErr, fs.ErrNotExist) {
		log.Fatalf("Failed to load configuration: %v", loadErr)
	}
	if *sceneName != "" {
		cfg.Scene.Name = *sceneName
	}
	if *sprites > 0 {
		cfg.Scene.Sprites = *sprites
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logger.Close()

	if loadErr != nil {
		logger.Warnf("%v", loadErr)
	}

	if *writeConfig {
		if err := config.SaveConfig(cfg, *configPath); err != nil {
			logger.Fatalf("Failed to write configuration: %v", err)
		}
		logger.Infof("Configuration written to %s", *configPath)
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	logger.Info("Starting quadbatch demo...")
	demo, err := engine.NewEngine(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize engine: %v", err)
	}

	logger.Info("Engine initialized, starting frame loop...")
	if err := demo.Run(); err != nil {
		logger.Fatalf("Frame loop stopped: %v", err)
	}
}

func newLogger(cfg config.LogConfig) (*logger.Logger, error) {
	if cfg.File == "" {
		return logger.NewLogger(cfg.Level), nil
	}
	return logger.NewMultiLogger(cfg.Level, cfg.File)
}
