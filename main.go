/*
Loads a splat material from a TOML config, waits for every texture
layer and spawns the blended entity.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/triplanar/engine"
	"github.com/spaghettifunk/triplanar/engine/config"
	"github.com/spaghettifunk/triplanar/engine/core"
)

func main() {
	configPath := flag.String("config", "assets/splat.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("failed to load config: %s", err)
	}

	level, err := core.ParseLogLevel(cfg.Application.LogLevel)
	if err != nil {
		core.LogFatal("invalid log level '%s': %s", cfg.Application.LogLevel, err)
	}
	core.SetLogLevel(level)

	e, err := engine.New(cfg)
	if err != nil {
		core.LogFatal("%s", err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("%s", err.Error())
	}

	// cancelled on sigterm and other system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogError("%s", runErr.Error())
		os.Exit(1)
	}
	if err := e.Material().Err(); err != nil {
		core.LogError("splat material was not spawned: %s", err)
		os.Exit(1)
	}
}
