package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/mattn/go-isatty"

	"raybrowser/internal/config"
	"raybrowser/internal/log"
	"raybrowser/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the TOML configuration file")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("raybrowser %s (%s, %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("GLOBAL PANIC recovered", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "Application crashed. See %s for details.\n", cfg.Log.File)
			os.Exit(1)
		}
	}()

	// The terminal belongs to the UI, so logs go to a file
	if err := log.SetFileOutput(cfg.Log.File); err != nil {
		fmt.Printf("Warning: Could not configure logging to file: %v\n", err)
	}
	log.SetLevel(cfg.Log.Level)
	defer log.Close()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		log.Error("SIGNAL RECEIVED", "signal", sig.String())
		fmt.Fprintf(os.Stderr, "Application received signal %s. See %s for details.\n", sig.String(), cfg.Log.File)
		os.Exit(1)
	}()

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("Ray Cloud Browser")
		fmt.Println("This application requires a terminal/TTY to run properly.")
		fmt.Println("Use cmd/pathdump for non-interactive walks.")
		os.Exit(1)
	}

	log.Info("starting raybrowser", "version", version, "server", cfg.Server.URL, "map", cfg.Browse.Map)

	app, err := tui.NewApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting browser: %v\n", err)
		os.Exit(1)
	}
	if err := app.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
