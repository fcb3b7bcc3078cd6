// Command pathdump walks a region without a terminal UI and prints each
// element it visits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raybrowser/internal/api"
	"raybrowser/internal/config"
	"raybrowser/internal/log"
	"raybrowser/internal/loop"
	"raybrowser/internal/session"
	"raybrowser/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath, "Path to the TOML configuration file")
		mapIndex   = flag.Int("map", -1, "Map index (-1 uses browse.map from the config)")
		section    = flag.Int("section", 0, "Section index")
		regionIdx  = flag.Int("region", 0, "Region index within the section")
		location   = flag.Int("location", 0, "Starting location")
		steps      = flag.Int("steps", 100, "Number of elements to print")
		graphPath  = flag.String("graph", "", "Write the neighborhood of the last element to this file")
		timeout    = flag.Duration("timeout", 2*time.Minute, "Give up after this long")
		verbose    = flag.Bool("v", false, "Log at debug level to stderr")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *mapIndex >= 0 {
		cfg.Browse.Map = *mapIndex
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Log.Level)
	if *verbose {
		log.SetLevel("debug")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, *timeout)
	defer cancel()

	req := walkRequest{
		Key:      api.RegionKey{Map: cfg.Browse.Map, Section: *section, Region: *regionIdx},
		Location: *location,
		Steps:    *steps,
		Graph:    *graphPath,
	}
	if err := run(ctx, cfg, nil, req, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds a session on its own loop and walks req. A nil transport talks
// HTTP to cfg.Server.URL.
func run(ctx context.Context, cfg *config.Config, t store.Transport, req walkRequest, out io.Writer) error {
	var w *walker
	l := loop.New(cfg.Tick(), func() { w.tick() })

	var sess *session.Session
	var err error
	if t == nil {
		sess, err = session.New(cfg, l.Post)
	} else {
		sess, err = session.NewWithTransport(cfg, t, l.Post)
	}
	if err != nil {
		return err
	}
	defer sess.Close()

	w = newWalker(sess, req, out)
	l.Post(w.start)

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	go l.Run(loopCtx)

	select {
	case err := <-w.done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("walk interrupted: %w", ctx.Err())
	}
}
