// Package session wires the transport, the store, the detail cache, the graph
// and the navigator into one browsing session.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"

	"raybrowser/internal/config"
	"raybrowser/internal/graph"
	"raybrowser/internal/log"
	"raybrowser/internal/navigator"
	"raybrowser/internal/store"
	"raybrowser/internal/store/cache"
	"raybrowser/internal/transport"
)

// GraphRadius is how many hops around the current element an export covers
const GraphRadius = 8

// ErrNothingToExport is returned when no element is under the cursor
var ErrNothingToExport = errors.New("no element under the cursor")

// Session owns one browsing session. All methods except Close must be called
// on the goroutine that the poster runs functions on.
type Session struct {
	Config  *config.Config
	Store   *store.Store
	Graph   *graph.Graph
	Manager *navigator.Manager

	cache *cache.DetailCache
}

// New builds a session against cfg.Server.URL. post must run functions on
// the session's owning goroutine.
func New(cfg *config.Config, post store.Poster) (*Session, error) {
	return NewWithTransport(cfg, transport.NewHTTPTransport(cfg.Server.URL, nil), post)
}

// NewWithTransport builds a session on an existing transport
func NewWithTransport(cfg *config.Config, t store.Transport, post store.Poster) (*Session, error) {
	detailCache, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open detail cache: %w", err)
	}

	st := store.New(t, detailCache, post, store.Config{
		MapIndex:     cfg.Browse.Map,
		KmerLength:   cfg.Browse.KmerLength,
		DefaultDepth: cfg.Browse.DefaultDepth,
		Timeout:      cfg.Timeout(),
	})
	gr := graph.New()
	mgr := navigator.NewManager(st, gr, navigator.Options{
		WindowSize:      cfg.Browse.WindowSize,
		ReadaheadBuffer: cfg.Browse.ReadaheadBuffer,
		Palette:         cfg.Browse.Palette,
	})

	st.SetPathHandler(mgr)
	st.AddDetailHandler(gr)

	log.Info("session created", "server", cfg.Server.URL, "map", cfg.Browse.Map, "cache", cfg.Cache.Path)

	return &Session{
		Config:  cfg,
		Store:   st,
		Graph:   gr,
		Manager: mgr,
		cache:   detailCache,
	}, nil
}

// Close releases the detail cache
func (s *Session) Close() error {
	return s.cache.Close()
}

// ExportGraph renders the neighborhood of the current element to path. The
// output format follows the file extension and defaults to xdot.
func (s *Session) ExportGraph(ctx context.Context, path string) error {
	center, ok := s.Manager.CurrentElement()
	if !ok {
		return ErrNothingToExport
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	err = s.Graph.Render(ctx, f, graph.RenderOptions{
		Center: center,
		Radius: GraphRadius,
		Format: FormatForPath(path),
		Colors: s.Manager,
	})
	if err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	log.Info("graph exported", "path", path, "center", center)
	return nil
}

// FormatForPath picks a graphviz output format from a file extension
func FormatForPath(path string) graphviz.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return graphviz.SVG
	case ".png":
		return graphviz.PNG
	case ".jpg", ".jpeg":
		return graphviz.JPG
	default:
		return graphviz.XDOT
	}
}
