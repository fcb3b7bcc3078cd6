package store

import (
	"context"
	"errors"
	"time"

	"raybrowser/internal/api"
	"raybrowser/internal/log"
	"raybrowser/internal/store/cache"
)

// Transport performs one request/reply exchange with the remote service
type Transport interface {
	Do(ctx context.Context, req api.Request) (api.Reply, error)
}

// Poster runs f on the goroutine that owns the navigator and the graph
type Poster func(f func())

// Config holds the store parameters that the navigator reads back
type Config struct {
	MapIndex     int
	KmerLength   int
	DefaultDepth int
	Timeout      time.Duration
}

// Store is the navigator's view of the remote data service. Requests run on
// their own goroutines; replies are posted back to the owning goroutine and
// routed to the registered handlers there.
type Store struct {
	transport Transport
	cache     *cache.DetailCache
	post      Poster
	cfg       Config

	pathHandler    api.PathReplyHandler
	detailHandlers []api.DetailHandler

	// generation changes on Clear; replies for older generations are dropped
	generation uint64
}

// New creates a store. cache may be nil to disable detail caching.
func New(transport Transport, detailCache *cache.DetailCache, post Poster, cfg Config) *Store {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Store{
		transport: transport,
		cache:     detailCache,
		post:      post,
		cfg:       cfg,
	}
}

// SetPathHandler registers the receiver of window and describe replies
func (s *Store) SetPathHandler(h api.PathReplyHandler) {
	s.pathHandler = h
}

// AddDetailHandler registers a receiver of element detail replies
func (s *Store) AddDetailHandler(h api.DetailHandler) {
	s.detailHandlers = append(s.detailHandlers, h)
}

func (s *Store) GetMapIndex() int     { return s.cfg.MapIndex }
func (s *Store) GetDefaultDepth() int { return s.cfg.DefaultDepth }
func (s *Store) GetKmerLength() int   { return s.cfg.KmerLength }

// Clear drops cached details and orphans every outstanding request
func (s *Store) Clear() {
	s.generation++
	if s.cache != nil {
		if err := s.cache.Clear(); err != nil {
			log.Error("STORE: failed to clear detail cache", "error", err)
		}
	}
	log.Debug("STORE: cleared", "generation", s.generation)
}

// Send issues req without blocking. Detail requests already in the cache are
// answered from it.
func (s *Store) Send(req api.Request) {
	generation := s.generation

	if detail, ok := req.(api.GetElementDetail); ok {
		if reply, hit := s.cachedDetail(detail); hit {
			s.post(func() { s.deliver(generation, reply) })
			return
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()

		reply, err := s.transport.Do(ctx, req)
		if err != nil {
			// No retry: a lost window reply leaves the region's fetch in flight
			log.Error("STORE: request failed", "tag", req.Tag(), "error", err)
			return
		}
		s.post(func() { s.deliver(generation, reply) })
	}()
}

func (s *Store) cachedDetail(req api.GetElementDetail) (*api.DetailReply, bool) {
	if s.cache == nil {
		return nil, false
	}
	detail, err := s.cache.Get(req.Map, req.Sequence)
	if err != nil {
		if !errors.Is(err, cache.ErrNotCached) {
			log.Warn("STORE: detail cache lookup failed", "sequence", req.Sequence, "error", err)
		}
		return nil, false
	}
	log.Debug("STORE: detail cache hit", "sequence", req.Sequence)
	return &api.DetailReply{Map: req.Map, Sequence: req.Sequence, Vertices: []api.VertexDetail{detail}}, true
}

// Detail returns a cached element detail
func (s *Store) Detail(sequence string) (api.VertexDetail, bool) {
	if s.cache == nil {
		return api.VertexDetail{}, false
	}
	detail, err := s.cache.Get(s.cfg.MapIndex, sequence)
	if err != nil {
		return api.VertexDetail{}, false
	}
	return detail, true
}

// deliver runs on the owning goroutine
func (s *Store) deliver(generation uint64, reply api.Reply) {
	if generation != s.generation {
		log.Debug("STORE: dropping reply from before clear", "generation", generation, "current", s.generation)
		return
	}

	switch reply := reply.(type) {
	case api.PathReply:
		if s.pathHandler == nil {
			log.Warn("STORE: no path handler for reply")
			return
		}
		s.pathHandler.ReceiveReply(reply)
	case *api.DetailReply:
		if s.cache != nil && len(reply.Vertices) > 0 {
			if err := s.cache.PutAll(reply.Map, reply.Vertices); err != nil {
				log.Error("STORE: failed to cache detail", "sequence", reply.Sequence, "error", err)
			}
		}
		for _, h := range s.detailHandlers {
			h.ReceiveDetail(reply)
		}
	default:
		log.Warn("STORE: unhandled reply", "type", reply)
	}
}
