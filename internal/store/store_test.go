package store

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raybrowser/internal/api"
	"raybrowser/internal/log"
	"raybrowser/internal/store/cache"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeTransport struct {
	mu       sync.Mutex
	requests []api.Request
	reply    func(api.Request) (api.Reply, error)
}

func (f *fakeTransport) Do(ctx context.Context, req api.Request) (api.Reply, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.reply(req)
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// queue collects posted callbacks so the test goroutine can run them
type queue chan func()

func (q queue) post(f func()) { q <- f }

func (q queue) runOne(t *testing.T) {
	t.Helper()
	select {
	case f := <-q:
		f()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply delivery")
	}
}

func (q queue) assertEmpty(t *testing.T) {
	t.Helper()
	select {
	case <-q:
		t.Fatal("unexpected delivery")
	case <-time.After(50 * time.Millisecond):
	}
}

type pathRecorder struct{ replies []api.PathReply }

func (p *pathRecorder) ReceiveReply(reply api.PathReply) { p.replies = append(p.replies, reply) }

type detailRecorder struct{ replies []*api.DetailReply }

func (d *detailRecorder) ReceiveDetail(reply *api.DetailReply) { d.replies = append(d.replies, reply) }

func echoTransport() *fakeTransport {
	return &fakeTransport{reply: func(req api.Request) (api.Reply, error) {
		switch req := req.(type) {
		case api.GetWindow:
			return &api.WindowReply{Key: req.Key, Location: req.Location,
				Vertices: []api.PositionedElement{{Sequence: "ACGT", Position: req.Location}}}, nil
		case api.GetElementDetail:
			return &api.DetailReply{Map: req.Map, Sequence: req.Sequence,
				Vertices: []api.VertexDetail{{Sequence: req.Sequence, Coverage: 5, Children: []string{"A"}}}}, nil
		case api.DescribeRegion:
			return &api.DescribeReply{Map: req.Map, Section: req.Section, Start: req.Start,
				Regions: []api.RegionDescription{{Name: "r", Nucleotides: 100}}}, nil
		}
		return nil, errors.New("unexpected request")
	}}
}

func newTestStore(t *testing.T, transport Transport) (*Store, queue, *pathRecorder, *detailRecorder) {
	t.Helper()
	c, err := cache.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	q := make(queue, 16)
	s := New(transport, c, q.post, Config{MapIndex: 3, KmerLength: 31, DefaultDepth: 64})
	paths := &pathRecorder{}
	details := &detailRecorder{}
	s.SetPathHandler(paths)
	s.AddDetailHandler(details)
	return s, q, paths, details
}

func TestAccessors(t *testing.T) {
	s, _, _, _ := newTestStore(t, echoTransport())
	assert.Equal(t, 3, s.GetMapIndex())
	assert.Equal(t, 31, s.GetKmerLength())
	assert.Equal(t, 64, s.GetDefaultDepth())
}

func TestPathRepliesAreRouted(t *testing.T) {
	s, q, paths, _ := newTestStore(t, echoTransport())

	s.Send(api.GetWindow{Key: api.RegionKey{Region: 1}, Location: 10, Count: 512})
	q.runOne(t)
	s.Send(api.DescribeRegion{Start: 4, Count: 1})
	q.runOne(t)

	require.Len(t, paths.replies, 2)
	window, ok := paths.replies[0].(*api.WindowReply)
	require.True(t, ok)
	assert.Equal(t, 10, window.Location)
	_, ok = paths.replies[1].(*api.DescribeReply)
	assert.True(t, ok)
}

func TestDetailIsCachedAndServedFromCache(t *testing.T) {
	transport := echoTransport()
	s, q, _, details := newTestStore(t, transport)

	s.Send(api.GetElementDetail{Map: 3, Sequence: "ACGT", Count: 64})
	q.runOne(t)
	require.Len(t, details.replies, 1)
	assert.Equal(t, 1, transport.count())

	detail, ok := s.Detail("ACGT")
	require.True(t, ok)
	assert.Equal(t, 5, detail.Coverage)

	s.Send(api.GetElementDetail{Map: 3, Sequence: "ACGT", Count: 64})
	q.runOne(t)
	require.Len(t, details.replies, 2)
	assert.Equal(t, 1, transport.count(), "second request is answered from the cache")
	assert.Equal(t, []string{"A"}, details.replies[1].Vertices[0].Children)
}

func TestClearDropsOutstandingReplies(t *testing.T) {
	release := make(chan struct{})
	transport := echoTransport()
	inner := transport.reply
	transport.reply = func(req api.Request) (api.Reply, error) {
		<-release
		return inner(req)
	}
	s, q, paths, _ := newTestStore(t, transport)

	s.Send(api.GetWindow{Key: api.RegionKey{Region: 1}, Location: 10, Count: 512})
	s.Clear()
	close(release)

	q.runOne(t)
	assert.Empty(t, paths.replies)
}

func TestClearEmptiesDetailCache(t *testing.T) {
	s, q, _, _ := newTestStore(t, echoTransport())
	s.Send(api.GetElementDetail{Map: 3, Sequence: "ACGT"})
	q.runOne(t)

	s.Clear()
	_, ok := s.Detail("ACGT")
	assert.False(t, ok)
}

func TestTransportErrorDeliversNothing(t *testing.T) {
	transport := &fakeTransport{reply: func(api.Request) (api.Reply, error) {
		return nil, errors.New("connection refused")
	}}
	s, q, paths, _ := newTestStore(t, transport)

	s.Send(api.GetWindow{Key: api.RegionKey{Region: 1}})
	q.assertEmpty(t)
	assert.Empty(t, paths.replies)
}

func TestStoreWithoutCache(t *testing.T) {
	transport := echoTransport()
	q := make(queue, 4)
	s := New(transport, nil, q.post, Config{})
	details := &detailRecorder{}
	s.AddDetailHandler(details)

	s.Send(api.GetElementDetail{Sequence: "ACGT"})
	q.runOne(t)
	s.Send(api.GetElementDetail{Sequence: "ACGT"})
	q.runOne(t)

	assert.Equal(t, 2, transport.count())
	assert.Len(t, details.replies, 2)
	_, ok := s.Detail("ACGT")
	assert.False(t, ok)
}
