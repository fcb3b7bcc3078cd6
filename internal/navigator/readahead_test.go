package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raybrowser/internal/api"
)

// startWithWindow tracks one region and merges a window [from, to] into it
func startWithWindow(t *testing.T, length, location, from, to int) (*Manager, *fakeStore) {
	t.Helper()
	m, store, _ := newTestManager()
	require.NoError(t, m.StartPath(identity(0, 0, 1), location, length, true))
	m.ReceiveReply(window(api.RegionKey{Region: 1}, from, to))
	store.sent = nil
	return m, store
}

func TestReadaheadWithoutSelection(t *testing.T) {
	m, store, _ := newTestManager()
	assert.False(t, m.DoReadahead())
	assert.Empty(t, store.sent)
}

func TestReadaheadWhileInFlight(t *testing.T) {
	m, store, _ := newTestManager()
	require.NoError(t, m.StartPath(identity(0, 0, 1), 1000, 10000, true))
	store.sent = nil

	assert.False(t, m.DoReadahead(), "no bounds and fetch outstanding")
	assert.Empty(t, store.sent)
}

func TestReadaheadGrowsLeft(t *testing.T) {
	m, store := startWithWindow(t, 10000, 5000, 4800, 5200)

	assert.True(t, m.DoReadahead())
	require.Len(t, store.windows(), 1)
	assert.Equal(t, 4800, store.windows()[0].Location)

	r, _ := m.Selected()
	assert.True(t, r.InFlight())

	assert.False(t, m.DoReadahead(), "second tick waits for the reply")
	assert.Len(t, store.windows(), 1)
}

func TestReadaheadGrowsRight(t *testing.T) {
	m, store := startWithWindow(t, 10000, 1000, 0, 1500)

	assert.True(t, m.DoReadahead())
	require.Len(t, store.windows(), 1)
	assert.Equal(t, 1500, store.windows()[0].Location)
}

func TestReadaheadIdleWhenFarFromBounds(t *testing.T) {
	m, store := startWithWindow(t, 100000, 5000, 2000, 8000)

	assert.False(t, m.DoReadahead())
	assert.Empty(t, store.sent)
}

func TestReadaheadStopsAtTrueEdges(t *testing.T) {
	t.Run("left edge reached", func(t *testing.T) {
		m, store := startWithWindow(t, 10000, 50, 0, 3000)

		assert.False(t, m.DoReadahead(), "cursor is within buffer of 0 but 0 is the edge")
		assert.Empty(t, store.sent)
	})

	t.Run("both edges reached", func(t *testing.T) {
		m, store := startWithWindow(t, 2000, 1000, 0, 1999)

		assert.False(t, m.DoReadahead())
		assert.Empty(t, store.sent)
	})

	t.Run("right edge reached", func(t *testing.T) {
		m, store := startWithWindow(t, 5000, 4900, 2000, 4999)

		assert.False(t, m.DoReadahead())
		assert.Empty(t, store.sent)
	})
}

func TestReadaheadPrefersLeft(t *testing.T) {
	m, store := startWithWindow(t, 100000, 5000, 4900, 5100)

	assert.True(t, m.DoReadahead())
	require.Len(t, store.windows(), 1)
	assert.Equal(t, 4900, store.windows()[0].Location)
}

func TestReadaheadFollowsCursor(t *testing.T) {
	m, store := startWithWindow(t, 100000, 50000, 48000, 52000)
	assert.False(t, m.DoReadahead())

	require.NoError(t, m.Jump(51500))
	assert.True(t, m.DoReadahead())
	require.Len(t, store.windows(), 1)
	assert.Equal(t, 52000, store.windows()[0].Location)

	m.ReceiveReply(window(api.RegionKey{Region: 1}, 52000, 54000))
	r, _ := m.Selected()
	_, right, _ := r.Bounds()
	assert.Equal(t, 54000, right)
	assert.False(t, m.DoReadahead())
}

func TestReadaheadUsesSelectedRegion(t *testing.T) {
	m, store := startWithWindow(t, 100000, 50000, 48000, 52000)
	require.NoError(t, m.StartPath(identity(0, 0, 2), 10, 100000, false))
	m.ReceiveReply(window(api.RegionKey{Region: 2}, 0, 600))
	store.sent = nil

	assert.False(t, m.DoReadahead())

	require.NoError(t, m.Select(1))
	assert.True(t, m.DoReadahead())
	require.Len(t, store.windows(), 1)
	assert.Equal(t, api.RegionKey{Region: 2}, store.windows()[0].Key)
	assert.Equal(t, 600, store.windows()[0].Location)
}
