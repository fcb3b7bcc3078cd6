package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raybrowser/internal/api"
	"raybrowser/internal/region"
)

func newTestManager() (*Manager, *fakeStore, *fakeRegistrar) {
	store := newFakeStore()
	registrar := &fakeRegistrar{}
	return NewManager(store, registrar, Options{}), store, registrar
}

func identity(m, s, r int) region.Identity {
	return region.Identity{Key: api.RegionKey{Map: m, Section: s, Region: r}}
}

func TestStartPath(t *testing.T) {
	t.Run("new start selects and fetches", func(t *testing.T) {
		m, store, registrar := newTestManager()

		require.NoError(t, m.StartPath(identity(0, 1, 2), 1000, 2000, true))

		r, ok := m.Selected()
		require.True(t, ok)
		assert.Equal(t, 1000, r.Location())
		assert.True(t, r.InFlight())
		assert.Equal(t, DefaultPalette[0], r.Color())
		assert.Equal(t, 1, store.clears)
		assert.Equal(t, 1, registrar.clears)

		require.Len(t, store.windows(), 1)
		assert.Equal(t, api.GetWindow{Key: api.RegionKey{Map: 0, Section: 1, Region: 2}, Location: 1000, Count: 512}, store.windows()[0])
	})

	t.Run("new start discards prior regions", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 10, 100, true))
		require.NoError(t, m.StartPath(identity(0, 0, 2), 10, 100, false))
		require.NoError(t, m.StartPath(identity(0, 0, 3), 10, 100, true))

		require.Len(t, m.Regions(), 1)
		_, ok := m.Region(api.RegionKey{Region: 1})
		assert.False(t, ok)
		assert.Equal(t, 0, m.SelectedIndex())
	})

	t.Run("overlay keeps selection and does not clear collaborators", func(t *testing.T) {
		m, store, registrar := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 10, 100, true))
		require.NoError(t, m.StartPath(identity(0, 0, 2), 20, 100, false))

		assert.Equal(t, 0, m.SelectedIndex())
		assert.Len(t, m.Regions(), 2)
		assert.Equal(t, 1, store.clears)
		assert.Equal(t, 1, registrar.clears)
		assert.Len(t, store.windows(), 2)
	})

	t.Run("overlay of tracked region is a no-op", func(t *testing.T) {
		m, store, _ := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 10, 100, true))
		require.NoError(t, m.StartPath(identity(0, 0, 1), 50, 100, false))

		assert.Len(t, m.Regions(), 1)
		assert.Len(t, store.windows(), 1)
	})

	t.Run("overlay with empty set becomes selected", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 10, 100, false))
		assert.True(t, m.HasSelection())
	})

	t.Run("rejects location outside region", func(t *testing.T) {
		m, store, _ := newTestManager()
		err := m.StartPath(identity(0, 0, 1), 100, 100, false)
		assert.ErrorIs(t, err, region.ErrInvalidPosition)
		assert.Empty(t, m.Regions())
		assert.Empty(t, store.sent)
	})

	t.Run("rejected new start keeps tracked paths", func(t *testing.T) {
		m, store, registrar := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 10, 100, true))

		err := m.StartPath(identity(0, 0, 2), 500, 100, true)
		assert.ErrorIs(t, err, region.ErrInvalidPosition)

		require.Len(t, m.Regions(), 1)
		r, ok := m.Selected()
		require.True(t, ok)
		assert.Equal(t, api.RegionKey{Region: 1}, r.Key())
		assert.Equal(t, 1, store.clears)
		assert.Equal(t, 1, registrar.clears)
		assert.Len(t, store.windows(), 1)
	})
}

func TestKeysDoNotAlias(t *testing.T) {
	m, _, _ := newTestManager()
	require.NoError(t, m.StartPath(identity(1, 23, 0), 0, 10, false))
	require.NoError(t, m.StartPath(identity(12, 3, 0), 0, 10, false))
	assert.Len(t, m.Regions(), 2)
}

func TestColorsArePeriodic(t *testing.T) {
	m, _, _ := newTestManager()
	for i := 0; i < 7; i++ {
		require.NoError(t, m.StartPath(identity(0, 0, i), 0, 10, false))
	}

	regions := m.Regions()
	size := len(DefaultPalette)
	for i := 0; i+size < len(regions); i++ {
		assert.Equal(t, regions[i].Color(), regions[i+size].Color())
	}
	assert.NotEqual(t, regions[0].Color(), regions[1].Color())
}

func TestColorAllocator(t *testing.T) {
	c := NewColorAllocator([]string{"a", "b", "c", "d"})
	var got []string
	for i := 0; i < 9; i++ {
		got = append(got, c.Allocate())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "a", "b", "c", "d", "a"}, got)
	assert.Equal(t, 4, c.Size())

	assert.Equal(t, DefaultPalette[0], NewColorAllocator(nil).Allocate())
}

func TestSelect(t *testing.T) {
	m, _, _ := newTestManager()
	assert.False(t, m.HasSelection())
	_, ok := m.Selected()
	assert.False(t, ok)

	require.NoError(t, m.StartPath(identity(0, 0, 1), 0, 10, true))
	require.NoError(t, m.StartPath(identity(0, 0, 2), 0, 10, false))

	require.NoError(t, m.Select(1))
	r, _ := m.Selected()
	assert.Equal(t, 2, r.Key().Region)

	assert.ErrorIs(t, m.Select(2), ErrInvalidSelection)
	assert.ErrorIs(t, m.Select(-1), ErrInvalidSelection)
	assert.Equal(t, 1, m.SelectedIndex(), "failed select must not change selection")
}

func TestNavigation(t *testing.T) {
	t.Run("without selection", func(t *testing.T) {
		m, _, _ := newTestManager()
		m.Next()
		m.Previous()
		assert.ErrorIs(t, m.Jump(3), ErrNoSelection)
		_, ok := m.CurrentElement()
		assert.False(t, ok)
		assert.False(t, m.HasCurrentElement())
	})

	t.Run("clamped moves and validated jumps", func(t *testing.T) {
		m, _, _ := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 8, 10, true))

		for i := 0; i < 5; i++ {
			m.Next()
		}
		loc, _ := m.CurrentLocation()
		assert.Equal(t, 9, loc)

		assert.ErrorIs(t, m.Jump(10), region.ErrInvalidPosition)
		require.NoError(t, m.Jump(0))
		m.Previous()
		loc, _ = m.CurrentLocation()
		assert.Equal(t, 0, loc)
	})

	t.Run("jump to element", func(t *testing.T) {
		m, _, _ := newTestManager()
		key := api.RegionKey{Region: 1}
		require.NoError(t, m.StartPath(identity(0, 0, 1), 50, 100, true))
		m.ReceiveReply(window(key, 40, 60))

		require.NoError(t, m.JumpToElement(sequenceAt(45)))
		loc, _ := m.CurrentLocation()
		assert.Equal(t, 45, loc)

		current, ok := m.CurrentElement()
		assert.True(t, ok)
		assert.Equal(t, sequenceAt(45), current)

		assert.ErrorIs(t, m.JumpToElement("NOPE"), ErrUnknownElement)
	})
}

func TestAddRegion(t *testing.T) {
	t.Run("duplicate before reply sends one describe", func(t *testing.T) {
		m, store, _ := newTestManager()
		key := api.RegionKey{Map: 0, Section: 3, Region: 9}

		assert.True(t, m.AddRegion(key, 0))
		assert.False(t, m.AddRegion(key, 0))

		require.Len(t, store.describes(), 1)
		assert.Equal(t, api.DescribeRegion{Map: 0, Section: 3, Start: 9, Count: 1}, store.describes()[0])
		assert.True(t, m.IsPending(key))
	})

	t.Run("tracked region is not described", func(t *testing.T) {
		m, store, _ := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 0, 10, true))
		assert.False(t, m.AddRegion(api.RegionKey{Region: 1}, 0))
		assert.Empty(t, store.describes())
	})

	t.Run("description folds region in", func(t *testing.T) {
		m, store, _ := newTestManager()
		require.NoError(t, m.StartPath(identity(0, 0, 1), 0, 10, true))
		key := api.RegionKey{Map: 0, Section: 0, Region: 4}
		m.AddRegion(key, 500)

		m.ReceiveReply(&api.DescribeReply{
			Map: 0, Section: 0, Start: 4,
			Regions: []api.RegionDescription{{Name: "contig-4", Nucleotides: 2030}},
		})

		r, ok := m.Region(key)
		require.True(t, ok)
		assert.Equal(t, 2000, r.Length())
		assert.Equal(t, 500, r.Location())
		assert.Equal(t, "contig-4", r.Identity().RegionName)
		assert.False(t, m.IsPending(key))
		assert.Equal(t, 0, m.SelectedIndex(), "overlay must not steal the selection")

		windows := store.windows()
		assert.Equal(t, api.GetWindow{Key: key, Location: 500, Count: 512}, windows[len(windows)-1])

		assert.False(t, m.AddRegion(key, 0))
	})

	t.Run("seed is clamped to the region", func(t *testing.T) {
		m, _, _ := newTestManager()
		key := api.RegionKey{Region: 4}
		m.AddRegion(key, 5000)
		m.ReceiveReply(&api.DescribeReply{Start: 4, Regions: []api.RegionDescription{{Nucleotides: 130}}})

		r, ok := m.Region(key)
		require.True(t, ok)
		assert.Equal(t, 99, r.Location())
	})

	t.Run("description after reset is dropped", func(t *testing.T) {
		m, _, _ := newTestManager()
		key := api.RegionKey{Region: 4}
		m.AddRegion(key, 0)
		require.NoError(t, m.StartPath(identity(0, 0, 1), 0, 10, true))

		m.ReceiveReply(&api.DescribeReply{Start: 4, Regions: []api.RegionDescription{{Nucleotides: 130}}})
		_, ok := m.Region(key)
		assert.False(t, ok)
	})

	t.Run("too short region is dropped", func(t *testing.T) {
		m, _, _ := newTestManager()
		key := api.RegionKey{Region: 4}
		m.AddRegion(key, 0)
		m.ReceiveReply(&api.DescribeReply{Start: 4, Regions: []api.RegionDescription{{Nucleotides: 20}}})

		_, ok := m.Region(key)
		assert.False(t, ok)
		assert.False(t, m.IsPending(key))
	})
}

func TestMembershipQueries(t *testing.T) {
	m, _, registrar := newTestManager()
	first := api.RegionKey{Region: 1}
	second := api.RegionKey{Region: 2}
	require.NoError(t, m.StartPath(region.Identity{Key: first}, 0, 100, true))
	require.NoError(t, m.StartPath(region.Identity{Key: second}, 0, 100, false))

	m.ReceiveReply(&api.WindowReply{Key: first, Vertices: []api.PositionedElement{
		{Sequence: "AAAC", Position: 0}, {Sequence: "AACG", Position: 1},
	}})
	m.ReceiveReply(&api.WindowReply{Key: second, Vertices: []api.PositionedElement{
		{Sequence: "AACG", Position: 0}, {Sequence: "TTTT", Position: 1},
	}})

	colorFirst := m.Regions()[0].Color()
	colorSecond := m.Regions()[1].Color()

	assert.True(t, m.ElementIsOnAnyTrackedPath("AAAC"))
	assert.True(t, m.ElementIsOnAnyTrackedPath(registrar.ReverseComplement("AAAC")), "reverse complement counts")
	assert.False(t, m.ElementIsOnAnyTrackedPath("GGGG"))

	assert.Equal(t, []string{colorFirst, colorSecond}, m.ColorsFor("AACG"))
	assert.Equal(t, []string{colorFirst}, m.ColorsFor("AAAC"))
	assert.Equal(t, []string{colorSecond}, m.ColorsFor("AAAA"), "AAAA is the reverse complement of TTTT")
	assert.Empty(t, m.ColorsFor("GGGG"))

	assert.Equal(t, []string{colorFirst}, m.ColorsForPair("AAAC", "AACG"))
	assert.Equal(t, []string{colorSecond}, m.ColorsForPair("AACG", "TTTT"))
	assert.Empty(t, m.ColorsForPair("AAAC", "TTTT"))

	assert.Equal(t, []int{1}, m.PositionsOf("AACG"))
	pos, ok := m.VertexPosition("AAAC")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)
	pos, ok = m.VertexPosition("GGGG")
	assert.False(t, ok)
	assert.Equal(t, -1, pos)
}

func TestResetThenDescribeStartsFresh(t *testing.T) {
	m, store, registrar := newTestManager()
	require.NoError(t, m.StartPath(identity(0, 0, 1), 0, 10, true))
	m.AddRegion(api.RegionKey{Region: 2}, 0)

	m.Reset()
	assert.Empty(t, m.Regions())
	assert.False(t, m.HasSelection())
	assert.False(t, m.IsPending(api.RegionKey{Region: 2}))
	assert.Equal(t, 2, store.clears)
	assert.Equal(t, 2, registrar.clears)

	key := api.RegionKey{Region: 5}
	require.True(t, m.AddRegion(key, 40))
	m.ReceiveReply(&api.DescribeReply{Start: 5, Regions: []api.RegionDescription{{Name: "r5", Nucleotides: 130}}})

	r, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, key, r.Key())
	assert.Equal(t, 40, r.Location())
}
