package navigator

import (
	"fmt"

	"raybrowser/internal/api"
	"raybrowser/internal/log"
	"raybrowser/internal/region"
)

const (
	// DefaultWindowSize is the number of elements asked for per window fetch
	DefaultWindowSize = 512

	// DefaultReadaheadBuffer is how close the cursor may get to a cached
	// bound before the next window is requested
	DefaultReadaheadBuffer = 1024

	describeCount = 1
	noSelection   = -1
)

// Options tunes a Manager. Zero values use the defaults.
type Options struct {
	WindowSize      int
	ReadaheadBuffer int
	Palette         []string
}

// Manager tracks every path the user is walking. It owns the regions, the
// selection, the color allocator and the prefetch decisions.
//
// Manager is not safe for concurrent use: every call, including reply
// delivery and the idle tick, must happen on the same goroutine.
type Manager struct {
	store     api.Store
	registrar api.GraphRegistrar

	regions  []*region.Region
	index    map[api.RegionKey]*region.Region
	pending  map[api.RegionKey]int // describe requests in flight -> seed location
	selected int

	colors          *ColorAllocator
	windowSize      int
	readaheadBuffer int
}

// NewManager creates a manager with no tracked regions
func NewManager(store api.Store, registrar api.GraphRegistrar, opts Options) *Manager {
	if opts.WindowSize <= 0 {
		opts.WindowSize = DefaultWindowSize
	}
	if opts.ReadaheadBuffer <= 0 {
		opts.ReadaheadBuffer = DefaultReadaheadBuffer
	}

	return &Manager{
		store:           store,
		registrar:       registrar,
		index:           make(map[api.RegionKey]*region.Region),
		pending:         make(map[api.RegionKey]int),
		selected:        noSelection,
		colors:          NewColorAllocator(opts.Palette),
		windowSize:      opts.WindowSize,
		readaheadBuffer: opts.ReadaheadBuffer,
	}
}

// Reset forgets every region, the selection and all pending describes, and
// clears the store and graph. Color allocation continues where it was.
func (m *Manager) Reset() {
	m.regions = nil
	m.index = make(map[api.RegionKey]*region.Region)
	m.pending = make(map[api.RegionKey]int)
	m.selected = noSelection

	m.store.Clear()
	m.registrar.Clear()
}

// StartPath begins tracking a region and requests its first window centered
// at location. With isNewStart every previously tracked path is abandoned
// first and the new region becomes the selection; otherwise the region joins
// the overlay set and is selected only when nothing else is.
//
// Starting an overlay path that is already tracked is a no-op.
func (m *Manager) StartPath(identity region.Identity, location, length int, isNewStart bool) error {
	// A rejected start changes nothing: no reset, no color allocated
	if length <= 0 || location < 0 || location >= length {
		return fmt.Errorf("start path %s: %w: location %d, length %d", identity.Key, region.ErrInvalidPosition, location, length)
	}

	if isNewStart {
		log.Debug("NAVIGATOR: new start, dropping tracked paths", "count", len(m.regions))
		m.Reset()
	} else if _, exists := m.index[identity.Key]; exists {
		log.Debug("NAVIGATOR: path already tracked", "region", identity.Key)
		delete(m.pending, identity.Key)
		return nil
	}

	r, err := region.New(identity, length, location, m.colors.Allocate())
	if err != nil {
		return fmt.Errorf("start path %s: %w", identity.Key, err)
	}

	m.regions = append(m.regions, r)
	m.index[identity.Key] = r
	delete(m.pending, identity.Key)

	if isNewStart || m.selected == noSelection {
		m.selected = len(m.regions) - 1
	}

	log.Info("NAVIGATOR: tracking path", "region", identity.Key, "name", identity.RegionName,
		"length", length, "location", location, "color", r.Color())

	m.requestWindow(r, location)
	return nil
}

// AddRegion asks the store to describe a region so it can be folded into
// the tracked set. It reports false when the region is already tracked or a
// describe for it is already pending.
func (m *Manager) AddRegion(key api.RegionKey, seedLocation int) bool {
	if _, exists := m.index[key]; exists {
		log.Debug("NAVIGATOR: add region suppressed, already tracked", "region", key)
		return false
	}
	if _, exists := m.pending[key]; exists {
		log.Debug("NAVIGATOR: add region suppressed, describe pending", "region", key)
		return false
	}

	m.pending[key] = seedLocation
	m.store.Send(api.DescribeRegion{
		Map:     key.Map,
		Section: key.Section,
		Start:   key.Region,
		Count:   describeCount,
	})
	return true
}

// IsPending reports whether a describe request is outstanding for key
func (m *Manager) IsPending(key api.RegionKey) bool {
	_, ok := m.pending[key]
	return ok
}

func (m *Manager) requestWindow(r *region.Region, location int) {
	r.SetInFlight(true)
	m.store.Send(api.GetWindow{
		Key:      r.Key(),
		Location: location,
		Count:    m.windowSize,
	})
}

// Regions returns the tracked regions in creation order
func (m *Manager) Regions() []*region.Region {
	return append([]*region.Region(nil), m.regions...)
}

// Region looks up a tracked region by identity
func (m *Manager) Region(key api.RegionKey) (*region.Region, bool) {
	r, ok := m.index[key]
	return r, ok
}

// Select makes the region at index drive cursor operations and readahead
func (m *Manager) Select(index int) error {
	if index < 0 || index >= len(m.regions) {
		return fmt.Errorf("%w: %d of %d regions", ErrInvalidSelection, index, len(m.regions))
	}
	m.selected = index
	return nil
}

// HasSelection reports whether a region is selected
func (m *Manager) HasSelection() bool {
	return m.selected != noSelection
}

// SelectedIndex returns the selection, -1 when there is none
func (m *Manager) SelectedIndex() int {
	return m.selected
}

// Selected returns the selected region
func (m *Manager) Selected() (*region.Region, bool) {
	if m.selected == noSelection {
		return nil, false
	}
	return m.regions[m.selected], true
}
