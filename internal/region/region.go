package region

import (
	"errors"
	"fmt"
	"slices"

	"raybrowser/internal/api"
)

// ErrInvalidPosition is returned for cursor targets outside [0, length)
var ErrInvalidPosition = errors.New("invalid position")

// Identity is the owning map/section/region of a path plus its display names
type Identity struct {
	Key          api.RegionKey
	MapName      string
	SectionName  string
	RegionName   string
	LocationName string
}

// Region is one tracked coordinate range: its cursor, the bounds of what has
// been fetched so far, and the position-indexed element cache.
//
// A Region is owned by the navigator that created it; nothing else writes to it.
type Region struct {
	identity  Identity
	length    int
	location  int
	requested int
	color     string

	leftBound  int
	rightBound int
	hasLeft    bool
	hasRight   bool

	elementAtPosition   map[int]string
	positionsForElement map[string][]int // sorted, no duplicates

	started   bool
	bootstrap string
	inFlight  bool
}

// New creates a region with empty caches. location is also remembered as the
// requested location used to pick the bootstrap element.
func New(identity Identity, length, location int, color string) (*Region, error) {
	if length <= 0 {
		return nil, fmt.Errorf("region %s: non-positive length %d", identity.Key, length)
	}
	if location < 0 || location >= length {
		return nil, fmt.Errorf("%w: %d not in [0,%d) for region %s", ErrInvalidPosition, location, length, identity.Key)
	}

	return &Region{
		identity:            identity,
		length:              length,
		location:            location,
		requested:           location,
		color:               color,
		elementAtPosition:   make(map[int]string),
		positionsForElement: make(map[string][]int),
	}, nil
}

func (r *Region) Identity() Identity     { return r.identity }
func (r *Region) Key() api.RegionKey     { return r.identity.Key }
func (r *Region) Length() int            { return r.length }
func (r *Region) Location() int          { return r.location }
func (r *Region) RequestedLocation() int { return r.requested }
func (r *Region) Color() string          { return r.color }

// RecordElement stores key at position. It reports whether the pair was not
// already cached. A position that held a different key is re-pointed.
func (r *Region) RecordElement(position int, key string) bool {
	if previous, ok := r.elementAtPosition[position]; ok {
		if previous == key {
			return false
		}
		r.forgetPosition(previous, position)
	}

	r.elementAtPosition[position] = key

	positions := r.positionsForElement[key]
	i, found := slices.BinarySearch(positions, position)
	if found {
		return false
	}
	r.positionsForElement[key] = slices.Insert(positions, i, position)
	return true
}

func (r *Region) forgetPosition(key string, position int) {
	positions := r.positionsForElement[key]
	i, found := slices.BinarySearch(positions, position)
	if !found {
		return
	}
	positions = slices.Delete(positions, i, i+1)
	if len(positions) == 0 {
		delete(r.positionsForElement, key)
		return
	}
	r.positionsForElement[key] = positions
}

// ExtendBounds widens the cached window to include position. The first call
// for each side sets it unconditionally since 0 is a valid bound.
func (r *Region) ExtendBounds(position int) {
	if !r.hasLeft || position < r.leftBound {
		r.leftBound = position
		r.hasLeft = true
	}
	if !r.hasRight || position > r.rightBound {
		r.rightBound = position
		r.hasRight = true
	}
}

// Bounds returns the lowest and highest cached positions. ok is false until
// both sides have been set.
func (r *Region) Bounds() (left, right int, ok bool) {
	return r.leftBound, r.rightBound, r.hasLeft && r.hasRight
}

// PositionsOf returns the sorted positions of key, empty when absent
func (r *Region) PositionsOf(key string) []int {
	positions := r.positionsForElement[key]
	if len(positions) == 0 {
		return []int{}
	}
	return slices.Clone(positions)
}

// IsMember reports whether any position is recorded for key
func (r *Region) IsMember(key string) bool {
	return len(r.positionsForElement[key]) > 0
}

// ElementAt returns the cached key at position
func (r *Region) ElementAt(position int) (string, bool) {
	key, ok := r.elementAtPosition[position]
	return key, ok
}

// CachedCount is the number of cached positions
func (r *Region) CachedCount() int {
	return len(r.elementAtPosition)
}

// SetCursor moves the cursor for a direct jump
func (r *Region) SetCursor(position int) error {
	if position < 0 || position >= r.length {
		return fmt.Errorf("%w: %d not in [0,%d) for region %s", ErrInvalidPosition, position, r.length, r.identity.Key)
	}
	r.location = position
	return nil
}

// Next moves the cursor one position right, saturating at length-1
func (r *Region) Next() {
	if r.location < r.length-1 {
		r.location++
	}
}

// Previous moves the cursor one position left, saturating at 0
func (r *Region) Previous() {
	if r.location > 0 {
		r.location--
	}
}

// Started reports whether the bootstrap element has been chosen
func (r *Region) Started() bool { return r.started }

// BootstrapElement is the element chosen on the first reply
func (r *Region) BootstrapElement() string { return r.bootstrap }

// MarkStarted records the bootstrap element. Only the first call has effect.
func (r *Region) MarkStarted(key string) {
	if r.started {
		return
	}
	r.started = true
	r.bootstrap = key
}

func (r *Region) InFlight() bool        { return r.inFlight }
func (r *Region) SetInFlight(state bool) { r.inFlight = state }
