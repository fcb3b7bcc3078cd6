package navigator

import (
	"fmt"

	"raybrowser/internal/region"
)

// Next moves the selected cursor one position right. No-op without a selection.
func (m *Manager) Next() {
	if r, ok := m.Selected(); ok {
		r.Next()
	}
}

// Previous moves the selected cursor one position left. No-op without a selection.
func (m *Manager) Previous() {
	if r, ok := m.Selected(); ok {
		r.Previous()
	}
}

// Jump moves the selected cursor to position
func (m *Manager) Jump(position int) error {
	r, ok := m.Selected()
	if !ok {
		return ErrNoSelection
	}
	return r.SetCursor(position)
}

// JumpToElement moves the selected cursor to the first cached position of key
func (m *Manager) JumpToElement(key string) error {
	r, ok := m.Selected()
	if !ok {
		return ErrNoSelection
	}
	positions := r.PositionsOf(key)
	if len(positions) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownElement, key)
	}
	return r.SetCursor(positions[0])
}

// CurrentLocation is the selected cursor position
func (m *Manager) CurrentLocation() (int, bool) {
	r, ok := m.Selected()
	if !ok {
		return 0, false
	}
	return r.Location(), true
}

// HasCurrentElement reports whether the selected cursor addresses a valid position
func (m *Manager) HasCurrentElement() bool {
	r, ok := m.Selected()
	if !ok {
		return false
	}
	return r.Location() >= 0 && r.Location() < r.Length()
}

// CurrentElement is the cached element under the selected cursor. ok is
// false when nothing is selected or the position has not been fetched yet.
func (m *Manager) CurrentElement() (string, bool) {
	if !m.HasCurrentElement() {
		return "", false
	}
	r, _ := m.Selected()
	return r.ElementAt(r.Location())
}

// PositionsOf returns the positions of key on the selected path
func (m *Manager) PositionsOf(key string) []int {
	r, ok := m.Selected()
	if !ok {
		return []int{}
	}
	return r.PositionsOf(key)
}

// VertexPosition is the first position of key on the selected path
func (m *Manager) VertexPosition(key string) (int, bool) {
	positions := m.PositionsOf(key)
	if len(positions) == 0 {
		return -1, false
	}
	return positions[0], true
}

// onPath reports membership of key or its reverse complement
func (m *Manager) onPath(r *region.Region, key, reverse string) bool {
	return r.IsMember(key) || r.IsMember(reverse)
}

// ElementIsOnAnyTrackedPath reports whether any tracked region contains key
// or its reverse complement
func (m *Manager) ElementIsOnAnyTrackedPath(key string) bool {
	reverse := m.registrar.ReverseComplement(key)
	for _, r := range m.regions {
		if m.onPath(r, key, reverse) {
			return true
		}
	}
	return false
}

// ColorsFor returns the color of every region whose path contains key
func (m *Manager) ColorsFor(key string) []string {
	reverse := m.registrar.ReverseComplement(key)
	var colors []string
	for _, r := range m.regions {
		if m.onPath(r, key, reverse) {
			colors = append(colors, r.Color())
		}
	}
	return colors
}

// ColorsForPair returns the color of every region whose path contains both
// keys, used to highlight an edge shared by several paths
func (m *Manager) ColorsForPair(key1, key2 string) []string {
	reverse1 := m.registrar.ReverseComplement(key1)
	reverse2 := m.registrar.ReverseComplement(key2)
	var colors []string
	for _, r := range m.regions {
		if m.onPath(r, key1, reverse1) && m.onPath(r, key2, reverse2) {
			colors = append(colors, r.Color())
		}
	}
	return colors
}
