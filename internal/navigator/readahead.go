package navigator

import "raybrowser/internal/log"

// DoReadahead grows the selected region's cached window toward the edge the
// cursor is approaching. At most one request is issued per call and none
// while the region already has a window fetch in flight. It reports whether
// a request was sent.
//
// Left growth wins when both edges are within the buffer. A bound that has
// reached the true edge of the region (0 or length-1) is never refetched.
func (m *Manager) DoReadahead() bool {
	r, ok := m.Selected()
	if !ok || r.InFlight() {
		return false
	}

	left, right, ok := r.Bounds()
	if !ok {
		return false
	}

	position := r.Location()
	buffer := m.readaheadBuffer

	switch {
	case position < left+buffer && left != 0:
		log.Debug("READAHEAD: growing left", "region", r.Key(), "cursor", position, "left", left)
		m.requestWindow(r, left)
		return true
	case position > right-buffer && right != r.Length()-1:
		log.Debug("READAHEAD: growing right", "region", r.Key(), "cursor", position, "right", right)
		m.requestWindow(r, right)
		return true
	}
	return false
}
