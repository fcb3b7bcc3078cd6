package navigator

import (
	"raybrowser/internal/api"
	"raybrowser/internal/log"
	"raybrowser/internal/region"
)

// ReceiveReply merges a window or folds a described region into the tracked
// set. Replies for identities that are no longer tracked are dropped.
func (m *Manager) ReceiveReply(reply api.PathReply) {
	switch reply := reply.(type) {
	case *api.WindowReply:
		m.receiveWindow(reply)
	case *api.DescribeReply:
		m.receiveDescription(reply)
	default:
		log.Warn("NAVIGATOR: unhandled reply type", "type", reply)
	}
}

func (m *Manager) receiveWindow(reply *api.WindowReply) {
	r, ok := m.index[reply.Key]
	if !ok {
		log.Debug("NAVIGATOR: dropping window reply", "error", ErrUnknownRegion, "region", reply.Key)
		return
	}

	added := 0
	accepted := make([]api.PositionedElement, 0, len(reply.Vertices))
	for _, vertex := range reply.Vertices {
		if vertex.Position < 0 || vertex.Position >= r.Length() {
			log.Warn("NAVIGATOR: element outside region", "region", reply.Key,
				"position", vertex.Position, "length", r.Length())
			continue
		}
		accepted = append(accepted, vertex)

		isNew := r.RecordElement(vertex.Position, vertex.Sequence)
		r.ExtendBounds(vertex.Position)
		if isNew {
			m.registrar.RegisterElementAtPosition(vertex.Sequence, vertex.Position)
			added++
		}
	}
	r.SetInFlight(false)

	left, right, _ := r.Bounds()
	log.Debug("NAVIGATOR: merged window", "region", reply.Key, "received", len(reply.Vertices),
		"new", added, "left", left, "right", right)

	if r.Started() || len(accepted) == 0 {
		return
	}
	m.bootstrap(r, accepted)
}

// bootstrap picks the element at the region's requested location, or the
// middle element of the accepted window when that position is absent, and asks the
// store for its full detail. Runs once per region.
func (m *Manager) bootstrap(r *region.Region, vertices []api.PositionedElement) {
	sequence := vertices[len(vertices)/2].Sequence
	for _, vertex := range vertices {
		if vertex.Position == r.RequestedLocation() {
			sequence = vertex.Sequence
			break
		}
	}

	r.MarkStarted(sequence)
	log.Info("NAVIGATOR: bootstrap element", "region", r.Key(), "sequence", sequence)

	m.store.Send(api.GetElementDetail{
		Map:      m.store.GetMapIndex(),
		Sequence: sequence,
		Count:    m.store.GetDefaultDepth(),
	})
}

func (m *Manager) receiveDescription(reply *api.DescribeReply) {
	kmerLength := m.store.GetKmerLength()

	for i, description := range reply.Regions {
		key := api.RegionKey{Map: reply.Map, Section: reply.Section, Region: reply.Start + i}
		seed, ok := m.pending[key]
		if !ok {
			log.Debug("NAVIGATOR: dropping region description", "error", ErrUnknownRegion, "region", key)
			continue
		}

		// Number of kmerLength windows in the raw sequence
		length := description.Nucleotides - kmerLength + 1
		if length <= 0 {
			log.Warn("NAVIGATOR: region shorter than one element", "region", key,
				"nucleotides", description.Nucleotides, "kmer_length", kmerLength)
			delete(m.pending, key)
			continue
		}

		seed = min(max(seed, 0), length-1)

		identity := region.Identity{Key: key, RegionName: description.Name}
		if err := m.StartPath(identity, seed, length, false); err != nil {
			log.Error("NAVIGATOR: failed to start described region", "region", key, "error", err)
			delete(m.pending, key)
		}
	}
}
