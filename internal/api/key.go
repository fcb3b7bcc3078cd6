package api

import "fmt"

// RegionKey identifies a tracked coordinate range. It is comparable and is
// used directly as a map key.
type RegionKey struct {
	Map     int
	Section int
	Region  int
}

func (k RegionKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Map, k.Section, k.Region)
}
