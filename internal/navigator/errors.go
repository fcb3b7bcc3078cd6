package navigator

import "errors"

var (
	// ErrInvalidSelection is returned by Select for an index with no region
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrNoSelection is returned by cursor operations when no region is selected
	ErrNoSelection = errors.New("no region selected")

	// ErrUnknownRegion marks replies for identities that are not tracked.
	// Such replies are dropped and logged, never returned to a caller.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownElement is returned by JumpToElement when the element is not
	// cached in the selected region
	ErrUnknownElement = errors.New("element not on selected path")
)
