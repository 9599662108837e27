package reactivity

// Location holds the parsed components of a URL, mirroring the browser's
// location object closely enough for a router.Host to round-trip through.
type Location struct {
	Pathname string
	Search   string
	Hash     string
}

// LocationState is the reactive store for a host's notion of "where we
// are": a single Signal[Location] that both router.Host's updateURL/
// replaceURL hooks write into and that any reactive consumer (an effect,
// a memo, another store) can read from like any other signal. It
// consolidates what used to be two independent subscriber-list
// implementations (this package's own, plus router/state.go's near
// duplicate) into the one reactivity primitive the rest of the package
// already provides.
type LocationState struct {
	signal Signal[Location]
}

// NewLocationState returns a LocationState seeded with the zero Location.
func NewLocationState() *LocationState {
	return &LocationState{signal: CreateSignal(Location{})}
}

// Get returns the current location.
func (s *LocationState) Get() Location { return s.signal.Get() }

// Set updates the current location, notifying any effect that has read it.
func (s *LocationState) Set(loc Location) { s.signal.Set(loc) }

// Signal exposes the underlying signal so a caller can wire CreateEffect
// or CreateMemo directly against location changes.
func (s *LocationState) Signal() Signal[Location] { return s.signal }
