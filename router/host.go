package router

import (
	"strings"
	"sync"

	"github.com/ozanturksever/routekit/reactivity"
	"github.com/ozanturksever/routekit/transition"
)

// Host is the reference, in-memory collaborator spec.md §1 delegates
// history manipulation and handler lookup to. It backs transition.Router's
// WithUpdateURL/WithReplaceURL/WithGetHandler options for tests and any
// non-browser consumer; a browser embedding (outside this module's scope,
// rendering being a Non-goal) would supply its own.
//
// It consolidates the teacher's router/state.go LocationState with
// reactivity/location_state.go's near-identical implementation into the
// one reactive store (SPEC_FULL.md §3.4): updateURL/replaceURL write into
// it, and any reactivity.CreateEffect/CreateMemo observes the change the
// same way it would observe any other signal.
type Host struct {
	mu       sync.RWMutex
	handlers map[string]transition.Handler
	location *reactivity.LocationState
}

// NewHost builds an empty Host. Register handlers with Handle before
// passing the Host's hooks to transition.NewRouter.
func NewHost() *Host {
	return &Host{
		handlers: make(map[string]transition.Handler),
		location: reactivity.NewLocationState(),
	}
}

// Handle registers the handler object for a route name.
func (h *Host) Handle(name string, handler transition.Handler) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[name] = handler
	return h
}

// GetHandler implements the transition.WithGetHandler contract.
func (h *Host) GetHandler(name string) transition.Handler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.handlers[name]
}

// Location returns the reactive store backing UpdateURL/ReplaceURL.
func (h *Host) Location() *reactivity.LocationState { return h.location }

// UpdateURL implements the transition.WithUpdateURL contract by pushing a
// new Location onto the reactive store (the in-memory analogue of
// history.pushState).
func (h *Host) UpdateURL(url string) {
	h.location.Set(splitLocation(url))
}

// ReplaceURL implements the transition.WithReplaceURL contract (the
// in-memory analogue of history.replaceState). The reference Host treats
// it identically to UpdateURL since it keeps no history stack.
func (h *Host) ReplaceURL(url string) {
	h.location.Set(splitLocation(url))
}

func splitLocation(rawURL string) reactivity.Location {
	pathname := rawURL
	search := ""
	hash := ""
	if i := strings.IndexByte(pathname, '#'); i >= 0 {
		hash = pathname[i:]
		pathname = pathname[:i]
	}
	if i := strings.IndexByte(pathname, '?'); i >= 0 {
		search = pathname[i:]
		pathname = pathname[:i]
	}
	return reactivity.Location{Pathname: pathname, Search: search, Hash: hash}
}
