package transition

// RecognizedHandler is one level of a chain as reported by a Recognizer. It
// mirrors router.js's recognizer output: a handler name, the ordered list
// of dynamic-segment names it captures, whether it is dynamic at all, any
// params already extracted by the recognizer (URL transitions only), the
// ordered list of query-param names the handler accepts, and an optional
// opaque context the recognizer wants carried through untouched.
type RecognizedHandler struct {
	Handler     string
	Names       []string
	IsDynamic   bool
	Params      map[string]string
	QueryParams []string
	Context     any
}

// HandlerInfo is the engine's canonical per-level record for one handler's
// participation in a transition. Every HandlerInfo in a chain carries a
// Handler obtained via the host's GetHandler(name); Context is populated
// only after a successful model resolution (or reuse from the match point).
type HandlerInfo struct {
	Name        string
	Handler     Handler
	IsDynamic   bool
	Names       []string
	Context     any
	QueryParams map[string]string

	// hasContext distinguishes "Context is nil because no model resolved
	// yet" from "Context is the zero value nil model" — mirroring the
	// host-object "own context property" check from spec.md §4.F without
	// mutating the host's Handler (see REDESIGN FLAGS in spec.md §9).
	hasContext bool
}

// clone returns a shallow copy of the HandlerInfo with its own copy of the
// QueryParams map, so mutating one copy's query params does not affect the
// other. No code in the package calls it.
func (hi *HandlerInfo) clone() *HandlerInfo {
	cp := *hi
	if hi.QueryParams != nil {
		cp.QueryParams = make(map[string]string, len(hi.QueryParams))
		for k, v := range hi.QueryParams {
			cp.QueryParams[k] = v
		}
	}
	return &cp
}

// Recognizer is the external path-recognition collaborator the engine
// consumes; spec.md §1 treats path recognition and URL generation as out of
// scope for the core and delegates them entirely to this interface.
type Recognizer interface {
	// Recognize parses a URL into an ordered root-to-leaf chain of
	// RecognizedHandler, or returns (nil, false) if nothing matches.
	Recognize(url string) ([]RecognizedHandler, bool)
	// HandlersFor returns the ordered root-to-leaf chain of
	// RecognizedHandler for a symbolic route name.
	HandlersFor(name string) ([]RecognizedHandler, error)
	// Generate produces a URL for a named route given a flat params map
	// (dynamic segment name -> value, plus a "queryParams" sub-map).
	Generate(name string, params map[string]any) (string, error)
	// HasRoute reports whether name is a known route.
	HasRoute(name string) bool
	// Map returns every route name the Recognizer knows about, in
	// registration order — the read-only analogue of router.js's route
	// map, for hosts that need to enumerate routes (sitemap generation,
	// debug introspection) without reaching into the Recognizer's own
	// internal route tree.
	Map() []string
}
