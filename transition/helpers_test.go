package transition

import "fmt"

// fakeRecognizer is a minimal in-memory Recognizer used throughout the
// package's tests: chains are registered by name and matched by exact path.
type fakeRecognizer struct {
	chains map[string][]RecognizedHandler
	paths  map[string][]RecognizedHandler
	names  []string
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{
		chains: make(map[string][]RecognizedHandler),
		paths:  make(map[string][]RecognizedHandler),
	}
}

func (f *fakeRecognizer) register(path, name string, chain []RecognizedHandler) {
	if _, ok := f.chains[name]; !ok {
		f.names = append(f.names, name)
	}
	f.chains[name] = chain
	if path != "" {
		f.paths[path] = chain
	}
}

func (f *fakeRecognizer) Recognize(url string) ([]RecognizedHandler, bool) {
	chain, ok := f.paths[url]
	return chain, ok
}

func (f *fakeRecognizer) HandlersFor(name string) ([]RecognizedHandler, error) {
	chain, ok := f.chains[name]
	if !ok {
		return nil, fmt.Errorf("no such route: %s", name)
	}
	return chain, nil
}

func (f *fakeRecognizer) Generate(name string, params map[string]any) (string, error) {
	chain, ok := f.chains[name]
	if !ok {
		return "", fmt.Errorf("no such route: %s", name)
	}
	path := ""
	for _, rh := range chain {
		if rh.IsDynamic && len(rh.Names) > 0 {
			v, ok := params[rh.Names[0]]
			if !ok {
				return "", fmt.Errorf("missing param %s", rh.Names[0])
			}
			path += "/" + paramString(v)
			continue
		}
		if rh.Handler != "" {
			path += "/" + rh.Handler
		}
	}
	if path == "" {
		path = "/"
	}
	return path, nil
}

func (f *fakeRecognizer) HasRoute(name string) bool {
	_, ok := f.chains[name]
	return ok
}

func (f *fakeRecognizer) Map() []string {
	return append([]string(nil), f.names...)
}

// fakeHandler implements whichever hook interfaces a test needs via
// optional function fields left nil by default.
type fakeHandler struct {
	name string

	beforeModel func(t *Transition, qp map[string]string) error
	model       func(params map[string]string, t *Transition, qp map[string]string) (any, error)
	afterModel  func(model any, t *Transition, qp map[string]string) error

	entered bool
	exited  bool
	setups  int

	serialize func(model any, names []string) map[string]string
	errorSeen error
	events    map[string]func(args ...any) any

	contextChanges []any
	queryChanges   []map[string]string
}

func (h *fakeHandler) BeforeModel(t *Transition, qp map[string]string) error {
	if h.beforeModel == nil {
		return nil
	}
	return h.beforeModel(t, qp)
}

func (h *fakeHandler) Model(params map[string]string, t *Transition, qp map[string]string) (any, error) {
	if h.model == nil {
		return nil, nil
	}
	return h.model(params, t, qp)
}

func (h *fakeHandler) AfterModel(model any, t *Transition, qp map[string]string) error {
	if h.afterModel == nil {
		return nil
	}
	return h.afterModel(model, t, qp)
}

func (h *fakeHandler) Enter() { h.entered = true }
func (h *fakeHandler) Exit()  { h.exited = true }

func (h *fakeHandler) Setup(context any, queryParams map[string]string) { h.setups++ }

func (h *fakeHandler) Serialize(model any, names []string) map[string]string {
	if h.serialize == nil {
		return defaultSerialize(model, names)
	}
	return h.serialize(model, names)
}

func (h *fakeHandler) HandleError(reason error, t *Transition) { h.errorSeen = reason }

func (h *fakeHandler) ContextDidChange(context any) {
	h.contextChanges = append(h.contextChanges, context)
}

func (h *fakeHandler) QueryParamsDidChange(queryParams map[string]string) {
	h.queryChanges = append(h.queryChanges, queryParams)
}

func (h *fakeHandler) Events() map[string]func(args ...any) any { return h.events }

// newTestRouter builds a Router wired to a fakeRecognizer and a handler
// registry map, with URL hooks recorded for assertions.
func newTestRouter(rec *fakeRecognizer, handlers map[string]Handler, opts ...Option) (*Router, *[]string, *[]string) {
	var updated, replaced []string
	base := []Option{
		WithGetHandler(func(name string) Handler { return handlers[name] }),
		WithUpdateURL(func(url string) { updated = append(updated, url) }),
		WithReplaceURL(func(url string) { replaced = append(replaced, url) }),
	}
	r := NewRouter(rec, append(base, opts...)...)
	return r, &updated, &replaced
}
