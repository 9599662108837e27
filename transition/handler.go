package transition

// Handler is the opaque, host-owned object representing one level of a
// nested route (e.g. "posts", "showPost"). The core never assumes any
// particular method exists on it and tolerates arbitrary extra fields — it
// only type-asserts Handler against the capability interfaces below, each
// of which models exactly one optional hook from spec.md §6. A handler
// implements whichever subset it needs; none are required.
type Handler interface{}

// BeforeModelHook runs before a handler's model is resolved. queryParams is
// the handler's own derived allow-listed query-param mapping (spec.md §4.A).
type BeforeModelHook interface {
	BeforeModel(t *Transition, queryParams map[string]string) error
}

// ModelHook resolves the handler's model when no provided/reused value
// takes precedence (spec.md §4.F "getModel").
type ModelHook interface {
	Model(params map[string]string, t *Transition, queryParams map[string]string) (any, error)
}

// AfterModelHook runs after a model is resolved. Its return value carries
// only an error; spec.md §4.F is explicit that any other return is
// discarded and the model captured before AfterModel ran is what's kept.
type AfterModelHook interface {
	AfterModel(model any, t *Transition, queryParams map[string]string) error
}

// EnterHook fires once, when a handler transitions from inactive to active.
type EnterHook interface {
	Enter()
}

// SetupHook fires every time a handler's context (or query params) is
// (re)established — on entry and on in-place context updates alike.
type SetupHook interface {
	Setup(context any, queryParams map[string]string)
}

// ExitHook fires once, when a handler transitions from active to inactive.
type ExitHook interface {
	Exit()
}

// SerializeHook lets a handler control how its model collapses to URL
// params; the default serializer (spec.md §4.G) is used when absent.
type SerializeHook interface {
	Serialize(model any, names []string) map[string]string
}

// ErrorHook is the last stop in the error-routing chain (spec.md §4.F):
// called with the original failure after the error event has bubbled.
type ErrorHook interface {
	HandleError(reason error, t *Transition)
}

// ContextDidChangeHook notifies a handler that its context slot was written,
// independent of Setup (spec.md §4.G step 5).
type ContextDidChangeHook interface {
	ContextDidChange(context any)
}

// QueryParamsDidChangeHook mirrors ContextDidChangeHook for query params.
type QueryParamsDidChangeHook interface {
	QueryParamsDidChange(queryParams map[string]string)
}

// EventHandlers exposes a handler's named event subscriptions for the
// bubbling dispatcher (spec.md §4.H). A handler's event function returning
// exactly boolean true continues bubbling; any other return value stops it.
type EventHandlers interface {
	Events() map[string]func(args ...any) any
}
