package transition

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// sequenceCounter is a monotonic source for Transition.sequence.
// spec.md §9 calls for "a trivial atomic integer per Router instance (not
// truly global)"; each Router owns its own counter (see Router.nextSeq) —
// this package-level type just gives that counter a name.
type sequenceCounter struct{ n int64 }

func (c *sequenceCounter) next() int64 { return atomic.AddInt64(&c.n, 1) }

// Transition is the mutable, cancellable, thenable record of one attempt to
// move the Router from its current chain to a target chain (spec.md §3).
type Transition struct {
	mu sync.Mutex

	router     *Router
	targetName string
	urlMethod  string // "update" (default), "replace", or "" (suppressed)

	providedModels      map[string]any
	providedModelsArray []any
	resolvedModels      map[string]any
	params              map[string]string
	queryParams         map[string]any
	data                any

	sequence  int64
	traceID   string
	isAborted bool

	// predecessor is the transition this one superseded or retried, if
	// any. getModel consults its resolvedModels as a fallback source
	// before invoking a handler's Model hook again (spec.md §4.B).
	predecessor *Transition

	promise *promise
}

// newTransition builds a Transition owned by r, installing it as the
// router's activeTransition is the caller's responsibility (performTransition).
func newTransition(r *Router, targetName string) *Transition {
	return &Transition{
		router:         r,
		targetName:     targetName,
		urlMethod:      "update",
		providedModels: make(map[string]any),
		resolvedModels: make(map[string]any),
		params:         make(map[string]string),
		queryParams:    make(map[string]any),
		sequence:       r.nextSeq.next(),
		traceID:        uuid.NewString(),
		promise:        newPromise(),
	}
}

// Then forwards to the internal promise, matching the spec's thenable
// contract (spec.md §4.E).
func (t *Transition) Then(onFulfilled func(resolvedModels map[string]any), onRejected func(error)) *Transition {
	t.promise.then(onFulfilled, onRejected)
	return t
}

// Abort is idempotent: it sets isAborted, clears router.activeTransition iff
// it still points here, logs, and returns itself (spec.md §4.E).
func (t *Transition) Abort() *Transition {
	t.mu.Lock()
	if t.isAborted {
		t.mu.Unlock()
		return t
	}
	t.isAborted = true
	t.mu.Unlock()

	t.router.mu.Lock()
	if t.router.activeTransition == t {
		t.router.activeTransition = nil
	}
	t.router.mu.Unlock()

	t.router.logf("transition #%d (%s) aborted", t.sequence, t.targetName)
	t.router.recordOutcome("aborted")
	return t
}

// IsAborted reports the transition's monotone abort flag.
func (t *Transition) IsAborted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isAborted
}

// Method sets how (or whether) the URL is updated on commit (spec.md §4.E):
// "replace" uses replaceURL, a falsy value suppresses the URL update
// entirely, and any other truthy value uses updateURL.
func (t *Transition) Method(m string) *Transition {
	t.mu.Lock()
	t.urlMethod = m
	t.mu.Unlock()
	return t
}

// Data returns the transition's caller-owned opaque bag.
func (t *Transition) Data() any { return t.data }

// SetData sets the transition's caller-owned opaque bag.
func (t *Transition) SetData(d any) *Transition {
	t.data = d
	return t
}

// TargetName returns the leaf handler's symbolic name.
func (t *Transition) TargetName() string { return t.targetName }

// Sequence returns the transition's monotonically increasing identifier.
func (t *Transition) Sequence() int64 { return t.sequence }

// TraceID returns a UUID usable to correlate this transition's logs/spans
// (SPEC_FULL.md §3.2); it has no bearing on dedup/supersede decisions,
// which compare target name, supplied models and query params
// (sameTransitionRequest) and never look at TraceID or Sequence.
func (t *Transition) TraceID() string { return t.traceID }

// ResolvedModel returns the model resolved for handlerName, if any.
func (t *Transition) ResolvedModel(handlerName string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.resolvedModels[handlerName]
	return v, ok
}

// Retry aborts this transition, then re-derives the target chain from the
// stored targetName/queryParams and re-runs performTransition with the
// stored providedModelsArray, queryParams and data (spec.md §4.E). The
// stored params are not passed on: the match-point resolver derives params
// again from the stored arguments and the router's current params.
func (t *Transition) Retry() *Transition {
	t.Abort()

	t.mu.Lock()
	targetName := t.targetName
	providedModelsArray := append([]any(nil), t.providedModelsArray...)
	params := make(map[string]string, len(t.params))
	for k, v := range t.params {
		params[k] = v
	}
	queryParams := make(map[string]any, len(t.queryParams))
	for k, v := range t.queryParams {
		queryParams[k] = v
	}
	data := t.data
	t.mu.Unlock()

	next := t.router.retryTransition(targetName, providedModelsArray, params, queryParams, data, t)
	next.data = data
	return next
}
