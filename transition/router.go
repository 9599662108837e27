package transition

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ozanturksever/logutil"
	"github.com/ozanturksever/routekit/reactivity"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Router is the façade described in spec.md §4.I: it owns the chain state
// (currentHandlerInfos, currentParams, currentQueryParams, activeTransition)
// and exposes transitionTo/replaceWith/handleURL/isActive/generate/reset/
// trigger. Everything it needs beyond pure Go control flow — recognizing a
// URL, obtaining a Handler, writing the address bar — is supplied through
// the Recognizer interface and the Option functions below.
type Router struct {
	mu sync.Mutex

	recognizer Recognizer
	getHandler func(name string) Handler
	updateURL  func(url string)
	replaceURL func(url string)

	log             func(msg string)
	logTransitions  bool
	willTransition  func(handlerInfos []*HandlerInfo)
	didTransition   func(handlerInfos []*HandlerInfo)
	delegate        any

	currentHandlerInfos []*HandlerInfo
	targetHandlerInfos  []*HandlerInfo
	currentParams       map[string]string
	currentQueryParams  map[string]string
	activeTransition    *Transition

	nextSeq sequenceCounter
	chain   reactivity.Signal[[]*HandlerInfo]

	tracer     trace.Tracer
	registerer prometheus.Registerer
	metrics    *routerMetrics
}

// Option configures a Router at construction time (SPEC_FULL.md §2.3).
type Option func(*Router)

// WithGetHandler supplies the host's handler-object factory.
func WithGetHandler(fn func(name string) Handler) Option {
	return func(r *Router) { r.getHandler = fn }
}

// WithUpdateURL supplies the host's history-push hook.
func WithUpdateURL(fn func(url string)) Option {
	return func(r *Router) { r.updateURL = fn }
}

// WithReplaceURL supplies the host's history-replace hook. If omitted it
// defaults to whatever updateURL is (spec.md §6).
func WithReplaceURL(fn func(url string)) Option {
	return func(r *Router) { r.replaceURL = fn }
}

// WithLogger supplies the hook invoked when LogTransitions is enabled.
// Defaults to logutil.Log (SPEC_FULL.md §2.1).
func WithLogger(fn func(msg string)) Option {
	return func(r *Router) { r.log = fn }
}

// WithLogTransitions toggles the router.js-derived log-gating flag
// (SPEC_FULL.md §4): when false (the default) the Log hook is never
// called even if one was supplied.
func WithLogTransitions(enabled bool) Option {
	return func(r *Router) { r.logTransitions = enabled }
}

// WithWillTransition supplies the hook fired once per transition attempt,
// on the chain as it stood before the new transition began (spec.md §5) —
// but only when no transition was already underway.
func WithWillTransition(fn func(handlerInfos []*HandlerInfo)) Option {
	return func(r *Router) { r.willTransition = fn }
}

// WithDidTransition supplies the hook fired after a transition commits.
func WithDidTransition(fn func(handlerInfos []*HandlerInfo)) Option {
	return func(r *Router) { r.didTransition = fn }
}

// WithDelegate attaches an opaque collaborator (spec.md §6 "optional
// delegate"); the Router only stores it and neither inspects it nor passes
// it on to the recognizer.
func WithDelegate(delegate any) Option {
	return func(r *Router) { r.delegate = delegate }
}

// WithTracer enables OpenTelemetry spans around performTransition
// (SPEC_FULL.md §3.1). A nil tracer (the default) disables tracing.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) { r.tracer = tracer }
}

// WithMetrics registers Prometheus counters/histograms for transition
// outcomes (SPEC_FULL.md §3.1). A nil registerer (the default) disables it.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Router) { r.registerer = reg }
}

// NewRouter builds a Router over recognizer, applying opts in order.
func NewRouter(recognizer Recognizer, opts ...Option) *Router {
	r := &Router{
		recognizer:         recognizer,
		currentParams:      make(map[string]string),
		currentQueryParams: make(map[string]string),
		log:                logutil.Log,
		chain:              reactivity.CreateSignal[[]*HandlerInfo](nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.replaceURL == nil {
		r.replaceURL = r.updateURL
	}
	if r.registerer != nil {
		r.metrics = newRouterMetrics(r.registerer)
	}
	return r
}

// CurrentChain exposes the committed handler chain as a reactive signal
// (SPEC_FULL.md §3.5), so a reactive host can subscribe the way it
// subscribes to any other signal.
func (r *Router) CurrentChain() reactivity.Signal[[]*HandlerInfo] { return r.chain }

// CurrentRouteName returns the leaf handler's name, or "" if no chain is
// active (SPEC_FULL.md §4, grounded on router.js's currentRouteName).
func (r *Router) CurrentRouteName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.currentHandlerInfos) == 0 {
		return ""
	}
	return r.currentHandlerInfos[len(r.currentHandlerInfos)-1].Name
}

// CurrentHandlerNames returns the ordered root-to-leaf names of the
// currently active chain (SPEC_FULL.md §4, handlerEnteredNames).
func (r *Router) CurrentHandlerNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.currentHandlerInfos))
	for i, hi := range r.currentHandlerInfos {
		names[i] = hi.Name
	}
	return names
}

func (r *Router) logf(format string, args ...any) {
	if !r.logTransitions || r.log == nil {
		return
	}
	r.log(fmt.Sprintf(format, args...))
}

func (r *Router) recordOutcome(outcome string) {
	if r.metrics != nil {
		r.metrics.transitionsTotal.WithLabelValues(outcome).Inc()
	}
}

// TransitionTo starts (or returns, if deduplicated) a transition to a named
// route, consuming objs right-to-left from leaf inward and an optional
// trailing queryParams map (spec.md §4.I).
func (r *Router) TransitionTo(name string, objs ...any) *Transition {
	return r.doTransition(name, objs, "update")
}

// ReplaceWith is TransitionTo but commits via replaceURL instead of
// updateURL.
func (r *Router) ReplaceWith(name string, objs ...any) *Transition {
	return r.doTransition(name, objs, "replace")
}

// HandleURL starts a transition recognized from a raw URL (spec.md §4.I).
// A URL that the Recognizer can't match yields a Transition that is born
// already rejected with UnrecognizedURLError. Per spec.md §9's open
// question on `handleURL`'s unused `arguments`, no additional positional
// arguments are accepted or forwarded here.
func (r *Router) HandleURL(rawURL string) *Transition {
	recognized, ok := r.recognizer.Recognize(rawURL)
	if !ok {
		t := newTransition(r, rawURL)
		t.promise.reject(&UnrecognizedURLError{URL: rawURL})
		r.recordOutcome("unrecognized_url")
		return t
	}
	leaf := recognized[len(recognized)-1]
	return r.performTransitionFromRecognized(leaf.Handler, recognized, nil, parseURLQueryParams(rawURL), "", nil)
}

// parseURLQueryParams extracts the "?k=v" portion of a URL into the
// map[string]any shape assembleHandlerInfos expects, so values present on
// the URL take part in the same current-vs-request query-param overlay
// named-route transitions go through.
func parseURLQueryParams(rawURL string) map[string]any {
	i := strings.IndexByte(rawURL, '?')
	if i < 0 {
		return nil
	}
	values, err := url.ParseQuery(rawURL[i+1:])
	if err != nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// splitTrailingQueryParams detects the "lone argument is a queryParams-only
// object" convention from spec.md §4.I.
func splitTrailingQueryParams(objs []any) ([]any, map[string]any) {
	if len(objs) == 0 {
		return objs, nil
	}
	last := objs[len(objs)-1]
	if qp, ok := last.(map[string]any); ok {
		return objs[:len(objs)-1], qp
	}
	return objs, nil
}

func (r *Router) doTransition(name string, objs []any, urlMethod string) *Transition {
	rest, queryParams := splitTrailingQueryParams(objs)
	if name == "" && len(rest) == 0 {
		return r.createQueryParamTransition(r.CurrentRouteName(), queryParams, urlMethod)
	}

	recognized, err := r.recognizer.HandlersFor(name)
	if err != nil {
		t := newTransition(r, name)
		t.promise.reject(err)
		r.recordOutcome("unrecognized_name")
		return t
	}
	return r.performTransitionFromRecognized(name, recognized, rest, queryParams, urlMethod, nil)
}

// createQueryParamTransition builds a transition that targets the current
// leaf handler but with an updated query-param set only (spec.md §4.I).
func (r *Router) createQueryParamTransition(currentLeafName string, queryParams map[string]any, urlMethod string) *Transition {
	recognized, err := r.recognizer.HandlersFor(currentLeafName)
	if err != nil {
		t := newTransition(r, currentLeafName)
		t.promise.reject(err)
		return t
	}
	return r.performTransitionFromRecognized(currentLeafName, recognized, nil, queryParams, urlMethod, nil)
}

// retryTransition backs Transition.Retry(): predecessor is the transition
// being retried, carried through so getModel can reuse its resolvedModels
// for handlers the caller didn't supply a fresh model for (spec.md §4.B's
// "fallback for missing model when there is an activeTransition").
func (r *Router) retryTransition(targetName string, providedModelsArray []any, params map[string]string, queryParams map[string]any, data any, predecessor *Transition) *Transition {
	recognized, err := r.recognizer.HandlersFor(targetName)
	if err != nil {
		t := newTransition(r, targetName)
		t.promise.reject(err)
		return t
	}
	next := r.performTransitionFromRecognized(targetName, recognized, providedModelsArray, queryParams, "update", predecessor)
	next.data = data
	return next
}

func (r *Router) performTransitionFromRecognized(targetName string, recognized []RecognizedHandler, providedModelsArray []any, queryParams map[string]any, urlMethod string, predecessor *Transition) *Transition {
	r.mu.Lock()
	currentQP := cloneQueryParams(r.currentQueryParams)
	r.mu.Unlock()

	handlerInfos := r.assembleHandlerInfos(recognized, currentQP, queryParams)
	mp, err := r.getMatchPoint(handlerInfos, providedModelsArray, recognizedParams(recognized), queryParams)
	if err != nil {
		t := newTransition(r, targetName)
		t.promise.reject(err)
		r.recordOutcome("error")
		return t
	}

	return r.performTransition(targetName, handlerInfos, mp, urlMethod, queryParams, providedModelsArray, predecessor)
}

// performTransition is the entry point named in spec.md §2's data-flow
// diagram: it builds the Transition, applies the dedup/supersede rule, and
// drives it through the validation pipeline and (on success) the commit.
func (r *Router) performTransition(targetName string, handlerInfos []*HandlerInfo, mp matchPointResult, urlMethod string, requestQueryParams map[string]any, providedModelsArray []any, predecessor *Transition) *Transition {
	r.mu.Lock()
	if existing := r.activeTransition; existing != nil {
		if sameTransitionRequest(existing, targetName, providedModelsArray, requestQueryParams) {
			r.mu.Unlock()
			return existing
		}
	}
	wasUnderway := r.activeTransition != nil
	currentChain := r.currentHandlerInfos
	if r.activeTransition != nil {
		old := r.activeTransition
		if predecessor == nil {
			predecessor = old
		}
		r.mu.Unlock()
		old.Abort()
		r.mu.Lock()
	}

	t := newTransition(r, targetName)
	// An empty urlMethod (as HandleURL passes) commits without a URL update.
	t.urlMethod = urlMethod
	t.providedModels = mp.providedModels
	t.providedModelsArray = append([]any(nil), providedModelsArray...)
	t.params = mp.params
	t.queryParams = flattenQueryParams(requestQueryParams)
	t.predecessor = predecessor
	r.activeTransition = t
	r.targetHandlerInfos = handlerInfos
	r.mu.Unlock()

	// Handlers below the match point reuse the prior chain's HandlerInfo
	// verbatim (same Context/QueryParams/hasContext) rather than the
	// freshly assembled stand-in, so validateEntry's "reuse without
	// running hooks" branch observes the real existing state.
	for i := 0; i < mp.matchPoint && i < len(currentChain); i++ {
		handlerInfos[i] = currentChain[i]
	}

	if !wasUnderway && r.willTransition != nil {
		r.willTransition(currentChain)
	}

	r.runValidation(t, handlerInfos, mp)
	return t
}

func (r *Router) runValidation(t *Transition, handlerInfos []*HandlerInfo, mp matchPointResult) {
	var span trace.Span
	if r.tracer != nil {
		_, span = r.tracer.Start(context.Background(), "transition.perform")
		span.SetAttributes(transitionSpanAttributes(t, mp)...)
	}

	started := time.Now()
	resolved, err := validateEntry(t, handlerInfos, 0, mp.matchPoint, mp.handlerParams)
	if r.metrics != nil {
		r.metrics.validationDurationSecs.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.End()
		}
		r.finishFailed(t, err)
		return
	}
	t.resolvedModels = resolved

	r.mu.Lock()
	needsCommit := r.currentHandlerInfos == nil || len(r.currentHandlerInfos) != mp.matchPoint
	r.mu.Unlock()
	if needsCommit {
		if err := r.finalizeTransition(t, handlerInfos); err != nil {
			if span != nil {
				span.RecordError(err)
				span.End()
			}
			r.finishFailed(t, err)
			return
		}
	}

	if span != nil {
		span.End()
	}
	r.mu.Lock()
	if r.activeTransition == t {
		r.activeTransition = nil
	}
	r.mu.Unlock()
	r.recordOutcome("committed")
	t.promise.resolve(t.resolvedModels)
}

func (r *Router) finishFailed(t *Transition, err error) {
	r.mu.Lock()
	if r.activeTransition == t {
		r.activeTransition = nil
	}
	r.mu.Unlock()
	if isAbortedError(err) {
		r.recordOutcome("aborted")
	} else {
		r.recordOutcome("error")
	}
	t.promise.reject(err)
}

// Generate produces a URL for name given params, synchronously surfacing
// ErrInvalidQueryParam per spec.md §4.I scenario 6.
func (r *Router) Generate(name string, params map[string]any) (string, error) {
	if err := r.validateQueryParamKeys(name, params); err != nil {
		return "", err
	}
	return r.recognizer.Generate(name, params)
}

func (r *Router) validateQueryParamKeys(name string, params map[string]any) error {
	qp, ok := params["queryParams"].(map[string]any)
	if !ok || len(qp) == 0 {
		return nil
	}
	allowed := make(map[string]struct{})
	for _, n := range r.queryParamsForHandler(name) {
		allowed[n] = struct{}{}
	}
	for k := range qp {
		if _, ok := allowed[k]; !ok {
			return fmt.Errorf("%w: %s", ErrInvalidQueryParam, k)
		}
	}
	return nil
}

// IsActive implements spec.md §4.I's isActive contract.
func (r *Router) IsActive(name string, rest ...any) bool {
	contexts, queryParams := splitTrailingQueryParams(rest)

	r.mu.Lock()
	chain := r.currentHandlerInfos
	r.mu.Unlock()

	start := -1
	for i, hi := range chain {
		if hi.Name == name {
			start = i
			break
		}
	}
	if start == -1 {
		return false
	}

	remaining := append([]any(nil), contexts...)
	for i := len(chain) - 1; i >= start; i-- {
		hi := chain[i]
		if !hi.IsDynamic || len(remaining) == 0 {
			continue
		}
		candidate := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		if isParamLike(candidate) {
			if r.currentParams[firstName(hi.Names)] != paramString(candidate) {
				return false
			}
		} else if !identical(candidate, hi.Context) {
			return false
		}
	}
	if len(remaining) != 0 {
		return false
	}

	if len(queryParams) > 0 {
		union := map[string]string{}
		for i := start; i < len(chain); i++ {
			for k, v := range chain[i].QueryParams {
				union[k] = v
			}
		}
		for k, v := range queryParams {
			if union[k] != paramString(v) {
				return false
			}
		}
	}
	return true
}

// Reset implements spec.md §4.I: exit every current handler leaf-first,
// then clear both chain slots.
func (r *Router) Reset() {
	r.mu.Lock()
	chain := r.currentHandlerInfos
	r.currentHandlerInfos = nil
	r.targetHandlerInfos = nil
	r.mu.Unlock()

	for i := len(chain) - 1; i >= 0; i-- {
		if h, ok := chain[i].Handler.(ExitHook); ok {
			h.Exit()
		}
	}
	r.chain.Set(nil)
}

// Trigger bubbles a named event up the current chain (spec.md §4.H).
func (r *Router) Trigger(ignoreFailure bool, name string, args ...any) error {
	r.mu.Lock()
	chain := r.currentHandlerInfos
	r.mu.Unlock()
	return trigger(chain, ignoreFailure, name, args...)
}
