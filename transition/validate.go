package transition

// validateEntry is component F (spec.md §4.F): it threads a single
// async-shaped pass down the target chain, running beforeModel → model →
// afterModel for every handler at or past matchPoint, with an abort check
// between every step, and simply copying forward reused state below it.
func validateEntry(t *Transition, handlerInfos []*HandlerInfo, index int, matchPoint int, handlerParams map[string]map[string]string) (map[string]any, error) {
	if index == len(handlerInfos) {
		t.mu.Lock()
		resolved := make(map[string]any, len(t.resolvedModels))
		for k, v := range t.resolvedModels {
			resolved[k] = v
		}
		t.mu.Unlock()
		return resolved, nil
	}

	hi := handlerInfos[index]

	if index < matchPoint {
		model, ok := t.providedModels[hi.Name]
		if !ok {
			model = hi.Context
		}
		t.mu.Lock()
		t.resolvedModels[hi.Name] = model
		t.mu.Unlock()
		return validateEntry(t, handlerInfos, index+1, matchPoint, handlerParams)
	}

	if t.IsAborted() {
		return nil, newAbortedError("")
	}

	qp := hi.QueryParams
	if bm, ok := hi.Handler.(BeforeModelHook); ok {
		if err := bm.BeforeModel(t, qp); err != nil {
			return nil, t.router.handleError(t, err, handlerInfos, index)
		}
	}
	if t.IsAborted() {
		return nil, newAbortedError("")
	}

	model, err := getModel(t, hi, handlerParams, qp)
	if err != nil {
		return nil, t.router.handleError(t, err, handlerInfos, index)
	}
	if t.IsAborted() {
		return nil, newAbortedError("")
	}

	if am, ok := hi.Handler.(AfterModelHook); ok {
		if err := am.AfterModel(model, t, qp); err != nil {
			return nil, t.router.handleError(t, err, handlerInfos, index)
		}
	}
	if t.IsAborted() {
		return nil, newAbortedError("")
	}

	hi.Context = model
	hi.hasContext = true
	t.mu.Lock()
	t.resolvedModels[hi.Name] = model
	t.mu.Unlock()

	return validateEntry(t, handlerInfos, index+1, matchPoint, handlerParams)
}

// getModel implements the model-source-selection rule from spec.md §4.F:
// a caller-provided model wins (invoking it if it is a zero-argument
// function), then a model the predecessor transition already resolved for
// this handler, otherwise the handler's own Model hook runs. A hook
// returning a *Transition (the legacy redirect-by-returning-a-transition
// idiom, spec.md §9) is coerced to a nil model; the redirect itself
// propagates because the façade already installed the returned Transition
// as the new activeTransition.
func getModel(t *Transition, hi *HandlerInfo, handlerParams map[string]map[string]string, qp map[string]string) (any, error) {
	if model, ok := t.providedModels[hi.Name]; ok {
		if fn, ok := model.(func() any); ok {
			return fn(), nil
		}
		return model, nil
	}

	if t.predecessor != nil {
		t.predecessor.mu.Lock()
		prev, ok := t.predecessor.resolvedModels[hi.Name]
		t.predecessor.mu.Unlock()
		if ok {
			return prev, nil
		}
	}

	mh, ok := hi.Handler.(ModelHook)
	if !ok {
		return nil, nil
	}
	params := handlerParams[hi.Name]
	if params == nil {
		params = map[string]string{}
	}
	model, err := mh.Model(params, t, qp)
	if err != nil {
		return nil, err
	}
	if _, isTransition := model.(*Transition); isTransition {
		return nil, nil
	}
	return model, nil
}

// handleError is spec.md §4.F's error-routing step: a clean abort passes
// through unchanged, anything else aborts the transition, bubbles an
// "error" event from the failing handler up through its ancestors, gives
// the handler's own ErrorHook a look, and re-raises the original cause.
func (r *Router) handleError(t *Transition, reason error, handlerInfos []*HandlerInfo, index int) error {
	if isAbortedError(reason) {
		return reason
	}

	t.Abort()
	r.logf("transition #%d: %s failed: %v", t.sequence, handlerInfos[index].Name, reason)

	ancestorChain := handlerInfos[:index+1]
	_ = trigger(ancestorChain, true, "error", reason, t)

	if eh, ok := handlerInfos[index].Handler.(ErrorHook); ok {
		eh.HandleError(reason, t)
	}
	return reason
}
