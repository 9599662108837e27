package transition

// collectObjectsForURL implements step 1 of finalizeTransition (spec.md
// §4.G): walking leaf to root, pop the caller's argument for each dynamic
// handler and use its param string if it is param-like, else use the
// providedModel for that handler if there is one, else fall back to its
// resolved context. The result is reversed back to root-to-leaf order,
// matching the order paramsForHandler consumes objects in.
func collectObjectsForURL(t *Transition, handlerInfos []*HandlerInfo) []any {
	supplied := append([]any(nil), t.providedModelsArray...)
	var leafToRoot []any
	for i := len(handlerInfos) - 1; i >= 0; i-- {
		hi := handlerInfos[i]
		if !hi.IsDynamic || len(hi.Names) == 0 {
			continue
		}
		var arg any
		if len(supplied) > 0 {
			arg = supplied[len(supplied)-1]
			supplied = supplied[:len(supplied)-1]
		}
		if isParamLike(arg) {
			leafToRoot = append(leafToRoot, paramString(arg))
		} else if model, ok := t.providedModels[hi.Name]; ok {
			leafToRoot = append(leafToRoot, model)
		} else {
			leafToRoot = append(leafToRoot, hi.Context)
		}
	}
	rootToLeaf := make([]any, len(leafToRoot))
	for i, v := range leafToRoot {
		rootToLeaf[len(leafToRoot)-1-i] = v
	}
	return rootToLeaf
}

// finalizeTransition is the outer half of component G (spec.md §4.G): it
// computes the URL to commit, updates the router's flat param/query-param
// state, pushes the URL through the host's history hook, and then drives
// setupContexts to fire exit/enter/setup hooks and install the new chain.
func (r *Router) finalizeTransition(t *Transition, handlerInfos []*HandlerInfo) error {
	objects := collectObjectsForURL(t, handlerInfos)
	params := r.paramsForHandler(handlerInfos, 0, objects)

	r.mu.Lock()
	r.currentParams = map[string]string{}
	for k, v := range params {
		if k == "queryParams" {
			continue
		}
		r.currentParams[k] = paramString(v)
	}
	r.currentQueryParams = map[string]string{}
	for _, hi := range handlerInfos {
		for k, v := range hi.QueryParams {
			r.currentQueryParams[k] = v
		}
	}
	r.mu.Unlock()

	if t.urlMethod != "" {
		url, err := r.recognizer.Generate(t.targetName, params)
		if err == nil {
			if t.urlMethod == "replace" {
				if r.replaceURL != nil {
					r.replaceURL(url)
				}
			} else if r.updateURL != nil {
				r.updateURL(url)
			}
		}
	}

	if err := r.setupContexts(t, handlerInfos); err != nil {
		return err
	}

	if r.didTransition != nil {
		r.didTransition(handlerInfos)
	}
	return nil
}

// setupContexts is the inner half of component G: partition old vs. new
// chains, run exit hooks deepest-first, then run enter/setup for the
// updatedContext and entered buckets in order, appending each handler to
// the committed chain only after its hooks succeed.
func (r *Router) setupContexts(t *Transition, handlerInfos []*HandlerInfo) error {
	r.mu.Lock()
	oldChain := r.currentHandlerInfos
	r.mu.Unlock()

	p := partition(oldChain, handlerInfos)

	for _, hi := range p.exited {
		// Mirrors the source's `delete handler.context` on exit. Its
		// queryParams are deliberately left untouched — see DESIGN.md's
		// note on this open question from spec.md §9.
		hi.Context = nil
		hi.hasContext = false
		if eh, ok := hi.Handler.(ExitHook); ok {
			eh.Exit()
		}
	}

	committed := append([]*HandlerInfo(nil), p.unchanged...)

	advance := func(hi *HandlerInfo, entering bool) error {
		if entering {
			if eh, ok := hi.Handler.(EnterHook); ok {
				eh.Enter()
			}
		}
		if t.IsAborted() {
			return newAbortedError("")
		}

		if ch, ok := hi.Handler.(ContextDidChangeHook); ok {
			ch.ContextDidChange(hi.Context)
		}
		if qh, ok := hi.Handler.(QueryParamsDidChangeHook); ok {
			qh.QueryParamsDidChange(hi.QueryParams)
		}
		if sh, ok := hi.Handler.(SetupHook); ok {
			sh.Setup(hi.Context, hi.QueryParams)
		}
		if t.IsAborted() {
			return newAbortedError("")
		}
		return nil
	}

	for _, hi := range p.updatedContext {
		if err := advance(hi, false); err != nil {
			if !isAbortedError(err) {
				chain := append(append([]*HandlerInfo(nil), committed...), hi)
				_ = trigger(chain, true, "error", err, t)
			}
			return err
		}
		committed = append(committed, hi)
	}
	for _, hi := range p.entered {
		if err := advance(hi, true); err != nil {
			if !isAbortedError(err) {
				chain := append(append([]*HandlerInfo(nil), committed...), hi)
				_ = trigger(chain, true, "error", err, t)
			}
			return err
		}
		committed = append(committed, hi)
	}

	r.mu.Lock()
	r.currentHandlerInfos = committed
	r.mu.Unlock()
	r.chain.Set(committed)
	return nil
}
