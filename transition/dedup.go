package transition

// sameTransitionRequest implements the dedup rule from spec.md §5: when a
// new performTransition call targets the same name, the same raw
// providedModelsArray (by identity, element-by-element, in order), and the
// same queryParams as the router's current activeTransition, that existing
// Transition is returned unchanged instead of starting a second one.
//
// The comparison uses the caller's raw objs slice rather than
// matchPointResult.providedModels: getMatchPoint sorts param-like entries
// (e.g. a bare int/string route argument) into params and only non-param-
// like entries into providedModels, so two calls differing only in a
// param-like argument — TransitionTo("showPost", 3) vs.
// TransitionTo("showPost", 4) — would otherwise produce identical, empty
// providedModels maps and dedup incorrectly.
func sameTransitionRequest(existing *Transition, targetName string, providedModelsArray []any, requestQueryParams map[string]any) bool {
	if existing == nil || existing.IsAborted() {
		return false
	}
	if existing.targetName != targetName {
		return false
	}
	if !sameByIdentity(existing.providedModelsArray, providedModelsArray) {
		return false
	}
	return sameQueryParamRequest(existing.queryParams, requestQueryParams)
}

// sameByIdentity compares two ordered value slices using pointer identity
// for reference types and == for comparable scalars, falling back to "not
// equal" for anything that would panic under ==.
func sameByIdentity(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

func identical(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func sameQueryParamRequest(existing map[string]any, requested map[string]any) bool {
	if len(existing) != len(requested) {
		return false
	}
	for k, v := range requested {
		ev, ok := existing[k]
		if !ok {
			return false
		}
		if !identical(ev, v) {
			return false
		}
	}
	return true
}
