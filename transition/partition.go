package transition

// chainPartition is the output of partition (spec.md §4.D).
type chainPartition struct {
	unchanged      []*HandlerInfo
	updatedContext []*HandlerInfo
	entered        []*HandlerInfo
	exited         []*HandlerInfo
}

// contextsDiffer reports whether two same-named HandlerInfos should be
// treated as an in-place context update: a changed Context, or unchanged
// Context but different query params (spec.md §4.D).
func contextsDiffer(oldH, newH *HandlerInfo) bool {
	if oldH.hasContext != newH.hasContext {
		return true
	}
	if !identical(oldH.Context, newH.Context) {
		return true
	}
	return !mapsEqual(oldH.QueryParams, newH.QueryParams)
}

// partition diffs the old and new HandlerInfo chains into the four buckets
// spec.md §4.D describes. Both the "handler changed" and "context changed"
// flags are monotone: once true at some depth, every deeper co-indexed
// handler inherits the same classification.
func partition(old, new []*HandlerInfo) chainPartition {
	n := len(old)
	if len(new) > n {
		n = len(new)
	}

	var p chainPartition
	handlerChanged := false
	contextChanged := false
	var exitedAscending []*HandlerInfo

	for i := 0; i < n; i++ {
		var oldH, newH *HandlerInfo
		if i < len(old) {
			oldH = old[i]
		}
		if i < len(new) {
			newH = new[i]
		}

		if !handlerChanged && (oldH == nil || newH == nil || oldH.Name != newH.Name) {
			handlerChanged = true
		}

		if handlerChanged {
			if oldH != nil {
				exitedAscending = append(exitedAscending, oldH)
			}
			if newH != nil {
				p.entered = append(p.entered, newH)
			}
			continue
		}

		// Same handler name at this depth, neither chain forced a change.
		if !contextChanged && contextsDiffer(oldH, newH) {
			contextChanged = true
		}
		if contextChanged {
			p.updatedContext = append(p.updatedContext, newH)
		} else {
			p.unchanged = append(p.unchanged, newH)
		}
	}

	for i := len(exitedAscending) - 1; i >= 0; i-- {
		p.exited = append(p.exited, exitedAscending[i])
	}
	return p
}
