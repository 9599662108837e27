package transition

import (
	"fmt"
	"math"
	"strconv"
)

// matchPointResult is the output of getMatchPoint (spec.md §4.B).
type matchPointResult struct {
	matchPoint    int
	providedModels map[string]any
	params         map[string]string
	handlerParams  map[string]map[string]string
}

// isParamLike judges whether v is a "string, number, or stringifiable
// primitive" per spec.md §4.B's rule for telling a param value apart from
// a full provided model.
func isParamLike(v any) bool {
	switch x := v.(type) {
	case string:
		return true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return false
	}
}

// paramString renders a param-like value (or a query-param value) to its
// string form.
func paramString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func oldHandlerAt(old []*HandlerInfo, i int) *HandlerInfo {
	if i < 0 || i >= len(old) {
		return nil
	}
	return old[i]
}

// getMatchPoint is component B (spec.md §4.B): it walks handlers from leaf
// toward root, consuming suppliedObjects right-to-left, and computes the
// smallest index at which the target chain diverges from the router's
// current chain.
func (r *Router) getMatchPoint(handlers []*HandlerInfo, suppliedObjects []any, inputParams map[string]string, queryParams map[string]any) (matchPointResult, error) {
	n := len(handlers)
	remaining := append([]any(nil), suppliedObjects...)
	params := make(map[string]string)
	providedModels := make(map[string]any)
	handlerParams := make(map[string]map[string]string)
	changed := make([]bool, n)

	r.mu.Lock()
	oldChain := r.currentHandlerInfos
	oldParams := r.currentParams
	r.mu.Unlock()

	for i := n - 1; i >= 0; i-- {
		h := handlers[i]
		hadObj := false

		if h.IsDynamic && len(h.Names) > 0 {
			if len(remaining) > 0 {
				obj := remaining[len(remaining)-1]
				remaining = remaining[:len(remaining)-1]
				hadObj = true
				name := h.Names[0]
				if isParamLike(obj) {
					v := paramString(obj)
					params[name] = v
					handlerParams[h.Name] = map[string]string{name: v}
				} else {
					providedModels[h.Name] = obj
				}
			} else {
				hp := map[string]string{}
				for _, name := range h.Names {
					if v, ok := inputParams[name]; ok {
						params[name] = v
						hp[name] = v
						continue
					}
					if v, ok := oldParams[name]; ok {
						params[name] = v
						hp[name] = v
					}
				}
				if len(hp) > 0 {
					handlerParams[h.Name] = hp
				}
			}
		}

		oldH := oldHandlerAt(oldChain, i)
		switch {
		case oldH == nil || oldH.Name != h.Name:
			changed[i] = true
		case hadObj:
			changed[i] = true
		default:
			paramsDiffer := false
			for _, name := range h.Names {
				if params[name] != oldParams[name] {
					paramsDiffer = true
					break
				}
			}
			changed[i] = paramsDiffer || !mapsEqual(h.QueryParams, oldH.QueryParams)
		}
	}

	if len(remaining) > 0 {
		leaf := ""
		if n > 0 {
			leaf = handlers[n-1].Name
		}
		return matchPointResult{}, fmt.Errorf("%w: %s", ErrTooManyContextObjects, leaf)
	}

	matchPoint := n
	for i := 0; i < n; i++ {
		if changed[i] {
			matchPoint = i
			break
		}
	}

	return matchPointResult{
		matchPoint:    matchPoint,
		providedModels: providedModels,
		params:         params,
		handlerParams:  handlerParams,
	}, nil
}
