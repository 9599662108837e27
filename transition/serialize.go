package transition

import (
	"fmt"
	"reflect"
	"strings"
)

// serialize is the `serialize(handler, model, names)` step named in
// spec.md §4.C/§4.G: it decides how a resolved model collapses into the
// param(s) a dynamic handler contributes to a URL.
func serialize(handler Handler, model any, names []string) map[string]string {
	if model == nil {
		return nil
	}
	if isParamLike(model) {
		if len(names) == 0 {
			return nil
		}
		return map[string]string{names[0]: paramString(model)}
	}
	if h, ok := handler.(SerializeHook); ok {
		return h.Serialize(model, names)
	}
	return defaultSerialize(model, names)
}

// defaultSerialize implements spec.md §4.G's fallback: a single name
// ending in "_id" pulls the model's id field; a single name with no such
// suffix uses the model verbatim (stringified); more than one name with no
// custom serializer is undefined and yields nothing.
func defaultSerialize(model any, names []string) map[string]string {
	if len(names) != 1 {
		return nil
	}
	name := names[0]
	if strings.HasSuffix(name, "_id") {
		return map[string]string{name: modelID(model)}
	}
	return map[string]string{name: paramString(model)}
}

// modelID extracts an "id" from an arbitrary host model: an ID() string
// method, an "id" key on a map[string]any, or an exported ID/Id struct
// field, in that order; anything else is formatted with %v.
func modelID(model any) string {
	type identifier interface{ ID() string }
	if v, ok := model.(identifier); ok {
		return v.ID()
	}
	if m, ok := model.(map[string]any); ok {
		if v, ok := m["id"]; ok {
			return paramString(v)
		}
	}
	rv := reflect.ValueOf(model)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		for _, field := range []string{"ID", "Id"} {
			if fv := rv.FieldByName(field); fv.IsValid() {
				return paramString(fv.Interface())
			}
		}
	}
	return fmt.Sprintf("%v", model)
}

// queryParamsForHandler returns the concatenation of query-param allow
// lists along name's ancestor chain (spec.md §4.C).
func (r *Router) queryParamsForHandler(name string) []string {
	recognized, err := r.recognizer.HandlersFor(name)
	if err != nil {
		return nil
	}
	var all []string
	for _, rh := range recognized {
		all = append(all, rh.QueryParams...)
	}
	return all
}

// paramsForHandler walks handlerInfos root to leaf, consuming objects for
// every handler at or past matchPoint and reusing existing context below
// it (spec.md §4.C). Each HandlerInfo's QueryParams was already merged
// from the router's current query params and the request's by
// assembleHandlerInfos, so paramsForHandler just unions those per-handler
// maps into one nested "queryParams" entry rather than recomputing the
// overlay a second time.
func (r *Router) paramsForHandler(handlerInfos []*HandlerInfo, matchPoint int, objects []any) map[string]any {
	remaining := append([]any(nil), objects...)
	params := make(map[string]any)
	queryParams := make(map[string]string)

	for i, hi := range handlerInfos {
		if hi.IsDynamic && len(hi.Names) > 0 {
			var model any
			if i >= matchPoint && len(remaining) > 0 {
				model = remaining[0]
				remaining = remaining[1:]
			} else {
				model = hi.Context
			}
			for k, v := range serialize(hi.Handler, model, hi.Names) {
				params[k] = v
			}
		}
		for k, v := range hi.QueryParams {
			queryParams[k] = v
		}
	}

	if len(queryParams) > 0 {
		qp := make(map[string]any, len(queryParams))
		for k, v := range queryParams {
			qp[k] = v
		}
		params["queryParams"] = qp
	}
	return params
}
