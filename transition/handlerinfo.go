package transition

// assembleHandlerInfos is component A (spec.md §4.A): materialize ordered
// HandlerInfo records from recognizer output, deriving each handler's
// queryParams by filling first from the router's current query-param
// mapping and then overriding from the request's query-params. A key whose
// resolved value is nil or false is treated as an explicit clear and
// removed from the derived mapping.
func (r *Router) assembleHandlerInfos(recognized []RecognizedHandler, currentQueryParams map[string]string, requestQueryParams map[string]any) []*HandlerInfo {
	infos := make([]*HandlerInfo, len(recognized))
	for i, rh := range recognized {
		hi := &HandlerInfo{
			Name:      rh.Handler,
			Handler:   r.getHandler(rh.Handler),
			IsDynamic: rh.IsDynamic,
			Names:     rh.Names,
			Context:   rh.Context,
		}
		hi.hasContext = rh.Context != nil

		if len(rh.QueryParams) > 0 {
			qp := make(map[string]string)
			for _, key := range rh.QueryParams {
				if v, ok := currentQueryParams[key]; ok {
					qp[key] = v
				}
			}
			for _, key := range rh.QueryParams {
				v, present := requestQueryParams[key]
				if !present {
					continue
				}
				if isClearingSentinel(v) {
					delete(qp, key)
					continue
				}
				qp[key] = paramString(v)
			}
			if len(qp) > 0 {
				hi.QueryParams = qp
			}
		}
		infos[i] = hi
	}
	return infos
}

// isClearingSentinel reports whether v is one of the values spec.md §4.A
// treats as "explicitly remove this key" — nil or false.
func isClearingSentinel(v any) bool {
	if v == nil {
		return true
	}
	b, ok := v.(bool)
	return ok && !b
}

func cloneQueryParams(m map[string]string) map[string]string {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func flattenQueryParams(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func firstName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// recognizedParams flattens the per-handler params a Recognizer already
// extracted from a URL into one flat mapping, used as getMatchPoint's
// inputParams for URL transitions (spec.md §4.B step 1).
func recognizedParams(recognized []RecognizedHandler) map[string]string {
	params := make(map[string]string)
	for _, rh := range recognized {
		for k, v := range rh.Params {
			params[k] = v
		}
	}
	return params
}
