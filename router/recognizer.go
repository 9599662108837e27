package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ozanturksever/routekit/transition"
)

// Recognizer implements transition.Recognizer by walking a tree of
// RouteDef, generalizing the teacher's single-route compileMatcher
// (router/matcher.go in the pre-transform tree) to ordered root-to-leaf
// handler chains with per-level dynamic segment names and query-param
// allow-lists.
type Recognizer struct {
	routes []*RouteDef
	chains map[string][]*RouteDef
	names  []string
}

// NewRecognizer builds a Recognizer over the given top-level routes,
// indexing every route in the tree, inner routes as well as leaves, by
// name for HandlersFor/Generate/HasRoute/Map.
func NewRecognizer(routes ...*RouteDef) *Recognizer {
	rc := &Recognizer{routes: routes, chains: make(map[string][]*RouteDef)}
	for _, r := range routes {
		rc.index(r, nil)
	}
	return rc
}

func (rc *Recognizer) index(node *RouteDef, ancestors []*RouteDef) {
	chain := append(append([]*RouteDef(nil), ancestors...), node)
	rc.chains[node.Name] = chain
	rc.names = append(rc.names, node.Name)
	for _, child := range node.Children {
		rc.index(child, chain)
	}
}

// Recognize implements transition.Recognizer.
func (rc *Recognizer) Recognize(rawURL string) ([]transition.RecognizedHandler, bool) {
	path := rawURL
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		path = rawURL[:i]
	}
	segments := filterEmptySegments(strings.Split(path, "/"))
	for _, root := range rc.routes {
		if chain, ok := recognizeNode(root, segments, 0); ok {
			return chain, true
		}
	}
	return nil, false
}

func recognizeNode(node *RouteDef, segments []string, idx int) ([]transition.RecognizedHandler, bool) {
	value, ok, nextIdx := node.matchSegment(segments, idx)
	if !ok {
		return nil, false
	}

	rh := transition.RecognizedHandler{
		Handler:     node.Name,
		Names:       node.names(),
		IsDynamic:   node.isDynamic(),
		QueryParams: node.QueryParams,
	}
	if node.isDynamic() && value != "" {
		rh.Params = map[string]string{node.paramName: value}
	}

	if len(node.Children) == 0 || nextIdx == len(segments) {
		if nextIdx != len(segments) {
			return nil, false
		}
		return []transition.RecognizedHandler{rh}, true
	}

	for _, child := range node.Children {
		if childChain, ok := recognizeNode(child, segments, nextIdx); ok {
			return append([]transition.RecognizedHandler{rh}, childChain...), true
		}
	}
	return nil, false
}

// HandlersFor implements transition.Recognizer.
func (rc *Recognizer) HandlersFor(name string) ([]transition.RecognizedHandler, error) {
	chain, ok := rc.chains[name]
	if !ok {
		return nil, fmt.Errorf("router: no route named %q", name)
	}
	out := make([]transition.RecognizedHandler, len(chain))
	for i, node := range chain {
		out[i] = transition.RecognizedHandler{
			Handler:     node.Name,
			Names:       node.names(),
			IsDynamic:   node.isDynamic(),
			QueryParams: node.QueryParams,
		}
	}
	return out, nil
}

// HasRoute implements transition.Recognizer.
func (rc *Recognizer) HasRoute(name string) bool {
	_, ok := rc.chains[name]
	return ok
}

// Map implements transition.Recognizer: it returns every route name this
// Recognizer was built from, in the depth-first registration order index
// walked the *RouteDef tree in.
func (rc *Recognizer) Map() []string {
	return append([]string(nil), rc.names...)
}

// Generate implements transition.Recognizer: it rebuilds the path by
// walking the named route's chain and substituting each dynamic segment's
// value from params, then appends params["queryParams"] as a query string.
// Query-param keys are not checked against any route's allow-list here.
func (rc *Recognizer) Generate(name string, params map[string]any) (string, error) {
	chain, ok := rc.chains[name]
	if !ok {
		return "", fmt.Errorf("router: no route named %q", name)
	}

	var segments []string
	for _, node := range chain {
		switch node.kind {
		case segStatic:
			if node.segment != "" {
				segments = append(segments, node.segment)
			}
		case segDynamic, segWildcard:
			v, ok := params[node.paramName]
			if !ok {
				if node.optional {
					continue
				}
				return "", fmt.Errorf("router: missing param %q for route %q", node.paramName, name)
			}
			segments = append(segments, fmt.Sprintf("%v", v))
		}
	}

	path := "/" + strings.Join(segments, "/")

	qp, _ := params["queryParams"].(map[string]any)
	if len(qp) == 0 {
		return path, nil
	}
	values := url.Values{}
	for k, v := range qp {
		values.Set(k, fmt.Sprintf("%v", v))
	}
	return path + "?" + values.Encode(), nil
}
