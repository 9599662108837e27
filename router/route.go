package router

import (
	"regexp"
	"strings"
)

type segmentKind int

const (
	segStatic segmentKind = iota
	segDynamic
	segWildcard
)

// RouteDef is one level of a nested route tree: a single path segment
// pattern (static literal, ":name" dynamic, ":name?" optional dynamic, or
// "*name" wildcard) plus the handler name it resolves to and the
// query-param keys it accepts. A tree of RouteDef, built with NewRoute, is
// what Recognizer walks to implement transition.Recognizer.
//
// This is a generalization of the single-route compileMatcher this package
// used to build: instead of compiling one full path into one MatcherFunc,
// each RouteDef only knows how to match its own segment, and Recognizer's
// tree walk chains each parent RouteDef with its matching child into
// ordered root-to-leaf handler chains (see recognizer.go).
type RouteDef struct {
	Name         string
	Children     []*RouteDef
	QueryParams  []string
	MatchFilters map[string]any

	segment   string
	kind      segmentKind
	paramName string
	optional  bool
}

// NewRoute builds a RouteDef for one segment of a nested path. segment is
// "" for an index route that consumes nothing, a literal like "posts", a
// dynamic ":id" (optionally suffixed "?"), or a wildcard "*rest".
func NewRoute(name, segment string, children ...*RouteDef) *RouteDef {
	rd := &RouteDef{
		Name:         name,
		Children:     children,
		MatchFilters: make(map[string]any),
	}
	rd.compile(segment)
	return rd
}

// WithQueryParams attaches the allow-list of query-param keys this route
// accepts and returns the RouteDef for chaining.
func (rd *RouteDef) WithQueryParams(keys ...string) *RouteDef {
	rd.QueryParams = keys
	return rd
}

// WithFilter registers a per-param validation filter, either a regexp
// pattern (string) or a predicate func(string) bool, mirroring the
// teacher's validateParams contract.
func (rd *RouteDef) WithFilter(param string, filter any) *RouteDef {
	rd.MatchFilters[param] = filter
	return rd
}

func (rd *RouteDef) compile(raw string) {
	rd.segment = raw
	trimmed := raw
	if strings.HasSuffix(trimmed, "?") {
		rd.optional = true
		trimmed = strings.TrimSuffix(trimmed, "?")
	}
	switch {
	case strings.HasPrefix(trimmed, "*"):
		rd.kind = segWildcard
		rd.paramName = trimmed[1:]
	case strings.HasPrefix(trimmed, ":"):
		rd.kind = segDynamic
		rd.paramName = trimmed[1:]
	default:
		rd.kind = segStatic
		rd.paramName = trimmed
	}
}

// isDynamic reports whether this route captures a named param at all
// (dynamic or wildcard both do).
func (rd *RouteDef) isDynamic() bool { return rd.kind != segStatic }

// names returns the ordered list of dynamic-segment names this route
// contributes, matching transition.RecognizedHandler.Names.
func (rd *RouteDef) names() []string {
	if rd.kind == segStatic {
		return nil
	}
	return []string{rd.paramName}
}

func (rd *RouteDef) validate(value string) bool {
	filter, ok := rd.MatchFilters[rd.paramName]
	if !ok {
		return true
	}
	switch f := filter.(type) {
	case string:
		matched, err := regexp.MatchString(f, value)
		return err == nil && matched
	case func(string) bool:
		return f(value)
	default:
		return false
	}
}

// matchSegment attempts to match this route against segments[idx:],
// returning the captured param value (if dynamic), whether the match
// succeeded at all, and the next index to resume matching at (equal to idx
// when no segment was consumed).
func (rd *RouteDef) matchSegment(segments []string, idx int) (value string, ok bool, nextIdx int) {
	atEnd := idx >= len(segments)

	switch rd.kind {
	case segWildcard:
		if atEnd {
			return "", true, idx
		}
		return strings.Join(segments[idx:], "/"), true, len(segments)

	case segDynamic:
		if atEnd {
			if rd.optional {
				return "", true, idx
			}
			return "", false, idx
		}
		v := segments[idx]
		if !rd.validate(v) {
			return "", false, idx
		}
		return v, true, idx + 1

	default: // segStatic
		if rd.segment == "" {
			return "", true, idx
		}
		if atEnd || segments[idx] != rd.segment {
			if rd.optional {
				return "", true, idx
			}
			return "", false, idx
		}
		return "", true, idx + 1
	}
}

// filterEmptySegments removes empty strings produced by splitting a path
// on "/", e.g. the leading segment of "/posts/1".
func filterEmptySegments(segments []string) []string {
	filtered := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
