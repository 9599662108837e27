// Package router is a reference implementation of transition.Recognizer
// plus an in-memory transition.Router host, grounded on this module's own
// segment-matching algorithm (originally a single-route compileMatcher,
// generalized here to nested root-to-leaf handler chains) and its reactive
// location store.
package router
