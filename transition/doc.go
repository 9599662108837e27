// Package transition implements a hierarchical route transition engine: a
// state machine that, given either a URL or a symbolic route target,
// resolves a chain of nested route handlers, asynchronously fetches their
// models, determines which handlers enter/exit/update, and commits the new
// active route — or aborts if a newer transition supersedes it.
//
// Path recognition, URL generation, history manipulation, and handler
// object implementations are treated as external collaborators supplied by
// the host through the Recognizer interface and the Option functions.
package transition
