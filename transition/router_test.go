package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNestedRouter() (*Router, map[string]*fakeHandler, *[]string) {
	index := &fakeHandler{}
	posts := &fakeHandler{}
	showPost := &fakeHandler{
		model: func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
			return params["id"], nil
		},
	}
	handlers := map[string]Handler{"index": index, "posts": posts, "showPost": showPost}
	byName := map[string]*fakeHandler{"index": index, "posts": posts, "showPost": showPost}

	rec := newFakeRecognizer()
	rec.register("/", "index", []RecognizedHandler{{Handler: "index"}})
	postsChain := []RecognizedHandler{{Handler: "posts"}}
	rec.register("/posts", "posts", postsChain)
	showChain := []RecognizedHandler{
		{Handler: "posts"},
		{Handler: "showPost", IsDynamic: true, Names: []string{"id"}, Params: map[string]string{"id": "7"}},
	}
	rec.register("/posts/7", "showPost", showChain)

	r, updated, _ := newTestRouter(rec, handlers)
	return r, byName, updated
}

func TestRouter_TransitionToCommitsChainAndUpdatesURL(t *testing.T) {
	r, handlers, updated := buildNestedRouter()

	tr := r.TransitionTo("showPost", "7")
	require.NotNil(t, tr)

	assert.Equal(t, []string{"posts", "showPost"}, r.CurrentHandlerNames())
	assert.Equal(t, "showPost", r.CurrentRouteName())
	assert.True(t, handlers["showPost"].entered)
	assert.True(t, handlers["posts"].entered)
	require.Len(t, *updated, 1)
	assert.Equal(t, "/posts/7", (*updated)[0])
}

func TestRouter_HandleURLRecognizesAndCommits(t *testing.T) {
	r, handlers, _ := buildNestedRouter()

	tr := r.HandleURL("/posts/7")

	assert.False(t, tr.IsAborted())
	assert.True(t, handlers["showPost"].entered)
	assert.Equal(t, "showPost", r.CurrentRouteName())
}

func TestRouter_HandleURLUnrecognizedRejects(t *testing.T) {
	r, _, _ := buildNestedRouter()

	tr := r.HandleURL("/nowhere")

	var rejectedWith error
	tr.Then(nil, func(err error) { rejectedWith = err })
	assert.ErrorIs(t, rejectedWith, ErrUnrecognizedURL)
}

func TestRouter_DedupReturnsSameTransitionForIdenticalOverlappingRequest(t *testing.T) {
	r, handlers, _ := buildNestedRouter()

	var second *Transition
	triggered := false
	handlers["posts"].beforeModel = func(t *Transition, qp map[string]string) error {
		// Re-enter TransitionTo for the exact same target while the first
		// call is still inside its own validation pipeline, simulating two
		// overlapping calls racing each other. triggered is set before the
		// nested call runs so a dedup miss can't recurse forever back into
		// this same hook.
		if !triggered {
			triggered = true
			second = r.TransitionTo("posts")
		}
		return nil
	}

	first := r.TransitionTo("posts")

	require.NotNil(t, second)
	assert.Same(t, first, second, "identical overlapping requests must dedup to the same Transition")
}

func TestRouter_OverlappingRequestsWithDifferingParamLikeArgsDoNotDedup(t *testing.T) {
	r, handlers, _ := buildNestedRouter()

	var second *Transition
	triggered := false
	handlers["showPost"].beforeModel = func(t *Transition, qp map[string]string) error {
		if !triggered {
			triggered = true
			second = r.TransitionTo("showPost", "4")
		}
		return nil
	}

	first := r.TransitionTo("showPost", "3")

	require.NotNil(t, second)
	assert.NotSame(t, first, second, "differing param-like arguments must not dedup")
}

func TestRouter_SecondDifferentTransitionAbortsTheFirst(t *testing.T) {
	r, handlers, _ := buildNestedRouter()

	var second *Transition
	triggered := false
	handlers["posts"].beforeModel = func(t *Transition, qp map[string]string) error {
		// Start a different transition while the first is still inside its
		// validation pipeline.
		if !triggered {
			triggered = true
			second = r.TransitionTo("showPost", "7")
		}
		return nil
	}

	first := r.TransitionTo("posts")

	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.True(t, first.IsAborted())
	assert.Equal(t, "showPost", r.CurrentRouteName())
}

func TestRouter_IsActiveMatchesCurrentChainAndParams(t *testing.T) {
	r, _, _ := buildNestedRouter()
	r.TransitionTo("showPost", "7")

	assert.True(t, r.IsActive("posts"))
	assert.True(t, r.IsActive("showPost", "7"))
	assert.False(t, r.IsActive("showPost", "8"))
	assert.False(t, r.IsActive("missing"))
}

func TestRouter_GenerateRejectsUnknownQueryParam(t *testing.T) {
	r, _, _ := buildNestedRouter()

	_, err := r.Generate("posts", map[string]any{"queryParams": map[string]any{"sort": "new"}})

	assert.ErrorIs(t, err, ErrInvalidQueryParam)
}

func TestRouter_ResetExitsCurrentChain(t *testing.T) {
	r, handlers, _ := buildNestedRouter()
	r.TransitionTo("showPost", "7")

	r.Reset()

	assert.True(t, handlers["showPost"].exited)
	assert.True(t, handlers["posts"].exited)
	assert.Empty(t, r.CurrentHandlerNames())
}

func TestRouter_TriggerBubblesOverCurrentChain(t *testing.T) {
	r, handlers, _ := buildNestedRouter()
	r.TransitionTo("showPost", "7")

	seen := false
	handlers["showPost"].events = map[string]func(args ...any) any{
		"ping": func(args ...any) any { seen = true; return nil },
	}

	err := r.Trigger(false, "ping")

	assert.NoError(t, err)
	assert.True(t, seen)
}

func TestRouter_WillAndDidTransitionHooksFire(t *testing.T) {
	var willCalls, didCalls int
	rec := newFakeRecognizer()
	rec.register("/posts", "posts", []RecognizedHandler{{Handler: "posts"}})
	handlers := map[string]Handler{"posts": &fakeHandler{}}

	r, _, _ := newTestRouter(rec, handlers,
		WithWillTransition(func([]*HandlerInfo) { willCalls++ }),
		WithDidTransition(func([]*HandlerInfo) { didCalls++ }),
	)

	r.TransitionTo("posts")

	assert.Equal(t, 1, didCalls)
	assert.Equal(t, 1, willCalls, "willTransition fires when no transition was already underway")
}
