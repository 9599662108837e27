package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPostsRouter() (*Router, map[string]*fakeHandler) {
	posts := &fakeHandler{name: "posts"}
	showPost := &fakeHandler{name: "showPost"}
	handlers := map[string]Handler{"posts": posts, "showPost": showPost}
	byName := map[string]*fakeHandler{"posts": posts, "showPost": showPost}

	rec := newFakeRecognizer()
	chain := []RecognizedHandler{
		{Handler: "posts"},
		{Handler: "showPost", IsDynamic: true, Names: []string{"id"}},
	}
	rec.register("/posts/1", "showPost", chain)
	rec.register("", "posts", chain[:1])

	r, _, _ := newTestRouter(rec, handlers)
	return r, byName
}

func TestTransition_AbortClearsActiveTransition(t *testing.T) {
	r, _ := buildPostsRouter()
	tr := r.TransitionTo("showPost", 1)
	require.NotNil(t, tr)

	tr.Abort()

	assert.True(t, tr.IsAborted())
	r.mu.Lock()
	active := r.activeTransition
	r.mu.Unlock()
	assert.Nil(t, active)
}

func TestTransition_AbortIsIdempotent(t *testing.T) {
	r, _ := buildPostsRouter()
	tr := r.TransitionTo("showPost", 1)

	tr.Abort()
	tr.Abort()

	assert.True(t, tr.IsAborted())
}

func TestTransition_MethodSuppressesURLUpdate(t *testing.T) {
	r, handlers := buildPostsRouter()
	handlers["showPost"].model = func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
		return map[string]any{"id": params["id"]}, nil
	}

	tr := r.TransitionTo("showPost", "1").Method("")
	require.NotNil(t, tr)
	assert.Equal(t, "", tr.urlMethod)
}

func TestTransition_SetDataAndData(t *testing.T) {
	r, _ := buildPostsRouter()
	tr := r.TransitionTo("showPost", 1)
	tr.SetData("payload")
	assert.Equal(t, "payload", tr.Data())
}

func TestTransition_TraceIDIsStable(t *testing.T) {
	r, _ := buildPostsRouter()
	tr := r.TransitionTo("showPost", 1)
	id1 := tr.TraceID()
	id2 := tr.TraceID()
	assert.Equal(t, id1, id2)
	assert.NotEmpty(t, id1)
}

func TestTransition_SequenceIncreasesAcrossTransitions(t *testing.T) {
	r, _ := buildPostsRouter()
	first := r.TransitionTo("showPost", 1)
	first.Abort()
	second := r.TransitionTo("showPost", 2)
	assert.Greater(t, second.Sequence(), first.Sequence())
}

func TestTransition_RetryReRunsWithSameTarget(t *testing.T) {
	r, handlers := buildPostsRouter()
	calls := 0
	handlers["showPost"].model = func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
		calls++
		return map[string]any{"id": params["id"]}, nil
	}

	first := r.TransitionTo("showPost", "1")
	require.NotNil(t, first)

	retried := first.Retry()

	require.NotNil(t, retried)
	assert.Equal(t, "showPost", retried.TargetName())
	assert.True(t, first.IsAborted())
	assert.GreaterOrEqual(t, calls, 1)
}
