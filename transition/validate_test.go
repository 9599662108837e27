package transition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntry_RunsBeforeModelThenModelThenAfterModelInOrder(t *testing.T) {
	var order []string
	h := &fakeHandler{
		beforeModel: func(t *Transition, qp map[string]string) error {
			order = append(order, "beforeModel")
			return nil
		},
		model: func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
			order = append(order, "model")
			return "resolved", nil
		},
		afterModel: func(model any, t *Transition, qp map[string]string) error {
			order = append(order, "afterModel")
			return nil
		},
	}
	tr := &Transition{
		router:         &Router{},
		providedModels: map[string]any{},
		resolvedModels: map[string]any{},
	}
	infos := []*HandlerInfo{{Name: "showPost", Handler: h, IsDynamic: true, Names: []string{"id"}}}

	resolved, err := validateEntry(tr, infos, 0, 0, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"beforeModel", "model", "afterModel"}, order)
	assert.Equal(t, "resolved", resolved["showPost"])
}

func TestValidateEntry_BelowMatchPointReusesContextWithoutHooks(t *testing.T) {
	called := false
	h := &fakeHandler{model: func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
		called = true
		return "new", nil
	}}
	tr := &Transition{
		router:         &Router{},
		providedModels: map[string]any{},
		resolvedModels: map[string]any{},
	}
	infos := []*HandlerInfo{{Name: "posts", Handler: h, Context: "reused", hasContext: true}}

	resolved, err := validateEntry(tr, infos, 0, 1, nil)

	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, "reused", resolved["posts"])
}

func TestValidateEntry_BeforeModelErrorAbortsAndSkipsModel(t *testing.T) {
	modelCalled := false
	wantErr := errors.New("denied")
	h := &fakeHandler{
		beforeModel: func(t *Transition, qp map[string]string) error { return wantErr },
		model: func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
			modelCalled = true
			return nil, nil
		},
	}
	r := &Router{}
	tr := &Transition{
		router:         r,
		providedModels: map[string]any{},
		resolvedModels: map[string]any{},
	}
	infos := []*HandlerInfo{{Name: "posts", Handler: h}}

	_, err := validateEntry(tr, infos, 0, 0, nil)

	assert.ErrorIs(t, err, wantErr)
	assert.False(t, modelCalled)
	assert.True(t, tr.IsAborted())
}

func TestGetModel_CallerProvidedModelWinsOverModelHook(t *testing.T) {
	hookCalled := false
	h := &fakeHandler{model: func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
		hookCalled = true
		return "from-hook", nil
	}}
	tr := &Transition{providedModels: map[string]any{"posts": "from-caller"}}
	hi := &HandlerInfo{Name: "posts", Handler: h}

	model, err := getModel(tr, hi, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "from-caller", model)
	assert.False(t, hookCalled)
}

func TestGetModel_FuncProvidedModelIsInvoked(t *testing.T) {
	tr := &Transition{providedModels: map[string]any{"posts": func() any { return "lazy" }}}
	hi := &HandlerInfo{Name: "posts"}

	model, err := getModel(tr, hi, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "lazy", model)
}

func TestGetModel_PredecessorResolvedModelIsFallback(t *testing.T) {
	predecessor := &Transition{resolvedModels: map[string]any{"posts": "from-predecessor"}}
	tr := &Transition{providedModels: map[string]any{}, predecessor: predecessor}
	hi := &HandlerInfo{Name: "posts"}

	model, err := getModel(tr, hi, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "from-predecessor", model)
}

func TestGetModel_RedirectReturningTransitionIsCoercedToNilModel(t *testing.T) {
	redirect := &Transition{}
	h := &fakeHandler{model: func(params map[string]string, t *Transition, qp map[string]string) (any, error) {
		return redirect, nil
	}}
	tr := &Transition{providedModels: map[string]any{}}
	hi := &HandlerInfo{Name: "posts", Handler: h}

	model, err := getModel(tr, hi, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, model)
}

func TestGetModel_NoModelHookReturnsNil(t *testing.T) {
	tr := &Transition{providedModels: map[string]any{}}
	hi := &HandlerInfo{Name: "posts", Handler: &fakeHandler{}}

	model, err := getModel(tr, hi, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, model)
}
