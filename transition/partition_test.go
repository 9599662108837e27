package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition_IdenticalChainsAreAllUnchanged(t *testing.T) {
	posts := &HandlerInfo{Name: "posts"}
	showPost := &HandlerInfo{Name: "showPost", Context: "1", hasContext: true}
	old := []*HandlerInfo{posts, showPost}
	next := []*HandlerInfo{posts, showPost}

	p := partition(old, next)

	assert.Len(t, p.unchanged, 2)
	assert.Empty(t, p.updatedContext)
	assert.Empty(t, p.entered)
	assert.Empty(t, p.exited)
}

func TestPartition_ContextChangeIsMonotone(t *testing.T) {
	old := []*HandlerInfo{
		{Name: "posts", Context: "a", hasContext: true},
		{Name: "showPost", Context: "1", hasContext: true},
	}
	next := []*HandlerInfo{
		{Name: "posts", Context: "b", hasContext: true},
		{Name: "showPost", Context: "1", hasContext: true},
	}

	p := partition(old, next)

	require := assert.New(t)
	require.Len(p.updatedContext, 2, "both levels should be classified updated once the ancestor's context changed")
	require.Empty(p.unchanged)
}

func TestPartition_HandlerChangeIsMonotoneAndSplitsExitedEntered(t *testing.T) {
	old := []*HandlerInfo{
		{Name: "posts"},
		{Name: "showPost", Context: "1", hasContext: true},
	}
	next := []*HandlerInfo{
		{Name: "about"},
		{Name: "aboutDetail", Context: "1", hasContext: true},
	}

	p := partition(old, next)

	assert.Empty(t, p.unchanged)
	assert.Empty(t, p.updatedContext)
	assert.Equal(t, []*HandlerInfo{old[1], old[0]}, p.exited, "exited should be deepest-first")
	assert.Equal(t, []*HandlerInfo{next[0], next[1]}, p.entered)
}

func TestPartition_ShorterNewChainExitsTheRemainder(t *testing.T) {
	old := []*HandlerInfo{
		{Name: "posts"},
		{Name: "showPost", Context: "1", hasContext: true},
	}
	next := []*HandlerInfo{
		{Name: "posts"},
	}

	p := partition(old, next)

	assert.Len(t, p.unchanged, 1)
	assert.Equal(t, []*HandlerInfo{old[1]}, p.exited)
}

func TestContextsDiffer_QueryParamChangeCountsAsContextChange(t *testing.T) {
	oldH := &HandlerInfo{Name: "posts", QueryParams: map[string]string{"sort": "new"}}
	newH := &HandlerInfo{Name: "posts", QueryParams: map[string]string{"sort": "top"}}
	assert.True(t, contextsDiffer(oldH, newH))
}

func TestContextsDiffer_UncomparableContextDoesNotPanic(t *testing.T) {
	oldH := &HandlerInfo{Name: "posts", Context: []string{"a"}, hasContext: true}
	newH := &HandlerInfo{Name: "posts", Context: []string{"a"}, hasContext: true}
	assert.NotPanics(t, func() { contextsDiffer(oldH, newH) })
}
