package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteDef_CompileKinds(t *testing.T) {
	cases := []struct {
		segment   string
		wantKind  segmentKind
		wantName  string
		wantOpt   bool
	}{
		{"posts", segStatic, "posts", false},
		{":id", segDynamic, "id", false},
		{":id?", segDynamic, "id", true},
		{"*rest", segWildcard, "rest", false},
		{"", segStatic, "", false},
	}
	for _, c := range cases {
		rd := NewRoute("x", c.segment)
		assert.Equal(t, c.wantKind, rd.kind, c.segment)
		assert.Equal(t, c.wantName, rd.paramName, c.segment)
		assert.Equal(t, c.wantOpt, rd.optional, c.segment)
	}
}

func TestRouteDef_MatchSegment(t *testing.T) {
	id := NewRoute("showPost", ":id")
	value, ok, next := id.matchSegment([]string{"posts", "7"}, 1)
	assert.True(t, ok)
	assert.Equal(t, "7", value)
	assert.Equal(t, 2, next)

	optional := NewRoute("tab", ":tab?")
	_, ok, next = optional.matchSegment([]string{"posts"}, 1)
	assert.True(t, ok, "optional dynamic segment should match when absent")
	assert.Equal(t, 1, next, "absent optional segment should not advance the cursor")

	required := NewRoute("showPost", ":id")
	_, ok, _ = required.matchSegment([]string{"posts"}, 1)
	assert.False(t, ok, "required dynamic segment must fail when absent")
}

func TestRouteDef_FilterRejectsInvalidParam(t *testing.T) {
	rd := NewRoute("showPost", ":id").WithFilter("id", `^\d+$`)
	_, ok, _ := rd.matchSegment([]string{"abc"}, 0)
	assert.False(t, ok)

	_, ok, _ = rd.matchSegment([]string{"42"}, 0)
	assert.True(t, ok)
}

func TestRouteDef_Wildcard(t *testing.T) {
	rd := NewRoute("catchAll", "*rest")
	value, ok, next := rd.matchSegment([]string{"a", "b", "c"}, 0)
	assert.True(t, ok)
	assert.Equal(t, "a/b/c", value)
	assert.Equal(t, 3, next)
}
