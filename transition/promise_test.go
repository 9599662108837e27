package transition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromise_ResolveCallsFulfillCallback(t *testing.T) {
	p := newPromise()
	var got map[string]any
	p.then(func(v map[string]any) { got = v }, func(error) { t.Fatal("onRejected called") })

	p.resolve(map[string]any{"id": "1"})

	assert.Equal(t, map[string]any{"id": "1"}, got)
	assert.True(t, p.settled())
}

func TestPromise_RejectCallsRejectCallback(t *testing.T) {
	p := newPromise()
	wantErr := errors.New("boom")
	var got error
	p.then(func(map[string]any) { t.Fatal("onFulfilled called") }, func(err error) { got = err })

	p.reject(wantErr)

	assert.Equal(t, wantErr, got)
}

func TestPromise_ThenAfterSettlementRunsImmediately(t *testing.T) {
	p := newPromise()
	p.resolve(map[string]any{"ok": true})

	var got map[string]any
	p.then(func(v map[string]any) { got = v }, nil)

	assert.Equal(t, map[string]any{"ok": true}, got)
}

func TestPromise_MultipleThenRegistrationsAllObserveOutcome(t *testing.T) {
	p := newPromise()
	var a, b bool
	p.then(func(map[string]any) { a = true }, nil)
	p.then(func(map[string]any) { b = true }, nil)

	p.resolve(nil)

	assert.True(t, a)
	assert.True(t, b)
}

func TestPromise_SecondResolveIsNoOp(t *testing.T) {
	p := newPromise()
	p.resolve(map[string]any{"first": true})
	p.resolve(map[string]any{"second": true})

	var got map[string]any
	p.then(func(v map[string]any) { got = v }, nil)
	assert.Equal(t, map[string]any{"first": true}, got)
}
