package transition

import "sync"

// promise is the thenable a Transition exposes to callers. It is grounded
// on the teacher's action/future.go (a mutex-guarded done flag plus stored
// callbacks), generalized from a single stored callback to a list so that
// multiple independent Then() registrations — including ones made after
// the promise has already settled — all observe the outcome, the way a
// real JS promise (and router.js's ambient promise library, per spec.md §1)
// behaves.
type promise struct {
	mu         sync.Mutex
	done       bool
	value      map[string]any
	err        error
	onFulfill  []func(map[string]any)
	onReject   []func(error)
}

func newPromise() *promise {
	return &promise{}
}

// then registers callbacks to run on settlement, matching spec.md §4.E's
// `then(onFulfilled, onRejected)` contract. Either callback may be nil.
func (p *promise) then(onFulfilled func(map[string]any), onRejected func(error)) {
	p.mu.Lock()
	if !p.done {
		if onFulfilled != nil {
			p.onFulfill = append(p.onFulfill, onFulfilled)
		}
		if onRejected != nil {
			p.onReject = append(p.onReject, onRejected)
		}
		p.mu.Unlock()
		return
	}
	value, err := p.value, p.err
	p.mu.Unlock()

	if err != nil {
		if onRejected != nil {
			onRejected(err)
		}
		return
	}
	if onFulfilled != nil {
		onFulfilled(value)
	}
}

// resolve settles the promise successfully. A no-op if already settled.
func (p *promise) resolve(value map[string]any) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	p.value = value
	callbacks := p.onFulfill
	p.onFulfill, p.onReject = nil, nil
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(value)
	}
}

// reject settles the promise with a failure. A no-op if already settled.
func (p *promise) reject(err error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	p.err = err
	callbacks := p.onReject
	p.onFulfill, p.onReject = nil, nil
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(err)
	}
}

// settled reports whether resolve/reject has already been called.
func (p *promise) settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
