package transition

import "fmt"

// trigger is component H (spec.md §4.H): it bubbles a named event from the
// leaf of chain toward the root, stopping at the first handler whose event
// function returns anything other than the literal boolean true.
func trigger(chain []*HandlerInfo, ignoreFailure bool, name string, args ...any) error {
	handled := false
	for i := len(chain) - 1; i >= 0; i-- {
		hi := chain[i]
		eh, ok := hi.Handler.(EventHandlers)
		if !ok {
			continue
		}
		fn, ok := eh.Events()[name]
		if !ok {
			continue
		}
		handled = true
		result := fn(args...)
		if b, ok := result.(bool); ok && b {
			continue
		}
		break
	}
	if !handled && !ignoreFailure {
		return fmt.Errorf("nothing handled the %q event", name)
	}
	return nil
}
