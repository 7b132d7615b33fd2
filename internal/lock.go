// Lock primitive: disable/enable the tick interrupt path.
//
// On the real target this is "disable/enable the global interrupt flag";
// here it is a depth counter that task code (via Kernel.Lock) and the
// scheduler's task epilogue take around critical sections. The tick path
// does not consult it: holding the lock does not hold off Kernel.Tick or
// Scheduler.Tick. allowNestedLocks mirrors
// ARTX_ALLOW_NESTED_LOCKS: when true, lock()/unlock() maintain a nesting
// counter and only the 1->0 transition on unlock actually reopens the gate.

package artx_internal

import "sync"

var lockLog = NewCompLogger("lock")

type Lock struct {
	mu             sync.Mutex
	depth          int
	allowNested    bool
	underflowCount int
}

func NewLock(allowNested bool) *Lock {
	return &Lock{allowNested: allowNested}
}

// Lock takes the lock by raising the depth. With nesting disabled, every call
// takes it (matching the non-nested target build where lock/unlock are
// unconditional).
func (l *Lock) Lock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.depth++
}

// Unlock releases the lock and reports whether it is now fully open. With
// nesting enabled, only the transition from depth 1 to 0 opens it. An unbalanced Unlock is undefined
// behavior on the original target; here it is clamped at 0 and logged, since
// Go has no way to "wrap a counter" safely without risking a negative depth
// poisoning every subsequent Lock/Unlock pair.
func (l *Lock) Unlock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.depth == 0 {
		l.underflowCount++
		lockLog.Warnf("unbalanced unlock (count=%d)", l.underflowCount)
		return true
	}
	l.depth--
	if !l.allowNested {
		l.depth = 0
		return true
	}
	return l.depth == 0
}

// Locked reports whether the gate is currently held.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0
}
