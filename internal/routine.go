// Routine Control Block: one per routine pushed onto a task's run list.

package artx_internal

// RoutineState mirrors enum ARTX_rout_state.
type RoutineState int

const (
	RoutineDisabled RoutineState = iota
	RoutineEnabled
)

func (s RoutineState) String() string {
	if s == RoutineEnabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// RoutineFunc is a parameterless, return-less routine body, matching the
// original's `void (*rout)(void)` exactly.
type RoutineFunc func()

// RCB is the routine control block: a function pointer plus an intrusive
// link into the owning task's routine list.
type RCB struct {
	Name  string
	Rout  RoutineFunc
	Next  *RCB
	state RoutineState
	mon   *routineMonitor
}

// NewRoutine allocates an RCB, initially enabled. Routines start disabled on
// the original target (artx_INITIAL_ROUT_STATE_) only because
// ARTX_ROUT(routine) is a static allocation macro with no separate "enable at
// push time" step; since ARTX_task_push_rout here (TCB.PushRoutine) is the
// single point of entry, we enable immediately, matching the common case
// where every pushed routine is meant to run right away.
func NewRoutine(name string, fn RoutineFunc) *RCB {
	return &RCB{
		Name:  name,
		Rout:  fn,
		state: RoutineEnabled,
		mon:   newRoutineMonitor(name),
	}
}

func (r *RCB) Enable()             { r.state = RoutineEnabled }
func (r *RCB) Disable()            { r.state = RoutineDisabled }
func (r *RCB) State() RoutineState { return r.state }
func (r *RCB) Enabled() bool       { return r.state == RoutineEnabled }
