// Task Control Block and the priority-ordered task list.

package artx_internal

import (
	"fmt"
	"math"
)

const (
	// User task priorities, after PrioUserOffset is added, must fall in
	// [PrioUserOffset, PrioUserOffset+PrioUserMax] = [16, 239]; see
	// original_source/include/artx/task.h (ARTX_PRIO_USER_MAX = 223).
	PrioUserOffset = 16
	PrioUserMax    = 223
	PrioIdle       = 255

	// artx_CONTEXT_SIZE: full register file (32 GP regs) + status register.
	ContextSize = 33
	// artx_TASK_EXTRA_STACK: task entry return address + one nested
	// interrupt's return address.
	TaskExtraStack = 4
	// artx_MONITOR_EXTRA_STACK: sentinel zone used for the stack high-water probe.
	MonitorExtraStack = 8
	// artx_STACK_OVERHEAD with monitoring compiled in.
	StackOverhead = ContextSize + TaskExtraStack + MonitorExtraStack

	// Schedule saturates at INT16_MIN rather than wrapping, so a task that
	// missed many deadlines stays runnable instead of underflowing back to
	// a large positive value.
	ScheduleFloor = math.MinInt16

	// Sentinel byte pre-loaded into a task's reserved stack region.
	StackSentinel byte = 0xC3
)

var taskLog = NewCompLogger("task")

// ConfigError reports a design-time violation normally caught by
// ARTX_STATIC_ASSERT on the original target; Go has no compile-time
// assertions over runtime values, so these surface as errors from
// Task construction / TaskList.Add instead.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// TCB is the task control block. The hardware-specific `sp`/`sp_ctx`
// fields have no meaning under Go — context save/restore is the Go runtime's
// own job once a routine call returns (see DESIGN.md, "Concurrency model
// decision") — so they are represented only as the simulated stack buffer
// used by the monitor's high-water-mark probe.
type TCB struct {
	Name     string
	Priority uint8
	Interval int32
	Schedule int32
	Next     *TCB

	routHead, routTail *RCB

	mon *taskMonitor

	// Simulated stack: StackOverhead kernel bytes followed by the
	// user-requested stack size, sentinel-filled at construction.
	stack         []byte
	userStackSize int
}

// TaskOpt configures optional NewTask parameters.
type TaskOpt func(*TCB)

// WithOffset sets the initial scheduling offset (ARTX_TASK_OFFS): the task's
// Schedule starts at offset+1, letting tasks of the same interval be staggered.
func WithOffset(offset int32) TaskOpt {
	return func(t *TCB) { t.Schedule = offset + 1 }
}

// NewTask allocates a user task. priority is in [0, PrioUserMax]; the
// PrioUserOffset is added automatically. interval
// must be strictly positive for user tasks.
func NewTask(name string, priority uint8, interval int32, userStackSize int, opts ...TaskOpt) (*TCB, error) {
	if interval <= 0 {
		return nil, configErrorf("task %q: interval must be > 0, got %d", name, interval)
	}
	if priority > PrioUserMax {
		return nil, configErrorf("task %q: priority %d exceeds PrioUserMax (%d)", name, priority, PrioUserMax)
	}
	t := &TCB{
		Name:          name,
		Priority:      priority + PrioUserOffset,
		Interval:      interval,
		Schedule:      1, // offset+1 with the default offset of 0 (ARTX_TASK_OFFS)
		userStackSize: userStackSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.allocStack()
	t.mon = newTaskMonitor(name, t.userStackSize, t.stack)
	return t, nil
}

// NewIdleTask allocates the one idle task: priority 255, interval 0, never
// decremented below schedule 0.
func NewIdleTask(name string, userStackSize int) *TCB {
	t := &TCB{
		Name:          name,
		Priority:      PrioIdle,
		Interval:      0,
		Schedule:      0,
		userStackSize: userStackSize,
	}
	t.allocStack()
	t.mon = newTaskMonitor(name, t.userStackSize, t.stack)
	return t
}

func (t *TCB) allocStack() {
	t.stack = make([]byte, StackOverhead+t.userStackSize)
	for i := range t.stack {
		t.stack[i] = StackSentinel
	}
}

// PushRoutine appends an RCB to the task's routine list (ARTX_task_push_rout).
func (t *TCB) PushRoutine(r *RCB) {
	r.Next = nil
	if t.routTail == nil {
		t.routHead = r
	} else {
		t.routTail.Next = r
	}
	t.routTail = r
}

// Routines returns the head of the intrusive routine list, for iteration.
func (t *TCB) Routines() *RCB { return t.routHead }

// SetInterval live-updates the rescheduling interval (ARTX_task_set_interval).
func (t *TCB) SetInterval(ticks int32) { t.Interval = ticks }

// Runnable reports whether the task's schedule has reached dispatch time.
func (t *TCB) Runnable() bool { return t.Schedule <= 0 }

// decrementSchedule applies the saturating per-tick decrement. The idle
// task's interval is 0 and its schedule is never decremented past 0.
func (t *TCB) decrementSchedule() {
	if t.Priority == PrioIdle {
		return
	}
	if t.Schedule > ScheduleFloor {
		t.Schedule--
	}
}

// TaskList is the priority-ordered, singly-linked list of all tasks
// (artx_task_list). It always ends with the idle task.
type TaskList struct {
	head *TCB
	idle *TCB
}

func NewTaskList() *TaskList { return &TaskList{} }

// Add inserts t into the list in ascending-priority order (ARTX_task_init).
// Priorities must be unique across tasks.
func (l *TaskList) Add(t *TCB) error {
	if t.Priority == PrioIdle {
		if l.idle != nil {
			return configErrorf("task %q: idle task already registered (%q)", t.Name, l.idle.Name)
		}
	}
	var prev *TCB
	for cur := l.head; cur != nil; cur = cur.Next {
		if cur.Priority == t.Priority {
			return configErrorf("task %q: priority %d already used by task %q", t.Name, t.Priority, cur.Name)
		}
		if cur.Priority > t.Priority {
			break
		}
		prev = cur
	}
	if prev == nil {
		t.Next = l.head
		l.head = t
	} else {
		t.Next = prev.Next
		prev.Next = t
	}
	if t.Priority == PrioIdle {
		l.idle = t
	}
	taskLog.Infof("registered task %q priority=%d interval=%d", t.Name, t.Priority, t.Interval)
	return nil
}

// Head returns the first (highest-priority) TCB.
func (l *TaskList) Head() *TCB { return l.head }

// Idle returns the idle task, or nil if none has been added yet.
func (l *TaskList) Idle() *TCB { return l.idle }

// Each calls fn for every task in ascending-priority order.
func (l *TaskList) Each(fn func(*TCB)) {
	for cur := l.head; cur != nil; cur = cur.Next {
		fn(cur)
	}
}

// Validate checks invariant 1: non-empty, sorted, idle task last with
// interval 0.
func (l *TaskList) Validate() error {
	if l.head == nil {
		return configErrorf("task list is empty")
	}
	if l.idle == nil {
		return configErrorf("no idle task registered")
	}
	var prevPrio int = -1
	var last *TCB
	for cur := l.head; cur != nil; cur = cur.Next {
		if int(cur.Priority) <= prevPrio {
			return configErrorf("task list is not strictly sorted by priority at %q", cur.Name)
		}
		prevPrio = int(cur.Priority)
		last = cur
	}
	if last != l.idle {
		return configErrorf("idle task %q is not the lowest-priority task", l.idle.Name)
	}
	if l.idle.Interval != 0 {
		return configErrorf("idle task %q has nonzero interval", l.idle.Name)
	}
	return nil
}
