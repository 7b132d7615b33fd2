// Scheduler core: tick bookkeeping and priority-ordered task selection.
// Grounded on the teacher's scheduler.go time-heap dispatch loop, adapted
// from a min-heap of deadlines to a static priority-ordered list walk,
// since ARTX's selection policy is "first runnable TCB in priority order",
// not "next deadline".
//
// Concurrency model: the original target runs one task's context at a time
// on bare metal, preempted only by the tick ISR. There is no faithful way to
// reproduce "preempt mid-routine" in portable Go without per-task goroutines
// racing a scheduler goroutine, which would make tests nondeterministic and
// impossible to validate without running them. Instead, Tick is the sole
// synchronous entry point: it performs the ISR-side bookkeeping (point 1-5
// below) and then runs exactly one full task activation (every enabled,
// runnable routine plus the epilogue) before returning — tasks never suspend
// mid-routine by kernel call, only between routines, so one activation per
// Tick is a faithful stand-in for bare-metal preemption. AdvanceTicks lets a
// caller simulate the passage of N ticks worth of bookkeeping without
// running a task body, for scenarios where a task would in reality span
// multiple ticks mid-routine.
package artx_internal

var schedLog = NewCompLogger("scheduler")

// Scheduler owns the tick-driven bookkeeping and task selection policy.
type Scheduler struct {
	tasks *TaskList
	tick  *TickConfig
	sync  *SyncController
	mon   *MonitorConfig

	time *TimeService
	lock *Lock

	monitorCountdown int32
	transmitRequest  bool
	current          *TCB
}

func NewScheduler(tasks *TaskList, tick *TickConfig, sync *SyncController, mon *MonitorConfig, ts *TimeService, lock *Lock) *Scheduler {
	return &Scheduler{
		tasks:            tasks,
		tick:             tick,
		sync:             sync,
		mon:              mon,
		time:             ts,
		lock:             lock,
		monitorCountdown: mon.IntervalTicks,
	}
}

// Select walks the task list in priority order and returns the first
// runnable TCB. The idle task is always runnable, so this never returns
// nil once the list has been validated.
func (s *Scheduler) Select() *TCB {
	for t := s.tasks.Head(); t != nil; t = t.Next {
		if t.Runnable() {
			return t
		}
	}
	return s.tasks.Idle()
}

// bookkeeping runs the per-tick steps: advance time, credit the running
// task's cycle counter, decrement every task's schedule, apply the pending
// tick-sync correction, and sweep the monitor state machine at interval
// boundaries.
func (s *Scheduler) bookkeeping() {
	s.time.Advance(s.tick.TickLengthUsec())

	if s.mon.Enabled && s.current != nil && s.current.mon != nil && s.current.mon.state == MonitorCollect {
		s.current.mon.currentCycles++
	}

	s.tasks.Each(func(t *TCB) { t.decrementSchedule() })

	s.sync.Tick()
	s.tick.CurrentTopValue = s.sync.ApplyAndConsume(s.tick.NominalTopValue)

	if s.mon.Enabled && s.mon.IntervalTicks > 0 {
		s.monitorCountdown--
		if s.monitorCountdown <= 0 {
			s.sweepMonitors()
			s.transmitRequest = anyReady(s.tasks)
			s.monitorCountdown = s.mon.IntervalTicks
		}
	}
}

// SetMonitorInterval live-updates how often the monitor sweeps and requests
// a transmit (monitor_set_interval). ticks == 0 disables monitoring emit:
// the sweep stops advancing and no further transmit is requested, though
// counters already in flight are left untouched.
func (s *Scheduler) SetMonitorInterval(ticks int32) {
	s.mon.IntervalTicks = ticks
	if ticks > 0 {
		s.monitorCountdown = ticks
	}
}

func (s *Scheduler) sweepMonitors() {
	s.tasks.Each(func(t *TCB) {
		if t.mon != nil {
			t.mon.sweep(t.mon.runCounter > 0)
		}
		for r := t.Routines(); r != nil; r = r.Next {
			if r.mon != nil {
				r.mon.sweep(r.mon.runCounter > 0)
			}
		}
	})
}

// runTask executes one full activation of t: every enabled routine once,
// then the epilogue (reschedule, finalize monitoring, idle-task transmit
// gate).
func (s *Scheduler) runTask(t *TCB, onTransmit func(*TCB)) {
	s.current = t
	for r := t.Routines(); r != nil; r = r.Next {
		if !r.Enabled() {
			continue
		}
		if r.mon != nil {
			r.mon.beginRun()
			r.mon.running = true
		}
		r.Rout()
		if r.mon != nil {
			r.mon.running = false
			r.mon.endRun(1)
		}
	}

	s.lock.Lock()
	t.Schedule += t.Interval
	if t.mon != nil {
		t.mon.endRun(0)
	}
	doTransmit := t == s.tasks.Idle() && s.transmitRequest
	if doTransmit {
		s.transmitRequest = false
	}
	s.lock.Unlock()

	if doTransmit && onTransmit != nil {
		onTransmit(t)
	}
}

// Tick performs one full tick: bookkeeping, then selection and execution of
// exactly one task activation. onTransmit is invoked (outside the lock) iff
// the idle task ran and a monitor transmit was pending.
func (s *Scheduler) Tick(onTransmit func(*TCB)) *TCB {
	s.bookkeeping()
	t := s.Select()
	s.runTask(t, onTransmit)
	return t
}

// AdvanceTicks runs N ticks of bookkeeping only, with no task activation,
// for simulating a long-running routine that spans multiple ticks without
// actually modeling goroutine-level preemption.
func (s *Scheduler) AdvanceTicks(n int) {
	for i := 0; i < n; i++ {
		s.bookkeeping()
	}
}

// SyncStatus returns the sync counter and pending correction, with TimerVal
// set to the currently armed top value rather than a reference timer reading.
func (s *Scheduler) SyncStatus() SyncStatus {
	return s.sync.Status(int32(s.tick.CurrentTopValue))
}
