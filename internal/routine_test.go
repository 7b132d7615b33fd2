// Tests for routine.go.

package artx_internal

import "testing"

func TestRoutineEnableDisable(t *testing.T) {
	r := NewRoutine("r", func() {})
	if !r.Enabled() {
		t.Fatalf("Enabled() = false, want true (new routines start enabled)")
	}
	r.Disable()
	if r.Enabled() || r.State() != RoutineDisabled {
		t.Fatalf("after Disable(): Enabled()=%v State()=%v", r.Enabled(), r.State())
	}
	r.Enable()
	if !r.Enabled() || r.State() != RoutineEnabled {
		t.Fatalf("after Enable(): Enabled()=%v State()=%v", r.Enabled(), r.State())
	}
}

func TestRoutineStateString(t *testing.T) {
	if RoutineEnabled.String() != "ENABLED" {
		t.Fatalf("RoutineEnabled.String() = %q", RoutineEnabled.String())
	}
	if RoutineDisabled.String() != "DISABLED" {
		t.Fatalf("RoutineDisabled.String() = %q", RoutineDisabled.String())
	}
}

func TestDisabledRoutineNotRun(t *testing.T) {
	ran := false
	r := NewRoutine("r", func() { ran = true })
	r.Disable()

	tcb, err := NewTask("x", 0, 1, 8)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	tcb.PushRoutine(r)
	idle := NewIdleTask("idle", 8)
	tasks := NewTaskList()
	tasks.Add(tcb)
	tasks.Add(idle)

	sched := NewScheduler(tasks, DefaultTickConfig(), NewSyncController(DefaultSyncConfig()), DefaultMonitorConfig(), NewTimeService(), NewLock(true))
	sched.runTask(tcb, nil)
	if ran {
		t.Fatalf("disabled routine ran")
	}
}
