// Tests for monitor.go, including scenario S2 from the spec.

package artx_internal

import (
	"bytes"
	"testing"
)

// S2: monitor interval=3, task A runs every tick. After tick 3 A is READY;
// the serializer emits a frame and A transitions to SENT. After tick 6,
// SENT -> COLLECT and current_cycles is reset to 0.
func TestMonitorScenarioS2(t *testing.T) {
	a, err := NewTask("A", 0, 1, 8)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	a.PushRoutine(NewRoutine("r", func() {}))
	idle := NewIdleTask("idle", 8)

	tasks := NewTaskList()
	for _, tcb := range []*TCB{a, idle} {
		if err := tasks.Add(tcb); err != nil {
			t.Fatalf("Add(%s): %v", tcb.Name, err)
		}
	}

	mon := DefaultMonitorConfig()
	mon.IntervalTicks = 3
	sched := NewScheduler(tasks, DefaultTickConfig(), NewSyncController(DefaultSyncConfig()), mon, NewTimeService(), NewLock(true))

	var transmitted bool
	onTransmit := func(*TCB) { transmitted = true }

	for i := 0; i < 3; i++ {
		sched.Tick(onTransmit)
	}
	if a.mon.state != MonitorReady {
		t.Fatalf("after tick 3, A state = %v, want READY", a.mon.state)
	}

	buf := &bytes.Buffer{}
	if err := SerializeMonitorFrame(buf, MonitorHeader{}, tasks); err != nil {
		t.Fatalf("SerializeMonitorFrame: %v", err)
	}
	if a.mon.state != MonitorSent {
		t.Fatalf("after serialize, A state = %v, want SENT", a.mon.state)
	}
	if got := buf.Bytes()[:4]; string(got) != "ARTX" {
		t.Fatalf("frame marker = %q, want ARTX", got)
	}

	for i := 0; i < 3; i++ {
		sched.Tick(onTransmit)
	}
	if a.mon.state != MonitorCollect {
		t.Fatalf("after tick 6, A state = %v, want COLLECT", a.mon.state)
	}
	if a.mon.currentCycles != 0 {
		t.Fatalf("after tick 6, A.currentCycles = %d, want 0", a.mon.currentCycles)
	}
	_ = transmitted
}

func TestStackUsageProbe(t *testing.T) {
	a, err := NewTask("A", 0, 1, 32)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if got := a.mon.stackUsage(); got != 0 {
		t.Fatalf("fresh task stackUsage() = %d, want 0", got)
	}
	// Simulate 5 bytes of user-stack growth from the bottom.
	region := a.stack[StackOverhead:]
	for i := len(region) - 5; i < len(region); i++ {
		region[i] = 0x42
	}
	if got := a.mon.stackUsage(); got != 5 {
		t.Fatalf("stackUsage() = %d, want 5", got)
	}
}
