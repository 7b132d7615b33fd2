// Kernel wires the task list, scheduler, monitor, sync controller, lock and
// time service into the single object a caller drives one tick at a time.
// Grounded on the teacher's runner.go lifecycle (config load, component
// wiring, deferred shutdown) but reshaped: ARTX has no HTTP endpoints or
// compressor pool, and "running" means repeatedly calling Tick rather than
// blocking on a signal channel, so Run here drives a time.Ticker instead of
// signal.Notify.

package artx_internal

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

var kernelLog = NewCompLogger("kernel")

type Kernel struct {
	cfg       *Config
	tasks     *TaskList
	sched     *Scheduler
	sync      *SyncController
	lock      *Lock
	time      *TimeService
	transport Transport

	monHeader MonitorHeader
	tickCount uint64
}

// NewKernel builds a Kernel from cfg and an already-populated, validated task
// list (the caller constructs tasks via NewTask/NewIdleTask and TaskList.Add
// before calling this, mirroring ARTX_task_init followed by
// ARTX_task_push_rout at startup).
func NewKernel(cfg *Config, tasks *TaskList, transport Transport) (*Kernel, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := tasks.Validate(); err != nil {
		return nil, fmt.Errorf("NewKernel: %w", err)
	}
	if transport == nil {
		var err error
		transport, err = NewStdoutTransport(nil)
		if err != nil {
			return nil, fmt.Errorf("NewKernel: %w", err)
		}
	}

	sync := NewSyncController(cfg.SyncConfig)
	lock := NewLock(true)
	ts := NewTimeService()
	sched := NewScheduler(tasks, cfg.TickConfig, sync, cfg.MonitorConfig, ts, lock)

	k := &Kernel{
		cfg:       cfg,
		tasks:     tasks,
		sched:     sched,
		sync:      sync,
		lock:      lock,
		time:      ts,
		transport: transport,
		monHeader: MonitorHeader{
			ProtocolVersion: cfg.MonitorConfig.ProtocolVersion,
			ClockFreqHz:     cfg.TickConfig.ClockFreqHz,
			Prescaler:       cfg.TickConfig.Prescaler,
			NominalTickUsec: cfg.TickConfig.TickLengthUsec(),
			MonitorInterval: cfg.MonitorConfig.IntervalTicks,
		},
	}
	return k, nil
}

// Tick drives exactly one tick of bookkeeping plus one task activation. It
// returns the task that ran.
func (k *Kernel) Tick() *TCB {
	k.tickCount++
	k.monHeader.CurrentTickUsec = k.cfg.TickConfig.TickLengthUsec()
	t := k.sched.Tick(k.emitMonitorFrame)
	return t
}

// AdvanceTicks runs n ticks of bookkeeping with no task activation, for
// simulating the passage of time without a concurrent execution model (see
// scheduler.go's concurrency-model note).
func (k *Kernel) AdvanceTicks(n int) {
	k.tickCount += uint64(n)
	k.sched.AdvanceTicks(n)
}

func (k *Kernel) emitMonitorFrame(idle *TCB) {
	frame := &bytes.Buffer{}
	if err := SerializeMonitorFrame(frame, k.monHeader, k.tasks); err != nil {
		kernelLog.Errorf("monitor serialize: %v", err)
		return
	}
	if err := k.transport.Write(frame.Bytes()); err != nil {
		kernelLog.Errorf("monitor transmit: %v", err)
	}
}

// Lock exposes the nestable interrupt-disable primitive to task code.
func (k *Kernel) Lock() *Lock { return k.lock }

// Time exposes the uptime accumulators.
func (k *Kernel) Time() *TimeService { return k.time }

// Sync exposes tick_sync()/get_sync_status(). referenceTimerVal is the raw
// counter value read at the reference-clock interrupt; the correction is
// computed in the same raw counter units as the timer's nominal top value,
// not in microseconds.
func (k *Kernel) Sync(referenceTimerVal int32) SyncStatus {
	k.sync.Sync(referenceTimerVal, int32(k.cfg.TickConfig.NominalTopValue))
	return k.sync.Status(referenceTimerVal)
}

// SetMonitorInterval live-updates the monitor sweep/transmit interval
// (monitor_set_interval); 0 disables monitoring emit.
func (k *Kernel) SetMonitorInterval(ticks int32) {
	k.sched.SetMonitorInterval(ticks)
	k.monHeader.MonitorInterval = ticks
}

// Tasks exposes the task list for inspection and test assertions.
func (k *Kernel) Tasks() *TaskList { return k.tasks }

// Run repeatedly calls Tick at the nominal tick interval until ctx is
// cancelled, matching the teacher's Run()-blocks-until-shutdown shape
// without the HTTP/compressor components ARTX doesn't have.
func (k *Kernel) Run(ctx context.Context) {
	interval := time.Duration(k.cfg.TickConfig.TickLengthUsec()) * time.Microsecond
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	kernelLog.Infof("kernel running, tick interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			kernelLog.Warnf("context cancelled, stopping after %d ticks", k.tickCount)
			return
		case <-ticker.C:
			k.Tick()
		}
	}
}
