// Per-task/per-routine monitoring: cycle counters, stack-usage probe, the
// COLLECT/READY/SENT state machine, and the frame serializer.

package artx_internal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MonitorState mirrors the COLLECT/READY/SENT state machine.
type MonitorState int

const (
	MonitorCollect MonitorState = iota
	MonitorReady
	MonitorSent
)

func (s MonitorState) String() string {
	switch s {
	case MonitorReady:
		return "READY"
	case MonitorSent:
		return "SENT"
	default:
		return "COLLECT"
	}
}

// MonitorConfig controls whether monitoring is compiled in (enable_monitor)
// and how often the serializer sweeps (monitor_set_interval).
type MonitorConfig struct {
	Enabled          bool  `yaml:"enabled"`
	IntervalTicks    int32 `yaml:"interval_ticks"`
	ProtocolVersion  uint8 `yaml:"-"`
}

// MonitorProtocolVersion is the wire format version emitted in every header
// record (original_source/include/artx/monitor.h: ARTX_MONITOR_VERSION = 0).
const MonitorProtocolVersion = 0

func DefaultMonitorConfig() *MonitorConfig {
	return &MonitorConfig{
		Enabled:         true,
		IntervalTicks:   100,
		ProtocolVersion: MonitorProtocolVersion,
	}
}

// cycleCounters is the shared sub-record layout for both TCB and RCB
// monitoring.
type cycleCounters struct {
	currentCycles int32
	peakCycles    int32
	totalCycles   int64
	runCounter    uint32
	intervals     uint32
	state         MonitorState
}

func (c *cycleCounters) beginRun() {
	c.currentCycles = -c.currentCycles
	// elapsed-since-entry is credited on endRun; begin just flips the sign
	// of this record's own counter so endRun's single line flips it back and
	// adds the elapsed count, with no separate "elapsed" accumulator needed.
}

func (c *cycleCounters) endRun(elapsed int32) {
	c.currentCycles = -c.currentCycles + elapsed
	c.runCounter++
	if c.currentCycles > c.peakCycles {
		c.peakCycles = c.currentCycles
	}
	c.totalCycles += int64(c.currentCycles)
}

// sweep advances the state machine at an interval boundary.
func (c *cycleCounters) sweep(ranSinceLastReport bool) {
	switch c.state {
	case MonitorCollect:
		if ranSinceLastReport {
			c.state = MonitorReady
		} else {
			c.intervals++
		}
	case MonitorSent:
		c.state = MonitorCollect
		c.currentCycles = 0
	}
}

// markSent moves the record to SENT and resets the counters it has just
// reported, so the next sweep sees only runs since this report.
func (c *cycleCounters) markSent() {
	c.state = MonitorSent
	c.runCounter = 0
	c.peakCycles = 0
	c.totalCycles = 0
	c.intervals = 0
}

// routineMonitor is the RCB monitoring sub-record.
type routineMonitor struct {
	name    string
	running bool
	cycleCounters
}

func newRoutineMonitor(name string) *routineMonitor {
	return &routineMonitor{name: name}
}

// taskMonitor is the TCB monitoring sub-record, plus the stack-usage probe.
type taskMonitor struct {
	name      string
	stackSize int
	stack     []byte // shared with TCB.stack; read-only here
	cycleCounters
}

func newTaskMonitor(name string, userStackSize int, stack []byte) *taskMonitor {
	return &taskMonitor{name: name, stackSize: userStackSize, stack: stack}
}

// stackUsage scans from the bottom of the reserved region for the first
// non-sentinel byte, giving the high-water mark. The scan excludes the
// kernel-reserved StackOverhead bytes at the front of the buffer: those
// bytes are never user-writable so they never carry the sentinel's meaning.
func (m *taskMonitor) stackUsage() int {
	region := m.stack[StackOverhead:]
	for i, b := range region {
		if b != StackSentinel {
			return len(region) - i
		}
	}
	return 0
}

// --- Serializer -------------------------------------------------------

var monitorMarker = [4]byte{'A', 'R', 'T', 'X'}

// MonitorHeader is the fixed-size record preceding the T/R stream.
type MonitorHeader struct {
	ProtocolVersion  uint8
	TCBPrefixSize    uint8
	RCBPrefixSize    uint8
	NominalTickUsec  uint32
	CurrentTickUsec  uint32
	Prescaler        uint16
	MonitorInterval  int32
	ClockFreqHz      uint32
}

const (
	tcbPrefixSize = 4 + 4 + 2 + 2 + 1 // current/peak cycles + run_counter + intervals + state, packed form
	rcbPrefixSize = 4 + 4 + 2 + 1     // current/peak cycles + run_counter + state
)

// SerializeMonitorFrame emits one full monitoring frame: marker, header, one
// 'T'/'R' record per entity currently in MonitorReady, then 'E'. Entities
// transmitted move to MonitorSent as a side effect.
func SerializeMonitorFrame(w io.Writer, hdr MonitorHeader, tasks *TaskList) error {
	buf := &bytes.Buffer{}
	buf.Write(monitorMarker[:])

	hdr.TCBPrefixSize = tcbPrefixSize
	hdr.RCBPrefixSize = rcbPrefixSize
	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("monitor header: %w", err)
	}

	tasks.Each(func(t *TCB) {
		if t.mon == nil || t.mon.state != MonitorReady {
			return
		}
		writeTCBRecord(buf, t)
		t.mon.markSent()
		for r := t.Routines(); r != nil; r = r.Next {
			if r.mon == nil || r.mon.state != MonitorReady {
				continue
			}
			writeRCBRecord(buf, r)
			r.mon.markSent()
		}
	})

	buf.WriteByte('E')
	_, err := w.Write(buf.Bytes())
	return err
}

func writeTCBRecord(buf *bytes.Buffer, t *TCB) {
	buf.WriteByte('T')
	binary.Write(buf, binary.LittleEndian, int32(t.mon.currentCycles))
	binary.Write(buf, binary.LittleEndian, int32(t.mon.peakCycles))
	binary.Write(buf, binary.LittleEndian, uint16(t.mon.runCounter))
	binary.Write(buf, binary.LittleEndian, uint16(t.mon.intervals))
	buf.WriteByte(byte(t.mon.state))
	buf.WriteString(t.Name)
	buf.WriteByte(0)
}

func writeRCBRecord(buf *bytes.Buffer, r *RCB) {
	buf.WriteByte('R')
	binary.Write(buf, binary.LittleEndian, int32(r.mon.currentCycles))
	binary.Write(buf, binary.LittleEndian, int32(r.mon.peakCycles))
	binary.Write(buf, binary.LittleEndian, uint16(r.mon.runCounter))
	buf.WriteByte(byte(r.mon.state))
	buf.WriteString(r.Name)
	buf.WriteByte(0)
}

// anyReady reports whether any task or routine in the list is READY, used
// by the dispatcher to decide whether the idle task should request a
// transmit this pass: a sweep that found nothing to report shouldn't wake
// the serializer.
func anyReady(tasks *TaskList) bool {
	ready := false
	tasks.Each(func(t *TCB) {
		if t.mon != nil && t.mon.state == MonitorReady {
			ready = true
		}
		for r := t.Routines(); r != nil; r = r.Next {
			if r.mon != nil && r.mon.state == MonitorReady {
				ready = true
			}
		}
	})
	return ready
}
