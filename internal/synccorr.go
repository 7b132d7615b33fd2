// Tick synchronization: a proportional-only controller with symmetric
// saturation that steers the tick top toward a reference clock.

package artx_internal

// SyncConfig parameterizes the synchronization window and clamp.
type SyncConfig struct {
	// SyncTicks is the number of kernel ticks between reference-clock
	// sync pulses; sync_ctr free-runs in [-SyncTicks/2, +SyncTicks/2].
	SyncTicks int32 `yaml:"sync_ticks"`
	// MaxSyncAdjustPct bounds the per-correction adjustment as a percentage
	// of the nominal tick duration (default 1%).
	MaxSyncAdjustPct int32 `yaml:"max_sync_adjust_pct"`
}

func DefaultSyncConfig() *SyncConfig {
	return &SyncConfig{
		SyncTicks:        100,
		MaxSyncAdjustPct: 1,
	}
}

func (c *SyncConfig) maxSyncAdjust(tickDuration int32) int32 {
	adj := tickDuration * c.MaxSyncAdjustPct / 100
	if adj < 1 {
		adj = 1
	}
	return adj
}

// SyncController holds the free-running counter and the correction pending
// application to the next tick's top value.
type SyncController struct {
	cfg       *SyncConfig
	syncCtr   int32
	syncDelta int32
}

func NewSyncController(cfg *SyncConfig) *SyncController {
	return &SyncController{cfg: cfg}
}

// Tick advances the free-running counter downward, wrapping from -SyncTicks/2
// back up to +SyncTicks/2, mirroring ARTX_tick_sync's --artx_sync_ctr.
func (sc *SyncController) Tick() {
	sc.syncCtr--
	half := sc.cfg.SyncTicks / 2
	if sc.syncCtr < -half {
		sc.syncCtr = half
	}
}

// Sync implements tick_sync(): given the current reference timer value t and
// the nominal tick duration (in the same raw counter units as t and the
// timer top value), compute and clamp the offset, and stash -offset as the
// pending sync_delta for the next tick's top-value update.
func (sc *SyncController) Sync(t int32, tickDuration int32) {
	d := (sc.syncCtr*tickDuration - t) / sc.cfg.SyncTicks
	max := sc.cfg.maxSyncAdjust(tickDuration)
	if d > max {
		d = max
	} else if d < -max {
		d = -max
	}
	sc.syncDelta = -d
}

// SyncStatus is the get_sync_status() snapshot: sync_ctr, the reference
// timer value it was computed against, and the resulting correction.
type SyncStatus struct {
	SyncCtr    int32
	TimerVal   int32
	Correction int32
}

func (sc *SyncController) Status(timerVal int32) SyncStatus {
	return SyncStatus{
		SyncCtr:    sc.syncCtr,
		TimerVal:   timerVal,
		Correction: sc.syncDelta,
	}
}

// ApplyAndConsume returns the pending correction to be added to the nominal
// top value for the next tick, then clears it: the correction applies for
// exactly one tick.
func (sc *SyncController) ApplyAndConsume(nominalTop uint16) uint16 {
	delta := sc.syncDelta
	sc.syncDelta = 0
	adjusted := int32(nominalTop) + delta
	if adjusted < 0 {
		adjusted = 0
	}
	return uint16(adjusted)
}
