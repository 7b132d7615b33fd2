// Tests for synccorr.go, including scenario S3 from the spec.

package artx_internal

import "testing"

// S3: SYNC_TICKS=100, tick_duration=2000, MAX_SYNC_ADJUST=20. sync_ctr=10,
// timer_val=500. d = (10*2000-500)/100 = 195, clamped to 20, sync_delta=-20.
func TestSyncControllerScenarioS3(t *testing.T) {
	cfg := &SyncConfig{SyncTicks: 100, MaxSyncAdjustPct: 1} // 1% of 2000 = 20
	sc := &SyncController{cfg: cfg, syncCtr: 10}

	sc.Sync(500, 2000)
	if sc.syncDelta != -20 {
		t.Fatalf("syncDelta = %d, want -20", sc.syncDelta)
	}

	top := sc.ApplyAndConsume(2499)
	if top != 2479 {
		t.Fatalf("ApplyAndConsume = %d, want 2479", top)
	}
	// The correction applies for exactly one tick.
	if sc.syncDelta != 0 {
		t.Fatalf("syncDelta after consume = %d, want 0", sc.syncDelta)
	}
}

func TestSyncControllerClampIsSymmetric(t *testing.T) {
	cfg := &SyncConfig{SyncTicks: 100, MaxSyncAdjustPct: 1}
	sc := &SyncController{cfg: cfg, syncCtr: -40}
	sc.Sync(0, 2000)
	if sc.syncDelta != 20 {
		t.Fatalf("syncDelta = %d, want +20 (symmetric clamp)", sc.syncDelta)
	}
}

func TestSyncControllerTickWraps(t *testing.T) {
	cfg := DefaultSyncConfig()
	cfg.SyncTicks = 10
	sc := NewSyncController(cfg)
	for i := 0; i < 5; i++ {
		sc.Tick()
	}
	if sc.syncCtr != -5 {
		t.Fatalf("syncCtr = %d, want -5", sc.syncCtr)
	}
	sc.Tick()
	if sc.syncCtr != 5 {
		t.Fatalf("syncCtr = %d after wrap, want 5", sc.syncCtr)
	}
}
