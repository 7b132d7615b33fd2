// Tests for config.go.

package artx_internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testTasksConfig struct {
	Heartbeat struct {
		IntervalTicks int32 `yaml:"interval_ticks"`
	} `yaml:"heartbeat"`
}

func TestLoadConfigBothSections(t *testing.T) {
	doc := []byte(`
artx_config:
  tick_config:
    clock_freq_hz: 8000000
    prescaler: 8
    nominal_top_value: 999
  monitor_config:
    enabled: false
    interval_ticks: 50
tasks:
  heartbeat:
    interval_ticks: 7
`)
	var tasksCfg testTasksConfig
	cfg, err := LoadConfig("", &tasksCfg, doc)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TickConfig.ClockFreqHz != 8_000_000 {
		t.Fatalf("ClockFreqHz = %d, want 8000000", cfg.TickConfig.ClockFreqHz)
	}
	if cfg.MonitorConfig.Enabled {
		t.Fatalf("MonitorConfig.Enabled = true, want false")
	}
	if cfg.MonitorConfig.IntervalTicks != 50 {
		t.Fatalf("MonitorConfig.IntervalTicks = %d, want 50", cfg.MonitorConfig.IntervalTicks)
	}
	if tasksCfg.Heartbeat.IntervalTicks != 7 {
		t.Fatalf("tasksCfg.Heartbeat.IntervalTicks = %d, want 7", tasksCfg.Heartbeat.IntervalTicks)
	}
}

func TestLoadConfigDefaultsWhenEmpty(t *testing.T) {
	cfg, err := LoadConfig("", nil, []byte(""))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("LoadConfig(empty) mismatch (-want +got):\n%s", diff)
	}
}
