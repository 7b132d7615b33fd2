// Tick source configuration: the timer/interrupt that drives the scheduler
// (original_source/include/artx/tick.h).

package artx_internal

// TickSource mirrors the four ARTX_TICK_SOURCE values.
type TickSource int

const (
	TickTimer0Overflow TickSource = iota + 1
	TickTimer1Overflow
	TickTimer1Compare
	TickExternalInterrupt
)

func (s TickSource) String() string {
	switch s {
	case TickTimer0Overflow:
		return "TIMER0_OVERFLOW"
	case TickTimer1Overflow:
		return "TIMER1_OVERFLOW"
	case TickTimer1Compare:
		return "TIMER1_COMPARE"
	case TickExternalInterrupt:
		return "EXTERNAL_INTERRUPT"
	default:
		return "UNKNOWN"
	}
}

// TickConfig holds the nominal tick parameters plus the current (possibly
// sync-corrected) top; NominalTopValue is what tick_sync() corrects away
// from, CurrentTopValue is what is actually armed in the timer.
type TickConfig struct {
	Source          TickSource `yaml:"source"`
	ClockFreqHz     uint32     `yaml:"clock_freq_hz"`
	Prescaler       uint16     `yaml:"prescaler"`
	NominalTopValue uint16     `yaml:"nominal_top_value"`
	CurrentTopValue uint16     `yaml:"-"`
}

func DefaultTickConfig() *TickConfig {
	cfg := &TickConfig{
		Source:          TickTimer1Compare,
		ClockFreqHz:     16_000_000,
		Prescaler:       64,
		NominalTopValue: 2499, // 10ms tick at 16MHz/64
	}
	cfg.CurrentTopValue = cfg.NominalTopValue
	return cfg
}

// TickLengthUsec is the wall-clock duration of one tick, derived from clock
// frequency, prescaler and the currently armed top value (CurrentTopValue).
func (c *TickConfig) TickLengthUsec() uint32 {
	if c.ClockFreqHz == 0 {
		return 0
	}
	ticksPerSec := c.ClockFreqHz / uint32(c.Prescaler)
	if ticksPerSec == 0 {
		return 0
	}
	return uint32(uint64(c.CurrentTopValue+1) * 1_000_000 / uint64(ticksPerSec))
}
