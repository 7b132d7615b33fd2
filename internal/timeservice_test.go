// Tests for timeservice.go, including scenario S6 from the spec.

package artx_internal

import "testing"

func TestTimeServiceAdvance(t *testing.T) {
	ts := NewTimeService()
	ts.Advance(999_000)
	if ts.Time() != 0 {
		t.Fatalf("Time() = %d, want 0", ts.Time())
	}
	ts.Advance(1_000)
	if ts.Time() != 1 {
		t.Fatalf("Time() after rollover = %d, want 1", ts.Time())
	}
	if ts.Hires() != (HiresTime{Seconds: 1, Microseconds: 0}) {
		t.Fatalf("Hires() = %+v, want {1 0}", ts.Hires())
	}
}

func TestTimeServiceUSTime(t *testing.T) {
	ts := NewTimeService()
	ts.Advance(1_500_000)
	if got, want := ts.USTime(), uint32(1_500_000); got != want {
		t.Fatalf("USTime() = %d, want %d", got, want)
	}
}

// S6: delta_time({5,999000},{6,1000}) = {0,2000}
func TestDeltaTimeScenarioS6(t *testing.T) {
	t0 := HiresTime{Seconds: 5, Microseconds: 999_000}
	t1 := HiresTime{Seconds: 6, Microseconds: 1_000}
	got := DeltaTime(t0, t1)
	want := HiresTime{Seconds: 0, Microseconds: 2_000}
	if got != want {
		t.Fatalf("DeltaTime(%+v, %+v) = %+v, want %+v", t0, t1, got, want)
	}
}

func TestDeltaTimeNoRollover(t *testing.T) {
	t0 := HiresTime{Seconds: 2, Microseconds: 100}
	t1 := HiresTime{Seconds: 5, Microseconds: 400}
	got := DeltaTime(t0, t1)
	want := HiresTime{Seconds: 3, Microseconds: 300}
	if got != want {
		t.Fatalf("DeltaTime(%+v, %+v) = %+v, want %+v", t0, t1, got, want)
	}
}
