// Microsecond/second uptime bookkeeping.
//
// us_time and s_time are advanced once per tick, inside the tick dispatch
// path, by exactly tick_length_usec. They are written only from the dispatch
// path; readers take the same mutex the dispatcher uses for its own
// bookkeeping.

package artx_internal

import "sync"

// HiresTime mirrors struct ARTX_timeval: whole seconds plus a microseconds
// remainder in [0, 1_000_000).
type HiresTime struct {
	Seconds      uint32
	Microseconds uint32
}

type TimeService struct {
	mu            sync.Mutex
	usAccumulated uint64 // total microseconds since start
	sTime         uint32
}

func NewTimeService() *TimeService {
	return &TimeService{}
}

// Advance adds tickLengthUsec microseconds to the running total under the
// service's own mutex (it is invoked only from the tick dispatch path).
func (ts *TimeService) Advance(tickLengthUsec uint32) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.usAccumulated += uint64(tickLengthUsec)
	for ts.usAccumulated >= 1_000_000 {
		ts.usAccumulated -= 1_000_000
		ts.sTime++
	}
}

// USTime returns the total elapsed microseconds since start (32-bit,
// wrapping, matching ARTX_us_time's uint32_t return).
func (ts *TimeService) USTime() uint32 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return uint32(ts.sTime)*1_000_000 + uint32(ts.usAccumulated)
}

// Time returns the elapsed whole seconds since start (ARTX_time).
func (ts *TimeService) Time() uint32 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.sTime
}

// Hires returns the current {seconds, microseconds} pair (ARTX_hires_time).
func (ts *TimeService) Hires() HiresTime {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return HiresTime{Seconds: ts.sTime, Microseconds: uint32(ts.usAccumulated)}
}

// DeltaTime computes t1 - t0, signed-safe across the microsecond rollover
// (ARTX_delta_time), borrowing a second when needed. t1 is assumed to be at
// or after t0; if it isn't, the negative difference saturates at {0, 0}.
func DeltaTime(t0, t1 HiresTime) HiresTime {
	if t1.Seconds < t0.Seconds || (t1.Seconds == t0.Seconds && t1.Microseconds < t0.Microseconds) {
		return HiresTime{}
	}
	sec := t1.Seconds
	usec := t1.Microseconds
	if usec < t0.Microseconds {
		usec += 1_000_000
		sec--
	}
	usec -= t0.Microseconds
	sec -= t0.Seconds
	return HiresTime{Seconds: sec, Microseconds: usec}
}
