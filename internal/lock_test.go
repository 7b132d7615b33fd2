// Tests for lock.go.

package artx_internal

import "testing"

func TestLockNesting(t *testing.T) {
	l := NewLock(true)
	l.Lock()
	l.Lock()
	if !l.Locked() {
		t.Fatalf("Locked() = false after two Lock() calls")
	}
	if opened := l.Unlock(); opened {
		t.Fatalf("Unlock() (1st) = true, want false (still nested)")
	}
	if !l.Locked() {
		t.Fatalf("Locked() = false, want true (still one level deep)")
	}
	if opened := l.Unlock(); !opened {
		t.Fatalf("Unlock() (2nd) = false, want true (fully open)")
	}
	if l.Locked() {
		t.Fatalf("Locked() = true after fully unlocked")
	}
}

func TestLockNonNested(t *testing.T) {
	l := NewLock(false)
	l.Lock()
	l.Lock()
	if opened := l.Unlock(); !opened {
		t.Fatalf("Unlock() on non-nested lock = false, want true")
	}
	if l.Locked() {
		t.Fatalf("Locked() = true after non-nested Unlock()")
	}
}

func TestLockUnderflowClamped(t *testing.T) {
	l := NewLock(true)
	if opened := l.Unlock(); !opened {
		t.Fatalf("Unlock() on fresh lock = false, want true")
	}
	if l.Locked() {
		t.Fatalf("Locked() = true after underflowing unlock")
	}
}
