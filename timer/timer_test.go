package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestOneShotFires(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	m.Add(50*time.Millisecond, 0, func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(400 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("one-shot fired %d times, want 1", got)
	}
}

func TestRepeatingTaskFiresUntilRemoved(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	id := m.Add(50*time.Millisecond, 100*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(450 * time.Millisecond)
	count := atomic.LoadInt32(&fired)
	if count < 2 {
		t.Fatalf("repeating task fired %d times in 450ms, want at least 2", count)
	}

	m.Remove(id)
	settled := atomic.LoadInt32(&fired)
	time.Sleep(300 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got > settled+1 {
		t.Errorf("task kept firing after Remove: %d -> %d", settled, got)
	}
}

func TestRemoveBeforeFire(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	id := m.Add(200*time.Millisecond, 0, func() { atomic.AddInt32(&fired, 1) })
	m.Remove(id)

	time.Sleep(400 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("removed task fired %d times, want 0", got)
	}
}

func TestStopPreventsPendingTasks(t *testing.T) {
	m := NewManager()

	var fired int32
	m.Add(200*time.Millisecond, 0, func() { atomic.AddInt32(&fired, 1) })
	m.Stop()

	time.Sleep(400 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("task fired %d times after Stop, want 0", got)
	}
}

func TestTasksFireInDeadlineOrder(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var order []int
	done := make(chan struct{})
	m.Add(300*time.Millisecond, 0, func() {
		order = append(order, 2)
		close(done)
	})
	m.Add(50*time.Millisecond, 0, func() { order = append(order, 1) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not fire")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("fire order = %v, want [1 2]", order)
	}
}
