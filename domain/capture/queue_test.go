package capture

import (
	"sync"
	"testing"
)

func TestQueue_RunsInOrder(t *testing.T) {
	q := NewQueue("test", testLogger())
	defer q.Close()
	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		q.Async(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	q.Sync(func() {})
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 10 {
		t.Fatalf("ran %d tasks", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order %v", got)
		}
	}
}

func TestQueue_SurvivesPanics(t *testing.T) {
	q := NewQueue("test", testLogger())
	defer q.Close()
	q.Async(func() { panic("boom") })
	ran := false
	q.Sync(func() { ran = true })
	if !ran {
		t.Fatal("queue stopped after panic")
	}
}

func TestQueue_ClosedDropsWork(t *testing.T) {
	q := NewQueue("test", testLogger())
	ran := false
	q.Async(func() { ran = true })
	q.Close()
	if !ran {
		t.Fatal("queued work not drained on close")
	}
	ran = false
	if q.Sync(func() { ran = true }) {
		t.Fatal("Sync accepted work after close")
	}
	if q.Async(func() { ran = true }) {
		t.Fatal("Async accepted work after close")
	}
	if ran {
		t.Fatal("work ran after close")
	}
	q.Close()
}
