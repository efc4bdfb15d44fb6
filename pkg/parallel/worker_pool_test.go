package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		ok := pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
		if !ok {
			t.Fatal("Submit returned false on open pool")
		}
	}
	wg.Wait()
	pool.Close()

	if count != 100 {
		t.Errorf("expected 100 tasks run, got %d", count)
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(1)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit should return false after Close")
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	pool, err := NewWorkerPool(0)
	if err != nil {
		t.Fatalf("NewWorkerPool(0) failed: %v", err)
	}
	defer pool.Close()

	if pool.workers <= 0 {
		t.Errorf("expected positive default worker count, got %d", pool.workers)
	}
}

func TestForEach(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	results := make([]int, len(items))
	err := ForEach(items, 8, func(i int, item int) {
		results[i] = item * 2
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}

	for i, r := range results {
		if r != i*2 {
			t.Errorf("slot %d: expected %d, got %d", i, i*2, r)
		}
	}
}
