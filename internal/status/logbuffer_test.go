package status

import (
	"fmt"
	"sync"
	"testing"
)

func TestLogBufferFIFO(t *testing.T) {
	b := NewLogBuffer()
	b.Push("one")
	b.Push("two")
	b.Pushf("%s %d", "three", 3)

	got := b.Drain()
	want := []string{"one", "two", "three 3"}
	if len(got) != len(want) {
		t.Fatalf("drained %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLogBufferDrainEmpties(t *testing.T) {
	b := NewLogBuffer()
	b.Push("line")
	b.Drain()

	got := b.Drain()
	if got == nil {
		t.Fatal("drain of empty buffer must return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("second drain returned %v, want empty", got)
	}
}

func TestLogBufferConcurrentPushDuringDrain(t *testing.T) {
	b := NewLogBuffer()
	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Pushf("producer %d line %d", p, i)
			}
		}(p)
	}

	total := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		total += len(b.Drain())
		select {
		case <-done:
			total += len(b.Drain())
			if total != producers*perProducer {
				t.Errorf("drained %d lines, want %d", total, producers*perProducer)
			}
			return
		default:
		}
	}
}

func TestLogBufferLinesSurviveOneDrainCycle(t *testing.T) {
	b := NewLogBuffer()
	for i := 0; i < 5; i++ {
		b.Push(fmt.Sprintf("line %d", i))
	}
	first := b.Drain()
	b.Push("later")
	second := b.Drain()

	if len(first) != 5 || len(second) != 1 || second[0] != "later" {
		t.Errorf("unexpected drain batches: %v then %v", first, second)
	}
}
