package notify

import (
	"sync"
	"testing"
)

func TestRecorderOrders(t *testing.T) {
	r := &Recorder{}
	r.Warn("first")
	r.Error("second")
	r.Success("third")

	entries := r.Entries()
	if len(entries) != 3 || entries[0].Message != "first" || entries[2].Level != LevelSuccess {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	drained := r.Drain()
	if len(drained) != 3 {
		t.Fatalf("drain returned %d entries", len(drained))
	}
	if len(r.Entries()) != 0 {
		t.Fatalf("drain did not clear the recorder")
	}
}

func TestRecorderConcurrentAppendAndDrain(t *testing.T) {
	// Submission goroutines append while the UI goroutine drains; no entry
	// may be lost or duplicated between the two sides.
	r := &Recorder{}
	const writers = 4
	const perWriter = 250

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				r.Warn("stock moved")
			}
		}()
	}

	drained := 0
	doneDraining := make(chan struct{})
	go func() {
		defer close(doneDraining)
		for i := 0; i < 100; i++ {
			drained += len(r.Drain())
		}
	}()

	wg.Wait()
	<-doneDraining
	total := drained + len(r.Drain())
	if total != writers*perWriter {
		t.Fatalf("entries lost or duplicated: got %d, want %d", total, writers*perWriter)
	}
}
