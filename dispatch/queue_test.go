package dispatch

import (
	"testing"

	"github.com/eztimer/timer/job"
)

func TestQueuePopsInFireOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Entry{FireUnix: 30, JobID: job.ID(1)})
	q.Push(Entry{FireUnix: 10, JobID: job.ID(2)})
	q.Push(Entry{FireUnix: 20, JobID: job.ID(3)})

	var order []int64
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		order = append(order, e.FireUnix)
	}
	want := []int64{10, 20, 30}
	if len(order) != len(want) {
		t.Fatalf("got %d entries, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestQueueBreaksTiesByJobID(t *testing.T) {
	q := NewQueue()
	q.Push(Entry{FireUnix: 10, JobID: job.ID(5)})
	q.Push(Entry{FireUnix: 10, JobID: job.ID(1)})

	first, ok := q.Pop()
	if !ok {
		t.Fatal("expected an entry")
	}
	if first.JobID != job.ID(1) {
		t.Errorf("expected the lower JobId to win the tie, got %d", first.JobID)
	}
}

func TestQueueLenTracksPushesAndPops(t *testing.T) {
	q := NewQueue()
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got len %d", q.Len())
	}
	q.Push(Entry{FireUnix: 1, JobID: job.ID(1)})
	q.Push(Entry{FireUnix: 2, JobID: job.ID(2)})
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}
	q.Pop()
	if q.Len() != 1 {
		t.Fatalf("expected len 1 after pop, got %d", q.Len())
	}
}

func TestQueuePopOnEmptyReportsNotOK(t *testing.T) {
	q := NewQueue()
	if _, ok := q.Pop(); ok {
		t.Error("expected Pop on an empty queue to report ok=false")
	}
}
