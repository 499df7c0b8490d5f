package dispatch

import (
	"container/heap"
	"sync"

	"github.com/eztimer/timer/job"
)

// Entry is a dispatch-queue entry: a job's next firing instant, in unix
// seconds, paired with its JobId. Ties are broken by JobId (spec §3).
type Entry struct {
	FireUnix int64
	JobID    job.ID
}

// entryHeap is a min-heap over Entry ordered by (FireUnix, JobID).
type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].FireUnix != h[j].FireUnix {
		return h[i].FireUnix < h[j].FireUnix
	}
	return h[i].JobID < h[j].JobID
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(Entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Queue is the priority-ordered dispatch queue (spec §4.6): a guarded
// binary heap with short push/pop critical sections, as spec §5
// prescribes ("contention is low because only the re-insertion loop and
// the driver loop touch it").
type Queue struct {
	mu sync.Mutex
	h  entryHeap
}

// NewQueue returns an empty dispatch queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Push inserts e. O(log N).
func (q *Queue) Push(e Entry) {
	q.mu.Lock()
	heap.Push(&q.h, e)
	q.mu.Unlock()
}

// Pop removes and returns the smallest entry, or ok=false if empty.
// O(log N).
func (q *Queue) Pop() (e Entry, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 {
		return Entry{}, false
	}
	return heap.Pop(&q.h).(Entry), true
}

// Len reports the current queue size.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h)
}
