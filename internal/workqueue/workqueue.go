// Package workqueue provides the min-heap used to spread projectile casts
// across simulation workers. The queue itself is not safe for concurrent
// mutation; the caster serializes access on its dispatch path.
package workqueue

import "container/heap"

// Handle is an opaque worker reference ordered by its outstanding-task count.
type Handle interface {
	Load() int
}

// Queue orders handles so the least-loaded worker is always dequeued first.
type Queue struct {
	items handleHeap
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue adds a handle to the queue.
func (q *Queue) Enqueue(h Handle) {
	if h == nil {
		return
	}
	heap.Push(&q.items, h)
}

// Dequeue removes and returns the least-loaded handle. The second return is
// false when the queue is empty; callers treat that as "no capacity", not a
// fatal condition.
func (q *Queue) Dequeue() (Handle, bool) {
	if q.items.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.items).(Handle), true
}

// Peek returns the least-loaded handle without removing it.
func (q *Queue) Peek() (Handle, bool) {
	if q.items.Len() == 0 {
		return nil, false
	}
	return q.items[0], true
}

// Len reports the number of queued handles.
func (q *Queue) Len() int {
	return q.items.Len()
}

type handleHeap []Handle

func (h handleHeap) Len() int           { return len(h) }
func (h handleHeap) Less(i, j int) bool { return h[i].Load() < h[j].Load() }
func (h handleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *handleHeap) Push(x any)        { *h = append(*h, x.(Handle)) }

func (h *handleHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
