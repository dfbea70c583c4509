package wake

import "container/heap"

// eventHeap implements container/heap.Interface for Event,
// sorted by TriggerAt (earliest first, min-heap).
type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].TriggerAt.Before(h[j].TriggerAt) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// heapPush adds an Event to the heap, maintaining the heap invariant.
func heapPush(h *eventHeap, e Event) {
	heap.Push(h, e)
}

// heapPop removes and returns the Event with the earliest TriggerAt.
// Panics if the heap is empty.
func heapPop(h *eventHeap) Event {
	return heap.Pop(h).(Event)
}

// heapRemoveById removes the event with the given id.
// Returns true if the event was found and removed, false otherwise.
func heapRemoveById(h *eventHeap, id string) bool {
	for i, e := range *h {
		if e.Id == id {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}

// heapRemoveByEntity removes every event for the given entity.
// Returns the number of events removed.
func heapRemoveByEntity(h *eventHeap, entityId string) int {
	var removed int
	for i := 0; i < h.Len(); {
		if (*h)[i].EntityId == entityId {
			heap.Remove(h, i)
			removed++
			continue
		}
		i++
	}
	return removed
}
