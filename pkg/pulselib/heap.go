package pulselib

import "container/heap"

// callHeap implements container/heap.Interface for deferredCall,
// sorted by DueAt (earliest first, min-heap).
type callHeap []deferredCall

func (h callHeap) Len() int           { return len(h) }
func (h callHeap) Less(i, j int) bool { return h[i].DueAt.Before(h[j].DueAt) }
func (h callHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *callHeap) Push(x any) {
	*h = append(*h, x.(deferredCall))
}

func (h *callHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// heapPush adds a deferredCall to the heap, maintaining heap invariant.
func heapPush(h *callHeap, c deferredCall) {
	heap.Push(h, c)
}

// heapPop removes and returns the deferredCall with the earliest DueAt.
// Panics if the heap is empty.
func heapPop(h *callHeap) deferredCall {
	return heap.Pop(h).(deferredCall)
}

// heapRemoveByID removes the first deferredCall with the given handle.
// Returns true if the call was found and removed, false otherwise.
func heapRemoveByID(h *callHeap, id Handle) bool {
	for i, c := range *h {
		if c.ID == id {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
