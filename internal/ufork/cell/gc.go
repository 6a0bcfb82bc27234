package cell

import "github.com/ufork-go/ufork/internal/ufork/word"

// Roots is the GC root set of spec.md section 4.2: the symbol-intern
// hash-chain heads, the event-queue head, the continuation-queue head, and
// any pinned auxiliary roots (e.g. the clock-handler actor). Collect also
// treats every Actor cell in the heap as a root.
type Roots struct {
	EventQueueHead        word.Word
	ContinuationQueueHead word.Word
	Pinned                []word.Word
}

// Collect runs one stop-the-world mark-and-sweep cycle. After it returns,
// every cell reachable from roots or from an Actor cell (Actor cells
// included) is untouched, every other cell in
// [FirstFreeIndex, Frontier) is Free, and the free-list reflects the new
// reclaimable set. The frontier itself never moves (no compaction).
func (h *Heap) Collect(roots Roots) {
	marked := make([]bool, h.frontier)

	var mark func(w word.Word)
	mark = func(w word.Word) {
		if w.Kind() != word.KindHeap {
			return
		}
		idx := w.Index()
		if idx < word.FirstFreeIndex || idx >= h.frontier || marked[idx] {
			return
		}
		marked[idx] = true
		c := h.cells[idx]
		mark(c.T)
		mark(c.X)
		mark(c.Y)
		mark(c.Z)
	}

	for _, b := range h.intern.buckets {
		mark(b)
	}
	mark(roots.EventQueueHead)
	mark(roots.ContinuationQueueHead)
	for _, r := range roots.Pinned {
		mark(r)
	}
	// Actor cells are freed only by end/release, never by the sweep.
	for idx := word.FirstFreeIndex; idx < h.frontier; idx++ {
		if IsActor(h.cells[idx]) {
			mark(word.Heap(idx))
		}
	}

	h.freeHead = word.WordNil
	h.freeLen = 0
	for idx := h.frontier - 1; idx >= word.FirstFreeIndex; idx-- {
		if marked[idx] {
			continue
		}
		h.cells[idx] = FreeCell(h.freeHead)
		h.freeHead = word.Heap(idx)
		h.freeLen++
	}
}
