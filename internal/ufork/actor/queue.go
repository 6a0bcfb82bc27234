package actor

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Queue is an intrusive singly-linked FIFO chained through each cell's Z
// field, NIL-terminated (spec.md section 4.6). It is used both for the
// global event queue and the continuation queue; the two never share
// cells, so one Queue value per use is enough.
type Queue struct {
	head, tail word.Word
}

func NewQueue() Queue {
	return Queue{head: word.WordNil, tail: word.WordNil}
}

func (q Queue) Empty() bool {
	return q.head.Kind() == word.KindHeap && q.head.Index() == word.NIL
}

func (q Queue) Head() word.Word { return q.head }

// PushTail appends w (a heap index whose Z field is the chain pointer) to
// the queue.
func (q *Queue) PushTail(h *cell.Heap, w word.Word) {
	h.SetZ(w.Index(), word.WordNil)
	if q.Empty() {
		q.head = w
		q.tail = w
		return
	}
	h.SetZ(q.tail.Index(), w)
	q.tail = w
}

// PopHead removes and returns the head of the queue, or (UNDEF, false) if
// empty.
func (q *Queue) PopHead(h *cell.Heap) (word.Word, bool) {
	if q.Empty() {
		return word.WordUndef, false
	}
	w := q.head
	next := h.GetZ(w.Index())
	q.head = next
	if q.head.Kind() == word.KindHeap && q.head.Index() == word.NIL {
		q.tail = word.WordNil
	}
	return w, true
}
