package vm

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// A continuation cell repurposes the uniform 4-field record as {ip, sp, ep,
// queue-next} instead of the {t,x,y,z} typed layout: spec.md section 4.4
// calls it "a Pair-like cell with three fields" and section 4.6 chains it
// through its own Z field on the continuation queue, exactly like every
// other intrusive-queue cell. It carries no type tag because user-visible
// code never inspects a continuation with typeq/get/set — only the
// dispatcher and executor ever see one.
func newContinuation(h *cell.Heap, ip, sp, ep word.Word) (word.Word, error) {
	return h.Alloc(cell.Cell{T: ip, X: sp, Y: ep, Z: word.WordNil})
}

// ContIP, ContSP, and ContEP read a continuation's three fields. Exported
// for the runtime package, which owns the dispatch/execute loop.
func ContIP(h *cell.Heap, idx int) word.Word { return h.GetT(idx) }
func ContSP(h *cell.Heap, idx int) word.Word { return h.GetX(idx) }
func ContEP(h *cell.Heap, idx int) word.Word { return h.GetY(idx) }

// SetContIP and SetContSP update a continuation in place between
// instruction steps; ep never changes after NewThread.
func SetContIP(h *cell.Heap, idx int, ip word.Word) { h.SetT(idx, ip) }
func SetContSP(h *cell.Heap, idx int, sp word.Word) { h.SetX(idx, sp) }

// NewThread creates a fresh continuation for an actor beginning a
// transaction: ip := behavior, sp := saved state, ep := the event being
// handled (spec.md section 4.3, step 1).
func NewThread(h *cell.Heap, behavior, state, event word.Word) (word.Word, error) {
	return newContinuation(h, behavior, state, event)
}
