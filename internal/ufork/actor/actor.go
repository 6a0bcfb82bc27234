// Package actor implements the uFork actor model: per-actor busy/ready
// state, the transaction staging buffer, and the intrusive event and
// continuation queues (spec.md sections 4.3, 4.4, 4.6).
package actor

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// New allocates a fresh, ready Actor cell with the given behavior and
// initial saved stack (word.WordUndef if the actor has no persistent
// state yet).
func New(h *cell.Heap, behavior, state word.Word) (word.Word, error) {
	return h.Alloc(cell.ActorCell(behavior, state))
}

// IsReady reports whether the actor at idx has no transaction in flight.
func IsReady(h *cell.Heap, idx int) bool {
	return h.GetZ(idx).Equal(word.WordUndef)
}

func Behavior(h *cell.Heap, idx int) word.Word { return h.GetX(idx) }
func State(h *cell.Heap, idx int) word.Word    { return h.GetY(idx) }

// SetBehavior and SetState write the actor's fields directly;
// Transaction.Commit uses them to persist a staged `become`.
func SetBehavior(h *cell.Heap, idx int, behavior word.Word) { h.SetX(idx, behavior) }
func SetState(h *cell.Heap, idx int, state word.Word)       { h.SetY(idx, state) }
