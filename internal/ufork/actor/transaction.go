package actor

import (
	"fmt"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Transaction is the staging buffer for one actor's reaction to one event
// (spec.md section 4.3). It is owned by the running continuation, not by
// ambient global state: the design notes call this out explicitly
// ("Model this as an explicit Transaction value owned by the running
// continuation"). The staged-event list is mirrored into the actor cell's
// Z field as it grows, because that field is what IsReady/GC read while
// the transaction is in flight.
type Transaction struct {
	actorIdx int
	staged   Queue

	hasBecome   bool
	hasState    bool
	newBehavior word.Word
	newState    word.Word
}

// Begin starts a transaction for actorIdx, which must be ready. Returns an
// error if the actor is busy (the caller — the dispatcher — should instead
// defer the event).
func Begin(h *cell.Heap, actorIdx int) (*Transaction, error) {
	if !IsReady(h, actorIdx) {
		return nil, fmt.Errorf("ufork: actor %d is busy", actorIdx)
	}
	t := &Transaction{actorIdx: actorIdx, staged: NewQueue()}
	h.SetZ(actorIdx, word.WordNil)
	return t, nil
}

// Stage records a newly-produced Event cell, in program order.
func (t *Transaction) Stage(h *cell.Heap, event word.Word) {
	t.staged.PushTail(h, event)
	h.SetZ(t.actorIdx, t.staged.head)
}

// Become records a behavior/state replacement. Per spec.md section 4.3,
// multiple becomes in one transaction take the last one.
func (t *Transaction) Become(behavior, state word.Word, hasState bool) {
	t.hasBecome = true
	t.newBehavior = behavior
	t.hasState = hasState
	if hasState {
		t.newState = state
	}
}

// Commit flushes every staged event into the global queue in production
// order, persists any staged behavior/state, and returns the actor to
// ready.
func (t *Transaction) Commit(h *cell.Heap, global *Queue) {
	for {
		w, ok := t.staged.PopHead(h)
		if !ok {
			break
		}
		global.PushTail(h, w)
	}
	if t.hasBecome {
		SetBehavior(h, t.actorIdx, t.newBehavior)
		if t.hasState {
			SetState(h, t.actorIdx, t.newState)
		}
	}
	h.SetZ(t.actorIdx, word.WordUndef)
}

// Release commits like Commit, then frees the actor cell. Programmer
// asserts no further event references it (spec.md section 5); the runtime
// additionally enforces the "reject at dispatch" policy of a stale target
// (see SPEC_FULL.md Open Question 2).
func (t *Transaction) Release(h *cell.Heap, global *Queue) error {
	t.Commit(h, global)
	return h.Free(t.actorIdx)
}

// Stop ends the thread without committing: staged events are discarded
// (never flushed; GC reclaims them once unreachable) and the actor returns
// to ready with behavior/state unchanged.
func (t *Transaction) Stop(h *cell.Heap) {
	h.SetZ(t.actorIdx, word.WordUndef)
}

// Abort discards all staged events and any staged become, leaving the
// actor's (behavior, state, visible events) identical to the
// pre-transaction snapshot (spec.md section 8).
func (t *Transaction) Abort(h *cell.Heap) {
	h.SetZ(t.actorIdx, word.WordUndef)
}
