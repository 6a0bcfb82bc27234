package vm

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

func currentEvent(ctx *execCtx) cell.Cell {
	return ctx.h.Get(ctx.ep.Index())
}

// execMsg implements `msg i`: push the i-th item (1-indexed) of the
// current event's message, 0 for the whole message, negative i for the
// i-th tail.
func execMsg(ctx *execCtx, sp, imm, next word.Word) (word.Word, word.Word, error) {
	msg := currentEvent(ctx).Y
	i := int(imm.Fix())
	v := nthOf(ctx.h, msg, i)
	s, err := ctx.h.Push(sp, v)
	return checkErr(next, s, err)
}

// nthOf mirrors the `nth` opcode's addressing rules without consuming a
// stack slot for the source list.
func nthOf(h *cell.Heap, list word.Word, i int) word.Word {
	if i == 0 {
		return list
	}
	cur := list
	if i > 0 {
		for k := 1; k < i; k++ {
			if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
				return word.WordUndef
			}
			c := h.Get(cur.Index())
			if !cell.IsPair(c) {
				return word.WordUndef
			}
			cur = c.Y
		}
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			return word.WordUndef
		}
		c := h.Get(cur.Index())
		if !cell.IsPair(c) {
			return word.WordUndef
		}
		return c.X
	}
	for k := 0; k < -i; k++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			break
		}
		c := h.Get(cur.Index())
		if !cell.IsPair(c) {
			break
		}
		cur = c.Y
	}
	return cur
}

// execSelf implements `self`: push the actor that received the current
// event.
func execSelf(ctx *execCtx, sp, next word.Word) (word.Word, word.Word, error) {
	target := currentEvent(ctx).X
	s, err := ctx.h.Push(sp, target)
	return checkErr(next, s, err)
}

// execSend implements `send n`: pop target actor; pop either one value
// (n=0) or n values built into a list as the message; stage an Event on
// the current transaction. A non-actor target is not checked here
// (spec.md section 4.5: "the receiving dispatcher will decide").
func execSend(ctx *execCtx, sp, imm, next word.Word) (word.Word, word.Word, error) {
	target, rest := ctx.h.Pop(sp)
	n := int(imm.Fix())

	var msg word.Word
	var err error
	if n == 0 {
		msg, rest = ctx.h.Pop(rest)
	} else {
		msg, rest, err = popList(ctx.h, rest, n)
		if err != nil {
			return word.WordUndef, sp, err
		}
	}

	ev, err := ctx.h.Alloc(cell.EventCell(target, msg))
	if err != nil {
		return word.WordUndef, sp, err
	}
	ctx.txn.Stage(ctx.h, ev)
	return next, rest, nil
}

// execNew implements `new n`: pop a behavior-ip; if n>0, detach the top n
// stack items (splicing them out of the current stack entirely — the
// "detach" semantics SPEC_FULL.md's Open Question 3 settles on) and use
// them as the new actor's saved state; push the new Actor cell.
func execNew(ctx *execCtx, sp, imm, next word.Word) (word.Word, word.Word, error) {
	behavior, rest := ctx.h.Pop(sp)
	n := int(imm.Fix())

	state := word.WordUndef
	if n > 0 {
		var err error
		state, rest, err = detach(ctx.h, rest, n)
		if err != nil {
			return word.WordUndef, sp, err
		}
	}

	a, err := ctx.h.Alloc(cell.ActorCell(behavior, state))
	if err != nil {
		return word.WordUndef, sp, err
	}
	s, err := ctx.h.Push(rest, a)
	return checkErr(next, s, err)
}

// execBeh implements `beh n`: like `new`, but mutates the current actor's
// staged behavior (and, if n>0, state). Becomes observable on commit
// (spec.md section 4.3).
func execBeh(ctx *execCtx, sp, imm, next word.Word) (word.Word, word.Word, error) {
	behavior, rest := ctx.h.Pop(sp)
	n := int(imm.Fix())

	if n > 0 {
		state, newRest, err := detach(ctx.h, rest, n)
		if err != nil {
			return word.WordUndef, sp, err
		}
		rest = newRest
		ctx.txn.Become(behavior, state, true)
	} else {
		ctx.txn.Become(behavior, word.Word{}, false)
	}
	return next, rest, nil
}

// detach splits the top n items off sp as a standalone, NIL-terminated
// Pair chain (the actor's saved stack), leaving the rest of sp
// undisturbed.
func detach(h *cell.Heap, sp word.Word, n int) (state, rest word.Word, err error) {
	return popList(h, sp, n)
}

// popList pops n values off sp and conses them into a proper,
// NIL-terminated list, returning the list and the remaining stack.
func popList(h *cell.Heap, sp word.Word, n int) (list, rest word.Word, err error) {
	items := make([]word.Word, n)
	cur := sp
	for i := 0; i < n; i++ {
		items[i], cur = h.Pop(cur)
	}
	list = word.WordNil
	for i := n - 1; i >= 0; i-- {
		list, err = h.Alloc(cell.PairCell(items[i], list))
		if err != nil {
			return word.WordUndef, sp, err
		}
	}
	return list, cur, nil
}
