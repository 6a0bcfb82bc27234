package vm

import (
	"strconv"
	"strings"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// execIf implements `if t-ip, f-ip`: pop b, next-ip is t-ip if b != FALSE,
// f-ip otherwise. Any non-FALSE value, including UNDEF, takes the
// consequent branch (spec.md section 4.5).
func execIf(sp, trueIP, falseIP word.Word, h *cell.Heap) (word.Word, word.Word, error) {
	b, rest := h.Pop(sp)
	if b.IsFalsy() {
		return falseIP, rest, nil
	}
	return trueIP, rest, nil
}

// execEnd implements `end k`, the terminal instruction: k in
// {abort, stop, commit, release} (spec.md section 4.3). The runtime loop
// recognizes the returned OpEnd word as a terminal marker (IsTerminal) and
// retires the continuation instead of rescheduling it.
func execEnd(ctx *execCtx, sp word.Word, kind EndKind) (word.Word, word.Word, error) {
	var err error
	switch kind {
	case EndAbort:
		ctx.txn.Abort(ctx.h)
	case EndStop:
		ctx.txn.Stop(ctx.h)
	case EndCommit:
		ctx.txn.Commit(ctx.h, ctx.global)
	case EndRelease:
		err = ctx.txn.Release(ctx.h, ctx.global)
	}
	return word.ProcConst(word.Proc(OpEnd)), sp, err
}

// execCvt implements `cvt c`: list-of-chars -> Fixnum (signed decimal,
// underscores ignored as separators), list-of-chars -> interned Symbol,
// and raw-int <-> Fixnum tagging (a no-op in this Go encoding, since
// word.Word already models the tag as a Go sum type rather than a literal
// bit).
func execCvt(h *cell.Heap, sp word.Word, mode CvtMode, next word.Word) (word.Word, word.Word, error) {
	v, rest := h.Pop(sp)
	var out word.Word
	switch mode {
	case CvtCharsToFixnum:
		out = charsToFixnum(h, v)
	case CvtCharsToSymbol:
		var err error
		out, err = h.Intern(v, nil)
		if err != nil {
			return word.WordUndef, sp, err
		}
	case CvtIntToFixnum, CvtFixnumToInt:
		out = v
	default:
		out = word.WordUndef
	}
	s, err := h.Push(rest, out)
	return checkErr(next, s, err)
}

func charsToFixnum(h *cell.Heap, charList word.Word) word.Word {
	var sb strings.Builder
	cur := charList
	for cur.Kind() == word.KindHeap && cur.Index() != word.NIL {
		c := h.Get(cur.Index())
		if !cell.IsPair(c) {
			break
		}
		ch := byte(c.X.Fix())
		if ch != '_' {
			sb.WriteByte(ch)
		}
		cur = c.Y
	}
	n, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return word.WordUndef
	}
	return word.Fixnum(n)
}
