package vm

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// execAlu implements `alu op`: not (unary), and/or/xor/add/sub/mul on
// Fixnums; result is a Fixnum (wrapped modulo the configured word width —
// spec.md section 4.5: "alu/mul may overflow ... the result is the low
// word of the product").
func execAlu(h *cell.Heap, sp word.Word, op AluOp, next word.Word) (word.Word, word.Word, error) {
	if op == AluNot {
		v, rest := h.Pop(sp)
		s, err := h.Push(rest, word.Fixnum(^v.Fix()))
		return checkErr(next, s, err)
	}

	b, rest := h.Pop(sp)
	a, rest := h.Pop(rest)
	var r int64
	switch op {
	case AluAnd:
		r = a.Fix() & b.Fix()
	case AluOr:
		r = a.Fix() | b.Fix()
	case AluXor:
		r = a.Fix() ^ b.Fix()
	case AluAdd:
		r = a.Fix() + b.Fix()
	case AluSub:
		r = a.Fix() - b.Fix()
	case AluMul:
		r = a.Fix() * b.Fix()
	default:
		s, err := h.Push(rest, word.WordUndef)
		return checkErr(next, s, err)
	}
	s, err := h.Push(rest, word.Fixnum(r))
	return checkErr(next, s, err)
}

// execEq implements `eq k`: pop one value, push TRUE iff it is bit-identical
// to the immediate k.
func execEq(h *cell.Heap, sp, imm, next word.Word) (word.Word, word.Word, error) {
	v, rest := h.Pop(sp)
	s, err := h.Push(rest, boolWord(v.Equal(imm)))
	return checkErr(next, s, err)
}

// execCmp implements `cmp r`: pop m then n, push the Boolean result of
// relation r. Per spec.md section 4.5, comparisons always produce TRUE or
// FALSE, never UNDEF; behavior on non-Fixnum operands is
// implementation-defined (SPEC_FULL.md's Open Question decision: raw
// machine-word compare on the tagged representation).
func execCmp(h *cell.Heap, sp word.Word, rel CmpRel, next word.Word) (word.Word, word.Word, error) {
	m, rest := h.Pop(sp)
	n, rest := h.Pop(rest)

	var result bool
	if rel == CmpClass {
		result = n.Kind() == m.Kind()
	} else {
		nv, mv := rawOrder(n), rawOrder(m)
		switch rel {
		case CmpEq:
			result = n.Equal(m)
		case CmpNe:
			result = !n.Equal(m)
		case CmpLt:
			result = nv < mv
		case CmpLe:
			result = nv <= mv
		case CmpGt:
			result = nv > mv
		case CmpGe:
			result = nv >= mv
		}
	}
	s, err := h.Push(rest, boolWord(result))
	return checkErr(next, s, err)
}

// rawOrder gives a total order over words for the ordering relations: the
// fixnum value when available, otherwise the underlying heap index or
// procedure constant cast to int64 (the "typical implementations perform
// raw integer compare on the tagged representation" hint of spec.md
// section 4.5).
func rawOrder(w word.Word) int64 {
	switch w.Kind() {
	case word.KindFixnum:
		return w.Fix()
	case word.KindHeap:
		return int64(w.Index())
	case word.KindProc:
		return int64(w.ProcVal())
	default:
		return 0
	}
}
