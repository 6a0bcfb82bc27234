package vm

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// execTypeq implements `typeq T`: pop v, push TRUE iff v's type tag equals
// T. Fixnum and procedure constants are handled specially since they carry
// no cell to look a type tag up in (spec.md section 4.5). T may be given
// as a procedure constant or as a Fixnum holding the tag value.
func execTypeq(h *cell.Heap, sp, imm, next word.Word) (word.Word, word.Word, error) {
	v, rest := h.Pop(sp)
	want := imm.ProcVal()
	if imm.IsFixnum() {
		want = word.Proc(imm.Fix())
	}

	var is bool
	switch {
	case want == fixnumTypeTag:
		is = v.IsFixnum()
	case v.Kind() == word.KindHeap:
		c := h.Get(v.Index())
		tag, ok := c.Type()
		is = ok && tag == want
	default:
		is = false
	}

	s, err := h.Push(rest, boolWord(is))
	return checkErr(next, s, err)
}

// fixnumTypeTag is a synthetic tag used only as the `typeq` immediate for
// "is this a Fixnum", since Fixnums are not cell-resident and so have no
// natural slot among word.Tag*.
const fixnumTypeTag word.Proc = -100

func boolWord(b bool) word.Word {
	if b {
		return word.WordTrue
	}
	return word.WordFalse
}

// execCell implements `cell n`: pop t, then (for n>=2) x, then y, then z;
// allocate {t,x,y,z}; push.
func execCell(h *cell.Heap, sp, imm, next word.Word) (word.Word, word.Word, error) {
	n := int(imm.Fix())
	t, rest := h.Pop(sp)
	x, y, z := word.WordUndef, word.WordUndef, word.WordUndef
	if n >= 2 {
		x, rest = h.Pop(rest)
	}
	if n >= 3 {
		y, rest = h.Pop(rest)
	}
	if n >= 4 {
		z, rest = h.Pop(rest)
	}
	w, err := h.Alloc(cell.Cell{T: t, X: x, Y: y, Z: z})
	if err != nil {
		return word.WordUndef, sp, err
	}
	s, err := h.Push(rest, w)
	return checkErr(next, s, err)
}

// execGet implements `get f`: pop a cell index, read field f, push.
func execGet(h *cell.Heap, sp, imm, next word.Word) (word.Word, word.Word, error) {
	idxWord, rest := h.Pop(sp)
	if idxWord.Kind() != word.KindHeap {
		s, err := h.Push(rest, word.WordUndef)
		return checkErr(next, s, err)
	}
	c := h.Get(idxWord.Index())
	var v word.Word
	switch FieldSel(imm.Fix()) {
	case FieldT:
		v = c.T
	case FieldX:
		v = c.X
	case FieldY:
		v = c.Y
	case FieldZ:
		v = c.Z
	default:
		v = word.WordUndef
	}
	s, err := h.Push(rest, v)
	return checkErr(next, s, err)
}

// execSet implements `set f`: pop the new value, then a cell index, write
// the field, push nothing further (spec.md's table shows no stack push
// for set; it mutates in place).
func execSet(h *cell.Heap, sp, imm, next word.Word) (word.Word, word.Word, error) {
	val, rest := h.Pop(sp)
	idxWord, rest2 := h.Pop(rest)
	if idxWord.Kind() != word.KindHeap {
		return next, rest2, nil
	}
	idx := idxWord.Index()
	switch FieldSel(imm.Fix()) {
	case FieldT:
		h.SetT(idx, val)
	case FieldX:
		h.SetX(idx, val)
	case FieldY:
		h.SetY(idx, val)
	case FieldZ:
		h.SetZ(idx, val)
	}
	return next, rest2, nil
}
