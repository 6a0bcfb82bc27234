package vm

import (
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Instr assembles one instruction cell: T=opcode, X=immediate,
// Y=next-ip (the true branch for `if`), Z=false-ip (only `if` uses it).
func Instr(h *cell.Heap, op Opcode, imm, next word.Word) (word.Word, error) {
	return InstrBranch(h, op, imm, next, word.WordUndef)
}

func InstrBranch(h *cell.Heap, op Opcode, imm, next, alt word.Word) (word.Word, error) {
	return h.Alloc(cell.Cell{T: word.ProcConst(word.Proc(op)), X: imm, Y: next, Z: alt})
}

func instrAt(h *cell.Heap, ip word.Word) (Opcode, word.Word, word.Word, word.Word, bool) {
	if ip.Kind() != word.KindHeap {
		return 0, word.Word{}, word.Word{}, word.Word{}, false
	}
	c := h.Get(ip.Index())
	op, ok := DecodeOpcode(c.T)
	if !ok {
		return 0, word.Word{}, word.Word{}, word.Word{}, false
	}
	return op, c.X, c.Y, c.Z, true
}
