package vm

import (
	"fmt"

	"github.com/ufork-go/ufork/internal/ufork/actor"
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Console is the minimal character I/O collaborator of spec.md section 6.
// internal/ufork/device implements it; vm declares only the interface so
// it does not depend on device, and runtime wires the two together.
type Console interface {
	PutC(ch byte) error
	GetC() (int32, error) // negative on end-of-stream, per spec.md section 6
}

// Debugger receives `debug tag v` emissions (spec.md section 6: "format is
// unspecified"). internal/ufork/diag implements it.
type Debugger interface {
	Emit(tag word.Word, v word.Word, h *cell.Heap)
}

// Step executes exactly one instruction of one continuation (spec.md
// section 4.7, step 3). It fetches the instruction at the continuation's
// current ip, dispatches to its handler, and returns the handler's next-ip
// (which may be a terminal marker — see IsTerminal).
func Step(h *cell.Heap, txn *actor.Transaction, global *actor.Queue, console Console, dbg Debugger, ip, sp, ep word.Word) (nextIP, nextSP word.Word, err error) {
	op, imm, next, alt, ok := instrAt(h, ip)
	if !ok {
		return word.WordUndef, sp, fmt.Errorf("ufork: not an instruction at %s", ip)
	}

	ctx := &execCtx{h: h, txn: txn, global: global, console: console, dbg: dbg, ep: ep}

	switch op {
	case OpPush:
		s, e := h.Push(sp, imm)
		return checkErr(next, s, e)
	case OpDrop:
		return next, h.Drop(sp, int(imm.Fix())), nil
	case OpDup:
		s, e := h.Dup(sp, int(imm.Fix()))
		return checkErr(next, s, e)
	case OpPick:
		s, e := h.Pick(sp, int(imm.Fix()))
		return checkErr(next, s, e)
	case OpRoll:
		s, e := h.Roll(sp, int(imm.Fix()))
		return checkErr(next, s, e)
	case OpDepth:
		s, e := h.Push(sp, word.Fixnum(int64(h.Depth(sp))))
		return checkErr(next, s, e)
	case OpTypeq:
		return execTypeq(h, sp, imm, next)
	case OpCell:
		return execCell(h, sp, imm, next)
	case OpGet:
		return execGet(h, sp, imm, next)
	case OpSet:
		return execSet(h, sp, imm, next)
	case OpPair:
		s, e := h.Pair(sp, int(imm.Fix()))
		return checkErr(next, s, e)
	case OpPart:
		s, e := h.Part(sp, int(imm.Fix()))
		return checkErr(next, s, e)
	case OpNth:
		s, e := h.Nth(sp, int(imm.Fix()))
		return checkErr(next, s, e)
	case OpAlu:
		return execAlu(h, sp, AluOp(imm.Fix()), next)
	case OpEq:
		return execEq(h, sp, imm, next)
	case OpCmp:
		return execCmp(h, sp, CmpRel(imm.Fix()), next)
	case OpIf:
		return execIf(sp, next, alt, h)
	case OpMsg:
		return execMsg(ctx, sp, imm, next)
	case OpSelf:
		return execSelf(ctx, sp, next)
	case OpSend:
		return execSend(ctx, sp, imm, next)
	case OpNew:
		return execNew(ctx, sp, imm, next)
	case OpBeh:
		return execBeh(ctx, sp, imm, next)
	case OpEnd:
		return execEnd(ctx, sp, EndKind(imm.Fix()))
	case OpCvt:
		return execCvt(h, sp, CvtMode(imm.Fix()), next)
	case OpPutc:
		return execPutc(ctx, sp, next)
	case OpGetc:
		return execGetc(ctx, sp, next)
	case OpDebug:
		return execDebug(ctx, sp, imm, next)
	default:
		s, e := h.Push(sp, word.WordUndef)
		return checkErr(next, s, e)
	}
}

// execCtx bundles the collaborators an opcode handler needs beyond the
// heap and raw operands.
type execCtx struct {
	h       *cell.Heap
	txn     *actor.Transaction
	global  *actor.Queue
	console Console
	dbg     Debugger
	ep      word.Word // the event this thread is handling
}

func checkErr(next, sp word.Word, err error) (word.Word, word.Word, error) {
	if err != nil {
		return word.WordUndef, sp, err
	}
	return next, sp, nil
}
