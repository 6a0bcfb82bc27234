// Package vm implements the uFork instruction set: operand-stack
// semantics, typed operations, actor effects, and thread termination
// (spec.md section 4.5).
package vm

import (
	"fmt"

	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Opcode is one VM instruction, stored as the T field of an instruction
// cell (a word.Proc <= -10, per spec.md section 3's cell-field table).
type Opcode word.Proc

const (
	OpPush  Opcode = -10
	OpDrop  Opcode = -11
	OpDup   Opcode = -12
	OpPick  Opcode = -13
	OpRoll  Opcode = -14
	OpDepth Opcode = -15
	OpTypeq Opcode = -16
	OpCell  Opcode = -17
	OpGet   Opcode = -18
	OpSet   Opcode = -19
	OpPair  Opcode = -20
	OpPart  Opcode = -21
	OpNth   Opcode = -22
	OpAlu   Opcode = -23
	OpEq    Opcode = -24
	OpCmp   Opcode = -25
	OpIf    Opcode = -26
	OpMsg   Opcode = -27
	OpSelf  Opcode = -28
	OpSend  Opcode = -29
	OpNew   Opcode = -30
	OpBeh   Opcode = -31
	OpEnd   Opcode = -32
	OpCvt   Opcode = -33
	OpPutc  Opcode = -34
	OpGetc  Opcode = -35
	OpDebug Opcode = -36
)

var names = map[Opcode]string{
	OpPush: "push", OpDrop: "drop", OpDup: "dup", OpPick: "pick", OpRoll: "roll",
	OpDepth: "depth", OpTypeq: "typeq", OpCell: "cell", OpGet: "get", OpSet: "set",
	OpPair: "pair", OpPart: "part", OpNth: "nth", OpAlu: "alu", OpEq: "eq",
	OpCmp: "cmp", OpIf: "if", OpMsg: "msg", OpSelf: "self", OpSend: "send",
	OpNew: "new", OpBeh: "beh", OpEnd: "end", OpCvt: "cvt", OpPutc: "putc",
	OpGetc: "getc", OpDebug: "debug",
}

func (op Opcode) String() string {
	if n, ok := names[op]; ok {
		return n
	}
	return fmt.Sprintf("opcode(%d)", op)
}

// AluOp selects the `alu op` sub-operation, carried in the instruction's X
// field as a Fixnum.
type AluOp int64

const (
	AluNot AluOp = iota
	AluAnd
	AluOr
	AluXor
	AluAdd
	AluSub
	AluMul
)

// CmpRel selects the `cmp r` relation.
type CmpRel int64

const (
	CmpEq CmpRel = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
	CmpClass
)

// EndKind selects the `end k` termination mode.
type EndKind int64

const (
	EndAbort EndKind = iota
	EndStop
	EndCommit
	EndRelease
)

// CvtMode selects the `cvt c` conversion.
type CvtMode int64

const (
	CvtCharsToFixnum CvtMode = iota
	CvtCharsToSymbol
	CvtIntToFixnum
	CvtFixnumToInt
)

// FieldSel selects a cell field for `get`/`set`.
type FieldSel int64

const (
	FieldT FieldSel = iota
	FieldX
	FieldY
	FieldZ
)

// DecodeOpcode returns the Opcode held in an instruction cell's T word, or
// false if the word is not a valid instruction opcode (spec.md section 7,
// "unknown opcode" is an Error, not a Panic).
func DecodeOpcode(t word.Word) (Opcode, bool) {
	if t.Kind() != word.KindProc {
		return 0, false
	}
	op := Opcode(t.ProcVal())
	_, ok := names[op]
	return op, ok
}

// IsTerminal reports whether w is the terminal marker that signals thread
// death: the OpEnd opcode word itself, as produced by `end k`'s handler.
// No other word is terminal; a next-ip that is neither this marker nor an
// instruction cell makes the following Step report an error.
func IsTerminal(ip word.Word) bool {
	if ip.Kind() != word.KindProc {
		return false
	}
	return Opcode(ip.ProcVal()) == OpEnd
}
