// Package cell implements the uFork cell heap: the fixed-capacity, uniformly
// typed 4-field memory that backs every other component (actors, events,
// continuations, symbols, instructions).
package cell

import "github.com/ufork-go/ufork/internal/ufork/word"

// Cell is the universal heap record: {t, x, y, z}, each field a word.Word.
type Cell struct {
	T, X, Y, Z word.Word
}

// Type returns the cell's type discriminator. Only meaningful when T is a
// KindProc word holding one of the Tag* constants; instruction cells store
// an opcode in T instead and are identified by vm.DecodeOpcode.
func (c Cell) Type() (word.Proc, bool) {
	if c.T.Kind() != word.KindProc {
		return 0, false
	}
	return c.T.ProcVal(), true
}

func newTyped(tag word.Proc, x, y, z word.Word) Cell {
	return Cell{T: word.ProcConst(tag), X: x, Y: y, Z: z}
}

// BooleanCell builds a Boolean-tagged cell. FALSE and TRUE are distinguished
// only by which reserved heap index (0 or 1) holds the cell, per spec.md
// section 3 — the cell's fields carry no value.
func BooleanCell() Cell {
	return newTyped(word.TagBoolean, word.WordUndef, word.WordUndef, word.WordUndef)
}

func NullCell() Cell {
	return newTyped(word.TagNull, word.WordUndef, word.WordUndef, word.WordUndef)
}

func UndefCell() Cell {
	return newTyped(word.TagUndef, word.WordUndef, word.WordUndef, word.WordUndef)
}

func UnitCell() Cell {
	return newTyped(word.TagUnit, word.WordUndef, word.WordUndef, word.WordUndef)
}

func PairCell(car, cdr word.Word) Cell {
	return newTyped(word.TagPair, car, cdr, word.WordUndef)
}

// SymbolCell: x=hash, y=char-list (a Pair chain of Fixnum chars, or NIL),
// z=global binding (initially UNDEF).
func SymbolCell(hash, charList word.Word) Cell {
	return newTyped(word.TagSymbol, hash, charList, word.WordUndef)
}

// ActorCell: x=behavior ip, y=saved stack (state), z=txn (UNDEF when ready).
func ActorCell(behavior, state word.Word) Cell {
	return newTyped(word.TagActor, behavior, state, word.WordUndef)
}

// EventCell: x=target actor, y=message, z=queue-next (NIL when untailed).
func EventCell(target, message word.Word) Cell {
	return newTyped(word.TagEvent, target, message, word.WordNil)
}

// FreeCell: x=UNDEF, y=UNDEF, z=free-list-next.
func FreeCell(next word.Word) Cell {
	return newTyped(word.TagFree, word.WordUndef, word.WordUndef, next)
}

func IsFree(c Cell) bool {
	tag, ok := c.Type()
	return ok && tag == word.TagFree
}

func IsActor(c Cell) bool {
	tag, ok := c.Type()
	return ok && tag == word.TagActor
}

func IsEvent(c Cell) bool {
	tag, ok := c.Type()
	return ok && tag == word.TagEvent
}

func IsPair(c Cell) bool {
	tag, ok := c.Type()
	return ok && tag == word.TagPair
}

func IsSymbol(c Cell) bool {
	tag, ok := c.Type()
	return ok && tag == word.TagSymbol
}
