package vm

import "github.com/ufork-go/ufork/internal/ufork/word"

// execPutc implements `putc`: pop a Fixnum character code, write it to the
// console device. A console error aborts the step (spec.md section 6: the
// console device is "outside the actor model" but a broken pipe still has
// to surface somewhere).
func execPutc(ctx *execCtx, sp, next word.Word) (word.Word, word.Word, error) {
	v, rest := ctx.h.Pop(sp)
	if ctx.console == nil {
		return next, rest, nil
	}
	if err := ctx.console.PutC(byte(v.Fix())); err != nil {
		return word.WordUndef, rest, err
	}
	return next, rest, nil
}

// execGetc implements `getc`: read one character from the console device,
// push its code as a Fixnum. End-of-stream pushes a negative Fixnum (the
// console's own sentinel, spec.md section 6), not UNDEF, so a `cmp lt 0`
// test sees a Fixnum either way.
func execGetc(ctx *execCtx, sp, next word.Word) (word.Word, word.Word, error) {
	var ch int32 = -1
	if ctx.console != nil {
		var err error
		ch, err = ctx.console.GetC()
		if err != nil {
			return word.WordUndef, sp, err
		}
	}
	s, err := ctx.h.Push(sp, word.Fixnum(int64(ch)))
	return checkErr(next, s, err)
}

// execDebug implements `debug tag`: pop a value, emit it tagged through the
// debugger collaborator. Never touches the stack beyond the pop; `debug` is
// a pure side channel (spec.md section 6).
func execDebug(ctx *execCtx, sp, imm, next word.Word) (word.Word, word.Word, error) {
	v, rest := ctx.h.Pop(sp)
	if ctx.dbg != nil {
		ctx.dbg.Emit(imm, v, ctx.h)
	}
	return next, rest, nil
}
