package vm

import (
	"errors"
	"testing"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

type fakeConsole struct {
	written []byte
	toRead  []int32
	readErr error
}

func (f *fakeConsole) PutC(ch byte) error {
	f.written = append(f.written, ch)
	return nil
}

func (f *fakeConsole) GetC() (int32, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.toRead) == 0 {
		return -1, nil
	}
	ch := f.toRead[0]
	f.toRead = f.toRead[1:]
	return ch, nil
}

type fakeDebugger struct {
	tags []word.Word
	vals []word.Word
}

func (f *fakeDebugger) Emit(tag, v word.Word, h *cell.Heap) {
	f.tags = append(f.tags, tag)
	f.vals = append(f.vals, v)
}

func newIOCtx(h *cell.Heap, console Console, dbg Debugger) *execCtx {
	return &execCtx{h: h, console: console, dbg: dbg, ep: word.WordUndef}
}

func TestExecPutcWritesByte(t *testing.T) {
	h := newTestHeap(t)
	con := &fakeConsole{}
	ctx := newIOCtx(h, con, nil)

	sp, _ := h.Push(word.WordNil, word.Fixnum('A'))
	_, _, err := execPutc(ctx, sp, word.WordUndef)
	if err != nil {
		t.Fatalf("execPutc failed: %v", err)
	}
	if len(con.written) != 1 || con.written[0] != 'A' {
		t.Errorf("console received %v, want ['A']", con.written)
	}
}

func TestExecPutcNilConsoleIsNoop(t *testing.T) {
	h := newTestHeap(t)
	ctx := newIOCtx(h, nil, nil)

	sp, _ := h.Push(word.WordNil, word.Fixnum('A'))
	_, _, err := execPutc(ctx, sp, word.WordUndef)
	if err != nil {
		t.Fatalf("execPutc with nil console should not error: %v", err)
	}
}

func TestExecGetcPushesCharacter(t *testing.T) {
	h := newTestHeap(t)
	con := &fakeConsole{toRead: []int32{'z'}}
	ctx := newIOCtx(h, con, nil)

	_, sp, err := execGetc(ctx, word.WordNil, word.WordUndef)
	if err != nil {
		t.Fatalf("execGetc failed: %v", err)
	}
	top, _ := h.Pop(sp)
	if top.Fix() != 'z' {
		t.Errorf("getc pushed %v, want 'z'", top)
	}
}

func TestExecGetcAtEOFPushesNegativeFixnum(t *testing.T) {
	h := newTestHeap(t)
	con := &fakeConsole{}
	ctx := newIOCtx(h, con, nil)

	_, sp, err := execGetc(ctx, word.WordNil, word.WordUndef)
	if err != nil {
		t.Fatalf("execGetc at EOF should not error: %v", err)
	}
	top, _ := h.Pop(sp)
	if !top.IsFixnum() || top.Fix() >= 0 {
		t.Errorf("getc at EOF pushed %v, want a negative Fixnum", top)
	}
}

func TestExecGetcPropagatesReadError(t *testing.T) {
	h := newTestHeap(t)
	con := &fakeConsole{readErr: errors.New("boom")}
	ctx := newIOCtx(h, con, nil)

	_, _, err := execGetc(ctx, word.WordNil, word.WordUndef)
	if err == nil {
		t.Error("execGetc should propagate a genuine read error")
	}
}

func TestExecDebugEmitsTagAndValue(t *testing.T) {
	h := newTestHeap(t)
	dbg := &fakeDebugger{}
	ctx := newIOCtx(h, nil, dbg)

	sp, _ := h.Push(word.WordNil, word.Fixnum(42))
	_, _, err := execDebug(ctx, sp, word.Fixnum(7), word.WordUndef)
	if err != nil {
		t.Fatalf("execDebug failed: %v", err)
	}
	if len(dbg.vals) != 1 || dbg.vals[0].Fix() != 42 {
		t.Errorf("debug emitted %v, want [42]", dbg.vals)
	}
	if dbg.tags[0].Fix() != 7 {
		t.Errorf("debug tag = %v, want 7", dbg.tags[0])
	}
}
