// Package diag implements the `debug tag v` side channel (spec.md
// section 4.5) and the crash-dump path for Panic-class failures (section
// 7: "out-of-heap, double-free ... logs a message and exits").
package diag

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-stack/stack"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Sink implements vm.Debugger: it pretty-prints each `debug tag v`
// emission to an io.Writer, for testing only (spec.md section 4.5).
type Sink struct {
	out io.Writer
	cfg *spew.ConfigState
}

// NewSink wraps out as the diagnostic destination.
func NewSink(out io.Writer) *Sink {
	cfg := spew.NewDefaultConfig()
	cfg.Indent = "  "
	cfg.DisablePointerAddresses = true
	return &Sink{out: out, cfg: cfg}
}

// Emit renders tag and v, resolving v one level deep through the heap when
// it is a heap reference, so a debug dump of a Pair or Actor shows its
// fields rather than a bare index.
func (s *Sink) Emit(tag, v word.Word, h *cell.Heap) {
	fmt.Fprintf(s.out, "debug[%s]: %s", tag, v)
	if v.Kind() == word.KindHeap && v.Index() >= word.FirstFreeIndex {
		c := h.Get(v.Index())
		fmt.Fprint(s.out, " = ")
		s.cfg.Fprintln(s.out, c)
		return
	}
	fmt.Fprintln(s.out)
}

// Fatal reports a Panic-class failure (spec.md section 7): logs the error
// and a short call stack to out. The runtime loop calls this only for
// out-of-heap and double-free errors — never for ordinary Error-class
// conditions, which
// stay within the VM as UNDEF.
func Fatal(out io.Writer, err error) {
	fmt.Fprintf(out, "ufork: fatal: %v\n", err)
	trace := stack.Trace().TrimRuntime()
	fmt.Fprintf(out, "ufork: at %v\n", trace)
}

// Fatal reports err through the sink's own writer, so the runtime loop can
// log a Panic-class failure without needing to reach into the Sink for its
// writer.
func (s *Sink) Fatal(err error) {
	Fatal(s.out, err)
}
