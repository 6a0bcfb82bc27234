// Package device implements the uFork built-in devices: the console
// (character I/O), used by the `putc`/`getc` instructions, and the clock
// (periodic interrupt), polled by the runtime loop (spec.md section 6).
package device

import (
	"bufio"
	"io"

	"github.com/fatih/color"
)

// Console adapts an io.Writer/io.Reader pair to the vm.Console interface.
// Output is tinted when the process's standard output is a terminal
// (fatih/color's own detection, whatever out is), purely as an operator
// convenience; the protocol itself is untyped bytes.
type Console struct {
	out   io.Writer
	in    *bufio.Reader
	paint *color.Color
}

// NewConsole wraps out/in as the machine's character devices.
func NewConsole(out io.Writer, in io.Reader) *Console {
	return &Console{
		out:   out,
		in:    bufio.NewReader(in),
		paint: color.New(color.FgGreen),
	}
}

// PutC writes one character, per spec.md section 4.5's `putc`.
func (c *Console) PutC(ch byte) error {
	_, err := c.paint.Fprint(c.out, string(rune(ch)))
	return err
}

// GetC reads one character, returning -1 at end-of-stream rather than an
// error (spec.md section 6: `getc` pushes a negative Fixnum at EOF, never
// faults).
func (c *Console) GetC() (int32, error) {
	b, err := c.in.ReadByte()
	if err == io.EOF {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return int32(b), nil
}
