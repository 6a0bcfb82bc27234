package ufork

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/device"
	"github.com/ufork-go/ufork/internal/ufork/diag"
	"github.com/ufork-go/ufork/internal/ufork/image"
	"github.com/ufork-go/ufork/internal/ufork/runtime"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// isFatal reports whether err traces back to one of spec.md section 7's
// Panic-class conditions (heap exhaustion, double free) rather than an
// ordinary recoverable Error-class condition.
func isFatal(err error) bool {
	return errors.Is(err, cell.ErrOutOfMemory) || errors.Is(err, cell.ErrDoubleFree)
}

// Machine is the public interface to a running uFork instance.
type Machine interface {
	// LoadImage decompresses and populates the heap from a bootstrap image,
	// posting its seed event onto the event queue (spec.md section 6).
	LoadImage(r io.Reader) error

	// SetClockHandler installs the actor that receives one event per clock
	// tick (spec.md section 6).
	SetClockHandler(actorHeapIndex int)

	// Run drives the runtime loop until the machine halts (no more work)
	// or budget loop iterations have run, each executing at most one
	// instruction (0 means unbounded).
	Run(budget int) error

	// Tick runs exactly one iteration of interrupt-poll/dispatch/execute.
	Tick() error
}

type machineImpl struct {
	m *runtime.Machine
}

// New creates a Machine over its own cell heap, console (stdio by
// default), and diagnostic sink.
func New(config *Config) (Machine, error) {
	return NewWithIO(config, os.Stdout, os.Stdin, os.Stderr)
}

// NewWithIO is New with explicit console and diagnostic streams, for
// embedding or testing.
func NewWithIO(config *Config, consoleOut io.Writer, consoleIn io.Reader, diagOut io.Writer) (Machine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	console := device.NewConsole(consoleOut, consoleIn)
	sink := diag.NewSink(diagOut)

	m, err := runtime.NewMachine(config, console, sink)
	if err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "failed to create machine", Cause: err}
	}
	return &machineImpl{m: m}, nil
}

func (mi *machineImpl) LoadImage(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &VMError{Code: ErrImageLoad, Message: "failed to read image", Cause: err}
	}
	seed, err := image.Load(mi.m.Heap, bytes.NewReader(data))
	if err != nil {
		if isFatal(err) {
			return NewFatalError("failed to load image", err)
		}
		return &VMError{Code: ErrImageLoad, Message: "failed to load image", Cause: err}
	}
	mi.m.PostEvent(seed)
	return nil
}

func (mi *machineImpl) SetClockHandler(actorHeapIndex int) {
	mi.m.SetClockHandler(word.Heap(actorHeapIndex))
}

func (mi *machineImpl) Run(budget int) error {
	if err := mi.m.Run(budget); err != nil {
		if isFatal(err) {
			return NewFatalError("runtime loop failed", err)
		}
		return &VMError{Code: ErrExecution, Message: "runtime loop failed", Cause: err}
	}
	return nil
}

func (mi *machineImpl) Tick() error {
	err := mi.m.Tick()
	if err == nil {
		return nil
	}
	if errors.Is(err, runtime.ErrHalted) {
		return err
	}
	if isFatal(err) {
		return NewFatalError("step failed", err)
	}
	return &VMError{Code: ErrExecution, Message: "step failed", Cause: err}
}
