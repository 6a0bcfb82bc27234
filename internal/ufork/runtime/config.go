// Package runtime implements the interleaved dispatch/execute loop that
// drives a uFork image: interrupt poll, dispatch one event, execute one
// instruction of the head continuation, repeat (spec.md section 4.7).
package runtime

import (
	"fmt"
	"time"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// Config is the runtime's tunable surface: heap sizing, word width, and the
// clock device's tick interval.
type Config struct {
	HeapCapacity int
	WordWidth    int

	ClockInterval time.Duration

	// StepBudget is validated (it must not be negative) and stored; the
	// runtime loop does not read it, so it places no limit on the
	// instructions a continuation runs. Zero is the default.
	StepBudget int

	ImagePath string
}

// DefaultConfig returns the configuration used when a driver supplies no
// overrides.
func DefaultConfig() *Config {
	return &Config{
		HeapCapacity:  cell.DefaultCapacity,
		WordWidth:     word.DefaultWidth,
		ClockInterval: 100 * time.Millisecond,
		StepBudget:    0,
	}
}

// Validate rejects configurations the runtime cannot start with.
func (c *Config) Validate() error {
	if c.HeapCapacity < word.FirstFreeIndex {
		return fmt.Errorf("ufork: heap capacity %d too small", c.HeapCapacity)
	}
	if c.WordWidth <= 1 || c.WordWidth > 64 {
		return fmt.Errorf("ufork: word width %d out of range", c.WordWidth)
	}
	if c.ClockInterval < 0 {
		return fmt.Errorf("ufork: negative clock interval")
	}
	if c.StepBudget < 0 {
		return fmt.Errorf("ufork: negative step budget")
	}
	return nil
}

// WithHeapCapacity sets the cell heap's fixed capacity.
func (c *Config) WithHeapCapacity(n int) *Config {
	c.HeapCapacity = n
	return c
}

// WithWordWidth sets the machine word width in bits.
func (c *Config) WithWordWidth(bits int) *Config {
	c.WordWidth = bits
	return c
}

// WithClockInterval sets the clock device's tick period.
func (c *Config) WithClockInterval(d time.Duration) *Config {
	c.ClockInterval = d
	return c
}

// WithStepBudget sets the per-continuation instruction budget.
func (c *Config) WithStepBudget(n int) *Config {
	c.StepBudget = n
	return c
}

// WithImagePath sets the boot image to load.
func (c *Config) WithImagePath(path string) *Config {
	c.ImagePath = path
	return c
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
