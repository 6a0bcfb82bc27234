package ufork

import "github.com/ufork-go/ufork/internal/ufork/runtime"

// Config represents the public configuration surface for a Machine.
type Config = runtime.Config

// DefaultConfig returns a default machine configuration: a 64K-cell heap,
// 32-bit words, and a 100ms clock tick.
func DefaultConfig() *Config {
	return runtime.DefaultConfig()
}
