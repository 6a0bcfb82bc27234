// Package ufork provides a production-ready actor virtual machine.
//
// uFork executes a stack-based instruction set over a uniformly-typed,
// fixed-capacity cell heap. Actors process asynchronous messages; each
// dispatch spawns a lightweight thread of VM instructions manipulating a
// per-thread operand stack, enqueueing outbound events, and optionally
// rebinding its own behavior, all under an atomic transaction that
// commits or aborts as a whole.
//
// # Quick Start
//
// Creating a machine and running a bootstrap image:
//
//	config := ufork.DefaultConfig()
//	machine, err := ufork.New(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := machine.LoadImage(imageFile); err != nil {
//		log.Fatal(err)
//	}
//
//	if err := machine.Run(0); err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
// uFork uses a hybrid public/private architecture:
//
//   - pkg/ufork/: Public API (this package)
//   - internal/ufork/: Private implementation (not importable)
//
// The public API provides stable interfaces for constructing a machine,
// loading an image, and driving the runtime loop. Implementation details
// in internal/ can be refactored without breaking the public API.
package ufork
