package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ufork-go/ufork/pkg/ufork"
)

func main() {
	imagePath := flag.String("image", "", "path to a zstd-compressed bootstrap image")
	heapCapacity := flag.Int("heap", 1<<16, "cell heap capacity")
	wordWidth := flag.Int("word-width", 32, "machine word width in bits")
	clockInterval := flag.Duration("clock", 100*time.Millisecond, "clock device tick interval")
	clockHandler := flag.Int("clock-handler", -1, "heap index of the clock-handler actor (-1 disables the clock)")
	budget := flag.Int("budget", 0, "runtime-loop iteration budget, at most one instruction each (0 = unbounded)")
	flag.Parse()

	if *imagePath == "" {
		fatal("missing required -image flag")
	}

	config := ufork.DefaultConfig().
		WithHeapCapacity(*heapCapacity).
		WithWordWidth(*wordWidth).
		WithClockInterval(*clockInterval)

	logStderr("creating machine...")
	machine, err := ufork.New(config)
	if err != nil {
		fatal(fmt.Sprintf("failed to create machine: %v", err))
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fatal(fmt.Sprintf("failed to open image %s: %v", *imagePath, err))
	}
	defer f.Close()

	logStderr(fmt.Sprintf("loading image %s...", *imagePath))
	if err := machine.LoadImage(f); err != nil {
		fatal(fmt.Sprintf("failed to load image: %v", err))
	}

	if *clockHandler >= 0 {
		machine.SetClockHandler(*clockHandler)
	}

	logStderr("running...")
	if err := machine.Run(*budget); err != nil {
		fatal(fmt.Sprintf("execution failed: %v", err))
	}

	logStderr("done")
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "ufork-run:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
