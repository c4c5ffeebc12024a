package main

import (
	"time"

	"displaycode-go/tick"
)

// Minimal bring-up check: proves the toolchain, USB console and tick
// adapter work on a fresh board before flashing cmd/device-main.
func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("Info: boot")

	t := time.NewTicker(1 * time.Second)
	defer t.Stop()

	for range t.C {
		println("Info: alive, tick_ms =", tick.Ms())
	}
}
