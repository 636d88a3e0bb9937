package future

import "runtime"

// spinYield yields the processor to another goroutine. Extracted to its own
// function so SpinUntilCompleted's intent reads clearly at the call site.
func spinYield() {
	runtime.Gosched()
}
