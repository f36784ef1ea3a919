//go:build libfuzzer

// Command diffuzz-libfuzzer is the libFuzzer entry point. It is built with
// -buildmode=c-archive by "diffuzz build" and linked with -fsanitize=fuzzer;
// the target is chosen at link time with -X main.targetName.
package main

// #include <stdint.h>
// #include <stdlib.h>
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/calvinalkan/diffuzz/internal/harness"
	"github.com/calvinalkan/diffuzz/internal/targets"
)

var targetName = harness.NameQuickSort

var target harness.Target

//export LLVMFuzzerInitialize
func LLVMFuzzerInitialize(argc *C.int, argv ***C.char) C.int {
	t, err := targets.Lookup(targetName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "diffuzz:", err)
		C.abort()
	}

	target = t

	return 0
}

// LLVMFuzzerTestOneInput runs one iteration. A divergence aborts the process
// so libFuzzer records the input as a crash.
//
//export LLVMFuzzerTestOneInput
func LLVMFuzzerTestOneInput(data *C.uint8_t, size C.size_t) C.int {
	in := C.GoBytes(unsafe.Pointer(data), C.int(size))

	out := target.Iterate(in)
	if out.Verdict == harness.Failed {
		fmt.Fprintf(os.Stderr, "%v\n%s", out.Failure(), out.Trace)
		C.abort()
	}

	if !out.Reclaim.Balanced() {
		fmt.Fprintf(os.Stderr, "%s: reclaim imbalance: acquired=%d released=%d\n",
			out.Target, out.Reclaim.Acquired, out.Reclaim.Released)
		C.abort()
	}

	return 0
}

func main() {}
