// Package harnesstest holds test helpers for code that runs harness targets.
package harnesstest

import (
	"testing"

	"github.com/calvinalkan/diffuzz/internal/harness"
)

// Check fails tb when out failed or leaked.
func Check(tb testing.TB, out harness.Outcome) {
	tb.Helper()

	if err := out.Failure(); err != nil {
		tb.Fatalf("%v\n%s", err, out.Trace)
	}

	if !out.Reclaim.Balanced() {
		tb.Fatalf("%s: reclaim imbalance: acquired=%d released=%d", out.Target, out.Reclaim.Acquired, out.Reclaim.Released)
	}
}
