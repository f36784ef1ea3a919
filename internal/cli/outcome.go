package cli

import (
	"strings"

	"github.com/calvinalkan/diffuzz/internal/harness"
)

// printOutcome prints one verdict line and, for failures, the divergence and
// the checkpoints of both sides.
func printOutcome(o *IO, label string, out harness.Outcome) {
	o.Printf("%s: %s\n", label, out.Verdict)

	if out.Verdict != harness.Failed {
		return
	}

	for _, line := range strings.Split(strings.TrimRight(out.Failure().Error(), "\n"), "\n") {
		o.Println("  " + line)
	}

	for _, line := range strings.Split(strings.TrimRight(out.Trace.String(), "\n"), "\n") {
		if line != "" {
			o.Println("  " + line)
		}
	}
}
