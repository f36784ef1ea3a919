// Package harness wires decoder, driver, oracle and reclaimer into one fuzz
// iteration per input.
package harness

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/diffuzz/internal/decode"
	"github.com/calvinalkan/diffuzz/internal/driver"
	"github.com/calvinalkan/diffuzz/internal/oracle"
	"github.com/calvinalkan/diffuzz/internal/reclaim"
	"github.com/calvinalkan/diffuzz/pkg/api"
)

// Target names.
const (
	NameQuickSort      = "qsort"
	NameQuickSortRange = "qsort-range"
	NameURLParser      = "urlparser"
)

// Verdict is the terminal state of one iteration.
type Verdict int

// Verdicts.
const (
	Rejected Verdict = iota
	Passed
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Rejected:
		return "rejected"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Trace holds the entry/exit checkpoints of both sides.
type Trace struct {
	Reference  []driver.Checkpoint
	Translated []driver.Checkpoint
}

// Outcome is the result of one iteration.
type Outcome struct {
	Target  string
	Verdict Verdict

	// Divergence is set when the oracle found a difference.
	Divergence *oracle.Divergence

	// Err is set when the driver refused the arguments.
	Err error

	Reclaim reclaim.Stats
	Trace   Trace
}

// Failure returns the reason a Failed outcome failed, or nil.
func (o Outcome) Failure() error {
	if o.Verdict != Failed {
		return nil
	}

	if o.Divergence != nil {
		return o.Divergence
	}

	if o.Err != nil {
		return fmt.Errorf("%s: %w", o.Target, o.Err)
	}

	return fmt.Errorf("%s: failed", o.Target)
}

// Target runs one differential iteration per input.
type Target interface {
	Name() string
	Iterate(data []byte) Outcome
}

type pipeline[A, R any] struct {
	name    string
	decode  func([]byte) (A, bool)
	invoke  func(*reclaim.Scope, A) (R, R, error)
	compare func(string, R, R) *oracle.Divergence
	trace   func(R) []driver.Checkpoint
}

func (p *pipeline[A, R]) Name() string {
	return p.name
}

// Iterate decodes data, invokes both sides and compares the results. Every
// tracked handle is released before Iterate returns, on every path.
func (p *pipeline[A, R]) Iterate(data []byte) (out Outcome) {
	out.Target = p.name

	args, ok := p.decode(data)
	if !ok {
		out.Verdict = Rejected

		return out
	}

	var scope reclaim.Scope

	defer func() {
		scope.Close()
		out.Reclaim = scope.Stats()
	}()

	ref, tr, err := p.invoke(&scope, args)
	if err != nil {
		out.Verdict = Failed
		out.Err = err

		return out
	}

	out.Trace = Trace{Reference: p.trace(ref), Translated: p.trace(tr)}

	if d := p.compare(p.name, ref, tr); d != nil {
		out.Verdict = Failed
		out.Divergence = d

		return out
	}

	out.Verdict = Passed

	return out
}

// QuickSort sorts the full decoded buffer on both sides.
func QuickSort(pair api.Pair[api.Sorter]) Target {
	return sortPipeline(NameQuickSort, decode.Sort, pair)
}

// QuickSortRange sorts a decoded sub-range on both sides.
func QuickSortRange(pair api.Pair[api.Sorter]) Target {
	return sortPipeline(NameQuickSortRange, decode.SortRange, pair)
}

func sortPipeline(name string, dec func([]byte) (decode.SortArgs, bool), pair api.Pair[api.Sorter]) Target {
	return &pipeline[decode.SortArgs, driver.SortResult]{
		name:   name,
		decode: dec,
		invoke: func(_ *reclaim.Scope, args decode.SortArgs) (driver.SortResult, driver.SortResult, error) {
			return driver.InvokeSort(pair, args)
		},
		compare: oracle.CompareSort,
		trace:   func(r driver.SortResult) []driver.Checkpoint { return r.Checkpoints },
	}
}

// URLParser parses the decoded string and calls every accessor on both sides.
func URLParser(pair api.Pair[api.URLParser]) Target {
	return &pipeline[decode.URLArgs, driver.URLResult]{
		name:   NameURLParser,
		decode: decode.URL,
		invoke: func(scope *reclaim.Scope, args decode.URLArgs) (driver.URLResult, driver.URLResult, error) {
			return driver.InvokeURL(scope, pair, args)
		},
		compare: oracle.CompareURL,
		trace:   func(r driver.URLResult) []driver.Checkpoint { return r.Checkpoints },
	}
}

func (t Trace) String() string {
	var b strings.Builder

	for _, cp := range t.Reference {
		b.WriteString("reference  " + cp.String() + "\n")
	}

	for _, cp := range t.Translated {
		b.WriteString("translated " + cp.String() + "\n")
	}

	return b.String()
}
