// Package driver invokes the reference and the translated implementation with
// identical arguments and captures everything the two must agree on.
//
// The reference is always called first. Arguments are validated before the
// first call; invalid arguments never reach either side. Panics and
// sanitizer traps inside a call are not recovered.
package driver

import (
	"fmt"

	"github.com/calvinalkan/diffuzz/internal/decode"
	"github.com/calvinalkan/diffuzz/internal/reclaim"
	"github.com/calvinalkan/diffuzz/pkg/api"
	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

// Side names one member of a pair.
type Side string

// Sides.
const (
	Reference  Side = "reference"
	Translated Side = "translated"
)

// SortResult is the observable outcome of one QuickSort call.
type SortResult struct {
	Values      []int32
	Checkpoints []Checkpoint
}

// URLResult is the observable outcome of one parse/accessor round.
type URLResult struct {
	Parsed    bool
	Href      foreign.NullString
	Fields    [api.FieldCount]foreign.NullString
	Accessors [api.FieldCount]foreign.NullString

	// Input is the argument buffer after all calls returned.
	Input []byte

	Checkpoints []Checkpoint
}

// InvokeSort runs both sorters, each on its own copy of args.Values.
func InvokeSort(pair api.Pair[api.Sorter], args decode.SortArgs) (SortResult, SortResult, error) {
	refBuf := foreign.NewIntBuffer(args.Values)
	trBuf := foreign.NewIntBuffer(args.Values)

	if err := refBuf.ValidateRange(args.Low, args.High); err != nil {
		return SortResult{}, SortResult{}, fmt.Errorf("%w: %w", ErrUnsafeArgs, err)
	}

	ref := invokeSort(pair.Reference, refBuf, args)
	tr := invokeSort(pair.Translated, trBuf, args)

	return ref, tr, nil
}

func invokeSort(s api.Sorter, buf foreign.IntBuffer, args decode.SortArgs) SortResult {
	res := SortResult{
		Checkpoints: []Checkpoint{checkpointInts("entry", buf.Values())},
	}

	s.QuickSort(buf, args.Low, args.High)

	res.Values = buf.Snapshot()
	res.Checkpoints = append(res.Checkpoints, checkpointInts("exit", res.Values))

	return res
}

// InvokeURL parses the input and calls every accessor on both sides. Every
// non-null handle and string is tracked in scope before the next call.
func InvokeURL(scope *reclaim.Scope, pair api.Pair[api.URLParser], args decode.URLArgs) (URLResult, URLResult, error) {
	if err := args.Input.Validate(); err != nil {
		return URLResult{}, URLResult{}, fmt.Errorf("%w: %w", ErrUnsafeArgs, err)
	}

	ref := invokeURL(scope, Reference, pair.Reference, args.Input.Clone())
	tr := invokeURL(scope, Translated, pair.Translated, args.Input.Clone())

	return ref, tr, nil
}

func invokeURL(scope *reclaim.Scope, side Side, p api.URLParser, in foreign.CString) URLResult {
	res := URLResult{
		Checkpoints: []Checkpoint{checkpointBytes("entry", in.Bytes())},
	}

	if h, ok := p.Parse(in); ok {
		scope.Track(string(side)+" parse", func() { p.Free(h) })

		res.Parsed = true
		res.Href = h.Href()

		for _, f := range api.Fields() {
			res.Fields[f] = h.Field(f)
		}
	}

	for _, f := range api.Fields() {
		v, release := p.Get(f, in)
		scope.Track(string(side)+" get "+f.String(), release)

		res.Accessors[f] = v
	}

	res.Input = in.Bytes()
	res.Checkpoints = append(res.Checkpoints, checkpointBytes("exit", res.Input))

	return res
}
