// Package decode turns engine-supplied fuzz bytes into the arguments both
// implementations are called with.
//
// Every function here is pure: the result depends on its input bytes only.
// Conversions (integer truncation, NUL termination) happen once, so both
// sides always receive identical arguments.
package decode

import (
	"encoding/binary"

	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

const (
	// WordSize is the width of one engine integer.
	WordSize = 8

	// MaxValues bounds the sort buffer. Lomuto quicksort recurses once per
	// element on sorted input.
	MaxValues = 4096

	// MaxURLLen bounds the URL buffer.
	MaxURLLen = 1 << 16
)

// SortArgs are the arguments of one QuickSort call.
type SortArgs struct {
	Values []int32
	Low    int32
	High   int32
}

// URLArgs is the argument of one parse/accessor round.
type URLArgs struct {
	Input foreign.CString
}

// Sort reads the input as little-endian 64-bit words, truncates each to a C
// int and sorts the full range. Inputs shorter than one word are rejected.
func Sort(data []byte) (SortArgs, bool) {
	s := NewByteStream(data)

	n := min(s.Remaining()/WordSize, MaxValues)
	if n == 0 {
		return SortArgs{}, false
	}

	return SortArgs{Values: words(s, n), Low: 0, High: int32(n - 1)}, true
}

// SortRange reads two words selecting the range, then the values. low is
// folded into [0, n] and high into [-1, n-1], so any range with low < high
// lies inside the buffer while empty and inverted ranges stay reachable.
func SortRange(data []byte) (SortArgs, bool) {
	const header = 2 * WordSize

	if len(data) < header+WordSize {
		return SortArgs{}, false
	}

	s := NewByteStream(data)
	lowWord := s.NextUint64()
	highWord := s.NextUint64()

	n := min(s.Remaining()/WordSize, MaxValues)
	span := uint64(n) + 1

	return SortArgs{
		Values: words(s, n),
		Low:    int32(lowWord % span),
		High:   int32(highWord%span) - 1,
	}, true
}

// URL copies the input into a NUL-terminated buffer. Empty input, input
// whose C view is empty, and oversized input are rejected.
func URL(data []byte) (URLArgs, bool) {
	if len(data) == 0 || data[0] == 0 || len(data) > MaxURLLen {
		return URLArgs{}, false
	}

	return URLArgs{Input: foreign.NewCString(data)}, true
}

// EncodeWords is the inverse of the word decoding used by Sort: it renders
// values as little-endian 64-bit words. Used to build seeds and REPL input.
func EncodeWords(values ...int64) []byte {
	out := make([]byte, 0, len(values)*WordSize)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint64(out, uint64(v))
	}

	return out
}

func words(s *ByteStream, n int) []int32 {
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = int32(s.NextUint64())
	}

	return vals
}
