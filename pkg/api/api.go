// Package api declares the function-level surfaces that a reference and a
// translated implementation must both expose to be fuzzed against each other.
package api

import "github.com/calvinalkan/diffuzz/pkg/foreign"

// Sorter is an in-place ordering routine over an inclusive index range.
type Sorter interface {
	QuickSort(buf foreign.IntBuffer, low, high int32)
}

// Field names one URL component. The order of the constants is the order in
// which results are compared.
type Field int

// URL fields.
const (
	Protocol Field = iota
	Host
	Hostname
	Path
	Query
	Hash
	Port
	Auth
	Pathname
	Search

	FieldCount = int(Search) + 1
)

var fieldNames = [FieldCount]string{
	Protocol: "protocol",
	Host:     "host",
	Hostname: "hostname",
	Path:     "path",
	Query:    "query",
	Hash:     "hash",
	Port:     "port",
	Auth:     "auth",
	Pathname: "pathname",
	Search:   "search",
}

func (f Field) String() string {
	if f < 0 || int(f) >= FieldCount {
		return "field(?)"
	}

	return fieldNames[f]
}

// Fields returns every field in comparison order.
func Fields() []Field {
	out := make([]Field, FieldCount)
	for i := range out {
		out[i] = Field(i)
	}

	return out
}

// URLHandle is the structured result of a successful parse.
type URLHandle interface {
	Href() foreign.NullString
	Field(f Field) foreign.NullString
}

// URLParser is a parse/accessor/free API for URLs.
type URLParser interface {
	// Parse returns false when the implementation produced no result (NULL).
	Parse(s foreign.CString) (URLHandle, bool)

	// Free releases a handle returned by Parse. It must be called exactly once.
	Free(h URLHandle)

	// Get calls the accessor for f. The returned release func frees any memory
	// backing the value and is nil when nothing was allocated.
	Get(f Field, s foreign.CString) (foreign.NullString, func())
}

// Pair binds the reference and translated implementation of one API.
type Pair[T any] struct {
	Reference  T
	Translated T
}
