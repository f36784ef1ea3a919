// Package qsort is the C reference quicksort, compiled through cgo.
//
// The C symbols are renamed at compile time (see zz_generated_rename.go), so
// the Go side calls c_quickSort.
package qsort

// #cgo CFLAGS: -O1 -g
// #include "qsort.h"
import "C"

import (
	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

// Sorter calls the C quickSort.
type Sorter struct{}

// QuickSort sorts buf[low..high] in place. The caller must have validated the
// range with [foreign.IntBuffer.ValidateRange].
func (Sorter) QuickSort(buf foreign.IntBuffer, low, high int32) {
	C.c_quickSort((*C.int)(buf.Ptr()), C.int(low), C.int(high))
}
