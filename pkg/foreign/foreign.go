// Package foreign holds the values that may be handed to a C implementation.
//
// A value is only passed across the boundary after its Validate method (or
// the range check for [IntBuffer]) succeeded. Go memory handed to C is never
// retained by the callee past the call.
package foreign

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unsafe"
)

// Validation errors.
var (
	ErrEmptyBuffer  = errors.New("foreign: empty buffer")
	ErrUnterminated = errors.New("foreign: string is not NUL-terminated")
	ErrRange        = errors.New("foreign: index range outside buffer")
	ErrTooLarge     = errors.New("foreign: buffer length exceeds C int")
)

// CString is a NUL-terminated byte buffer owned by Go.
type CString struct {
	buf []byte
}

// NewCString copies data and appends the terminator.
func NewCString(data []byte) CString {
	buf := make([]byte, len(data)+1)
	copy(buf, data)

	return CString{buf: buf}
}

// Clone returns an independent copy, so one side's writes never reach the other.
func (s CString) Clone() CString {
	return CString{buf: bytes.Clone(s.buf)}
}

// Validate reports whether s may be passed as a char*.
func (s CString) Validate() error {
	if len(s.buf) == 0 {
		return ErrEmptyBuffer
	}

	if s.buf[len(s.buf)-1] != 0 {
		return ErrUnterminated
	}

	if len(s.buf) > math.MaxInt32 {
		return ErrTooLarge
	}

	return nil
}

// Ptr returns the address of the first byte. Call Validate first.
func (s CString) Ptr() unsafe.Pointer {
	return unsafe.Pointer(&s.buf[0])
}

// String returns the bytes a C reader sees: everything before the first NUL.
func (s CString) String() string {
	if i := bytes.IndexByte(s.buf, 0); i >= 0 {
		return string(s.buf[:i])
	}

	return string(s.buf)
}

// Bytes returns a copy of the whole buffer, terminator included.
func (s CString) Bytes() []byte {
	return bytes.Clone(s.buf)
}

// IntBuffer is a mutable buffer of C ints.
type IntBuffer struct {
	vals []int32
}

// NewIntBuffer copies vals into a fresh buffer.
func NewIntBuffer(vals []int32) IntBuffer {
	return IntBuffer{vals: append([]int32(nil), vals...)}
}

// Len returns the number of elements.
func (b IntBuffer) Len() int {
	return len(b.vals)
}

// Values returns the live backing slice. Writes are visible to the buffer.
func (b IntBuffer) Values() []int32 {
	return b.vals
}

// Snapshot returns a copy of the current contents.
func (b IntBuffer) Snapshot() []int32 {
	return append([]int32(nil), b.vals...)
}

// Ptr returns the address of the first element, or nil for an empty buffer.
func (b IntBuffer) Ptr() unsafe.Pointer {
	if len(b.vals) == 0 {
		return nil
	}

	return unsafe.Pointer(&b.vals[0])
}

// ValidateRange checks that an inclusive [low, high] range is safe to hand to
// a routine that touches elements only when low < high.
func (b IntBuffer) ValidateRange(low, high int32) error {
	if len(b.vals) > math.MaxInt32 {
		return ErrTooLarge
	}

	if low >= high {
		return nil
	}

	if low < 0 || int(high) >= len(b.vals) {
		return fmt.Errorf("%w: low=%d high=%d len=%d", ErrRange, low, high, len(b.vals))
	}

	return nil
}

// NullString is a C string result: Valid is false for NULL.
type NullString struct {
	Value string
	Valid bool
}

// Null is the NULL result.
var Null = NullString{}

// Some wraps a present value.
func Some(s string) NullString {
	return NullString{Value: s, Valid: true}
}

// String renders NULL as <null> and values quoted.
func (n NullString) String() string {
	if !n.Valid {
		return "<null>"
	}

	return strconv.Quote(n.Value)
}
