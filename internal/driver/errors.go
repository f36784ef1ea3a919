package driver

import "errors"

// ErrUnsafeArgs is returned when decoded arguments would be undefined
// behavior on the C side. It fails the iteration like a sanitizer trap.
var ErrUnsafeArgs = errors.New("unsafe foreign arguments")
