package targets

import "errors"

// ErrUnknownTarget is returned by Lookup for names not in All.
var ErrUnknownTarget = errors.New("unknown target")
