package build

import "errors"

// Error variables for build orchestration. All of them are fatal; a failed
// build is never retried.
var (
	ErrCompilerNotFound = errors.New("C compiler not found")
	ErrResourceDir      = errors.New("cannot determine compiler resource dir")
	ErrRuntimeNotFound  = errors.New("profiling runtime library not found")
	ErrUnknownArch      = errors.New("unknown host architecture")
	ErrUnknownTarget    = errors.New("unknown target")
	ErrStaleGenerated   = errors.New("generated rename file is stale, run 'diffuzz gen'")
	ErrStepFailed       = errors.New("build step failed")
	ErrEmptyArgv        = errors.New("empty argv")
	ErrNoSources        = errors.New("reference has no C sources")
	ErrUnrenamedSymbol  = errors.New("reference defines symbols missing from its rename table")
)
