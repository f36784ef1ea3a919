package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrCompilerEmpty      = errors.New("compiler cannot be empty")
	ErrOutDirEmpty        = errors.New("out_dir cannot be empty")
	ErrRuntimePrefixEmpty = errors.New("runtime_prefix cannot be empty")
	ErrNoReferences       = errors.New("no reference packages configured")
	ErrNoTargets          = errors.New("no targets configured")
	ErrReferenceInvalid   = errors.New("invalid reference")
	ErrInvalidSymbol      = errors.New("invalid C identifier")
	ErrRenameCollision    = errors.New("rename collision")
)
