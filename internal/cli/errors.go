package cli

import "errors"

// Error variables for CLI commands.
var (
	ErrTargetRequired  = errors.New("target is required")
	ErrInputRequired   = errors.New("at least one input file is required")
	ErrReplayFailed    = errors.New("replay failed")
	ErrNameRequired    = errors.New("reference name is required")
	ErrSymbolsRequired = errors.New("--symbols is required")
	ErrConfigExists    = errors.New("config file already exists (use --force to overwrite)")
	ErrNothingToSave   = errors.New("no failing input to save")
	ErrBadInput        = errors.New("cannot parse input")
)
