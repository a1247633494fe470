package codes

import (
	errs "github.com/bdlm/errors"
	std "github.com/bdlm/std/error"
)

const (
	// ErrUnspecified - 1000: The error code was unspecified
	ErrUnspecified std.Code = iota + 1000
	// ErrInvalidDepth - 1001: A stack depth below one was requested
	ErrInvalidDepth
	// ErrShapeUnavailable - 1002: A requested layer shape is not declared
	ErrShapeUnavailable
	// ErrStackNotRaised - 1003: The layer chain did not produce the
	// expected failure
	ErrStackNotRaised
	// ErrInvalidConfig - 1004: The logging configuration could not be
	// read or is invalid
	ErrInvalidConfig
	// ErrAppenderOpen - 1005: A log appender could not be opened
	ErrAppenderOpen
)

func init() {
	errs.Codes[ErrUnspecified] = errs.ErrCode{Ext: "An unknown error occurred", Int: "An unknown error occurred", HTTP: 500}
	errs.Codes[ErrInvalidDepth] = errs.ErrCode{Ext: "Invalid stack depth", Int: "stack depth must be at least one layer", HTTP: 500}
	errs.Codes[ErrShapeUnavailable] = errs.ErrCode{Ext: "Layer shape unavailable", Int: "the requested layer shape is not declared", HTTP: 500}
	errs.Codes[ErrStackNotRaised] = errs.ErrCode{Ext: "Failed to create throwable", Int: "the layer chain did not fail with the terminal throwable", HTTP: 500}
	errs.Codes[ErrInvalidConfig] = errs.ErrCode{Ext: "Invalid logging configuration", Int: "the logging configuration could not be loaded", HTTP: 500}
	errs.Codes[ErrAppenderOpen] = errs.ErrCode{Ext: "Failed to open appender", Int: "a log appender could not be opened", HTTP: 500}
}
