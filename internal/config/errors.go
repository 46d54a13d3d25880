package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// ParseError reports a file that could not be decoded.
type ParseError struct {
	Path string
	Line int // 0 when unknown
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the decoder's error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError lists every setting that failed validation.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
