package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidSample   = errors.New("invalid sample")
	ErrUnknownMethod   = errors.New("unknown binning method")
	ErrStaleResponse   = errors.New("stale response")
	ErrUnorderedSeries = errors.New("series times are not strictly increasing")
	ErrNotReady        = errors.New("chart is not ready")
	ErrDisposed        = errors.New("chart is disposed")
	ErrUnknownSignal   = errors.New("unknown signal")
	ErrUnknownTarget   = errors.New("unknown target")
)

// InvalidTimeError reports a time representation that could not be parsed
type InvalidTimeError struct {
	Index int
	Value string
}

func (e *InvalidTimeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid time %q", e.Value)
	}
	return fmt.Sprintf("invalid time %q at index %d", e.Value, e.Index)
}

func (e *InvalidTimeError) Unwrap() error { return ErrInvalidTime }

// InvalidSampleError reports a distribution value that is not a finite number
type InvalidSampleError struct {
	Index int
	Value any
}

func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("invalid sample value %v at index %d", e.Value, e.Index)
}

func (e *InvalidSampleError) Unwrap() error { return ErrInvalidSample }

// UnknownMethodError reports a binning method name that is not recognized
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	if e.Method == "" {
		return "binning method is empty"
	}
	return fmt.Sprintf("unknown binning method %q", e.Method)
}

func (e *UnknownMethodError) Unwrap() error { return ErrUnknownMethod }
