package domain

import "errors"

var (
	// ErrLoadFailure signals that a dataset file could not be read.
	ErrLoadFailure = errors.New("dataset load failure")
	// ErrUnknownDatasetKind signals a request for an unconfigured dataset kind.
	ErrUnknownDatasetKind = errors.New("unknown dataset kind")
	// ErrColumnNotFound signals a missing dataset column.
	ErrColumnNotFound = errors.New("column not found")
	// ErrToolNotFound signals a tool name absent from the registry.
	ErrToolNotFound = errors.New("tool not found")
	// ErrGenerationBackend signals a generation backend failure.
	ErrGenerationBackend = errors.New("generation backend error")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)
