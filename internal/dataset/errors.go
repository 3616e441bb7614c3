package dataset

import "errors"

var (
	// ErrDatasetNotFound is returned when a dataset or input file does not exist.
	ErrDatasetNotFound = errors.New("dataset file not found")

	// ErrMissingColumn is returned when a file lacks a required column.
	ErrMissingColumn = errors.New("missing column")

	// ErrEmptyFile is returned when a file has no header line.
	ErrEmptyFile = errors.New("empty file")
)
