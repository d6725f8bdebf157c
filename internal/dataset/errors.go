package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExtension indicates the path does not name a .csv file.
	ErrInvalidExtension = errors.New("invalid file extension")
	// ErrEmptyFile indicates a zero-byte input file.
	ErrEmptyFile = errors.New("file is empty")
	// ErrFileTooLarge indicates the input exceeds the configured ceiling.
	ErrFileTooLarge = errors.New("file is too large")
	// ErrMissingHeader indicates the input contains no rows at all.
	ErrMissingHeader = errors.New("missing header row")
	// ErrMissingCategoryColumn indicates the header has no region column.
	ErrMissingCategoryColumn = errors.New("header has no region column")
	ErrFieldMismatch         = errors.New("field mismatch")
	ErrColumnIndexOutOfRange = errors.New("column index out of range")
	ErrRegionIndexOutOfRange = errors.New("region index out of range")
	ErrNoMatchingRows        = errors.New("no matching rows")
)

// FieldMismatchError reports a row whose field count disagrees with the header.
type FieldMismatchError struct {
	// Line is the 1-based record number in the source (header is line 1).
	// Zero when the row did not come straight from a file.
	Line int
	Got  int
	Want int
}

func (e *FieldMismatchError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("field mismatch on line %d: got %d fields, want %d", e.Line, e.Got, e.Want)
	}
	return fmt.Sprintf("field mismatch: got %d fields, want %d", e.Got, e.Want)
}

func (e *FieldMismatchError) Is(target error) bool { return target == ErrFieldMismatch }

// NoMatchingRowsError indicates the region filter selected nothing.
type NoMatchingRowsError struct{ Category string }

func (e *NoMatchingRowsError) Error() string {
	return fmt.Sprintf("no rows found for region: %s", e.Category)
}

func (e *NoMatchingRowsError) Is(target error) bool { return target == ErrNoMatchingRows }
