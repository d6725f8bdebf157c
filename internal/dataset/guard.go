package dataset

import (
	"fmt"
	"os"
	"strings"
)

// DefaultMaxFileSizeMB is the default input size ceiling in MiB.
const DefaultMaxFileSizeMB = 1024

// MaxBytes converts a MiB ceiling into bytes. Non-positive values fall back to the default.
func MaxBytes(mb int) int64 {
	if mb <= 0 {
		mb = DefaultMaxFileSizeMB
	}
	return int64(mb) * 1024 * 1024
}

// HasCSVExt reports whether the filename carries the .csv suffix.
func HasCSVExt(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".csv")
}

// Validate checks the path's suffix and size before any parsing happens.
// It only stats the file; contents are never read.
func Validate(path string, maxBytes int64) error {
	if !HasCSVExt(path) {
		return ErrInvalidExtension
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, size, maxBytes)
	}
	return nil
}
