package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SkipReason classifies a field dropped during extraction.
type SkipReason int

const (
	SkipEmpty SkipReason = iota
	SkipInvalid
)

func (r SkipReason) String() string {
	switch r {
	case SkipEmpty:
		return "empty"
	case SkipInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

func (r SkipReason) MarshalYAML() (any, error) { return r.String(), nil }

// SkippedField is a recoverable per-row event: the row is left out of the
// value sequence but extraction keeps going.
type SkippedField struct {
	// Row is the zero-based position within the rows passed to ExtractColumn.
	Row    int        `yaml:"row"`
	Value  string     `yaml:"value"`
	Reason SkipReason `yaml:"reason"`
}

// Message renders the event the way it is shown to users.
func (s SkippedField) Message() string {
	if s.Reason == SkipEmpty {
		return "Empty field"
	}
	return fmt.Sprintf("Invalid value %q", s.Value)
}

// ExtractColumn converts column of every row into a float64. Empty and
// unparseable fields are reported through onSkip (which may be nil) and left
// out. A result with zero values is returned as an empty slice, not an error.
func ExtractColumn(rows []Row, column, expected int, onSkip func(SkippedField)) ([]float64, error) {
	if column < 0 || column >= expected {
		return nil, fmt.Errorf("%w: %d (have %d columns)", ErrColumnIndexOutOfRange, column, expected)
	}
	report := func(s SkippedField) {
		if onSkip != nil {
			onSkip(s)
		}
	}
	values := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) != expected {
			return nil, &FieldMismatchError{Got: len(row), Want: expected}
		}
		raw := row[column]
		if raw == "" {
			report(SkippedField{Row: i, Value: raw, Reason: SkipEmpty})
			continue
		}
		x, ok := parseNumeric(raw)
		if !ok {
			report(SkippedField{Row: i, Value: raw, Reason: SkipInvalid})
			continue
		}
		values = append(values, x)
	}
	return values, nil
}

// parseNumeric accepts plain decimal or scientific notation with optional
// surrounding spaces. Non-finite results are rejected.
func parseNumeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
