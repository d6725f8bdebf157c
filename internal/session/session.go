package session

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/KaramelBytes/regionstats/internal/analysis"
	"github.com/KaramelBytes/regionstats/internal/dataset"
	"github.com/KaramelBytes/regionstats/internal/render"
	"github.com/google/uuid"
)

// ErrNoValidValues indicates the selected column produced no numbers for the region.
var ErrNoValidValues = errors.New("no valid values found")

// Region selection modes.
const (
	RegionByIndex = "index"
	RegionByName  = "name"
)

// Options tunes a session.
type Options struct {
	MaxBytes       int64
	PercentileStep int
	// RegionMode is RegionByIndex (pick from a numbered list) or RegionByName (type the value).
	RegionMode string
	ShowRows   bool
	ShowSpread bool
	// Debug receives progress lines when non-nil.
	Debug io.Writer
}

// Selection holds answers supplied up front. Empty fields are prompted for.
type Selection struct {
	File        string
	Region      string
	RegionIndex string
	// Column is a zero-based index or a header name.
	Column string
}

// Session runs one file → region → column → statistics pass.
type Session struct {
	Prompter Prompter
	Renderer render.Renderer
	Options  Options
	Preset   Selection
	RunID    string
}

// New returns a Session with a fresh run id.
func New(p Prompter, r render.Renderer, opt Options) *Session {
	if opt.PercentileStep <= 0 {
		opt.PercentileStep = analysis.DefaultPercentileStep
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = dataset.MaxBytes(dataset.DefaultMaxFileSizeMB)
	}
	return &Session{Prompter: p, Renderer: r, Options: opt, RunID: uuid.NewString()}
}

// Run executes the pipeline. Any returned error is fatal to the run; pass it
// to Message for the user-facing text.
func (s *Session) Run() (*Report, error) {
	rep := &Report{RunID: s.RunID}

	path, err := s.answer(s.Preset.File, "CSV file name: ")
	if err != nil {
		return nil, err
	}
	rep.File = strings.TrimSpace(path)
	s.debugf("loading %s", rep.File)
	ds, err := dataset.LoadFile(rep.File, s.Options.MaxBytes)
	if err != nil {
		return nil, err
	}
	s.debugf("loaded %d rows, %d columns", len(ds.Rows), ds.ColumnCount())

	rows, region, err := s.selectRegion(ds)
	if err != nil {
		return nil, err
	}
	rep.Region = region
	rep.Rows = len(rows)
	s.debugf("region %q matched %d rows", region, len(rows))

	col, err := s.selectColumn(ds)
	if err != nil {
		return nil, err
	}
	rep.ColumnIndex = col
	rep.Column = ds.Header[col]

	values, err := dataset.ExtractColumn(rows, col, ds.ColumnCount(), func(sk dataset.SkippedField) {
		rep.Skipped = append(rep.Skipped, sk)
		s.Renderer.Notice(sk.Message())
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w in column %q", ErrNoValidValues, rep.Column)
	}
	rep.Values = len(values)
	s.debugf("extracted %d values (%d skipped)", len(values), len(rep.Skipped))

	st, err := analysis.Summarize(values)
	if err != nil {
		return nil, err
	}
	points, err := analysis.PercentileTable(values, s.Options.PercentileStep)
	if err != nil {
		return nil, err
	}
	rep.Statistics = st
	rep.Percentiles = points
	if s.Options.ShowSpread {
		sp, err := analysis.Describe(values)
		if err != nil {
			return nil, err
		}
		rep.Spread = &sp
	}

	if s.Options.ShowRows {
		s.Renderer.Rows(ds.Header, rows)
	}
	s.Renderer.Statistics(st)
	s.Renderer.Percentiles(points)
	if rep.Spread != nil {
		s.Renderer.Spread(*rep.Spread)
	}
	return rep, nil
}

func (s *Session) selectRegion(ds *dataset.Dataset) ([]dataset.Row, string, error) {
	if s.Preset.Region != "" {
		rows, err := dataset.FilterByCategory(ds.Rows, s.Preset.Region)
		return rows, s.Preset.Region, err
	}
	raw := s.Preset.RegionIndex
	if raw == "" {
		if s.Options.RegionMode == RegionByName {
			name, err := s.Prompter.Prompt("Region: ")
			if err != nil {
				return nil, "", err
			}
			name = strings.TrimSpace(name)
			rows, err := dataset.FilterByCategory(ds.Rows, name)
			return rows, name, err
		}
		s.Renderer.Listing("Region", ds.Categories())
		var err error
		if raw, err = s.Prompter.Prompt("Region No: "); err != nil {
			return nil, "", err
		}
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q", dataset.ErrRegionIndexOutOfRange, raw)
	}
	return dataset.FilterByCategoryIndex(ds.Rows, idx)
}

func (s *Session) selectColumn(ds *dataset.Dataset) (int, error) {
	raw := s.Preset.Column
	byName := raw != ""
	if raw == "" {
		s.Renderer.Listing("Column", ds.Header)
		var err error
		if raw, err = s.Prompter.Prompt("Column No: "); err != nil {
			return 0, err
		}
	}
	raw = strings.TrimSpace(raw)
	idx, err := strconv.Atoi(raw)
	if err != nil {
		if byName {
			return ds.ColumnIndex(raw)
		}
		return 0, fmt.Errorf("%w: %q", dataset.ErrColumnIndexOutOfRange, raw)
	}
	if idx < 0 || idx >= ds.ColumnCount() {
		return 0, fmt.Errorf("%w: %d (have %d columns)", dataset.ErrColumnIndexOutOfRange, idx, ds.ColumnCount())
	}
	return idx, nil
}

func (s *Session) answer(preset, question string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	return s.Prompter.Prompt(question)
}

func (s *Session) debugf(format string, args ...any) {
	if s.Options.Debug != nil {
		fmt.Fprintf(s.Options.Debug, "[debug] "+format+"\n", args...)
	}
}

// Message maps a fatal pipeline error to the text shown to the user.
func Message(err error) string {
	var fm *dataset.FieldMismatchError
	var nm *dataset.NoMatchingRowsError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return "File not found"
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	case errors.Is(err, dataset.ErrInvalidExtension):
		return "Invalid file extension"
	case errors.Is(err, dataset.ErrEmptyFile):
		return "File is empty"
	case errors.Is(err, dataset.ErrFileTooLarge):
		return "File is too large"
	case errors.Is(err, dataset.ErrMissingHeader):
		return "File has no header row"
	case errors.Is(err, dataset.ErrMissingCategoryColumn):
		return "File has no region column"
	case errors.As(err, &fm):
		if fm.Line > 0 {
			return fmt.Sprintf("Field mismatch on line %d", fm.Line)
		}
		return "Field mismatch"
	case errors.Is(err, dataset.ErrColumnIndexOutOfRange):
		return "Invalid column number"
	case errors.Is(err, dataset.ErrRegionIndexOutOfRange):
		return "Invalid region number"
	case errors.As(err, &nm):
		return fmt.Sprintf("No rows found for region: %s", nm.Category)
	case errors.Is(err, ErrNoValidValues), errors.Is(err, analysis.ErrEmptyValueSet):
		return "No valid values found"
	case errors.Is(err, ErrNoInput):
		return "No input provided"
	default:
		return err.Error()
	}
}
