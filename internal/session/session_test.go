package session

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/regionstats/internal/analysis"
	"github.com/KaramelBytes/regionstats/internal/dataset"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// scripted answers prompts in order and records the questions asked.
type scripted struct {
	answers []string
	asked   []string
}

func (s *scripted) Prompt(msg string) (string, error) {
	s.asked = append(s.asked, msg)
	if len(s.answers) == 0 {
		return "", ErrNoInput
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

// recorder captures renderer calls.
type recorder struct {
	listings []string
	rows     []dataset.Row
	stats    *analysis.Statistics
	points   []analysis.PercentilePoint
	spread   *analysis.Spread
	notices  []string
}

func (r *recorder) Listing(title string, items []string) {
	r.listings = append(r.listings, fmt.Sprintf("%s:%s", title, strings.Join(items, ",")))
}
func (r *recorder) Rows(_ dataset.Row, rows []dataset.Row) { r.rows = rows }
func (r *recorder) Statistics(st analysis.Statistics) { r.stats = &st }
func (r *recorder) Percentiles(points []analysis.PercentilePoint) { r.points = points }
func (r *recorder) Spread(sp analysis.Spread) { r.spread = &sp }
func (r *recorder) Notice(msg string) { r.notices = append(r.notices, msg) }

const exampleCSV = "id,region,score\n1,east,10\n2,west,20\n3,east,30\n4,east,\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "scores.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestRun_EndToEndByIndex(t *testing.T) {
	p := writeCSV(t, exampleCSV)
	pr := &scripted{answers: []string{p, "0", "2"}}
	rec := &recorder{}
	s := New(pr, rec, Options{ShowRows: true})

	rep, err := s.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := uuid.Parse(rep.RunID); err != nil {
		t.Fatalf("run id is not a uuid: %q", rep.RunID)
	}
	if !reflect.DeepEqual(pr.asked, []string{"CSV file name: ", "Region No: ", "Column No: "}) {
		t.Fatalf("prompts: %v", pr.asked)
	}
	if !reflect.DeepEqual(rec.listings, []string{"Region:east,west", "Column:id,region,score"}) {
		t.Fatalf("listings: %v", rec.listings)
	}
	if len(rec.rows) != 3 || rec.rows[2][0] != "4" {
		t.Fatalf("filtered rows: %v", rec.rows)
	}
	if !reflect.DeepEqual(rec.notices, []string{"Empty field"}) {
		t.Fatalf("notices: %v", rec.notices)
	}
	want := analysis.Statistics{Min: 10, Max: 30, Median: 20, Mean: 20}
	if rec.stats == nil || *rec.stats != want {
		t.Fatalf("stats: %+v", rec.stats)
	}
	if len(rec.points) != 21 {
		t.Fatalf("percentile points: %d", len(rec.points))
	}
	if rec.spread != nil {
		t.Fatalf("spread rendered without ShowSpread")
	}
	if rep.Region != "east" || rep.Column != "score" || rep.Rows != 3 || rep.Values != 2 || len(rep.Skipped) != 1 {
		t.Fatalf("report: %+v", rep)
	}
}

func TestRun_PresetByNameWithSpread(t *testing.T) {
	p := writeCSV(t, exampleCSV)
	pr := &scripted{}
	rec := &recorder{}
	var dbg bytes.Buffer
	s := New(pr, rec, Options{ShowSpread: true, PercentileStep: 25, Debug: &dbg})
	s.Preset = Selection{File: p, Region: "east", Column: "score"}

	rep, err := s.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pr.asked) != 0 {
		t.Fatalf("no prompts expected, got %v", pr.asked)
	}
	if rec.rows != nil {
		t.Fatalf("rows rendered without ShowRows")
	}
	if rec.spread == nil || rec.spread.Count != 2 {
		t.Fatalf("spread: %+v", rec.spread)
	}
	if len(rep.Percentiles) != 5 {
		t.Fatalf("percentiles: %+v", rep.Percentiles)
	}
	if !strings.Contains(dbg.String(), "[debug] region \"east\" matched 3 rows") {
		t.Fatalf("debug output: %q", dbg.String())
	}
}

func TestRun_RegionByNameMode(t *testing.T) {
	p := writeCSV(t, exampleCSV)
	pr := &scripted{answers: []string{p, " west ", "2"}}
	rec := &recorder{}
	s := New(pr, rec, Options{RegionMode: RegionByName})
	rep, err := s.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if pr.asked[1] != "Region: " || rep.Region != "west" || rep.Statistics.Mean != 20 {
		t.Fatalf("unexpected: asked=%v report=%+v", pr.asked, rep)
	}
}

func TestRun_Failures(t *testing.T) {
	good := writeCSV(t, exampleCSV)
	cases := []struct {
		name    string
		answers []string
		want    error
		msg     string
	}{
		{"missing file", []string{filepath.Join(t.TempDir(), "none.csv")}, os.ErrNotExist, "File not found"},
		{"extension", []string{"data.txt"}, dataset.ErrInvalidExtension, "Invalid file extension"},
		{"empty file", []string{writeCSV(t, "")}, dataset.ErrEmptyFile, "File is empty"},
		{"mismatch", []string{writeCSV(t, "id,region,score\n1,east\n")}, dataset.ErrFieldMismatch, "Field mismatch on line 2"},
		{"region index", []string{good, "99"}, dataset.ErrRegionIndexOutOfRange, "Invalid region number"},
		{"region text", []string{good, "abc"}, dataset.ErrRegionIndexOutOfRange, "Invalid region number"},
		{"column index", []string{good, "0", "3"}, dataset.ErrColumnIndexOutOfRange, "Invalid column number"},
		{"column text", []string{good, "0", "score"}, dataset.ErrColumnIndexOutOfRange, "Invalid column number"},
		{"no values", []string{good, "0", "1"}, ErrNoValidValues, "No valid values found"},
		{"eof", []string{good}, ErrNoInput, "No input provided"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			s := New(&scripted{answers: tc.answers}, rec, Options{})
			rep, err := s.Run()
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			if rep != nil {
				t.Fatalf("no report expected on failure")
			}
			if rec.stats != nil {
				t.Fatalf("no statistics should be rendered on failure")
			}
			if got := Message(err); got != tc.msg {
				t.Fatalf("message: want %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestRun_NoMatchingRegionByName(t *testing.T) {
	s := New(&scripted{}, &recorder{}, Options{})
	s.Preset = Selection{File: writeCSV(t, exampleCSV), Region: "north", Column: "2"}
	_, err := s.Run()
	if !errors.Is(err, dataset.ErrNoMatchingRows) {
		t.Fatalf("want ErrNoMatchingRows, got %v", err)
	}
	if got := Message(err); got != "No rows found for region: north" {
		t.Fatalf("message: %q", got)
	}
}

func TestMessage_PermissionDenied(t *testing.T) {
	err := fmt.Errorf("open csv: %w", &fs.PathError{Op: "open", Path: "scores.csv", Err: fs.ErrPermission})
	if got := Message(err); got != "Permission denied" {
		t.Fatalf("message: want %q, got %q", "Permission denied", got)
	}
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("data.csv\r\nlast"), &out)
	a, err := p.Prompt("CSV file name: ")
	if err != nil || a != "data.csv" {
		t.Fatalf("first answer: %q, %v", a, err)
	}
	b, err := p.Prompt("Region No: ")
	if err != nil || b != "last" {
		t.Fatalf("second answer: %q, %v", b, err)
	}
	if _, err := p.Prompt("Column No: "); !errors.Is(err, ErrNoInput) {
		t.Fatalf("want ErrNoInput, got %v", err)
	}
	if out.String() != "CSV file name: \nRegion No: \nColumn No: \n" {
		t.Fatalf("prompt output: %q", out.String())
	}
}

func TestReportSave(t *testing.T) {
	p := writeCSV(t, exampleCSV)
	s := New(&scripted{}, &recorder{}, Options{})
	s.Preset = Selection{File: p, RegionIndex: "0", Column: "2"}
	rep, err := s.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	out := filepath.Join(t.TempDir(), "report.yaml")
	if err := rep.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["run_id"] != s.RunID || back["region"] != "east" {
		t.Fatalf("report content: %s", b)
	}
	if !strings.Contains(string(b), "reason: empty") {
		t.Fatalf("skipped reason missing: %s", b)
	}
}
