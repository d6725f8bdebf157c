package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/regionstats/internal/analysis"
	"github.com/KaramelBytes/regionstats/internal/dataset"
	"gopkg.in/yaml.v3"
)

// Renderer turns pipeline results into human-readable output. It performs no
// validation and reports no errors.
type Renderer interface {
	Listing(title string, items []string)
	Rows(header dataset.Row, rows []dataset.Row)
	Statistics(st analysis.Statistics)
	Percentiles(points []analysis.PercentilePoint)
	Spread(sp analysis.Spread)
	Notice(msg string)
}

// Supported output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// New returns the renderer for format. Notices go to notices; everything else to out.
func New(format string, out, notices io.Writer) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return &TextRenderer{Out: out, Notices: notices}, nil
	case FormatYAML, "yml":
		return NewYAML(out, notices), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use text|yaml)", format)
	}
}

// FormatFloat prints v in the shortest form that round-trips.
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// TextRenderer draws grid tables.
type TextRenderer struct {
	Out     io.Writer
	Notices io.Writer
}

// Listing prints an Index/<title> table used for selection prompts.
func (r *TextRenderer) Listing(title string, items []string) {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(i), it}
	}
	writeGrid(r.Out, []string{"Index", title}, rows)
}

func (r *TextRenderer) Rows(header dataset.Row, rows []dataset.Row) {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = row
	}
	writeGrid(r.Out, header, cells)
}

func (r *TextRenderer) Statistics(st analysis.Statistics) {
	writeGrid(r.Out, []string{"Statistics", "Value"}, [][]string{
		{"Min", FormatFloat(st.Min)},
		{"Max", FormatFloat(st.Max)},
		{"Median", FormatFloat(st.Median)},
		{"Mean", FormatFloat(st.Mean)},
	})
	fmt.Fprintln(r.Out)
}

func (r *TextRenderer) Percentiles(points []analysis.PercentilePoint) {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Label, FormatFloat(p.Value)}
	}
	writeGrid(r.Out, []string{"Percentile", "Value"}, rows)
}

func (r *TextRenderer) Spread(sp analysis.Spread) {
	writeGrid(r.Out, []string{"Spread", "Value"}, [][]string{
		{"Count", strconv.Itoa(sp.Count)},
		{"Sum", FormatFloat(sp.Sum)},
		{"Std dev", FormatFloat(sp.StdDev)},
		{"Variance", FormatFloat(sp.Variance)},
	})
}

func (r *TextRenderer) Notice(msg string) {
	w := r.Notices
	if w == nil {
		w = r.Out
	}
	fmt.Fprintf(w, "⚠ %s\n", msg)
}

// writeGrid renders headers and rows as a boxed table. Short rows are padded.
func writeGrid(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if n := cellWidth(row[i]); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}
	sep := func(fill string) string {
		var b strings.Builder
		b.WriteString("+")
		for _, n := range widths {
			b.WriteString(strings.Repeat(fill, n+2))
			b.WriteString("+")
		}
		b.WriteString("\n")
		return b.String()
	}
	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, n := range widths {
			v := ""
			if i < len(cells) {
				v = safeCell(cells[i])
			}
			b.WriteString(" ")
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", n-cellWidth(v)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(sep("-"))
	b.WriteString(line(headers))
	b.WriteString(sep("="))
	for _, row := range rows {
		b.WriteString(line(row))
		b.WriteString(sep("-"))
	}
	if len(rows) == 0 {
		b.WriteString(sep("-"))
	}
	io.WriteString(w, b.String())
}

func safeCell(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\r", ""), "\n", " ") }

func cellWidth(s string) int { return utf8.RuneCountInString(safeCell(s)) }

// YAMLRenderer emits one YAML document per call.
type YAMLRenderer struct {
	enc     *yaml.Encoder
	notices io.Writer
}

// NewYAML builds a YAMLRenderer writing documents to out.
func NewYAML(out, notices io.Writer) *YAMLRenderer {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	return &YAMLRenderer{enc: enc, notices: notices}
}

type listingItem struct {
	Index int    `yaml:"index"`
	Value string `yaml:"value"`
}

func (r *YAMLRenderer) Listing(title string, items []string) {
	out := make([]listingItem, len(items))
	for i, it := range items {
		out[i] = listingItem{Index: i, Value: it}
	}
	r.emit(map[string]any{strings.ToLower(title): out})
}

func (r *YAMLRenderer) Rows(header dataset.Row, rows []dataset.Row) {
	recs := make([]*yaml.Node, 0, len(rows))
	for _, row := range rows {
		// mapping node keeps the header's column order
		n := &yaml.Node{Kind: yaml.MappingNode}
		for i, h := range header {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: h},
				&yaml.Node{Kind: yaml.ScalarNode, Value: v, Style: yaml.DoubleQuotedStyle},
			)
		}
		recs = append(recs, n)
	}
	r.emit(map[string]any{"rows": recs})
}

func (r *YAMLRenderer) Statistics(st analysis.Statistics) {
	r.emit(map[string]any{"statistics": st})
}

func (r *YAMLRenderer) Percentiles(points []analysis.PercentilePoint) {
	r.emit(map[string]any{"percentiles": points})
}

func (r *YAMLRenderer) Spread(sp analysis.Spread) {
	r.emit(map[string]any{"spread": sp})
}

func (r *YAMLRenderer) Notice(msg string) {
	if r.notices != nil {
		fmt.Fprintf(r.notices, "⚠ %s\n", msg)
	}
}

func (r *YAMLRenderer) emit(v any) {
	_ = r.enc.Encode(v)
}

// Close flushes the underlying encoder.
func (r *YAMLRenderer) Close() error { return r.enc.Close() }
