package session

import (
	"fmt"

	"github.com/KaramelBytes/regionstats/internal/analysis"
	"github.com/KaramelBytes/regionstats/internal/dataset"
	"github.com/KaramelBytes/regionstats/internal/utils"
	"gopkg.in/yaml.v3"
)

// Report records the outcome of one run.
type Report struct {
	RunID       string                     `yaml:"run_id"`
	File        string                     `yaml:"file"`
	Region      string                     `yaml:"region"`
	Column      string                     `yaml:"column"`
	ColumnIndex int                        `yaml:"column_index"`
	Rows        int                        `yaml:"rows"`
	Values      int                        `yaml:"values"`
	Skipped     []dataset.SkippedField     `yaml:"skipped,omitempty"`
	Statistics  analysis.Statistics        `yaml:"statistics"`
	Percentiles []analysis.PercentilePoint `yaml:"percentiles"`
	Spread      *analysis.Spread           `yaml:"spread,omitempty"`
}

// Save writes the report as YAML, replacing path atomically.
func (r *Report) Save(path string) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}
