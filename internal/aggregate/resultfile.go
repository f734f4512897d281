// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refmat-engine/pkg/types"
)

// ResultFile is the on-disk representation of one aggregated search run.
// A user can save a run to a file and re-inspect it later without
// re-querying the services.
type ResultFile struct {
	Query      string                  `yaml:"query"`
	Suggestion string                  `yaml:"suggestion,omitempty"`
	Materials  []types.MaterialSummary `yaml:"materials"`
	Analytes   []types.Analyte         `yaml:"analytes"`
	Summary    ResultSummary           `yaml:"summary"`
}

// ResultSummary stores run statistics and a timestamp.
type ResultSummary struct {
	Materials  int       `yaml:"materials"`
	Analytes   int       `yaml:"analytes"`
	TermErrors []string  `yaml:"term_errors,omitempty"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a search run to a YAML file.
func WriteResultFile(path, query string, out Output) error {
	rf := ResultFile{
		Query:      query,
		Suggestion: out.Suggestion,
		Materials:  out.Materials,
		Analytes:   out.Analytes,
		Summary: ResultSummary{
			Materials:  len(out.Materials),
			Analytes:   len(out.Analytes),
			TermErrors: out.TermErrors,
			Timestamp:  time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file %s: %w", path, err)
	}
	return nil
}

// ReadResultFile loads a previously saved search run.
func ReadResultFile(path string) (ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultFile{}, fmt.Errorf("reading result file %s: %w", path, err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return ResultFile{}, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	return rf, nil
}
