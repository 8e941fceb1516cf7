// Package findings loads structured static-analysis findings documents.
// The wire format is a JSON object with a top-level "issues" list and an
// optional "summary" block of severity counts.
package findings

import (
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound indicates the findings document itself is missing, as opposed
// to a referenced source file.
var ErrNotFound = errors.New("findings file not found")

// DecodeError wraps a structural decode failure with the path of the
// offending document.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid findings document %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// rawSummary uses a pointer for the total so an omitted count can be told
// apart from an explicit zero; the total defaults to the issue count only
// when the document did not supply one.
type rawSummary struct {
	TotalIssues    *int `json:"total_issues"`
	HighSeverity   int  `json:"high_severity"`
	MediumSeverity int  `json:"medium_severity"`
	LowSeverity    int  `json:"low_severity"`
}

type rawDocument struct {
	Issues  []schemas.Finding `json:"issues"`
	Summary *rawSummary       `json:"summary"`
}

// Load reads and decodes the findings document at path, applying the field
// fallbacks so every returned finding is fully populated. Issue order is
// preserved from the document.
func Load(path string) (*schemas.FindingSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	set := &schemas.FindingSet{Issues: doc.Issues}
	for i := range set.Issues {
		set.Issues[i].ApplyDefaults()
	}

	if doc.Summary != nil {
		total := len(set.Issues)
		if doc.Summary.TotalIssues != nil {
			total = *doc.Summary.TotalIssues
		}
		set.Summary = &schemas.Summary{
			TotalIssues:    total,
			HighSeverity:   doc.Summary.HighSeverity,
			MediumSeverity: doc.Summary.MediumSeverity,
			LowSeverity:    doc.Summary.LowSeverity,
		}
	}
	return set, nil
}
