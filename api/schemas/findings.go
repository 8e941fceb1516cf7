package schemas

// -- Finding Schemas --

// Fallback values applied when a findings document omits a field. They are
// resolved once at decode time so downstream code never re-checks presence.
const (
	FallbackUnknown        = "Unknown"
	FallbackDescription    = "No description"
	FallbackRecommendation = "No recommendation provided"
	FallbackCWE            = "N/A"
)

// Finding encapsulates one static-analysis issue: where it was reported
// (file, line, function) and the descriptive metadata the analyzer attached
// to it. Every string field is guaranteed non-empty after loading; absent
// fields carry their documented fallback instead.
type Finding struct {
	File     string `json:"file"`     // Path relative to the project root. Not validated here.
	Line     int    `json:"line"`     // 1-based line number. May exceed the file's actual length.
	Function string `json:"function"` // Enclosing function name.
	Checker  string `json:"checker"`  // Name of the checker that produced the issue (e.g., "NULL_POINTER").

	Severity string `json:"severity"` // Free-form severity label (e.g., "High").
	Category string `json:"category"` // Analyzer-specific issue category.
	CWE      string `json:"cwe"`      // Common Weakness Enumeration identifier, or "N/A".

	Description    string `json:"description"`
	Recommendation string `json:"recommendation"` // Suggested remediation steps.
}

// Summary carries the aggregate severity counts that accompany a findings
// document. The counts are display-only; they are never recomputed from the
// issue list when the document supplies them.
type Summary struct {
	TotalIssues    int `json:"total_issues"`
	HighSeverity   int `json:"high_severity"`
	MediumSeverity int `json:"medium_severity"`
	LowSeverity    int `json:"low_severity"`
}

// FindingSet is an ordered collection of findings plus an optional summary.
// Order is preserved from the source document and drives report rendering.
type FindingSet struct {
	Issues  []Finding `json:"issues"`
	Summary *Summary  `json:"summary,omitempty"`
}

// EffectiveSummary returns the summary to display for the set. When the
// document carried no summary, the total defaults to the issue count and the
// per-severity counts default to zero.
func (s *FindingSet) EffectiveSummary() Summary {
	if s.Summary != nil {
		return *s.Summary
	}
	return Summary{TotalIssues: len(s.Issues)}
}

// ApplyDefaults fills every absent field with its fallback value. The loader
// calls this for each decoded finding; it is exported so callers constructing
// findings programmatically can normalize them the same way.
func (f *Finding) ApplyDefaults() {
	if f.File == "" {
		f.File = FallbackUnknown
	}
	if f.Function == "" {
		f.Function = FallbackUnknown
	}
	if f.Checker == "" {
		f.Checker = FallbackUnknown
	}
	if f.Severity == "" {
		f.Severity = FallbackUnknown
	}
	if f.Category == "" {
		f.Category = FallbackUnknown
	}
	if f.CWE == "" {
		f.CWE = FallbackCWE
	}
	if f.Description == "" {
		f.Description = FallbackDescription
	}
	if f.Recommendation == "" {
		f.Recommendation = FallbackRecommendation
	}
}
