package domain

import "time"

// Severity of an alert. The order only drives display styling.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityMajor    Severity = "Major"
	SeverityCritical Severity = "Critical"
)

// Severities lists every severity, most severe first.
var Severities = []Severity{SeverityCritical, SeverityMajor, SeverityWarning, SeverityInfo}

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityMajor, SeverityCritical:
		return true
	default:
		return false
	}
}

// Rank is 0 for Info up to 3 for Critical, -1 for anything else.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityMajor:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// SystemWide is the machine name carried by plant level alerts.
const SystemWide = "All Lines"

// Alert is never mutated after the evaluator builds it.
type Alert struct {
	ID        string
	Severity  Severity
	Title     string
	Message   string
	Machine   string // machine name or SystemWide
	Timestamp string // HH:MM:SS, display only
	Metric    string
	Value     any // float64 for readings, string for states
	CreatedAt time.Time
}
