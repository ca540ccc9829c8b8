package diag

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jlangtools/jcc/pkg/token"
)

// Diagnostic is a single structured message produced by a pipeline stage
// (spec §3). Position is the zero value when a diagnostic is not tied to
// a specific source location (e.g. a job-level Fatal).
type Diagnostic struct {
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Position  token.Position `json:"position,omitzero"`
	ShortHash uint64         `json:"short_hash"`
	LongHash  string         `json:"long_hash"`
}

// New builds a Diagnostic, computing both hashes. unixTS is accepted as a
// parameter (rather than read from time.Now()) so the long-hash remains a
// pure, testable function of its inputs (spec testable property 9).
func New(sev Severity, message string, pos token.Position, unixTS int64) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Message:   message,
		Position:  pos,
		ShortHash: shortHash(message, pos.File, pos.Line, pos.Column),
		LongHash:  longHash(message, pos.File, pos.Line, pos.Column, unixTS),
	}
}

// Sink is a per-compilation-unit, append-only, order-preserving
// collection of diagnostics (spec §5: "sinks are not shared across
// units"). It is not safe for concurrent use; each unit owns one.
type Sink struct {
	unitName    string
	diagnostics []Diagnostic
	seenShort   map[uint64]bool
}

// NewSink creates an empty sink for the named compilation unit.
func NewSink(unitName string) *Sink {
	return &Sink{unitName: unitName, seenShort: make(map[uint64]bool)}
}

// UnitName returns the name this sink was created for.
func (s *Sink) UnitName() string { return s.unitName }

// Add appends d in production order. A diagnostic whose short-hash
// duplicates one already recorded in this sink is still appended — spec
// only stipulates short-hash as a de-duplication *key* for callers that
// want it, not a filter at collection time.
func (s *Sink) Add(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	s.seenShort[d.ShortHash] = true
}

// Diagnostics returns all diagnostics in production order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diagnostics }

// HasErrors reports whether any diagnostic blocks emission (spec §7:
// "A unit that produced at least one Error diagnostic does not emit
// target source").
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Severity.BlocksEmission() {
			return true
		}
	}
	return false
}

// HasFatal reports whether any diagnostic is Fatal (spec §7: a Fatal
// diagnostic terminates the whole job, not just this unit).
func (s *Sink) HasFatal() bool {
	for _, d := range s.diagnostics {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}

// Report is a read-only, aggregated view over one or more sinks, built by
// the joiner once all units have run. It mirrors the grouping and
// formatting surface of a registry hive diagnostic report, adapted to
// compilation diagnostics.
type Report struct {
	Diagnostics []Diagnostic            `json:"diagnostics"`
	BySeverity  map[Severity][]Diagnostic `json:"by_severity"`
	Summary     Summary                 `json:"summary"`
}

// Summary gives quick counts per severity.
type Summary struct {
	Fatal   int `json:"fatal"`
	Errors  int `json:"errors"`
	Warning int `json:"warnings"`
	Info    int `json:"info"`
	Debug   int `json:"debug"`
}

// NewReport aggregates sinks in the caller-supplied order. The job driver
// calls this with sinks ordered deterministically by unit name (spec §5).
func NewReport(sinks ...*Sink) *Report {
	r := &Report{BySeverity: make(map[Severity][]Diagnostic)}
	for _, s := range sinks {
		for _, d := range s.Diagnostics() {
			r.Diagnostics = append(r.Diagnostics, d)
			r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
			switch d.Severity {
			case Fatal:
				r.Summary.Fatal++
			case Error:
				r.Summary.Errors++
			case Warning:
				r.Summary.Warning++
			case Info:
				r.Summary.Info++
			case Debug:
				r.Summary.Debug++
			}
		}
	}
	return r
}

// HasErrors reports whether the job should be considered failed (spec §7:
// "if any unit failed, the job reports failure").
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0 || r.Summary.Fatal > 0
}

// FormatJSON renders the report as indented JSON.
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText renders a human-readable report, most severe first.
func (r *Report) FormatText() string {
	var b strings.Builder
	order := []Severity{Fatal, Error, Warning, Info, Debug}

	for _, sev := range order {
		diags := r.BySeverity[sev]
		if len(diags) == 0 {
			continue
		}
		b.WriteString(strings.ToUpper(sev.String()))
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(len(diags)))
		b.WriteString(")\n")
		for _, d := range diags {
			b.WriteString("  ")
			b.WriteString(d.Position.String())
			b.WriteString(": ")
			b.WriteString(d.Message)
			b.WriteString(" [")
			b.WriteString(d.LongHash)
			b.WriteString("]\n")
		}
	}
	if len(r.Diagnostics) == 0 {
		b.WriteString("no diagnostics\n")
	}
	return b.String()
}
