// Package diag implements the diagnostic model shared by every pipeline
// stage (spec §3, §4.5, §7): a five-level severity, a stable per-message
// identity (short-hash for intra-run de-duplication, long-hash for
// cross-run bug reports), and an append-only, order-preserving Sink.
package diag

// Severity ranks how serious a diagnostic is, in increasing order.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// BlocksEmission reports whether a diagnostic of this severity prevents
// the owning compilation unit from emitting target source (spec §7).
func (s Severity) BlocksEmission() bool {
	return s >= Error
}
