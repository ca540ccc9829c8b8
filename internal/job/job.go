// Package job drives one build: preprocess, lex, and parse each
// compilation unit, generate its body, then join every unit's output
// around one shared prologue (spec §2(g) "Assembly / joiner", §5).
package job

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/jlangtools/jcc/internal/codegen"
	"github.com/jlangtools/jcc/internal/lexer"
	"github.com/jlangtools/jcc/internal/parser"
	"github.com/jlangtools/jcc/internal/preprocess"
	"github.com/jlangtools/jcc/internal/registry"
	"github.com/jlangtools/jcc/pkg/ast"
	"github.com/jlangtools/jcc/pkg/diag"
	"github.com/jlangtools/jcc/pkg/token"
)

// UnitSource is one compilation unit's name and root source path, handed
// in by the CLI boundary (spec §1: file discovery is an external
// collaborator's job, not the core's).
type UnitSource struct {
	Name     string // unit name, used for deterministic join ordering
	RootFile string // root file name passed to the FileLoader
}

// unitResult is one unit's outcome, kept private until the joiner sorts
// and filters them deterministically.
type unitResult struct {
	name   string
	output codegen.UnitOutput
	sink   *diag.Sink
	failed bool
}

// Result is the job's final, aggregated outcome.
type Result struct {
	Source      string
	Report      *diag.Report
	Fatal       bool
	UnitsFailed int
}

// Run executes every unit in units against loader, using reg as the
// shared reflective registry and unixTS for diagnostic long-hash
// determinism (spec testable property 9). Units are processed one after
// another on the calling goroutine; they share only reg.
func Run(units []UnitSource, loader preprocess.FileLoader, reg *registry.Registry, unixTS int64) Result {
	results := make([]unitResult, 0, len(units))
	for _, u := range units {
		results = append(results, runUnit(u, loader, reg, unixTS))
	}
	return join(results, reg, unixTS)
}

// runUnit drives one compilation unit through preprocess → lex → parse →
// generate, rolling the registry back to its pre-unit snapshot if the
// unit fails so a discarded unit never leaks typeids into the job (spec
// §5, "Cancellation").
func runUnit(u UnitSource, loader preprocess.FileLoader, reg *registry.Registry, unixTS int64) unitResult {
	sink := diag.NewSink(u.name())
	snapshot := reg.Snapshot()

	pp := preprocess.New(loader)
	src, err := pp.Run(u.RootFile)
	if err != nil {
		sink.Add(diag.New(diag.Error, err.Error(), errPos(err), unixTS))
		reg.Restore(snapshot)
		return unitResult{name: u.name(), sink: sink, failed: true}
	}

	toks, err := lexer.Lex(u.RootFile, src)
	if err != nil {
		sink.Add(diag.New(diag.Error, err.Error(), errPos(err), unixTS))
		reg.Restore(snapshot)
		return unitResult{name: u.name(), sink: sink, failed: true}
	}

	// parser.Parse always returns a nil error; syntax errors are
	// recorded to sink and recovered from, not returned.
	file, _ := parser.Parse(u.RootFile, toks, sink, unixTS)
	if sink.HasErrors() {
		reg.Restore(snapshot)
		return unitResult{name: u.name(), sink: sink, failed: true}
	}

	// Pathological nesting or member counts must not exhaust the stack
	// (spec §4.3 edge cases) before a tree is handed to codegen.
	if err := validateLimits(file); err != nil {
		sink.Add(diag.New(diag.Fatal, err.Error(), token.Position{}, unixTS))
		reg.Restore(snapshot)
		return unitResult{name: u.name(), sink: sink, failed: true}
	}

	gen := codegen.New(reg, sink, unixTS)
	out := gen.GenerateUnit(file)
	if sink.HasErrors() || sink.HasFatal() {
		reg.Restore(snapshot)
		return unitResult{name: u.name(), sink: sink, failed: true}
	}
	return unitResult{name: u.name(), output: out, sink: sink}
}

// validateLimits checks every top-level node of file against
// ast.DefaultLimits, returning the first violation found.
func validateLimits(file *ast.File) error {
	limits := ast.DefaultLimits()
	for _, n := range file.Body {
		if err := ast.ValidateDepth(n, limits); err != nil {
			return err
		}
		if err := ast.ValidateChildren(n, limits); err != nil {
			return err
		}
	}
	return nil
}

func (u UnitSource) name() string {
	if u.Name != "" {
		return u.Name
	}
	return u.RootFile
}

// errPos extracts the source position carried by a preprocess.Error or
// lexer.Error, both of which carry a Pos field of the same shape; any
// other error reports the unit's zero position.
func errPos(err error) token.Position {
	switch e := err.(type) {
	case *preprocess.Error:
		return e.Pos
	case *lexer.Error:
		return e.Pos
	default:
		return token.Position{}
	}
}

// join assembles the final output: header banner, type-alias prologue,
// reflective-base prologue (with the registry substituted in, now that
// every unit has finished), each surviving unit's body wrapped in its
// own banner pair, an optional main trampoline, and a trailing SHA-256
// banner over the concatenated body bytes (spec §4.4 "Prologue
// splicing", §6 "Emitted file format").
func join(results []unitResult, reg *registry.Registry, unixTS int64) Result {
	sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })

	sinks := make([]*diag.Sink, 0, len(results))
	var mainUnit *unitResult
	fatal := false
	failed := 0
	var rawBodies []string
	var wrapped []string

	for i := range results {
		r := &results[i]
		sinks = append(sinks, r.sink)
		if r.sink.HasFatal() {
			fatal = true
		}
		if r.failed {
			failed++
			continue
		}
		rawBodies = append(rawBodies, r.output.Body)
		wrapped = append(wrapped, bannerWrap(r.name, r.output.Body))
		if r.output.HasMain {
			mainUnit = r
		}
	}

	report := diag.NewReport(sinks...)

	if fatal || failed > 0 {
		return Result{Report: report, Fatal: fatal, UnitsFailed: failed}
	}

	var out strings.Builder
	out.WriteString(headerBanner("JCC GENERATED SOURCE"))
	out.WriteString(codegen.TypeAliasPrologue())
	out.WriteString(codegen.ReflectivePrologue(reg))
	for _, body := range wrapped {
		out.WriteString(body)
	}
	if mainUnit != nil {
		out.WriteString(mainTrampoline(mainUnit.output.MainRectified))
	}
	out.WriteString(trailingBanner(rawBodies))

	return Result{Source: out.String(), Report: report}
}

// headerBanner renders the file header: a line of 66 '=' characters, a
// "// <title>" line, and a second line of 66 '=' characters. No date
// line is written.
func headerBanner(title string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 66))
	b.WriteString("\n")
	fmt.Fprintf(&b, "// %s\n", title)
	b.WriteString(strings.Repeat("=", 66))
	b.WriteString("\n")
	return b.String()
}

// bannerWrap encloses one unit's body in a banner comment pair with the
// filename padded to 58 characters (spec §6).
func bannerWrap(name, body string) string {
	padded := name
	if len(padded) < 58 {
		padded += strings.Repeat(" ", 58-len(padded))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// ---- %s ----\n", padded)
	b.WriteString(body)
	fmt.Fprintf(&b, "// ---- end %s ----\n", padded)
	return b.String()
}

// mainTrampoline is the single top-level entry point appended when a
// user `main` was observed (spec §4.4 "Main synthesis").
func mainTrampoline(rectifiedMain string) string {
	return fmt.Sprintf("int main(int argc, char **argv) { return %s(); }\n", rectifiedMain)
}

// trailingBanner computes the lowercase-hex SHA-256 of the concatenation
// of all body bytes, excluding banners, and renders it as spec §6's
// final banner line.
func trailingBanner(bodies []string) string {
	h := sha256.New()
	for _, b := range bodies {
		h.Write([]byte(b))
	}
	sum := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("// sha256:%s\n", sum)
}
