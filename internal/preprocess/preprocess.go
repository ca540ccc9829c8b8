// Package preprocess turns raw J source into text the lexer can consume
// directly: it resolves #include directives against an injected file
// loader, expands {{KEY}} substitutions registered by #[KEY "VALUE"]
// directives, and rejects cyclic includes.
package preprocess

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jlangtools/jcc/pkg/token"
)

// ErrNotFound is returned by a FileLoader when the requested name has no
// corresponding source.
var ErrNotFound = errors.New("preprocess: file not found")

// FileLoader resolves an include target to its raw bytes. The name is
// whatever literal text followed #include in the source; this package
// does not interpret it as a filesystem path.
type FileLoader interface {
	Load(name string) ([]byte, error)
}

// Kind discriminates the preprocessor's failure modes (spec §4.1).
type Kind int

const (
	NotFound Kind = iota
	Cyclic
	BadToken
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Cyclic:
		return "Cyclic"
	case BadToken:
		return "BadToken"
	default:
		return "Unknown"
	}
}

// Error reports a single preprocessor failure with its source position.
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos.String(), e.Kind, e.Msg)
}

// DecodeSource normalizes raw bytes to UTF-8. Well-formed UTF-8 passes
// through unchanged; otherwise the bytes are assumed to be Windows-1252
// (the common fallback encoding for source files authored on Windows
// tooling, mirroring .reg export behavior) and transcoded.
func DecodeSource(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("preprocess: decoding source as Windows-1252: %w", err)
	}
	return decoded, nil
}

// Processor resolves includes and expands directives for one compilation
// unit. It is not safe for concurrent use; create one per unit.
type Processor struct {
	loader  FileLoader
	onStack map[string]bool
	stack   []string
	vars    map[string]string
}

// New creates a Processor that resolves includes via loader.
func New(loader FileLoader) *Processor {
	return &Processor{loader: loader, onStack: make(map[string]bool), vars: make(map[string]string)}
}

// Run expands rootName's source (and everything it transitively
// includes) into a single byte stream ready for the lexer.
func (p *Processor) Run(rootName string) ([]byte, error) {
	data, err := p.loader.Load(rootName)
	if err != nil {
		return nil, &Error{Kind: NotFound, Pos: token.Position{File: rootName}, Msg: err.Error()}
	}
	decoded, err := DecodeSource(data)
	if err != nil {
		return nil, &Error{Kind: BadToken, Pos: token.Position{File: rootName}, Msg: err.Error()}
	}
	return p.process(rootName, decoded)
}

func (p *Processor) process(name string, src []byte) ([]byte, error) {
	if p.onStack[name] {
		return nil, &Error{Kind: Cyclic, Pos: token.Position{File: name}, Msg: "include cycle through " + name}
	}
	p.onStack[name] = true
	p.stack = append(p.stack, name)
	defer func() {
		delete(p.onStack, name)
		p.stack = p.stack[:len(p.stack)-1]
	}()

	var out []byte
	line, col := 1, 1
	pos := func() token.Position { return token.Position{File: name, Line: line, Column: col} }
	advance := func(b byte) {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '#' && hasPrefixAt(src, i, "#include") {
			target, consumed, err := scanIncludeTarget(src, i+len("#include"), pos())
			if err != nil {
				return nil, err
			}
			included, err := p.loader.Load(target)
			if err != nil {
				return nil, &Error{Kind: NotFound, Pos: pos(), Msg: "cannot resolve include " + target}
			}
			decoded, err := DecodeSource(included)
			if err != nil {
				return nil, &Error{Kind: BadToken, Pos: pos(), Msg: err.Error()}
			}
			expanded, err := p.process(target, decoded)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			for j := i; j < i+consumed; j++ {
				advance(src[j])
			}
			i += consumed
			continue
		}

		if c == '#' && hasPrefixAt(src, i, "#[") {
			key, value, consumed, err := scanAttributeDirective(src, i, pos())
			if err != nil {
				return nil, err
			}
			p.vars[key] = value
			// The attribute text is passed through unchanged: the parser
			// attaches it to the following struct field as an Attribute.
			out = append(out, src[i:i+consumed]...)
			for j := i; j < i+consumed; j++ {
				advance(src[j])
			}
			i += consumed
			continue
		}

		if c == '{' && i+1 < len(src) && src[i+1] == '{' {
			key, consumed, ok := scanSubstitution(src, i)
			if ok {
				if value, defined := p.vars[key]; defined {
					out = append(out, value...)
				} else {
					// Undefined keys pass through literally: a later
					// include may still define them.
					out = append(out, src[i:i+consumed]...)
				}
				for j := i; j < i+consumed; j++ {
					advance(src[j])
				}
				i += consumed
				continue
			}
		}

		out = append(out, c)
		advance(c)
		i++
	}

	return out, nil
}

func hasPrefixAt(src []byte, i int, prefix string) bool {
	if i+len(prefix) > len(src) {
		return false
	}
	return string(src[i:i+len(prefix)]) == prefix
}

// scanIncludeTarget parses `<path>` or `"path"` immediately following
// `#include` (whitespace permitted between them) and returns the target
// text and the number of bytes consumed starting at the '#'.
func scanIncludeTarget(src []byte, start int, pos token.Position) (string, int, error) {
	i := start
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i >= len(src) {
		return "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "unterminated #include directive"}
	}
	var closer byte
	switch src[i] {
	case '<':
		closer = '>'
	case '"':
		closer = '"'
	default:
		return "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "#include must be followed by <path> or \"path\""}
	}
	i++
	targetStart := i
	for i < len(src) && src[i] != closer {
		i++
	}
	if i >= len(src) {
		return "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "unterminated #include target"}
	}
	target := string(src[targetStart:i])
	directiveStart := start - len("#include")
	consumed := (i + 1) - directiveStart
	return target, consumed, nil
}

// scanAttributeDirective parses `#[KEY "VALUE"]` starting at the '#' and
// returns the key, value, and bytes consumed.
func scanAttributeDirective(src []byte, start int, pos token.Position) (string, string, int, error) {
	i := start + len("#[")
	keyStart := i
	for i < len(src) && isKeyChar(src[i]) {
		i++
	}
	if i == keyStart {
		return "", "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "#[ directive missing KEY"}
	}
	key := string(src[keyStart:i])
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i >= len(src) || src[i] != '"' {
		return "", "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "#[" + key + " directive missing \"VALUE\""}
	}
	i++
	valueStart := i
	for i < len(src) && src[i] != '"' {
		i++
	}
	if i >= len(src) {
		return "", "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "unterminated value in #[" + key + "] directive"}
	}
	value := string(src[valueStart:i])
	i++
	if i >= len(src) || src[i] != ']' {
		return "", "", 0, &Error{Kind: BadToken, Pos: pos, Msg: "#[" + key + "] directive missing closing ]"}
	}
	i++
	return key, value, i - start, nil
}

func isKeyChar(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// scanSubstitution parses `{{KEY}}` starting at the first '{'.
func scanSubstitution(src []byte, start int) (string, int, bool) {
	i := start + 2
	keyStart := i
	for i < len(src) && isKeyChar(src[i]) {
		i++
	}
	if i == keyStart || i+1 >= len(src) || src[i] != '}' || src[i+1] != '}' {
		return "", 0, false
	}
	key := string(src[keyStart:i])
	return key, (i + 2) - start, true
}
