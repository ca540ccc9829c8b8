package token

// Keywords is the closed set of J reserved words (spec §6). Map value is
// unused; presence is the test. Identifiers matching a keyword are never
// lexed as Identifier tokens.
var Keywords = map[string]bool{
	"namemap": true, "namespace": true, "using": true, "export": true,
	"global": true, "infer": true, "seal": true, "unseal": true,
	"class": true, "struct": true, "union": true, "typedef": true,
	"public": true, "private": true, "protected": true, "claim": true,
	"virtual": true, "abstract": true, "volatile": true, "const": true,
	"enum": true, "static_map": true, "explicit": true, "extern": true,
	"friend": true, "operator": true, "this": true, "constructor": true,
	"destructor": true, "metaclass": true, "metatype": true, "metafunction": true,
	"meta": true, "sizeof": true, "if": true, "else": true, "for": true,
	"while": true, "do": true, "switch": true, "return": true, "fault": true,
	"case": true, "break": true, "default": true, "abort": true, "throw": true,
	"continue": true, "intn": true, "uintn": true, "float": true, "double": true,
	"int": true, "signed": true, "unsigned": true, "long": true, "bool": true,
	"bit": true, "char": true, "void": true, "auto": true,
}

// Operators lists every multi-character and single-character operator
// lexeme, longest first, for maximal-munch scanning (spec §6). Word
// operators ("new", "delete") are matched as keywords would be — by the
// identifier-boundary rule — and are listed separately in WordOperators.
var Operators = []string{
	// 4-char
	">>>=",
	// 3-char
	"^^=", "||=", "&&=", "<<=", ">>=",
	// 2-char
	"+=", "-=", "*=", "/=", "%=", "|=", "&=", "^=", "<<", ">>",
	"==", "!=", "&&", "||", "^^", "<=", ">=", "??", "//", "++", "--",
	// 1-char
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!", "<", ">", "=",
	"@", "?", "#", ".", ",",
}

// WordOperators are recognised as operators rather than identifiers.
var WordOperators = map[string]bool{
	"new": true, "delete": true,
}

// Punctuators is the closed set of structural punctuation, longest first
// so "::" is matched before a lone ":".
var Punctuators = []string{
	"::", "(", ")", "{", "}", "[", "]", ";", ",", ":",
}

// isIdentChar reports whether b can appear in an identifier (after the
// first character, digits are also allowed).
func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// IsIdentChar is exported so the lexer's boundary check can share it.
func IsIdentChar(b byte) bool { return isIdentChar(b) }

// IsIdentStart reports whether b can start an identifier.
func IsIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
