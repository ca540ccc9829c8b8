// Package codegen walks a parsed tree and emits target-language source,
// threading an indent level and namespace-path context the way
// internal/regtext/emit.go threads its own render context over a regtext
// tree (spec §4.4).
package codegen

import "strings"

// Rectify applies the injective textual transform spec §4.4 requires of
// every emitted identifier: a leading underscore on each ::-separated
// component. Qualification itself is never read from the node — it comes
// from the namespace-path the generator is threading at call time (spec
// §3: "qualification is derived from the traversal context, never stored
// redundantly in the node") — so Rectify only ever rewrites components,
// it never joins a name to a context.
func Rectify(name string) string {
	if name == "" {
		return name
	}
	parts := strings.Split(name, "::")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = "_" + p
	}
	return normalizeScope(strings.Join(parts, "::"))
}

// normalizeScope collapses any run of adjacent scope operators into one.
// spec §9's first Open Question flags the source sometimes emitting a
// double "::" and says an implementer should normalize it rather than
// guess whether it was intentional.
func normalizeScope(s string) string {
	for strings.Contains(s, "::::") {
		s = strings.ReplaceAll(s, "::::", "::")
	}
	for strings.Contains(s, ":::") {
		s = strings.ReplaceAll(s, ":::", "::")
	}
	return s
}

// Qualify joins a namespace path and a local name with "::", the one
// place qualification actually happens (the generator's traversal
// context, not the parser or the AST).
func Qualify(nsPath []string, name string) string {
	if len(nsPath) == 0 {
		return name
	}
	return strings.Join(nsPath, "::") + "::" + name
}
