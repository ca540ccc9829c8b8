package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jlangtools/jcc/internal/registry"
)

// ScalarTypes is the fixed set of J scalar type names the runtime
// prologue provides integer/float/pointer aliases for (spec §4.4).
var ScalarTypes = []string{
	"bit", "byte", "short", "word", "int", "dword", "long", "qword",
	"float", "double", "intn", "uintn", "address", "string", "routine", "char",
}

// nativeAlias is the fixed-width target type each scalar name maps to.
// Grounded on the spec's own phrasing ("fixed-width aliases provided by
// the runtime prologue") rather than any teacher table, since the
// teacher's domain (registry values) has no scalar-width type system of
// its own to borrow from.
var nativeAlias = map[string]string{
	"bit": "bool", "byte": "unsigned char", "short": "short",
	"word": "unsigned short", "int": "int", "dword": "unsigned int",
	"long": "long long", "qword": "unsigned long long",
	"float": "float", "double": "double", "intn": "long long",
	"uintn": "unsigned long long", "address": "void*",
	"string": "std::string", "routine": "void (*)()", "char": "char",
}

// TypeAliasPrologue emits the fixed type-alias block (spec §6, "Type-
// alias prologue block: a closed set of named integer/float/pointer
// aliases within a dedicated namespace").
func TypeAliasPrologue() string {
	var b strings.Builder
	b.WriteString("namespace jcc {\n")
	for _, name := range ScalarTypes {
		fmt.Fprintf(&b, "    typedef %s %s;\n", nativeAlias[name], Rectify(name))
	}
	b.WriteString("}\n")
	return b.String()
}

const (
	typenamesPlaceholder        = "!!!/* JCC_TYPENAMES_MAPPING */!!!"
	typenamesReversePlaceholder = "!!!/* JCC_TYPENAMES_MAPPING_REVERSE */!!!"
	reflectiveEntriesPlaceholder = "!!!/* JCC_REFLECTIVE_ENTRIES */!!!"
)

// reflectiveBaseTemplate is the fixed runtime base class the generator
// splices into every job's output (spec §4.4 "Prologue splicing", §6).
// It carries the three placeholders ReflectivePrologue substitutes.
const reflectiveBaseTemplate = `namespace jcc {
class ReflectiveTypeTable {
public:
    static const char* nameOf(int typeid_) {
        switch (typeid_) {
` + typenamesPlaceholder + `
        default: return "";
        }
    }
    static int idOf(const char* name) {
` + typenamesReversePlaceholder + `
        return -1;
    }
};

struct ReflectiveFieldEntry { const char* name; const char* type; int count; };
static const ReflectiveFieldEntry jcc_reflective_entries[] = {
` + reflectiveEntriesPlaceholder + `
};

template <int TypeId>
class ReflectiveBase {
public:
    static constexpr int typeid_value = TypeId;
    const char* typeName() const { return ReflectiveTypeTable::nameOf(TypeId); }
};
}
`

// ReflectivePrologue renders reflectiveBaseTemplate with the three
// placeholders substituted from reg's final accumulated state (spec §4.4:
// "substituting the registry contents into placeholders"). It is called
// once, by the job driver, after every unit has finished generating —
// the registry is only final at that point (spec §5).
func ReflectivePrologue(reg *registry.Registry) string {
	out := reflectiveBaseTemplate
	out = strings.ReplaceAll(out, typenamesPlaceholder, forwardCases(reg))
	out = strings.ReplaceAll(out, typenamesReversePlaceholder, reverseCases(reg))
	out = strings.ReplaceAll(out, reflectiveEntriesPlaceholder, fieldEntries(reg))
	return out
}

func forwardCases(reg *registry.Registry) string {
	var b strings.Builder
	for id := 0; id < reg.Count(); id++ {
		name, _ := reg.QualifiedName(id)
		fmt.Fprintf(&b, "        case %d: return \"%s\";\n", id, Rectify(name))
	}
	return b.String()
}

func reverseCases(reg *registry.Registry) string {
	var b strings.Builder
	for id := 0; id < reg.Count(); id++ {
		name, _ := reg.QualifiedName(id)
		fmt.Fprintf(&b, "        if (strcmp(name, \"%s\") == 0) return %d;\n", Rectify(name), id)
	}
	return b.String()
}

func fieldEntries(reg *registry.Registry) string {
	var b strings.Builder
	for id := 0; id < reg.Count(); id++ {
		for _, f := range reg.Fields(id) {
			fmt.Fprintf(&b, "    { \"%s\", \"%s\", %s },\n", Rectify(f.Name), Rectify(f.TypeName), strconv.Itoa(f.Count))
		}
	}
	return b.String()
}
