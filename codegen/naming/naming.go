package naming

import (
	"strconv"
	"strings"
	"unicode"

	"goa.design/goa/v3/codegen"
)

const (
	// ModuleBaseSymbol is the base of generated sub-module attribute names.
	ModuleBaseSymbol = "module"
	// OutputPrefix prefixes generated output symbols.
	OutputPrefix = "output"
	// Separator joins the parts of generated names.
	Separator = "_"
	// Self is the receiver prefix of attributes of the generated module.
	Self = "self."
)

// ModuleName returns the sub-module attribute name of the node with the given
// index, e.g. "module_3".
func ModuleName(index int) string {
	return ModuleBaseSymbol + Separator + strconv.Itoa(index)
}

// OutputName returns the symbol of the sole output of the node with the
// given index, e.g. "self.output_module_3".
func OutputName(index int) string {
	return Self + strings.Join([]string{OutputPrefix, ModuleName(index)}, Separator)
}

// OutputNameAt returns the symbol of the output with the given zero-based
// ordinal of a multi-output node, e.g. "self.output_module_3_1".
func OutputNameAt(index, ordinal int) string {
	return OutputName(index) + Separator + strconv.Itoa(ordinal)
}

// OutputNames returns the output symbols of a node with count outputs. A
// single output carries no ordinal suffix.
func OutputNames(index, count int) []string {
	if count == 1 {
		return []string{OutputName(index)}
	}
	names := make([]string, count)
	for i := range names {
		names[i] = OutputNameAt(index, i)
	}
	return names
}

// pythonKeywords lists the reserved words of Python 3.
var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// ClassName returns the generated class identifier for a graph name. Valid
// identifiers are returned unchanged, anything else (Python keywords
// included) is converted to a CamelCase identifier. The fallback is used when
// nothing usable remains.
func ClassName(name, fallback string) string {
	if isClassName(name) {
		return name
	}
	goified := codegen.Goify(name, true)
	if !isClassName(goified) {
		return fallback
	}
	return goified
}

func isClassName(s string) bool {
	return IsIdentifier(s) && !IsKeyword(s)
}

// IsKeyword reports whether s is a reserved word of Python.
func IsKeyword(s string) bool {
	_, ok := pythonKeywords[s]
	return ok
}

// IsIdentifier reports whether s is a valid Python identifier made of ASCII
// letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r < unicode.MaxASCII && unicode.IsLetter(r):
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// SanitizeToken converts an arbitrary string into a filesystem-safe token.
// It is used to derive default output file names from graph names.
//
// The returned token:
//   - is lower snake_case
//   - contains only [a-z0-9_]
//   - never starts/ends with '_' and never contains repeated "__"
//
// When the sanitized result is empty, SanitizeToken returns fallback.
func SanitizeToken(name, fallback string) string {
	s := strings.ToLower(codegen.SnakeCase(name))
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if s == "" {
		return fallback
	}
	return s
}
