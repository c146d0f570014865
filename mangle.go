package idl

import (
	"strings"
	"unicode"
)

// mangleIdent rewrites a single IDL identifier into a legal C++ one.
// The character '?' is forbidden in C++ identifiers (§4.6); the
// emitter uniformly renames it to "_Q_".
func mangleIdent(name string) string {
	return strings.ReplaceAll(name, "?", "_Q_")
}

// camelCase upper-cases the first letter of each '_'/'-'/'.'-separated
// word and joins them, the transform §6 calls "config is camel-cased".
func camelCase(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		if r == '_' || r == '-' || r == '.' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dotsToUnderscores rewrites a CSR/field name's dots for use inside a
// C++ identifier (§6: "Name-with-dots-as-underscores").
func dotsToUnderscores(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// MangleHart renders the <config>_Hart class name.
func MangleHart(config string) string { return camelCase(config) + "_Hart" }

// MangleParams renders the <config>_Params class name.
func MangleParams(config string) string { return camelCase(config) + "_Params" }

// MangleCsr renders the Csr(name) class name.
func MangleCsr(config, name string) string {
	return camelCase(config) + "_" + capitalizeFirst(dotsToUnderscores(name)) + "_Csr"
}

// MangleCsrField renders the CsrField(csr, field) class name.
func MangleCsrField(config, csr, field string) string {
	return camelCase(config) + "_" + capitalizeFirst(dotsToUnderscores(csr)) + "_" + capitalizeFirst(field) + "_Field"
}

// MangleCsrContainer renders the CsrContainer class name.
func MangleCsrContainer(config string) string { return camelCase(config) + "_CsrContainer" }

// MangleCsrView renders the CsrView(csr) class name.
func MangleCsrView(config, csr string) string {
	return camelCase(config) + "_" + capitalizeFirst(dotsToUnderscores(csr)) + "_CsrView"
}

// MangleInst renders the Inst(name) class name.
func MangleInst(config, name string) string {
	return camelCase(config) + "_" + capitalizeFirst(mangleIdent(name)) + "_Inst"
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// RenderIntLiteral implements Integer.to_cxx (§6): "<v>ull" unsigned,
// "<v>ll" signed.
func RenderIntLiteral(v IntValue) string {
	if v.Signed {
		return v.Val.String() + "ll"
	}
	return v.Val.String() + "ull"
}

// RenderBoolLiteral implements Boolean.to_cxx.
func RenderBoolLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// RenderStringLiteral implements String.to_cxx: a std::string_view
// literal.
func RenderStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	b.WriteString("sv")
	return b.String()
}
