package idl

import (
	_ "embed"
	"fmt"
	"sort"
)

// decoderSupportCpp bundles the small fixed C++ helper snippet the
// emitted dispatcher relies on (operand-width extraction macros),
// the same way the teacher's genc.go embeds its own C runtime
// snippet alongside generated code instead of hand-concatenating
// string literals for it.
//
//go:embed decoder_support.cpp
var decoderSupportCpp string

// DecoderSupportCpp returns the embedded support snippet a caller
// should emit once alongside any number of generated dispatchers.
func DecoderSupportCpp() string { return decoderSupportCpp }

// EmitDecoder renders the §4.7 "Code emission" rules for a decoder
// tree built by BuildDecoderTree: a switch when every child of a
// Select is a simple endpoint (no hint/exclusion/extension checks
// needed), otherwise a chained if/else.
func EmitDecoder(root *DecoderNode, width int, configName string, cfg *Config) (string, error) {
	w := newOutputWriter(cfg.GetString("emit.indent"))
	w.writeil("bool decode(__UDB_BITS(" + fmt.Sprint(width) + ") encoding, void* inst_storage) {")
	w.indent()
	if err := emitDecoderNode(w, root, width, configName, cfg); err != nil {
		return "", err
	}
	w.writeil("return false;")
	w.unindent()
	w.writeil("}")
	return w.String(), nil
}

func emitDecoderNode(w *outputWriter, node *DecoderNode, width int, configName string, cfg *Config) error {
	if node.Kind == endpointKind {
		return emitEndpoint(w, node.Inst, configName)
	}

	if allSimpleEndpoints(node, cfg) {
		return emitSwitch(w, node, width, configName, cfg)
	}
	return emitIfChain(w, node, width, configName, cfg)
}

// allSimpleEndpoints reports whether every child of node is a leaf
// needing no hint-disambiguation, decode-variable exclusion, or
// extension-implemented check — the §4.7 precondition for a switch.
func allSimpleEndpoints(node *DecoderNode, cfg *Config) bool {
	if cfg.GetBool("decoder.long_form_always") {
		return false
	}
	for _, c := range node.Children {
		if c.Kind != endpointKind {
			return false
		}
		if needsLongForm(c.Inst) {
			return false
		}
	}
	return true
}

func needsLongForm(in *DecoderInst) bool {
	return len(in.Excludes) > 0 || in.Hint || len(in.Extensions) > 0
}

func emitSwitch(w *outputWriter, node *DecoderNode, width int, configName string, cfg *Config) error {
	size := node.Hi - node.Lo + 1
	w.writeil(fmt.Sprintf("switch (extract<%d, %d>(encoding)) {", node.Lo, size))
	w.indent()
	for _, c := range node.Children {
		if c.Kind == endpointKind && c.Default {
			w.writeil("default: {")
		} else {
			w.writeil(fmt.Sprintf("case 0b%sull: {", fmtBits(c.Value, size)))
		}
		w.indent()
		if err := emitDecoderNode(w, c, width, configName, cfg); err != nil {
			return err
		}
		w.writeil("break;")
		w.unindent()
		w.writeil("}")
	}
	w.unindent()
	w.writeil("}")
	return nil
}

// emitIfChain renders node's children as a chained if/else. A child
// marked Default (the fallback side of a fully-determined hint-vs-
// general split) renders as the closing, unconditional `else` instead
// of testing its own value.
func emitIfChain(w *outputWriter, node *DecoderNode, width int, configName string, cfg *Config) error {
	size := node.Hi - node.Lo + 1
	opened := false
	for _, c := range node.Children {
		kw := "if"
		if opened {
			kw = "} else if"
		}
		if c.Kind == endpointKind && c.Default {
			if opened {
				kw = "} else"
			}
			w.writeil(fmt.Sprintf("%s {", kw))
		} else {
			cond := fmt.Sprintf("extract<%d, %d>(encoding) == 0b%sull", node.Lo, size, fmtBits(c.Value, size))
			if c.Kind == endpointKind {
				cond += conditionsFor(c.Inst)
			}
			w.writeil(fmt.Sprintf("%s (%s) {", kw, cond))
		}
		w.indent()
		if err := emitDecoderNode(w, c, width, configName, cfg); err != nil {
			return err
		}
		w.unindent()
		opened = true
	}
	w.writeil("}")
	return nil
}

// conditionsFor renders the decode-variable-exclusion, hint-exclusion,
// and extension-implemented conditions §4.7 requires in that order,
// each conjoined onto the opcode-match condition.
func conditionsFor(in *DecoderInst) string {
	cond := ""
	for _, dv := range sortedExcludeKeys(in.Excludes) {
		for _, v := range in.Excludes[dv] {
			cond += fmt.Sprintf(" && %s() != %d_b", mangleIdent(dv), v)
		}
	}
	if in.Hint {
		cond += fmt.Sprintf(" && (encoding & 0x%xull) != 0x%xull", in.HintMask, in.HintValue)
	}
	for _, ext := range in.Extensions {
		cond += fmt.Sprintf(" && __UDB_HART->implemented(ExtensionName::%s)", mangleIdent(ext))
	}
	return cond
}

func emitEndpoint(w *outputWriter, in *DecoderInst, configName string) error {
	if in == nil {
		w.writeil("return false;")
		return nil
	}
	w.writeil(fmt.Sprintf("new (inst_storage) %s(encoding);", MangleInst(configName, in.Name)))
	w.writeil("return true;")
	return nil
}

func fmtBits(v int64, width int) string {
	s := ""
	for i := width - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			s += "1"
		} else {
			s += "0"
		}
	}
	return s
}

func sortedExcludeKeys(m map[string][]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
