package idl

import "fmt"

// TypeError signals that an AST invariant the type checker should have
// guaranteed does not hold. It is always fatal: the core never
// attempts to recover from a malformed input tree.
type TypeError struct {
	Range   Range
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error @ %s: %s", e.Range, e.Message)
}

// InternalError signals that a node variant is missing a behavior the
// pass being run requires (most commonly: no gen_cpp rule, or no
// Value rule). It always carries the offending node's range.
type InternalError struct {
	Range   Range
	Pass    string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s @ %s: %s", e.Pass, e.Range, e.Message)
}

// ComplexRegDetermination is raised by FindSrcRegisters/FindDstRegisters
// when a register-file index is neither a literal nor a
// const-parameterized value. The caller decides whether to
// over-approximate (treat as "all registers") or abort.
type ComplexRegDetermination struct {
	Range Range
	Expr  AstNode
}

func (e *ComplexRegDetermination) Error() string {
	return fmt.Sprintf("cannot determine register index statically @ %s: %s", e.Range, e.Expr.String())
}

// DecoderError signals an instruction-encoding input the decoder
// generator (§4.7) cannot build a tree for: BuildDecoderTree returns
// it when two or more live instructions have no distinguishing bit
// position left.
type DecoderError struct {
	Instruction string
	Message     string
}

func (e *DecoderError) Error() string {
	if e.Instruction == "" {
		return fmt.Sprintf("decoder error: %s", e.Message)
	}
	return fmt.Sprintf("decoder error (instruction %q): %s", e.Instruction, e.Message)
}
