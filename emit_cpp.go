package idl

import "fmt"

// GenCppOptions configures the C6 emitter's formatting.
type GenCppOptions struct {
	IndentSpaces string // e.g. "  " or "    "
}

func DefaultGenCppOptions() GenCppOptions { return GenCppOptions{IndentSpaces: "  "} }

// cppEmitter renders a pruned, type-checked AST to C++ source text
// (§4.6). It assumes Prune has already run: every foldable
// sub-expression is already a literal, so the emitter itself performs
// no folding, only syntax-directed translation.
type cppEmitter struct {
	w    *outputWriter
	s    *Symtab
	opts GenCppOptions
}

// GenCpp renders a single expression or statement node to a string,
// the building block both the instruction-body and CSR-field-type
// emitters (§6 Output contract) are built from.
func GenCpp(n AstNode, s *Symtab, opts GenCppOptions) (string, error) {
	e := &cppEmitter{w: newOutputWriter(opts.IndentSpaces), s: s, opts: opts}
	if err := e.emit(n); err != nil {
		return "", err
	}
	return e.w.String(), nil
}

func (e *cppEmitter) emit(n AstNode) error {
	switch t := n.(type) {
	case *IntLiteralNode:
		e.w.write(renderIntLiteralToken(t.Val))
		return nil
	case *BoolLiteralNode:
		e.w.write(RenderBoolLiteral(t.Val))
		return nil
	case *StringLiteralNode:
		e.w.write(RenderStringLiteral(t.Val))
		return nil
	case *IdentifierNode:
		return e.emitIdentifier(t)
	case *BuiltinVariableNode:
		return e.emitBuiltinVariable(t)
	case *ParenNode:
		e.w.write("(")
		if err := e.emit(t.Inner); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *UnaryExpressionNode:
		e.w.write("(" + t.Op)
		if err := e.emit(t.Operand); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *BinaryExpressionNode:
		return e.emitBinary(t)
	case *TernaryNode:
		return e.emitTernary(t)
	case *ArrayAccessNode:
		if err := e.emit(t.Array); err != nil {
			return err
		}
		e.w.write("[")
		if err := e.emit(t.Index); err != nil {
			return err
		}
		e.w.write("]")
		return nil
	case *ArrayRangeAccessNode:
		return e.emitRangeAccess(t)
	case *ArrayAssignmentNode:
		if err := e.emit(t.Array); err != nil {
			return err
		}
		e.w.write("[")
		if err := e.emit(t.Index); err != nil {
			return err
		}
		e.w.write("] = ")
		return e.emit(t.Rhs)
	case *ArrayRangeAssignmentNode:
		return e.emitRangeAssignment(t)
	case *FieldAccessNode:
		if err := e.emit(t.Base); err != nil {
			return err
		}
		e.w.write("." + mangleIdent(t.Field))
		return nil
	case *FieldAssignmentNode:
		if err := e.emit(t.Base); err != nil {
			return err
		}
		e.w.write("." + mangleIdent(t.Field) + " = ")
		return e.emit(t.Rhs)
	case *ConcatenationNode:
		return e.emitConcatenation(t)
	case *ReplicationNode:
		return e.emitReplication(t)
	case *BitCastNode:
		return e.emitBitCast(t)
	case *SignCastNode:
		if t.Signed {
			e.w.write("$signed(")
		} else {
			e.w.write("$unsigned(")
		}
		if err := e.emit(t.Inner); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *EnumCastNode:
		e.w.write(t.EnumName + "{")
		if err := e.emit(t.Inner); err != nil {
			return err
		}
		e.w.write("}")
		return nil
	case *FunctionCallNode:
		return e.emitFunctionCall(t)
	case *CsrReadNode:
		return e.emitCsrRead(t)
	case *CsrWriteNode:
		return e.emitCsrWrite(t)
	case *CsrFunctionCallNode:
		return e.emitCsrFunctionCall(t)
	case *CsrFieldReadNode:
		e.w.write(fmt.Sprintf("__UDB_CSR_BY_NAME(%s).%s()._hw_read()", t.CsrName, mangleIdent(t.Field)))
		return nil
	case *CsrFieldWriteNode:
		e.w.write(fmt.Sprintf("__UDB_CSR_BY_NAME(%s).%s()._hw_write(", t.CsrName, mangleIdent(t.Field)))
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *PcAssignmentNode:
		e.w.write("__UDB_SET_PC(")
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *RegisterAccessNode:
		e.w.write("__UDB_HART->_xreg(")
		if err := e.emit(t.Index); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *RegisterAssignmentNode:
		e.w.write("__UDB_HART->_set_xreg(")
		if err := e.emit(t.Index); err != nil {
			return err
		}
		e.w.write(", ")
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	case *ReturnNode:
		return e.emitReturn(t)
	case *ConditionalReturnNode:
		e.w.writei("if (")
		if err := e.emit(t.Cond); err != nil {
			return err
		}
		e.w.writel(") {")
		e.w.indent()
		if err := e.emitReturn(&ReturnNode{nodeBase: t.nodeBase, Values: t.Values}); err != nil {
			return err
		}
		e.w.unindent()
		e.w.writeil("}")
		return nil
	case *IfNode:
		return e.emitIf(t)
	case *ConditionalStatementNode:
		e.w.writei("if (")
		if err := e.emit(t.Cond); err != nil {
			return err
		}
		e.w.writel(") {")
		e.w.indent()
		if err := e.emitStatement(t.Body); err != nil {
			return err
		}
		e.w.unindent()
		e.w.writeil("}")
		return nil
	case *ForLoopNode:
		return e.emitForLoop(t)
	case *DeclarationNode:
		e.w.writei(t.Type.RenderCpp() + " " + mangleIdent(t.Name) + ";")
		return nil
	case *DeclarationWithInitNode:
		e.w.writei(t.Type.RenderCpp() + " " + mangleIdent(t.Name) + " = ")
		if err := e.emit(t.Init); err != nil {
			return err
		}
		e.w.write(";")
		return nil
	case *MultiDeclarationNode:
		return e.emitMultiDeclaration(t)
	case *MultiAssignmentNode:
		return e.emitMultiAssignment(t)
	case *FunctionBodyNode:
		return e.emitFunctionBody(t)
	case *StatementNode:
		return e.emitStatement(t.Inner)
	case *NoopNode:
		return nil
	default:
		return &InternalError{Range: n.Range(), Pass: "gen_cpp", Message: fmt.Sprintf("no gen_cpp rule for %T", n)}
	}
}

// emitStatement emits n as a full statement line, adding indentation
// and a trailing semicolon for bare expression-statements that don't
// already self-terminate.
func (e *cppEmitter) emitStatement(n AstNode) error {
	switch n.(type) {
	case *IfNode, *ForLoopNode, *ConditionalStatementNode, *ConditionalReturnNode, *FunctionBodyNode, *NoopNode,
		*DeclarationNode, *DeclarationWithInitNode, *MultiDeclarationNode, *ReturnNode:
		return e.emit(n)
	default:
		e.w.writei("")
		if err := e.emit(n); err != nil {
			return err
		}
		e.w.writel(";")
		return nil
	}
}

func (e *cppEmitter) emitIdentifier(t *IdentifierNode) error {
	va, ok := e.s.Lookup(t.Name)
	if !ok {
		e.w.write(mangleIdent(t.Name))
		return nil
	}
	switch {
	case va.Qualifiers.Global && va.Qualifiers.Const && va.Value != nil:
		e.w.write(fmt.Sprintf("__UDB_STATIC_PARAM(%s)", mangleIdent(t.Name)))
	case va.Qualifiers.Global && va.Value == nil:
		e.w.write(fmt.Sprintf("__UDB_RUNTIME_PARAM(%s)", mangleIdent(t.Name)))
	case va.Qualifiers.Global && va.Qualifiers.Const:
		e.w.write(fmt.Sprintf("__UDB_CONST_GLOBAL(%s)", mangleIdent(t.Name)))
	case va.Qualifiers.Global:
		e.w.write(fmt.Sprintf("__UDB_MUTABLE_GLOBAL(%s)", mangleIdent(t.Name)))
	default:
		e.w.write(mangleIdent(t.Name))
	}
	return nil
}

func (e *cppEmitter) emitBuiltinVariable(t *BuiltinVariableNode) error {
	switch t.Name {
	case "$encoding":
		e.w.write("__UDB_ENCODING")
	case "$pc":
		e.w.write("__UDB_PC")
	default:
		return &InternalError{Range: t.Range(), Pass: "gen_cpp", Message: "unknown builtin variable " + t.Name}
	}
	return nil
}

var widenMethod = map[string]string{"`+": "widening_add", "`-": "widening_sub", "`*": "widening_mul"}

func (e *cppEmitter) emitBinary(t *BinaryExpressionNode) error {
	if t.Op == ">>" {
		if lv, ok := t.Lhs.Value(e.s); ok {
			if iv, ok := lv.(IntValue); ok && iv.Signed {
				e.w.write("(")
				if err := e.emit(t.Lhs); err != nil {
					return err
				}
				e.w.write(").sra(")
				if err := e.emit(t.Rhs); err != nil {
					return err
				}
				e.w.write(")")
				return nil
			}
		}
	}
	if t.Op == "`<<" {
		if rv, ok := t.Rhs.Value(e.s); ok {
			if iv, ok := rv.(IntValue); ok {
				e.w.write("(")
				if err := e.emit(t.Lhs); err != nil {
					return err
				}
				e.w.write(fmt.Sprintf(").template sll<%s>()", iv.Val.String()))
				return nil
			}
		}
		e.w.write("(")
		if err := e.emit(t.Lhs); err != nil {
			return err
		}
		e.w.write(").widening_sll(")
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	}
	if method, ok := widenMethod[t.Op]; ok {
		e.w.write("(")
		if err := e.emit(t.Lhs); err != nil {
			return err
		}
		e.w.write(")." + method + "(")
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	}

	e.w.write("(")
	if err := e.emit(t.Lhs); err != nil {
		return err
	}
	e.w.write(" " + t.Op + " ")
	if err := e.emit(t.Rhs); err != nil {
		return err
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitTernary(t *TernaryNode) error {
	e.w.write("(")
	if err := e.emit(t.Cond); err != nil {
		return err
	}
	e.w.write(" ? ")
	if err := e.emit(t.Then); err != nil {
		return err
	}
	e.w.write(" : ")
	if err := e.emit(t.Else); err != nil {
		return err
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitRangeAccess(t *ArrayRangeAccessNode) error {
	msb, mok := t.Msb.Value(e.s)
	lsb, lok := t.Lsb.Value(e.s)
	if mok && lok {
		mi, _ := msb.(IntValue)
		li, _ := lsb.(IntValue)
		size := mi.Val.Int64() - li.Val.Int64() + 1
		e.w.write(fmt.Sprintf("extract<%s, %d>(", li.Val.String(), size))
		if err := e.emit(t.Array); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	}
	e.w.write("extract(")
	if err := e.emit(t.Array); err != nil {
		return err
	}
	e.w.write(", ")
	if err := e.emit(t.Lsb); err != nil {
		return err
	}
	e.w.write(", (")
	if err := e.emit(t.Msb); err != nil {
		return err
	}
	e.w.write(" - ")
	if err := e.emit(t.Lsb); err != nil {
		return err
	}
	e.w.write(" + 1))")
	return nil
}

// emitRangeAssignment picks bit_insert<msb,lsb> when both bounds are
// constexpr, else the runtime bit_insert(v, msb, lsb, w) form — the
// resolution the ambiguous-behaviors note in §9 settles on.
func (e *cppEmitter) emitRangeAssignment(t *ArrayRangeAssignmentNode) error {
	if msb, lsb, ok := t.BoundsKnown(e.s); ok {
		e.w.write(fmt.Sprintf("bit_insert<%d, %d>(", msb, lsb))
		if err := e.emit(t.Array); err != nil {
			return err
		}
		e.w.write(", ")
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	}
	e.w.write("bit_insert(")
	if err := e.emit(t.Array); err != nil {
		return err
	}
	e.w.write(", ")
	if err := e.emit(t.Msb); err != nil {
		return err
	}
	e.w.write(", ")
	if err := e.emit(t.Lsb); err != nil {
		return err
	}
	e.w.write(", ")
	if err := e.emit(t.Rhs); err != nil {
		return err
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitConcatenation(t *ConcatenationNode) error {
	e.w.write("concat(")
	for i, p := range t.Parts {
		if i > 0 {
			e.w.write(", ")
		}
		if err := e.emit(p); err != nil {
			return err
		}
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitReplication(t *ReplicationNode) error {
	e.w.write("replicate(")
	if err := e.emit(t.Value_); err != nil {
		return err
	}
	e.w.write(", ")
	if err := e.emit(t.Count); err != nil {
		return err
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitBitCast(t *BitCastNode) error {
	_, known := t.Value(e.s)
	if known {
		typ := BitsType{Width: t.Width, Bound: NoBound, Signed: t.Signed}
		e.w.write(typ.RenderCpp() + "(")
	} else {
		e.w.write(possiblyUnknownRender(t.Width, t.Signed) + "(")
	}
	if err := e.emit(t.Inner); err != nil {
		return err
	}
	e.w.write(")")
	return nil
}

// possiblyUnknownRender renders the PossiblyUnknownBits<W> spelling
// used for casts whose source operand is not fully known.
func possiblyUnknownRender(width int, signed bool) string {
	t := BitsType{Width: UnknownWidth, Bound: width, Signed: signed}
	return t.RenderCpp()
}

func (e *cppEmitter) emitFunctionCall(t *FunctionCallNode) error {
	name := mangleIdent(t.Name)
	prefix := "__UDB_FUNC_CALL "
	if _, ok := e.s.LookupFunction(t.Name); ok && Constexpr(t, e.s) {
		prefix = "__UDB_CONSTEXPR_FUNC_CALL "
	}
	e.w.write(prefix)
	if len(t.TemplateArgs) > 0 {
		e.w.write("template " + name + "<")
		for i, ta := range t.TemplateArgs {
			if i > 0 {
				e.w.write(", ")
			}
			if err := e.emit(ta); err != nil {
				return err
			}
		}
		e.w.write(">(")
	} else {
		e.w.write(name + "(")
	}
	for i, a := range t.Args {
		if i > 0 {
			e.w.write(", ")
		}
		if err := e.emit(a); err != nil {
			return err
		}
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitCsrRead(t *CsrReadNode) error {
	if t.CsrExpr != nil {
		e.w.write("__UDB_CSR_BY_ADDR(")
		if err := e.emit(t.CsrExpr); err != nil {
			return err
		}
		e.w.write(")._hw_read()")
		return nil
	}
	xlenArg := ""
	if csr, ok := e.s.LookupCsr(t.CsrName); ok && e.s.Cfg() != nil && e.s.Cfg().MultiXlen() && len(csr.WidthByXlen) > 1 {
		xlenArg = fmt.Sprintf("(%d)", e.s.Xlen())
	}
	e.w.write(fmt.Sprintf("__UDB_CSR_BY_NAME(%s)._hw_read%s()", t.CsrName, xlenArg))
	return nil
}

func (e *cppEmitter) emitCsrWrite(t *CsrWriteNode) error {
	if t.CsrExpr != nil {
		e.w.write("__UDB_CSR_BY_ADDR(")
		if err := e.emit(t.CsrExpr); err != nil {
			return err
		}
		e.w.write(")._hw_write(")
		if err := e.emit(t.Rhs); err != nil {
			return err
		}
		e.w.write(")")
		return nil
	}
	e.w.write(fmt.Sprintf("__UDB_CSR_BY_NAME(%s)._hw_write(", t.CsrName))
	if err := e.emit(t.Rhs); err != nil {
		return err
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitCsrFunctionCall(t *CsrFunctionCallNode) error {
	e.w.write(fmt.Sprintf("__UDB_CSR_BY_NAME(%s).%s(", t.CsrName, mangleIdent(t.Func)))
	for i, a := range t.Args {
		if i > 0 {
			e.w.write(", ")
		}
		if err := e.emit(a); err != nil {
			return err
		}
	}
	e.w.write(")")
	return nil
}

func (e *cppEmitter) emitReturn(t *ReturnNode) error {
	e.w.writei("return")
	switch len(t.Values) {
	case 0:
		e.w.writel(";")
	case 1:
		e.w.write(" ")
		if err := e.emit(t.Values[0]); err != nil {
			return err
		}
		e.w.writel(";")
	default:
		e.w.write(" std::tuple{")
		for i, v := range t.Values {
			if i > 0 {
				e.w.write(", ")
			}
			if err := e.emit(v); err != nil {
				return err
			}
		}
		e.w.writel("};")
	}
	return nil
}

func (e *cppEmitter) emitIf(t *IfNode) error {
	e.w.writei("if (")
	if err := e.emit(t.Cond); err != nil {
		return err
	}
	e.w.writel(") {")
	e.w.indent()
	if err := e.emitStatement(t.Then); err != nil {
		return err
	}
	e.w.unindent()
	e.w.writei("}")
	for _, ei := range t.ElseIfs {
		e.w.write(" else if (")
		if err := e.emit(ei.Cond); err != nil {
			return err
		}
		e.w.writel(") {")
		e.w.indent()
		if err := e.emitStatement(ei.Body); err != nil {
			return err
		}
		e.w.unindent()
		e.w.writei("}")
	}
	if t.Else != nil {
		e.w.write(" else {\n")
		e.w.indent()
		if err := e.emitStatement(t.Else); err != nil {
			return err
		}
		e.w.unindent()
		e.w.writei("}")
	}
	e.w.write("\n")
	return nil
}

func (e *cppEmitter) emitForLoop(t *ForLoopNode) error {
	e.w.writei("for (")
	if err := e.emit(t.Init); err != nil {
		return err
	}
	e.w.write("; ")
	if err := e.emit(t.Cond); err != nil {
		return err
	}
	e.w.write("; ")
	if err := e.emit(t.Update); err != nil {
		return err
	}
	e.w.writel(") {")
	e.w.indent()
	if err := e.emitStatement(t.Body); err != nil {
		return err
	}
	e.w.unindent()
	e.w.writeil("}")
	return nil
}

func (e *cppEmitter) emitMultiDeclaration(t *MultiDeclarationNode) error {
	for i, name := range t.Names {
		e.w.writeil(fmt.Sprintf("%s %s;", t.Types[i].RenderCpp(), mangleIdent(name)))
	}
	return nil
}

func (e *cppEmitter) emitMultiAssignment(t *MultiAssignmentNode) error {
	e.w.writei("std::tie(")
	for i, target := range t.Targets {
		if i > 0 {
			e.w.write(", ")
		}
		if err := e.emit(target); err != nil {
			return err
		}
	}
	e.w.write(") = ")
	if err := e.emit(t.Rhs); err != nil {
		return err
	}
	e.w.writel(";")
	return nil
}

func (e *cppEmitter) emitFunctionBody(t *FunctionBodyNode) error {
	for _, st := range t.Statements {
		if err := e.emitStatement(st); err != nil {
			return err
		}
	}
	return nil
}

// renderIntLiteralToken implements the §4.6 integer-literal rendering
// table row.
func renderIntLiteralToken(v IntValue) string {
	if v.Signed {
		return v.Val.String() + "_sb"
	}
	return v.Val.String() + "_b"
}

// FunctionPrototype renders a C++ prototype for fn (§4.6): marks each
// formal const iff the body never writes to it, pass-by-reference iff
// the formal is writable in-scope, and prefixes [[noreturn]] for
// raise* builtins.
func FunctionPrototype(fn *FunctionDefNode) string {
	prefix := ""
	if fn.IsRaise() {
		prefix = "[[noreturn]] "
	}
	templ := ""
	if len(fn.Templates) > 0 {
		templ = "template <"
		for i, t := range fn.Templates {
			if i > 0 {
				templ += ", "
			}
			templ += "auto " + mangleIdent(t.Name)
		}
		templ += ">\n"
	}
	params := ""
	for i, p := range fn.Params {
		if i > 0 {
			params += ", "
		}
		if fn.Body != nil && Written(fn.Body, p.Name) {
			params += p.Type.RenderCpp() + "& " + mangleIdent(p.Name)
		} else {
			params += "const " + p.Type.RenderCpp() + " " + mangleIdent(p.Name)
		}
	}
	return fmt.Sprintf("%s%s%s %s(%s)", templ, prefix, fn.ReturnType.RenderCpp(), mangleIdent(fn.Name), params)
}
