package idl

import "math/big"

// Prune implements the C5 pass (§4.5): produces a semantically
// equivalent AST with dead branches removed and folded constants
// substituted. It is a pure function — the input tree and symtab are
// never mutated; folded bindings live only in a scratch child symtab.
func Prune(n AstNode, s *Symtab) AstNode {
	if n == nil {
		return nil
	}
	if val, ok := n.Value(s); ok {
		if lit, ok := literalFor(n.Range(), val); ok {
			return lit
		}
	}

	switch t := n.(type) {
	case *IfNode:
		return pruneIf(t, s)
	case *ConditionalStatementNode:
		return pruneConditionalStatement(t, s)
	case *ConditionalReturnNode:
		return pruneConditionalReturn(t, s)
	case *BinaryExpressionNode:
		return pruneBinary(t, s)
	case *TernaryNode:
		return pruneTernary(t, s)
	case *FunctionBodyNode:
		return pruneFunctionBody(t, s)
	case *FunctionCallNode:
		return pruneFunctionCall(t, s)
	case *ForLoopNode:
		return &ForLoopNode{nodeBase: t.nodeBase, Init: Prune(t.Init, s), Cond: Prune(t.Cond, s),
			Update: Prune(t.Update, s), Body: Prune(t.Body, s)}
	case *StatementNode:
		return &StatementNode{nodeBase: t.nodeBase, Inner: Prune(t.Inner, s)}
	default:
		return n
	}
}

// literalFor converts a folded Value back into an AST literal node,
// the substitution §4.5 specifies for any node whose value(symtab)
// succeeds. Only integer and boolean folds are substituted in place
// (string/struct/array literals have no corresponding literal node
// family in this IDL and are left as their original expression).
func literalFor(r Range, v Value) (AstNode, bool) {
	switch val := v.(type) {
	case IntValue:
		return &IntLiteralNode{nodeBase: nodeBase{R: r}, Text: val.Cpp(), Val: val}, true
	case BoolValue:
		return &BoolLiteralNode{nodeBase: nodeBase{R: r}, Val: val.Val}, true
	default:
		return nil, false
	}
}

func pruneIf(n *IfNode, s *Symtab) AstNode {
	if cond, ok := n.Cond.Value(s); ok {
		if b, ok := cond.(BoolValue); ok {
			if b.Val {
				return Prune(n.Then, s)
			}
			return pruneElseChain(n, s)
		}
	}

	out := &IfNode{nodeBase: n.nodeBase, Cond: Prune(n.Cond, s), Then: Prune(n.Then, s)}
	sawTrueElseIf := false
	for _, ei := range n.ElseIfs {
		if sawTrueElseIf {
			break
		}
		if cond, ok := ei.Cond.Value(s); ok {
			if b, ok := cond.(BoolValue); ok {
				if !b.Val {
					continue // drop known-false else-if
				}
				// first known-true else-if becomes the else clause.
				out.Else = Prune(ei.Body, s)
				sawTrueElseIf = true
				continue
			}
		}
		out.ElseIfs = append(out.ElseIfs, ElseIf{Cond: Prune(ei.Cond, s), Body: Prune(ei.Body, s)})
	}
	if !sawTrueElseIf && n.Else != nil {
		out.Else = Prune(n.Else, s)
	}
	return out
}

// pruneElseChain handles a known-false primary condition: the
// remaining else-ifs/else become the new top-level construct.
func pruneElseChain(n *IfNode, s *Symtab) AstNode {
	for i, ei := range n.ElseIfs {
		if cond, ok := ei.Cond.Value(s); ok {
			if b, ok := cond.(BoolValue); ok {
				if !b.Val {
					continue
				}
				return Prune(ei.Body, s)
			}
		}
		rest := &IfNode{nodeBase: n.nodeBase, Cond: Prune(ei.Cond, s), Then: Prune(ei.Body, s),
			ElseIfs: n.ElseIfs[i+1:], Else: n.Else}
		return pruneIf(rest, s)
	}
	if n.Else != nil {
		return Prune(n.Else, s)
	}
	return &NoopNode{nodeBase: n.nodeBase}
}

func pruneConditionalStatement(n *ConditionalStatementNode, s *Symtab) AstNode {
	if cond, ok := n.Cond.Value(s); ok {
		if b, ok := cond.(BoolValue); ok {
			if b.Val {
				return Prune(n.Body, s)
			}
			return &NoopNode{nodeBase: n.nodeBase}
		}
	}
	return &ConditionalStatementNode{nodeBase: n.nodeBase, Cond: Prune(n.Cond, s), Body: Prune(n.Body, s)}
}

func pruneConditionalReturn(n *ConditionalReturnNode, s *Symtab) AstNode {
	values := make([]AstNode, len(n.Values))
	for i, v := range n.Values {
		values[i] = Prune(v, s)
	}
	if cond, ok := n.Cond.Value(s); ok {
		if b, ok := cond.(BoolValue); ok {
			if !b.Val {
				return &NoopNode{nodeBase: n.nodeBase}
			}
			return &ReturnNode{nodeBase: n.nodeBase, Values: values}
		}
	}
	return &ConditionalReturnNode{nodeBase: n.nodeBase, Cond: Prune(n.Cond, s), Values: values}
}

// pruneBinary applies the §4.5 &&/|| short-circuit and &//| identity
// special cases, falling back to pruning both operands.
func pruneBinary(n *BinaryExpressionNode, s *Symtab) AstNode {
	lhs := Prune(n.Lhs, s)
	rhs := Prune(n.Rhs, s)

	switch n.Op {
	case "&&":
		if b, ok := boolLit(lhs); ok {
			if !b {
				return lhs
			}
			return rhs
		}
		if b, ok := boolLit(rhs); ok {
			if !b {
				return rhs
			}
			return lhs
		}
	case "||":
		if b, ok := boolLit(lhs); ok {
			if b {
				return lhs
			}
			return rhs
		}
		if b, ok := boolLit(rhs); ok {
			if b {
				return rhs
			}
			return lhs
		}
	case "&":
		if iv, ok := intLit(lhs); ok && iv.Val.Sign() == 0 {
			return lhs
		}
		if iv, ok := intLit(rhs); ok && iv.Val.Sign() == 0 {
			return rhs
		}
	case "|":
		if iv, ok := intLit(lhs); ok && isAllOnes(iv) {
			return lhs
		}
		if iv, ok := intLit(rhs); ok && isAllOnes(iv) {
			return rhs
		}
	}
	return &BinaryExpressionNode{nodeBase: n.nodeBase, Op: n.Op, Lhs: lhs, Rhs: rhs}
}

func boolLit(n AstNode) (bool, bool) {
	b, ok := n.(*BoolLiteralNode)
	if !ok {
		return false, false
	}
	return b.Val, true
}

func intLit(n AstNode) (IntValue, bool) {
	i, ok := n.(*IntLiteralNode)
	if !ok {
		return IntValue{}, false
	}
	return i.Val, true
}

func isAllOnes(v IntValue) bool {
	if v.Width == UnknownWidth {
		return false
	}
	allOnes := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(v.Width)), big.NewInt(1))
	return v.Val.Cmp(allOnes) == 0
}

func pruneTernary(n *TernaryNode, s *Symtab) AstNode {
	if cond, ok := n.Cond.Value(s); ok {
		if b, ok := cond.(BoolValue); ok {
			if b.Val {
				return Prune(n.Then, s)
			}
			return Prune(n.Else, s)
		}
	}
	return &TernaryNode{nodeBase: n.nodeBase, Cond: Prune(n.Cond, s), Then: Prune(n.Then, s), Else: Prune(n.Else, s)}
}

// pruneFunctionBody implements the §4.5 FunctionBody rule: evaluate
// statements in order against a scratch symtab, truncating at the
// first Return, a ConditionalReturn whose condition is known
// non-false, or a raise(...) call.
func pruneFunctionBody(n *FunctionBodyNode, s *Symtab) AstNode {
	s.PushScope()
	defer s.PopScope()
	out := &FunctionBodyNode{nodeBase: n.nodeBase}
	for _, st := range n.Statements {
		pruned := Prune(st, s)
		out.Statements = append(out.Statements, pruneIfBody(pruned))

		if decl, ok := asDeclarator(unwrapStatement(pruned)); ok {
			decl.AddSymbol(s)
		}
		if isRaiseStatement(unwrapStatement(pruned)) {
			break
		}
		if _, ok := unwrapStatement(pruned).(*ReturnNode); ok {
			break
		}
		if cr, ok := unwrapStatement(pruned).(*ConditionalReturnNode); ok {
			if cond, ok := cr.Cond.Value(s); ok {
				if b, isBool := cond.(BoolValue); isBool && b.Val {
					break
				}
			}
		}
	}
	return out
}

func unwrapStatement(n AstNode) AstNode {
	if st, ok := n.(*StatementNode); ok {
		return st.Inner
	}
	return n
}

func isRaiseStatement(n AstNode) bool {
	call, ok := n.(*FunctionCallNode)
	return ok && isRaiseCall(call.Name)
}

// pruneIfBody cuts statements after a raise(...) call inside an If
// body's own statement list (§4.5 IfBody rule). Only FunctionBodyNode
// bodies need this: single-statement If bodies have nothing to cut.
func pruneIfBody(n AstNode) AstNode {
	body, ok := n.(*FunctionBodyNode)
	if !ok {
		return n
	}
	out := &FunctionBodyNode{nodeBase: body.nodeBase}
	for _, st := range body.Statements {
		out.Statements = append(out.Statements, st)
		if isRaiseStatement(unwrapStatement(st)) {
			break
		}
	}
	return out
}

func pruneFunctionCall(n *FunctionCallNode, s *Symtab) AstNode {
	if val, ok := n.Value(s); ok {
		if lit, ok := literalFor(n.Range(), val); ok {
			return lit
		}
	}
	out := &FunctionCallNode{nodeBase: n.nodeBase, Name: n.Name}
	for _, t := range n.TemplateArgs {
		out.TemplateArgs = append(out.TemplateArgs, Prune(t, s))
	}
	for _, a := range n.Args {
		out.Args = append(out.Args, Prune(a, s))
	}
	return out
}
