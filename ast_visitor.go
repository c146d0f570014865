package idl

// AstNodeVisitor gives one method per node variant (§9's recommended
// alternative to open-method/inheritance-chain dispatch). Passes that
// need variant-specific behavior implement this interface; passes
// that only need the default any/all-of-children composition
// (analysis.go) walk Children() directly instead.
type AstNodeVisitor interface {
	VisitIntLiteral(*IntLiteralNode) error
	VisitBoolLiteral(*BoolLiteralNode) error
	VisitStringLiteral(*StringLiteralNode) error
	VisitIdentifier(*IdentifierNode) error
	VisitUnaryExpression(*UnaryExpressionNode) error
	VisitBinaryExpression(*BinaryExpressionNode) error
	VisitTernary(*TernaryNode) error
	VisitParen(*ParenNode) error
	VisitArrayAccess(*ArrayAccessNode) error
	VisitArrayRangeAccess(*ArrayRangeAccessNode) error
	VisitArrayAssignment(*ArrayAssignmentNode) error
	VisitArrayRangeAssignment(*ArrayRangeAssignmentNode) error
	VisitFieldAccess(*FieldAccessNode) error
	VisitFieldAssignment(*FieldAssignmentNode) error
	VisitConcatenation(*ConcatenationNode) error
	VisitReplication(*ReplicationNode) error
	VisitBitCast(*BitCastNode) error
	VisitSignCast(*SignCastNode) error
	VisitEnumCast(*EnumCastNode) error
	VisitFunctionCall(*FunctionCallNode) error
	VisitCsrRead(*CsrReadNode) error
	VisitCsrWrite(*CsrWriteNode) error
	VisitCsrFunctionCall(*CsrFunctionCallNode) error
	VisitCsrFieldRead(*CsrFieldReadNode) error
	VisitCsrFieldWrite(*CsrFieldWriteNode) error
	VisitPcAssignment(*PcAssignmentNode) error
	VisitBuiltinVariable(*BuiltinVariableNode) error
	VisitRegisterAccess(*RegisterAccessNode) error
	VisitRegisterAssignment(*RegisterAssignmentNode) error
	VisitIf(*IfNode) error
	VisitConditionalStatement(*ConditionalStatementNode) error
	VisitForLoop(*ForLoopNode) error
	VisitReturn(*ReturnNode) error
	VisitConditionalReturn(*ConditionalReturnNode) error
	VisitDeclaration(*DeclarationNode) error
	VisitDeclarationWithInit(*DeclarationWithInitNode) error
	VisitMultiDeclaration(*MultiDeclarationNode) error
	VisitMultiAssignment(*MultiAssignmentNode) error
	VisitFunctionDef(*FunctionDefNode) error
	VisitFunctionBody(*FunctionBodyNode) error
	VisitStatement(*StatementNode) error
	VisitNoop(*NoopNode) error
}

// BaseVisitor implements AstNodeVisitor with no-ops for every method,
// so a pass that only cares about a handful of variants can embed it
// and override just those (the same "partial visitor" convenience the
// teacher's grammar tooling relies on).
type BaseVisitor struct{}

func (BaseVisitor) VisitIntLiteral(*IntLiteralNode) error                       { return nil }
func (BaseVisitor) VisitBoolLiteral(*BoolLiteralNode) error                     { return nil }
func (BaseVisitor) VisitStringLiteral(*StringLiteralNode) error                 { return nil }
func (BaseVisitor) VisitIdentifier(*IdentifierNode) error                       { return nil }
func (BaseVisitor) VisitUnaryExpression(*UnaryExpressionNode) error             { return nil }
func (BaseVisitor) VisitBinaryExpression(*BinaryExpressionNode) error           { return nil }
func (BaseVisitor) VisitTernary(*TernaryNode) error                             { return nil }
func (BaseVisitor) VisitParen(*ParenNode) error                                 { return nil }
func (BaseVisitor) VisitArrayAccess(*ArrayAccessNode) error                     { return nil }
func (BaseVisitor) VisitArrayRangeAccess(*ArrayRangeAccessNode) error           { return nil }
func (BaseVisitor) VisitArrayAssignment(*ArrayAssignmentNode) error             { return nil }
func (BaseVisitor) VisitArrayRangeAssignment(*ArrayRangeAssignmentNode) error   { return nil }
func (BaseVisitor) VisitFieldAccess(*FieldAccessNode) error                     { return nil }
func (BaseVisitor) VisitFieldAssignment(*FieldAssignmentNode) error             { return nil }
func (BaseVisitor) VisitConcatenation(*ConcatenationNode) error                 { return nil }
func (BaseVisitor) VisitReplication(*ReplicationNode) error                     { return nil }
func (BaseVisitor) VisitBitCast(*BitCastNode) error                             { return nil }
func (BaseVisitor) VisitSignCast(*SignCastNode) error                          { return nil }
func (BaseVisitor) VisitEnumCast(*EnumCastNode) error                          { return nil }
func (BaseVisitor) VisitFunctionCall(*FunctionCallNode) error                  { return nil }
func (BaseVisitor) VisitCsrRead(*CsrReadNode) error                            { return nil }
func (BaseVisitor) VisitCsrWrite(*CsrWriteNode) error                          { return nil }
func (BaseVisitor) VisitCsrFunctionCall(*CsrFunctionCallNode) error            { return nil }
func (BaseVisitor) VisitCsrFieldRead(*CsrFieldReadNode) error                  { return nil }
func (BaseVisitor) VisitCsrFieldWrite(*CsrFieldWriteNode) error                { return nil }
func (BaseVisitor) VisitPcAssignment(*PcAssignmentNode) error                  { return nil }
func (BaseVisitor) VisitBuiltinVariable(*BuiltinVariableNode) error            { return nil }
func (BaseVisitor) VisitRegisterAccess(*RegisterAccessNode) error              { return nil }
func (BaseVisitor) VisitRegisterAssignment(*RegisterAssignmentNode) error      { return nil }
func (BaseVisitor) VisitIf(*IfNode) error                                      { return nil }
func (BaseVisitor) VisitConditionalStatement(*ConditionalStatementNode) error  { return nil }
func (BaseVisitor) VisitForLoop(*ForLoopNode) error                            { return nil }
func (BaseVisitor) VisitReturn(*ReturnNode) error                              { return nil }
func (BaseVisitor) VisitConditionalReturn(*ConditionalReturnNode) error        { return nil }
func (BaseVisitor) VisitDeclaration(*DeclarationNode) error                    { return nil }
func (BaseVisitor) VisitDeclarationWithInit(*DeclarationWithInitNode) error    { return nil }
func (BaseVisitor) VisitMultiDeclaration(*MultiDeclarationNode) error          { return nil }
func (BaseVisitor) VisitMultiAssignment(*MultiAssignmentNode) error            { return nil }
func (BaseVisitor) VisitFunctionDef(*FunctionDefNode) error                    { return nil }
func (BaseVisitor) VisitFunctionBody(*FunctionBodyNode) error                  { return nil }
func (BaseVisitor) VisitStatement(*StatementNode) error                       { return nil }
func (BaseVisitor) VisitNoop(*NoopNode) error                                  { return nil }

// Inspect walks n and its descendants in depth-first order, calling f
// on each. It stops descending into a subtree as soon as f returns
// false for that subtree's root (mirrors the teacher's own
// cycle-aware tree walker, adapted since the IDL AST is a DAG-free
// tree so no visited-set is required).
func Inspect(n AstNode, f func(AstNode) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range n.Children() {
		Inspect(child, f)
	}
}

// WalkFunctionBody calls f on each top-level statement of body, in
// source order — the order the emitter (§5's ordering guarantee) and
// the prune pass (§4.5's FunctionBody rule) both rely on.
func WalkFunctionBody(body *FunctionBodyNode, f func(AstNode) error) error {
	for _, st := range body.Statements {
		if err := f(st); err != nil {
			return err
		}
	}
	return nil
}

// WalkIfChain calls onCond/onBody for the primary condition/branch,
// then each else-if in order, then the else branch if present.
func WalkIfChain(n *IfNode, onCond, onBody func(AstNode) error) error {
	if err := onCond(n.Cond); err != nil {
		return err
	}
	if err := onBody(n.Then); err != nil {
		return err
	}
	for _, ei := range n.ElseIfs {
		if err := onCond(ei.Cond); err != nil {
			return err
		}
		if err := onBody(ei.Body); err != nil {
			return err
		}
	}
	if n.Else != nil {
		return onBody(n.Else)
	}
	return nil
}
