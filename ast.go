package idl

import "fmt"

// AstNode is the common shape of every IDL syntax tree node (§3/§4.3).
// Value is the partial evaluator's entry point: it returns (nil,
// false) rather than an error when the node cannot be folded to a
// compile-time constant, mirroring Go's own comma-ok idiom instead of
// the exception-driven value-unknown channel §9 warns against.
type AstNode interface {
	Range() Range
	Children() []AstNode
	String() string
	Equal(AstNode) bool
	Accept(AstNodeVisitor) error
	Value(*Symtab) (Value, bool)
}

type nodeBase struct{ R Range }

func (n nodeBase) Range() Range { return n.R }

func compactChildren(nodes ...AstNode) []AstNode {
	out := make([]AstNode, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func nodesEqual(a, b AstNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func nodeSliceEqual(a, b []AstNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ---- Literals ----

type IntLiteralNode struct {
	nodeBase
	Text string
	Val  IntValue
}

func (n *IntLiteralNode) Children() []AstNode { return nil }
func (n *IntLiteralNode) String() string      { return n.Text }
func (n *IntLiteralNode) Equal(o AstNode) bool {
	other, ok := o.(*IntLiteralNode)
	return ok && n.Val.Equal(other.Val)
}
func (n *IntLiteralNode) Accept(v AstNodeVisitor) error { return v.VisitIntLiteral(n) }
func (n *IntLiteralNode) Value(*Symtab) (Value, bool)   { return n.Val, true }

type BoolLiteralNode struct {
	nodeBase
	Val bool
}

func (n *BoolLiteralNode) Children() []AstNode { return nil }
func (n *BoolLiteralNode) String() string {
	if n.Val {
		return "true"
	}
	return "false"
}
func (n *BoolLiteralNode) Equal(o AstNode) bool {
	other, ok := o.(*BoolLiteralNode)
	return ok && n.Val == other.Val
}
func (n *BoolLiteralNode) Accept(v AstNodeVisitor) error { return v.VisitBoolLiteral(n) }
func (n *BoolLiteralNode) Value(*Symtab) (Value, bool)   { return NewBoolValue(n.Val), true }

type StringLiteralNode struct {
	nodeBase
	Val string
}

func (n *StringLiteralNode) Children() []AstNode { return nil }
func (n *StringLiteralNode) String() string      { return fmt.Sprintf("%q", n.Val) }
func (n *StringLiteralNode) Equal(o AstNode) bool {
	other, ok := o.(*StringLiteralNode)
	return ok && n.Val == other.Val
}
func (n *StringLiteralNode) Accept(v AstNodeVisitor) error { return v.VisitStringLiteral(n) }
func (n *StringLiteralNode) Value(*Symtab) (Value, bool)   { return NewStringValue(n.Val), true }

// ---- Identifier ----

type IdentifierNode struct {
	nodeBase
	Name string
}

func (n *IdentifierNode) Children() []AstNode { return nil }
func (n *IdentifierNode) String() string      { return n.Name }
func (n *IdentifierNode) Equal(o AstNode) bool {
	other, ok := o.(*IdentifierNode)
	return ok && n.Name == other.Name
}
func (n *IdentifierNode) Accept(v AstNodeVisitor) error { return v.VisitIdentifier(n) }

func (n *IdentifierNode) Value(s *Symtab) (Value, bool) {
	va, ok := s.Lookup(n.Name)
	if !ok || va.Value == nil {
		return nil, false
	}
	if va.Qualifiers.Global && !va.Qualifiers.Const {
		return nil, false
	}
	return va.Value, true
}

// ---- Unary / Binary / Ternary / Paren ----

type UnaryExpressionNode struct {
	nodeBase
	Op      string
	Operand AstNode
}

func (n *UnaryExpressionNode) Children() []AstNode { return compactChildren(n.Operand) }
func (n *UnaryExpressionNode) String() string      { return fmt.Sprintf("(%s%s)", n.Op, n.Operand) }
func (n *UnaryExpressionNode) Equal(o AstNode) bool {
	other, ok := o.(*UnaryExpressionNode)
	return ok && n.Op == other.Op && nodesEqual(n.Operand, other.Operand)
}
func (n *UnaryExpressionNode) Accept(v AstNodeVisitor) error { return v.VisitUnaryExpression(n) }
func (n *UnaryExpressionNode) Value(s *Symtab) (Value, bool) { return evalUnary(n, s) }

type BinaryExpressionNode struct {
	nodeBase
	Op  string
	Lhs AstNode
	Rhs AstNode
}

func (n *BinaryExpressionNode) Children() []AstNode { return compactChildren(n.Lhs, n.Rhs) }
func (n *BinaryExpressionNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Lhs, n.Op, n.Rhs)
}
func (n *BinaryExpressionNode) Equal(o AstNode) bool {
	other, ok := o.(*BinaryExpressionNode)
	return ok && n.Op == other.Op && nodesEqual(n.Lhs, other.Lhs) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *BinaryExpressionNode) Accept(v AstNodeVisitor) error { return v.VisitBinaryExpression(n) }
func (n *BinaryExpressionNode) Value(s *Symtab) (Value, bool) { return evalBinary(n, s) }

// isWidening reports whether Op is one of the width-widening operator
// spellings (`+, `-, `*, `<<) from §4.3.
func (n *BinaryExpressionNode) isWidening() bool {
	switch n.Op {
	case "`+", "`-", "`*", "`<<":
		return true
	default:
		return false
	}
}

type TernaryNode struct {
	nodeBase
	Cond AstNode
	Then AstNode
	Else AstNode
}

func (n *TernaryNode) Children() []AstNode { return compactChildren(n.Cond, n.Then, n.Else) }
func (n *TernaryNode) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Cond, n.Then, n.Else)
}
func (n *TernaryNode) Equal(o AstNode) bool {
	other, ok := o.(*TernaryNode)
	return ok && nodesEqual(n.Cond, other.Cond) && nodesEqual(n.Then, other.Then) && nodesEqual(n.Else, other.Else)
}
func (n *TernaryNode) Accept(v AstNodeVisitor) error { return v.VisitTernary(n) }
func (n *TernaryNode) Value(s *Symtab) (Value, bool) {
	cond, ok := n.Cond.Value(s)
	if !ok {
		return nil, false
	}
	b, ok := cond.(BoolValue)
	if !ok {
		return nil, false
	}
	if b.Val {
		return n.Then.Value(s)
	}
	return n.Else.Value(s)
}

type ParenNode struct {
	nodeBase
	Inner AstNode
}

func (n *ParenNode) Children() []AstNode { return compactChildren(n.Inner) }
func (n *ParenNode) String() string      { return fmt.Sprintf("(%s)", n.Inner) }
func (n *ParenNode) Equal(o AstNode) bool {
	other, ok := o.(*ParenNode)
	return ok && nodesEqual(n.Inner, other.Inner)
}
func (n *ParenNode) Accept(v AstNodeVisitor) error { return v.VisitParen(n) }
func (n *ParenNode) Value(s *Symtab) (Value, bool) { return n.Inner.Value(s) }

// ---- Array access/assignment ----

type ArrayAccessNode struct {
	nodeBase
	Array AstNode
	Index AstNode
}

func (n *ArrayAccessNode) Children() []AstNode { return compactChildren(n.Array, n.Index) }
func (n *ArrayAccessNode) String() string      { return fmt.Sprintf("%s[%s]", n.Array, n.Index) }
func (n *ArrayAccessNode) Equal(o AstNode) bool {
	other, ok := o.(*ArrayAccessNode)
	return ok && nodesEqual(n.Array, other.Array) && nodesEqual(n.Index, other.Index)
}
func (n *ArrayAccessNode) Accept(v AstNodeVisitor) error { return v.VisitArrayAccess(n) }
func (n *ArrayAccessNode) Value(s *Symtab) (Value, bool) {
	arr, ok := n.Array.Value(s)
	if !ok {
		return nil, false
	}
	av, ok := arr.(ArrayValue)
	if !ok {
		return nil, false
	}
	idx, ok := n.Index.Value(s)
	if !ok {
		return nil, false
	}
	iv, ok := idx.(IntValue)
	if !ok || !iv.Val.IsInt64() {
		return nil, false
	}
	i := iv.Val.Int64()
	if i < 0 || int(i) >= len(av.Items) {
		return nil, false
	}
	return av.Items[i], true
}

type ArrayRangeAccessNode struct {
	nodeBase
	Array AstNode
	Msb   AstNode
	Lsb   AstNode
}

func (n *ArrayRangeAccessNode) Children() []AstNode {
	return compactChildren(n.Array, n.Msb, n.Lsb)
}
func (n *ArrayRangeAccessNode) String() string {
	return fmt.Sprintf("%s[%s:%s]", n.Array, n.Msb, n.Lsb)
}
func (n *ArrayRangeAccessNode) Equal(o AstNode) bool {
	other, ok := o.(*ArrayRangeAccessNode)
	return ok && nodesEqual(n.Array, other.Array) && nodesEqual(n.Msb, other.Msb) && nodesEqual(n.Lsb, other.Lsb)
}
func (n *ArrayRangeAccessNode) Accept(v AstNodeVisitor) error { return v.VisitArrayRangeAccess(n) }
func (n *ArrayRangeAccessNode) Value(s *Symtab) (Value, bool) { return evalRangeAccess(n, s) }

type ArrayAssignmentNode struct {
	nodeBase
	Array AstNode
	Index AstNode
	Rhs   AstNode
}

func (n *ArrayAssignmentNode) Children() []AstNode {
	return compactChildren(n.Array, n.Index, n.Rhs)
}
func (n *ArrayAssignmentNode) String() string {
	return fmt.Sprintf("%s[%s] = %s", n.Array, n.Index, n.Rhs)
}
func (n *ArrayAssignmentNode) Equal(o AstNode) bool {
	other, ok := o.(*ArrayAssignmentNode)
	return ok && nodesEqual(n.Array, other.Array) && nodesEqual(n.Index, other.Index) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *ArrayAssignmentNode) Accept(v AstNodeVisitor) error { return v.VisitArrayAssignment(n) }
func (n *ArrayAssignmentNode) Value(*Symtab) (Value, bool)   { return nil, false }

type ArrayRangeAssignmentNode struct {
	nodeBase
	Array AstNode
	Msb   AstNode
	Lsb   AstNode
	Rhs   AstNode
}

func (n *ArrayRangeAssignmentNode) Children() []AstNode {
	return compactChildren(n.Array, n.Msb, n.Lsb, n.Rhs)
}
func (n *ArrayRangeAssignmentNode) String() string {
	return fmt.Sprintf("%s[%s:%s] = %s", n.Array, n.Msb, n.Lsb, n.Rhs)
}
func (n *ArrayRangeAssignmentNode) Equal(o AstNode) bool {
	other, ok := o.(*ArrayRangeAssignmentNode)
	return ok && nodesEqual(n.Array, other.Array) && nodesEqual(n.Msb, other.Msb) &&
		nodesEqual(n.Lsb, other.Lsb) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *ArrayRangeAssignmentNode) Accept(v AstNodeVisitor) error {
	return v.VisitArrayRangeAssignment(n)
}
func (n *ArrayRangeAssignmentNode) Value(*Symtab) (Value, bool) { return nil, false }

// BoundsKnown reports whether both Msb and Lsb fold to known integers,
// the condition the emitter (§9 ambiguous-behavior note) uses to
// choose the templated bit_insert<msb,lsb> form over the runtime one.
func (n *ArrayRangeAssignmentNode) BoundsKnown(s *Symtab) (msb, lsb int64, ok bool) {
	mv, ok1 := n.Msb.Value(s)
	lv, ok2 := n.Lsb.Value(s)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	mi, ok1 := mv.(IntValue)
	li, ok2 := lv.(IntValue)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return mi.Val.Int64(), li.Val.Int64(), true
}

// ---- Field access/assignment ----

type FieldAccessNode struct {
	nodeBase
	Base  AstNode
	Field string
}

func (n *FieldAccessNode) Children() []AstNode { return compactChildren(n.Base) }
func (n *FieldAccessNode) String() string      { return fmt.Sprintf("%s.%s", n.Base, n.Field) }
func (n *FieldAccessNode) Equal(o AstNode) bool {
	other, ok := o.(*FieldAccessNode)
	return ok && n.Field == other.Field && nodesEqual(n.Base, other.Base)
}
func (n *FieldAccessNode) Accept(v AstNodeVisitor) error { return v.VisitFieldAccess(n) }
func (n *FieldAccessNode) Value(s *Symtab) (Value, bool) {
	base, ok := n.Base.Value(s)
	if !ok {
		return nil, false
	}
	sv, ok := base.(StructValue)
	if !ok {
		return nil, false
	}
	fv, ok := sv.Fields[n.Field]
	return fv, ok
}

type FieldAssignmentNode struct {
	nodeBase
	Base  AstNode
	Field string
	Rhs   AstNode
}

func (n *FieldAssignmentNode) Children() []AstNode { return compactChildren(n.Base, n.Rhs) }
func (n *FieldAssignmentNode) String() string {
	return fmt.Sprintf("%s.%s = %s", n.Base, n.Field, n.Rhs)
}
func (n *FieldAssignmentNode) Equal(o AstNode) bool {
	other, ok := o.(*FieldAssignmentNode)
	return ok && n.Field == other.Field && nodesEqual(n.Base, other.Base) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *FieldAssignmentNode) Accept(v AstNodeVisitor) error { return v.VisitFieldAssignment(n) }
func (n *FieldAssignmentNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Concatenation / Replication ----

type ConcatenationNode struct {
	nodeBase
	Parts []AstNode
}

func (n *ConcatenationNode) Children() []AstNode { return n.Parts }
func (n *ConcatenationNode) String() string {
	s := "{"
	for i, p := range n.Parts {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + "}"
}
func (n *ConcatenationNode) Equal(o AstNode) bool {
	other, ok := o.(*ConcatenationNode)
	return ok && nodeSliceEqual(n.Parts, other.Parts)
}
func (n *ConcatenationNode) Accept(v AstNodeVisitor) error { return v.VisitConcatenation(n) }
func (n *ConcatenationNode) Value(s *Symtab) (Value, bool) { return evalConcatenation(n, s) }

type ReplicationNode struct {
	nodeBase
	Value_ AstNode
	Count  AstNode
}

func (n *ReplicationNode) Children() []AstNode { return compactChildren(n.Value_, n.Count) }
func (n *ReplicationNode) String() string      { return fmt.Sprintf("{%s{%s}}", n.Count, n.Value_) }
func (n *ReplicationNode) Equal(o AstNode) bool {
	other, ok := o.(*ReplicationNode)
	return ok && nodesEqual(n.Value_, other.Value_) && nodesEqual(n.Count, other.Count)
}
func (n *ReplicationNode) Accept(v AstNodeVisitor) error { return v.VisitReplication(n) }
func (n *ReplicationNode) Value(s *Symtab) (Value, bool) { return evalReplication(n, s) }

// ---- Casts ----

type BitCastNode struct {
	nodeBase
	Width  int
	Signed bool
	Inner  AstNode
}

func (n *BitCastNode) Children() []AstNode { return compactChildren(n.Inner) }
func (n *BitCastNode) String() string {
	return fmt.Sprintf("$bits(%s, %s)", n.Inner, BitsType{Width: n.Width})
}
func (n *BitCastNode) Equal(o AstNode) bool {
	other, ok := o.(*BitCastNode)
	return ok && n.Width == other.Width && n.Signed == other.Signed && nodesEqual(n.Inner, other.Inner)
}
func (n *BitCastNode) Accept(v AstNodeVisitor) error { return v.VisitBitCast(n) }
func (n *BitCastNode) Value(s *Symtab) (Value, bool) {
	inner, ok := n.Inner.Value(s)
	if !ok {
		return nil, false
	}
	iv, ok := inner.(IntValue)
	if !ok {
		return nil, false
	}
	return IntValue{Val: iv.Val, Width: n.Width, Signed: n.Signed}.Mask(), true
}

type SignCastNode struct {
	nodeBase
	Signed bool
	Inner  AstNode
}

func (n *SignCastNode) Children() []AstNode { return compactChildren(n.Inner) }
func (n *SignCastNode) String() string {
	if n.Signed {
		return fmt.Sprintf("$signed(%s)", n.Inner)
	}
	return fmt.Sprintf("$unsigned(%s)", n.Inner)
}
func (n *SignCastNode) Equal(o AstNode) bool {
	other, ok := o.(*SignCastNode)
	return ok && n.Signed == other.Signed && nodesEqual(n.Inner, other.Inner)
}
func (n *SignCastNode) Accept(v AstNodeVisitor) error { return v.VisitSignCast(n) }
func (n *SignCastNode) Value(s *Symtab) (Value, bool) {
	inner, ok := n.Inner.Value(s)
	if !ok {
		return nil, false
	}
	iv, ok := inner.(IntValue)
	if !ok {
		return nil, false
	}
	return IntValue{Val: iv.Val, Width: iv.Width, Signed: n.Signed}.Mask(), true
}

type EnumCastNode struct {
	nodeBase
	EnumName string
	Inner    AstNode
}

func (n *EnumCastNode) Children() []AstNode { return compactChildren(n.Inner) }

// String renders EnumName{expr}; §9 flags a spurious extra ")" in one
// source revision of this rule, corrected here.
func (n *EnumCastNode) String() string { return fmt.Sprintf("%s{%s}", n.EnumName, n.Inner) }
func (n *EnumCastNode) Equal(o AstNode) bool {
	other, ok := o.(*EnumCastNode)
	return ok && n.EnumName == other.EnumName && nodesEqual(n.Inner, other.Inner)
}
func (n *EnumCastNode) Accept(v AstNodeVisitor) error { return v.VisitEnumCast(n) }
func (n *EnumCastNode) Value(s *Symtab) (Value, bool) {
	inner, ok := n.Inner.Value(s)
	if !ok {
		return nil, false
	}
	iv, ok := inner.(IntValue)
	if !ok {
		return nil, false
	}
	et, ok := lookupEnumType(s, n.EnumName)
	if !ok {
		return nil, false
	}
	for _, name := range et.Order {
		if et.Values[name] == iv.Val.Int64() {
			return NewEnumValue(n.EnumName, name, iv.Val.Int64()), true
		}
	}
	return nil, false
}

// lookupEnumType resolves an enum type by name through the symtab
// binding "enum <name>", found by Lookup like any other name.
// EnumCastNode.Value is its only caller.
func lookupEnumType(s *Symtab, name string) (*EnumType, bool) {
	va, ok := s.Lookup("enum " + name)
	if !ok {
		return nil, false
	}
	et, ok := va.Type.(*EnumType)
	return et, ok
}

// ---- Function call ----

type FunctionCallNode struct {
	nodeBase
	Name         string
	TemplateArgs []AstNode
	Args         []AstNode
}

func (n *FunctionCallNode) Children() []AstNode {
	out := make([]AstNode, 0, len(n.TemplateArgs)+len(n.Args))
	out = append(out, n.TemplateArgs...)
	out = append(out, n.Args...)
	return out
}
func (n *FunctionCallNode) String() string {
	s := n.Name
	if len(n.TemplateArgs) > 0 {
		s += "<" + joinNodes(n.TemplateArgs) + ">"
	}
	return s + "(" + joinNodes(n.Args) + ")"
}
func (n *FunctionCallNode) Equal(o AstNode) bool {
	other, ok := o.(*FunctionCallNode)
	return ok && n.Name == other.Name && nodeSliceEqual(n.TemplateArgs, other.TemplateArgs) && nodeSliceEqual(n.Args, other.Args)
}
func (n *FunctionCallNode) Accept(v AstNodeVisitor) error { return v.VisitFunctionCall(n) }
func (n *FunctionCallNode) Value(s *Symtab) (Value, bool) { return evalFunctionCall(n, s) }

func joinNodes(nodes []AstNode) string {
	s := ""
	for i, n := range nodes {
		if i > 0 {
			s += ", "
		}
		s += n.String()
	}
	return s
}

// ---- CSR operations ----

type CsrReadNode struct {
	nodeBase
	CsrName string
	CsrExpr AstNode // non-nil when the CSR is selected dynamically by address expression
}

func (n *CsrReadNode) Children() []AstNode { return compactChildren(n.CsrExpr) }
func (n *CsrReadNode) String() string {
	if n.CsrExpr != nil {
		return fmt.Sprintf("CSR[%s]", n.CsrExpr)
	}
	return fmt.Sprintf("CSR[%s]", n.CsrName)
}
func (n *CsrReadNode) Equal(o AstNode) bool {
	other, ok := o.(*CsrReadNode)
	return ok && n.CsrName == other.CsrName && nodesEqual(n.CsrExpr, other.CsrExpr)
}
func (n *CsrReadNode) Accept(v AstNodeVisitor) error { return v.VisitCsrRead(n) }
func (n *CsrReadNode) Value(*Symtab) (Value, bool)   { return nil, false }

type CsrWriteNode struct {
	nodeBase
	CsrName string
	CsrExpr AstNode
	Rhs     AstNode
}

func (n *CsrWriteNode) Children() []AstNode { return compactChildren(n.CsrExpr, n.Rhs) }
func (n *CsrWriteNode) String() string {
	if n.CsrExpr != nil {
		return fmt.Sprintf("CSR[%s] = %s", n.CsrExpr, n.Rhs)
	}
	return fmt.Sprintf("CSR[%s] = %s", n.CsrName, n.Rhs)
}
func (n *CsrWriteNode) Equal(o AstNode) bool {
	other, ok := o.(*CsrWriteNode)
	return ok && n.CsrName == other.CsrName && nodesEqual(n.CsrExpr, other.CsrExpr) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *CsrWriteNode) Accept(v AstNodeVisitor) error { return v.VisitCsrWrite(n) }
func (n *CsrWriteNode) Value(*Symtab) (Value, bool)   { return nil, false }

type CsrFunctionCallNode struct {
	nodeBase
	CsrName string
	Func    string // e.g. "address", "sw_read", "sw_write"
	Args    []AstNode
}

func (n *CsrFunctionCallNode) Children() []AstNode { return n.Args }
func (n *CsrFunctionCallNode) String() string {
	return fmt.Sprintf("CSR[%s].%s(%s)", n.CsrName, n.Func, joinNodes(n.Args))
}
func (n *CsrFunctionCallNode) Equal(o AstNode) bool {
	other, ok := o.(*CsrFunctionCallNode)
	return ok && n.CsrName == other.CsrName && n.Func == other.Func && nodeSliceEqual(n.Args, other.Args)
}
func (n *CsrFunctionCallNode) Accept(v AstNodeVisitor) error { return v.VisitCsrFunctionCall(n) }

// Value never folds a CSR function call. "address" is the one
// CsrFunctionCall the constexpr? predicate (§4.4) treats as constexpr
// regardless of arguments, but CsrDescriptor carries no address, so
// its value stays unknown here too.
func (n *CsrFunctionCallNode) Value(s *Symtab) (Value, bool) {
	if n.Func != "address" || s.cfg == nil {
		return nil, false
	}
	csr, ok := s.cfg.Csr(n.CsrName)
	if !ok {
		return nil, false
	}
	_ = csr
	return nil, false
}

type CsrFieldReadNode struct {
	nodeBase
	CsrName string
	Field   string
}

func (n *CsrFieldReadNode) Children() []AstNode { return nil }
func (n *CsrFieldReadNode) String() string      { return fmt.Sprintf("CSR[%s].%s", n.CsrName, n.Field) }
func (n *CsrFieldReadNode) Equal(o AstNode) bool {
	other, ok := o.(*CsrFieldReadNode)
	return ok && n.CsrName == other.CsrName && n.Field == other.Field
}
func (n *CsrFieldReadNode) Accept(v AstNodeVisitor) error { return v.VisitCsrFieldRead(n) }
func (n *CsrFieldReadNode) Value(*Symtab) (Value, bool)   { return nil, false }

type CsrFieldWriteNode struct {
	nodeBase
	CsrName string
	Field   string
	Rhs     AstNode
}

func (n *CsrFieldWriteNode) Children() []AstNode { return compactChildren(n.Rhs) }
func (n *CsrFieldWriteNode) String() string {
	return fmt.Sprintf("CSR[%s].%s = %s", n.CsrName, n.Field, n.Rhs)
}
func (n *CsrFieldWriteNode) Equal(o AstNode) bool {
	other, ok := o.(*CsrFieldWriteNode)
	return ok && n.CsrName == other.CsrName && n.Field == other.Field && nodesEqual(n.Rhs, other.Rhs)
}
func (n *CsrFieldWriteNode) Accept(v AstNodeVisitor) error { return v.VisitCsrFieldWrite(n) }
func (n *CsrFieldWriteNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- PC assignment ----

type PcAssignmentNode struct {
	nodeBase
	Rhs AstNode
}

func (n *PcAssignmentNode) Children() []AstNode { return compactChildren(n.Rhs) }
func (n *PcAssignmentNode) String() string      { return fmt.Sprintf("$pc = %s", n.Rhs) }
func (n *PcAssignmentNode) Equal(o AstNode) bool {
	other, ok := o.(*PcAssignmentNode)
	return ok && nodesEqual(n.Rhs, other.Rhs)
}
func (n *PcAssignmentNode) Accept(v AstNodeVisitor) error { return v.VisitPcAssignment(n) }
func (n *PcAssignmentNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Builtin variables / register file ----

type BuiltinVariableNode struct {
	nodeBase
	Name string // "$encoding" or "$pc"
}

func (n *BuiltinVariableNode) Children() []AstNode { return nil }
func (n *BuiltinVariableNode) String() string      { return n.Name }
func (n *BuiltinVariableNode) Equal(o AstNode) bool {
	other, ok := o.(*BuiltinVariableNode)
	return ok && n.Name == other.Name
}
func (n *BuiltinVariableNode) Accept(v AstNodeVisitor) error { return v.VisitBuiltinVariable(n) }
func (n *BuiltinVariableNode) Value(*Symtab) (Value, bool)   { return nil, false }

type RegisterAccessNode struct {
	nodeBase
	Index AstNode
}

func (n *RegisterAccessNode) Children() []AstNode { return compactChildren(n.Index) }
func (n *RegisterAccessNode) String() string      { return fmt.Sprintf("X[%s]", n.Index) }
func (n *RegisterAccessNode) Equal(o AstNode) bool {
	other, ok := o.(*RegisterAccessNode)
	return ok && nodesEqual(n.Index, other.Index)
}
func (n *RegisterAccessNode) Accept(v AstNodeVisitor) error { return v.VisitRegisterAccess(n) }
func (n *RegisterAccessNode) Value(*Symtab) (Value, bool)   { return nil, false }

type RegisterAssignmentNode struct {
	nodeBase
	Index AstNode
	Rhs   AstNode
}

func (n *RegisterAssignmentNode) Children() []AstNode { return compactChildren(n.Index, n.Rhs) }
func (n *RegisterAssignmentNode) String() string {
	return fmt.Sprintf("X[%s] = %s", n.Index, n.Rhs)
}
func (n *RegisterAssignmentNode) Equal(o AstNode) bool {
	other, ok := o.(*RegisterAssignmentNode)
	return ok && nodesEqual(n.Index, other.Index) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *RegisterAssignmentNode) Accept(v AstNodeVisitor) error { return v.VisitRegisterAssignment(n) }
func (n *RegisterAssignmentNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Control flow ----

type ElseIf struct {
	Cond AstNode
	Body AstNode
}

type IfNode struct {
	nodeBase
	Cond    AstNode
	Then    AstNode
	ElseIfs []ElseIf
	Else    AstNode // nil if no else clause
}

func (n *IfNode) Children() []AstNode {
	out := compactChildren(n.Cond, n.Then)
	for _, ei := range n.ElseIfs {
		out = append(out, compactChildren(ei.Cond, ei.Body)...)
	}
	return append(out, compactChildren(n.Else)...)
}
func (n *IfNode) String() string {
	s := fmt.Sprintf("if (%s) { %s }", n.Cond, n.Then)
	for _, ei := range n.ElseIfs {
		s += fmt.Sprintf(" else if (%s) { %s }", ei.Cond, ei.Body)
	}
	if n.Else != nil {
		s += fmt.Sprintf(" else { %s }", n.Else)
	}
	return s
}
func (n *IfNode) Equal(o AstNode) bool {
	other, ok := o.(*IfNode)
	if !ok || len(n.ElseIfs) != len(other.ElseIfs) {
		return false
	}
	for i, ei := range n.ElseIfs {
		oei := other.ElseIfs[i]
		if !nodesEqual(ei.Cond, oei.Cond) || !nodesEqual(ei.Body, oei.Body) {
			return false
		}
	}
	return nodesEqual(n.Cond, other.Cond) && nodesEqual(n.Then, other.Then) && nodesEqual(n.Else, other.Else)
}
func (n *IfNode) Accept(v AstNodeVisitor) error { return v.VisitIf(n) }
func (n *IfNode) Value(*Symtab) (Value, bool)   { return nil, false }

type ConditionalStatementNode struct {
	nodeBase
	Cond AstNode
	Body AstNode
}

func (n *ConditionalStatementNode) Children() []AstNode { return compactChildren(n.Cond, n.Body) }
func (n *ConditionalStatementNode) String() string {
	return fmt.Sprintf("%s if (%s)", n.Body, n.Cond)
}
func (n *ConditionalStatementNode) Equal(o AstNode) bool {
	other, ok := o.(*ConditionalStatementNode)
	return ok && nodesEqual(n.Cond, other.Cond) && nodesEqual(n.Body, other.Body)
}
func (n *ConditionalStatementNode) Accept(v AstNodeVisitor) error {
	return v.VisitConditionalStatement(n)
}
func (n *ConditionalStatementNode) Value(*Symtab) (Value, bool) { return nil, false }

type ForLoopNode struct {
	nodeBase
	Init   AstNode
	Cond   AstNode
	Update AstNode
	Body   AstNode
}

func (n *ForLoopNode) Children() []AstNode {
	return compactChildren(n.Init, n.Cond, n.Update, n.Body)
}
func (n *ForLoopNode) String() string {
	return fmt.Sprintf("for (%s; %s; %s) { %s }", n.Init, n.Cond, n.Update, n.Body)
}
func (n *ForLoopNode) Equal(o AstNode) bool {
	other, ok := o.(*ForLoopNode)
	return ok && nodesEqual(n.Init, other.Init) && nodesEqual(n.Cond, other.Cond) &&
		nodesEqual(n.Update, other.Update) && nodesEqual(n.Body, other.Body)
}
func (n *ForLoopNode) Accept(v AstNodeVisitor) error { return v.VisitForLoop(n) }
func (n *ForLoopNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Return ----

type ReturnNode struct {
	nodeBase
	Values []AstNode
}

func (n *ReturnNode) Children() []AstNode { return n.Values }
func (n *ReturnNode) String() string      { return "return " + joinNodes(n.Values) }
func (n *ReturnNode) Equal(o AstNode) bool {
	other, ok := o.(*ReturnNode)
	return ok && nodeSliceEqual(n.Values, other.Values)
}
func (n *ReturnNode) Accept(v AstNodeVisitor) error { return v.VisitReturn(n) }
func (n *ReturnNode) Value(*Symtab) (Value, bool)   { return nil, false }

type ConditionalReturnNode struct {
	nodeBase
	Cond   AstNode
	Values []AstNode
}

func (n *ConditionalReturnNode) Children() []AstNode {
	return append(compactChildren(n.Cond), n.Values...)
}
func (n *ConditionalReturnNode) String() string {
	return fmt.Sprintf("return %s if (%s)", joinNodes(n.Values), n.Cond)
}
func (n *ConditionalReturnNode) Equal(o AstNode) bool {
	other, ok := o.(*ConditionalReturnNode)
	return ok && nodesEqual(n.Cond, other.Cond) && nodeSliceEqual(n.Values, other.Values)
}
func (n *ConditionalReturnNode) Accept(v AstNodeVisitor) error { return v.VisitConditionalReturn(n) }
func (n *ConditionalReturnNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Declarations ----

type DeclarationNode struct {
	nodeBase
	Name string
	Type Type
}

func (n *DeclarationNode) Children() []AstNode { return nil }
func (n *DeclarationNode) String() string      { return fmt.Sprintf("%s %s", n.Type, n.Name) }
func (n *DeclarationNode) Equal(o AstNode) bool {
	other, ok := o.(*DeclarationNode)
	return ok && n.Name == other.Name && n.Type.Equal(other.Type)
}
func (n *DeclarationNode) Accept(v AstNodeVisitor) error { return v.VisitDeclaration(n) }
func (n *DeclarationNode) Value(*Symtab) (Value, bool)   { return nil, false }

// AddSymbol binds the declared name to its type's default value, per
// §4.3's add_symbol(symtab) contract for Declaration variants.
func (n *DeclarationNode) AddSymbol(s *Symtab) error {
	val, _ := n.Type.Default()
	return s.Define(n.Name, n.Type, Qualifiers{}, val)
}

type DeclarationWithInitNode struct {
	nodeBase
	Name string
	Type Type
	Init AstNode
}

func (n *DeclarationWithInitNode) Children() []AstNode { return compactChildren(n.Init) }
func (n *DeclarationWithInitNode) String() string {
	return fmt.Sprintf("%s %s = %s", n.Type, n.Name, n.Init)
}
func (n *DeclarationWithInitNode) Equal(o AstNode) bool {
	other, ok := o.(*DeclarationWithInitNode)
	return ok && n.Name == other.Name && n.Type.Equal(other.Type) && nodesEqual(n.Init, other.Init)
}
func (n *DeclarationWithInitNode) Accept(v AstNodeVisitor) error {
	return v.VisitDeclarationWithInit(n)
}
func (n *DeclarationWithInitNode) Value(*Symtab) (Value, bool) { return nil, false }

func (n *DeclarationWithInitNode) AddSymbol(s *Symtab) error {
	val, _ := n.Init.Value(s)
	return s.Define(n.Name, n.Type, Qualifiers{}, val)
}

type MultiDeclarationNode struct {
	nodeBase
	Names []string
	Types []Type
}

func (n *MultiDeclarationNode) Children() []AstNode { return nil }
func (n *MultiDeclarationNode) String() string {
	s := ""
	for i, name := range n.Names {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s %s", n.Types[i], name)
	}
	return s
}
func (n *MultiDeclarationNode) Equal(o AstNode) bool {
	other, ok := o.(*MultiDeclarationNode)
	if !ok || len(n.Names) != len(other.Names) {
		return false
	}
	for i := range n.Names {
		if n.Names[i] != other.Names[i] || !n.Types[i].Equal(other.Types[i]) {
			return false
		}
	}
	return true
}
func (n *MultiDeclarationNode) Accept(v AstNodeVisitor) error { return v.VisitMultiDeclaration(n) }
func (n *MultiDeclarationNode) Value(*Symtab) (Value, bool)   { return nil, false }

func (n *MultiDeclarationNode) AddSymbol(s *Symtab) error {
	for i, name := range n.Names {
		val, _ := n.Types[i].Default()
		if err := s.Define(name, n.Types[i], Qualifiers{}, val); err != nil {
			return err
		}
	}
	return nil
}

type MultiAssignmentNode struct {
	nodeBase
	Targets []AstNode
	Rhs     AstNode
}

func (n *MultiAssignmentNode) Children() []AstNode { return append(n.Targets, n.Rhs) }
func (n *MultiAssignmentNode) String() string {
	return joinNodes(n.Targets) + " = " + n.Rhs.String()
}
func (n *MultiAssignmentNode) Equal(o AstNode) bool {
	other, ok := o.(*MultiAssignmentNode)
	return ok && nodeSliceEqual(n.Targets, other.Targets) && nodesEqual(n.Rhs, other.Rhs)
}
func (n *MultiAssignmentNode) Accept(v AstNodeVisitor) error { return v.VisitMultiAssignment(n) }
func (n *MultiAssignmentNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Function def / body ----

type TemplateParam struct {
	Name string
}

type Param struct {
	Name string
	Type Type
}

type FunctionDefNode struct {
	nodeBase
	Name       string
	Templates  []TemplateParam
	Params     []Param
	ReturnType Type // VoidType{} when the function has no return value
	Body       *FunctionBodyNode
	Builtin    bool
}

func (n *FunctionDefNode) Children() []AstNode { return compactChildren(n.Body) }
func (n *FunctionDefNode) String() string {
	s := n.Name
	if len(n.Templates) > 0 {
		s += "<...>"
	}
	return s + "(...)"
}
func (n *FunctionDefNode) Equal(o AstNode) bool {
	other, ok := o.(*FunctionDefNode)
	return ok && n.Name == other.Name
}
func (n *FunctionDefNode) Accept(v AstNodeVisitor) error { return v.VisitFunctionDef(n) }
func (n *FunctionDefNode) Value(*Symtab) (Value, bool)   { return nil, false }

// IsRaise reports whether this is one of the builtin raise* functions
// the §4.4 control-flow and exception-mask rules give special
// treatment.
func (n *FunctionDefNode) IsRaise() bool {
	return n.Builtin && len(n.Name) >= 5 && n.Name[:5] == "raise"
}

type FunctionBodyNode struct {
	nodeBase
	Statements []AstNode
}

func (n *FunctionBodyNode) Children() []AstNode { return n.Statements }
func (n *FunctionBodyNode) String() string {
	s := ""
	for _, st := range n.Statements {
		s += st.String() + "; "
	}
	return s
}
func (n *FunctionBodyNode) Equal(o AstNode) bool {
	other, ok := o.(*FunctionBodyNode)
	return ok && nodeSliceEqual(n.Statements, other.Statements)
}
func (n *FunctionBodyNode) Accept(v AstNodeVisitor) error { return v.VisitFunctionBody(n) }
func (n *FunctionBodyNode) Value(*Symtab) (Value, bool)   { return nil, false }

// ---- Statement wrapper / no-op ----

type StatementNode struct {
	nodeBase
	Inner AstNode
}

func (n *StatementNode) Children() []AstNode { return compactChildren(n.Inner) }
func (n *StatementNode) String() string      { return n.Inner.String() }
func (n *StatementNode) Equal(o AstNode) bool {
	other, ok := o.(*StatementNode)
	return ok && nodesEqual(n.Inner, other.Inner)
}
func (n *StatementNode) Accept(v AstNodeVisitor) error { return v.VisitStatement(n) }
func (n *StatementNode) Value(s *Symtab) (Value, bool) { return n.Inner.Value(s) }

type NoopNode struct{ nodeBase }

func (n *NoopNode) Children() []AstNode          { return nil }
func (n *NoopNode) String() string               { return ";" }
func (n *NoopNode) Equal(o AstNode) bool          { _, ok := o.(*NoopNode); return ok }
func (n *NoopNode) Accept(v AstNodeVisitor) error { return v.VisitNoop(n) }
func (n *NoopNode) Value(*Symtab) (Value, bool)   { return nil, false }
