package idl

import "math/big"

// evalUnary implements the unary half of value(symtab) (§4.3):
// arithmetic negation, bitwise complement, and boolean not.
func evalUnary(n *UnaryExpressionNode, s *Symtab) (Value, bool) {
	operand, ok := n.Operand.Value(s)
	if !ok {
		return nil, false
	}
	switch n.Op {
	case "!":
		b, ok := operand.(BoolValue)
		if !ok {
			return nil, false
		}
		return NewBoolValue(!b.Val), true
	case "-":
		iv, ok := operand.(IntValue)
		if !ok {
			return nil, false
		}
		return IntValue{Val: new(big.Int).Neg(iv.Val), Width: iv.Width, Signed: true}.Mask(), true
	case "~":
		iv, ok := operand.(IntValue)
		if !ok {
			return nil, false
		}
		return IntValue{Val: new(big.Int).Not(iv.Val), Width: iv.Width, Signed: iv.Signed}.Mask(), true
	default:
		return nil, false
	}
}

// evalBinary implements the binary half of value(symtab), including
// short-circuit boolean identities (§8 property 3) and the widening
// operator family (§4.3).
func evalBinary(n *BinaryExpressionNode, s *Symtab) (Value, bool) {
	switch n.Op {
	case "&&":
		if lhs, ok := n.Lhs.Value(s); ok {
			if b, ok := lhs.(BoolValue); ok && !b.Val {
				return NewBoolValue(false), true
			}
		}
		if rhs, ok := n.Rhs.Value(s); ok {
			if b, ok := rhs.(BoolValue); ok && !b.Val {
				return NewBoolValue(false), true
			}
		}
		lhs, ok1 := n.Lhs.Value(s)
		rhs, ok2 := n.Rhs.Value(s)
		if !ok1 || !ok2 {
			return nil, false
		}
		lb, ok1 := lhs.(BoolValue)
		rb, ok2 := rhs.(BoolValue)
		if !ok1 || !ok2 {
			return nil, false
		}
		return NewBoolValue(lb.Val && rb.Val), true

	case "||":
		if lhs, ok := n.Lhs.Value(s); ok {
			if b, ok := lhs.(BoolValue); ok && b.Val {
				return NewBoolValue(true), true
			}
		}
		if rhs, ok := n.Rhs.Value(s); ok {
			if b, ok := rhs.(BoolValue); ok && b.Val {
				return NewBoolValue(true), true
			}
		}
		lhs, ok1 := n.Lhs.Value(s)
		rhs, ok2 := n.Rhs.Value(s)
		if !ok1 || !ok2 {
			return nil, false
		}
		lb, ok1 := lhs.(BoolValue)
		rb, ok2 := rhs.(BoolValue)
		if !ok1 || !ok2 {
			return nil, false
		}
		return NewBoolValue(lb.Val || rb.Val), true

	case "&":
		if v, ok := bitwiseIdentity(n, s, 0, false); ok {
			return v, true
		}
	case "|":
		if v, ok := bitwiseIdentity(n, s, 0, true); ok {
			return v, true
		}
	}

	lhs, ok1 := n.Lhs.Value(s)
	rhs, ok2 := n.Rhs.Value(s)
	if !ok1 || !ok2 {
		return nil, false
	}

	switch n.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return evalComparison(n.Op, lhs, rhs)
	}

	li, ok1 := lhs.(IntValue)
	ri, ok2 := rhs.(IntValue)
	if !ok1 || !ok2 {
		return nil, false
	}
	return evalIntBinary(n.Op, li, ri, n.isWidening())
}

// bitwiseIdentity applies the §4.5 prune-pass & / | identities
// (known-zero/known-all-ones collapses) as value-level folds too,
// since partial evaluation and pruning share the same arithmetic: for
// |, a known all-true operand short circuits true.
func bitwiseIdentity(n *BinaryExpressionNode, s *Symtab, identity int64, isOr bool) (Value, bool) {
	lhs, lok := n.Lhs.Value(s)
	rhs, rok := n.Rhs.Value(s)
	if !lok && !rok {
		return nil, false
	}
	if lok {
		if li, ok := lhs.(IntValue); ok {
			if collapsed, done := collapseOperand(li, isOr); done {
				return collapsed, true
			}
		}
	}
	if rok {
		if ri, ok := rhs.(IntValue); ok {
			if collapsed, done := collapseOperand(ri, isOr); done {
				return collapsed, true
			}
		}
	}
	if lok && rok {
		li, ok1 := lhs.(IntValue)
		ri, ok2 := rhs.(IntValue)
		if ok1 && ok2 {
			op := "&"
			if isOr {
				op = "|"
			}
			v, ok := evalIntBinary(op, li, ri, false)
			return v, ok
		}
	}
	return nil, false
}

func collapseOperand(v IntValue, isOr bool) (Value, bool) {
	if !isOr && v.Val.Sign() == 0 {
		return NewIntValue(0, v.Width, false), true
	}
	if isOr && v.Width != UnknownWidth {
		allOnes := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(v.Width)), big.NewInt(1))
		if v.Val.Cmp(allOnes) == 0 {
			return IntValue{Val: allOnes, Width: v.Width}, true
		}
	}
	return nil, false
}

func evalComparison(op string, lhs, rhs Value) (Value, bool) {
	switch l := lhs.(type) {
	case IntValue:
		r, ok := rhs.(IntValue)
		if !ok {
			return nil, false
		}
		cmp := l.Val.Cmp(r.Val)
		return NewBoolValue(cmpMatches(op, cmp)), true
	case BoolValue:
		r, ok := rhs.(BoolValue)
		if !ok {
			return nil, false
		}
		switch op {
		case "==":
			return NewBoolValue(l.Val == r.Val), true
		case "!=":
			return NewBoolValue(l.Val != r.Val), true
		}
		return nil, false
	case EnumValue:
		r, ok := rhs.(EnumValue)
		if !ok {
			return nil, false
		}
		switch op {
		case "==":
			return NewBoolValue(l.Equal(r)), true
		case "!=":
			return NewBoolValue(!l.Equal(r)), true
		}
	}
	return nil, false
}

func cmpMatches(op string, cmp int) bool {
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

// evalIntBinary folds the arithmetic/bitwise/shift operators over
// Bits-typed operands. widening selects the `+/`-/`*/`<< family,
// which (§4.3) widen the result by one bit beyond the wider operand
// instead of wrapping.
func evalIntBinary(op string, l, r IntValue, widening bool) (Value, bool) {
	resultWidth := l.Width
	if r.Width > resultWidth {
		resultWidth = r.Width
	}
	signed := l.Signed && r.Signed
	if widening && resultWidth != UnknownWidth {
		resultWidth++
	}

	var result *big.Int
	switch stripBacktick(op) {
	case "+":
		result = new(big.Int).Add(l.Val, r.Val)
	case "-":
		result = new(big.Int).Sub(l.Val, r.Val)
	case "*":
		result = new(big.Int).Mul(l.Val, r.Val)
	case "/":
		if r.Val.Sign() == 0 {
			return nil, false
		}
		result = new(big.Int).Quo(l.Val, r.Val)
	case "%":
		if r.Val.Sign() == 0 {
			return nil, false
		}
		result = new(big.Int).Rem(l.Val, r.Val)
	case "&":
		result = new(big.Int).And(l.Val, r.Val)
	case "|":
		result = new(big.Int).Or(l.Val, r.Val)
	case "^":
		result = new(big.Int).Xor(l.Val, r.Val)
	case "<<":
		if !r.Val.IsInt64() || r.Val.Sign() < 0 {
			return nil, false
		}
		result = new(big.Int).Lsh(l.Val, uint(r.Val.Int64()))
	case ">>":
		if !r.Val.IsInt64() || r.Val.Sign() < 0 {
			return nil, false
		}
		result = new(big.Int).Rsh(l.Val, uint(r.Val.Int64()))
	default:
		return nil, false
	}

	return IntValue{Val: result, Width: resultWidth, Signed: signed}.Mask(), true
}

func stripBacktick(op string) string {
	if len(op) > 0 && op[0] == '`' {
		return op[1:]
	}
	return op
}

// evalRangeAccess folds a[msb:lsb] when a, msb, and lsb are all known.
func evalRangeAccess(n *ArrayRangeAccessNode, s *Symtab) (Value, bool) {
	av, ok := n.Array.Value(s)
	if !ok {
		return nil, false
	}
	iv, ok := av.(IntValue)
	if !ok {
		return nil, false
	}
	msbV, ok1 := n.Msb.Value(s)
	lsbV, ok2 := n.Lsb.Value(s)
	if !ok1 || !ok2 {
		return nil, false
	}
	msb, ok1 := msbV.(IntValue)
	lsb, ok2 := lsbV.(IntValue)
	if !ok1 || !ok2 || !msb.Val.IsInt64() || !lsb.Val.IsInt64() {
		return nil, false
	}
	hi, lo := msb.Val.Int64(), lsb.Val.Int64()
	if hi < lo {
		return nil, false
	}
	width := int(hi - lo + 1)
	shifted := new(big.Int).Rsh(iv.Val, uint(lo))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	return IntValue{Val: shifted.And(shifted, mask), Width: width}, true
}

// evalConcatenation folds {a, b, c} by MSB-first packing when every
// part is a known Bits value with a concrete width.
func evalConcatenation(n *ConcatenationNode, s *Symtab) (Value, bool) {
	result := big.NewInt(0)
	totalWidth := 0
	for _, part := range n.Parts {
		pv, ok := part.Value(s)
		if !ok {
			return nil, false
		}
		iv, ok := pv.(IntValue)
		if !ok || iv.Width == UnknownWidth {
			return nil, false
		}
		result.Lsh(result, uint(iv.Width))
		result.Or(result, iv.Val)
		totalWidth += iv.Width
	}
	return IntValue{Val: result, Width: totalWidth}, true
}

// evalReplication folds {count{value}} when both value and count are
// known and count is non-negative.
func evalReplication(n *ReplicationNode, s *Symtab) (Value, bool) {
	valV, ok := n.Value_.Value(s)
	if !ok {
		return nil, false
	}
	iv, ok := valV.(IntValue)
	if !ok || iv.Width == UnknownWidth {
		return nil, false
	}
	countV, ok := n.Count.Value(s)
	if !ok {
		return nil, false
	}
	cv, ok := countV.(IntValue)
	if !ok || !cv.Val.IsInt64() || cv.Val.Sign() < 0 {
		return nil, false
	}
	count := cv.Val.Int64()
	result := big.NewInt(0)
	for i := int64(0); i < count; i++ {
		result.Lsh(result, uint(iv.Width))
		result.Or(result, iv.Val)
	}
	return IntValue{Val: result, Width: iv.Width * int(count)}, true
}

// evalFunctionCall folds a call when the callee is a non-builtin,
// side-effect-free function whose body reduces, via the standard
// sequential-statement rule (§4.5 FunctionBody), to a single known
// return value; builtins and raise* are never folded here (the
// analysis layer treats them conservatively instead).
func evalFunctionCall(n *FunctionCallNode, s *Symtab) (Value, bool) {
	fn, ok := s.LookupFunction(n.Name)
	if !ok || fn.Builtin || fn.IsRaise() || fn.Body == nil {
		return nil, false
	}
	if len(n.Args) != len(fn.Params) {
		return nil, false
	}
	callSymtab := s.Child()
	for i, param := range fn.Params {
		argVal, ok := n.Args[i].Value(s)
		if !ok {
			return nil, false
		}
		if err := callSymtab.DefineConst(param.Name, param.Type, argVal); err != nil {
			return nil, false
		}
	}
	return evalFunctionBody(fn.Body, callSymtab)
}

// evalFunctionBody runs the sequential-statement rule used by both
// the partial evaluator (for single-return constant functions) and
// the prune pass: walk statements in order, stop at the first Return.
func evalFunctionBody(body *FunctionBodyNode, s *Symtab) (Value, bool) {
	for _, st := range body.Statements {
		if ret, ok := st.(*ReturnNode); ok {
			if len(ret.Values) != 1 {
				return nil, false
			}
			return ret.Values[0].Value(s)
		}
		if decl, ok := asDeclarator(st); ok {
			if err := decl.AddSymbol(s); err != nil {
				return nil, false
			}
			continue
		}
		if _, ok := st.Value(s); !ok {
			return nil, false
		}
	}
	return nil, false
}

type declarator interface {
	AddSymbol(*Symtab) error
}

func asDeclarator(n AstNode) (declarator, bool) {
	d, ok := n.(declarator)
	return d, ok
}
