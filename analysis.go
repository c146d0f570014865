package idl

import (
	"fmt"
	"sort"
)

// Constexpr implements constexpr?(n, symtab) (§4.4): default is "all
// children are constexpr", overridden per variant where the spec
// calls out an exception.
func Constexpr(n AstNode, s *Symtab) bool {
	switch t := n.(type) {
	case *IdentifierNode:
		va, ok := s.Lookup(t.Name)
		if !ok {
			return false
		}
		if !va.Qualifiers.Global {
			return true
		}
		return va.Value != nil
	case *PcAssignmentNode, *CsrReadNode, *CsrWriteNode, *CsrFieldReadNode, *CsrFieldWriteNode:
		return false
	case *CsrFunctionCallNode:
		return t.Func == "address"
	case *FunctionCallNode:
		fn, ok := s.LookupFunction(t.Name)
		if !ok || !fn.Builtin {
			return false
		}
		return allConstexpr(t.Children(), s)
	default:
		return allConstexpr(n.Children(), s)
	}
}

func allConstexpr(nodes []AstNode, s *Symtab) bool {
	for _, c := range nodes {
		if !Constexpr(c, s) {
			return false
		}
	}
	return true
}

// ControlFlow implements control_flow?(n, symtab) (§4.4): true iff
// any descendant assigns PC or calls a non-builtin, non-raise*
// function whose own body has control flow.
func ControlFlow(n AstNode, s *Symtab) bool {
	found := false
	Inspect(n, func(cur AstNode) bool {
		if found {
			return false
		}
		switch t := cur.(type) {
		case *PcAssignmentNode:
			found = true
			return false
		case *FunctionCallNode:
			fn, ok := s.LookupFunction(t.Name)
			if ok && !fn.Builtin && !fn.IsRaise() && fn.Body != nil {
				if ControlFlow(fn.Body, s.Child()) {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}

// Written implements written?(n, symtab, name) (§4.4): whether name
// is assigned anywhere within n, tracked through every assignment
// variant that can target a plain variable name.
func Written(n AstNode, name string) bool {
	found := false
	Inspect(n, func(cur AstNode) bool {
		if found {
			return false
		}
		switch t := cur.(type) {
		case *ArrayAssignmentNode:
			if writesIdentifier(t.Array, name) {
				found = true
				return false
			}
		case *ArrayRangeAssignmentNode:
			if writesIdentifier(t.Array, name) {
				found = true
				return false
			}
		case *FieldAssignmentNode:
			if writesIdentifier(t.Base, name) {
				found = true
				return false
			}
		case *MultiAssignmentNode:
			for _, target := range t.Targets {
				if writesIdentifier(target, name) {
					found = true
					return false
				}
			}
		case *DeclarationWithInitNode:
			if t.Name == name {
				found = true
				return false
			}
		case *MultiDeclarationNode:
			for _, n := range t.Names {
				if n == name {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}

func writesIdentifier(n AstNode, name string) bool {
	id, ok := n.(*IdentifierNode)
	return ok && id.Name == name
}

// ReachableFunctions implements reachable_functions(n, symtab) (§4.4):
// the transitive union of functions called from n, memoized per
// ReachableKey to terminate on mutual recursion.
func ReachableFunctions(n AstNode, s *Symtab, c *Cache) map[string]*FunctionDefNode {
	comp := Computation[ReachableKey, map[string]*FunctionDefNode]{
		Name: "reachable_functions",
		Compute: func(cc *Cache, key ReachableKey) map[string]*FunctionDefNode {
			fn, ok := s.LookupFunction(key.Function)
			if !ok || fn.Body == nil {
				return map[string]*FunctionDefNode{}
			}
			return ReachableFunctions(fn.Body, s.Child(), cc)
		},
	}
	result := map[string]*FunctionDefNode{}
	Inspect(n, func(cur AstNode) bool {
		call, ok := cur.(*FunctionCallNode)
		if !ok {
			return true
		}
		fn, ok := s.LookupFunction(call.Name)
		if !ok || fn.Builtin {
			return true
		}
		result[fn.Name] = fn
		key := reachableKeyFor(call, fn, s)
		sub := Get(c, comp, key)
		for name, f := range sub {
			result[name] = f
		}
		return true
	})
	return result
}

func reachableKeyFor(call *FunctionCallNode, fn *FunctionDefNode, s *Symtab) ReachableKey {
	templates := ""
	for i, t := range call.TemplateArgs {
		if i > 0 {
			templates += ","
		}
		if v, ok := t.Value(s); ok {
			templates += v.String()
		} else {
			templates += "?"
		}
	}
	argsKnown := true
	argsKey := ""
	for i, a := range call.Args {
		v, ok := a.Value(s)
		if !ok {
			argsKnown = false
			argsKey = ""
			break
		}
		if i > 0 {
			argsKey += ","
		}
		argsKey += v.String()
	}
	return ReachableKey{Function: fn.Name, Templates: templates, ArgsKey: argsKey, ArgsKnown: argsKnown}
}

// SortedReachableNames returns reachable function names in the
// emitter's required order: stable tie-break by name (§5).
func SortedReachableNames(reachable map[string]*FunctionDefNode) []string {
	names := make([]string, 0, len(reachable))
	for name := range reachable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReachableExceptions implements reachable_exceptions(n, symtab, cache)
// (§4.4): a u64 bitmask where raise(code) contributes 1<<code. A
// raise whose code cannot be resolved is an error, since exception
// codes are always supposed to be compile-time enumerants.
func ReachableExceptions(n AstNode, s *Symtab) (uint64, error) {
	switch t := n.(type) {
	case *FunctionCallNode:
		if isRaiseCall(t.Name) {
			if len(t.Args) != 1 {
				return 0, &InternalError{Range: t.Range(), Pass: "reachable_exceptions", Message: "raise() takes one argument"}
			}
			val, ok := t.Args[0].Value(s)
			if !ok {
				return 0, &TypeError{Range: t.Range(), Message: "raise() code must be statically known"}
			}
			code, ok := exceptionCode(val)
			if !ok {
				return 0, &TypeError{Range: t.Range(), Message: "raise() code is not an integer or enum value"}
			}
			return 1 << uint(code), nil
		}
		fn, ok := s.LookupFunction(t.Name)
		if ok && !fn.Builtin && fn.Body != nil {
			return ReachableExceptions(fn.Body, s.Child())
		}
		return 0, nil

	case *IfNode:
		return reachableExceptionsIf(t, s)

	default:
		var mask uint64
		for _, child := range n.Children() {
			m, err := ReachableExceptions(child, s)
			if err != nil {
				return 0, err
			}
			mask |= m
		}
		return mask, nil
	}
}

func reachableExceptionsIf(n *IfNode, s *Symtab) (uint64, error) {
	if cond, ok := n.Cond.Value(s); ok {
		if b, ok := cond.(BoolValue); ok {
			if b.Val {
				return ReachableExceptions(n.Then, s)
			}
			return reachableExceptionsRest(n, s, 0)
		}
	}
	mask, err := ReachableExceptions(n.Then, s)
	if err != nil {
		return 0, err
	}
	rest, err := reachableExceptionsRest(n, s, 0)
	if err != nil {
		return 0, err
	}
	return mask | rest, nil
}

func reachableExceptionsRest(n *IfNode, s *Symtab, acc uint64) (uint64, error) {
	for _, ei := range n.ElseIfs {
		if cond, ok := ei.Cond.Value(s); ok {
			if b, ok := cond.(BoolValue); ok && !b.Val {
				continue
			}
		}
		m, err := ReachableExceptions(ei.Body, s)
		if err != nil {
			return 0, err
		}
		acc |= m
	}
	if n.Else != nil {
		m, err := ReachableExceptions(n.Else, s)
		if err != nil {
			return 0, err
		}
		acc |= m
	}
	return acc, nil
}

func isRaiseCall(name string) bool {
	return len(name) >= 5 && name[:5] == "raise"
}

func exceptionCode(v Value) (int64, bool) {
	switch t := v.(type) {
	case IntValue:
		if t.Val.IsInt64() {
			return t.Val.Int64(), true
		}
	case EnumValue:
		return t.Raw, true
	}
	return 0, false
}

// FindSrcRegisters / FindDstRegisters collect register indices read
// and written through the X[...] array (§4.4), raising
// ComplexRegDetermination when an index is neither a literal nor a
// const-parameterized value.
func FindSrcRegisters(n AstNode, s *Symtab) ([]int64, error) {
	var regs []int64
	var firstErr error
	Inspect(n, func(cur AstNode) bool {
		if firstErr != nil {
			return false
		}
		ra, ok := cur.(*RegisterAccessNode)
		if !ok {
			return true
		}
		idx, ok := ra.Index.Value(s)
		if !ok {
			firstErr = &ComplexRegDetermination{Range: ra.Range(), Expr: ra.Index}
			return false
		}
		iv, ok := idx.(IntValue)
		if !ok || !iv.Val.IsInt64() {
			firstErr = &ComplexRegDetermination{Range: ra.Range(), Expr: ra.Index}
			return false
		}
		regs = append(regs, iv.Val.Int64())
		return true
	})
	return regs, firstErr
}

func FindDstRegisters(n AstNode, s *Symtab) ([]int64, error) {
	var regs []int64
	var firstErr error
	Inspect(n, func(cur AstNode) bool {
		if firstErr != nil {
			return false
		}
		ra, ok := cur.(*RegisterAssignmentNode)
		if !ok {
			return true
		}
		idx, ok := ra.Index.Value(s)
		if !ok {
			firstErr = &ComplexRegDetermination{Range: ra.Range(), Expr: ra.Index}
			return false
		}
		iv, ok := idx.(IntValue)
		if !ok || !iv.Val.IsInt64() {
			firstErr = &ComplexRegDetermination{Range: ra.Range(), Expr: ra.Index}
			return false
		}
		regs = append(regs, iv.Val.Int64())
		return true
	})
	return regs, firstErr
}

// DebugSummary is a small human-readable digest of the above passes,
// useful in test failure messages.
func DebugSummary(n AstNode, s *Symtab) string {
	mask, _ := ReachableExceptions(n, s)
	return fmt.Sprintf("constexpr=%v control_flow=%v exceptions=%#x", Constexpr(n, s), ControlFlow(n, s), mask)
}
