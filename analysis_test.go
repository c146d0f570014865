package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// choiceEnum models a small `enum Choice { A, B }` for the
// reachable-exceptions seed scenarios.
func choiceEnum() *EnumType {
	e := NewEnumType("Choice", 2)
	e.AddValue("A", 0)
	e.AddValue("B", 1)
	return e
}

func raiseCall(code int64) *FunctionCallNode {
	return &FunctionCallNode{nodeBase: nodeBase{R: rng()}, Name: "raise", Args: []AstNode{intLitNode(code, 8, false)}}
}

// TestReachableExceptions_TransitiveKnownValue grounds the §8 seed
// scenario: an if/else raising along each branch, with a known
// enum-typed scrutinee, contributes only the taken branch's bit.
func TestReachableExceptions_TransitiveKnownValue(t *testing.T) {
	chooseBody := &FunctionBodyNode{Statements: []AstNode{
		&IfNode{
			Cond: binop("==", ident("choice"), &EnumCastNode{EnumName: "Choice", Inner: intLitNode(1, 2, false)}),
			Then: &FunctionBodyNode{Statements: []AstNode{raiseCall(1)}},
			Else: &FunctionBodyNode{Statements: []AstNode{raiseCall(0)}},
		},
	}}

	s := newTestSymtab(nil)
	require.NoError(t, s.DefineConst("enum Choice", choiceEnum(), nil))
	require.NoError(t, s.DefineConst("choice", EnumRefType{Enum: choiceEnum()}, NewEnumValue("Choice", "B", 1)))

	mask, err := ReachableExceptions(chooseBody, s)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<1), mask)
}

// TestReachableExceptions_UnknownPath grounds the §8 seed scenario: a
// raise nested under an unknown outer condition still surfaces its
// bit even though the outer branch can't be resolved.
func TestReachableExceptions_UnknownPath(t *testing.T) {
	body := &IfNode{
		Cond: binop("==", ident("unknown"), intLitNode(1, 8, false)),
		Then: &IfNode{
			Cond: binop("==", ident("choice"), &EnumCastNode{EnumName: "Choice", Inner: intLitNode(1, 2, false)}),
			Then: &FunctionBodyNode{Statements: []AstNode{raiseCall(1)}},
			Else: &FunctionBodyNode{Statements: []AstNode{raiseCall(0)}},
		},
	}
	s := newTestSymtab(nil)
	child := s.Child()
	require.NoError(t, child.DefineConst("enum Choice", choiceEnum(), nil))
	require.NoError(t, child.DefineConst("choice", EnumRefType{Enum: choiceEnum()}, NewEnumValue("Choice", "B", 1)))

	mask, err := ReachableExceptions(body, child)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<1), mask)
}

func TestConstexpr_Identifier(t *testing.T) {
	s := newTestSymtab(nil)
	require.NoError(t, s.Define("local", BitsType{Width: 8}, Qualifiers{}, nil))
	assert.True(t, Constexpr(ident("local"), s))

	cfg := newTestArchConfig()
	cfg.params["runtime_param"] = nil
	s2 := NewSymtab(cfg, 64)
	require.NoError(t, s2.Define("runtime_param", BitsType{Width: 8}, Qualifiers{Global: true}, nil))
	assert.False(t, Constexpr(ident("runtime_param"), s2))
}

func TestConstexpr_CsrOperationsNeverConstexpr(t *testing.T) {
	s := newTestSymtab(nil)
	assert.False(t, Constexpr(&CsrReadNode{CsrName: "mstatus"}, s))
	assert.False(t, Constexpr(&PcAssignmentNode{Rhs: intLitNode(0, 64, false)}, s))
}

func TestFindDstRegisters(t *testing.T) {
	s := newTestSymtab(nil)
	body := &FunctionBodyNode{Statements: []AstNode{
		&RegisterAssignmentNode{Index: intLitNode(5, 5, false), Rhs: intLitNode(1, 64, false)},
	}}
	regs, err := FindDstRegisters(body, s)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, regs)
}

func TestFindDstRegisters_ComplexIndex(t *testing.T) {
	s := newTestSymtab(nil)
	body := &RegisterAssignmentNode{Index: ident("unbound"), Rhs: intLitNode(1, 64, false)}
	_, err := FindDstRegisters(body, s)
	require.Error(t, err)
	var crd *ComplexRegDetermination
	assert.ErrorAs(t, err, &crd)
}

func TestAnalysis_ScopeBalance(t *testing.T) {
	s := newTestSymtab(nil)
	depth := s.Depth()
	child := s.Child()
	_ = Constexpr(ident("x"), child)
	assert.Equal(t, depth, s.Depth())
}
