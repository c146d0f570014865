package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrune_ConstantFold(t *testing.T) {
	s := newTestSymtab(nil)
	expr := binop("*",
		&ParenNode{nodeBase: nodeBase{R: rng()}, Inner: binop("+", intLitNode(3, 32, false), intLitNode(4, 32, false))},
		intLitNode(2, 32, false))

	out := Prune(expr, s)
	lit, ok := out.(*IntLiteralNode)
	require.True(t, ok)
	assert.Equal(t, int64(14), lit.Val.Val.Int64())
}

// TestPrune_DeadBranch grounds the §8 seed scenario: a known-false
// condition drops its raise()-only then-branch, leaving just the
// register write from the else.
func TestPrune_DeadBranch(t *testing.T) {
	s := newTestSymtab(nil)
	write := &RegisterAssignmentNode{nodeBase: nodeBase{R: rng()}, Index: intLitNode(1, 5, false), Rhs: intLitNode(1, 64, false)}
	n := &IfNode{
		nodeBase: nodeBase{R: rng()},
		Cond:     boolLitNode(false),
		Then:     &FunctionBodyNode{Statements: []AstNode{raiseCall(2)}},
		Else:     &FunctionBodyNode{Statements: []AstNode{write}},
	}

	out := Prune(n, s)
	body, ok := out.(*FunctionBodyNode)
	require.True(t, ok)
	require.Len(t, body.Statements, 1)
	assert.Same(t, write, body.Statements[0])
}

func TestPrune_Idempotent(t *testing.T) {
	s := newTestSymtab(nil)
	expr := binop("&&", boolLitNode(false), ident("unbound"))
	once := Prune(expr, s)
	twice := Prune(once, s)
	assert.Equal(t, once.String(), twice.String())
}
