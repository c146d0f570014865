package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_ConstantFold(t *testing.T) {
	s := newTestSymtab(nil)

	t.Run("(3 + 4) * 2", func(t *testing.T) {
		expr := binop("*",
			&ParenNode{nodeBase: nodeBase{R: rng()}, Inner: binop("+", intLitNode(3, 32, false), intLitNode(4, 32, false))},
			intLitNode(2, 32, false))
		v, ok := expr.Value(s)
		require.True(t, ok)
		iv, ok := v.(IntValue)
		require.True(t, ok)
		assert.Equal(t, int64(14), iv.Val.Int64())
	})
}

func TestEval_ShortCircuit(t *testing.T) {
	s := newTestSymtab(nil)
	unknown := ident("unbound_var")

	t.Run("false && unknown", func(t *testing.T) {
		v, ok := binop("&&", boolLitNode(false), unknown).Value(s)
		require.True(t, ok)
		assert.Equal(t, false, v.(BoolValue).Val)
	})

	t.Run("true || unknown", func(t *testing.T) {
		v, ok := binop("||", boolLitNode(true), unknown).Value(s)
		require.True(t, ok)
		assert.Equal(t, true, v.(BoolValue).Val)
	})

	t.Run("unknown && true does not fold", func(t *testing.T) {
		_, ok := binop("&&", unknown, boolLitNode(true)).Value(s)
		assert.False(t, ok)
	})
}

func TestEval_BitwiseIdentity(t *testing.T) {
	s := newTestSymtab(nil)
	unknown := ident("x")

	v, ok := binop("&", intLitNode(0, 8, false), unknown).Value(s)
	require.True(t, ok)
	assert.Equal(t, int64(0), v.(IntValue).Val.Int64())
}

func TestEval_WideningAdd(t *testing.T) {
	s := newTestSymtab(nil)
	expr := binop("`+", intLitNode(1, 32, false), intLitNode(2, 32, false))
	v, ok := expr.Value(s)
	require.True(t, ok)
	iv := v.(IntValue)
	assert.Equal(t, 33, iv.Width)
	assert.Equal(t, int64(3), iv.Val.Int64())
}

func TestEval_Concatenation(t *testing.T) {
	s := newTestSymtab(nil)
	n := &ConcatenationNode{nodeBase: nodeBase{R: rng()}, Parts: []AstNode{intLitNode(0b11, 2, false), intLitNode(0b01, 2, false)}}
	v, ok := n.Value(s)
	require.True(t, ok)
	assert.Equal(t, int64(0b1101), v.(IntValue).Val.Int64())
	assert.Equal(t, 4, v.(IntValue).Width)
}
