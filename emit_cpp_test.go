package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEmit_BitsAddNoCast grounds the §8 seed scenario: adding two
// same-width Bits values renders with no inserted cast, and the
// enclosing declaration renders with a plain `=`.
func TestEmit_BitsAddNoCast(t *testing.T) {
	s := newTestSymtab(nil)
	sum := binop("+", ident("a"), ident("b"))

	out, err := GenCpp(sum, s, DefaultGenCppOptions())
	require.NoError(t, err)
	assert.Equal(t, "(a + b)", out)

	decl := &DeclarationWithInitNode{nodeBase: nodeBase{R: rng()}, Type: BitsType{Width: 32}, Name: "c", Init: sum}
	out, err = GenCpp(decl, s, DefaultGenCppOptions())
	require.NoError(t, err)
	assert.Equal(t, "Bits<32> c = (a + b);", out)
}

// TestEmit_Deterministic grounds §8 property 7: emitting the same node
// against the same symtab twice produces byte-identical output.
func TestEmit_Deterministic(t *testing.T) {
	s := newTestSymtab(nil)
	n := binop("`+", intLitNode(1, 32, false), ident("x"))

	first, err := GenCpp(n, s, DefaultGenCppOptions())
	require.NoError(t, err)
	second, err := GenCpp(n, s, DefaultGenCppOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmit_WideningSub(t *testing.T) {
	s := newTestSymtab(nil)
	n := binop("`-", ident("a"), ident("b"))
	out, err := GenCpp(n, s, DefaultGenCppOptions())
	require.NoError(t, err)
	assert.Equal(t, "(a).widening_sub(b)", out)
}

func TestEmit_SignedShiftRight(t *testing.T) {
	s := newTestSymtab(nil)
	require.NoError(t, s.Define("a", BitsType{Width: 32, Signed: true}, Qualifiers{Const: true}, NewIntValue(-1, 32, true)))
	n := binop(">>", ident("a"), intLitNode(4, 32, false))
	out, err := GenCpp(n, s, DefaultGenCppOptions())
	require.NoError(t, err)
	assert.Equal(t, "(a).sra(4_b)", out)
}

func TestEmit_EnumCast(t *testing.T) {
	s := newTestSymtab(nil)
	n := &EnumCastNode{nodeBase: nodeBase{R: rng()}, EnumName: "Choice", Inner: intLitNode(1, 2, false)}
	out, err := GenCpp(n, s, DefaultGenCppOptions())
	require.NoError(t, err)
	assert.Equal(t, "Choice{1_b}", out)
}

func TestFunctionPrototype_ConstAndNoreturn(t *testing.T) {
	fn := &FunctionDefNode{
		Name:       "raise_illegal",
		ReturnType: VoidType{},
		Params:     []Param{{Name: "code", Type: BitsType{Width: 8}}},
		Body:       &FunctionBodyNode{Statements: []AstNode{raiseCall(1)}},
		Builtin:    true,
	}
	proto := FunctionPrototype(fn)
	assert.Contains(t, proto, "const Bits<8> code")
	assert.Contains(t, proto, "[[noreturn]]")
	assert.Contains(t, proto, "raise_illegal(")
}
