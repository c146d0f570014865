package idl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDecoderTree_SplitsOnFirstDistinguishingBit(t *testing.T) {
	a := &DecoderInst{Name: "A", Encoding: "00--"}
	b := &DecoderInst{Name: "B", Encoding: "01--"}

	root, err := BuildDecoderTree([]*DecoderInst{a, b}, 4)
	require.NoError(t, err)
	require.Equal(t, selectKind, root.Kind)
	require.Len(t, root.Children, 1)

	split := root.Children[0]
	require.Equal(t, selectKind, split.Kind)
	require.Equal(t, 1, split.Lo)
	require.Len(t, split.Children, 2)

	byValue := map[int64]*DecoderInst{}
	for _, c := range split.Children {
		require.Equal(t, endpointKind, c.Kind)
		byValue[c.Value] = c.Inst
	}
	assert.Equal(t, "A", byValue[0].Name)
	assert.Equal(t, "B", byValue[1].Name)
}

// TestBuildDecoderTree_SplitsOnFirstDistinguishingBit_TreeShape
// cross-checks the full tree shape with a structural diff rather than
// field-by-field assertions, so a future change to how children are
// ordered or nested shows up as an explicit diff.
func TestBuildDecoderTree_SplitsOnFirstDistinguishingBit_TreeShape(t *testing.T) {
	a := &DecoderInst{Name: "A", Encoding: "00--"}
	b := &DecoderInst{Name: "B", Encoding: "01--"}

	root, err := BuildDecoderTree([]*DecoderInst{a, b}, 4)
	require.NoError(t, err)

	want := &DecoderNode{
		Kind: selectKind,
		Children: []*DecoderNode{
			{
				Kind: selectKind, Lo: 1, Hi: 1,
				Children: []*DecoderNode{
					{Kind: endpointKind, Value: 0, Inst: a},
					{Kind: endpointKind, Value: 1, Inst: b},
				},
			},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("decoder tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDecoderTree_SingleInstructionIsEndpoint(t *testing.T) {
	only := &DecoderInst{Name: "NOP", Encoding: "----"}
	root, err := BuildDecoderTree([]*DecoderInst{only}, 4)
	require.NoError(t, err)
	assert.Equal(t, endpointKind, root.Kind)
	assert.Same(t, only, root.Inst)
}

func TestBuildDecoderTree_AmbiguousEncoding(t *testing.T) {
	a := &DecoderInst{Name: "A", Encoding: "----"}
	b := &DecoderInst{Name: "B", Encoding: "----"}
	_, err := BuildDecoderTree([]*DecoderInst{a, b}, 4)
	require.Error(t, err)
	var de *DecoderError
	assert.ErrorAs(t, err, &de)
}

// TestBuildDecoderTree_HintBecomesSiblingEndpoint grounds the §4.7/§8
// hint endpoint rule: a hint whose encoding is fully fixed and a
// general instruction that never carries a fixed bit of its own still
// produce a tree — the hint claims its exact value, the general
// instruction falls back as the node's default.
func TestBuildDecoderTree_HintBecomesSiblingEndpoint(t *testing.T) {
	general := &DecoderInst{Name: "Addi", Encoding: "----"}
	hint := &DecoderInst{Name: "Nop", Encoding: "0000", Hint: true, HintMask: 0xf, HintValue: 0x0}

	root, err := BuildDecoderTree([]*DecoderInst{general, hint}, 4)
	require.NoError(t, err)
	require.Equal(t, selectKind, root.Kind)
	require.Len(t, root.Children, 2)

	var hintChild, defaultChild *DecoderNode
	for _, c := range root.Children {
		require.Equal(t, endpointKind, c.Kind)
		if c.Default {
			defaultChild = c
		} else {
			hintChild = c
		}
	}
	require.NotNil(t, hintChild)
	require.NotNil(t, defaultChild)
	assert.Equal(t, "Nop", hintChild.Inst.Name)
	assert.Equal(t, int64(0), hintChild.Value)
	assert.Equal(t, "Addi", defaultChild.Inst.Name)
}

// TestEmitDecoder_DefaultChildRendersFallback confirms a Default
// endpoint renders as an unconditional else/default rather than a
// value-matched branch.
func TestEmitDecoder_DefaultChildRendersFallback(t *testing.T) {
	root := &DecoderNode{
		Kind: selectKind, Lo: 0, Hi: 3,
		Children: []*DecoderNode{
			{Kind: endpointKind, Value: 0, Inst: &DecoderInst{Name: "Nop", Hint: true, HintMask: 0xf, HintValue: 0x0}},
			{Kind: endpointKind, Inst: &DecoderInst{Name: "Addi"}, Default: true},
		},
	}
	out, err := EmitDecoder(root, 32, "my_cfg", NewConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "extract<0, 4>(encoding) == 0b0000ull")
	assert.Contains(t, out, "} else {")
}

// TestEmitDecoder_SwitchForSimpleEndpoints grounds the §4.7 code
// emission rule: a Select whose children are all plain endpoints (no
// hint/exclude/extension checks) renders as a switch.
func TestEmitDecoder_SwitchForSimpleEndpoints(t *testing.T) {
	root := &DecoderNode{
		Kind: selectKind, Lo: 0, Hi: 1,
		Children: []*DecoderNode{
			{Kind: endpointKind, Value: 0, Inst: &DecoderInst{Name: "Add"}},
			{Kind: endpointKind, Value: 1, Inst: &DecoderInst{Name: "Sub"}},
		},
	}
	out, err := EmitDecoder(root, 32, "my_cfg", NewConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "switch (extract<0, 2>(encoding))")
	assert.Contains(t, out, "case 0b00ull:")
	assert.Contains(t, out, "case 0b01ull:")
	assert.NotContains(t, out, "} else if")
}

// TestDecoder_HintPrecedence grounds the §4.7/§8 hint precedence seed
// scenario: an endpoint needing a hint-exclusion check forces the
// if/else chain form instead of a switch, and renders the exclusion
// condition that gives the more specific hint encoding precedence.
func TestDecoder_HintPrecedence(t *testing.T) {
	root := &DecoderNode{
		Kind: selectKind, Lo: 0, Hi: 0,
		Children: []*DecoderNode{
			{Kind: endpointKind, Value: 0, Inst: &DecoderInst{Name: "Nop", Hint: true, HintMask: 0xfff, HintValue: 0x013}},
			{Kind: endpointKind, Value: 1, Inst: &DecoderInst{Name: "Addi"}},
		},
	}
	out, err := EmitDecoder(root, 32, "my_cfg", NewConfig())
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "if ("))
	assert.Contains(t, out, "} else if")
	assert.Contains(t, out, "(encoding & 0xfffull) != 0x13ull")
}

func TestEmitDecoder_ExtensionAndExcludeConditions(t *testing.T) {
	in := &DecoderInst{
		Name:       "Amoadd",
		Extensions: []string{"A"},
		Excludes:   map[string][]int64{"rd": {0}},
	}
	cond := conditionsFor(in)
	assert.Contains(t, cond, "rd() != 0_b")
	assert.Contains(t, cond, "__UDB_HART->implemented(ExtensionName::A)")
}

func TestDecoderSupportCpp_NotEmpty(t *testing.T) {
	assert.Contains(t, DecoderSupportCpp(), "extract")
}
