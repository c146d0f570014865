package idl

import "sort"

// DecodeVar names one bit-slice group of an instruction's encoding
// (e.g. `rd`, `rs1`, `imm`), the kind of thing the emitter renders as
// a callable decode-variable accessor (§4.6's "n() for decode
// variables").
type DecodeVar struct {
	Name string
	Msb  int
	Lsb  int
}

// DecoderInst is one instruction's entry in the decoder's input list
// (§4.7's Input): an MSB-first encoding string of '0'/'1'/'-'
// (variable) characters, its decode-variable groups, its target xlen,
// the extensions it requires, and the decode-variable value
// exclusions and hint precedence the dispatcher must still check even
// after an opcode match.
type DecoderInst struct {
	Name       string
	Encoding   string
	DecodeVars []DecodeVar
	Xlen       int
	Extensions []string
	// Excludes lists decode-variable values this instruction does not
	// match even when its opcode bits match (the `excludes:` clause).
	Excludes map[string][]int64
	// Hint marks an instruction that is a refinement of a more general
	// opcode (e.g. a "hint" encoding of an otherwise-generic NOP) and
	// so must be excluded from the general instruction's own match.
	Hint bool
	// HintMask/HintValue give the bit mask/value a sibling's dispatcher
	// must additionally rule out to avoid misclassifying this
	// instruction's encoding as the sibling's.
	HintMask  uint64
	HintValue uint64
}

type decoderNodeKind int

const (
	selectKind decoderNodeKind = iota
	endpointKind
)

// DecoderNode is the two-variant tagged tree §3 calls for: a `Select`
// node tests one bit range and dispatches to children by value, an
// `Endpoint` node is a single resolved instruction.
type DecoderNode struct {
	Kind     decoderNodeKind
	Lo, Hi   int // inclusive bit-position range this node tests, MSB-first indexing
	Value    int64
	Children []*DecoderNode
	Inst     *DecoderInst
	// Default marks an endpoint child that the emitter must dispatch
	// to for any value its siblings don't claim, rather than via a
	// matching Value — the fallback side of a fully-determined
	// hint-vs-general split (see buildDeterminedSplit).
	Default bool
}

// BuildDecoderTree implements the §4.7 tree-construction algorithm:
// partition by fixed-vs-variable bits at the current position, search
// upward for a position that cleanly splits a mixed group, and
// terminate a branch in an endpoint once exactly one instruction
// remains live.
func BuildDecoderTree(insts []*DecoderInst, width int) (*DecoderNode, error) {
	root := &DecoderNode{Kind: selectKind}
	if err := buildDecoderNode(root, insts, 0, width); err != nil {
		return nil, err
	}
	return root, nil
}

func buildDecoderNode(node *DecoderNode, insts []*DecoderInst, pos, width int) error {
	if len(insts) == 0 {
		node.Kind = endpointKind
		return nil
	}
	if len(insts) == 1 {
		node.Kind = endpointKind
		node.Inst = insts[0]
		return nil
	}

	// §4.7's endpoint rule: an instruction whose opcode mask already
	// covers the entire encoding (no '-' bit anywhere) is fully
	// determined no matter how many siblings remain live. When exactly
	// one other instruction is live and it has no fixed bit left from
	// pos onward, no per-bit split can separate it from the determined
	// ones, so they become sibling endpoints right here. This is what
	// lets a hint (e.g. a fully fixed NOP encoding) and the general
	// instruction it refines (which may never carry a fixed bit
	// distinguishing the two) split at the current node.
	var determined, rest []*DecoderInst
	for _, in := range insts {
		if fullyDetermined(in, width) {
			determined = append(determined, in)
		} else {
			rest = append(rest, in)
		}
	}
	if len(determined) > 0 && len(rest) == 1 {
		p := pos
		for p < width && bitAt(rest[0].Encoding, p) == '-' {
			p++
		}
		if p >= width {
			buildDeterminedSplit(node, determined, rest, pos, width)
			return nil
		}
	}

	// Search upward from pos for the next bit position at which at
	// least one live instruction carries a fixed ('0'/'1') bit — an
	// all-variable position can never split the group (§4.7 step 2's
	// "mix in the same single-bit range ⇒ search upward").
	testPos := pos
	for testPos < width {
		if anyFixedAt(insts, testPos) {
			break
		}
		testPos++
	}
	if testPos >= width {
		// No bit left to test: a group of fully determined
		// instructions still splits into sibling endpoints; anything
		// else is ambiguous.
		if len(determined) > 0 && len(rest) <= 1 {
			buildDeterminedSplit(node, determined, rest, pos, width)
			return nil
		}
		return &DecoderError{Message: "instructions " + namesOf(insts) + " are ambiguous: no distinguishing bit position remains"}
	}

	node.Kind = selectKind
	node.Lo, node.Hi = testPos, testPos

	groups := map[byte][]*DecoderInst{}
	var variable []*DecoderInst
	for _, in := range insts {
		b := bitAt(in.Encoding, testPos)
		if b == '-' {
			variable = append(variable, in)
		} else {
			groups[b] = append(groups[b], in)
		}
	}

	var values []byte
	for b := range groups {
		values = append(values, b)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	for _, b := range values {
		group := append(append([]*DecoderInst{}, groups[b]...), variable...)
		child := &DecoderNode{Value: int64(b - '0')}
		node.Children = append(node.Children, child)
		if err := buildDecoderNode(child, group, testPos+1, width); err != nil {
			return err
		}
	}
	return nil
}

// fullyDetermined reports whether in's encoding has no variable bit
// anywhere across the full decode width, i.e. its opcode mask covers
// the entire encoding.
func fullyDetermined(in *DecoderInst, width int) bool {
	for p := 0; p < width; p++ {
		if bitAt(in.Encoding, p) == '-' {
			return false
		}
	}
	return true
}

// buildDeterminedSplit resolves a group of one or more fully
// determined instructions alongside at most one still-variable
// instruction by testing the remaining width at once: each determined
// instruction claims its own exact bit value over [pos, width), and
// the leftover instruction, if any, becomes the default fallback for
// every value none of the determined siblings claim.
func buildDeterminedSplit(node *DecoderNode, determined, rest []*DecoderInst, pos, width int) {
	lo, hi := pos, width-1
	if hi < lo {
		hi = lo
	}
	node.Kind = selectKind
	node.Lo, node.Hi = lo, hi
	for _, in := range determined {
		var val int64
		for p := lo; p <= hi; p++ {
			val <<= 1
			if bitAt(in.Encoding, p) == '1' {
				val |= 1
			}
		}
		node.Children = append(node.Children, &DecoderNode{Kind: endpointKind, Value: val, Inst: in})
	}
	if len(rest) == 1 {
		node.Children = append(node.Children, &DecoderNode{Kind: endpointKind, Inst: rest[0], Default: true})
	}
}

func bitAt(encoding string, pos int) byte {
	if pos >= len(encoding) {
		return '-'
	}
	return encoding[pos]
}

func anyFixedAt(insts []*DecoderInst, pos int) bool {
	for _, in := range insts {
		if bitAt(in.Encoding, pos) != '-' {
			return true
		}
	}
	return false
}

func namesOf(insts []*DecoderInst) string {
	s := ""
	for i, in := range insts {
		if i > 0 {
			s += ", "
		}
		s += in.Name
	}
	return s
}
