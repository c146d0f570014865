package idl

// testArchConfig is a minimal in-memory CfgArch for tests: a single
// fixed xlen, a handful of parameters and CSRs, no extensions beyond
// what a test explicitly registers.
type testArchConfig struct {
	xlens     []int
	multiXlen bool
	params    map[string]Value
	csrs      map[string]*CsrDescriptor
	exts      map[string]*ExtensionInfo
	funcs     map[string]*FunctionDefNode
}

func newTestArchConfig() *testArchConfig {
	return &testArchConfig{
		xlens:  []int{64},
		params: map[string]Value{},
		csrs:   map[string]*CsrDescriptor{},
		exts:   map[string]*ExtensionInfo{},
		funcs:  map[string]*FunctionDefNode{},
	}
}

func (c *testArchConfig) PossibleXlens() []int { return c.xlens }
func (c *testArchConfig) MultiXlen() bool      { return c.multiXlen }

func (c *testArchConfig) Param(name string) (Value, bool) {
	v, ok := c.params[name]
	return v, ok
}

func (c *testArchConfig) ParamsWithValue() map[string]Value { return c.params }

func (c *testArchConfig) Csr(name string) (*CsrDescriptor, bool) {
	d, ok := c.csrs[name]
	return d, ok
}

func (c *testArchConfig) Extension(name string) (*ExtensionInfo, bool) {
	e, ok := c.exts[name]
	return e, ok
}

func (c *testArchConfig) MandatoryExtensionReqs() []ExtensionRequirement { return nil }

func (c *testArchConfig) Function(name string) (*FunctionDefNode, bool) {
	f, ok := c.funcs[name]
	return f, ok
}

func newTestSymtab(cfg CfgArch) *Symtab {
	if cfg == nil {
		cfg = newTestArchConfig()
	}
	return NewSymtab(cfg, 64)
}

func rng() Range { return NewRange(0, 0) }

func intLitNode(v int64, width int, signed bool) *IntLiteralNode {
	return &IntLiteralNode{nodeBase: nodeBase{R: rng()}, Val: NewIntValue(v, width, signed)}
}

func boolLitNode(b bool) *BoolLiteralNode {
	return &BoolLiteralNode{nodeBase: nodeBase{R: rng()}, Val: b}
}

func ident(name string) *IdentifierNode {
	return &IdentifierNode{nodeBase: nodeBase{R: rng()}, Name: name}
}

func binop(op string, lhs, rhs AstNode) *BinaryExpressionNode {
	return &BinaryExpressionNode{nodeBase: nodeBase{R: rng()}, Op: op, Lhs: lhs, Rhs: rhs}
}
