package idl

import "fmt"

// Qualifiers are the declaration-site modifiers attached to a Var;
// they never change the Type itself (§3 is explicit that signedness
// and constness are qualifiers, not distinct kinds).
type Qualifiers struct {
	Const  bool
	Global bool
}

// Var is one binding in a Symtab scope. Value is non-nil only when
// the binding is known at partial-evaluation time (a `const`
// declaration, or a variable the prune pass has since folded).
type Var struct {
	Name       string
	Type       Type
	Qualifiers Qualifiers
	Value      Value
}

// ExtensionInfo describes one ISA extension exposed by the
// surrounding configuration (§6).
type ExtensionInfo struct {
	Name    string
	Version string
}

// ExtensionRequirement names an extension a configuration mandates be
// present, as listed by CfgArch.MandatoryExtensionReqs.
type ExtensionRequirement struct {
	Name    string
	Version string
}

// CfgArch is the external, read-only view of the architecture
// configuration a compilation is running against (§6). The core never
// constructs one; it is supplied by the embedding tool (a resolver
// over the IDL's own param/csr/extension declarations sits outside
// this module's scope, per §1's Non-goals).
type CfgArch interface {
	PossibleXlens() []int
	MultiXlen() bool
	Param(name string) (Value, bool)
	ParamsWithValue() map[string]Value
	Csr(name string) (*CsrDescriptor, bool)
	Extension(name string) (*ExtensionInfo, bool)
	MandatoryExtensionReqs() []ExtensionRequirement
	Function(name string) (*FunctionDefNode, bool)
}

// scope is one lexical block's bindings. A slice of these, innermost
// last, forms the Symtab's stack — pushed on block entry (function
// body, if/for body) and popped on exit, mirroring how the teacher's
// own parser tracks nested rule scopes.
type scope struct {
	vars map[string]*Var
}

func newScope() *scope { return &scope{vars: map[string]*Var{}} }

// Symtab is the per-traversal symbol table (§4.2): a stack of lexical
// scopes layered over a CfgArch for architecture-level names (params,
// CSRs, extensions, global functions).
type Symtab struct {
	scopes []*scope
	cfg    CfgArch
	xlen   int
}

// NewSymtab creates a symbol table rooted at a single global scope,
// bound to cfg and fixed at the given xlen (one of cfg.PossibleXlens()).
func NewSymtab(cfg CfgArch, xlen int) *Symtab {
	return &Symtab{scopes: []*scope{newScope()}, cfg: cfg, xlen: xlen}
}

func (s *Symtab) Cfg() CfgArch { return s.cfg }
func (s *Symtab) Xlen() int    { return s.xlen }

// PushScope opens a new nested lexical block.
func (s *Symtab) PushScope() { s.scopes = append(s.scopes, newScope()) }

// PopScope closes the innermost lexical block. It panics if called
// with no pushed scope beyond the root, since that indicates a
// traversal bug (mismatched push/pop), not a recoverable IDL error.
func (s *Symtab) PopScope() {
	if len(s.scopes) <= 1 {
		panic("idl: PopScope called with no pushed scope")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Depth reports how many scopes are currently open, for tests that
// assert push/pop balance (§8 TestAnalysis_ScopeBalance).
func (s *Symtab) Depth() int { return len(s.scopes) }

func (s *Symtab) top() *scope { return s.scopes[len(s.scopes)-1] }

// Define binds name in the innermost scope. It returns an error if
// name already has a binding in that same scope (shadowing an outer
// scope's binding is allowed; redeclaring within one is not).
func (s *Symtab) Define(name string, typ Type, quals Qualifiers, val Value) error {
	top := s.top()
	if _, exists := top.vars[name]; exists {
		return fmt.Errorf("idl: %q already declared in this scope", name)
	}
	top.vars[name] = &Var{Name: name, Type: typ, Qualifiers: quals, Value: val}
	return nil
}

// DefineConst is a convenience for Define with Qualifiers{Const: true}.
func (s *Symtab) DefineConst(name string, typ Type, val Value) error {
	return s.Define(name, typ, Qualifiers{Const: true}, val)
}

// Assign updates the Value bound to an already-declared variable
// in-place, used when the prune pass (C5) learns a variable's value
// along one control-flow path. It does not change Type/Qualifiers.
func (s *Symtab) Assign(name string, val Value) bool {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].vars[name]; ok {
			v.Value = val
			return true
		}
	}
	return false
}

// Lookup searches lexical scopes innermost-out, then falls back to
// the architecture configuration's parameters. Functions are resolved
// by LookupFunction, not here.
func (s *Symtab) Lookup(name string) (*Var, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].vars[name]; ok {
			return v, true
		}
	}
	if s.cfg != nil {
		if val, ok := s.cfg.Param(name); ok {
			return &Var{Name: name, Type: val.Type(), Qualifiers: Qualifiers{Const: true, Global: true}, Value: val}, true
		}
	}
	return nil, false
}

// LookupFunction resolves a bare function name against the
// architecture configuration (IDL has no nested function
// definitions, so this never consults lexical scopes).
func (s *Symtab) LookupFunction(name string) (*FunctionDefNode, bool) {
	if s.cfg == nil {
		return nil, false
	}
	return s.cfg.Function(name)
}

// LookupCsr resolves a CSR name against the architecture configuration.
func (s *Symtab) LookupCsr(name string) (*CsrDescriptor, bool) {
	if s.cfg == nil {
		return nil, false
	}
	return s.cfg.Csr(name)
}

// Child returns a new Symtab sharing this one's cfg/xlen but starting
// a fresh scope stack, used when entering a called function's body
// (§4.3/§4.4): callee bodies never see the caller's locals.
func (s *Symtab) Child() *Symtab {
	return NewSymtab(s.cfg, s.xlen)
}
