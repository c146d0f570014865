package idl

import "fmt"

// InstructionResult is one instruction's rendered output (§6 Output
// contract): its own operation body, plus every helper function it
// transitively reaches, already topologically irrelevant since the
// emitter only needs them in `SortedReachableNames` order.
type InstructionResult struct {
	Name    string
	Body    string
	Helpers []HelperResult
}

// HelperResult is one reachable helper function's rendered prototype
// and body.
type HelperResult struct {
	Name      string
	Prototype string
	Body      string
}

// CompileInstruction runs the full C4→C5→C6 pipeline over one
// instruction's operation body: analyze, prune, then emit the pruned
// body plus every function it transitively reaches (§4.4
// reachable_functions, in SortedReachableNames order per §5's
// ordering guarantee).
func CompileInstruction(name string, body *FunctionBodyNode, s *Symtab, cache *Cache, cfg *Config) (*InstructionResult, error) {
	pruned := body
	if cfg.GetBool("compiler.prune") {
		p := Prune(body, s)
		fb, ok := p.(*FunctionBodyNode)
		if !ok {
			return nil, &InternalError{Range: body.Range(), Pass: "pipeline", Message: "prune of a function body did not yield a function body"}
		}
		pruned = fb
	}

	opts := GenCppOptions{IndentSpaces: cfg.GetString("emit.indent")}
	bodyCpp, err := GenCpp(pruned, s, opts)
	if err != nil {
		return nil, fmt.Errorf("instruction %s: %w", name, err)
	}

	reachable := ReachableFunctions(pruned, s, cache)
	result := &InstructionResult{Name: name, Body: bodyCpp}
	for _, fname := range SortedReachableNames(reachable) {
		fn := reachable[fname]
		helper, err := compileHelper(fn, s, cache, cfg)
		if err != nil {
			return nil, fmt.Errorf("instruction %s: %w", name, err)
		}
		result.Helpers = append(result.Helpers, *helper)
	}
	return result, nil
}

func compileHelper(fn *FunctionDefNode, s *Symtab, cache *Cache, cfg *Config) (*HelperResult, error) {
	if fn.Body == nil {
		return &HelperResult{Name: fn.Name, Prototype: FunctionPrototype(fn) + ";"}, nil
	}
	child := s.Child()
	for _, p := range fn.Params {
		if err := child.DefineConst(p.Name, p.Type, nil); err != nil {
			return nil, &InternalError{Range: fn.Range(), Pass: "pipeline", Message: err.Error()}
		}
	}

	body := fn.Body
	if cfg.GetBool("compiler.prune") {
		p := Prune(fn.Body, child)
		fb, ok := p.(*FunctionBodyNode)
		if !ok {
			return nil, &InternalError{Range: fn.Range(), Pass: "pipeline", Message: "prune of a function body did not yield a function body"}
		}
		body = fb
	}

	opts := GenCppOptions{IndentSpaces: cfg.GetString("emit.indent")}
	bodyCpp, err := GenCpp(body, child, opts)
	if err != nil {
		return nil, err
	}
	return &HelperResult{Name: fn.Name, Prototype: FunctionPrototype(fn), Body: bodyCpp}, nil
}

// CompileCsrField renders a CSR field's type() method body (§6 Output
// contract): a constant `return CsrFieldType::<symbol>;` when the
// expression folds to a known enum value, otherwise the fully rendered
// function that computes it at runtime.
func CompileCsrField(typeExpr AstNode, s *Symtab, cfg *Config) (string, error) {
	if cfg.GetBool("compiler.fold_constants") {
		if val, ok := typeExpr.Value(s); ok {
			if ev, ok := val.(EnumValue); ok {
				return fmt.Sprintf("return CsrFieldType::%s;", ev.ValueName), nil
			}
		}
	}

	pruned := typeExpr
	if cfg.GetBool("compiler.prune") {
		pruned = Prune(typeExpr, s)
	}
	opts := GenCppOptions{IndentSpaces: cfg.GetString("emit.indent")}
	cpp, err := GenCpp(pruned, s, opts)
	if err != nil {
		return "", err
	}
	return "return " + cpp + ";", nil
}
