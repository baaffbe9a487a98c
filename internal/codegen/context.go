package codegen

import "tinygo.org/x/go-llvm"

// EvaluatedValue pairs a SemanticType with the IR value computed for it. The
// value is absent (the zero llvm.Value) iff Ty is TUnit (spec §3).
type EvaluatedValue struct {
	Ty    SemanticType
	Value llvm.Value
}

// Variable is a stack slot together with the semantic type fixed at its
// creation (spec §3). Reassignment with a different type fails.
type Variable struct {
	Ptr llvm.Value
	Ty  SemanticType
}

// FunctionContext is the flat, non-scoped mapping from identifier to
// Variable scoped to one user function (spec §3, design note in spec §9).
// Unlike the teacher's nested scope stack (vslc ir/llvm symTab pushed per
// BLOCK), otter has no block statement that opens a sub-scope, so a single
// flat map is the faithful rendition — blocks may be added later without
// changing any program's observable behaviour.
type FunctionContext struct {
	vars map[string]Variable
}

// newFunctionContext returns an empty context.
func newFunctionContext() *FunctionContext {
	return &FunctionContext{vars: make(map[string]Variable, 8)}
}

// Get looks up name, returning ok=false if it is not bound.
func (c *FunctionContext) Get(name string) (Variable, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Set binds name to v, creating or overwriting the binding.
func (c *FunctionContext) Set(name string, v Variable) {
	c.vars[name] = v
}
