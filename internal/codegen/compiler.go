// Package codegen is the code generation core: it lowers a validated
// ast.Program and a symbols.Registry to LLVM-family IR, runs a canned scalar
// optimisation pipeline, emits an object file, and links it against the
// embedded C runtime shim into a native executable (spec §1–§4).
//
// The lowering itself is grounded on the original otterlang Rust compiler's
// codegen/llvm.rs, rewritten in the teacher vslc compiler's Go-over-LLVM
// idiom (ir/llvm/transform.go): one Compiler per build session owning one
// context, one module and one builder (spec §5 — single-threaded, no shared
// mutable state beyond the read-only symbol registry).
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
	"otterc/internal/symbols"
)

// BuildArtifact is the code generator's output: the path of the linked
// executable and, if requested, a textual IR snapshot captured before
// optimisation (spec §3).
type BuildArtifact struct {
	Binary string
	IR     string
	HasIR  bool
}

// Compiler owns the IR context, module and builder for one build session.
type Compiler struct {
	ctx      llvm.Context
	module   llvm.Module
	builder  llvm.Builder
	registry *symbols.Registry

	// declared caches, per resolved FFI symbol name, the IR function already
	// declared for it — enforcing the declaration-idempotence invariant of
	// spec §8 independent of how many source names alias the same symbol.
	declared map[string]llvm.Value
}

// BuildExecutable is the Driver's public contract (spec §4.1): lower
// program, verify, optionally snapshot IR, select the native target, run the
// optimisation pipeline, emit an object file, and link it with the runtime
// shim into outputPath.
func BuildExecutable(program *ast.Program, outputPath string, opts Options, registry *symbols.Registry) (BuildArtifact, error) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	module := ctx.NewModule("otter")
	defer module.Dispose()

	builder := ctx.NewBuilder()
	defer builder.Dispose()

	c := &Compiler{
		ctx:      ctx,
		module:   module,
		builder:  builder,
		registry: registry,
		declared: make(map[string]llvm.Value, 16),
	}

	if err := c.lowerProgram(program); err != nil {
		return BuildArtifact{}, err
	}

	if err := llvm.VerifyModule(module, llvm.ReturnStatusAction); err != nil {
		return BuildArtifact{}, wrapErr(KindIRVerification, err, "LLVM module verification failed")
	}

	var artifact BuildArtifact
	if opts.EmitIR {
		// Snapshot before optimisation may rewrite the module (spec §4.1 step 4).
		artifact.IR = module.String()
		artifact.HasIR = true
	}

	tm, err := createTargetMachine(opts.OptLevel)
	if err != nil {
		return BuildArtifact{}, err
	}
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	module.SetDataLayout(td.String())
	module.SetTarget(tm.Triple())

	runDefaultPasses(module, opts.OptLevel)

	objectPath, err := emitObject(tm, module, outputPath)
	if err != nil {
		return BuildArtifact{}, err
	}

	if err := linkExecutable(objectPath, outputPath, opts.EnableLTO); err != nil {
		return BuildArtifact{}, err
	}

	artifact.Binary = outputPath
	return artifact, nil
}

// lowerProgram implements the two-pass function declarator (spec §4.4) and
// fails if the program has no functions or no function named "main".
func (c *Compiler) lowerProgram(program *ast.Program) error {
	functions := program.Functions()
	if len(functions) == 0 {
		return newErr(KindInputProgram, "program contains no functions")
	}

	hasMain := false
	for _, fn := range functions {
		if fn.Name == "main" {
			hasMain = true
		}
		if _, err := c.declareFunction(fn); err != nil {
			return err
		}
	}
	if !hasMain {
		return newErr(KindInputProgram, "entry function `main` not found")
	}

	for _, fn := range functions {
		if err := c.lowerFunctionBody(fn); err != nil {
			return err
		}
	}
	return nil
}

// paramType returns the declared semantic type of a parameter, defaulting to
// F64 when no annotation is present (spec §3).
func paramType(p ast.Param) (SemanticType, error) {
	if p.Ty == nil {
		return TF64, nil
	}
	return typeFromName(*p.Ty)
}

// returnType returns the declared semantic type of a function's result,
// defaulting to I32 when no annotation is present (spec §3).
func returnType(fn *ast.Function) (SemanticType, error) {
	if fn.RetTy == nil {
		return TI32, nil
	}
	return typeFromName(*fn.RetTy)
}

// declareFunction adds an IR declaration (no body) for fn so call sites can
// reference any user function regardless of source order (spec §4.4 pass 1).
func (c *Compiler) declareFunction(fn *ast.Function) (llvm.Value, error) {
	paramTypes := make([]llvm.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		ty, err := paramType(p)
		if err != nil {
			return llvm.Value{}, err
		}
		llty, err := c.basicType(ty)
		if err != nil {
			return llvm.Value{}, err
		}
		paramTypes = append(paramTypes, llty)
	}

	retTy, err := returnType(fn)
	if err != nil {
		return llvm.Value{}, err
	}

	var fnType llvm.Type
	if retTy == TUnit {
		fnType = llvm.FunctionType(llvm.VoidType(), paramTypes, false)
	} else {
		retLLType, err := c.basicType(retTy)
		if err != nil {
			return llvm.Value{}, err
		}
		fnType = llvm.FunctionType(retLLType, paramTypes, false)
	}

	llfn := llvm.AddFunction(c.module, fn.Name, fnType)
	for i, p := range fn.Params {
		llfn.Param(i).SetName(p.Name)
	}
	return llfn, nil
}

// lowerFunctionBody emits fn's body into the IR function declared for it in
// pass 1, then appends a default return if control can fall off the end
// (spec §4.4 pass 2, the "default-return law" of spec §8).
func (c *Compiler) lowerFunctionBody(fn *ast.Function) error {
	llfn := c.module.NamedFunction(fn.Name)
	if llfn.IsNil() {
		return newErr(KindInputProgram, "function %q not declared", fn.Name)
	}

	entry := llvm.AddBasicBlock(llfn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	fctx := newFunctionContext()
	for i, p := range fn.Params {
		ty, err := paramType(p)
		if err != nil {
			return err
		}
		llty, err := c.basicType(ty)
		if err != nil {
			return err
		}
		alloc := c.builder.CreateAlloca(llty, p.Name)
		c.builder.CreateStore(llfn.Param(i), alloc)
		fctx.Set(p.Name, Variable{Ptr: alloc, Ty: ty})
	}

	for _, stmt := range fn.Body {
		if err := c.lowerStatement(stmt, llfn, fctx); err != nil {
			return err
		}
	}

	if !c.blockHasTerminator() {
		retTy, err := returnType(fn)
		if err != nil {
			return err
		}
		if retTy == TUnit {
			c.builder.CreateRetVoid()
		} else {
			llty, err := c.basicType(retTy)
			if err != nil {
				return err
			}
			c.builder.CreateRet(llvm.ConstNull(llty))
		}
	}
	return nil
}

// blockHasTerminator reports whether the builder's current insertion block
// already ends in a terminator, gating every implicit fallthrough branch
// (spec §4.5 state-machine note).
func (c *Compiler) blockHasTerminator() bool {
	last := c.builder.GetInsertBlock().LastInstruction()
	return !last.IsNil() && !last.IsATerminatorInst().IsNil()
}

// callUserFunctionName is the special-cased error text helper used across
// call dispatch to keep messages consistent with the spec's "including the
// offending name" requirement (spec §6).
func callUserFunctionName(name string) string {
	return fmt.Sprintf("function `%s`", name)
}
