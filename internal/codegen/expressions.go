package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
	"otterc/internal/symbols"
)

// evalExpr lowers one expression and returns its value together with the
// semantic type it carries (spec §4.6). fn is the enclosing IR function,
// passed through to the lowering of nested expressions; user functions
// themselves are looked up in the module by name.
func (c *Compiler) evalExpr(expr ast.Expr, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	switch expr.Typ {
	case ast.ExprLiteral:
		return c.evalLiteral(*expr.Literal)
	case ast.ExprIdent:
		return c.evalIdent(expr.Ident, ctx)
	case ast.ExprBinary:
		return c.evalBinary(*expr.Binary, fn, ctx)
	case ast.ExprUnary:
		return c.evalUnary(*expr.Unary, fn, ctx)
	case ast.ExprCall:
		return c.evalCall(*expr.Call, fn, ctx)
	case ast.ExprMember:
		return c.evalMember(*expr.Member)
	case ast.ExprFString:
		return c.evalFString(*expr.FString, fn, ctx)
	case ast.ExprRange:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "range expressions can only be used in for loops")
	case ast.ExprIf:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "if expressions are not implemented")
	case ast.ExprAwait:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "await expressions are not implemented")
	case ast.ExprSpawn:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "spawn expressions are not implemented")
	default:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "unrecognized expression kind %q", expr.Typ)
	}
}

// evalLiteral lowers a constant (spec §4.6): strings become global constant
// string pointers, numbers become f64 constants, booleans become i1
// constants.
func (c *Compiler) evalLiteral(lit ast.Literal) (EvaluatedValue, error) {
	switch lit.Kind {
	case ast.LiteralString:
		ptr := c.builder.CreateGlobalStringPtr(lit.Str, "str")
		return EvaluatedValue{Ty: TStr, Value: ptr}, nil
	case ast.LiteralNumber:
		v := llvm.ConstFloat(llvm.DoubleType(), lit.Number)
		return EvaluatedValue{Ty: TF64, Value: v}, nil
	case ast.LiteralBool:
		bit := uint64(0)
		if lit.Bool {
			bit = 1
		}
		v := llvm.ConstInt(llvm.Int1Type(), bit, false)
		return EvaluatedValue{Ty: TBool, Value: v}, nil
	default:
		return EvaluatedValue{}, newErr(KindInputProgram, "unrecognized literal kind %q", lit.Kind)
	}
}

// evalIdent loads a bound variable's current value (spec §4.6).
func (c *Compiler) evalIdent(name string, ctx *FunctionContext) (EvaluatedValue, error) {
	v, ok := ctx.Get(name)
	if !ok {
		return EvaluatedValue{}, newErr(KindNameResolution, "unknown identifier `%s`", name)
	}
	loaded := c.builder.CreateLoad(v.Ptr, name)
	return EvaluatedValue{Ty: v.Ty, Value: loaded}, nil
}

// evalBinary lowers a two-operand expression (spec §4.6). Operands are
// coerced per the binary-expression rule (spec §4.2); all arithmetic and
// comparison is implemented over doubles only, a recognized gap (spec §9).
// Logical `and`/`or` are not implemented, matching the original.
func (c *Compiler) evalBinary(b ast.Binary, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	left, err := c.evalExpr(*b.Left, fn, ctx)
	if err != nil {
		return EvaluatedValue{}, err
	}
	right, err := c.evalExpr(*b.Right, fn, ctx)
	if err != nil {
		return EvaluatedValue{}, err
	}

	if b.Op == ast.OpAnd || b.Op == ast.OpOr {
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "logical %q is not implemented", b.Op)
	}

	left, right, err = c.coerceBinaryOperands(left, right)
	if err != nil {
		return EvaluatedValue{}, err
	}

	lhs, rhs := left.Value, right.Value
	switch b.Op {
	case ast.OpAdd:
		return EvaluatedValue{Ty: TF64, Value: c.builder.CreateFAdd(lhs, rhs, "addtmp")}, nil
	case ast.OpSub:
		return EvaluatedValue{Ty: TF64, Value: c.builder.CreateFSub(lhs, rhs, "subtmp")}, nil
	case ast.OpMul:
		return EvaluatedValue{Ty: TF64, Value: c.builder.CreateFMul(lhs, rhs, "multmp")}, nil
	case ast.OpDiv:
		return EvaluatedValue{Ty: TF64, Value: c.builder.CreateFDiv(lhs, rhs, "divtmp")}, nil
	case ast.OpMod:
		return EvaluatedValue{Ty: TF64, Value: c.builder.CreateFRem(lhs, rhs, "modtmp")}, nil
	case ast.OpEq:
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateFCmp(llvm.FloatOEQ, lhs, rhs, "eqtmp")}, nil
	case ast.OpNe:
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateFCmp(llvm.FloatONE, lhs, rhs, "neqtmp")}, nil
	case ast.OpLt:
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateFCmp(llvm.FloatOLT, lhs, rhs, "lttmp")}, nil
	case ast.OpGt:
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateFCmp(llvm.FloatOGT, lhs, rhs, "gttmp")}, nil
	case ast.OpLe:
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateFCmp(llvm.FloatOLE, lhs, rhs, "letmp")}, nil
	case ast.OpGe:
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateFCmp(llvm.FloatOGE, lhs, rhs, "getmp")}, nil
	default:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "unrecognized binary operator %q", b.Op)
	}
}

// evalUnary lowers a one-operand expression (spec §4.6): negation on floats,
// logical not on booleans.
func (c *Compiler) evalUnary(u ast.Unary, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	val, err := c.evalExpr(*u.Expr, fn, ctx)
	if err != nil {
		return EvaluatedValue{}, err
	}
	switch u.Op {
	case ast.OpNeg:
		if val.Ty != TF64 {
			return EvaluatedValue{}, newErr(KindTypeCheck, "negation only supported for floats currently, got %s", val.Ty)
		}
		return EvaluatedValue{Ty: TF64, Value: c.builder.CreateFNeg(val.Value, "negtmp")}, nil
	case ast.OpNot:
		if val.Ty != TBool {
			return EvaluatedValue{}, newErr(KindTypeCheck, "logical not only supported for booleans, got %s", val.Ty)
		}
		return EvaluatedValue{Ty: TBool, Value: c.builder.CreateNot(val.Value, "nottmp")}, nil
	default:
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "unrecognized unary operator %q", u.Op)
	}
}

// evalCall dispatches a call expression to one of the shapes spec §4.6 names:
// the print/println built-ins, a module.field member call, a registry-
// resolved bare-identifier call, or a user-defined function call.
func (c *Compiler) evalCall(call ast.Call, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	if call.Func.Typ == ast.ExprIdent {
		switch call.Func.Ident {
		case "print", "println":
			return c.evalPrintBuiltin(call.Func.Ident, call.Args, fn, ctx)
		}
	}

	if call.Func.Typ == ast.ExprMember && call.Func.Member.Object.Typ == ast.ExprIdent {
		return c.evalMemberCall(*call.Func.Member, call.Args, fn, ctx)
	}

	if call.Func.Typ == ast.ExprIdent {
		return c.evalIdentCall(call.Func.Ident, call.Args, fn, ctx)
	}

	return EvaluatedValue{}, newErr(KindUnsupportedFeature, "only identifier and module.field calls are supported")
}

// evalPrintBuiltin lowers `print`/`println` — both route to the runtime's
// println symbol since the shim's `print` writes no trailing newline but the
// original language's print/println are otherwise identical string sinks.
func (c *Compiler) evalPrintBuiltin(name string, args []ast.Expr, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	if len(args) != 1 {
		return EvaluatedValue{}, newErr(KindInputProgram, "%s expects exactly 1 argument", name)
	}
	val, err := c.evalExpr(args[0], fn, ctx)
	if err != nil {
		return EvaluatedValue{}, err
	}
	if val.Ty != TStr {
		return EvaluatedValue{}, newErr(KindTypeCheck, "%s currently supports only string values, got %s", name, val.Ty)
	}
	if _, err := c.callSymbol("std.io.println", []llvm.Value{val.Value}); err != nil {
		return EvaluatedValue{}, err
	}
	return EvaluatedValue{Ty: TUnit}, nil
}

// evalMemberCall lowers a `module.field(args...)` call (spec §4.6). `time.now`
// is special-cased: the runtime returns milliseconds as i64, widened here to
// f64 so callers see a single numeric type. Any other module.field is
// resolved against the registry like a bare identifier.
func (c *Compiler) evalMemberCall(m ast.Member, args []ast.Expr, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	module := m.Object.Ident
	fullName := symbols.Canonicalize(module, m.Field)

	if fullName == "std.time.now" {
		result, err := c.callSymbol("std.time.now", nil)
		if err != nil {
			return EvaluatedValue{}, err
		}
		v := result
		if v.Type().TypeKind() == llvm.IntegerTypeKind {
			v = c.builder.CreateSIToFP(v, llvm.DoubleType(), "int_to_float")
		}
		return EvaluatedValue{Ty: TF64, Value: v}, nil
	}

	entry, ok := c.registry.Resolve(fullName)
	if !ok {
		return EvaluatedValue{}, newErr(KindNameResolution, "unknown member access: %s.%s", module, m.Field)
	}
	return c.evalResolvedCall(fullName, entry, args, fn, ctx)
}

// evalIdentCall lowers a bare-identifier call: first against the symbol
// registry, falling back to a user-defined function declared in this module
// (spec §4.6).
func (c *Compiler) evalIdentCall(name string, args []ast.Expr, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	if entry, ok := c.registry.Resolve(name); ok {
		return c.evalResolvedCall(name, entry, args, fn, ctx)
	}

	target := c.module.NamedFunction(name)
	if target.IsNil() {
		return EvaluatedValue{}, newErr(KindNameResolution, "unknown %s", callUserFunctionName(name))
	}
	return c.evalUserFunctionCall(name, target, args, fn, ctx)
}

// evalResolvedCall lowers a call to a registry-resolved FFI symbol: argument
// count and type must match the declared signature exactly (spec §4.6); no
// call-site coercion applies here, unlike user-function calls.
func (c *Compiler) evalResolvedCall(name string, entry symbols.Entry, args []ast.Expr, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	if len(entry.Signature.Params) != len(args) {
		return EvaluatedValue{}, newErr(KindInputProgram,
			"%s expected %d arguments but got %d", callUserFunctionName(name), len(entry.Signature.Params), len(args))
	}

	lowered := make([]llvm.Value, 0, len(args))
	for i, argExpr := range args {
		val, err := c.evalExpr(argExpr, fn, ctx)
		if err != nil {
			return EvaluatedValue{}, err
		}
		expected := fromFfiType(entry.Signature.Params[i])
		if val.Ty != expected {
			return EvaluatedValue{}, newErr(KindTypeCheck,
				"argument type mismatch for `%s`: expected %s, found %s", name, expected, val.Ty)
		}
		lowered = append(lowered, val.Value)
	}

	result, err := c.callSymbol(name, lowered)
	if err != nil {
		return EvaluatedValue{}, err
	}
	resultTy := fromFfiType(entry.Signature.Result)
	if resultTy == TUnit {
		return EvaluatedValue{Ty: TUnit}, nil
	}
	return EvaluatedValue{Ty: resultTy, Value: result}, nil
}

// evalUserFunctionCall lowers a call to a function declared elsewhere in this
// module. Arguments are coerced per the call-site rule (spec §4.2); the
// result's semantic type is recovered from the callee's declared LLVM return
// type (spec §4.6 case 4).
func (c *Compiler) evalUserFunctionCall(name string, target llvm.Value, args []ast.Expr, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	fnType := target.Type().ElementType()
	paramTypes := fnType.ParamTypes()

	lowered := make([]llvm.Value, 0, len(args))
	for i, argExpr := range args {
		val, err := c.evalExpr(argExpr, fn, ctx)
		if err != nil {
			return EvaluatedValue{}, err
		}
		if i < len(paramTypes) {
			val = c.coerceCallArgument(paramTypes[i], val)
		}
		lowered = append(lowered, val.Value)
	}

	call := c.builder.CreateCall(target, lowered, fmt.Sprintf("call_%s", name))
	retTy := fnType.ReturnType()
	if retTy.TypeKind() == llvm.VoidTypeKind {
		return EvaluatedValue{Ty: TUnit}, nil
	}
	return EvaluatedValue{Ty: inferReturnType(retTy), Value: call}, nil
}

// evalMember lowers standalone member access, i.e. `module.field` used as a
// value rather than called. It is lowered as a zero-argument call: `time.now`
// and `io.read_line` are the zero-argument members the bootstrap registry
// exposes, and any other resolved entry must also take no arguments.
func (c *Compiler) evalMember(m ast.Member) (EvaluatedValue, error) {
	if m.Object.Typ != ast.ExprIdent {
		return EvaluatedValue{}, newErr(KindUnsupportedFeature, "member access currently only supports module.field syntax")
	}
	return c.evalMemberCall(m, nil, llvm.Value{}, nil)
}

// callSymbol declares (idempotently) and calls the registry entry resolved
// for name, returning its raw IR result (spec §4.6, §8).
func (c *Compiler) callSymbol(name string, args []llvm.Value) (llvm.Value, error) {
	target, err := c.declareSymbolFunction(name)
	if err != nil {
		return llvm.Value{}, err
	}
	callName := "call_" + sanitizeCallName(name)
	return c.builder.CreateCall(target, args, callName), nil
}

// declareSymbolFunction returns the IR function for the registry entry
// resolved for name, declaring it on first use and reusing the cached
// declaration afterward — the declaration-idempotence invariant (spec §8).
func (c *Compiler) declareSymbolFunction(name string) (llvm.Value, error) {
	entry, ok := c.registry.Resolve(name)
	if !ok {
		return llvm.Value{}, newErr(KindNameResolution, "unresolved symbol `%s`", name)
	}

	if existing, ok := c.declared[entry.Symbol]; ok {
		return existing, nil
	}
	if existing := c.module.NamedFunction(entry.Symbol); !existing.IsNil() {
		c.declared[entry.Symbol] = existing
		return existing, nil
	}

	fnType, err := c.ffiSignatureToFnType(entry.Signature)
	if err != nil {
		return llvm.Value{}, err
	}
	fn := llvm.AddFunction(c.module, entry.Symbol, fnType)
	c.declared[entry.Symbol] = fn
	return fn, nil
}

// ffiSignatureToFnType builds the IR function type for an FFI signature
// (spec §4.6).
func (c *Compiler) ffiSignatureToFnType(sig symbols.FfiSignature) (llvm.Type, error) {
	params, err := c.ffiParamTypes(sig.Params)
	if err != nil {
		return llvm.Type{}, err
	}
	if sig.Result == symbols.FfiUnit {
		return llvm.FunctionType(llvm.VoidType(), params, false), nil
	}
	resultTy, err := c.basicType(fromFfiType(sig.Result))
	if err != nil {
		return llvm.Type{}, err
	}
	return llvm.FunctionType(resultTy, params, false), nil
}

// ffiParamTypes maps each FfiType parameter onto its LLVM IR representation.
func (c *Compiler) ffiParamTypes(params []symbols.FfiType) ([]llvm.Type, error) {
	out := make([]llvm.Type, 0, len(params))
	for _, p := range params {
		if p == symbols.FfiUnit {
			return nil, newErr(KindInputProgram, "unit type is not allowed in FFI parameter position")
		}
		ty, err := c.basicType(fromFfiType(p))
		if err != nil {
			return nil, err
		}
		out = append(out, ty)
	}
	return out, nil
}

// sanitizeCallName turns a dotted registry name into a valid IR value-name
// fragment.
func sanitizeCallName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
