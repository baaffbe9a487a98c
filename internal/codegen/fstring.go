package codegen

import (
	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
)

// fstringHelpers are the four symbols the runtime shim exposes for
// interpolated-string lowering (spec §4.6, §4.7). They sit outside the
// symbol registry because they are a codegen-internal lowering detail, not a
// source-visible name a program can call directly.
const (
	fstringFormatFloat   = "otter_format_float"
	fstringFormatInt     = "otter_format_int"
	fstringConcat        = "otter_concat_strings"
	fstringFreeFormatted = "otter_free_string_ptr"
)

// evalFString lowers an interpolated string to a chain of runtime
// concatenation calls (spec §4.6): each literal chunk and each formatted
// expression result is concatenated in turn. Formatted scalar buffers are
// freed once consumed; the running concatenation result is not freed — a
// recognized ownership gap carried over from the original implementation
// (spec §9).
func (c *Compiler) evalFString(fs ast.FString, fn llvm.Value, ctx *FunctionContext) (EvaluatedValue, error) {
	result := c.builder.CreateGlobalStringPtr("", "empty_str")

	for _, part := range fs.Parts {
		var chunk llvm.Value
		var freeAfter bool

		switch part.Kind {
		case ast.FStringText:
			chunk = c.builder.CreateGlobalStringPtr(part.Text, "fstr_text")
		case ast.FStringExpr:
			evaluated, err := c.evalExpr(*part.Expr, fn, ctx)
			if err != nil {
				return EvaluatedValue{}, err
			}
			chunk, freeAfter, err = c.formatFStringValue(evaluated)
			if err != nil {
				return EvaluatedValue{}, err
			}
		default:
			return EvaluatedValue{}, newErr(KindUnsupportedFeature, "unrecognized f-string part kind %q", part.Kind)
		}

		next, err := c.fstringConcat(result, chunk)
		if err != nil {
			return EvaluatedValue{}, err
		}
		if freeAfter {
			if _, err := c.fstringFree(chunk); err != nil {
				return EvaluatedValue{}, err
			}
		}
		result = next
	}

	return EvaluatedValue{Ty: TStr, Value: result}, nil
}

// formatFStringValue renders one f-string expression result as a string
// pointer. Str values pass through unformatted; F64 and I64 values are
// formatted by the runtime and must be freed by the caller once consumed.
func (c *Compiler) formatFStringValue(v EvaluatedValue) (llvm.Value, bool, error) {
	switch v.Ty {
	case TF64:
		formatted, err := c.callFStringHelper(fstringFormatFloat, []llvm.Value{v.Value}, "format_float")
		return formatted, true, err
	case TI64, TI32:
		formatted, err := c.callFStringHelper(fstringFormatInt, []llvm.Value{v.Value}, "format_int")
		return formatted, true, err
	case TStr:
		return v.Value, false, nil
	default:
		return llvm.Value{}, false, newErr(KindTypeCheck, "unsupported type in f-string: %s", v.Ty)
	}
}

// fstringConcat calls the runtime's string concatenation helper.
func (c *Compiler) fstringConcat(a, b llvm.Value) (llvm.Value, error) {
	return c.callFStringHelper(fstringConcat, []llvm.Value{a, b}, "concat")
}

// fstringFree calls the runtime's scalar-buffer free helper.
func (c *Compiler) fstringFree(ptr llvm.Value) (llvm.Value, error) {
	return c.callFStringHelper(fstringFreeFormatted, []llvm.Value{ptr}, "free")
}

// callFStringHelper declares (idempotently, keyed by symbol name like every
// other runtime call) and invokes one of the f-string lowering helpers.
func (c *Compiler) callFStringHelper(symbol string, args []llvm.Value, callName string) (llvm.Value, error) {
	if existing, ok := c.declared[symbol]; ok {
		return c.builder.CreateCall(existing, args, callName), nil
	}
	if existing := c.module.NamedFunction(symbol); !existing.IsNil() {
		c.declared[symbol] = existing
		return c.builder.CreateCall(existing, args, callName), nil
	}

	strPtrType := llvm.PointerType(llvm.Int8Type(), 0)
	var fnType llvm.Type
	switch symbol {
	case fstringFormatFloat:
		fnType = llvm.FunctionType(strPtrType, []llvm.Type{llvm.DoubleType()}, false)
	case fstringFormatInt:
		fnType = llvm.FunctionType(strPtrType, []llvm.Type{llvm.Int64Type()}, false)
	case fstringConcat:
		fnType = llvm.FunctionType(strPtrType, []llvm.Type{strPtrType, strPtrType}, false)
	case fstringFreeFormatted:
		fnType = llvm.FunctionType(llvm.VoidType(), []llvm.Type{strPtrType}, false)
	default:
		return llvm.Value{}, newErr(KindToolchain, "unknown f-string helper %q", symbol)
	}

	fn := llvm.AddFunction(c.module, symbol, fnType)
	c.declared[symbol] = fn
	return c.builder.CreateCall(fn, args, callName), nil
}
