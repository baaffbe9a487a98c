package codegen

import (
	"tinygo.org/x/go-llvm"

	"otterc/internal/symbols"
)

// SemanticType is the closed set of semantic types the code generator
// reasons about (spec §3).
type SemanticType int

// Recognized semantic types.
const (
	TUnit SemanticType = iota
	TBool
	TI32
	TI64
	TF64
	TStr
)

func (t SemanticType) String() string {
	switch t {
	case TUnit:
		return "unit"
	case TBool:
		return "bool"
	case TI32:
		return "i32"
	case TI64:
		return "i64"
	case TF64:
		return "f64"
	case TStr:
		return "str"
	default:
		return "unknown"
	}
}

// fromFfiType converts a registry FfiType into the matching SemanticType.
// The two are isomorphic by construction (spec §3).
func fromFfiType(t symbols.FfiType) SemanticType {
	switch t {
	case symbols.FfiUnit:
		return TUnit
	case symbols.FfiBool:
		return TBool
	case symbols.FfiI32:
		return TI32
	case symbols.FfiI64:
		return TI64
	case symbols.FfiF64:
		return TF64
	case symbols.FfiStr:
		return TStr
	default:
		return TUnit
	}
}

// typeFromName maps a source type annotation to a SemanticType (spec §3's
// TypeName→SemanticType table). Unknown names fail lowering.
func typeFromName(name string) (SemanticType, error) {
	switch name {
	case "int":
		return TI64, nil
	case "float":
		return TF64, nil
	case "bool":
		return TBool, nil
	case "str":
		return TStr, nil
	default:
		return TUnit, newErr(KindInputProgram, "unknown type annotation %q", name)
	}
}

// basicType maps a SemanticType onto its LLVM IR representation (spec §4.2).
// Unit has no runtime representation and is invalid here.
func (c *Compiler) basicType(t SemanticType) (llvm.Type, error) {
	switch t {
	case TBool:
		return llvm.Int1Type(), nil
	case TI32:
		return llvm.Int32Type(), nil
	case TI64:
		return llvm.Int64Type(), nil
	case TF64:
		return llvm.DoubleType(), nil
	case TStr:
		return llvm.PointerType(llvm.Int8Type(), 0), nil
	default:
		return llvm.Type{}, newErr(KindTypeCheck, "unit type has no runtime representation")
	}
}

// coerceBinaryOperands applies the binary-expression coercion rule (spec
// §4.2): if exactly one operand is I64 and the other F64, the I64 operand is
// promoted to F64. Both operands must then be F64 — arithmetic and
// comparison is only implemented over doubles, a recognized gap (spec §9).
func (c *Compiler) coerceBinaryOperands(left, right EvaluatedValue) (EvaluatedValue, EvaluatedValue, error) {
	if left.Ty == TI64 && right.Ty == TF64 {
		left = EvaluatedValue{Ty: TF64, Value: c.builder.CreateSIToFP(left.Value, llvm.DoubleType(), "inttofloat")}
	} else if left.Ty == TF64 && right.Ty == TI64 {
		right = EvaluatedValue{Ty: TF64, Value: c.builder.CreateSIToFP(right.Value, llvm.DoubleType(), "inttofloat")}
	}

	if left.Ty != right.Ty {
		return EvaluatedValue{}, EvaluatedValue{}, newErr(KindTypeCheck,
			"binary operation type mismatch: %s vs %s", left.Ty, right.Ty)
	}
	if left.Ty != TF64 {
		return EvaluatedValue{}, EvaluatedValue{}, newErr(KindTypeCheck,
			"binary expressions currently support only f64 operands, got %s", left.Ty)
	}
	return left, right, nil
}

// rangeLoopKind is the result of applying the range-loop coercion rule
// (spec §4.2).
type rangeLoopKind struct {
	ty      SemanticType // TI64 or TF64.
	isFloat bool
}

// coerceRangeOperands applies the range-loop coercion rule (spec §4.2).
func (c *Compiler) coerceRangeOperands(start, end EvaluatedValue) (EvaluatedValue, EvaluatedValue, rangeLoopKind, error) {
	switch {
	case start.Ty == TF64 && end.Ty == TF64:
		return start, end, rangeLoopKind{ty: TF64, isFloat: true}, nil
	case start.Ty == TI64 && end.Ty == TI64:
		return start, end, rangeLoopKind{ty: TI64, isFloat: false}, nil
	case start.Ty == TI32 && end.Ty == TI32:
		start = EvaluatedValue{Ty: TI64, Value: c.builder.CreateSExt(start.Value, llvm.Int64Type(), "start_to_i64")}
		end = EvaluatedValue{Ty: TI64, Value: c.builder.CreateSExt(end.Value, llvm.Int64Type(), "end_to_i64")}
		return start, end, rangeLoopKind{ty: TI64, isFloat: false}, nil
	case start.Ty == TF64 && end.Ty == TI64:
		end = EvaluatedValue{Ty: TF64, Value: c.builder.CreateSIToFP(end.Value, llvm.DoubleType(), "end_to_float")}
		return start, end, rangeLoopKind{ty: TF64, isFloat: true}, nil
	case start.Ty == TI64 && end.Ty == TF64:
		start = EvaluatedValue{Ty: TF64, Value: c.builder.CreateSIToFP(start.Value, llvm.DoubleType(), "start_to_float")}
		return start, end, rangeLoopKind{ty: TF64, isFloat: true}, nil
	default:
		return EvaluatedValue{}, EvaluatedValue{}, rangeLoopKind{},
			newErr(KindTypeCheck, "for loop range start and end must be numeric types, got %s and %s", start.Ty, end.Ty)
	}
}

// coerceCallArgument applies the user-function call-site coercion rule
// (spec §4.2): int-declared parameters accept a float-to-int conversion of
// an F64 actual, float-declared parameters accept an int-to-float conversion
// of an I64 actual. Any other mismatch propagates unconverted and is left to
// fail verification.
func (c *Compiler) coerceCallArgument(declared llvm.Type, actual EvaluatedValue) EvaluatedValue {
	if declared.TypeKind() != llvm.PointerTypeKind {
		if isIntKind(declared) && actual.Ty == TF64 {
			v := c.builder.CreateFPToSI(actual.Value, llvm.Int64Type(), "float_to_int")
			return EvaluatedValue{Ty: TI64, Value: v}
		}
		if declared.TypeKind() == llvm.DoubleTypeKind && actual.Ty == TI64 {
			v := c.builder.CreateSIToFP(actual.Value, llvm.DoubleType(), "int_to_float")
			return EvaluatedValue{Ty: TF64, Value: v}
		}
	}
	return actual
}

func isIntKind(t llvm.Type) bool {
	return t.TypeKind() == llvm.IntegerTypeKind
}

// inferReturnType recovers a SemanticType from a user function's declared
// LLVM return type for call-site result typing (spec §4.6, case 4): float
// returns F64, integer returns I64, void returns Unit, anything else falls
// back to I32.
func inferReturnType(t llvm.Type) SemanticType {
	switch t.TypeKind() {
	case llvm.VoidTypeKind:
		return TUnit
	case llvm.DoubleTypeKind:
		return TF64
	case llvm.IntegerTypeKind:
		return TI64
	default:
		return TI32
	}
}
