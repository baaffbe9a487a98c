package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
)

func TestEvalLiteralTypes(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	fn := newEntryFn(t, c, "lit_fn")
	_ = fn

	v, err := c.evalLiteral(ast.Literal{Kind: ast.LiteralNumber, Number: 4.5})
	require.NoError(t, err)
	assert.Equal(t, TF64, v.Ty)

	v, err = c.evalLiteral(ast.Literal{Kind: ast.LiteralBool, Bool: true})
	require.NoError(t, err)
	assert.Equal(t, TBool, v.Ty)

	v, err = c.evalLiteral(ast.Literal{Kind: ast.LiteralString, Str: "hi"})
	require.NoError(t, err)
	assert.Equal(t, TStr, v.Ty)
}

func TestEvalIdentUnknownFails(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	ctx := newFunctionContext()

	_, err := c.evalIdent("missing", ctx)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindNameResolution, e.Kind)
}

func TestEvalBinaryRejectsLogicalOperators(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	fn := newEntryFn(t, c, "and_fn")
	ctx := newFunctionContext()

	b := ast.Binary{
		Op:    ast.OpAnd,
		Left:  &ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, Bool: true}},
		Right: &ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, Bool: false}},
	}
	_, err := c.evalBinary(b, fn, ctx)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindUnsupportedFeature, e.Kind)
}

func TestEvalPrintBuiltinRejectsNonString(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	fn := newEntryFn(t, c, "print_fn")
	ctx := newFunctionContext()

	args := []ast.Expr{{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralNumber, Number: 1}}}
	_, err := c.evalPrintBuiltin("print", args, fn, ctx)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindTypeCheck, e.Kind)
}

func TestEvalPrintBuiltinDeclaresRuntimeSymbolOnce(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	fn := newEntryFn(t, c, "print_twice_fn")
	ctx := newFunctionContext()

	args := []ast.Expr{{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralString, Str: "hi"}}}
	_, err := c.evalPrintBuiltin("print", args, fn, ctx)
	require.NoError(t, err)
	_, err = c.evalPrintBuiltin("println", args, fn, ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(c.module.String(), "declare void @otter_std_io_println"))
}

func TestEvalMemberCallTimeNowWidensToFloat(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	newEntryFn(t, c, "time_fn")

	m := ast.Member{Object: &ast.Expr{Typ: ast.ExprIdent, Ident: "time"}, Field: "now"}
	v, err := c.evalMemberCall(m, nil, llvm.Value{}, nil)
	require.NoError(t, err)
	assert.Equal(t, TF64, v.Ty)
}

func TestEvalFStringConcatenatesParts(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()
	fn := newEntryFn(t, c, "fstring_fn")
	ctx := newFunctionContext()

	fs := ast.FString{
		Parts: []ast.FStringPart{
			{Kind: ast.FStringText, Text: "x = "},
			{Kind: ast.FStringExpr, Expr: &ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralNumber, Number: 3}}},
		},
	}
	v, err := c.evalFString(fs, fn, ctx)
	require.NoError(t, err)
	assert.Equal(t, TStr, v.Ty)

	ir := c.module.String()
	assert.Contains(t, ir, "otter_concat_strings")
	assert.Contains(t, ir, "otter_format_float")
	assert.Contains(t, ir, "otter_free_string_ptr")
}
