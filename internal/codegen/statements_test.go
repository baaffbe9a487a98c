package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
)

func newEntryFn(t *testing.T, c *Compiler, name string) llvm.Value {
	t.Helper()
	fn := llvm.AddFunction(c.module, name, llvm.FunctionType(llvm.Int64Type(), nil, false))
	block := llvm.AddBasicBlock(fn, "entry")
	c.builder.SetInsertPointAtEnd(block)
	return fn
}

func TestLowerForEmitsLoopBlocks(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	fn := newEntryFn(t, c, "range_fn")
	ctx := newFunctionContext()

	forStmt := ast.ForStmt{
		Var: "i",
		Iterable: ast.Expr{
			Typ: ast.ExprRange,
			Range: &ast.Range{
				Start: &ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralNumber, Number: 0}},
				End:   &ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralNumber, Number: 3}},
			},
		},
		Body: ast.Block{},
	}

	require.NoError(t, c.lowerFor(forStmt, fn, ctx))
	c.builder.CreateRet(llvm.ConstInt(llvm.Int64Type(), 0, false))
	require.NoError(t, llvm.VerifyModule(c.module, llvm.ReturnStatusAction))

	ir := c.module.String()
	for _, want := range []string{"loop_header", "loop_body", "loop_end"} {
		assert.True(t, strings.Contains(ir, want), "expected IR to contain %q:\n%s", want, ir)
	}
}

func TestLowerForRejectsNonRangeIterable(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	fn := newEntryFn(t, c, "bad_range_fn")
	ctx := newFunctionContext()

	forStmt := ast.ForStmt{
		Var:      "i",
		Iterable: ast.Expr{Typ: ast.ExprIdent, Ident: "xs"},
	}
	err := c.lowerFor(forStmt, fn, ctx)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindUnsupportedFeature, e.Kind)
}

func TestLowerIfEmitsThenElseBlocks(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	fn := newEntryFn(t, c, "if_fn")
	ctx := newFunctionContext()

	ifStmt := ast.IfStmt{
		Cond:      ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, Bool: true}},
		ThenBlock: ast.Block{},
		ElseBlock: &ast.Block{},
	}
	require.NoError(t, c.lowerIf(ifStmt, fn, ctx))
	c.builder.CreateRet(llvm.ConstInt(llvm.Int64Type(), 0, false))
	require.NoError(t, llvm.VerifyModule(c.module, llvm.ReturnStatusAction))

	ir := c.module.String()
	for _, want := range []string{"then", "else", "ifcont"} {
		assert.True(t, strings.Contains(ir, want), "expected IR to contain %q:\n%s", want, ir)
	}
}

func TestLowerLetRejectsUnitValue(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	fn := newEntryFn(t, c, "let_unit_fn")
	ctx := newFunctionContext()

	let := ast.LetStmt{
		Name: "x",
		Expr: ast.Expr{
			Typ:  ast.ExprCall,
			Call: &ast.Call{Func: &ast.Expr{Typ: ast.ExprIdent, Ident: "println"}, Args: []ast.Expr{{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralString, Str: "hi"}}}},
		},
	}
	err := c.lowerLet(let, fn, ctx)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindTypeCheck, e.Kind)
}
