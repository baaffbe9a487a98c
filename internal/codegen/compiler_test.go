package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
)

func strPtr(s string) *string { return &s }

func TestLowerProgramRejectsEmptyProgram(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	err := c.lowerProgram(&ast.Program{})
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInputProgram, e.Kind)
}

func TestLowerProgramRequiresMain(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	program := &ast.Program{
		Statements: []ast.Statement{
			{Typ: ast.StmtFunction, Function: &ast.Function{Name: "helper", RetTy: strPtr("int")}},
		},
	}
	err := c.lowerProgram(program)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInputProgram, e.Kind)
}

// numberLiteral builds a numeric literal expression.
func numberLiteral(n float64) ast.Expr {
	return ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralNumber, Number: n}}
}

func TestLowerProgramSuccessVerifies(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	// fn add(a: float, b: float) -> float { return a + b }
	add := &ast.Function{
		Name:  "add",
		Params: []ast.Param{{Name: "a", Ty: strPtr("float")}, {Name: "b", Ty: strPtr("float")}},
		RetTy: strPtr("float"),
		Body: []ast.Statement{
			{
				Typ: ast.StmtReturn,
				Return: &ast.ReturnStmt{
					Expr: &ast.Expr{
						Typ: ast.ExprBinary,
						Binary: &ast.Binary{
							Op:    ast.OpAdd,
							Left:  &ast.Expr{Typ: ast.ExprIdent, Ident: "a"},
							Right: &ast.Expr{Typ: ast.ExprIdent, Ident: "b"},
						},
					},
				},
			},
		},
	}

	// fn main() -> int { let x = add(1, 2) } (the default return supplies 0)
	xExpr := numberLiteral(1)
	yExpr := numberLiteral(2)
	main := &ast.Function{
		Name:  "main",
		RetTy: strPtr("int"),
		Body: []ast.Statement{
			{
				Typ: ast.StmtLet,
				Let: &ast.LetStmt{
					Name: "x",
					Expr: ast.Expr{
						Typ: ast.ExprCall,
						Call: &ast.Call{
							Func: &ast.Expr{Typ: ast.ExprIdent, Ident: "add"},
							Args: []ast.Expr{xExpr, yExpr},
						},
					},
				},
			},
		},
	}

	program := &ast.Program{
		Statements: []ast.Statement{
			{Typ: ast.StmtFunction, Function: add},
			{Typ: ast.StmtFunction, Function: main},
		},
	}

	require.NoError(t, c.lowerProgram(program))
	require.NoError(t, llvm.VerifyModule(c.module, llvm.ReturnStatusAction))

	ir := c.module.String()
	assert.True(t, strings.Contains(ir, "define"), "expected emitted IR to contain function definitions:\n%s", ir)
}

func TestLowerFunctionBodyAppendsDefaultReturn(t *testing.T) {
	c, cleanup := newTestCompiler()
	defer cleanup()

	fn := &ast.Function{Name: "noop", RetTy: strPtr("int")}
	llfn, err := c.declareFunction(fn)
	require.NoError(t, err)
	require.False(t, llfn.IsNil())

	require.NoError(t, c.lowerFunctionBody(fn))
	require.NoError(t, llvm.VerifyModule(c.module, llvm.ReturnStatusAction))
}
