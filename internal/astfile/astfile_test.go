package astfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"otterc/internal/ast"
)

const sampleProgram = `{
  "statements": [
    {
      "type": "function",
      "function": {
        "name": "main",
        "params": [],
        "ret_ty": "int",
        "body": [
          {
            "type": "let",
            "let": {
              "name": "x",
              "expr": {"type": "literal", "literal": {"kind": "number", "number": 2}}
            }
          },
          {
            "type": "return",
            "return": {"expr": {"type": "ident", "ident": "x"}}
          }
        ]
      }
    }
  ]
}`

func TestLoadDecodesProgram(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleProgram), 0o644))

	program, err := Load(path)
	require.NoError(t, err)
	require.Len(t, program.Statements, 1)

	fns := program.Functions()
	require.Len(t, fns, 1)

	retTy := "int"
	want := &ast.Function{
		Name:   "main",
		Params: []ast.Param{},
		RetTy:  &retTy,
		Body: []ast.Statement{
			{
				Typ: ast.StmtLet,
				Let: &ast.LetStmt{
					Name: "x",
					Expr: ast.Expr{Typ: ast.ExprLiteral, Literal: &ast.Literal{Kind: ast.LiteralNumber, Number: 2}},
				},
			},
			{
				Typ: ast.StmtReturn,
				Return: &ast.ReturnStmt{
					Expr: &ast.Expr{Typ: ast.ExprIdent, Ident: "x"},
				},
			},
		},
	}

	if diff := cmp.Diff(want, fns[0]); diff != "" {
		t.Fatalf("decoded function mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadInvalidJSONFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
