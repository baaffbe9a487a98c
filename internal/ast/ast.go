// Package ast defines the validated program tree consumed by the code
// generator. The lexer, parser and semantic/type checker that produce this
// tree are external collaborators; this package only describes their output
// shape.
package ast

// Program is an ordered sequence of top-level statements. The code generator
// consumes only the Function statements it contains.
type Program struct {
	Statements []Statement `json:"statements"`
}

// Functions returns the Function statements of the program, in source order.
func (p *Program) Functions() []*Function {
	fns := make([]*Function, 0, len(p.Statements))
	for _, s := range p.Statements {
		if s.Function != nil {
			fns = append(fns, s.Function)
		}
	}
	return fns
}

// Param is one named, optionally typed function parameter. A parameter
// without a type name defaults to F64 (§3).
type Param struct {
	Name string  `json:"name"`
	Ty   *string `json:"ty,omitempty"`
}

// Function is a top-level function definition. A function without a return
// type name defaults to I32 (§3).
type Function struct {
	Name   string      `json:"name"`
	Params []Param     `json:"params"`
	RetTy  *string     `json:"ret_ty,omitempty"`
	Body   []Statement `json:"body"`
}

// Statement is a sum type over every statement variant named in spec §4.5.
// Exactly one field is populated per value; Typ names which one so that
// decoders that see unknown JSON shapes fail loudly instead of silently
// picking the zero variant.
type Statement struct {
	Typ string `json:"type"`

	Expr       *Expr      `json:"expr,omitempty"`
	Let        *LetStmt   `json:"let,omitempty"`
	Assign     *AssignStmt `json:"assign,omitempty"`
	If         *IfStmt    `json:"if,omitempty"`
	For        *ForStmt   `json:"for,omitempty"`
	Return     *ReturnStmt `json:"return,omitempty"`
	Function   *Function  `json:"function,omitempty"`
	Use        *UseStmt   `json:"use,omitempty"`
	While      *WhileStmt `json:"while,omitempty"`
	Break      *struct{}  `json:"break,omitempty"`
	Continue   *struct{}  `json:"continue,omitempty"`
	Block      *BlockStmt `json:"block,omitempty"`
}

// Statement.Typ values.
const (
	StmtExpr     = "expr"
	StmtLet      = "let"
	StmtAssign   = "assign"
	StmtIf       = "if"
	StmtFor      = "for"
	StmtReturn   = "return"
	StmtFunction = "function"
	StmtUse      = "use"
	StmtWhile    = "while"
	StmtBreak    = "break"
	StmtContinue = "continue"
	StmtBlock    = "block"
)

// LetStmt binds the result of Expr to a fresh variable named Name.
type LetStmt struct {
	Name string `json:"name"`
	Expr Expr   `json:"expr"`
}

// AssignStmt stores the result of Expr into the variable named Name,
// declaring it implicitly if it does not already exist.
type AssignStmt struct {
	Name string `json:"name"`
	Expr Expr   `json:"expr"`
}

// Block is a braced sequence of statements.
type Block struct {
	Statements []Statement `json:"statements"`
}

// BlockStmt is a standalone braced block (spec §4.5: unsupported).
type BlockStmt struct {
	Block
}

// IfStmt is a conditional with an optional else arm. ElifBlocks mirrors the
// original language's elif chain (spec §9: the generator does not lower
// these recursively; recognized gap).
type IfStmt struct {
	Cond       Expr    `json:"cond"`
	ThenBlock  Block   `json:"then_block"`
	ElifBlocks []Block `json:"elif_blocks,omitempty"`
	ElseBlock  *Block  `json:"else_block,omitempty"`
}

// ForStmt iterates Var over Iterable, which must be a Range expression.
type ForStmt struct {
	Var      string `json:"var"`
	Iterable Expr   `json:"iterable"`
	Body     Block  `json:"body"`
}

// WhileStmt loops while Cond holds (spec §4.5: unsupported).
type WhileStmt struct {
	Cond Expr  `json:"cond"`
	Body Block `json:"body"`
}

// UseStmt imports a module by name, optionally aliased. Module resolution is
// external; the code generator treats Use as a no-op.
type UseStmt struct {
	Module string  `json:"module"`
	Alias  *string `json:"alias,omitempty"`
}

// ReturnStmt optionally returns the value of Expr.
type ReturnStmt struct {
	Expr *Expr `json:"expr,omitempty"`
}

// Expr is a sum type over every expression variant named in spec §4.6.
type Expr struct {
	Typ string `json:"type"`

	Literal  *Literal  `json:"literal,omitempty"`
	Ident    string    `json:"ident,omitempty"`
	Binary   *Binary   `json:"binary,omitempty"`
	Unary    *Unary    `json:"unary,omitempty"`
	Call     *Call     `json:"call,omitempty"`
	Member   *Member   `json:"member,omitempty"`
	Range    *Range    `json:"range,omitempty"`
	FString  *FString  `json:"fstring,omitempty"`
	If       *IfExpr   `json:"if_expr,omitempty"`
	Await    *Expr     `json:"await,omitempty"`
	Spawn    *Expr     `json:"spawn,omitempty"`
}

// Expr.Typ values.
const (
	ExprLiteral = "literal"
	ExprIdent   = "ident"
	ExprBinary  = "binary"
	ExprUnary   = "unary"
	ExprCall    = "call"
	ExprMember  = "member"
	ExprRange   = "range"
	ExprFString = "fstring"
	ExprIf      = "if_expr"
	ExprAwait   = "await"
	ExprSpawn   = "spawn"
)

// LiteralKind enumerates the literal shapes a source program may embed.
type LiteralKind string

// Recognized literal kinds.
const (
	LiteralString LiteralKind = "string"
	LiteralNumber LiteralKind = "number"
	LiteralBool   LiteralKind = "bool"
)

// Literal is one constant value embedded directly in the source.
type Literal struct {
	Kind   LiteralKind `json:"kind"`
	Str    string      `json:"str,omitempty"`
	Number float64     `json:"number,omitempty"`
	Bool   bool        `json:"bool,omitempty"`
}

// BinaryOp enumerates the operators accepted by a Binary expression.
type BinaryOp string

// Recognized binary operators.
const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
	OpEq  BinaryOp = "=="
	OpNe  BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpGt  BinaryOp = ">"
	OpLe  BinaryOp = "<="
	OpGe  BinaryOp = ">="
	OpAnd BinaryOp = "and"
	OpOr  BinaryOp = "or"
)

// Binary is a two-operand expression.
type Binary struct {
	Op    BinaryOp `json:"op"`
	Left  *Expr    `json:"left"`
	Right *Expr    `json:"right"`
}

// UnaryOp enumerates the operators accepted by a Unary expression.
type UnaryOp string

// Recognized unary operators.
const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// Unary is a one-operand expression.
type Unary struct {
	Op   UnaryOp `json:"op"`
	Expr *Expr   `json:"expr"`
}

// Call invokes Func (an identifier or a Member expression) with Args.
type Call struct {
	Func *Expr  `json:"func"`
	Args []Expr `json:"args"`
}

// Member is a module-qualified reference, e.g. `time.now`.
type Member struct {
	Object *Expr  `json:"object"`
	Field  string `json:"field"`
}

// Range is the `start..end` iterable, valid only as a for-loop source.
type Range struct {
	Start *Expr `json:"start"`
	End   *Expr `json:"end"`
}

// FStringPartKind distinguishes the two kinds of interpolated string chunk.
type FStringPartKind string

// Recognized f-string part kinds.
const (
	FStringText FStringPartKind = "text"
	FStringExpr FStringPartKind = "expr"
)

// FStringPart is one chunk of an interpolated string.
type FStringPart struct {
	Kind FStringPartKind `json:"kind"`
	Text string          `json:"text,omitempty"`
	Expr *Expr           `json:"expr,omitempty"`
}

// FString is an interpolated string literal: a mixed sequence of literal
// text and embedded expressions.
type FString struct {
	Parts []FStringPart `json:"parts"`
}

// IfExpr is a conditional used in expression position (spec §4.6:
// unsupported).
type IfExpr struct {
	Cond Expr  `json:"cond"`
	Then Block `json:"then"`
	Else Block `json:"else"`
}
