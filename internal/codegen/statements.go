package codegen

import (
	"tinygo.org/x/go-llvm"

	"otterc/internal/ast"
)

// lowerStatement lowers one statement (spec §4.5). fn is the enclosing IR
// function, needed to append basic blocks for control flow.
func (c *Compiler) lowerStatement(stmt ast.Statement, fn llvm.Value, ctx *FunctionContext) error {
	switch stmt.Typ {
	case ast.StmtExpr:
		_, err := c.evalExpr(*stmt.Expr, fn, ctx)
		return err
	case ast.StmtLet:
		return c.lowerLet(*stmt.Let, fn, ctx)
	case ast.StmtAssign:
		return c.lowerAssign(*stmt.Assign, fn, ctx)
	case ast.StmtIf:
		return c.lowerIf(*stmt.If, fn, ctx)
	case ast.StmtFor:
		return c.lowerFor(*stmt.For, fn, ctx)
	case ast.StmtReturn:
		return c.lowerReturn(*stmt.Return, fn, ctx)
	case ast.StmtFunction:
		// Already processed in the two-pass declarator (spec §4.5).
		return nil
	case ast.StmtUse:
		// Module resolution is external; Use is a no-op at codegen time.
		return nil
	case ast.StmtWhile, ast.StmtBreak, ast.StmtContinue, ast.StmtBlock:
		return newErr(KindUnsupportedFeature, "statement kind %q is not implemented", stmt.Typ)
	default:
		return newErr(KindUnsupportedFeature, "unrecognized statement kind %q", stmt.Typ)
	}
}

// lowerBlock lowers every statement of b in order.
func (c *Compiler) lowerBlock(b ast.Block, fn llvm.Value, ctx *FunctionContext) error {
	for _, stmt := range b.Statements {
		if err := c.lowerStatement(stmt, fn, ctx); err != nil {
			return err
		}
	}
	return nil
}

// lowerLet lowers `let name = expr`: evaluate, reject Unit, allocate a fresh
// stack slot, store, bind (spec §4.5).
func (c *Compiler) lowerLet(s ast.LetStmt, fn llvm.Value, ctx *FunctionContext) error {
	val, err := c.evalExpr(s.Expr, fn, ctx)
	if err != nil {
		return err
	}
	if val.Ty == TUnit {
		return newErr(KindTypeCheck, "cannot declare variable `%s` with unit value", s.Name)
	}

	llty, err := c.basicType(val.Ty)
	if err != nil {
		return err
	}
	alloc := c.builder.CreateAlloca(llty, s.Name)
	c.builder.CreateStore(val.Value, alloc)
	ctx.Set(s.Name, Variable{Ptr: alloc, Ty: val.Ty})
	return nil
}

// lowerAssign lowers `name = expr`: evaluate, reject Unit, and either store
// into the existing slot (type must match exactly) or allocate a new one
// (implicit declaration) (spec §4.5).
func (c *Compiler) lowerAssign(s ast.AssignStmt, fn llvm.Value, ctx *FunctionContext) error {
	val, err := c.evalExpr(s.Expr, fn, ctx)
	if err != nil {
		return err
	}
	if val.Ty == TUnit {
		return newErr(KindTypeCheck, "cannot assign unit value to `%s`", s.Name)
	}

	if existing, ok := ctx.Get(s.Name); ok {
		if existing.Ty != val.Ty {
			return newErr(KindTypeCheck,
				"type mismatch assigning to `%s`: existing %s, new %s", s.Name, existing.Ty, val.Ty)
		}
		c.builder.CreateStore(val.Value, existing.Ptr)
		return nil
	}

	llty, err := c.basicType(val.Ty)
	if err != nil {
		return err
	}
	alloc := c.builder.CreateAlloca(llty, s.Name)
	c.builder.CreateStore(val.Value, alloc)
	ctx.Set(s.Name, Variable{Ptr: alloc, Ty: val.Ty})
	return nil
}

// lowerIf lowers an if/else statement with basic blocks `then`, `else`,
// `ifcont` (spec §4.5). Elif chains are not lowered recursively — a
// recognized gap carried over from the original implementation (spec §9).
func (c *Compiler) lowerIf(s ast.IfStmt, fn llvm.Value, ctx *FunctionContext) error {
	cond, err := c.evalExpr(s.Cond, fn, ctx)
	if err != nil {
		return err
	}
	if cond.Ty != TBool {
		return newErr(KindTypeCheck, "if condition must be a boolean, got %s", cond.Ty)
	}

	thenBB := llvm.AddBasicBlock(fn, "then")
	elseBB := llvm.AddBasicBlock(fn, "else")
	contBB := llvm.AddBasicBlock(fn, "ifcont")

	c.builder.CreateCondBr(cond.Value, thenBB, elseBB)

	c.builder.SetInsertPointAtEnd(thenBB)
	if err := c.lowerBlock(s.ThenBlock, fn, ctx); err != nil {
		return err
	}
	if !c.blockHasTerminator() {
		c.builder.CreateBr(contBB)
	}

	c.builder.SetInsertPointAtEnd(elseBB)
	if s.ElseBlock != nil {
		if err := c.lowerBlock(*s.ElseBlock, fn, ctx); err != nil {
			return err
		}
	}
	if !c.blockHasTerminator() {
		c.builder.CreateBr(contBB)
	}

	c.builder.SetInsertPointAtEnd(contBB)
	return nil
}

// lowerFor lowers `for var in range(start, end)` (spec §4.5). Only range
// iterables are supported; anything else fails.
func (c *Compiler) lowerFor(s ast.ForStmt, fn llvm.Value, ctx *FunctionContext) error {
	if s.Iterable.Typ != ast.ExprRange {
		return newErr(KindUnsupportedFeature, "for loops currently only support range expressions")
	}
	rng := s.Iterable.Range

	startVal, err := c.evalExpr(*rng.Start, fn, ctx)
	if err != nil {
		return err
	}
	endVal, err := c.evalExpr(*rng.End, fn, ctx)
	if err != nil {
		return err
	}

	startVal, endVal, kind, err := c.coerceRangeOperands(startVal, endVal)
	if err != nil {
		return err
	}

	loopHeader := llvm.AddBasicBlock(fn, "loop_header")
	loopBody := llvm.AddBasicBlock(fn, "loop_body")
	loopEnd := llvm.AddBasicBlock(fn, "loop_end")

	loopTy, err := c.basicType(kind.ty)
	if err != nil {
		return err
	}
	loopPtr := c.builder.CreateAlloca(loopTy, s.Var)
	c.builder.CreateStore(startVal.Value, loopPtr)
	ctx.Set(s.Var, Variable{Ptr: loopPtr, Ty: kind.ty})

	c.builder.CreateBr(loopHeader)

	c.builder.SetInsertPointAtEnd(loopHeader)
	current := c.builder.CreateLoad(loopPtr, "current")
	var cond llvm.Value
	if kind.isFloat {
		cond = c.builder.CreateFCmp(llvm.FloatOLT, current, endVal.Value, "loop_cond")
	} else {
		cond = c.builder.CreateICmp(llvm.IntSLT, current, endVal.Value, "loop_cond")
	}
	c.builder.CreateCondBr(cond, loopBody, loopEnd)

	c.builder.SetInsertPointAtEnd(loopBody)
	if err := c.lowerBlock(s.Body, fn, ctx); err != nil {
		return err
	}
	if !c.blockHasTerminator() {
		current = c.builder.CreateLoad(loopPtr, "current")
		var next llvm.Value
		if kind.isFloat {
			one := llvm.ConstFloat(llvm.DoubleType(), 1.0)
			next = c.builder.CreateFAdd(current, one, "next")
		} else {
			one := llvm.ConstInt(llvm.Int64Type(), 1, false)
			next = c.builder.CreateAdd(current, one, "next")
		}
		c.builder.CreateStore(next, loopPtr)
		c.builder.CreateBr(loopHeader)
	}

	c.builder.SetInsertPointAtEnd(loopEnd)
	return nil
}

// lowerReturn lowers `return expr?` (spec §4.5).
func (c *Compiler) lowerReturn(s ast.ReturnStmt, fn llvm.Value, ctx *FunctionContext) error {
	if s.Expr == nil {
		c.builder.CreateRetVoid()
		return nil
	}
	val, err := c.evalExpr(*s.Expr, fn, ctx)
	if err != nil {
		return err
	}
	if val.Ty == TUnit {
		c.builder.CreateRetVoid()
		return nil
	}
	c.builder.CreateRet(val.Value)
	return nil
}
