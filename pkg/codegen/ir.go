// Package codegen lowers a parsed program to LLVM IR.
//
// The whole program becomes the body of an i32 main function. Every value is
// an i64; variables live in stack slots allocated in the entry block and
// initialised to zero. Calls to anything but the builtins are declared as
// external i64 functions taking the arguments of their first call.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"go.stride.dev/pkg"
)

type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// Options carries module level metadata.
type Options struct {
	TargetTriple   string
	SourceFilename string
}

// UndefinedError reports a variable read before any assignment to it.
type UndefinedError struct {
	Name string
	Pos  stride.Position
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%s: undefined variable %s", e.Pos, e.Name)
}

// ArityError reports a call whose argument count differs from the
// function's parameter count.
type ArityError struct {
	Name string
	Pos  stride.Position
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %s takes %d arguments, got %d", e.Pos, e.Name, e.Want, e.Got)
}

// ReservedError reports a call to a function name the generator owns.
type ReservedError struct {
	Name string
	Pos  stride.Position
}

func (e *ReservedError) Error() string {
	return fmt.Sprintf("%s: %s is reserved", e.Pos, e.Name)
}

var comparisons = map[stride.TokenType]enum.IPred{
	stride.TokenEq:      enum.IPredEQ,
	stride.TokenNeq:     enum.IPredNE,
	stride.TokenLess:    enum.IPredSLT,
	stride.TokenGreater: enum.IPredSGT,
}

type LLVMIRBuilder struct {
	mod   *ir.Module
	main  *ir.Func
	entry *ir.Block
	block *ir.Block

	vars   *ValueLookup // Stack slot of each assigned variable
	funcs  *ValueLookup
	labels int
}

func NewLLVMIRBuilder(opts Options) *LLVMIRBuilder {
	mod := ir.NewModule()
	mod.TargetTriple = opts.TargetTriple
	mod.SourceFilename = opts.SourceFilename

	builder := &LLVMIRBuilder{
		mod:   mod,
		vars:  NewValueLookup(),
		funcs: NewValueLookup(),
	}

	defineBuiltins(builder)

	builder.main = mod.NewFunc("main", types.I32)
	builder.entry = builder.main.NewBlock("entry")
	builder.block = builder.entry

	return builder
}

func (b *LLVMIRBuilder) statements(stmts []stride.Stmt) error {
	for _, stmt := range stmts {
		if err := b.statement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (b *LLVMIRBuilder) statement(stmt stride.Stmt) error {
	switch s := stmt.(type) {
	case *stride.Assignment:
		return b.assignment(s)
	case *stride.FunctionCall:
		_, err := b.functionCall(s)
		return err
	case *stride.IfStatement:
		return b.ifStatement(s)
	case *stride.WhileStatement:
		return b.whileStatement(s)
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (b *LLVMIRBuilder) assignment(s *stride.Assignment) error {
	v, err := b.expression(s.Value)
	if err != nil {
		return err
	}

	b.block.NewStore(v, b.slot(s.Target.Value))

	return nil
}

// slot returns the stack slot of a variable, allocating it on first use.
func (b *LLVMIRBuilder) slot(name string) value.Value {
	if addr, ok := b.vars.Get(name); ok {
		return addr
	}

	addr := b.entry.NewAlloca(types.I64)
	addr.SetName(name + ".addr")
	b.entry.NewStore(constant.NewInt(types.I64, 0), addr)
	b.vars.Set(name, addr)

	return addr
}

func (b *LLVMIRBuilder) ifStatement(s *stride.IfStatement) error {
	cond, err := b.condition(s.Condition)
	if err != nil {
		return err
	}

	n := b.nextLabel()
	then := b.main.NewBlock(fmt.Sprintf("if.then.%d", n))

	var els *ir.Block
	if s.Else != nil {
		els = b.main.NewBlock(fmt.Sprintf("if.else.%d", n))
	}

	end := b.main.NewBlock(fmt.Sprintf("if.end.%d", n))

	if els != nil {
		b.block.NewCondBr(cond, then, els)
	} else {
		b.block.NewCondBr(cond, then, end)
	}

	b.block = then
	if err := b.statements(s.Then.Statements); err != nil {
		return err
	}
	b.block.NewBr(end)

	if els != nil {
		b.block = els
		if err := b.statements(s.Else.Statements); err != nil {
			return err
		}
		b.block.NewBr(end)
	}

	b.block = end

	return nil
}

func (b *LLVMIRBuilder) whileStatement(s *stride.WhileStatement) error {
	n := b.nextLabel()
	head := b.main.NewBlock(fmt.Sprintf("while.cond.%d", n))
	body := b.main.NewBlock(fmt.Sprintf("while.body.%d", n))
	end := b.main.NewBlock(fmt.Sprintf("while.end.%d", n))

	b.block.NewBr(head)

	b.block = head
	cond, err := b.condition(s.Condition)
	if err != nil {
		return err
	}
	b.block.NewCondBr(cond, body, end)

	b.block = body
	if err := b.statements(s.Body.Statements); err != nil {
		return err
	}
	b.block.NewBr(head)

	b.block = end

	return nil
}

// condition evaluates expr to an i1. Anything but a comparison is true when
// non-zero.
func (b *LLVMIRBuilder) condition(expr stride.Expr) (value.Value, error) {
	if cmp, ok := expr.(*stride.BooleanExpression); ok {
		return b.compare(cmp)
	}

	v, err := b.expression(expr)
	if err != nil {
		return nil, err
	}

	return b.block.NewICmp(enum.IPredNE, v, constant.NewInt(types.I64, 0)), nil
}

func (b *LLVMIRBuilder) compare(expr *stride.BooleanExpression) (value.Value, error) {
	lhs, err := b.expression(expr.Left)
	if err != nil {
		return nil, err
	}

	rhs, err := b.expression(expr.Right)
	if err != nil {
		return nil, err
	}

	pred, ok := comparisons[expr.Operator.Typ]
	if !ok {
		return nil, fmt.Errorf("%s: unexpected comparison %s", expr.Operator.Pos, expr.Operator)
	}

	return b.block.NewICmp(pred, lhs, rhs), nil
}

func (b *LLVMIRBuilder) expression(expr stride.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case stride.Token:
		return b.leaf(e)
	case *stride.BinaryOperation:
		return b.binaryOperation(e)
	case *stride.BooleanExpression:
		cmp, err := b.compare(e)
		if err != nil {
			return nil, err
		}

		return b.block.NewZExt(cmp, types.I64), nil
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (b *LLVMIRBuilder) leaf(tok stride.Token) (value.Value, error) {
	switch tok.Typ {
	case stride.TokenNumber:
		return constant.NewInt(types.I64, tok.Num), nil
	case stride.TokenIdentifier:
		addr, ok := b.vars.Get(tok.Value)
		if !ok {
			return nil, &UndefinedError{Name: tok.Value, Pos: tok.Pos}
		}

		return b.block.NewLoad(types.I64, addr), nil
	default:
		return nil, fmt.Errorf("%s: unexpected operand %s", tok.Pos, tok)
	}
}

func (b *LLVMIRBuilder) binaryOperation(expr *stride.BinaryOperation) (value.Value, error) {
	v1, err := b.expression(expr.Left)
	if err != nil {
		return nil, err
	}

	v2, err := b.expression(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Typ {
	case stride.TokenPlus:
		return b.block.NewAdd(v1, v2), nil
	case stride.TokenMinus:
		return b.block.NewSub(v1, v2), nil
	case stride.TokenMultiply:
		return b.block.NewMul(v1, v2), nil
	case stride.TokenDivide:
		return b.block.NewSDiv(v1, v2), nil
	default:
		return nil, fmt.Errorf("%s: unexpected binary operator %s", expr.Operator.Pos, expr.Operator)
	}
}

func (b *LLVMIRBuilder) functionCall(expr *stride.FunctionCall) (value.Value, error) {
	name := expr.Name.Value
	if reservedNames[name] {
		return nil, &ReservedError{Name: name, Pos: expr.Name.Pos}
	}

	callee := b.declare(name, len(expr.Args))
	if len(callee.Params) != len(expr.Args) {
		return nil, &ArityError{
			Name: name,
			Pos:  expr.Name.Pos,
			Want: len(callee.Params),
			Got:  len(expr.Args),
		}
	}

	var callVals []value.Value
	for _, arg := range expr.Args {
		argVal, err := b.expression(arg)
		if err != nil {
			return nil, err
		}

		callVals = append(callVals, argVal)
	}

	return b.block.NewCall(callee, callVals...), nil
}

// declare returns the function called name, declaring an external one with
// arity parameters if it isn't known yet.
func (b *LLVMIRBuilder) declare(name string, arity int) *ir.Func {
	if f, ok := b.funcs.Get(name); ok {
		return f.(*ir.Func)
	}

	params := make([]*ir.Param, arity)
	for i := range params {
		params[i] = ir.NewParam("", types.I64)
	}

	f := b.mod.NewFunc(name, types.I64, params...)
	b.funcs.Set(name, f)

	return f
}

func (b *LLVMIRBuilder) nextLabel() int {
	b.labels++
	return b.labels
}

type LLVMGenerator struct {
	ast  *stride.AST
	opts Options
}

func NewLLVMGenerator(ast *stride.AST, opts Options) *LLVMGenerator {
	return &LLVMGenerator{
		ast:  ast,
		opts: opts,
	}
}

// Do lowers the program. The first error aborts generation.
func (g LLVMGenerator) Do() (*ir.Module, error) {
	builder := NewLLVMIRBuilder(g.opts)
	if err := builder.statements(g.ast.Statements); err != nil {
		return nil, err
	}

	builder.block.NewRet(constant.NewInt(types.I32, 0))

	return builder.mod, nil
}

// Generate lowers ast to an LLVM IR module.
func Generate(ast *stride.AST, opts Options) (*ir.Module, error) {
	return NewLLVMGenerator(ast, opts).Do()
}
