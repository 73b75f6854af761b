package stride

import (
	"fmt"
	"strings"
)

// AST is a parsed program: its top-level statements in source order.
type AST struct {
	Statements []Stmt
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	fmt.Stringer
	stmtNode()
}

// Expr is implemented by expression nodes. NUMBER and IDENTIFIER leaves are
// plain Tokens.
type Expr interface {
	fmt.Stringer
	exprNode()
}

type Assignment struct {
	Target Token
	Value  Expr
}

type IfStatement struct {
	Condition Expr
	Then      *Block
	Else      *Block // nil without an else branch
}

type WhileStatement struct {
	Condition Expr
	Body      *Block
}

type Block struct {
	Statements []Stmt
}

type FunctionCall struct {
	Name Token
	Args []Expr
}

// BinaryOperation is an arithmetic operation: + - * /.
type BinaryOperation struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// BooleanExpression is a comparison: == != < >.
type BooleanExpression struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (*Assignment) stmtNode()     {}
func (*IfStatement) stmtNode()    {}
func (*WhileStatement) stmtNode() {}
func (*FunctionCall) stmtNode()   {}

func (*BinaryOperation) exprNode()   {}
func (*BooleanExpression) exprNode() {}

// String renders the program one S-expression per line.
func (a *AST) String() string {
	lines := make([]string, len(a.Statements))
	for i, s := range a.Statements {
		lines[i] = s.String()
	}

	return strings.Join(lines, "\n")
}

func (s *Assignment) String() string {
	return "(= " + s.Target.Value + " " + sexpr(s.Value) + ")"
}

func (s *IfStatement) String() string {
	out := "(if " + sexpr(s.Condition) + " " + s.Then.String()
	if s.Else != nil {
		out += " " + s.Else.String()
	}

	return out + ")"
}

func (s *WhileStatement) String() string {
	return "(while " + sexpr(s.Condition) + " " + s.Body.String() + ")"
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, s := range b.Statements {
		sb.WriteByte(' ')
		sb.WriteString(s.String())
	}
	sb.WriteByte(')')

	return sb.String()
}

func (c *FunctionCall) String() string {
	var sb strings.Builder
	sb.WriteString("(call ")
	sb.WriteString(c.Name.Value)
	for _, arg := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(sexpr(arg))
	}
	sb.WriteByte(')')

	return sb.String()
}

func (e *BinaryOperation) String() string {
	return "(" + e.Operator.Value + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
}

func (e *BooleanExpression) String() string {
	return "(" + e.Operator.Value + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
}

// sexpr prints leaf tokens by their source text instead of their debug form.
func sexpr(e Expr) string {
	if tok, ok := e.(Token); ok {
		return tok.Value
	}

	return e.String()
}
