package stride

import (
	"fmt"
	"strconv"
)

type TokenType uint64

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenNumber

	TokenIf
	TokenElse
	TokenWhile

	TokenPlus
	TokenMinus
	TokenMultiply
	TokenDivide
	TokenEquals
	TokenEq
	TokenNeq
	TokenLess
	TokenGreater
	TokenOpenParentheses
	TokenCloseParentheses
	TokenComma
	TokenColon

	// Block markers emitted by the lexer when indentation changes
	TokenIndent
	TokenDedent
)

var tokenNames = [...]string{
	TokenEOF:              "EOF",
	TokenIdentifier:       "IDENTIFIER",
	TokenNumber:           "NUMBER",
	TokenIf:               "IF",
	TokenElse:             "ELSE",
	TokenWhile:            "WHILE",
	TokenPlus:             "PLUS",
	TokenMinus:            "MINUS",
	TokenMultiply:         "MULTIPLY",
	TokenDivide:           "DIVIDE",
	TokenEquals:           "EQUALS",
	TokenEq:               "EQ",
	TokenNeq:              "NEQ",
	TokenLess:             "LESS",
	TokenGreater:          "GREATER",
	TokenOpenParentheses:  "LPAREN",
	TokenCloseParentheses: "RPAREN",
	TokenComma:            "COMMA",
	TokenColon:            "COLON",
	TokenIndent:           "INDENT",
	TokenDedent:           "DEDENT",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}

	return "TokenType(" + strconv.FormatUint(uint64(t), 10) + ")"
}

var keywordTable = map[string]TokenType{
	"if":    TokenIf,
	"else":  TokenElse,
	"while": TokenWhile,
}

var operatorTable = map[string]TokenType{
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenMultiply,
	"/":  TokenDivide,
	"=":  TokenEquals,
	"==": TokenEq,
	"!=": TokenNeq,
	"<":  TokenLess,
	">":  TokenGreater,
	"(":  TokenOpenParentheses,
	")":  TokenCloseParentheses,
	",":  TokenComma,
	":":  TokenColon,
}

// Position locates a token in the source. Offset is a 0-based byte offset,
// Line and Column are 1-based and Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a classified lexeme. Num is only meaningful for TokenNumber.
type Token struct {
	Typ   TokenType
	Value string
	Num   int64
	Pos   Position
}

func (t Token) String() string {
	switch t.Typ {
	case TokenIdentifier, TokenNumber:
		return t.Typ.String() + "(" + t.Value + ")"
	default:
		return t.Typ.String()
	}
}

func (t Token) exprNode() {}

func (t Token) isBlockEnd() bool {
	return t.Typ == TokenEOF || t.Typ == TokenElse || t.Typ == TokenDedent
}
