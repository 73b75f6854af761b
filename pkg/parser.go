package stride

// Parser builds an AST from a token slice by recursive descent. It looks at
// the current token and, where the grammar needs it, one token ahead.
//
// Parsing stops at the first error; no partial AST is returned.
type Parser struct {
	tokens []Token // Unconsumed tokens after cur
	cur    Token
	prev   Token // Last consumed token
}

func NewParser(tokens []Token) *Parser {
	p := &Parser{tokens: tokens}
	p.advance()

	return p
}

// Parse parses the whole token stream as a program.
func (p *Parser) Parse() (*AST, error) {
	ast := &AST{}

	for p.cur.Typ != TokenEOF {
		if p.check(TokenColon) {
			p.advance()
			continue
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		ast.Statements = append(ast.Statements, stmt)
	}

	return ast, nil
}

// advance moves to the next token. Once the slice is exhausted the cursor
// stays on an EOF positioned after the last token.
func (p *Parser) advance() {
	p.prev = p.cur

	if len(p.tokens) > 0 {
		p.cur = p.tokens[0]
		p.tokens = p.tokens[1:]

		return
	}

	p.cur = Token{Typ: TokenEOF, Pos: p.cur.Pos}
}

// peek returns the token after the current one without consuming it.
func (p *Parser) peek() (Token, bool) {
	if len(p.tokens) == 0 {
		return Token{}, false
	}

	return p.tokens[0], true
}

func (p *Parser) check(typ TokenType) bool {
	return p.cur.Typ == typ
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	if !p.check(typ) {
		return Token{}, &SyntaxError{Got: p.cur, Expected: []TokenType{typ}}
	}

	tok := p.cur
	p.advance()

	return tok, nil
}

func (p *Parser) errorf(rule string) error {
	return &SyntaxError{Got: p.cur, Rule: rule}
}

func (p *Parser) statement() (Stmt, error) {
	switch p.cur.Typ {
	case TokenIdentifier:
		next, ok := p.peek()
		if !ok {
			return nil, &SyntaxError{
				Got:      Token{Typ: TokenEOF, Pos: p.cur.Pos},
				Expected: []TokenType{TokenEquals, TokenOpenParentheses},
			}
		}

		switch next.Typ {
		case TokenEquals:
			return p.assignment()
		case TokenOpenParentheses:
			return p.functionCall()
		default:
			return nil, &SyntaxError{
				Got:      next,
				Expected: []TokenType{TokenEquals, TokenOpenParentheses},
			}
		}
	case TokenIf:
		return p.ifStmt()
	case TokenWhile:
		return p.whileStmt()
	default:
		return nil, p.errorf("statement")
	}
}

func (p *Parser) assignment() (Stmt, error) {
	target := p.cur
	p.advance()

	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &Assignment{
		Target: target,
		Value:  value,
	}, nil
}

func (p *Parser) ifStmt() (Stmt, error) {
	p.advance() // Skip the if keyword

	cond, err := p.booleanExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	stmt := &IfStatement{
		Condition: cond,
		Then:      then,
	}

	if !p.check(TokenElse) {
		return stmt, nil
	}

	p.advance() // Skip the else keyword

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	stmt.Else, err = p.block()
	if err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	p.advance() // Skip the while keyword

	cond, err := p.booleanExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &WhileStatement{
		Condition: cond,
		Body:      body,
	}, nil
}

// block parses the suite following a colon. An INDENT opens an indented
// block closed by the matching DEDENT. Otherwise the block holds statements
// for as long as each one starts on the line where the colon or the previous
// statement ended.
func (p *Parser) block() (*Block, error) {
	if !p.check(TokenIndent) {
		return p.statements(func() bool {
			return p.cur.isBlockEnd() || p.cur.Pos.Line != p.prev.Pos.Line
		})
	}

	p.advance() // Skip the indent

	block, err := p.statements(func() bool {
		return p.cur.isBlockEnd()
	})
	if err != nil {
		return nil, err
	}

	if p.check(TokenEOF) {
		return block, nil
	}

	if _, err := p.expect(TokenDedent); err != nil {
		return nil, err
	}

	return block, nil
}

func (p *Parser) statements(done func() bool) (*Block, error) {
	block := &Block{}

	for !done() {
		if p.check(TokenColon) {
			p.advance()
			continue
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)
	}

	return block, nil
}

func (p *Parser) booleanExpression() (Expr, error) {
	lhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	for p.check(TokenEq) || p.check(TokenNeq) || p.check(TokenLess) || p.check(TokenGreater) {
		op := p.cur
		p.advance()

		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}

		lhs = &BooleanExpression{
			Left:     lhs,
			Operator: op,
			Right:    rhs,
		}
	}

	return lhs, nil
}

func (p *Parser) expression() (Expr, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}

	for p.check(TokenPlus) || p.check(TokenMinus) {
		op := p.cur
		p.advance()

		rhs, err := p.term()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryOperation{
			Left:     lhs,
			Operator: op,
			Right:    rhs,
		}
	}

	return lhs, nil
}

func (p *Parser) term() (Expr, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}

	for p.check(TokenMultiply) || p.check(TokenDivide) {
		op := p.cur
		p.advance()

		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryOperation{
			Left:     lhs,
			Operator: op,
			Right:    rhs,
		}
	}

	return lhs, nil
}

func (p *Parser) factor() (Expr, error) {
	switch tok := p.cur; tok.Typ {
	case TokenNumber, TokenIdentifier:
		p.advance()
		return tok, nil
	case TokenOpenParentheses:
		return p.parenthesisedExpression()
	default:
		return nil, p.errorf("factor")
	}
}

func (p *Parser) parenthesisedExpression() (Expr, error) {
	p.advance() // Skip (

	exp, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses); err != nil {
		return nil, err
	}

	return exp, nil
}

func (p *Parser) functionCall() (Stmt, error) {
	name := p.cur
	p.advance()

	if _, err := p.expect(TokenOpenParentheses); err != nil {
		return nil, err
	}

	args, err := p.argList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses); err != nil {
		return nil, err
	}

	return &FunctionCall{
		Name: name,
		Args: args,
	}, nil
}

func (p *Parser) argList() ([]Expr, error) {
	args := []Expr{}
	if p.check(TokenCloseParentheses) {
		return args, nil
	}

	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.check(TokenComma) {
			return args, nil
		}

		p.advance() // Skip the comma
	}
}
