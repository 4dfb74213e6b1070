package parser

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/lexer"
	"github.com/loomlang/loom/internal/token"
)

// Operator precedence levels. Custom operators take the level of their
// leading rune, so `|>` parses like `|` and `==~` like `==`.
const (
	LOWEST  = iota
	OR      // |...
	AND     // &...
	EQUALS  // = ! < > ...
	SUM     // + -
	PRODUCT // * / %
	MISC    // ^ ~ ? :
)

func precedenceOf(op string) int {
	if op == "" {
		return LOWEST
	}
	switch op[0] {
	case '|':
		return OR
	case '&':
		return AND
	case '=', '!', '<', '>':
		return EQUALS
	case '+', '-':
		return SUM
	case '*', '/', '%':
		return PRODUCT
	default:
		return MISC
	}
}

// Parser builds a SourceFile from the lexer's token stream.
type Parser struct {
	l    *lexer.Lexer
	file string

	curToken  token.Token
	peekToken token.Token

	diags *diagnostics.Bag
}

func New(l *lexer.Lexer, file string, diags *diagnostics.Bag) *Parser {
	p := &Parser{l: l, file: file, diags: diags}
	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token matches, otherwise reports.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	d := diagnostics.New(diagnostics.ErrP001, p.peekToken,
		fmt.Sprintf("expected %s, got %s", t, p.peekToken.Type))
	d.File = p.file
	p.diags.Add(d)
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	d := diagnostics.New(diagnostics.ErrP001, tok, msg)
	d.File = p.file
	p.diags.Add(d)
}

// ParseSourceFile consumes the whole token stream.
func (p *Parser) ParseSourceFile() *ast.SourceFile {
	sf := &ast.SourceFile{File: p.file}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			sf.Statements = append(sf.Statements, stmt)
		} else {
			p.recover()
		}
		p.nextToken()
	}
	return sf
}

// recover skips to the end of the current fold so one malformed
// statement yields one diagnostic.
func (p *Parser) recover() {
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.BLOCK_START:
			depth++
		case token.BLOCK_END:
			if depth == 0 {
				return
			}
			depth--
		case token.LINE_FOLD_END:
			if depth == 0 {
				return
			}
		}
		p.nextToken()
	}
}

// parseStatement parses one statement. On return the current token is
// the statement's final token (normally LINE_FOLD_END). A nil result
// means a parse error was reported; the caller resynchronizes.
// The explicit nil checks below keep typed nils out of the Statement
// interface.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		if d := p.parseLetDeclaration(); d != nil {
			return d
		}
	case token.STRUCT:
		if d := p.parseStructDeclaration(); d != nil {
			return d
		}
	case token.ENUM:
		if d := p.parseEnumDeclaration(); d != nil {
			return d
		}
	case token.TYPE:
		if d := p.parseTypeDeclaration(); d != nil {
			return d
		}
	case token.MOD:
		if d := p.parseModuleDeclaration(); d != nil {
			return d
		}
	case token.IF:
		if d := p.parseIfStatement(); d != nil {
			return d
		}
	case token.RETURN:
		if d := p.parseReturnStatement(); d != nil {
			return d
		}
	case token.LINE_FOLD_END:
		// Empty fold, nothing to do.
		return &ast.ExpressionStatement{Token: p.curToken}
	default:
		if d := p.parseExpressionStatement(); d != nil {
			return d
		}
	}
	return nil
}

func (p *Parser) parseLetDeclaration() *ast.LetDeclaration {
	decl := &ast.LetDeclaration{Token: p.curToken}

	p.nextToken()
	decl.Pattern = p.parsePattern()
	if decl.Pattern == nil {
		return nil
	}

	for p.peekStartsPattern() {
		p.nextToken()
		paramTok := p.curToken
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}
		decl.Params = append(decl.Params, &ast.Param{Token: paramTok, Pattern: pat})
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // the colon
		p.nextToken()
		decl.TypeAssert = p.parseTypeExpression()
		if decl.TypeAssert == nil {
			return nil
		}
	}

	switch {
	case p.peekTokenIs(token.ASSIGN):
		p.nextToken() // the '='
		p.nextToken()
		decl.Body = p.parseExpression(LOWEST)
		if decl.Body == nil {
			return nil
		}
		if !p.expectPeek(token.LINE_FOLD_END) {
			return nil
		}
	case p.peekTokenIs(token.BLOCK_START):
		p.nextToken()
		decl.Block = p.parseBlock()
		if !p.expectPeek(token.LINE_FOLD_END) {
			return nil
		}
	default:
		p.peekError(token.ASSIGN)
		return nil
	}

	return decl
}

// parseBlock parses the statements between BLOCK_START (current) and the
// matching BLOCK_END, leaving BLOCK_END as the current token.
func (p *Parser) parseBlock() []ast.Statement {
	var stmts []ast.Statement
	p.nextToken()
	for !p.curTokenIs(token.BLOCK_END) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.recover()
		}
		// Recovery may have stopped on the block's own end.
		if p.curTokenIs(token.BLOCK_END) || p.curTokenIs(token.EOF) {
			break
		}
		p.nextToken()
	}
	return stmts
}

func (p *Parser) parseStructDeclaration() *ast.StructDeclaration {
	decl := &ast.StructDeclaration{Token: p.curToken}
	if !p.expectPeek(token.UPPER) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.BLOCK_START) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.BLOCK_END) && !p.curTokenIs(token.EOF) {
		field := p.parseStructField()
		if field != nil {
			decl.Fields = append(decl.Fields, field)
		} else {
			p.recover()
		}
		if p.curTokenIs(token.BLOCK_END) || p.curTokenIs(token.EOF) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return decl
}

func (p *Parser) parseStructField() *ast.StructFieldDecl {
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(p.curToken, fmt.Sprintf("expected field name, got %s", p.curToken.Type))
		return nil
	}
	field := &ast.StructFieldDecl{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	field.Type = p.parseTypeExpression()
	if field.Type == nil {
		return nil
	}
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return field
}

func (p *Parser) parseEnumDeclaration() *ast.EnumDeclaration {
	decl := &ast.EnumDeclaration{Token: p.curToken}
	if !p.expectPeek(token.UPPER) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.BLOCK_START) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.BLOCK_END) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.UPPER) {
			member := &ast.EnumMember{
				Token: p.curToken,
				Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
			}
			decl.Members = append(decl.Members, member)
			if !p.expectPeek(token.LINE_FOLD_END) {
				return nil
			}
		} else {
			p.errorAt(p.curToken, fmt.Sprintf("expected enum member, got %s", p.curToken.Type))
			p.recover()
		}
		if p.curTokenIs(token.BLOCK_END) || p.curTokenIs(token.EOF) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return decl
}

func (p *Parser) parseTypeDeclaration() *ast.TypeDeclaration {
	decl := &ast.TypeDeclaration{Token: p.curToken}
	if !p.expectPeek(token.UPPER) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	decl.Type = p.parseTypeExpression()
	if decl.Type == nil {
		return nil
	}
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return decl
}

func (p *Parser) parseModuleDeclaration() *ast.ModuleDeclaration {
	decl := &ast.ModuleDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.BLOCK_START) {
		return nil
	}
	decl.Body = p.parseBlock()
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return decl
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	for {
		c := &ast.IfCase{Token: p.curToken}
		if !p.curTokenIs(token.ELSE) {
			p.nextToken()
			c.Test = p.parseExpression(LOWEST)
			if c.Test == nil {
				return nil
			}
		}
		if !p.expectPeek(token.BLOCK_START) {
			return nil
		}
		c.Body = p.parseBlock()
		if !p.expectPeek(token.LINE_FOLD_END) {
			return nil
		}
		stmt.Cases = append(stmt.Cases, c)

		if c.Test == nil {
			// An else arm ends the chain.
			break
		}
		if p.peekTokenIs(token.ELIF) || p.peekTokenIs(token.ELSE) {
			p.nextToken()
			continue
		}
		break
	}

	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.LINE_FOLD_END) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Expr = p.parseExpression(LOWEST)
	if stmt.Expr == nil {
		return nil
	}
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expr = p.parseExpression(LOWEST)
	if stmt.Expr == nil {
		return nil
	}
	if !p.expectPeek(token.LINE_FOLD_END) {
		return nil
	}
	return stmt
}
