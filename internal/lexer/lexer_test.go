package lexer

import (
	"testing"

	"github.com/loomlang/loom/internal/token"
)

// collect drains the lexer into a list of tokens, stopping after EOF.
func collect(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
		if len(out) > 1000 {
			t.Fatal("lexer did not reach EOF")
		}
	}
}

func expectTypes(t *testing.T, input string, want []token.TokenType) []token.Token {
	t.Helper()
	toks := collect(t, input)
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), typesOf(toks))
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Fatalf("token %d: expected %s, got %s (%q)\nall: %v", i, want[i], tok.Type, tok.Lexeme, typesOf(toks))
		}
	}
	return toks
}

func typesOf(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestSingleLineFolds(t *testing.T) {
	input := "let id x = x\nlet a = id 1\n"
	expectTypes(t, input, []token.TokenType{
		token.LET, token.IDENT, token.IDENT, token.ASSIGN, token.IDENT, token.LINE_FOLD_END,
		token.LET, token.IDENT, token.ASSIGN, token.IDENT, token.INT, token.LINE_FOLD_END,
		token.EOF,
	})
}

func TestContinuationLine(t *testing.T) {
	// The second physical line is indented deeper than the fold start,
	// so it continues the fold: no virtual token in between.
	input := "let a = id\n    1\n"
	expectTypes(t, input, []token.TokenType{
		token.LET, token.IDENT, token.ASSIGN, token.IDENT, token.INT, token.LINE_FOLD_END,
		token.EOF,
	})
}

func TestDotOpensBlock(t *testing.T) {
	input := "let f x.\n  return x\n"
	expectTypes(t, input, []token.TokenType{
		token.LET, token.IDENT, token.IDENT, token.BLOCK_START,
		token.RETURN, token.IDENT, token.LINE_FOLD_END,
		token.BLOCK_END, token.LINE_FOLD_END,
		token.EOF,
	})
}

func TestNestedBlocks(t *testing.T) {
	input := "let f x.\n  if x.\n    return x\n  else.\n    return x\n"
	expectTypes(t, input, []token.TokenType{
		token.LET, token.IDENT, token.IDENT, token.BLOCK_START,
		token.IF, token.IDENT, token.BLOCK_START,
		token.RETURN, token.IDENT, token.LINE_FOLD_END,
		token.BLOCK_END, token.LINE_FOLD_END,
		token.ELSE, token.BLOCK_START,
		token.RETURN, token.IDENT, token.LINE_FOLD_END,
		token.BLOCK_END, token.LINE_FOLD_END,
		token.BLOCK_END, token.LINE_FOLD_END,
		token.EOF,
	})
}

func TestQualifiedDotIsNotBlockStart(t *testing.T) {
	input := "let a = geometry.area\n"
	expectTypes(t, input, []token.TokenType{
		token.LET, token.IDENT, token.ASSIGN, token.IDENT, token.DOT, token.IDENT,
		token.LINE_FOLD_END, token.EOF,
	})
}

func TestCommentsAndBlankLines(t *testing.T) {
	input := "# leading comment\nlet a = 1  # trailing\n\n# lone comment\nlet b = 2\n"
	expectTypes(t, input, []token.TokenType{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.LINE_FOLD_END,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.LINE_FOLD_END,
		token.EOF,
	})
}

func TestOperatorClassification(t *testing.T) {
	toks := expectTypes(t, "let a = 1 + 2 == 3\n", []token.TokenType{
		token.LET, token.IDENT, token.ASSIGN,
		token.INT, token.OPERATOR, token.INT, token.OPERATOR, token.INT,
		token.LINE_FOLD_END, token.EOF,
	})
	if toks[4].Literal != "+" {
		t.Errorf("expected +, got %q", toks[4].Literal)
	}
	if toks[6].Literal != "==" {
		t.Errorf("expected ==, got %q", toks[6].Literal)
	}
}

func TestArrowAndColon(t *testing.T) {
	expectTypes(t, "let h x : Int -> Int = x\n", []token.TokenType{
		token.LET, token.IDENT, token.IDENT, token.COLON,
		token.UPPER, token.ARROW, token.UPPER, token.ASSIGN, token.IDENT,
		token.LINE_FOLD_END, token.EOF,
	})
}

func TestUpperIdentifiers(t *testing.T) {
	toks := collect(t, "True\n")
	if toks[0].Type != token.UPPER {
		t.Errorf("expected UPPER, got %s", toks[0].Type)
	}
	if toks[0].Literal != "True" {
		t.Errorf("expected True, got %q", toks[0].Literal)
	}
}

func TestStringLiterals(t *testing.T) {
	toks := collect(t, `let s = "a\nb"`+"\n")
	str := toks[3]
	if str.Type != token.STRING {
		t.Fatalf("expected STRING, got %s", str.Type)
	}
	if str.Literal != "a\nb" {
		t.Errorf("expected cooked literal, got %q", str.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks := collect(t, "let s = \"oops\n")
	found := false
	for _, tok := range toks {
		if tok.Type == token.ILLEGAL {
			found = true
		}
	}
	if !found {
		t.Error("expected ILLEGAL token for unterminated string")
	}
}

func TestPositions(t *testing.T) {
	toks := collect(t, "let a = 1\n")
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("let: expected 1:1, got %d:%d", toks[0].Line, toks[0].Column)
	}
	if toks[1].Line != 1 || toks[1].Column != 5 {
		t.Errorf("a: expected 1:5, got %d:%d", toks[1].Line, toks[1].Column)
	}
	if toks[3].Column != 9 {
		t.Errorf("1: expected column 9, got %d", toks[3].Column)
	}
}

func TestWrappedOperatorTokens(t *testing.T) {
	expectTypes(t, "let (+) a b = a\n", []token.TokenType{
		token.LET, token.LPAREN, token.OPERATOR, token.RPAREN,
		token.IDENT, token.IDENT, token.ASSIGN, token.IDENT,
		token.LINE_FOLD_END, token.EOF,
	})
}

func TestStructPatternTokens(t *testing.T) {
	expectTypes(t, "let Point(x, ...rest) = p\n", []token.TokenType{
		token.LET, token.UPPER, token.LPAREN, token.IDENT, token.COMMA,
		token.ELLIPSIS, token.IDENT, token.RPAREN, token.ASSIGN, token.IDENT,
		token.LINE_FOLD_END, token.EOF,
	})
}
