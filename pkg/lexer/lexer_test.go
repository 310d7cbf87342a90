package lexer_test

import (
	"testing"

	"github.com/boolexpr/booleano-go/pkg/grammar"
	"github.com/boolexpr/booleano-go/pkg/lexer"
)

func mustGrammar(t *testing.T, b *grammar.Builder) *grammar.Grammar {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func tokenize(t *testing.T, g *grammar.Grammar, src string) []lexer.Token {
	t.Helper()
	lx, err := lexer.New(g, src)
	if err != nil {
		t.Fatal(err)
	}
	var toks []lexer.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			return toks
		}
	}
}

func TestLexerBasicOperators(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, "a & b | ~c")
	want := []lexer.TokenType{lexer.IDENT, lexer.AND, lexer.IDENT, lexer.OR, lexer.NOT, lexer.IDENT, lexer.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestLexerLongestMatchRelational(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, "a <= b")
	if toks[1].Type != lexer.LE {
		t.Fatalf("expected <= to scan as LE, got %v", toks[1].Type)
	}
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, "año & 名前")
	if toks[0].Type != lexer.IDENT || toks[0].Literal != "año" {
		t.Fatalf("expected unicode identifier 'año', got %+v", toks[0])
	}
	if toks[2].Type != lexer.IDENT || toks[2].Literal != "名前" {
		t.Fatalf("expected unicode identifier '名前', got %+v", toks[2])
	}
}

func TestLexerQuotedString(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, `"hello world"`)
	if toks[0].Type != lexer.STRING || toks[0].Literal != "hello world" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexerUnclosedString(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	lx, err := lexer.New(g, `"unterminated`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lx.NextToken(); err == nil {
		t.Fatal("expected an error for an unclosed string literal")
	}
}

func TestLexerSignedAndDecimalNumber(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, "-12,345.50")
	if toks[0].Type != lexer.NUMBER {
		t.Fatalf("expected a NUMBER token, got %+v", toks[0])
	}
	if toks[0].Literal != "-12345.50" {
		t.Fatalf("expected thousands separator stripped and decimal normalised, got %q", toks[0].Literal)
	}
}

func TestLexerOptionalPositiveSignDisabled(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder().WithSetting(grammar.SetOptionalPositiveSign, false))
	lx, err := lexer.New(g, "42")
	if err != nil {
		t.Fatal(err)
	}
	// With the explicit-sign setting, a bare digit run is not a number
	// start, nor an identifier, nor any operator literal: it is lexed as
	// an unexpected character.
	if _, err := lx.NextToken(); err == nil {
		t.Fatal("expected a bare digit run to be rejected when optional_positive_sign is false")
	}
}

func TestLexerOptionalPositiveSignDisabledAcceptsExplicitSign(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder().WithSetting(grammar.SetOptionalPositiveSign, false))
	toks := tokenize(t, g, "+42")
	if toks[0].Type != lexer.NUMBER || toks[0].Literal != "+42" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexerNamespaceSeparator(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, "ns:var")
	want := []lexer.TokenType{lexer.IDENT, lexer.NAMESPACE_SEP, lexer.IDENT, lexer.EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestLexerSharedParenLiteralsResolveToGroupTokens(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	toks := tokenize(t, g, "f(x)")
	// group_start and arguments_start share "(" by default; the stable
	// sort over operatorTokens keeps GROUP_START winning the tie.
	if toks[1].Type != lexer.GROUP_START {
		t.Fatalf("expected shared '(' literal to resolve to GROUP_START by default, got %v", toks[1].Type)
	}
}

func TestLexerCustomDistinctArgumentTokens(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder().
		WithToken(grammar.TokArgumentsStart, "[").
		WithToken(grammar.TokArgumentsEnd, "]"))
	toks := tokenize(t, g, "f[x]")
	if toks[1].Type != lexer.ARGS_START {
		t.Fatalf("expected distinct '[' literal to scan as ARGS_START, got %v", toks[1].Type)
	}
	if toks[3].Type != lexer.ARGS_END {
		t.Fatalf("expected distinct ']' literal to scan as ARGS_END, got %v", toks[3].Type)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	lx, err := lexer.New(g, "@")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lx.NextToken(); err == nil {
		t.Fatal("expected an error for an unrecognised character")
	}
}

func TestLexerSaveRestore(t *testing.T) {
	g := mustGrammar(t, grammar.NewBuilder())
	lx, err := lexer.New(g, "a & b")
	if err != nil {
		t.Fatal(err)
	}
	first, err := lx.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	state := lx.Save()
	second, err := lx.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	lx.Restore(state)
	replay, err := lx.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if replay.Type != second.Type || replay.Literal != second.Literal {
		t.Fatalf("expected Restore to replay the same token, got %+v vs %+v", replay, second)
	}
	_ = first
}
