// Package parser implements the packrat-memoised, precedence-cascaded
// recursive-descent parser that turns an expression string plus a
// pkg/grammar.Grammar into an pkg/ast.Node tree (spec.md §4.5). Each of
// the seven precedence levels memoises its result per input position in
// a table scoped to the one Parser value driving a single parse, so
// revisiting the same (level, position) pair never reparses it.
//
// It is grounded on the teacher's internal/parser.Parser: a hand-rolled
// Pratt parser with one method per precedence level and a single-token
// lookahead cursor, generalised here from a fixed statement/expression
// grammar into a grammar whose token strings and operator settings are
// themselves data (pkg/grammar.Grammar), with the cascade depth fixed by
// spec.md §4.5's seven levels instead of a precedence table.
package parser

import (
	"strconv"
	"strings"

	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/grammar"
	"github.com/boolexpr/booleano-go/pkg/lexer"
	"github.com/boolexpr/booleano-go/pkg/scope"
)

// ParseFn is the signature every custom subparser generator must satisfy
// (spec.md §4.4): given the parser positioned at the construct it is
// meant to replace, it returns the node it produced, or (nil, nil) to
// decline and let the default production run instead. grammar.Generator
// is declared as `any` to avoid an import cycle; ParseFn is the concrete
// type pkg/grammar.Builder.WithGenerator callers actually pass in.
type ParseFn func(p *Parser) (ast.Node, error)

// Resolver turns a namespace-qualified identifier into a scope binding.
// *scope.SymbolTable satisfies this directly. Evaluable parses require
// one; convertible parses pass nil and get placeholder nodes instead.
type Resolver interface {
	Resolve(namespacePath []string, name string) (*scope.Binding, error)
}

// Parser holds the lexing and resolution state for a single parse. A
// Parser is not reused across calls to ParseEvaluable/ParseConvertible;
// each call builds a fresh one, and its memo table (below) is built fresh
// along with it — memoisation is per-parse state, never global (spec.md's
// "Global parser state for memoisation → per-parse state" redesign).
type Parser struct {
	lex      *lexer.Lexer
	g        *grammar.Grammar
	resolver Resolver
	source   string
	cur      lexer.Token

	posSign, negSign, decSep, thouSep string
	setRightInContains                bool
	supersetRightInIsSubset           bool

	opGen     ParseFn
	stringGen ParseFn
	numberGen ParseFn

	memo map[memoKey]memoEntry
}

// level identifies one rung of the precedence cascade for memoisation
// purposes; it is never exposed outside the package.
type level int

const (
	levelOr level = iota
	levelXor
	levelAnd
	levelNot
	levelMembership
	levelRelational
	levelAtom
)

// memoKey packrat-memoises a sub-parser's result at an input position:
// the same (level, position) pair will always reparse to the same node,
// error, and continuation, since no parser state other than the lexer
// cursor and lookahead token affects a production's outcome.
type memoKey struct {
	lvl  level
	line int
	col  int
}

// memoEntry is the cached outcome of parsing one (level, position) pair:
// the node or error produced, plus the parser state immediately after,
// so a cache hit can fast-forward the cursor without rescanning.
type memoEntry struct {
	node  ast.Node
	err   error
	after parserState
}

// parserState snapshots everything parsing a production can change:
// the lexer's scan position and the parser's one-token lookahead.
type parserState struct {
	lex lexer.State
	cur lexer.Token
}

func (p *Parser) snapshot() parserState { return parserState{lex: p.lex.Save(), cur: p.cur} }

func (p *Parser) restoreState(s parserState) {
	p.lex.Restore(s.lex)
	p.cur = s.cur
}

// memoized runs parse once per distinct (lvl, position) pair reached
// during this Parser's lifetime, reusing the cached node/error and
// fast-forwarding past it on every later visit to the same pair (spec.md
// §4.5 "the parser caches the result of each sub-parser at each input
// position to avoid exponential backtracking in the precedence cascade").
func (p *Parser) memoized(lvl level, parse func() (ast.Node, error)) (ast.Node, error) {
	key := memoKey{lvl: lvl, line: p.cur.Pos.Line, col: p.cur.Pos.Column}
	if entry, ok := p.memo[key]; ok {
		p.restoreState(entry.after)
		return entry.node, entry.err
	}
	node, err := parse()
	p.memo[key] = memoEntry{node: node, err: err, after: p.snapshot()}
	return node, err
}

func newParser(g *grammar.Grammar, source string, resolver Resolver) (*Parser, error) {
	lx, err := lexer.New(g, source)
	if err != nil {
		return nil, err
	}
	p := &Parser{lex: lx, g: g, resolver: resolver, source: source, memo: make(map[memoKey]memoEntry)}

	fetch := func(k grammar.TokenKey) (string, error) { return g.GetToken(k) }
	var ferr error
	set := func(dst *string, k grammar.TokenKey) {
		if ferr != nil {
			return
		}
		v, err := fetch(k)
		if err != nil {
			ferr = err
			return
		}
		*dst = v
	}
	set(&p.posSign, grammar.TokPositiveSign)
	set(&p.negSign, grammar.TokNegativeSign)
	set(&p.decSep, grammar.TokDecimalSeparator)
	set(&p.thouSep, grammar.TokThousandsSeparator)
	if ferr != nil {
		return nil, ferr
	}

	if p.setRightInContains, err = g.GetSetting(grammar.SetSetRightInContains); err != nil {
		return nil, err
	}
	if p.supersetRightInIsSubset, err = g.GetSetting(grammar.SetSupersetRightInIsSubset); err != nil {
		return nil, err
	}

	if gen, ok, _ := g.CustomGenerator(grammar.GenOperation); ok {
		if fn, ok := gen.(ParseFn); ok {
			p.opGen = fn
		}
	}
	if gen, ok, _ := g.CustomGenerator(grammar.GenString); ok {
		if fn, ok := gen.(ParseFn); ok {
			p.stringGen = fn
		}
	}
	if gen, ok, _ := g.CustomGenerator(grammar.GenNumber); ok {
		if fn, ok := gen.(ParseFn); ok {
			p.numberGen = fn
		}
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseEvaluable parses source into a fully bound tree: every identifier
// must resolve through resolver, producing *ast.BoundVariable or
// *ast.BoundFunctionCall nodes (spec.md §4.1 Evaluable parse trees).
func ParseEvaluable(g *grammar.Grammar, resolver Resolver, source string) (ast.Node, error) {
	p, err := newParser(g, source, resolver)
	if err != nil {
		return nil, err
	}
	return p.parseComplete()
}

// ParseConvertible parses source without resolving any identifier:
// variables and function calls become *ast.PlaceholderVariable and
// *ast.PlaceholderFunction (spec.md §4.1 Convertible parse trees).
func ParseConvertible(g *grammar.Grammar, source string) (ast.Node, error) {
	p, err := newParser(g, source, nil)
	if err != nil {
		return nil, err
	}
	return p.parseComplete()
}

func (p *Parser) parseComplete() (ast.Node, error) {
	root, err := p.parseTop()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.EOF {
		return nil, p.errorf("unexpected trailing input %q")
	}
	return root, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) pos() boolerr.Position {
	return boolerr.Position{Line: p.cur.Pos.Line, Column: p.cur.Pos.Column}
}

func (p *Parser) errorf(format string) error {
	return boolerr.NewAt(boolerr.Parsing, p.pos(), p.source, format, p.cur.Literal)
}

func (p *Parser) expect(t lexer.TokenType, what string) error {
	if p.cur.Type != t {
		return boolerr.NewAt(boolerr.Parsing, p.pos(), p.source, "expected %s, got %q", what, p.cur.Literal)
	}
	return p.advance()
}

// parseTop is the entry point; a registered "operation" generator
// replaces the whole precedence cascade when present.
func (p *Parser) parseTop() (ast.Node, error) {
	if p.opGen != nil {
		node, err := p.opGen(p)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	return p.parseOr()
}

// --- precedence cascade: or < xor < and < not < membership < relational < atoms ---

func (p *Parser) parseOr() (ast.Node, error) {
	return p.memoized(levelOr, p.parseOrUncached)
}

func (p *Parser) parseOrUncached() (ast.Node, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.OR {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left, err = ast.NewOr(left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseXor() (ast.Node, error) {
	return p.memoized(levelXor, p.parseXorUncached)
}

func (p *Parser) parseXorUncached() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.XOR {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left, err = ast.NewXor(left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	return p.memoized(levelAnd, p.parseAndUncached)
}

func (p *Parser) parseAndUncached() (ast.Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.AND {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left, err = ast.NewAnd(left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Node, error) {
	return p.memoized(levelNot, p.parseNotUncached)
}

func (p *Parser) parseNotUncached() (ast.Node, error) {
	if p.cur.Type == lexer.NOT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.NewNot(operand)
	}
	return p.parseMembership()
}

func (p *Parser) parseMembership() (ast.Node, error) {
	return p.memoized(levelMembership, p.parseMembershipUncached)
}

func (p *Parser) parseMembershipUncached() (ast.Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case lexer.BELONGS_TO:
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		item, set := left, right
		if !p.setRightInContains {
			item, set = right, left
		}
		return ast.NewBelongsTo(item, set)
	case lexer.IS_SUBSET:
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		subset, superset := left, right
		if !p.supersetRightInIsSubset {
			subset, superset = right, left
		}
		return ast.NewIsSubset(subset, superset)
	default:
		return left, nil
	}
}

func (p *Parser) parseRelational() (ast.Node, error) {
	return p.memoized(levelRelational, p.parseRelationalUncached)
}

func (p *Parser) parseRelationalUncached() (ast.Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case lexer.EQ:
		return p.finishRelational(left, func(l, r ast.Node) (ast.Node, error) { return ast.NewEqual(l, r) })
	case lexer.NE:
		return p.finishRelational(left, func(l, r ast.Node) (ast.Node, error) { return ast.NewNotEqual(l, r) })
	case lexer.LT:
		return p.finishRelational(left, ast.NewLessThan)
	case lexer.GT:
		return p.finishRelational(left, ast.NewGreaterThan)
	case lexer.LE:
		return p.finishRelational(left, func(l, r ast.Node) (ast.Node, error) { return ast.NewLessEqual(l, r) })
	case lexer.GE:
		return p.finishRelational(left, func(l, r ast.Node) (ast.Node, error) { return ast.NewGreaterEqual(l, r) })
	default:
		return left, nil
	}
}

func (p *Parser) finishRelational(left ast.Node, build func(l, r ast.Node) (ast.Node, error)) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return build(left, right)
}

// --- atoms ---

func (p *Parser) isOpenParen() bool  { return p.cur.Type == lexer.GROUP_START || p.cur.Type == lexer.ARGS_START }
func (p *Parser) isCloseParen() bool { return p.cur.Type == lexer.GROUP_END || p.cur.Type == lexer.ARGS_END }
func (p *Parser) isArgSep() bool     { return p.cur.Type == lexer.ELEMENT_SEP || p.cur.Type == lexer.ARGS_SEP }

func (p *Parser) parseAtom() (ast.Node, error) {
	return p.memoized(levelAtom, p.parseAtomUncached)
}

func (p *Parser) parseAtomUncached() (ast.Node, error) {
	switch p.cur.Type {
	case lexer.GROUP_START, lexer.ARGS_START:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseTop()
		if err != nil {
			return nil, err
		}
		if !p.isCloseParen() {
			return nil, p.errorf("expected closing parenthesis, got %q")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.STRING:
		return p.parseString()

	case lexer.NUMBER:
		return p.parseNumber()

	case lexer.SET_START:
		return p.parseSet()

	case lexer.IDENT:
		return p.parseIdentOrCall()

	default:
		return nil, p.errorf("unexpected token %q")
	}
}

func (p *Parser) parseString() (ast.Node, error) {
	if p.stringGen != nil {
		node, err := p.stringGen(p)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	lit := p.cur.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewConstantString(lit), nil
}

func (p *Parser) parseNumber() (ast.Node, error) {
	if p.numberGen != nil {
		node, err := p.numberGen(p)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	lit := p.cur.Literal
	pos := p.pos()
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := p.normalizeNumber(lit)
	if err != nil {
		return nil, boolerr.NewAt(boolerr.Parsing, pos, p.source, "malformed number literal %q", lit)
	}
	return ast.NewConstantNumber(v), nil
}

// normalizeNumber rewrites a number literal scanned under the grammar's
// configured sign token into a form strconv.ParseFloat accepts: a leading
// "-" (or nothing, for a positive literal). The lexer has already dropped
// the thousands separators and written "." as the fractional separator.
func (p *Parser) normalizeNumber(lit string) (float64, error) {
	s := lit
	switch {
	case p.negSign != "" && strings.HasPrefix(s, p.negSign):
		s = "-" + s[len(p.negSign):]
	case p.posSign != "" && strings.HasPrefix(s, p.posSign):
		s = s[len(p.posSign):]
	}
	return strconv.ParseFloat(s, 64)
}

func (p *Parser) parseSet() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var elems []ast.Node
	if p.cur.Type != lexer.SET_END {
		for {
			el, err := p.parseTop()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if p.cur.Type == lexer.ELEMENT_SEP {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if p.cur.Type != lexer.SET_END {
		return nil, p.errorf("expected closing brace, got %q")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewConstantSet(elems), nil
}

func (p *Parser) parseIdentOrCall() (ast.Node, error) {
	pos := p.pos()
	segs := []string{p.cur.Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.NAMESPACE_SEP {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type != lexer.IDENT {
			return nil, p.errorf("expected identifier after namespace separator, got %q")
		}
		segs = append(segs, p.cur.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	path := segs[:len(segs)-1]
	name := segs[len(segs)-1]

	if !p.isOpenParen() {
		return p.buildVariable(name, path, pos)
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Node
	if !p.isCloseParen() {
		for {
			arg, err := p.parseTop()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.isArgSep() {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if !p.isCloseParen() {
		return nil, p.errorf("expected closing parenthesis in function call, got %q")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.buildFunction(name, path, args, pos)
}

func (p *Parser) buildVariable(name string, path []string, pos boolerr.Position) (ast.Node, error) {
	if p.resolver == nil {
		return ast.NewPlaceholderVariable(name, path), nil
	}
	b, err := p.resolver.Resolve(path, name)
	if err != nil {
		return nil, withPos(err, pos, p.source)
	}
	if b.IsFunction() {
		return nil, boolerr.NewAt(boolerr.BadExpression, pos, p.source, "%q is a function, not a variable", name)
	}
	return ast.NewBoundVariable(name, path, b.Operand()), nil
}

func (p *Parser) buildFunction(name string, path []string, args []ast.Node, pos boolerr.Position) (ast.Node, error) {
	if p.resolver == nil {
		return ast.NewPlaceholderFunction(name, path, args), nil
	}
	b, err := p.resolver.Resolve(path, name)
	if err != nil {
		return nil, withPos(err, pos, p.source)
	}
	if !b.IsFunction() {
		return nil, boolerr.NewAt(boolerr.BadExpression, pos, p.source, "%q is a variable, not a function", name)
	}
	call, err := ast.NewBoundFunctionCall(name, path, b.FunctionDescriptor(), args)
	if err != nil {
		return nil, withPos(err, pos, p.source)
	}
	return call, nil
}

// withPos re-raises a boolerr.Error captured without a source position
// (scope/function errors, raised far from any token) at the identifier's
// position, so a parse failure always points somewhere in the source.
func withPos(err error, pos boolerr.Position, source string) error {
	e, ok := err.(*boolerr.Error)
	if !ok || e.Pos.Line != 0 {
		return err
	}
	return boolerr.NewAt(e.Kind, pos, source, "%s", e.Message)
}
