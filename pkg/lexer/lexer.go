package lexer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/grammar"
)

type operatorEntry struct {
	literal []rune
	typ     TokenType
}

// Lexer scans a rune slice into Tokens according to a grammar.
type Lexer struct {
	input    []rune
	source   string
	pos      int
	line     int
	column   int
	operators []operatorEntry
	g         *grammar.Grammar

	stringStart, stringEnd             []rune
	positiveSign, negativeSign         []rune
	decimalSeparator, thousandsSeparator []rune
	identifierSpacing                  []rune
	optionalPositiveSign               bool
}

// New builds a Lexer over input, configured by g.
func New(g *grammar.Grammar, input string) (*Lexer, error) {
	l := &Lexer{input: []rune(input), source: input, line: 1, column: 1, g: g}

	get := func(k grammar.TokenKey) ([]rune, error) {
		s, err := g.GetToken(k)
		if err != nil {
			return nil, err
		}
		return []rune(s), nil
	}

	var err error
	if l.stringStart, err = get(grammar.TokStringStart); err != nil {
		return nil, err
	}
	if l.stringEnd, err = get(grammar.TokStringEnd); err != nil {
		return nil, err
	}
	if l.positiveSign, err = get(grammar.TokPositiveSign); err != nil {
		return nil, err
	}
	if l.negativeSign, err = get(grammar.TokNegativeSign); err != nil {
		return nil, err
	}
	if l.decimalSeparator, err = get(grammar.TokDecimalSeparator); err != nil {
		return nil, err
	}
	if l.thousandsSeparator, err = get(grammar.TokThousandsSeparator); err != nil {
		return nil, err
	}
	if l.identifierSpacing, err = get(grammar.TokIdentifierSpacing); err != nil {
		return nil, err
	}
	l.optionalPositiveSign, err = g.GetSetting(grammar.SetOptionalPositiveSign)
	if err != nil {
		return nil, err
	}

	for _, spec := range operatorTokens {
		lit, err := get(spec.key)
		if err != nil {
			return nil, err
		}
		l.operators = append(l.operators, operatorEntry{literal: lit, typ: spec.typ})
	}
	// Longest literal first, so "<=" is matched before "<".
	sort.SliceStable(l.operators, func(i, j int) bool {
		return len(l.operators[i].literal) > len(l.operators[j].literal)
	})

	return l, nil
}

func (l *Lexer) currentPos() Position { return Position{Line: l.line, Column: l.column} }

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) peekRune(offset int) (rune, bool) {
	i := l.pos + offset
	if i < 0 || i >= len(l.input) {
		return 0, false
	}
	return l.input[i], true
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.eof() {
			return
		}
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) hasPrefix(lit []rune) bool {
	if len(lit) == 0 || l.pos+len(lit) > len(l.input) {
		return false
	}
	for i, r := range lit {
		if l.input[l.pos+i] != r {
			return false
		}
	}
	return true
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.input[l.pos]) {
		l.advance(1)
	}
}

// NextToken scans and returns the next token. Scanning stops producing
// meaningful tokens once EOF is returned; subsequent calls keep returning
// EOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	startPos := l.currentPos()

	if l.eof() {
		return Token{Type: EOF, Pos: startPos}, nil
	}

	if l.hasPrefix(l.stringStart) {
		return l.scanString(startPos)
	}

	if l.isIdentStart() {
		return l.scanIdentifier(startPos), nil
	}

	if l.isNumberStart() {
		return l.scanNumber(startPos)
	}

	for _, op := range l.operators {
		if l.hasPrefix(op.literal) {
			lit := string(op.literal)
			l.advance(len(op.literal))
			return Token{Type: op.typ, Literal: lit, Pos: startPos}, nil
		}
	}

	ch, _ := l.peekRune(0)
	l.advance(1)
	return Token{}, boolerr.NewAt(boolerr.Parsing, boolerr.Position{Line: startPos.Line, Column: startPos.Column}, l.source,
		"unexpected character %q", ch)
}

func (l *Lexer) isIdentStart() bool {
	ch, ok := l.peekRune(0)
	if !ok {
		return false
	}
	if unicode.IsDigit(ch) {
		return false
	}
	return unicode.IsLetter(ch) || l.runeIn(ch, l.identifierSpacing)
}

func (l *Lexer) isIdentContinue(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || l.runeIn(ch, l.identifierSpacing)
}

func (l *Lexer) runeIn(ch rune, set []rune) bool {
	for _, r := range set {
		if r == ch {
			return true
		}
	}
	return false
}

func (l *Lexer) scanIdentifier(startPos Position) Token {
	var sb strings.Builder
	for !l.eof() {
		ch := l.input[l.pos]
		if !l.isIdentContinue(ch) {
			break
		}
		sb.WriteRune(ch)
		l.advance(1)
	}
	return Token{Type: IDENT, Literal: sb.String(), Pos: startPos}
}

// isNumberStart recognises where a number literal begins. When the
// grammar's optional_positive_sign setting is false, a bare digit run is
// not itself a number start — positive numerals must carry the explicit
// positive_sign token, matching the source library's NumberOperand
// grammar option of the same name.
func (l *Lexer) isNumberStart() bool {
	ch, ok := l.peekRune(0)
	if !ok {
		return false
	}
	if unicode.IsDigit(ch) {
		return l.optionalPositiveSign
	}
	if l.hasPrefix(l.negativeSign) {
		next, ok := l.peekRune(len(l.negativeSign))
		return ok && unicode.IsDigit(next)
	}
	if l.hasPrefix(l.positiveSign) {
		next, ok := l.peekRune(len(l.positiveSign))
		return ok && unicode.IsDigit(next)
	}
	return false
}

// scanNumber recognises an optionally signed decimal numeral whose integer
// part is plain digits or 3-digit groups separated by the thousands
// separator, with an optional fractional part (spec.md §4.5).
func (l *Lexer) scanNumber(startPos Position) (Token, error) {
	var sb strings.Builder

	if l.hasPrefix(l.negativeSign) {
		sb.WriteString(string(l.negativeSign))
		l.advance(len(l.negativeSign))
	} else if l.hasPrefix(l.positiveSign) {
		sb.WriteString(string(l.positiveSign))
		l.advance(len(l.positiveSign))
	}

	digits := func() string {
		var d strings.Builder
		for !l.eof() && unicode.IsDigit(l.input[l.pos]) {
			d.WriteRune(l.input[l.pos])
			l.advance(1)
		}
		return d.String()
	}

	first := digits()
	if first == "" {
		return Token{}, boolerr.NewAt(boolerr.Parsing, boolerr.Position{Line: startPos.Line, Column: startPos.Column}, l.source,
			"malformed number literal")
	}
	sb.WriteString(first)

	// Grouped thousands: a leading group of 1-3 digits, then zero or
	// more exactly-3-digit groups separated by thousandsSeparator.
	if len(first) <= 3 {
		for l.hasPrefix(l.thousandsSeparator) {
			save := l.pos
			saveLine, saveCol := l.line, l.column
			l.advance(len(l.thousandsSeparator))
			group := digits()
			if len(group) != 3 {
				l.pos, l.line, l.column = save, saveLine, saveCol
				break
			}
			sb.WriteString(group)
		}
	}

	if l.hasPrefix(l.decimalSeparator) {
		save := l.pos
		saveLine, saveCol := l.line, l.column
		l.advance(len(l.decimalSeparator))
		frac := digits()
		if frac == "" {
			l.pos, l.line, l.column = save, saveLine, saveCol
		} else {
			sb.WriteString(".")
			sb.WriteString(frac)
		}
	}

	return Token{Type: NUMBER, Literal: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) scanString(startPos Position) (Token, error) {
	l.advance(len(l.stringStart))
	var sb strings.Builder
	for {
		if l.eof() {
			return Token{}, boolerr.NewAt(boolerr.Parsing, boolerr.Position{Line: startPos.Line, Column: startPos.Column}, l.source,
				"unclosed string literal")
		}
		if l.hasPrefix(l.stringEnd) {
			l.advance(len(l.stringEnd))
			return Token{Type: STRING, Literal: sb.String(), Pos: startPos}, nil
		}
		sb.WriteRune(l.input[l.pos])
		l.advance(1)
	}
}

// State is a saved lexer position, restored by pkg/parser's packrat memo
// table to fast-forward past an already-parsed production instead of
// rescanning it — grounded on the teacher's LexerState save/restore
// mechanism.
type State struct {
	pos    int
	line   int
	column int
}

func (l *Lexer) Save() State { return State{pos: l.pos, line: l.line, column: l.column} }

func (l *Lexer) Restore(s State) { l.pos, l.line, l.column = s.pos, s.line, s.column }
