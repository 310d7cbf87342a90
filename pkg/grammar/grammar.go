// Package grammar holds the reconfigurable surface syntax of the boolean
// expression language: token strings, boolean settings, and optional
// custom subparser generators (spec.md §4.4). It is built through a
// fluent Builder the way the teacher's internal/parser.ParserBuilder
// configures a Parser, so hosts assemble a Grammar with chained calls
// before ever touching pkg/lexer or pkg/parser.
package grammar

import "github.com/boolexpr/booleano-go/pkg/boolerr"

// TokenKey names one of the fixed grammar token slots.
type TokenKey string

const (
	TokNot                 TokenKey = "not"
	TokAnd                 TokenKey = "and"
	TokOr                  TokenKey = "or"
	TokXor                 TokenKey = "xor"
	TokEq                  TokenKey = "eq"
	TokNe                  TokenKey = "ne"
	TokLt                  TokenKey = "lt"
	TokGt                  TokenKey = "gt"
	TokLe                  TokenKey = "le"
	TokGe                  TokenKey = "ge"
	TokBelongsTo           TokenKey = "belongs_to"
	TokIsSubset            TokenKey = "is_subset"
	TokSetStart            TokenKey = "set_start"
	TokSetEnd              TokenKey = "set_end"
	TokElementSeparator    TokenKey = "element_separator"
	TokStringStart         TokenKey = "string_start"
	TokStringEnd           TokenKey = "string_end"
	TokGroupStart          TokenKey = "group_start"
	TokGroupEnd            TokenKey = "group_end"
	TokArgumentsStart      TokenKey = "arguments_start"
	TokArgumentsEnd        TokenKey = "arguments_end"
	TokArgumentsSeparator  TokenKey = "arguments_separator"
	TokPositiveSign        TokenKey = "positive_sign"
	TokNegativeSign        TokenKey = "negative_sign"
	TokDecimalSeparator    TokenKey = "decimal_separator"
	TokThousandsSeparator  TokenKey = "thousands_separator"
	TokIdentifierSpacing   TokenKey = "identifier_spacing"
	TokNamespaceSeparator  TokenKey = "namespace_separator"
)

// SettingKey names one of the fixed grammar boolean settings.
type SettingKey string

const (
	// SetSupersetRightInIsSubset: when true (default), "a ⊂ b" reads as
	// "a is a subset of b" (superset on the right). When false, the
	// sides are swapped at the grammar level before IsSubset's own
	// master/slave rule (set side always master) applies.
	SetSupersetRightInIsSubset SettingKey = "superset_right_in_is_subset"
	// SetSetRightInContains: when true (default), "item ∈ set" reads
	// set-on-the-right. When false, the grammar expects "set ∈ item".
	SetSetRightInContains SettingKey = "set_right_in_contains"
	// SetOptionalPositiveSign: when true (default), a number literal's
	// leading "+" may be omitted.
	SetOptionalPositiveSign SettingKey = "optional_positive_sign"
)

// Which identifies a custom subparser generator slot (spec.md §4.4).
type Which string

const (
	GenOperation Which = "operation"
	GenString    Which = "string"
	GenNumber    Which = "number"
)

// defaultTokens mirrors spec.md §4.4's defaults: "symbolic/ASCII".
var defaultTokens = map[TokenKey]string{
	TokNot:                "~",
	TokAnd:                "&",
	TokOr:                 "|",
	TokXor:                "^",
	TokEq:                 "==",
	TokNe:                 "!=",
	TokLt:                 "<",
	TokGt:                 ">",
	TokLe:                 "<=",
	TokGe:                 ">=",
	TokBelongsTo:          "∈", // ∈
	TokIsSubset:           "⊂", // ⊂
	TokSetStart:           "{",
	TokSetEnd:             "}",
	TokElementSeparator:   ",",
	TokStringStart:        "\"",
	TokStringEnd:          "\"",
	TokGroupStart:         "(",
	TokGroupEnd:           ")",
	TokArgumentsStart:     "(",
	TokArgumentsEnd:       ")",
	TokArgumentsSeparator: ",",
	TokPositiveSign:       "+",
	TokNegativeSign:       "-",
	TokDecimalSeparator:   ".",
	TokThousandsSeparator: ",",
	TokIdentifierSpacing:  "_",
	TokNamespaceSeparator: ":",
}

var defaultSettings = map[SettingKey]bool{
	SetSupersetRightInIsSubset: true,
	SetSetRightInContains:      true,
	SetOptionalPositiveSign:    true,
}

// Generator builds a custom parse function given the grammar it belongs
// to; spec.md §9 re-architects the source's dynamically checked generator
// hooks as a typed function value. ParseFn is declared in pkg/parser, so
// Generator is an opaque `any` here to avoid grammar depending on parser;
// pkg/parser type-asserts it back on use.
type Generator any

// Grammar is immutable once built; it is shared-read safe across any
// number of concurrent parses (spec.md §5).
type Grammar struct {
	tokens     map[TokenKey]string
	settings   map[SettingKey]bool
	generators map[Which]Generator
}

func isValidTokenKey(k TokenKey) bool {
	_, ok := defaultTokens[k]
	return ok
}

func isValidSettingKey(k SettingKey) bool {
	_, ok := defaultSettings[k]
	return ok
}

func isValidWhich(w Which) bool {
	return w == GenOperation || w == GenString || w == GenNumber
}

// GetToken returns the configured token string, failing with Grammar on an
// unknown key.
func (g *Grammar) GetToken(k TokenKey) (string, error) {
	if !isValidTokenKey(k) {
		return "", boolerr.New(boolerr.Grammar, "unknown token key %q", k)
	}
	return g.tokens[k], nil
}

// GetSetting returns the configured boolean setting, failing with Grammar
// on an unknown key.
func (g *Grammar) GetSetting(k SettingKey) (bool, error) {
	if !isValidSettingKey(k) {
		return false, boolerr.New(boolerr.Grammar, "unknown setting key %q", k)
	}
	return g.settings[k], nil
}

// CustomGenerator returns the generator registered for which, if any.
func (g *Grammar) CustomGenerator(which Which) (Generator, bool, error) {
	if !isValidWhich(which) {
		return nil, false, boolerr.New(boolerr.Grammar, "unknown generator slot %q", which)
	}
	gen, ok := g.generators[which]
	return gen, ok, nil
}

// Tokens returns a defensive copy of every configured token, keyed by
// TokenKey — used by pkg/lexer to build its match table.
func (g *Grammar) Tokens() map[TokenKey]string {
	out := make(map[TokenKey]string, len(g.tokens))
	for k, v := range g.tokens {
		out[k] = v
	}
	return out
}

// Builder assembles a Grammar via chained calls, validating every key as
// it is set rather than deferring validation to first use.
type Builder struct {
	g   Grammar
	err error
}

// NewBuilder starts from spec.md §4.4's defaults.
func NewBuilder() *Builder {
	b := &Builder{}
	b.g.tokens = make(map[TokenKey]string, len(defaultTokens))
	for k, v := range defaultTokens {
		b.g.tokens[k] = v
	}
	b.g.settings = make(map[SettingKey]bool, len(defaultSettings))
	for k, v := range defaultSettings {
		b.g.settings[k] = v
	}
	b.g.generators = make(map[Which]Generator)
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// WithToken overrides a single token. Unknown keys are recorded and
// surfaced by Build.
func (b *Builder) WithToken(k TokenKey, value string) *Builder {
	if !isValidTokenKey(k) {
		return b.fail(boolerr.New(boolerr.Grammar, "unknown token key %q", k))
	}
	if value == "" {
		return b.fail(boolerr.New(boolerr.Grammar, "token %q cannot be empty", k))
	}
	b.g.tokens[k] = value
	return b
}

// WithTokens overrides several tokens at once.
func (b *Builder) WithTokens(overrides map[TokenKey]string) *Builder {
	for k, v := range overrides {
		b.WithToken(k, v)
	}
	return b
}

// WithSetting overrides a single boolean setting.
func (b *Builder) WithSetting(k SettingKey, value bool) *Builder {
	if !isValidSettingKey(k) {
		return b.fail(boolerr.New(boolerr.Grammar, "unknown setting key %q", k))
	}
	b.g.settings[k] = value
	return b
}

// WithGenerator registers a custom subparser for one of the operation,
// string, or number slots.
func (b *Builder) WithGenerator(which Which, gen Generator) *Builder {
	if !isValidWhich(which) {
		return b.fail(boolerr.New(boolerr.Grammar, "unknown generator slot %q", which))
	}
	b.g.generators[which] = gen
	return b
}

// Build finalises the Grammar, failing if any prior With* call referenced
// an unknown key.
func (b *Builder) Build() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := b.g
	return &g, nil
}
