package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anmitsu/go-shlex"
)

// metachars terminate a word unless quoted or escaped.
const metachars = ";&|><(){}"

// ParseString parses source text into a [Scope].
//
// Parsing is all or nothing: on malformed input a [*SyntaxError] is returned
// with no partial tree.
func ParseString(ctx context.Context, s string, opts ...Option) (Scope, error) {
	return parse(ctx, s, makeOptions(opts...))
}

func parse(ctx context.Context, s string, o options) (Scope, error) {
	p := &parser{
		input:  []byte(s),
		source: s,
		line:   1,
		col:    1,
		opts:   o,
	}

	scope, err := p.parseInput()
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(s)),
		slog.Any("scope", scope))

	return scope, nil
}

// parser holds the parser state.
type parser struct {
	input  []byte
	source string
	pos    int
	line   int
	col    int
	depth  int
	opts   options
}

// parseInput rejects input that is not valid UTF-8 and then parses the
// top-level scope.
func (p *parser) parseInput() (Scope, error) {
	if !utf8.Valid(p.input) {
		for !p.eof() {
			if r, size := utf8.DecodeRune(p.input[p.pos:]); r == utf8.RuneError && size == 1 {
				return nil, p.errorAt(ErrInvalidEncoding, p.position(),
					fmt.Sprintf("byte %#x", p.input[p.pos]))
			}

			p.advance()
		}
	}

	return p.parseScope(false, Position{})
}

// parseScope parses expressions until end of input or, when nested, until
// the closing brace of a function body (which is left unconsumed).
func (p *parser) parseScope(nested bool, open Position) (Scope, error) {
	scope := Scope{}

	for {
		p.skipSeparators()

		if p.eof() {
			if nested {
				return nil, p.errorAt(ErrUnclosedBody, open, `expected "}"`)
			}

			return scope, nil
		}

		if p.peek() == '}' {
			if nested {
				return scope, nil
			}

			return nil, p.errorAt(ErrUnexpectedToken, p.position(), `"}"`)
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		scope = append(scope, expr)

		if err := p.expectTerminator(nested); err != nil {
			return nil, err
		}
	}
}

// parseExpr parses a function definition or a chain.
func (p *parser) parseExpr() (*Expr, error) {
	pos := p.position()

	if err := p.checkCallStart(""); err != nil {
		return nil, err
	}

	raw, word, err := p.readWord()
	if err != nil {
		return nil, err
	}

	p.skipInline()

	if p.peek() == '(' {
		return p.parseFunc(pos, raw, word)
	}

	chain, err := p.parseChain(pos, word)
	if err != nil {
		return nil, err
	}

	return &Expr{Type: ExprChain, Chain: chain, Pos: pos}, nil
}

// parseFunc parses the remainder of: IDENT ( ) { SCOPE }.
func (p *parser) parseFunc(pos Position, raw, name string) (*Expr, error) {
	if raw != name || !isIdentifier(name) {
		return nil, p.errorAt(ErrInvalidIdentifier, pos, fmt.Sprintf("%q", raw))
	}

	p.advance() // skip '('
	p.skipInline()

	if !p.expect(')') {
		return nil, p.errorAt(ErrUnexpectedToken, p.position(), `expected ")"`)
	}

	p.skipSpace()

	open := p.position()

	if !p.expect('{') {
		return nil, p.errorAt(ErrUnexpectedToken, open, `expected "{"`)
	}

	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.opts.maxDepth {
		return nil, p.errorAt(ErrMaxDepthExceeded, pos,
			fmt.Sprintf("%q exceeds %d nested definitions", name, p.opts.maxDepth))
	}

	body, err := p.parseScope(true, open)
	if err != nil {
		return nil, err
	}

	p.advance() // skip '}'

	return &Expr{
		Type: ExprFunc,
		Func: &Func{Identifier: name, Body: body, Pos: pos},
		Pos:  pos,
	}, nil
}

// parseChain parses CALL (OP CALL)* given the first word of the first call.
func (p *parser) parseChain(pos Position, first string) (Chain, error) {
	var chain Chain

	call, callPos := Call{first}, pos

	for {
		for {
			p.skipInline()

			if !p.atWordStart() {
				break
			}

			_, word, err := p.readWord()
			if err != nil {
				return nil, err
			}

			call = append(call, word)
		}

		chain = append(chain, ChainElem{Type: ElemCall, Call: call, Pos: callPos})

		opPos := p.position()

		op, ok, err := p.readOperator()
		if err != nil {
			return nil, err
		}

		if !ok {
			return chain, nil
		}

		chain = append(chain, ChainElem{Type: ElemOp, Op: op, Pos: opPos})

		// A chain may continue on the line following an operator.
		p.skipSpace()

		if err := p.checkCallStart(op.String()); err != nil {
			return nil, err
		}

		callPos = p.position()

		_, word, err := p.readWord()
		if err != nil {
			return nil, err
		}

		call = Call{word}
	}
}

// checkCallStart reports an error unless a word begins at the current
// position. The after argument names the operator preceding the call, if any.
func (p *parser) checkCallStart(after string) error {
	if p.atWordStart() {
		return nil
	}

	pos := p.position()

	if p.eof() {
		return p.errorAt(ErrMissingCall, pos, fmt.Sprintf("no command after %q", after))
	}

	switch c := p.peek(); c {
	case '|', '&', '>':
		if after != "" {
			return p.errorAt(ErrMissingCall, pos, fmt.Sprintf("no command after %q", after))
		}

		return p.errorAt(ErrMissingCall, pos,
			fmt.Sprintf("no command before %q", p.operatorToken()))

	case '<':
		return p.errorAt(ErrUnsupportedOperator, pos, `"<"`)

	case ';', '}':
		if after != "" {
			return p.errorAt(ErrMissingCall, pos, fmt.Sprintf("no command after %q", after))
		}

		fallthrough

	default:
		return p.errorAt(ErrUnexpectedToken, pos, fmt.Sprintf("%q", c))
	}
}

// readOperator consumes an operator at the current position. It returns
// false without consuming anything if no operator is present.
func (p *parser) readOperator() (Operator, bool, error) {
	pos := p.position()

	switch p.peek() {
	case '|':
		if p.peekN(2) == "||" {
			return 0, false, p.errorAt(ErrUnsupportedOperator, pos, `"||"`)
		}

		p.advance()

		return OpPipe, true, nil

	case '&':
		if p.peekN(2) != "&&" {
			return 0, false, p.errorAt(ErrUnsupportedOperator, pos, `"&"`)
		}

		p.advance()
		p.advance()

		return OpAnd, true, nil

	case '>':
		if p.peekN(2) == ">>" {
			return 0, false, p.errorAt(ErrUnsupportedOperator, pos, `">>"`)
		}

		p.advance()

		return OpRedir, true, nil

	case '<':
		return 0, false, p.errorAt(ErrUnsupportedOperator, pos, `"<"`)

	default:
		return 0, false, nil
	}
}

// operatorToken returns the operator spelling at the current position for
// use in error messages.
func (p *parser) operatorToken() string {
	for _, tok := range []string{"&&", "||", ">>", "|", "&", ">"} {
		if p.peekN(len(tok)) == tok {
			return tok
		}
	}

	return string(p.peek())
}

// expectTerminator verifies that an expression is followed by a newline,
// a semicolon, end of input, or the closing brace of an enclosing body.
func (p *parser) expectTerminator(nested bool) error {
	p.skipInline()

	if p.eof() {
		return nil
	}

	switch c := p.peek(); {
	case c == '\n', c == ';':
		return nil

	case c == '}' && nested:
		return nil

	case c == '(' || c == ')' || c == '{' || c == '}':
		return p.errorAt(ErrUnexpectedToken, p.position(), fmt.Sprintf("%q", c))

	default:
		return p.errorAt(ErrUnexpectedToken, p.position(),
			fmt.Sprintf("%q, expected newline or %q", c, ';'))
	}
}

// readWord consumes one word and returns both its raw source text and its
// value after quote removal.
func (p *parser) readWord() (string, string, error) {
	start := p.position()

	var raw strings.Builder

scan:
	for !p.eof() {
		c := p.peek()

		switch {
		case c == '\\':
			if p.peekN(2) == "\\\n" {
				p.advance()
				p.advance()

				continue
			}

			escPos := p.position()

			raw.WriteRune(c)
			p.advance()

			if p.eof() {
				return "", "", p.errorAt(ErrUnexpectedToken, escPos, "trailing backslash")
			}

			raw.WriteRune(p.peek())
			p.advance()

		case c == '\'' || c == '"':
			if err := p.readQuoted(&raw, c); err != nil {
				return "", "", err
			}

		case isWordBreak(c):
			break scan

		default:
			raw.WriteRune(c)
			p.advance()
		}
	}

	word, err := unquote(raw.String())
	if err != nil {
		return "", "", p.errorAt(ErrUnterminatedQuote, start, err.Error())
	}

	return raw.String(), word, nil
}

// readQuoted consumes a quoted section including both quotes.
func (p *parser) readQuoted(raw *strings.Builder, quote rune) error {
	open := p.position()

	raw.WriteRune(quote)
	p.advance()

	for !p.eof() {
		// Backslash-newline continues the line inside double quotes.
		if quote == '"' && p.peekN(2) == "\\\n" {
			p.advance()
			p.advance()

			continue
		}

		c := p.peek()

		raw.WriteRune(c)
		p.advance()

		switch {
		case c == quote:
			return nil

		case c == '\\' && quote == '"' && !p.eof():
			raw.WriteRune(p.peek())
			p.advance()
		}
	}

	return p.errorAt(ErrUnterminatedQuote, open, fmt.Sprintf("missing closing %c", quote))
}

// unquote performs POSIX quote removal on a single raw word.
func unquote(raw string) (string, error) {
	if !strings.ContainsAny(raw, `'"\`) {
		return raw, nil
	}

	fields, err := shlex.Split(raw, true)
	if err != nil {
		return "", err
	}

	return strings.Join(fields, ""), nil
}

// Helper methods

func (p *parser) errorAt(kind *Error, pos Position, detail string) error {
	return newSyntaxError(kind, pos, detail, p.source)
}

func (p *parser) atWordStart() bool {
	if p.eof() {
		return false
	}

	c := p.peek()

	return c != '#' && !isWordBreak(c)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// skipInline skips blanks, escaped newlines, and a trailing comment, but
// stops before a newline.
func (p *parser) skipInline() {
	for !p.eof() {
		switch c := p.peek(); {
		case c == '\n':
			return

		case unicode.IsSpace(c):
			p.advance()

		case c == '\\' && p.peekN(2) == "\\\n":
			p.advance()
			p.advance()

		case c == '#':
			p.skipLineComment()

		default:
			return
		}
	}
}

// skipSpace skips all whitespace including newlines, and comments.
func (p *parser) skipSpace() {
	for {
		p.skipInline()

		if p.eof() || p.peek() != '\n' {
			return
		}

		p.advance()
	}
}

// skipSeparators skips whitespace, comments, and statement separators.
func (p *parser) skipSeparators() {
	for {
		p.skipSpace()

		if p.eof() || p.peek() != ';' {
			return
		}

		p.advance()
	}
}

// skipLineComment skips to the end of the line, leaving the newline.
func (p *parser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}
}

// Character classification

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(metachars, r)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}

		if !isIdentifierContinue(r) {
			return false
		}
	}

	return s != ""
}

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	) || r == '-' || r == '.'
}
