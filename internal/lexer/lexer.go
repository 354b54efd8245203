// Package lexer implements §2.5/§4.3 of the core spec: source text to
// a flat token.Token sequence.
//
// Grounded on the teacher's internal/lexer/lexer.go: a rune-at-a-time
// scanner with readChar/peekChar, Position tracking in rune counts (so
// multi-byte APL glyphs count as one column each, exactly like the
// teacher's emoji/Δ/中 examples), and an accumulated []Error instead of
// panicking on the first bad character.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/value"
)

// Error is one lexical error, in the teacher's LexerError shape.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string { return e.Message }

// Lexer scans one APL line or program text into a flat token stream.
type Lexer struct {
	input        string
	errors       []Error
	position     int
	readPosition int
	line         int
	column       int
	ch           rune
}

// New creates a Lexer over input, matching the teacher's BOM-stripping
// convention for files that begin with a UTF-8 byte-order mark.
func New(input string) *Lexer {
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
	}
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) Errors() []Error { return l.errors }

func (l *Lexer) addError(msg string, pos token.Position) {
	l.errors = append(l.errors, Error{Message: msg, Pos: pos})
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
	if r == utf8.RuneError && size == 1 {
		l.addError("invalid UTF-8 encoding", l.currentPos())
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipComment consumes a ⍝ line comment through end of line.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// Tokenize runs the lexer to completion and returns the whole token
// sequence (used by the parser's first pass). A trailing EOF token is
// never appended here, and the parser does not add TOK_ENDL either:
// prefix.ExecuteLine appends it for immediate execution, and
// parser.CompileFunction ends a function body with its return sentinel.
func (l *Lexer) Tokenize() ([]token.Token, []Error) {
	var out []token.Token
	for {
		tok := l.NextToken()
		if tok.Class == token.ILLEGAL && tok.Text == "" {
			break // EOF marker, see NextToken
		}
		out = append(out, tok)
	}
	return out, l.errors
}

// NextToken scans and returns the next token.Token. At end of input it
// returns a zero-value ILLEGAL token with empty Text, used internally
// by Tokenize as the stop signal (the parser never sees this value: it
// always consumes via Tokenize).
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	if l.ch == '⍝' {
		l.skipComment()
		l.skipWhitespace()
	}
	pos := l.currentPos()

	switch {
	case l.ch == 0:
		return token.Token{Class: token.ILLEGAL, Pos: pos}
	case l.ch == '\'' || l.ch == '"':
		return l.readString(pos)
	case l.ch == '⎕':
		return l.readQuadName(pos)
	case isDigit(l.ch) || (l.ch == '¯' && isDigit(l.peekChar())):
		return l.readNumber(pos)
	case isIdentStart(l.ch):
		return l.readIdentifier(pos)
	default:
		return l.readGlyph(pos)
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) && r < 0x2100 // exclude APL glyph block overlaps with IsLetter (e.g. none here, defensive)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r) || r == '_'
}

func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	return token.Token{Class: token.Symbol, Tag: token.TagSymbolPlain, Text: text, Pos: pos, Payload: token.Payload{Str: text}}
}

// readQuadName reads ⎕ optionally followed by letters (§4.3.3).
func (l *Lexer) readQuadName(pos token.Position) token.Token {
	start := l.position
	l.readChar() // skip ⎕
	for isIdentPart(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	name := strings.ToUpper(strings.TrimPrefix(text, "⎕"))
	return token.Token{Class: token.Symbol, Tag: token.TagQuadSymbol, Text: text, Pos: pos, Payload: token.Payload{Str: name}}
}

// readString reads '…' or "…" with doubled-quote escaping (§4.3.2).
func (l *Lexer) readString(pos token.Position) token.Token {
	quote := l.ch
	l.readChar()
	var b strings.Builder
	for l.ch != 0 {
		if l.ch == quote {
			if l.peekChar() == quote {
				b.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			v := value.CharVector(b.String())
			return token.Token{Class: token.Value, Text: b.String(), Pos: pos, Payload: token.Payload{Val: v}}
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	l.addError("unterminated string literal", pos)
	v := value.CharVector(b.String())
	return token.Token{Class: token.Value, Text: b.String(), Pos: pos, Payload: token.Payload{Val: v}}
}

// readNumber reads an integer, float, or complex (realJimag) literal,
// with ¯ as the high-minus sign (§4.3.4).
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.position
	realPart, isFloat := l.readSignedNumeral()
	var c *cell.Cell
	if l.ch == 'J' || l.ch == 'j' {
		l.readChar()
		imagPart, _ := l.readSignedNumeral()
		v := cell.MakeComplex(complex(realPart, imagPart))
		c = &v
	} else if isFloat {
		v := cell.MakeFloat(realPart)
		c = &v
	} else {
		v := cell.MakeInt(int64(realPart))
		c = &v
	}
	text := l.input[start:l.position]
	return token.Token{Class: token.Value, Text: text, Pos: pos, Payload: token.Payload{Val: value.ScalarOf(*c)}}
}

// readSignedNumeral reads one ¯?digits(.digits)?(Edigits)? numeral and
// returns its float64 value plus whether a float-forcing feature
// (decimal point or exponent) was present.
func (l *Lexer) readSignedNumeral() (float64, bool) {
	start := l.position
	neg := false
	if l.ch == '¯' {
		neg = true
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'E' || l.ch == 'e' {
		isFloat = true
		l.readChar()
		if l.ch == '¯' {
			l.readChar()
		} else if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	text := l.input[start:l.position]
	text = strings.ReplaceAll(text, "¯", "-")
	v, _ := strconv.ParseFloat(text, 64)
	_ = neg // sign already embedded via the ¯→- replacement above
	return v, isFloat
}

// glyph-to-Token table for single-rune function/operator/punctuation
// glyphs (§4.3.6).
var functionGlyphs = map[rune]bool{
	'+': true, '-': true, '×': true, '÷': true, '⍴': true, '⍳': true,
	'=': true, '≠': true, '<': true, '≤': true, '>': true, '≥': true,
	'⌈': true, '⌊': true, '*': true, ',': true, '~': true, '∧': true,
	'∨': true, '⌽': true, '⊂': true, '⊃': true, '↑': true, '↓': true,
	'|': true,
}

var reduceScanGlyphs = map[rune]token.Tag{
	'/': token.TagReduce,
	'⌿': token.TagReduce1,
	'\\': token.TagScan,
	'⍀': token.TagScan1,
}

func (l *Lexer) readGlyph(pos token.Position) token.Token {
	r := l.ch
	text := string(r)

	switch r {
	case '(':
		l.readChar()
		return token.New(token.LParen, text, pos)
	case ')':
		l.readChar()
		return token.New(token.RParen, text, pos)
	case '[':
		l.readChar()
		return token.New(token.LBracket, text, pos)
	case ']':
		l.readChar()
		return token.New(token.RBracket, text, pos)
	case '{':
		l.readChar()
		return token.New(token.LBrace, text, pos)
	case '}':
		l.readChar()
		return token.New(token.RBrace, text, pos)
	case '←':
		l.readChar()
		return token.New(token.Assign, text, pos)
	case '⋄':
		l.readChar()
		return token.New(token.Diamond, text, pos)
	case '→':
		l.readChar()
		return token.New(token.Branch, text, pos)
	case ':':
		l.readChar()
		return token.New(token.Colon, text, pos)
	case ';':
		l.readChar()
		return token.New(token.Semicolon, text, pos)
	case '∇':
		l.readChar()
		tok := token.Token{Class: token.Symbol, Text: text, Pos: pos, Payload: token.Payload{Str: "∇"}}
		return tok
	}

	if tag, ok := reduceScanGlyphs[r]; ok {
		l.readChar()
		// Default classification is Function (dyadic, e.g. replicate);
		// parser pass 5 (§4.4) reclassifies to MonadicOp when the
		// preceding token does not end a value.
		return token.Token{Class: token.Function, Tag: tag, Text: text, Pos: pos, Payload: token.Payload{Str: text}}
	}

	if functionGlyphs[r] {
		l.readChar()
		return token.Token{Class: token.Function, Tag: token.TagAmbivalent, Text: text, Pos: pos, Payload: token.Payload{Str: text}}
	}

	if r == '⍺' || r == '⍵' || r == '⍶' || r == '⍹' || r == 'χ' || r == 'λ' {
		l.readChar()
		return token.Token{Class: token.Symbol, Tag: token.TagSymbolPlain, Text: text, Pos: pos, Payload: token.Payload{Str: text}}
	}

	l.addError("illegal character: "+text, pos)
	l.readChar()
	return token.Token{Class: token.ILLEGAL, Text: text, Pos: pos}
}
