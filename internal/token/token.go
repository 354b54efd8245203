package token

import (
	"github.com/cwbudde/goapl/internal/symtab"
	"github.com/cwbudde/goapl/internal/value"
)

// Class is the coarse category the reducer's phrase matching keys on
// (§3.5, §4.6). Class is deliberately small and closed. The reducer
// matches phrases with a fixed sequence of if-tests in tryReduce that
// inspect up to six stack entries; there is no separate phrase table.
type Class int

const (
	// ILLEGAL marks a token the tokenizer could not classify; the
	// parser/reducer must never shift or reduce it.
	ILLEGAL Class = iota

	Value      // a Value payload (literal, computed, or symbol-resolved)
	Function   // monadic/dyadic primitive or user-defined function
	MonadicOp  // a monadic operator (e.g. reduction/scan base glyphs used monadically)
	DyadicOp   // a dyadic operator
	Symbol     // an unresolved or left-hand-side symbol reference
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // { (lambda open)
	RBrace     // } (lambda close)
	Assign     // ←
	Diamond    // ⋄  (statement separator)
	Colon      // : (after a name at the start of a function body line: "LABEL:")
	Semicolon  // ; (IndexExpr axis separator)
	Branch     // →
	Return     // synthetic return sentinel (TOK_RETURN_SYMBOL / TOK_RETURN_VOID)
	EndStmt    // TOK_END: statement separator inside a compiled body
	EndLine    // TOK_ENDL: trailing sentinel of a compiled body
)

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "UNKNOWN"
}

var classNames = [...]string{
	"ILLEGAL", "VALUE", "FUNCTION", "MONADIC_OP", "DYADIC_OP", "SYMBOL",
	"LPAREN", "RPAREN", "LBRACKET", "RBRACKET", "LBRACE", "RBRACE",
	"ASSIGN", "DIAMOND", "COLON", "SEMICOLON", "BRANCH", "RETURN",
	"END", "ENDL",
}

// Tag narrows within a Class (§3.5): e.g. distinguishing "/" as a
// reduce-operator tag from a dyadic-replicate tag, or TOK_LSYMB from a
// plain symbol reference.
type Tag int

const (
	NoTag Tag = iota

	// Symbol tags.
	TagSymbolPlain  // ordinary right-hand-side reference
	TagLSymb        // a symbol immediately left of ← (variable assignment target)
	TagLSymb2       // a parenthesized vector-assignment LHS, merged into one token (targets in Payload.Names)
	TagQuadSymbol   // ⎕-name reference

	// Function valence tags (payload carries the actual callable).
	TagNiladic
	TagMonadic
	TagDyadic
	TagAmbivalent // valid both monadically and dyadically

	// Operator axis/reduce/scan tags for "/ ⌿ \ ⍀".
	TagReduce  // f/
	TagReduce1 // f⌿ (first-axis reduce)
	TagScan    // f\
	TagScan1   // f⍀

	// Return tags.
	TagReturnValue // TOK_RETURN_SYMBOL Z
	TagReturnVoid  // TOK_RETURN_VOID

	// Paren-collapse tag: a singleton symbol wrapped in now-removed
	// parens (§4.4 pass 2). Neither pass 5 nor the reducer treats it
	// differently from a plain symbol, so (F)/B parses like F/B.
	TagParenSymbol
)

// Payload carries whichever of these is relevant to the token's Class;
// normally only one field is populated.
type Payload struct {
	Val   *value.Value    // populated for Class == Value
	Sym   *symtab.Symbol  // populated on the Value token a variable resolves to at shift time (its Symbol)
	Fn    symtab.Callable // populated for Class == Function/MonadicOp/DyadicOp once resolved
	Str   string          // glyph/identifier spelling, used for primitive dispatch and diagnostics
	Axis  *Payload        // optional bracketed axis argument [X], nil if none
	Names []string        // populated for Tag == TagLSymb2: the vector-assignment target list, in source order
}

// Token is the (class, tag, payload) triple of §3.5.
type Token struct {
	Class   Class
	Tag     Tag
	Payload Payload
	Pos     Position
	// Text is the token's original source spelling, used to reconstruct
	// the failing-statement image for §4.10 diagnostics.
	Text string
	// Distance is the bracket/paren/curly match distance stamped by
	// §4.4 pass 6: for an LParen/LBracket/LBrace, the number of tokens
	// to its matching closer (and vice versa for the closer).
	Distance int
	// Committed marks a token produced by an assignment: the reducer
	// does not print a committed result automatically (§4.6).
	Committed bool
}

// New builds a punctuation/structural token with no payload.
func New(class Class, text string, pos Position) Token {
	return Token{Class: class, Text: text, Pos: pos}
}

// IsEndingValue reports whether this token, once fully reduced, stands
// in "ends-a-value" position — the structural test pass 5 (§4.4) uses
// to disambiguate "/ ⌿ \ ⍀" as dyadic functions versus monadic
// operators: a preceding Value or RParen/RBracket means a value ends
// here, so the glyph stays a dyadic Function (e.g. replicate);
// otherwise it is an operator in reduction/scan position.
func (t Token) IsEndingValue() bool {
	switch t.Class {
	case Value, RParen, RBracket:
		return true
	default:
		return false
	}
}
