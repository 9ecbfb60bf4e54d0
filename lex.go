package graphcalc

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int8

const (
	tokEOF tokenKind = iota
	// tokNum is a number literal, including inf and ∞.
	tokNum
	// tokName is a variable, constant, or function name.
	tokName
	// tokOp is one of + - * / ** ^ × ÷.
	tokOp
	tokOpen
	tokClose
	// tokSep is a comma or semicolon. No function takes more than one
	// argument, so separators are always errors.
	tokSep
)

var tokenKindNames = [...]string{"EOF", "Num", "Name", "Op", "Open", "Close", "Sep"}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

type token struct {
	kind tokenKind
	text string
	// col is the 1-based rune column of the token's first rune.
	col int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.col)
}

// Operators contains the runes which are lexed as operators. A pair of * is
// the single power operator **.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The bracket at rune index k in OpenBrackets closes with the one at rune
// index k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// closing maps each open bracket to the close bracket that matches it.
var closing = map[string]string{"(": ")", "[": "]", "{": "}"}

// tokenize splits canonical text into tokens. The last token is always EOF,
// positioned one column past the end of the text.
func tokenize(text string) ([]token, error) {
	src := []rune(text)
	toks := make([]token, 0, len(src)/2+1)
	for i := 0; i < len(src); {
		r, col := src[i], i+1
		n := 1
		tok := token{col: col}
		switch {
		case unicode.IsSpace(r):
			i++
			continue
		case isdigit(r), r == '.':
			var err error
			if n, err = numlen(src[i:], col); err != nil {
				return nil, err
			}
			tok.kind = tokNum
		case r == '∞':
			tok.kind = tokNum
		case r == '_', unicode.IsLetter(r):
			for i+n < len(src) && isnamerune(src[i+n]) {
				n++
			}
			tok.kind = tokName
			if w := string(src[i : i+n]); w == "inf" || w == "Inf" {
				tok.kind = tokNum
			}
		case r == '*' && i+1 < len(src) && src[i+1] == '*':
			n = 2
			tok.kind = tokOp
		case strings.ContainsRune(Operators, r):
			tok.kind = tokOp
		case strings.ContainsRune(OpenBrackets, r):
			tok.kind = tokOpen
		case strings.ContainsRune(CloseBrackets, r):
			tok.kind = tokClose
		case r == ',', r == ';':
			tok.kind = tokSep
		default:
			return nil, &LexError{Text: string(r), Col: col}
		}
		tok.text = string(src[i : i+n])
		toks = append(toks, tok)
		i += n
	}
	return append(toks, token{kind: tokEOF, col: len(src) + 1}), nil
}

func isdigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isnamerune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// numlen returns the number of runes in the number literal at the start of
// src. A number stops at the first rune that cannot continue it, so 2x is the
// number 2 followed by the name x. An e starts an exponent only when digits
// follow it, so 2e is 2 times e.
func numlen(src []rune, col int) (int, error) {
	n, digits := 0, 0
	for n < len(src) && isdigit(src[n]) {
		n++
		digits++
	}
	if n < len(src) && src[n] == '.' {
		n++
		for n < len(src) && isdigit(src[n]) {
			n++
			digits++
		}
	}
	if digits == 0 {
		return 0, &LexError{Text: string(src[:n]), Kind: "number", Col: col}
	}
	if n < len(src) && (src[n] == 'e' || src[n] == 'E') {
		k := n + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && isdigit(src[k]) {
			for k < len(src) && isdigit(src[k]) {
				k++
			}
			n = k
		}
	}
	if n < len(src) && src[n] == '.' {
		// A second decimal point, or a point after the exponent.
		return 0, &LexError{Text: string(src[:n+1]), Kind: "number", Col: col + n}
	}
	return n, nil
}

// LexError indicates text that is not a token. It implements InputError.
type LexError struct {
	// Text is the invalid text. For a malformed number, this is the number
	// up to and including the rune that made it invalid.
	Text string
	// Kind is "number" for a malformed number and empty for a rune that
	// begins no token.
	Kind string
	// Col is the column of the invalid rune.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "unexpected "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "malformed "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
