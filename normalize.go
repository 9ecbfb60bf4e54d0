package graphcalc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// glyph is a rewrite from calculator keypad text to canonical text.
type glyph struct {
	from, to string
	// call indicates that the rewrite names a function, so an operand
	// immediately following the glyph must be kept apart from the name.
	call bool
}

// glyphs is the ordered list of rewrites that Normalize applies. The order is
// significant: ³√ must be rewritten before √ so that the square root rule
// never sees the tail of a cube root, and before ³ so that it is not read as
// a cube.
var glyphs = []glyph{
	{from: "×", to: "*"},
	{from: "÷", to: "/"},
	{from: "^", to: "**"},
	{from: "log₁₀", to: "log10", call: true},
	{from: "log₂", to: "log2", call: true},
	{from: "³√", to: "cbrt", call: true},
	{from: "√", to: "sqrt", call: true},
	{from: "²", to: "**2"},
	{from: "³", to: "**3"},
}

// Normalize rewrites calculator glyphs in raw input into the canonical text
// that Parse understands: × ÷ ^ become * / **, log₁₀ and log₂ become log10
// and log2, ³√ and √ become cbrt and sqrt, and the superscripts ² and ³
// become powers. A function glyph directly followed by a number has that
// number parenthesized, so "√9" becomes "sqrt(9)"; one directly followed by a
// name is separated from it by a space, so "√x" becomes "sqrt x". A function
// glyph directly after a name or number is also set apart, so "x√4" becomes
// "x sqrt(4)" and "√√16" becomes "sqrt sqrt(16)". Other text passes through
// unchanged.
func Normalize(raw string) string {
	s := raw
	for _, g := range glyphs {
		if !strings.Contains(s, g.from) {
			continue
		}
		if !g.call {
			s = strings.ReplaceAll(s, g.from, g.to)
			continue
		}
		s = rewriteCall(s, g.from, g.to)
	}
	return s
}

// rewriteCall replaces each from in s with to, separating it from an
// immediately preceding name or number and from an immediately following
// operand.
func rewriteCall(s, from, to string) string {
	var b strings.Builder
	b.Grow(len(s) + 2*len(to))
	var last rune
	for {
		k := strings.Index(s, from)
		if k < 0 {
			b.WriteString(s)
			return b.String()
		}
		if k > 0 {
			last, _ = utf8.DecodeLastRuneInString(s[:k])
		}
		b.WriteString(s[:k])
		if isnamerune(last) {
			b.WriteByte(' ')
		}
		b.WriteString(to)
		last, _ = utf8.DecodeLastRuneInString(to)
		s = s[k+len(from):]
		r, _ := utf8.DecodeRuneInString(s)
		switch {
		case '0' <= r && r <= '9', r == '.':
			n := numLen(s)
			b.WriteByte('(')
			b.WriteString(s[:n])
			b.WriteByte(')')
			s = s[n:]
			last = ')'
		case r == '_', unicode.IsLetter(r):
			b.WriteByte(' ')
			last = ' '
		}
	}
}

// numLen returns the length of the run of digits and dots at the start of s.
func numLen(s string) int {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c != '.' && (c < '0' || c > '9') {
			return i
		}
	}
	return len(s)
}
