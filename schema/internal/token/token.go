package token

import (
	"strconv"

	"github.com/wippyai/scale-codec/errors"
)

type Type int

const (
	Number Type = iota
	Op
	Ident
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case Op:
		return "operator"
	case Ident:
		return "identifier"
	}
	return "unknown"
}

// Token is one lexeme of the type-definition language. Value holds the
// identifier text, Num the parsed literal, Op the operator character,
// depending on Type. Line is retained for error reporting only.
type Token struct {
	Value string
	Num   uint32
	Op    byte
	Type  Type
	Line  int
}

func (t Token) String() string {
	switch t.Type {
	case Number:
		return strconv.FormatUint(uint64(t.Num), 10)
	case Op:
		return string(t.Op)
	}
	return t.Value
}

func isOp(c byte) bool {
	switch c {
	case '|', '=', '@', ':', ';', ',', '#', '(', ')', '[', ']', '{', '}', '<', '>':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Tokenize scans the full input, skipping whitespace and // line
// comments. It does not stop at the first problem: every lexical error
// is collected so the caller can report them together.
func Tokenize(input string) ([]Token, []error) {
	var tokens []Token
	var errs []error
	line := 1

	for i := 0; i < len(input); i++ {
		c := input[i]

		if c == '\n' {
			line++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			continue
		}

		// Line comment
		if c == '/' && i+1 < len(input) && input[i+1] == '/' {
			for i < len(input) && input[i] != '\n' {
				i++
			}
			i--
			continue
		}

		if isOp(c) {
			tokens = append(tokens, Token{Type: Op, Op: c, Line: line})
			continue
		}

		if isDigit(c) {
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			lit := input[start:i]
			i--
			n, err := strconv.ParseUint(lit, 10, 32)
			if err != nil {
				errs = append(errs, errors.InvalidToken(line, "number literal "+lit+" does not fit in 32 bits"))
				continue
			}
			tokens = append(tokens, Token{Type: Number, Num: uint32(n), Line: line})
			continue
		}

		if isIdentStart(c) {
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			tokens = append(tokens, Token{Type: Ident, Value: input[start:i], Line: line})
			i--
			continue
		}

		errs = append(errs, errors.InvalidToken(line, "unexpected character "+strconv.QuoteRune(rune(c))))
	}

	return tokens, errs
}
