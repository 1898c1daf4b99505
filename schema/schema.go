package schema

import (
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/schema/internal/token"
)

// Parse parses type-definition-language source into an ordered list of
// definitions. All lexical errors are reported together; likewise all
// grammar errors.
func Parse(src string) ([]TypeDef, error) {
	tokens, lexErrs := token.Tokenize(src)
	if err := errors.NewSourceErrors(errors.PhaseLex, lexErrs); err != nil {
		return nil, err
	}
	p := newParser(tokens)
	defs := p.parseDefs()
	if err := errors.NewSourceErrors(errors.PhaseParse, p.errs); err != nil {
		return nil, err
	}
	return defs, nil
}

// ParseType parses a single type expression, such as "[u8;32]" or
// "{x:u32,y:u32}". Trailing input is an error.
func ParseType(src string) (Type, error) {
	tokens, lexErrs := token.Tokenize(src)
	if err := errors.NewSourceErrors(errors.PhaseLex, lexErrs); err != nil {
		return nil, err
	}
	p := newParser(tokens)
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, p.errorf("unexpected %q after type expression", t.String())
	}
	return ty, nil
}
