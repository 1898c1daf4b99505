package schema

import (
	"fmt"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/schema/internal/token"
)

// MaxNesting bounds type expression nesting during parsing. Hostile
// definitions would otherwise drive the recursive descent arbitrarily
// deep.
const MaxNesting = 128

type parser struct {
	tokens []token.Token
	errs   []error
	pos    int
	depth  int
}

func newParser(tokens []token.Token) *parser {
	return &parser{tokens: tokens}
}

func (p *parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) line() int {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 1
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Syntax(p.line(), fmt.Sprintf(format, args...))
}

// peekOp reports whether the next token is the given operator.
func (p *parser) peekOp(c byte) bool {
	t := p.peek()
	return t != nil && t.Type == token.Op && t.Op == c
}

// acceptOp consumes the next token when it is the given operator.
func (p *parser) acceptOp(c byte) bool {
	if p.peekOp(c) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectOp(c byte) error {
	t := p.next()
	if t == nil {
		return p.errorf("expected %q, got end of input", string(c))
	}
	if t.Type != token.Op || t.Op != c {
		return p.errorf("expected %q, got %q", string(c), t.String())
	}
	return nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.next()
	if t == nil {
		return "", p.errorf("expected identifier, got end of input")
	}
	if t.Type != token.Ident {
		return "", p.errorf("expected identifier, got %q", t.String())
	}
	return t.Value, nil
}

func (p *parser) expectNumber() (uint32, error) {
	t := p.next()
	if t == nil {
		return 0, p.errorf("expected number, got end of input")
	}
	if t.Type != token.Number {
		return 0, p.errorf("expected number, got %q", t.String())
	}
	return t.Num, nil
}

// parseDefs parses the top level: typedefs with optional ';'
// separators, to end of input. Errors are collected per definition;
// recovery skips to the next ';'.
func (p *parser) parseDefs() []TypeDef {
	var defs []TypeDef
	for {
		for p.acceptOp(';') {
		}
		if p.peek() == nil {
			break
		}
		def, err := p.parseTypeDef()
		if err != nil {
			p.errs = append(p.errs, err)
			p.recover()
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

// recover skips tokens up to and including the next ';' so that one
// malformed definition does not hide errors in the rest of the source.
func (p *parser) recover() {
	for {
		t := p.next()
		if t == nil {
			return
		}
		if t.Type == token.Op && t.Op == ';' {
			return
		}
	}
}

// parseTypeDef parses [name ['<' params '>'] '='] type. A bare type
// yields an anonymous definition addressable only by index.
func (p *parser) parseTypeDef() (TypeDef, error) {
	if name, params, ok := p.tryDefName(); ok {
		ty, err := p.parseType()
		if err != nil {
			return TypeDef{}, err
		}
		return TypeDef{Name: name, TypeParams: params, Type: ty}, nil
	}
	ty, err := p.parseType()
	if err != nil {
		return TypeDef{}, err
	}
	return TypeDef{Type: ty}, nil
}

// tryDefName attempts to consume `name ['<' params '>'] '='`. On any
// mismatch the position is restored; the tokens then parse as a type.
func (p *parser) tryDefName() (string, []string, bool) {
	start := p.pos
	t := p.peek()
	if t == nil || t.Type != token.Ident {
		return "", nil, false
	}
	name := t.Value
	p.pos++

	var params []string
	if p.acceptOp('<') {
		for {
			id, err := p.expectIdent()
			if err != nil {
				p.pos = start
				return "", nil, false
			}
			params = append(params, id)
			if p.acceptOp(',') {
				if p.peekOp('>') {
					break
				}
				continue
			}
			break
		}
		if !p.acceptOp('>') {
			p.pos = start
			return "", nil, false
		}
	}

	if !p.acceptOp('=') {
		p.pos = start
		return "", nil, false
	}
	return name, params, true
}

// parseType parses one type expression. Constructs are disambiguated
// by their leading token, so no backtracking happens here.
func (p *parser) parseType() (Type, error) {
	if p.depth >= MaxNesting {
		return nil, errors.DepthExceeded(errors.PhaseParse, MaxNesting)
	}
	p.depth++
	defer func() { p.depth-- }()

	t := p.peek()
	if t == nil {
		return nil, p.errorf("expected type, got end of input")
	}

	if t.Type == token.Ident || t.Type == token.Number {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		return Alias{Target: ref}, nil
	}

	if t.Type != token.Op {
		return nil, p.errorf("expected type, got %q", t.String())
	}

	switch t.Op {
	case '#':
		p.pos++
		return p.parsePrimitive()
	case '@':
		p.pos++
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		return Compact{Elem: ref}, nil
	case '[':
		p.pos++
		return p.parseSeqOrArray()
	case '(':
		p.pos++
		return p.parseTuple()
	case '<':
		p.pos++
		return p.parseEnum()
	case '{':
		p.pos++
		return p.parseStruct()
	}
	return nil, p.errorf("expected type, got %q", t.String())
}

// parseRef parses a type reference: an identifier (optionally with
// generic type arguments), a positional index, or a nested anonymous
// type expression. Generic argument lists recurse through here without
// touching parseType, so the nesting guard must apply here as well.
func (p *parser) parseRef() (Id, error) {
	if p.depth >= MaxNesting {
		return nil, errors.DepthExceeded(errors.PhaseParse, MaxNesting)
	}
	p.depth++
	defer func() { p.depth-- }()

	t := p.peek()
	if t == nil {
		return nil, p.errorf("expected type reference, got end of input")
	}
	switch t.Type {
	case token.Number:
		p.pos++
		return Num(t.Num), nil
	case token.Ident:
		p.pos++
		name := Name{Name: t.Value}
		if p.acceptOp('<') {
			for {
				arg, err := p.parseRef()
				if err != nil {
					return nil, err
				}
				name.Args = append(name.Args, arg)
				if p.acceptOp(',') {
					if p.peekOp('>') {
						break
					}
					continue
				}
				break
			}
			if err := p.expectOp('>'); err != nil {
				return nil, err
			}
		}
		return name, nil
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return Inline{Type: ty}, nil
}

func (p *parser) parsePrimitive() (Type, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	prim, ok := PrimitiveByName(name)
	if !ok {
		return nil, p.errorf("unknown primitive type %q", name)
	}
	return prim, nil
}

// parseSeqOrArray parses the body after '[': either `ref ]` (sequence)
// or `ref ; number ]` (fixed array).
func (p *parser) parseSeqOrArray() (Type, error) {
	ref, err := p.parseRef()
	if err != nil {
		return nil, err
	}
	if p.acceptOp(';') {
		n, err := p.expectNumber()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(']'); err != nil {
			return nil, err
		}
		return Array{Elem: ref, Len: n}, nil
	}
	if err := p.expectOp(']'); err != nil {
		return nil, err
	}
	return Seq{Elem: ref}, nil
}

func (p *parser) parseTuple() (Type, error) {
	var elems []Id
	for !p.peekOp(')') {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ref)
		if !p.acceptOp(',') {
			break
		}
	}
	if err := p.expectOp(')'); err != nil {
		return nil, err
	}
	return Tuple{Elems: elems}, nil
}

// parseEnum parses variants separated by ',' or '|', with an optional
// trailing separator. Each variant is `name [':' [ref]] [':' number]`.
func (p *parser) parseEnum() (Type, error) {
	var variants []Variant
	for !p.peekOp('>') {
		v, err := p.parseVariant()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
		if !p.acceptOp(',') && !p.acceptOp('|') {
			break
		}
	}
	if err := p.expectOp('>'); err != nil {
		return nil, err
	}
	return Enum{Variants: variants}, nil
}

func (p *parser) parseVariant() (Variant, error) {
	name, err := p.expectIdent()
	if err != nil {
		return Variant{}, err
	}
	v := Variant{Name: name}
	if p.acceptOp(':') {
		// The payload is optional so that `C::5` declares a bare
		// variant with an explicit discriminant.
		if !p.peekOp(':') && !p.peekOp(',') && !p.peekOp('|') && !p.peekOp('>') {
			payload, err := p.parseRef()
			if err != nil {
				return Variant{}, err
			}
			v.Payload = payload
		}
		if p.acceptOp(':') {
			tag, err := p.expectNumber()
			if err != nil {
				return Variant{}, err
			}
			v.Tag = &tag
		}
	}
	return v, nil
}

func (p *parser) parseStruct() (Type, error) {
	var fields []Field
	for !p.peekOp('}') {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(':'); err != nil {
			return nil, err
		}
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Type: ref})
		if !p.acceptOp(',') {
			break
		}
	}
	if err := p.expectOp('}'); err != nil {
		return nil, err
	}
	return Struct{Fields: fields}, nil
}
