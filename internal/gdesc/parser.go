package gdesc

import (
	"fmt"
	"io"

	"github.com/dekarrin/xg/grammar"
)

// Load reads a grammar description from r (the text format spec.md §6.1
// documents: `name: rhs1 | rhs2 ... ;` productions plus `%start`/`%token`/
// `%left`/`%right`/`%nonassoc` directives) and populates a fresh grammar.
// It does not call g.Finalize(); callers finalize once loading and any
// further programmatic setup is done.
func Load(r io.Reader) (*grammar.Grammar, error) {
	p := &parser{lex: newLexer(r), g: grammar.New()}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.kind != tokEOF {
		if err := p.statement(); err != nil {
			return nil, err
		}
	}
	return p.g, nil
}

type parser struct {
	lex  *lexer
	tok  *token
	g    *grammar.Grammar
	prec int
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) (*token, error) {
	if p.tok.kind != k {
		return nil, fmt.Errorf("%s: expected %s", p.tok.pos, what)
	}
	t := p.tok
	return t, p.advance()
}

func (p *parser) statement() error {
	switch p.tok.kind {
	case tokPercentDirective:
		return p.directive()
	case tokID:
		return p.production()
	default:
		return fmt.Errorf("%s: expected a directive or a production", p.tok.pos)
	}
}

// directive parses one of %start, %token, %left, %right, %nonassoc. Each of
// %left/%right/%nonassoc begins a new, strictly higher precedence level than
// the previous one, per spec.md §6.1.
func (p *parser) directive() error {
	name := p.tok.text
	if err := p.advance(); err != nil {
		return err
	}

	switch name {
	case "start":
		sym, err := p.symbolRef()
		if err != nil {
			return err
		}
		p.g.SetStart(sym)
	case "token":
		for p.tok.kind == tokID || p.tok.kind == tokLiteral {
			if _, err := p.symbolRef(); err != nil {
				return err
			}
		}
	case "left", "right", "nonassoc":
		p.prec++
		var assoc grammar.Assoc
		switch name {
		case "left":
			assoc = grammar.AssocLeft
		case "right":
			assoc = grammar.AssocRight
		default:
			assoc = grammar.AssocNone
		}
		var syms []int
		for p.tok.kind == tokID || p.tok.kind == tokLiteral {
			sym, err := p.symbolRef()
			if err != nil {
				return err
			}
			syms = append(syms, sym)
		}
		if err := p.g.SetPrecedence(syms, assoc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: unknown directive %%%s", p.tok.pos, name)
	}

	_, err := p.expect(tokSemi, `";"`)
	return err
}

// symbolRef resolves the current ID or LITERAL token to a symbol code,
// introducing it (first-seen order, per spec.md §5) if not already known.
func (p *parser) symbolRef() (int, error) {
	switch p.tok.kind {
	case tokID:
		name := p.tok.text
		code := p.g.AddSymbol(name)
		return code, p.advance()
	case tokLiteral:
		ch := p.tok.text[0]
		code, err := p.g.AddLiteral(ch)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", p.tok.pos, err)
		}
		return code, p.advance()
	default:
		return 0, fmt.Errorf("%s: expected a symbol name or literal", p.tok.pos)
	}
}

// production parses `name: rhs1 | rhs2 | ... ;`, where each alternative is
// a (possibly empty) sequence of symbol refs optionally suffixed with
// `%prec tok`.
func (p *parser) production() error {
	lhs, err := p.symbolRef()
	if err != nil {
		return err
	}
	if _, err := p.expect(tokColon, `":"`); err != nil {
		return err
	}

	for {
		if err := p.alternative(lhs); err != nil {
			return err
		}
		if p.tok.kind != tokPipe {
			break
		}
		if err := p.advance(); err != nil {
			return err
		}
	}

	_, err = p.expect(tokSemi, `";"`)
	return err
}

func (p *parser) alternative(lhs int) error {
	prod, err := p.g.AddProduction(lhs)
	if err != nil {
		return err
	}

	for p.tok.kind == tokID || p.tok.kind == tokLiteral {
		sym, err := p.symbolRef()
		if err != nil {
			return err
		}
		p.g.AppendRHSSymbol(prod, sym)
	}

	if p.tok.kind == tokPrec {
		if err := p.advance(); err != nil {
			return err
		}
		tok, err := p.symbolRef()
		if err != nil {
			return err
		}
		p.g.SetProductionPrecedenceToken(prod, tok)
	}

	return nil
}
