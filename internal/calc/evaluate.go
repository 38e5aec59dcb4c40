package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidExpression marks input the evaluator cannot parse.
	ErrInvalidExpression = errors.New("invalid expression")
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
)

const maxNesting = 64

// Evaluate computes an arithmetic expression over + - * / with parentheses,
// unary signs and decimal numbers, using the usual precedence.
func Evaluate(expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidExpression)
	}
	p := &parser{src: expr}
	v, err := p.expression()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if !p.done() {
		return 0, p.errorf("unexpected %q", p.src[p.pos])
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result out of range", ErrInvalidExpression)
	}
	return v, nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpaces() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpaces()
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrInvalidExpression, p.pos, fmt.Sprintf(format, args...))
}

// expression := term (('+'|'-') term)*
func (p *parser) expression() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

// term := unary (('*'|'/') unary)*
func (p *parser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			at := p.pos
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("%w at offset %d", ErrDivisionByZero, at)
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

// unary := ('+'|'-') unary | primary
func (p *parser) unary() (float64, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.peek() {
	case '+':
		p.pos++
		return p.unary()
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

// primary := number | '(' expression ')'
func (p *parser) primary() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing ')'")
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 0:
		return 0, p.errorf("unexpected end of input")
	default:
		return 0, p.errorf("unexpected %q", c)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	dots := 0
	digits := 0
	for !p.done() {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c >= '0' && c <= '9' {
			digits++
		} else {
			break
		}
		p.pos++
	}
	text := p.src[start:p.pos]
	if dots > 1 || digits == 0 {
		return 0, fmt.Errorf("%w at offset %d: malformed number %q", ErrInvalidExpression, start, text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w at offset %d: %v", ErrInvalidExpression, start, err)
	}
	return v, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return p.errorf("nesting too deep")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }
