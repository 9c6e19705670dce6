package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// Expr is a parsed type expression such as "List[etype=BBox, ordered=true]".
type Expr struct {
	Name string
	Args []Arg
	// Raw is the source text of the expression.
	Raw string
}

// Arg is one key=value argument. Exactly one of Value, Expr or List
// carries the value; Value also holds the raw text of a nested Expr.
type Arg struct {
	Key   string
	Value string
	// Expr is set when the value is itself a kind expression.
	Expr *Expr
	// List is set for bracketed values such as dom=[A, B].
	List    []string
	IsList  bool
	IsQuote bool
}

// Arg returns the argument with the given key.
func (e *Expr) Arg(key string) (Arg, bool) {
	for _, a := range e.Args {
		if a.Key == key {
			return a, true
		}
	}

	return Arg{}, false
}

// Values returns the value of a as a list: the list items, or the single value.
func (a Arg) Values() []string {
	if a.IsList {
		return a.List
	}

	return []string{a.Value}
}

func (e *Expr) String() string {
	if e.Raw != "" {
		return e.Raw
	}

	if len(e.Args) == 0 {
		return e.Name
	}

	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		switch {
		case a.IsList:
			parts[i] = a.Key + "=[" + strings.Join(a.List, ",") + "]"
		case a.Expr != nil:
			parts[i] = a.Key + "=" + a.Expr.String()
		default:
			parts[i] = a.Key + "=" + a.Value
		}
	}

	return e.Name + "[" + strings.Join(parts, ",") + "]"
}

// ExprError reports a malformed type expression.
type ExprError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("invalid type expression %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

// ParseExpr parses a type expression.
func ParseExpr(s string) (*Expr, error) {
	p := &exprParser{src: s}

	p.skipSpace()

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eof() {
		return nil, p.errorf("unexpected %q after expression", p.peek())
	}

	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) eof() bool { return p.pos >= len(p.src) }

func (p *exprParser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *exprParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *exprParser) errorf(format string, args ...any) *ExprError {
	return &ExprError{Expr: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == '$', c == ':', c == '+', c == '%', c >= 0x80:
		return true
	default:
		return false
	}
}

func (p *exprParser) word() string {
	start := p.pos
	for !p.eof() && isWordByte(p.src[p.pos]) {
		p.pos++
	}

	return p.src[start:p.pos]
}

func (p *exprParser) expr() (*Expr, error) {
	start := p.pos

	name := p.word()
	if name == "" {
		return nil, p.errorf("expected a kind name")
	}

	e := &Expr{Name: name}

	p.skipSpace()

	if p.peek() == '[' {
		p.pos++

		args, err := p.args()
		if err != nil {
			return nil, err
		}

		e.Args = args
	}

	e.Raw = strings.TrimSpace(p.src[start:p.pos])

	return e, nil
}

func (p *exprParser) args() ([]Arg, error) {
	var args []Arg

	seen := map[string]bool{}

	for {
		p.skipSpace()

		if p.peek() == ']' && len(args) == 0 {
			p.pos++
			return args, nil
		}

		key := p.word()
		if key == "" {
			return nil, p.errorf("expected an argument name")
		}

		if seen[key] {
			return nil, p.errorf("argument %q given twice", key)
		}

		seen[key] = true

		p.skipSpace()

		if p.peek() != '=' {
			return nil, p.errorf("expected '=' after %q", key)
		}

		p.pos++
		p.skipSpace()

		arg, err := p.value(key)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return args, nil
		case 0:
			return nil, p.errorf("missing ']'")
		default:
			return nil, p.errorf("unexpected %q in argument list", p.peek())
		}
	}
}

func (p *exprParser) value(key string) (Arg, error) {
	arg := Arg{Key: key}

	switch c := p.peek(); {
	case c == '[':
		p.pos++

		list, err := p.list()
		if err != nil {
			return arg, err
		}

		arg.List, arg.IsList = list, true

	case c == '"' || c == '\'':
		s, err := p.quoted()
		if err != nil {
			return arg, err
		}

		arg.Value, arg.IsQuote = s, true

	default:
		start := p.pos

		e, err := p.expr()
		if err != nil {
			return arg, p.errorf("expected a value for %q", key)
		}

		arg.Value = p.src[start:p.pos]
		if len(e.Args) > 0 || !strings.HasPrefix(e.Name, "$") {
			arg.Expr = e
		}
	}

	return arg, nil
}

func (p *exprParser) list() ([]string, error) {
	var items []string

	for {
		p.skipSpace()

		if p.peek() == ']' && len(items) == 0 {
			p.pos++
			return items, nil
		}

		var item string

		if c := p.peek(); c == '"' || c == '\'' {
			s, err := p.quoted()
			if err != nil {
				return nil, err
			}

			item = s
		} else {
			item = p.word()
		}

		if item == "" {
			return nil, p.errorf("expected a list item")
		}

		items = append(items, item)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return items, nil
		default:
			return nil, p.errorf("missing ']' after list")
		}
	}
}

func (p *exprParser) quoted() (string, error) {
	q := p.peek()
	p.pos++
	start := p.pos

	for !p.eof() && p.src[p.pos] != q {
		p.pos++
	}

	if p.eof() {
		return "", p.errorf("unterminated string")
	}

	s := p.src[start:p.pos]
	p.pos++

	return s, nil
}
