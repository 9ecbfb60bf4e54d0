package graphcalc

import (
	"sort"
	"strings"
)

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is immutable; operations that combine or transform expressions return new
// ones.
type Expr struct {
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Parse parses canonical text into an expression. The given options are
// applied in order.
//
// Juxtaposition multiplies, binding as tightly as * but grouping to the right,
// so 1/2x is 1/(2*x). A function name followed by a term that is not bracketed
// takes that term as its argument, as in sin 2x. An exponent written directly
// after a function name applies to the result of the call, so cos^2 x is
// (cos x)^2.
func Parse(text string, opts ...ParseOption) (*Expr, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks, funcs: globalfuncs, vars: defaultvars}
	for _, opt := range opts {
		opt(&p)
	}
	n, err := p.expr(bindAll)
	if err != nil {
		return nil, err
	}
	switch tok := p.next(); tok.kind {
	case tokEOF:
	case tokClose:
		return nil, &BracketError{Col: tok.col, Right: tok.text}
	default:
		return nil, &SeparatorError{Col: tok.col, Sep: tok.text}
	}
	return newExpr(n), nil
}

// newExpr creates an expression around a tree, collecting its variables.
func newExpr(n *node) *Expr {
	m := make(map[string]bool)
	n.names(m)
	ex := Expr{n: n, names: make([]string, 0, len(m))}
	for k := range m {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append([]string(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}

// Infix formats the expression as canonical text, with ASCII operators and
// only the brackets that precedence requires. The result parses back to an
// equivalent expression.
func (e *Expr) Infix() string {
	var b strings.Builder
	e.n.infix(&b)
	return b.String()
}

type parser struct {
	toks []token
	pos  int
	// depth is the number of open groups around the current position.
	depth int

	funcs map[string]Func
	// ownfuncs is set once funcs has been copied from the defaults.
	ownfuncs bool
	vars     map[string]bool
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

// next consumes and returns the current token. The final EOF is never
// consumed.
func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// binding describes how tightly an operator holds its operands.
type binding struct {
	prec  int8
	right bool
	kind  nodeKind
}

// tighter reports whether an operator with binding b may take an operand
// that is being parsed under min.
func (b binding) tighter(min binding) bool {
	if b.prec != min.prec {
		return b.prec > min.prec
	}
	return b.right
}

var (
	// bindAll admits every operator.
	bindAll = binding{prec: -1}
	// bindJuxt is implicit multiplication.
	bindJuxt  = binding{5, true, nodeMul}
	bindUnary = binding{10, true, nodeNeg}
	bindPow   = binding{15, true, nodePow}
)

func infixop(text string) binding {
	switch text {
	case "+":
		return binding{1, false, nodeAdd}
	case "-":
		return binding{1, false, nodeSub}
	case "*", "×":
		return binding{5, false, nodeMul}
	case "/", "÷":
		return binding{5, false, nodeDiv}
	case "**", "^":
		return bindPow
	}
	return binding{}
}

// expr parses operands joined by operators that bind tighter than min.
func (p *parser) expr(min binding) (*node, error) {
	n, err := p.operand(min)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var b binding
		switch tok.kind {
		case tokNum, tokName, tokOpen:
			b = bindJuxt
		case tokOp:
			b = infixop(tok.text)
			if b.kind == nodeNone {
				return nil, &OperatorError{Col: tok.col, Operator: tok.text}
			}
		default:
			return n, nil
		}
		if !b.tighter(min) {
			return n, nil
		}
		if tok.kind == tokOp {
			p.next()
		}
		rhs, err := p.expr(b)
		if err != nil {
			return nil, err
		}
		n = &node{kind: b.kind, left: n, right: rhs}
	}
}

// operand parses a single term along with any unary operators before it.
func (p *parser) operand(min binding) (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNum:
		return &node{kind: nodeNum, name: tok.text}, nil
	case tokName:
		if fn := p.funcs[tok.text]; fn != nil {
			return p.call(tok, fn, min)
		}
		if !p.vars[tok.text] {
			return nil, &IdentError{Col: tok.col, Name: tok.text}
		}
		return &node{kind: nodeName, name: tok.text}, nil
	case tokOp:
		if tok.text != "+" && tok.text != "-" {
			return nil, &OperatorError{Col: tok.col, Operator: tok.text, Unary: true}
		}
		// x^-y is x^(-y), so a sign never binds looser than its context.
		b := bindUnary
		if !b.tighter(min) {
			b = min
		}
		x, err := p.expr(b)
		if err != nil {
			return nil, err
		}
		if tok.text == "+" {
			return x, nil
		}
		return &node{kind: nodeNeg, left: x}, nil
	case tokOpen:
		return p.group(tok)
	case tokClose:
		if p.depth > 0 {
			return nil, &EmptyExpressionError{Col: tok.col, End: tok.text}
		}
		return nil, &BracketError{Col: tok.col, Right: tok.text}
	case tokSep:
		return nil, &SeparatorError{Col: tok.col, Sep: tok.text}
	default:
		return nil, &EmptyExpressionError{Col: tok.col}
	}
}

// group parses a bracketed expression after its open bracket.
func (p *parser) group(open token) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	x, err := p.expr(bindAll)
	if err != nil {
		return nil, err
	}
	return x, p.close(open)
}

// close consumes the bracket that closes open.
func (p *parser) close(open token) error {
	tok := p.next()
	switch tok.kind {
	case tokClose:
		if tok.text != closing[open.text] {
			return &BracketError{Col: tok.col, Left: open.text, Right: tok.text}
		}
		return nil
	case tokSep:
		return &SeparatorError{Col: tok.col, Sep: tok.text}
	default:
		return &BracketError{Col: tok.col, Left: open.text}
	}
}

// call parses the exponent and argument of a function after its name.
func (p *parser) call(name token, fn Func, min binding) (*node, error) {
	var exp *node
	if tok := p.peek(); tok.kind == tokOp && infixop(tok.text) == bindPow {
		p.next()
		var err error
		if exp, err = p.expr(bindPow); err != nil {
			return nil, err
		}
	}
	n := &node{kind: nodeCall, name: name.text, fn: fn}
	if fn.Arity() == 0 {
		// pi() is a call, but pi(2) is pi times 2.
		if p.peek().kind == tokOpen && p.toks[p.pos+1].kind == tokClose {
			if err := p.close(p.next()); err != nil {
				return nil, err
			}
		}
	} else {
		arg, err := p.argument(name, min)
		if err != nil {
			return nil, err
		}
		n.left = arg
	}
	if exp != nil {
		n = &node{kind: nodePow, left: n, right: exp}
	}
	return n, nil
}

// argument parses the argument of a monadic call, either a bracketed list
// that must hold exactly one expression or a bare term.
func (p *parser) argument(name token, min binding) (*node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokOpen:
		p.next()
		if p.peek().kind == tokClose {
			return nil, &CallError{Col: tok.col, Func: name.text}
		}
		p.depth++
		defer func() { p.depth-- }()
		var arg *node
		args := 0
		for {
			x, err := p.expr(bindAll)
			if err != nil {
				return nil, err
			}
			if arg == nil {
				arg = x
			}
			args++
			if p.peek().kind != tokSep {
				break
			}
			p.next()
		}
		if err := p.close(tok); err != nil {
			return nil, err
		}
		if args != 1 {
			return nil, &CallError{Col: tok.col, Func: name.text, Len: args}
		}
		return arg, nil
	case tokClose, tokSep, tokEOF:
		return nil, &CallError{Col: tok.col, Func: name.text}
	}
	b := min
	if bindJuxt.tighter(min) {
		b = bindJuxt
	}
	return p.expr(b)
}
