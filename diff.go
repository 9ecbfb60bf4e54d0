package graphcalc

import (
	"strconv"
)

// Diff returns the derivative of e with respect to variable. Variables other
// than variable are held constant, so Diff also gives partial derivatives.
// The result is simplified only by identities such as 0+a = a, 1*a = a, a/a = 1,
// and ln(e) = 1, and by folding integer literals.
func Diff(e *Expr, variable string) (*Expr, error) {
	d, err := diff(e.n, variable)
	if err != nil {
		return nil, err
	}
	return newExpr(d), nil
}

func diff(n *node, v string) (*node, error) {
	switch n.kind {
	case nodeNum:
		return num(0), nil
	case nodeName:
		if n.name == v {
			return num(1), nil
		}
		return num(0), nil
	case nodeNeg:
		d, err := diff(n.left, v)
		if err != nil {
			return nil, err
		}
		return neg(d), nil
	case nodeAdd, nodeSub:
		dl, err := diff(n.left, v)
		if err != nil {
			return nil, err
		}
		dr, err := diff(n.right, v)
		if err != nil {
			return nil, err
		}
		if n.kind == nodeAdd {
			return add(dl, dr), nil
		}
		return sub(dl, dr), nil
	case nodeMul:
		dl, err := diff(n.left, v)
		if err != nil {
			return nil, err
		}
		dr, err := diff(n.right, v)
		if err != nil {
			return nil, err
		}
		return add(mul(dl, n.right), mul(n.left, dr)), nil
	case nodeDiv:
		dl, err := diff(n.left, v)
		if err != nil {
			return nil, err
		}
		dr, err := diff(n.right, v)
		if err != nil {
			return nil, err
		}
		if iszero(dr) {
			return div(dl, n.right), nil
		}
		return div(sub(mul(dl, n.right), mul(n.left, dr)), pow(n.right, num(2))), nil
	case nodePow:
		return diffpow(n, v)
	case nodeCall:
		return diffcall(n, v)
	default:
		panic("graphcalc: cannot differentiate node kind " + n.kind.String())
	}
}

func diffpow(n *node, v string) (*node, error) {
	base, power := n.left, n.right
	du, err := diff(base, v)
	if err != nil {
		return nil, err
	}
	dv, err := diff(power, v)
	if err != nil {
		return nil, err
	}
	switch {
	case iszero(dv):
		// d(u^c) = c u^(c-1) du
		return mul(mul(power, pow(base, sub(power, num(1)))), du), nil
	case iszero(du):
		// d(c^v) = c^v ln(c) dv
		return mul(mul(n, call("ln", base)), dv), nil
	default:
		// d(u^v) = u^v (dv ln(u) + v du / u)
		return mul(n, add(mul(dv, call("ln", base)), div(mul(power, du), base))), nil
	}
}

func diffcall(n *node, v string) (*node, error) {
	u := n.left
	if u == nil {
		// Constants like pi and e.
		return num(0), nil
	}
	du, err := diff(u, v)
	if err != nil {
		return nil, err
	}
	if iszero(du) {
		return num(0), nil
	}
	var outer *node
	switch n.name {
	case "sin":
		outer = call("cos", u)
	case "cos":
		outer = neg(call("sin", u))
	case "tan":
		outer = pow(call("sec", u), num(2))
	case "csc":
		outer = neg(mul(call("csc", u), call("cot", u)))
	case "sec":
		outer = mul(call("sec", u), call("tan", u))
	case "cot":
		outer = neg(pow(call("csc", u), num(2)))
	case "asin":
		outer = div(num(1), call("sqrt", sub(num(1), pow(u, num(2)))))
	case "acos":
		outer = neg(div(num(1), call("sqrt", sub(num(1), pow(u, num(2))))))
	case "atan":
		outer = div(num(1), add(num(1), pow(u, num(2))))
	case "sinh":
		outer = call("cosh", u)
	case "cosh":
		outer = call("sinh", u)
	case "tanh":
		outer = sub(num(1), pow(call("tanh", u), num(2)))
	case "exp":
		outer = n
	case "ln", "log":
		outer = div(num(1), u)
	case "log10":
		outer = div(num(1), mul(u, call("ln", num(10))))
	case "log2":
		outer = div(num(1), mul(u, call("ln", num(2))))
	case "sqrt":
		outer = div(num(1), mul(num(2), n))
	case "cbrt":
		outer = div(num(1), mul(num(3), pow(n, num(2))))
	default:
		return nil, &UndifferentiableError{Func: n.name}
	}
	return mul(outer, du), nil
}

// UndifferentiableError is an error indicating a function with no known
// derivative.
type UndifferentiableError struct {
	// Func is the name of the function.
	Func string
}

func (err *UndifferentiableError) Error() string {
	return "cannot differentiate " + strconv.Quote(err.Func)
}

// Node constructors used to build derivatives. Each applies the identities
// that keep results readable.

func num(k int64) *node {
	if k < 0 {
		return &node{kind: nodeNeg, left: num(-k)}
	}
	return &node{kind: nodeNum, name: strconv.FormatInt(k, 10)}
}

func call(name string, arg *node) *node {
	if name == "ln" && arg.kind == nodeCall && arg.name == "e" && arg.left == nil {
		return num(1)
	}
	return &node{kind: nodeCall, name: name, fn: globalfuncs[name], left: arg}
}

// intval returns the value of n if it is an integer literal, possibly
// negated, small enough to fold.
func intval(n *node) (int64, bool) {
	switch n.kind {
	case nodeNum:
		k, err := strconv.ParseInt(n.name, 10, 32)
		return k, err == nil
	case nodeNeg:
		k, ok := intval(n.left)
		return -k, ok
	default:
		return 0, false
	}
}

func iszero(n *node) bool {
	k, ok := intval(n)
	return ok && k == 0
}

func isone(n *node) bool {
	k, ok := intval(n)
	return ok && k == 1
}

func neg(a *node) *node {
	if k, ok := intval(a); ok {
		return num(-k)
	}
	if a.kind == nodeNeg {
		return a.left
	}
	return &node{kind: nodeNeg, left: a}
}

func add(a, b *node) *node {
	j, jok := intval(a)
	k, kok := intval(b)
	switch {
	case jok && kok:
		return num(j + k)
	case jok && j == 0:
		return b
	case kok && k == 0:
		return a
	case b.kind == nodeNeg:
		return &node{kind: nodeSub, left: a, right: b.left}
	}
	return &node{kind: nodeAdd, left: a, right: b}
}

func sub(a, b *node) *node {
	j, jok := intval(a)
	k, kok := intval(b)
	switch {
	case jok && kok:
		return num(j - k)
	case jok && j == 0:
		return neg(b)
	case kok && k == 0:
		return a
	}
	return &node{kind: nodeSub, left: a, right: b}
}

func mul(a, b *node) *node {
	j, jok := intval(a)
	k, kok := intval(b)
	switch {
	case jok && kok:
		return num(j * k)
	case jok && j == 0, kok && k == 0:
		return num(0)
	case jok && j == 1:
		return b
	case kok && k == 1:
		return a
	case jok && j == -1:
		return neg(b)
	case kok && k == -1:
		return neg(a)
	case a.kind == nodeNeg:
		return neg(mul(a.left, b))
	case b.kind == nodeNeg:
		return neg(mul(a, b.left))
	}
	if jok && b.kind == nodeMul {
		if k, ok := intval(b.left); ok {
			return mul(num(j*k), b.right)
		}
	}
	return &node{kind: nodeMul, left: a, right: b}
}

func div(a, b *node) *node {
	switch {
	case iszero(a):
		return num(0)
	case isone(b):
		return a
	case same(a, b):
		return num(1)
	}
	return &node{kind: nodeDiv, left: a, right: b}
}

func pow(a, b *node) *node {
	switch {
	case iszero(b):
		return num(1)
	case isone(b):
		return a
	}
	return &node{kind: nodePow, left: a, right: b}
}
