package graphcalc

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating expressions. It holds variable values
// and reuses intermediate storage between evaluations, so it is not safe to
// use a Context concurrently.
type Context struct {
	prec uint
	vars map[string]*big.Float
	// nums caches parsed number literals.
	nums map[string]*big.Float
	// free holds scratch values for reuse.
	free []*big.Float
	err  error
}

// ContextOption is an option used when creating a context.
type ContextOption func(*Context)

// Prec sets the precision of calculations in bits. The default is 64. Panics
// if prec is 0.
func Prec(prec uint) ContextOption {
	if prec == 0 {
		panic("graphcalc: zero precision")
	}
	return func(ctx *Context) {
		ctx.prec = prec
	}
}

// NewContext creates a new evaluation context with no variables.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		prec: 64,
		vars: make(map[string]*big.Float),
		nums: make(map[string]*big.Float),
	}
	for _, opt := range opts {
		opt(&ctx)
	}
	return &ctx
}

// Set sets the value of a variable, rounded to the context's precision.
// Returns ctx for chaining.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	v := ctx.vars[name]
	if v == nil {
		v = new(big.Float).SetPrec(ctx.prec)
		ctx.vars[name] = v
	}
	v.Set(value)
	return ctx
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or an argument to a function is outside
// the function's domain, then the result is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) (result *big.Float) {
	defer func() {
		// Operations on infinities like inf-inf and 0*inf panic rather than
		// producing NaN.
		p := recover()
		if p == nil {
			return
		}
		if !isNaN(p) {
			panic(p)
		}
		ctx.err = &DomainError{Func: p.(error).Error()}
		result = nil
	}()
	r := new(big.Float).SetPrec(ctx.prec)
	if ctx.err = ctx.eval(e.n, r); ctx.err != nil {
		return nil
	}
	return r
}

// Err returns the error from the last call to Eval, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Evaluate evaluates an expression in a new context. The expression must have
// no free variables.
func Evaluate(e *Expr, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	r := ctx.Eval(e)
	return r, ctx.Err()
}

// isNaN reports whether a recovered panic value is a NaN from math/big or
// bigfloat.
func isNaN(p interface{}) bool {
	err, ok := p.(error)
	return ok && errors.As(err, new(big.ErrNaN))
}

func (ctx *Context) get() *big.Float {
	if k := len(ctx.free) - 1; k >= 0 {
		x := ctx.free[k]
		ctx.free = ctx.free[:k]
		return x
	}
	return new(big.Float).SetPrec(ctx.prec)
}

func (ctx *Context) put(x *big.Float) {
	ctx.free = append(ctx.free, x.SetPrec(ctx.prec))
}

// num returns the value of a number literal.
func (ctx *Context) num(s string) *big.Float {
	if r := ctx.nums[s]; r != nil {
		return r
	}
	t := s
	if t == "∞" {
		t = "inf"
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(t, 10)
	if err != nil {
		// Literals are well-formed, so only the exponent can be out of range.
		r = new(big.Float).SetPrec(ctx.prec)
		if !strings.Contains(t, "-") {
			r.SetInf(false)
		}
	}
	ctx.nums[s] = r
	return r
}

// eval sets z to the value of n.
func (ctx *Context) eval(n *node, z *big.Float) error {
	switch n.kind {
	case nodeNum:
		z.Set(ctx.num(n.name))
	case nodeName:
		v := ctx.vars[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		z.Set(v)
	case nodeCall:
		var x *big.Float
		if n.left != nil {
			x = ctx.get()
			defer ctx.put(x)
			if err := ctx.eval(n.left, x); err != nil {
				return err
			}
		}
		if err := n.fn.Call(z, x); err != nil {
			switch err := err.(type) {
			case *DomainError:
				if err.Func == "" {
					err.Func = n.name
				}
			case *RangeError:
				if err.Func == "" {
					err.Func = n.name
				}
			}
			return err
		}
	case nodeNeg:
		if err := ctx.eval(n.left, z); err != nil {
			return err
		}
		z.Neg(z)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := ctx.eval(n.left, z); err != nil {
			return err
		}
		y := ctx.get()
		defer ctx.put(y)
		if err := ctx.eval(n.right, y); err != nil {
			return err
		}
		return binary(n.kind, z, y)
	default:
		panic("graphcalc: invalid AST node " + n.kind.String())
	}
	return nil
}

// binary sets z to z op y.
func binary(op nodeKind, z, y *big.Float) error {
	if op == nodePow {
		return evalpow(z, y)
	}
	finite := !z.IsInf() && !y.IsInf()
	var name string
	switch op {
	case nodeAdd:
		z.Add(z, y)
		name = "+"
	case nodeSub:
		z.Sub(z, y)
		name = "-"
	case nodeMul:
		z.Mul(z, y)
		name = "*"
	case nodeDiv:
		// Division by zero is always an error, as are inf/inf.
		if y.Sign() == 0 || z.IsInf() && y.IsInf() {
			return &DomainError{X: new(big.Float).Copy(y), Arg: 2, Func: "/"}
		}
		z.Quo(z, y)
		name = "/"
	}
	if finite && z.IsInf() {
		return &RangeError{Func: name}
	}
	return nil
}

// maxSquaring is the largest binary exponent of an integer power that is
// computed by repeated squaring.
const maxSquaring = 17

// evalpow sets x to x**y. Integer exponents of any size allow negative bases.
func evalpow(x, y *big.Float) error {
	if y.Sign() == 0 {
		x.SetInt64(1)
		return nil
	}
	integer := y.IsInt()
	switch {
	case x.Sign() < 0 && !integer:
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "**"}
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return &DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "**"}
		}
		return nil
	}
	neg := x.Sign() < 0 && odd(y)
	x.Abs(x)
	var err error
	switch {
	case x.IsInf():
		if y.Sign() < 0 {
			x.SetInt64(0)
		}
	case y.IsInf():
		switch c := x.Cmp(one); {
		case c == 0:
		case (c > 0) == (y.Sign() > 0):
			x.SetInf(false)
		default:
			x.SetInt64(0)
		}
	case integer && y.MantExp(nil) <= maxSquaring:
		k, _ := y.Int64()
		intpow(x, k)
		if x.IsInf() {
			err = &RangeError{Func: "**"}
		}
	default:
		err = exppow(x, y)
	}
	if neg {
		x.Neg(x)
	}
	return err
}

var one = big.NewFloat(1)

// odd reports whether the integer y is odd.
func odd(y *big.Float) bool {
	// The lowest set bit of y is the ones bit exactly when every bit of the
	// mantissa is needed to reach the binary point.
	return int(y.MinPrec()) == y.MantExp(nil)
}

// intpow sets x to x**k by repeated squaring.
func intpow(x *big.Float, k int64) {
	neg := k < 0
	if neg {
		k = -k
	}
	prec := x.Prec() + 32
	b := new(big.Float).SetPrec(prec).Set(x)
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	for ; k > 0; k >>= 1 {
		if k&1 != 0 {
			r.Mul(r, b)
		}
		if k > 1 {
			b.Mul(b, b)
		}
	}
	if neg {
		r.Quo(one, r)
	}
	x.Set(r)
}

// exppow sets x to x**y as exp(y ln x), for finite positive x and finite y.
func exppow(x, y *big.Float) error {
	prec := x.Prec() + 64
	t := bigfloat.Log(new(big.Float).SetPrec(prec), x)
	t.Mul(t, y)
	if t.Cmp(expMax) > 0 {
		x.SetInf(false)
		return &RangeError{Func: "**"}
	}
	x.Set(exp(new(big.Float).SetPrec(prec), t))
	if x.IsInf() {
		return &RangeError{Func: "**"}
	}
	return nil
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// RangeError is a finite computation whose result is too large to represent.
type RangeError struct {
	// Func is the function or operator that overflowed.
	Func string
}

func (err *RangeError) Error() string {
	return "result of " + err.Func + " overflows"
}
