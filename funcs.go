package graphcalc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function of at most one real argument.
type Func interface {
	// Arity is 0 for a constant and 1 for a function of one argument. A
	// function of one argument takes the term that follows its name, while a
	// constant followed by a term multiplies it.
	Arity() int
	// Call sets r to the value of the function at x. r has the precision of
	// the evaluation. x is nil when Arity is 0; otherwise Call must not
	// modify it.
	Call(r, x *big.Float) error
}

var globalfuncs = map[string]Func{
	"exp":   Monadic(exp),
	"ln":    Partial(bigfloat.Log, positive),
	"log":   Partial(bigfloat.Log, positive),
	"log10": Partial(logbase(10), positive),
	"log2":  Partial(logbase(2), positive),
	"sqrt":  Partial((*big.Float).Sqrt, nonnegative),
	"cbrt":  Monadic(cbrt),
	"abs":   Monadic((*big.Float).Abs),

	// trig, not implemented in bigfloat
	"sin":  Real(math.Sin),
	"cos":  Real(math.Cos),
	"tan":  Real(math.Tan),
	"csc":  Real(func(x float64) float64 { return 1 / math.Sin(x) }),
	"sec":  Real(func(x float64) float64 { return 1 / math.Cos(x) }),
	"cot":  Real(func(x float64) float64 { return 1 / math.Tan(x) }),
	"asin": Real(math.Asin),
	"acos": Real(math.Acos),
	"atan": Real(math.Atan),
	"sinh": Real(math.Sinh),
	"cosh": Real(math.Cosh),
	"tanh": Real(math.Tanh),

	// constants
	"pi": Niladic(bigfloat.Pi),
	"π":  Niladic(bigfloat.Pi),
	"e": Niladic(func(out *big.Float) *big.Float {
		return bigfloat.Exp(out, new(big.Float).SetPrec(out.Prec()).SetInt64(1))
	}),
}

func positive(x *big.Float) bool    { return x.Sign() > 0 }
func nonnegative(x *big.Float) bool { return x.Sign() >= 0 }

// Arguments beyond these limits overflow or underflow exp.
var (
	expMax = big.NewFloat(float64(big.MaxExp) * math.Ln2)
	expMin = big.NewFloat(float64(big.MinExp) * math.Ln2)
)

// exp is bigfloat.Exp, saturating where the result is out of range.
func exp(out, in *big.Float) *big.Float {
	switch {
	case in.Cmp(expMax) > 0:
		return out.SetInf(false)
	case in.Cmp(expMin) < 0:
		return out.SetInt64(0)
	}
	return bigfloat.Exp(out, in)
}

// logbase creates a logarithm to an integer base. Exact powers of the base
// give exact integer results.
func logbase(base int64) func(out, in *big.Float) *big.Float {
	return func(out, in *big.Float) *big.Float {
		if k, ok := exactlog(in, base); ok {
			return out.SetInt64(k)
		}
		prec := out.Prec() + 64
		l := bigfloat.Log(new(big.Float).SetPrec(prec), in)
		b := new(big.Float).SetPrec(prec).SetInt64(base)
		return out.Quo(l, bigfloat.Log(b, b))
	}
}

// exactlog returns k such that base^k == x, if there is such a non-negative
// integer k.
func exactlog(x *big.Float, base int64) (int64, bool) {
	// Past 1024 bits, converting x to an integer costs more than it is worth.
	if x.Cmp(one) < 0 || x.IsInf() || x.MantExp(nil) > 1024 || !x.IsInt() {
		return 0, false
	}
	n, _ := x.Int(nil)
	b := big.NewInt(base)
	p := big.NewInt(1)
	for k := int64(0); ; k++ {
		switch p.Cmp(n) {
		case 0:
			return k, true
		case 1:
			return 0, false
		}
		p.Mul(p, b)
	}
}

// cbrt is the real cube root, found by Newton's method from a float64 guess.
func cbrt(out, in *big.Float) *big.Float {
	if in.Sign() == 0 || in.IsInf() {
		return out.Set(in)
	}
	prec := out.Prec() + 16
	a := new(big.Float).SetPrec(prec).Abs(in)
	// Split a into m × 2^(3q + r) so the guess stays within float64 range.
	m := new(big.Float)
	e := a.MantExp(m)
	q, r := e/3, e%3
	if r < 0 {
		q, r = q-1, r+3
	}
	f, _ := m.Float64()
	z := new(big.Float).SetPrec(prec).SetFloat64(math.Cbrt(math.Ldexp(f, r)))
	z.SetMantExp(z, q)
	t := new(big.Float).SetPrec(prec)
	three := big.NewFloat(3)
	for i := 0; i < 64; i++ {
		// z = (2z + a/z²) / 3
		t.Mul(z, z)
		t.Quo(a, t)
		t.Add(t, z)
		t.Add(t, z)
		t.Quo(t, three)
		if t.Cmp(z) == 0 {
			break
		}
		z.Set(t)
	}
	out.Set(z)
	if in.Signbit() {
		out.Neg(out)
	}
	return out
}

type monadic struct {
	f   func(out, in *big.Float) *big.Float
	dom func(x *big.Float) bool
}

func (monadic) Arity() int { return 1 }

func (m monadic) Call(r, x *big.Float) (err error) {
	if m.dom != nil && !m.dom(x) {
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if !isNaN(p) {
			panic(p)
		}
		err = &DomainError{X: new(big.Float).Copy(x), Arg: 1}
	}()
	if v := m.f(r, x); v != r {
		r.Set(v)
	}
	if r.IsInf() && !x.IsInf() {
		return &RangeError{}
	}
	return nil
}

// Monadic wraps a function of one variable into a Func. f sets out to its
// result, to the precision of out, and returns out or another value holding
// the result. If f is called on an argument outside its domain, it should
// panic with big.ErrNaN or an error that wraps it.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f: f}
}

// Partial is like Monadic, but the wrapped function is only called on
// arguments for which dom returns true. Other arguments are a DomainError.
func Partial(f func(out, in *big.Float) *big.Float, dom func(x *big.Float) bool) Func {
	return monadic{f: f, dom: dom}
}

type float64fn func(float64) float64

func (float64fn) Arity() int { return 1 }

func (f float64fn) Call(r, x *big.Float) error {
	v, _ := x.Float64()
	y := f(v)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1}
	}
	r.SetFloat64(y)
	return nil
}

// Real wraps a float64 function of one variable into a Func. Arguments are
// rounded to float64 before calling f, so the result has float64 precision
// regardless of the context. A NaN or infinite result is a DomainError.
func Real(f func(float64) float64) Func {
	return float64fn(f)
}

type niladic func(out *big.Float) *big.Float

func (niladic) Arity() int { return 0 }

func (n niladic) Call(r, _ *big.Float) error {
	if v := n(r); v != r {
		r.Set(v)
	}
	return nil
}

// Niladic wraps a function of zero variables, generally one which computes a
// constant, into a Func. f sets out to its result and is expected never to
// panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic(f)
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	if err.X == nil {
		return "undefined operation: " + err.Func
	}
	r := Format(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
