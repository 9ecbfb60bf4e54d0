package graphcalc

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Default sampling parameters for plots.
const (
	DefaultMin = -10
	DefaultMax = 10
	// Samples2D is the number of points in a 2D curve.
	Samples2D = 400
	// Samples3D is the number of points along each axis of a 3D mesh.
	Samples3D = 50
)

// Point is a sample of a curve. Y is NaN where the expression is undefined.
type Point struct {
	X, Y float64
}

// Grid is a sampled surface. Z[j][i] is the value at X[i], Y[j]; it is NaN
// where the expression is undefined.
type Grid struct {
	X, Y []float64
	Z    [][]float64
}

// SampleOption is an option for sampling an expression.
type SampleOption interface {
	sampleOption()
}

type (
	domainopt struct{ lo, hi float64 }
	resopt    int
)

func (domainopt) sampleOption() {}
func (resopt) sampleOption()    {}

// Domain sets the interval over which each variable is sampled. Panics unless
// lo < hi and both are finite.
func Domain(lo, hi float64) SampleOption {
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		panic("graphcalc: invalid sampling domain")
	}
	return domainopt{lo, hi}
}

// Resolution sets the number of samples along each axis. Panics if n < 2.
func Resolution(n int) SampleOption {
	if n < 2 {
		panic("graphcalc: sampling resolution " + strconv.Itoa(n) + " is less than 2")
	}
	return resopt(n)
}

type sampling struct {
	lo, hi float64
	n      int
}

func samplingFor(n int, opts []SampleOption) sampling {
	s := sampling{lo: DefaultMin, hi: DefaultMax, n: n}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case domainopt:
			s.lo, s.hi = opt.lo, opt.hi
		case resopt:
			s.n = int(opt)
		case nil: // do nothing
		default:
			panic("graphcalc: unknown option type")
		}
	}
	return s
}

// axis returns n evenly spaced values from lo to hi inclusive.
func (s sampling) axis() []float64 {
	v := make([]float64, s.n)
	d := s.hi - s.lo
	for i := range v {
		v[i] = s.lo + d*float64(i)/float64(s.n-1)
	}
	v[s.n-1] = s.hi
	return v
}

// Sample2D evaluates an expression of exactly one free variable at evenly
// spaced points, by default 400 points over [-10, 10]. Points where the
// expression is outside a function's domain have Y set to NaN.
func Sample2D(e *Expr, variable string, opts ...SampleOption) ([]Point, error) {
	if vars := e.Vars(); len(vars) != 1 || vars[0] != variable {
		return nil, &VarCountError{Want: []string{variable}, Have: vars}
	}
	s := samplingFor(Samples2D, opts)
	ctx := NewContext()
	v := new(big.Float)
	points := make([]Point, s.n)
	for i, x := range s.axis() {
		ctx.Set(variable, v.SetFloat64(x))
		y, err := sampleAt(ctx, e)
		if err != nil {
			return nil, err
		}
		points[i] = Point{X: x, Y: y}
	}
	return points, nil
}

// Sample3D evaluates an expression of exactly the two free variables varX and
// varY over a mesh, by default 50×50 points over [-10, 10]². Points where the
// expression is outside a function's domain are NaN.
func Sample3D(e *Expr, varX, varY string, opts ...SampleOption) (*Grid, error) {
	vars := e.Vars()
	if varX == varY || len(vars) != 2 || !hasname(vars, varX) || !hasname(vars, varY) {
		return nil, &VarCountError{Want: []string{varX, varY}, Have: vars}
	}
	s := samplingFor(Samples3D, opts)
	g := Grid{X: s.axis(), Y: s.axis(), Z: make([][]float64, s.n)}
	ctx := NewContext()
	v := new(big.Float)
	for j, y := range g.Y {
		ctx.Set(varY, v.SetFloat64(y))
		row := make([]float64, s.n)
		for i, x := range g.X {
			ctx.Set(varX, v.SetFloat64(x))
			z, err := sampleAt(ctx, e)
			if err != nil {
				return nil, err
			}
			row[i] = z
		}
		g.Z[j] = row
	}
	return &g, nil
}

// sampleAt evaluates e at the variables bound in ctx. Domain errors and
// overflows give NaN.
func sampleAt(ctx *Context, e *Expr) (float64, error) {
	r := ctx.Eval(e)
	if r == nil {
		var (
			de *DomainError
			re *RangeError
		)
		if errors.As(ctx.Err(), &de) || errors.As(ctx.Err(), &re) {
			return math.NaN(), nil
		}
		return 0, ctx.Err()
	}
	f, _ := r.Float64()
	return f, nil
}

func hasname(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// VarCountError is an error indicating that an expression does not have the
// free variables required to sample it.
type VarCountError struct {
	// Want is the list of variables the sampling binds.
	Want []string
	// Have is the list of free variables in the expression.
	Have []string
}

func (err *VarCountError) Error() string {
	return "need expression of " + quotenames(err.Want) + ", have " + quotenames(err.Have)
}

func quotenames(names []string) string {
	if len(names) == 0 {
		return "no variables"
	}
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = strconv.Quote(n)
	}
	return strings.Join(q, ", ")
}
