package graphcalc_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zephyrtronium/graphcalc"
)

// near reports whether got is within a relative tolerance of want.
func near(got, want float64) bool {
	if got == want {
		return true
	}
	return math.Abs(got-want) <= 1e-14*math.Max(1, math.Abs(want))
}

func TestEval(t *testing.T) {
	type vv struct {
		n string
		v float64
	}
	type vc struct {
		vars []vv
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"ident", "x", []vc{
			{[]vv{{"x", 4}}, 4},
			{[]vv{{"x", -5}}, -5},
		}},
		{"neg", "-x", []vc{
			{[]vv{{"x", 4}}, -4},
			{[]vv{{"x", -6}}, 6},
		}},
		{"two", "x*y + y", []vc{
			{[]vv{{"x", 2}, {"y", 3}}, 9},
			{[]vv{{"x", -1}, {"y", 3}}, 0},
		}},
		{"implicit", "2x", []vc{
			{[]vv{{"x", 3}}, 6},
			{[]vv{{"x", -0.5}}, -1},
		}},
		{"juxt-div", "1/2x", []vc{{[]vv{{"x", 4}}, 0.125}}},
		{"add", "4+5+6", []vc{{nil, 15}}},
		{"sub", "4-5-6", []vc{{nil, -7}}},
		{"mul", "4×5*6", []vc{{nil, 120}}},
		{"div", "4/5÷6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"prec", "2+3*4", []vc{{nil, 14}}},
		{"pow", "4^3^2", []vc{{nil, 262144}}},
		{"starpow", "2**10", []vc{{nil, 1024}}},
		{"negbase", "(-2)**3", []vc{{nil, -8}}},
		{"negbase-even", "(-3)^2", []vc{{nil, 9}}},
		{"negpow", "-2**2", []vc{{nil, -4}}},
		{"recip", "2**-2", []vc{{nil, 0.25}}},
		{"negbase-recip", "(-2)^-3", []vc{{nil, -0.125}}},
		{"zeropow", "0**0", []vc{{nil, 1}}},
		{"zerobase", "0^3", []vc{{nil, 0}}},
		{"frac", "4**0.5", []vc{{nil, 2}}},
		{"frac-neg", "4^-0.5", []vc{{nil, 0.5}}},
		{"irrational", "2^pi", []vc{{nil, math.Pow(2, math.Pi)}}},
		{"inf-pow", "inf^-1", []vc{{nil, 0}}},
		{"pow-inf", "0.5^inf", []vc{{nil, 0}}},
		{"one-inf", "1^inf", []vc{{nil, 1}}},
		{"pi", "pi", []vc{{nil, math.Pi}}},
		{"π", "2π", []vc{{nil, 2 * math.Pi}}},
		{"e", "e", []vc{{nil, math.E}}},
		{"exp", "exp 1", []vc{{nil, math.E}}},
		{"inf1", "inf", []vc{{nil, math.Inf(0)}}},
		{"inf3", "∞", []vc{{nil, math.Inf(0)}}},
		{"ln", "ln e", []vc{{nil, 1}}},
		{"log10", "log10 1000", []vc{{nil, 3}}},
		{"log2", "log2(8)", []vc{{nil, 3}}},
		{"sqrt", "sqrt(9)", []vc{{nil, 3}}},
		{"cbrt", "cbrt(-27)", []vc{{nil, -3}}},
		{"abs", "abs(-3)", []vc{{nil, 3}}},
		{"sin", "sin(x)", []vc{
			{[]vv{{"x", 0}}, 0},
			{[]vv{{"x", 1}}, math.Sin(1)},
		}},
		{"sin-squared", "sin^2 x + cos^2 x", []vc{{[]vv{{"x", 0.7}}, 1}}},
		{"atan", "4 atan 1", []vc{{nil, math.Pi}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			for _, v := range c.r {
				ctx := graphcalc.NewContext(graphcalc.Prec(64))
				for _, x := range v.vars {
					ctx.Set(x.n, new(big.Float).SetFloat64(x.v))
				}
				r := ctx.Eval(a)
				if ctx.Err() != nil {
					t.Error("evaluation error:", ctx.Err())
				}
				if r == nil {
					t.Fatal("nil result")
				}
				if f, _ := r.Float64(); !near(f, v.r) {
					t.Errorf("wrong result: want %g, got %g", v.r, r)
				}
			}
		})
	}
}

func TestEvalPowLarge(t *testing.T) {
	cases := []struct {
		name string
		src  string
		sign int
		// exp is the binary exponent of the result as reported by MantExp.
		exp int
	}{
		{"int", "2^65537", 1, 65538},
		{"int-even", "2^65536", 1, 65537},
		{"negbase-odd", "(-2)^65537", -1, 65538},
		{"negbase-even", "(-2)^65536", 1, 65537},
		{"negexp", "2^-65537", 1, -65536},
		{"frac", "2^100000.5", 1, 100001},
		{"frac-neg", "2^-100000.5", 1, -100000},
		{"frac-big", "2^(2^18+0.5)", 1, 262145},
		{"negbase-big", "(-1.5)^(2^18+1)", -1, 153345},
		{"negbase-big-even", "(-1.5)^(2^18+2)", 1, 153346},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				t.Fatal(err)
			}
			r, err := graphcalc.Evaluate(a)
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if r.Sign() != c.sign {
				t.Errorf("%q has sign %d, want %d", c.src, r.Sign(), c.sign)
			}
			if e := r.MantExp(nil); e != c.exp {
				t.Errorf("%q = %v has exponent %d, want %d", c.src, r, e, c.exp)
			}
		})
	}
	t.Run("e", func(t *testing.T) {
		// e^65537 is about 2^94549.
		a, err := graphcalc.Parse("e^65537")
		if err != nil {
			t.Fatal(err)
		}
		r, err := graphcalc.Evaluate(a)
		if err != nil {
			t.Fatal(err)
		}
		if e := r.MantExp(nil); e < 94540 || e > 94560 {
			t.Errorf("e^65537 = %v has exponent %d", r, e)
		}
		if s := graphcalc.Format(r); !strings.HasPrefix(s, "2.277511053") || !strings.HasSuffix(s, "e+28462") {
			t.Errorf("e^65537 formats as %s", s)
		}
	})
	t.Run("underflow", func(t *testing.T) {
		a, err := graphcalc.Parse("10^-(2^40)")
		if err != nil {
			t.Fatal(err)
		}
		r, err := graphcalc.Evaluate(a)
		if err != nil {
			t.Fatal(err)
		}
		if r.Sign() != 0 {
			t.Errorf("10^-(2^40) is %v, want 0", r)
		}
	})
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    []string
	}{
		{"x", "x", []string{"x"}},
		{"neg", "-x", []string{"x"}},
		{"add-lhs", "x+1", []string{"x"}},
		{"add-rhs", "1+x", []string{"x"}},
		{"div-rhs", "1/x", []string{"x"}},
		{"pow-lhs", "x^1", []string{"x"}},
		{"pow-rhs", "1^x", []string{"x"}},
		{"call", "exp(x)", []string{"x"}},
		{"two", "x y", []string{"x", "y"}},
	}
	ure := regexp.MustCompile(`(?i)\bundef`)
	ctx := graphcalc.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if diff := cmp.Diff(c.r, a.Vars()); diff != "" {
				t.Errorf("%q gave wrong variables (-want +got):\n%s", c.src, diff)
			}
			if r := ctx.Eval(a); r != nil {
				t.Errorf("evaluating %q gave non-nil result %g", c.src, r)
			}
			err = ctx.Err()
			u, ok := err.(*graphcalc.NameError)
			if !ok {
				t.Fatalf("error was %#v, not NameError", err)
			}
			if msg := err.Error(); !ure.MatchString(msg) || !strings.Contains(msg, u.Name) {
				t.Errorf("%q doesn't describe the missing variable %q", msg, u.Name)
			}
			for _, v := range c.r {
				if v == u.Name {
					return
				}
			}
			t.Errorf("NameError on %q, not in %q", u.Name, c.r)
		})
	}
}

func TestEvalFuncError(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fn   string
	}{
		{"sqrt", "sqrt(-1)", "sqrt"},
		{"ln", "ln(0)", "ln"},
		{"log", "log(-1)", "log"},
		{"log10", "log10(-1)", "log10"},
		{"log2", "log2(0)", "log2"},
		{"asin", "asin(2)", "asin"},
		{"acos", "acos(-2)", "acos"},
		{"csc", "csc(0)", "csc"},
		{"cot", "cot(0)", "cot"},
		{"nested", "1 + sqrt(sin(x) - 2)", "sqrt"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := graphcalc.NewContext().Set("x", new(big.Float))
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if r := ctx.Eval(a); r != nil {
				t.Errorf("evaluating %q gave non-nil result %g", c.src, r)
			}
			err = ctx.Err()
			var de *graphcalc.DomainError
			if !errors.As(err, &de) {
				t.Fatalf("%#v is not *graphcalc.DomainError", err)
			}
			if de.Func != c.fn {
				t.Errorf("error names function %q, want %q", de.Func, c.fn)
			}
			if !strings.Contains(err.Error(), c.fn) {
				t.Errorf("error message %q doesn't mention %q", err.Error(), c.fn)
			}
		})
	}
}

func TestEvalOpError(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"div-one-zero", "1/0"},
		{"div-zero", "0/0"},
		{"div-negzero", "1/-0"},
		{"div-inf", "inf/inf"},
		{"div-alt-zero", "1÷0"},
		{"div-expr", "1/(2-2)"},
		{"pow-neg", "(-1)^0.5"},
		{"pow-neg-frac", "(-8)**(1/3)"},
		{"pow-zero-neg", "0^-1"},
		{"pow-zero-negfrac", "0**-0.5"},
		{"sub-inf", "inf-inf"},
		{"mul-inf", "0*inf"},
	}
	ctx := graphcalc.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if r := ctx.Eval(a); r != nil {
				t.Errorf("evaluating %q gave non-nil result %g", c.src, r)
			}
			if _, ok := ctx.Err().(*graphcalc.DomainError); !ok {
				t.Errorf("%#v is not *graphcalc.DomainError", ctx.Err())
			}
		})
	}
}

func TestEvalRangeError(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fn   string
	}{
		{"pow-int", "2^(2^40)", "**"},
		{"pow-negbase", "(-2)^(2^40+1)", "**"},
		{"pow-frac", "3^(2^40+0.5)", "**"},
		{"pow-squaring", "exp(1e9)^3", "**"},
		{"exp", "exp(1e10)", "exp"},
		{"mul", "exp(1e9)*exp(1e9)*exp(1e9)", "*"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				t.Fatal(err)
			}
			r, err := graphcalc.Evaluate(a)
			var re *graphcalc.RangeError
			if !errors.As(err, &re) {
				t.Fatalf("%q gave %v, %v; want a RangeError", c.src, r, err)
			}
			if re.Func != c.fn {
				t.Errorf("error names %q, want %q", re.Func, c.fn)
			}
			if r != nil {
				t.Errorf("%q gave non-nil result %v with error", c.src, r)
			}
		})
	}
}

func TestEvalReuseAfterError(t *testing.T) {
	ctx := graphcalc.NewContext()
	bad, err := graphcalc.Parse("1 + 2*(3/0)")
	if err != nil {
		t.Fatal(err)
	}
	good, err := graphcalc.Parse("1 + 2*(3/4)")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if r := ctx.Eval(bad); r != nil || ctx.Err() == nil {
			t.Errorf("bad expression gave %v, %v", r, ctx.Err())
		}
		r := ctx.Eval(good)
		if ctx.Err() != nil {
			t.Fatalf("good expression failed after bad one: %v", ctx.Err())
		}
		if f, _ := r.Float64(); f != 2.5 {
			t.Errorf("wrong result: want 2.5, got %g", f)
		}
	}
}

func TestEvaluate(t *testing.T) {
	a, err := graphcalc.Parse("2+3*4")
	if err != nil {
		t.Fatal(err)
	}
	r, err := graphcalc.Evaluate(a)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := r.Float64(); f != 14 {
		t.Errorf("want 14, got %g", r)
	}
	if r.Prec() != 64 {
		t.Errorf("default precision is %d, want 64", r.Prec())
	}
	r, err = graphcalc.Evaluate(a, graphcalc.Prec(200))
	if err != nil {
		t.Fatal(err)
	}
	if r.Prec() != 200 {
		t.Errorf("result has precision %d, want 200", r.Prec())
	}
	a, err = graphcalc.Parse("x+1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := graphcalc.Evaluate(a); !errors.As(err, new(*graphcalc.NameError)) {
		t.Errorf("free variable should be a NameError, got %v", err)
	}
}

func TestPrecZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Prec(0) didn't panic")
		}
	}()
	graphcalc.Prec(0)
}

func TestContextSet(t *testing.T) {
	a, err := graphcalc.Parse("x - y")
	if err != nil {
		t.Fatal(err)
	}
	x := big.NewFloat(5)
	ctx := graphcalc.NewContext().Set("x", x).Set("y", big.NewFloat(2))
	if r := ctx.Eval(a); r == nil || r.Cmp(big.NewFloat(3)) != 0 {
		t.Fatalf("x - y = %v, %v; want 3", r, ctx.Err())
	}
	// The context holds its own copy of the value.
	x.SetInt64(100)
	if r := ctx.Eval(a); r == nil || r.Cmp(big.NewFloat(3)) != 0 {
		t.Errorf("changing the argument to Set changed the result to %v", r)
	}
	ctx.Set("x", x)
	if r := ctx.Eval(a); r == nil || r.Cmp(big.NewFloat(98)) != 0 {
		t.Errorf("after resetting x, x - y = %v, %v; want 98", r, ctx.Err())
	}
	r := ctx.Eval(a)
	ctx.Set("y", big.NewFloat(0))
	if r.Cmp(big.NewFloat(98)) != 0 {
		t.Errorf("setting y changed an earlier result to %v", r)
	}
}

func TestContextPrec(t *testing.T) {
	a, err := graphcalc.Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	third := new(big.Float).SetPrec(256).Quo(big.NewFloat(1), big.NewFloat(3))
	ctx := graphcalc.NewContext(graphcalc.Prec(8)).Set("x", third)
	r := ctx.Eval(a)
	if r.Prec() != 8 {
		t.Errorf("result has precision %d, want 8", r.Prec())
	}
	want := new(big.Float).SetPrec(8).Set(third)
	if r.Cmp(want) != 0 {
		t.Errorf("x = %v, want %v rounded to 8 bits", r, want)
	}
}

func TestVars(t *testing.T) {
	letters := strings.Fields("a b c d f g h i j k l m n o q r s t u v w x y z")
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z+y+x+w+v+u+t+s+r+q+o+n+m+l+k+j+i+h+g+f+d+c+b+a", letters},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
		{"constants", "a pi e", []string{"a"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := graphcalc.Parse(c.src, graphcalc.Variables(letters...))
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			if diff := cmp.Diff(c.vars, a.Vars(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%q gave wrong variable names (-want +got):\n%s", c.src, diff)
			}
		})
	}
}

func BenchmarkEval(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"nums", "2+3+4"},
		{"vars", "x+y+x*y"},
		{"funcs", "x**2 + sin y"},
		{"pow", "x^0.5 + y^65537"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			a, err := graphcalc.Parse(c.src)
			if err != nil {
				b.Fatal(err)
			}
			ctx := graphcalc.NewContext().Set("x", big.NewFloat(2)).Set("y", big.NewFloat(3))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ctx.Eval(a)
			}
		})
	}
}

func Example() {
	f, _ := graphcalc.Parse(graphcalc.Normalize("x³÷2 - x"))
	df, _ := graphcalc.Diff(f, "x")
	ddf, _ := graphcalc.Diff(df, "x")
	fmt.Println(f.Infix())
	fmt.Println(df.Infix())
	fmt.Println(ddf.Infix())

	ctx := graphcalc.NewContext(graphcalc.Prec(64))
	for i := 0; i < 4; i++ {
		ctx.Set("x", big.NewFloat(float64(i)))
		y := graphcalc.Format(ctx.Eval(f))
		yp := graphcalc.Format(ctx.Eval(df))
		ypp := graphcalc.Format(ctx.Eval(ddf))
		fmt.Printf("x = %d   y = %-4s  y' = %-4s  y'' = %s\n", i, y, yp, ypp)
	}

	// Output:
	// x**3/2 - x
	// 3*x**2/2 - 1
	// 6*x/2
	// x = 0   y = 0     y' = -1    y'' = 0
	// x = 1   y = -0.5  y' = 0.5   y'' = 3
	// x = 2   y = 2     y' = 5     y'' = 6
	// x = 3   y = 10.5  y' = 12.5  y'' = 9
}
