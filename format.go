package graphcalc

import (
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// DisplayDigits is the number of significant digits Format shows.
const DisplayDigits = 15

// maxTextExp is the largest binary exponent formatted directly. Beyond it,
// expanding the decimal form of a value costs more than its logarithm.
const maxTextExp = 3000

// Format formats a result for display with at most DisplayDigits significant
// digits and no trailing zeros, so 12 is "12", sqrt(2) is "1.4142135623731",
// and 1e20 is "1e+20". Zero of either sign is "0".
func Format(v *big.Float) string {
	switch {
	case v.Sign() == 0:
		return "0"
	case v.IsInf() && v.Signbit():
		return "-inf"
	case v.IsInf():
		return "inf"
	}
	if e := v.MantExp(nil); e > maxTextExp || e < -maxTextExp {
		return formatScaled(v)
	}
	return v.Text('g', DisplayDigits)
}

// formatScaled formats v as m×10^d, finding d from log10|v|.
func formatScaled(v *big.Float) string {
	const prec = 192
	m := new(big.Float).SetPrec(prec)
	e := v.MantExp(m)
	m.Abs(m)
	// log10|v| = (ln m + e ln 2) / ln 10
	l := bigfloat.Log(new(big.Float).SetPrec(prec), m)
	ln2 := bigfloat.Log(new(big.Float).SetPrec(prec), big.NewFloat(2))
	ln10 := bigfloat.Log(new(big.Float).SetPrec(prec), big.NewFloat(10))
	l.Add(l, ln2.Mul(ln2, new(big.Float).SetInt64(int64(e))))
	l.Quo(l, ln10)
	d, _ := l.Int64()
	fd := new(big.Float).SetInt64(d)
	if fd.Cmp(l) > 0 {
		d--
		fd.SetInt64(d)
	}
	l.Sub(l, fd).Mul(l, ln10)
	s := bigfloat.Exp(m, l).Text('g', DisplayDigits)
	if s == "10" {
		s, d = "1", d+1
	}
	if v.Signbit() {
		s = "-" + s
	}
	if d < 0 {
		return s + "e-" + strconv.FormatInt(-d, 10)
	}
	return s + "e+" + strconv.FormatInt(d, 10)
}
