// Package calculator connects a calculator user interface to the expression
// pipeline. Every failure is reduced to the display text "Error" or to no
// action at all; the details go only to a diagnostic logger.
package calculator

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/graphcalc"
)

// ErrorText is the display text for any failed calculation.
const ErrorText = "Error"

// PlotKind is the dimensionality of a plot.
type PlotKind int

const (
	Plot2D PlotKind = 2
	Plot3D PlotKind = 3
)

func (k PlotKind) String() string {
	switch k {
	case Plot2D:
		return "2D"
	case Plot3D:
		return "3D"
	default:
		return fmt.Sprintf("PlotKind(%d)", int(k))
	}
}

// ParsePlotKind returns the plot kind named "2D" or "3D", ignoring case.
func ParsePlotKind(s string) (PlotKind, bool) {
	switch {
	case strings.EqualFold(s, "2D"):
		return Plot2D, true
	case strings.EqualFold(s, "3D"):
		return Plot3D, true
	default:
		return 0, false
	}
}

// Plot is a sampled expression ready to render. Curve is set for 2D plots and
// Mesh for 3D plots. Undefined samples are NaN and must be drawn as gaps.
type Plot struct {
	Kind PlotKind
	// Title is a caption like "2D Plot: x**2".
	Title string
	// Expr is the canonical text of the plotted expression.
	Expr  string
	Curve []graphcalc.Point
	Mesh  *graphcalc.Grid
}

// Renderer displays plots. Render is called only with complete plots and its
// outcome is not reported back.
type Renderer interface {
	Render(p *Plot)
}

// Calculator evaluates and plots raw keypad input.
type Calculator struct {
	log       zerolog.Logger
	render    Renderer
	parseopts []graphcalc.ParseOption
	evalopts  []graphcalc.ContextOption
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Calculator) {
		c.log = log
	}
}

// WithRenderer sets the renderer that sessions on the calculator pass plots
// to. The default discards plots.
func WithRenderer(r Renderer) Option {
	return func(c *Calculator) {
		c.render = r
	}
}

// WithPrecision sets the precision in bits of evaluations. The default is 64.
func WithPrecision(prec uint) Option {
	opt := graphcalc.Prec(prec)
	return func(c *Calculator) {
		c.evalopts = append(c.evalopts, opt)
	}
}

// WithFunc adds a function that input may call, or removes a default one when
// fn is nil.
func WithFunc(name string, fn graphcalc.Func) Option {
	opt := graphcalc.ParseFunc(name, fn)
	return func(c *Calculator) {
		c.parseopts = append(c.parseopts, opt)
	}
}

// New creates a calculator.
func New(opts ...Option) *Calculator {
	c := Calculator{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// parse normalizes and parses raw input.
func (c *Calculator) parse(raw string) (*graphcalc.Expr, string, error) {
	text := graphcalc.Normalize(raw)
	e, err := graphcalc.Parse(text, c.parseopts...)
	return e, text, err
}

// fail logs a failed operation.
func (c *Calculator) fail(op, raw, text string, err error) {
	c.log.Info().Str("op", op).Str("input", raw).Str("canonical", text).Err(err).Msg("calculation failed")
}

// recovered logs a panic from the pipeline and reports whether there was one.
func (c *Calculator) recovered(op, raw string, p interface{}) bool {
	if p == nil {
		return false
	}
	c.log.Error().Str("op", op).Str("input", raw).Interface("panic", p).Msg("calculation panicked")
	return true
}

// Submit evaluates raw input and returns the text to display: the formatted
// result, or exactly ErrorText if the input does not parse or evaluate.
func (c *Calculator) Submit(raw string) (display string) {
	defer func() {
		if c.recovered("evaluate", raw, recover()) {
			display = ErrorText
		}
	}()
	e, text, err := c.parse(raw)
	if err != nil {
		c.fail("evaluate", raw, text, err)
		return ErrorText
	}
	v, err := graphcalc.Evaluate(e, c.evalopts...)
	if err != nil {
		c.fail("evaluate", raw, text, err)
		return ErrorText
	}
	r := graphcalc.Format(v)
	c.log.Debug().Str("input", raw).Str("canonical", text).Str("result", r).Msg("evaluated")
	return r
}

// RequestPlot samples raw input for a plot. 2D plots need an expression in x
// and 3D plots one in both x and y. On failure, the result is nil and false.
func (c *Calculator) RequestPlot(raw string, kind PlotKind) (plot *Plot, ok bool) {
	op := "plot-" + kind.String()
	defer func() {
		if c.recovered(op, raw, recover()) {
			plot, ok = nil, false
		}
	}()
	e, text, err := c.parse(raw)
	if err != nil {
		c.fail(op, raw, text, err)
		return nil, false
	}
	p := Plot{Kind: kind, Title: kind.String() + " Plot: " + e.Infix(), Expr: e.Infix()}
	switch kind {
	case Plot2D:
		p.Curve, err = graphcalc.Sample2D(e, "x")
	case Plot3D:
		p.Mesh, err = graphcalc.Sample3D(e, "x", "y")
	default:
		err = fmt.Errorf("unknown plot kind %v", kind)
	}
	if err != nil {
		c.fail(op, raw, text, err)
		return nil, false
	}
	c.log.Debug().Str("input", raw).Str("canonical", text).Stringer("kind", kind).Msg("sampled plot")
	return &p, true
}

// Differentiate returns the canonical text of the order-th derivative of raw
// input with respect to variable.
func (c *Calculator) Differentiate(raw, variable string, order int) (result string, ok bool) {
	defer func() {
		if c.recovered("differentiate", raw, recover()) {
			result, ok = "", false
		}
	}()
	e, text, err := c.parse(raw)
	if err != nil {
		c.fail("differentiate", raw, text, err)
		return "", false
	}
	for i := 0; i < order; i++ {
		e, err = graphcalc.Diff(e, variable)
		if err != nil {
			c.fail("differentiate", raw, text, err)
			return "", false
		}
	}
	return e.Infix(), true
}
