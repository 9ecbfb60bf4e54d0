// Package graphcalc implements the expression pipeline of a graphing
// calculator.
//
// Input typed on a calculator keypad contains glyphs like ×, ÷, √ and log₁₀.
// Normalize rewrites those into canonical text, and Parse turns canonical
// text into an immutable Expr. An Expr with no free variables evaluates to a
// number; one in x, or in x and y, can be sampled over a grid for plotting
// with Sample2D and Sample3D.
//
// Evaluation is done with math/big floats. Operations outside a function's
// domain, including division by zero, are errors rather than infinities or
// NaNs, and so are finite results too large to represent. When sampling, such
// points become NaN gaps instead.
//
package graphcalc
