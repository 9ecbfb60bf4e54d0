package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/zephyrtronium/graphcalc/calculator"
)

// shades are heat map characters from lowest to highest.
const shades = " .:-=+*#%@"

// textRenderer draws plots as text.
type textRenderer struct {
	w             io.Writer
	width, height int
}

func (r *textRenderer) Render(p *calculator.Plot) {
	fmt.Fprintln(r.w, p.Title)
	switch p.Kind {
	case calculator.Plot2D:
		r.curve(p)
	case calculator.Plot3D:
		r.mesh(p)
	}
}

// bounds returns the least and greatest finite values in v.
func bounds(v []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
		ok = true
	}
	if ok && lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi, ok
}

// scale maps x in [lo, hi] to an integer in [0, n).
func scale(x, lo, hi float64, n int) int {
	k := int(math.Round((x - lo) / (hi - lo) * float64(n-1)))
	if k < 0 {
		return 0
	}
	if k >= n {
		return n - 1
	}
	return k
}

func (r *textRenderer) curve(p *calculator.Plot) {
	pts := p.Curve
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		ys[i] = pt.Y
	}
	ylo, yhi, ok := bounds(ys)
	if !ok || len(pts) == 0 {
		fmt.Fprintln(r.w, "(no defined points)")
		return
	}
	xlo, xhi := pts[0].X, pts[len(pts)-1].X
	grid := make([][]byte, r.height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", r.width))
	}
	if ylo <= 0 && 0 <= yhi {
		row := r.height - 1 - scale(0, ylo, yhi, r.height)
		for i := range grid[row] {
			grid[row][i] = '-'
		}
	}
	if xlo <= 0 && 0 <= xhi {
		col := scale(0, xlo, xhi, r.width)
		for _, row := range grid {
			if row[col] == '-' {
				row[col] = '+'
			} else {
				row[col] = '|'
			}
		}
	}
	for _, pt := range pts {
		if math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			continue
		}
		row := r.height - 1 - scale(pt.Y, ylo, yhi, r.height)
		grid[row][scale(pt.X, xlo, xhi, r.width)] = '*'
	}
	for _, row := range grid {
		fmt.Fprintln(r.w, string(row))
	}
	fmt.Fprintf(r.w, "x: [%g, %g]  y: [%.6g, %.6g]\n", xlo, xhi, ylo, yhi)
}

func (r *textRenderer) mesh(p *calculator.Plot) {
	g := p.Mesh
	var zs []float64
	for _, row := range g.Z {
		zs = append(zs, row...)
	}
	zlo, zhi, ok := bounds(zs)
	if !ok || len(g.X) == 0 || len(g.Y) == 0 {
		fmt.Fprintln(r.w, "(no defined points)")
		return
	}
	rows := min(r.height, len(g.Y))
	cols := min(r.width, len(g.X))
	for i := rows - 1; i >= 0; i-- {
		zrow := g.Z[i*(len(g.Y)-1)/max(rows-1, 1)]
		var b strings.Builder
		for k := 0; k < cols; k++ {
			z := zrow[k*(len(g.X)-1)/max(cols-1, 1)]
			if math.IsNaN(z) || math.IsInf(z, 0) {
				b.WriteByte(' ')
				continue
			}
			b.WriteByte(shades[scale(z, zlo, zhi, len(shades))])
		}
		fmt.Fprintln(r.w, b.String())
	}
	fmt.Fprintf(r.w, "x: [%g, %g]  y: [%g, %g]  z: [%.6g, %.6g]\n",
		g.X[0], g.X[len(g.X)-1], g.Y[0], g.Y[len(g.Y)-1], zlo, zhi)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
