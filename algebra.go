package graphcalc

// Add returns the expression a + b. Neither operand is evaluated or modified.
func Add(a, b *Expr) *Expr {
	return combine(nodeAdd, a, b)
}

// Sub returns the expression a - b.
func Sub(a, b *Expr) *Expr {
	return combine(nodeSub, a, b)
}

// Mul returns the expression a * b.
func Mul(a, b *Expr) *Expr {
	return combine(nodeMul, a, b)
}

// Div returns the expression a / b. Division by zero is only detected when
// the result is evaluated.
func Div(a, b *Expr) *Expr {
	return combine(nodeDiv, a, b)
}

// Neg returns the expression -a.
func Neg(a *Expr) *Expr {
	return &Expr{n: &node{kind: nodeNeg, left: a.n}, names: a.Vars()}
}

// combine joins two expressions with a binary operator. The trees are shared,
// which is safe because nodes are never modified after parsing.
func combine(op nodeKind, a, b *Expr) *Expr {
	return &Expr{
		n:     &node{kind: op, left: a.n, right: b.n},
		names: mergenames(a.names, b.names),
	}
}

// mergenames merges two sorted name lists into a new sorted list without
// duplicates.
func mergenames(a, b []string) []string {
	r := make([]string, 0, len(a)+len(b))
	for len(a) > 0 && len(b) > 0 {
		switch {
		case a[0] < b[0]:
			r = append(r, a[0])
			a = a[1:]
		case a[0] > b[0]:
			r = append(r, b[0])
			b = b[1:]
		default:
			r = append(r, a[0])
			a, b = a[1:], b[1:]
		}
	}
	r = append(r, a...)
	return append(r, b...)
}
