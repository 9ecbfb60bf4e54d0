package graphcalc

import (
	"strconv"
	"strings"
)

// node is a node in the syntax tree of an expression. Nodes are never
// modified once built, so trees may be shared between expressions.
type node struct {
	kind nodeKind
	// name is the literal text of a number, the name of a variable, or the
	// name of a called function.
	name string
	fn   Func
	// left is the operand of a negation, the argument of a call, and the
	// left operand of a binary operator. A niladic call has no left.
	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota
	nodeNum
	nodeName
	nodeCall
	nodeNeg
	nodeAdd
	nodeSub
	nodeMul
	nodeDiv
	nodePow
)

var nodeKindNames = [...]string{"None", "Num", "Name", "Call", "Neg", "Add", "Sub", "Mul", "Div", "Pow"}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// binops are the operator spellings of binary nodes in debug text.
var binops = [...]string{nodeAdd: " + ", nodeSub: " - ", nodeMul: " * ", nodeDiv: " / ", nodePow: " ^ "}

func (n *node) String() string {
	var b strings.Builder
	n.debug(&b, 0)
	return b.String()
}

// debug writes n fully bracketed, alternating round and square brackets by
// depth so that nesting is easy to read.
func (n *node) debug(b *strings.Builder, depth int) {
	l, r := byte('('), byte(')')
	if depth%2 == 1 {
		l, r = '[', ']'
	}
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte(l)
		if n.left != nil {
			n.left.debug(b, depth+1)
		}
		b.WriteByte(r)
	case nodeNeg:
		b.WriteByte(l)
		b.WriteByte('-')
		n.left.debug(b, depth+1)
		b.WriteByte(r)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte(l)
		n.left.debug(b, depth+1)
		b.WriteString(binops[n.kind])
		n.right.debug(b, depth+1)
		b.WriteByte(r)
	default:
		panic("graphcalc: invalid node kind " + n.kind.String())
	}
}

// names adds the variable names used in the tree rooted at n to m.
func (n *node) names(m map[string]bool) {
	if n == nil {
		return
	}
	if n.kind == nodeName {
		m[n.name] = true
	}
	n.left.names(m)
	n.right.names(m)
}

// same reports whether two trees are structurally identical.
func same(a, b *node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind || a.name != b.name {
		return false
	}
	return same(a.left, b.left) && same(a.right, b.right)
}

// Infix precedence levels, higher binds tighter.
const (
	infixSum = 1 + iota
	infixProduct
	infixUnary
	infixPower
	infixAtom
)

func (n *node) infixprec() int {
	switch n.kind {
	case nodeAdd, nodeSub:
		return infixSum
	case nodeMul, nodeDiv:
		return infixProduct
	case nodeNeg:
		return infixUnary
	case nodePow:
		return infixPower
	default:
		return infixAtom
	}
}

// infix writes canonical text for n that parses back to the same tree,
// using as few parentheses as precedence allows.
func (n *node) infix(b *strings.Builder) {
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		if n.left != nil {
			b.WriteByte('(')
			n.left.infix(b)
			b.WriteByte(')')
		}
	case nodeNeg:
		b.WriteByte('-')
		n.left.operand(b, n.left.infixprec() < infixUnary)
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		p := n.infixprec()
		n.left.operand(b, n.left.infixprec() < p)
		switch n.kind {
		case nodeAdd:
			b.WriteString(" + ")
		case nodeSub:
			b.WriteString(" - ")
		case nodeMul:
			b.WriteByte('*')
		case nodeDiv:
			b.WriteByte('/')
		}
		n.right.operand(b, n.right.infixprec() <= p)
	case nodePow:
		n.left.operand(b, n.left.infixprec() <= infixPower)
		b.WriteString("**")
		n.right.operand(b, n.right.infixprec() < infixPower)
	default:
		panic("graphcalc: cannot format node kind " + n.kind.String())
	}
}

func (n *node) operand(b *strings.Builder, paren bool) {
	if paren {
		b.WriteByte('(')
	}
	n.infix(b)
	if paren {
		b.WriteByte(')')
	}
}
