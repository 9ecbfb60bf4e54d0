package graphcalc

// ParseOption is an option for parsing.
type ParseOption func(*parser)

// defaultvars is the set of free variables a plot can bind.
var defaultvars = map[string]bool{"x": true, "y": true}

// ParseFunc sets a function for parsing, replacing any default function of
// the same name. Passing nil for fn disables the name, so that it parses as a
// variable if Variables allows it and is rejected otherwise.
func ParseFunc(name string, fn Func) ParseOption {
	return func(p *parser) {
		if !p.ownfuncs {
			m := make(map[string]Func, len(p.funcs)+1)
			for k, v := range p.funcs {
				m[k] = v
			}
			p.funcs, p.ownfuncs = m, true
		}
		p.funcs[name] = fn
	}
}

// Variables sets the identifiers which may appear as free variables. Any
// other identifier that is not a function or constant is a parse error. The
// default is x and y. Variables with no names allows no variables at all.
func Variables(names ...string) ParseOption {
	m := make(map[string]bool, len(names))
	for _, name := range names {
		m[name] = true
	}
	return func(p *parser) {
		p.vars = m
	}
}
