package calculator

import (
	"unicode/utf8"
)

// Mode selects the keypad page a Session shows.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSci
	ModeTrig
	ModeCalc
)

var modeNames = [...]string{"normal", "sci", "trig", "calc"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// layouts are the keypad rows of each mode.
var layouts = [...][][]string{
	ModeNormal: {
		{"NORM", "SCI", "TRIG", "CALC"},
		{"AC", "DEL", "%", "÷"},
		{"7", "8", "9", "×"},
		{"4", "5", "6", "-"},
		{"1", "2", "3", "+"},
		{"±", "0", ".", "="},
	},
	ModeSci: {
		{"NORM", "SCI", "TRIG", "CALC"},
		{"AC", "DEL", "(", ")"},
		{"x²", "x³", "xⁿ", "√"},
		{"ln", "log₁₀", "log₂", "³√"},
		{"π", "e", "eⁿ", "1/x"},
	},
	ModeTrig: {
		{"NORM", "SCI", "TRIG", "CALC"},
		{"AC", "DEL", "(", ")"},
		{"sin", "cos", "tan", "sinh"},
		{"csc", "sec", "cot", "cosh"},
		{"asin", "acos", "atan", "tanh"},
	},
	ModeCalc: {
		{"NORM", "SCI", "TRIG", "CALC"},
		{"AC", "DEL", "2D", "3D"},
		{"x", "y", "d/dx", "d²/dx²"},
		{"d/dy", "d²/dy²", "∂/∂x", "∂²/∂x²"},
		{"∂/∂y", "∂²/∂y²", "∫ dx", "∫ dy"},
	},
}

// insertions maps keys to the text they add to the display when it differs
// from the key label.
var insertions = map[string]string{
	"%":     "÷100",
	"x²":    "²",
	"x³":    "³",
	"xⁿ":    "^",
	"eⁿ":    "e^",
	"1/x":   "1÷",
	"ln":    "ln(",
	"log₁₀": "log₁₀(",
	"log₂":  "log₂(",
	"sin":   "sin(",
	"cos":   "cos(",
	"tan":   "tan(",
	"sinh":  "sinh(",
	"cosh":  "cosh(",
	"tanh":  "tanh(",
	"csc":   "csc(",
	"sec":   "sec(",
	"cot":   "cot(",
	"asin":  "asin(",
	"acos":  "acos(",
	"atan":  "atan(",
}

// derivatives maps derivative keys to their variable and order.
var derivatives = map[string]struct {
	v     string
	order int
}{
	"d/dx":   {"x", 1},
	"d²/dx²": {"x", 2},
	"d/dy":   {"y", 1},
	"d²/dy²": {"y", 2},
	"∂/∂x":   {"x", 1},
	"∂²/∂x²": {"x", 2},
	"∂/∂y":   {"y", 1},
	"∂²/∂y²": {"y", 2},
}

// Session is the state of one calculator display. It is driven by key
// presses and holds the display text that every action reads and writes.
type Session struct {
	calc   *Calculator
	render Renderer
	text   string
	mode   Mode
	keys   map[string]func(*Session)
}

// NewSession creates a session using c for calculations. Plots go to the
// renderer set by WithRenderer, if any.
func NewSession(c *Calculator) *Session {
	s := Session{calc: c, render: c.render}
	s.keys = map[string]func(*Session){
		"NORM": setmode(ModeNormal),
		"SCI":  setmode(ModeSci),
		"TRIG": setmode(ModeTrig),
		"CALC": setmode(ModeCalc),
		"AC":   func(s *Session) { s.text = "" },
		"DEL":  (*Session).del,
		"=":    func(s *Session) { s.text = s.calc.Submit(s.text) },
		"2D":   plot(Plot2D),
		"3D":   plot(Plot3D),
		"±":    (*Session).negate,
		"∫ dx": (*Session).integrate,
		"∫ dy": (*Session).integrate,
	}
	for key, ins := range insertions {
		s.keys[key] = insert(ins)
	}
	for key, d := range derivatives {
		s.keys[key] = derive(d.v, d.order)
	}
	return &s
}

// Press handles a key press. Keys without a special meaning append their
// label to the display.
func (s *Session) Press(key string) {
	if f := s.keys[key]; f != nil {
		f(s)
		return
	}
	insert(key)(s)
}

// Text returns the display text.
func (s *Session) Text() string {
	return s.text
}

// SetText replaces the display text, as when the user edits it directly.
func (s *Session) SetText(text string) {
	s.text = text
}

// Mode returns the current keypad mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Layout returns the keypad rows of the current mode.
func (s *Session) Layout() [][]string {
	rows := make([][]string, len(layouts[s.mode]))
	for i, row := range layouts[s.mode] {
		rows[i] = append([]string(nil), row...)
	}
	return rows
}

func setmode(m Mode) func(*Session) {
	return func(s *Session) { s.mode = m }
}

func insert(text string) func(*Session) {
	return func(s *Session) {
		if s.text == ErrorText {
			s.text = ""
		}
		s.text += text
	}
}

func plot(kind PlotKind) func(*Session) {
	return func(s *Session) {
		p, ok := s.calc.RequestPlot(s.text, kind)
		if !ok || s.render == nil {
			return
		}
		s.render.Render(p)
	}
}

func derive(v string, order int) func(*Session) {
	return func(s *Session) {
		d, ok := s.calc.Differentiate(s.text, v, order)
		if !ok {
			d = ErrorText
		}
		s.text = d
	}
}

func (s *Session) del() {
	_, sz := utf8.DecodeLastRuneInString(s.text)
	s.text = s.text[:len(s.text)-sz]
}

func (s *Session) negate() {
	if s.text == "" || s.text == ErrorText {
		return
	}
	s.text = "-(" + s.text + ")"
}

func (s *Session) integrate() {
	s.calc.log.Info().Str("op", "integrate").Str("input", s.text).Msg("integration is not supported")
	s.text = ErrorText
}
