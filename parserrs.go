package graphcalc

import "strconv"

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token that caused the error.
	Pos() int
}

// errpos prefixes a message with a column.
func errpos(col int, msg string) string {
	return "col " + strconv.Itoa(col) + ": " + msg
}

// OperatorError is an operator in a position where it has no meaning, such
// as a leading *.
type OperatorError struct {
	Col      int
	Operator string
	// Unary is set when the operator appeared where an operand was expected.
	Unary bool
}

func (err *OperatorError) Error() string {
	if err.Unary {
		return errpos(err.Col, strconv.Quote(err.Operator)+" needs a left operand")
	}
	return errpos(err.Col, "unknown operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int { return err.Col }

// BracketError is a bracket without a partner or with the wrong partner.
// Exactly one of Left and Right is empty when the bracket has no partner.
type BracketError struct {
	// Col is the column of the close bracket, or of the end of the text when
	// Right is empty.
	Col   int
	Left  string
	Right string
}

func (err *BracketError) Error() string {
	switch {
	case err.Left == "":
		return errpos(err.Col, "unmatched "+strconv.Quote(err.Right))
	case err.Right == "":
		return errpos(err.Col, "missing close for "+strconv.Quote(err.Left))
	}
	return errpos(err.Col, strconv.Quote(err.Left)+" closed by "+strconv.Quote(err.Right))
}

func (err *BracketError) Pos() int { return err.Col }

// SeparatorError is a comma or semicolon outside the argument list of a call.
type SeparatorError struct {
	Col int
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "unexpected separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int { return err.Col }

// CallError is a call with the wrong number of arguments.
type CallError struct {
	// Col is the column of the argument list, or of whatever followed the
	// function name when there was no argument.
	Col  int
	Func string
	// Len is the number of arguments given.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, err.Func+" needs one argument, got "+strconv.Itoa(err.Len))
}

func (err *CallError) Pos() int { return err.Col }

// EmptyExpressionError is a missing operand.
type EmptyExpressionError struct {
	// Col is the column of the token where the operand should have been.
	Col int
	// End is that token, or empty at the end of the text.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "expression ends early")
	}
	return errpos(err.Col, "missing operand before "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int { return err.Col }

// IdentError is a name that is neither a function, a constant, nor an allowed
// variable.
type IdentError struct {
	Col  int
	Name string
}

func (err *IdentError) Error() string {
	return errpos(err.Col, "unknown name "+strconv.Quote(err.Name))
}

func (err *IdentError) Pos() int { return err.Col }

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*IdentError)(nil)
	_ InputError = (*LexError)(nil)
)
