package ladders

import "fmt"

// SyntaxError reports unparseable input: an unknown character, a malformed
// numeric literal, or the reserved imaginary-unit letter used as a mode.
type SyntaxError struct {
	Clause string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ladders: syntax error in clause %q: %s", e.Clause, e.Reason)
}

// MalformedKeyError reports a term key that does not decode. Internally
// produced keys always decode; seeing this error for one of them indicates a
// bug in the codec or the rewriter, not bad user input.
type MalformedKeyError struct {
	Key    string
	Reason string
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("ladders: malformed term key %q: %s", e.Key, e.Reason)
}
