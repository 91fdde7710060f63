package ladders

import (
	"strings"
	"unicode"
)

// Imag is the letter reserved for the imaginary unit in numeric literals.
// It can never name a mode.
const Imag = 'j'

// Kind distinguishes the two ladder operators of a mode.
type Kind int

const (
	Annihilate Kind = iota
	Create
)

func (k Kind) String() string {
	if k == Create {
		return "create"
	}
	return "annihilate"
}

// Operator is one ladder operator: a mode letter plus a Kind. Two operators
// are equal iff both fields match.
type Operator struct {
	Mode rune
	Kind Kind
}

// A returns the annihilation operator of a mode.
func A(mode rune) Operator { return Operator{Mode: mode, Kind: Annihilate} }

// C returns the creation operator of a mode.
func C(mode rune) Operator { return Operator{Mode: mode, Kind: Create} }

const (
	factorSep = "_"
	daggerSuf = "+"
)

// EncodeKey serializes an operator sequence into its canonical term key:
// factors joined by "_", creation operators suffixed "+". The empty sequence
// encodes to "", the key of the pure-scalar term. Encoding never reorders.
func EncodeKey(ops []Operator) string {
	if len(ops) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, op := range ops {
		if i > 0 {
			sb.WriteString(factorSep)
		}
		sb.WriteRune(op.Mode)
		if op.Kind == Create {
			sb.WriteString(daggerSuf)
		}
	}
	return sb.String()
}

// DecodeKey parses a term key back into its operator sequence. The empty key
// decodes to an empty sequence. A key that does not match the mode[+] factor
// grammar yields a *MalformedKeyError.
func DecodeKey(key string) ([]Operator, error) {
	if key == "" {
		return nil, nil
	}
	factors := strings.Split(key, factorSep)
	ops := make([]Operator, 0, len(factors))
	for _, f := range factors {
		r := []rune(f)
		switch {
		case len(r) == 0:
			return nil, &MalformedKeyError{Key: key, Reason: "empty operator factor"}
		case !unicode.IsLetter(r[0]) || r[0] == Imag:
			return nil, &MalformedKeyError{Key: key, Reason: "invalid mode letter " + string(f)}
		case len(r) == 1:
			ops = append(ops, A(r[0]))
		case len(r) == 2 && string(r[1]) == daggerSuf:
			ops = append(ops, C(r[0]))
		default:
			return nil, &MalformedKeyError{Key: key, Reason: "invalid operator factor " + string(f)}
		}
	}
	return ops, nil
}

// mustDecode decodes a key produced by this package. Any failure is a kernel
// bug, so it panics rather than returning an error.
func mustDecode(key string) []Operator {
	ops, err := DecodeKey(key)
	if err != nil {
		panic(err)
	}
	return ops
}
