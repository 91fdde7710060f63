// Package render formats Expressions for display. It consumes only the
// public term map, keeping display concerns out of the kernel.
package render

import (
	"strings"

	"github.com/bosonic/ladders"
)

// orderedKeys returns operator keys sorted, with the scalar key (if present)
// moved to the end, the way a physicist writes the constant term last.
func orderedKeys(e *ladders.Expression) []string {
	keys := e.TermKeys()
	if len(keys) > 0 && keys[0] == "" {
		keys = append(keys[1:], "")
	}
	return keys
}

// Text renders an Expression as a readable sum, e.g. "2 a+_a + b+_b + 1".
// The additive identity renders as "0".
func Text(e *ladders.Expression) string {
	if e.IsZero() {
		return "0"
	}
	terms := e.Terms()
	var sb strings.Builder
	for i, key := range orderedKeys(e) {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(textTerm(key, terms[key]))
	}
	return sb.String()
}

func textTerm(key string, coeff complex128) string {
	c := ladders.FormatCoefficient(coeff)
	if key == "" {
		return c
	}
	if c == "1" {
		return key
	}
	if real(coeff) != 0 && imag(coeff) != 0 {
		c = "(" + c + ")"
	}
	return c + " " + key
}

// LaTeX renders an Expression with hatted operators and dagger superscripts,
// e.g. `2 \hat{a}^{\dagger} \hat{a} + \hat{b}^{\dagger} \hat{b} + 1`.
func LaTeX(e *ladders.Expression) string {
	if e.IsZero() {
		return "0"
	}
	terms := e.Terms()
	var sb strings.Builder
	for i, key := range orderedKeys(e) {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(latexTerm(key, terms[key]))
	}
	return sb.String()
}

func latexTerm(key string, coeff complex128) string {
	ops := latexOps(key)
	c := latexCoeff(coeff)
	switch {
	case ops == "":
		return c
	case c == "1":
		return ops
	}
	return c + " " + ops
}

func latexOps(key string) string {
	if key == "" {
		return ""
	}
	// Keys handed to this package are canonical, so decoding cannot fail.
	ops, err := ladders.DecodeKey(key)
	if err != nil {
		panic(err)
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		if op.Kind == ladders.Create {
			parts[i] = `\hat{` + string(op.Mode) + `}^{\dagger}`
		} else {
			parts[i] = `\hat{` + string(op.Mode) + `}`
		}
	}
	return strings.Join(parts, " ")
}

func latexCoeff(c complex128) string {
	s := strings.ReplaceAll(ladders.FormatCoefficient(c), "j", "i")
	if real(c) != 0 && imag(c) != 0 {
		return `\left(` + s + `\right)`
	}
	return s
}
