package ladders

import "strings"

// Kerr returns the self-Kerr coefficient of a mode: the coefficient of the
// normal-ordered quartic m+_m+_m_m. Zero if the expression has no such term.
func Kerr(e *Expression, mode rune) complex128 {
	m := string(mode)
	return e.Coeff(strings.Join([]string{m + "+", m + "+", m, m}, factorSep))
}

// CrossKerr returns the cross-Kerr coefficient coupling two modes: the
// coefficient of m1+_m1_m2+_m2 with the modes taken in ascending order, the
// same canonical block order the rewriter emits. Zero when m1 == m2 has no
// meaning; use Kerr for the self term.
func CrossKerr(e *Expression, m1, m2 rune) complex128 {
	if m2 < m1 {
		m1, m2 = m2, m1
	}
	a, b := string(m1), string(m2)
	return e.Coeff(strings.Join([]string{a + "+", a, b + "+", b}, factorSep))
}
