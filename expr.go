package ladders

import (
	"context"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// logger traces kernel internals at Debug level. Nop unless SetLogger is
// called.
var logger = zap.NewNop()

// SetLogger installs a logger for kernel tracing. Passing nil restores the
// nop logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Expression is an immutable normal-ordered sum of ladder-operator terms:
// a map from canonical term keys to nonzero complex coefficients, plus the
// set of modes those keys mention. The empty key holds the scalar part; an
// Expression with no terms is the additive identity.
//
// Every Expression handed out by this package is in normal form: within each
// term key, mode blocks appear in ascending mode order and, per mode, all
// creation operators precede all annihilation operators.
type Expression struct {
	terms map[string]complex128
	modes []rune
}

// Zero returns the additive identity (no terms).
func Zero() *Expression {
	return &Expression{terms: map[string]complex128{}}
}

// Scalar returns the pure-scalar expression c (the empty term key), or the
// additive identity when c is zero.
func Scalar(c complex128) *Expression {
	e := Zero()
	if c != 0 {
		e.terms[""] = c
	}
	return e
}

// FromTerms builds an Expression from a raw term-key → coefficient map, for
// example one received over a serialization boundary. Keys are decoded
// (yielding *MalformedKeyError on failure) and routed through grouping and
// normal ordering, so the result satisfies the normal-form invariant even if
// the input keys do not.
func FromTerms(terms map[string]complex128) (*Expression, error) {
	e := Zero()
	for key, coeff := range terms {
		ops, err := DecodeKey(key)
		if err != nil {
			return nil, err
		}
		accumulate(e.terms, NormalOrder(ops, coeff))
	}
	e.finish()
	return e, nil
}

// ------------------------------------------------------------
// Parsing
// ------------------------------------------------------------

const addMarker = "(+)"

// Parse builds an Expression from source text. Clauses are separated by the
// addition marker "(+)"; each clause is an optional numeric coefficient
// followed by operator factors joined by "_", with "+" suffixing creation
// operators. Coefficients may be complex, written with the reserved trailing
// letter j ("3+4.j"). A clause with no factors is a pure scalar. The empty
// source parses to the additive identity.
//
// Every clause is grouped and normal ordered before the Expression is
// returned, so parse results always satisfy the normal-form invariant even
// when the written operator order is not normal.
func Parse(src string) (*Expression, error) {
	e := Zero()
	if strings.TrimSpace(src) == "" {
		return e, nil
	}
	for _, clause := range strings.Split(src, addMarker) {
		clause = strings.TrimSpace(clause)
		coeff, ops, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		accumulate(e.terms, NormalOrder(ops, coeff))
	}
	e.finish()
	return e, nil
}

// parseClause splits one additive clause into its coefficient and operator
// sequence. The coefficient is everything before the first letter that is not
// the reserved j, matching how complex literals like "3+4.j" keep their sign
// characters out of the operator region.
func parseClause(clause string) (complex128, []Operator, error) {
	if clause == "" {
		return 0, nil, &SyntaxError{Clause: clause, Reason: "empty clause"}
	}
	split := -1
	for i, r := range clause {
		if unicode.IsLetter(r) && r != Imag {
			split = i
			break
		}
	}
	if split < 0 {
		// Pure scalar clause.
		coeff, err := ParseCoefficient(clause)
		if err != nil {
			return 0, nil, &SyntaxError{Clause: clause, Reason: err.Error()}
		}
		return coeff, nil, nil
	}

	coeff := complex128(1)
	if split > 0 {
		c, err := ParseCoefficient(clause[:split])
		if err != nil {
			return 0, nil, &SyntaxError{Clause: clause, Reason: err.Error()}
		}
		coeff = c
	}

	ops, err := parseFactors(clause, clause[split:])
	if err != nil {
		return 0, nil, err
	}
	return coeff, ops, nil
}

func parseFactors(clause, s string) ([]Operator, error) {
	factors := strings.Split(s, factorSep)
	ops := make([]Operator, 0, len(factors))
	for _, f := range factors {
		r := []rune(f)
		switch {
		case len(r) == 0:
			return nil, &SyntaxError{Clause: clause, Reason: "empty operator factor"}
		case r[0] == Imag:
			return nil, &SyntaxError{Clause: clause, Reason: "reserved letter j used as a mode"}
		case !unicode.IsLetter(r[0]):
			return nil, &SyntaxError{Clause: clause, Reason: "mode must be a letter, got " + string(f)}
		case len(r) == 1:
			ops = append(ops, A(r[0]))
		case len(r) == 2 && string(r[1]) == daggerSuf:
			ops = append(ops, C(r[0]))
		default:
			return nil, &SyntaxError{Clause: clause, Reason: "invalid operator factor " + string(f)}
		}
	}
	return ops, nil
}

// ParseCoefficient parses a numeric literal in the input syntax, where the
// imaginary unit is written j (as in "2", "-0.5", "4.j", "3+4.j").
func ParseCoefficient(s string) (complex128, error) {
	c, err := strconv.ParseComplex(strings.ReplaceAll(s, string(Imag), "i"), 128)
	if err != nil {
		return 0, err
	}
	return c, nil
}

// FormatCoefficient renders a coefficient in the input syntax (trailing j for
// the imaginary part, no parentheses for pure real or pure imaginary values).
func FormatCoefficient(c complex128) string {
	re, im := real(c), imag(c)
	switch {
	case im == 0:
		return strconv.FormatFloat(re, 'g', -1, 64)
	case re == 0:
		return strconv.FormatFloat(im, 'g', -1, 64) + string(Imag)
	}
	s := strconv.FormatComplex(c, 'g', -1, 128) // "(3+4i)"
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	return strings.ReplaceAll(s, "i", string(Imag))
}

// ------------------------------------------------------------
// Algebra
// ------------------------------------------------------------

// Add returns a + b: the union of term keys with coefficients summed, keys
// whose sum is exactly zero dropped. Both operands are already normal
// ordered, so no rewriting is needed.
func (a *Expression) Add(b *Expression) *Expression {
	out := Zero()
	accumulate(out.terms, a.terms)
	accumulate(out.terms, b.terms)
	out.finish()
	return out
}

// Sub returns a - b.
func (a *Expression) Sub(b *Expression) *Expression {
	return a.Add(b.Scale(-1))
}

// Mul returns the operator product a·b (b applied first in time order is the
// rightmost factor, so operator sequences concatenate a's then b's).
// Every raw product term is grouped by mode and normal ordered before like
// terms are collected, so the result satisfies the normal-form invariant.
// Multiplication is associative but not commutative.
func (a *Expression) Mul(b *Expression) *Expression {
	out := Zero()
	for ka, ca := range a.terms {
		opsA := mustDecode(ka)
		for kb, cb := range b.terms {
			if ce := logger.Check(zap.DebugLevel, "multiply terms"); ce != nil {
				ce.Write(zap.String("left", ka), zap.String("right", kb))
			}
			accumulate(out.terms, NormalOrder(concat(opsA, mustDecode(kb)), ca*cb))
		}
	}
	out.finish()
	return out
}

// MulParallel is Mul with the cartesian expansion fanned out across
// goroutines, one per term of the left operand; each pairwise rewrite is
// independent and partial maps are merged under a single lock. It returns an
// error only if ctx is cancelled. Coefficients may differ from Mul by
// summation-order rounding, never by value.
func (a *Expression) MulParallel(ctx context.Context, b *Expression) (*Expression, error) {
	out := Zero()
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for ka, ca := range a.terms {
		ka, ca := ka, ca
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial := make(map[string]complex128)
			opsA := mustDecode(ka)
			for kb, cb := range b.terms {
				accumulate(partial, NormalOrder(concat(opsA, mustDecode(kb)), ca*cb))
			}
			mu.Lock()
			accumulate(out.terms, partial)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	out.finish()
	return out, nil
}

// Scale returns a with every coefficient multiplied by c. Scaling by zero
// yields the additive identity.
func (a *Expression) Scale(c complex128) *Expression {
	out := Zero()
	for k, v := range a.terms {
		out.terms[k] = v * c
	}
	out.finish()
	return out
}

// Pow returns a multiplied by itself n times; Pow(0) is the scalar 1.
// n must be non-negative (ladder operators have no inverses).
func (a *Expression) Pow(n int) *Expression {
	if n < 0 {
		panic("ladders: negative exponent")
	}
	out := Scalar(1)
	for i := 0; i < n; i++ {
		out = out.Mul(a)
	}
	return out
}

func concat(a, b []Operator) []Operator {
	out := make([]Operator, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// accumulate merges src into dst, summing coefficients on key collision.
func accumulate(dst map[string]complex128, src map[string]complex128) {
	for k, v := range src {
		dst[k] += v
	}
}

// finish restores the structural invariants after terms changed: drop
// zero-coefficient keys and recompute the mode set from the surviving keys.
func (e *Expression) finish() {
	for k, v := range e.terms {
		if v == 0 {
			delete(e.terms, k)
		}
	}
	seen := make(map[rune]bool)
	e.modes = e.modes[:0]
	for k := range e.terms {
		for _, r := range k {
			if unicode.IsLetter(r) && !seen[r] {
				seen[r] = true
				e.modes = append(e.modes, r)
			}
		}
	}
	sort.Slice(e.modes, func(i, j int) bool { return e.modes[i] < e.modes[j] })
}

// ------------------------------------------------------------
// Accessors
// ------------------------------------------------------------

// Terms returns a copy of the term-key → coefficient map.
func (e *Expression) Terms() map[string]complex128 {
	out := make(map[string]complex128, len(e.terms))
	for k, v := range e.terms {
		out[k] = v
	}
	return out
}

// Modes returns the modes appearing in the expression, ascending.
func (e *Expression) Modes() []rune {
	return append([]rune(nil), e.modes...)
}

// Coeff returns the coefficient of a term key, zero if absent.
func (e *Expression) Coeff(key string) complex128 { return e.terms[key] }

// NumTerms returns the number of stored terms.
func (e *Expression) NumTerms() int { return len(e.terms) }

// IsZero reports whether the expression is the additive identity.
func (e *Expression) IsZero() bool { return len(e.terms) == 0 }

// TermKeys returns the term keys in sorted order, scalar key first.
func (e *Expression) TermKeys() []string {
	keys := make([]string, 0, len(e.terms))
	for k := range e.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CanonicalString renders the expression deterministically: sorted term keys
// with their coefficients. Two Expressions are equal iff their canonical
// strings match, which also makes it the natural cache key should memoization
// ever be layered on top.
func (e *Expression) CanonicalString() string {
	if len(e.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, k := range e.TermKeys() {
		if i > 0 {
			sb.WriteString(" (+) ")
		}
		sb.WriteString(FormatCoefficient(e.terms[k]))
		if k != "" {
			sb.WriteString(" ")
			sb.WriteString(k)
		}
	}
	return sb.String()
}

func (e *Expression) String() string { return e.CanonicalString() }

// Equal reports exact structural equality: same term keys with identical
// coefficients. For tolerance-aware comparison see Equivalent.
func Equal(a, b *Expression) bool {
	if len(a.terms) != len(b.terms) {
		return false
	}
	for k, v := range a.terms {
		if b.terms[k] != v {
			return false
		}
	}
	return true
}
