package ladders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosonic/ladders"
)

func mustParse(t *testing.T, src string) *ladders.Expression {
	t.Helper()
	e, err := ladders.Parse(src)
	require.NoError(t, err)
	return e
}

// ============================================================
// Parsing
// ============================================================

func TestParse_Empty(t *testing.T) {
	e := mustParse(t, "")
	assert.True(t, e.IsZero())
	assert.Empty(t, e.Modes())
}

func TestParse_TwoModeHamiltonian(t *testing.T) {
	e := mustParse(t, "2a+_a(+)b+_b(+)1")
	assert.Equal(t, map[string]complex128{"a+_a": 2, "b+_b": 1, "": 1}, e.Terms())
	assert.Equal(t, []rune{'a', 'b'}, e.Modes())
}

func TestParse_BareOperator(t *testing.T) {
	e := mustParse(t, "a")
	assert.Equal(t, map[string]complex128{"a": 1}, e.Terms())
}

func TestParse_ComplexCoefficient(t *testing.T) {
	e := mustParse(t, "3+4.ja")
	assert.Equal(t, map[string]complex128{"a": 3 + 4i}, e.Terms())
}

func TestParse_ImaginaryScalar(t *testing.T) {
	e := mustParse(t, "2.5j")
	assert.Equal(t, map[string]complex128{"": 2.5i}, e.Terms())
}

func TestParse_NegativeCoefficient(t *testing.T) {
	e := mustParse(t, "-2a+")
	assert.Equal(t, map[string]complex128{"a+": -2}, e.Terms())
}

func TestParse_NormalOrdersResult(t *testing.T) {
	// Written out of order; the parser must hand back normal form.
	e := mustParse(t, "a_a+")
	assert.Equal(t, map[string]complex128{"a+_a": 1, "": 1}, e.Terms())
}

func TestParse_GroupsAcrossModes(t *testing.T) {
	e := mustParse(t, "b_a+")
	assert.Equal(t, map[string]complex128{"a+_b": 1}, e.Terms())
	assert.Equal(t, []rune{'a', 'b'}, e.Modes())
}

func TestParse_CollectsLikeTerms(t *testing.T) {
	e := mustParse(t, "a+_a(+)2a+_a")
	assert.Equal(t, map[string]complex128{"a+_a": 3}, e.Terms())
}

func TestParse_CancellationPrunes(t *testing.T) {
	e := mustParse(t, "a+(+)-1a+")
	assert.True(t, e.IsZero())
	assert.Empty(t, e.Modes())
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := map[string]string{
		"empty clause":       "a(+)",
		"reserved mode":      "a_j",
		"dagger only":        "+",
		"double dagger":      "a++",
		"bad coefficient":    "2..5a",
		"bad scalar":         "2..5",
		"trailing separator": "a_",
		"digit factor":       "a_1",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ladders.Parse(src)
			require.Error(t, err)
			var synErr *ladders.SyntaxError
			assert.ErrorAs(t, err, &synErr)
		})
	}
}

func TestParseCoefficient(t *testing.T) {
	for src, want := range map[string]complex128{
		"2":      2,
		"-0.5":   -0.5,
		"4.j":    4i,
		"3+4.j":  3 + 4i,
		"1-2j":   1 - 2i,
	} {
		got, err := ladders.ParseCoefficient(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
	_, err := ladders.ParseCoefficient("nope")
	assert.Error(t, err)
}

func TestFormatCoefficient(t *testing.T) {
	assert.Equal(t, "2", ladders.FormatCoefficient(2))
	assert.Equal(t, "-0.5", ladders.FormatCoefficient(-0.5))
	assert.Equal(t, "4j", ladders.FormatCoefficient(4i))
	assert.Equal(t, "3+4j", ladders.FormatCoefficient(3+4i))
}

// ============================================================
// Constructors
// ============================================================

func TestScalar(t *testing.T) {
	assert.Equal(t, map[string]complex128{"": 3}, ladders.Scalar(3).Terms())
	assert.True(t, ladders.Scalar(0).IsZero())
}

func TestFromTerms_NormalOrders(t *testing.T) {
	e, err := ladders.FromTerms(map[string]complex128{"a_a+": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]complex128{"a+_a": 1, "": 1}, e.Terms())
}

func TestFromTerms_MalformedKey(t *testing.T) {
	_, err := ladders.FromTerms(map[string]complex128{"a++": 1})
	var mkErr *ladders.MalformedKeyError
	require.ErrorAs(t, err, &mkErr)
}

// ============================================================
// Algebra
// ============================================================

func TestAdd_MergesAndSums(t *testing.T) {
	sum := mustParse(t, "2a+_a(+)1").Add(mustParse(t, "a+_a(+)b"))
	assert.Equal(t, map[string]complex128{"a+_a": 3, "b": 1, "": 1}, sum.Terms())
	assert.Equal(t, []rune{'a', 'b'}, sum.Modes())
}

func TestAdd_Commutative(t *testing.T) {
	a := mustParse(t, "2a+_a(+)1")
	b := mustParse(t, "b+_b(+)3j")
	assert.True(t, ladders.Equal(a.Add(b), b.Add(a)))
}

func TestAdd_Associative(t *testing.T) {
	a := mustParse(t, "a+")
	b := mustParse(t, "2a")
	c := mustParse(t, "b+_b(+)1")
	assert.True(t, ladders.Equal(a.Add(b).Add(c), a.Add(b.Add(c))))
}

func TestAdd_ZeroPruning(t *testing.T) {
	a := mustParse(t, "2a+_a(+)b+_b(+)3+4.j")
	diff := a.Add(a.Scale(-1))
	assert.True(t, diff.IsZero())
	assert.Empty(t, diff.Modes())
}

func TestSub(t *testing.T) {
	a := mustParse(t, "2a+_a(+)1")
	b := mustParse(t, "a+_a")
	assert.Equal(t, map[string]complex128{"a+_a": 1, "": 1}, a.Sub(b).Terms())
}

func TestMul_CommutationIdentity(t *testing.T) {
	prod := mustParse(t, "a").Mul(mustParse(t, "a+"))
	assert.Equal(t, map[string]complex128{"a+_a": 1, "": 1}, prod.Terms())
}

func TestMul_NotCommutative(t *testing.T) {
	a := mustParse(t, "a")
	ad := mustParse(t, "a+")
	assert.False(t, ladders.Equal(a.Mul(ad), ad.Mul(a)))
}

func TestMul_Associative(t *testing.T) {
	a := mustParse(t, "a(+)1")
	b := mustParse(t, "a+_a")
	c := mustParse(t, "2a+(+)b")
	assert.True(t, ladders.Equal(a.Mul(b).Mul(c), a.Mul(b.Mul(c))))
}

func TestMul_DistributesOverAdd(t *testing.T) {
	a := mustParse(t, "a_a(+)a+")
	b := mustParse(t, "a+_b")
	c := mustParse(t, "2b+(+)1")
	left := a.Mul(b.Add(c))
	right := a.Mul(b).Add(a.Mul(c))
	assert.True(t, ladders.Equivalent(left, right, 1e-12), ladders.Diff(left, right, 1e-12))
}

func TestMul_Scalars(t *testing.T) {
	prod := mustParse(t, "2").Mul(mustParse(t, "3j"))
	assert.Equal(t, map[string]complex128{"": 6i}, prod.Terms())
}

func TestMul_ByZero(t *testing.T) {
	assert.True(t, mustParse(t, "a+_a").Mul(ladders.Zero()).IsZero())
}

func TestMul_CrossModeNoViolationsSurvive(t *testing.T) {
	// (a b+)(a+ b): every resulting key must be normal ordered.
	prod := mustParse(t, "a_b+").Mul(mustParse(t, "a+_b"))
	for key := range prod.Terms() {
		decoded, err := ladders.DecodeKey(key)
		require.NoError(t, err)
		for i := 0; i+1 < len(decoded); i++ {
			bad := decoded[i].Mode == decoded[i+1].Mode &&
				decoded[i].Kind == ladders.Annihilate &&
				decoded[i+1].Kind == ladders.Create
			assert.False(t, bad, "key %q", key)
		}
	}
	assert.Equal(t, map[string]complex128{"a+_a_b+_b": 1, "b+_b": 1}, prod.Terms())
}

func TestScale(t *testing.T) {
	e := mustParse(t, "a+_a(+)2")
	scaled := e.Scale(2i)
	assert.Equal(t, map[string]complex128{"a+_a": 2i, "": 4i}, scaled.Terms())
}

func TestScale_ByZero(t *testing.T) {
	assert.True(t, mustParse(t, "a+_a(+)2").Scale(0).IsZero())
}

func TestPow(t *testing.T) {
	// (a+ a)^2 = a+ a+ a a + a+ a
	n := mustParse(t, "a+_a")
	sq := n.Pow(2)
	assert.Equal(t, map[string]complex128{"a+_a+_a_a": 1, "a+_a": 1}, sq.Terms())
}

func TestPow_Zero(t *testing.T) {
	assert.Equal(t, map[string]complex128{"": 1}, mustParse(t, "a+_a").Pow(0).Terms())
}

func TestPow_Quadrature(t *testing.T) {
	// (a + a+)^2 = a+^2 + 2 a+ a + a^2 + 1
	x := mustParse(t, "a(+)a+")
	sq := x.Pow(2)
	assert.Equal(t, map[string]complex128{
		"a+_a+": 1,
		"a+_a":  2,
		"a_a":   1,
		"":      1,
	}, sq.Terms())
}

// ============================================================
// Accessors and rendering
// ============================================================

func TestImmutability(t *testing.T) {
	a := mustParse(t, "a+_a")
	b := mustParse(t, "1")
	_ = a.Add(b)
	_ = a.Mul(b)
	_ = a.Scale(7)
	assert.Equal(t, map[string]complex128{"a+_a": 1}, a.Terms())
	assert.Equal(t, map[string]complex128{"": 1}, b.Terms())
}

func TestTerms_ReturnsCopy(t *testing.T) {
	a := mustParse(t, "a+_a")
	m := a.Terms()
	m["a+_a"] = 99
	assert.Equal(t, complex128(1), a.Coeff("a+_a"))
}

func TestCanonicalString_Deterministic(t *testing.T) {
	a := mustParse(t, "2a+_a(+)b+_b(+)1")
	b := mustParse(t, "1(+)b+_b(+)2a+_a")
	assert.Equal(t, a.CanonicalString(), b.CanonicalString())
	assert.Equal(t, "1 (+) 2 a+_a (+) 1 b+_b", a.CanonicalString())
}

func TestCanonicalString_Zero(t *testing.T) {
	assert.Equal(t, "0", ladders.Zero().CanonicalString())
}

func TestNumTermsAndCoeff(t *testing.T) {
	e := mustParse(t, "2a+_a(+)1")
	assert.Equal(t, 2, e.NumTerms())
	assert.Equal(t, complex128(2), e.Coeff("a+_a"))
	assert.Equal(t, complex128(0), e.Coeff("b+_b"))
}
