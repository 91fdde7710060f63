// Package ladders is a normal-ordering kernel for multimode bosonic
// ladder-operator algebra.
//
// Design goals:
//   - Deterministic normal ordering via the canonical commutation relation
//     [a, a+] = 1 per mode (zero across modes)
//   - Immutable Expression values; every operation returns a new Expression
//   - Stable, canonical term keys ("a+_a") so like terms always collide
//   - Embeddable in Go services, CLI tools, and agent backends
//
// An Expression is a map from canonical term keys to complex coefficients,
// for example {"a+_a": 2, "b+_b": 1, "": 1} for 2a†a + b†b + 1. The empty
// key holds the scalar part; the empty map is the additive identity.
//
// Input syntax (see Parse): clauses separated by "(+)", operator factors
// joined by "_", a trailing "+" marks a creation operator, and an optional
// leading numeric coefficient may be complex with the reserved letter j,
// e.g. "2a+_a(+)b+_b(+)3+4.j".
package ladders
