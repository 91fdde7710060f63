package ladders

import "go.uber.org/zap"

// NormalOrder rewrites a single term into normal order and returns the
// resulting term-key → coefficient map, whose sum equals the input term's
// value. The sequence is grouped by mode first (a no-op if already grouped).
//
// The rewrite applies [a, a+] = 1 as a worklist: pop a pending sequence, find
// the leftmost adjacent pair where an annihilation operator precedes a
// creation operator of the same mode, and branch into
//
//	swapped: the pair reversed (a_a+ -> a+_a), and
//	dropped: the pair removed (the commutator's scalar 1),
//
// both carrying the original coefficient. Sequences with no such pair are
// already normal and are accumulated into the result, summing on key
// collision. Swapping strictly reduces the number of out-of-order pairs and
// dropping removes two operators, so the worklist always drains; the
// commutation relation is confluent, so the fixed left-to-right scan affects
// only traversal order, not the result.
func NormalOrder(ops []Operator, coeff complex128) map[string]complex128 {
	out := make(map[string]complex128)
	if coeff == 0 {
		return out
	}
	work := [][]Operator{GroupByMode(ops)}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		i := firstViolation(cur)
		if i < 0 {
			out[EncodeKey(cur)] += coeff
			continue
		}

		swapped := make([]Operator, len(cur))
		copy(swapped, cur)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]

		dropped := make([]Operator, 0, len(cur)-2)
		dropped = append(dropped, cur[:i]...)
		dropped = append(dropped, cur[i+2:]...)

		work = append(work, swapped, dropped)
	}
	if ce := logger.Check(zap.DebugLevel, "normal order"); ce != nil {
		ce.Write(zap.String("term", EncodeKey(ops)), zap.Int("result_terms", len(out)))
	}
	return out
}

// firstViolation returns the index of the leftmost adjacent pair violating
// normal order (annihilate m immediately followed by create m), or -1 if the
// sequence is already normal. Grouping guarantees no cross-mode pair can
// violate.
func firstViolation(ops []Operator) int {
	for i := 0; i+1 < len(ops); i++ {
		if ops[i].Mode == ops[i+1].Mode && ops[i].Kind == Annihilate && ops[i+1].Kind == Create {
			return i
		}
	}
	return -1
}
