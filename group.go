package ladders

import "sort"

// GroupByMode reorders an operator sequence so that all operators of the same
// mode are contiguous, with mode blocks concatenated in ascending mode order.
// The permutation is stable: within a mode the relative order of operators is
// preserved exactly. Operators of distinct modes commute, so this changes only
// the syntactic shape of a term, never its value, and it is what lets the
// rewriter treat each mode as an independent sub-problem.
func GroupByMode(ops []Operator) []Operator {
	modes := modesOf(ops)
	grouped := make([]Operator, 0, len(ops))
	for _, m := range modes {
		for _, op := range ops {
			if op.Mode == m {
				grouped = append(grouped, op)
			}
		}
	}
	return grouped
}

// modesOf returns the distinct modes of a sequence in ascending rune order.
func modesOf(ops []Operator) []rune {
	seen := make(map[rune]bool, len(ops))
	var modes []rune
	for _, op := range ops {
		if !seen[op.Mode] {
			seen[op.Mode] = true
			modes = append(modes, op.Mode)
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}
