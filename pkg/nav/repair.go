package nav

import "github.com/matzehuels/kale/pkg/expr"

// Repair picks a selection for next after an edit turned old into next. A
// selection that survived is kept. Otherwise the first of these, looked up in
// old, that still exists in next wins: the later siblings of sel, its earlier
// siblings from nearest to farthest, then its ancestors outward. If none
// survived, the root of next is selected.
func Repair(old, next expr.Expr, sel expr.ID) expr.ID {
	nix := expr.NewIndex(next)
	if nix.Contains(sel) {
		return sel
	}
	oix := expr.NewIndex(old)

	var candidates []expr.Expr
	if sibs, i := oix.Siblings(sel); i >= 0 {
		candidates = append(candidates, sibs[i+1:]...)
		for j := i - 1; j >= 0; j-- {
			candidates = append(candidates, sibs[j])
		}
	}
	candidates = append(candidates, oix.Parents(sel)...)

	for _, c := range candidates {
		if id := c.Meta().ID; nix.Contains(id) {
			return id
		}
	}
	return next.Meta().ID
}
