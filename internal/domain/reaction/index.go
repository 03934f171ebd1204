package reaction

import "sort"

// Side selects one of the two inverted indices.
type Side int

const (
	// ReactantSide selects the reactant index.
	ReactantSide Side = iota
	// ProductSide selects the product index.
	ProductSide
)

// PhaseIndex holds the two inverted indices mapping a coefficient-stripped
// phase token to the set of reaction ids that consume (reactant index) or
// produce (product index) it.  The index is built once from a table and
// never mutated afterwards; a table change means building a fresh index and
// swapping it in wholesale.
type PhaseIndex struct {
	reactants map[string]IDSet
	products  map[string]IDSet
}

// BuildIndex constructs both inverted indices from every row of the table.
// Tokens are coefficient-stripped before insertion; tokens that are empty
// after stripping are skipped.
func BuildIndex(t *Table) *PhaseIndex {
	idx := &PhaseIndex{
		reactants: make(map[string]IDSet),
		products:  make(map[string]IDSet),
	}
	for i := range t.rows {
		r := &t.rows[i]
		insertPhases(idx.reactants, r.StrippedReactants(), r.ID)
		insertPhases(idx.products, r.StrippedProducts(), r.ID)
	}
	return idx
}

func insertPhases(m map[string]IDSet, phases []string, id string) {
	for _, p := range phases {
		set, ok := m[p]
		if !ok {
			set = NewIDSet()
			m[p] = set
		}
		set.Add(id)
	}
}

// IDsForPhases returns the union of reaction ids recorded for each of the
// given phase tokens in the selected index.  Tokens must already be
// coefficient-stripped.  An empty input yields an empty set; the "empty
// means unrestricted" convention is the query engine's policy, not the
// index's.
func (idx *PhaseIndex) IDsForPhases(phases []string, which Side) IDSet {
	m := idx.reactants
	if which == ProductSide {
		m = idx.products
	}
	out := NewIDSet()
	for _, p := range phases {
		for id := range m[p] {
			out.Add(id)
		}
	}
	return out
}

// UniquePhases returns the sorted union of all phase tokens across both
// indices.  It backs the selectable filter options in the UI layers.
func (idx *PhaseIndex) UniquePhases() []string {
	seen := make(map[string]struct{}, len(idx.reactants)+len(idx.products))
	for p := range idx.reactants {
		seen[p] = struct{}{}
	}
	for p := range idx.products {
		seen[p] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
