package reaction

// ─────────────────────────────────────────────────────────────────────────────
// Color palette
// ─────────────────────────────────────────────────────────────────────────────

// alphabetPalette is the 26-color qualitative "Alphabet" palette.  Group
// colors cycle through it modulo its length, so group ids map to colors
// deterministically for any group count.
var alphabetPalette = []string{
	"#AA0DFE", "#3283FE", "#85660D", "#782AB6", "#565656", "#1C8356",
	"#16FF32", "#F7E1A0", "#E2E2E2", "#1CBE4F", "#C4451C", "#DEA0FD",
	"#FE00FA", "#325A9B", "#FEAF16", "#F8A19F", "#90AD1C", "#F6222E",
	"#1CFFCE", "#2ED9FF", "#B10DA1", "#C075A6", "#FC1CBF", "#B00068",
	"#FBE426", "#FA0087",
}

// UnknownColor is returned for any reaction id that is not part of the
// current grouping, for example when a caller holds ids from a stale table.
const UnknownColor = "#7F7F7F"

// UnknownGroup is the group id reported for ids absent from the grouping.
const UnknownGroup = -1

// ─────────────────────────────────────────────────────────────────────────────
// Similarity grouping
// ─────────────────────────────────────────────────────────────────────────────

// Grouping is a complete partition of a table's reaction ids into
// similarity groups.  It is immutable once built; a table or method change
// requires a full rebuild.
type Grouping struct {
	method  Method
	byID    map[string]int
	nGroups int
}

// Annotated is a reaction row augmented with its similarity group and the
// group's color key.
type Annotated struct {
	Reaction
	Group int    `json:"group"`
	Color string `json:"color"`
}

// BuildGroups partitions every reaction in the engine's table into
// similarity groups.  Two reactions are similar when they share phases per
// the combination method, counting the swapped direction: a reaction whose
// products overlap another's reactants (or vice versa) is a reverse match.
//
// Ids are processed in table order and group ids are dense integers
// starting at 0 in discovery order, so rebuilding from the same table and
// method reproduces the identical partition.  Reactions with an empty
// reactant or product list, and reactions overlapping nothing else, end up
// in singleton groups.
func BuildGroups(e *Engine, method Method) (*Grouping, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}

	g := &Grouping{
		method: method,
		byID:   make(map[string]int, e.table.Len()),
	}

	for _, id := range e.table.order {
		if _, done := g.byID[id]; done {
			continue
		}
		row, _ := e.table.Get(id)
		rTokens := row.StrippedReactants()
		pTokens := row.StrippedProducts()
		if len(rTokens) == 0 || len(pTokens) == 0 {
			// One-sided rows cannot participate in two-sided matching;
			// the final sweep gives them singleton groups.
			continue
		}

		match := e.similarTo(rTokens, pTokens, method)
		match.Add(id)
		for matched := range match {
			if _, done := g.byID[matched]; !done {
				g.byID[matched] = g.nGroups
			}
		}
		g.nGroups++
	}

	for _, id := range e.table.order {
		if _, done := g.byID[id]; !done {
			g.byID[id] = g.nGroups
			g.nGroups++
		}
	}

	return g, nil
}

// similarTo computes the set of ids similar to a reaction with the given
// stripped phase lists.  Under MethodAnd a forward match must hit both
// sides, while a reverse-direction overlap on either side is enough to
// relate two reactions; under MethodOr any overlap in any direction counts.
func (e *Engine) similarTo(rTokens, pTokens []string, method Method) IDSet {
	forwardReactant := e.index.IDsForPhases(rTokens, ReactantSide)
	forwardProduct := e.index.IDsForPhases(pTokens, ProductSide)
	reverseReactant := e.index.IDsForPhases(rTokens, ProductSide)
	reverseProduct := e.index.IDsForPhases(pTokens, ReactantSide)

	if method == MethodAnd {
		return forwardReactant.Intersect(forwardProduct).
			Union(reverseReactant).Union(reverseProduct)
	}
	return forwardReactant.Union(forwardProduct).
		Union(reverseReactant).Union(reverseProduct)
}

// Method reports the combination method the grouping was built with.
func (g *Grouping) Method() Method { return g.method }

// Groups reports the number of groups in the partition.
func (g *Grouping) Groups() int { return g.nGroups }

// GroupFor returns the group id for a reaction id, or UnknownGroup when the
// id is not part of this grouping.
func (g *Grouping) GroupFor(id string) int {
	group, ok := g.byID[id]
	if !ok {
		return UnknownGroup
	}
	return group
}

// ColorForGroup returns the color key of the group containing the given
// reaction id, or UnknownColor when the id is not part of this grouping.
func (g *Grouping) ColorForGroup(id string) string {
	group, ok := g.byID[id]
	if !ok {
		return UnknownColor
	}
	return alphabetPalette[group%len(alphabetPalette)]
}

// Members returns every reaction id assigned to the given group, sorted.
func (g *Grouping) Members(group int) []string {
	out := NewIDSet()
	for id, assigned := range g.byID {
		if assigned == group {
			out.Add(id)
		}
	}
	return out.Sorted()
}

// Annotate returns the input rows augmented with their group id and color
// key.  The input is not modified; rows outside the grouping receive the
// unknown sentinels.
func (g *Grouping) Annotate(rows []Reaction) []Annotated {
	out := make([]Annotated, 0, len(rows))
	for _, r := range rows {
		out = append(out, Annotated{
			Reaction: r,
			Group:    g.GroupFor(r.ID),
			Color:    g.ColorForGroup(r.ID),
		})
	}
	return out
}
