package reaction

import (
	"fmt"
	"sort"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// Method controls how reactant and product criteria are combined in the
// two-sided filter and in similarity grouping.
type Method string

const (
	// MethodAnd requires a reaction to match on both sides.
	MethodAnd Method = "and"
	// MethodOr accepts a reaction matching on either side.
	MethodOr Method = "or"
)

// ParseMethod validates a combination method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodAnd, MethodOr:
		return Method(s), nil
	default:
		return "", errors.New(errors.ErrCodeReactionUnknownMethod,
			fmt.Sprintf("unknown combination method %q, expected \"and\" or \"or\"", s))
	}
}

// Engine answers filtering requests against one immutable table through its
// phase index.  Every operation follows the "empty input means unrestricted"
// convention: an empty criterion returns the full table, while a non-empty
// criterion with no matches returns an empty row slice, never an error.
//
// An Engine is safe for concurrent use: it holds no mutable state after
// construction.
type Engine struct {
	table *Table
	index *PhaseIndex
}

// NewEngine builds an engine over the given table, constructing the phase
// index as part of construction.
func NewEngine(t *Table) *Engine {
	return &Engine{table: t, index: BuildIndex(t)}
}

// Table exposes the engine's underlying table.
func (e *Engine) Table() *Table { return e.table }

// Index exposes the engine's phase index.
func (e *Engine) Index() *PhaseIndex { return e.index }

// UniquePhases returns every phase token known to the index, sorted.
func (e *Engine) UniquePhases() []string { return e.index.UniquePhases() }

// FilterByIDs returns the rows whose id is in ids, in table order.  An
// empty ids slice returns the entire table.
func (e *Engine) FilterByIDs(ids []string) []Reaction {
	if len(ids) == 0 {
		return e.table.Rows()
	}
	return e.table.Subset(NewIDSet(ids...))
}

// FilterByReactants returns the rows with at least one reactant phase in
// phases.  Tokens are normalized before lookup.  Empty phases returns the
// entire table.
func (e *Engine) FilterByReactants(phases []string) []Reaction {
	return e.filterOneSide(phases, ReactantSide)
}

// FilterByProducts returns the rows with at least one product phase in
// phases.  Empty phases returns the entire table.
func (e *Engine) FilterByProducts(phases []string) []Reaction {
	return e.filterOneSide(phases, ProductSide)
}

func (e *Engine) filterOneSide(phases []string, which Side) []Reaction {
	tokens := NormalizeTokens(phases)
	if len(tokens) == 0 {
		return e.table.Rows()
	}
	return e.table.Subset(e.index.IDsForPhases(tokens, which))
}

// FilterByReactantsAndProducts combines a reactant criterion and a product
// criterion.  Each side matches with union semantics, and the two sides are
// combined per method:
//
//   - MethodAnd keeps rows matching on both sides, either forward or with
//     the sides swapped.  The swapped check catches reactions written in
//     the opposite direction that are still chemically equivalent matches.
//   - MethodOr keeps rows matching any side in either direction.
//
// When only one side is non-empty the call degrades to the single-sided
// filter; when both are empty the full table is returned.
func (e *Engine) FilterByReactantsAndProducts(reactants, products []string, method Method) ([]Reaction, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}

	rTokens := NormalizeTokens(reactants)
	pTokens := NormalizeTokens(products)

	switch {
	case len(rTokens) == 0 && len(pTokens) == 0:
		return e.table.Rows(), nil
	case len(pTokens) == 0:
		return e.table.Subset(e.index.IDsForPhases(rTokens, ReactantSide)), nil
	case len(rTokens) == 0:
		return e.table.Subset(e.index.IDsForPhases(pTokens, ProductSide)), nil
	}

	forwardReactant := e.index.IDsForPhases(rTokens, ReactantSide)
	forwardProduct := e.index.IDsForPhases(pTokens, ProductSide)

	if method == MethodAnd && (forwardReactant.Len() == 0 || forwardProduct.Len() == 0) {
		// An intersection against an empty forward set cannot match, so
		// the reverse sets are not worth computing.  Property tests pin
		// this down as equivalent to the unshortened computation.
		return []Reaction{}, nil
	}

	reverseReactant := e.index.IDsForPhases(rTokens, ProductSide)
	reverseProduct := e.index.IDsForPhases(pTokens, ReactantSide)

	var match IDSet
	if method == MethodAnd {
		match = forwardReactant.Intersect(forwardProduct).
			Union(reverseReactant.Intersect(reverseProduct))
	} else {
		match = forwardReactant.Union(forwardProduct).
			Union(reverseReactant).Union(reverseProduct)
	}
	return e.table.Subset(match), nil
}

// FilterByTypes returns the rows whose type is in types.  Empty types
// returns the entire table.
func (e *Engine) FilterByTypes(types []Type) []Reaction {
	if len(types) == 0 {
		return e.table.Rows()
	}
	want := make(map[Type]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}
	out := make([]Reaction, 0, len(e.table.rows))
	for _, r := range e.table.rows {
		if _, ok := want[r.Type]; ok {
			out = append(out, r)
		}
	}
	return out
}

// PhasesForIDs returns two sorted, de-duplicated, coefficient-stripped
// phase lists: every reactant phase and every product phase appearing in
// the rows with the given ids.  Empty ids yields two empty lists.
func (e *Engine) PhasesForIDs(ids []string) (reactants, products []string) {
	reactants = []string{}
	products = []string{}
	if len(ids) == 0 {
		return reactants, products
	}
	rSeen := make(map[string]struct{})
	pSeen := make(map[string]struct{})
	for _, id := range ids {
		row, ok := e.table.Get(id)
		if !ok {
			continue
		}
		for _, p := range row.StrippedReactants() {
			if _, dup := rSeen[p]; !dup {
				rSeen[p] = struct{}{}
				reactants = append(reactants, p)
			}
		}
		for _, p := range row.StrippedProducts() {
			if _, dup := pSeen[p]; !dup {
				pSeen[p] = struct{}{}
				products = append(products, p)
			}
		}
	}
	sort.Strings(reactants)
	sort.Strings(products)
	return reactants, products
}
