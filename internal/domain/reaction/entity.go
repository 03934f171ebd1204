// Package reaction contains the core domain model of the reaction-database
// explorer: the reaction table, the phase inverted index, the query engine,
// and the similarity grouper.  Everything in this package is pure in-memory
// computation; persistence and transport live in the infrastructure and
// interfaces layers.
package reaction

import (
	"fmt"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Reaction types
// ─────────────────────────────────────────────────────────────────────────────

// Type categorises the provenance of a reaction record.
type Type string

const (
	// TypePhaseBoundary marks a univariant phase boundary curve.
	TypePhaseBoundary Type = "phase_boundary"
	// TypeCalibration marks a reaction used for thermodynamic calibration.
	TypeCalibration Type = "rxn_calibration"
	// TypeOther covers records whose provenance is neither of the above.
	TypeOther Type = "other"
)

// PlotType says how a record's numeric data should be rendered.
type PlotType string

const (
	PlotCurve PlotType = "curve"
	PlotPoint PlotType = "point"
)

// Conditions holds one sampled equilibrium condition along a reaction's
// curve, or the single condition of a point determination.  Mid values are
// the reported central estimate, half-ranges the reported uncertainty.
type Conditions struct {
	P          float64 `json:"P" yaml:"P"`
	PHalfRange float64 `json:"P_half_range" yaml:"P_half_range"`
	T          float64 `json:"T" yaml:"T"`
	THalfRange float64 `json:"T_half_range" yaml:"T_half_range"`
	LnK        float64 `json:"ln_K" yaml:"ln_K"`
	XCO2       float64 `json:"x_CO2" yaml:"x_CO2"`
}

// Reaction is one immutable row of the reaction database.  Reactants and
// Products hold the raw phase tokens as ingested (lowercased, possibly
// coefficient-prefixed); the index and query layers strip coefficients
// before comparing.
type Reaction struct {
	ID        string       `json:"id" yaml:"id"`
	Type      Type         `json:"type" yaml:"type"`
	PlotType  PlotType     `json:"plot_type" yaml:"plot_type"`
	Equation  string       `json:"rxn" yaml:"rxn"`
	Reactants []string     `json:"reactants" yaml:"reactants"`
	Products  []string     `json:"products" yaml:"products"`
	Reference string       `json:"ref" yaml:"ref"`
	Data      []Conditions `json:"data,omitempty" yaml:"data,omitempty"`
}

// StrippedReactants returns the coefficient-stripped reactant tokens.
func (r *Reaction) StrippedReactants() []string {
	return StripCoefficients(r.Reactants)
}

// StrippedProducts returns the coefficient-stripped product tokens.
func (r *Reaction) StrippedProducts() []string {
	return StripCoefficients(r.Products)
}

// ─────────────────────────────────────────────────────────────────────────────
// Table
// ─────────────────────────────────────────────────────────────────────────────

// Table is the read-only "original" reaction table loaded at startup.  All
// filtering returns subsets of its rows; the table itself is never mutated
// after construction.
type Table struct {
	rows  []Reaction
	byID  map[string]int
	order []string
}

// TableOptions controls Table construction.
type TableOptions struct {
	// AllowEmpty permits building a table with zero rows.  The default is
	// to reject an empty input, since an empty database almost always
	// indicates a broken ingestion path.
	AllowEmpty bool
}

// NewTable validates rows and builds the table.  Every row must carry the
// required fields id, type, rxn and ref; a missing field fails the whole
// load with a schema error and no table is returned.
func NewTable(rows []Reaction, opts TableOptions) (*Table, error) {
	if len(rows) == 0 {
		if !opts.AllowEmpty {
			return nil, errors.New(errors.ErrCodeReactionTableEmpty, "reaction table is empty")
		}
		return &Table{byID: map[string]int{}}, nil
	}

	byID := make(map[string]int, len(rows))
	order := make([]string, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		if err := validateRow(i, r); err != nil {
			return nil, err
		}
		if _, dup := byID[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeReactionSchema,
				fmt.Sprintf("duplicate reaction id %q at row %d", r.ID, i))
		}
		byID[r.ID] = i
		order = append(order, r.ID)
	}

	return &Table{rows: rows, byID: byID, order: order}, nil
}

func validateRow(i int, r *Reaction) error {
	missing := ""
	switch {
	case r.ID == "":
		missing = "id"
	case r.Type == "":
		missing = "type"
	case r.Equation == "":
		missing = "rxn"
	case r.Reference == "":
		missing = "ref"
	}
	if missing != "" {
		return errors.New(errors.ErrCodeReactionSchema,
			fmt.Sprintf("row %d is missing required field %q", i, missing))
	}
	return nil
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns all rows in table order.  The returned slice is shared with
// the table and must not be modified.
func (t *Table) Rows() []Reaction { return t.rows }

// IDs returns all reaction ids in table order.
func (t *Table) IDs() []string { return t.order }

// Get returns the row with the given id, or false when absent.
func (t *Table) Get(id string) (Reaction, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Reaction{}, false
	}
	return t.rows[i], true
}

// Contains reports whether id is present in the table.
func (t *Table) Contains(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Subset returns the rows whose id is in ids, preserving table order.  Ids
// not present in the table are ignored.
func (t *Table) Subset(ids IDSet) []Reaction {
	out := make([]Reaction, 0, len(ids))
	for _, id := range t.order {
		if ids.Has(id) {
			out = append(out, t.rows[t.byID[id]])
		}
	}
	return out
}
