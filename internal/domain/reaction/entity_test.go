package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

func row(id string, reactants, products []string) Reaction {
	return Reaction{
		ID:        id,
		Type:      TypePhaseBoundary,
		PlotType:  PlotCurve,
		Equation:  "test reaction " + id,
		Reactants: reactants,
		Products:  products,
		Reference: "Test (2026)",
	}
}

func mustTable(t *testing.T, rows ...Reaction) *Table {
	t.Helper()
	tbl, err := NewTable(rows, TableOptions{})
	require.NoError(t, err)
	return tbl
}

func TestNewTable_Empty(t *testing.T) {
	_, err := NewTable(nil, TableOptions{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReactionTableEmpty, errors.GetCode(err))

	tbl, err := NewTable(nil, TableOptions{AllowEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestNewTable_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		row  Reaction
	}{
		{"missing id", Reaction{Type: TypeOther, Equation: "a = b", Reference: "x"}},
		{"missing type", Reaction{ID: "1", Equation: "a = b", Reference: "x"}},
		{"missing rxn", Reaction{ID: "1", Type: TypeOther, Reference: "x"}},
		{"missing ref", Reaction{ID: "1", Type: TypeOther, Equation: "a = b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable([]Reaction{tt.row}, TableOptions{})
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeReactionSchema, errors.GetCode(err))
		})
	}
}

func TestNewTable_DuplicateID(t *testing.T) {
	_, err := NewTable([]Reaction{
		row("r1", []string{"ky"}, []string{"and"}),
		row("r1", []string{"and"}, []string{"sil"}),
	}, TableOptions{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReactionSchema, errors.GetCode(err))
}

func TestTable_GetAndContains(t *testing.T) {
	tbl := mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
	)

	got, ok := tbl.Get("r2")
	require.True(t, ok)
	assert.Equal(t, []string{"and"}, got.Reactants)

	_, ok = tbl.Get("r9")
	assert.False(t, ok)

	assert.True(t, tbl.Contains("r1"))
	assert.False(t, tbl.Contains(""))
}

func TestTable_SubsetPreservesTableOrder(t *testing.T) {
	tbl := mustTable(t,
		row("r1", []string{"a"}, []string{"b"}),
		row("r2", []string{"b"}, []string{"c"}),
		row("r3", []string{"c"}, []string{"d"}),
	)

	got := tbl.Subset(NewIDSet("r3", "r1", "missing"))
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[1].ID)
}

func TestReaction_StrippedSides(t *testing.T) {
	r := row("r1", []string{"2ky", "qz"}, []string{"3sil", ""})
	assert.Equal(t, []string{"ky", "qz"}, r.StrippedReactants())
	assert.Equal(t, []string{"sil"}, r.StrippedProducts())
}
