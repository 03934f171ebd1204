package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

func mustGroups(t *testing.T, e *Engine, method Method) *Grouping {
	t.Helper()
	g, err := BuildGroups(e, method)
	require.NoError(t, err)
	return g
}

func TestBuildGroups_UnknownMethod(t *testing.T) {
	e := newAlSiEngine(t)
	_, err := BuildGroups(e, Method("both"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReactionUnknownMethod, errors.GetCode(err))
}

func TestBuildGroups_ChainedReactionsShareGroup(t *testing.T) {
	// r1 produces the phase r2 consumes, which links them through the
	// reverse-direction rule even under MethodAnd.
	e := newAlSiEngine(t)
	g := mustGroups(t, e, MethodAnd)

	assert.Equal(t, g.GroupFor("r1"), g.GroupFor("r2"))
	assert.Equal(t, g.ColorForGroup("r1"), g.ColorForGroup("r2"))
	assert.Equal(t, 1, g.Groups())
}

func TestBuildGroups_ReversedReactionsShareGroup(t *testing.T) {
	e := NewEngine(mustTable(t,
		row("fwd", []string{"ky", "qz"}, []string{"sil"}),
		row("rev", []string{"sil"}, []string{"ky", "qz"}),
	))
	g := mustGroups(t, e, MethodAnd)

	assert.Equal(t, g.GroupFor("fwd"), g.GroupFor("rev"))
	assert.Equal(t, g.ColorForGroup("fwd"), g.ColorForGroup("rev"))
}

func TestBuildGroups_IsolatedReactionIsSingleton(t *testing.T) {
	e := NewEngine(mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
		row("lone", []string{"fo"}, []string{"wad"}),
	))
	g := mustGroups(t, e, MethodAnd)

	assert.Equal(t, g.GroupFor("r1"), g.GroupFor("r2"))
	assert.NotEqual(t, g.GroupFor("r1"), g.GroupFor("lone"))
	assert.Equal(t, []string{"lone"}, g.Members(g.GroupFor("lone")))
}

func TestBuildGroups_OneSidedRowsBecomeSingletons(t *testing.T) {
	empty := row("bare", nil, []string{"ky"})
	e := NewEngine(mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		empty,
	))
	g := mustGroups(t, e, MethodAnd)

	// "bare" has no reactants, so even though its product overlaps r1's
	// reactant it stays out of two-sided matching.
	assert.NotEqual(t, g.GroupFor("r1"), g.GroupFor("bare"))
	assert.Equal(t, []string{"bare"}, g.Members(g.GroupFor("bare")))
}

func TestBuildGroups_EveryIDAssignedExactlyOnce(t *testing.T) {
	e := NewEngine(mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
		row("r3", []string{"fo", "h2o"}, []string{"wad"}),
		row("r4", nil, []string{"qz"}),
	))
	g := mustGroups(t, e, MethodOr)

	seen := map[string]int{}
	for group := 0; group < g.Groups(); group++ {
		for _, id := range g.Members(group) {
			seen[id] = group
		}
	}
	assert.Len(t, seen, e.Table().Len())
	for _, id := range e.Table().IDs() {
		assert.Contains(t, seen, id)
	}
}

func TestBuildGroups_DenseGroupIDsFromZero(t *testing.T) {
	e := NewEngine(mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"fo"}, []string{"wad"}),
		row("r3", []string{"qz", "cor"}, []string{"sil"}),
	))
	g := mustGroups(t, e, MethodAnd)

	require.Equal(t, 3, g.Groups())
	assert.Equal(t, 0, g.GroupFor("r1"))
	assert.Equal(t, 1, g.GroupFor("r2"))
	assert.Equal(t, 2, g.GroupFor("r3"))
}

func TestBuildGroups_OrLinksSharedReactants(t *testing.T) {
	e := NewEngine(mustTable(t,
		row("r1", []string{"ky", "h2o"}, []string{"and"}),
		row("r2", []string{"h2o", "fo"}, []string{"wad"}),
	))

	gAnd := mustGroups(t, e, MethodAnd)
	gOr := mustGroups(t, e, MethodOr)

	// Sharing only a reactant is not enough under MethodAnd but links the
	// rows under MethodOr.
	assert.NotEqual(t, gAnd.GroupFor("r1"), gAnd.GroupFor("r2"))
	assert.Equal(t, gOr.GroupFor("r1"), gOr.GroupFor("r2"))
}

func TestBuildGroups_Deterministic(t *testing.T) {
	e := NewEngine(mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
		row("r3", []string{"fo"}, []string{"wad"}),
	))

	a := mustGroups(t, e, MethodAnd)
	b := mustGroups(t, e, MethodAnd)

	require.Equal(t, a.Groups(), b.Groups())
	for _, id := range e.Table().IDs() {
		assert.Equal(t, a.GroupFor(id), b.GroupFor(id))
		assert.Equal(t, a.ColorForGroup(id), b.ColorForGroup(id))
	}
}

func TestGrouping_UnknownIDSentinels(t *testing.T) {
	g := mustGroups(t, newAlSiEngine(t), MethodAnd)

	assert.Equal(t, UnknownGroup, g.GroupFor("stale"))
	assert.Equal(t, UnknownColor, g.ColorForGroup("stale"))
}

func TestGrouping_PaletteCycles(t *testing.T) {
	rows := make([]Reaction, 0, len(alphabetPalette)+1)
	for i := 0; i <= len(alphabetPalette); i++ {
		id := string(rune('a'+i/26)) + string(rune('a'+i%26))
		rows = append(rows, row(id, []string{"p" + id}, []string{"q" + id}))
	}
	e := NewEngine(mustTable(t, rows...))
	g := mustGroups(t, e, MethodAnd)

	require.Equal(t, len(alphabetPalette)+1, g.Groups())
	first := rows[0].ID
	wrapped := rows[len(alphabetPalette)].ID
	assert.Equal(t, g.ColorForGroup(first), g.ColorForGroup(wrapped))
	assert.NotEqual(t, g.ColorForGroup(first), g.ColorForGroup(rows[1].ID))
}

func TestGrouping_Annotate(t *testing.T) {
	e := newAlSiEngine(t)
	g := mustGroups(t, e, MethodAnd)

	rows := e.Table().Rows()
	annotated := g.Annotate(rows)
	require.Len(t, annotated, 2)
	assert.Equal(t, "r1", annotated[0].ID)
	assert.Equal(t, g.GroupFor("r1"), annotated[0].Group)
	assert.Equal(t, g.ColorForGroup("r1"), annotated[0].Color)
	assert.Equal(t, annotated[0].Color, annotated[1].Color)

	stale := g.Annotate([]Reaction{row("ghost", []string{"x"}, []string{"y"})})
	require.Len(t, stale, 1)
	assert.Equal(t, UnknownGroup, stale[0].Group)
	assert.Equal(t, UnknownColor, stale[0].Color)
}
