package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex(t *testing.T) {
	tbl := mustTable(t,
		row("r1", []string{"2ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
		row("r3", []string{"ky", "qz"}, []string{"sil", "h2o"}),
	)
	idx := BuildIndex(tbl)

	assert.Equal(t, []string{"r1", "r3"}, idx.IDsForPhases([]string{"ky"}, ReactantSide).Sorted())
	assert.Equal(t, []string{"r2"}, idx.IDsForPhases([]string{"and"}, ReactantSide).Sorted())
	assert.Equal(t, []string{"r2", "r3"}, idx.IDsForPhases([]string{"sil"}, ProductSide).Sorted())
	assert.Empty(t, idx.IDsForPhases([]string{"sil"}, ReactantSide))
}

func TestPhaseIndex_IDsForPhases_Union(t *testing.T) {
	tbl := mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
	)
	idx := BuildIndex(tbl)

	got := idx.IDsForPhases([]string{"ky", "and"}, ReactantSide)
	assert.Equal(t, []string{"r1", "r2"}, got.Sorted())
}

func TestPhaseIndex_IDsForPhases_EmptyInput(t *testing.T) {
	tbl := mustTable(t, row("r1", []string{"ky"}, []string{"and"}))
	idx := BuildIndex(tbl)

	assert.Equal(t, 0, idx.IDsForPhases(nil, ReactantSide).Len())
	assert.Equal(t, 0, idx.IDsForPhases([]string{}, ProductSide).Len())
}

func TestPhaseIndex_UnknownPhase(t *testing.T) {
	tbl := mustTable(t, row("r1", []string{"ky"}, []string{"and"}))
	idx := BuildIndex(tbl)

	assert.Equal(t, 0, idx.IDsForPhases([]string{"corundum"}, ReactantSide).Len())
}

func TestPhaseIndex_UniquePhases(t *testing.T) {
	tbl := mustTable(t,
		row("r1", []string{"2ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
	)
	idx := BuildIndex(tbl)

	assert.Equal(t, []string{"and", "ky", "sil"}, idx.UniquePhases())
}

func TestBuildIndex_Idempotent(t *testing.T) {
	tbl := mustTable(t,
		row("r1", []string{"ky"}, []string{"and"}),
		row("r2", []string{"and"}, []string{"sil"}),
	)

	a := BuildIndex(tbl)
	b := BuildIndex(tbl)
	require.Equal(t, a.UniquePhases(), b.UniquePhases())
	for _, p := range a.UniquePhases() {
		assert.Equal(t,
			a.IDsForPhases([]string{p}, ReactantSide).Sorted(),
			b.IDsForPhases([]string{p}, ReactantSide).Sorted())
		assert.Equal(t,
			a.IDsForPhases([]string{p}, ProductSide).Sorted(),
			b.IDsForPhases([]string{p}, ProductSide).Sorted())
	}
}
