package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidpoints(t *testing.T) {
	withData := row("r1", []string{"ky"}, []string{"and"})
	withData.Data = []Conditions{
		{T: 900, P: 12},
		{T: 700, P: 8},
		{T: 800, P: 10},
	}
	even := row("r2", []string{"and"}, []string{"sil"})
	even.Data = []Conditions{
		{T: 600, P: 4},
		{T: 650, P: 6},
	}
	noData := row("r3", []string{"fo"}, []string{"wad"})

	got := Midpoints([]Reaction{withData, even, noData})
	require.Len(t, got, 2)

	// Odd sample count anchors at the middle condition after sorting by T.
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, 800.0, got[0].T)
	assert.Equal(t, 10.0, got[0].P)

	// Even sample count anchors at the mean of the two middle conditions.
	assert.Equal(t, "r2", got[1].ID)
	assert.Equal(t, 625.0, got[1].T)
	assert.Equal(t, 5.0, got[1].P)
}

func TestMidpoints_DoesNotReorderInput(t *testing.T) {
	r := row("r1", []string{"ky"}, []string{"and"})
	r.Data = []Conditions{{T: 900, P: 12}, {T: 700, P: 8}}

	_ = Midpoints([]Reaction{r})
	assert.Equal(t, 900.0, r.Data[0].T)
}
