package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCoefficients(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "mixed coefficients",
			tokens: []string{"2h2o", "h2o", "10sio2", ""},
			want:   []string{"h2o", "h2o", "sio2"},
		},
		{
			name:   "coefficient with space",
			tokens: []string{"2 h2o", "3\tqz"},
			want:   []string{"h2o", "qz"},
		},
		{
			name:   "digits only becomes empty and is dropped",
			tokens: []string{"42", "ky"},
			want:   []string{"ky"},
		},
		{
			name:   "order and duplicates preserved",
			tokens: []string{"sil", "2sil", "and", "sil"},
			want:   []string{"sil", "sil", "and", "sil"},
		},
		{
			name:   "empty input",
			tokens: []string{},
			want:   []string{},
		},
		{
			name:   "interior digits are kept",
			tokens: []string{"h2o", "sio2"},
			want:   []string{"h2o", "sio2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCoefficients(tt.tokens))
		})
	}
}

func TestNormalizeCase(t *testing.T) {
	assert.Equal(t, "h2o", NormalizeCase("H2O"))
	assert.Equal(t, "ky", NormalizeCase("ky"))
}

func TestNormalizeTokens(t *testing.T) {
	got := NormalizeTokens([]string{"2H2O", "Ky", "", "10SiO2"})
	assert.Equal(t, []string{"h2o", "ky", "sio2"}, got)
}

func TestCanonicalAbbrev(t *testing.T) {
	assert.Equal(t, "sil", CanonicalAbbrev("sill"))
	assert.Equal(t, "wad", CanonicalAbbrev("wd"))
	assert.Equal(t, "wad", CanonicalAbbrev("wa"))
	assert.Equal(t, "wad", CanonicalAbbrev("wds"))
	assert.Equal(t, "ky", CanonicalAbbrev("ky"))
}

func TestLexicon(t *testing.T) {
	lx := NewLexicon([]PhaseEntry{
		{Abbrev: "ky", Name: "kyanite", Formula: "Al2SiO5"},
		{Abbrev: "sill", Name: "sillimanite", Formula: "Al2SiO5"},
		{Abbrev: "and", Name: "andalusite", Formula: "Al2SiO5"},
		{Abbrev: "qz", Name: "quartz", Formula: "SiO2"},
	})

	e, ok := lx.Entry("ky")
	assert.True(t, ok)
	assert.Equal(t, "kyanite", e.Name)

	// Variant abbreviations are canonicalised before lookup.
	e, ok = lx.Entry("sill")
	assert.True(t, ok)
	assert.Equal(t, "sil", e.Abbrev)
	assert.Equal(t, "sillimanite", e.Name)

	assert.Equal(t, []string{"ky"}, lx.AbbrevsForName("Kyanite"))
	assert.ElementsMatch(t, []string{"ky", "sil", "and"}, lx.AbbrevsForFormula("al2sio5"))
	assert.Empty(t, lx.AbbrevsForName("corundum"))

	assert.Equal(t, []string{"and", "ky", "qz", "sil"}, lx.Abbrevs())

	_, ok = lx.Entry("cor")
	assert.False(t, ok)
}
