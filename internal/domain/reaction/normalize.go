package reaction

import (
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Token normalization
// ─────────────────────────────────────────────────────────────────────────────

// StripCoefficients removes a leading run of ASCII digits, and any
// whitespace following it, from each token.  Tokens that are empty after
// stripping are dropped.  Order and duplicates are preserved, so callers
// that need a set must de-duplicate themselves.
func StripCoefficients(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		stripped := stripCoefficient(tok)
		if stripped == "" {
			continue
		}
		out = append(out, stripped)
	}
	return out
}

func stripCoefficient(tok string) string {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	return strings.TrimLeft(tok[i:], " \t")
}

// NormalizeCase lowercases a phase token for consistent indexing.
func NormalizeCase(token string) string {
	return strings.ToLower(token)
}

// NormalizeTokens lowercases and coefficient-strips a token list in one
// pass, dropping tokens that are empty after stripping.
func NormalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		stripped := stripCoefficient(NormalizeCase(tok))
		if stripped == "" {
			continue
		}
		out = append(out, stripped)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Abbreviation lexicon
// ─────────────────────────────────────────────────────────────────────────────

// canonicalAbbrevs maps variant spellings seen in the literature sources to
// the abbreviation the database uses as its canonical key.
var canonicalAbbrevs = map[string]string{
	"sill": "sil",
	"wd":   "wad",
	"wa":   "wad",
	"wds":  "wad",
}

// CanonicalAbbrev resolves a phase abbreviation to its canonical spelling.
// Unknown abbreviations are returned unchanged.
func CanonicalAbbrev(token string) string {
	if canonical, ok := canonicalAbbrevs[token]; ok {
		return canonical
	}
	return token
}

// PhaseEntry cross-references one phase's abbreviation with its common
// mineral name and chemical formula.
type PhaseEntry struct {
	Abbrev  string `json:"abbrev" yaml:"abbrev"`
	Name    string `json:"name" yaml:"name"`
	Formula string `json:"formula" yaml:"formula"`
}

// Lexicon supports translation between the three display forms of a phase.
// The abbreviation is the canonical key space: every token reaching the
// index or query engine is an abbreviation, and name or formula input must
// be translated through the lexicon first.  Lookups are multi-valued since
// polymorphs share a formula.
type Lexicon struct {
	byAbbrev  map[string]PhaseEntry
	byName    map[string][]string
	byFormula map[string][]string
}

// NewLexicon builds a lexicon from phase metadata.  Entries are keyed by
// lowercased, canonicalised abbreviation; later duplicates of the same
// abbreviation are ignored.
func NewLexicon(entries []PhaseEntry) *Lexicon {
	lx := &Lexicon{
		byAbbrev:  make(map[string]PhaseEntry, len(entries)),
		byName:    make(map[string][]string),
		byFormula: make(map[string][]string),
	}
	for _, e := range entries {
		abbrev := CanonicalAbbrev(NormalizeCase(e.Abbrev))
		if abbrev == "" {
			continue
		}
		if _, seen := lx.byAbbrev[abbrev]; seen {
			continue
		}
		e.Abbrev = abbrev
		lx.byAbbrev[abbrev] = e
		if name := NormalizeCase(e.Name); name != "" {
			lx.byName[name] = append(lx.byName[name], abbrev)
		}
		if formula := NormalizeCase(e.Formula); formula != "" {
			lx.byFormula[formula] = append(lx.byFormula[formula], abbrev)
		}
	}
	return lx
}

// Entry returns the metadata for an abbreviation, or false when unknown.
func (l *Lexicon) Entry(abbrev string) (PhaseEntry, bool) {
	e, ok := l.byAbbrev[CanonicalAbbrev(NormalizeCase(abbrev))]
	return e, ok
}

// AbbrevsForName returns every abbreviation recorded for a common name.
func (l *Lexicon) AbbrevsForName(name string) []string {
	return append([]string(nil), l.byName[NormalizeCase(name)]...)
}

// AbbrevsForFormula returns every abbreviation recorded for a formula.
func (l *Lexicon) AbbrevsForFormula(formula string) []string {
	return append([]string(nil), l.byFormula[NormalizeCase(formula)]...)
}

// Abbrevs returns every known abbreviation in ascending order.
func (l *Lexicon) Abbrevs() []string {
	out := make([]string, 0, len(l.byAbbrev))
	for abbrev := range l.byAbbrev {
		out = append(out, abbrev)
	}
	sort.Strings(out)
	return out
}
