package reaction

import "sort"

// CurveMidpoint is the plot-label anchor of one reaction: the condition at
// the middle of its equilibrium curve after sorting by temperature.
type CurveMidpoint struct {
	ID       string  `json:"id"`
	Equation string  `json:"rxn"`
	T        float64 `json:"T"`
	P        float64 `json:"P"`
}

// Midpoints computes a label anchor for every row that carries curve or
// point data.  Conditions are sorted by ascending temperature; an odd count
// anchors at the middle sample and an even count at the mean of the two
// middle samples.  Rows without numeric data are skipped.
func Midpoints(rows []Reaction) []CurveMidpoint {
	out := make([]CurveMidpoint, 0, len(rows))
	for _, r := range rows {
		if len(r.Data) == 0 {
			continue
		}
		conds := append([]Conditions(nil), r.Data...)
		sort.SliceStable(conds, func(i, j int) bool { return conds[i].T < conds[j].T })

		n := len(conds)
		mp := CurveMidpoint{ID: r.ID, Equation: r.Equation}
		if n%2 == 1 {
			mid := conds[n/2]
			mp.T, mp.P = mid.T, mid.P
		} else {
			a, b := conds[n/2-1], conds[n/2]
			mp.T = (a.T + b.T) / 2
			mp.P = (a.P + b.P) / 2
		}
		out = append(out, mp)
	}
	return out
}
