package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// polynomialSteps is how many (T, P) samples each boundary polynomial is
// evaluated at.
const polynomialSteps = 100

var arrowRe = regexp.MustCompile(`\s*=>\s*`)
var plusRe = regexp.MustCompile(`\s*\+\s*`)

// Preprocessor converts a raw literature CSV into one preprocessed YAML
// entry per reaction.  Each CSV row carries up to three reactant and three
// product phases, the reaction string, a pressure polynomial in temperature
// (P = b + t1*T + t2*T^2 + t3*T^3 + t4*T^4) with its valid T range, and
// citation columns.
type Preprocessor struct {
	DatasetID string
	OutputDir string
	Logger    logging.Logger
}

type csvRow map[string]string

// Run reads the CSV at path and writes <dataset-id>-NNN.yml files to the
// output directory, creating it when needed.  It returns the number of
// entries written.
func (p *Preprocessor) Run(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatasetNotFound,
			fmt.Sprintf("cannot open raw dataset %q", path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatasetParseFailed,
			fmt.Sprintf("cannot parse raw dataset %q", path))
	}
	if len(records) < 2 {
		return 0, errors.New(errors.ErrCodeDatasetParseFailed,
			fmt.Sprintf("raw dataset %q has no data rows", path))
	}

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatasetWriteFailed,
			fmt.Sprintf("cannot create output directory %q", p.OutputDir))
	}

	header := records[0]
	written := 0
	for i, record := range records[1:] {
		row := make(csvRow, len(header))
		for j, col := range header {
			if j < len(record) {
				row[strings.TrimSpace(col)] = strings.TrimSpace(record[j])
			}
		}
		entry, err := p.processRow(row, i+1)
		if err != nil {
			return written, err
		}
		out := filepath.Join(p.OutputDir, fmt.Sprintf("%s-%03d.yml", p.DatasetID, i+1))
		if err := writeEntry(out, entry); err != nil {
			return written, err
		}
		written++
	}
	p.Logger.Info("preprocessed raw dataset",
		logging.String("path", path), logging.Int("entries", written))
	return written, nil
}

func (r csvRow) float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (p *Preprocessor) processRow(row csvRow, n int) (map[string]interface{}, error) {
	reactants := collectPhases(row, "reactant")
	products := collectPhases(row, "product")

	// Melting studies list only the melt product; the solid being melted
	// comes from the formula column.
	if len(reactants) == 0 && containsMelt(products) {
		if formula := strings.ToLower(row["formula"]); formula != "" {
			reactants = []string{formula}
		}
	}

	equation := strings.ToLower(row["rxn"])
	if equation == "" || equation == "melt" {
		equation = strings.Join(reactants, " + ") + " => " + strings.Join(products, " + ")
	} else {
		equation = plusRe.ReplaceAllString(arrowRe.ReplaceAllString(equation, " => "), " + ")
	}
	equation = normalizeEquationAbbrevs(equation)

	tmin, okMin := row.float("tmin")
	tmax, okMax := row.float("tmax")
	if !okMin || !okMax || tmax < tmin {
		return nil, errors.New(errors.ErrCodeDatasetParseFailed,
			fmt.Sprintf("row %d has an invalid temperature range", n))
	}

	data := samplePolynomial(row, tmin, tmax)

	return map[string]interface{}{
		"id":        fmt.Sprintf("%s-%03d", p.DatasetID, n),
		"name":      fmt.Sprintf("%s-%03d", p.DatasetID, n),
		"source":    p.DatasetID,
		"type":      string(reaction.TypePhaseBoundary),
		"plot_type": string(reaction.PlotCurve),
		"rxn":       equation,
		"reactants": reactants,
		"products":  products,
		"data":      data,
		"metadata":  buildMetadata(row),
	}, nil
}

func collectPhases(row csvRow, prefix string) []string {
	var out []string
	for i := 1; i <= 3; i++ {
		v := strings.ToLower(row[fmt.Sprintf("%s%d", prefix, i)])
		if v == "" {
			continue
		}
		out = append(out, reaction.CanonicalAbbrev(v))
	}
	return out
}

func containsMelt(phases []string) bool {
	for _, p := range phases {
		if strings.Contains(p, "melt") {
			return true
		}
	}
	return false
}

// normalizeEquationAbbrevs rewrites variant phase abbreviations inside a
// reaction string, keeping any stoichiometric coefficient prefix.
func normalizeEquationAbbrevs(equation string) string {
	fields := strings.Fields(equation)
	for i, field := range fields {
		j := 0
		for j < len(field) && field[j] >= '0' && field[j] <= '9' {
			j++
		}
		fields[i] = field[:j] + reaction.CanonicalAbbrev(field[j:])
	}
	return strings.Join(fields, " ")
}

// samplePolynomial evaluates the pressure polynomial at evenly spaced
// temperatures across [tmin, tmax] and packages the samples in the YAML
// data layout.  Values are rounded to three decimals like the published
// datasets.
func samplePolynomial(row csvRow, tmin, tmax float64) map[string]interface{} {
	b, _ := row.float("b")
	terms := make([]float64, 4)
	for i := range terms {
		terms[i], _ = row.float(fmt.Sprintf("t%d", i+1))
	}

	ts := make([]float64, polynomialSteps)
	ps := make([]float64, polynomialSteps)
	zeros := make([]float64, polynomialSteps)
	step := (tmax - tmin) / float64(polynomialSteps-1)
	for i := 0; i < polynomialSteps; i++ {
		t := tmin + step*float64(i)
		p := b
		for k, coeff := range terms {
			p += coeff * math.Pow(t, float64(k+1))
		}
		ts[i] = round3(t)
		ps[i] = round3(p)
	}

	return map[string]interface{}{
		"P":     map[string]interface{}{"mid": ps, "half_range": zeros},
		"T":     map[string]interface{}{"mid": ts, "half_range": zeros},
		"ln_K":  map[string]interface{}{"mid": zeros, "half_range": zeros},
		"x_CO2": map[string]interface{}{"mid": zeros, "half_range": zeros},
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func buildMetadata(row csvRow) map[string]interface{} {
	ref := map[string]interface{}{}
	for _, k := range []string{"doi", "authors", "year", "title", "journal", "volume", "pages"} {
		if v := row[k]; v != "" {
			ref[k] = v
		}
	}

	authors := strings.ReplaceAll(row["authors"], ";", ",")
	if authors == "" {
		authors = "Unknown"
	}
	year := row["year"]
	if year == "" {
		year = "n.d."
	}
	ref["short_cite"] = fmt.Sprintf("%s, %s", authors, year)

	polynomial := map[string]interface{}{}
	for _, k := range []string{"b", "t1", "t2", "t3", "t4", "pmin", "pmax", "tmin", "tmax"} {
		if v, ok := row.float(k); ok {
			polynomial[k] = v
		}
	}

	return map[string]interface{}{
		"ref":            ref,
		"rxn_polynomial": polynomial,
	}
}

func writeEntry(path string, entry map[string]interface{}) error {
	raw, err := yaml.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization,
			fmt.Sprintf("cannot marshal entry %q", path))
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatasetWriteFailed,
			fmt.Sprintf("cannot write entry %q", path))
	}
	return nil
}
