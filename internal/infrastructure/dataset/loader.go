// Package dataset implements ingestion from preprocessed YAML entry files,
// plus the one-off preprocessing step that turns raw literature data into
// those files.  One YAML file holds one reaction: its phase lists, its
// sampled equilibrium conditions, and its citation metadata.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// lexiconFile is the optional per-directory phase cross-reference file.
const lexiconFile = "phases.yml"

// phaseList accepts either a YAML sequence or a bare scalar, lowercasing
// every token.  Early dataset files wrote single-phase sides as scalars.
type phaseList []string

func (p *phaseList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, strings.ToLower(item))
		}
		*p = out
		return nil
	case yaml.ScalarNode:
		var item string
		if err := value.Decode(&item); err != nil {
			return err
		}
		*p = []string{strings.ToLower(item)}
		return nil
	default:
		return fmt.Errorf("phase list must be a sequence or scalar, got %v", value.Kind)
	}
}

type series struct {
	Mid       []float64 `yaml:"mid"`
	HalfRange []float64 `yaml:"half_range"`
}

func (s series) at(i int) (mid, halfRange float64) {
	if i < len(s.Mid) {
		mid = s.Mid[i]
	}
	if i < len(s.HalfRange) {
		halfRange = s.HalfRange[i]
	}
	return mid, halfRange
}

type entryFile struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Source    string    `yaml:"source"`
	Type      string    `yaml:"type"`
	PlotType  string    `yaml:"plot_type"`
	Rxn       string    `yaml:"rxn"`
	Reactants phaseList `yaml:"reactants"`
	Products  phaseList `yaml:"products"`
	Data      struct {
		LnK  series `yaml:"ln_K"`
		XCO2 series `yaml:"x_CO2"`
		P    series `yaml:"P"`
		T    series `yaml:"T"`
	} `yaml:"data"`
	Metadata struct {
		Ref struct {
			ShortCite string `yaml:"short_cite"`
		} `yaml:"ref"`
	} `yaml:"metadata"`
}

// YAMLRepository loads reaction entries from one or more directories of
// preprocessed YAML files.  It implements reaction.Repository.
type YAMLRepository struct {
	dirs   []string
	logger logging.Logger
}

// NewYAMLRepository builds a repository over the given directories.  Every
// directory must exist.
func NewYAMLRepository(dirs []string, log logging.Logger) (*YAMLRepository, error) {
	if len(dirs) == 0 {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "no dataset directories configured")
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.New(errors.ErrCodeDatasetNotFound,
				fmt.Sprintf("dataset directory %q not found", dir))
		}
	}
	return &YAMLRepository{dirs: dirs, logger: log}, nil
}

// LoadRows reads every *.yml and *.yaml entry under the repository's
// directories in sorted filename order.
func (r *YAMLRepository) LoadRows(_ context.Context) ([]reaction.Reaction, error) {
	var rows []reaction.Reaction
	for _, dir := range r.dirs {
		files, err := listEntryFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			row, err := r.loadEntry(path)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		r.logger.Info("loaded dataset directory",
			logging.String("dir", dir), logging.Int("entries", len(files)))
	}
	return rows, nil
}

func listEntryFiles(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetNotFound,
			fmt.Sprintf("cannot read dataset directory %q", dir))
	}
	var files []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := filepath.Ext(name)
		if (ext != ".yml" && ext != ".yaml") || name == lexiconFile {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (r *YAMLRepository) loadEntry(path string) (reaction.Reaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return reaction.Reaction{}, errors.Wrap(err, errors.ErrCodeDatasetNotFound,
			fmt.Sprintf("cannot read dataset entry %q", path))
	}

	var entry entryFile
	if err := yaml.Unmarshal(raw, &entry); err != nil {
		return reaction.Reaction{}, errors.Wrap(err, errors.ErrCodeDatasetParseFailed,
			fmt.Sprintf("cannot parse dataset entry %q", path))
	}
	return entry.toReaction(), nil
}

func (e *entryFile) toReaction() reaction.Reaction {
	id := e.ID
	if id == "" {
		id = e.Name
	}

	plotType := reaction.PlotType(e.PlotType)
	if plotType == "" {
		plotType = reaction.PlotCurve
	}

	n := len(e.Data.P.Mid)
	if len(e.Data.T.Mid) > n {
		n = len(e.Data.T.Mid)
	}
	data := make([]reaction.Conditions, 0, n)
	for i := 0; i < n; i++ {
		var c reaction.Conditions
		c.P, c.PHalfRange = e.Data.P.at(i)
		c.T, c.THalfRange = e.Data.T.at(i)
		c.LnK, _ = e.Data.LnK.at(i)
		c.XCO2, _ = e.Data.XCO2.at(i)
		data = append(data, c)
	}

	return reaction.Reaction{
		ID:        id,
		Type:      reaction.Type(e.Type),
		PlotType:  plotType,
		Equation:  e.Rxn,
		Reactants: []string(e.Reactants),
		Products:  []string(e.Products),
		Reference: e.Metadata.Ref.ShortCite,
		Data:      data,
	}
}

// LoadLexicon reads the optional phases.yml cross-reference file from each
// directory.  Directories without one contribute nothing.
func (r *YAMLRepository) LoadLexicon(_ context.Context) ([]reaction.PhaseEntry, error) {
	var entries []reaction.PhaseEntry
	for _, dir := range r.dirs {
		path := filepath.Join(dir, lexiconFile)
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetNotFound,
				fmt.Sprintf("cannot read phase lexicon %q", path))
		}
		var file struct {
			Phases []reaction.PhaseEntry `yaml:"phases"`
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetParseFailed,
				fmt.Sprintf("cannot parse phase lexicon %q", path))
		}
		entries = append(entries, file.Phases...)
	}
	return entries, nil
}
