// Package explorer is the application service over the reaction engine.  It
// owns the loaded table snapshot, rebuilds it wholesale on reload, caches
// query answers, publishes lifecycle events, and records metrics.  The
// HTTP and CLI interfaces call into this package only.
package explorer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/rxndb-explorer/internal/config"
	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/database/redis"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// snapshot bundles one loaded table with every structure derived from it.
// A snapshot is immutable except for its lazily built groupings, which are
// guarded by their own mutex.  Reload builds a fresh snapshot and swaps it
// in; readers holding the old one keep a consistent view.
type snapshot struct {
	table   *reaction.Table
	engine  *reaction.Engine
	lexicon *reaction.Lexicon
	version int64

	groupMu   sync.Mutex
	groupings map[reaction.Method]*reaction.Grouping
}

// Service answers explorer queries over the current snapshot.
type Service struct {
	repo      reaction.Repository
	cache     redis.Cache
	publisher kafka.Publisher
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	cfg       config.ExplorerConfig

	allowEmpty bool
	source     string

	mu   sync.RWMutex
	snap *snapshot
}

// Option customises Service construction.
type Option func(*Service)

// WithCache enables Redis-backed query caching.
func WithCache(c redis.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithPublisher sets the lifecycle event publisher.
func WithPublisher(p kafka.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics enables metric recording.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAllowEmpty permits loading an empty table.
func WithAllowEmpty(allow bool) Option {
	return func(s *Service) { s.allowEmpty = allow }
}

// WithSource labels metrics and events with the backing store kind.
func WithSource(source string) Option {
	return func(s *Service) { s.source = source }
}

// NewService builds the service and performs the initial load.
func NewService(ctx context.Context, repo reaction.Repository, cfg config.ExplorerConfig,
	log logging.Logger, opts ...Option) (*Service, error) {

	s := &Service{
		repo:      repo,
		publisher: kafka.NopPublisher{},
		logger:    log,
		cfg:       cfg,
		source:    "yaml",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.DefaultMethod == "" {
		s.cfg.DefaultMethod = string(reaction.MethodAnd)
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle
// ─────────────────────────────────────────────────────────────────────────────

// Reload loads the table from the repository, rebuilds the index and
// lexicon, and atomically swaps the new snapshot in.  On failure the
// previous snapshot stays active.
func (s *Service) Reload(ctx context.Context) error {
	start := time.Now()

	rows, err := s.repo.LoadRows(ctx)
	if err != nil {
		s.countReload("error")
		return err
	}
	table, err := reaction.NewTable(rows, reaction.TableOptions{AllowEmpty: s.allowEmpty})
	if err != nil {
		s.countReload("error")
		return err
	}
	entries, err := s.repo.LoadLexicon(ctx)
	if err != nil {
		s.countReload("error")
		return err
	}

	engine := reaction.NewEngine(table)
	next := &snapshot{
		table:     table,
		engine:    engine,
		lexicon:   reaction.NewLexicon(entries),
		version:   time.Now().UnixNano(),
		groupings: make(map[reaction.Method]*reaction.Grouping),
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	if s.cache != nil {
		if _, err := s.cache.DeleteByPrefix(ctx, "q:"); err != nil {
			s.logger.Warn("cache invalidation failed", logging.Err(err))
		}
	}

	elapsed := time.Since(start)
	phases := len(engine.UniquePhases())
	if s.metrics != nil {
		s.metrics.ReloadDuration.WithLabelValues(s.source).Observe(elapsed.Seconds())
		s.metrics.ReactionRows.WithLabelValues(s.source).Set(float64(table.Len()))
		s.metrics.UniquePhases.WithLabelValues(s.source).Set(float64(phases))
	}
	s.countReload("ok")

	if err := s.publisher.PublishTableReloaded(ctx, kafka.TableReloadedPayload{
		Rows:       table.Len(),
		Phases:     phases,
		Source:     s.source,
		ReloadedAt: time.Now().UTC(),
	}); err != nil {
		// Benign: the reload itself succeeded.
		s.logger.Warn("table reload event not published", logging.Err(err))
	}

	s.logger.Info("reaction table reloaded",
		logging.Int("rows", table.Len()),
		logging.Int("phases", phases),
		logging.Duration("elapsed", elapsed))
	return nil
}

func (s *Service) countReload(status string) {
	if s.metrics != nil {
		s.metrics.ReloadTotal.WithLabelValues(s.source, status).Inc()
	}
}

func (s *Service) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// FilterQuery describes one filter request.  Empty fields mean no
// restriction on that dimension.
type FilterQuery struct {
	IDs       []string        `json:"ids,omitempty" form:"id"`
	Reactants []string        `json:"reactants,omitempty" form:"reactant"`
	Products  []string        `json:"products,omitempty" form:"product"`
	Types     []reaction.Type `json:"types,omitempty" form:"type"`
	Method    string          `json:"method,omitempty" form:"method"`
}

// Phases returns every selectable phase token.
func (s *Service) Phases(context.Context) []string {
	return s.snapshot().engine.UniquePhases()
}

// InitialPhases returns the configured startup selection, restricted to
// phases actually present in the table.
func (s *Service) InitialPhases(ctx context.Context) []string {
	known := reaction.NewIDSet(s.Phases(ctx)...)
	out := make([]string, 0, len(s.cfg.InitialPhases))
	for _, p := range s.cfg.InitialPhases {
		if known.Has(reaction.NormalizeCase(p)) {
			out = append(out, reaction.NormalizeCase(p))
		}
	}
	return out
}

// Filter answers a combined filter request: reactant/product criteria with
// the query's combination method, then id and type restrictions.  Results
// are cached until the next reload.
func (s *Service) Filter(ctx context.Context, q FilterQuery) ([]reaction.Reaction, error) {
	start := time.Now()
	method, err := s.method(q.Method)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot()

	var out []reaction.Reaction
	err = s.cached(ctx, snap, "filter", q, &out, func() (interface{}, error) {
		return s.runFilter(snap, q, method)
	})
	if err != nil {
		return nil, err
	}
	s.observe("filter", string(method), start, len(out))
	return out, nil
}

func (s *Service) runFilter(snap *snapshot, q FilterQuery, method reaction.Method) ([]reaction.Reaction, error) {
	engine := snap.engine

	rows, err := engine.FilterByReactantsAndProducts(
		snap.resolvePhases(q.Reactants), snap.resolvePhases(q.Products), method)
	if err != nil {
		return nil, err
	}
	rows = restrictByIDs(rows, q.IDs)
	rows = restrictByTypes(rows, q.Types)
	return rows, nil
}

func restrictByIDs(rows []reaction.Reaction, ids []string) []reaction.Reaction {
	if len(ids) == 0 {
		return rows
	}
	want := reaction.NewIDSet(ids...)
	out := make([]reaction.Reaction, 0, len(rows))
	for _, r := range rows {
		if want.Has(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func restrictByTypes(rows []reaction.Reaction, types []reaction.Type) []reaction.Reaction {
	if len(types) == 0 {
		return rows
	}
	want := make(map[reaction.Type]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}
	out := make([]reaction.Reaction, 0, len(rows))
	for _, r := range rows {
		if _, ok := want[r.Type]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FindSimilar widens a selection to every reaction sharing phases with it:
// the selected rows' reactant and product phases become a fresh filter over
// the whole table, using the query's combination method.  The checkbox
// criteria still scope which of the selected ids seed the expansion.
func (s *Service) FindSimilar(ctx context.Context, q FilterQuery) ([]reaction.Reaction, error) {
	start := time.Now()
	method, err := s.method(q.Method)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot()

	var out []reaction.Reaction
	err = s.cached(ctx, snap, "similar", q, &out, func() (interface{}, error) {
		seeds, err := s.runFilter(snap, q, method)
		if err != nil {
			return nil, err
		}
		if len(q.IDs) == 0 || len(seeds) == 0 {
			return seeds, nil
		}
		ids := make([]string, 0, len(seeds))
		for _, r := range seeds {
			ids = append(ids, r.ID)
		}
		reactants, products := snap.engine.PhasesForIDs(ids)
		return snap.engine.FilterByReactantsAndProducts(reactants, products, method)
	})
	if err != nil {
		return nil, err
	}
	s.observe("similar", string(method), start, len(out))
	return out, nil
}

// GroupInfo summarises one similarity group.
type GroupInfo struct {
	Group int      `json:"group"`
	Color string   `json:"color"`
	IDs   []string `json:"ids"`
}

// Groups returns the complete similarity partition for the given method,
// building it on first use per snapshot.
func (s *Service) Groups(ctx context.Context, methodName string) ([]GroupInfo, error) {
	method, err := s.method(methodName)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot()
	g, err := s.grouping(ctx, snap, method)
	if err != nil {
		return nil, err
	}

	out := make([]GroupInfo, g.Groups())
	for i := range out {
		out[i] = GroupInfo{
			Group: i,
			IDs:   g.Members(i),
		}
	}
	for _, id := range snap.table.IDs() {
		out[g.GroupFor(id)].Color = g.ColorForGroup(id)
	}
	return out, nil
}

// Annotated filters like Filter and augments every row with its similarity
// group and color under the query's method.
func (s *Service) Annotated(ctx context.Context, q FilterQuery) ([]reaction.Annotated, error) {
	start := time.Now()
	method, err := s.method(q.Method)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot()

	rows, err := s.runFilter(snap, q, method)
	if err != nil {
		return nil, err
	}
	g, err := s.grouping(ctx, snap, method)
	if err != nil {
		return nil, err
	}
	s.observe("annotated", string(method), start, len(rows))
	return g.Annotate(rows), nil
}

// Midpoints returns the plot-label anchors for the rows selected by ids, or
// for the whole table when ids is empty.
func (s *Service) Midpoints(_ context.Context, ids []string) []reaction.CurveMidpoint {
	snap := s.snapshot()
	return reaction.Midpoints(snap.engine.FilterByIDs(ids))
}

// PhasesForIDs exposes the engine's phase extraction for a selection.
func (s *Service) PhasesForIDs(_ context.Context, ids []string) (reactants, products []string) {
	return s.snapshot().engine.PhasesForIDs(ids)
}

// Lexicon returns the current phase cross-reference.
func (s *Service) Lexicon(context.Context) *reaction.Lexicon {
	return s.snapshot().lexicon
}

// Rows returns the full original table.
func (s *Service) Rows(context.Context) []reaction.Reaction {
	return s.snapshot().table.Rows()
}

// ─────────────────────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) method(name string) (reaction.Method, error) {
	if name == "" {
		name = s.cfg.DefaultMethod
	}
	return reaction.ParseMethod(name)
}

// resolvePhases translates user-facing tokens to canonical abbreviations:
// known abbreviations pass through, common names and formulas expand to
// their abbreviations, anything else is kept as-is for the engine to miss.
func (sn *snapshot) resolvePhases(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		norm := reaction.CanonicalAbbrev(reaction.NormalizeCase(tok))
		if _, ok := sn.lexicon.Entry(norm); ok {
			out = append(out, norm)
			continue
		}
		if abbrevs := sn.lexicon.AbbrevsForName(norm); len(abbrevs) > 0 {
			out = append(out, abbrevs...)
			continue
		}
		if abbrevs := sn.lexicon.AbbrevsForFormula(norm); len(abbrevs) > 0 {
			out = append(out, abbrevs...)
			continue
		}
		out = append(out, norm)
	}
	return out
}

// grouping returns the snapshot's grouping for method, building it on
// first use.
func (s *Service) grouping(ctx context.Context, snap *snapshot, method reaction.Method) (*reaction.Grouping, error) {
	snap.groupMu.Lock()
	defer snap.groupMu.Unlock()

	if g, ok := snap.groupings[method]; ok {
		return g, nil
	}

	start := time.Now()
	g, err := reaction.BuildGroups(snap.engine, method)
	if err != nil {
		if s.metrics != nil {
			s.metrics.GroupingRebuildTotal.WithLabelValues(string(method), "error").Inc()
		}
		return nil, err
	}
	snap.groupings[method] = g

	if s.metrics != nil {
		s.metrics.GroupingRebuildTotal.WithLabelValues(string(method), "ok").Inc()
		s.metrics.GroupingRebuildDuration.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())
		s.metrics.GroupCount.WithLabelValues(string(method)).Set(float64(g.Groups()))
	}
	if err := s.publisher.PublishGroupingRebuilt(ctx, kafka.GroupingRebuiltPayload{
		Method:    string(method),
		Groups:    g.Groups(),
		Rows:      snap.table.Len(),
		RebuiltAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("grouping rebuild event not published", logging.Err(err))
	}
	return g, nil
}

// cached runs loader through the cache when one is configured.  Every key
// embeds the snapshot version so stale entries can never answer for a
// reloaded table.
func (s *Service) cached(ctx context.Context, snap *snapshot, op string, q FilterQuery,
	dest *[]reaction.Reaction, loader func() (interface{}, error)) error {

	if s.cache == nil {
		value, err := loader()
		if err != nil {
			return err
		}
		*dest = value.([]reaction.Reaction)
		return nil
	}

	key := cacheKey(snap.version, op, q)
	hit := true
	err := s.cache.GetOrSet(ctx, key, dest, s.cfg.CacheTTL, func(context.Context) (interface{}, error) {
		hit = false
		return loader()
	})
	if err != nil {
		// The cache layer never gets to veto a computable answer.
		if appErr, ok := err.(*errors.AppError); ok &&
			(appErr.Code == errors.ErrCodeCacheError || appErr.Code == errors.ErrCodeSerialization) {
			s.logger.Warn("cache bypassed", logging.String("key", key), logging.Err(err))
			value, lerr := loader()
			if lerr != nil {
				return lerr
			}
			*dest = value.([]reaction.Reaction)
			return nil
		}
		return err
	}
	if s.metrics != nil {
		if hit {
			s.metrics.CacheHitsTotal.WithLabelValues(op).Inc()
		} else {
			s.metrics.CacheMissesTotal.WithLabelValues(op).Inc()
		}
	}
	return nil
}

func cacheKey(version int64, op string, q FilterQuery) string {
	canonical := struct {
		V  int64
		Op string
		Q  FilterQuery
	}{version, op, canonicalQuery(q)}
	raw, _ := json.Marshal(canonical)
	sum := sha256.Sum256(raw)
	return "q:" + op + ":" + hex.EncodeToString(sum[:16])
}

// canonicalQuery sorts the query's slices so equivalent requests share a
// cache entry.
func canonicalQuery(q FilterQuery) FilterQuery {
	out := FilterQuery{Method: q.Method}
	out.IDs = sortedCopy(q.IDs)
	out.Reactants = sortedCopy(q.Reactants)
	out.Products = sortedCopy(q.Products)
	if len(q.Types) > 0 {
		types := make([]string, 0, len(q.Types))
		for _, t := range q.Types {
			types = append(types, string(t))
		}
		sort.Strings(types)
		out.Types = make([]reaction.Type, 0, len(types))
		for _, t := range types {
			out.Types = append(out.Types, reaction.Type(t))
		}
	}
	return out
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func (s *Service) observe(op, method string, start time.Time, rows int) {
	if s.metrics == nil {
		return
	}
	s.metrics.FilterRequestsTotal.WithLabelValues(op, method).Inc()
	s.metrics.FilterDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	s.metrics.FilterResultRows.WithLabelValues(op).Observe(float64(rows))
}
