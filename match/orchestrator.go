package match

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/entitymatch/cache"
	"github.com/poiesic/entitymatch/core"
	"github.com/poiesic/entitymatch/gateway"
	"github.com/poiesic/entitymatch/geo"
	"github.com/poiesic/entitymatch/quality"
	"github.com/poiesic/entitymatch/runner"
	"github.com/poiesic/entitymatch/similarity"
	"github.com/poiesic/entitymatch/text"
)

// Options tune a single match call.
type Options struct {
	// Location is the caller's search location, empty for none.
	Location string

	// Context is free text describing why the entity is being searched,
	// used for quality context-relevance scoring.
	Context string

	// MaxResults overrides the configured result cap when positive.
	MaxResults int

	// ForceRefresh bypasses the cache read (the result is still written).
	ForceRefresh bool

	// Radius narrows or widens geographic boosting.
	Radius geo.Radius

	// PrioritizeLocal amplifies the same-country boost.
	PrioritizeLocal bool
}

// Result is the outcome of a single-entity match.
type Result struct {
	Matches          []core.DatasetMatch
	ProcessingTime   time.Duration
	CacheUsed        bool
	MatchesFound     int
	EarlyTermination bool
}

// Orchestrator runs the progressive search strategy against the
// reference-data gateway, combining the scorer, quality filter, and
// geographic ranking, with results cached by entity, location, and
// context.
type Orchestrator struct {
	gw      gateway.Gateway
	cache   *cache.ResultCache[[]core.DatasetMatch]
	norm    *text.Normalizer
	scorer  *similarity.Scorer
	geo     *geo.Scorer
	filter  *quality.Filter
	pool    *runner.Pool
	cfg     Config
	monitor Monitor
	logger  *slog.Logger

	ownsPool bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConfig sets the search configuration. Invalid fields fall back to
// defaults.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) { o.cfg = cfg.sanitize() }
}

// WithCache sets a custom result cache.
func WithCache(c *cache.ResultCache[[]core.DatasetMatch]) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithNormalizer sets a custom text normalizer.
func WithNormalizer(norm *text.Normalizer) Option {
	return func(o *Orchestrator) {
		if norm != nil {
			o.norm = norm
		}
	}
}

// WithScorer sets a custom similarity scorer.
func WithScorer(scorer *similarity.Scorer) Option {
	return func(o *Orchestrator) {
		if scorer != nil {
			o.scorer = scorer
		}
	}
}

// WithGeoScorer sets a custom geographic scorer.
func WithGeoScorer(scorer *geo.Scorer) Option {
	return func(o *Orchestrator) {
		if scorer != nil {
			o.geo = scorer
		}
	}
}

// WithQualityFilter sets a custom quality filter.
func WithQualityFilter(filter *quality.Filter) Option {
	return func(o *Orchestrator) {
		if filter != nil {
			o.filter = filter
		}
	}
}

// WithPool sets a shared runner pool. The orchestrator will not release a
// pool it did not create.
func WithPool(pool *runner.Pool) Option {
	return func(o *Orchestrator) {
		if pool != nil {
			o.pool = pool
			o.ownsPool = false
		}
	}
}

// WithMonitor sets a search monitor. Default is a no-op.
func WithMonitor(monitor Monitor) Option {
	return func(o *Orchestrator) {
		if monitor != nil {
			o.monitor = monitor
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// New creates an Orchestrator around a reference-data gateway. All other
// collaborators default sensibly and can be replaced with options.
func New(gw gateway.Gateway, opts ...Option) (*Orchestrator, error) {
	if gw == nil {
		return nil, ErrGatewayRequired
	}

	o := &Orchestrator{
		gw:      gw,
		cfg:     DefaultConfig(),
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.norm == nil {
		o.norm = text.NewNormalizer(nil)
	}
	if o.geo == nil {
		o.geo = geo.NewScorer(geo.DefaultConfig())
	}
	if o.scorer == nil {
		o.scorer = similarity.NewScorer(similarity.DefaultConfig(), o.norm, o.geo)
	}
	if o.filter == nil {
		o.filter = quality.NewFilter(quality.DefaultConfig(), o.norm)
	}
	if o.cache == nil {
		o.cache = cache.New[[]core.DatasetMatch](cache.DefaultConfig())
	}
	if o.pool == nil {
		pool, err := runner.NewPool(runner.DefaultConfig(), runner.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		o.pool = pool
		o.ownsPool = true
	}
	return o, nil
}

// Close releases resources owned by the orchestrator. The gateway is not
// closed; its lifecycle belongs to the caller.
func (o *Orchestrator) Close() {
	if o.ownsPool {
		o.pool.Release()
	}
}

// Cache exposes the result cache for administrative operations.
func (o *Orchestrator) Cache() *cache.ResultCache[[]core.DatasetMatch] {
	return o.cache
}

// scored pairs an accumulated match with the countries needed for
// geographic re-ranking. Countries are not part of the public match shape.
type scored struct {
	match     core.DatasetMatch
	countries []string
}

// FindMatches resolves a single entity against the reference dataset and
// returns ranked, confidence-scored matches.
func (o *Orchestrator) FindMatches(ctx context.Context, entity string, opts Options) (*Result, error) {
	started := time.Now()

	if strings.TrimSpace(entity) == "" {
		return nil, core.WrapError(core.CodeValidation, core.ErrEmptyEntity)
	}
	o.monitor.Start(entity)

	// Vague inputs skip everything, including the cache.
	if o.norm.ShouldSkip(entity) {
		result := &Result{Matches: []core.DatasetMatch{}, ProcessingTime: time.Since(started)}
		o.monitor.Finish(entity, result)
		return result, nil
	}

	version := o.currentVersion(ctx)
	key := o.cacheKey(entity, opts)

	if !opts.ForceRefresh {
		if cached, negative, ok := o.cache.Get(key, version); ok {
			matches := cached
			if negative || matches == nil {
				matches = []core.DatasetMatch{}
			}
			o.monitor.CacheHit(entity, negative)
			result := &Result{
				Matches:        matches,
				ProcessingTime: time.Since(started),
				CacheUsed:      true,
				MatchesFound:   len(matches),
			}
			o.monitor.Finish(entity, result)
			return result, nil
		}
	}

	candidates, err := o.runFunnel(ctx, entity, opts)
	if err != nil {
		return nil, core.AsError(err, core.CodeGateway)
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = o.cfg.MaxResults
	}

	result := &Result{ProcessingTime: time.Since(started)}

	// Early termination: enough clearly dominant candidates end the
	// search with a capped, geographically ranked subset, bypassing full
	// deduplication of the larger pool.
	if o.cfg.EarlyTermination {
		confident := make([]scored, 0, len(candidates))
		for _, c := range candidates {
			if c.match.Confidence >= o.cfg.ConfidenceThreshold {
				confident = append(confident, c)
			}
		}
		if len(confident) >= o.cfg.EarlyTerminationCount {
			limit := min(maxResults, 5)
			matches := o.rankAndTruncate(confident, opts, limit)
			o.monitor.EarlyTerminated(entity, len(matches))
			o.writeCache(key, matches, version)
			result.Matches = matches
			result.MatchesFound = len(matches)
			result.EarlyTermination = true
			result.ProcessingTime = time.Since(started)
			o.monitor.Finish(entity, result)
			return result, nil
		}
	}

	matches := o.finalize(entity, candidates, opts, maxResults)
	o.writeCache(key, matches, version)

	result.Matches = matches
	result.MatchesFound = len(matches)
	result.ProcessingTime = time.Since(started)
	o.monitor.Finish(entity, result)
	return result, nil
}

// runFunnel executes the progressive exact, high-similarity, and alias
// stages. Stages suspend sequentially: whether a stage runs depends on
// whether the prior stage already satisfied its limit.
func (o *Orchestrator) runFunnel(ctx context.Context, entity string, opts Options) ([]scored, error) {
	var accumulated []scored

	// Exact stage, prioritizing locality.
	candidates, err := o.gw.FindMatches(ctx, entity, gateway.QueryOptions{
		Location:        opts.Location,
		PrioritizeLocal: true,
		MaxResults:      o.cfg.StageMaxCandidates,
	})
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		s := o.scoreCandidate(entity, candidate, opts)
		if s.match.MatchType == core.MatchTypeExact ||
			s.match.MatchType == core.MatchTypeCoreAcronym ||
			s.match.Confidence >= o.cfg.ExactStageScore {
			accumulated = append(accumulated, s)
		}
	}
	o.monitor.StageComplete(StageExact, len(accumulated))
	if len(accumulated) >= o.cfg.ExactMatchLimit {
		return accumulated, nil
	}

	// High-similarity stage, no locality priority, full quality metrics.
	candidates, err = o.gw.FindMatches(ctx, entity, gateway.QueryOptions{
		MaxResults: o.cfg.StageMaxCandidates,
	})
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		s := o.scoreCandidate(entity, candidate, opts)
		if s.match.Confidence < o.cfg.GoodSimilarity {
			continue
		}
		metrics := o.filter.Metrics(entity, s.match.OrganizationName, s.match.MatchType, opts.Context)
		s.match.Quality = &metrics
		accumulated = append(accumulated, s)
	}
	o.monitor.StageComplete(StageHigh, len(accumulated))
	if len(accumulated) >= o.cfg.FuzzyMatchLimit {
		return accumulated, nil
	}

	// Alias stage: only candidates the gateway already tags as aliases.
	candidates, err = o.gw.FindMatches(ctx, entity, gateway.QueryOptions{
		MaxResults: o.cfg.StageMaxCandidates,
		AliasOnly:  true,
	})
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if candidate.MatchType != core.MatchTypeAlias && candidate.MatchType != core.MatchTypeAliasPartial {
			continue
		}
		s := o.scoreCandidate(entity, candidate, opts)
		// The gateway's alias tag wins over the scorer's classification.
		s.match.MatchType = candidate.MatchType
		accumulated = append(accumulated, s)
	}
	o.monitor.StageComplete(StageAlias, len(accumulated))

	return accumulated, nil
}

// scoreCandidate runs the similarity scorer over one gateway candidate
// and shapes it into a dataset match.
func (o *Orchestrator) scoreCandidate(entity string, candidate gateway.Candidate, opts Options) scored {
	similarityResult := o.scorer.Score(entity, candidate.OrganizationName, similarity.Hints{
		SearchLocation:  opts.Location,
		EntityCountries: candidate.Countries,
		Radius:          opts.Radius,
		PrioritizeLocal: opts.PrioritizeLocal,
	})

	matchType := similarityResult.MatchType
	// A gateway exact or alias tag is authoritative when the scorer only
	// found a weaker relationship.
	if candidate.MatchType.Known() && candidate.MatchType.Priority() < matchType.Priority() {
		matchType = candidate.MatchType
	}

	return scored{
		match: core.DatasetMatch{
			DatasetName:      candidate.DatasetName,
			OrganizationName: candidate.OrganizationName,
			MatchType:        matchType,
			Category:         candidate.Category,
			Confidence:       similarityResult.Score,
			LastUpdated:      candidate.LastUpdated,
		},
		countries: candidate.Countries,
	}
}

// finalize runs quality filtering, deduplication, geographic ranking, and
// truncation over the accumulated funnel candidates.
func (o *Orchestrator) finalize(entity string, candidates []scored, opts Options, maxResults int) []core.DatasetMatch {
	countriesByName := make(map[string][]string, len(candidates))
	matches := make([]core.DatasetMatch, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, c.match)
		countriesByName[strings.ToLower(c.match.OrganizationName)] = c.countries
	}

	matches = o.filter.Apply(matches, entity, opts.Context)
	matches = o.filter.ApplyAcademic(entity, matches)
	matches = dedupeByName(matches)

	rescored := make([]scored, 0, len(matches))
	for _, match := range matches {
		rescored = append(rescored, scored{
			match:     match,
			countries: countriesByName[strings.ToLower(match.OrganizationName)],
		})
	}
	return o.rankAndTruncate(rescored, opts, maxResults)
}

// rankAndTruncate applies geographic confidence ranking when enabled and a
// location was supplied, re-sorts, and caps the result list.
func (o *Orchestrator) rankAndTruncate(candidates []scored, opts Options, maxResults int) []core.DatasetMatch {
	matches := make([]core.DatasetMatch, 0, len(candidates))

	applyGeo := o.cfg.GeoRanking && strings.TrimSpace(opts.Location) != ""
	for _, c := range candidates {
		match := c.match
		if applyGeo {
			boost, _ := o.geo.Score(opts.Location, c.countries, opts.Radius, opts.PrioritizeLocal)
			if boost != 1.0 {
				match.Confidence = core.ClampScore(match.Confidence * boost)
			}
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// dedupeByName removes duplicate organization names case-insensitively,
// keeping the highest-confidence instance of each.
func dedupeByName(matches []core.DatasetMatch) []core.DatasetMatch {
	best := make(map[string]int, len(matches))
	kept := make([]core.DatasetMatch, 0, len(matches))
	for _, match := range matches {
		name := strings.ToLower(match.OrganizationName)
		if idx, seen := best[name]; seen {
			if match.Confidence > kept[idx].Confidence {
				kept[idx] = match
			}
			continue
		}
		best[name] = len(kept)
		kept = append(kept, match)
	}
	return kept
}

// cacheKey builds the cache key from the normalized entity, the canonical
// country, and the normalized context.
func (o *Orchestrator) cacheKey(entity string, opts Options) string {
	country := ""
	if strings.TrimSpace(opts.Location) != "" {
		country = o.geo.NormalizeCountry(opts.Location)
	}
	contextPart := ""
	if opts.Context != "" {
		contextPart = o.norm.Normalize(opts.Context)
	}
	return core.CacheKey(o.norm.Normalize(entity), country, contextPart)
}

// currentVersion fetches the gateway freshness token. Failures degrade to
// an empty token so caching keeps working without version checks.
func (o *Orchestrator) currentVersion(ctx context.Context) string {
	version, err := o.gw.Version(ctx)
	if err != nil {
		o.logger.Debug("gateway version unavailable", "error", err)
		return ""
	}
	return version
}

// writeCache records matches, or a negative marker for an empty result.
// Cache writes are strictly an optimization and never fail the call.
func (o *Orchestrator) writeCache(key string, matches []core.DatasetMatch, version string) {
	if len(matches) == 0 {
		o.cache.SetNegative(key, version)
		return
	}
	o.cache.Set(key, matches, version)
}
