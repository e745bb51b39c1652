package match

import (
	"context"
	"strings"

	"github.com/poiesic/entitymatch/core"
	"github.com/poiesic/entitymatch/gateway"
	"github.com/poiesic/entitymatch/runner"
)

// batchPayload carries one pending entity and its gateway candidates
// through the parallel scoring stage.
type batchPayload struct {
	entity     string
	candidates []gateway.Candidate
}

// FindMatchesBatch resolves several entities in one pass. Cached entities
// are served directly; the rest go to the gateway in a single batched
// lookup and are scored in bounded parallel waves. The returned map has
// exactly one key per distinct input entity. An entity that is skippable,
// unresolved, or fails scoring maps to an empty slice; it never fails the
// batch. A gateway batch failure fails the whole call.
func (o *Orchestrator) FindMatchesBatch(ctx context.Context, entities []string, opts Options) (map[string][]core.DatasetMatch, error) {
	if len(entities) == 0 {
		return nil, core.WrapError(core.CodeValidation, ErrNoEntities)
	}

	version := o.currentVersion(ctx)
	results := make(map[string][]core.DatasetMatch, len(entities))

	var pending []string
	for _, entity := range entities {
		if _, done := results[entity]; done {
			continue
		}
		if strings.TrimSpace(entity) == "" || o.norm.ShouldSkip(entity) {
			results[entity] = []core.DatasetMatch{}
			continue
		}
		if !opts.ForceRefresh {
			if cached, negative, ok := o.cache.Get(o.cacheKey(entity, opts), version); ok {
				if negative || cached == nil {
					results[entity] = []core.DatasetMatch{}
				} else {
					results[entity] = cached
				}
				o.monitor.CacheHit(entity, negative)
				continue
			}
		}
		results[entity] = []core.DatasetMatch{}
		pending = append(pending, entity)
	}
	if len(pending) == 0 {
		return results, nil
	}

	byEntity, err := o.gw.FindMatchesBatch(ctx, pending)
	if err != nil {
		return nil, core.AsError(err, core.CodeGateway)
	}

	tasks := make([]runner.Task[batchPayload], 0, len(pending))
	for _, entity := range pending {
		tasks = append(tasks, runner.Task[batchPayload]{
			ID:      entity,
			Payload: batchPayload{entity: entity, candidates: byEntity[entity]},
		})
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = o.cfg.MaxResults
	}

	scored := runner.RunParallel(ctx, o.pool, tasks, func(_ context.Context, p batchPayload) ([]core.DatasetMatch, error) {
		return o.scoreBatchEntity(p.entity, p.candidates, opts, maxResults), nil
	})

	for _, r := range scored {
		if !r.Success {
			// Timeout or cancellation; the entity keeps its empty slice.
			o.logger.Warn("batch entity scoring failed", "entity", r.TaskID, "error", r.Err)
			continue
		}
		matches := r.Value
		if matches == nil {
			matches = []core.DatasetMatch{}
		}
		results[r.TaskID] = matches
		o.writeCache(o.cacheKey(r.TaskID, opts), matches, version)
	}
	return results, nil
}

// scoreBatchEntity runs the single-pass scoring pipeline over one batch
// entity's gateway candidates. Batch mode has no funnel; every candidate
// from the one lookup is scored and filtered together.
func (o *Orchestrator) scoreBatchEntity(entity string, candidates []gateway.Candidate, opts Options, maxResults int) []core.DatasetMatch {
	if len(candidates) == 0 {
		return []core.DatasetMatch{}
	}
	kept := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		s := o.scoreCandidate(entity, candidate, opts)
		if s.match.Confidence < o.cfg.GoodSimilarity && s.match.MatchType.Priority() > core.MatchTypeAliasPartial.Priority() {
			continue
		}
		kept = append(kept, s)
	}
	return o.finalize(entity, kept, opts, maxResults)
}
