package gateway

import (
	"context"
	"time"

	"github.com/poiesic/entitymatch/core"
)

// Candidate is a raw lookup result from the reference dataset, before
// similarity scoring and quality filtering.
type Candidate struct {
	OrganizationName string
	DatasetName      string
	// MatchType is the gateway's own tag for how the candidate was found
	// (exact, alias, alias_partial, fuzzy). The scorer may refine it.
	MatchType   core.MatchType
	Category    string
	Aliases     []string
	Countries   []string
	LastUpdated time.Time
}

// QueryOptions tune a single gateway lookup.
type QueryOptions struct {
	// Location is the caller's search location, used for local
	// prioritization.
	Location string

	// PrioritizeLocal orders candidates from the searcher's country first.
	PrioritizeLocal bool

	// MaxResults caps the number of candidates returned.
	MaxResults int

	// AliasOnly restricts results to alias and alias_partial candidates.
	AliasOnly bool
}

// Gateway is the external reference-data collaborator. The matching core
// never retries gateway calls itself beyond what the runner provides for
// batch workloads.
type Gateway interface {
	// FindMatches looks up candidates for a single text.
	FindMatches(ctx context.Context, text string, opts QueryOptions) ([]Candidate, error)

	// FindMatchesBatch looks up candidates for several texts at once.
	// The returned map has exactly one key per distinct input text.
	FindMatchesBatch(ctx context.Context, texts []string) (map[string][]Candidate, error)

	// Version returns an opaque freshness token, used purely for cache
	// invalidation comparison.
	Version(ctx context.Context) (string, error)

	// Stats returns implementation-defined diagnostics.
	Stats(ctx context.Context) (map[string]any, error)

	// Close releases gateway resources.
	Close() error
}

// Entry is a stored reference-dataset record.
type Entry struct {
	Name        string
	DatasetName string
	Category    string
	Aliases     []string
	Countries   []string
	LastUpdated time.Time
}
