package badgerstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/entitymatch/core"
	"github.com/poiesic/entitymatch/gateway"
	"github.com/poiesic/entitymatch/text"
)

const (
	// defaultMaxResults caps a lookup when the caller does not.
	defaultMaxResults = 50
	// maxNamesPerToken caps how many candidates one token scan collects.
	maxNamesPerToken = 100
	// maxQueryTokens caps how many tokens of the query are scanned.
	maxQueryTokens = 4
)

// ErrEmptyEntryName indicates a dataset entry without a name.
var ErrEmptyEntryName = errors.New("entry name cannot be empty")

// Store is a BadgerDB-backed reference dataset store implementing
// gateway.Gateway.
type Store struct {
	db     *badger.DB
	norm   *text.Normalizer
	logger *slog.Logger
}

var _ gateway.Gateway = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// WithNormalizer sets a custom text normalizer, which must match the one
// used at query time for index keys to line up.
func WithNormalizer(norm *text.Normalizer) Option {
	return func(s *Store) {
		if norm != nil {
			s.norm = norm
		}
	}
}

// Open opens a dataset store at the given path, creating the directory if
// needed. An empty path with inMemory set opens an ephemeral store.
func Open(path string, inMemory bool, opts ...Option) (*Store, error) {
	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(path)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		badgerOpts = badger.DefaultOptions(path)
	}

	store := &Store{
		norm:   text.NewNormalizer(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: store.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	store.db = db
	return store, nil
}

// NewMemoryStore creates an in-memory dataset store for testing.
// Caller must close the store when done.
func NewMemoryStore(opts ...Option) (*Store, error) {
	return Open("", true, opts...)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put adds or replaces dataset entries and bumps the version token once
// for the whole batch.
func (s *Store) Put(ctx context.Context, entries ...*gateway.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *badger.Txn) error {
		for _, entry := range entries {
			normalized := s.norm.Normalize(entry.Name)
			if normalized == "" {
				return fmt.Errorf("%w: %q", ErrEmptyEntryName, entry.Name)
			}

			if err := tx.Set(makeEntryKey(normalized), gateway.MarshalEntry(entry)); err != nil {
				return err
			}
			for _, alias := range entry.Aliases {
				aliasNorm := s.norm.Normalize(alias)
				if aliasNorm == "" || aliasNorm == normalized {
					continue
				}
				if err := tx.Set(makeAliasKey(aliasNorm), []byte(normalized)); err != nil {
					return err
				}
			}
			for _, token := range s.norm.ExtractKeywords(entry.Name, 3) {
				if err := tx.Set(makeTokenKey(token, normalized), nil); err != nil {
					return err
				}
			}
		}
		return s.bumpVersion(tx)
	})
}

func (s *Store) bumpVersion(tx *badger.Txn) error {
	var current uint64
	item, err := tx.Get(versionKey())
	if err == nil {
		err = item.Value(func(val []byte) error {
			if len(val) == 8 {
				current = binary.BigEndian.Uint64(val)
			}
			return nil
		})
		if err != nil {
			return err
		}
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, current+1)
	return tx.Set(versionKey(), buf)
}

// candidateHit pairs a loaded entry with the index that found it.
type candidateHit struct {
	entry     *gateway.Entry
	matchType core.MatchType
}

// FindMatches looks up candidates for a single text using the exact,
// alias, and token indexes.
func (s *Store) FindMatches(ctx context.Context, query string, opts gateway.QueryOptions) ([]gateway.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := s.norm.Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	hits := make(map[string]candidateHit)
	err := s.db.View(func(tx *badger.Txn) error {
		return s.collectHits(tx, query, normalized, hits)
	})
	if err != nil {
		return nil, err
	}

	return s.rankHits(hits, opts), nil
}

func (s *Store) collectHits(tx *badger.Txn, query, normalized string, hits map[string]candidateHit) error {
	// Exact name hit
	if entry, err := s.loadEntry(tx, normalized); err != nil {
		return err
	} else if entry != nil {
		hits[normalized] = candidateHit{entry: entry, matchType: core.MatchTypeExact}
	}

	// Alias hits for the query and its variations
	for _, variation := range s.norm.Variations(query) {
		variationNorm := s.norm.Normalize(variation)
		if variationNorm == "" {
			continue
		}
		item, err := tx.Get(makeAliasKey(variationNorm))
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		var primary string
		if err := item.Value(func(val []byte) error {
			primary = string(val)
			return nil
		}); err != nil {
			return err
		}
		if _, seen := hits[primary]; seen {
			continue
		}
		entry, err := s.loadEntry(tx, primary)
		if err != nil {
			return err
		}
		if entry == nil {
			continue
		}
		matchType := core.MatchTypeAlias
		if variationNorm != normalized {
			matchType = core.MatchTypeAliasPartial
		}
		hits[primary] = candidateHit{entry: entry, matchType: matchType}
	}

	// Token scan for fuzzy candidates
	tokens := s.norm.ExtractKeywords(query, 3)
	if len(tokens) > maxQueryTokens {
		tokens = tokens[:maxQueryTokens]
	}
	for _, token := range tokens {
		if err := s.scanToken(tx, token, hits); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) scanToken(tx *badger.Txn, token string, hits map[string]candidateHit) error {
	prefix := makeTokenScanPrefix(token)
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.PrefetchValues = false
	iterOpts.Prefix = prefix

	it := tx.NewIterator(iterOpts)
	defer it.Close()

	collected := 0
	for it.Rewind(); it.ValidForPrefix(prefix) && collected < maxNamesPerToken; it.Next() {
		name := string(it.Item().Key()[len(prefix):])
		collected++
		if _, seen := hits[name]; seen {
			continue
		}
		entry, err := s.loadEntry(tx, name)
		if err != nil {
			return err
		}
		if entry == nil {
			continue
		}
		hits[name] = candidateHit{entry: entry, matchType: core.MatchTypeFuzzy}
	}
	return nil
}

func (s *Store) loadEntry(tx *badger.Txn, normalizedName string) (*gateway.Entry, error) {
	item, err := tx.Get(makeEntryKey(normalizedName))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry *gateway.Entry
	err = item.Value(func(val []byte) error {
		entry, err = gateway.UnmarshalEntry(val)
		return err
	})
	return entry, err
}

// rankHits converts hits to candidates, applies the alias-only filter,
// orders by index strength with local candidates first when requested,
// and caps the result count.
func (s *Store) rankHits(hits map[string]candidateHit, opts gateway.QueryOptions) []gateway.Candidate {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	searchCountry := strings.ToLower(strings.TrimSpace(opts.Location))

	candidates := make([]gateway.Candidate, 0, len(hits))
	for _, hit := range hits {
		if opts.AliasOnly &&
			hit.matchType != core.MatchTypeAlias && hit.matchType != core.MatchTypeAliasPartial {
			continue
		}
		candidates = append(candidates, gateway.Candidate{
			OrganizationName: hit.entry.Name,
			DatasetName:      hit.entry.DatasetName,
			MatchType:        hit.matchType,
			Category:         hit.entry.Category,
			Aliases:          hit.entry.Aliases,
			Countries:        hit.entry.Countries,
			LastUpdated:      hit.entry.LastUpdated,
		})
	}

	local := func(c gateway.Candidate) bool {
		if !opts.PrioritizeLocal || searchCountry == "" {
			return false
		}
		for _, country := range c.Countries {
			if strings.ToLower(country) == searchCountry {
				return true
			}
		}
		return false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := local(candidates[i]), local(candidates[j])
		if li != lj {
			return li
		}
		pi, pj := candidates[i].MatchType.Priority(), candidates[j].MatchType.Priority()
		if pi != pj {
			return pi < pj
		}
		return candidates[i].OrganizationName < candidates[j].OrganizationName
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates
}

// FindMatchesBatch looks up candidates for several texts. The returned map
// has exactly one key per distinct input text; a text with no candidates
// maps to an empty slice.
func (s *Store) FindMatchesBatch(ctx context.Context, texts []string) (map[string][]gateway.Candidate, error) {
	results := make(map[string][]gateway.Candidate, len(texts))
	for _, query := range texts {
		if _, seen := results[query]; seen {
			continue
		}
		candidates, err := s.FindMatches(ctx, query, gateway.QueryOptions{})
		if err != nil {
			return nil, err
		}
		if candidates == nil {
			candidates = []gateway.Candidate{}
		}
		results[query] = candidates
	}
	return results, nil
}

// Version returns the current dataset freshness token.
func (s *Store) Version(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var counter uint64
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(versionKey())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) == 8 {
				counter = binary.BigEndian.Uint64(val)
			}
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("v%d", counter), nil
}

// Stats returns entry counts and on-disk sizes.
func (s *Store) Stats(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := 0
	err := s.db.View(func(tx *badger.Txn) error {
		prefix := []byte(entryPrefix + ":")
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		iterOpts.Prefix = prefix

		it := tx.NewIterator(iterOpts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			entries++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lsm, vlog := s.db.Size()
	version, err := s.Version(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"entries":   entries,
		"lsm_size":  lsm,
		"vlog_size": vlog,
		"version":   version,
	}, nil
}
