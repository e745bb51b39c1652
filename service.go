// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package entitymatch matches organization names against reference
// datasets. It combines text normalization, weighted string similarity,
// geographic ranking, and quality filtering behind a cached, progressive
// search over a pluggable reference-data gateway.
package entitymatch

import (
	"context"
	"log/slog"

	"github.com/poiesic/entitymatch/cache"
	"github.com/poiesic/entitymatch/core"
	"github.com/poiesic/entitymatch/gateway"
	"github.com/poiesic/entitymatch/match"
)

// Service is the library entry point. It owns a match orchestrator and the
// result cache; the gateway's lifecycle belongs to the caller unless the
// service is asked to close it.
type Service struct {
	gw           gateway.Gateway
	orchestrator *match.Orchestrator
	logger       *slog.Logger
	closeGateway bool
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	matchOpts    []match.Option
	logger       *slog.Logger
	closeGateway bool
}

// WithMatchOptions forwards options to the underlying orchestrator.
func WithMatchOptions(opts ...match.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.matchOpts = append(o.matchOpts, opts...)
	}
}

// WithServiceLogger sets the logger for the service and its orchestrator.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOwnedGateway makes Close also close the gateway.
func WithOwnedGateway() ServiceOption {
	return func(o *serviceOptions) {
		o.closeGateway = true
	}
}

// NewService wires an entity matching service over a reference-data
// gateway.
func NewService(gw gateway.Gateway, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	matchOpts := append([]match.Option{match.WithLogger(options.logger)}, options.matchOpts...)
	orchestrator, err := match.New(gw, matchOpts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		gw:           gw,
		orchestrator: orchestrator,
		logger:       options.logger,
		closeGateway: options.closeGateway,
	}, nil
}

// FindMatchesEnhanced resolves a single entity, returning ranked matches
// with processing metadata.
func (s *Service) FindMatchesEnhanced(ctx context.Context, entity string, opts match.Options) (*match.Result, error) {
	return s.orchestrator.FindMatches(ctx, entity, opts)
}

// FindMatchesBatch resolves several entities in one pass. The returned
// map has exactly one key per distinct input entity.
func (s *Service) FindMatchesBatch(ctx context.Context, entities []string, opts match.Options) (map[string][]core.DatasetMatch, error) {
	return s.orchestrator.FindMatchesBatch(ctx, entities, opts)
}

// FindAffiliatedMatches resolves a primary entity plus its affiliates.
func (s *Service) FindAffiliatedMatches(ctx context.Context, req match.AffiliatedRequest) (*match.AffiliatedResult, error) {
	return s.orchestrator.FindAffiliated(ctx, req)
}

// ClearCache drops every cached result.
func (s *Service) ClearCache() {
	s.orchestrator.Cache().Clear()
}

// WarmupCache feeds representative queries through the matching pipeline
// so that subsequent identical lookups hit the cache. Individual query
// failures are logged and skipped.
func (s *Service) WarmupCache(ctx context.Context, queries []string) {
	for _, query := range queries {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.orchestrator.FindMatches(ctx, query, match.Options{}); err != nil {
			s.logger.Warn("cache warmup query failed", "query", query, "error", err)
		}
	}
}

// ServiceStats combines cache statistics with gateway diagnostics.
func (s *Service) ServiceStats(ctx context.Context) (map[string]any, error) {
	cacheStats := s.orchestrator.Cache().Stats()
	stats := map[string]any{
		"cache_entries":   cacheStats.Entries,
		"cache_hits":      cacheStats.Hits,
		"cache_misses":    cacheStats.Misses,
		"cache_evictions": cacheStats.Evictions,
		"cache_hit_rate":  cacheStats.HitRate,
		"cache_memory":    s.orchestrator.Cache().MemoryEstimate(),
	}
	gwStats, err := s.gw.Stats(ctx)
	if err != nil {
		return stats, core.AsError(err, core.CodeGateway)
	}
	for k, v := range gwStats {
		stats["gateway_"+k] = v
	}
	return stats, nil
}

// Cache exposes the underlying result cache.
func (s *Service) Cache() *cache.ResultCache[[]core.DatasetMatch] {
	return s.orchestrator.Cache()
}

// Close releases the orchestrator's resources, and the gateway if the
// service owns it.
func (s *Service) Close() error {
	s.orchestrator.Close()
	if s.closeGateway {
		if err := s.gw.Close(); err != nil {
			s.logger.Error("error closing gateway", "err", err)
			return err
		}
	}
	return nil
}
