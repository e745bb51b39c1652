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


// Package geo scores the geographic relationship between a search location
// and the countries attached to a dataset entry, producing a confidence
// boost factor for locally relevant matches.
package geo

import "strings"

// Relationship categorizes how a search location relates to an entity's
// countries.
type Relationship string

const (
	// RelationshipSameCountry means the search location and entity share
	// a country.
	RelationshipSameCountry Relationship = "same_country"
	// RelationshipSameRegion means they share a region but not a country.
	RelationshipSameRegion Relationship = "same_region"
	// RelationshipDifferentRegion means both sides are known but share
	// nothing.
	RelationshipDifferentRegion Relationship = "different_region"
	// RelationshipUnknown means the relationship could not be determined.
	RelationshipUnknown Relationship = "unknown"
)

// Radius narrows or widens how far geographic boosting reaches.
type Radius string

const (
	// RadiusDefault applies the configured boosts unmodified.
	RadiusDefault Radius = ""
	// RadiusLocal restricts boosting to same-country matches only.
	RadiusLocal Radius = "local"
	// RadiusGlobal flattens all boosts toward 1.0.
	RadiusGlobal Radius = "global"
)

// globalFlatten scales (boost - 1) when the search radius is global.
const globalFlatten = 0.25

// Config holds the boost multipliers for geographic scoring.
type Config struct {
	// SameCountryBoost multiplies confidence for same-country matches.
	// Must be > 1.0 to have any effect.
	SameCountryBoost float64

	// SameRegionBoost multiplies confidence for same-region matches.
	// Must be >= 1.0.
	SameRegionBoost float64

	// LocalPriorityBoost amplifies the same-country boost when the caller
	// asks to prioritize local results.
	LocalPriorityBoost float64
}

// DefaultConfig returns the default geographic boost configuration.
func DefaultConfig() Config {
	return Config{
		SameCountryBoost:   1.2,
		SameRegionBoost:    1.1,
		LocalPriorityBoost: 1.1,
	}
}

// Scorer computes geographic relationships and boost factors from a
// country table mapping names and aliases to canonical names and regions.
type Scorer struct {
	cfg       Config
	countries map[string]countryInfo
}

type countryInfo struct {
	canonical string
	region    string
}

// NewScorer creates a Scorer with the given configuration and the built-in
// country table.
func NewScorer(cfg Config) *Scorer {
	if cfg.SameCountryBoost < 1.0 {
		cfg.SameCountryBoost = DefaultConfig().SameCountryBoost
	}
	if cfg.SameRegionBoost < 1.0 {
		cfg.SameRegionBoost = DefaultConfig().SameRegionBoost
	}
	if cfg.LocalPriorityBoost < 1.0 {
		cfg.LocalPriorityBoost = DefaultConfig().LocalPriorityBoost
	}
	return &Scorer{cfg: cfg, countries: defaultCountryTable()}
}

// NormalizeCountry resolves a free-text location to its canonical country
// name, or the lower-cased input when the country is unknown.
func (s *Scorer) NormalizeCountry(location string) string {
	key := strings.ToLower(strings.TrimSpace(location))
	if info, ok := s.countries[key]; ok {
		return info.canonical
	}
	return key
}

// Score computes the confidence boost factor and relationship for a match.
// An empty search location is a no-op: boost 1.0 and an unknown
// relationship, never a penalty.
func (s *Scorer) Score(searchLocation string, entityCountries []string, radius Radius, prioritizeLocal bool) (float64, Relationship) {
	if strings.TrimSpace(searchLocation) == "" {
		return 1.0, RelationshipUnknown
	}

	search, searchKnown := s.countries[strings.ToLower(strings.TrimSpace(searchLocation))]
	if !searchKnown {
		return 1.0, RelationshipUnknown
	}

	relationship := RelationshipUnknown
	for _, country := range entityCountries {
		entity, ok := s.countries[strings.ToLower(strings.TrimSpace(country))]
		if !ok {
			continue
		}
		switch {
		case entity.canonical == search.canonical:
			relationship = RelationshipSameCountry
		case entity.region == search.region && relationship != RelationshipSameCountry:
			relationship = RelationshipSameRegion
		case relationship == RelationshipUnknown:
			relationship = RelationshipDifferentRegion
		}
		if relationship == RelationshipSameCountry {
			break
		}
	}

	boost := 1.0
	switch relationship {
	case RelationshipSameCountry:
		boost = s.cfg.SameCountryBoost
		if prioritizeLocal {
			boost *= s.cfg.LocalPriorityBoost
		}
	case RelationshipSameRegion:
		if radius != RadiusLocal {
			boost = s.cfg.SameRegionBoost
		}
	}

	if radius == RadiusGlobal && boost > 1.0 {
		boost = 1.0 + (boost-1.0)*globalFlatten
	}

	return boost, relationship
}
