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


package core

import (
	"errors"
	"fmt"
)

// ErrInvalidMatch indicates a DatasetMatch failed validation.
var ErrInvalidMatch = errors.New("invalid dataset match")

// ValidateMatch validates a DatasetMatch according to domain rules.
//
// Validation rules:
//   - OrganizationName must not be empty
//   - DatasetName must not be empty
//   - Confidence must be in [0,1]
//
// NOT validated (populated by the scorer and quality filter):
//   - MatchType (unknown types rank last instead of failing)
//   - Quality (nil until the quality filter runs)
func ValidateMatch(match *DatasetMatch) error {
	if match == nil {
		return fmt.Errorf("%w: match is nil", ErrInvalidMatch)
	}

	if match.OrganizationName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMatch, ErrEmptyOrganizationName)
	}

	if match.DatasetName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMatch, ErrEmptyDatasetName)
	}

	if match.Confidence < 0 || match.Confidence > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidMatch, ErrInvalidConfidence)
	}

	return nil
}

// ClampScore clamps a similarity or confidence score to [0,1].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
