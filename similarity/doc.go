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


// Package similarity provides string-similarity primitives and the weighted
// scorer that combines them into a single confidence score.
//
// The Scorer type implements a multi-signal scoring algorithm:
//   - Jaro-Winkler and normalized edit-distance similarity
//   - Character n-gram and word-set overlap
//   - Acronym detection against "Full Name (ACRONYM)" patterns
//   - Geographic and organization-type boosts
//
// Scores are combined with configurable per-algorithm weights and classified
// into a categorical match type by threshold bands.
package similarity
