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


// Package match orchestrates entity matching against the reference
// dataset.
//
// The Orchestrator type implements a progressive search strategy:
//   - An exact stage prioritizing local candidates
//   - A high-similarity stage with full quality metrics
//   - An alias stage for gateway-tagged alias candidates
//
// The funnel terminates early once enough high-confidence candidates
// accumulate, trading completeness for latency. Results are quality
// filtered, deduplicated, geographically ranked, and cached.
package match
