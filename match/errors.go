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


package match

import "errors"

var (
	// ErrGatewayRequired is returned when a reference-data gateway is not
	// provided.
	ErrGatewayRequired = errors.New("reference-data gateway required")

	// ErrNoEntities is returned when a batch call receives no entities.
	ErrNoEntities = errors.New("at least one entity required")
)
