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


package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrySerialization(t *testing.T) {
	t.Run("full entry round trip", func(t *testing.T) {
		original := &Entry{
			Name:        "Jiuquan Satellite Launch Center",
			DatasetName: "export-screening",
			Category:    "aerospace",
			Aliases:     []string{"JSLC", "Jiuquan Space Center"},
			Countries:   []string{"China"},
			LastUpdated: time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC),
		}

		data := MarshalEntry(original)
		require.NotEmpty(t, data)
		assert.Len(t, data, EntryMUS.Size(*original))

		decoded, err := UnmarshalEntry(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("empty slices decode as nil", func(t *testing.T) {
		original := &Entry{Name: "Acme", LastUpdated: time.Unix(0, 0).UTC()}

		decoded, err := UnmarshalEntry(MarshalEntry(original))
		require.NoError(t, err)
		assert.Nil(t, decoded.Aliases)
		assert.Nil(t, decoded.Countries)
		assert.Equal(t, original.Name, decoded.Name)
	})

	t.Run("unicode survives", func(t *testing.T) {
		original := &Entry{
			Name:        "酒泉卫星发射中心",
			DatasetName: "datasets/中文",
			LastUpdated: time.Unix(1700000000, 0).UTC(),
		}

		decoded, err := UnmarshalEntry(MarshalEntry(original))
		require.NoError(t, err)
		assert.Equal(t, original.Name, decoded.Name)
		assert.Equal(t, original.DatasetName, decoded.DatasetName)
	})

	t.Run("truncated data fails", func(t *testing.T) {
		data := MarshalEntry(&Entry{Name: "Acme Widgets", DatasetName: "ds", LastUpdated: time.Now()})
		_, err := UnmarshalEntry(data[:3])
		assert.Error(t, err)
	})
}
