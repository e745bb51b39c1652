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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// EntryMUS is the MUS serializer for stored dataset entries. Timestamps
// are encoded as Unix microseconds.
var EntryMUS = entryMUS{}

type entryMUS struct{}

func (s entryMUS) Marshal(v Entry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.DatasetName, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += marshalStringSlice(v.Aliases, bs[n:])
	n += marshalStringSlice(v.Countries, bs[n:])
	n += varint.Int64.Marshal(v.LastUpdated.UnixMicro(), bs[n:])
	return n
}

func (s entryMUS) Unmarshal(bs []byte) (v Entry, n int, err error) {
	var n1 int
	if v.Name, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.DatasetName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Aliases, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Countries, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.LastUpdated = time.UnixMicro(micros).UTC()
	return
}

func (s entryMUS) Size(v Entry) (size int) {
	size = ord.String.Size(v.Name)
	size += ord.String.Size(v.DatasetName)
	size += ord.String.Size(v.Category)
	size += sizeStringSlice(v.Aliases)
	size += sizeStringSlice(v.Countries)
	size += varint.Int64.Size(v.LastUpdated.UnixMicro())
	return size
}

func marshalStringSlice(values []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(values), bs)
	for _, value := range values {
		n += ord.String.Marshal(value, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (values []string, n int, err error) {
	var count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if count <= 0 {
		return nil, n, nil
	}
	values = make([]string, 0, count)
	var n1 int
	for i := 0; i < count; i++ {
		var value string
		if value, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += n1
		values = append(values, value)
	}
	return values, n, nil
}

func sizeStringSlice(values []string) (size int) {
	size = varint.Int.Size(len(values))
	for _, value := range values {
		size += ord.String.Size(value)
	}
	return size
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *Entry) []byte {
	buf := make([]byte, EntryMUS.Size(*entry))
	EntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*Entry, error) {
	entry, _, err := EntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
