// Copyright 2025 walteh LLC
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

package settings

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// 🔌 Codec converts the flat settings record to and from bytes
type Codec interface {
	// 📝 Decode parses a settings record
	Decode(ctx context.Context, data []byte) (map[string]string, error)

	// 💾 Encode serializes a settings record
	Encode(ctx context.Context, values map[string]string) ([]byte, error)

	// 🔍 CanParse checks if this codec can handle the given file
	CanParse(filename string) bool
}

var (
	codecsMu sync.RWMutex
	// 🗺️ codecs is a list of available codecs
	codecs []Codec
)

// 📝 Register registers a codec
func Register(c Codec) {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs = append(codecs, c)
}

// 🎯 CodecFor returns the codec for filename, falling back to JSON
func CodecFor(filename string) Codec {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	for _, c := range codecs {
		if c.CanParse(filename) {
			return c
		}
	}
	return &JSONCodec{}
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
