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
	"bytes"
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&JSONCodec{})
}

// 🔧 JSONCodec implements the Codec interface for JSON files
type JSONCodec struct{}

func (c *JSONCodec) CanParse(filename string) bool {
	return hasExt(filename, ".json")
}

func (c *JSONCodec) Decode(ctx context.Context, data []byte) (map[string]string, error) {
	values := map[string]string{}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return values, nil
}

func (c *JSONCodec) Encode(ctx context.Context, values map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, errors.Errorf("encoding JSON: %w", err)
	}
	return append(data, '\n'), nil
}
