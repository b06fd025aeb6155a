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

package organize

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 🔢 NumberedName returns the n-th collision name for name.
// "photo.jpg" becomes "photo_1.jpg". With whole set, or when the name has
// no base (".env"), the suffix goes at the end: "stuff_1", ".env_1".
func NumberedName(name string, n int, whole bool) string {
	if !whole {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		if base != "" {
			return fmt.Sprintf("%s_%d%s", base, n, ext)
		}
	}
	return fmt.Sprintf("%s_%d", name, n)
}
