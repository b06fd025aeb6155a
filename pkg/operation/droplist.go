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

package operation

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// 📥 ParseDropList splits a drop payload into paths.
//
// Accepted forms, freely mixed:
//
//	/plain/path another/path
//	{/path with spaces} {/another one}
//	"/quoted path"
//	file:///url%20encoded/path
//
// One path per line is also accepted; a line is taken whole when it names an
// absolute path and contains no brace or quote groups. Results are cleaned,
// "~" is expanded and duplicates are dropped in first-seen order.
func ParseDropList(raw string) []string {
	var tokens []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if wholeLine(line) {
			tokens = append(tokens, line)
			continue
		}
		tokens = append(tokens, splitTokens(line)...)
	}

	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		p := normalizeDropPath(tok)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// wholeLine reports whether a multi-line payload line is one path with spaces
// rather than a list of space-separated paths.
func wholeLine(line string) bool {
	if strings.ContainsAny(line, "{}\"") {
		return false
	}
	if !strings.ContainsRune(line, ' ') {
		return true
	}
	fields := strings.Fields(line)
	for _, f := range fields[1:] {
		if looksLikePath(f) {
			return false
		}
	}
	return looksLikePath(fields[0])
}

func looksLikePath(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "~") || strings.HasPrefix(s, "file://") ||
		(len(s) > 2 && s[1] == ':' && (s[2] == '\\' || s[2] == '/'))
}

func splitTokens(line string) []string {
	var (
		tokens []string
		cur    strings.Builder
		closer rune
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case closer != 0:
			if r == closer {
				closer = 0
				flush()
				continue
			}
			cur.WriteRune(r)
		case r == '{':
			flush()
			closer = '}'
		case r == '"':
			flush()
			closer = '"'
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func normalizeDropPath(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return ""
	}

	if strings.HasPrefix(tok, "file://") {
		if u, err := url.Parse(tok); err == nil && u.Path != "" {
			tok = u.Path
		} else {
			tok = strings.TrimPrefix(tok, "file://")
			if dec, err := url.PathUnescape(tok); err == nil {
				tok = dec
			}
		}
	}

	if tok == "~" || strings.HasPrefix(tok, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			tok = filepath.Join(home, strings.TrimPrefix(tok, "~"))
		}
	}

	return filepath.Clean(tok)
}
