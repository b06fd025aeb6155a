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

package status

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/walteh/sortdrop/pkg/operation"
	"github.com/walteh/sortdrop/pkg/organize"
)

// 🎨 Formatter renders organize outcomes for people
type Formatter interface {
	// FormatResult formats a finished or planned organize call
	FormatResult(res *organize.Result, dryRun bool) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatSummary formats the totals of a batch
	FormatSummary(s *operation.Summary) string

	// FormatError formats an error message
	FormatError(err error) string
}

var _ Formatter = (*DefaultFormatter)(nil)

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatResult formats an organize result with emojis
func (f *DefaultFormatter) FormatResult(res *organize.Result, dryRun bool) string {
	if res == nil {
		return ""
	}
	name := filepath.Base(res.Source)
	dest := res.Destination

	verbs := map[organize.Outcome]string{
		organize.OutcomeMoved:    "📦 Moved",
		organize.OutcomeRenamed:  "🔢 Renamed",
		organize.OutcomeReplaced: "♻️  Replaced",
		organize.OutcomeSkipped:  "⏭️  Skipped",
	}
	if dryRun {
		verbs = map[organize.Outcome]string{
			organize.OutcomeMoved:    "🔮 Would move",
			organize.OutcomeRenamed:  "🔮 Would rename",
			organize.OutcomeReplaced: "🔮 Would replace",
			organize.OutcomeSkipped:  "🔮 Would skip",
		}
	}
	verb, ok := verbs[res.Outcome]
	if !ok {
		verb = "❔ Unknown"
	}

	switch res.Outcome {
	case organize.OutcomeSkipped:
		if res.Source == res.Destination {
			return fmt.Sprintf("%s %s (already in %s)", verb, name, res.Category)
		}
		return fmt.Sprintf("%s %s (%s exists)", verb, name, dest)
	default:
		return fmt.Sprintf("%s %s → %s", verb, name, dest)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatSummary formats batch totals; zero counters are left out
func (f *DefaultFormatter) FormatSummary(s *operation.Summary) string {
	if s == nil || s.Items == 0 {
		return "🤷 Nothing to organize"
	}

	parts := []string{}
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(s.Moved, "moved")
	add(s.Renamed, "renamed")
	add(s.Replaced, "replaced")
	add(s.Skipped, "skipped")
	add(s.Failed, "failed")

	prefix := "✅"
	if s.Failed > 0 {
		prefix = "⚠️ "
	}
	return fmt.Sprintf("%s %s: %s (%s)",
		prefix,
		english.Plural(s.Items, "item", ""),
		strings.Join(parts, ", "),
		humanize.Bytes(uint64(max(s.Bytes, 0))),
	)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
