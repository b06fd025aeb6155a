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

	"github.com/fatih/color"
	"github.com/walteh/sortdrop/pkg/organize"
)

// 🎨 Display configuration
const (
	fileIndent     = 4  // spaces to indent file entries
	nameWidth      = 35 // Base width for filename
	categoryWidth  = 18 // Width for category
	outcomeWidth   = 10 // Width for outcome text
	ellipsis       = "…"
	failureOutcome = "failed"
)

// 🎯 FormatResultLine formats one organize result as an aligned table row
func FormatResultLine(res *organize.Result) string {
	if res == nil {
		return ""
	}

	var prefix string
	switch res.Outcome {
	case organize.OutcomeMoved:
		prefix = color.GreenString("✓")
	case organize.OutcomeRenamed:
		prefix = color.BlueString("⟳")
	case organize.OutcomeReplaced:
		prefix = color.YellowString("↻")
	default:
		prefix = color.HiBlackString("-")
	}

	return formatRow(prefix, filepath.Base(res.Source), res.Category, res.Outcome.String(), res.Destination)
}

// 🎯 FormatFailureLine formats a failed path as an aligned table row
func FormatFailureLine(path string, err error) string {
	return formatRow(color.RedString("✗"), filepath.Base(path), "", failureOutcome, fmt.Sprint(err))
}

func formatRow(prefix, name, category, outcome, detail string) string {
	namePart := fmt.Sprintf("%-*s", nameWidth, truncate(name, nameWidth))
	categoryPart := fmt.Sprintf("%-*s", categoryWidth, category)
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, outcome)

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		categoryPart,
		outcomePart,
		detail,
	), " ")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + ellipsis
}
