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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrUnknownPolicy is returned when parsing an unrecognized duplicate policy
var ErrUnknownPolicy = errors.Base("unknown duplicate policy")

// 🔁 Policy decides what happens when the destination name is taken
type Policy string

const (
	PolicyRename  Policy = "rename"  // Pick name_1.ext, name_2.ext, ...
	PolicySkip    Policy = "skip"    // Leave both files alone
	PolicyReplace Policy = "replace" // Delete the existing file first
)

// DefaultPolicy is used when nothing else is configured
const DefaultPolicy = PolicyRename

// Policies lists the accepted policies
var Policies = []Policy{PolicyRename, PolicySkip, PolicyReplace}

// 🔍 ParsePolicy parses a policy name, case-insensitively
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return p, nil
}

// Valid reports whether p is one of Policies
func (p Policy) Valid() bool {
	switch p {
	case PolicyRename, PolicySkip, PolicyReplace:
		return true
	}
	return false
}

func (p Policy) String() string {
	return string(p)
}

// 📊 Outcome reports what Organize did
type Outcome int

const (
	OutcomeMoved    Outcome = iota + 1 // Moved under its own name
	OutcomeRenamed                     // Moved under a numbered name
	OutcomeReplaced                    // Moved over a removed existing file
	OutcomeSkipped                     // Nothing moved
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeRenamed:
		return "renamed"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📦 Result describes a finished (or planned) organize call
type Result struct {
	Source      string  // Absolute source path
	Destination string  // Final path, or the colliding path when skipped
	Category    string  // Category the source was assigned to
	Outcome     Outcome // What happened
	IsDir       bool    // Whether the source was a directory
	Size        int64   // Source size in bytes (0 for directories)
}

// Skipped reports whether the call was a no-op
func (r *Result) Skipped() bool {
	return r != nil && r.Outcome == OutcomeSkipped
}

// 📌 StaticSettings is a fixed Settings value
type StaticSettings struct {
	Root      string
	Policy    Policy
	Overrides map[string]string
}

var _ Settings = StaticSettings{}

func (s StaticSettings) RootDirectory() string { return s.Root }

func (s StaticSettings) DuplicatePolicy() Policy {
	if s.Policy == "" {
		return DefaultPolicy
	}
	return s.Policy
}

func (s StaticSettings) Override(category string) (string, bool) {
	dir, ok := s.Overrides[category]
	return dir, ok
}
