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
	"context"

	"github.com/walteh/sortdrop/pkg/history"
	"github.com/walteh/sortdrop/pkg/organize"
	"gitlab.com/tozd/go/errors"
)

// 🗃️ Organizer is the single-item engine the runner drives
type Organizer interface {
	// Organize moves src into its category directory
	Organize(ctx context.Context, src string) (*organize.Result, error)
	// Plan predicts what Organize would do
	Plan(ctx context.Context, src string) (*organize.Result, error)
}

// 📝 Recorder journals completed moves
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// 📣 Reporter is told about every finished item
type Reporter interface {
	Report(ctx context.Context, item Item)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(ctx context.Context, item Item)

func (f ReporterFunc) Report(ctx context.Context, item Item) { f(ctx, item) }

// 📦 Item is the outcome of one path in a batch
type Item struct {
	Path   string
	Result *organize.Result // nil when Err is set
	Err    error
	DryRun bool
}

// Failed reports whether the item errored
func (i Item) Failed() bool {
	return i.Err != nil
}

// 🔧 Options contains configuration for the runner
type Options struct {
	// Organizer does the per-item work
	Organizer Organizer
	// Recorder, when set, journals every non-skipped move
	Recorder Recorder
	// Reporter, when set, receives every item as it finishes
	Reporter Reporter
	// Jobs bounds parallelism; <= 1 runs items one at a time
	Jobs int
	// DryRun plans instead of moving
	DryRun bool
	// Hash adds a SHA-256 of each moved regular file to its journal entry
	Hash bool
}

// 🏃 Runner turns a multi-file drop into independent organize calls
type Runner struct {
	organizer Organizer
	recorder  Recorder
	reporter  Reporter
	jobs      int
	dryRun    bool
	hash      bool
}

// 🏭 New creates a new runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Organizer == nil {
		return nil, errors.Errorf("organizer is required")
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		organizer: opts.Organizer,
		recorder:  opts.Recorder,
		reporter:  opts.Reporter,
		jobs:      jobs,
		dryRun:    opts.DryRun,
		hash:      opts.Hash,
	}, nil
}
