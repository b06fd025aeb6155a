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
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdrop/pkg/history"
	"github.com/walteh/sortdrop/pkg/organize"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📊 Summary aggregates a batch
type Summary struct {
	Items    int
	Moved    int
	Renamed  int
	Replaced int
	Skipped  int
	Failed   int
	Bytes    int64  // Bytes moved, skipped items excluded
	Results  []Item // In input order; unscheduled items are absent
}

// Failures returns the failed items
func (s *Summary) Failures() []Item {
	var out []Item
	for _, it := range s.Results {
		if it.Failed() {
			out = append(out, it)
		}
	}
	return out
}

func (s *Summary) add(it Item) {
	s.Items++
	if it.Err != nil {
		s.Failed++
		return
	}
	switch it.Result.Outcome {
	case organize.OutcomeMoved:
		s.Moved++
	case organize.OutcomeRenamed:
		s.Renamed++
	case organize.OutcomeReplaced:
		s.Replaced++
	case organize.OutcomeSkipped:
		s.Skipped++
		return
	}
	s.Bytes += it.Result.Size
}

// 🏃 Run organizes every path. Per-item failures are collected in the summary
// and do not stop the batch; a cancelled ctx stops scheduling and is returned.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	items := make([]*Item, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	var reportMu sync.Mutex

schedule:
	for i, path := range paths {
		select {
		case <-ctx.Done():
			break schedule
		default:
		}

		g.Go(func() error {
			it := r.runOne(gctx, path)
			items[i] = &it

			if r.reporter != nil {
				reportMu.Lock()
				r.reporter.Report(ctx, it)
				reportMu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	summary := &Summary{}
	for _, it := range items {
		if it == nil {
			continue
		}
		summary.add(*it)
		summary.Results = append(summary.Results, *it)
	}

	logger.Debug().
		Int("items", summary.Items).
		Int("failed", summary.Failed).
		Bool("dry_run", r.dryRun).
		Msg("batch finished")

	if err := ctx.Err(); err != nil {
		return summary, errors.Errorf("batch cancelled: %w", err)
	}
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, path string) Item {
	it := Item{Path: path, DryRun: r.dryRun}

	var (
		res *organize.Result
		err error
	)
	if r.dryRun {
		res, err = r.organizer.Plan(ctx, path)
	} else {
		res, err = r.organizer.Organize(ctx, path)
	}
	if err != nil {
		it.Err = err
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("organize failed")
		return it
	}
	it.Result = res

	if !r.dryRun && r.recorder != nil && !res.Skipped() {
		r.record(ctx, res)
	}
	return it
}

// record journals res; journal failures are logged, never surfaced as item failures.
func (r *Runner) record(ctx context.Context, res *organize.Result) {
	logger := zerolog.Ctx(ctx)

	entry := history.Entry{
		Source:      res.Source,
		Destination: res.Destination,
		Category:    res.Category,
		Outcome:     res.Outcome.String(),
		Size:        res.Size,
		IsDir:       res.IsDir,
	}

	if r.hash && !res.IsDir {
		sum, err := history.HashFile(res.Destination)
		if err != nil {
			logger.Warn().Err(err).Str("path", res.Destination).Msg("hashing moved file")
		} else {
			entry.SHA256 = sum
		}
	}

	if _, err := r.recorder.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("path", res.Destination).Msg("recording history")
	}
}
