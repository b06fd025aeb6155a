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

package opts

import (
	"context"
	"io"

	"github.com/walteh/sortdrop/pkg/category"
	"github.com/walteh/sortdrop/pkg/history"
	"github.com/walteh/sortdrop/pkg/log"
	"github.com/walteh/sortdrop/pkg/organize"
	"github.com/walteh/sortdrop/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Settings    *settings.Settings
	Store       settings.Store
	Classifier  *category.Classifier
	HistoryPath string
	Console     io.Writer
	Logger      *log.Logger
	UserLogger  *log.UserLogger
}

// 🏭 NewOrganizer builds an organizer over the shared settings.
// A non-empty policy applies to this organizer only and is not persisted.
func (o *RootOpts) NewOrganizer(policy organize.Policy) (*organize.Organizer, error) {
	if o.Settings == nil {
		return nil, errors.Errorf("settings are not loaded")
	}
	var s organize.Settings = o.Settings
	if policy != "" {
		s = policyOverride{Settings: o.Settings, policy: policy}
	}
	org, err := organize.New(organize.Options{
		Classifier: o.Classifier,
		Settings:   s,
	})
	if err != nil {
		return nil, errors.Errorf("creating organizer: %w", err)
	}
	return org, nil
}

// 📜 OpenHistory opens the move journal; callers close it
func (o *RootOpts) OpenHistory(ctx context.Context) (*history.Store, error) {
	store, err := history.Open(ctx, o.HistoryPath)
	if err != nil {
		return nil, errors.Errorf("opening history: %w", err)
	}
	return store, nil
}

type policyOverride struct {
	organize.Settings
	policy organize.Policy
}

func (p policyOverride) DuplicatePolicy() organize.Policy {
	return p.policy
}
