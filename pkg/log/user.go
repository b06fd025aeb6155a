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

package log

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger gives feedback about settings and validation
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger printing to out (stdout when nil)
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	if out == nil {
		out = os.Stdout
	}
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// ⚙️ LogSettingChange reports an updated setting
func (u *UserLogger) LogSettingChange(key, value string) {
	u.printer(pterm.Success, "⚙️").Printfln("%s set to %s", key, value)
	u.log.Info().Str("key", key).Str("value", value).Msg("setting changed")
}

// 📦 LogStateChange reports a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation reports validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "❌").Println(err.Error())
		u.log.Error().Err(err).Msg(description)
	default:
		u.printer(pterm.Warning, "⚠️").Println(description)
		u.log.Warn().Msg(description)
	}
}
