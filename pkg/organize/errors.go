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

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidSource means the source path is missing or unreadable
	ErrInvalidSource = errors.Base("invalid source")
	// ErrDestinationUnwritable means the destination directory could not be created or the existing file removed
	ErrDestinationUnwritable = errors.Base("destination unwritable")
	// ErrMoveFailed means the final move failed; the source is untouched
	ErrMoveFailed = errors.Base("move failed")
	// ErrTooManyCollisions means no free name was found within the rename bound
	ErrTooManyCollisions = errors.Base("too many name collisions")
)

// 🚦 Kind classifies organize failures
type Kind int

const (
	KindInvalidSource Kind = iota + 1
	KindDestinationUnwritable
	KindMoveFailed
	KindTooManyCollisions
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidSource:
		return "invalid source"
	case KindDestinationUnwritable:
		return "destination unwritable"
	case KindMoveFailed:
		return "move failed"
	case KindTooManyCollisions:
		return "too many collisions"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidSource:
		return ErrInvalidSource
	case KindDestinationUnwritable:
		return ErrDestinationUnwritable
	case KindMoveFailed:
		return ErrMoveFailed
	case KindTooManyCollisions:
		return ErrTooManyCollisions
	default:
		return nil
	}
}

// ❌ Error is the typed failure returned by Organize and Plan
type Error struct {
	Kind Kind   // What went wrong
	Path string // The path the failure is about
	Err  error  // Underlying cause, may be nil
}

func newError(kind Kind, path string, err error) error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of err, or 0 if err is not an organize error.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}
