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

import "sync"

// dirLocks serializes organize calls that target the same directory.
type dirLocks struct {
	mu    sync.Mutex
	locks map[string]*dirLock
}

type dirLock struct {
	mu   sync.Mutex
	refs int
}

func newDirLocks() *dirLocks {
	return &dirLocks{locks: make(map[string]*dirLock)}
}

// lock blocks until key is free and returns the matching unlock.
func (l *dirLocks) lock(key string) func() {
	l.mu.Lock()
	dl, ok := l.locks[key]
	if !ok {
		dl = &dirLock{}
		l.locks[key] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.mu.Lock()

	return func() {
		dl.mu.Unlock()

		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
