// Copyright 2025 Alibaba Group Holding Ltd.
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

// Package idgen produces the short opaque identifiers used for folders and files.
package idgen

import (
	"errors"
	"math/big"

	"github.com/google/uuid"
)

// Length is the number of characters in a generated identifier.
const Length = 9

const maxAttempts = 8

// ErrExhausted is returned by Unique when every candidate was already taken.
var ErrExhausted = errors.New("idgen: no free identifier after retries")

// New returns a random identifier of Length characters drawn from [0-9a-z].
func New() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:])
	s := n.Text(36)
	for len(s) < Length {
		s = "0" + s
	}
	return s[len(s)-Length:]
}

// Unique draws identifiers until taken reports one as free.
func Unique(taken func(string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id := New()
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}
