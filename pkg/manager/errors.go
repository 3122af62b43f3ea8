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

package manager

import (
	"fmt"

	"github.com/alibaba/opensandbox/folderd/pkg/errdefs"
)

// Not-found causes the manager distinguishes internally. All of them match
// errdefs.ErrNotFound.
var (
	ErrFolderNotIndexed = fmt.Errorf("%w: folder not found", errdefs.ErrNotFound)
	ErrFolderNotOnDisk  = fmt.Errorf("%w: folder not found in filesystem", errdefs.ErrNotFound)
	ErrFileNotIndexed   = fmt.Errorf("%w: file not found", errdefs.ErrNotFound)
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errdefs.ErrInvalidInput, fmt.Sprintf(format, args...))
}
