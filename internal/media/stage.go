// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file stages source media into the temp directory before processing.
// The external tools are particular about file extensions, so the staged
// copy is named by sniffing the actual content type rather than trusting
// whatever extension the user's file carries.
package media

import (
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// Stager copies source media into working temp files.
type Stager struct {
	// TempDir is the directory for staged copies. Empty means the OS default.
	TempDir string
}

// Stage copies the file at path into a new temp file whose extension matches
// the sniffed content type.
//
// Inputs:
//   - path: The user-supplied source media path.
//
// Outputs:
//   - string: The staged file path. The caller owns cleanup (register it
//     with the workflow context's AddTempFile).
//   - error: Non-nil when the file cannot be read, is not a recognized
//     video type, or the copy fails.
func (s *Stager) Stage(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open source media %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	head := make([]byte, 261)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("cannot read source media %s: %w", path, err)
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("unrecognized media type for %s", path)
	}
	if kind.MIME.Type != "video" {
		return "", fmt.Errorf("source %s is %s, not video", path, kind.MIME.Value)
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	dst, err := os.CreateTemp(s.TempDir, "terry-source-*."+kind.Extension)
	if err != nil {
		return "", fmt.Errorf("cannot create staged media file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("cannot stage media %s: %w", path, err)
	}
	return dst.Name(), nil
}
