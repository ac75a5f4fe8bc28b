/*
 * iecdrive - Drive path parsing.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package drive

import (
	"strconv"
	"strings"
)

// Path is a resolved (partition, directory) pair.
type Path struct {
	Partition int
	Dir       uint32
}

// ParentMarker is the component spelling meaning "go up one directory".
const ParentMarker = "_"

// ParsePath resolves a textual path in the drive's character set against
// the current working directory.
//
// Grammar: [partition ':'] (component '/')* residual
// A leading decimal number followed by ':' selects a partition; '_' means
// parent directory; an empty residual after a '/' means "the directory
// itself" unless allowEmpty is false, in which case it is SYNTAX_NONAME.
func ParsePath(s *State, fsys FileSystem, raw string, allowEmpty bool) (Path, string, error) {
	partition := s.CurrentPartition
	cwd := s.Partitions[partition].CurrentDir

	rest := raw
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		numPart := rest[:idx]
		if isAllDigits(numPart) {
			n, _ := strconv.Atoi(numPart)
			// Same 1-based-typed/0-based-internal convention as
			// command.parsePartitionPrefix: 0 aliases the current
			// partition, N selects partition N-1.
			if n != 0 {
				partition = n - 1
			}
			if partition < 0 || partition >= len(s.Partitions) {
				return Path{}, "", &ParseError{Code: CodePartitionIllegal}
			}
			cwd = s.Partitions[partition].CurrentDir
		}
		rest = rest[idx+1:]
	}

	if !strings.Contains(rest, "/") {
		if rest == "" && !allowEmpty {
			return Path{}, "", &ParseError{Code: CodeSyntaxNoName}
		}
		return Path{Partition: partition, Dir: cwd}, rest, nil
	}

	parts := strings.Split(rest, "/")
	residual := parts[len(parts)-1]
	components := parts[:len(parts)-1]

	dir := cwd
	for _, comp := range components {
		if comp == ParentMarker {
			newDir, err := fsys.Chdir(partition, dir, ParentMarker)
			if err != nil {
				return Path{}, "", err
			}
			dir = newDir
			continue
		}
		if comp == "" {
			continue
		}
		entry, err := fsys.FirstMatch(partition, dir, comp, FlagHidden)
		if err != nil {
			return Path{}, "", err
		}
		if entry.Type != TypeDir {
			return Path{}, "", &ParseError{Code: CodeFileNotFound}
		}
		dir = entry.Cluster
	}

	if residual == "" && !allowEmpty {
		return Path{}, "", &ParseError{Code: CodeSyntaxNoName}
	}

	return Path{Partition: partition, Dir: dir}, residual, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseError carries a drive error Code out of a parsing helper so callers
// can feed it straight to ErrorBuffer.Set without re-deriving the code.
type ParseError struct {
	Code   Code
	Track  int
	Sector int
}

func (e *ParseError) Error() string {
	return e.Code.Message()
}
