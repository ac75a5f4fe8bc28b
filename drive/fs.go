/*
 * iecdrive - Filesystem facade.
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

import "errors"

// EntryType classifies a directory entry.
type EntryType int

const (
	TypeFile EntryType = iota
	TypeDir
)

// MatchFlags selects which entries next_match/first_match consider.
type MatchFlags int

const (
	FlagNone   MatchFlags = 0
	FlagHidden MatchFlags = 1 << iota
)

// Entry describes one filesystem entry as the façade reports it.
type Entry struct {
	Name      string
	Type      EntryType
	Size      int64
	Cluster   uint32 // Opaque directory handle value for a TypeDir entry.
}

// ErrFileNotFound is returned by FirstMatch when nothing matches; it is
// not itself a protocol error, the caller decides what to do with it.
var ErrFileNotFound = errors.New("file not found")

// Dir is an opaque directory-iteration cursor returned by OpenDir.
type Dir interface{}

// FileSystem is the narrow façade the core invokes for everything disk
// shaped. Image operations live entirely on the other side of this
// interface (internal/diskimage implements it); the command parser and
// fast loaders never touch a file format directly.
type FileSystem interface {
	// ReadSector / WriteSector transfer exactly SectorSize bytes.
	ReadSector(buf []byte, partition int, track, sector int) error
	WriteSector(buf []byte, partition int, track, sector int) error

	// OpenDir begins iteration of a directory; NextMatch advances it.
	OpenDir(partition int, dir uint32) (Dir, error)
	NextMatch(d Dir, pattern string, flags MatchFlags) (Entry, bool, error)

	// FirstMatch looks up a single entry by exact name (pattern-free).
	FirstMatch(partition int, dir uint32, name string, flags MatchFlags) (Entry, error)

	FileDelete(partition int, dir uint32, name string) (count int, err error)
	Mkdir(partition int, dir uint32, name string) error
	Chdir(partition int, dir uint32, name string) (newDir uint32, err error)
	Rename(partition int, dir uint32, oldName, newName string) error
}
