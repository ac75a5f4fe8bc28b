/*
 * iecdrive - R (rename) command.
 *
 * New name parsed first (it's the left-hand side of '='), then the old
 * name; a rename can't move a file across directories.
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
package command

import (
	"strings"

	"github.com/ikorb/iecdrive/drive"
)

func (p *Parser) parseRename(buf, raw []byte) {
	eb := p.State.Pool.Error()
	full := tailString(buf, 1)
	eqIdx := strings.IndexByte(full, '=')
	if eqIdx < 0 {
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
		return
	}
	newRaw := full[:eqIdx]
	oldRaw := full[eqIdx+1:]

	fsys := currentPartition(p.State).FS
	newPath, newName, err := drive.ParsePath(p.State, fsys, newRaw, false)
	if err != nil {
		setParseError(eb, err)
		return
	}
	oldPath, oldName, err := drive.ParsePath(p.State, fsys, oldRaw, false)
	if err != nil {
		setParseError(eb, err)
		return
	}

	if oldPath.Partition != newPath.Partition || oldPath.Dir != newPath.Dir {
		eb.Set(drive.CodeFileNotFound, 0, 0)
		return
	}
	if containsInvalidNameChar(newName) {
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
		return
	}
	if newName == "" {
		eb.Set(drive.CodeSyntaxNoName, 0, 0)
		return
	}

	if _, err := fsys.FirstMatch(newPath.Partition, newPath.Dir, newName, drive.FlagHidden); err == nil {
		eb.Set(drive.CodeFileExists, 0, 0)
		return
	} else if err != drive.ErrFileNotFound {
		setParseError(eb, err)
		return
	}
	eb.SetOK()

	if _, err := fsys.FirstMatch(oldPath.Partition, oldPath.Dir, oldName, drive.FlagHidden); err != nil {
		setParseError(eb, err)
		return
	}

	if err := fsys.Rename(oldPath.Partition, oldPath.Dir, oldName, newName); err != nil {
		eb.Set(drive.CodeFileNotFound, 0, 0)
	}
}

// containsInvalidNameChar reports whether name contains a wildcard or
// the '=' separator, none of which may appear in a rename target.
func containsInvalidNameChar(name string) bool {
	return strings.ContainsAny(name, "*?=")
}
