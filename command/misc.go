/*
 * iecdrive - Scratch, initialize and partition-change commands.
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

import "github.com/ikorb/iecdrive/drive"

// parseScratch implements the 'S' command (scratch/delete), including
// rejection of the 3-byte "S-X" two-drive swap syntax.
func (p *Parser) parseScratch(buf, raw []byte) {
	eb := p.State.Pool.Error()
	if len(raw) == 3 && at(buf, 1) == '-' {
		eb.Set(drive.CodeSyntaxUnable, 0, 0)
		return
	}

	fsys := currentPartition(p.State).FS
	path, pattern, err := drive.ParsePath(p.State, fsys, tailString(buf, 1), false)
	if err != nil {
		setParseError(eb, err)
		return
	}

	d, err := fsys.OpenDir(path.Partition, path.Dir)
	if err != nil {
		setParseError(eb, err)
		return
	}

	count := 0
	for {
		entry, ok, err := fsys.NextMatch(d, pattern, drive.FlagHidden)
		if err != nil {
			eb.Set(drive.CodeScratched, count, 0)
			return
		}
		if !ok {
			break
		}
		if entry.Type == drive.TypeDir {
			continue
		}
		n, err := fsys.FileDelete(path.Partition, path.Dir, entry.Name)
		if err != nil {
			// A mid-iteration failure still reports whatever got deleted
			// before it, rather than discarding the whole command.
			eb.Set(drive.CodeScratched, count, 0)
			return
		}
		count += n
	}
	eb.Set(drive.CodeScratched, count, 0)
}

// parseChangePartition implements the plain 'C' command family (CP and
// the Shift-P binary variant); 'CD' is routed separately because it
// collides with the MD/CD/RD directory family.
func (p *Parser) parseChangePartition(buf []byte) {
	eb := p.State.Pool.Error()
	switch at(buf, 1) {
	case 'P':
		i := 2
		if at(buf, i) == ':' {
			i++
		}
		part, _ := parsePartitionPrefix(buf, i)
		if part >= p.State.MaxPartition() {
			eb.Set(drive.CodePartitionIllegal, part+1, 0)
			return
		}
		p.State.CurrentPartition = part
		if p.State.Flags&drive.FlagAutoswapActive != 0 {
			p.State.SwapList.Clear()
		}
		eb.SetOK()

	case 0xd0: // Shift-P: binary partition number
		n := int(at(buf, 2))
		if n > p.State.MaxPartition() {
			eb.Set(drive.CodePartitionIllegal, n, 0)
			return
		}
		if n != 0 {
			p.State.CurrentPartition = n - 1
			if p.State.Flags&drive.FlagAutoswapActive != 0 {
				p.State.SwapList.Clear()
			}
		}
		eb.SetOK()

	default:
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
	}
}

// parseInitialize implements the 'I' command: free every non-system
// buffer on a healthy disk, or report the sync failure that's already
// latched.
func (p *Parser) parseInitialize() {
	eb := p.State.Pool.Error()
	if p.State.DiskState != drive.DiskOK {
		eb.Set(drive.CodeReadNoSync, 18, 0)
		return
	}
	p.State.Pool.FreeAll(true)
	eb.SetOK()
}
