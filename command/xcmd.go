/*
 * iecdrive - X-series utility commands.
 *
 * XJ and XC fall through to reporting status regardless of whether their
 * own argument was valid, and an X with no recognized second byte
 * reports status rather than a syntax error.
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

func (p *Parser) parseXCommand(buf, raw []byte) {
	eb := p.State.Pool.Error()
	switch at(buf, 1) {
	case 'J':
		switch at(buf, 2) {
		case '+':
			p.State.Flags |= drive.FlagJiffyEnabled
		case '-':
			p.State.Flags &^= drive.FlagJiffyEnabled
		}
		// A bad argument still reports status, same as no argument.
		eb.Set(drive.CodeStatus, p.State.DeviceAddress, 0)

	case 'C':
		// Oscillator calibration: not meaningful off real hardware, but the
		// argument is still consumed and status still reported.
		parseNumber(buf, 2)
		eb.Set(drive.CodeStatus, p.State.DeviceAddress, 0)

	case 'W':
		p.State.WriteConfiguration()
		eb.Set(drive.CodeStatus, p.State.DeviceAddress, 0)

	case 'S':
		fsys := currentPartition(p.State).FS
		path, pattern, err := drive.ParsePath(p.State, fsys, tailString(buf, 2), false)
		if err != nil {
			setParseError(eb, err)
			return
		}
		p.setChangeList(fsys, path, pattern)

	default:
		eb.Set(drive.CodeStatus, p.State.DeviceAddress, 0)
	}
}

// setChangeList populates the swap list with every directory entry at
// path matching pattern.
func (p *Parser) setChangeList(fsys drive.FileSystem, path drive.Path, pattern string) {
	eb := p.State.Pool.Error()
	d, err := fsys.OpenDir(path.Partition, path.Dir)
	if err != nil {
		setParseError(eb, err)
		return
	}
	var names []string
	for {
		entry, ok, err := fsys.NextMatch(d, pattern, drive.FlagHidden)
		if err != nil || !ok {
			break
		}
		if entry.Type == drive.TypeDir {
			continue
		}
		names = append(names, entry.Name)
	}
	p.State.SwapList.Set(names)
	eb.SetOK()
}
