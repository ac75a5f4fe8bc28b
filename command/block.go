/*
 * iecdrive - B-R/B-W/B-P block commands.
 *
 * Covers the "B" vs "#" mode position/lastused distinction and the
 * legacy position-1 write quirk, kept verbatim rather than silently
 * corrected: drive behavior here is part of what loaders were written
 * against.
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

// parseBlockParam scans up to 4 comma/cursor-right/space separated
// decimal parameters after the command's ':' or, if there's no ':', after
// its third byte (the U1/U2 rewrite path lands here). This is a distinct
// scan from parseBlock's own '-' lookup for the op letter.
func parseBlockParam(buf []byte) (params [4]byte, count int, ok bool) {
	colon := indexByte(buf, ':')
	var i int
	if colon < 0 {
		if length(buf) < 3 {
			return params, 0, false
		}
		i = 2
	} else {
		i = colon
	}
	i++ // skip the ':' (or, in the no-colon case, land just past buf[2])

	for i < len(buf) && buf[i] != 0 && count < 4 {
		for i < len(buf) && (buf[i] == ' ' || buf[i] == 0x1d || buf[i] == ',') {
			i++
		}
		if i >= len(buf) || buf[i] == 0 {
			break
		}
		params[count], i = parseNumber(buf, i)
		count++
	}
	return params, count, true
}

func indexByte(buf []byte, c byte) int {
	for i, b := range buf {
		if b == 0 {
			return -1
		}
		if b == c {
			return i
		}
	}
	return -1
}

func length(buf []byte) int {
	for i, b := range buf {
		if b == 0 {
			return i
		}
	}
	return len(buf)
}

func (p *Parser) parseBlock(buf []byte) {
	eb := p.State.Pool.Error()
	if indexByte(buf, '-') < 0 {
		eb.Set(drive.CodeSyntaxUnable, 0, 0)
		return
	}

	params, _, ok := parseBlockParam(buf)
	if !ok {
		return
	}

	dash := indexByte(buf, '-')
	op := at(buf, dash+1)

	switch op {
	case 'R', 'W':
		b := p.State.Pool.FindByChannel(int(params[0]))
		if b == nil {
			eb.Set(drive.CodeNoChannel, 0, 0)
			return
		}
		partition := int(params[1])
		if partition == 0 {
			partition = p.State.CurrentPartition
		}
		if partition >= p.State.MaxPartition() {
			eb.Set(drive.CodePartitionIllegal, partition, 0)
			return
		}
		track, sector := int(params[2]), int(params[3])
		fsys := p.State.Partitions[partition].FS

		if op == 'R' {
			if err := fsys.ReadSector(b.Data, partition, track, sector); err != nil {
				eb.Set(drive.CodeReadNoSync, track, sector)
				return
			}
			p.State.LastReadTrack, p.State.LastReadSector = track, sector
			if at(buf, 0) == 'B' {
				b.Position = 1
				b.LastUsed = int(b.Data[0])
			} else {
				b.Position = 0
				b.LastUsed = 255
			}
		} else {
			if at(buf, 0) == 'B' {
				b.Data[0] = byte(b.Position - 1)
			}
			if err := fsys.WriteSector(b.Data, partition, track, sector); err != nil {
				eb.Set(drive.CodeReadNoSync, track, sector)
				return
			}
		}
		eb.SetOK()

	case 'P':
		b := p.State.Pool.FindByChannel(int(params[0]))
		if b == nil {
			eb.Set(drive.CodeNoChannel, 0, 0)
			return
		}
		b.Position = int(params[1])
		eb.SetOK()

	default:
		eb.Set(drive.CodeSyntaxUnable, 0, 0)
	}
}
