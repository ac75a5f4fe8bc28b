/*
 * iecdrive - DOS command-channel parser, top-level dispatch.
 *
 * The MD/CD/RD family is tested before the main switch because their
 * first bytes ('M', 'C', 'R') would otherwise dispatch to the M-, C and
 * R commands.
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
	"github.com/ikorb/iecdrive/internal/debug"
	"github.com/ikorb/iecdrive/internal/hexdump"
	"github.com/ikorb/iecdrive/internal/vtime"
)

// MaxCommandLength is the command buffer capacity: a command filling it
// exactly is rejected as too long rather than silently truncated.
const MaxCommandLength = 128

// formatStallMs is how long the N (format) no-op stalls: one speed-test
// program divides by this command's elapsed time and hangs on zero.
const formatStallMs = 500

// Parser holds the drive state the command channel mutates. It carries
// no buffer of its own; the bus layer hands Execute a complete command
// string once it has seen the terminating CR.
type Parser struct {
	State *drive.State

	// Delay paces the N command's stall; tests swap in a virtual clock.
	Delay vtime.Delayer
}

// New returns a command parser bound to state.
func New(state *drive.State) *Parser {
	return &Parser{State: state, Delay: vtime.RealClock{}}
}

// Execute runs one command-channel string through the parser, the
// equivalent of parse_doscommand. truncated reports whether the caller
// had to stop filling the command buffer because it ran out of room.
func (p *Parser) Execute(raw []byte, truncated bool) {
	eb := p.State.Pool.Error()
	eb.SetOK()

	if truncated || len(raw) >= MaxCommandLength {
		eb.Set(drive.CodeSyntaxTooLong, 0, 0)
		return
	}

	for len(raw) > 0 && raw[len(raw)-1] == 0x0d {
		raw = raw[:len(raw)-1]
	}
	if len(raw) == 0 {
		eb.Set(drive.CodeSyntaxUnable, 0, 0)
		return
	}

	if debug.Enabled(debug.Parser) {
		debug.Logf("PARSER", debug.Parser, ">%s", hexdump.Bytes(raw))
	}

	buf := make([]byte, MaxCommandLength)
	copy(buf, raw)

	if at(buf, 1) == 'D' {
		p.dispatchDirCommand(buf, raw)
		return
	}

	switch at(buf, 0) {
	case 'B':
		p.parseBlock(buf)
	case 'C':
		p.parseChangePartition(buf)
	case 'E':
		p.parseEEPROM(buf, len(raw))
	case 'I':
		p.parseInitialize()
	case 'M':
		p.parseMemory(buf, len(raw))
	case 'N':
		// Format is a timed no-op; see formatStallMs.
		p.Delay.DelayMs(formatStallMs)
		p.State.Pool.Error().SetOK()
	case 'R':
		p.parseRename(buf, raw)
	case 'S':
		p.parseScratch(buf, raw)
	case 'U':
		p.parseUser(buf)
	case 'X':
		p.parseXCommand(buf, raw)
	default:
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
	}
}

// at returns buf[i] or 0 past the end, modeling the zero-padded command
// buffer.
func at(buf []byte, i int) byte {
	if i < 0 || i >= len(buf) {
		return 0
	}
	return buf[i]
}

func rawAt(raw []byte, i int) byte {
	if i < 0 || i >= len(raw) {
		return 0
	}
	return raw[i]
}

func currentPartition(s *drive.State) *drive.Partition {
	return &s.Partitions[s.CurrentPartition]
}

// parseNumber parses a run of decimal digits at s[*i], skipping leading
// spaces first, and returns the value plus the index just past it.
func parseNumber(s []byte, i int) (byte, int) {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	var res byte
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		res = res*10 + (s[i] - '0')
		i++
	}
	return res, i
}

func (p *Parser) dispatchDirCommand(buf, raw []byte) {
	eb := p.State.Pool.Error()
	switch at(buf, 0) {
	case 'M':
		p.parseMkdir(buf, raw)
	case 'C':
		p.parseChdir(buf, raw)
	case 'R':
		p.parseDirRemove(buf, raw)
	default:
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
	}
}

func (p *Parser) parseMkdir(buf, raw []byte) {
	eb := p.State.Pool.Error()
	if !strings.ContainsRune(string(raw), ':') {
		eb.Set(drive.CodeSyntaxNoName, 0, 0)
		return
	}
	fsys := currentPartition(p.State).FS
	path, name, err := drive.ParsePath(p.State, fsys, tailString(buf, 2), false)
	if err != nil {
		setParseError(eb, err)
		return
	}
	if err := fsys.Mkdir(path.Partition, path.Dir, name); err != nil {
		eb.Set(drive.CodeFileNotFound, 0, 0)
		return
	}
	eb.SetOK()
}

func (p *Parser) parseChdir(buf, raw []byte) {
	eb := p.State.Pool.Error()
	fsys := currentPartition(p.State).FS
	path, name, err := drive.ParsePath(p.State, fsys, tailString(buf, 2), true)
	if err != nil {
		setParseError(eb, err)
		return
	}
	if name != "" {
		if name == drive.ParentMarker {
			newDir, err := fsys.Chdir(path.Partition, path.Dir, drive.ParentMarker)
			if err != nil {
				eb.Set(drive.CodeFileNotFound, 0, 0)
				return
			}
			p.State.Partitions[path.Partition].CurrentDir = newDir
		} else {
			entry, err := fsys.FirstMatch(path.Partition, path.Dir, name, drive.FlagHidden)
			if err != nil {
				eb.Set(drive.CodeFileNotFound, 0, 0)
				return
			}
			if entry.Type == drive.TypeDir {
				p.State.Partitions[path.Partition].CurrentDir = entry.Cluster
			} else {
				newDir, err := fsys.Chdir(path.Partition, path.Dir, name)
				if err != nil {
					eb.Set(drive.CodeFileNotFound, 0, 0)
					return
				}
				p.State.Partitions[path.Partition].CurrentDir = newDir
			}
		}
	} else {
		if strings.ContainsRune(string(raw), '/') {
			p.State.Partitions[path.Partition].CurrentDir = path.Dir
		} else {
			eb.Set(drive.CodeFileNotFound, 0, 0)
			return
		}
	}

	if p.State.Flags&drive.FlagAutoswapActive != 0 {
		p.State.SwapList.Clear()
	}
	eb.SetOK()
}

func (p *Parser) parseDirRemove(buf, raw []byte) {
	eb := p.State.Pool.Error()
	// No deletion across subdirectories: a '/' anywhere in the command
	// aborts with SYNTAX_NONAME.
	if strings.ContainsRune(string(raw), '/') {
		eb.Set(drive.CodeSyntaxNoName, 0, 0)
		return
	}

	part, idx := parsePartitionPrefix(buf, 2)
	if part >= p.State.MaxPartition() {
		eb.Set(drive.CodePartitionIllegal, part+1, 0)
		return
	}
	if at(buf, idx) != ':' {
		eb.Set(drive.CodeSyntaxNoName, 0, 0)
		return
	}
	fsys := p.State.Partitions[part].FS
	dir := p.State.Partitions[part].CurrentDir
	pattern := tailString(buf, idx+1)

	count, err := fsys.FileDelete(part, dir, pattern)
	if err != nil {
		eb.Set(drive.CodeFileNotFound, 0, 0)
		return
	}
	eb.Set(drive.CodeScratched, count, 0)
}

// parsePartitionPrefix parses an optional leading decimal partition
// number (1-based as a human types it, 0-based internally) starting at
// buf[i], returning the resolved partition index and the index just
// past the digits.
func parsePartitionPrefix(buf []byte, i int) (int, int) {
	n, next := parseNumber(buf, i)
	if next == i {
		return 0, i
	}
	if n == 0 {
		return 0, next
	}
	return int(n) - 1, next
}

func tailString(buf []byte, from int) string {
	if from >= len(buf) {
		return ""
	}
	end := from
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[from:end])
}

func setParseError(eb *drive.ErrorBuffer, err error) {
	if pe, ok := err.(*drive.ParseError); ok {
		eb.Set(pe.Code, pe.Track, pe.Sector)
		return
	}
	eb.Set(drive.CodeFileNotFound, 0, 0)
}
