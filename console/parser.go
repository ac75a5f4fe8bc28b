/*
 * iecdrive - operator console command dispatch.
 *
 * A minimum-match command table (matchCommand checks only a command's
 * first len(input) letters against its min), a cmdLine cursor with
 * getWord/skipSpace helpers, and ProcessCommand/CompleteCmd as the
 * REPL's two entry points.
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
package console

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/ikorb/iecdrive/drive"
	"github.com/ikorb/iecdrive/internal/diskimage"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *Console) (bool, error)
	complete func(*cmdLine, *Console) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "attach", min: 2, process: attachCmd},
	{name: "detach", min: 2, process: detachCmd},
	{name: "mkdir", min: 2, process: mkimageCmd},
	{name: "set", min: 3, process: setCmd},
	{name: "show", min: 2, process: showCmd},
	{name: "swap", min: 2, process: swapCmd},
	{name: "quit", min: 2, process: quitCmd},
	{name: "help", min: 1, process: helpCmd},
}

// ProcessCommand executes one operator command line against console.
func ProcessCommand(commandLine string, c *Console) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(&line, c)
}

// CompleteCmd returns line-editing completions for commandLine.
func CompleteCmd(commandLine string, c *Console) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos-1] == ' ' {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line, c)
	}

	var out []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.name, name) {
			out = append(out, m.name)
		}
	}
	return out
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if m.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			out = append(out, m)
		}
	}
	return out
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord returns the next run of non-space characters, lower-cased.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

// getInt parses the next word as a base-10 integer.
func (l *cmdLine) getInt() (int, error) {
	w := l.getWord()
	if w == "" {
		return 0, errors.New("expected a number")
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, errors.New("not a number: " + w)
	}
	return n, nil
}

func partitionArg(c *Console, w string) (int, error) {
	if w == "" {
		return c.State.CurrentPartition, nil
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, errors.New("not a partition number: " + w)
	}
	n--
	if n < 0 || n >= c.State.MaxPartition() {
		return 0, errors.New("partition out of range")
	}
	return n, nil
}

// attachCmd expects "attach <partition> <path>"; partition is 1-based,
// matching SHOW's and SET PARTITION's numbering.
func attachCmd(line *cmdLine, c *Console) (bool, error) {
	partStr := line.getWord()
	path := strings.TrimSpace(line.line[line.pos:])
	if partStr == "" || path == "" {
		return false, errors.New("usage: attach <partition> <path>")
	}
	part, err := partitionArg(c, partStr)
	if err != nil {
		return false, err
	}

	img, err := diskimage.Open(path)
	if err != nil {
		return false, err
	}
	c.State.Partitions[part].FS = img
	c.State.Partitions[part].CurrentDir = img.RootDir()
	c.State.Partitions[part].ImageMounted = true
	return false, nil
}

func detachCmd(line *cmdLine, c *Console) (bool, error) {
	part, err := partitionArg(c, line.getWord())
	if err != nil {
		return false, err
	}
	p := &c.State.Partitions[part]
	if img, ok := p.FS.(*diskimage.Image); ok {
		if err := img.Close(); err != nil {
			return false, err
		}
	}
	p.FS = nil
	p.ImageMounted = false
	return false, nil
}

func mkimageCmd(line *cmdLine, _ *Console) (bool, error) {
	kindStr := line.getWord()
	path := strings.TrimSpace(line.line[line.pos:])
	if path == "" {
		return false, errors.New("mkdir requires a file name")
	}
	var kind diskimage.Kind
	switch kindStr {
	case "d64":
		kind = diskimage.KindD64
	case "d81":
		kind = diskimage.KindD81
	default:
		return false, errors.New("image kind must be d64 or d81: " + kindStr)
	}
	img, err := diskimage.Create(path, kind)
	if err != nil {
		return false, err
	}
	return false, img.Close()
}

func setCmd(line *cmdLine, c *Console) (bool, error) {
	opt := line.getWord()
	switch opt {
	case "address":
		n, err := line.getInt()
		if err != nil {
			return false, err
		}
		if n < drive.MinDeviceAddress || n > drive.MaxDeviceAddress {
			return false, errors.New("device address out of range")
		}
		c.State.DeviceAddress = n
	case "partition":
		n, err := line.getInt()
		if err != nil {
			return false, err
		}
		n--
		if n < 0 || n >= c.State.MaxPartition() {
			return false, errors.New("partition out of range")
		}
		c.State.CurrentPartition = n
	case "jiffy":
		c.State.Flags |= drive.FlagJiffyEnabled
	case "nojiffy":
		c.State.Flags &^= drive.FlagJiffyEnabled
	case "vic20":
		c.State.Flags |= drive.FlagVIC20Mode
	case "novic20":
		c.State.Flags &^= drive.FlagVIC20Mode
	default:
		return false, errors.New("unknown set option: " + opt)
	}
	return false, nil
}

func showCmd(line *cmdLine, c *Console) (bool, error) {
	w := line.getWord()
	if w == "" {
		for i, p := range c.State.Partitions {
			c.printf("partition %d: mounted=%v current=%v\n", i+1, p.ImageMounted, i == c.State.CurrentPartition)
		}
		c.printf("device address %d, loader %v, disk state %v\n", c.State.DeviceAddress, c.State.DetectedLoader, c.State.DiskState)
		return false, nil
	}
	part, err := partitionArg(c, w)
	if err != nil {
		return false, err
	}
	p := c.State.Partitions[part]
	if img, ok := p.FS.(*diskimage.Image); ok {
		c.printf("partition %d: %s (%v)\n", part+1, img.Path(), img.Kind())
	} else {
		c.printf("partition %d: no image mounted\n", part+1)
	}
	return false, nil
}

func swapCmd(line *cmdLine, c *Console) (bool, error) {
	rest := strings.TrimSpace(line.line[line.pos:])
	if rest == "" {
		c.State.SwapList.Clear()
		return false, nil
	}
	c.State.SwapList.Set(strings.Fields(rest))
	return false, nil
}

func quitCmd(*cmdLine, *Console) (bool, error) {
	return true, nil
}

func helpCmd(*cmdLine, *Console) (bool, error) {
	return false, errors.New("commands: attach, detach, mkdir, set, show, swap, quit")
}
