/*
 * iecdrive - startup configuration file parser.
 *
 * A line-oriented directive file ('#' comments, one directive per line)
 * applied before the event loop starts: ATTACH/PARTITIONS/ADDRESS plus
 * the flag toggles and DEBUG. The directive set is small and fixed, so
 * dispatch is a plain switch rather than a registration map.
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
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/ikorb/iecdrive/drive"
	"github.com/ikorb/iecdrive/internal/debug"
	"github.com/ikorb/iecdrive/internal/diskimage"
)

type directiveLine struct {
	line string
	pos  int
}

func (l *directiveLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *directiveLine) isEOL() bool {
	if l.pos >= len(l.line) {
		return true
	}
	return l.line[l.pos] == '#'
}

func (l *directiveLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

func (l *directiveLine) rest() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	return strings.TrimRight(l.line[l.pos:], "\r\n")
}

// Load reads a startup directive file and applies it to state, mounting
// images and setting flags before the bus is brought up.
func Load(path string, state *drive.State) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	lineNumber := 0
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line := directiveLine{line: raw}
		if applyErr := applyDirective(&line, state); applyErr != nil {
			return fmt.Errorf("config: line %d: %w", lineNumber, applyErr)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func applyDirective(line *directiveLine, state *drive.State) error {
	word := strings.ToUpper(line.getWord())
	switch word {
	case "":
		return nil
	case "ATTACH":
		return applyAttach(line, state)
	case "PARTITIONS":
		return applyPartitions(line, state)
	case "ADDRESS":
		return applyAddress(line, state)
	case "JIFFY":
		state.Flags |= drive.FlagJiffyEnabled
		return nil
	case "NOJIFFY":
		state.Flags &^= drive.FlagJiffyEnabled
		return nil
	case "VIC20":
		state.Flags |= drive.FlagVIC20Mode
		return nil
	case "NOVIC20":
		state.Flags &^= drive.FlagVIC20Mode
		return nil
	case "DEBUG":
		return applyDebug(line)
	default:
		return errors.New("unknown directive: " + word)
	}
}

func applyAttach(line *directiveLine, state *drive.State) error {
	partStr := line.getWord()
	path := line.rest()
	if partStr == "" || path == "" {
		return errors.New("ATTACH requires a partition number and a file name")
	}
	n, err := strconv.Atoi(partStr)
	if err != nil {
		return errors.New("ATTACH partition must be a number: " + partStr)
	}
	n--
	if n < 0 || n >= state.MaxPartition() {
		return errors.New("ATTACH partition out of range")
	}
	img, err := diskimage.Open(path)
	if err != nil {
		return err
	}
	state.Partitions[n].FS = img
	state.Partitions[n].CurrentDir = img.RootDir()
	state.Partitions[n].ImageMounted = true
	return nil
}

func applyPartitions(line *directiveLine, state *drive.State) error {
	numStr := line.getWord()
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 1 {
		return errors.New("PARTITIONS requires a positive count: " + numStr)
	}
	if n > len(state.Partitions) {
		grown := make([]drive.Partition, n)
		copy(grown, state.Partitions)
		state.Partitions = grown
	}
	return nil
}

func applyAddress(line *directiveLine, state *drive.State) error {
	numStr := line.getWord()
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return errors.New("ADDRESS requires a number: " + numStr)
	}
	if n < drive.MinDeviceAddress || n > drive.MaxDeviceAddress {
		return errors.New("ADDRESS out of range")
	}
	state.DeviceAddress = n
	return nil
}

// applyDebug handles "DEBUG <file> <subsystem> [subsystem...]": opens file
// as the debug sink and enables the named subsystem masks (see
// internal/debug.NameToMask), e.g. "DEBUG drive.log parser fastloader".
func applyDebug(line *directiveLine) error {
	path := line.getWord()
	if path == "" {
		return errors.New("DEBUG requires a file name")
	}
	f, err := debug.OpenFile(path)
	if err != nil {
		return err
	}
	debug.SetOutput(f)

	mask := 0
	for {
		name := strings.ToUpper(line.getWord())
		if name == "" {
			break
		}
		bit, ok := debug.NameToMask(name)
		if !ok {
			return errors.New("unknown debug subsystem: " + name)
		}
		mask |= bit
	}
	debug.SetMask(mask)
	return nil
}
