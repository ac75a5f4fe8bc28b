/*
 * iecdrive - operator console.
 *
 * A liner.Liner REPL with Ctrl-C abort, line-editing completion wired to
 * the command table, and ErrPromptAborted as the clean-exit signal. This
 * is the operator-facing surface, distinct from the emulated IEC command
 * channel in package command: attach/detach mount or release disk images
 * on a partition, set adjusts drive-wide flags, show prints partition
 * and drive status, swap loads or clears the autoswap list, and quit
 * stops the process.
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
	"fmt"
	"io"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/ikorb/iecdrive/drive"
)

// Console owns the drive's runtime state and the operator's output
// stream, threaded explicitly rather than reached for as a global.
type Console struct {
	State *drive.State
	out   io.Writer
}

// New builds a console over state, writing command output to out.
func New(state *drive.State, out io.Writer) *Console {
	return &Console{State: state, out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Run drives the operator REPL until QUIT or Ctrl-D.
func (c *Console) Run() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return CompleteCmd(l, c)
	})

	for {
		input, err := line.Prompt("iecdrive> ")
		if err == nil {
			line.AppendHistory(input)
			quit, err := ProcessCommand(input, c)
			if err != nil {
				c.printf("error: %s\n", err.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("console: error reading line: " + err.Error())
		return
	}
}
