/*
 * iecdrive - Per-subsystem debug gating.
 *
 * A bitmask-gated sink keyed by a module name, written to a single debug
 * file enabled at startup, instead of wiring every call site to check a
 * global verbose flag.
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
package debug

import (
	"fmt"
	"io"
	"os"
)

// Mask bits, one per subsystem this drive core instruments.
const (
	Parser int = 1 << iota
	FastLoader
	Bus
	FS
)

var nameToMask = map[string]int{
	"PARSER":     Parser,
	"FASTLOADER": FastLoader,
	"BUS":        Bus,
	"FS":         FS,
}

// NameToMask looks up a mask bit by its config-file spelling, for the
// config package's DEBUG directive.
func NameToMask(name string) (int, bool) {
	m, ok := nameToMask[name]
	return m, ok
}

var (
	out  io.Writer = io.Discard
	mask int
)

// SetOutput directs debug output at w; the zero value discards it.
func SetOutput(w io.Writer) {
	if w == nil {
		out = io.Discard
		return
	}
	out = w
}

// SetMask enables the given subsystem bits.
func SetMask(m int) { mask = m }

// Enabled reports whether bit is currently enabled.
func Enabled(bit int) bool { return mask&bit != 0 }

// Logf writes a debug line for module if its bit is enabled.
func Logf(module string, bit int, format string, args ...interface{}) {
	if mask&bit == 0 {
		return
	}
	fmt.Fprintf(out, module+": "+format+"\n", args...)
}

// OpenFile is a convenience for the config package's DEBUG directive.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
