/*
 * iecdrive - Channel 15 status line.
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

import "fmt"

// ErrorBuffer formats the drive's textual status line and is what a host
// reading channel 15 drains. It is sticky: it holds its last value until
// the host reads it or another command runs.
//
// The line format is "CC,MSG,TT,SS\r".
type ErrorBuffer struct {
	code    Code
	track   int
	sector  int
	line    string
	pos     int
	drained bool
}

// NewErrorBuffer returns an error buffer primed with OK.
func NewErrorBuffer() *ErrorBuffer {
	eb := &ErrorBuffer{}
	eb.Set(CodeOK, 0, 0)
	return eb
}

// Set stores a new (code, track, sector) tuple and renders the status line.
func (eb *ErrorBuffer) Set(code Code, track, sector int) {
	eb.code = code
	eb.track = track
	eb.sector = sector
	eb.line = fmt.Sprintf("%02d,%s,%02d,%02d\r", int(code), code.Message(), track, sector)
	eb.pos = 0
	eb.drained = false
}

// SetOK is shorthand for Set(CodeOK, 0, 0), the default after most commands.
func (eb *ErrorBuffer) SetOK() {
	eb.Set(CodeOK, 0, 0)
}

// SetRaw replaces the drained line with raw bytes rather than a formatted
// status string, for M-R's memory-read emulation: the drive aliases the
// first data buffer's contents through channel 15 instead of exposing
// real memory, so the host reads whatever bytes are passed here verbatim.
func (eb *ErrorBuffer) SetRaw(data []byte) {
	eb.code = CodeOK
	eb.track = 0
	eb.sector = 0
	eb.line = string(data)
	eb.pos = 0
	eb.drained = false
}

// Code reports the last stored code without draining the buffer.
func (eb *ErrorBuffer) Code() Code {
	return eb.code
}

// ReadByte returns the next byte of the status line as the host would see
// it reading channel 15, and whether a byte was available. Reading past
// the end drains the error back to OK, matching the real drive: once the
// host has read the whole line, the next command starts clean.
func (eb *ErrorBuffer) ReadByte() (byte, bool) {
	if eb.pos >= len(eb.line) {
		if !eb.drained {
			eb.drained = true
			eb.SetOK()
		}
		return 0, false
	}
	b := eb.line[eb.pos]
	eb.pos++
	return b, true
}

// Line returns the full, undrained status line.
func (eb *ErrorBuffer) Line() string {
	return eb.line
}
