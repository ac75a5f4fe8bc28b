/*
 * iecdrive - IEC bus façade.
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

// Package bus defines the three-wire open-collector ATN/CLOCK/DATA façade
// that the command parser and fast loaders drive against: named line bits,
// read back as one word.
package bus

// Lines is the bitmask returned by Read: a set bit means the line reads
// high (released); a clear bit means the line is asserted low, the same
// polarity a 1541's VIA port presents.
type Lines uint8

const (
	BitData  Lines = 1 << iota // DATA line
	BitClock                   // CLOCK line
	BitATN                     // ATN line
)

// Has reports whether the given bit(s) are set (line released/high).
func (l Lines) Has(bit Lines) bool {
	return l&bit != 0
}

// Bus is the façade consumed by the command parser and fast loaders.
// Implementations are open-collector: Set*(true) asserts the line low,
// Set*(false) releases it to the pull-up. ATN is host-driven only; the
// drive never asserts it, so there is no SetATN.
type Bus interface {
	Read() Lines
	SetClock(active bool)
	SetData(active bool)
	DelayUs(n int)
	DelayMs(n int)
}

// ClockQuality is optionally implemented by a Bus whose delay source may
// be too coarse for the tightest loader timings; loaders that cannot
// tolerate drift check it before taking over the bus.
type ClockQuality interface {
	StableClock() bool
}

// Asserted is a convenience for loader code that reads more naturally as
// "is DATA/CLOCK/ATN asserted" than "is the bit clear".
func Asserted(l Lines, bit Lines) bool {
	return !l.Has(bit)
}
