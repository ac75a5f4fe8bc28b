/*
 * iecdrive - Delay abstraction for timing-critical loader code.
 *
 * A Delayer is a single swappable strategy for "wait this many
 * microseconds/milliseconds" so fast-loader state machines and the N
 * command's stall can run against a real clock in production and an
 * instant, deterministic clock in tests.
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
package vtime

import "time"

// Delayer is the minimal clock a fast loader or the command parser needs.
type Delayer interface {
	DelayUs(n int)
	DelayMs(n int)
}

// RealClock sleeps for wall-clock time; it's the production Delayer.
type RealClock struct{}

func (RealClock) DelayUs(n int) { time.Sleep(time.Duration(n) * time.Microsecond) }
func (RealClock) DelayMs(n int) { time.Sleep(time.Duration(n) * time.Millisecond) }

// Virtual is a test Delayer: it never sleeps, it just accumulates the
// requested delay so a test can assert on total elapsed virtual time
// without a multi-hundred-millisecond real sleep.
type Virtual struct {
	ElapsedUs int64
}

func (v *Virtual) DelayUs(n int) { v.ElapsedUs += int64(n) }
func (v *Virtual) DelayMs(n int) { v.ElapsedUs += int64(n) * 1000 }
