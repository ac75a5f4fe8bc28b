/*
 * iecdrive - Simulated IEC bus.
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

package bus

import "github.com/ikorb/iecdrive/internal/vtime"

// Sim is an in-memory Bus used by tests and by the run command's
// non-hardware event loop. Two sides push bits at each other: the drive
// side (SetClock/SetData) and the host side (HostSetData/HostSetClock/
// HostSetATN). A line reads released only when neither side asserts it,
// open-collector style (either side pulling low wins).
type Sim struct {
	driveData, driveClock        bool // true = asserted (low)
	hostData, hostClock, hostATN bool
	Clock                        vtime.Delayer

	// Unstable marks the simulated delay source as too coarse for
	// drift-intolerant loaders, for exercising their refusal path.
	Unstable bool
}

// NewSim returns a Sim with both lines released and a Virtual clock.
func NewSim() *Sim {
	return &Sim{Clock: &vtime.Virtual{}}
}

func (s *Sim) Read() Lines {
	var l Lines
	if !s.driveData && !s.hostData {
		l |= BitData
	}
	if !s.driveClock && !s.hostClock {
		l |= BitClock
	}
	if !s.hostATN {
		l |= BitATN
	}
	return l
}

func (s *Sim) SetClock(active bool) { s.driveClock = active }
func (s *Sim) SetData(active bool)  { s.driveData = active }
func (s *Sim) DelayUs(n int)        { s.Clock.DelayUs(n) }
func (s *Sim) DelayMs(n int)        { s.Clock.DelayMs(n) }
func (s *Sim) StableClock() bool    { return !s.Unstable }

// Host-side controls, used by tests driving the simulated host computer.
func (s *Sim) HostSetData(active bool)  { s.hostData = active }
func (s *Sim) HostSetClock(active bool) { s.hostClock = active }
func (s *Sim) HostSetATN(active bool)   { s.hostATN = active }
