/*
 * iecdrive - "Wings of Fury" fast-loader protocol.
 *
 * A mutual timing reference ("sync") is re-established before every
 * byte, bits latch in pairs across CLOCK/DATA at fixed microsecond
 * offsets, and commands are framed as (c, a, b, checksum) with
 * checksum = a^b^c. ATN is sampled inside both sync waits and before
 * each command frame, so a bus reset there exits the loader cleanly; the
 * DATA-release waits that follow a sync in wofGetByte and
 * wofPutSingleByte do not sample it.
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
package fastloader

import (
	"github.com/ikorb/iecdrive/bus"
	"github.com/ikorb/iecdrive/drive"
)

// wofSync re-establishes the timing reference both sides measure delays
// from: release both lines, wait for the host to release DATA, assert
// CLOCK in acknowledgement, then wait for the host to assert DATA.
func wofSync(b bus.Bus) bool {
	b.SetClock(false)
	b.SetData(false)
	b.DelayUs(10)
	for !b.Read().Has(bus.BitData) {
		if !b.Read().Has(bus.BitATN) {
			return false
		}
	}
	b.SetClock(true)
	for b.Read().Has(bus.BitData) {
		if !b.Read().Has(bus.BitATN) {
			return false
		}
	}
	return true
}

func wofGetByte(b bus.Bus) (byte, bool) {
	if !wofSync(b) {
		return 0, false
	}
	for !b.Read().Has(bus.BitData) {
	}
	b.SetData(false)
	b.SetClock(false)
	b.DelayUs(18)

	var v byte
	sample := func(bit byte) {
		l := b.Read()
		if !l.Has(bus.BitClock) {
			v |= bit
		}
		if !l.Has(bus.BitData) {
			v |= bit << 1
		}
	}
	sample(1)
	b.DelayUs(11)
	sample(4)
	b.DelayUs(11)
	sample(16)
	b.DelayUs(11)
	sample(64)

	b.SetClock(true) // keep CLOCK asserted: busy
	return v, true
}

func wofPutSingleByte(b bus.Bus, v byte) {
	b.SetData(false)
	b.SetClock(false)
	for !b.Read().Has(bus.BitData) {
	}

	b.SetClock(v&1 != 0)
	b.SetData(v&2 != 0)
	b.DelayUs(19)
	b.SetClock(v&4 != 0)
	b.SetData(v&8 != 0)
	b.DelayUs(10)
	b.SetClock(v&16 != 0)
	b.SetData(v&32 != 0)
	b.DelayUs(11)
	b.SetClock(v&64 != 0)
	b.SetData(v&128 != 0)
	b.DelayUs(10)
}

func wofSyncAndPut(b bus.Bus, v byte) bool {
	if !wofSync(b) {
		return false
	}
	wofPutSingleByte(b, v)
	return true
}

func runWingsOfFury(b bus.Bus, state *drive.State, fsys drive.FileSystem) {
	// The bit pairing leaves no slack for oscillator drift: a bus whose
	// delay source can't hold the 10-19µs gaps refuses to start at all
	// rather than corrupt sectors mid-game.
	if sc, ok := b.(bus.ClockQuality); ok && !sc.StableClock() {
		state.Pool.Error().Set(drive.CodeClockUnstable, 0, 0)
		return
	}

	buf := state.Pool.AllocateSystem()
	if buf == nil {
		return
	}
	defer state.Pool.Free(buf)

	b.SetData(false)
	b.SetClock(false)
	partition := state.CurrentPartition

	for {
		if !b.Read().Has(bus.BitATN) {
			return
		}

		c, ok := wofGetByte(b)
		if !ok {
			return
		}
		a, ok := wofGetByte(b)
		if !ok {
			return
		}
		s, ok := wofGetByte(b)
		if !ok {
			return
		}
		x, ok := wofGetByte(b)
		if !ok {
			return
		}
		b.DelayMs(1)

		if x != a^s^c {
			if !wofSyncAndPut(b, 0xa1) {
				return
			}
			continue
		}
		if !wofSyncAndPut(b, 0x89) {
			return
		}

		switch c {
		case 0:
			fsys.ReadSector(buf.Data, partition, int(a), int(s))
			if !wofSyncAndPut(b, 0x01) {
				return
			}
			if !wofSync(b) {
				return
			}
			for i := 0; ; i++ {
				wofPutSingleByte(b, buf.Data[byte(i)])
				if byte(i) == 255 {
					break
				}
			}

		case 1:
			// Like the command frame, a received sector carries its own XOR
			// checksum; retry the whole sector until the host ACKs, mirroring
			// the checksum-retry handshake already used for command bytes
			// above (no literal source for this sub-protocol survived, so
			// this generalizes the same ack/nak byte pair the command loop
			// uses rather than inventing a new one).
			for {
				var chk byte
				for i := 0; ; i++ {
					v, ok := wofGetByte(b)
					if !ok {
						return
					}
					buf.Data[byte(i)] = v
					chk ^= v
					if byte(i) == 255 {
						break
					}
				}
				if !wofSyncAndPut(b, chk) {
					return
				}
				ack, ok := wofGetByte(b)
				if !ok {
					return
				}
				if ack == 0x89 {
					break
				}
			}
			fsys.WriteSector(buf.Data, partition, int(a), int(s))

		case 2:
			track, sector := a, s
			for track != 0 {
				if err := fsys.ReadSector(buf.Data, partition, int(track), int(sector)); err != nil {
					return
				}
				if !wofSync(b) {
					return
				}
				for i := 0; ; i++ {
					wofPutSingleByte(b, buf.Data[byte(i)])
					if byte(i) == 255 {
						break
					}
				}
				track, sector = buf.Data[0], buf.Data[1]
			}

		default:
			if c&0x80 != 0 {
				return
			}
			state.Pool.Error().Set(drive.CodeUnknownDriveCode, 0, 0)
			return
		}
	}
}
