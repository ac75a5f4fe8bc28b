/*
 * iecdrive - "Another World" (C64) fast-loader protocol.
 *
 * Four page buffers stand in for drive RAM $0400-$07FF; a 3-byte
 * (a, b, c) command is dispatched on c/2, and bytes move two bits per
 * CLOCK cycle in lockstep, MSb first.
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

// awGetByte samples DATA on alternating CLOCK edges, MSb first: a high
// bit is DATA asserted (by the bit-value convention get/put share), a low
// bit is DATA released.
func awGetByte(b bus.Bus) byte {
	var v byte
	for i := 0; i < 4; i++ {
		for b.Read().Has(bus.BitClock) {
		}
		v = (v << 1) | bitFromAssert(!b.Read().Has(bus.BitData))
		for !b.Read().Has(bus.BitClock) {
		}
		v = (v << 1) | bitFromAssert(!b.Read().Has(bus.BitData))
	}
	return v
}

func bitFromAssert(asserted bool) byte {
	if asserted {
		return 1
	}
	return 0
}

func awPutByte(b bus.Bus, v byte) {
	for i := 0; i < 4; i++ {
		b.SetData(v&0x80 != 0)
		v <<= 1
		for b.Read().Has(bus.BitClock) {
		}
		b.SetData(v&0x80 != 0)
		v <<= 1
		for !b.Read().Has(bus.BitClock) {
		}
	}
}

func runAnotherWorld(b bus.Bus, state *drive.State, fsys drive.FileSystem) {
	b.DelayMs(500)

	var bufs [4]*drive.Buffer
	for i := range bufs {
		buf := state.Pool.AllocateSystem()
		if buf == nil {
			return
		}
		bufs[i] = buf
	}
	defer func() {
		for _, buf := range bufs {
			state.Pool.Free(buf)
		}
	}()

	partition := state.CurrentPartition

	for {
		// Wiggle DATA to tell the host we're ready; stop once it asserts
		// CLOCK (ready on its side too).
		for {
			b.DelayUs(10)
			b.SetData(b.Read().Has(bus.BitData))
			if !b.Read().Has(bus.BitClock) {
				break
			}
		}
		b.SetData(false) // release DATA

		// Wait for the incoming command: host releases CLOCK. ATN asserted
		// here means the host reset us; leave the loader cleanly.
		for !b.Read().Has(bus.BitClock) {
			if !b.Read().Has(bus.BitATN) {
				return
			}
		}

		a := awGetByte(b)
		sec := awGetByte(b)
		c := awGetByte(b)

		switch c / 2 {
		case 0: // read sector chain
			track, sector := a, sec
			for track != 0 {
				b.SetClock(true)
				if fsys.ReadSector(bufs[3].Data, partition, int(track), int(sector)) != nil {
					b.SetClock(false)
					return
				}
				b.SetClock(false)
				for i := 2; i < 256; i++ {
					awPutByte(b, bufs[3].Data[i])
				}
				track, sector = bufs[3].Data[0], bufs[3].Data[1]
				awPutByte(b, track)
			}

		case 1: // read single sector into page 7
			fsys.ReadSector(bufs[3].Data, partition, int(a), int(sec))

		case 2: // copy page 7 to destination page (b in 4..6)
			if sec >= 4 && sec <= 6 {
				copy(bufs[sec-4].Data, bufs[3].Data)
			}

		case 3: // write page 7 to sector
			fsys.WriteSector(bufs[3].Data, partition, int(a), int(sec))

		case 4: // bump head, no-op in emulation
		case 5: // read BAM, no-op

		case 6: // download page from host into page 7
			for i := 0; ; i++ {
				bufs[3].Data[byte(i)] = awGetByte(b)
				if byte(i) == 255 {
					break
				}
			}

		case 7: // upload page to host
			if sec < 4 || sec > 7 {
				break
			}
			for i := 0; ; i++ {
				awPutByte(b, bufs[sec-4].Data[byte(i)])
				if byte(i) == 255 {
					break
				}
			}

		case 8: // report drive control register: unprotected
			awPutByte(b, 0x10)

		case 9: // reset, unload
			return

		default:
			state.Pool.Error().Set(drive.CodeUnknownDriveCode, 0, 0)
			return
		}
	}
}
