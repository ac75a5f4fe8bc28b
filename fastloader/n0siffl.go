/*
 * iecdrive - "N0stalgia IFFL" fast-loader protocol.
 *
 * An 8-step ack handshake per byte (whichever of DATA/CLOCK the sender
 * asserts carries the bit, the receiver acks on the other line, both
 * release before the next step), a scan phase translating the
 * host-uploaded vfile LBA tables into physical track/sector, and a load
 * phase addressing vfiles by a one-byte index whose high bits select
 * read vs write. Transmit mirrors receive with the roles swapped.
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

// N0SDOS uploads its vfile LBA table as two parallel 208-byte arrays at
// $0590/$0660, plus a per-vfile intra-sector offset table at $0730; the
// scanner rewrites the LBA arrays in place into start track/sector.
const (
	iffTableLen   = 208
	iffLBALoAddr  = 0x0590
	iffLBAHiAddr  = 0x0660
	iffOffsetAddr = 0x0730
)

func allReleased(l bus.Lines) bool {
	return l.Has(bus.BitData) && l.Has(bus.BitClock) && l.Has(bus.BitATN)
}

func iffGetByte(b bus.Bus) (byte, bool) {
	b.SetClock(false)
	b.SetData(false)
	var v byte
	for i := 0; i < 8; i++ {
		for allReleased(b.Read()) {
		}
		if !b.Read().Has(bus.BitATN) {
			return 0, false
		}
		v <<= 1
		if !b.Read().Has(bus.BitClock) { // CLOCK asserted by host: bit 1
			v |= 1
			b.SetData(true)
			for !b.Read().Has(bus.BitClock) {
			}
		} else { // DATA asserted by host: bit 0
			b.SetClock(true)
			for !b.Read().Has(bus.BitData) {
			}
		}
		b.SetClock(false)
		b.SetData(false)
	}
	return v, true
}

func iffPutByte(b bus.Bus, v byte) {
	for i := 0; i < 8; i++ {
		bit := v & 0x80
		v <<= 1
		if bit != 0 {
			b.SetClock(true)
			for b.Read().Has(bus.BitData) {
			}
			b.SetClock(false)
			for !b.Read().Has(bus.BitData) {
			}
		} else {
			b.SetData(true)
			for b.Read().Has(bus.BitClock) {
			}
			b.SetData(false)
			for !b.Read().Has(bus.BitClock) {
			}
		}
	}
}

// scanIFFL walks the container's sector chain once, rewriting the
// uploaded vfile LBA tables in place into physical start track/sector
// pairs: a vfile whose LBA equals the chain position gets the current
// sector's address.
func scanIFFL(fsys drive.FileSystem, partition, startTrack, startSector int, lbaLo, lbaHi []byte) error {
	buf := make([]byte, drive.SectorSize)
	t, s := startTrack, startSector
	vfileIndex := 0
	sectorCount := 0
	for t != 0 {
		if err := fsys.ReadSector(buf, partition, t, s); err != nil {
			return err
		}
		if vfileIndex < len(lbaLo) && sectorCount == int(lbaHi[vfileIndex])<<8|int(lbaLo[vfileIndex]) {
			lbaHi[vfileIndex] = byte(t)
			lbaLo[vfileIndex] = byte(s)
			vfileIndex++
		}
		t, s = int(buf[0]), int(buf[1])
		sectorCount++
	}
	return nil
}

func runN0sIFFL(b bus.Bus, state *drive.State, fsys drive.FileSystem) {
	b.SetData(false)
	b.SetClock(false)

	partition := state.CurrentPartition
	if !state.Partitions[partition].ImageMounted {
		state.Pool.Error().Set(drive.CodeImageInvalid, 0, 0)
		return
	}

	// Post-scan these alias vfile start sector/track.
	vfileSector := state.Upload[iffLBALoAddr-drive.UploadBase : iffLBALoAddr-drive.UploadBase+iffTableLen]
	vfileTrack := state.Upload[iffLBAHiAddr-drive.UploadBase : iffLBAHiAddr-drive.UploadBase+iffTableLen]
	vfileOffset := state.Upload[iffOffsetAddr-drive.UploadBase : iffOffsetAddr-drive.UploadBase+iffTableLen]

	// The host opens the IFFL container and reads its first byte before
	// uploading the loader, so the last sector fetched anchors the chain.
	if err := scanIFFL(fsys, partition, state.LastReadTrack, state.LastReadSector, vfileSector, vfileTrack); err != nil {
		state.Pool.Error().Set(drive.CodeReadNoSync, state.LastReadTrack, state.LastReadSector)
		return
	}

	buf := state.Pool.AllocateSystem()
	if buf == nil {
		return
	}
	defer state.Pool.Free(buf)

	readSector := func(t, s, o int) {
		fsys.ReadSector(buf.Data, partition, t, s)
		buf.Track, buf.Sector = t, s
		buf.Position = (o + 2) & 0xff // skip the sector's link header
	}
	readByte := func() byte {
		if buf.Position == 0 { // wrapped: follow the chain
			readSector(int(buf.Data[0]), int(buf.Data[1]), 0)
		}
		v := buf.Data[buf.Position]
		buf.Position = (buf.Position + 1) & 0xff
		return v
	}
	writeByte := func(v byte) {
		if buf.Position == 0 { // wrapped: flush, then follow the chain
			fsys.WriteSector(buf.Data, partition, buf.Track, buf.Sector)
			readSector(int(buf.Data[0]), int(buf.Data[1]), 0)
		}
		buf.Data[buf.Position] = v
		buf.Position = (buf.Position + 1) & 0xff
	}

	for {
		c, ok := iffGetByte(b)
		if !ok {
			return
		}
		vi := int(c)
		if vi >= 0xe0 {
			vi &= 0x1f // write command: low 5 bits index the vfile
		}
		if vi >= iffTableLen {
			state.Pool.Error().Set(drive.CodeUnknownDriveCode, 0, 0)
			return
		}

		readSector(int(vfileTrack[vi]), int(vfileSector[vi]), int(vfileOffset[vi]))
		size := int(readByte())<<8 | int(readByte())

		// The host expects the buffer position after the size field.
		iffPutByte(b, byte(buf.Position))

		// The uploaded size is complemented, so count up to zero.
		for ; size != 0; size = (size + 1) & 0xffff {
			if c < 0xe0 {
				iffPutByte(b, readByte())
			} else {
				next, ok := iffGetByte(b)
				if !ok {
					return
				}
				writeByte(next)
			}
		}
	}
}
