/*
 * Fast-loader test cases.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikorb/iecdrive/bus"
	"github.com/ikorb/iecdrive/drive"
)

// scriptedBus replays a fixed, hand-counted sequence of Read() results so
// the byte-level loader routines can be exercised single-threaded and
// deterministically, the same approach bus's command_test takes. Once the
// script is exhausted it returns 0 (everything asserted, ATN included) so
// a miscounted script terminates via the ATN path instead of spinning.
type scriptedBus struct {
	reads     []bus.Lines
	pos       int
	dataSets  []bool
	clockSets []bool
}

func (s *scriptedBus) Read() bus.Lines {
	if s.pos >= len(s.reads) {
		return 0
	}
	l := s.reads[s.pos]
	s.pos++
	return l
}
func (s *scriptedBus) SetClock(active bool) { s.clockSets = append(s.clockSets, active) }
func (s *scriptedBus) SetData(active bool)  { s.dataSets = append(s.dataSets, active) }
func (s *scriptedBus) DelayUs(int)          {}
func (s *scriptedBus) DelayMs(int)          {}

// --- signature table -------------------------------------------------------

func TestLookupKnownSignature(t *testing.T) {
	sig, ok := Lookup(0xe1cb)
	require.True(t, ok)
	assert.Equal(t, ProtocolTurbodisk, sig.Protocol)
	assert.True(t, sig.CarriesName)
	assert.Equal(t, uint16(0x0303), sig.ExecAddr)

	_, ok = Lookup(0xdead)
	assert.False(t, ok)
}

func TestForLoaderRoundTrip(t *testing.T) {
	for _, s := range Signatures {
		got, ok := ForLoader(s.Protocol.LoaderID())
		require.True(t, ok, "loader %s has no reverse mapping", s.Name)
		assert.Equal(t, s.CRC, got.CRC)
	}
	_, ok := ForLoader(drive.LoaderNone)
	assert.False(t, ok)
}

func TestForIDInvertsLoaderID(t *testing.T) {
	for _, p := range []Protocol{ProtocolAnotherWorld, ProtocolN0sIFFL, ProtocolWingsOfFury, ProtocolTurbodisk} {
		assert.Equal(t, p, ForID(p.LoaderID()))
	}
	assert.Equal(t, ProtocolNone, ForID(drive.LoaderNone))
}

func TestSignatureTableHasNoDuplicateCRCs(t *testing.T) {
	seen := make(map[uint16]bool)
	for _, s := range Signatures {
		require.False(t, seen[s.CRC], "duplicate signature CRC %#x", s.CRC)
		seen[s.CRC] = true
	}
}

// --- Another World byte transfer -------------------------------------------

// awGetByteScript builds the Read() sequence awGetByte consumes for one
// byte, MSb first, two bits per CLOCK cycle: per pair a clock-asserted
// entry, the first bit's DATA sample (asserted = 1), a clock-released
// entry, the second bit's sample.
func awGetByteScript(v byte) []bus.Lines {
	var script []bus.Lines
	for i := 0; i < 4; i++ {
		hi := v >> (7 - 2*i) & 1
		lo := v >> (6 - 2*i) & 1

		hiSample := bus.BitData
		if hi == 1 {
			hiSample = 0
		}
		loSample := bus.BitClock | bus.BitData
		if lo == 1 {
			loSample = bus.BitClock
		}
		script = append(script, 0, hiSample, bus.BitClock, loSample)
	}
	return script
}

func TestAWGetByteDecodesScriptedBits(t *testing.T) {
	for _, v := range []byte{0x00, 0xff, 0xa5, 0x3c} {
		sb := &scriptedBus{reads: awGetByteScript(v)}
		assert.Equal(t, v, awGetByte(sb), "byte %#x", v)
	}
}

func TestAWPutByteDrivesDataMSBFirst(t *testing.T) {
	// Per bit pair the host strobes CLOCK once: asserted, then released.
	var script []bus.Lines
	for i := 0; i < 4; i++ {
		script = append(script, 0, bus.BitClock)
	}
	sb := &scriptedBus{reads: script}
	awPutByte(sb, 0xc5)

	require.Len(t, sb.dataSets, 8)
	var got byte
	for _, asserted := range sb.dataSets {
		got <<= 1
		if asserted {
			got |= 1
		}
	}
	assert.Equal(t, byte(0xc5), got)
}

// --- N0s IFFL byte handshake ------------------------------------------------

// iffGetByteScript: per bit the host asserts the line carrying the bit
// (CLOCK = 1, DATA = 0), the drive acks on the other line, then the host
// releases and the drive follows.
func iffGetByteScript(v byte) []bus.Lines {
	var script []bus.Lines
	for i := 7; i >= 0; i-- {
		var carrier bus.Lines
		if v>>i&1 == 1 {
			carrier = bus.BitData | bus.BitATN // CLOCK asserted by host
		} else {
			carrier = bus.BitClock | bus.BitATN // DATA asserted by host
		}
		script = append(script, carrier, carrier, carrier, bus.BitData|bus.BitClock|bus.BitATN)
	}
	return script
}

func TestIFFGetByteDecodesScriptedBits(t *testing.T) {
	for _, v := range []byte{0x00, 0xff, 0x5a, 0xe3} {
		sb := &scriptedBus{reads: iffGetByteScript(v)}
		got, ok := iffGetByte(sb)
		require.True(t, ok, "byte %#x", v)
		assert.Equal(t, v, got, "byte %#x", v)
	}
}

func TestIFFGetByteAbortsOnATN(t *testing.T) {
	// First wait exits on an asserted line, then the ATN check sees ATN low.
	sb := &scriptedBus{reads: []bus.Lines{bus.BitData, bus.BitData}}
	_, ok := iffGetByte(sb)
	assert.False(t, ok)
}

// --- N0s IFFL scan phase -----------------------------------------------------

// chainFS serves a fixed sector chain; everything else is unused by the
// scanner.
type chainFS struct {
	sectors map[[2]int][]byte
}

func (f *chainFS) ReadSector(buf []byte, partition, track, sector int) error {
	data, ok := f.sectors[[2]int{track, sector}]
	if !ok {
		return drive.ErrFileNotFound
	}
	copy(buf, data)
	return nil
}
func (f *chainFS) WriteSector([]byte, int, int, int) error { return nil }
func (f *chainFS) OpenDir(int, uint32) (drive.Dir, error)  { return nil, nil }
func (f *chainFS) NextMatch(drive.Dir, string, drive.MatchFlags) (drive.Entry, bool, error) {
	return drive.Entry{}, false, nil
}
func (f *chainFS) FirstMatch(int, uint32, string, drive.MatchFlags) (drive.Entry, error) {
	return drive.Entry{}, drive.ErrFileNotFound
}
func (f *chainFS) FileDelete(int, uint32, string) (int, error) { return 0, nil }
func (f *chainFS) Mkdir(int, uint32, string) error             { return nil }
func (f *chainFS) Chdir(int, uint32, string) (uint32, error)   { return 0, nil }
func (f *chainFS) Rename(int, uint32, string, string) error    { return nil }

func linkedSector(nextTrack, nextSector byte) []byte {
	s := make([]byte, drive.SectorSize)
	s[0], s[1] = nextTrack, nextSector
	return s
}

func TestScanIFFLTranslatesLBAToTrackSector(t *testing.T) {
	fs := &chainFS{sectors: map[[2]int][]byte{
		{1, 0}: linkedSector(1, 1),
		{1, 1}: linkedSector(2, 0),
		{2, 0}: linkedSector(0, 0),
	}}

	// vfile 0 starts at chain position 0, vfile 1 at position 2.
	lbaLo := []byte{0, 2}
	lbaHi := []byte{0, 0}

	require.NoError(t, scanIFFL(fs, 0, 1, 0, lbaLo, lbaHi))

	// The scanner rewrites the tables in place: hi = track, lo = sector.
	assert.Equal(t, byte(1), lbaHi[0])
	assert.Equal(t, byte(0), lbaLo[0])
	assert.Equal(t, byte(2), lbaHi[1])
	assert.Equal(t, byte(0), lbaLo[1])
}

// --- Wings of Fury byte transfer ---------------------------------------------

// wofGetByteScript: one sync exchange (DATA released, then asserted), a
// start-of-byte DATA release, then four time-quantized samples carrying
// two bits each (asserted = 1, CLOCK even bits, DATA odd bits).
func wofGetByteScript(v byte) []bus.Lines {
	script := []bus.Lines{
		bus.BitData | bus.BitClock | bus.BitATN, // sync: DATA released
		bus.BitATN,                              // sync: DATA asserted
		bus.BitData | bus.BitATN,                // byte start: DATA released
	}
	for i := 0; i < 4; i++ {
		sample := bus.BitATN
		if v>>(2*i)&1 == 0 {
			sample |= bus.BitClock
		}
		if v>>(2*i+1)&1 == 0 {
			sample |= bus.BitData
		}
		script = append(script, sample)
	}
	return script
}

func TestWOFGetByteDecodesScriptedBits(t *testing.T) {
	for _, v := range []byte{0x00, 0xff, 0x89, 0xa1, 0x47} {
		sb := &scriptedBus{reads: wofGetByteScript(v)}
		got, ok := wofGetByte(sb)
		require.True(t, ok, "byte %#x", v)
		assert.Equal(t, v, got, "byte %#x", v)
	}
}

func TestWOFSyncAbortsOnATN(t *testing.T) {
	// DATA stays asserted while ATN drops: the wait loop's ATN check fires.
	sb := &scriptedBus{reads: []bus.Lines{bus.BitClock, bus.BitClock}}
	assert.False(t, wofSync(sb))
}

// --- dispatch and exit behavior ----------------------------------------------

func TestWingsOfFuryRefusesUnstableClock(t *testing.T) {
	sim := bus.NewSim()
	sim.Unstable = true
	state := drive.NewState(1, 4, 8)

	Run(ProtocolWingsOfFury, sim, state, nil)

	assert.Equal(t, drive.CodeClockUnstable, state.Pool.Error().Code())
}

func TestRunReleasesLinesAndFiresExitCue(t *testing.T) {
	sim := bus.NewSim()
	sim.SetData(true)
	sim.SetClock(true)
	state := drive.NewState(1, 4, 8)
	cued := false
	state.LoaderCue = func() { cued = true }

	// Turbodisk has no transfer routine in this build; Run still takes the
	// shared exit path.
	Run(ProtocolTurbodisk, sim, state, nil)

	l := sim.Read()
	assert.True(t, l.Has(bus.BitData), "DATA must be released on loader exit")
	assert.True(t, l.Has(bus.BitClock), "CLOCK must be released on loader exit")
	assert.True(t, cued)
}
