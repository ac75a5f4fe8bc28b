/*
 * iecdrive - Drive state aggregate.
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

import "github.com/ikorb/iecdrive/internal/crc16"

// IECFlags is the bitfield of bus-behavior runtime flags.
type IECFlags uint8

const (
	FlagJiffyEnabled IECFlags = 1 << iota
	FlagVIC20Mode
	FlagAutoswapActive
)

// LoaderID names a detected or running fast-loader protocol. It is data,
// not a compiled enum boundary: new entries are added to the signature
// table (see fastloader.Signatures) without touching this type's meaning.
type LoaderID int

const (
	LoaderNone LoaderID = iota
	LoaderAnotherWorld
	LoaderN0sIFFL
	LoaderWingsOfFury
	LoaderTurbodisk
)

// DiskState reports whether the mounted medium is usable.
type DiskState int

const (
	DiskOK DiskState = iota
	DiskNoSync
	DiskRemoved
)

// MinDeviceAddress and MaxDeviceAddress bound the IEC device address.
const (
	MinDeviceAddress = 4
	MaxDeviceAddress = 30
)

// Partition holds one mounted storage unit's filesystem capability set
// and working directory: a partition picks which FileSystem backs it
// instead of callers branching on medium inline.
type Partition struct {
	FS           FileSystem
	CurrentDir   uint32
	ImageMounted bool
}

// State is the process-wide drive aggregate. It is threaded explicitly
// through the parser and loader entry points rather than reached for as
// a package-level global.
type State struct {
	Partitions       []Partition
	CurrentPartition int
	DeviceAddress    int
	Flags            IECFlags
	DetectedLoader   LoaderID
	CRC              uint16
	DiskState        DiskState
	Pool             *Pool
	SwapList         *SwapList

	// ArmedLoader is the loader a matching M-E has handed the bus to.
	// DetectedLoader is the CRC fingerprint's verdict after an M-W;
	// only an M-E at the loader's expected address promotes it here,
	// and the event loop consumes it on the next attention release.
	ArmedLoader LoaderID

	// Upload captures M-W payloads addressed into the drive's buffer RAM
	// ($0400-$07FF on a 1541), where loaders park their tables before
	// execution starts. The IFFL scanner reads its vfile LBA tables back
	// out of here.
	Upload []byte

	// LastReadTrack/Sector remember the most recent sector fetched via
	// the block commands, the anchor an IFFL scan uses to locate the
	// container file's chain start.
	LastReadTrack  int
	LastReadSector int

	// LoaderCue, when set, is invoked once as a fast loader exits; the
	// LED surface (outside this core) hooks its brief both-LEDs flash
	// here.
	LoaderCue func()

	// EEPROM backs the E-R/E-W command-channel calls, a fixed-size scratch
	// area distinct from the buffer pool and from any mounted image.
	EEPROM []byte

	// RestartHook is invoked by UJ/U: after "disabling interrupts"; in
	// this emulation that means flushing buffers and returning to the
	// caller's restart path rather than actually resetting hardware.
	RestartHook func()
}

// EEPROMSize is the E-R/E-W address space size.
const EEPROMSize = 2048

// UploadBase and UploadSize bound the emulated buffer RAM window that
// M-W payloads are captured into ($0400-$07FF).
const (
	UploadBase = 0x0400
	UploadSize = 0x0400
)

// NewState builds a drive with n partitions, a device address, and a
// pool of bufCount data buffers.
func NewState(n int, bufCount int, deviceAddress int) *State {
	s := &State{
		Partitions:    make([]Partition, n),
		DeviceAddress: deviceAddress,
		Pool:          NewPool(bufCount),
		SwapList:      NewSwapList(),
		EEPROM:        make([]byte, EEPROMSize),
		Upload:        make([]byte, UploadSize),
		CRC:           crc16.Seed,
	}
	return s
}

// MaxPartition returns the exclusive upper bound on partition indices.
func (s *State) MaxPartition() int {
	return len(s.Partitions)
}

// EEPROMConfigOffset is the fixed base offset at which persisted drive
// settings live in EEPROM.
const EEPROMConfigOffset = 0

// WriteConfiguration persists the device address and IEC flags to the
// EEPROM's config area, for the XW command.
func (s *State) WriteConfiguration() {
	s.EEPROM[EEPROMConfigOffset] = byte(s.DeviceAddress)
	s.EEPROM[EEPROMConfigOffset+1] = byte(s.Flags)
}
