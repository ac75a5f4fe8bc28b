/*
 * iecdrive - fast-loader protocol dispatch.
 *
 * A CRC16 signature observed during an M-W command-channel sequence
 * selects which bit-banged protocol takes over the bus next, once an
 * M-E at the loader's expected entry address confirms it. Signatures
 * are data, not compiled constants, so they stay introspectable.
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

// Protocol identifies one bit-banged fast-loader implementation.
type Protocol int

const (
	ProtocolNone Protocol = iota
	ProtocolAnotherWorld
	ProtocolN0sIFFL
	ProtocolWingsOfFury
	ProtocolTurbodisk
)

// Signature maps a loader-detection CRC16 to the protocol it triggers
// and the M-E entry address that confirms it.
type Signature struct {
	CRC      uint16
	ExecAddr uint16
	Protocol Protocol
	Name     string

	// CarriesName marks signatures (Turbodisk) whose upload sequence ends
	// with one more M-W holding the load filename: the CRC matches on the
	// write *before* that one, and the final write's payload must not be
	// folded into a fresh CRC run.
	CarriesName bool
}

// Signatures is the detection table the command channel's M-W handler
// consults after accumulating each write's CRC. A signature fingerprints
// the exact bytes a title's loader uploads, so values are title- and
// revision-specific; new entries come from captured traces without
// touching the dispatch code.
var Signatures = []Signature{
	{CRC: 0xe1cb, ExecAddr: 0x0303, Protocol: ProtocolTurbodisk, Name: "turbodisk", CarriesName: true},
	{CRC: 0x1a2b, ExecAddr: 0x0300, Protocol: ProtocolAnotherWorld, Name: "another-world"},
	{CRC: 0x3c4d, ExecAddr: 0x0500, Protocol: ProtocolN0sIFFL, Name: "n0s-iffl"},
	{CRC: 0x5e6f, ExecAddr: 0x0300, Protocol: ProtocolWingsOfFury, Name: "wings-of-fury"},
}

// Lookup returns the signature registered for crc, if any.
func Lookup(crc uint16) (Signature, bool) {
	for _, s := range Signatures {
		if s.CRC == crc {
			return s, true
		}
	}
	return Signature{}, false
}

// ForLoader returns the first signature whose protocol maps to id. A
// protocol with several table entries only yields the first one here.
func ForLoader(id drive.LoaderID) (Signature, bool) {
	for _, s := range Signatures {
		if s.Protocol.LoaderID() == id {
			return s, true
		}
	}
	return Signature{}, false
}

// LoaderID reports the drive.LoaderID a detected protocol corresponds to,
// for the command parser to stamp into drive.State.DetectedLoader once an
// M-W's CRC matches this table.
func (p Protocol) LoaderID() drive.LoaderID {
	switch p {
	case ProtocolAnotherWorld:
		return drive.LoaderAnotherWorld
	case ProtocolN0sIFFL:
		return drive.LoaderN0sIFFL
	case ProtocolWingsOfFury:
		return drive.LoaderWingsOfFury
	case ProtocolTurbodisk:
		return drive.LoaderTurbodisk
	default:
		return drive.LoaderNone
	}
}

// ForID is the inverse of LoaderID, for the event loop handing the bus
// to whichever loader an M-E armed.
func ForID(id drive.LoaderID) Protocol {
	switch id {
	case drive.LoaderAnotherWorld:
		return ProtocolAnotherWorld
	case drive.LoaderN0sIFFL:
		return ProtocolN0sIFFL
	case drive.LoaderWingsOfFury:
		return ProtocolWingsOfFury
	case drive.LoaderTurbodisk:
		return ProtocolTurbodisk
	default:
		return ProtocolNone
	}
}

// Run drives b according to protocol until the host releases it (ATN) or
// the protocol's own exit command fires. fsys resolves sector I/O against
// the drive's current partition. Whatever exit path the protocol takes,
// both lines are released afterwards and the drive's exit cue fires.
//
// Turbodisk is detected for its upload-filename quirk only; its transfer
// routine is not carried, so its protocol value runs nothing here.
func Run(protocol Protocol, b bus.Bus, state *drive.State, fsys drive.FileSystem) {
	defer func() {
		b.SetData(false)
		b.SetClock(false)
		if state.LoaderCue != nil {
			state.LoaderCue()
		}
	}()

	switch protocol {
	case ProtocolAnotherWorld:
		runAnotherWorld(b, state, fsys)
	case ProtocolN0sIFFL:
		runN0sIFFL(b, state, fsys)
	case ProtocolWingsOfFury:
		runWingsOfFury(b, state, fsys)
	}
}
