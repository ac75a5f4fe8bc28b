/*
 * iecdrive - M-R/M-W/M-E memory commands and E-R/E-W EEPROM commands.
 *
 * The $77 device-address write and the $1c06/$1c07 VIA-timer-write
 * ignore are the two address intercepts loaders poke in the drive's own
 * I/O space. The CRC16 accumulated over M-W sequences fingerprints
 * uploaded drive code against fastloader's signature table.
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
package command

import (
	"github.com/ikorb/iecdrive/drive"
	"github.com/ikorb/iecdrive/fastloader"
	"github.com/ikorb/iecdrive/internal/crc16"
	"github.com/ikorb/iecdrive/internal/debug"
)

const (
	addrDeviceNumber = 119
	addrVIATimerLo   = 0x1c06
	addrVIATimerHi   = 0x1c07
)

func (p *Parser) parseMemory(buf []byte, length int) {
	eb := p.State.Pool.Error()
	switch at(buf, 2) {
	case 'W':
		p.handleMemWrite(buf, length)
	case 'E':
		p.handleMemExec(buf, length)
	case 'R':
		p.handleMemRead(buf, length)
	default:
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
	}
}

func (p *Parser) handleMemWrite(buf []byte, length int) {
	if length < 6 {
		return
	}
	address := int(buf[3]) | int(buf[4])<<8
	payloadLen := int(buf[5])

	if address == addrDeviceNumber {
		p.State.DeviceAddress = int(at(buf, 6)) & 0x1f
		return
	}
	if address == addrVIATimerLo || address == addrVIATimerHi {
		return
	}

	// Capture writes landing in buffer RAM: loaders park their tables
	// there ahead of execution, and the IFFL scanner reads them back.
	if address >= drive.UploadBase && address < drive.UploadBase+drive.UploadSize {
		dst := address - drive.UploadBase
		for i := 0; i < payloadLen && 6+i < length && dst+i < len(p.State.Upload); i++ {
			p.State.Upload[dst+i] = buf[6+i]
		}
	}

	// A signature flagged "carries a trailing name" (Turbodisk) matched on
	// the *previous* M-W, so this write's body is a filename and must not
	// be folded into a fresh CRC run.
	carriesName := false
	if sig, ok := fastloader.Lookup(p.State.CRC); ok && sig.CarriesName {
		carriesName = true
		p.State.DetectedLoader = sig.Protocol.LoaderID()
	} else {
		p.State.DetectedLoader = drive.LoaderNone
	}

	crc := p.State.CRC
	for i := 0; i < length; i++ {
		crc = crc16.Update(crc, buf[i])
	}
	p.State.CRC = crc
	if !carriesName {
		if sig, ok := fastloader.Lookup(crc); ok && !sig.CarriesName {
			p.State.DetectedLoader = sig.Protocol.LoaderID()
		} else if p.State.DetectedLoader == drive.LoaderNone {
			debug.Logf("PARSER", debug.Parser, "M-W CRC result: %04x", crc)
		}
	}
	p.State.Pool.Error().SetOK()
}

func (p *Parser) handleMemExec(buf []byte, length int) {
	if length < 5 {
		return
	}
	address := int(buf[3]) | int(buf[4])<<8
	loader := p.State.DetectedLoader
	p.State.DetectedLoader = drive.LoaderNone
	crcAtExec := p.State.CRC
	p.State.CRC = crc16.Seed

	if loader == drive.LoaderNone {
		debug.Logf("PARSER", debug.Parser, "M-E at %04x, CRC %04x", address, crcAtExec)
		return
	}
	armed := false
	for _, sig := range fastloader.Signatures {
		if sig.Protocol.LoaderID() == loader && int(sig.ExecAddr) == address {
			armed = true
			break
		}
	}
	if armed {
		// Entry address matches the fingerprinted upload: the event loop
		// hands the bus to this loader on the next attention release.
		p.State.ArmedLoader = loader
	} else {
		debug.Logf("PARSER", debug.Parser, "M-E at %04x does not match loader %d", address, loader)
	}
	p.State.Pool.Error().SetOK()
}

func (p *Parser) handleMemRead(buf []byte, length int) {
	eb := p.State.Pool.Error()
	if length < 6 {
		return
	}
	// Real memory isn't emulated: alias the first data buffer's bytes
	// through channel 15 instead of exposing process memory.
	lastUsed := int(byte(buf[5] - 1))
	first := p.State.Pool.First()
	eb.SetRaw(first.Data[:lastUsed+1])
}

func (p *Parser) parseEEPROM(buf []byte, length int) {
	eb := p.State.Pool.Error()
	if length < 6 {
		return
	}
	address := int(buf[3]) | int(buf[4])<<8
	eepromLen := int(buf[5])

	// A malformed E command sets the syntax error but still falls through
	// to the transfer, a legacy quirk hosts depend on.
	if at(buf, 1) != '-' || (at(buf, 2) != 'W' && at(buf, 2) != 'R') {
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
	}

	if address > drive.EEPROMSize || address+eepromLen > drive.EEPROMSize {
		eb.Set(drive.CodeSyntaxTooLong, 0, 0)
		return
	}

	if at(buf, 2) == 'W' {
		p.handleEEWrite(buf, address, eepromLen)
	} else {
		p.handleEERead(address, eepromLen)
	}
}

func (p *Parser) handleEERead(address, length int) {
	eb := p.State.Pool.Error()
	if length > drive.SectorSize {
		eb.Set(drive.CodeSyntaxTooLong, 0, 0)
		return
	}
	// EEPROM reads land in the error buffer; the host retrieves the bytes
	// by reading channel 15, same as M-R.
	eb.SetRaw(p.State.EEPROM[address : address+length])
}

func (p *Parser) handleEEWrite(buf []byte, address, length int) {
	src := buf[6:]
	for i := 0; i < length && i < len(src); i++ {
		p.State.EEPROM[address+i] = src[i]
	}
}
