/*
 * iecdrive - Linux GPIO bus backend.
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

//go:build linux

package bus

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// GPIO drives the three bus lines over the Linux GPIO character-device
// ABI (/dev/gpiochipN), the concrete hardware backend for the Bus
// façade. ATN/CLOCK/DATA are each requested as a single-line handle;
// CLOCK and DATA are opened as open-drain outputs that also double as
// inputs (the line is read back before being driven, matching the
// open-collector wired-AND behavior of the real bus), ATN is input-only.
//
// Deployments that aren't talking to real hardware use bus.Sim instead.
type GPIO struct {
	chip              *os.File
	dataFd, clockFd   int
	atnFd             int
	Clock             interface {
		DelayUs(int)
		DelayMs(int)
	}
}

const (
	gpioV2LineFlagInput     uint64 = 1 << 2
	gpioV2LineFlagOutput    uint64 = 1 << 3
	gpioV2LineFlagOpenDrain uint64 = 1 << 6
	gpioV2LineFlagActiveLow uint64 = 1 << 1
	gpioGetLineHandleIOCTL  uintptr = 0xc16cb403
)

type gpioHandleRequest struct {
	lineOffsets [64]uint32
	flags       uint32
	defaultVals [64]uint8
	consumerLabel [32]byte
	lines       uint32
	fd          int32
}

// OpenGPIO requests ATN, CLOCK and DATA as individual line handles on the
// given chip (e.g. "/dev/gpiochip0") at the given offsets.
func OpenGPIO(chipPath string, atnLine, clockLine, dataLine uint32) (*GPIO, error) {
	chip, err := os.OpenFile(chipPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("bus: open %s: %w", chipPath, err)
	}

	atnFd, err := requestLine(chip, atnLine, true, false)
	if err != nil {
		chip.Close()
		return nil, err
	}
	clockFd, err := requestLine(chip, clockLine, false, true)
	if err != nil {
		chip.Close()
		return nil, err
	}
	dataFd, err := requestLine(chip, dataLine, false, true)
	if err != nil {
		chip.Close()
		return nil, err
	}

	return &GPIO{chip: chip, atnFd: atnFd, clockFd: clockFd, dataFd: dataFd}, nil
}

func requestLine(chip *os.File, offset uint32, input, openDrain bool) (int, error) {
	req := gpioHandleRequest{lines: 1}
	req.lineOffsets[0] = offset
	copy(req.consumerLabel[:], "iecdrive")

	if input {
		req.flags = uint32(gpioV2LineFlagInput)
	} else {
		req.flags = uint32(gpioV2LineFlagOutput)
		if openDrain {
			req.flags |= uint32(gpioV2LineFlagOpenDrain)
		}
		req.defaultVals[0] = 1 // released
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, chip.Fd(), gpioGetLineHandleIOCTL, uintptr(unsafe.Pointer(&req)))
	if errno != 0 {
		return -1, fmt.Errorf("bus: request line %d: %w", offset, errno)
	}
	return int(req.fd), nil
}

func (g *GPIO) Read() Lines {
	var l Lines
	if readLine(g.dataFd) {
		l |= BitData
	}
	if readLine(g.clockFd) {
		l |= BitClock
	}
	if readLine(g.atnFd) {
		l |= BitATN
	}
	return l
}

func readLine(fd int) bool {
	var v uint8
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), gpioLineGetValuesIOCTL, uintptr(unsafe.Pointer(&v)))
	if errno != 0 {
		return true // fail released, never phantom-assert the bus
	}
	return v != 0
}

const gpioLineGetValuesIOCTL uintptr = 0xc040b408

func (g *GPIO) SetClock(active bool) { writeLine(g.clockFd, !active) }
func (g *GPIO) SetData(active bool)  { writeLine(g.dataFd, !active) }

func writeLine(fd int, released bool) {
	var v uint8
	if released {
		v = 1
	}
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), gpioLineSetValuesIOCTL, uintptr(unsafe.Pointer(&v)))
}

const gpioLineSetValuesIOCTL uintptr = 0xc040b409

func (g *GPIO) DelayUs(n int) { g.Clock.DelayUs(n) }
func (g *GPIO) DelayMs(n int) { g.Clock.DelayMs(n) }

// StableClock reports true: a GPIO-wired bus runs against crystal-clocked
// hardware, not the RC oscillator the refusing loaders guard against.
func (g *GPIO) StableClock() bool { return true }

// Close releases the line handles and the chip fd.
func (g *GPIO) Close() error {
	unix.Close(g.dataFd)
	unix.Close(g.clockFd)
	unix.Close(g.atnFd)
	return g.chip.Close()
}
