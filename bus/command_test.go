/*
 * Command-channel byte assembly test cases.
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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedBus replays a fixed, hand-counted sequence of Read() results so
// ReceiveByte can be exercised single-threaded and deterministically
// instead of racing a simulated host across goroutines.
type scriptedBus struct {
	reads []Lines
	pos   int
}

// Read replays the script; once exhausted it returns 0 (every line
// asserted, including ATN), so a miscounted script makes ReceiveByte's ATN
// check fire and the call return deterministically instead of looping
// forever on a fixed trailing value.
func (s *scriptedBus) Read() Lines {
	if s.pos >= len(s.reads) {
		return 0
	}
	l := s.reads[s.pos]
	s.pos++
	return l
}
func (s *scriptedBus) SetClock(bool) {}
func (s *scriptedBus) SetData(bool)  {}
func (s *scriptedBus) DelayUs(int)   {}
func (s *scriptedBus) DelayMs(int)   {}

// buildByteScript produces the exact Read() sequence ReceiveByte consumes
// decoding one LSb-first byte with no ATN interruption: a ready-wait entry
// (CLOCK already asserted), then per bit a (wait-clock-released,
// read-bit, wait-clock-asserted) triple.
func buildByteScript(v byte) []Lines {
	script := []Lines{BitATN} // ready-wait: CLOCK asserted, ATN released
	for i := 0; i < 8; i++ {
		bit := v&1 != 0
		v >>= 1

		setup := BitATN | BitClock // CLOCK released: bit is on DATA now
		dataBit := Lines(0)
		if !bit {
			dataBit = BitData // released DATA encodes a 0 bit
		}
		script = append(script, setup, setup|dataBit, BitATN)
	}
	return script
}

func TestReceiveByteDecodesScriptedBits(t *testing.T) {
	sb := &scriptedBus{reads: buildByteScript(0xa5)}
	v, ok := ReceiveByte(sb)
	require.True(t, ok)
	require.Equal(t, byte(0xa5), v)
}

func TestReceiveByteAbortsWhenATNDropsDuringReadyWait(t *testing.T) {
	sb := &scriptedBus{reads: []Lines{BitClock | BitATN, BitClock}}
	_, ok := ReceiveByte(sb)
	require.False(t, ok)
}

func TestReceiveByteAbortsWhenATNDropsMidByte(t *testing.T) {
	sb := &scriptedBus{reads: []Lines{BitATN, BitATN, 0}}
	_, ok := ReceiveByte(sb)
	require.False(t, ok)
}

func TestReceiveCommandStopsAtCR(t *testing.T) {
	script := append(buildByteScript('M'), buildByteScript(0x0d)...)
	sb := &scriptedBus{reads: script}
	cmd, truncated, ok := ReceiveCommand(sb, 128)
	require.True(t, ok)
	require.False(t, truncated)
	require.Equal(t, []byte{'M'}, cmd)
}
