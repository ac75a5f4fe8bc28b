/*
 * iecdrive - command-channel byte assembly.
 *
 * ReceiveByte is a simplified rendition of the standard (non-fast) CBM
 * serial byte protocol: DATA carries the bit, CLOCK strobes it, ATN
 * aborts. It deliberately skips EOI signaling since nothing in the
 * command channel needs it.
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

// ReceiveByte reads one byte the host clocks onto DATA, MSb... actually
// LSb first per the standard protocol, acking each bit on CLOCK. Returns
// ok=false if ATN is asserted (host reset) before the byte completes.
func ReceiveByte(b Bus) (byte, bool) {
	b.SetData(false) // release DATA: signal ready to receive
	for b.Read().Has(BitClock) {
		if !b.Read().Has(BitATN) {
			return 0, false
		}
	}

	var v byte
	for i := 0; i < 8; i++ {
		for !b.Read().Has(BitClock) {
			if !b.Read().Has(BitATN) {
				return 0, false
			}
		}
		v >>= 1
		if Asserted(b.Read(), BitData) {
			v |= 0x80
		}
		for b.Read().Has(BitClock) {
			if !b.Read().Has(BitATN) {
				return 0, false
			}
		}
	}
	b.SetData(true) // assert DATA: byte acknowledged
	b.DelayUs(60)
	b.SetData(false)
	return v, true
}

// ReceiveCommand reads bytes via ReceiveByte until CR ($0D), keeping at
// most max of them. It returns the kept bytes (CR excluded) and whether
// the command was truncated, i.e. bytes past max were dropped.
func ReceiveCommand(b Bus, max int) (cmd []byte, truncated bool, ok bool) {
	for {
		by, ok := ReceiveByte(b)
		if !ok {
			return cmd, false, false
		}
		if by == 0x0d {
			return cmd, truncated, true
		}
		if len(cmd) >= max {
			truncated = true
			continue
		}
		cmd = append(cmd, by)
	}
}
