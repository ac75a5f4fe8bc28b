/*
 * iecdrive - CRC16 loader-signature fingerprint.
 *
 * The bit-at-a-time algorithm behind avr-libc's _crc16_update (poly
 * 0xA001, the reversed/"CRC-16/ARC" form), folded over every M-W
 * command byte to fingerprint uploaded fast-loader code. Loader
 * signatures are CRCs in this exact variant, so it's implemented here
 * rather than approximated with another polynomial.
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
package crc16

// Seed is the starting value of the rolling CRC register; successive
// M-Ws keep folding into the register, and every M-E resets it.
const Seed uint16 = 0xffff

// Update folds one byte into crc using the avr-libc _crc16_update
// algorithm (poly 0xA001, LSB-first).
func Update(crc uint16, b byte) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ 0xA001
		} else {
			crc >>= 1
		}
	}
	return crc
}

// UpdateAll folds every byte of buf into crc in order.
func UpdateAll(crc uint16, buf []byte) uint16 {
	for _, b := range buf {
		crc = Update(crc, b)
	}
	return crc
}
