/*
 * iecdrive - Hex formatting for command-channel dumps.
 *
 * Feeds internal/debug with the inbound command-channel byte strings a
 * hardware drive would dump over its UART.
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
package hexdump

import "strings"

var hexMap = "0123456789ABCDEF"

// Bytes renders buf as space-separated two-digit hex pairs.
func Bytes(buf []byte) string {
	var sb strings.Builder
	for i, b := range buf {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(hexMap[b>>4])
		sb.WriteByte(hexMap[b&0xf])
	}
	return sb.String()
}

// Lines renders buf as 16-byte-per-line hex, each line prefixed with '>'.
func Lines(buf []byte) string {
	var sb strings.Builder
	for i := 0; i < len(buf); i += 16 {
		end := i + 16
		if end > len(buf) {
			end = len(buf)
		}
		sb.WriteByte('>')
		sb.WriteString(Bytes(buf[i:end]))
		sb.WriteByte('\n')
	}
	return sb.String()
}
