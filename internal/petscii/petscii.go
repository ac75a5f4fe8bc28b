/*
 * iecdrive - PETSCII <-> host charset transcoding.
 *
 * The drive's native character set is PETSCII; the filesystem façade
 * and host filesystem/image speak plain ASCII bytes. The table takes the
 * shape golang.org/x/text uses for a single-byte charmap (a 256-entry
 * []rune decode table plus a reverse lookup for encode) instead of ad
 * hoc byte-swap helpers.
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
package petscii

import "golang.org/x/text/encoding"

// decodeTable maps a PETSCII byte to its Unicode code point. Only the
// ranges that differ from ASCII are overridden; control codes and the
// shifted-alpha swap (PETSCII uppercase lives where ASCII lowercase
// would be, and vice versa for unshifted mode) are the two regions a
// real drive cares about for directory listings and command parsing.
var decodeTable = buildDecodeTable()

func buildDecodeTable() [256]rune {
	var t [256]rune
	for i := 0; i < 256; i++ {
		t[i] = rune(i)
	}
	// Unshifted PETSCII: swap the A-Z / a-z case relative to ASCII.
	for c := rune('A'); c <= 'Z'; c++ {
		t[c] = c - 'A' + 'a'
		t[c-'A'+'a'] = c
	}
	return t
}

// ToHost converts one PETSCII-encoded name to its host-charset
// representation, upper-case ASCII, the usual normalization for CBM
// names.
func ToHost(petsciiName []byte) string {
	out := make([]rune, len(petsciiName))
	for i, b := range petsciiName {
		r := decodeTable[b]
		if r >= 'a' && r <= 'z' {
			r -= 32 // normalize to upper case, CBM DOS names are case-insensitive
		}
		out[i] = r
	}
	return string(out)
}

// ToDrive converts a host-charset name back to PETSCII bytes for
// directory entries the drive writes out (e.g. after a rename).
func ToDrive(hostName string) []byte {
	out := make([]byte, 0, len(hostName))
	for _, r := range hostName {
		if r >= 'A' && r <= 'Z' {
			out = append(out, byte(r-'A'+'a'))
			continue
		}
		if r < 256 {
			out = append(out, byte(r))
			continue
		}
		out = append(out, '?')
	}
	return out
}

// Codec exposes the table as a golang.org/x/text Encoding so callers that
// already work in terms of transform.Transformer (as x/text-based FAT
// name decoding does) can compose it with other encoders.
var Codec encoding.Encoding = petsciiEncoding{}

type petsciiEncoding struct{}

func (petsciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decodeTransformer{}}
}

func (petsciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encodeTransformer{}}
}
