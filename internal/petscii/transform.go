/*
 * iecdrive - PETSCII transform adapters.
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

import "golang.org/x/text/transform"

// decodeTransformer adapts ToHost to the x/text transform.Transformer
// shape (byte-for-byte since PETSCII is single-byte, like the 8.3 FAT
// codepages x/text ships transformers for).
type decodeTransformer struct{ transform.NopResetter }

func (decodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) && nDst < len(dst) {
		r := decodeTable[src[nSrc]]
		if r >= 'a' && r <= 'z' {
			r -= 32
		}
		if r > 0x7f {
			r = '?'
		}
		dst[nDst] = byte(r)
		nSrc++
		nDst++
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return nDst, nSrc, err
}

type encodeTransformer struct{ transform.NopResetter }

func (encodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) && nDst < len(dst) {
		b := src[nSrc]
		if b >= 'A' && b <= 'Z' {
			b = b - 'A' + 'a'
		}
		dst[nDst] = b
		nSrc++
		nDst++
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return nDst, nSrc, err
}
