/*
 * CRC16 test cases.
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

import "testing"

func TestUpdateAllDeterministic(t *testing.T) {
	payload := []byte("M-W\x03\x030TURBODISK")
	a := UpdateAll(Seed, payload)
	b := UpdateAll(Seed, payload)
	if a != b {
		t.Fatalf("CRC16 not deterministic: %04x vs %04x", a, b)
	}
}

func TestUpdateAllDiffersOnTamperedByte(t *testing.T) {
	p1 := []byte{1, 2, 3, 4}
	p2 := []byte{1, 2, 3, 5}
	if UpdateAll(Seed, p1) == UpdateAll(Seed, p2) {
		t.Fatal("expected different CRCs for different payloads")
	}
}

func TestEmptyPayloadIsSeed(t *testing.T) {
	if got := UpdateAll(Seed, nil); got != Seed {
		t.Fatalf("expected seed %04x unchanged on empty input, got %04x", Seed, got)
	}
}
