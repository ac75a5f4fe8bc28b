/*
 * Buffer pool and error buffer test cases.
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

package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocateUserFirstFit(t *testing.T) {
	p := NewPool(4)

	b0 := p.AllocateUser(0)
	require.NotNil(t, b0)
	assert.Equal(t, 0, b0.Channel)
	assert.True(t, b0.InUse)

	b1 := p.AllocateUser(2)
	require.NotNil(t, b1)
	assert.Equal(t, 2, b1.Channel)
	assert.NotSame(t, b0, b1)
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(2)
	require.NotNil(t, p.AllocateUser(0))
	require.NotNil(t, p.AllocateUser(1))
	assert.Nil(t, p.AllocateUser(2))
}

func TestFindByChannelInvariant(t *testing.T) {
	p := NewPool(3)
	b := p.AllocateUser(5)
	require.NotNil(t, b)

	found := p.FindByChannel(5)
	assert.Same(t, b, found)
	assert.Nil(t, p.FindByChannel(6))
	assert.Nil(t, p.FindByChannel(ErrorChannel))
}

func TestFreeInvokesCleanup(t *testing.T) {
	p := NewPool(1)
	b := p.AllocateUser(0)
	require.NotNil(t, b)

	flushed := false
	b.Cleanup = func(*Buffer) { flushed = true }

	p.Free(b)
	assert.True(t, flushed)
	assert.False(t, b.InUse)

	// Slot is reusable after free.
	b2 := p.AllocateUser(0)
	require.NotNil(t, b2)
}

func TestFreeAllKeepsSystemBuffers(t *testing.T) {
	p := NewPool(2)
	sys := p.AllocateSystem()
	user := p.AllocateUser(0)
	require.NotNil(t, sys)
	require.NotNil(t, user)

	p.FreeAll(true)
	assert.True(t, sys.InUse, "sticky system buffer must survive FreeAll(keepSystem=true)")
	assert.False(t, user.InUse)
}

func TestFreeAllDropsEverythingWhenNotKeepingSystem(t *testing.T) {
	p := NewPool(2)
	sys := p.AllocateSystem()
	require.NotNil(t, sys)

	p.FreeAll(false)
	assert.False(t, sys.InUse)
}

func TestBufferPositionInvariant(t *testing.T) {
	p := NewPool(1)
	b := p.AllocateUser(0)
	require.NotNil(t, b)

	b.Data[0] = 10
	b.Position = 1
	b.LastUsed = int(b.Data[0])
	assert.LessOrEqual(t, b.Position, b.LastUsed+1)
}

func TestErrorBufferDrainsThenResetsToOK(t *testing.T) {
	eb := NewErrorBuffer()
	eb.Set(CodeFileNotFound, 1, 2)
	assert.Equal(t, "62,FILE NOT FOUND,01,02\r", eb.Line())

	for i := 0; i < len(eb.Line()); i++ {
		_, ok := eb.ReadByte()
		assert.True(t, ok)
	}
	_, ok := eb.ReadByte()
	assert.False(t, ok)
	assert.Equal(t, CodeOK, eb.Code())
}
