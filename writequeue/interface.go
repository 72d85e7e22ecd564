/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package writequeue

import "github.com/sabouaram/reactord/file/progress"

// Queue is the per-connection FIFO of pending write packets.
type Queue interface {
	// Write copies p and appends it to the tail.
	Write(p []byte) error
	// WriteMove appends p to the tail without copying; the caller must
	// not touch p again.
	WriteMove(p []byte) error
	// WriteUrgent copies p and inserts it right after the packet
	// currently being drained (position 1, or 0 if the queue is empty).
	WriteUrgent(p []byte) error
	// WriteMoveUrgent is WriteUrgent without copying.
	WriteMoveUrgent(p []byte) error
	// SendFile appends a file-backed packet at the tail. f is read in
	// chunkSize pieces (DefaultChunkSize if <= 0) and closed on
	// completion or on Reset.
	SendFile(f progress.Progress, chunkSize int) error

	// Drain invokes hook for the head packet's remaining bytes,
	// repeating until the queue empties, the hook returns 0 (transient,
	// stop and keep draining later), or the hook returns a negative
	// count (fatal; Drain returns a non-nil error and the caller must
	// close the connection).
	Drain(hook WriteHook) error

	// Empty reports whether the queue has no pending packets.
	Empty() bool

	// Reset drops all pending packets without sending them, closing
	// any open file-backed packet. Used by conntable.Release and by
	// connection close paths.
	Reset()
}

// New returns an empty Queue.
func New() Queue {
	return &queue{}
}
