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

package conntable

import (
	"sync"

	"github.com/sabouaram/reactord/protocol"
	"github.com/sabouaram/reactord/writequeue"
)

// WriteQueue is the per-fd write queue a slot holds, aliased from
// package writequeue so Borrow.Queue callers get the full FIFO API
// (Write/Drain/Empty/...) without conntable re-declaring it.
type WriteQueue = writequeue.Queue

// Hooks holds the per-fd transport replacements installed by rw_hooks
// (§4.4). A nil field means "use the default read(2)/write(2)".
type Hooks struct {
	Read  func(p []byte) (n int, err error)
	Write func(p []byte) (n int, err error)
}

// slot is one row of the connection table. Zero value is vacant.
type slot struct {
	mu sync.Mutex

	occupied bool
	busy     bool

	fd             int
	protocol       protocol.Protocol
	udata          interface{}
	timeout        int32
	timeoutDefault int32
	hooks          Hooks
	queue          WriteQueue
}
