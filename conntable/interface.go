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

import "github.com/sabouaram/reactord/protocol"

// Table is the fd-indexed connection table described in §4.2.
type Table interface {
	// Reserve initializes the slot for fd with proto and the given
	// default timeout (seconds). Fails if fd is out of capacity or the
	// slot is already occupied.
	Reserve(fd int, proto protocol.Protocol, timeoutDefault int32) error

	// Lookup borrows the slot for fd, asserting occupancy. protected
	// marks the borrow as a protected callback (on_data, fd_task, each
	// task body): busy is set for the duration of the borrow so
	// concurrent workers skip the fd. The caller must call Unlock on
	// the returned Borrow exactly once.
	Lookup(fd int, protected bool) (*Borrow, error)

	// Release drains the fd's write queue (dropping packets, not
	// sending), clears its hooks, and marks the slot vacant. Acquires
	// the slot lock itself; do not hold a Borrow across this call.
	Release(fd int) error

	// Snapshot returns, in ascending fd order, the fds currently
	// occupied whose active protocol satisfies match (nil matches
	// any). The set is captured at call time: protocol changes during
	// a caller's subsequent iteration do not re-target a slot, per
	// each's snapshot semantics (§4.5).
	Snapshot(match func(protocol.Protocol) bool) []int

	// Capacity returns the table's fixed size, computed once at
	// construction from the process's adjusted file-descriptor limit.
	Capacity() int

	// Count returns the number of currently occupied slots.
	Count() int

	// SetSideband/GetSideband store udata for fds outside the main
	// array (stdio fds 0..2), per §9(c). Explicitly racy: callers that
	// rely on these must serialize their own access.
	SetSideband(fd int, v interface{})
	GetSideband(fd int) (interface{}, bool)
}

// New builds a Table sized by capacity(). raise is the soft-limit value
// to request from the OS before sizing (0 to just query the current
// limit); margin is subtracted from the result per §4.2's recommended
// formula. Returns an error if the file-descriptor limit cannot be
// queried at all.
func New(raise int) (Table, error) {
	return newTable(raise)
}
