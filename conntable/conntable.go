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
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sabouaram/reactord/errors"
	"github.com/sabouaram/reactord/ioutils/fileDescriptor"
	"github.com/sabouaram/reactord/protocol"
)

// fdMargin is the number of response-side fds (listening sockets, log
// files, stdio) reserved out of the raised limit before sizing the
// connection table, per §4.2.
const fdMargin = 64

func newTable(raise int) (Table, error) {
	current, _, err := fileDescriptor.SystemFileDescriptor(raise)
	if err != nil {
		return nil, ErrCodeCapacity.Error(err)
	}

	byMargin := current - fdMargin
	bySeven8 := current * 7 / 8
	adjusted := byMargin
	if bySeven8 > adjusted {
		adjusted = bySeven8
	}
	if adjusted > current {
		adjusted = current
	}
	if adjusted < 1 {
		adjusted = 1
	}

	return &table{
		slots: make([]slot, adjusted),
		side:  make(map[int]interface{}),
	}, nil
}

type table struct {
	slots []slot
	count int64

	sideMu sync.Mutex
	side   map[int]interface{}
}

func (t *table) Capacity() int {
	return len(t.slots)
}

func (t *table) Count() int {
	return int(atomic.LoadInt64(&t.count))
}

func (t *table) Reserve(fd int, proto protocol.Protocol, timeoutDefault int32) error {
	if fd < 0 || fd >= len(t.slots) {
		return ErrCodeFdOutOfRange.Error(nil)
	}

	s := &t.slots[fd]
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.occupied {
		return ErrCodeFdOccupied.Error(nil)
	}

	s.occupied = true
	s.busy = false
	s.fd = fd
	s.protocol = proto
	s.udata = nil
	s.timeout = timeoutDefault
	s.timeoutDefault = timeoutDefault
	s.hooks = Hooks{}
	s.queue = nil

	atomic.AddInt64(&t.count, 1)
	return nil
}

func (t *table) Lookup(fd int, protected bool) (*Borrow, error) {
	if fd < 0 || fd >= len(t.slots) {
		return nil, ErrCodeFdOutOfRange.Error(nil)
	}

	s := &t.slots[fd]
	s.mu.Lock()

	if !s.occupied {
		s.mu.Unlock()
		return nil, ErrCodeFdVacant.Error(nil)
	}

	if protected {
		s.busy = true
	}

	return &Borrow{s: s, protected: protected, tbl: t}, nil
}

func (t *table) Release(fd int) error {
	if fd < 0 || fd >= len(t.slots) {
		return ErrCodeFdOutOfRange.Error(nil)
	}

	s := &t.slots[fd]
	s.mu.Lock()

	if !s.occupied {
		s.mu.Unlock()
		return ErrCodeFdVacant.Error(nil)
	}

	if s.queue != nil {
		s.queue.Reset()
	}

	s.occupied = false
	s.busy = false
	s.protocol = protocol.Protocol{}
	s.udata = nil
	s.hooks = Hooks{}
	s.queue = nil

	s.mu.Unlock()
	atomic.AddInt64(&t.count, -1)
	return nil
}

func (t *table) Snapshot(match func(protocol.Protocol) bool) []int {
	fds := make([]int, 0, len(t.slots))

	for i := range t.slots {
		s := &t.slots[i]
		s.mu.Lock()
		if s.occupied && (match == nil || match(s.protocol)) {
			fds = append(fds, s.fd)
		}
		s.mu.Unlock()
	}

	sort.Ints(fds)
	return fds
}

func (t *table) SetSideband(fd int, v interface{}) {
	t.sideMu.Lock()
	defer t.sideMu.Unlock()
	t.side[fd] = v
}

func (t *table) GetSideband(fd int) (interface{}, bool) {
	t.sideMu.Lock()
	defer t.sideMu.Unlock()
	v, ok := t.side[fd]
	return v, ok
}

// Borrow is a held lock on one slot, returned by Table.Lookup. It must
// be released exactly once via Unlock (or ReleaseLocked, for callers
// that are vacating the slot).
type Borrow struct {
	s         *slot
	protected bool
	tbl       *table
	released  bool
}

func (b *Borrow) Fd() int { return b.s.fd }

func (b *Borrow) Busy() bool { return b.s.busy }

func (b *Borrow) Protocol() protocol.Protocol { return b.s.protocol }

func (b *Borrow) SetProtocol(p protocol.Protocol) { b.s.protocol = p }

func (b *Borrow) UData() interface{} { return b.s.udata }

func (b *Borrow) SetUData(v interface{}) { b.s.udata = v }

// Touch resets the per-second timeout countdown back to the fd's
// configured default (§6 touch(fd)), without changing that default.
func (b *Borrow) Touch() { b.s.timeout = b.s.timeoutDefault }

// SetTimeout changes the fd's configured timeout (§6 set_timeout) and
// immediately resets the live countdown to match.
func (b *Borrow) SetTimeout(seconds int32) {
	b.s.timeoutDefault = seconds
	b.s.timeout = seconds
}

func (b *Borrow) Timeout() int32 { return b.s.timeout }

// DecrementTimeout decrements the timeout counter by one and reports
// whether it reached zero (the orchestrator's once-per-second tick,
// §4.8, uses this to decide between invoking ping and closing).
func (b *Borrow) DecrementTimeout() (fired bool) {
	if b.s.timeout <= 0 {
		return true
	}
	b.s.timeout--
	return b.s.timeout <= 0
}

func (b *Borrow) Hooks() Hooks { return b.s.hooks }

func (b *Borrow) SetHooks(h Hooks) { b.s.hooks = h }

func (b *Borrow) Queue() WriteQueue { return b.s.queue }

func (b *Borrow) SetQueue(q WriteQueue) { b.s.queue = q }

// Unlock releases the slot lock, clearing busy if this borrow set it.
// A no-op once ReleaseLocked has already vacated and unlocked the slot.
func (b *Borrow) Unlock() {
	if b.released {
		return
	}
	if b.protected {
		b.s.busy = false
	}
	b.s.mu.Unlock()
}

// ReleaseLocked vacates this borrow's slot and unlocks it in one step,
// reusing the lock the caller already holds instead of Table.Release
// re-acquiring it by fd — which would deadlock on the non-reentrant
// slot mutex when called from inside the very callback that is holding
// this Borrow. Any pending write packets are dropped (not drained).
// Safe to call at most once; a later Unlock() on the same Borrow
// becomes a no-op.
func (b *Borrow) ReleaseLocked() {
	if b.released {
		return
	}

	if b.s.queue != nil {
		b.s.queue.Reset()
	}

	b.s.occupied = false
	b.s.busy = false
	b.s.protocol = protocol.Protocol{}
	b.s.udata = nil
	b.s.hooks = Hooks{}
	b.s.queue = nil

	b.released = true
	b.s.mu.Unlock()

	if b.tbl != nil {
		atomic.AddInt64(&b.tbl.count, -1)
	}
}
