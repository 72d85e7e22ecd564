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

package reactord

import (
	"context"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/sabouaram/reactord/conntable"
	"github.com/sabouaram/reactord/file/perm"
	"github.com/sabouaram/reactord/logger"
	libptc "github.com/sabouaram/reactord/network/protocol"
	"github.com/sabouaram/reactord/pool"
	"github.com/sabouaram/reactord/protocol"
	"github.com/sabouaram/reactord/reactor"
	"github.com/sabouaram/reactord/socket"
	"github.com/sabouaram/reactord/timer"
	"github.com/sabouaram/reactord/tlshook"
	"github.com/sabouaram/reactord/writequeue"
)

// Server is one listening instance: it owns the listener fd, the
// connection table, the reactor, the thread pool and the timer
// facility described in §2/§4.8.
type Server struct {
	settings Settings
	log      logger.Logger

	tbl conntable.Table
	rx  reactor.Reactor
	pl  pool.Pool
	tm  timer.Facility

	ln     net.Listener
	lnFile *os.File
	lnFd   int

	interestMu sync.Mutex
	interest   map[int]reactor.Interest

	closingMu sync.Mutex
	closing   map[int]bool

	stopping int32
	stopped  chan struct{}
	ready    chan struct{}

	children []*os.Process
}

// New builds a Server from settings. Call Listen to start serving.
func New(settings Settings) *Server {
	settings.applyDefaults()
	log := settings.Logger
	if log == nil {
		log = logger.New(context.Background())
	}
	return &Server{
		settings: settings,
		log:      log,
		interest: make(map[int]reactor.Interest),
		closing:  make(map[int]bool),
		stopped:  make(chan struct{}),
		ready:    make(chan struct{}),
	}
}

// Ready closes once Listen has bound the listener and is about to
// enter its dispatch loop; Addr is safe to call after it closes.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Capacity returns the connection table's size, valid only once Listen
// has bound the table (§6 capacity()).
func (s *Server) Capacity() int {
	if s.tbl == nil {
		return 0
	}
	return s.tbl.Capacity()
}

// RootPID returns this process's pid (§6 root_pid).
func (s *Server) RootPID() int { return os.Getpid() }

// Addr returns the bound listener's address, valid once Listen has
// started (useful when Settings.Server.Address asks for an ephemeral
// port with ":0").
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Settings returns the (defaulted) settings this server was built with.
func (s *Server) Settings() Settings { return s.settings }

func applyUnixPerms(address string, p perm.Perm, gid int32) error {
	if p != 0 {
		if err := os.Chmod(address, p.FileMode()); err != nil {
			return err
		}
	}
	if gid >= 0 {
		_ = os.Chown(address, -1, int(gid))
	}
	return nil
}

// Listen validates settings, binds, spawns any extra worker processes,
// and enters the reactor loop. It blocks until Stop/StopAll is called
// or a fatal reactor error occurs, returning nil on clean shutdown
// (§4.8 Startup/Shutdown, §6 listen()).
func (s *Server) Listen() error {
	if err := s.settings.validate(); err != nil {
		return err
	}

	var ln net.Listener
	if inherited, ok := inheritedListener(); ok {
		ln = inherited
	} else {
		var err error
		ln, err = net.Listen(s.settings.Server.Network.String(), s.settings.Server.Address)
		if err != nil {
			return ErrCodeBind.Error(err)
		}

		if s.settings.Server.Network == libptc.NetworkUnix {
			if perr := applyUnixPerms(s.settings.Server.Address, s.settings.Server.PermFile, s.settings.Server.GroupPerm); perr != nil {
				s.log.Warning("reactord: could not apply unix socket permissions: %s", nil, perr.Error())
			}
		}
	}
	s.ln = ln

	f, err := listenerFile(ln)
	if err != nil {
		_ = ln.Close()
		return ErrCodeBind.Error(err)
	}
	// f is kept alive for the server's lifetime: closing it would close
	// the duplicated fd that the reactor and raw accept(2)/read(2)/
	// write(2) calls operate on directly.
	s.lnFile = f
	s.lnFd = int(f.Fd())
	_ = unix.SetNonblock(s.lnFd, true)

	tbl, err := conntable.New(0)
	if err != nil {
		_ = f.Close()
		_ = ln.Close()
		return ErrCodeBind.Error(err)
	}
	s.tbl = tbl

	rx, err := reactor.New()
	if err != nil {
		_ = f.Close()
		_ = ln.Close()
		return ErrCodeBind.Error(err)
	}
	s.rx = rx

	s.pl = pool.New(s.tbl, s.settings.Threads, nil)
	s.tm = timer.New(s.pl)

	if err := s.rx.Register(s.lnFd, reactor.Readable); err != nil {
		_ = f.Close()
		_ = ln.Close()
		return ErrCodeBind.Error(err)
	}
	s.setInterest(s.lnFd, reactor.Readable)

	if err := s.spawnChildren(); err != nil {
		s.log.Warning("reactord: spawning worker processes failed: %s", nil, err.Error())
	}

	registryAdd(s)

	if s.settings.OnInit != nil {
		if err := s.settings.OnInit(context.Background()); err != nil {
			registryRemove(s)
			_ = ln.Close()
			return err
		}
	}
	if s.settings.OnInitThread != nil {
		_ = s.settings.OnInitThread(context.Background())
	}

	s.log.Info("reactord: listening on %s (%s)", nil, s.settings.Server.Address, s.settings.Server.Network.String())
	close(s.ready)
	s.loop()

	if s.settings.OnFinish != nil {
		s.settings.OnFinish(context.Background())
	}
	close(s.stopped)
	return nil
}

// Stop stops this server only: it stops accepting, invokes on_shutdown
// for every active fd, closes them, and returns once the loop exits.
// Any child processes spawned for Settings.Processes are sent SIGTERM.
func (s *Server) Stop() {
	if !atomic.CompareAndSwapInt32(&s.stopping, 0, 1) {
		return
	}

	for _, c := range s.children {
		_ = c.Signal(syscall.SIGTERM)
	}

	if s.tbl != nil {
		for _, fd := range s.tbl.Snapshot(nil) {
			b, err := s.tbl.Lookup(fd, false)
			if err != nil {
				continue
			}
			if b.Protocol().OnShutdown != nil {
				b.Protocol().OnShutdown(context.Background(), &conn{srv: s, b: b})
			}
			b.Unlock()
			s.closeFd(fd)
		}
	}
}

func (s *Server) loop() {
	lastTick := time.Now()

	for atomic.LoadInt32(&s.stopping) == 0 {
		events, err := s.rx.Wait(time.Second)
		if err != nil {
			s.log.Error("reactord: reactor wait failed: %s", nil, err.Error())
			break
		}

		for _, ev := range events {
			s.dispatch(ev)
		}

		if time.Since(lastTick) >= time.Second {
			s.tickTimeouts()
			if s.settings.OnTick != nil {
				s.settings.OnTick(context.Background())
			}
			lastTick = time.Now()
		}

		if len(events) == 0 && s.settings.OnIdle != nil {
			s.settings.OnIdle(context.Background())
		}
	}

	_ = s.rx.Close()
	if s.lnFile != nil {
		_ = s.lnFile.Close()
	}
	if s.ln != nil {
		_ = s.ln.Close()
	}
	registryRemove(s)
}

func (s *Server) dispatch(ev reactor.Event) {
	if ev.Fd == s.lnFd {
		if ev.Readable {
			s.acceptLoop()
		}
		return
	}

	if ev.Hup {
		s.closeFd(ev.Fd)
		return
	}
	if ev.Readable {
		s.handleReadable(ev.Fd)
	}
	if ev.Writable {
		s.handleWritable(ev.Fd)
	}
}

func (s *Server) acceptLoop() {
	for {
		fd, _, err := unix.Accept4(s.lnFd, unix.SOCK_NONBLOCK)
		if err != nil {
			if err == unix.EAGAIN {
				return
			}
			if err != unix.ECONNABORTED {
				s.log.Error("reactord: accept failed: %s", nil, err.Error())
			}
			return
		}
		s.onAccept(fd)
	}
}

func (s *Server) onAccept(fd int) {
	if fd >= s.tbl.Capacity() {
		if s.settings.BusyMsg != nil {
			_, _ = unix.Write(fd, s.settings.BusyMsg)
		}
		_ = unix.Close(fd)
		return
	}

	if err := s.tbl.Reserve(fd, s.settings.Protocol, s.settings.Timeout); err != nil {
		_ = unix.Close(fd)
		return
	}

	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		_ = unix.Close(fd)
		return
	}
	b.SetQueue(writequeue.New())

	if s.settings.Server.TLS.Enabled {
		cfg := s.settings.Server.TLS.Config
		hooks, terr := tlshook.Wrap(fd, cfg.New(), "", true)
		if terr != nil {
			b.Unlock()
			_ = s.tbl.Release(fd)
			_ = unix.Close(fd)
			return
		}
		b.SetHooks(hooks)
	}
	b.Unlock()

	if err := s.rx.Register(fd, reactor.Readable); err != nil {
		_ = s.tbl.Release(fd)
		_ = unix.Close(fd)
		return
	}
	s.setInterest(fd, reactor.Readable)

	s.dispatchOpen(fd)
}

// dispatchOpen runs on_open for fd on the worker pool. §4.2 is explicit
// that on_open (like on_ready/on_close/ping) runs under the slot lock
// but does NOT flip busy, so this locks fd itself (protected=false)
// rather than going through the busy-flipping pool.FdTask path.
func (s *Server) dispatchOpen(fd int) {
	_, _ = s.pl.RunAsync(func(ctx context.Context) error {
		b, err := s.tbl.Lookup(fd, false)
		if err != nil {
			return nil
		}
		proto := b.Protocol()
		if proto.OnAccept == nil {
			b.Unlock()
			return nil
		}
		if err := proto.OnAccept(ctx, &conn{srv: s, b: b}); err != nil {
			_ = s.closeConn(b)
		}
		b.Unlock()
		return nil
	})
}

func (s *Server) handleReadable(fd int) {
	_, _ = s.pl.FdTask(fd, func(ctx context.Context, b *conntable.Borrow) error {
		proto := b.Protocol()
		buf := make([]byte, bufferSize(proto))

		n, err := s.readFrom(b, buf)
		if n > 0 && proto.OnRead != nil {
			if rerr := proto.OnRead(ctx, &conn{srv: s, b: b}, buf[:n]); rerr != nil {
				s.finishClose(b)
				return nil
			}
		}
		if err != nil {
			s.finishClose(b)
		}
		return nil
	}, nil)
}

// readFrom performs one read attempt, returning a non-nil err only
// when the connection must close (fatal or orderly EOF); a transient
// zero-byte result is reported as (0, nil).
func (s *Server) readFrom(b *conntable.Borrow, buf []byte) (int, error) {
	if hook := b.Hooks().Read; hook != nil {
		n, err := hook(buf)
		if n > 0 {
			return n, nil
		}
		if n < 0 {
			if err == nil {
				err = errHookFatal
			}
			return 0, err
		}
		return 0, nil
	}

	n, err := unix.Read(b.Fd(), buf)
	if n > 0 {
		return n, nil
	}
	if err == unix.EAGAIN {
		return 0, nil
	}
	if err == nil {
		return 0, errEOF
	}
	return 0, socket.ErrorFilter(err)
}

// readRaw performs one direct, non-blocking read on an already-held
// borrow (§6 read(fd,buf,max)): n>0 is bytes read, n==0 means no data is
// available right now, n<0 with err set means fatal/EOF.
func (s *Server) readRaw(b *conntable.Borrow, buf []byte) (int, error) {
	if hook := b.Hooks().Read; hook != nil {
		return hook(buf)
	}

	n, err := unix.Read(b.Fd(), buf)
	if n > 0 {
		return n, nil
	}
	if err == unix.EAGAIN {
		return 0, nil
	}
	if err == nil {
		return -1, errEOF
	}
	return -1, socket.ErrorFilter(err)
}

func (s *Server) handleWritable(fd int) {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return
	}

	hook := writequeue.WriteHook(func(p []byte) (int, error) { return s.writeTo(b, p) })
	if derr := b.Queue().Drain(hook); derr != nil {
		s.finishClose(b)
		return
	}

	if !b.Queue().Empty() {
		b.Unlock()
		return
	}

	s.setInterest(fd, reactor.Readable)
	_ = s.rx.Modify(fd, reactor.Readable)

	s.closingMu.Lock()
	deferred := s.closing[fd]
	s.closingMu.Unlock()
	if deferred {
		s.finishClose(b)
		return
	}

	if proto := b.Protocol(); proto.OnWritable != nil {
		_ = proto.OnWritable(context.Background(), &conn{srv: s, b: b})
	}
	b.Unlock()
}

func (s *Server) writeTo(b *conntable.Borrow, p []byte) (int, error) {
	if hook := b.Hooks().Write; hook != nil {
		return hook(p)
	}

	n, err := unix.Write(b.Fd(), p)
	if n > 0 {
		return n, nil
	}
	if err == unix.EAGAIN {
		return 0, nil
	}
	return -1, err
}

func (s *Server) armWritable(fd int) {
	if s.getInterest(fd)&reactor.Writable != 0 {
		return
	}
	s.setInterest(fd, reactor.Readable|reactor.Writable)
	_ = s.rx.Modify(fd, reactor.Readable|reactor.Writable)
}

func (s *Server) setInterest(fd int, i reactor.Interest) {
	s.interestMu.Lock()
	s.interest[fd] = i
	s.interestMu.Unlock()
}

func (s *Server) getInterest(fd int) reactor.Interest {
	s.interestMu.Lock()
	defer s.interestMu.Unlock()
	return s.interest[fd]
}

func (s *Server) clearInterest(fd int) {
	s.interestMu.Lock()
	delete(s.interest, fd)
	s.interestMu.Unlock()
}

// scheduleClose marks fd closing and runs closeFd; only safe to call
// from a context that does not already hold fd's own Borrow (tickTimeouts
// unlocks before calling this). Callers that already hold fd's Borrow
// must use closeConn or finishClose instead, or they would deadlock
// re-locking the same slot mutex.
func (s *Server) scheduleClose(fd int) {
	s.closingMu.Lock()
	already := s.closing[fd]
	s.closing[fd] = true
	s.closingMu.Unlock()
	if !already {
		s.closeFd(fd)
	}
}

// closeFd looks fd up and finishes its close. Safe to call more than
// once for the same fd (subsequent calls see a vacant slot and no-op).
func (s *Server) closeFd(fd int) {
	b, err := s.tbl.Lookup(fd, false)
	if err != nil {
		return
	}
	s.finishClose(b)
}

// closeConn implements the graceful, already-borrowed close path every
// protocol.Conn.Close() call goes through (§3 Lifecycle: "terminated by
// close (flushes remaining writes first)"; §4.3: "close marks the
// connection as closing; it continues to drain writes on writable
// events ... when the queue empties ... the fd is closed"). It operates
// on the Borrow the calling callback already holds instead of
// re-locking fd, which would deadlock. If the write queue still has
// pending bytes it only marks fd closing (handleWritable finishes the
// job once it drains empty); otherwise it finishes immediately, reusing
// the already-held lock.
func (s *Server) closeConn(b *conntable.Borrow) error {
	if q := b.Queue(); q != nil && !q.Empty() {
		s.closingMu.Lock()
		s.closing[b.Fd()] = true
		s.closingMu.Unlock()
		return nil
	}
	s.finishClose(b)
	return nil
}

// finishClose invokes on_close and vacates b's slot, reusing whatever
// lock b already holds (via Borrow.ReleaseLocked, so a later Unlock()
// on the same Borrow is a harmless no-op), then unregisters fd from the
// reactor and closes it. Any still-queued write packets are dropped,
// never drained, matching §7's "fatal socket I/O ... in-flight packets
// are dropped" rule for the forced paths that route through here.
func (s *Server) finishClose(b *conntable.Borrow) {
	fd := b.Fd()
	proto := b.Protocol()
	if proto.OnClose != nil {
		proto.OnClose(context.Background(), &conn{srv: s, b: b})
	}
	b.ReleaseLocked()

	_ = s.rx.Unregister(fd)
	s.clearInterest(fd)

	s.closingMu.Lock()
	delete(s.closing, fd)
	s.closingMu.Unlock()

	_ = unix.Close(fd)
}

func (s *Server) tickTimeouts() {
	for _, fd := range s.tbl.Snapshot(nil) {
		b, err := s.tbl.Lookup(fd, false)
		if err != nil {
			continue
		}

		fired := b.DecrementTimeout()
		proto := b.Protocol()
		if fired {
			if proto.Ping != nil {
				if perr := proto.Ping(context.Background(), &conn{srv: s, b: b}); perr != nil {
					b.Unlock()
					s.scheduleClose(fd)
					continue
				}
			} else {
				b.Unlock()
				s.scheduleClose(fd)
				continue
			}
		}
		b.Unlock()
	}
}

func bufferSize(p protocol.Protocol) int {
	if p.BufferSize > 0 {
		return p.BufferSize
	}
	return socket.DefaultBufferSize
}
