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
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// registry is the process-wide list of listening Servers (§9: "a small
// list protected by a mutex"), used by StopAll and the SIGINT/SIGTERM
// trap. Initialized lazily on the first Listen, never torn down (the
// zero value is already empty and safe to reuse after the last Stop).
var registry = struct {
	mu      sync.Mutex
	servers map[*Server]struct{}
	sigOnce sync.Once
	sigCh   chan os.Signal
}{servers: make(map[*Server]struct{})}

func registryAdd(s *Server) {
	registry.mu.Lock()
	registry.servers[s] = struct{}{}
	registry.mu.Unlock()

	registry.sigOnce.Do(func() {
		registry.sigCh = make(chan os.Signal, 1)
		signal.Notify(registry.sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			for range registry.sigCh {
				StopAll()
			}
		}()
	})
}

func registryRemove(s *Server) {
	registry.mu.Lock()
	delete(registry.servers, s)
	registry.mu.Unlock()
}

// StopAll stops every server currently listening in this process. The
// root process of a multi-process deployment propagates this to its
// children via SIGTERM (see Settings.Processes / server.go).
func StopAll() {
	registry.mu.Lock()
	servers := make([]*Server, 0, len(registry.servers))
	for s := range registry.servers {
		servers = append(servers, s)
	}
	registry.mu.Unlock()

	for _, s := range servers {
		s.Stop()
	}
}
