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

package reactor_test

import (
	"os"
	"time"

	"github.com/sabouaram/reactord/reactor"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reactor", func() {
	var r reactor.Reactor
	var rd, wr *os.File

	BeforeEach(func() {
		var err error
		r, err = reactor.New()
		Expect(err).To(BeNil())

		rd, wr, err = os.Pipe()
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		_ = rd.Close()
		_ = wr.Close()
		_ = r.Close()
	})

	It("reports readability once the peer writes", func() {
		Expect(r.Register(int(rd.Fd()), reactor.Readable)).To(BeNil())

		_, err := wr.Write([]byte("hello"))
		Expect(err).To(BeNil())

		var events []reactor.Event
		Eventually(func() []reactor.Event {
			ev, werr := r.Wait(100 * time.Millisecond)
			Expect(werr).To(BeNil())
			events = append(events, ev...)
			return events
		}, time.Second).Should(ContainElement(HaveField("Fd", int(rd.Fd()))))

		found := false
		for _, ev := range events {
			if ev.Fd == int(rd.Fd()) {
				Expect(ev.Readable).To(BeTrue())
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("reports the write end as writable once registered", func() {
		Expect(r.Register(int(wr.Fd()), reactor.Writable)).To(BeNil())

		ev, err := r.Wait(time.Second)
		Expect(err).To(BeNil())

		found := false
		for _, e := range ev {
			if e.Fd == int(wr.Fd()) {
				Expect(e.Writable).To(BeTrue())
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("stops reporting events after Unregister", func() {
		Expect(r.Register(int(rd.Fd()), reactor.Readable)).To(BeNil())
		Expect(r.Unregister(int(rd.Fd()))).To(BeNil())

		_, err := wr.Write([]byte("x"))
		Expect(err).To(BeNil())

		ev, err := r.Wait(50 * time.Millisecond)
		Expect(err).To(BeNil())
		for _, e := range ev {
			Expect(e.Fd).NotTo(Equal(int(rd.Fd())))
		}
	})

	It("allows Modify to change the registered interest", func() {
		Expect(r.Register(int(wr.Fd()), reactor.Readable)).To(BeNil())
		Expect(r.Modify(int(wr.Fd()), reactor.Writable)).To(BeNil())

		ev, err := r.Wait(time.Second)
		Expect(err).To(BeNil())

		found := false
		for _, e := range ev {
			if e.Fd == int(wr.Fd()) && e.Writable {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("rejects operations after Close", func() {
		Expect(r.Close()).To(BeNil())
		Expect(r.Register(int(rd.Fd()), reactor.Readable)).NotTo(BeNil())
		_, err := r.Wait(time.Millisecond)
		Expect(err).NotTo(BeNil())
	})
})
