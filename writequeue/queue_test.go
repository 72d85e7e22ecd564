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

package writequeue_test

import (
	"os"
	"path/filepath"

	"github.com/sabouaram/reactord/file/progress"
	"github.com/sabouaram/reactord/writequeue"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Queue", func() {
	It("drains a copied packet in call order", func() {
		q := writequeue.New()
		Expect(q.Write([]byte("hello "))).To(BeNil())
		Expect(q.Write([]byte("world"))).To(BeNil())

		var got []byte
		err := q.Drain(func(p []byte) (int, error) {
			got = append(got, p...)
			return len(p), nil
		})
		Expect(err).To(BeNil())
		Expect(string(got)).To(Equal("hello world"))
		Expect(q.Empty()).To(BeTrue())
	})

	It("leaves the packet at head when the hook returns 0", func() {
		q := writequeue.New()
		Expect(q.Write([]byte("abc"))).To(BeNil())

		calls := 0
		err := q.Drain(func(p []byte) (int, error) {
			calls++
			return 0, nil
		})
		Expect(err).To(BeNil())
		Expect(calls).To(Equal(1))
		Expect(q.Empty()).To(BeFalse())

		var got []byte
		_ = q.Drain(func(p []byte) (int, error) {
			got = append(got, p...)
			return len(p), nil
		})
		Expect(string(got)).To(Equal("abc"))
	})

	It("reports a fatal error and stops when the hook returns negative", func() {
		q := writequeue.New()
		Expect(q.Write([]byte("abc"))).To(BeNil())

		err := q.Drain(func(p []byte) (int, error) {
			return -1, nil
		})
		Expect(err).NotTo(BeNil())
	})

	It("inserts urgent packets at position 1, after the current head", func() {
		q := writequeue.New()
		Expect(q.Write([]byte("A"))).To(BeNil())
		Expect(q.Write([]byte("C"))).To(BeNil())
		Expect(q.WriteUrgent([]byte("B"))).To(BeNil())

		var order []byte
		_ = q.Drain(func(p []byte) (int, error) {
			order = append(order, p...)
			return len(p), nil
		})
		Expect(string(order)).To(Equal("ABC"))
	})

	It("inserts at position 0 when the queue is empty", func() {
		q := writequeue.New()
		Expect(q.WriteUrgent([]byte("first"))).To(BeNil())
		Expect(q.Write([]byte("second"))).To(BeNil())

		var order []byte
		_ = q.Drain(func(p []byte) (int, error) {
			order = append(order, p...)
			return len(p), nil
		})
		Expect(string(order)).To(Equal("firstsecond"))
	})

	It("does not copy a WriteMove packet", func() {
		q := writequeue.New()
		buf := []byte("moved")
		Expect(q.WriteMove(buf)).To(BeNil())

		var got []byte
		_ = q.Drain(func(p []byte) (int, error) {
			got = append(got, p...)
			return len(p), nil
		})
		Expect(string(got)).To(Equal("moved"))
	})

	It("reads a file-backed packet in chunks and closes it on EOF", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "payload.bin")
		Expect(os.WriteFile(path, []byte("0123456789"), 0o600)).To(Succeed())

		f, err := progress.Open(path)
		Expect(err).To(BeNil())

		q := writequeue.New()
		Expect(q.SendFile(f, 4)).To(BeNil())

		var got []byte
		err = q.Drain(func(p []byte) (int, error) {
			got = append(got, p...)
			return len(p), nil
		})
		Expect(err).To(BeNil())
		Expect(string(got)).To(Equal("0123456789"))
		Expect(q.Empty()).To(BeTrue())
	})

	It("drops pending packets without sending on Reset", func() {
		q := writequeue.New()
		Expect(q.Write([]byte("dropped"))).To(BeNil())
		q.Reset()
		Expect(q.Empty()).To(BeTrue())
	})
})
