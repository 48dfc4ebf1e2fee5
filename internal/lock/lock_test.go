/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package lock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/internal/lock"
)

var _ = Describe("Mutex", func() {
	It("TryLock fails while held and succeeds after Unlock", func() {
		m := lock.NewMutex(false)
		Expect(m.TryLock(nil)).To(BeTrue())
		Expect(m.TryLock(nil)).To(BeFalse())
		m.Unlock()
		Expect(m.TryLock(nil)).To(BeTrue())
	})

	It("times out a positive-deadline Lock held by someone else", func() {
		m := lock.NewMutex(false)
		Expect(m.Lock("a", -1)).To(BeTrue())

		start := time.Now()
		ok := m.Lock("b", 20*time.Millisecond)
		Expect(ok).To(BeFalse())
		Expect(time.Since(start)).To(BeNumerically(">=", 15*time.Millisecond))
	})

	It("allows the same owner to re-enter when recursive", func() {
		m := lock.NewMutex(true)
		Expect(m.Lock("owner", -1)).To(BeTrue())
		Expect(m.Lock("owner", 0)).To(BeTrue())
		m.Unlock()
		// still held once more by the outer Lock
		Expect(m.TryLock("other")).To(BeFalse())
		m.Unlock()
		Expect(m.TryLock("other")).To(BeTrue())
	})

	It("blocks a different owner from entering a recursive mutex", func() {
		m := lock.NewMutex(true)
		Expect(m.Lock("owner", -1)).To(BeTrue())
		Expect(m.Lock("stranger", 0)).To(BeFalse())
	})
})

var _ = Describe("Semaphore", func() {
	It("allows up to maxCount concurrent holders", func() {
		s := lock.NewSemaphore(2, 2)
		Expect(s.Lock(0)).To(BeTrue())
		Expect(s.Lock(0)).To(BeTrue())
		Expect(s.Lock(0)).To(BeFalse())
		s.Unlock()
		Expect(s.Lock(0)).To(BeTrue())
	})

	It("starts partially pre-acquired when initialCount is below maxCount", func() {
		s := lock.NewSemaphore(2, 1)
		Expect(s.Lock(0)).To(BeTrue())
		Expect(s.Lock(0)).To(BeFalse())
	})

	It("Unlock is a no-op once every held unit has been released", func() {
		s := lock.NewSemaphore(1, 1)
		Expect(s.Lock(0)).To(BeTrue())
		s.Unlock()
		s.Unlock() // must not panic or over-release
		Expect(s.Lock(0)).To(BeTrue())
	})
})

var _ = Describe("RWLock scoped helpers", func() {
	It("allows concurrent readers", func() {
		r := lock.NewRWLock(false)
		done := make(chan struct{})
		release1 := lock.RScoped(r)
		go func() {
			defer GinkgoRecover()
			release2 := lock.RScoped(r)
			defer release2()
			close(done)
		}()
		Eventually(done).Should(BeClosed())
		release1()
	})

	It("serialises readers and writers when degraded", func() {
		r := lock.NewRWLock(true)
		release := lock.WScoped(r)
		acquired := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			rel := lock.RScoped(r)
			close(acquired)
			rel()
		}()

		Consistently(acquired, 20*time.Millisecond).ShouldNot(BeClosed())
		release()
		Eventually(acquired).Should(BeClosed())
	})
})

var _ = Describe("Thread", func() {
	It("Check reflects a soft Cancel without closing Done", func() {
		th := lock.NewThread()
		Expect(th.Check()).To(BeFalse())
		th.Cancel(false)
		Expect(th.Check()).To(BeTrue())

		select {
		case <-th.Done():
			Fail("Done should not be closed by a soft cancel")
		default:
		}
	})

	It("a hard Cancel closes Done immediately", func() {
		th := lock.NewThread()
		th.Cancel(true)
		Eventually(th.Done()).Should(BeClosed())
	})

	It("Idle returns false when cancelled before the deadline", func() {
		th := lock.NewThread()
		go func() {
			time.Sleep(5 * time.Millisecond)
			th.Cancel(true)
		}()
		Expect(th.Idle(time.Second)).To(BeFalse())
	})

	It("Idle returns true once the duration elapses uncancelled", func() {
		th := lock.NewThread()
		Expect(th.Idle(5 * time.Millisecond)).To(BeTrue())
	})
})
