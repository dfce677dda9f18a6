package grouping

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSectionLocksSerializeSameSection(t *testing.T) {
	l := newSectionLocks()
	id := uuid.New()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock(id)
			defer unlock()
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Zero(t, l.size())
}

func TestSectionLocksIndependentSections(t *testing.T) {
	l := newSectionLocks()
	unlockA := l.lock(uuid.New())
	done := make(chan struct{})
	go func() {
		unlockB := l.lock(uuid.New())
		unlockB()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, l.size())
	unlockA()
	assert.Zero(t, l.size())
}
