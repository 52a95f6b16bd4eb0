package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocks_SerializesSameID(t *testing.T) {
	l := newAccountLocks()

	unlock := l.lock("1001")

	acquired := make(chan struct{})
	go func() {
		u := l.lock("1001")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestAccountLocks_DifferentIDsDoNotBlock(t *testing.T) {
	l := newAccountLocks()

	u1 := l.lock("1001")
	defer u1()

	done := make(chan struct{})
	go func() {
		u2 := l.lock("1002")
		u2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different id blocked")
	}
}

func TestAccountLocks_EntriesReleased(t *testing.T) {
	l := newAccountLocks()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.lock("1001")()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, l.size())
}
