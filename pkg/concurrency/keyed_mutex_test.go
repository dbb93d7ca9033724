package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = km.WithLock("donation-42", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Zero(t, km.pending(), "모든 잠금이 해제되면 엔트리가 정리되어야 합니다")
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[int]()
	unlockA := km.Lock(1)
	defer unlockA()

	var acquired atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		unlock := km.Lock(2)
		acquired.Store(true)
		unlock()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("다른 키의 잠금이 막혔습니다")
	}
	assert.True(t, acquired.Load())
	assert.Equal(t, 1, km.pending())
}

func TestKeyedMutex_WaiterKeepsEntry(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()
	unlock := km.Lock("k")

	entered := make(chan struct{})
	go func() {
		_ = km.WithLock("k", func() error {
			close(entered)
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		km.mu.Lock()
		defer km.mu.Unlock()
		return km.entries["k"] != nil && km.entries["k"].holders == 2
	}, 2*time.Second, 5*time.Millisecond)

	unlock()
	<-entered

	assert.Eventually(t, func() bool { return km.pending() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestKeyedMutex_WithLock_ReturnsError(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()
	want := errors.New("boom")

	err := km.WithLock("k", func() error { return want })
	assert.ErrorIs(t, err, want)
	assert.Zero(t, km.pending())
}
