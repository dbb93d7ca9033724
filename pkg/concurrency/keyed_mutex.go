// Package concurrency 동시성 제어 유틸리티를 제공합니다.
package concurrency

import "sync"

// KeyedMutex 키마다 독립적인 배타 잠금을 제공합니다.
// 같은 파일이나 같은 후원처럼 한 키에 대한 작업만 직렬화하고, 다른 키의 작업은 막지 않습니다.
// 어떤 고루틴도 잡고 있거나 기다리지 않는 키의 잠금은 즉시 해제되어 메모리에 남지 않습니다.
type KeyedMutex[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*keyedEntry
}

type keyedEntry struct {
	mu sync.Mutex

	// holders 잠금을 보유 중이거나 기다리는 고루틴 수
	holders int
}

func NewKeyedMutex[K comparable]() *KeyedMutex[K] {
	return &KeyedMutex[K]{entries: make(map[K]*keyedEntry)}
}

// Lock key의 잠금을 획득하고, 잠금을 해제하는 함수를 반환합니다. 반환된 함수는 한 번만 호출해야 합니다.
func (km *KeyedMutex[K]) Lock(key K) (unlock func()) {
	km.mu.Lock()
	e := km.entries[key]
	if e == nil {
		e = &keyedEntry{}
		km.entries[key] = e
	}
	e.holders++
	km.mu.Unlock()

	e.mu.Lock()

	return func() { km.release(key, e) }
}

func (km *KeyedMutex[K]) release(key K, e *keyedEntry) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e.mu.Unlock()

	e.holders--
	if e.holders == 0 {
		delete(km.entries, key)
	}
}

// WithLock key의 잠금을 보유한 채로 fn을 실행하고 그 결과를 반환합니다.
func (km *KeyedMutex[K]) WithLock(key K, fn func() error) error {
	unlock := km.Lock(key)
	defer unlock()

	return fn()
}

// pending 잠금을 보유 중이거나 기다리는 키의 수
func (km *KeyedMutex[K]) pending() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.entries)
}
