// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventRingPushPopFIFO(t *testing.T) {
	r := newEventRing(4)
	a, b, c := &Event{}, &Event{}, &Event{}

	require.True(t, r.Push(a))
	require.True(t, r.Push(b))
	require.True(t, r.Push(c))
	require.Equal(t, 3, r.Len())

	got, ok := r.Pop()
	require.True(t, ok)
	require.Same(t, a, got)

	got, ok = r.Pop()
	require.True(t, ok)
	require.Same(t, b, got)
}

func TestEventRingFullReturnsFalse(t *testing.T) {
	r := newEventRing(2)
	require.True(t, r.Push(&Event{}))
	require.True(t, r.Push(&Event{}))
	require.False(t, r.Push(&Event{}))
}

func TestEventRingEmptyPopReturnsFalse(t *testing.T) {
	r := newEventRing(2)
	_, ok := r.Pop()
	require.False(t, ok)
}

func TestEventRingWrapsAround(t *testing.T) {
	r := newEventRing(2)
	for i := 0; i < 100; i++ {
		ev := &Event{}
		require.True(t, r.Push(ev))
		got, ok := r.Pop()
		require.True(t, ok)
		require.Same(t, ev, got)
	}
}

func TestEventRingConcurrentProducersSingleConsumer(t *testing.T) {
	const producers = 8
	const perProducer = 2000
	r := newEventRing(1024)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ev := &Event{}
				for !r.Push(ev) {
					// backpressure: spin until the consumer drains room
				}
			}
		}()
	}

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for received < producers*perProducer {
			if _, ok := r.Pop(); ok {
				received++
			}
		}
	}()

	wg.Wait()
	<-done
	require.Equal(t, producers*perProducer, received)
}
