package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReloadNotifierFansOut(t *testing.T) {
	n := NewReloadNotifier()

	var a, b int
	n.Subscribe(func() { a++ })
	n.Subscribe(func() { b++ })

	n.Notify()
	n.Notify()

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

func TestReloadNotifierUnsubscribe(t *testing.T) {
	n := NewReloadNotifier()

	var calls int
	unsubscribe := n.Subscribe(func() { calls++ })

	n.Notify()
	unsubscribe()
	unsubscribe() // second call is a no-op
	n.Notify()

	assert.Equal(t, 1, calls)
}

func TestReloadNotifierNoSubscribers(t *testing.T) {
	n := NewReloadNotifier()

	assert.NotPanics(t, n.Notify)
}
