package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/pizzapos/pkg/event"
)

func TestFireCallsListenersInOrder(t *testing.T) {
	bus := event.New()
	var got []string
	bus.Listen(event.OrderPlaced, func(p any) { got = append(got, "a:"+p.(string)) })
	bus.Listen(event.OrderPlaced, func(p any) { got = append(got, "b:"+p.(string)) })
	bus.Listen(event.TipRecorded, func(any) { t.Fatal("wrong event") })

	bus.Fire(event.OrderPlaced, "ORD-1")
	assert.Equal(t, []string{"a:ORD-1", "b:ORD-1"}, got)
}

func TestListenerAddedDuringFire(t *testing.T) {
	var bus event.Bus
	n := 0
	bus.Listen(event.SalesReset, func(any) {
		n++
		bus.Listen(event.SalesReset, func(any) { n += 10 })
	})

	bus.Fire(event.SalesReset, nil)
	assert.Equal(t, 1, n, "a listener registered mid-fire waits for the next event")
	bus.Fire(event.SalesReset, nil)
	assert.Equal(t, 12, n)
}

func TestNilBus(t *testing.T) {
	var nilBus *event.Bus
	assert.NotPanics(t, func() { nilBus.Fire(event.OrderPlaced, nil) })
}
