package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/pizzapos/pkg/collection"
)

type line struct {
	name  string
	price float64
}

var lines = []line{{"classic", 10}, {"water", 2}, {"veggie", 12}}

func TestMapFilter(t *testing.T) {
	names := collection.Map(lines, func(l line) string { return l.name })
	assert.Equal(t, []string{"classic", "water", "veggie"}, names)

	pizzas := collection.Filter(lines, func(l line) bool { return l.price >= 10 })
	assert.Len(t, pizzas, 2)
	assert.Equal(t, []line{{"water", 2}}, collection.Reject(lines, func(l line) bool { return l.price >= 10 }))

	none := collection.Filter(lines, func(line) bool { return false })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCountSum(t *testing.T) {
	assert.Equal(t, 2, collection.Count(lines, func(l line) bool { return l.price > 5 }))
	assert.InDelta(t, 24.0, collection.Sum(lines, func(l line) float64 { return l.price }), 1e-9)
	assert.Zero(t, collection.Sum[line](nil, func(l line) float64 { return l.price }))
}
