package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBasics(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	assert.True(t, s.Has("c"))
	assert.Equal(t, 3, s.Len())

	s.Delete("a")
	assert.False(t, s.Has("a"))

	c := s.Clone()
	c.Add("z")
	assert.False(t, s.Has("z"))
}

func TestSetAlgebra(t *testing.T) {
	a := New("flex", "gap-4", "w-full")
	b := New("flex", "w-full", "p-2")

	assert.Equal(t, []string{"flex", "w-full"}, Sorted(a.Intersect(b)))
	assert.Equal(t, []string{"gap-4"}, Sorted(a.Difference(b)))
	assert.True(t, New("x", "y").Equal(New("y", "x")))
	assert.False(t, a.Equal(b))
}
