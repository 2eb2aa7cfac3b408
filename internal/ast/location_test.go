package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationOrdering(t *testing.T) {
	a := NewLocation(1, 5)
	b := NewLocation(2, 0)
	c := NewLocation(2, 3)

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, c.Before(a))
	assert.Equal(t, 0, b.Compare(NewLocation(2, 0)))
	assert.Equal(t, 1, c.Compare(b))
	assert.Equal(t, -1, a.Compare(c))
}

func TestLocationWithColOffset(t *testing.T) {
	loc := NewLocation(3, 4)
	assert.Equal(t, NewLocation(3, 5), loc.WithColOffset(1))
	assert.Equal(t, NewLocation(3, 0), loc.WithColOffset(-10))
	assert.Equal(t, "3:4", loc.String())
}

func TestSpanEnd(t *testing.T) {
	span := NewSpan(NewLocation(1, 0), NewLocation(1, 4))
	end, ok := span.End()
	assert.True(t, ok)
	assert.Equal(t, NewLocation(1, 4), end)

	synthetic := Span{Location: NewLocation(1, 0)}
	_, ok = synthetic.End()
	assert.False(t, ok)
	assert.Equal(t, NewLocation(1, 0), synthetic.Start())
}
