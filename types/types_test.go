package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for line labeling
		lk := NewLineKey(1, 0)
		assert.Equal(t, LineKey(1), lk)
		n1, n2 := lk.GetNodes()
		assert.Equal(t, [2]int{1, 0}, [2]int{n1, n2})

		lk = NewLineKey(0, 10)
		assert.Equal(t, LineKey(10*(1<<32)), lk)
		n1, n2 = lk.GetNodes()
		assert.Equal(t, [2]int{0, 10}, [2]int{n1, n2})

		lk = NewLineKey(100, 100001)
		assert.Equal(t, LineKey(100001*(1<<32)+100), lk)
		n1, n2 = lk.GetNodes()
		assert.Equal(t, [2]int{100, 100001}, [2]int{n1, n2})

		// Test maximum/minimum indices
		lk = NewLineKey(1<<32-1, 1<<32-1)
		assert.Equal(t, LineKey(1<<64-1), lk)
		n1, n2 = lk.GetNodes()
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, [2]int{n1, n2})

		assert.Panics(t, func() { NewLineKey(-1, 0) })
	}
	{ // Crossing keys do not depend on the order of the lines
		a, b := NewLineKey(3, 7), NewLineKey(4, 6)
		assert.Equal(t, NewCrossingKey(a, b), NewCrossingKey(b, a))
		assert.NotEqual(t, NewCrossingKey(a, b), NewCrossingKey(a, NewLineKey(4, 5)))
	}
}
