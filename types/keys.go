package types

import (
	"fmt"
	"math"
)

/*
LineKey stores the two end nodes of a straight segment running between a pair
of pillars. The first node lies on the first pillar of the pair, the second on
the second pillar, so unlike an undirected edge the order is kept as given.
*/
type LineKey uint64

func NewLineKey(n1, n2 int) (packed LineKey) {
	// Packs two node ids into 32 bit halves, the first node in the low half
	var (
		limit = math.MaxUint32
	)
	for _, n := range [2]int{n1, n2} {
		if n < 0 || n > limit {
			panic(fmt.Errorf("unable to pack two node ids into a uint64, have %d and %d as inputs",
				n1, n2))
		}
	}
	packed = LineKey(uint64(n1) | uint64(n2)<<32)
	return
}

func (lk LineKey) GetNodes() (n1, n2 int) {
	n1 = int(lk & math.MaxUint32)
	n2 = int(lk >> 32)
	return
}

/*
CrossingKey identifies the point where two lines in the same pillar pair cross.
Both orderings of the pair produce the same key.
*/
type CrossingKey [2]LineKey

func NewCrossingKey(l1, l2 LineKey) CrossingKey {
	if l2 < l1 {
		l1, l2 = l2, l1
	}
	return CrossingKey{l1, l2}
}
