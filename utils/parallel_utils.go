package utils

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into c.ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ParallelFor splits [0, maxIndex) into at most np partitions and runs fn on
// each partition concurrently. The first error returned by any partition is
// returned once all partitions have finished.
func ParallelFor(maxIndex, np int, fn func(kMin, kMax int) error) error {
	if maxIndex <= 0 {
		return nil
	}
	if np <= 0 {
		np = runtime.GOMAXPROCS(0)
	}
	if np > maxIndex {
		np = maxIndex
	}
	var (
		pm = NewPartitionMap(np, maxIndex)
		g  errgroup.Group
	)
	for n := 0; n < pm.ParallelDegree; n++ {
		kMin, kMax := pm.GetBucketRange(n)
		g.Go(func() error { return fn(kMin, kMax) })
	}
	return g.Wait()
}
